package cli

import (
	"strings"
	"testing"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable("Role", "Hex")

	table.AddRow("primary", "#1666B6")
	table.AddRow("scrim")
	table.AddRow("surface", "#FFFFFF", "extra")

	if len(table.rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(table.rows))
	}
	for i, row := range table.rows {
		if len(row) != 2 {
			t.Errorf("row %d has %d cells, want 2", i, len(row))
		}
	}
	if table.rows[1][1] != "" {
		t.Errorf("Expected empty padded cell, got %q", table.rows[1][1])
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable("ROLE", "LIGHT")
	table.AddRow("primary", "#1666B6")
	table.AddRow("onPrimaryContainer", "#051A2E")

	want := "" +
		"ROLE                LIGHT\n" +
		"------------------  -------\n" +
		"primary             #1666B6\n" +
		"onPrimaryContainer  #051A2E\n"
	if got := table.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestTableRenderEmpty(t *testing.T) {
	if got := NewTable().Render(); got != "" {
		t.Errorf("Render() with no headers = %q", got)
	}

	got := NewTable("A", "B").Render()
	if lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n"); len(lines) != 2 {
		t.Errorf("header-only table has %d lines, want 2", len(lines))
	}
}

func TestTableRenderMultibyte(t *testing.T) {
	table := NewTable("NAME", "X")
	table.AddRow("café", "1")
	table.AddRow("ab", "2")

	lines := strings.Split(table.Render(), "\n")
	if lines[2] != "café  1" || lines[3] != "ab    2" {
		t.Errorf("misaligned multibyte rows: %q", lines[2:4])
	}
}
