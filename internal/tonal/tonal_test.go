package tonal

import (
	"context"
	"errors"
	"testing"

	"github.com/jmylchreest/mdyou/internal/colour"
)

func TestMatcolorTheme(t *testing.T) {
	lib := NewMatcolor()
	if !lib.Ready() {
		t.Fatal("matcolor library should always be ready")
	}

	theme, err := lib.Theme(context.Background(), colour.ParseHex("#1976D2").ARGB(), false)
	if err != nil {
		t.Fatalf("Theme() error = %v", err)
	}
	if err := theme.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if got := colour.ARGBToHex(theme.Primary.Tone(0)); got != "#000000" {
		t.Errorf("primary tone 0 = %s, want #000000", got)
	}
	if got := colour.ARGBToHex(theme.Neutral.Tone(100)); got != "#FFFFFF" {
		t.Errorf("neutral tone 100 = %s, want #FFFFFF", got)
	}
	if theme.Primary.Tone(40) == theme.Primary.Tone(90) {
		t.Error("tones 40 and 90 should differ")
	}

	// Lighter tones must not be darker.
	if colour.Luminance(colour.FromARGB(theme.Primary.Tone(90))) <= colour.Luminance(colour.FromARGB(theme.Primary.Tone(40))) {
		t.Error("tone 90 should be lighter than tone 40")
	}
}

func TestMatcolorDeterministic(t *testing.T) {
	lib := NewMatcolor()
	argb := colour.ParseHex("#6750A4").ARGB()

	a, err := lib.Theme(context.Background(), argb, true)
	if err != nil {
		t.Fatalf("Theme() error = %v", err)
	}
	b, err := lib.Theme(context.Background(), argb, false)
	if err != nil {
		t.Fatalf("Theme() error = %v", err)
	}

	for _, tone := range []int{0, 10, 40, 90, 99, 100} {
		if a.Tertiary.Tone(tone) != b.Tertiary.Tone(tone) {
			t.Errorf("tertiary tone %d differs between modes", tone)
		}
	}
}

func TestMatcolorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewMatcolor().Theme(ctx, 0xFF000000, false); !errors.Is(err, context.Canceled) {
		t.Errorf("Theme() error = %v, want context.Canceled", err)
	}
}

func TestUnavailable(t *testing.T) {
	lib := Unavailable()
	if lib.Ready() {
		t.Error("Unavailable library reported ready")
	}
	if _, err := lib.Theme(context.Background(), 0, false); !errors.Is(err, ErrNotReady) {
		t.Errorf("Theme() error = %v, want ErrNotReady", err)
	}
}

func TestTableClampsTones(t *testing.T) {
	var table Table
	for i := range table {
		table[i] = uint32(i)
	}

	tests := []struct {
		tone int
		want uint32
	}{
		{-5, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{250, 100},
	}
	for _, tt := range tests {
		if got := table.Tone(tt.tone); got != tt.want {
			t.Errorf("Tone(%d) = %d, want %d", tt.tone, got, tt.want)
		}
	}

	if m := Materialise(&table); *m != table {
		t.Error("Materialise should reproduce the table")
	}
}

func TestThemeValidate(t *testing.T) {
	var nilTheme *Theme
	if err := nilTheme.Validate(); err == nil {
		t.Error("Expected error for nil theme")
	}

	partial := &Theme{Primary: &Table{}}
	if err := partial.Validate(); err == nil {
		t.Error("Expected error for theme missing palettes")
	}
}
