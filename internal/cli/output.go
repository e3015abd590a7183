package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/jmylchreest/mdyou/internal/css"
	"github.com/jmylchreest/mdyou/internal/scheme"
	"github.com/jmylchreest/mdyou/internal/version"
)

func (a *app) cssOptions(s *schemes) css.Options {
	return css.Options{
		Prefix:   a.cfg.CSS.Prefix,
		Selector: a.cfg.CSS.Selector,
		Header:   header(s),
	}
}

func header(s *schemes) string {
	parts := make([]string, 0, len(s.Results))
	for i, res := range s.Results {
		parts = append(parts, fmt.Sprintf("%s: %s", s.Modes[i], res.Source))
	}
	return fmt.Sprintf("mdyou %s, source %s (%s)", version.Short(), s.Source, strings.Join(parts, ", "))
}

// renderCSS writes one rule for a single mode, or light plus a dark media
// query for two.
func (a *app) renderCSS(w io.Writer, s *schemes) error {
	opts := a.cssOptions(s)
	if len(s.Results) == 2 {
		return css.RenderModes(w, s.Results[0].Colors, s.Results[1].Colors, opts)
	}
	return css.Render(w, s.Results[0].Colors, opts)
}

type jsonScheme struct {
	Mode      scheme.ThemeMode    `json:"mode"`
	Generator string              `json:"generator"`
	Reason    string              `json:"reason,omitempty"`
	Colors    scheme.RoleColorSet `json:"colors"`
}

type jsonOutput struct {
	Source  string       `json:"source"`
	Library string       `json:"library"`
	Schemes []jsonScheme `json:"schemes"`
}

func renderJSON(w io.Writer, s *schemes) error {
	out := jsonOutput{Source: s.Source, Library: s.Library}
	for i, res := range s.Results {
		js := jsonScheme{Mode: s.Modes[i], Generator: res.Source.String(), Colors: res.Colors}
		if res.Reason != nil {
			js.Reason = res.Reason.Error()
		}
		out.Schemes = append(out.Schemes, js)
	}
	return writeJSON(w, out)
}

func renderTable(w io.Writer, s *schemes) error {
	headers := []string{"ROLE"}
	for i, mode := range s.Modes {
		headers = append(headers, fmt.Sprintf("%s (%s)", strings.ToUpper(mode.String()), s.Results[i].Source))
	}

	t := NewTable(headers...)
	for _, role := range scheme.AllRoles() {
		row := []string{string(role)}
		for _, res := range s.Results {
			row = append(row, res.Colors.Hex(role))
		}
		t.AddRow(row...)
	}
	_, err := io.WriteString(w, t.Render())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutput writes content to path, or to w when path is "" or "-".
func writeOutput(w io.Writer, path string, content []byte, backup bool) (string, error) {
	if path == "" || path == "-" {
		_, err := w.Write(content)
		return "", err
	}
	return writeFile(path, content, backup)
}

// writeFile writes content to path, creating directories as needed and
// optionally keeping the previous file as path.backup. It returns the
// expanded path.
func writeFile(path string, content []byte, backup bool) (string, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand output path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301 - stylesheet directory
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if backup {
		if old, err := os.ReadFile(path); err == nil && !bytes.Equal(old, content) { // #nosec G304 - user-specified output
			if err := os.WriteFile(path+".backup", old, 0o644); err != nil { // #nosec G306 - stylesheet
				return "", fmt.Errorf("failed to create backup: %w", err)
			}
		}
	}

	if err := os.WriteFile(path, content, 0o644); err != nil { // #nosec G306 - stylesheet
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}
