package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/mdyou/internal/config"
)

func matchChoice(kind, s string, choices []string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, choice := range choices {
		if s == choice {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q (want %s)", kind, s, strings.Join(choices, ", "))
}

// choiceValue is a pflag.Value restricted to a fixed set of strings.
type choiceValue struct {
	value   *string
	choices []string
	kind    string
}

func (c *choiceValue) String() string {
	if c.value == nil {
		return ""
	}
	return *c.value
}

func (c *choiceValue) Set(s string) error {
	v, err := matchChoice(c.kind, s, c.choices)
	if err != nil {
		return err
	}
	*c.value = v
	return nil
}

func (c *choiceValue) Type() string {
	return c.kind
}

// themeValue holds light, dark or auto.
type themeValue string

func (t *themeValue) String() string { return string(*t) }

func (t *themeValue) Set(s string) error {
	v, err := matchChoice("theme", s, []string{"light", "dark", config.ThemeAuto})
	if err != nil {
		return err
	}
	*t = themeValue(v)
	return nil
}

func (t *themeValue) Type() string { return "theme" }

// libraryValue holds a tonal library kind.
type libraryValue string

func (l *libraryValue) String() string { return string(*l) }

func (l *libraryValue) Set(s string) error {
	v, err := matchChoice("library", s, []string{config.LibraryMatcolor, config.LibraryPlugin, config.LibraryNone})
	if err != nil {
		return err
	}
	*l = libraryValue(v)
	return nil
}

func (l *libraryValue) Type() string { return "library" }

// Output formats.
const (
	formatCSS   = "css"
	formatJSON  = "json"
	formatTable = "table"
)

// newFormatFlag registers --format on fs with the given choices; the
// first choice is the default.
func newFormatFlag(fs *pflag.FlagSet, target *string, choices ...string) {
	*target = choices[0]
	fs.VarP(&choiceValue{value: target, choices: choices, kind: "format"}, "format", "f",
		"output format ("+strings.Join(choices, ", ")+")")
}

// Colour output modes for preview.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

func newColorFlag(fs *pflag.FlagSet, target *string) {
	*target = colorAuto
	fs.Var(&choiceValue{value: target, choices: []string{colorAuto, colorAlways, colorNever}, kind: "when"},
		"color", "colour swatches (auto, always, never)")
}
