// Package css renders role colour sets as CSS custom properties and
// retrofits stylesheets to reference them.
package css

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/mdyou/internal/scheme"
)

const (
	// DefaultPrefix namespaces every role property.
	DefaultPrefix = "--md3-"

	// DefaultSelector is the rule the properties are declared on.
	DefaultSelector = ":root"
)

// Options controls how properties are rendered.
type Options struct {
	Prefix   string
	Selector string
	// Header is written as a comment above the rules when non-empty.
	Header string
}

func (o Options) withDefaults() Options {
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.Selector == "" {
		o.Selector = DefaultSelector
	}
	return o
}

// PropertyName returns the custom property name for role.
func PropertyName(prefix string, role scheme.Role) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + string(role)
}

// Render writes one rule declaring a property per role, in canonical order.
func Render(w io.Writer, set scheme.RoleColorSet, opts Options) error {
	if !set.IsValid() {
		return fmt.Errorf("cannot render an incomplete role colour set")
	}
	opts = opts.withDefaults()

	bw := bufio.NewWriter(w)
	writeHeader(bw, opts.Header)
	writeRule(bw, opts.Selector, opts.Prefix, set, "")
	return bw.Flush()
}

// RenderModes writes the light set on the selector and the dark set under
// a prefers-color-scheme media query.
func RenderModes(w io.Writer, light, dark scheme.RoleColorSet, opts Options) error {
	if !light.IsValid() || !dark.IsValid() {
		return fmt.Errorf("cannot render an incomplete role colour set")
	}
	opts = opts.withDefaults()

	bw := bufio.NewWriter(w)
	writeHeader(bw, opts.Header)
	writeRule(bw, opts.Selector, opts.Prefix, light, "")
	bw.WriteString("\n@media (prefers-color-scheme: dark) {\n")
	writeRule(bw, opts.Selector, opts.Prefix, dark, "  ")
	bw.WriteString("}\n")
	return bw.Flush()
}

func writeHeader(w *bufio.Writer, header string) {
	if header == "" {
		return
	}
	w.WriteString("/* ")
	w.WriteString(strings.ReplaceAll(header, "*/", "* /"))
	w.WriteString(" */\n")
}

func writeRule(w *bufio.Writer, selector, prefix string, set scheme.RoleColorSet, indent string) {
	fmt.Fprintf(w, "%s%s {\n", indent, selector)
	for _, role := range set.Roles() {
		fmt.Fprintf(w, "%s  %s: %s;\n", indent, PropertyName(prefix, role), set.Hex(role))
	}
	fmt.Fprintf(w, "%s}\n", indent)
}
