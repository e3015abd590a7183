package css

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jmylchreest/mdyou/internal/colour"
	"github.com/jmylchreest/mdyou/internal/scheme"
)

// Alias maps a hardcoded stylesheet colour to the role that replaces it.
type Alias struct {
	Hex  string
	Role scheme.Role
}

// AliasTable is an ordered hex → role table. Hex keys are unique.
type AliasTable []Alias

// DefaultAliases covers the literal colours of the stock light and dark
// stylesheets. Colours used by both sheets map to their dark-sheet role.
var DefaultAliases = AliasTable{
	{"#E3F2FD", scheme.RoleOnBackground},
	{"#0D47A1", scheme.RoleOnPrimaryContainer},
	{"#BBDEFB", scheme.RoleOutline},
	{"#FFFFFF", scheme.RoleSurface},
	{"#1976D2", scheme.RolePrimary},
	{"#90CAF9", scheme.RoleSecondary},
	{"#F0F7FF", scheme.RolePrimaryContainer},
	{"#B3E5FC", scheme.RoleOnPrimaryContainer},
	{"#01579B", scheme.RoleOnTertiary},
	{"#E1F5FE", scheme.RoleSecondaryContainer},
	{"#0277BD", scheme.RoleOnSecondary},
	{"#B0BEC5", scheme.RoleSurfaceVariant},
	{"#263238", scheme.RoleOnSurfaceVariant},
	{"#1565C0", scheme.RolePrimaryContainer},
	{"#81D4FA", scheme.RolePrimary},
	{"#004B7A", scheme.RolePrimaryContainer},
	{"#0D223A", scheme.RoleBackground},
	{"#102840", scheme.RoleSurface},
	{"#183A5A", scheme.RoleSurfaceVariant},
	{"#37474F", scheme.RoleOutline},
}

// NewAliasTable builds a table from entries, normalising hex keys. A
// repeated key keeps its first position and takes the last role given.
func NewAliasTable(entries []Alias) (AliasTable, error) {
	index := make(map[string]int, len(entries))
	table := make(AliasTable, 0, len(entries))
	for _, e := range entries {
		rgb, err := colour.ParseHexStrict(e.Hex)
		if err != nil {
			return nil, err
		}
		if !e.Role.IsValid() {
			return nil, fmt.Errorf("alias %s: unknown role %q", e.Hex, e.Role)
		}
		hex := rgb.Hex()
		if i, ok := index[hex]; ok {
			table[i].Role = e.Role
			continue
		}
		index[hex] = len(table)
		table = append(table, Alias{Hex: hex, Role: e.Role})
	}
	return table, nil
}

// ParseAliases parses "HEX=role" pairs, as given on the command line.
func ParseAliases(pairs map[string]string) (AliasTable, error) {
	entries := make([]Alias, 0, len(pairs))
	for hex, role := range pairs {
		entries = append(entries, Alias{Hex: hex, Role: scheme.Role(role)})
	}
	table, err := NewAliasTable(entries)
	if err != nil {
		return nil, err
	}
	// Map iteration order is random; keep output stable.
	sortAliases(table)
	return table, nil
}

// Merge returns t with other's entries applied on top.
func (t AliasTable) Merge(other AliasTable) AliasTable {
	merged, _ := NewAliasTable(append(append([]Alias{}, t...), other...))
	return merged
}

// Lookup returns the role for a hex colour (any case, '#' optional).
func (t AliasTable) Lookup(hex string) (scheme.Role, bool) {
	rgb, err := colour.ParseHexStrict(hex)
	if err != nil {
		return "", false
	}
	want := rgb.Hex()
	for _, a := range t {
		if a.Hex == want {
			return a.Role, true
		}
	}
	return "", false
}

// AliasPropertyName returns the alias property for a hex colour,
// e.g. "--color-e3f2fd".
func AliasPropertyName(hex string) string {
	return "--color-" + strings.ToLower(strings.TrimPrefix(hex, "#"))
}

// Declaration is one custom property and its value.
type Declaration struct {
	Name  string
	Value string
}

// AliasRules returns one --color-<hex> declaration per alias, valued with
// the colour its role has in set, in table order.
func AliasRules(set scheme.RoleColorSet, table AliasTable) []Declaration {
	decls := make([]Declaration, 0, len(table))
	for _, a := range table {
		decls = append(decls, Declaration{Name: AliasPropertyName(a.Hex), Value: set.Hex(a.Role)})
	}
	return decls
}

// RenderAliases writes AliasRules as a single rule.
func RenderAliases(w io.Writer, set scheme.RoleColorSet, table AliasTable, opts Options) error {
	if !set.IsValid() {
		return fmt.Errorf("cannot render aliases for an incomplete role colour set")
	}
	opts = opts.withDefaults()

	bw := bufio.NewWriter(w)
	writeHeader(bw, opts.Header)
	fmt.Fprintf(bw, "%s {\n", opts.Selector)
	for _, d := range AliasRules(set, table) {
		fmt.Fprintf(bw, "  %s: %s;\n", d.Name, d.Value)
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

func sortAliases(t AliasTable) {
	sort.Slice(t, func(i, j int) bool { return t[i].Hex < t[j].Hex })
}
