package scheme

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jmylchreest/mdyou/internal/colour"
)

// RoleColorSet maps every role to a colour. The zero value is not a valid
// set; obtain one from a Generator, Fallback or NewRoleColorSet. Sets are
// immutable values.
type RoleColorSet struct {
	colours [RoleCount]colour.RGB
	valid   bool
}

// NewRoleColorSet builds a set from m, which must name exactly the defined roles.
func NewRoleColorSet(m map[Role]colour.RGB) (RoleColorSet, error) {
	b := newBuilder()
	for role, rgb := range m {
		if !role.IsValid() {
			return RoleColorSet{}, fmt.Errorf("unknown role %q", role)
		}
		b.set(role, rgb)
	}
	return b.build()
}

// IsValid reports whether the set is fully populated.
func (s RoleColorSet) IsValid() bool {
	return s.valid
}

// Get returns the colour for role.
func (s RoleColorSet) Get(role Role) (colour.RGB, bool) {
	i, ok := roleIndex[role]
	if !ok || !s.valid {
		return colour.Black, false
	}
	return s.colours[i], true
}

// Hex returns the "#RRGGBB" colour for role, or "" for an unknown role.
func (s RoleColorSet) Hex(role Role) string {
	rgb, ok := s.Get(role)
	if !ok {
		return ""
	}
	return rgb.Hex()
}

// Roles returns the roles of the set in canonical order.
func (s RoleColorSet) Roles() []Role {
	return AllRoles()
}

// Map returns a copy of the set keyed by role with hex values.
func (s RoleColorSet) Map() map[Role]string {
	m := make(map[Role]string, RoleCount)
	if !s.valid {
		return m
	}
	for i, role := range allRoles {
		m[role] = s.colours[i].Hex()
	}
	return m
}

// Equal reports whether two sets hold the same colours.
func (s RoleColorSet) Equal(o RoleColorSet) bool {
	return s == o
}

// Diff lists the roles whose colours differ between s and o.
func (s RoleColorSet) Diff(o RoleColorSet) []Role {
	var diff []Role
	for i, role := range allRoles {
		if s.colours[i] != o.colours[i] {
			diff = append(diff, role)
		}
	}
	return diff
}

// MarshalJSON encodes the set as {"role": "#RRGGBB"} in canonical order.
func (s RoleColorSet) MarshalJSON() ([]byte, error) {
	if !s.valid {
		return nil, fmt.Errorf("cannot marshal an incomplete role colour set")
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, role := range allRoles {
		if i > 0 {
			sb.WriteByte(',')
		}
		key, _ := json.Marshal(string(role))
		sb.Write(key)
		sb.WriteString(`:"`)
		sb.WriteString(s.colours[i].Hex())
		sb.WriteByte('"')
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// UnmarshalJSON decodes a set written by MarshalJSON. Values must be
// well-formed hex colours.
func (s *RoleColorSet) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m := make(map[Role]colour.RGB, len(raw))
	for k, v := range raw {
		rgb, err := colour.ParseHexStrict(v)
		if err != nil {
			return fmt.Errorf("role %s: %w", k, err)
		}
		m[Role(k)] = rgb
	}

	set, err := NewRoleColorSet(m)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

// builder accumulates role colours and refuses to produce a partial set.
type builder struct {
	colours [RoleCount]colour.RGB
	seen    [RoleCount]bool
}

func newBuilder() *builder {
	return &builder{}
}

func (b *builder) set(role Role, rgb colour.RGB) *builder {
	i := roleIndex[role]
	b.colours[i] = rgb
	b.seen[i] = true
	return b
}

func (b *builder) setHex(role Role, hex string) *builder {
	return b.set(role, colour.ParseHex(hex))
}

func (b *builder) build() (RoleColorSet, error) {
	var missing []string
	for i, ok := range b.seen {
		if !ok {
			missing = append(missing, string(allRoles[i]))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return RoleColorSet{}, fmt.Errorf("role colour set is missing %d roles: %s", len(missing), strings.Join(missing, ", "))
	}
	return RoleColorSet{colours: b.colours, valid: true}, nil
}

// mustBuild is for tables that assign every role by construction.
func (b *builder) mustBuild() RoleColorSet {
	set, err := b.build()
	if err != nil {
		panic(err)
	}
	return set
}
