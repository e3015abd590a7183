// Package scheme generates Material You role colour sets from a source colour.
package scheme

// Role names one slot of a colour scheme.
type Role string

const (
	RolePrimary            Role = "primary"
	RoleOnPrimary          Role = "onPrimary"
	RolePrimaryContainer   Role = "primaryContainer"
	RoleOnPrimaryContainer Role = "onPrimaryContainer"

	RoleSecondary            Role = "secondary"
	RoleOnSecondary          Role = "onSecondary"
	RoleSecondaryContainer   Role = "secondaryContainer"
	RoleOnSecondaryContainer Role = "onSecondaryContainer"

	RoleTertiary            Role = "tertiary"
	RoleOnTertiary          Role = "onTertiary"
	RoleTertiaryContainer   Role = "tertiaryContainer"
	RoleOnTertiaryContainer Role = "onTertiaryContainer"

	RoleBackground       Role = "background"
	RoleOnBackground     Role = "onBackground"
	RoleSurface          Role = "surface"
	RoleOnSurface        Role = "onSurface"
	RoleSurfaceVariant   Role = "surfaceVariant"
	RoleOnSurfaceVariant Role = "onSurfaceVariant"
	RoleOutline          Role = "outline"
	RoleOutlineVariant   Role = "outlineVariant"

	RoleError            Role = "error"
	RoleOnError          Role = "onError"
	RoleErrorContainer   Role = "errorContainer"
	RoleOnErrorContainer Role = "onErrorContainer"

	RoleScrim Role = "scrim"
)

// allRoles is the canonical role order.
var allRoles = []Role{
	RolePrimary, RoleOnPrimary, RolePrimaryContainer, RoleOnPrimaryContainer,
	RoleSecondary, RoleOnSecondary, RoleSecondaryContainer, RoleOnSecondaryContainer,
	RoleTertiary, RoleOnTertiary, RoleTertiaryContainer, RoleOnTertiaryContainer,
	RoleBackground, RoleOnBackground, RoleSurface, RoleOnSurface,
	RoleSurfaceVariant, RoleOnSurfaceVariant, RoleOutline, RoleOutlineVariant,
	RoleError, RoleOnError, RoleErrorContainer, RoleOnErrorContainer,
	RoleScrim,
}

var roleIndex = func() map[Role]int {
	m := make(map[Role]int, len(allRoles))
	for i, r := range allRoles {
		m[r] = i
	}
	return m
}()

// RoleCount is the number of roles in every scheme.
const RoleCount = 25

// AllRoles returns every role in canonical order.
func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// IsValid reports whether r is one of the defined roles.
func (r Role) IsValid() bool {
	_, ok := roleIndex[r]
	return ok
}

// String returns the role name.
func (r Role) String() string {
	return string(r)
}
