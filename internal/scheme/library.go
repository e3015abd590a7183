package scheme

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmylchreest/mdyou/internal/colour"
	"github.com/jmylchreest/mdyou/internal/tonal"
)

// ErrLibraryUnavailable is returned when the tonal library is missing,
// not ready, or fails. Callers degrade to Fallback.
var ErrLibraryUnavailable = errors.New("tonal library unavailable")

// paletteID names one of the six tonal palettes of a theme.
type paletteID int

const (
	palettePrimary paletteID = iota
	paletteSecondary
	paletteTertiary
	paletteNeutral
	paletteNeutralVariant
	paletteError
)

func (id paletteID) of(t *tonal.Theme) tonal.Palette {
	switch id {
	case palettePrimary:
		return t.Primary
	case paletteSecondary:
		return t.Secondary
	case paletteTertiary:
		return t.Tertiary
	case paletteNeutral:
		return t.Neutral
	case paletteNeutralVariant:
		return t.NeutralVariant
	default:
		return t.Error
	}
}

// toneRule assigns a role to a palette tone, per mode.
type toneRule struct {
	role    Role
	palette paletteID
	light   int
	dark    int
}

func (r toneRule) tone(mode ThemeMode) int {
	if mode.IsDark() {
		return r.dark
	}
	return r.light
}

// toneTable is the role → (palette, tone) mapping for library themes.
var toneTable = []toneRule{
	{RolePrimary, palettePrimary, 40, 40},
	{RoleOnPrimary, palettePrimary, 100, 100},
	{RolePrimaryContainer, palettePrimary, 90, 90},
	{RoleOnPrimaryContainer, palettePrimary, 10, 10},

	{RoleSecondary, paletteSecondary, 40, 40},
	{RoleOnSecondary, paletteSecondary, 100, 100},
	{RoleSecondaryContainer, paletteSecondary, 90, 90},
	{RoleOnSecondaryContainer, paletteSecondary, 10, 10},

	{RoleTertiary, paletteTertiary, 40, 40},
	{RoleOnTertiary, paletteTertiary, 100, 100},
	{RoleTertiaryContainer, paletteTertiary, 90, 90},
	{RoleOnTertiaryContainer, paletteTertiary, 10, 10},

	{RoleBackground, paletteNeutral, 99, 10},
	{RoleOnBackground, paletteNeutral, 10, 90},
	{RoleSurface, paletteNeutral, 99, 10},
	{RoleOnSurface, paletteNeutral, 10, 90},

	{RoleSurfaceVariant, paletteNeutralVariant, 90, 30},
	{RoleOnSurfaceVariant, paletteNeutralVariant, 30, 80},
	{RoleOutline, paletteNeutralVariant, 50, 60},
	{RoleOutlineVariant, paletteNeutralVariant, 80, 30},

	{RoleError, paletteError, 40, 40},
	{RoleOnError, paletteError, 100, 100},
	{RoleErrorContainer, paletteError, 90, 90},
	{RoleOnErrorContainer, paletteError, 10, 10},

	{RoleScrim, paletteNeutral, 0, 0},
}

// FromTheme maps a library theme onto the role table.
func FromTheme(theme *tonal.Theme, mode ThemeMode) (RoleColorSet, error) {
	if err := theme.Validate(); err != nil {
		return RoleColorSet{}, err
	}

	b := newBuilder()
	for _, rule := range toneTable {
		b.set(rule.role, colour.FromARGB(rule.palette.of(theme).Tone(rule.tone(mode))))
	}
	return b.build()
}

// fromLibrary runs the library path. Every failure is reported as
// ErrLibraryUnavailable wrapping the cause.
func fromLibrary(ctx context.Context, lib tonal.Library, source string, mode ThemeMode) (set RoleColorSet, err error) {
	if lib == nil || !lib.Ready() {
		return RoleColorSet{}, ErrLibraryUnavailable
	}

	// A panicking third-party library is treated like any other failure.
	defer func() {
		if r := recover(); r != nil {
			set = RoleColorSet{}
			err = fmt.Errorf("%w: %s panicked: %v", ErrLibraryUnavailable, lib.Name(), r)
		}
	}()

	argb := colour.ParseHex(source).ARGB()
	theme, err := lib.Theme(ctx, argb, mode.IsDark())
	if err != nil {
		return RoleColorSet{}, fmt.Errorf("%w: %s: %w", ErrLibraryUnavailable, lib.Name(), err)
	}

	set, err = FromTheme(theme, mode)
	if err != nil {
		return RoleColorSet{}, fmt.Errorf("%w: %s: %w", ErrLibraryUnavailable, lib.Name(), err)
	}
	return set, nil
}
