package scheme

import "github.com/jmylchreest/mdyou/internal/colour"

// accentFamilies are the three role families that share a tone layout.
var accentFamilies = [][4]Role{
	{RolePrimary, RoleOnPrimary, RolePrimaryContainer, RoleOnPrimaryContainer},
	{RoleSecondary, RoleOnSecondary, RoleSecondaryContainer, RoleOnSecondaryContainer},
	{RoleTertiary, RoleOnTertiary, RoleTertiaryContainer, RoleOnTertiaryContainer},
}

// Fallback derives a scheme from the source colour's hue and saturation
// alone. It is used when no tonal library is available. All three accent
// families come out identical. Some roles are fixed constants that ignore
// the source colour, and which ones differs between modes.
func Fallback(source string, mode ThemeMode) RoleColorSet {
	src := colour.ParseHex(source)
	tone := func(lightness float64) colour.RGB {
		return colour.WithLightness(src, lightness)
	}

	b := newBuilder()

	if mode.IsDark() {
		for _, f := range accentFamilies {
			b.set(f[0], tone(80)).
				set(f[1], tone(20)).
				set(f[2], tone(30)).
				set(f[3], tone(90))
		}

		text := tone(85)
		bg := tone(15)
		b.set(RoleBackground, bg).
			set(RoleOnBackground, text).
			set(RoleSurface, bg).
			set(RoleOnSurface, text).
			set(RoleSurfaceVariant, tone(25)).
			set(RoleOnSurfaceVariant, text).
			set(RoleOutline, tone(55)).
			set(RoleOutlineVariant, tone(30)).
			setHex(RoleError, "#F2B8B5").
			setHex(RoleOnError, "#601410").
			setHex(RoleErrorContainer, "#8C1D18").
			setHex(RoleOnErrorContainer, "#F9DEDC").
			setHex(RoleScrim, "#000000")

		return b.mustBuild()
	}

	for _, f := range accentFamilies {
		b.set(f[0], tone(40)).
			set(f[1], tone(100)).
			set(f[2], tone(90)).
			set(f[3], tone(10))
	}

	text := tone(20)
	b.setHex(RoleBackground, "#FFFFFF").
		set(RoleOnBackground, text).
		setHex(RoleSurface, "#FFFFFF").
		set(RoleOnSurface, text).
		setHex(RoleSurfaceVariant, "#E7E0EC").
		setHex(RoleOnSurfaceVariant, "#49454F").
		setHex(RoleOutline, "#79747E").
		setHex(RoleOutlineVariant, "#CAC7D0").
		setHex(RoleError, "#B3261E").
		setHex(RoleOnError, "#FFFFFF").
		setHex(RoleErrorContainer, "#F9DEDC").
		setHex(RoleOnErrorContainer, "#410E0B").
		setHex(RoleScrim, "#000000")

	return b.mustBuild()
}
