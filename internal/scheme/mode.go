package scheme

import (
	"fmt"
	"strings"
)

// ThemeMode selects the light or dark variant of a scheme.
type ThemeMode int

const (
	// ThemeLight is a light theme (dark text on light background).
	ThemeLight ThemeMode = iota
	// ThemeDark is a dark theme (light text on dark background).
	ThemeDark
)

// String returns the string representation of a ThemeMode.
func (m ThemeMode) String() string {
	if m == ThemeDark {
		return "dark"
	}
	return "light"
}

// IsDark reports whether m is ThemeDark.
func (m ThemeMode) IsDark() bool {
	return m == ThemeDark
}

// ModeFromDark converts a dark flag to a ThemeMode.
func ModeFromDark(dark bool) ThemeMode {
	if dark {
		return ThemeDark
	}
	return ThemeLight
}

// ParseThemeMode parses "light" or "dark" (case-insensitive).
func ParseThemeMode(s string) (ThemeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	default:
		return ThemeLight, fmt.Errorf("invalid theme mode %q (must be light or dark)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m ThemeMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ThemeMode) UnmarshalText(text []byte) error {
	parsed, err := ParseThemeMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
