// Package colour provides the colour data model and colour-space conversions.
package colour

import (
	"fmt"
	"image/color"
	"regexp"
	"strconv"
)

// hexPattern matches a six digit hex colour with an optional leading '#'.
var hexPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{2})([0-9a-fA-F]{2})([0-9a-fA-F]{2})$`)

// RGB represents a color in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Black is the colour that unparseable input resolves to.
var Black = RGB{}

// White is full-intensity RGB.
var White = RGB{R: 255, G: 255, B: 255}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as an uppercase hex string (e.g., "#1A2B3C").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", rgb.R, rgb.G, rgb.B)
}

// ARGB packs the colour into a fully opaque 0xAARRGGBB pixel.
func (rgb RGB) ARGB() uint32 {
	return 0xFF000000 | uint32(rgb.R)<<16 | uint32(rgb.G)<<8 | uint32(rgb.B)
}

// RGBA implements color.Color.
func (rgb RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}.RGBA()
}

// FromARGB unpacks a 0xAARRGGBB pixel. The alpha channel is ignored.
func FromARGB(argb uint32) RGB {
	return RGB{
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
	}
}

// ARGBToHex formats a 0xAARRGGBB pixel as "#RRGGBB".
func ARGBToHex(argb uint32) string {
	return FromARGB(argb).Hex()
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// RGBToRGBA converts an RGB value to a fully opaque color.RGBA.
func RGBToRGBA(rgb RGB) color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// ParseHex parses "#RRGGBB" (case-insensitive, '#' optional).
// Anything else resolves to Black.
func ParseHex(s string) RGB {
	rgb, err := ParseHexStrict(s)
	if err != nil {
		return Black
	}
	return rgb
}

// ParseHexStrict parses "#RRGGBB" like ParseHex but reports malformed input.
func ParseHexStrict(s string) (RGB, error) {
	m := hexPattern.FindStringSubmatch(s)
	if m == nil {
		return Black, fmt.Errorf("invalid hex colour %q: expected #RRGGBB", s)
	}

	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(m[i+1], 16, 8)
		if err != nil {
			return Black, fmt.Errorf("invalid hex colour %q: %w", s, err)
		}
		ch[i] = uint8(v)
	}

	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// IsHex reports whether s is a well-formed six digit hex colour.
func IsHex(s string) bool {
	return hexPattern.MatchString(s)
}
