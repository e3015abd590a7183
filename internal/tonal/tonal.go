// Package tonal defines the optional tonal-palette library used to build
// Material You schemes, and the backends that can provide it.
package tonal

import (
	"context"
	"errors"
	"fmt"
)

// MaxTone is the lightest tone (white). Tone 0 is black.
const MaxTone = 100

// ErrNotReady is returned by libraries asked for a theme before they are ready.
var ErrNotReady = errors.New("tonal library not ready")

// Palette maps a tone (0-100) to an opaque 0xAARRGGBB pixel.
type Palette interface {
	Tone(tone int) uint32
}

// Theme holds the six tonal palettes derived from a source colour.
type Theme struct {
	Primary        Palette
	Secondary      Palette
	Tertiary       Palette
	Neutral        Palette
	NeutralVariant Palette
	Error          Palette
}

// Library builds themes from a source colour.
// Ready reports whether the library has finished loading; it must be
// cheap and safe to call repeatedly from any goroutine.
type Library interface {
	Name() string
	Ready() bool
	Theme(ctx context.Context, argb uint32, dark bool) (*Theme, error)
}

// Table is a fully materialised palette: one pixel per tone.
type Table [MaxTone + 1]uint32

// Tone implements Palette. Out of range tones are clamped.
func (t *Table) Tone(tone int) uint32 {
	return t[clampTone(tone)]
}

// Materialise evaluates every tone of p.
func Materialise(p Palette) *Table {
	var t Table
	for i := range t {
		t[i] = p.Tone(i)
	}
	return &t
}

func clampTone(tone int) int {
	if tone < 0 {
		return 0
	}
	if tone > MaxTone {
		return MaxTone
	}
	return tone
}

// Validate checks that every palette of the theme is present.
func (t *Theme) Validate() error {
	if t == nil {
		return fmt.Errorf("theme is nil")
	}
	named := []struct {
		name string
		p    Palette
	}{
		{"primary", t.Primary},
		{"secondary", t.Secondary},
		{"tertiary", t.Tertiary},
		{"neutral", t.Neutral},
		{"neutralVariant", t.NeutralVariant},
		{"error", t.Error},
	}
	for _, n := range named {
		if n.p == nil {
			return fmt.Errorf("theme is missing the %s palette", n.name)
		}
	}
	return nil
}

// unavailable is a library that never becomes ready.
type unavailable struct{}

// Unavailable returns a Library that is never ready.
func Unavailable() Library {
	return unavailable{}
}

func (unavailable) Name() string { return "none" }

func (unavailable) Ready() bool { return false }

func (unavailable) Theme(context.Context, uint32, bool) (*Theme, error) {
	return nil, ErrNotReady
}
