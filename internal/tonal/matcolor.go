package tonal

import (
	"context"

	"cogentcore.org/core/colors/matcolor"

	"github.com/jmylchreest/mdyou/internal/colour"
)

// Matcolor is an in-process library backed by Cogent Core's HCT tonal
// palettes. It is ready as soon as it is constructed.
type Matcolor struct{}

// NewMatcolor creates a new Matcolor library.
func NewMatcolor() *Matcolor {
	return &Matcolor{}
}

// Name returns the library name.
func (m *Matcolor) Name() string {
	return "matcolor"
}

// Ready always reports true.
func (m *Matcolor) Ready() bool {
	return true
}

// Theme derives the key colours from argb and builds their tonal palettes.
// The palettes do not depend on dark; the caller picks tones per mode.
func (m *Matcolor) Theme(ctx context.Context, argb uint32, dark bool) (*Theme, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := colour.RGBToRGBA(colour.FromARGB(argb))
	p := matcolor.NewPalette(matcolor.KeyFromPrimary(source))

	return &Theme{
		Primary:        &matTones{t: &p.Primary},
		Secondary:      &matTones{t: &p.Secondary},
		Tertiary:       &matTones{t: &p.Tertiary},
		Neutral:        &matTones{t: &p.Neutral},
		NeutralVariant: &matTones{t: &p.NeutralVariant},
		Error:          &matTones{t: &p.Error},
	}, nil
}

// matTones adapts matcolor.Tones to Palette. Tones caches lazily and is
// not safe for concurrent use, so each Theme gets its own set.
type matTones struct {
	t *matcolor.Tones
}

func (m *matTones) Tone(tone int) uint32 {
	return colour.ToRGB(m.t.AbsTone(clampTone(tone))).ARGB()
}
