package colour

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
)

// maxSamples bounds the number of pixels inspected per image.
const maxSamples = 4000

// SourceExtractor picks a single source colour from an image, the way a
// wallpaper-driven theme picks its seed.
type SourceExtractor struct {
	// Bits is the per-channel quantisation depth used for bucketing (1-8).
	Bits uint
	// MinSaturation drops near-grey buckets (percent) unless nothing else is left.
	MinSaturation float64
}

// NewSourceExtractor returns an extractor with default settings.
func NewSourceExtractor() *SourceExtractor {
	return &SourceExtractor{
		Bits:          4,
		MinSaturation: 15,
	}
}

type bucket struct {
	count   int
	r, g, b int
}

func (b bucket) mean() RGB {
	return RGB{
		R: uint8(b.r / b.count),
		G: uint8(b.g / b.count),
		B: uint8(b.b / b.count),
	}
}

// Extract returns the dominant colourful pixel cluster of img.
// Buckets are ranked by population weighted by saturation so that large
// grey areas do not win over a smaller, vivid subject.
func (e *SourceExtractor) Extract(img image.Image) (RGB, error) {
	if img == nil {
		return Black, fmt.Errorf("image cannot be nil")
	}
	bits := e.Bits
	if bits < 1 || bits > 8 {
		return Black, fmt.Errorf("quantisation bits must be in [1,8], got %d", bits)
	}

	pixels := samplePixels(img)
	if len(pixels) == 0 {
		return Black, fmt.Errorf("no pixels found in image")
	}

	shift := 8 - bits
	buckets := make(map[uint32]*bucket)
	for _, p := range pixels {
		_, _, _, a := p.RGBA()
		if a < 0x8000 {
			continue
		}
		rgb := ToRGB(p)
		key := uint32(rgb.R>>shift)<<16 | uint32(rgb.G>>shift)<<8 | uint32(rgb.B>>shift)
		bk, ok := buckets[key]
		if !ok {
			bk = &bucket{}
			buckets[key] = bk
		}
		bk.count++
		bk.r += int(rgb.R)
		bk.g += int(rgb.G)
		bk.b += int(rgb.B)
	}
	if len(buckets) == 0 {
		return Black, fmt.Errorf("image has no opaque pixels")
	}

	type scored struct {
		rgb   RGB
		score float64
		count int
	}
	ranked := make([]scored, 0, len(buckets))
	for _, bk := range buckets {
		mean := bk.mean()
		hsl := RGBToHSL(mean)
		if hsl.S < e.MinSaturation {
			continue
		}
		// Penalise buckets near black or white; their hue is unreliable.
		lightness := 1 - math.Abs(hsl.L-50)/50
		ranked = append(ranked, scored{
			rgb:   mean,
			score: float64(bk.count) * (hsl.S / 100) * (0.25 + lightness),
			count: bk.count,
		})
	}

	if len(ranked) == 0 {
		// Monochrome image: fall back to the most populated bucket.
		for _, bk := range buckets {
			ranked = append(ranked, scored{rgb: bk.mean(), score: float64(bk.count), count: bk.count})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].rgb.Hex() < ranked[j].rgb.Hex()
	})

	return ranked[0].rgb, nil
}

// samplePixels samples pixels from the image.
// For large images, we sample a grid subset to improve performance.
func samplePixels(img image.Image) []color.Color {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	totalPixels := width * height

	if totalPixels <= maxSamples {
		pixels := make([]color.Color, 0, totalPixels)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				pixels = append(pixels, img.At(x, y))
			}
		}
		return pixels
	}

	step := max(int(math.Sqrt(float64(totalPixels)/float64(maxSamples))), 1)

	pixels := make([]color.Color, 0, maxSamples)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			pixels = append(pixels, img.At(x, y))
		}
	}

	return pixels
}
