package colour

import (
	"image"
	"image/color"
	"testing"
)

func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func TestSourceExtractorPrefersVividColour(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	fillRect(img, img.Bounds(), color.RGBA{R: 120, G: 120, B: 120, A: 255})
	fillRect(img, image.Rect(0, 0, 10, 10), color.RGBA{R: 0x19, G: 0x76, B: 0xD2, A: 255})

	got, err := NewSourceExtractor().Extract(img)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != (RGB{R: 0x19, G: 0x76, B: 0xD2}) {
		t.Errorf("Extract() = %s, want #1976D2", got.Hex())
	}
}

func TestSourceExtractorMonochrome(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	fillRect(img, img.Bounds(), color.RGBA{R: 200, G: 200, B: 200, A: 255})
	fillRect(img, image.Rect(0, 0, 5, 5), color.RGBA{R: 30, G: 30, B: 30, A: 255})

	got, err := NewSourceExtractor().Extract(img)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Hex() != "#C8C8C8" {
		t.Errorf("Extract() = %s, want #C8C8C8", got.Hex())
	}
}

func TestSourceExtractorErrors(t *testing.T) {
	e := NewSourceExtractor()

	if _, err := e.Extract(nil); err == nil {
		t.Error("Expected error for nil image")
	}

	transparent := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if _, err := e.Extract(transparent); err == nil {
		t.Error("Expected error for fully transparent image")
	}

	bad := &SourceExtractor{Bits: 0}
	if _, err := bad.Extract(image.NewRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("Expected error for invalid bit depth")
	}
}

func TestSamplePixelsLargeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 400))
	pixels := samplePixels(img)
	if len(pixels) == 0 || len(pixels) > 2*maxSamples {
		t.Errorf("samplePixels returned %d pixels", len(pixels))
	}
}
