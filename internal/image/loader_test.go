package image

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmylchreest/mdyou/internal/util/imagecache"
)

func writePNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wall.png")
	writePNG(t, path, color.RGBA{R: 25, G: 118, B: 210, A: 255})

	img, err := NewFileLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("width = %d, want 4", img.Bounds().Dx())
	}

	tests := map[string]string{
		"empty":     "",
		"missing":   filepath.Join(dir, "nope.png"),
		"directory": dir,
	}
	for name, p := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewFileLoader().Load(context.Background(), p); err == nil {
				t.Errorf("Load(%q) succeeded", p)
			}
		})
	}

	garbage := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileLoader().Load(context.Background(), garbage); err == nil {
		t.Error("Load() decoded garbage")
	}
}

func TestResolvePathDirectory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), color.White)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ResolvePath(dir)
	if err != nil {
		t.Fatalf("ResolvePath() error = %v", err)
	}
	if got != filepath.Join(dir, "a.png") {
		t.Errorf("ResolvePath() = %s", got)
	}

	empty := t.TempDir()
	if _, err := ResolvePath(empty); err == nil {
		t.Error("expected error for a directory without images")
	}
}

func TestSmartLoaderURL(t *testing.T) {
	src := filepath.Join(t.TempDir(), "remote.png")
	writePNG(t, src, color.Black)
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	l := NewSmartLoader(imagecache.Options{Dir: t.TempDir()})
	img, err := l.Load(context.Background(), srv.URL+"/remote.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Bounds().Dy() != 4 {
		t.Errorf("height = %d, want 4", img.Bounds().Dy())
	}
}
