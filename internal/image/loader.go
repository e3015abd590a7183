// Package image loads the images a source colour can be extracted from.
package image

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/go-homedir"
	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/webp" // Register WebP format

	httputil "github.com/jmylchreest/mdyou/internal/util/http"
	"github.com/jmylchreest/mdyou/internal/util/imagecache"
)

// Loader loads an image from a location.
type Loader interface {
	Load(ctx context.Context, location string) (image.Image, error)
}

// SupportedExtensions lists the file extensions picked from directories.
func SupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}
}

// FileLoader decodes local image files.
type FileLoader struct{}

// NewFileLoader creates a FileLoader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load decodes the file at path. A leading ~ is expanded.
func (l *FileLoader) Load(_ context.Context, path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand image path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	f, err := os.Open(path) // #nosec G304 - user-specified image path
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s (format %q): %w", path, format, err)
	}
	return img, nil
}

// SmartLoader loads from local files, directories (a random image inside)
// and http(s) URLs. Downloads go through the image cache.
type SmartLoader struct {
	files *FileLoader
	cache imagecache.Options
}

// NewSmartLoader creates a SmartLoader that caches downloads per cache.
func NewSmartLoader(cache imagecache.Options) *SmartLoader {
	return &SmartLoader{files: NewFileLoader(), cache: cache}
}

// Load resolves location and decodes the image it refers to.
func (l *SmartLoader) Load(ctx context.Context, location string) (image.Image, error) {
	if httputil.IsURL(location) {
		path, err := imagecache.Fetch(ctx, location, l.cache)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
		}
		return l.files.Load(ctx, path)
	}

	path, err := ResolvePath(location)
	if err != nil {
		return nil, err
	}
	return l.files.Load(ctx, path)
}

// ResolvePath returns path itself for files, and a random supported image
// for directories.
func ResolvePath(path string) (string, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand image path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	images, err := ScanDirectory(path)
	if err != nil {
		return "", err
	}
	return images[rand.IntN(len(images))], nil // #nosec G404 - wallpaper choice
}

// ScanDirectory lists the supported image files directly inside dir,
// following symlinks.
func ScanDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var images []string
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}
		if slices.Contains(SupportedExtensions(), strings.ToLower(filepath.Ext(entry.Name()))) {
			images = append(images, full)
		}
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("no supported image files found in directory: %s", dir)
	}
	return images, nil
}
