// Package imagecache keeps downloaded source images on disk so repeated
// runs against the same URL do not refetch it.
package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	httputil "github.com/jmylchreest/mdyou/internal/util/http"
)

// Options configures Fetch.
type Options struct {
	// Dir defaults to DefaultDir().
	Dir string
	// Refresh downloads even when a cached copy exists.
	Refresh bool
	// HTTP is passed through to the downloader.
	HTTP httputil.FetchOptions
}

// DefaultDir returns the user cache directory for images.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "mdyou", "images"), nil
}

// Filename maps url to a stable cache filename: a truncated SHA-256 of
// the URL plus its extension.
func Filename(url string) string {
	sum := sha256.Sum256([]byte(url))

	ext := filepath.Ext(url)
	if i := strings.IndexAny(ext, "?#"); i != -1 {
		ext = ext[:i]
	}
	if ext == "" || len(ext) > 5 {
		ext = ".img"
	}
	return hex.EncodeToString(sum[:16]) + strings.ToLower(ext)
}

// Fetch returns the local path of the cached copy of url, downloading it
// first if needed.
func Fetch(ctx context.Context, url string, opts Options) (string, error) {
	if !httputil.IsURL(url) {
		return "", fmt.Errorf("invalid URL %q: must start with http:// or https://", url)
	}

	dir := opts.Dir
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - cache directory
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	path := filepath.Join(dir, Filename(url))
	if !opts.Refresh {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	data, err := httputil.Fetch(ctx, url, opts.HTTP)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}

	return path, nil
}
