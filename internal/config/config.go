// Package config loads mdyou settings from a TOML file and MDYOU_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"

	"github.com/jmylchreest/mdyou/internal/colour"
	"github.com/jmylchreest/mdyou/internal/scheme"
)

// Library kinds.
const (
	LibraryMatcolor = "matcolor"
	LibraryPlugin   = "plugin"
	LibraryNone     = "none"
)

// ThemeAuto defers the mode to the saved state.
const ThemeAuto = "auto"

// Config is the merged configuration.
type Config struct {
	SourceColor string        `toml:"source_color"`
	Theme       string        `toml:"theme"`
	Library     string        `toml:"library"`
	PluginPath  string        `toml:"plugin_path"`
	WaitTimeout time.Duration `toml:"wait_timeout"`
	StateFile   string        `toml:"state_file"`
	LogLevel    string        `toml:"log_level"`
	CSS         CSS           `toml:"css"`
	// Aliases adds (or overrides) hex → role entries of the alias table.
	Aliases map[string]string `toml:"aliases"`

	path      string
	undecoded []string
}

// CSS holds rendering settings.
type CSS struct {
	Prefix   string `toml:"prefix"`
	Selector string `toml:"selector"`
	Output   string `toml:"output"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		SourceColor: "#1976D2",
		Theme:       ThemeAuto,
		Library:     LibraryMatcolor,
		WaitTimeout: scheme.DefaultWaitTimeout,
		StateFile:   "~/.config/mdyou/state.json",
		LogLevel:    "warn",
		CSS: CSS{
			Prefix:   "--md3-",
			Selector: ":root",
		},
	}
}

// SearchPaths lists where Load looks for a config file when none is given.
func SearchPaths() []string {
	var out []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		out = append(out, filepath.Join(xdg, "mdyou", "config.toml"))
	}
	if home, err := homedir.Dir(); err == nil && home != "" {
		out = append(out, filepath.Join(home, ".config", "mdyou", "config.toml"))
	}
	return out
}

// Load decodes the file at path over the defaults. An empty path searches
// SearchPaths and yields the defaults when none exists; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	chosen := ""
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		chosen = expanded
	} else {
		for _, p := range SearchPaths() {
			if _, err := os.Stat(p); err == nil {
				chosen = p
				break
			}
		}
	}
	if chosen == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(chosen) // #nosec G304 - user config file
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", chosen, err)
	}
	for _, k := range md.Undecoded() {
		cfg.undecoded = append(cfg.undecoded, k.String())
	}
	cfg.path = chosen

	return cfg, nil
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// Undecoded returns keys in the file that mdyou does not know.
func (c *Config) Undecoded() []string {
	return c.undecoded
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays MDYOU_* variables read through lookup.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"MDYOU_SOURCE_COLOR", &c.SourceColor},
		{"MDYOU_THEME", &c.Theme},
		{"MDYOU_LIBRARY", &c.Library},
		{"MDYOU_PLUGIN_PATH", &c.PluginPath},
		{"MDYOU_STATE_FILE", &c.StateFile},
		{"MDYOU_PREFIX", &c.CSS.Prefix},
		{"MDYOU_LOG_LEVEL", &c.LogLevel},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	if v, ok := lookup("MDYOU_WAIT_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MDYOU_WAIT_TIMEOUT: %w", err)
		}
		c.WaitTimeout = d
	}
	return nil
}

// Validate checks every field and normalises case.
func (c *Config) Validate() error {
	var errs []error

	if c.SourceColor != "" {
		if _, err := colour.ParseHexStrict(c.SourceColor); err != nil {
			errs = append(errs, fmt.Errorf("source_color: %w", err))
		}
	}

	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	if c.Theme != ThemeAuto {
		if _, err := scheme.ParseThemeMode(c.Theme); err != nil {
			errs = append(errs, fmt.Errorf("theme: %w", err))
		}
	}

	c.Library = strings.ToLower(strings.TrimSpace(c.Library))
	switch c.Library {
	case LibraryMatcolor, LibraryNone:
	case LibraryPlugin:
		if c.PluginPath == "" {
			errs = append(errs, errors.New("plugin_path is required when library is \"plugin\""))
		}
	default:
		errs = append(errs, fmt.Errorf("library: unknown kind %q (want matcolor, plugin or none)", c.Library))
	}

	if c.WaitTimeout < 0 {
		errs = append(errs, fmt.Errorf("wait_timeout must not be negative, got %s", c.WaitTimeout))
	}
	if !strings.HasPrefix(c.CSS.Prefix, "--") {
		errs = append(errs, fmt.Errorf("css.prefix must start with \"--\", got %q", c.CSS.Prefix))
	}

	for hex, role := range c.Aliases {
		if _, err := colour.ParseHexStrict(hex); err != nil {
			errs = append(errs, fmt.Errorf("aliases: %w", err))
		}
		if !scheme.Role(role).IsValid() {
			errs = append(errs, fmt.Errorf("aliases: %s maps to unknown role %q", hex, role))
		}
	}

	return errors.Join(errs...)
}
