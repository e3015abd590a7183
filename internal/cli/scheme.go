package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jmylchreest/mdyou/internal/colour"
	"github.com/jmylchreest/mdyou/internal/config"
	mdimage "github.com/jmylchreest/mdyou/internal/image"
	"github.com/jmylchreest/mdyou/internal/scheme"
	"github.com/jmylchreest/mdyou/internal/state"
	"github.com/jmylchreest/mdyou/internal/tonal"
	"github.com/jmylchreest/mdyou/internal/tonal/protocol"
	"github.com/jmylchreest/mdyou/internal/util/imagecache"
)

// selfPlugin as plugin path runs this binary's tonal-serve command.
const selfPlugin = "self"

func tonalProtocolVersion() string {
	return protocol.ProtocolVersion
}

// newGenerator builds the configured tonal library and a generator over
// it. The returned func releases the library.
func (a *app) newGenerator() (*scheme.Generator, func(), error) {
	var (
		lib     tonal.Library
		cleanup = func() {}
	)

	switch a.cfg.Library {
	case config.LibraryMatcolor:
		lib = tonal.NewMatcolor()
	case config.LibraryPlugin:
		path, args := a.cfg.PluginPath, []string(nil)
		if path == selfPlugin {
			exe, err := os.Executable()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to locate mdyou binary: %w", err)
			}
			path, args = exe, []string{"tonal-serve"}
		}
		p := tonal.NewPluginLibrary(path, args, a.logger.Named("tonal"))
		p.Start()
		lib, cleanup = p, p.Close
	case config.LibraryNone:
	}

	gen := scheme.New(scheme.Options{
		Library:     lib,
		Logger:      a.logger.Named("scheme"),
		WaitTimeout: a.cfg.WaitTimeout,
	})
	return gen, cleanup, nil
}

func (a *app) store() (*state.Store, error) {
	return state.NewStore(a.cfg.StateFile)
}

// resolveMode turns the configured theme into a mode. "auto" uses the
// saved state and defaults to light.
func (a *app) resolveMode() scheme.ThemeMode {
	if a.cfg.Theme != config.ThemeAuto {
		mode, err := scheme.ParseThemeMode(a.cfg.Theme)
		if err == nil {
			return mode
		}
	}

	st, err := a.loadState()
	if err != nil {
		return scheme.ThemeLight
	}
	return st.Mode()
}

// loadState reads the saved state, logging anything but its absence.
func (a *app) loadState() (state.State, error) {
	store, err := a.store()
	if err != nil {
		return state.State{}, err
	}
	st, err := store.Load()
	if err != nil && !errors.Is(err, state.ErrNoState) {
		a.logger.Warn("ignoring unreadable theme state", "path", store.Path(), "error", err)
	}
	return st, err
}

// sourceOptions selects where a command takes its source colour from.
type sourceOptions struct {
	fromImage string
	// useState prefers the saved source over the configured one.
	useState bool
}

// resolveSource picks the source colour: the positional argument, then
// --from-image, then (optionally) the saved state, then the config.
func (a *app) resolveSource(ctx context.Context, args []string, opts sourceOptions) (string, error) {
	if len(args) > 0 {
		rgb, err := colour.ParseHexStrict(args[0])
		if err != nil {
			return "", fmt.Errorf("invalid source colour: %w", err)
		}
		return rgb.Hex(), nil
	}

	if opts.fromImage != "" {
		return a.sourceFromImage(ctx, opts.fromImage)
	}

	if opts.useState {
		if st, err := a.loadState(); err == nil {
			return st.SourceColor, nil
		}
	}

	rgb, err := colour.ParseHexStrict(a.cfg.SourceColor)
	if err != nil {
		return "", fmt.Errorf("invalid configured source colour: %w", err)
	}
	return rgb.Hex(), nil
}

func (a *app) sourceFromImage(ctx context.Context, location string) (string, error) {
	loader := mdimage.NewSmartLoader(imagecache.Options{})
	img, err := loader.Load(ctx, location)
	if err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}

	rgb, err := colour.NewSourceExtractor().Extract(img)
	if err != nil {
		return "", fmt.Errorf("failed to extract source colour from %s: %w", location, err)
	}
	a.logger.Debug("extracted source colour", "image", location, "colour", rgb.Hex())
	return rgb.Hex(), nil
}

// schemes holds the generated set(s) for one invocation.
type schemes struct {
	Source  string
	Library string
	Modes   []scheme.ThemeMode
	Results []scheme.Result
}

// generate produces the scheme for source in each mode.
func (a *app) generate(ctx context.Context, source string, modes ...scheme.ThemeMode) (*schemes, error) {
	gen, cleanup, err := a.newGenerator()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	out := &schemes{Source: source, Modes: modes}
	for _, mode := range modes {
		res := gen.Generate(ctx, source, mode)
		a.logger.Debug("generated scheme", "source", source, "mode", mode, "generator", res.Source)
		out.Results = append(out.Results, res)
	}
	// Plugin libraries learn their name from the service.
	out.Library = gen.LibraryName()
	return out, nil
}
