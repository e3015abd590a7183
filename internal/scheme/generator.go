package scheme

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/mdyou/internal/tonal"
)

const (
	// DefaultWaitTimeout bounds how long Generate waits for the library.
	DefaultWaitTimeout = 5 * time.Second

	// DefaultPollInterval is how often library readiness is checked.
	DefaultPollInterval = 100 * time.Millisecond
)

// Source reports which path produced a RoleColorSet.
type Source int

const (
	// SourceLibrary means the tonal library produced the set.
	SourceLibrary Source = iota
	// SourceFallback means the HSL fallback produced the set.
	SourceFallback
)

// String returns the string representation of a Source.
func (s Source) String() string {
	if s == SourceLibrary {
		return "library"
	}
	return "fallback"
}

// Result is the outcome of Generate.
type Result struct {
	Colors RoleColorSet
	Source Source
	// Reason is why the fallback ran; nil when Source is SourceLibrary.
	Reason error
}

// Options configures a Generator.
type Options struct {
	// Library is the optional tonal library. Nil means unavailable.
	Library tonal.Library
	// Logger receives warnings about degraded generation.
	Logger hclog.Logger
	// WaitTimeout bounds the readiness wait. Zero uses DefaultWaitTimeout.
	WaitTimeout time.Duration
	// PollInterval is the readiness check interval. Zero uses DefaultPollInterval.
	PollInterval time.Duration
}

// Generator produces role colour sets, preferring its tonal library and
// falling back to HSL derivation. Construct one with New and pass it to
// the code that needs it.
type Generator struct {
	lib      tonal.Library
	logger   hclog.Logger
	timeout  time.Duration
	interval time.Duration

	// waitMu serialises readiness waits so only one caller polls.
	waitMu sync.Mutex

	mu        sync.Mutex
	resolved  bool
	available bool
}

// New creates a Generator.
func New(opts Options) *Generator {
	g := &Generator{
		lib:      opts.Library,
		logger:   opts.Logger,
		timeout:  opts.WaitTimeout,
		interval: opts.PollInterval,
	}
	if g.logger == nil {
		g.logger = hclog.NewNullLogger()
	}
	if g.timeout <= 0 {
		g.timeout = DefaultWaitTimeout
	}
	if g.interval <= 0 {
		g.interval = DefaultPollInterval
	}
	return g
}

// LibraryName returns the name of the configured library, or "none".
func (g *Generator) LibraryName() string {
	if g.lib == nil {
		return "none"
	}
	return g.lib.Name()
}

// Resolved reports whether the readiness wait has completed.
func (g *Generator) Resolved() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolved
}

func (g *Generator) resolve(available bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.resolved {
		g.resolved = true
		g.available = available
	}
	return g.available
}

func (g *Generator) cached() (resolved, available bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolved, g.available
}

// WaitReady waits until the library is ready or the wait timeout expires,
// and reports whether it became ready. The outcome is recorded once;
// later calls return immediately. A cancelled ctx ends the wait early
// without recording an outcome.
func (g *Generator) WaitReady(ctx context.Context) bool {
	if resolved, available := g.cached(); resolved {
		return available
	}

	g.waitMu.Lock()
	defer g.waitMu.Unlock()

	if resolved, available := g.cached(); resolved {
		return available
	}

	if g.lib == nil {
		g.logger.Warn("no tonal library configured, using fallback palette")
		return g.resolve(false)
	}
	if g.lib.Ready() {
		return g.resolve(true)
	}

	g.logger.Debug("waiting for tonal library", "library", g.lib.Name(), "timeout", g.timeout)

	deadline := time.NewTimer(g.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			g.logger.Warn("tonal library did not load in time, using fallback palette",
				"library", g.lib.Name(), "timeout", g.timeout)
			return g.resolve(false)
		case <-ticker.C:
			if g.lib.Ready() {
				return g.resolve(true)
			}
		}
	}
}

// FromLibrary generates through the tonal library only. Any failure is
// returned as an error wrapping ErrLibraryUnavailable.
func (g *Generator) FromLibrary(ctx context.Context, source string, mode ThemeMode) (RoleColorSet, error) {
	return fromLibrary(ctx, g.lib, source, mode)
}

// Generate returns the scheme for source in mode. It always returns a
// complete set: library failures and malformed sources degrade to the
// fallback and black respectively.
func (g *Generator) Generate(ctx context.Context, source string, mode ThemeMode) Result {
	g.WaitReady(ctx)

	set, err := g.FromLibrary(ctx, source, mode)
	if err == nil {
		return Result{Colors: set, Source: SourceLibrary}
	}

	// The bare sentinel means "not ready", already reported by WaitReady.
	if err == ErrLibraryUnavailable { //nolint:errorlint // identity check against the unwrapped sentinel
		g.logger.Debug("tonal library unavailable, using fallback palette", "source", source, "mode", mode)
	} else {
		g.logger.Warn("tonal library failed, using fallback palette", "source", source, "mode", mode, "error", err)
	}

	return Result{
		Colors: Fallback(source, mode),
		Source: SourceFallback,
		Reason: err,
	}
}
