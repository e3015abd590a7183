// Package cli provides the command-line interface for mdyou.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/mdyou/internal/config"
	"github.com/jmylchreest/mdyou/internal/version"
)

// app carries the state shared by every command of one invocation.
type app struct {
	configPath string
	verbose    bool
	quiet      bool

	theme      themeValue
	library    libraryValue
	pluginPath string
	wait       time.Duration
	stateFile  string
	prefix     string
	selector   string
	logLevel   string

	lookupEnv config.LookupFunc

	cfg    *config.Config
	logger hclog.Logger
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{
		theme:     themeValue(config.ThemeAuto),
		library:   libraryValue(config.LibraryMatcolor),
		lookupEnv: os.LookupEnv,
		logger:    hclog.NewNullLogger(),
	}

	root := &cobra.Command{
		Use:   "mdyou",
		Short: "Material You colour schemes as CSS custom properties",
		Long: `mdyou turns a single source colour into a 25-role Material You colour
scheme and writes it as CSS custom properties (--md3-primary, --md3-surface, ...).

Tonal palettes come from a tonal library: the built-in matcolor library, an
external tonal service launched with go-plugin, or none. If the library is not
ready within the wait timeout, or fails, an HSL-based fallback scheme is used
so a complete scheme is always produced.`,
		Version:           version.Short(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mdyou/config.toml or ~/.config/mdyou/config.toml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "only log errors")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	pf.VarP(&a.theme, "theme", "t", "theme mode (light, dark, auto)")
	pf.Var(&a.library, "library", "tonal library (matcolor, plugin, none)")
	pf.StringVar(&a.pluginPath, "plugin-path", "", `tonal service binary for --library plugin ("self" runs this binary)`)
	pf.DurationVar(&a.wait, "wait", 0, "how long to wait for the tonal library (default 5s)")
	pf.StringVar(&a.stateFile, "state-file", "", "saved theme state (default ~/.config/mdyou/state.json)")
	pf.StringVar(&a.prefix, "prefix", "", "CSS custom property prefix (default --md3-)")
	pf.StringVar(&a.selector, "selector", "", "CSS selector the properties are declared on (default :root)")

	root.SetVersionTemplate(version.String() + "\n")

	root.AddCommand(
		newGenerateCmd(a),
		newApplyCmd(a),
		newRestoreCmd(a),
		newFallbacksCmd(a),
		newRetrofitCmd(a),
		newPreviewCmd(a),
		newVersionCmd(a),
		newTonalServeCmd(a),
	)

	return root
}

// setup merges defaults, the config file, the environment and flags, in
// increasing precedence, and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(a.lookupEnv); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("theme") {
		cfg.Theme = string(a.theme)
	}
	if flags.Changed("library") {
		cfg.Library = string(a.library)
	}
	if flags.Changed("plugin-path") {
		cfg.PluginPath = a.pluginPath
	}
	if flags.Changed("wait") {
		cfg.WaitTimeout = a.wait
	}
	if flags.Changed("state-file") {
		cfg.StateFile = a.stateFile
	}
	if flags.Changed("prefix") {
		cfg.CSS.Prefix = a.prefix
	}
	if flags.Changed("selector") {
		cfg.CSS.Selector = a.selector
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	level := hclog.LevelFromString(cfg.LogLevel)
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	switch {
	case a.verbose:
		level = hclog.Debug
	case a.quiet:
		level = hclog.Error
	}

	a.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "mdyou",
		Output: cmd.ErrOrStderr(),
		Level:  level,
	})

	if p := cfg.Path(); p != "" {
		a.logger.Debug("loaded config", "path", p)
	}
	for _, key := range cfg.Undecoded() {
		a.logger.Warn("unknown config key", "key", key)
	}

	return nil
}

func newVersionCmd(_ *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
				return nil
			}
			info := version.GetInfo()
			info.TonalProtocol = tonalProtocolVersion()
			return writeJSON(cmd.OutOrStdout(), info)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
