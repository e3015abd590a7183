package cli

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/mdyou/internal/config"
	"github.com/jmylchreest/mdyou/internal/scheme"
	"github.com/jmylchreest/mdyou/internal/state"
)

// modes returns the modes to generate: both, or the resolved one.
func (a *app) modes(both bool) []scheme.ThemeMode {
	if both {
		return []scheme.ThemeMode{scheme.ThemeLight, scheme.ThemeDark}
	}
	return []scheme.ThemeMode{a.resolveMode()}
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		format    string
		output    string
		both      bool
		fromImage string
	)

	cmd := &cobra.Command{
		Use:   "generate [HEX]",
		Short: "Generate a colour scheme",
		Long: `Generate the Material You scheme for a source colour and print it.

The source colour is the HEX argument, the dominant colour of --from-image,
or the configured source_color. The theme mode comes from --theme; "auto" uses
the mode of the last applied theme and defaults to light.

Examples:
  mdyou generate '#1976D2'
  mdyou generate 6750A4 --theme dark --format json
  mdyou generate --from-image ~/Pictures/wall.jpg --both -o theme.css
  mdyou generate '#1976D2' --library none --format table`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			source, err := a.resolveSource(ctx, args, sourceOptions{fromImage: fromImage})
			if err != nil {
				return err
			}
			s, err := a.generate(ctx, source, a.modes(both)...)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			switch format {
			case formatJSON:
				err = renderJSON(&buf, s)
			case formatTable:
				err = renderTable(&buf, s)
			default:
				err = a.renderCSS(&buf, s)
			}
			if err != nil {
				return fmt.Errorf("failed to render scheme: %w", err)
			}

			path, err := writeOutput(cmd.OutOrStdout(), output, buf.Bytes(), false)
			if err != nil {
				return err
			}
			if path != "" {
				a.logger.Info("wrote scheme", "path", path, "format", format)
			}
			return nil
		},
	}

	f := cmd.Flags()
	newFormatFlag(f, &format, formatCSS, formatJSON, formatTable)
	f.StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	f.BoolVar(&both, "both", false, "generate light and dark schemes (CSS uses prefers-color-scheme)")
	f.StringVar(&fromImage, "from-image", "", "derive the source colour from an image file, directory or URL")

	return cmd
}

func newApplyCmd(a *app) *cobra.Command {
	var (
		output    string
		both      bool
		backup    bool
		fromImage string
	)

	cmd := &cobra.Command{
		Use:   "apply [HEX]",
		Short: "Write a scheme stylesheet and remember the choice",
		Long: `Generate the scheme, write it as CSS, and save the source colour and mode
so "mdyou restore" can reproduce it.

The output file is -o or css.output from the config.

Examples:
  mdyou apply '#1976D2' --theme dark -o ~/.local/share/mdyou/theme.css
  mdyou apply --from-image ~/Pictures/wall.jpg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if output == "" {
				output = a.cfg.CSS.Output
			}
			if output == "" {
				return errors.New("no output file: pass -o or set css.output in the config")
			}

			source, err := a.resolveSource(ctx, args, sourceOptions{fromImage: fromImage})
			if err != nil {
				return err
			}
			s, err := a.generate(ctx, source, a.modes(both)...)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := a.renderCSS(&buf, s); err != nil {
				return fmt.Errorf("failed to render scheme: %w", err)
			}
			path, err := writeFile(output, buf.Bytes(), backup)
			if err != nil {
				return err
			}

			store, err := a.store()
			if err != nil {
				return err
			}
			// With --both the saved mode is still the resolved one.
			mode := a.resolveMode()
			if _, err := store.Save(source, mode); err != nil {
				return fmt.Errorf("failed to save theme state: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Applied %s (%s, %s) to %s\n", source, mode, s.Results[0].Source, path)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "stylesheet to write")
	f.BoolVar(&both, "both", false, "write light and dark schemes (prefers-color-scheme)")
	f.BoolVar(&backup, "backup", false, "keep the previous stylesheet as <output>.backup")
	f.StringVar(&fromImage, "from-image", "", "derive the source colour from an image file, directory or URL")

	return cmd
}

func newRestoreCmd(a *app) *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Regenerate the last applied scheme",
		Long: `Regenerate the scheme from the saved source colour and mode. An explicit
--theme light or --theme dark overrides the saved mode.

Examples:
  mdyou restore -o ~/.local/share/mdyou/theme.css
  mdyou restore --theme dark --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			st, err := store.Load()
			if errors.Is(err, state.ErrNoState) {
				return fmt.Errorf("nothing to restore: run \"mdyou apply\" first (%s)", store.Path())
			}
			if err != nil {
				return err
			}

			mode := st.Mode()
			if a.cfg.Theme != config.ThemeAuto {
				mode = a.resolveMode()
			}

			s, err := a.generate(cmd.Context(), st.SourceColor, mode)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			switch format {
			case formatJSON:
				err = renderJSON(&buf, s)
			default:
				err = a.renderCSS(&buf, s)
			}
			if err != nil {
				return fmt.Errorf("failed to render scheme: %w", err)
			}

			if output == "" {
				output = a.cfg.CSS.Output
			}
			path, err := writeOutput(cmd.OutOrStdout(), output, buf.Bytes(), false)
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Restored %s (%s, %s) to %s\n", st.SourceColor, mode, s.Results[0].Source, path)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "write to file (default css.output, or stdout)")
	newFormatFlag(f, &format, formatCSS, formatJSON)

	return cmd
}
