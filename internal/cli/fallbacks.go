package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/mdyou/internal/css"
)

// aliasTable is the default alias table with config aliases applied.
func (a *app) aliasTable() (css.AliasTable, error) {
	if len(a.cfg.Aliases) == 0 {
		return css.DefaultAliases, nil
	}
	extra, err := css.ParseAliases(a.cfg.Aliases)
	if err != nil {
		return nil, fmt.Errorf("invalid aliases in config: %w", err)
	}
	return css.DefaultAliases.Merge(extra), nil
}

func newFallbacksCmd(a *app) *cobra.Command {
	var (
		output string
		list   bool
	)

	cmd := &cobra.Command{
		Use:   "fallbacks [HEX]",
		Short: "Write the --color-<hex> alias sheet",
		Long: `Write CSS defining one --color-<hex> property per known hardcoded colour,
set to the colour of the role that replaces it in the current scheme. Pages
that use var(--color-1976d2) pick up the scheme without being retrofitted.

The source colour is HEX, else the saved state, else the configured one.
--list prints the hex to role table instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.aliasTable()
			if err != nil {
				return err
			}

			if list {
				t := NewTable("HEX", "ROLE", "PROPERTY")
				for _, alias := range table {
					t.AddRow(alias.Hex, string(alias.Role), css.AliasPropertyName(alias.Hex))
				}
				_, err := fmt.Fprint(cmd.OutOrStdout(), t.Render())
				return err
			}

			ctx := cmd.Context()
			source, err := a.resolveSource(ctx, args, sourceOptions{useState: true})
			if err != nil {
				return err
			}
			s, err := a.generate(ctx, source, a.resolveMode())
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := css.RenderAliases(&buf, s.Results[0].Colors, table, a.cssOptions(s)); err != nil {
				return fmt.Errorf("failed to render aliases: %w", err)
			}
			path, err := writeOutput(cmd.OutOrStdout(), output, buf.Bytes(), false)
			if err != nil {
				return err
			}
			if path != "" {
				a.logger.Info("wrote alias sheet", "path", path, "aliases", len(table))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	f.BoolVar(&list, "list", false, "print the alias table")

	return cmd
}
