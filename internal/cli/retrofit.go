package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/mdyou/internal/css"
	"github.com/jmylchreest/mdyou/internal/scheme"
	httputil "github.com/jmylchreest/mdyou/internal/util/http"
)

func newRetrofitCmd(a *app) *cobra.Command {
	var (
		output  string
		inPlace bool
		backup  bool
		report  bool
	)

	cmd := &cobra.Command{
		Use:   "retrofit STYLESHEET",
		Short: "Rewrite hardcoded colours to use the scheme's properties",
		Long: `Rewrite hex colour literals in declaration values to
var(--md3-<role>, <literal>), using the alias table. The literal stays as the
fallback, so the stylesheet renders the same until a scheme is loaded.

STYLESHEET is a file, an http(s) URL or "-" for stdin. Selectors such as
#header, comments and existing var() fallbacks are not touched.

Examples:
  mdyou retrofit static/light.css -o static/light.md3.css
  mdyou retrofit --in-place --backup static/dark.css
  curl -s https://example.com/site.css | mdyou retrofit - --report`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			if inPlace {
				if output != "" {
					return errors.New("--in-place and --output are mutually exclusive")
				}
				if src == "-" || httputil.IsURL(src) {
					return errors.New("--in-place needs a local file")
				}
				output = src
			}

			data, err := readStylesheet(cmd, src)
			if err != nil {
				return err
			}

			table, err := a.aliasTable()
			if err != nil {
				return err
			}

			out, stats, err := css.Retrofit(data, table, a.cfg.CSS.Prefix)
			if err != nil {
				return err
			}

			path, err := writeOutput(cmd.OutOrStdout(), output, out, backup)
			if err != nil {
				return err
			}
			a.logger.Info("retrofitted stylesheet", "source", src, "output", path,
				"replaced", stats.Replaced, "unmatched", len(stats.Unmatched))

			if report {
				writeRetrofitReport(cmd.ErrOrStderr(), stats)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	f.BoolVarP(&inPlace, "in-place", "i", false, "rewrite the stylesheet in place")
	f.BoolVar(&backup, "backup", false, "keep the previous file as <output>.backup")
	f.BoolVar(&report, "report", false, "print replacement counts and unmatched colours to stderr")

	return cmd
}

func readStylesheet(cmd *cobra.Command, src string) ([]byte, error) {
	switch {
	case src == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	case httputil.IsURL(src):
		data, err := httputil.Fetch(cmd.Context(), src, httputil.FetchOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch stylesheet: %w", err)
		}
		return data, nil
	default:
		path, err := homedir.Expand(src)
		if err != nil {
			return nil, fmt.Errorf("failed to expand stylesheet path: %w", err)
		}
		data, err := os.ReadFile(path) // #nosec G304 - user-specified stylesheet
		if err != nil {
			return nil, fmt.Errorf("failed to read stylesheet: %w", err)
		}
		return data, nil
	}
}

func writeRetrofitReport(w io.Writer, stats css.Stats) {
	fmt.Fprintf(w, "replaced %d colour literal(s)\n", stats.Replaced)

	roles := make([]string, 0, len(stats.ByRole))
	for role := range stats.ByRole {
		roles = append(roles, string(role))
	}
	sort.Strings(roles)
	for _, role := range roles {
		fmt.Fprintf(w, "  %-22s %d\n", role, stats.ByRole[scheme.Role(role)])
	}

	if len(stats.Unmatched) > 0 {
		fmt.Fprintf(w, "unmatched: %s\n", strings.Join(stats.Unmatched, " "))
	}
}
