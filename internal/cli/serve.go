package cli

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/mdyou/internal/tonal"
)

func newTonalServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:    "tonal-serve",
		Short:  "Serve the matcolor tonal library over go-plugin",
		Long:   `Run as an out-of-process tonal service. Started by "--library plugin --plugin-path self"; not meant to be run by hand.`,
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// The host reads the service's stderr as JSON log lines.
			logger := hclog.New(&hclog.LoggerOptions{
				Name:       "tonal-serve",
				Output:     os.Stderr,
				Level:      a.logger.GetLevel(),
				JSONFormat: true,
			})
			tonal.Serve(tonal.NewMatcolor(), logger)
			return nil
		},
	}
}
