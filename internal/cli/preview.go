package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/mdyou/internal/colour"
	"github.com/jmylchreest/mdyou/internal/scheme"
)

const swatchWidth = 6

func newPreviewCmd(a *app) *cobra.Command {
	var (
		both      bool
		when      string
		fromImage string
	)

	cmd := &cobra.Command{
		Use:   "preview [HEX]",
		Short: "Show a scheme as terminal colour swatches",
		Long: `Print every role of the scheme with a colour swatch and its hex value.
Swatches need a colour terminal; --color never prints hex values only.`,
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

			w := cmd.OutOrStdout()
			out := termenv.NewOutput(w, termenv.WithProfile(colourProfile(w, when)))
			renderPreview(out, s)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&both, "both", false, "show light and dark side by side")
	f.StringVar(&fromImage, "from-image", "", "derive the source colour from an image file, directory or URL")
	newColorFlag(f, &when)

	return cmd
}

// colourProfile picks the termenv profile for w.
func colourProfile(w io.Writer, when string) termenv.Profile {
	switch when {
	case colorNever:
		return termenv.Ascii
	case colorAlways:
		return termenv.TrueColor
	}

	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return termenv.Ascii
	}
	return termenv.NewOutput(f).EnvColorProfile()
}

func renderPreview(out *termenv.Output, s *schemes) {
	nameWidth := 0
	for _, role := range scheme.AllRoles() {
		nameWidth = max(nameWidth, len(role))
	}

	fmt.Fprintf(out, "source %s, library %s\n\n", s.Source, s.Library)

	// Column headings.
	fmt.Fprintf(out, "%-*s", nameWidth, "")
	for i, mode := range s.Modes {
		label := fmt.Sprintf("%s (%s)", mode, s.Results[i].Source)
		fmt.Fprintf(out, "  %-*s", swatchWidth+8, label)
	}
	fmt.Fprintln(out)

	for _, role := range scheme.AllRoles() {
		fmt.Fprintf(out, "%-*s", nameWidth, role)
		for _, res := range s.Results {
			hex := res.Colors.Hex(role)
			fmt.Fprintf(out, "  %s %s", swatch(out, hex), hex)
		}
		fmt.Fprintln(out)
	}
}

// swatch renders a block of background colour hex. Without colour support
// it is blank padding so the columns stay aligned.
func swatch(out *termenv.Output, hex string) string {
	block := strings.Repeat(" ", swatchWidth)
	if out.Profile == termenv.Ascii {
		return block
	}

	rgb := colour.ParseHex(hex)
	fg := "#000000"
	if colour.ContrastRatio(rgb, colour.White) > colour.ContrastRatio(rgb, colour.Black) {
		fg = "#FFFFFF"
	}
	return out.String(block).Background(out.Color(hex)).Foreground(out.Color(fg)).String()
}
