package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archgen/archgen/pkg/render"
)

// newRenderCmd creates the render command: diagram XML in, standalone SVG
// out. Unparseable input still produces an SVG (an error image), matching
// the renderer's no-fail contract, but the command reports it.
func newRenderCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render [diagram-file]",
		Short: "Rasterize diagram XML into a standalone SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			diagram, err := readInput(args)
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)
			svg := render.SVG([]byte(diagram))
			prog.done("Rendered SVG")

			if output == "" || output == "-" {
				_, err := os.Stdout.Write(svg)
				return err
			}
			if err := os.WriteFile(output, svg, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			if strings.Contains(string(svg), "Unable to render diagram") {
				printWarning("Input was not a valid diagram; wrote an error image")
			} else {
				printSuccess("Rendered diagram")
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
