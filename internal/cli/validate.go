package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archgen/archgen/pkg/validate"
)

// newValidateCmd creates the validate command: diagram XML in, report out.
// The command exits non-zero when validation fails, so it composes into
// shell pipelines.
func newValidateCmd() *cobra.Command {
	var goal string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate [diagram-file]",
		Short: "Run local quality checks against diagram XML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			diagram, err := readInput(args)
			if err != nil {
				return err
			}

			report := validate.Check([]byte(diagram), goal)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printReport(report)
			}

			if !report.OK {
				return fmt.Errorf("validation failed with %d issue(s)", len(report.Issues))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&goal, "goal", "g", "", "goal text to check the diagram against")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the report as JSON")
	return cmd
}
