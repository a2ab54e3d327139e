package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/archgen/archgen/pkg/buildinfo"
)

// Execute runs the archgen CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands (generate,
// render, validate, serve), configures logging based on the --verbose flag,
// and executes the command tree. The logger is attached to the context and
// accessible to all commands via loggerFromContext.
func Execute() error {
	var verbose bool

	root := &cobra.Command{
		Use:          "archgen",
		Short:        "Archgen compiles architecture plans into diagrams",
		Long:         `Archgen turns untrusted architecture plan JSON into normalized plans, draw.io-compatible diagram XML, and standalone SVG renderings, with local validation of the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(context.Background())
}
