package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/archgen/archgen/internal/server"
)

// newServeCmd creates the serve command running the HTTP API. Configuration
// comes from the environment (and a .env file in development); flags
// override the listen address.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the archgen HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := server.LoadConfig()
			if addr != "" {
				cfg.Addr = addr
			}

			logger := loggerFromContext(ctx)
			s, cleanup, err := server.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			return s.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides "+server.EnvAddr+")")
	return cmd
}
