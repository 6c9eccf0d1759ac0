package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Suomen-Palikkayhteiso-ry/brand/internal/server"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline over HTTP",
		Long: `Serve the render pipeline over HTTP.

  POST /v1/render?format=svg&pixel-width=32   source document as request body
  GET  /v1/version
  GET  /v1/stats
  GET  /healthz

Query parameters use the render flag names. The [render] section of the
config file sets the defaults every request starts from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printKeyValue("Address", cfg.Addr)
			printKeyValue("Max body", fmt.Sprintf("%d bytes", cfg.MaxBodyBytes))
			counters := observability.NewCounters()
			observability.Install(counters)
			defer observability.Reset()

			srv := server.New(runner, c.config.Options(), cfg, c.Logger).WithStats(counters)
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.config.Server.Addr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
