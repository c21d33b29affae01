package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hanzitree/pkg/api"
	"github.com/matzehuels/hanzitree/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API over the configured storage, notes store and dictionary.

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr != "" {
				c.cfg.Server.Addr = addr
			}

			dict, err := openDictionary(c.cfg.Dictionary)
			if err != nil {
				return fmt.Errorf("load dictionary: %w", err)
			}
			data, err := c.openLocal(ctx)
			if err != nil {
				return err
			}
			defer data.Close()

			runner := c.newRunner(ctx)
			defer runner.Close()

			if c.Logger.GetLevel() <= log.DebugLevel {
				observability.Install(observability.NewLogHooks(c.Logger))
				defer observability.Reset()
			}

			srv, err := api.New(api.Config{
				Addr:       c.cfg.Server.Addr,
				Repository: data.repo,
				Notes:      data.notes,
				Dictionary: dict,
				Runner:     runner,
				Logger:     c.Logger,
				Render:     c.cfg.Render(),
			})
			if err != nil {
				return err
			}

			c.Logger.Info("serving", "addr", srv.Addr(), "words", dict.Len(), "storage", c.cfg.Storage.Backend)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
