package mcp

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Elangosridhar/Smarttask-analysis/internal/app"
	mcpinternal "github.com/Elangosridhar/Smarttask-analysis/internal/mcp"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/config"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
)

var container *app.Container

// SetContainer shares an already built container with the serve command.
func SetContainer(c *app.Container) {
	container = c
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server over HTTP on MCP_ADDR.

Set MCP_AUTH_TOKEN to require a bearer token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		c := container
		if c == nil {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c, err = app.New(ctx, cfg, observability.LoggerFromEnv())
			if err != nil {
				return err
			}
			defer c.Close()
		}

		logger := c.Logger
		if c.Config.StrategyFile != "" {
			go func() {
				if err := c.WatchStrategies(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("strategy watcher stopped", observability.ErrorKey, err)
				}
			}()
		}

		err := mcpinternal.Serve(ctx, c.Config, mcpinternal.NewCLIApp(c), logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
