// Package serve runs the HTTP API alongside the strategy watcher and the
// outbox processor.
package serve

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Elangosridhar/Smarttask-analysis/adapter/api"
	"github.com/Elangosridhar/Smarttask-analysis/internal/app"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/config"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
)

const shutdownTimeout = 10 * time.Second

var (
	container *app.Container
	addr      string
)

// SetContainer shares an already built container with the serve command.
func SetContainer(c *app.Container) {
	container = c
}

// Cmd starts the HTTP API.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API on HTTP_ADDR.

The strategy file, when set, is watched and reloaded on change. The outbox
processor runs in the same process unless OUTBOX_PROCESSOR_ENABLED=false.`,
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

		return Run(ctx, c, addr)
	},
}

// Run serves the API until ctx is canceled. An empty listen address uses
// the configured HTTP_ADDR.
func Run(ctx context.Context, c *app.Container, listen string) error {
	if c == nil {
		return errors.New("container is required")
	}
	logger := c.Logger

	if c.Config.StrategyFile != "" {
		go func() {
			if err := c.WatchStrategies(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("strategy watcher stopped", observability.ErrorKey, err)
			}
		}()
	}

	if c.OutboxProcessor != nil && c.Config.OutboxProcessorEnabled {
		if err := c.OutboxProcessor.Start(ctx); err != nil {
			return err
		}
	}

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = c.Config.HTTPAddr
	if listen != "" {
		serverCfg.Addr = listen
	}

	server := api.NewServer(serverCfg, NewHandler(c), c.Health, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// NewHandler wires the container's handlers into the HTTP adapter.
func NewHandler(c *app.Container) *api.AnalysisHandler {
	return api.NewAnalysisHandler(api.AnalysisHandlerConfig{
		Analyze:        c.AnalyzeTasksHandler,
		Suggest:        c.SuggestTasksHandler,
		ListStrategies: c.ListStrategiesHandler,
		ListRuns:       c.ListRunsHandler,
		GetRun:         c.GetRunHandler,
		Logger:         c.Logger,
	})
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "listen address (default HTTP_ADDR)")
}
