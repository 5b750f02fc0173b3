package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Elangosridhar/Smarttask-analysis/internal/app"
	mcpinternal "github.com/Elangosridhar/Smarttask-analysis/internal/mcp"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/config"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", observability.ErrorKey, err)
		os.Exit(1)
	}

	container, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", observability.ErrorKey, err)
		os.Exit(1)
	}
	defer container.Close()

	if cfg.StrategyFile != "" {
		go func() {
			if err := container.WatchStrategies(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("strategy watcher stopped", observability.ErrorKey, err)
			}
		}()
	}

	if err := mcpinternal.Serve(ctx, cfg, mcpinternal.NewCLIApp(container), logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", observability.ErrorKey, err)
		os.Exit(1)
	}
}
