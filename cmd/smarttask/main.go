package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Elangosridhar/Smarttask-analysis/adapter/cli"
	"github.com/Elangosridhar/Smarttask-analysis/adapter/cli/mcp"
	"github.com/Elangosridhar/Smarttask-analysis/adapter/cli/serve"
	"github.com/Elangosridhar/Smarttask-analysis/internal/app"
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
	cli.SetLogger(logger)

	container, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", observability.ErrorKey, err)
		os.Exit(1)
	}
	defer container.Close()

	cliApp := cli.NewApp(
		container.AnalyzeTasksHandler,
		container.SuggestTasksHandler,
		container.ListStrategiesHandler,
		container.ListRunsHandler,
		container.GetRunHandler,
	)
	cliApp.SetHealth(container.Health)
	cli.SetApp(cliApp)

	serve.SetContainer(container)
	mcp.SetContainer(container)

	cli.AddCommand(serve.Cmd)
	cli.AddCommand(mcp.Cmd)

	cli.Execute(ctx)
}
