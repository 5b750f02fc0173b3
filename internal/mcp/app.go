package mcp

import (
	"github.com/Elangosridhar/Smarttask-analysis/adapter/cli"
	"github.com/Elangosridhar/Smarttask-analysis/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container) *cli.App {
	cliApp := cli.NewApp(
		container.AnalyzeTasksHandler,
		container.SuggestTasksHandler,
		container.ListStrategiesHandler,
		container.ListRunsHandler,
		container.GetRunHandler,
	)
	cliApp.SetHealth(container.Health)
	return cliApp
}
