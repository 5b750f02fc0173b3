package cli

import (
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/commands"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/queries"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Command Handlers
	AnalyzeTasksHandler *commands.AnalyzeTasksHandler

	// Query Handlers
	SuggestTasksHandler   *queries.SuggestTasksHandler
	ListStrategiesHandler *queries.ListStrategiesHandler
	ListRunsHandler       *queries.ListRunsHandler
	GetRunHandler         *queries.GetRunHandler

	// Health reports the backing services. Optional.
	Health *observability.HealthRegistry
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	analyzeTasksHandler *commands.AnalyzeTasksHandler,
	suggestTasksHandler *queries.SuggestTasksHandler,
	listStrategiesHandler *queries.ListStrategiesHandler,
	listRunsHandler *queries.ListRunsHandler,
	getRunHandler *queries.GetRunHandler,
) *App {
	return &App{
		AnalyzeTasksHandler:   analyzeTasksHandler,
		SuggestTasksHandler:   suggestTasksHandler,
		ListStrategiesHandler: listStrategiesHandler,
		ListRunsHandler:       listRunsHandler,
		GetRunHandler:         getRunHandler,
	}
}

// SetHealth updates the health registry.
func (a *App) SetHealth(health *observability.HealthRegistry) {
	a.Health = health
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
