package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/Elangosridhar/Smarttask-analysis/adapter/cli"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
)

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("health").
		Description("Report the health of the scorer and its backing services").
		Handler(func(ctx context.Context, input struct{}) (observability.OverallHealth, error) {
			if app == nil {
				return observability.OverallHealth{}, errors.New("app not initialized")
			}
			if app.Health == nil {
				return observability.NewHealthRegistry().Check(ctx), nil
			}
			return app.Health.Check(ctx), nil
		})

	srv.Tool("version").
		Description("Get SmartTask version information").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			return map[string]string{
				"version":   cli.Version,
				"commit":    cli.Commit,
				"buildDate": cli.BuildDate,
			}, nil
		})

	return nil
}
