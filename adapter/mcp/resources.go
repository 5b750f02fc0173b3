package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/queries"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
)

// RegisterResources registers MCP resources that expose SmartTask data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	if err := registerStrategyResources(srv, deps); err != nil {
		return err
	}
	if err := registerRunResources(srv, deps); err != nil {
		return err
	}

	return nil
}

func registerStrategyResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("strategies://all").
		Name("Strategies").
		Description("Every scoring strategy with its weights; the default is flagged").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListStrategiesHandler == nil {
				return nil, errors.New("strategies are not available")
			}
			strategies, err := app.ListStrategiesHandler.Handle(ctx, queries.ListStrategiesQuery{})
			if err != nil {
				return nil, err
			}
			return jsonContent(uri, strategies)
		})

	srv.Resource("tasks://sample").
		Name("Sample tasks").
		Description("The sample tasks ranked when no tasks are supplied").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return jsonContent(uri, domain.SampleTasks(time.Now()))
		})

	return nil
}

func registerRunResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("runs://recent").
		Name("Recent runs").
		Description("The most recent recorded analysis runs").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListRunsHandler == nil {
				return nil, queries.ErrHistoryDisabled
			}
			runs, err := app.ListRunsHandler.Handle(ctx, queries.ListRunsQuery{})
			if err != nil {
				return nil, err
			}
			return jsonContent(uri, runs)
		})

	return nil
}

func jsonContent(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
