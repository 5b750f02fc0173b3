package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/queries"
)

type historyListInput struct {
	Limit int `json:"limit,omitempty"`
}

type historyShowInput struct {
	RunID string `json:"run_id" jsonschema:"required"`
}

func registerHistoryTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("list_runs").
		Description("List recorded analysis runs, newest first").
		Handler(func(ctx context.Context, input historyListInput) ([]queries.RunDTO, error) {
			if app == nil || app.ListRunsHandler == nil {
				return nil, queries.ErrHistoryDisabled
			}
			if input.Limit < 0 {
				return nil, errors.New("limit must not be negative")
			}
			return app.ListRunsHandler.Handle(ctx, queries.ListRunsQuery{Limit: input.Limit})
		})

	srv.Tool("get_run").
		Description("Show the full ranking of a recorded analysis run").
		Handler(func(ctx context.Context, input historyShowInput) (*queries.RunDetailDTO, error) {
			if app == nil || app.GetRunHandler == nil {
				return nil, queries.ErrHistoryDisabled
			}
			id, err := parseUUID(input.RunID)
			if err != nil {
				return nil, err
			}
			return app.GetRunHandler.Handle(ctx, queries.GetRunQuery{ID: id})
		})

	return nil
}
