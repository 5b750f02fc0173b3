package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/commands"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/queries"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
)

type analyzeInput struct {
	Tasks    []domain.Task `json:"tasks" jsonschema:"required"`
	Strategy string        `json:"strategy,omitempty"`
	Today    string        `json:"today,omitempty"`
}

// analyzeOutput matches the HTTP analyze response.
type analyzeOutput struct {
	Strategy             string                `json:"strategy"`
	AppliedStrategy      string                `json:"applied_strategy"`
	Tasks                []domain.ScoredResult `json:"tasks"`
	TotalTasks           int                   `json:"total_tasks"`
	CircularDependencies []domain.Cycle        `json:"circular_dependencies"`
	RunID                string                `json:"run_id,omitempty"`
}

type suggestInput struct {
	Tasks    []domain.Task `json:"tasks,omitempty"`
	Strategy string        `json:"strategy,omitempty"`
	Top      int           `json:"top,omitempty"`
	Today    string        `json:"today,omitempty"`
}

type suggestOutput struct {
	domain.Suggestion
	UsedSample bool `json:"used_sample"`
}

func registerAnalysisTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("analyze_tasks").
		Description("Rank tasks by priority and explain each score. Strategies: smart_balance, fastest_wins, high_impact, deadline_driven, or any loaded custom strategy.").
		Handler(func(ctx context.Context, input analyzeInput) (*analyzeOutput, error) {
			if app == nil || app.AnalyzeTasksHandler == nil {
				return nil, errors.New("analysis is not available")
			}
			today, err := parseToday(input.Today)
			if err != nil {
				return nil, err
			}

			result, err := app.AnalyzeTasksHandler.Handle(ctx, commands.AnalyzeTasksCommand{
				Tasks:    input.Tasks,
				Strategy: input.Strategy,
				Source:   domain.SourceMCP,
				Today:    today,
			})
			if err != nil {
				return nil, err
			}

			out := &analyzeOutput{
				Strategy:             result.Analysis.Strategy,
				AppliedStrategy:      result.Analysis.AppliedStrategy,
				Tasks:                result.Analysis.Results,
				TotalTasks:           len(input.Tasks),
				CircularDependencies: result.Analysis.Cycles,
			}
			if result.RunID != nil {
				out.RunID = result.RunID.String()
			}
			return out, nil
		})

	srv.Tool("suggest_tasks").
		Description("Suggest the top tasks to work on next. Without tasks the built-in sample tasks are ranked.").
		Handler(func(ctx context.Context, input suggestInput) (*suggestOutput, error) {
			if app == nil || app.SuggestTasksHandler == nil {
				return nil, errors.New("suggestions are not available")
			}
			if input.Top < 0 {
				return nil, errors.New("top must not be negative")
			}
			today, err := parseToday(input.Today)
			if err != nil {
				return nil, err
			}

			result, err := app.SuggestTasksHandler.Handle(ctx, queries.SuggestTasksQuery{
				Tasks:    input.Tasks,
				Strategy: input.Strategy,
				TopN:     input.Top,
				Today:    today,
			})
			if err != nil {
				return nil, err
			}
			return &suggestOutput{Suggestion: result.Suggestion, UsedSample: result.UsedSample}, nil
		})

	srv.Tool("list_strategies").
		Description("List the scoring strategies with their weights").
		Handler(func(ctx context.Context, input struct{}) ([]queries.StrategyDTO, error) {
			if app == nil || app.ListStrategiesHandler == nil {
				return nil, errors.New("strategies are not available")
			}
			return app.ListStrategiesHandler.Handle(ctx, queries.ListStrategiesQuery{})
		})

	return nil
}
