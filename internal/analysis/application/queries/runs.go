package queries

import (
	"context"
	"errors"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/google/uuid"
)

// ErrHistoryDisabled is returned when no run repository is configured.
var ErrHistoryDisabled = errors.New("analysis history is disabled")

// RunDTO summarizes a recorded analysis run.
type RunDTO struct {
	ID              uuid.UUID      `json:"id"`
	Strategy        string         `json:"strategy"`
	AppliedStrategy string         `json:"applied_strategy"`
	TotalTasks      int            `json:"total_tasks"`
	TopTitles       []string       `json:"top_titles"`
	Cycles          []domain.Cycle `json:"circular_dependencies"`
	Source          string         `json:"source"`
	CreatedAt       time.Time      `json:"created_at"`
}

// RunDetailDTO is a run with its full ranking.
type RunDetailDTO struct {
	RunDTO
	Results []domain.ScoredResult `json:"tasks"`
}

func toRunDTO(run *domain.AnalysisRun) RunDTO {
	return RunDTO{
		ID:              run.ID(),
		Strategy:        run.Strategy(),
		AppliedStrategy: run.AppliedStrategy(),
		TotalTasks:      run.TotalTasks(),
		TopTitles:       run.TopTitles(),
		Cycles:          run.Cycles(),
		Source:          run.Source(),
		CreatedAt:       run.CreatedAt(),
	}
}

// ListRunsQuery lists recent runs, newest first.
type ListRunsQuery struct {
	Limit int
}

// QueryName implements application.Query.
func (ListRunsQuery) QueryName() string { return "list_runs" }

// ListRunsHandler handles the ListRunsQuery.
type ListRunsHandler struct {
	runRepo domain.RunRepository
}

// NewListRunsHandler creates a new ListRunsHandler.
func NewListRunsHandler(runRepo domain.RunRepository) *ListRunsHandler {
	return &ListRunsHandler{runRepo: runRepo}
}

// Handle executes the ListRunsQuery.
func (h *ListRunsHandler) Handle(ctx context.Context, query ListRunsQuery) ([]RunDTO, error) {
	if h.runRepo == nil {
		return nil, ErrHistoryDisabled
	}

	runs, err := h.runRepo.List(ctx, query.Limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]RunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toRunDTO(run))
	}
	return dtos, nil
}

// GetRunQuery fetches one run.
type GetRunQuery struct {
	ID uuid.UUID
}

// QueryName implements application.Query.
func (GetRunQuery) QueryName() string { return "get_run" }

// GetRunHandler handles the GetRunQuery.
type GetRunHandler struct {
	runRepo domain.RunRepository
}

// NewGetRunHandler creates a new GetRunHandler.
func NewGetRunHandler(runRepo domain.RunRepository) *GetRunHandler {
	return &GetRunHandler{runRepo: runRepo}
}

// Handle executes the GetRunQuery.
func (h *GetRunHandler) Handle(ctx context.Context, query GetRunQuery) (*RunDetailDTO, error) {
	if h.runRepo == nil {
		return nil, ErrHistoryDisabled
	}

	run, err := h.runRepo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, err
	}

	results, err := run.ScoredResults()
	if err != nil {
		return nil, err
	}

	return &RunDetailDTO{RunDTO: toRunDTO(run), Results: results}, nil
}
