package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/commands"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/queries"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
	"github.com/google/uuid"
)

const (
	errInvalidTaskData = "Invalid task data"
	errInternal        = "Internal server error"

	// HeaderCache reports HIT or MISS for analysis responses.
	HeaderCache = "X-Cache"
)

// AnalysisHandler handles task analysis API requests.
type AnalysisHandler struct {
	analyze        *commands.AnalyzeTasksHandler
	suggest        *queries.SuggestTasksHandler
	listStrategies *queries.ListStrategiesHandler
	listRuns       *queries.ListRunsHandler
	getRun         *queries.GetRunHandler
	logger         *slog.Logger
}

// AnalysisHandlerConfig holds dependencies for the analysis handler.
type AnalysisHandlerConfig struct {
	Analyze        *commands.AnalyzeTasksHandler
	Suggest        *queries.SuggestTasksHandler
	ListStrategies *queries.ListStrategiesHandler
	ListRuns       *queries.ListRunsHandler
	GetRun         *queries.GetRunHandler
	Logger         *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(cfg AnalysisHandlerConfig) *AnalysisHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &AnalysisHandler{
		analyze:        cfg.Analyze,
		suggest:        cfg.Suggest,
		listStrategies: cfg.ListStrategies,
		listRuns:       cfg.ListRuns,
		getRun:         cfg.GetRun,
		logger:         cfg.Logger,
	}
}

// AnalyzeRequest is the body of POST /api/tasks/analyze/.
type AnalyzeRequest struct {
	Tasks    []domain.Task `json:"tasks"`
	Strategy string        `json:"strategy"`
}

// AnalyzeResponse is the ranked task list.
type AnalyzeResponse struct {
	Strategy             string                `json:"strategy"`
	Tasks                []domain.ScoredResult `json:"tasks"`
	TotalTasks           int                   `json:"total_tasks"`
	CircularDependencies []domain.Cycle        `json:"circular_dependencies"`
	RunID                *uuid.UUID            `json:"run_id,omitempty"`
}

// SuggestRequest is the body of POST /api/tasks/suggest/.
type SuggestRequest struct {
	Tasks    []domain.Task `json:"tasks"`
	Strategy string        `json:"strategy"`
	Top      int           `json:"top"`
}

// StrategiesResponse lists the available strategies.
type StrategiesResponse struct {
	Default    string                `json:"default"`
	Strategies []queries.StrategyDTO `json:"strategies"`
}

// AnalyzeTasks handles POST /api/tasks/analyze/
func (h *AnalysisHandler) AnalyzeTasks(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.analyze.Handle(r.Context(), commands.AnalyzeTasksCommand{
		Tasks:    req.Tasks,
		Strategy: req.Strategy,
		Source:   domain.SourceAPI,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if result.Cached {
		w.Header().Set(HeaderCache, "HIT")
	} else {
		w.Header().Set(HeaderCache, "MISS")
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Strategy:             result.Analysis.Strategy,
		Tasks:                result.Analysis.Results,
		TotalTasks:           len(req.Tasks),
		CircularDependencies: result.Analysis.Cycles,
		RunID:                result.RunID,
	})
}

// SuggestSample handles GET /api/tasks/suggest/ over the sample tasks.
func (h *AnalysisHandler) SuggestSample(w http.ResponseWriter, r *http.Request) {
	top, ok := intParam(w, r, "top")
	if !ok {
		return
	}

	h.runSuggest(w, r, queries.SuggestTasksQuery{
		Strategy: r.URL.Query().Get("strategy"),
		TopN:     top,
	})
}

// SuggestTasks handles POST /api/tasks/suggest/
func (h *AnalysisHandler) SuggestTasks(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.runSuggest(w, r, queries.SuggestTasksQuery{
		Tasks:    req.Tasks,
		Strategy: req.Strategy,
		TopN:     req.Top,
	})
}

func (h *AnalysisHandler) runSuggest(w http.ResponseWriter, r *http.Request, query queries.SuggestTasksQuery) {
	result, err := h.suggest.Handle(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Suggestion)
}

// ListStrategies handles GET /api/strategies
func (h *AnalysisHandler) ListStrategies(w http.ResponseWriter, r *http.Request) {
	strategies, err := h.listStrategies.Handle(r.Context(), queries.ListStrategiesQuery{})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := StrategiesResponse{Strategies: strategies}
	for _, s := range strategies {
		if s.Default {
			resp.Default = s.Name
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListRuns handles GET /api/runs
func (h *AnalysisHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit")
	if !ok {
		return
	}

	runs, err := h.listRuns.Handle(r.Context(), queries.ListRunsQuery{Limit: limit})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// GetRun handles GET /api/runs/{runID}
func (h *AnalysisHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("runID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	run, err := h.getRun.Handle(r.Context(), queries.GetRunQuery{ID: id})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *AnalysisHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   errInvalidTaskData,
			Message: err.Error(),
		})
		return false
	}
	return true
}

// fail maps application errors onto responses.
func (h *AnalysisHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		resp := ErrorResponse{Error: errInvalidTaskData, Details: verr.Details}
		if verr.TaskIndex >= 0 {
			index := verr.TaskIndex
			resp.Index = &index
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrRunNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, queries.ErrHistoryDisabled):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			observability.ErrorKey, err.Error(),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   errInternal,
			Message: err.Error(),
		})
	}
}

// intParam reads an optional integer query parameter. Zero means absent.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		writeError(w, http.StatusBadRequest, name+" must be a non-negative integer")
		return 0, false
	}
	return v, true
}
