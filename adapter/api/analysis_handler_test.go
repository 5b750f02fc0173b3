package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/commands"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/queries"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/services"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/infrastructure/cache"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRunRepo is an in-memory domain.RunRepository.
type memoryRunRepo struct {
	mu   sync.Mutex
	runs []*domain.AnalysisRun
}

func (m *memoryRunRepo) Save(_ context.Context, run *domain.AnalysisRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *memoryRunRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.AnalysisRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, run := range m.runs {
		if run.ID() == id {
			return run, nil
		}
	}
	return nil, domain.ErrRunNotFound
}

func (m *memoryRunRepo) List(_ context.Context, limit int) ([]*domain.AnalysisRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AnalysisRun, 0, len(m.runs))
	for i := len(m.runs) - 1; i >= 0; i-- {
		out = append(out, m.runs[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var testToday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, runRepo domain.RunRepository) http.Handler {
	t.Helper()
	logger := observability.Discard()
	scorer := services.NewScorer(nil, services.WithClock(func() time.Time { return testToday }))

	handler := NewAnalysisHandler(AnalysisHandlerConfig{
		Analyze:        commands.NewAnalyzeTasksHandler(scorer, runRepo, nil, nil, cache.NewMemoryResultCache(time.Minute), nil, logger),
		Suggest:        queries.NewSuggestTasksHandler(scorer, 3, nil, logger),
		ListStrategies: queries.NewListStrategiesHandler(scorer),
		ListRuns:       queries.NewListRunsHandler(runRepo),
		GetRun:         queries.NewGetRunHandler(runRepo),
		Logger:         logger,
	})

	health := observability.NewHealthRegistry()
	health.Register("scorer", observability.StaticChecker("ready"))

	return NewServer(DefaultServerConfig(), handler, health, logger).Handler()
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func taskJSON(title, due string, hours float64, importance int, deps ...int) map[string]any {
	if deps == nil {
		deps = []int{}
	}
	return map[string]any{
		"title":           title,
		"due_date":        due,
		"estimated_hours": hours,
		"importance":      importance,
		"dependencies":    deps,
	}
}

func TestAnalyzeTasks(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/tasks/analyze/", map[string]any{
		"tasks": []any{
			taskJSON("Write report", "2025-03-30", 10, 4),
			taskJSON("Fix outage", "2025-03-10", 1, 9),
		},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get(HeaderCache))
	assert.NotEmpty(t, rec.Header().Get(observability.HeaderRequestID))

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.StrategySmartBalance, resp.Strategy)
	assert.Equal(t, 2, resp.TotalTasks)
	require.Len(t, resp.Tasks, 2)
	assert.Equal(t, "Fix outage", resp.Tasks[0].Task.Title)
	assert.Equal(t, 0.9, resp.Tasks[0].ComponentScores.Urgency)
	assert.NotNil(t, resp.CircularDependencies)
	assert.Empty(t, resp.CircularDependencies)
	assert.Nil(t, resp.RunID)
}

func TestAnalyzeTasks_WithoutTrailingSlashAndCached(t *testing.T) {
	srv := newTestServer(t, nil)
	body := map[string]any{
		"tasks":    []any{taskJSON("a", "2025-03-12", 2, 5)},
		"strategy": domain.StrategyFastestWins,
	}

	first := do(t, srv, http.MethodPost, "/api/tasks/analyze", body)
	second := do(t, srv, http.MethodPost, "/api/tasks/analyze", body)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "MISS", first.Header().Get(HeaderCache))
	assert.Equal(t, "HIT", second.Header().Get(HeaderCache))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestAnalyzeTasks_ReportsCycles(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/tasks/analyze/", map[string]any{
		"tasks": []any{
			taskJSON("a", "2025-03-12", 2, 5, 1),
			taskJSON("b", "2025-03-12", 2, 5, 0),
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []domain.Cycle{{0, 1}}, resp.CircularDependencies)
}

func TestAnalyzeTasks_ValidationError(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/tasks/analyze/", map[string]any{
		"tasks": []any{
			taskJSON("ok", "2025-03-12", 2, 5),
			taskJSON("bad", "2025-03-12", 2, 11),
		},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid task data", resp.Error)
	assert.Contains(t, resp.Details, "importance")
	require.NotNil(t, resp.Index)
	assert.Equal(t, 1, *resp.Index)
}

func TestAnalyzeTasks_BadDate(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/tasks/analyze/", map[string]any{
		"tasks": []any{taskJSON("a", "next tuesday", 2, 5)},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Details, "due_date")
}

func TestAnalyzeTasks_MalformedBody(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/tasks/analyze/", `{"tasks": [`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid task data")
}

func TestAnalyzeTasks_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/api/tasks/analyze/", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAnalyzeTasks_RecordsRun(t *testing.T) {
	repo := &memoryRunRepo{}
	srv := newTestServer(t, repo)

	rec := do(t, srv, http.MethodPost, "/api/tasks/analyze/", map[string]any{
		"tasks": []any{taskJSON("a", "2025-03-12", 2, 5)},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.RunID)

	list := do(t, srv, http.MethodGet, "/api/runs?limit=5", nil)
	require.Equal(t, http.StatusOK, list.Code)
	var runs struct {
		Runs []queries.RunDTO `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &runs))
	require.Len(t, runs.Runs, 1)
	assert.Equal(t, *resp.RunID, runs.Runs[0].ID)
	assert.Equal(t, domain.SourceAPI, runs.Runs[0].Source)

	detail := do(t, srv, http.MethodGet, "/api/runs/"+resp.RunID.String(), nil)
	require.Equal(t, http.StatusOK, detail.Code)
	var run queries.RunDetailDTO
	require.NoError(t, json.Unmarshal(detail.Body.Bytes(), &run))
	require.Len(t, run.Results, 1)
	assert.Equal(t, "a", run.Results[0].Task.Title)
}

func TestRuns_Errors(t *testing.T) {
	t.Run("history disabled", func(t *testing.T) {
		rec := do(t, newTestServer(t, nil), http.MethodGet, "/api/runs", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		rec := do(t, newTestServer(t, &memoryRunRepo{}), http.MethodGet, "/api/runs/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := do(t, newTestServer(t, &memoryRunRepo{}), http.MethodGet, "/api/runs/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad limit", func(t *testing.T) {
		rec := do(t, newTestServer(t, &memoryRunRepo{}), http.MethodGet, "/api/runs?limit=-1", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSuggestSample(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, target := range []string{"/api/tasks/suggest/?top=2", "/api/tasks/suggest?top=2"} {
		rec := do(t, srv, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, rec.Code, target)

		var resp domain.Suggestion
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.StrategySmartBalance, resp.Strategy)
		assert.Equal(t, 3, resp.TotalTasksAnalyzed)
		assert.Len(t, resp.TopTasks, 2)
	}
}

func TestSuggestSample_StrategyEcho(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/api/tasks/suggest/?strategy=unknown_one", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.Suggestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unknown_one", resp.Strategy)
	assert.Len(t, resp.TopTasks, 3)
}

func TestSuggestSample_BadTop(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/api/tasks/suggest/?top=many", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestTasks_Post(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/tasks/suggest/", map[string]any{
		"tasks": []any{
			taskJSON("a", "2025-03-20", 6, 3),
			taskJSON("b", "2025-03-10", 1, 8),
		},
		"strategy": domain.StrategyDeadlineDriven,
		"top":      1,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.Suggestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.TopTasks, 1)
	assert.Equal(t, "b", resp.TopTasks[0].Task.Title)
	assert.Equal(t, 2, resp.TotalTasksAnalyzed)
}

func TestListStrategies(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/api/strategies", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp StrategiesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.StrategySmartBalance, resp.Default)
	assert.Len(t, resp.Strategies, 4)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var health observability.OverallHealth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, observability.HealthStatusHealthy, health.Status)
	assert.Contains(t, health.Checks, "scorer")
}

func TestRequestIDs_Echoed(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/strategies", nil)
	req.Header.Set(observability.HeaderRequestID, "req-1")
	req.Header.Set(observability.HeaderCorrelationID, "corr-1")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", rec.Header().Get(observability.HeaderRequestID))
	assert.Equal(t, "corr-1", rec.Header().Get(observability.HeaderCorrelationID))

	req = httptest.NewRequest(http.MethodGet, "/api/strategies", nil)
	req.Header.Set(observability.HeaderRequestID, "req-2")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, "req-2", rec.Header().Get(observability.HeaderCorrelationID))
}

func TestRequestContext_RecoversPanics(t *testing.T) {
	h := requestContext(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), observability.Discard())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLimitBody(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.MaxBodyBytes = 16
	scorer := services.NewScorer(nil)
	handler := NewAnalysisHandler(AnalysisHandlerConfig{
		Analyze: commands.NewAnalyzeTasksHandler(scorer, nil, nil, nil, nil, nil, observability.Discard()),
		Logger:  observability.Discard(),
	})
	srv := NewServer(cfg, handler, nil, observability.Discard()).Handler()

	rec := do(t, srv, http.MethodPost, "/api/tasks/analyze/", map[string]any{
		"tasks": []any{taskJSON("long enough to overflow", "2025-03-12", 2, 5)},
	})

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
