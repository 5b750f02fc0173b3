package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/services"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRunRepo struct {
	mock.Mock
}

func (m *mockRunRepo) Save(ctx context.Context, run *domain.AnalysisRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockRunRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.AnalysisRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisRun), args.Error(1)
}

func (m *mockRunRepo) List(ctx context.Context, limit int) ([]*domain.AnalysisRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AnalysisRun), args.Error(1)
}

var testToday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func testScorer() *services.Scorer {
	return services.NewScorer(nil, services.WithClock(func() time.Time { return testToday }))
}

func task(title string, daysOut int, hours float64, importance int) domain.Task {
	return domain.Task{
		Title:          title,
		DueDate:        domain.DateOf(testToday.AddDate(0, 0, daysOut)),
		EstimatedHours: hours,
		Importance:     importance,
		Dependencies:   []int{},
	}
}

func TestSuggestTasksHandler_SampleTasks(t *testing.T) {
	handler := NewSuggestTasksHandler(testScorer(), 0, nil, observability.Discard())

	result, err := handler.Handle(context.Background(), SuggestTasksQuery{})

	require.NoError(t, err)
	assert.True(t, result.UsedSample)
	assert.Equal(t, domain.StrategySmartBalance, result.Suggestion.Strategy)
	assert.Equal(t, 3, result.Suggestion.TotalTasksAnalyzed)
	require.Len(t, result.Suggestion.TopTasks, 3)
	assert.Equal(t, "Fix critical login bug", result.Suggestion.TopTasks[0].Task.Title)
	assert.Empty(t, result.Suggestion.CircularDependencies)
}

func TestSuggestTasksHandler_TopN(t *testing.T) {
	tasks := []domain.Task{
		task("a", 0, 1, 9),
		task("b", 3, 2, 7),
		task("c", 10, 8, 3),
		task("d", 20, 12, 2),
	}

	t.Run("configured default", func(t *testing.T) {
		handler := NewSuggestTasksHandler(testScorer(), 2, nil, observability.Discard())
		result, err := handler.Handle(context.Background(), SuggestTasksQuery{Tasks: tasks})
		require.NoError(t, err)
		assert.False(t, result.UsedSample)
		assert.Len(t, result.Suggestion.TopTasks, 2)
		assert.Equal(t, 4, result.Suggestion.TotalTasksAnalyzed)
	})

	t.Run("explicit", func(t *testing.T) {
		handler := NewSuggestTasksHandler(testScorer(), 2, nil, observability.Discard())
		result, err := handler.Handle(context.Background(), SuggestTasksQuery{Tasks: tasks, TopN: 10})
		require.NoError(t, err)
		assert.Len(t, result.Suggestion.TopTasks, 4)
	})

	t.Run("matches analysis order", func(t *testing.T) {
		scorer := testScorer()
		handler := NewSuggestTasksHandler(scorer, 3, nil, observability.Discard())
		result, err := handler.Handle(context.Background(), SuggestTasksQuery{Tasks: tasks, Strategy: domain.StrategyHighImpact})
		require.NoError(t, err)

		analysis, err := scorer.Analyze(tasks, domain.StrategyHighImpact)
		require.NoError(t, err)
		assert.Equal(t, analysis.Results[:3], result.Suggestion.TopTasks)
	})
}

func TestSuggestTasksHandler_InvalidTasks(t *testing.T) {
	metrics := observability.NewInMemoryMetrics()
	handler := NewSuggestTasksHandler(testScorer(), 3, metrics, observability.Discard())

	bad := task("x", 1, 2, 11)
	_, err := handler.Handle(context.Background(), SuggestTasksQuery{Tasks: []domain.Task{bad}})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricAnalysisInvalid))
}

func TestListStrategiesHandler(t *testing.T) {
	table, err := domain.DefaultStrategyTable().Extend(domain.StrategyDeadlineDriven)
	require.NoError(t, err)
	handler := NewListStrategiesHandler(services.NewScorer(table))

	strategies, err := handler.Handle(context.Background(), ListStrategiesQuery{})

	require.NoError(t, err)
	require.Len(t, strategies, 4)
	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, s.Name)
		assert.Equal(t, s.Name == domain.StrategyDeadlineDriven, s.Default, s.Name)
	}
	assert.Equal(t, []string{
		domain.StrategyDeadlineDriven,
		domain.StrategyFastestWins,
		domain.StrategyHighImpact,
		domain.StrategySmartBalance,
	}, names)
}

func newRun(t *testing.T) *domain.AnalysisRun {
	t.Helper()
	analysis, err := testScorer().Analyze([]domain.Task{task("a", 1, 2, 5), task("b", 4, 3, 8)}, "")
	require.NoError(t, err)
	run, err := domain.NewAnalysisRun(analysis, domain.SourceAPI)
	require.NoError(t, err)
	return run
}

func TestListRunsHandler(t *testing.T) {
	t.Run("history disabled", func(t *testing.T) {
		_, err := NewListRunsHandler(nil).Handle(context.Background(), ListRunsQuery{})
		assert.ErrorIs(t, err, ErrHistoryDisabled)
	})

	t.Run("lists runs", func(t *testing.T) {
		repo := new(mockRunRepo)
		run := newRun(t)
		repo.On("List", mock.Anything, 5).Return([]*domain.AnalysisRun{run}, nil)

		runs, err := NewListRunsHandler(repo).Handle(context.Background(), ListRunsQuery{Limit: 5})

		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, run.ID(), runs[0].ID)
		assert.Equal(t, 2, runs[0].TotalTasks)
		assert.Equal(t, domain.StrategySmartBalance, runs[0].AppliedStrategy)
		repo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(mockRunRepo)
		repo.On("List", mock.Anything, 0).Return(nil, errors.New("db gone"))

		_, err := NewListRunsHandler(repo).Handle(context.Background(), ListRunsQuery{})
		assert.EqualError(t, err, "db gone")
	})
}

func TestGetRunHandler(t *testing.T) {
	t.Run("history disabled", func(t *testing.T) {
		_, err := NewGetRunHandler(nil).Handle(context.Background(), GetRunQuery{ID: uuid.New()})
		assert.ErrorIs(t, err, ErrHistoryDisabled)
	})

	t.Run("returns results", func(t *testing.T) {
		repo := new(mockRunRepo)
		run := newRun(t)
		repo.On("FindByID", mock.Anything, run.ID()).Return(run, nil)

		detail, err := NewGetRunHandler(repo).Handle(context.Background(), GetRunQuery{ID: run.ID()})

		require.NoError(t, err)
		assert.Equal(t, run.ID(), detail.ID)
		require.Len(t, detail.Results, 2)
		assert.Equal(t, run.TopTitles()[0], detail.Results[0].Task.Title)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockRunRepo)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, domain.ErrRunNotFound)

		_, err := NewGetRunHandler(repo).Handle(context.Background(), GetRunQuery{ID: id})
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})
}
