package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/services"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/infrastructure/persistence"
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/database"
	_ "github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/database/sqlite"
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/migrations"
)

var today = time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (*persistence.SQLRunRepository, database.Connection) {
	t.Helper()
	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))
	return persistence.NewSQLRunRepository(conn), conn
}

func newRun(t *testing.T, tasks []domain.Task) *domain.AnalysisRun {
	t.Helper()
	scorer := services.NewScorer(nil, services.WithClock(func() time.Time { return today }))
	analysis, err := scorer.Analyze(tasks, domain.StrategyHighImpact)
	require.NoError(t, err)
	run, err := domain.NewAnalysisRun(analysis, domain.SourceCLI)
	require.NoError(t, err)
	return run
}

func TestSQLRunRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	tasks := domain.SampleTasks(today)
	tasks = append(tasks, domain.Task{
		Title:          "Loop back",
		DueDate:        domain.DateOf(today),
		EstimatedHours: 1,
		Importance:     2,
		Dependencies:   []int{3, 2},
	})
	tasks[2].Dependencies = []int{3}
	run := newRun(t, tasks)
	require.NotEmpty(t, run.Cycles())

	require.NoError(t, repo.Save(ctx, run))

	found, err := repo.FindByID(ctx, run.ID())
	require.NoError(t, err)

	assert.Equal(t, run.ID(), found.ID())
	assert.Equal(t, domain.StrategyHighImpact, found.Strategy())
	assert.Equal(t, domain.StrategyHighImpact, found.AppliedStrategy())
	assert.Equal(t, 4, found.TotalTasks())
	assert.Equal(t, run.TopTitles(), found.TopTitles())
	assert.Equal(t, run.Cycles(), found.Cycles())
	assert.Equal(t, domain.SourceCLI, found.Source())
	assert.WithinDuration(t, run.CreatedAt(), found.CreatedAt(), time.Second)
	assert.Empty(t, found.DomainEvents())

	results, err := found.ScoredResults()
	require.NoError(t, err)
	require.Len(t, results, 4)
	original, err := run.ScoredResults()
	require.NoError(t, err)
	assert.Equal(t, original[0].FinalScore, results[0].FinalScore)
	assert.Equal(t, original[0].Task.Title, results[0].Task.Title)
}

func TestSQLRunRepository_FindByID_NotFound(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestSQLRunRepository_List(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	empty, err := repo.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		run := newRun(t, domain.SampleTasks(today))
		require.NoError(t, repo.Save(ctx, run))
		ids = append(ids, run.ID())
		time.Sleep(5 * time.Millisecond)
	}

	runs, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID())
	assert.Equal(t, ids[1], runs[1].ID())

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLRunRepository_SaveInsideUnitOfWork(t *testing.T) {
	ctx := context.Background()
	repo, conn := newRepo(t)
	uow := database.NewUnitOfWork(conn)

	run := newRun(t, domain.SampleTasks(today))

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Save(txCtx, run))
	require.NoError(t, uow.Rollback(txCtx))

	_, err = repo.FindByID(ctx, run.ID())
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}
