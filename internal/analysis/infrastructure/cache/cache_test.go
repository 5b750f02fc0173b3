package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

func sampleTasks() []domain.Task {
	return domain.SampleTasks(today)
}

func TestKey(t *testing.T) {
	table := domain.DefaultStrategyTable()
	balance := table.Resolve(domain.StrategySmartBalance)

	base, err := Key("smart_balance", balance, today, sampleTasks())
	require.NoError(t, err)
	assert.Contains(t, base, KeyPrefix)

	again, err := Key("smart_balance", balance, today, sampleTasks())
	require.NoError(t, err)
	assert.Equal(t, base, again)

	t.Run("changes with the day", func(t *testing.T) {
		k, err := Key("smart_balance", balance, today.AddDate(0, 0, 1), sampleTasks())
		require.NoError(t, err)
		assert.NotEqual(t, base, k)
	})

	t.Run("changes with the requested name", func(t *testing.T) {
		k, err := Key("unknown", balance, today, sampleTasks())
		require.NoError(t, err)
		assert.NotEqual(t, base, k)
	})

	t.Run("changes with weights", func(t *testing.T) {
		reweighted := balance
		reweighted.Weights.Urgency = 0.9
		k, err := Key("smart_balance", reweighted, today, sampleTasks())
		require.NoError(t, err)
		assert.NotEqual(t, base, k)
	})

	t.Run("changes with tasks", func(t *testing.T) {
		tasks := sampleTasks()
		tasks[0].Importance = 1
		k, err := Key("smart_balance", balance, today, tasks)
		require.NoError(t, err)
		assert.NotEqual(t, base, k)
	})

	t.Run("nil and empty tasks match", func(t *testing.T) {
		a, err := Key("x", balance, today, nil)
		require.NoError(t, err)
		b, err := Key("x", balance, today, []domain.Task{})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestMemoryResultCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryResultCache(time.Minute)

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	analysis := domain.Analysis{
		Strategy:        "x",
		AppliedStrategy: domain.StrategySmartBalance,
		Results:         []domain.ScoredResult{{FinalScore: 0.5}},
		Cycles:          []domain.Cycle{},
	}
	require.NoError(t, c.Set(ctx, "k", analysis))

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, analysis, got)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryResultCache_CopiesResults(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryResultCache(time.Minute)

	analysis := domain.Analysis{
		Results: []domain.ScoredResult{{FinalScore: 0.5, Task: domain.Task{Title: "a", Dependencies: []int{1}}}},
		Cycles:  []domain.Cycle{{0, 1}},
	}
	require.NoError(t, c.Set(ctx, "k", analysis))

	analysis.Results[0].FinalScore = 0.9
	analysis.Results[0].Task.Dependencies[0] = 7

	first, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 0.5, first.Results[0].FinalScore)
	assert.Equal(t, []int{1}, first.Results[0].Task.Dependencies)

	first.Results[0].Task.Title = "changed"
	first.Cycles[0][0] = 9

	second, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "a", second.Results[0].Task.Title)
	assert.Equal(t, domain.Cycle{0, 1}, second.Cycles[0])
}

func TestMemoryResultCache_Expires(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryResultCache(20 * time.Millisecond)

	require.NoError(t, c.Set(ctx, "k", domain.Analysis{}))
	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}
