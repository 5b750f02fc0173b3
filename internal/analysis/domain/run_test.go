package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAnalysis(cycles []Cycle) Analysis {
	titles := []string{"a", "b", "c", "d"}
	results := make([]ScoredResult, 0, len(titles))
	for i, title := range titles {
		results = append(results, ScoredResult{
			Task:       Task{Title: title, DueDate: DueDateFromString("2025-01-01"), EstimatedHours: 1, Importance: 5},
			FinalScore: 0.9 - float64(i)*0.1,
			Tier:       TierHigh,
		})
	}
	return Analysis{
		Strategy:        "custom",
		AppliedStrategy: StrategySmartBalance,
		Results:         results,
		Cycles:          cycles,
	}
}

func TestNewAnalysisRun(t *testing.T) {
	run, err := NewAnalysisRun(sampleAnalysis(nil), SourceAPI)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, run.ID())
	assert.Equal(t, "custom", run.Strategy())
	assert.Equal(t, StrategySmartBalance, run.AppliedStrategy())
	assert.Equal(t, 4, run.TotalTasks())
	assert.Equal(t, []string{"a", "b", "c"}, run.TopTitles())
	assert.Empty(t, run.Cycles())
	assert.Equal(t, SourceAPI, run.Source())

	events := run.DomainEvents()
	require.Len(t, events, 1)
	completed, ok := events[0].(*AnalysisCompleted)
	require.True(t, ok)
	assert.Equal(t, RoutingKeyAnalysisCompleted, completed.RoutingKey())
	assert.Equal(t, run.ID(), completed.AggregateID())
	assert.Equal(t, 4, completed.TotalTasks)

	results, err := run.ScoredResults()
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, "a", results[0].Task.Title)
	assert.Equal(t, "2025-01-01", results[0].Task.DueDate.String())
}

func TestNewAnalysisRun_WithCycles(t *testing.T) {
	run, err := NewAnalysisRun(sampleAnalysis([]Cycle{{0, 1}}), SourceCLI)
	require.NoError(t, err)

	events := run.DomainEvents()
	require.Len(t, events, 2)

	detected, ok := events[1].(*CircularDependenciesDetected)
	require.True(t, ok)
	assert.Equal(t, RoutingKeyCyclesDetected, detected.RoutingKey())
	assert.Equal(t, 1, detected.CycleCount)
	assert.Equal(t, []Cycle{{0, 1}}, detected.Cycles)
}

func TestRehydrateAnalysisRun(t *testing.T) {
	id := uuid.New()
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	run := RehydrateAnalysisRun(id, "x", StrategySmartBalance, 2, nil, nil, nil, SourceMCP, created)

	assert.Equal(t, id, run.ID())
	assert.Equal(t, created, run.CreatedAt())
	assert.Empty(t, run.DomainEvents())
	assert.NotNil(t, run.TopTitles())
	assert.NotNil(t, run.Cycles())

	results, err := run.ScoredResults()
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, TierHigh, TierFor(0.71))
	assert.Equal(t, TierMedium, TierFor(0.7))
	assert.Equal(t, TierMedium, TierFor(0.41))
	assert.Equal(t, TierLow, TierFor(0.4))
}

func TestAnalysis_Top(t *testing.T) {
	a := sampleAnalysis(nil)

	assert.Len(t, a.Top(2), 2)
	assert.Len(t, a.Top(10), 4)
	assert.Empty(t, a.Top(-1))
}
