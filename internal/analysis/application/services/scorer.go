package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
)

// DefaultTopN is the suggestion size used when none is requested.
const DefaultTopN = 3

// Scorer ranks task collections. It holds only an immutable strategy table
// and a clock, so it is safe for concurrent use.
type Scorer struct {
	table *domain.StrategyTable
	clock func() time.Time
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithClock overrides the source of today's date.
func WithClock(clock func() time.Time) ScorerOption {
	return func(s *Scorer) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewScorer creates a scorer over the given strategies. A nil table uses the
// built-in strategies.
func NewScorer(table *domain.StrategyTable, opts ...ScorerOption) *Scorer {
	if table == nil {
		table = domain.DefaultStrategyTable()
	}
	s := &Scorer{table: table, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Strategies returns the scorer's strategy table.
func (s *Scorer) Strategies() *domain.StrategyTable {
	return s.table
}

// At returns a scorer over the same strategies whose today is fixed to day.
func (s *Scorer) At(day time.Time) *Scorer {
	return &Scorer{table: s.table, clock: func() time.Time { return day }}
}

// Today returns the current local calendar date as UTC midnight.
func (s *Scorer) Today() time.Time {
	return calendarDate(s.clock())
}

// ScoreTask scores a single task within its collection.
func (s *Scorer) ScoreTask(task domain.Task, tasks []domain.Task, strategy string) (domain.ScoredResult, error) {
	return s.scoreTask(task, newDependencyGraph(tasks), s.table.Resolve(strategy), s.Today())
}

func (s *Scorer) scoreTask(task domain.Task, graph dependencyGraph, strategy domain.Strategy, today time.Time) (domain.ScoredResult, error) {
	due, err := task.DueDate.Resolve()
	if err != nil {
		return domain.ScoredResult{}, err
	}

	raw := domain.ComponentScores{
		Urgency:    Urgency(due, today),
		Importance: Importance(task.Importance),
		Effort:     Effort(task.EstimatedHours),
		Dependency: graph.impact(task.Dependencies),
	}
	final := Aggregate(raw, strategy.Weights)
	explanation, tier := Explain(raw, final)

	return domain.ScoredResult{
		Task:       task,
		FinalScore: round3(final),
		ComponentScores: domain.ComponentScores{
			Urgency:    round3(raw.Urgency),
			Importance: round3(raw.Importance),
			Effort:     round3(raw.Effort),
			Dependency: round3(raw.Dependency),
		},
		Explanation: explanation,
		Tier:        tier,
	}, nil
}

// Analyze scores every task and orders the results by descending final
// score, keeping input order among equal scores. Tasks must carry a due date,
// estimated hours and importance; anything else is scored as given.
func (s *Scorer) Analyze(tasks []domain.Task, strategy string) (domain.Analysis, error) {
	applied := s.table.Resolve(strategy)
	analysis := domain.Analysis{
		Strategy:        strategy,
		AppliedStrategy: applied.Name,
		Results:         []domain.ScoredResult{},
		Cycles:          []domain.Cycle{},
	}
	if len(tasks) == 0 {
		return analysis, nil
	}

	for i, task := range tasks {
		if err := task.CheckRequired(); err != nil {
			return domain.Analysis{}, annotate(err, i)
		}
	}

	analysis.Cycles = DetectCycles(tasks)

	graph := newDependencyGraph(tasks)
	today := s.Today()
	results := make([]domain.ScoredResult, 0, len(tasks))
	for i, task := range tasks {
		result, err := s.scoreTask(task, graph, applied, today)
		if err != nil {
			return domain.Analysis{}, annotate(err, i)
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	analysis.Results = results

	return analysis, nil
}

// SuggestTop returns the leading topN results of Analyze. A non-positive
// topN uses DefaultTopN.
func (s *Scorer) SuggestTop(tasks []domain.Task, strategy string, topN int) (domain.Suggestion, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	analysis, err := s.Analyze(tasks, strategy)
	if err != nil {
		return domain.Suggestion{}, err
	}

	return domain.Suggestion{
		Strategy:             strategy,
		TopTasks:             analysis.Top(topN),
		TotalTasksAnalyzed:   len(tasks),
		CircularDependencies: analysis.Cycles,
	}, nil
}

func annotate(err error, index int) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.AtIndex(index)
	}
	return fmt.Errorf("task %d: %w", index, err)
}
