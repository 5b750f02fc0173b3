package domain

import (
	"encoding/json"
	"fmt"
	"time"

	sharedDomain "github.com/Elangosridhar/Smarttask-analysis/internal/shared/domain"
	"github.com/google/uuid"
)

// RunTopTitles is how many leading task titles a run keeps for listing.
const RunTopTitles = 3

// Run sources.
const (
	SourceAPI = "api"
	SourceCLI = "cli"
	SourceMCP = "mcp"
)

// AnalysisRun is the audit record of one completed analysis.
type AnalysisRun struct {
	sharedDomain.BaseAggregateRoot
	strategy        string
	appliedStrategy string
	totalTasks      int
	topTitles       []string
	cycles          []Cycle
	results         json.RawMessage
	source          string
}

// NewAnalysisRun records an analysis and raises its completion events.
func NewAnalysisRun(analysis Analysis, source string) (*AnalysisRun, error) {
	results, err := json.Marshal(analysis.Results)
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}

	top := analysis.Top(RunTopTitles)
	titles := make([]string, 0, len(top))
	for _, r := range top {
		titles = append(titles, r.Task.Title)
	}

	cycles := analysis.Cycles
	if cycles == nil {
		cycles = []Cycle{}
	}

	run := &AnalysisRun{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		strategy:          analysis.Strategy,
		appliedStrategy:   analysis.AppliedStrategy,
		totalTasks:        len(analysis.Results),
		topTitles:         titles,
		cycles:            cycles,
		results:           results,
		source:            source,
	}

	run.AddDomainEvent(NewAnalysisCompleted(run))
	if len(cycles) > 0 {
		run.AddDomainEvent(NewCircularDependenciesDetected(run))
	}

	return run, nil
}

// RehydrateAnalysisRun rebuilds a run from storage without raising events.
func RehydrateAnalysisRun(
	id uuid.UUID,
	strategy, appliedStrategy string,
	totalTasks int,
	topTitles []string,
	cycles []Cycle,
	results json.RawMessage,
	source string,
	createdAt time.Time,
) *AnalysisRun {
	if topTitles == nil {
		topTitles = []string{}
	}
	if cycles == nil {
		cycles = []Cycle{}
	}
	return &AnalysisRun{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(id, createdAt),
		strategy:          strategy,
		appliedStrategy:   appliedStrategy,
		totalTasks:        totalTasks,
		topTitles:         topTitles,
		cycles:            cycles,
		results:           results,
		source:            source,
	}
}

func (r *AnalysisRun) Strategy() string         { return r.strategy }
func (r *AnalysisRun) AppliedStrategy() string  { return r.appliedStrategy }
func (r *AnalysisRun) TotalTasks() int          { return r.totalTasks }
func (r *AnalysisRun) TopTitles() []string      { return r.topTitles }
func (r *AnalysisRun) Cycles() []Cycle          { return r.cycles }
func (r *AnalysisRun) Results() json.RawMessage { return r.results }
func (r *AnalysisRun) Source() string           { return r.source }

// ScoredResults decodes the stored ranking.
func (r *AnalysisRun) ScoredResults() ([]ScoredResult, error) {
	if len(r.results) == 0 {
		return []ScoredResult{}, nil
	}
	var out []ScoredResult
	if err := json.Unmarshal(r.results, &out); err != nil {
		return nil, fmt.Errorf("decode run %s results: %w", r.ID(), err)
	}
	return out, nil
}
