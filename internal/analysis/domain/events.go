package domain

import (
	sharedDomain "github.com/Elangosridhar/Smarttask-analysis/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "AnalysisRun"

// Routing keys.
const (
	RoutingKeyAnalysisCompleted = "analysis.completed"
	RoutingKeyCyclesDetected    = "analysis.cycles_detected"
)

// AnalysisCompleted is emitted when a ranking has been produced.
type AnalysisCompleted struct {
	sharedDomain.BaseEvent
	RunID           uuid.UUID `json:"run_id"`
	Strategy        string    `json:"strategy"`
	AppliedStrategy string    `json:"applied_strategy"`
	TotalTasks      int       `json:"total_tasks"`
	TopTitles       []string  `json:"top_titles"`
	Source          string    `json:"source"`
}

// NewAnalysisCompleted creates an AnalysisCompleted event.
func NewAnalysisCompleted(r *AnalysisRun) *AnalysisCompleted {
	return &AnalysisCompleted{
		BaseEvent:       sharedDomain.NewBaseEvent(r.ID(), aggregateType, RoutingKeyAnalysisCompleted),
		RunID:           r.ID(),
		Strategy:        r.Strategy(),
		AppliedStrategy: r.AppliedStrategy(),
		TotalTasks:      r.TotalTasks(),
		TopTitles:       r.TopTitles(),
		Source:          r.Source(),
	}
}

// CircularDependenciesDetected is emitted when an analyzed collection
// contains dependency cycles.
type CircularDependenciesDetected struct {
	sharedDomain.BaseEvent
	RunID      uuid.UUID `json:"run_id"`
	Cycles     []Cycle   `json:"cycles"`
	CycleCount int       `json:"cycle_count"`
}

// NewCircularDependenciesDetected creates a CircularDependenciesDetected event.
func NewCircularDependenciesDetected(r *AnalysisRun) *CircularDependenciesDetected {
	return &CircularDependenciesDetected{
		BaseEvent:  sharedDomain.NewBaseEvent(r.ID(), aggregateType, RoutingKeyCyclesDetected),
		RunID:      r.ID(),
		Cycles:     r.Cycles(),
		CycleCount: len(r.Cycles()),
	}
}
