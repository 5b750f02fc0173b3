package domain

import "slices"

// Tier is the coarse priority band derived from a final score.
type Tier string

const (
	TierHigh   Tier = "High"
	TierMedium Tier = "Medium"
	TierLow    Tier = "Low"
)

// TierFor maps a final score to its tier.
func TierFor(score float64) Tier {
	switch {
	case score > 0.7:
		return TierHigh
	case score > 0.4:
		return TierMedium
	default:
		return TierLow
	}
}

// ComponentScores holds the four normalized heuristic scores for one task.
type ComponentScores struct {
	Urgency    float64 `json:"urgency"`
	Importance float64 `json:"importance"`
	Effort     float64 `json:"effort"`
	Dependency float64 `json:"dependency"`
}

// ScoredResult is one ranked task.
type ScoredResult struct {
	Task            Task            `json:"task"`
	FinalScore      float64         `json:"final_score"`
	ComponentScores ComponentScores `json:"component_scores"`
	Explanation     string          `json:"explanation"`
	Tier            Tier            `json:"tier"`
}

// Cycle is a circular dependency chain as task positions, in traversal order.
type Cycle []int

// Analysis is the outcome of ranking one task collection.
type Analysis struct {
	// Strategy is the name the caller asked for.
	Strategy string `json:"strategy"`
	// AppliedStrategy is the strategy actually used after fallback.
	AppliedStrategy string         `json:"applied_strategy"`
	Results         []ScoredResult `json:"tasks"`
	Cycles          []Cycle        `json:"circular_dependencies"`
}

// Clone returns a copy that shares no slices with a.
func (a Analysis) Clone() Analysis {
	out := a
	out.Results = slices.Clone(a.Results)
	for i := range out.Results {
		out.Results[i].Task.Dependencies = slices.Clone(a.Results[i].Task.Dependencies)
	}
	if a.Cycles != nil {
		out.Cycles = make([]Cycle, len(a.Cycles))
		for i, c := range a.Cycles {
			out.Cycles[i] = slices.Clone(c)
		}
	}
	return out
}

// HasCycles reports whether any circular dependency was detected.
func (a Analysis) HasCycles() bool {
	return len(a.Cycles) > 0
}

// Top returns at most n leading results.
func (a Analysis) Top(n int) []ScoredResult {
	if n < 0 {
		n = 0
	}
	if n > len(a.Results) {
		n = len(a.Results)
	}
	return a.Results[:n:n]
}

// Suggestion is the top-N view of an analysis.
type Suggestion struct {
	Strategy             string         `json:"strategy"`
	TopTasks             []ScoredResult `json:"top_tasks"`
	TotalTasksAnalyzed   int            `json:"total_tasks_analyzed"`
	CircularDependencies []Cycle        `json:"circular_dependencies"`
}
