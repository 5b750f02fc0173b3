package services

import (
	"fmt"
	"strings"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
)

// Explain describes why a task scored as it did. Both the phrases and the
// tier are derived from unrounded scores.
func Explain(scores domain.ComponentScores, finalScore float64) (string, domain.Tier) {
	factors := make([]string, 0, 4)

	switch {
	case scores.Urgency > 0.7:
		factors = append(factors, "very urgent")
	case scores.Urgency > 0.4:
		factors = append(factors, "moderately urgent")
	}

	switch {
	case scores.Importance > 0.7:
		factors = append(factors, "high importance")
	case scores.Importance > 0.4:
		factors = append(factors, "moderate importance")
	}

	switch {
	case scores.Effort > 0.7:
		factors = append(factors, "quick to complete")
	case scores.Effort < 0.3:
		factors = append(factors, "time-consuming")
	}

	if scores.Dependency > 0.6 {
		factors = append(factors, "blocks other tasks")
	}

	if len(factors) == 0 {
		factors = append(factors, "average priority")
	}

	tier := domain.TierFor(finalScore)
	return fmt.Sprintf("%s priority: This task is %s.", tier, strings.Join(factors, ", ")), tier
}

// Aggregate applies strategy weights to the component scores. The result is
// not rounded.
func Aggregate(scores domain.ComponentScores, w domain.Weights) float64 {
	return scores.Urgency*w.Urgency +
		scores.Importance*w.Importance +
		scores.Effort*w.Effort +
		scores.Dependency*w.Dependency
}
