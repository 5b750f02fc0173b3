package queries

import (
	"context"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/services"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
)

// StrategyDTO describes one available strategy.
type StrategyDTO struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Source      string         `json:"source"`
	Weights     domain.Weights `json:"weights"`
	Default     bool           `json:"default"`
}

// ListStrategiesQuery lists the strategies the scorer accepts.
type ListStrategiesQuery struct{}

// QueryName implements application.Query.
func (ListStrategiesQuery) QueryName() string { return "list_strategies" }

// ListStrategiesHandler handles the ListStrategiesQuery.
type ListStrategiesHandler struct {
	scorers services.ScorerSource
}

// NewListStrategiesHandler creates a new ListStrategiesHandler.
func NewListStrategiesHandler(scorers services.ScorerSource) *ListStrategiesHandler {
	if scorers == nil {
		scorers = services.NewScorer(nil)
	}
	return &ListStrategiesHandler{scorers: scorers}
}

// Handle returns the strategies sorted by name.
func (h *ListStrategiesHandler) Handle(_ context.Context, _ ListStrategiesQuery) ([]StrategyDTO, error) {
	table := h.scorers.Current().Strategies()
	defaultName := table.Default().Name

	strategies := table.Strategies()
	dtos := make([]StrategyDTO, 0, len(strategies))
	for _, s := range strategies {
		dtos = append(dtos, StrategyDTO{
			Name:        s.Name,
			Description: s.Description,
			Source:      s.Source,
			Weights:     s.Weights,
			Default:     s.Name == defaultName,
		})
	}
	return dtos, nil
}
