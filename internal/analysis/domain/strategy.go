package domain

import (
	"fmt"
	"math"
	"sort"
)

// Built-in strategy names.
const (
	StrategySmartBalance   = "smart_balance"
	StrategyFastestWins    = "fastest_wins"
	StrategyHighImpact     = "high_impact"
	StrategyDeadlineDriven = "deadline_driven"

	DefaultStrategy = StrategySmartBalance
)

// Weights is the contribution of each component score to the final score.
// Weights are applied as given and are not normalized.
type Weights struct {
	Urgency    float64 `json:"urgency" toml:"urgency"`
	Importance float64 `json:"importance" toml:"importance"`
	Effort     float64 `json:"effort" toml:"effort"`
	Dependency float64 `json:"dependency" toml:"dependency"`
}

// Sum returns the total of all four weights.
func (w Weights) Sum() float64 {
	return w.Urgency + w.Importance + w.Effort + w.Dependency
}

// Validate rejects negative weights.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"urgency", w.Urgency},
		{"importance", w.Importance},
		{"effort", w.Effort},
		{"dependency", w.Dependency},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s weight %v is not a finite number", ErrInvalidStrategy, f.name, f.v)
		}
		if f.v < 0 {
			return fmt.Errorf("%w: %s weight %.3f is negative", ErrInvalidStrategy, f.name, f.v)
		}
	}
	return nil
}

// Strategy is a named weighting of the four heuristics.
type Strategy struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Source      string  `json:"source,omitempty"`
	Weights     Weights `json:"weights"`
}

// BuiltinStrategies returns the strategies every table starts from.
func BuiltinStrategies() []Strategy {
	return []Strategy{
		{
			Name:        StrategySmartBalance,
			Description: "Balanced blend of deadline, value, effort and blocking impact",
			Source:      "builtin",
			Weights:     Weights{Urgency: 0.35, Importance: 0.30, Effort: 0.20, Dependency: 0.15},
		},
		{
			Name:        StrategyFastestWins,
			Description: "Prefer quick wins with low estimated effort",
			Source:      "builtin",
			Weights:     Weights{Urgency: 0.20, Importance: 0.20, Effort: 0.50, Dependency: 0.10},
		},
		{
			Name:        StrategyHighImpact,
			Description: "Prefer the most important work",
			Source:      "builtin",
			Weights:     Weights{Urgency: 0.20, Importance: 0.60, Effort: 0.10, Dependency: 0.10},
		},
		{
			Name:        StrategyDeadlineDriven,
			Description: "Prefer whatever is due soonest",
			Source:      "builtin",
			Weights:     Weights{Urgency: 0.70, Importance: 0.15, Effort: 0.10, Dependency: 0.05},
		},
	}
}

// StrategyTable is an immutable set of strategies with a default. Unknown
// names resolve to the default.
type StrategyTable struct {
	byName      map[string]Strategy
	names       []string
	defaultName string
}

// NewStrategyTable builds a table. Later entries replace earlier ones with the
// same name. The default must be one of the strategies.
func NewStrategyTable(defaultName string, strategies ...Strategy) (*StrategyTable, error) {
	byName := make(map[string]Strategy, len(strategies))
	for _, s := range strategies {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: strategy name is empty", ErrInvalidStrategy)
		}
		if err := s.Weights.Validate(); err != nil {
			return nil, fmt.Errorf("strategy %s: %w", s.Name, err)
		}
		byName[s.Name] = s
	}

	if defaultName == "" {
		defaultName = DefaultStrategy
	}
	if _, ok := byName[defaultName]; !ok {
		return nil, fmt.Errorf("%w: default strategy %q is not defined", ErrInvalidStrategy, defaultName)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	return &StrategyTable{byName: byName, names: names, defaultName: defaultName}, nil
}

// DefaultStrategyTable returns the built-in strategies with smart_balance as default.
func DefaultStrategyTable() *StrategyTable {
	table, err := NewStrategyTable(DefaultStrategy, BuiltinStrategies()...)
	if err != nil {
		panic(err)
	}
	return table
}

// Extend returns a new table with extra strategies layered over this one.
// An empty defaultName keeps the current default.
func (t *StrategyTable) Extend(defaultName string, strategies ...Strategy) (*StrategyTable, error) {
	all := make([]Strategy, 0, len(t.byName)+len(strategies))
	for _, name := range t.names {
		all = append(all, t.byName[name])
	}
	all = append(all, strategies...)
	if defaultName == "" {
		defaultName = t.defaultName
	}
	return NewStrategyTable(defaultName, all...)
}

// Lookup returns the named strategy if it exists.
func (t *StrategyTable) Lookup(name string) (Strategy, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// Resolve returns the named strategy, or the default when the name is unknown.
func (t *StrategyTable) Resolve(name string) Strategy {
	if s, ok := t.byName[name]; ok {
		return s
	}
	return t.byName[t.defaultName]
}

// Default returns the default strategy.
func (t *StrategyTable) Default() Strategy {
	return t.byName[t.defaultName]
}

// Names returns the strategy names in sorted order.
func (t *StrategyTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Strategies returns every strategy, sorted by name.
func (t *StrategyTable) Strategies() []Strategy {
	out := make([]Strategy, 0, len(t.names))
	for _, name := range t.names {
		out = append(out, t.byName[name])
	}
	return out
}
