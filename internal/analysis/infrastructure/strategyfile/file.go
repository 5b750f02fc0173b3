// Package strategyfile loads extra scoring strategies from a TOML file and
// watches it for changes.
//
//	default = "focus"
//
//	[strategies.focus]
//	description = "Importance above all"
//	urgency = 0.1
//	importance = 0.8
//	effort = 0.05
//	dependency = 0.05
package strategyfile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
)

// Source tags strategies loaded from a file.
const Source = "file"

// File is the decoded strategy file.
type File struct {
	Default    string           `toml:"default"`
	Strategies map[string]Entry `toml:"strategies"`
}

// Entry is one [strategies.<name>] table.
type Entry struct {
	Description string  `toml:"description"`
	Urgency     float64 `toml:"urgency"`
	Importance  float64 `toml:"importance"`
	Effort      float64 `toml:"effort"`
	Dependency  float64 `toml:"dependency"`
}

// Load reads and decodes path. Unknown keys are rejected so typos in weight
// names do not silently become zero weights.
func Load(path string) (*File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("decode strategy file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("strategy file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return &f, nil
}

// Parse decodes strategy definitions from a string.
func Parse(data string) (*File, error) {
	var f File
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, fmt.Errorf("decode strategies: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown strategy keys: %v", undecoded)
	}
	return &f, nil
}

// StrategyList returns the file's strategies sorted by name.
func (f *File) StrategyList() []domain.Strategy {
	names := make([]string, 0, len(f.Strategies))
	for name := range f.Strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.Strategy, 0, len(names))
	for _, name := range names {
		e := f.Strategies[name]
		out = append(out, domain.Strategy{
			Name:        name,
			Description: e.Description,
			Source:      Source,
			Weights: domain.Weights{
				Urgency:    e.Urgency,
				Importance: e.Importance,
				Effort:     e.Effort,
				Dependency: e.Dependency,
			},
		})
	}
	return out
}

// Apply layers the file over base. The file's default, when set, replaces
// the base default.
func (f *File) Apply(base *domain.StrategyTable) (*domain.StrategyTable, error) {
	return base.Extend(f.Default, f.StrategyList()...)
}

// Encode renders strategies in the file format.
func Encode(defaultName string, strategies []domain.Strategy) (string, error) {
	f := File{Default: defaultName, Strategies: make(map[string]Entry, len(strategies))}
	for _, s := range strategies {
		f.Strategies[s.Name] = Entry{
			Description: s.Description,
			Urgency:     s.Weights.Urgency,
			Importance:  s.Weights.Importance,
			Effort:      s.Weights.Effort,
			Dependency:  s.Weights.Dependency,
		}
	}

	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(f); err != nil {
		return "", fmt.Errorf("encode strategies: %w", err)
	}
	return b.String(), nil
}
