// Package cache stores finished analyses keyed by their inputs.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
)

// KeyPrefix namespaces analysis entries in shared stores.
const KeyPrefix = "smarttask:analysis:"

// ResultCache stores analyses. A failing backend behaves as a miss; Set
// errors are reported but callers may ignore them.
type ResultCache interface {
	Get(ctx context.Context, key string) (domain.Analysis, bool)
	Set(ctx context.Context, key string, analysis domain.Analysis) error
}

type keyMaterial struct {
	Requested string         `json:"requested"`
	Applied   string         `json:"applied"`
	Weights   domain.Weights `json:"weights"`
	Today     string         `json:"today"`
	Tasks     []domain.Task  `json:"tasks"`
}

// Key derives the cache key for an analysis request. It covers the applied
// weights so a reloaded strategy never serves stale rankings, and today's
// date because urgency depends on it.
func Key(requested string, applied domain.Strategy, today time.Time, tasks []domain.Task) (string, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	canonical, err := json.Marshal(keyMaterial{
		Requested: requested,
		Applied:   applied.Name,
		Weights:   applied.Weights,
		Today:     today.Format(domain.DateLayout),
		Tasks:     tasks,
	})
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return KeyPrefix + hex.EncodeToString(sum[:]), nil
}
