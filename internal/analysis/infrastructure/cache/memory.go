package cache

import (
	"context"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryResultCache keeps analyses in process. It serves local mode and any
// deployment without Redis.
type MemoryResultCache struct {
	store *gocache.Cache
}

// NewMemoryResultCache creates a cache whose entries expire after ttl.
func NewMemoryResultCache(ttl time.Duration) *MemoryResultCache {
	return &MemoryResultCache{store: gocache.New(ttl, 2*ttl)}
}

// Get implements ResultCache.
func (c *MemoryResultCache) Get(_ context.Context, key string) (domain.Analysis, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return domain.Analysis{}, false
	}
	analysis, ok := v.(domain.Analysis)
	if !ok {
		return domain.Analysis{}, false
	}
	return analysis.Clone(), true
}

// Set implements ResultCache.
func (c *MemoryResultCache) Set(_ context.Context, key string, analysis domain.Analysis) error {
	c.store.Set(key, analysis.Clone(), gocache.DefaultExpiration)
	return nil
}

// Len returns the number of live entries.
func (c *MemoryResultCache) Len() int {
	return c.store.ItemCount()
}
