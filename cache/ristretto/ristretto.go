package ristretto

import (
	"fmt"
	"time"

	"github.com/caasmo/tokengate/cache"
	"github.com/dgraph-io/ristretto/v2"
)

// Size levels for New. They fix NumCounters and MaxCost so callers never
// deal with Ristretto tuning knobs directly.
const (
	LevelSmall     = "small"      // ~1MB, for bounded sets like consumed tokens
	LevelMedium    = "medium"     // ~16MB
	LevelLarge     = "large"      // ~256MB
	LevelVeryLarge = "very-large" // ~1GB
)

type Cache[V any] struct {
	cache *ristretto.Cache[string, V]
}

func (rc *Cache[V]) Get(key string) (V, bool) {
	return rc.cache.Get(key)
}

func (rc *Cache[V]) Set(key string, value V, cost int64) bool {
	return rc.cache.Set(key, value, cost)
}

func (rc *Cache[V]) SetWithTTL(key string, value V, cost int64, ttl time.Duration) bool {
	return rc.cache.SetWithTTL(key, value, cost, ttl)
}

func New[V any](level string) (cache.Cache[V], error) {
	var numCounters, maxCost int64

	switch level {
	case LevelSmall:
		numCounters, maxCost = 1e4, 1<<20
	case LevelMedium:
		numCounters, maxCost = 1e5, 16<<20
	case LevelLarge:
		numCounters, maxCost = 1e6, 256<<20
	case LevelVeryLarge:
		numCounters, maxCost = 1e7, 1<<30
	default:
		return nil, fmt.Errorf("unknown cache size level %q", level)
	}

	c, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &Cache[V]{cache: c}, nil
}
