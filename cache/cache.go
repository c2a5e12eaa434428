package cache

import "time"

// Cache is a string-keyed in-memory cache compatible with Ristretto.
type Cache[V any] interface {
	// Get retrieves a value from the cache.
	Get(key string) (V, bool)

	// Set stores a value with cost, returning true if accepted.
	Set(key string, value V, cost int64) bool

	// SetWithTTL stores a value with cost and TTL, returning true if accepted.
	SetWithTTL(key string, value V, cost int64, ttl time.Duration) bool
}
