package models

import "time"

// ApiCacheEntry is a content-addressed, TTL-bounded cache row for a
// provider response. Uniqueness is on (Provider, Endpoint, ParamsHash).
type ApiCacheEntry struct {
	Provider     string
	Endpoint     string
	ParamsHash   string // sha256(hex) of ParamsJSON, sorted keys
	ParamsJSON   string
	ResponseBody string

	CreatedAt  time.Time
	ExpiresAt  time.Time
	LastUsedAt time.Time
	HitCount   int64
}

// Valid reports whether the cache entry satisfies its data-model invariant.
func (e ApiCacheEntry) Valid() bool {
	return e.ExpiresAt.After(e.CreatedAt)
}
