// Package cache implements the content-addressed, TTL-bounded API cache
// (C7, §4.7): a canonical hash of request parameters keys a stored
// provider response, with concurrent misses on the same key collapsed by
// singleflight.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mohamedthameursassi/intermodal/internal/models"
)

// Cache is a provider-response cache backed by the shared store database.
type Cache struct {
	db    *sql.DB
	group singleflight.Group
	now   func() time.Time
}

// New returns a Cache over db (typically store.Store.DB()).
func New(db *sql.DB, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{db: db, now: now}
}

// Hash returns the canonical sha256 hex digest of params: params is
// marshaled with its keys sorted so that semantically identical requests
// always hash to the same value regardless of map iteration order.
func Hash(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		ordered = append(ordered, k, params[k])
	}

	// json.Marshal on a slice preserves this insertion order, unlike a
	// map, giving a byte-stable encoding to hash.
	b, _ := json.Marshal(ordered)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Fetch returns the cached response for (provider, endpoint, params) if
// it is still within its TTL, otherwise calls miss to populate it.
// Concurrent Fetch calls for the same key are deduplicated: only one
// miss call runs at a time per key, and all callers observe its result.
func (c *Cache) Fetch(ctx context.Context, provider, endpoint string, params map[string]any, miss func(ctx context.Context) (string, time.Duration, error)) (string, error) {
	paramsHash := Hash(params)

	if body, ok, err := c.get(ctx, provider, endpoint, paramsHash); err != nil {
		return "", err
	} else if ok {
		return body, nil
	}

	key := provider + "\x00" + endpoint + "\x00" + paramsHash
	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the singleflight key: another caller may have
		// populated the entry while this one was waiting to be scheduled.
		if body, ok, err := c.get(ctx, provider, endpoint, paramsHash); err == nil && ok {
			return body, nil
		}

		body, ttl, err := miss(ctx)
		if err != nil {
			return "", err
		}

		paramsJSON, _ := json.Marshal(params)
		if err := c.put(ctx, provider, endpoint, paramsHash, string(paramsJSON), body, ttl); err != nil {
			return "", err
		}
		return body, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Cache) get(ctx context.Context, provider, endpoint, paramsHash string) (string, bool, error) {
	now := c.now()
	var body string
	err := c.db.QueryRowContext(ctx, `
		SELECT response_body FROM api_cache_entry
		WHERE provider = ? AND endpoint = ? AND params_hash = ? AND expires_at > ?`,
		provider, endpoint, paramsHash, now).Scan(&body)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "cache.get", Err: err}
	}

	if _, err := c.db.ExecContext(ctx, `
		UPDATE api_cache_entry SET hit_count = hit_count + 1, last_used_at = ?
		WHERE provider = ? AND endpoint = ? AND params_hash = ?`, now, provider, endpoint, paramsHash); err != nil {
		return "", false, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "cache.touch", Err: err}
	}
	return body, true, nil
}

// put upserts the cache entry for (provider, endpoint, paramsHash). A row
// already keyed by this hash but carrying a different params_json means the
// hash collided across two distinct request payloads rather than the same
// request refreshing its TTL — sha256 is presumed strong enough that this
// indicates corruption, not a genuine collision (§4.7), so it is surfaced
// as a PersistenceError instead of silently overwritten.
func (c *Cache) put(ctx context.Context, provider, endpoint, paramsHash, paramsJSON, body string, ttl time.Duration) error {
	now := c.now()

	var existingParamsJSON string
	err := c.db.QueryRowContext(ctx, `
		SELECT params_json FROM api_cache_entry
		WHERE provider = ? AND endpoint = ? AND params_hash = ?`,
		provider, endpoint, paramsHash).Scan(&existingParamsJSON)
	switch {
	case err == sql.ErrNoRows:
		// no existing row: fall through to insert.
	case err != nil:
		return &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "cache.put", Err: err}
	case existingParamsJSON != paramsJSON:
		return &models.PersistenceError{Kind: models.PersistenceCorrupted, Op: "cache.put",
			Err: fmt.Errorf("hash %s collided across distinct params for %s/%s", paramsHash, provider, endpoint)}
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO api_cache_entry
			(provider, endpoint, params_hash, params_json, response_body, created_at, expires_at, last_used_at, hit_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT(provider, endpoint, params_hash) DO UPDATE SET
			params_json = excluded.params_json,
			response_body = excluded.response_body,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at,
			last_used_at = excluded.last_used_at,
			hit_count = 0`,
		provider, endpoint, paramsHash, paramsJSON, body, now, now.Add(ttl), now)
	if err != nil {
		return &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "cache.put", Err: err}
	}
	return nil
}
