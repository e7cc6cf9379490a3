package cache_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/require"

	"github.com/mohamedthameursassi/intermodal/internal/cache"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:?cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE api_cache_entry (
			provider      TEXT NOT NULL,
			endpoint      TEXT NOT NULL,
			params_hash   TEXT NOT NULL,
			params_json   TEXT NOT NULL,
			response_body TEXT NOT NULL,
			created_at    DATETIME NOT NULL,
			expires_at    DATETIME NOT NULL,
			last_used_at  DATETIME NOT NULL,
			hit_count     INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (provider, endpoint, params_hash)
		)`)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestHash_OrderIndependent(t *testing.T) {
	a := cache.Hash(map[string]any{"from": "BOS", "to": "JFK"})
	b := cache.Hash(map[string]any{"to": "JFK", "from": "BOS"})
	require.Equal(t, a, b)
}

func TestHash_DifferentParamsDifferentHash(t *testing.T) {
	a := cache.Hash(map[string]any{"from": "BOS", "to": "JFK"})
	b := cache.Hash(map[string]any{"from": "BOS", "to": "LGA"})
	require.NotEqual(t, a, b)
}

func TestFetch_MissThenHit(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := cache.New(db, func() time.Time { return now })

	var calls int32
	miss := func(context.Context) (string, time.Duration, error) {
		atomic.AddInt32(&calls, 1)
		return `{"price":100}`, time.Hour, nil
	}

	body, err := c.Fetch(context.Background(), "tequila", "/search", map[string]any{"from": "BOS"}, miss)
	require.NoError(t, err)
	require.Equal(t, `{"price":100}`, body)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))

	body2, err := c.Fetch(context.Background(), "tequila", "/search", map[string]any{"from": "BOS"}, miss)
	require.NoError(t, err)
	require.Equal(t, body, body2)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls), "second fetch should hit the cache, not call miss again")
}

func TestFetch_ExpiredEntryCallsMissAgain(t *testing.T) {
	db := openTestDB(t)
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := cache.New(db, func() time.Time { return current })

	var calls int32
	miss := func(context.Context) (string, time.Duration, error) {
		atomic.AddInt32(&calls, 1)
		return "v1", time.Minute, nil
	}

	_, err := c.Fetch(context.Background(), "p", "/e", map[string]any{"k": 1}, miss)
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = c.Fetch(context.Background(), "p", "/e", map[string]any{"k": 1}, miss)
	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestFetch_ConcurrentMissesCollapseToOneCall(t *testing.T) {
	db := openTestDB(t)
	c := cache.New(db, func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) })

	var calls int32
	miss := func(context.Context) (string, time.Duration, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return "shared", time.Hour, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Fetch(context.Background(), "p", "/e", map[string]any{"k": "same"}, miss)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestFetch_MissErrorPropagates(t *testing.T) {
	db := openTestDB(t)
	c := cache.New(db, nil)

	wantErr := errors.New("provider unavailable")
	_, err := c.Fetch(context.Background(), "p", "/e", map[string]any{"k": 1}, func(context.Context) (string, time.Duration, error) {
		return "", 0, wantErr
	})
	require.ErrorIs(t, err, wantErr)
}
