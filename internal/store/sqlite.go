// Package store is the persistence adapter (C1, §4.1): read-only snapshot
// reads of areas, nodes, edges and offers, plus a gob snapshot cache for
// fast CLI reloads.
package store

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/mohamedthameursassi/intermodal/internal/models"
)

// Config configures the sqlite connection.
type Config struct {
	Path string
}

// Store reads a persisted snapshot of the routing dataset. Its search-time
// reads never write to the area/node/edge/offer tables; Seed is the
// bulk-write path that populates them, and the API cache table is mutated
// in place by internal/cache.
type Store struct {
	db  *sql.DB
	log *slog.Logger

	mu sync.Mutex
}

// Open opens the sqlite database at cfg.Path, enabling WAL mode and
// foreign keys, and pings it to fail fast on a bad path.
func Open(cfg Config, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "Open", Err: err}
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: pragma, Err: err}
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "Ping", Err: err}
	}

	log.Info("store opened", slog.String("path", cfg.Path))
	return &Store{db: db, log: log}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the pool for callers (internal/cache) that need to share the
// same sqlite file without a second Open.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Transaction runs fn inside a transaction, grounded on the teacher's
// database.Transaction helper.
func (s *Store) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "BeginTx", Err: err}
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "Rollback", Err: errors.Wrap(err, rbErr.Error())}
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "Commit", Err: err}
	}
	return nil
}
