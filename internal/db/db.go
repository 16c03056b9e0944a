// Package db provides PostgreSQL persistence for the per-pool schedule cache.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/family-swim-sf/internal/cache"
	"github.com/jonathan/family-swim-sf/internal/schedule"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the schedule_cache table if it does not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS schedule_cache (
		   id UUID NOT NULL,
		   pool TEXT PRIMARY KEY,
		   document_identity TEXT NOT NULL,
		   week JSONB NOT NULL,
		   extracted_at TIMESTAMPTZ NOT NULL
		 )`,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule_cache table: %w", err)
	}
	return nil
}

// Get retrieves the cached schedule for a pool. Returns (nil, nil) when the
// pool has no cached entry.
func (db *DB) Get(ctx context.Context, pool string) (*cache.Entry, error) {
	var entry cache.Entry
	var weekJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, pool, document_identity, week, extracted_at
		 FROM schedule_cache WHERE pool = $1`,
		pool,
	).Scan(&entry.ID, &entry.Pool, &entry.DocumentIdentity, &weekJSON, &entry.ExtractedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached schedule for %s: %w", pool, err)
	}

	var week schedule.WeekSchedule
	if err := json.Unmarshal(weekJSON, &week); err != nil {
		return nil, fmt.Errorf("failed to decode cached schedule for %s: %w", pool, err)
	}
	entry.Week = week
	return &entry, nil
}

// Put stores a pool's schedule, replacing any prior entry in one statement so
// readers never observe a partially written row.
func (db *DB) Put(ctx context.Context, entry *cache.Entry) error {
	if entry == nil {
		return fmt.Errorf("nil cache entry")
	}
	if !entry.Week.Complete() {
		return fmt.Errorf("refusing to store incomplete week schedule for %s", entry.Pool)
	}

	weekJSON, err := json.Marshal(entry.Week)
	if err != nil {
		return fmt.Errorf("failed to encode schedule for %s: %w", entry.Pool, err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO schedule_cache (id, pool, document_identity, week, extracted_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (pool) DO UPDATE SET
		   id = $1, document_identity = $3, week = $4, extracted_at = $5`,
		entry.ID, entry.Pool, entry.DocumentIdentity, weekJSON, entry.ExtractedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store schedule for %s: %w", entry.Pool, err)
	}
	return nil
}
