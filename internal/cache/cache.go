// Package cache holds the per-pool result cache for extracted week
// schedules. Extraction is the expensive step (seven oracle calls per
// attempt), so the last validated WeekSchedule is kept per pool, keyed by
// the identity of the PDF it came from.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/family-swim-sf/internal/schedule"
)

// Entry is one pool's cached schedule. Entries are only ever written whole:
// a failed or partial extraction leaves the previous entry untouched.
type Entry struct {
	ID               uuid.UUID             `json:"id"`
	Pool             string                `json:"pool"`
	DocumentIdentity string                `json:"document_identity"`
	Week             schedule.WeekSchedule `json:"week"`
	ExtractedAt      time.Time             `json:"extracted_at"`
}

// Store is the persistence boundary. Get returns (nil, nil) on a miss.
// Put replaces the pool's entry atomically from the caller's point of view.
type Store interface {
	Get(ctx context.Context, pool string) (*Entry, error)
	Put(ctx context.Context, entry *Entry) error
}

// IsStale reports whether a cached entry must be replaced: the caller forced
// a refresh, there is no entry, or the facility published a new PDF (the
// document identity changed).
func IsStale(entry *Entry, currentIdentity string, forceRefresh bool) bool {
	if forceRefresh {
		return true
	}
	if entry == nil {
		return true
	}
	return entry.DocumentIdentity != currentIdentity
}

// NewEntry builds a cache entry for a validated, complete week schedule.
// Incomplete weeks are refused: partial results are never cache-eligible.
func NewEntry(pool, documentIdentity string, week schedule.WeekSchedule, extractedAt time.Time) (*Entry, error) {
	if !week.Complete() {
		return nil, fmt.Errorf("refusing to cache incomplete week schedule for %s", pool)
	}
	return &Entry{
		ID:               uuid.New(),
		Pool:             pool,
		DocumentIdentity: documentIdentity,
		Week:             week,
		ExtractedAt:      extractedAt,
	}, nil
}

// MemoryStore is an in-process Store, used in tests and when no database is
// configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

// Get returns the pool's entry, or (nil, nil) when none exists.
func (s *MemoryStore) Get(_ context.Context, pool string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[pool]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

// Put replaces the pool's entry.
func (s *MemoryStore) Put(_ context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("nil cache entry")
	}
	if !entry.Week.Complete() {
		return fmt.Errorf("refusing to store incomplete week schedule for %s", entry.Pool)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entry
	s.entries[entry.Pool] = &copied
	return nil
}
