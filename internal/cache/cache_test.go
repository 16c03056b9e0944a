package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/family-swim-sf/internal/schedule"
)

func completeWeek() schedule.WeekSchedule {
	week := make(schedule.WeekSchedule, 7)
	for _, day := range schedule.Weekdays() {
		week[day] = schedule.DaySchedule{}
	}
	week[schedule.Saturday] = schedule.DaySchedule{
		{Start: 10 * 60, End: 12 * 60, Note: schedule.NoteFamilySwim},
	}
	return week
}

func TestIsStale(t *testing.T) {
	entry := &Entry{DocumentIdentity: "fall-2026:abcd"}

	tests := []struct {
		name         string
		entry        *Entry
		identity     string
		forceRefresh bool
		want         bool
	}{
		{name: "no entry", entry: nil, identity: "fall-2026:abcd", want: true},
		{name: "identity matches", entry: entry, identity: "fall-2026:abcd", want: false},
		{name: "identity changed", entry: entry, identity: "winter-2027:ef01", want: true},
		{name: "force refresh overrides match", entry: entry, identity: "fall-2026:abcd", forceRefresh: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStale(tt.entry, tt.identity, tt.forceRefresh))
		})
	}
}

func TestNewEntry_RefusesIncompleteWeek(t *testing.T) {
	week := completeWeek()
	delete(week, schedule.Sunday)

	_, err := NewEntry("Balboa Pool", "id", week, time.Now())
	assert.Error(t, err)
}

func TestNewEntry_Complete(t *testing.T) {
	entry, err := NewEntry("Balboa Pool", "fall-2026:abcd", completeWeek(), time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, "Balboa Pool", entry.Pool)
}

func TestMemoryStore_GetMiss(t *testing.T) {
	store := NewMemoryStore()
	entry, err := store.Get(context.Background(), "Balboa Pool")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestMemoryStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	entry, err := NewEntry("Balboa Pool", "fall-2026:abcd", completeWeek(), time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, entry))

	got, err := store.Get(ctx, "Balboa Pool")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, entry.Week, got.Week)

	// Put replaces the whole entry.
	replacement, err := NewEntry("Balboa Pool", "winter-2027:ef01", completeWeek(), time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, replacement))

	got, err = store.Get(ctx, "Balboa Pool")
	require.NoError(t, err)
	assert.Equal(t, "winter-2027:ef01", got.DocumentIdentity)
}

func TestMemoryStore_PutRejectsIncomplete(t *testing.T) {
	store := NewMemoryStore()
	week := completeWeek()
	delete(week, schedule.Friday)

	err := store.Put(context.Background(), &Entry{Pool: "Balboa Pool", Week: week})
	assert.Error(t, err)

	// A rejected put must leave no trace.
	entry, err := store.Get(context.Background(), "Balboa Pool")
	require.NoError(t, err)
	assert.Nil(t, entry)
}
