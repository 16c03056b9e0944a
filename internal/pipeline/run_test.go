package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/family-swim-sf/internal/cache"
	"github.com/jonathan/family-swim-sf/internal/config"
	"github.com/jonathan/family-swim-sf/internal/extraction"
	"github.com/jonathan/family-swim-sf/internal/oracle"
	"github.com/jonathan/family-swim-sf/internal/publish"
	"github.com/jonathan/family-swim-sf/internal/schedule"
)

// countingExtractor answers every single-day call with a scripted response
// and counts how many oracle calls were made in total.
type countingExtractor struct {
	mu       sync.Mutex
	calls    int
	response string
}

func (e *countingExtractor) Extract(_ context.Context, req oracle.Request) (string, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if req.Focus.Kind == oracle.FocusSingleDay && req.Focus.Day == "Saturday" {
		return e.response, nil
	}
	return "[]", nil
}

func (e *countingExtractor) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// facilityServer serves a facility page whose single schedule link points
// back at the server, plus the PDF bytes behind it.
func facilityServer(t *testing.T, docName string) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/facility", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `<html><body><a href="%s/DocumentCenter/View/1/doc">%s</a></body></html>`,
			server.URL, docName)
	})
	mux.HandleFunc("/DocumentCenter/View/1/doc", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 test"))
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, facilityURL string) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		Pools: []config.Pool{
			{Name: "Test Pool", FacilityURL: facilityURL},
		},
		CacheDir:   filepath.Join(dir, "pdfs"),
		OutputPath: filepath.Join(dir, "out", "latest_family_swim_data.json"),
		Timezone:   "America/Los_Angeles",
	}
}

func TestRunPool_ExtractsAndCaches(t *testing.T) {
	server := facilityServer(t, "Test Pool Schedule")
	extractor := &countingExtractor{response: `[{"start":"10:00AM","end":"NOON","activity":"FAMILY SWIM"}]`}
	store := cache.NewMemoryStore()
	cfg := testConfig(t, server.URL+"/facility")
	runner := NewRunner(extractor, nil, store, cfg)

	result := runner.RunPool(context.Background(), cfg.Pools[0], time.Now(), false)
	require.NoError(t, result.Err)
	assert.False(t, result.FromCache)
	assert.True(t, result.Week.Complete())
	assert.Equal(t, 7, extractor.callCount())

	entry, err := store.Get(context.Background(), "Test Pool")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, result.Week, entry.Week)
}

func TestRunPool_CacheHitMakesNoOracleCalls(t *testing.T) {
	server := facilityServer(t, "Test Pool Schedule")
	extractor := &countingExtractor{response: "[]"}
	store := cache.NewMemoryStore()
	cfg := testConfig(t, server.URL+"/facility")
	runner := NewRunner(extractor, nil, store, cfg)

	first := runner.RunPool(context.Background(), cfg.Pools[0], time.Now(), false)
	require.NoError(t, first.Err)
	callsAfterFirst := extractor.callCount()

	second := runner.RunPool(context.Background(), cfg.Pools[0], time.Now(), false)
	require.NoError(t, second.Err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Week, second.Week)
	assert.Equal(t, callsAfterFirst, extractor.callCount(), "cache hit must not re-run extraction")
}

func TestRunPool_ForceRefreshReExtracts(t *testing.T) {
	server := facilityServer(t, "Test Pool Schedule")
	extractor := &countingExtractor{response: "[]"}
	store := cache.NewMemoryStore()
	cfg := testConfig(t, server.URL+"/facility")
	runner := NewRunner(extractor, nil, store, cfg)

	first := runner.RunPool(context.Background(), cfg.Pools[0], time.Now(), false)
	require.NoError(t, first.Err)
	callsAfterFirst := extractor.callCount()

	second := runner.RunPool(context.Background(), cfg.Pools[0], time.Now(), true)
	require.NoError(t, second.Err)
	assert.False(t, second.FromCache)
	assert.Greater(t, extractor.callCount(), callsAfterFirst)
}

func TestRunPool_FailedExtractionLeavesCacheUntouched(t *testing.T) {
	server := facilityServer(t, "Test Pool Schedule")
	store := cache.NewMemoryStore()
	cfg := testConfig(t, server.URL+"/facility")

	good := NewRunner(&countingExtractor{response: "[]"}, nil, store, cfg)
	first := good.RunPool(context.Background(), cfg.Pools[0], time.Now(), false)
	require.NoError(t, first.Err)

	// An oracle that only ever refuses exhausts every tier.
	bad := NewRunner(&refusingExtractor{}, nil, store, cfg)
	second := bad.RunPool(context.Background(), cfg.Pools[0], time.Now(), true)
	require.Error(t, second.Err)

	entry, err := store.Get(context.Background(), "Test Pool")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, first.Week, entry.Week, "failed run must not replace the cached schedule")
}

type refusingExtractor struct{}

func (e *refusingExtractor) Extract(context.Context, oracle.Request) (string, error) {
	return "", &oracle.NoUsableResponseError{Message: "oracle declined to answer"}
}

// lastSeasonWeek builds the complete week a previous run would have cached.
func lastSeasonWeek() schedule.WeekSchedule {
	week := make(schedule.WeekSchedule, 7)
	for _, day := range schedule.Weekdays() {
		week[day] = schedule.DaySchedule{}
	}
	week[schedule.Saturday] = schedule.DaySchedule{
		{Start: 10 * 60, End: 12 * 60, Note: schedule.NoteFamilySwim},
	}
	return week
}

func seedStaleEntry(t *testing.T, store cache.Store) *cache.Entry {
	t.Helper()
	entry, err := cache.NewEntry("Test Pool", "last-season-schedule:0123abcd", lastSeasonWeek(), time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), entry))
	return entry
}

func TestRunPool_ExhaustionFallsBackToStaleCache(t *testing.T) {
	server := facilityServer(t, "Test Pool Schedule")
	store := cache.NewMemoryStore()
	seedStaleEntry(t, store)

	cfg := testConfig(t, server.URL+"/facility")
	runner := NewRunner(&refusingExtractor{}, nil, store, cfg)

	result := runner.RunPool(context.Background(), cfg.Pools[0], time.Now(), false)
	var exhausted *extraction.ExhaustedError
	require.ErrorAs(t, result.Err, &exhausted)
	assert.True(t, result.Stale)
	assert.Equal(t, lastSeasonWeek(), result.Week)

	// The cached entry itself must survive the failed refresh untouched.
	entry, err := store.Get(context.Background(), "Test Pool")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "last-season-schedule:0123abcd", entry.DocumentIdentity)
}

func TestRunAll_ExhaustionPublishesStaleCachedWeek(t *testing.T) {
	server := facilityServer(t, "Test Pool Schedule")
	store := cache.NewMemoryStore()
	seedStaleEntry(t, store)

	cfg := testConfig(t, server.URL+"/facility")
	runner := NewRunner(&refusingExtractor{}, nil, store, cfg)

	results, err := runner.RunAll(context.Background(), RunOptions{})
	require.NoError(t, err, "a stale week is publishable, so RunAll must not fail")
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.True(t, results[0].Stale)

	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.NoError(t, publish.Validate(data))
	assert.Contains(t, string(data), "Test Pool")
	assert.Contains(t, string(data), "10:00AM")
}

func TestRunAll_PublishesDataset(t *testing.T) {
	server := facilityServer(t, "Test Pool Schedule")
	extractor := &countingExtractor{response: `[{"start":"1:00PM","end":"2:00PM","activity":"Family Swim"}]`}
	cfg := testConfig(t, server.URL+"/facility")
	runner := NewRunner(extractor, nil, cache.NewMemoryStore(), cfg)

	results, err := runner.RunAll(context.Background(), RunOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.NoError(t, publish.Validate(data))
	assert.Contains(t, string(data), "Test Pool")
	assert.Contains(t, string(data), "1:00PM")
}

func TestRunAll_AllPoolsFailing(t *testing.T) {
	server := facilityServer(t, "Test Pool Schedule")
	cfg := testConfig(t, server.URL+"/facility")
	runner := NewRunner(&refusingExtractor{}, nil, cache.NewMemoryStore(), cfg)

	results, err := runner.RunAll(context.Background(), RunOptions{})
	require.Error(t, err)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.NoFileExists(t, cfg.OutputPath)
}
