// Package pipeline provides the high-level orchestration for refreshing the
// published family swim dataset.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/family-swim-sf/internal/cache"
	"github.com/jonathan/family-swim-sf/internal/config"
	"github.com/jonathan/family-swim-sf/internal/documents"
	"github.com/jonathan/family-swim-sf/internal/extraction"
	"github.com/jonathan/family-swim-sf/internal/fetch"
	"github.com/jonathan/family-swim-sf/internal/observability"
	"github.com/jonathan/family-swim-sf/internal/oracle"
	"github.com/jonathan/family-swim-sf/internal/publish"
	"github.com/jonathan/family-swim-sf/internal/schedule"
)

// maxConcurrentPools bounds how many pools extract at once. Each pool can
// issue up to seven oracle calls, so this is a rate-limit lever.
const maxConcurrentPools = 3

// RunOptions holds per-invocation options for running the pipeline
type RunOptions struct {
	ForceRefresh bool
	// Now is the reference date for document selection; zero means time.Now
	// in the configured timezone.
	Now time.Time
}

// Runner wires the pipeline's collaborators together.
type Runner struct {
	extractor oracle.Extractor
	chooser   oracle.TextGenerator
	store     cache.Store
	printer   *observability.Printer
	cfg       config.Config
	verbose   bool
}

// NewRunner creates a Runner. The chooser may be nil, in which case document
// selection falls back to deterministic scoring alone.
func NewRunner(extractor oracle.Extractor, chooser oracle.TextGenerator, store cache.Store, cfg config.Config) *Runner {
	return &Runner{
		extractor: extractor,
		chooser:   chooser,
		store:     store,
		printer:   observability.NewPrinter(os.Stdout),
		cfg:       cfg,
		verbose:   cfg.Verbose,
	}
}

// PoolResult is the outcome of one pool's refresh.
type PoolResult struct {
	Pool      string
	Week      schedule.WeekSchedule
	FromCache bool
	// Stale marks a week recovered from the cache after the fresh extraction
	// failed. Err is still set; a stale week publishes in preference to
	// dropping the pool from the dataset.
	Stale  bool
	Report *extraction.Report
	Err    error
}

// RunPool refreshes one pool: discover its documents, pick the current
// schedule PDF, and either reuse the cached extraction or run the tiers and
// cache the validated result.
func (r *Runner) RunPool(ctx context.Context, pool config.Pool, now time.Time, forceRefresh bool) *PoolResult {
	result := &PoolResult{Pool: pool.Name}

	fmt.Printf("[%s] Step 1/5: Discovering documents...\n", pool.Name)
	docs, err := documents.Discover(ctx, pool.FacilityURL, r.cfg.UseBrowser, r.verbose)
	if err != nil {
		result.Err = err
		return result
	}
	if r.verbose {
		r.printer.PrintDocuments(pool.Name, docs)
	}

	fmt.Printf("[%s] Step 2/5: Selecting schedule PDF...\n", pool.Name)
	doc, err := documents.Select(ctx, docs, pool.Name, r.cfg.PoolNames(), now, r.chooser)
	if err != nil {
		result.Err = err
		return result
	}
	identity := doc.Identity()

	fmt.Printf("[%s] Step 3/5: Checking cache...\n", pool.Name)
	entry, err := r.store.Get(ctx, pool.Name)
	if err != nil {
		result.Err = fmt.Errorf("cache lookup failed for %s: %w", pool.Name, err)
		return result
	}
	if !cache.IsStale(entry, identity, forceRefresh) {
		if r.verbose {
			fmt.Printf("[%s] Cache hit for document %s\n", pool.Name, identity)
		}
		result.Week = entry.Week
		result.FromCache = true
		return result
	}

	fmt.Printf("[%s] Step 4/5: Downloading %s...\n", pool.Name, doc.Name)
	pdfPath := filepath.Join(r.cfg.CacheDir, fmt.Sprintf("%s.pdf", identity))
	if err := fetch.DownloadFile(ctx, doc.URL, pdfPath, nil); err != nil {
		result.Err = err
		r.fallBackToCache(result, entry)
		return result
	}

	fmt.Printf("[%s] Step 5/5: Extracting schedule...\n", pool.Name)
	controller := extraction.NewController(r.extractor, extraction.WithVerbose(r.verbose))
	week, report, err := controller.ExtractWeek(ctx, extraction.PoolRequest{
		Pool:           pool.Name,
		PDFPath:        pdfPath,
		SecretSwimNote: schedule.NoteKind(pool.SecretSwimNote),
	})
	result.Report = report
	if r.verbose {
		r.printer.PrintExtractionReport(report)
	}
	if err != nil {
		result.Err = err
		r.fallBackToCache(result, entry)
		return result
	}

	newEntry, err := cache.NewEntry(pool.Name, identity, week, time.Now())
	if err != nil {
		result.Err = err
		return result
	}
	if err := r.store.Put(ctx, newEntry); err != nil {
		result.Err = fmt.Errorf("cache store failed for %s: %w", pool.Name, err)
		return result
	}

	if r.verbose {
		r.printer.PrintWeekSchedule(pool.Name, week)
	}
	result.Week = week
	return result
}

// fallBackToCache recovers the pool's last validated week after a failed
// refresh. The entry is stale (its document identity no longer matches) but
// a stale schedule beats dropping the pool from the published dataset.
func (r *Runner) fallBackToCache(result *PoolResult, entry *cache.Entry) {
	if entry == nil {
		return
	}
	fmt.Printf("[%s] Falling back to the cached schedule from %s\n", result.Pool, entry.DocumentIdentity)
	result.Week = entry.Week
	result.Stale = true
}

// RunAll refreshes every configured pool concurrently and writes the
// published dataset. A pool whose refresh fails publishes its last cached
// week when one exists; a pool with neither a fresh nor a cached week is
// left out rather than published partially. Either way the error is
// reported.
func (r *Runner) RunAll(ctx context.Context, opts RunOptions) ([]*PoolResult, error) {
	now := opts.Now
	if now.IsZero() {
		loc, err := time.LoadLocation(r.cfg.Timezone)
		if err != nil {
			loc = time.UTC
		}
		now = time.Now().In(loc)
	}

	results := make([]*PoolResult, len(r.cfg.Pools))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPools)
	for i, pool := range r.cfg.Pools {
		g.Go(func() error {
			result := r.RunPool(gctx, pool, now, opts.ForceRefresh)
			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil // one pool's failure must not abort the others
		})
	}
	_ = g.Wait()

	dataset := make(publish.Dataset, len(results))
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Printf("[%s] FAILED: %v\n", result.Pool, result.Err)
			if !result.Stale {
				continue
			}
			fmt.Printf("[%s] Publishing the stale cached schedule instead\n", result.Pool)
		}
		if err := dataset.Add(result.Pool, result.Week); err != nil {
			failed++
			fmt.Printf("[%s] FAILED: %v\n", result.Pool, err)
		}
	}

	if len(dataset) == 0 {
		return results, fmt.Errorf("no pool produced a publishable schedule")
	}
	if err := publish.Write(dataset, r.cfg.OutputPath); err != nil {
		return results, err
	}

	fmt.Printf("Published %d pools to %s (%d failed)\n", len(dataset), r.cfg.OutputPath, failed)
	return results, nil
}
