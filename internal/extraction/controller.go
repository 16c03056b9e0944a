// Package extraction orchestrates the tiered schedule extraction strategy.
//
// Three strategies run in decreasing preference order. Tier 1 extracts each
// weekday with its own oracle call, which pins the oracle's attention to one
// column and empirically minimizes cross-column confusion, at the cost of
// seven calls. Tier 2 asks for a markdown round-trip of the whole table and
// parses it deterministically. Tier 3 asks for the whole week as one JSON
// object. Escalation is strictly sequential and one-directional; a later
// tier never re-runs an earlier one.
package extraction

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/family-swim-sf/internal/oracle"
	"github.com/jonathan/family-swim-sf/internal/parsing"
	"github.com/jonathan/family-swim-sf/internal/schedule"
)

// State tracks where an extraction request is in its lifecycle.
type State string

// Controller states. Transitions only move forward:
// Idle → Tier1Running → Tier2Running → Tier3Running → Succeeded | Exhausted.
const (
	StateIdle         State = "idle"
	StateTier1Running State = "tier1_running"
	StateTier2Running State = "tier2_running"
	StateTier3Running State = "tier3_running"
	StateSucceeded    State = "succeeded"
	StateExhausted    State = "exhausted"
)

// Tier identifies one of the three extraction strategies.
type Tier int

// Extraction tiers in preference order.
const (
	Tier1DayByDay Tier = iota + 1
	Tier2Markdown
	Tier3WholeWeek
)

// DefaultCallTimeout bounds a single oracle call. A timed-out call is that
// day's transient failure; it is not retried within the tier.
const DefaultCallTimeout = 2 * time.Minute

// PoolRequest describes one pool's extraction run.
type PoolRequest struct {
	Pool    string
	PDFPath string
	// SecretSwimNote, when set, enables secret-swim derivation from lap
	// windows for this pool.
	SecretSwimNote schedule.NoteKind
}

// Report summarizes a finished extraction run for diagnostics.
type Report struct {
	Pool    string
	State   State
	Winner  Tier // zero when no tier succeeded
	Tiers   []*TierReport
	Elapsed time.Duration
}

// Controller runs the tiered strategy against an oracle.
type Controller struct {
	oracle      oracle.Extractor
	callTimeout time.Duration
	verbose     bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithCallTimeout overrides the per-call oracle timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Controller) { c.callTimeout = d }
}

// WithVerbose enables per-step progress output.
func WithVerbose(verbose bool) Option {
	return func(c *Controller) { c.verbose = verbose }
}

// NewController creates a controller over the given oracle.
func NewController(ext oracle.Extractor, opts ...Option) *Controller {
	c := &Controller{
		oracle:      ext,
		callTimeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExtractWeek runs the tiers for one pool until one produces a complete,
// validated WeekSchedule. On exhaustion it returns a *ExhaustedError whose
// reports carry the best partial results.
func (c *Controller) ExtractWeek(ctx context.Context, req PoolRequest) (schedule.WeekSchedule, *Report, error) {
	started := time.Now()
	report := &Report{Pool: req.Pool, State: StateIdle}

	type tierFunc func(context.Context, PoolRequest) (schedule.RawWeek, *TierReport)
	tiers := []struct {
		state State
		run   tierFunc
	}{
		{StateTier1Running, c.runTier1},
		{StateTier2Running, c.runTier2},
		{StateTier3Running, c.runTier3},
	}

	for _, tier := range tiers {
		report.State = tier.state

		raw, tierReport := tier.run(ctx, req)
		if raw != nil {
			week, err := buildWeek(raw, req.SecretSwimNote)
			if err != nil {
				// Structurally parsed but semantically invalid; record and
				// let the next tier try.
				tierReport.Err = err
				c.logf("  tier %d produced an invalid week: %v\n", tierReport.Tier, err)
			} else {
				report.Tiers = append(report.Tiers, tierReport)
				report.State = StateSucceeded
				report.Winner = tierReport.Tier
				report.Elapsed = time.Since(started)
				return week, report, nil
			}
		}
		report.Tiers = append(report.Tiers, tierReport)
	}

	report.State = StateExhausted
	report.Elapsed = time.Since(started)
	return nil, report, &ExhaustedError{Pool: req.Pool, Reports: report.Tiers}
}

// runTier1 issues seven concurrent single-day calls and joins them all. A
// single day's failure is recorded, not propagated, until verdict time: the
// tier succeeds only when all seven days parsed.
func (c *Controller) runTier1(ctx context.Context, req PoolRequest) (schedule.RawWeek, *TierReport) {
	c.logf("  tier 1: extracting %s day by day...\n", req.Pool)

	days := schedule.Weekdays()
	activities := make([][]schedule.RawActivity, len(days))
	failures := make([]error, len(days))

	g, gctx := errgroup.WithContext(ctx)
	for i, day := range days {
		g.Go(func() error {
			acts, err := c.extractDay(gctx, req, day)
			if err != nil {
				failures[i] = err
				return nil // a failed day must not cancel its siblings
			}
			activities[i] = acts
			return nil
		})
	}
	_ = g.Wait()

	tierReport := &TierReport{
		Tier:      Tier1DayByDay,
		Partial:   make(schedule.RawWeek, len(days)),
		DayErrors: make(map[schedule.Weekday]error),
	}
	for i, day := range days {
		if failures[i] != nil {
			tierReport.DayErrors[day] = failures[i]
			c.logf("    %s failed: %v\n", day, failures[i])
			continue
		}
		tierReport.Partial[day] = activities[i]
	}

	if len(tierReport.DayErrors) > 0 {
		tierReport.Err = fmt.Errorf("%d of 7 days failed", len(tierReport.DayErrors))
		return nil, tierReport
	}
	return tierReport.Partial, tierReport
}

// extractDay performs one bounded single-day oracle call plus parse.
func (c *Controller) extractDay(ctx context.Context, req PoolRequest, day schedule.Weekday) ([]schedule.RawActivity, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	raw, err := c.oracle.Extract(callCtx, oracle.Request{
		PoolName: req.Pool,
		PDFPath:  req.PDFPath,
		Focus:    oracle.SingleDay(day),
		Shape:    oracle.ShapeJSONArray,
	})
	if err != nil {
		return nil, err
	}
	acts, err := parsing.ParseDayActivities(raw)
	if err != nil {
		return nil, err
	}
	c.logf("    %s: %d activities\n", day, len(acts))
	return acts, nil
}

// runTier2 asks for a markdown rendering of the full table and parses it
// deterministically.
func (c *Controller) runTier2(ctx context.Context, req PoolRequest) (schedule.RawWeek, *TierReport) {
	c.logf("  tier 2: markdown round-trip for %s...\n", req.Pool)
	tierReport := &TierReport{Tier: Tier2Markdown}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	raw, err := c.oracle.Extract(callCtx, oracle.Request{
		PoolName: req.Pool,
		PDFPath:  req.PDFPath,
		Focus:    oracle.TableMarkdown(),
		Shape:    oracle.ShapeMarkdownTable,
	})
	if err != nil {
		tierReport.Err = err
		return nil, tierReport
	}

	week, err := parsing.ParseMarkdownWeek(raw)
	if err != nil {
		tierReport.Err = err
		return nil, tierReport
	}
	tierReport.Partial = week
	return week, tierReport
}

// runTier3 asks for the whole week as one JSON object. Empty days are
// accepted; a response that does not cover all seven days is rejected by
// the parser.
func (c *Controller) runTier3(ctx context.Context, req PoolRequest) (schedule.RawWeek, *TierReport) {
	c.logf("  tier 3: whole-week extraction for %s...\n", req.Pool)
	tierReport := &TierReport{Tier: Tier3WholeWeek}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	raw, err := c.oracle.Extract(callCtx, oracle.Request{
		PoolName: req.Pool,
		PDFPath:  req.PDFPath,
		Focus:    oracle.WholeWeek(),
		Shape:    oracle.ShapeJSONObject,
	})
	if err != nil {
		tierReport.Err = err
		return nil, tierReport
	}

	week, err := parsing.ParseWeekActivities(raw)
	if err != nil {
		tierReport.Err = err
		return nil, tierReport
	}
	tierReport.Partial = week
	return week, tierReport
}

// buildWeek filters a raw week down to family slots, derives secret swim
// when the pool has a rule, and validates the merge.
func buildWeek(raw schedule.RawWeek, secretNote schedule.NoteKind) (schedule.WeekSchedule, error) {
	family := schedule.FilterFamily(raw)
	if secretNote != "" {
		family = schedule.AddSecretSwim(family, schedule.FilterLap(raw), raw, secretNote)
	}
	return schedule.MergeWeek(family)
}

func (c *Controller) logf(format string, args ...any) {
	if c.verbose {
		fmt.Printf(format, args...)
	}
}
