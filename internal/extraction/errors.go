package extraction

import (
	"fmt"

	"github.com/jonathan/family-swim-sf/internal/schedule"
)

// ExhaustedError signals that all three tiers failed for a pool. It carries
// the best-performing tier's partial results for operator diagnosis; the
// partial data is never presented to callers as a valid schedule.
type ExhaustedError struct {
	Pool    string
	Reports []*TierReport
}

func (e *ExhaustedError) Error() string {
	best := e.Best()
	if best == nil {
		return fmt.Sprintf("extraction exhausted for %s: no tier produced any data", e.Pool)
	}
	return fmt.Sprintf("extraction exhausted for %s: best attempt was tier %d with %d/7 valid days",
		e.Pool, best.Tier, best.ValidDays())
}

// Best returns the tier report with the most valid days, or nil when no
// tier ran.
func (e *ExhaustedError) Best() *TierReport {
	var best *TierReport
	for _, report := range e.Reports {
		if best == nil || report.ValidDays() > best.ValidDays() {
			best = report
		}
	}
	return best
}

// TierReport records one tier's attempt: which days produced data, which
// failed and why, and the tier-level error if the attempt as a whole failed.
type TierReport struct {
	Tier Tier
	// Partial holds the per-day raw activities of the days that parsed,
	// whether or not the tier verdict was success.
	Partial schedule.RawWeek
	// DayErrors maps failed days to their failures (tier 1 only).
	DayErrors map[schedule.Weekday]error
	// Err is the tier-level failure: the single call's error for tiers 2-3,
	// or the validation error that rejected an otherwise-parsed week.
	Err error
}

// ValidDays counts the days this tier extracted successfully.
func (r *TierReport) ValidDays() int {
	return len(r.Partial)
}
