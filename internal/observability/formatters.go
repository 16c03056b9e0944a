// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/family-swim-sf/internal/documents"
	"github.com/jonathan/family-swim-sf/internal/extraction"
	"github.com/jonathan/family-swim-sf/internal/schedule"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// timeRound keeps elapsed durations readable
	timeRound = 100 * time.Millisecond
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDocuments outputs the documents discovered on a facility page.
func (p *Printer) PrintDocuments(poolName string, docs []documents.Document) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d documents\n", len(docs)))

	count := min(len(docs), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, docs[i].Name))
	}
	if len(docs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(docs)-maxItemsToShow))
	}

	p.printBox(fmt.Sprintf("DOCUMENTS: %s", strings.ToUpper(poolName)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWeekSchedule outputs a validated weekly schedule day by day.
func (p *Printer) PrintWeekSchedule(poolName string, week schedule.WeekSchedule) {
	if week == nil {
		return
	}

	var sb strings.Builder
	for _, day := range schedule.Weekdays() {
		slots := week[day]
		if len(slots) == 0 {
			sb.WriteString(fmt.Sprintf("%-9s  (no sessions)\n", day))
			continue
		}
		for i, slot := range slots {
			label := string(day)
			if i > 0 {
				label = ""
			}
			sb.WriteString(fmt.Sprintf("%-9s  %s-%s  %s\n", label, slot.Start, slot.End, slot.Note))
		}
	}

	p.printBox(fmt.Sprintf("WEEKLY SCHEDULE: %s", strings.ToUpper(poolName)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExtractionReport summarizes which tier won and how earlier tiers
// failed.
func (p *Printer) PrintExtractionReport(report *extraction.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("State:   %s\n", report.State))
	if report.Winner != 0 {
		sb.WriteString(fmt.Sprintf("Winner:  tier %d\n", report.Winner))
	}
	sb.WriteString(fmt.Sprintf("Elapsed: %s\n", report.Elapsed.Round(timeRound)))

	for _, tier := range report.Tiers {
		sb.WriteString(fmt.Sprintf("\nTier %d: %d/7 days", tier.Tier, tier.ValidDays()))
		if tier.Err != nil {
			sb.WriteString(fmt.Sprintf("\n  error: %v", tier.Err))
		}
		for day, err := range tier.DayErrors {
			sb.WriteString(fmt.Sprintf("\n  %s: %v", day, err))
		}
	}

	p.printBox(fmt.Sprintf("EXTRACTION: %s", strings.ToUpper(report.Pool)), sb.String())
}
