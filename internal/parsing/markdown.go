package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/family-swim-sf/internal/schedule"
)

// Tier-2 extraction asks the oracle for a markdown round-trip of the whole
// table and derives the week deterministically from that. The markdown
// grammar here is the one the prompt requests: a header row of weekday
// columns, a separator row, and body cells of the form
// "START-END ACTIVITY (POOL AREA)".

var (
	cellTimeRangeRe = regexp.MustCompile(`(?i)^\s*([0-9]{1,2}(?::[0-9]{2})?\s*[AP]M|noon)\s*[-–—]\s*([0-9]{1,2}(?::[0-9]{2})?\s*[AP]M|noon)\s*(.*)$`)
	cellPoolAreaRe  = regexp.MustCompile(`^(.*?)\s*\(([^)]*)\)\s*$`)
)

// ParseMarkdownWeek parses a markdown-table response into a raw week.
// Weekdays without a column in the header are closed days and come back as
// confirmed-empty; a table with no recognizable weekday header at all is a
// *ParseError.
func ParseMarkdownWeek(raw string) (schedule.RawWeek, error) {
	rows := tableRows(raw)
	if len(rows) == 0 {
		return nil, &ParseError{Message: "no markdown table found in response", Fragment: snippet(raw)}
	}

	header := rows[0]
	columns := make(map[int]schedule.Weekday, len(header))
	for i, cell := range header {
		if day, ok := schedule.ParseWeekday(cell); ok {
			columns[i] = day
		}
	}
	if len(columns) == 0 {
		return nil, &ParseError{
			Message:  "markdown table header has no weekday columns",
			Fragment: snippet(strings.Join(header, " | ")),
		}
	}

	week := make(schedule.RawWeek, 7)
	for _, day := range schedule.Weekdays() {
		week[day] = []schedule.RawActivity{}
	}

	for _, row := range rows[1:] {
		for i, cell := range row {
			day, ok := columns[i]
			if !ok {
				continue
			}
			for _, entry := range splitCell(cell) {
				activity, err := parseCellEntry(entry)
				if err != nil {
					return nil, err
				}
				week[day] = append(week[day], activity)
			}
		}
	}
	return week, nil
}

// tableRows extracts pipe-delimited rows, dropping the |---| separator.
func tableRows(raw string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			continue
		}
		if isSeparatorRow(line) {
			continue
		}
		line = strings.Trim(line, "|")
		cells := strings.Split(line, "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	return rows
}

// isSeparatorRow matches markdown header separators like | --- | :--: |.
func isSeparatorRow(line string) bool {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '|', '-', ':', ' ':
			return -1
		}
		return r
	}, line)
	return stripped == "" && strings.Contains(line, "-")
}

// splitCell breaks a table cell into individual activity entries. Cells are
// supposed to hold one entry, but oracles sometimes pack several separated
// by <br> or semicolons.
func splitCell(cell string) []string {
	cell = strings.ReplaceAll(cell, "<br>", ";")
	cell = strings.ReplaceAll(cell, "<br/>", ";")
	var entries []string
	for _, part := range strings.Split(cell, ";") {
		if part = strings.TrimSpace(part); part != "" {
			entries = append(entries, part)
		}
	}
	return entries
}

// parseCellEntry parses "9:00AM-10:30AM FAMILY SWIM (Small Pool)".
func parseCellEntry(entry string) (schedule.RawActivity, error) {
	m := cellTimeRangeRe.FindStringSubmatch(entry)
	if m == nil {
		return schedule.RawActivity{}, &ParseError{
			Message:  "table cell is not a time-range entry",
			Fragment: snippet(entry),
		}
	}
	start, err := schedule.ParseClock(m[1])
	if err != nil {
		return schedule.RawActivity{}, &ParseError{Message: "unparseable start time in table cell", Fragment: snippet(entry), Cause: err}
	}
	end, err := schedule.ParseClock(m[2])
	if err != nil {
		return schedule.RawActivity{}, &ParseError{Message: "unparseable end time in table cell", Fragment: snippet(entry), Cause: err}
	}

	activity := strings.TrimSpace(m[3])
	poolArea := ""
	if am := cellPoolAreaRe.FindStringSubmatch(activity); am != nil {
		activity = strings.TrimSpace(am[1])
		poolArea = strings.TrimSpace(am[2])
	}
	if activity == "" {
		return schedule.RawActivity{}, &ParseError{
			Message:  "table cell has a time range but no activity name",
			Fragment: snippet(entry),
		}
	}
	return schedule.RawActivity{Start: start, End: end, Activity: activity, PoolArea: poolArea}, nil
}
