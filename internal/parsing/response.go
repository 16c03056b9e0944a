// Package parsing turns the oracle's free-form response text into typed
// schedule data. The oracle wraps answers in prose and markdown fences and
// drifts on key casing; everything here tolerates that, but a response whose
// structure, times, or day names cannot be interpreted is rejected with a
// *ParseError carrying the offending fragment rather than silently coerced.
package parsing

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/family-swim-sf/internal/schedule"
)

// rawActivityJSON mirrors the JSON shape the prompts ask for. Go's decoder
// matches keys case-insensitively, which absorbs the oracle's casing drift.
type rawActivityJSON struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Activity string `json:"activity"`
	PoolArea string `json:"pool_area"`
}

// ParseDayActivities extracts one day's activity list from a raw single-day
// response. An empty JSON array is a valid, confirmed-empty day.
func ParseDayActivities(raw string) ([]schedule.RawActivity, error) {
	payload, err := locatePayload(raw, '[', ']')
	if err != nil {
		return nil, err
	}

	var items []rawActivityJSON
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, &ParseError{Message: "response is not a JSON activity array", Fragment: snippet(payload), Cause: err}
	}
	return convertActivities(items)
}

// ParseWeekActivities extracts a full week from a raw whole-week response.
// All seven weekdays must be present as keys; day-name casing is tolerated,
// unknown keys are ignored.
func ParseWeekActivities(raw string) (schedule.RawWeek, error) {
	payload, err := locatePayload(raw, '{', '}')
	if err != nil {
		return nil, err
	}

	var items map[string][]rawActivityJSON
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, &ParseError{Message: "response is not a JSON week object", Fragment: snippet(payload), Cause: err}
	}

	week := make(schedule.RawWeek, 7)
	for key, dayItems := range items {
		day, ok := schedule.ParseWeekday(key)
		if !ok {
			continue
		}
		activities, err := convertActivities(dayItems)
		if err != nil {
			return nil, err
		}
		week[day] = activities
	}

	for _, day := range schedule.Weekdays() {
		if _, ok := week[day]; !ok {
			return nil, &ParseError{
				Message:  "week object is missing " + string(day),
				Fragment: snippet(payload),
			}
		}
	}
	return week, nil
}

// convertActivities validates times and maps the JSON items to domain
// activities. Activities whose times cannot be parsed fail the whole
// response; the slot boundary is the one thing the pipeline cannot guess.
func convertActivities(items []rawActivityJSON) ([]schedule.RawActivity, error) {
	activities := make([]schedule.RawActivity, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Activity) == "" {
			return nil, &ParseError{
				Message:  "activity entry has no name",
				Fragment: snippet(item.Start + "-" + item.End),
			}
		}
		start, err := schedule.ParseClock(item.Start)
		if err != nil {
			return nil, &ParseError{Message: "unparseable start time", Fragment: snippet(item.Start), Cause: err}
		}
		end, err := schedule.ParseClock(item.End)
		if err != nil {
			return nil, &ParseError{Message: "unparseable end time", Fragment: snippet(item.End), Cause: err}
		}
		activities = append(activities, schedule.RawActivity{
			Start:    start,
			End:      end,
			Activity: strings.TrimSpace(item.Activity),
			PoolArea: strings.TrimSpace(item.PoolArea),
		})
	}
	return activities, nil
}

// locatePayload finds the JSON payload inside a response that may carry
// leading prose, a fenced code block, and trailing commentary.
func locatePayload(raw string, open, close byte) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", &ParseError{Message: "empty response"}
	}

	if fenced, ok := extractFence(text); ok {
		text = fenced
	}

	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start == -1 || end == -1 || end < start {
		return "", &ParseError{
			Message:  "could not locate JSON payload in response",
			Fragment: snippet(text),
		}
	}
	return text[start : end+1], nil
}

// extractFence returns the content of the first ``` fence, if any.
func extractFence(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start == -1 {
		return "", false
	}
	rest := text[start+3:]
	// Skip a language tag like "json" on the fence line.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(rest[:nl])
		if firstLine == "" || (len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[")) {
			rest = rest[nl+1:]
		}
	}
	end := strings.Index(rest, "```")
	if end == -1 {
		return strings.TrimSpace(rest), true
	}
	return strings.TrimSpace(rest[:end]), true
}
