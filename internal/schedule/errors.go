package schedule

import "fmt"

// ValidationError reports a structurally sound but semantically invalid
// week: a missing day, an inverted or overlapping slot, or an unknown note.
// Day is empty when the violation is week-level.
type ValidationError struct {
	Day     Weekday
	Message string
}

func (e *ValidationError) Error() string {
	if e.Day != "" {
		return fmt.Sprintf("invalid schedule for %s: %s", e.Day, e.Message)
	}
	return fmt.Sprintf("invalid schedule: %s", e.Message)
}
