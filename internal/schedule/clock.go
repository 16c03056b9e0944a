package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a wall-clock time expressed as minutes since midnight. Slots use
// Clock internally so times compare as plain integers; the 12-hour labelled
// strings the PDFs and the map use exist only at the boundary.
type Clock int

// ParseClock parses boundary time strings like "9:00AM", "12:15 pm", "9AM"
// or "NOON" into minutes since midnight.
func ParseClock(s string) (Clock, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	if t == "" {
		return 0, fmt.Errorf("empty time string")
	}
	if t == "NOON" {
		return Clock(12 * 60), nil
	}

	isPM := strings.HasSuffix(t, "PM")
	isAM := strings.HasSuffix(t, "AM")
	if !isPM && !isAM {
		return 0, fmt.Errorf("missing AM/PM suffix")
	}
	t = strings.TrimSuffix(strings.TrimSuffix(t, "PM"), "AM")
	t = strings.TrimSpace(t)

	hourPart, minutePart, hasMinutes := strings.Cut(t, ":")
	hours, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return 0, fmt.Errorf("bad hour %q", hourPart)
	}
	minutes := 0
	if hasMinutes {
		minutes, err = strconv.Atoi(strings.TrimSpace(minutePart))
		if err != nil {
			return 0, fmt.Errorf("bad minutes %q", minutePart)
		}
	}
	if hours < 1 || hours > 12 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("time out of range: %s", s)
	}

	if isPM && hours != 12 {
		hours += 12
	} else if isAM && hours == 12 {
		hours = 0
	}
	return Clock(hours*60 + minutes), nil
}

// String renders the clock in the boundary format, e.g. "9:00AM" or "2:30PM".
func (c Clock) String() string {
	hours := int(c) / 60
	minutes := int(c) % 60

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	if hours > 12 {
		hours -= 12
	} else if hours == 0 {
		hours = 12
	}
	return fmt.Sprintf("%d:%02d%s", hours, minutes, period)
}
