// Package schedule defines the weekly pool schedule domain model and the
// merge/validation rules that turn raw extraction output into a canonical
// WeekSchedule.
package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Weekday is a calendar day of the week. Schedules carry no timezone; all
// times are wall-clock in the civic timezone supplied by the caller.
type Weekday string

// Weekday values, in the order the published PDFs list them.
const (
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
)

// Weekdays returns all seven weekdays in canonical order.
func Weekdays() []Weekday {
	return []Weekday{Saturday, Sunday, Monday, Tuesday, Wednesday, Thursday, Friday}
}

// ParseWeekday maps a day name (any casing, optional surrounding space) to a
// Weekday. Returns false for anything that is not one of the seven days.
func ParseWeekday(s string) (Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "saturday", "sat":
		return Saturday, true
	case "sunday", "sun":
		return Sunday, true
	case "monday", "mon":
		return Monday, true
	case "tuesday", "tue", "tues":
		return Tuesday, true
	case "wednesday", "wed":
		return Wednesday, true
	case "thursday", "thu", "thurs":
		return Thursday, true
	case "friday", "fri":
		return Friday, true
	}
	return "", false
}

// NoteKind is the closed set of session labels the map understands.
// Unrecognized activity text must be mapped to one of these or discarded,
// never invented as a new category.
type NoteKind string

// Known session kinds.
const (
	NoteFamilySwim                 NoteKind = "Family Swim"
	NoteParentChildSwim            NoteKind = "Parent Child Swim"
	NoteParentChildSwimOnSteps     NoteKind = "Parent Child Swim on Steps"
	NoteFamilySwimInSmallPool      NoteKind = "Family Swim in Small Pool"
	NoteParentChildSwimInSmallPool NoteKind = "Parent Child Swim in Small Pool"
)

// KnownNoteKinds returns every valid NoteKind.
func KnownNoteKinds() []NoteKind {
	return []NoteKind{
		NoteFamilySwim,
		NoteParentChildSwim,
		NoteParentChildSwimOnSteps,
		NoteFamilySwimInSmallPool,
		NoteParentChildSwimInSmallPool,
	}
}

// IsKnownNoteKind reports whether s is exactly one of the known kinds.
func IsKnownNoteKind(s string) bool {
	for _, k := range KnownNoteKinds() {
		if string(k) == s {
			return true
		}
	}
	return false
}

// TimeSlot is one swim window within a day. Start and End are wall-clock
// minutes since midnight; Start < End always holds for a valid slot.
type TimeSlot struct {
	Start Clock    `json:"start"`
	End   Clock    `json:"end"`
	Note  NoteKind `json:"note"`
}

// Valid reports whether the slot has a positive duration.
func (s TimeSlot) Valid() bool {
	return s.Start < s.End
}

// Overlaps reports whether two slots share any time.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start < other.End && other.Start < s.End
}

// MarshalJSON emits the wire form {"start":"9:00AM","end":"10:30AM","note":...}.
func (s TimeSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
		Note  string `json:"note"`
	}{s.Start.String(), s.End.String(), string(s.Note)})
}

// UnmarshalJSON accepts the wire form with 12-hour clock strings.
func (s *TimeSlot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Start string `json:"start"`
		End   string `json:"end"`
		Note  string `json:"note"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := ParseClock(raw.Start)
	if err != nil {
		return fmt.Errorf("invalid start time %q: %w", raw.Start, err)
	}
	end, err := ParseClock(raw.End)
	if err != nil {
		return fmt.Errorf("invalid end time %q: %w", raw.End, err)
	}
	s.Start = start
	s.End = end
	s.Note = NoteKind(raw.Note)
	return nil
}

// DaySchedule is the ordered slot list for one weekday. An empty (non-nil)
// DaySchedule means the pool confirmed no sessions that day; a day whose
// extraction failed is represented by absence, never by an empty list.
type DaySchedule []TimeSlot

// WeekSchedule maps all seven weekdays to their day schedules. A complete
// WeekSchedule has exactly seven non-nil entries; anything less is an
// intermediate state and must not be cached or published.
type WeekSchedule map[Weekday]DaySchedule

// Complete reports whether all seven weekdays are present with non-nil days.
func (w WeekSchedule) Complete() bool {
	if len(w) != 7 {
		return false
	}
	for _, day := range Weekdays() {
		if _, ok := w[day]; !ok {
			return false
		}
	}
	return true
}

// SlotCount returns the total number of slots across the week.
func (w WeekSchedule) SlotCount() int {
	n := 0
	for _, slots := range w {
		n += len(slots)
	}
	return n
}

// RawActivity is one activity cell as reported by the oracle before any
// filtering: times plus the verbatim activity name and optional pool area.
type RawActivity struct {
	Start    Clock  `json:"start"`
	End      Clock  `json:"end"`
	Activity string `json:"activity"`
	PoolArea string `json:"pool_area,omitempty"`
}

// RawWeek holds the unfiltered per-day activity lists for a document.
type RawWeek map[Weekday][]RawActivity
