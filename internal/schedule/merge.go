package schedule

import (
	"sort"
)

// MergeWeek combines per-day results into one canonical WeekSchedule.
//
// Validation rules:
//   - all seven weekdays must be present with non-nil day schedules
//     (an empty day is valid; a missing day is not),
//   - every slot must have start < end and a known NoteKind,
//   - slots within a day must not overlap: the sessions run in one physical
//     facility, so two cannot be live at once.
//
// On success slots are sorted ascending by start time (end, then note, break
// ties) and exact duplicates are dropped. On failure the returned
// *ValidationError names the violated invariant and the offending day, and
// the input is left untouched.
func MergeWeek(perDay map[Weekday]DaySchedule) (WeekSchedule, error) {
	week := make(WeekSchedule, 7)

	for _, day := range Weekdays() {
		slots, ok := perDay[day]
		if !ok || slots == nil {
			return nil, &ValidationError{Day: day, Message: "day missing from extraction results"}
		}

		normalized := normalizeDay(slots)
		for _, slot := range normalized {
			if !slot.Valid() {
				return nil, &ValidationError{
					Day:     day,
					Message: "slot " + slot.Start.String() + "-" + slot.End.String() + " has start >= end",
				}
			}
			if !IsKnownNoteKind(string(slot.Note)) {
				return nil, &ValidationError{Day: day, Message: "unknown note kind " + string(slot.Note)}
			}
		}
		for i := 1; i < len(normalized); i++ {
			if normalized[i-1].Overlaps(normalized[i]) {
				return nil, &ValidationError{
					Day: day,
					Message: "overlapping slots " +
						normalized[i-1].Start.String() + "-" + normalized[i-1].End.String() + " and " +
						normalized[i].Start.String() + "-" + normalized[i].End.String(),
				}
			}
		}
		week[day] = normalized
	}

	return week, nil
}

// normalizeDay sorts slots and removes exact duplicates without mutating the
// caller's slice.
func normalizeDay(slots DaySchedule) DaySchedule {
	out := make(DaySchedule, 0, len(slots))
	out = append(out, slots...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		if out[i].End != out[j].End {
			return out[i].End < out[j].End
		}
		return out[i].Note < out[j].Note
	})

	deduped := out[:0]
	for i, slot := range out {
		if i > 0 && slot == out[i-1] {
			continue
		}
		deduped = append(deduped, slot)
	}
	return deduped
}
