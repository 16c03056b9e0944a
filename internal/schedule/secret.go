package schedule

import "sort"

// Secret swim: at some pools the small pool or steps stay open to families
// for the whole lap swim window, even though the printed schedule only says
// "LAP SWIM". AddSecretSwim turns the uncontested parts of each lap window
// into extra slots labelled with the pool's secret-swim note.

// AddSecretSwim returns family extended with secret-swim slots derived from
// lap windows. For every lap slot, any portion that does not collide with
// another (non-lap) activity that day becomes a slot with the given note.
// The input maps are not mutated. A pool with no secret-swim rule should
// simply not call this.
func AddSecretSwim(family WeekSchedule, lap map[Weekday][]RawActivity, all RawWeek, note NoteKind) WeekSchedule {
	combined := make(WeekSchedule, len(family))
	for day, slots := range family {
		out := make(DaySchedule, 0, len(slots))
		out = append(out, slots...)

		for _, lapSlot := range lap[day] {
			for _, gap := range openRanges(lapSlot, all[day]) {
				out = append(out, TimeSlot{Start: gap.start, End: gap.end, Note: note})
			}
		}
		combined[day] = out
	}
	return combined
}

type clockRange struct {
	start, end Clock
}

// openRanges returns the sub-ranges of the lap window not covered by any
// other activity. Lap swim entries themselves never count as conflicts.
func openRanges(lapSlot RawActivity, activities []RawActivity) []clockRange {
	var conflicts []clockRange
	for _, act := range activities {
		if IsLapSwim(act.Activity) {
			continue
		}
		if lapSlot.End <= act.Start || lapSlot.Start >= act.End {
			continue
		}
		conflicts = append(conflicts, clockRange{act.Start, act.End})
	}
	if len(conflicts) == 0 {
		return []clockRange{{lapSlot.Start, lapSlot.End}}
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].start != conflicts[j].start {
			return conflicts[i].start < conflicts[j].start
		}
		return conflicts[i].end < conflicts[j].end
	})

	var open []clockRange
	cursor := lapSlot.Start
	for _, c := range conflicts {
		if cursor < c.start {
			open = append(open, clockRange{cursor, c.start})
		}
		if c.end > cursor {
			cursor = c.end
		}
	}
	if cursor < lapSlot.End {
		open = append(open, clockRange{cursor, lapSlot.End})
	}
	return open
}
