package schedule

import "strings"

// Activity classification. The schedules label drop-in family sessions in
// many spellings ("REC/FAMILY SWIM", "PARENT & CHILD SWIM", ...) and mix
// them with lessons, lap swim, and staff entries. Classification is
// deterministic: an activity name either maps into the closed NoteKind set
// or is discarded, so the oracle is never trusted to invent categories.

// excludeTerms disqualify an activity even when it mentions family or
// parent/child, e.g. "Parent Child Intro" is a lesson, not a drop-in swim.
var excludeTerms = []string{
	"lesson",
	"intro",
	"class",
	"learn to",
	"instruction",
	"swim team",
	"master",
	"water exercise",
	"aqua",
	"therapy",
	"senior",
	"meeting",
	"closed",
	"closure",
}

// parentChildTerms identify parent/child drop-in sessions.
var parentChildTerms = []string{
	"parent child",
	"parent & child",
	"parent and child",
	"parent/child",
	"parent-child",
}

// familyTerms identify general family drop-in sessions.
var familyTerms = []string{
	"family swim",
	"rec/family",
	"rec / family",
	"family/rec",
	"rec swim",
}

// ClassifyActivity maps verbatim activity text (plus the pool area, when the
// schedule calls one out) to a NoteKind. The second return value is false
// when the activity is not a family or parent/child drop-in swim.
func ClassifyActivity(activity, poolArea string) (NoteKind, bool) {
	name := strings.ToLower(strings.TrimSpace(activity))
	if name == "" {
		return "", false
	}
	for _, term := range excludeTerms {
		if strings.Contains(name, term) {
			return "", false
		}
	}

	area := strings.ToLower(poolArea)
	smallPool := strings.Contains(area, "small") || strings.Contains(name, "small pool")
	onSteps := strings.Contains(area, "steps") || strings.Contains(name, "on steps")

	for _, term := range parentChildTerms {
		if strings.Contains(name, term) {
			switch {
			case onSteps:
				return NoteParentChildSwimOnSteps, true
			case smallPool:
				return NoteParentChildSwimInSmallPool, true
			default:
				return NoteParentChildSwim, true
			}
		}
	}
	for _, term := range familyTerms {
		if strings.Contains(name, term) {
			if smallPool {
				return NoteFamilySwimInSmallPool, true
			}
			return NoteFamilySwim, true
		}
	}
	return "", false
}

// IsLapSwim reports whether the activity is a lap swim session. Lap swim is
// never published directly but feeds the secret swim computation.
func IsLapSwim(activity string) bool {
	return strings.Contains(strings.ToLower(activity), "lap swim")
}

// FilterFamily reduces a raw week to the family/parent-child slots the map
// publishes. Every day present in the input is present in the output; a day
// with no qualifying activities yields an empty, non-nil DaySchedule.
func FilterFamily(raw RawWeek) WeekSchedule {
	week := make(WeekSchedule, len(raw))
	for day, activities := range raw {
		slots := DaySchedule{}
		for _, act := range activities {
			if note, ok := ClassifyActivity(act.Activity, act.PoolArea); ok {
				slots = append(slots, TimeSlot{Start: act.Start, End: act.End, Note: note})
			}
		}
		week[day] = slots
	}
	return week
}

// FilterLap extracts the lap swim windows from a raw week.
func FilterLap(raw RawWeek) map[Weekday][]RawActivity {
	lap := make(map[Weekday][]RawActivity, len(raw))
	for day, activities := range raw {
		var slots []RawActivity
		for _, act := range activities {
			if IsLapSwim(act.Activity) {
				slots = append(slots, act)
			}
		}
		lap[day] = slots
	}
	return lap
}
