package parsing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/family-swim-sf/internal/schedule"
)

func TestParseDayActivities_FencedResponseWithProse(t *testing.T) {
	raw := "Here is the Saturday schedule you asked for:\n" +
		"```json\n" +
		`[{"start": "1:00PM", "end": "2:00PM", "activity": "Family Swim"},` + "\n" +
		` {"start": "3:00PM", "end": "4:00PM", "activity": "Parent Child Swim"}]` + "\n" +
		"```\n" +
		"Let me know if you need anything else."

	activities, err := ParseDayActivities(raw)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, schedule.RawActivity{Start: 13 * 60, End: 14 * 60, Activity: "Family Swim"}, activities[0])
	assert.Equal(t, schedule.RawActivity{Start: 15 * 60, End: 16 * 60, Activity: "Parent Child Swim"}, activities[1])
}

func TestParseDayActivities_BareArray(t *testing.T) {
	activities, err := ParseDayActivities(`[{"start":"9:00AM","end":"NOON","activity":"LAP SWIM","pool_area":"Big Pool"}]`)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Big Pool", activities[0].PoolArea)
	assert.Equal(t, schedule.Clock(12*60), activities[0].End)
}

func TestParseDayActivities_KeyCasingTolerated(t *testing.T) {
	activities, err := ParseDayActivities(`[{"Start":"9:00AM","END":"10:00AM","Activity":"Family Swim"}]`)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Family Swim", activities[0].Activity)
}

func TestParseDayActivities_EmptyArrayIsConfirmedEmpty(t *testing.T) {
	activities, err := ParseDayActivities("```json\n[]\n```")
	require.NoError(t, err)
	assert.NotNil(t, activities)
	assert.Empty(t, activities)
}

func TestParseDayActivities_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty response", raw: ""},
		{name: "prose only", raw: "The schedule is not available."},
		{name: "unparseable time", raw: `[{"start":"morning","end":"10:00AM","activity":"Family Swim"}]`},
		{name: "missing activity name", raw: `[{"start":"9:00AM","end":"10:00AM","activity":""}]`},
		{name: "malformed json", raw: `[{"start": "9:00AM",`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDayActivities(tt.raw)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseError_FragmentTruncated(t *testing.T) {
	_, err := ParseDayActivities("The pool is closed. " + strings.Repeat("x", 500))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.LessOrEqual(t, len(perr.Fragment), 203) // 200 plus ellipsis
}

func TestParseWeekActivities_AllDays(t *testing.T) {
	raw := "```json\n" + `{
		"Saturday": [{"start":"10:00AM","end":"NOON","activity":"Family Swim"}],
		"Sunday": [],
		"monday": [],
		"TUESDAY": [],
		"Wednesday": [],
		"Thursday": [],
		"Friday": [],
		"Notes": []
	}` + "\n```"

	week, err := ParseWeekActivities(raw)
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Len(t, week[schedule.Saturday], 1)
	assert.Empty(t, week[schedule.Monday])
}

func TestParseWeekActivities_MissingDayRejected(t *testing.T) {
	raw := `{
		"Saturday": [], "Sunday": [], "Monday": [],
		"Tuesday": [], "Wednesday": [], "Thursday": []
	}`

	_, err := ParseWeekActivities(raw)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "Friday")
}

func TestParseWeekActivities_NotAnObject(t *testing.T) {
	_, err := ParseWeekActivities(`["Saturday"]`)
	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
}
