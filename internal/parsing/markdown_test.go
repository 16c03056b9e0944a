package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/family-swim-sf/internal/schedule"
)

func TestParseMarkdownWeek_FullTable(t *testing.T) {
	raw := `Here is the schedule as a table:

| Saturday | Sunday | Monday | Tuesday | Wednesday | Thursday | Friday |
| --- | --- | --- | --- | --- | --- | --- |
| 9:00AM-10:30AM LAP SWIM (Big Pool) | 10:00AM-NOON FAMILY SWIM | | | | | 6:00PM-7:30PM PARENT CHILD SWIM (Small Pool) |
`

	week, err := ParseMarkdownWeek(raw)
	require.NoError(t, err)
	require.Len(t, week, 7)

	require.Len(t, week[schedule.Saturday], 1)
	assert.Equal(t, schedule.RawActivity{
		Start: 9 * 60, End: 10*60 + 30, Activity: "LAP SWIM", PoolArea: "Big Pool",
	}, week[schedule.Saturday][0])

	require.Len(t, week[schedule.Sunday], 1)
	assert.Equal(t, schedule.Clock(12*60), week[schedule.Sunday][0].End)

	require.Len(t, week[schedule.Friday], 1)
	assert.Equal(t, "Small Pool", week[schedule.Friday][0].PoolArea)

	// Days with empty cells are confirmed-empty, not missing.
	assert.NotNil(t, week[schedule.Monday])
	assert.Empty(t, week[schedule.Monday])
}

func TestParseMarkdownWeek_MissingColumnsAreClosedDays(t *testing.T) {
	raw := `| Time | Saturday | Sunday |
| --- | --- | --- |
| Morning | 9:00AM-11:00AM FAMILY SWIM | |
`

	week, err := ParseMarkdownWeek(raw)
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Len(t, week[schedule.Saturday], 1)

	// Weekdays without a column come back confirmed-empty.
	for _, day := range []schedule.Weekday{schedule.Monday, schedule.Friday} {
		slots, ok := week[day]
		assert.True(t, ok)
		assert.Empty(t, slots)
	}
}

func TestParseMarkdownWeek_MultipleEntriesPerCell(t *testing.T) {
	raw := `| Saturday |
| --- |
| 9:00AM-10:00AM FAMILY SWIM<br>2:00PM-3:00PM PARENT CHILD SWIM; 4:00PM-5:00PM LAP SWIM |
`

	week, err := ParseMarkdownWeek(raw)
	require.NoError(t, err)
	assert.Len(t, week[schedule.Saturday], 3)
}

func TestParseMarkdownWeek_EnDashRange(t *testing.T) {
	raw := `| Monday |
| --- |
| 9:00AM–10:00AM FAMILY SWIM |
`

	week, err := ParseMarkdownWeek(raw)
	require.NoError(t, err)
	require.Len(t, week[schedule.Monday], 1)
	assert.Equal(t, schedule.Clock(9*60), week[schedule.Monday][0].Start)
}

func TestParseMarkdownWeek_NoTable(t *testing.T) {
	_, err := ParseMarkdownWeek("Sorry, I could not read the document.")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "no markdown table")
}

func TestParseMarkdownWeek_NoWeekdayHeader(t *testing.T) {
	raw := `| Time | Activity |
| --- | --- |
| 9:00AM | Swim |
`

	_, err := ParseMarkdownWeek(raw)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "no weekday columns")
}

func TestParseMarkdownWeek_BadCellRejected(t *testing.T) {
	raw := `| Saturday |
| --- |
| FAMILY SWIM all morning |
`

	_, err := ParseMarkdownWeek(raw)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.NotEmpty(t, perr.Fragment)
}
