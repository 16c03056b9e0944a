package schedule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input  string
		want   Weekday
		wantOK bool
	}{
		{input: "Saturday", want: Saturday, wantOK: true},
		{input: "MONDAY", want: Monday, wantOK: true},
		{input: " tue ", want: Tuesday, wantOK: true},
		{input: "Thurs", want: Thursday, wantOK: true},
		{input: "Sun", want: Sunday, wantOK: true},
		{input: "Weds", wantOK: false},
		{input: "Time", wantOK: false},
		{input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseWeekday(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestWeekdays_SaturdayFirstOrder(t *testing.T) {
	days := Weekdays()
	require.Len(t, days, 7)
	assert.Equal(t, Saturday, days[0])
	assert.Equal(t, Friday, days[6])
}

func TestTimeSlotJSON(t *testing.T) {
	slot := TimeSlot{Start: 9 * 60, End: 12 * 60, Note: NoteFamilySwim}

	data, err := json.Marshal(slot)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"9:00AM","end":"12:00PM","note":"Family Swim"}`, string(data))

	var decoded TimeSlot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, slot, decoded)
}

func TestTimeSlotJSON_NoonAccepted(t *testing.T) {
	var slot TimeSlot
	err := json.Unmarshal([]byte(`{"start":"11:00AM","end":"NOON","note":"Family Swim"}`), &slot)
	require.NoError(t, err)
	assert.Equal(t, Clock(12*60), slot.End)
}

func TestTimeSlotJSON_BadClockRejected(t *testing.T) {
	var slot TimeSlot
	err := json.Unmarshal([]byte(`{"start":"nineish","end":"10:00AM","note":"Family Swim"}`), &slot)
	assert.Error(t, err)
}

func TestTimeSlotOverlaps(t *testing.T) {
	a := TimeSlot{Start: 9 * 60, End: 11 * 60}
	assert.True(t, a.Overlaps(TimeSlot{Start: 10 * 60, End: 12 * 60}))
	assert.False(t, a.Overlaps(TimeSlot{Start: 11 * 60, End: 12 * 60}))
	assert.False(t, a.Overlaps(TimeSlot{Start: 7 * 60, End: 9 * 60}))
}

func TestWeekScheduleComplete(t *testing.T) {
	week := make(WeekSchedule)
	assert.False(t, week.Complete())

	for _, day := range Weekdays() {
		week[day] = DaySchedule{}
	}
	assert.True(t, week.Complete())

	delete(week, Sunday)
	assert.False(t, week.Complete())
}
