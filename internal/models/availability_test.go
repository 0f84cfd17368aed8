package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotKey(t *testing.T) {
	day, start, err := ParseSlotKey("MON-09:00")
	require.NoError(t, err)
	assert.Equal(t, "MON", day)
	assert.Equal(t, 540, start)

	day, start, err = ParseSlotKey("fri-15:30")
	require.NoError(t, err)
	assert.Equal(t, "FRI", day)
	assert.Equal(t, 930, start)
}

func TestParseSlotKeyRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"MON",
		"SUN-09:00",
		"MON-09:15",
		"MON-25:00",
		"MON-09:61",
		"MON-nine",
	}
	for _, key := range cases {
		_, _, err := ParseSlotKey(key)
		assert.Error(t, err, "expected %q to be rejected", key)
	}
}

func TestSlotKeyRoundTrip(t *testing.T) {
	key := FormatSlotKey("WED", 690)
	assert.Equal(t, "WED-11:30", key)

	day, start, err := ParseSlotKey(key)
	require.NoError(t, err)
	assert.Equal(t, "WED", day)
	assert.Equal(t, 690, start)
}

func TestClockConversions(t *testing.T) {
	assert.Equal(t, "00:00", MinutesToClock(0))
	assert.Equal(t, "09:30", MinutesToClock(570))

	minutes, err := ClockToMinutes("16:00")
	require.NoError(t, err)
	assert.Equal(t, 960, minutes)

	_, err = ClockToMinutes("24:00")
	assert.Error(t, err)
}

func TestMeetingBlockOverlaps(t *testing.T) {
	block := MeetingBlock{DayOfWeek: "MON", StartMinute: 540, EndMinute: 630, SubjectID: 1}

	assert.True(t, block.Overlaps("MON", 600, 660))
	assert.True(t, block.Overlaps("MON", 500, 541))
	assert.False(t, block.Overlaps("TUE", 540, 630))

	// Half-open intervals: back-to-back meetings are compatible.
	assert.False(t, block.Overlaps("MON", 630, 720))
	assert.False(t, block.Overlaps("MON", 480, 540))
}

func TestMeetingBlockLabel(t *testing.T) {
	block := MeetingBlock{DayOfWeek: "MON", StartMinute: 540, EndMinute: 630}
	assert.Equal(t, "MON 09:00-10:30", block.Label())
	assert.Equal(t, 90, block.Duration())
}
