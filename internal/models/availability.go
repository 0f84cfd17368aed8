package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotMinutes is the granularity of the weekly availability grid.
const SlotMinutes = 30

// Weekdays lists teaching days in week order.
var Weekdays = []string{"MON", "TUE", "WED", "THU", "FRI"}

var weekdayOrder = map[string]int{
	"MON": 0,
	"TUE": 1,
	"WED": 2,
	"THU": 3,
	"FRI": 4,
}

// WeekdayIndex returns the position of a day within the teaching week.
func WeekdayIndex(day string) (int, bool) {
	idx, ok := weekdayOrder[day]
	return idx, ok
}

// AvailabilitySlot is a single 30-minute cell in a professor's declared
// weekly availability grid. SubjectID carries the professor's subject
// preference for the slot; nil means available but unassigned.
type AvailabilitySlot struct {
	ID          int64     `db:"id" json:"id"`
	ProfessorID int64     `db:"professor_id" json:"professor_id"`
	DayOfWeek   string    `db:"day_of_week" json:"day_of_week"`
	StartMinute int       `db:"start_minute" json:"start_minute"`
	EndMinute   int       `db:"end_minute" json:"end_minute"`
	SubjectID   *int64    `db:"subject_id" json:"subject_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Key renders the slot's wire identity, e.g. "MON-09:00".
func (s AvailabilitySlot) Key() string {
	return FormatSlotKey(s.DayOfWeek, s.StartMinute)
}

// FormatSlotKey builds the "{DAY}-{HH:MM}" wire key for a slot.
func FormatSlotKey(day string, startMinute int) string {
	return fmt.Sprintf("%s-%s", day, MinutesToClock(startMinute))
}

// ParseSlotKey splits a "{DAY}-{HH:MM}" key into its day and start minute.
// Start times must sit on a 30-minute boundary.
func ParseSlotKey(key string) (string, int, error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("malformed slot key %q", key)
	}
	day := strings.ToUpper(strings.TrimSpace(parts[0]))
	if _, ok := weekdayOrder[day]; !ok {
		return "", 0, fmt.Errorf("unknown day in slot key %q", key)
	}
	minute, err := ClockToMinutes(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("malformed time in slot key %q: %w", key, err)
	}
	if minute%SlotMinutes != 0 {
		return "", 0, fmt.Errorf("slot key %q not on a %d-minute boundary", key, SlotMinutes)
	}
	return day, minute, nil
}

// MinutesToClock renders minutes since midnight as "HH:MM".
func MinutesToClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ClockToMinutes parses "HH:MM" into minutes since midnight.
func ClockToMinutes(clock string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM, got %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour %q", parts[0])
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute %q", parts[1])
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, fmt.Errorf("time %q out of range", clock)
	}
	return hour*60 + min, nil
}
