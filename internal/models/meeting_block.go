package models

// MeetingBlock is a contiguous run of same-subject availability slots merged
// into one class meeting time. It is derived, never persisted on its own.
type MeetingBlock struct {
	DayOfWeek   string `json:"day_of_week"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
	SubjectID   int64  `json:"subject_id"`
}

// Duration returns the block length in minutes.
func (b MeetingBlock) Duration() int {
	return b.EndMinute - b.StartMinute
}

// Overlaps reports whether the block collides with the half-open interval
// [start, end) on the given day. Back-to-back blocks do not overlap.
func (b MeetingBlock) Overlaps(day string, start, end int) bool {
	if b.DayOfWeek != day {
		return false
	}
	return b.StartMinute < end && start < b.EndMinute
}

// Label renders the block as "MON 09:00-10:30" for error messages and logs.
func (b MeetingBlock) Label() string {
	return b.DayOfWeek + " " + MinutesToClock(b.StartMinute) + "-" + MinutesToClock(b.EndMinute)
}
