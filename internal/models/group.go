package models

import "time"

// Group is a scheduled course section: one subject, one professor, one
// classroom (optional), one cycle, with one or more weekly meetings.
type Group struct {
	ID          int64          `db:"id" json:"id"`
	SubjectID   int64          `db:"subject_id" json:"subject_id"`
	ProfessorID int64          `db:"professor_id" json:"professor_id"`
	ClassroomID *int64         `db:"classroom_id" json:"classroom_id,omitempty"`
	CycleID     int64          `db:"cycle_id" json:"cycle_id"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
	Meetings    []GroupMeeting `db:"-" json:"meetings,omitempty"`
}

// GroupMeeting is one persisted weekly meeting row of a group.
type GroupMeeting struct {
	ID          string    `db:"id" json:"id"`
	GroupID     int64     `db:"group_id" json:"group_id"`
	DayOfWeek   string    `db:"day_of_week" json:"day_of_week"`
	StartMinute int       `db:"start_minute" json:"start_minute"`
	EndMinute   int       `db:"end_minute" json:"end_minute"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Block converts the meeting row back into a derived meeting block.
func (m GroupMeeting) Block(subjectID int64) MeetingBlock {
	return MeetingBlock{
		DayOfWeek:   m.DayOfWeek,
		StartMinute: m.StartMinute,
		EndMinute:   m.EndMinute,
		SubjectID:   subjectID,
	}
}

// GroupOccupancy is a flattened meeting row joined with its owning group,
// used when scanning a cycle for collisions.
type GroupOccupancy struct {
	GroupID     int64  `db:"group_id" json:"group_id"`
	SubjectID   int64  `db:"subject_id" json:"subject_id"`
	ProfessorID int64  `db:"professor_id" json:"professor_id"`
	ClassroomID *int64 `db:"classroom_id" json:"classroom_id,omitempty"`
	DayOfWeek   string `db:"day_of_week" json:"day_of_week"`
	StartMinute int    `db:"start_minute" json:"start_minute"`
	EndMinute   int    `db:"end_minute" json:"end_minute"`
}

// Conflict dimensions.
const (
	ConflictProfessor = "PROFESSOR"
	ConflictClassroom = "CLASSROOM"
)

// GroupConflict identifies which candidate block collides with which
// existing group occupancy, and on which dimension.
type GroupConflict struct {
	Dimension string         `json:"dimension"`
	GroupID   int64          `json:"group_id"`
	Block     MeetingBlock   `json:"block"`
	Existing  GroupOccupancy `json:"existing"`
}

// GroupConflictError is returned when a candidate group collides with an
// existing one in the same cycle.
type GroupConflictError struct {
	Message  string        `json:"message"`
	Conflict GroupConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *GroupConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
