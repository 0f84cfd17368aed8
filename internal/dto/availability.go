package dto

// ReplaceAvailabilityRequest replaces a professor's whole availability grid.
// Keys are "{DAY}-{HH:MM}" slot keys; only true entries become slots.
// Preferences attaches a subject id to an available slot key.
type ReplaceAvailabilityRequest struct {
	ProfessorID  FlexID            `json:"professorId"`
	Availability map[string]bool   `json:"availability"`
	Preferences  map[string]FlexID `json:"preferences,omitempty"`
}
