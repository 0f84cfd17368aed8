package models

import "time"

// Professor represents an instructor record. Subjects is the free-text list
// of subject names the professor is qualified to teach, maintained by admin
// tooling outside this service.
type Professor struct {
	ID        int64     `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Subjects  *string   `db:"subjects" json:"subjects,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProfessorFilter captures filtering options for listing professors.
type ProfessorFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
