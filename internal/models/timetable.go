package models

import "time"

// ResourceKind names a resource that can be double-booked within one slot.
type ResourceKind string

const (
	ResourceTeacher ResourceKind = "TEACHER"
	ResourceRoom    ResourceKind = "ROOM"
	ResourceClass   ResourceKind = "CLASS"
)

// TimetableEntry binds a class, subject, teacher and room to one recurring
// weekly slot. Start and end times are derived from the shared period grid at
// commit time.
type TimetableEntry struct {
	ID        string    `db:"id" json:"id"`
	TermID    string    `db:"term_id" json:"term_id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	RoomID    string    `db:"room_id" json:"room_id"`
	DayOfWeek DayOfWeek `db:"day_of_week" json:"day_of_week"`
	Period    int       `db:"period" json:"period"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TimetableFilter describes query params for listing timetable entries.
type TimetableFilter struct {
	TermID    string
	ClassID   string
	TeacherID string
	RoomID    string
	DayOfWeek string
	Period    int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// TimetableConflict reports one resource collision against an existing entry.
// A single existing entry can yield several conflicts, one per shared resource.
type TimetableConflict struct {
	Resource ResourceKind   `json:"resource"`
	Message  string         `json:"message"`
	Entry    TimetableEntry `json:"entry"`
}

// TimetableConflictError is returned when a candidate collides with committed
// entries. It carries the full ordered conflict list.
type TimetableConflictError struct {
	Message   string              `json:"message"`
	Conflicts []TimetableConflict `json:"conflicts"`
}

// Error implements the error interface for conflict errors.
func (e *TimetableConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// CopyWeekResult summarises a class-to-class timetable copy. Conflicting
// clones are skipped and reported, never committed.
type CopyWeekResult struct {
	Created []TimetableEntry    `json:"created"`
	Skipped []TimetableConflict `json:"skipped,omitempty"`
}
