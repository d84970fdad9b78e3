package models

import (
	"time"

	"github.com/lib/pq"
)

// ExamStatus represents lifecycle phases for an exam.
type ExamStatus string

const (
	ExamStatusDraft     ExamStatus = "DRAFT"
	ExamStatusScheduled ExamStatus = "SCHEDULED"
	ExamStatusCompleted ExamStatus = "COMPLETED"
	ExamStatusCancelled ExamStatus = "CANCELLED"
)

// Valid reports whether the status is a known lifecycle phase.
func (s ExamStatus) Valid() bool {
	switch s {
	case ExamStatusDraft, ExamStatusScheduled, ExamStatusCompleted, ExamStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further schedule changes.
func (s ExamStatus) Terminal() bool {
	return s == ExamStatusCompleted || s == ExamStatusCancelled
}

// PublishAudience selects who an exam schedule is published to.
type PublishAudience string

const (
	AudienceStudents PublishAudience = "students"
	AudienceParents  PublishAudience = "parents"
	AudienceBoth     PublishAudience = "both"
)

// Valid reports whether the audience is recognised.
func (a PublishAudience) Valid() bool {
	return a == AudienceStudents || a == AudienceParents || a == AudienceBoth
}

// Exam groups schedule entries inside a bounded date window.
type Exam struct {
	ID                  string         `db:"id" json:"id"`
	Name                string         `db:"name" json:"name"`
	ExamType            string         `db:"exam_type" json:"exam_type"`
	ClassIDs            pq.StringArray `db:"class_ids" json:"class_ids"`
	StartDate           time.Time      `db:"start_date" json:"start_date"`
	EndDate             time.Time      `db:"end_date" json:"end_date"`
	Status              ExamStatus     `db:"status" json:"status"`
	PublishedToStudents bool           `db:"published_to_students" json:"published_to_students"`
	PublishedToParents  bool           `db:"published_to_parents" json:"published_to_parents"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}

// HasClass reports whether the exam covers the given class.
func (e *Exam) HasClass(classID string) bool {
	for _, id := range e.ClassIDs {
		if id == classID {
			return true
		}
	}
	return false
}

// ContainsDate reports whether the date falls inside the exam window,
// inclusive on both bounds.
func (e *Exam) ContainsDate(d time.Time) bool {
	day := d.Truncate(24 * time.Hour)
	start := e.StartDate.Truncate(24 * time.Hour)
	end := e.EndDate.Truncate(24 * time.Hour)
	return !day.Before(start) && !day.After(end)
}

// ExamFilter narrows down exam listings.
type ExamFilter struct {
	Status   string
	ExamType string
	Page     int
	PageSize int
}

// ExamScheduleEntry binds a class, subject, room and supervisor to one dated
// window within the parent exam. Times are authoritative; duration is derived.
type ExamScheduleEntry struct {
	ID           string    `db:"id" json:"id"`
	ExamID       string    `db:"exam_id" json:"exam_id"`
	ClassID      string    `db:"class_id" json:"class_id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	RoomID       string    `db:"room_id" json:"room_id"`
	SupervisorID string    `db:"supervisor_id" json:"supervisor_id"`
	Date         time.Time `db:"exam_date" json:"date"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	MaxMarks     int       `db:"max_marks" json:"max_marks"`
	Instructions string    `db:"instructions" json:"instructions,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DurationMinutes derives the entry duration from its times.
func (e *ExamScheduleEntry) DurationMinutes() int {
	d, err := DurationMinutes(e.StartTime, e.EndTime)
	if err != nil {
		return 0
	}
	return d
}

// ExamScheduleConflict reports one resource collision against an existing
// exam schedule entry.
type ExamScheduleConflict struct {
	Resource ResourceKind      `json:"resource"`
	Message  string            `json:"message"`
	Entry    ExamScheduleEntry `json:"entry"`
}

// ExamScheduleConflictError carries the full conflict list for a rejected
// exam schedule candidate.
type ExamScheduleConflictError struct {
	Message   string                 `json:"message"`
	Conflicts []ExamScheduleConflict `json:"conflicts"`
}

// Error implements the error interface for conflict errors.
func (e *ExamScheduleConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// ExamProgress is a display-only scheduling completeness ratio.
type ExamProgress struct {
	ExamID         string  `json:"exam_id"`
	ScheduledCount int     `json:"scheduled_count"`
	ExpectedSlots  int     `json:"expected_slots"`
	Ratio          float64 `json:"ratio"`
}
