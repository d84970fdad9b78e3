package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExamStatusTerminal(t *testing.T) {
	assert.False(t, ExamStatusDraft.Terminal())
	assert.False(t, ExamStatusScheduled.Terminal())
	assert.True(t, ExamStatusCompleted.Terminal())
	assert.True(t, ExamStatusCancelled.Terminal())
	assert.False(t, ExamStatus("ARCHIVED").Valid())
}

func TestExamContainsDate(t *testing.T) {
	exam := Exam{
		StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
	}

	// Window bounds are inclusive.
	assert.True(t, exam.ContainsDate(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
	assert.True(t, exam.ContainsDate(time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)))
	assert.True(t, exam.ContainsDate(time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)))
	assert.False(t, exam.ContainsDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, exam.ContainsDate(time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)))
}

func TestExamHasClass(t *testing.T) {
	exam := Exam{ClassIDs: []string{"class-10a", "class-10b"}}
	assert.True(t, exam.HasClass("class-10b"))
	assert.False(t, exam.HasClass("class-11c"))
}

func TestExamScheduleEntryDurationMinutes(t *testing.T) {
	entry := ExamScheduleEntry{StartTime: "09:00", EndTime: "11:00"}
	assert.Equal(t, 120, entry.DurationMinutes())

	broken := ExamScheduleEntry{StartTime: "bad", EndTime: "11:00"}
	assert.Equal(t, 0, broken.DurationMinutes())
}

func TestPublishAudienceValid(t *testing.T) {
	assert.True(t, AudienceStudents.Valid())
	assert.True(t, AudienceBoth.Valid())
	assert.False(t, PublishAudience("everyone").Valid())
}
