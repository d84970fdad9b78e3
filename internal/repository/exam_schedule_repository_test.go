package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/scheduler-api/internal/models"
)

func examEntryRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "exam_id", "class_id", "subject_id", "room_id", "supervisor_id", "exam_date", "start_time", "end_time", "max_marks", "instructions", "created_at", "updated_at"}).
		AddRow("entry-1", "exam-1", "class-10a", "subj-math", "room-1", "teacher-1", now, "09:00", "11:00", 100, "", now, now)
}

func TestExamScheduleRepositoryListByExam(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM exam_schedule_entries WHERE exam_id = $1 ORDER BY exam_date ASC, start_time ASC")).
		WithArgs("exam-1").
		WillReturnRows(examEntryRows())

	entries, err := repo.ListByExam(context.Background(), "exam-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "entry-1", entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamScheduleRepositoryFindByDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamScheduleRepository(db)

	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM exam_schedule_entries WHERE exam_date = $1")).
		WithArgs(date).
		WillReturnRows(examEntryRows())

	entries, err := repo.FindByDate(context.Background(), date)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamScheduleRepositoryCountByExam(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM exam_schedule_entries WHERE exam_id = $1")).
		WithArgs("exam-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountByExam(context.Background(), "exam-1")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamScheduleRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exam_schedule_entries")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := models.ExamScheduleEntry{
		ExamID:       "exam-1",
		ClassID:      "class-10a",
		SubjectID:    "subj-math",
		RoomID:       "room-1",
		SupervisorID: "teacher-1",
		Date:         time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:    "09:00",
		EndTime:      "11:00",
		MaxMarks:     100,
	}
	require.NoError(t, repo.Create(context.Background(), &entry))
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamScheduleRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM exam_schedule_entries WHERE id = $1")).
		WithArgs("entry-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "entry-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
