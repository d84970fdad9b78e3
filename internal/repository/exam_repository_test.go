package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/scheduler-api/internal/models"
)

func examRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "exam_type", "class_ids", "start_date", "end_date", "status", "published_to_students", "published_to_parents", "created_at", "updated_at"}).
		AddRow("exam-1", "Midterm", "MIDTERM", pq.StringArray{"class-10a"}, now, now.AddDate(0, 0, 4), "DRAFT", false, false, now, now)
}

func TestExamRepositoryListFiltersByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM exams WHERE 1=1 AND status = $1 ORDER BY start_date DESC LIMIT 20 OFFSET 0")).
		WithArgs("DRAFT").
		WillReturnRows(examRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM exams WHERE 1=1 AND status = $1")).
		WithArgs("DRAFT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exams, total, err := repo.List(context.Background(), models.ExamFilter{Status: "draft"})
	require.NoError(t, err)
	require.Len(t, exams, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, models.ExamStatusDraft, exams[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exams")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	exam := models.Exam{
		Name:      "Midterm",
		ExamType:  "MIDTERM",
		ClassIDs:  pq.StringArray{"class-10a"},
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, 4),
		Status:    models.ExamStatusDraft,
	}
	require.NoError(t, repo.Create(context.Background(), &exam))
	assert.NotEmpty(t, exam.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryDeleteWithEntriesCascades(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM exam_schedule_entries WHERE exam_id = $1")).
		WithArgs("exam-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM exams WHERE id = $1")).
		WithArgs("exam-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteWithEntries(context.Background(), "exam-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryDeleteWithEntriesRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM exam_schedule_entries WHERE exam_id = $1")).
		WithArgs("exam-1").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	require.Error(t, repo.DeleteWithEntries(context.Background(), "exam-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositorySetPublishedFlags(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE exams SET published_to_students = $2, published_to_parents = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("exam-1", true, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetPublishedFlags(context.Background(), "exam-1", true, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE exams SET status = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("exam-1", models.ExamStatusScheduled, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "exam-1", models.ExamStatusScheduled))
	assert.NoError(t, mock.ExpectationsWereMet())
}
