package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/scheduler-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func timetableRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "term_id", "class_id", "subject_id", "teacher_id", "room_id", "day_of_week", "period", "start_time", "end_time", "created_at", "updated_at"}).
		AddRow("entry-1", "term-1", "class-10a", "subj-math", "teacher-1", "room-1", "MONDAY", 1, "09:00", "09:40", now, now)
}

func TestTimetableRepositoryFindBySlot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_entries WHERE term_id = $1 AND day_of_week = $2 AND period = $3")).
		WithArgs("term-1", "MONDAY", 1).
		WillReturnRows(timetableRows())

	entries, err := repo.FindBySlot(context.Background(), "term-1", models.Monday, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "entry-1", entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_entries WHERE 1=1 AND term_id = $1 AND class_id = $2 ORDER BY day_of_week ASC LIMIT 20 OFFSET 0")).
		WithArgs("term-1", "class-10a").
		WillReturnRows(timetableRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM timetable_entries WHERE 1=1 AND term_id = $1 AND class_id = $2")).
		WithArgs("term-1", "class-10a").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	entries, total, err := repo.List(context.Background(), models.TimetableFilter{TermID: "term-1", ClassID: "class-10a"})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListRejectsUnknownSortColumn(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	// Unknown sort columns fall back to day_of_week instead of reaching SQL.
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY day_of_week ASC")).
		WillReturnRows(timetableRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, _, err := repo.List(context.Background(), models.TimetableFilter{SortBy: "teacher_id; DROP TABLE"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_entries")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := models.TimetableEntry{
		TermID:    "term-1",
		ClassID:   "class-10a",
		SubjectID: "subj-math",
		TeacherID: "teacher-1",
		RoomID:    "room-1",
		DayOfWeek: models.Monday,
		Period:    1,
		StartTime: "09:00",
		EndTime:   "09:40",
	}
	require.NoError(t, repo.Create(context.Background(), &entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryBulkCreateRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_entries")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_entries")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	entries := []models.TimetableEntry{
		{TermID: "term-1", ClassID: "class-10a", SubjectID: "s", TeacherID: "t", RoomID: "r", DayOfWeek: models.Monday, Period: 1},
		{TermID: "term-1", ClassID: "class-10a", SubjectID: "s", TeacherID: "t", RoomID: "r", DayOfWeek: models.Tuesday, Period: 1},
	}
	require.Error(t, repo.BulkCreate(context.Background(), entries))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryBulkCreateCommits(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_entries")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entries := []models.TimetableEntry{
		{TermID: "term-1", ClassID: "class-10a", SubjectID: "s", TeacherID: "t", RoomID: "r", DayOfWeek: models.Monday, Period: 1},
	}
	require.NoError(t, repo.BulkCreate(context.Background(), entries))
	assert.NotEmpty(t, entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_entries WHERE id = $1")).
		WithArgs("entry-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "entry-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListByClassOrdersByWeek(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	// Ordering by the raw day_of_week column would sort FRIDAY first; the
	// query must rank days by their position in the week.
	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_entries WHERE class_id = $1 ORDER BY array_position(ARRAY['MONDAY','TUESDAY','WEDNESDAY','THURSDAY','FRIDAY'], day_of_week) ASC, period ASC")).
		WithArgs("class-10a").
		WillReturnRows(timetableRows())

	entries, err := repo.ListByClass(context.Background(), "class-10a")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListByTeacherOrdersByWeek(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_entries WHERE teacher_id = $1 ORDER BY array_position(ARRAY['MONDAY','TUESDAY','WEDNESDAY','THURSDAY','FRIDAY'], day_of_week) ASC, period ASC")).
		WithArgs("teacher-1").
		WillReturnRows(timetableRows())

	entries, err := repo.ListByTeacher(context.Background(), "teacher-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
