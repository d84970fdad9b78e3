package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/scheduler-api/internal/models"
	"github.com/campushq/scheduler-api/internal/service"
)

type examScheduleRepoFake struct {
	entries []models.ExamScheduleEntry
}

func (f *examScheduleRepoFake) ListByExam(ctx context.Context, examID string) ([]models.ExamScheduleEntry, error) {
	var out []models.ExamScheduleEntry
	for _, e := range f.entries {
		if e.ExamID == examID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *examScheduleRepoFake) FindByID(ctx context.Context, id string) (*models.ExamScheduleEntry, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			entry := f.entries[i]
			return &entry, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *examScheduleRepoFake) FindByDate(ctx context.Context, date time.Time) ([]models.ExamScheduleEntry, error) {
	var out []models.ExamScheduleEntry
	for _, e := range f.entries {
		if models.SameDate(e.Date, date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *examScheduleRepoFake) Create(ctx context.Context, entry *models.ExamScheduleEntry) error {
	entry.ID = fmt.Sprintf("entry-%d", len(f.entries)+1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *examScheduleRepoFake) Update(ctx context.Context, entry *models.ExamScheduleEntry) error {
	return nil
}

func (f *examScheduleRepoFake) Delete(ctx context.Context, id string) error {
	return nil
}

type examResolverFake struct {
	exam models.Exam
}

func (f *examResolverFake) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	if f.exam.ID == id {
		exam := f.exam
		return &exam, nil
	}
	return nil, sql.ErrNoRows
}

func (f *examResolverFake) UpdateStatus(ctx context.Context, id string, status models.ExamStatus) error {
	f.exam.Status = status
	return nil
}

func newExamScheduleFixture(entries ...models.ExamScheduleEntry) *ExamScheduleHandler {
	repo := &examScheduleRepoFake{entries: entries}
	resolver := &examResolverFake{exam: scheduledExam()}
	svc := service.NewExamScheduleService(repo, resolver, 30, 300, nil, nil, nil)
	return NewExamScheduleHandler(svc)
}

func committedExamEntry() models.ExamScheduleEntry {
	return models.ExamScheduleEntry{
		ID:           "entry-1",
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
}

func examEntryPayload(classID, roomID, supervisorID, start, end string) []byte {
	payload, _ := json.Marshal(service.ExamEntryRequest{
		ExamID:       "exam-1",
		ClassID:      classID,
		SubjectID:    "subj-math",
		RoomID:       roomID,
		SupervisorID: supervisorID,
		Date:         "2026-03-03",
		StartTime:    start,
		EndTime:      end,
		MaxMarks:     100,
	})
	return payload
}

func TestExamScheduleHandlerCreateReturns201(t *testing.T) {
	handler := newExamScheduleFixture()
	c, w := postContext(t, "/exam-entries", examEntryPayload("class-10a", "room-1", "teacher-1", "09:00", "11:00"))

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Data models.ExamScheduleEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.ID)
}

func TestExamScheduleHandlerCreateConflictReturns409(t *testing.T) {
	handler := newExamScheduleFixture(committedExamEntry())
	c, w := postContext(t, "/exam-entries", examEntryPayload("class-10b", "room-1", "teacher-2", "10:00", "12:00"))

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Conflicts []models.ExamScheduleConflict `json:"conflicts"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "CONFLICT", body.Error.Code)
	require.Len(t, body.Error.Details.Conflicts, 1)
	assert.Equal(t, models.ResourceRoom, body.Error.Details.Conflicts[0].Resource)
}

func TestExamScheduleHandlerValidateReportsConflicts(t *testing.T) {
	handler := newExamScheduleFixture(committedExamEntry())
	c, w := postContext(t, "/exam-entries/validate", examEntryPayload("class-10b", "room-2", "teacher-1", "10:30", "12:00"))

	handler.Validate(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Conflicts []models.ExamScheduleConflict `json:"conflicts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Conflicts, 1)
	assert.Equal(t, models.ResourceTeacher, body.Data.Conflicts[0].Resource)
}

func TestExamScheduleHandlerValidateDateOutsideWindow(t *testing.T) {
	handler := newExamScheduleFixture()
	payload, _ := json.Marshal(service.ExamEntryRequest{
		ExamID:       "exam-1",
		ClassID:      "class-10a",
		SubjectID:    "subj-math",
		RoomID:       "room-1",
		SupervisorID: "teacher-1",
		Date:         "2026-03-09",
		StartTime:    "09:00",
		EndTime:      "11:00",
		MaxMarks:     100,
	})
	c, w := postContext(t, "/exam-entries/validate", payload)

	handler.Validate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExamScheduleHandlerListByExam(t *testing.T) {
	handler := newExamScheduleFixture(committedExamEntry())
	c, w := getContext(t, "/exams/exam-1/entries", gin.Param{Key: "id", Value: "exam-1"})

	handler.ListByExam(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "entry-1")
}

func TestExamScheduleHandlerDeleteNotFound(t *testing.T) {
	handler := newExamScheduleFixture()
	c, w := getContext(t, "/exam-entries/missing", gin.Param{Key: "id", Value: "missing"})
	c.Request.Method = http.MethodDelete

	handler.Delete(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
