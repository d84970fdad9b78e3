package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/scheduler-api/internal/models"
	appErrors "github.com/campushq/scheduler-api/pkg/errors"
)

func newExportFixture(t *testing.T, entries ...models.TimetableEntry) *ExportService {
	t.Helper()
	repo := &timetableRepoStub{entries: entries}
	timetable := NewTimetableService(repo, newTestGrid(t), nil, nil, nil, nil)
	return NewExportService(timetable, nil)
}

func TestExportClassWeekCSV(t *testing.T) {
	friday := mondayP1("e2", "class-10a", "teacher-2", "room-2")
	friday.DayOfWeek = models.Friday
	svc := newExportFixture(t,
		friday,
		mondayP1("e1", "class-10a", "teacher-1", "room-1"),
	)

	result, err := svc.ExportClassWeek(context.Background(), "class-10a", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "timetable-class-10a.csv", result.Filename)

	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Day,Period,Time,Subject,Teacher,Room", strings.TrimSpace(lines[0]))
	// Rows come out in week order regardless of input order.
	assert.Contains(t, lines[1], "MONDAY")
	assert.Contains(t, lines[2], "FRIDAY")
}

func TestExportClassWeekPDF(t *testing.T) {
	svc := newExportFixture(t, mondayP1("e1", "class-10a", "teacher-1", "room-1"))

	result, err := svc.ExportClassWeek(context.Background(), "class-10a", FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Content, []byte("%PDF")))
}

func TestExportClassWeekUnknownFormat(t *testing.T) {
	svc := newExportFixture(t)
	_, err := svc.ExportClassWeek(context.Background(), "class-10a", ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	format, err = ParseExportFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, format)

	_, err = ParseExportFormat("xlsx")
	require.Error(t, err)
}
