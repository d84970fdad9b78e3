package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/campushq/scheduler-api/internal/models"
	appErrors "github.com/campushq/scheduler-api/pkg/errors"
	"github.com/campushq/scheduler-api/pkg/export"
)

// ExportFormat identifies a supported export encoding.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult bundles rendered bytes with response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders class week views as downloadable documents.
type ExportService struct {
	timetable *TimetableService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService instantiates ExportService.
func NewExportService(timetable *TimetableService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		timetable: timetable,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// ExportClassWeek renders the class timetable in the requested format.
func (s *ExportService) ExportClassWeek(ctx context.Context, classID string, format ExportFormat) (*ExportResult, error) {
	entries, _, err := s.timetable.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	dataset := buildWeekDataset(entries)
	switch format {
	case FormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("timetable-%s.csv", classID),
		}, nil
	case FormatPDF:
		content, err := s.pdf.Render(dataset, fmt.Sprintf("Timetable %s", classID))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("timetable-%s.pdf", classID),
		}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
}

// ParseExportFormat normalises a query value into an ExportFormat.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
}

func buildWeekDataset(entries []models.TimetableEntry) export.Dataset {
	sorted := make([]models.TimetableEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].DayOfWeek != sorted[j].DayOfWeek {
			return sorted[i].DayOfWeek.Order() < sorted[j].DayOfWeek.Order()
		}
		return sorted[i].Period < sorted[j].Period
	})

	headers := []string{"Day", "Period", "Time", "Subject", "Teacher", "Room"}
	rows := make([]map[string]string, 0, len(sorted))
	for _, entry := range sorted {
		rows = append(rows, map[string]string{
			"Day":     string(entry.DayOfWeek),
			"Period":  fmt.Sprintf("%d", entry.Period),
			"Time":    fmt.Sprintf("%s-%s", entry.StartTime, entry.EndTime),
			"Subject": entry.SubjectID,
			"Teacher": entry.TeacherID,
			"Room":    entry.RoomID,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
