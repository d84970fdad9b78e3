package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/scheduler-api/internal/models"
	appErrors "github.com/campushq/scheduler-api/pkg/errors"
)

type examRepository interface {
	List(ctx context.Context, filter models.ExamFilter) ([]models.Exam, int, error)
	FindByID(ctx context.Context, id string) (*models.Exam, error)
	Create(ctx context.Context, exam *models.Exam) error
	Update(ctx context.Context, exam *models.Exam) error
	DeleteWithEntries(ctx context.Context, id string) error
	SetPublishedFlags(ctx context.Context, id string, students, parents bool) error
	UpdateStatus(ctx context.Context, id string, status models.ExamStatus) error
}

type examEntryCounter interface {
	CountByExam(ctx context.Context, examID string) (int, error)
}

// CreateExamRequest describes payload for creating an exam.
type CreateExamRequest struct {
	Name      string   `json:"name" validate:"required"`
	ExamType  string   `json:"exam_type" validate:"required"`
	ClassIDs  []string `json:"class_ids" validate:"required,min=1,dive,required"`
	StartDate string   `json:"start_date" validate:"required"`
	EndDate   string   `json:"end_date" validate:"required"`
}

// UpdateExamRequest updates an existing exam. Status may move the exam to a
// terminal phase; terminal exams accept no further updates.
type UpdateExamRequest struct {
	Name      string   `json:"name" validate:"required"`
	ExamType  string   `json:"exam_type" validate:"required"`
	ClassIDs  []string `json:"class_ids" validate:"required,min=1,dive,required"`
	StartDate string   `json:"start_date" validate:"required"`
	EndDate   string   `json:"end_date" validate:"required"`
	Status    string   `json:"status,omitempty"`
}

// PublishExamRequest selects the audience for publication.
type PublishExamRequest struct {
	Audience string `json:"audience" validate:"required"`
}

// ExamService manages the exam lifecycle: CRUD, cascade deletion, publication
// flags and the scheduling progress metric.
type ExamService struct {
	repo         examRepository
	entries      examEntryCounter
	coreSubjects int
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewExamService instantiates ExamService.
func NewExamService(repo examRepository, entries examEntryCounter, coreSubjects int, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if coreSubjects < 1 {
		coreSubjects = 1
	}
	return &ExamService{repo: repo, entries: entries, coreSubjects: coreSubjects, validator: validate, logger: logger}
}

// List returns exams with pagination metadata.
func (s *ExamService) List(ctx context.Context, filter models.ExamFilter) ([]models.Exam, *models.Pagination, error) {
	exams, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exams")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return exams, pagination, nil
}

// Get loads one exam.
func (s *ExamService) Get(ctx context.Context, id string) (*models.Exam, error) {
	exam, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	return exam, nil
}

// Create registers a new exam in DRAFT status.
func (s *ExamService) Create(ctx context.Context, req CreateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}
	start, end, err := parseExamWindow(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	exam := models.Exam{
		Name:      req.Name,
		ExamType:  req.ExamType,
		ClassIDs:  req.ClassIDs,
		StartDate: start,
		EndDate:   end,
		Status:    models.ExamStatusDraft,
	}
	if err := s.repo.Create(ctx, &exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam")
	}
	return &exam, nil
}

// Update modifies an exam. Terminal exams are immutable.
func (s *ExamService) Update(ctx context.Context, id string, req UpdateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}
	start, end, err := parseExamWindow(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrFinalized, "exam is "+string(existing.Status)+" and cannot be modified")
	}

	status := existing.Status
	if req.Status != "" {
		status = models.ExamStatus(req.Status)
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown exam status")
		}
	}

	updated := models.Exam{
		ID:                  existing.ID,
		Name:                req.Name,
		ExamType:            req.ExamType,
		ClassIDs:            req.ClassIDs,
		StartDate:           start,
		EndDate:             end,
		Status:              status,
		PublishedToStudents: existing.PublishedToStudents,
		PublishedToParents:  existing.PublishedToParents,
		CreatedAt:           existing.CreatedAt,
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update exam")
	}
	return &updated, nil
}

// Delete removes the exam and cascades to every schedule entry it owns.
func (s *ExamService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteWithEntries(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete exam")
	}
	return nil
}

// Publish sets the publication flag for the requested audience. The operation
// is additive and idempotent; "both" sets both flags in one write. Terminal
// exams cannot be published.
func (s *ExamService) Publish(ctx context.Context, id string, req PublishExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid publish payload")
	}
	audience := models.PublishAudience(req.Audience)
	if !audience.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "audience must be students, parents or both")
	}

	exam, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if exam.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrFinalized, "exam is "+string(exam.Status)+" and cannot be published")
	}

	students := exam.PublishedToStudents || audience == models.AudienceStudents || audience == models.AudienceBoth
	parents := exam.PublishedToParents || audience == models.AudienceParents || audience == models.AudienceBoth

	if students != exam.PublishedToStudents || parents != exam.PublishedToParents {
		if err := s.repo.SetPublishedFlags(ctx, id, students, parents); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish exam")
		}
	}
	exam.PublishedToStudents = students
	exam.PublishedToParents = parents
	return exam, nil
}

// Progress returns the scheduling completeness ratio for an exam:
// committed entries over expected slots (classes x core subjects).
func (s *ExamService) Progress(ctx context.Context, id string) (*models.ExamProgress, error) {
	exam, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.entries.CountByExam(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count exam entries")
	}

	expected := len(exam.ClassIDs) * s.coreSubjects
	progress := &models.ExamProgress{ExamID: id, ScheduledCount: count, ExpectedSlots: expected}
	if expected > 0 {
		progress.Ratio = float64(count) / float64(expected)
	}
	return progress, nil
}

func parseExamWindow(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid start date, expected YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid end date, expected YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end date must not precede start date")
	}
	return start, end, nil
}
