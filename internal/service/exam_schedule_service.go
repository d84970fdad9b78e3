package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/scheduler-api/internal/models"
	appErrors "github.com/campushq/scheduler-api/pkg/errors"
)

type examScheduleRepository interface {
	ListByExam(ctx context.Context, examID string) ([]models.ExamScheduleEntry, error)
	FindByID(ctx context.Context, id string) (*models.ExamScheduleEntry, error)
	FindByDate(ctx context.Context, date time.Time) ([]models.ExamScheduleEntry, error)
	Create(ctx context.Context, entry *models.ExamScheduleEntry) error
	Update(ctx context.Context, entry *models.ExamScheduleEntry) error
	Delete(ctx context.Context, id string) error
}

type examResolver interface {
	FindByID(ctx context.Context, id string) (*models.Exam, error)
	UpdateStatus(ctx context.Context, id string, status models.ExamStatus) error
}

// ExamEntryRequest describes a candidate dated assignment. Times are the
// source of truth; duration is derived and bounded, never stored.
type ExamEntryRequest struct {
	ExamID       string `json:"exam_id" validate:"required"`
	ClassID      string `json:"class_id" validate:"required"`
	SubjectID    string `json:"subject_id" validate:"required"`
	RoomID       string `json:"room_id" validate:"required"`
	SupervisorID string `json:"supervisor_id" validate:"required"`
	Date         string `json:"date" validate:"required"`
	StartTime    string `json:"start_time" validate:"required"`
	EndTime      string `json:"end_time" validate:"required"`
	MaxMarks     int    `json:"max_marks" validate:"required,min=1"`
	Instructions string `json:"instructions,omitempty"`
}

// ExamScheduleService coordinates the dated exam scheduler.
type ExamScheduleService struct {
	repo        examScheduleRepository
	exams       examResolver
	minDuration int
	maxDuration int
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger

	// commitMu serialises read-check-write commit sections for the exam
	// domain, independently of the weekly timetable domain.
	commitMu sync.Mutex
}

// NewExamScheduleService instantiates ExamScheduleService.
func NewExamScheduleService(repo examScheduleRepository, exams examResolver, minDuration, maxDuration int, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ExamScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if minDuration <= 0 {
		minDuration = 30
	}
	if maxDuration < minDuration {
		maxDuration = 300
	}
	return &ExamScheduleService{
		repo:        repo,
		exams:       exams,
		minDuration: minDuration,
		maxDuration: maxDuration,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// ListByExam returns an exam's entries ordered by date and start time.
func (s *ExamScheduleService) ListByExam(ctx context.Context, examID string) ([]models.ExamScheduleEntry, error) {
	entries, err := s.repo.ListByExam(ctx, examID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exam entries")
	}
	return entries, nil
}

// Propose validates a candidate and returns its conflicts without committing.
// Resource collisions outrank class membership: a room or supervisor clash is
// reported even when the exam does not cover the candidate's class.
func (s *ExamScheduleService) Propose(ctx context.Context, req ExamEntryRequest, ignoreID string) ([]models.ExamScheduleConflict, error) {
	entry, exam, err := s.buildEntry(ctx, req)
	if err != nil {
		return nil, err
	}
	conflicts, err := s.detectConflicts(ctx, *entry, ignoreID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) == 0 && !exam.HasClass(entry.ClassID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class is not covered by this exam")
	}
	return conflicts, nil
}

// Create commits a conflict-free entry. The first committed entry moves a
// DRAFT exam to SCHEDULED.
func (s *ExamScheduleService) Create(ctx context.Context, req ExamEntryRequest) (*models.ExamScheduleEntry, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	entry, exam, err := s.buildEntry(ctx, req)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.detectConflicts(ctx, *entry, "")
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, s.conflictError(conflicts)
	}
	if !exam.HasClass(entry.ClassID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class is not covered by this exam")
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam entry")
	}

	if exam.Status == models.ExamStatusDraft {
		if err := s.exams.UpdateStatus(ctx, exam.ID, models.ExamStatusScheduled); err != nil {
			s.logger.Warn("failed to mark exam as scheduled", zap.String("exam_id", exam.ID), zap.Error(err))
		}
	}
	return entry, nil
}

// Update modifies an existing entry, excluding it from its own conflict scan.
func (s *ExamScheduleService) Update(ctx context.Context, id string, req ExamEntryRequest) (*models.ExamScheduleEntry, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam entry")
	}

	entry, exam, err := s.buildEntry(ctx, req)
	if err != nil {
		return nil, err
	}
	entry.ID = existing.ID
	entry.CreatedAt = existing.CreatedAt

	conflicts, err := s.detectConflicts(ctx, *entry, existing.ID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, s.conflictError(conflicts)
	}
	if !exam.HasClass(entry.ClassID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class is not covered by this exam")
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update exam entry")
	}
	return entry, nil
}

// Delete removes a single entry.
func (s *ExamScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "exam entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete exam entry")
	}
	return nil
}

// buildEntry runs structural and domain validation: well-formed date and
// times, duration bounds, exam existence and the exam window. Class
// membership is deliberately not checked here; it is enforced after the
// conflict scan so collisions are never masked by a membership error.
func (s *ExamScheduleService) buildEntry(ctx context.Context, req ExamEntryRequest) (*models.ExamScheduleEntry, *models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam entry payload")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}
	start, err := models.MinutesOfDay(req.StartTime)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid start time, expected HH:MM")
	}
	end, err := models.MinutesOfDay(req.EndTime)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid end time, expected HH:MM")
	}
	if end <= start {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "end time must be after start time")
	}
	duration := end - start
	if duration < s.minDuration || duration > s.maxDuration {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("exam duration must be between %d and %d minutes", s.minDuration, s.maxDuration))
	}

	exam, err := s.exams.FindByID(ctx, req.ExamID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	if exam.Status.Terminal() {
		return nil, nil, appErrors.Clone(appErrors.ErrFinalized, "exam is "+string(exam.Status)+" and its schedule cannot change")
	}
	if !exam.ContainsDate(date) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "date falls outside the exam window")
	}

	return &models.ExamScheduleEntry{
		ExamID:       req.ExamID,
		ClassID:      req.ClassID,
		SubjectID:    req.SubjectID,
		RoomID:       req.RoomID,
		SupervisorID: req.SupervisorID,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		MaxMarks:     req.MaxMarks,
		Instructions: req.Instructions,
	}, exam, nil
}

// detectConflicts scans same-date entries for overlapping windows sharing a
// resource. The supervisor occupies the teacher resource. Window bounds are
// half-open: entries that merely touch do not conflict.
func (s *ExamScheduleService) detectConflicts(ctx context.Context, candidate models.ExamScheduleEntry, ignoreID string) ([]models.ExamScheduleConflict, error) {
	start := time.Now()
	sameDay, err := s.repo.FindByDate(ctx, candidate.Date)
	s.metrics.ObserveDBQuery("exam_entries_find_by_date", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check exam conflicts")
	}

	candStart, _ := models.MinutesOfDay(candidate.StartTime)
	candEnd, _ := models.MinutesOfDay(candidate.EndTime)
	usage := resourceUsage{
		models.ResourceTeacher: candidate.SupervisorID,
		models.ResourceRoom:    candidate.RoomID,
		models.ResourceClass:   candidate.ClassID,
	}

	var conflicts []models.ExamScheduleConflict
	for _, existing := range sameDay {
		if ignoreID != "" && existing.ID == ignoreID {
			continue
		}
		exStart, err := models.MinutesOfDay(existing.StartTime)
		if err != nil {
			continue
		}
		exEnd, err := models.MinutesOfDay(existing.EndTime)
		if err != nil {
			continue
		}
		if !models.OverlapsDated(candidate.Date, candStart, candEnd, existing.Date, exStart, exEnd) {
			continue
		}
		shared := sharedResources(usage, resourceUsage{
			models.ResourceTeacher: existing.SupervisorID,
			models.ResourceRoom:    existing.RoomID,
			models.ResourceClass:   existing.ClassID,
		})
		for _, kind := range shared {
			s.metrics.RecordConflict("exam_schedule", kind)
			conflicts = append(conflicts, models.ExamScheduleConflict{
				Resource: kind,
				Message:  conflictMessage(kind),
				Entry:    existing,
			})
		}
	}
	return conflicts, nil
}

func (s *ExamScheduleService) conflictError(conflicts []models.ExamScheduleConflict) error {
	domainErr := &models.ExamScheduleConflictError{
		Message:   "exam schedule conflicts detected",
		Conflicts: conflicts,
	}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, domainErr.Message)
}
