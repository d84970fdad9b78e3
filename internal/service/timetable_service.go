package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/scheduler-api/internal/models"
	appErrors "github.com/campushq/scheduler-api/pkg/errors"
)

type timetableRepository interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableEntry, int, error)
	ListByClass(ctx context.Context, classID string) ([]models.TimetableEntry, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.TimetableEntry, error)
	FindByID(ctx context.Context, id string) (*models.TimetableEntry, error)
	FindBySlot(ctx context.Context, termID string, day models.DayOfWeek, period int) ([]models.TimetableEntry, error)
	Create(ctx context.Context, entry *models.TimetableEntry) error
	BulkCreate(ctx context.Context, entries []models.TimetableEntry) error
	Update(ctx context.Context, entry *models.TimetableEntry) error
	Delete(ctx context.Context, id string) error
}

// TimetableEntryRequest describes a candidate weekly assignment. The same
// payload serves create, update and validate calls.
type TimetableEntryRequest struct {
	TermID    string `json:"term_id" validate:"required"`
	ClassID   string `json:"class_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
	TeacherID string `json:"teacher_id" validate:"required"`
	RoomID    string `json:"room_id" validate:"required"`
	DayOfWeek string `json:"day_of_week" validate:"required"`
	Period    int    `json:"period" validate:"required,min=1"`
}

// CopyWeekRequest clones one class's week onto another class.
type CopyWeekRequest struct {
	TermID        string `json:"term_id" validate:"required"`
	SourceClassID string `json:"source_class_id" validate:"required"`
	TargetClassID string `json:"target_class_id" validate:"required"`
}

// TimetableService coordinates the recurring weekly scheduler: structural
// validation, conflict detection and committing of entries.
type TimetableService struct {
	repo      timetableRepository
	grid      *models.PeriodGrid
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger

	// commitMu serialises read-check-write commit sections for the weekly
	// domain. Conflict detection itself stays pure.
	commitMu sync.Mutex
}

// NewTimetableService instantiates TimetableService.
func NewTimetableService(repo timetableRepository, grid *models.PeriodGrid, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, grid: grid, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Periods exposes the shared period grid.
func (s *TimetableService) Periods() []models.Period {
	return s.grid.Periods()
}

// List returns timetable entries with pagination metadata.
func (s *TimetableService) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableEntry, *models.Pagination, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
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
	return entries, pagination, nil
}

// ListByClass returns the week view for a class, cached when caching is on.
func (s *TimetableService) ListByClass(ctx context.Context, classID string) ([]models.TimetableEntry, bool, error) {
	key := "timetable:class:" + classID
	var cached []models.TimetableEntry
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	entries, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class timetable")
	}
	_ = s.cache.Set(ctx, key, entries, 0)
	return entries, false, nil
}

// ListByTeacher returns the week view for a teacher, cached when caching is on.
func (s *TimetableService) ListByTeacher(ctx context.Context, teacherID string) ([]models.TimetableEntry, bool, error) {
	key := "timetable:teacher:" + teacherID
	var cached []models.TimetableEntry
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	entries, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher timetable")
	}
	_ = s.cache.Set(ctx, key, entries, 0)
	return entries, false, nil
}

// Propose validates a candidate and returns its conflicts without committing
// anything. An empty list means the candidate may be committed. ignoreID
// excludes the candidate's own record when an update re-checks itself.
func (s *TimetableService) Propose(ctx context.Context, req TimetableEntryRequest, ignoreID string) ([]models.TimetableConflict, error) {
	entry, err := s.buildEntry(req)
	if err != nil {
		return nil, err
	}
	return s.detectConflicts(ctx, *entry, ignoreID)
}

// Create commits a new entry when it is conflict-free.
func (s *TimetableService) Create(ctx context.Context, req TimetableEntryRequest) (*models.TimetableEntry, error) {
	entry, err := s.buildEntry(req)
	if err != nil {
		return nil, err
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	conflicts, err := s.detectConflicts(ctx, *entry, "")
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, s.conflictError(conflicts)
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable entry")
	}
	s.invalidateWeekViews(ctx)
	return entry, nil
}

// Update modifies an existing entry, excluding it from its own conflict scan.
func (s *TimetableService) Update(ctx context.Context, id string, req TimetableEntryRequest) (*models.TimetableEntry, error) {
	entry, err := s.buildEntry(req)
	if err != nil {
		return nil, err
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
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

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable entry")
	}
	s.invalidateWeekViews(ctx)
	return entry, nil
}

// Delete removes an entry. There are no cascading effects.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable entry")
	}
	s.invalidateWeekViews(ctx)
	return nil
}

// CopyWeek clones every source-class entry to the target class at the same
// slot, keeping teacher, room and subject. Clones that would collide are
// skipped and reported; conflict-free clones are committed in one batch.
func (s *TimetableService) CopyWeek(ctx context.Context, req CopyWeekRequest) (*models.CopyWeekResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid copy payload")
	}
	if req.SourceClassID == req.TargetClassID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "source and target class must differ")
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	source, err := s.repo.ListByClass(ctx, req.SourceClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source class timetable")
	}

	result := &models.CopyWeekResult{}
	var toCreate []models.TimetableEntry
	for _, src := range source {
		if src.TermID != req.TermID {
			continue
		}
		clone := src
		clone.ID = ""
		clone.ClassID = req.TargetClassID

		// The clone mirrors its source lesson at the same slot with the same
		// teacher and room, so the source entry is excluded from the scan.
		// Collisions against anything else are still skipped and reported.
		conflicts, err := s.detectConflicts(ctx, clone, src.ID)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			result.Skipped = append(result.Skipped, conflicts...)
			continue
		}
		toCreate = append(toCreate, clone)
	}

	if len(toCreate) > 0 {
		if err := s.repo.BulkCreate(ctx, toCreate); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy timetable entries")
		}
		s.invalidateWeekViews(ctx)
	}
	result.Created = toCreate
	return result, nil
}

// buildEntry runs structural validation and resolves slot times from the grid.
func (s *TimetableService) buildEntry(req TimetableEntryRequest) (*models.TimetableEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}
	day, err := models.ParseDayOfWeek(req.DayOfWeek)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid day of week")
	}
	period, ok := s.grid.Lookup(req.Period)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown period")
	}
	if period.Break {
		return nil, appErrors.Clone(appErrors.ErrValidation, "period is a break and cannot be assigned")
	}

	return &models.TimetableEntry{
		TermID:    req.TermID,
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
		RoomID:    req.RoomID,
		DayOfWeek: day,
		Period:    req.Period,
		StartTime: period.StartTime,
		EndTime:   period.EndTime,
	}, nil
}

// detectConflicts scans committed entries occupying the candidate's slot and
// reports every shared resource. Recurring slots are discrete, so the overlap
// scope is exactly the (term, day, period) bucket.
func (s *TimetableService) detectConflicts(ctx context.Context, candidate models.TimetableEntry, ignoreID string) ([]models.TimetableConflict, error) {
	start := time.Now()
	occupying, err := s.repo.FindBySlot(ctx, candidate.TermID, candidate.DayOfWeek, candidate.Period)
	s.metrics.ObserveDBQuery("timetable_find_by_slot", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check timetable conflicts")
	}

	usage := resourceUsage{
		models.ResourceTeacher: candidate.TeacherID,
		models.ResourceRoom:    candidate.RoomID,
		models.ResourceClass:   candidate.ClassID,
	}

	var conflicts []models.TimetableConflict
	for _, existing := range occupying {
		if ignoreID != "" && existing.ID == ignoreID {
			continue
		}
		shared := sharedResources(usage, resourceUsage{
			models.ResourceTeacher: existing.TeacherID,
			models.ResourceRoom:    existing.RoomID,
			models.ResourceClass:   existing.ClassID,
		})
		for _, kind := range shared {
			s.metrics.RecordConflict("timetable", kind)
			conflicts = append(conflicts, models.TimetableConflict{
				Resource: kind,
				Message:  conflictMessage(kind),
				Entry:    existing,
			})
		}
	}
	return conflicts, nil
}

func (s *TimetableService) conflictError(conflicts []models.TimetableConflict) error {
	domainErr := &models.TimetableConflictError{
		Message:   "timetable conflicts detected",
		Conflicts: conflicts,
	}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, domainErr.Message)
}

func (s *TimetableService) invalidateWeekViews(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "timetable:*"); err != nil {
		s.logger.Warn("timetable cache invalidation failed", zap.Error(err))
	}
}
