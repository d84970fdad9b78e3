package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/scheduler-api/internal/models"
)

// ExamScheduleRepository provides persistence for exam schedule entries.
type ExamScheduleRepository struct {
	db *sqlx.DB
}

// NewExamScheduleRepository creates a new exam schedule repository.
func NewExamScheduleRepository(db *sqlx.DB) *ExamScheduleRepository {
	return &ExamScheduleRepository{db: db}
}

const examEntryColumns = "id, exam_id, class_id, subject_id, room_id, supervisor_id, exam_date, start_time, end_time, max_marks, instructions, created_at, updated_at"

// ListByExam returns an exam's entries ordered by date and start time.
func (r *ExamScheduleRepository) ListByExam(ctx context.Context, examID string) ([]models.ExamScheduleEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM exam_schedule_entries WHERE exam_id = $1 ORDER BY exam_date ASC, start_time ASC", examEntryColumns)
	var entries []models.ExamScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, examID); err != nil {
		return nil, fmt.Errorf("list exam schedule entries: %w", err)
	}
	return entries, nil
}

// FindByID loads an entry by id.
func (r *ExamScheduleRepository) FindByID(ctx context.Context, id string) (*models.ExamScheduleEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM exam_schedule_entries WHERE id = $1", examEntryColumns)
	var entry models.ExamScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByDate returns every entry on the given calendar date, across exams.
// Conflict detection scans this bucket: resources are global, so entries of
// different exams can still collide on a room or supervisor.
func (r *ExamScheduleRepository) FindByDate(ctx context.Context, date time.Time) ([]models.ExamScheduleEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM exam_schedule_entries WHERE exam_date = $1", examEntryColumns)
	var entries []models.ExamScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, date); err != nil {
		return nil, fmt.Errorf("find exam entries by date: %w", err)
	}
	return entries, nil
}

// CountByExam returns the number of committed entries for an exam.
func (r *ExamScheduleRepository) CountByExam(ctx context.Context, examID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM exam_schedule_entries WHERE exam_id = $1`, examID); err != nil {
		return 0, fmt.Errorf("count exam schedule entries: %w", err)
	}
	return count, nil
}

// Create stores a new entry.
func (r *ExamScheduleRepository) Create(ctx context.Context, entry *models.ExamScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO exam_schedule_entries (id, exam_id, class_id, subject_id, room_id, supervisor_id, exam_date, start_time, end_time, max_marks, instructions, created_at, updated_at) VALUES (:id, :exam_id, :class_id, :subject_id, :room_id, :supervisor_id, :exam_date, :start_time, :end_time, :max_marks, :instructions, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create exam schedule entry: %w", err)
	}
	return nil
}

// Update modifies an entry.
func (r *ExamScheduleRepository) Update(ctx context.Context, entry *models.ExamScheduleEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE exam_schedule_entries SET exam_id = :exam_id, class_id = :class_id, subject_id = :subject_id, room_id = :room_id, supervisor_id = :supervisor_id, exam_date = :exam_date, start_time = :start_time, end_time = :end_time, max_marks = :max_marks, instructions = :instructions, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update exam schedule entry: %w", err)
	}
	return nil
}

// Delete removes an entry by id.
func (r *ExamScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM exam_schedule_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete exam schedule entry: %w", err)
	}
	return nil
}
