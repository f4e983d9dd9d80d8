package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
	"github.com/denizt/traincenter/internal/pkg/dberrors"
)

// TrainingRepository handles database operations for enrollments, study
// hours, grades and training progress
type TrainingRepository struct {
	db *pgxpool.Pool
}

// NewTrainingRepository creates a new TrainingRepository
func NewTrainingRepository(db *pgxpool.Pool) *TrainingRepository {
	return &TrainingRepository{db: db}
}

const enrollmentColumns = "id, student_id, schedule_id, enrollment_date, status, final_grade, completion_date, created_at"

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	err := row.Scan(
		&e.ID,
		&e.StudentID,
		&e.ScheduleID,
		&e.EnrollmentDate,
		&e.Status,
		&e.FinalGrade,
		&e.CompletionDate,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEnrollmentTx inserts an enrollment within an existing transaction
func (r *TrainingRepository) CreateEnrollmentTx(ctx context.Context, tx pgx.Tx, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_id, schedule_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, enrollment_date, created_at`

	err := tx.QueryRow(ctx, query,
		enrollment.StudentID,
		enrollment.ScheduleID,
		enrollment.Status,
	).Scan(&enrollment.ID, &enrollment.EnrollmentDate, &enrollment.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "enrollments_student_schedule_key") {
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	return nil
}

// CreateProgressTx inserts the progress record for a new enrollment within
// the same transaction
func (r *TrainingRepository) CreateProgressTx(ctx context.Context, tx pgx.Tx, progress *models.TrainingProgress) error {
	query := `
		INSERT INTO training_progress (enrollment_id, total_hours_required, hours_completed, completion_percentage, last_study_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, updated_at`

	err := tx.QueryRow(ctx, query,
		progress.EnrollmentID,
		progress.TotalHoursRequired,
		progress.HoursCompleted,
		progress.CompletionPercent,
		progress.LastStudyDate,
	).Scan(&progress.ID, &progress.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating progress record: %w", err)
	}
	return nil
}

// GetEnrollmentByID retrieves an enrollment by ID
func (r *TrainingRepository) GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE id = $1", enrollmentColumns)

	enrollment, err := scanEnrollment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error querying enrollment: %w", err)
	}

	return enrollment, nil
}

// ListEnrollmentsByStudent retrieves all enrollments of a student
func (r *TrainingRepository) ListEnrollmentsByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM enrollments WHERE student_id = $1 ORDER BY enrollment_date DESC", enrollmentColumns)

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	return enrollments, nil
}

// ListEnrollmentsBySchedule retrieves all enrollments of a schedule
func (r *TrainingRepository) ListEnrollmentsBySchedule(ctx context.Context, scheduleID int64) ([]*models.Enrollment, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM enrollments WHERE schedule_id = $1 ORDER BY enrollment_date", enrollmentColumns)

	rows, err := r.db.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	return enrollments, nil
}

// UpdateEnrollment updates the status, final grade and completion date
func (r *TrainingRepository) UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		UPDATE enrollments
		SET status = $1, final_grade = $2, completion_date = $3
		WHERE id = $4`

	tag, err := r.db.Exec(ctx, query,
		enrollment.Status,
		enrollment.FinalGrade,
		enrollment.CompletionDate,
		enrollment.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// CreateStudyHourTx inserts a study hour record within an existing
// transaction
func (r *TrainingRepository) CreateStudyHourTx(ctx context.Context, tx pgx.Tx, record *models.StudyHour) error {
	query := `
		INSERT INTO study_hours (enrollment_id, study_date, hours_completed, attendance_status, notes, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := tx.QueryRow(ctx, query,
		record.EnrollmentID,
		record.StudyDate,
		record.HoursCompleted,
		record.AttendanceStatus,
		record.Notes,
		record.RecordedBy,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("error recording study hours: %w", err)
	}
	return nil
}

// SumStudyHoursTx totals the hours completed for an enrollment and finds
// the most recent study date, within the same transaction as the insert
func (r *TrainingRepository) SumStudyHoursTx(ctx context.Context, tx pgx.Tx, enrollmentID int64) (float64, *time.Time, error) {
	var total float64
	var lastDate *time.Time
	err := tx.QueryRow(ctx,
		"SELECT COALESCE(SUM(hours_completed), 0), MAX(study_date) FROM study_hours WHERE enrollment_id = $1",
		enrollmentID).Scan(&total, &lastDate)
	if err != nil {
		return 0, nil, fmt.Errorf("error totaling study hours: %w", err)
	}
	return total, lastDate, nil
}

// ListStudyHours retrieves the study hour records of an enrollment
func (r *TrainingRepository) ListStudyHours(ctx context.Context, enrollmentID int64) ([]*models.StudyHour, error) {
	query := `
		SELECT id, enrollment_id, study_date, hours_completed, attendance_status, notes, recorded_by, created_at
		FROM study_hours
		WHERE enrollment_id = $1
		ORDER BY study_date DESC`

	rows, err := r.db.Query(ctx, query, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var records []*models.StudyHour
	for rows.Next() {
		var rec models.StudyHour
		err := rows.Scan(
			&rec.ID,
			&rec.EnrollmentID,
			&rec.StudyDate,
			&rec.HoursCompleted,
			&rec.AttendanceStatus,
			&rec.Notes,
			&rec.RecordedBy,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		records = append(records, &rec)
	}

	return records, nil
}

// CreateGrade inserts a graded item for an enrollment
func (r *TrainingRepository) CreateGrade(ctx context.Context, grade *models.Grade) error {
	query := `
		INSERT INTO grades (enrollment_id, grade_type, score, max_score, weight, graded_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, graded_at`

	err := r.db.QueryRow(ctx, query,
		grade.EnrollmentID,
		grade.GradeType,
		grade.Score,
		grade.MaxScore,
		grade.Weight,
		grade.GradedBy,
		grade.Notes,
	).Scan(&grade.ID, &grade.GradedAt)
	if err != nil {
		return fmt.Errorf("error creating grade: %w", err)
	}
	return nil
}

// ListGrades retrieves all graded items of an enrollment
func (r *TrainingRepository) ListGrades(ctx context.Context, enrollmentID int64) ([]*models.Grade, error) {
	query := `
		SELECT id, enrollment_id, grade_type, score, max_score, weight, graded_by, graded_at, notes
		FROM grades
		WHERE enrollment_id = $1
		ORDER BY graded_at DESC`

	rows, err := r.db.Query(ctx, query, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var grades []*models.Grade
	for rows.Next() {
		var g models.Grade
		err := rows.Scan(
			&g.ID,
			&g.EnrollmentID,
			&g.GradeType,
			&g.Score,
			&g.MaxScore,
			&g.Weight,
			&g.GradedBy,
			&g.GradedAt,
			&g.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		grades = append(grades, &g)
	}

	return grades, nil
}

// GetProgress retrieves the progress record of an enrollment
func (r *TrainingRepository) GetProgress(ctx context.Context, enrollmentID int64) (*models.TrainingProgress, error) {
	query := `
		SELECT id, enrollment_id, total_hours_required, hours_completed, completion_percentage, last_study_date, updated_at
		FROM training_progress
		WHERE enrollment_id = $1`

	var p models.TrainingProgress
	err := r.db.QueryRow(ctx, query, enrollmentID).Scan(
		&p.ID,
		&p.EnrollmentID,
		&p.TotalHoursRequired,
		&p.HoursCompleted,
		&p.CompletionPercent,
		&p.LastStudyDate,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgressNotFound
		}
		return nil, fmt.Errorf("error querying progress: %w", err)
	}

	return &p, nil
}

// GetProgressTx retrieves the progress record within a transaction, locking
// the row for update
func (r *TrainingRepository) GetProgressTx(ctx context.Context, tx pgx.Tx, enrollmentID int64) (*models.TrainingProgress, error) {
	query := `
		SELECT id, enrollment_id, total_hours_required, hours_completed, completion_percentage, last_study_date, updated_at
		FROM training_progress
		WHERE enrollment_id = $1
		FOR UPDATE`

	var p models.TrainingProgress
	err := tx.QueryRow(ctx, query, enrollmentID).Scan(
		&p.ID,
		&p.EnrollmentID,
		&p.TotalHoursRequired,
		&p.HoursCompleted,
		&p.CompletionPercent,
		&p.LastStudyDate,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgressNotFound
		}
		return nil, fmt.Errorf("error querying progress: %w", err)
	}

	return &p, nil
}

// UpdateProgressTx writes back the recomputed progress fields within the
// same transaction
func (r *TrainingRepository) UpdateProgressTx(ctx context.Context, tx pgx.Tx, progress *models.TrainingProgress) error {
	query := `
		UPDATE training_progress
		SET hours_completed = $1, completion_percentage = $2, last_study_date = $3, updated_at = NOW()
		WHERE id = $4`

	tag, err := tx.Exec(ctx, query,
		progress.HoursCompleted,
		progress.CompletionPercent,
		progress.LastStudyDate,
		progress.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProgressNotFound
	}

	return nil
}
