package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
	"github.com/denizt/traincenter/internal/pkg/dberrors"
)

// CourseRepository handles database operations for courses and their
// schedules
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = "id, course_code, course_name, description, category, total_hours, credit, difficulty_level, is_active, created_at, updated_at"

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(
		&c.ID,
		&c.CourseCode,
		&c.CourseName,
		&c.Description,
		&c.Category,
		&c.TotalHours,
		&c.Credit,
		&c.DifficultyLevel,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new course and sets its generated ID
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (course_code, course_name, description, category, total_hours, credit, difficulty_level, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		course.CourseCode,
		course.CourseName,
		course.Description,
		course.Category,
		course.TotalHours,
		course.Credit,
		course.DifficultyLevel,
		course.IsActive,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_course_code_key") {
			return apperrors.ErrCourseCodeAlreadyExists
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1", courseColumns)

	course, err := scanCourse(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error querying course: %w", err)
	}

	return course, nil
}

// List retrieves courses with optional category/difficulty filtering and
// pagination
func (r *CourseRepository) List(ctx context.Context, category, difficulty string, page, pageSize int) ([]*models.Course, int64, error) {
	base := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	applyFilters := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if category != "" {
			q = q.Where(squirrel.Eq{"category": category})
		}
		if difficulty != "" {
			q = q.Where(squirrel.Eq{"difficulty_level": difficulty})
		}
		return q
	}

	countQuery := applyFilters(base.Select("COUNT(*)").From("courses"))

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	offset := (page - 1) * pageSize
	listQuery := applyFilters(base.Select(
		"id", "course_code", "course_name", "description", "category",
		"total_hours", "credit", "difficulty_level", "is_active", "created_at", "updated_at").
		From("courses")).
		OrderBy("id").
		Limit(uint64(pageSize)).
		Offset(uint64(offset))

	sql, args, err = listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		courses = append(courses, course)
	}

	return courses, total, nil
}

// Update applies a partial update to a course row
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET course_name = $1, description = $2, category = $3, total_hours = $4,
		    credit = $5, difficulty_level = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8`

	tag, err := r.db.Exec(ctx, query,
		course.CourseName,
		course.Description,
		course.Category,
		course.TotalHours,
		course.Credit,
		course.DifficultyLevel,
		course.IsActive,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course. Schedules and enrollments cascade.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

const scheduleColumns = "id, course_id, teacher_id, schedule_date, start_time, end_time, classroom, max_students, current_students, status, created_at"

func scanSchedule(row pgx.Row) (*models.CourseSchedule, error) {
	var s models.CourseSchedule
	err := row.Scan(
		&s.ID,
		&s.CourseID,
		&s.TeacherID,
		&s.ScheduleDate,
		&s.StartTime,
		&s.EndTime,
		&s.Classroom,
		&s.MaxStudents,
		&s.CurrentStudents,
		&s.Status,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSchedule inserts a new schedule and sets its generated ID
func (r *CourseRepository) CreateSchedule(ctx context.Context, schedule *models.CourseSchedule) error {
	query := `
		INSERT INTO course_schedules (course_id, teacher_id, schedule_date, start_time, end_time, classroom, max_students, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		schedule.CourseID,
		schedule.TeacherID,
		schedule.ScheduleDate,
		schedule.StartTime,
		schedule.EndTime,
		schedule.Classroom,
		schedule.MaxStudents,
		schedule.Status,
	).Scan(&schedule.ID, &schedule.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating schedule: %w", err)
	}

	return nil
}

// GetScheduleByID retrieves a schedule by ID
func (r *CourseRepository) GetScheduleByID(ctx context.Context, id int64) (*models.CourseSchedule, error) {
	query := fmt.Sprintf("SELECT %s FROM course_schedules WHERE id = $1", scheduleColumns)

	schedule, err := scanSchedule(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("error querying schedule: %w", err)
	}

	return schedule, nil
}

// ListSchedulesByCourse retrieves all schedules of a course ordered by date
func (r *CourseRepository) ListSchedulesByCourse(ctx context.Context, courseID int64) ([]*models.CourseSchedule, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM course_schedules WHERE course_id = $1 ORDER BY schedule_date, start_time", scheduleColumns)

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var schedules []*models.CourseSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		schedules = append(schedules, schedule)
	}

	return schedules, nil
}

// UpdateScheduleStatus moves a schedule through its lifecycle
func (r *CourseRepository) UpdateScheduleStatus(ctx context.Context, id int64, status models.ScheduleStatus) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE course_schedules SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrScheduleNotFound
	}
	return nil
}

// AdjustCurrentStudents increments or decrements the enrolled counter of a
// schedule
func (r *CourseRepository) AdjustCurrentStudents(ctx context.Context, id int64, delta int) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE course_schedules SET current_students = current_students + $1 WHERE id = $2", delta, id)
	if err != nil {
		return fmt.Errorf("error updating schedule counter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrScheduleNotFound
	}
	return nil
}
