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

// TeacherRepository handles database operations for teachers
type TeacherRepository struct {
	db *pgxpool.Pool
}

// NewTeacherRepository creates a new TeacherRepository
func NewTeacherRepository(db *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{db: db}
}

var teacherWithAccountColumns = []string{
	"t.id", "t.account_id", "t.teacher_id", "t.title", "t.department",
	"t.expertise", "t.introduction", "t.years_of_experience", "t.is_active", "t.created_at",
	"a.id", "a.username", "a.email", "a.password", "a.first_name", "a.last_name",
	"a.phone", "a.role", "a.is_active", "a.created_at", "a.updated_at",
}

func scanTeacherWithAccount(row pgx.Row) (*models.Teacher, error) {
	var t models.Teacher
	var a models.Account
	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.TeacherID,
		&t.Title,
		&t.Department,
		&t.Expertise,
		&t.Introduction,
		&t.YearsOfExperience,
		&t.IsActive,
		&t.CreatedAt,
		&a.ID,
		&a.Username,
		&a.Email,
		&a.Password,
		&a.FirstName,
		&a.LastName,
		&a.Phone,
		&a.Role,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Account = &a
	return &t, nil
}

// CreateTx inserts a teacher row within an existing transaction
func (r *TeacherRepository) CreateTx(ctx context.Context, tx pgx.Tx, teacher *models.Teacher) error {
	query := `
		INSERT INTO teachers (account_id, teacher_id, title, department, expertise, introduction, years_of_experience, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := tx.QueryRow(ctx, query,
		teacher.AccountID,
		teacher.TeacherID,
		teacher.Title,
		teacher.Department,
		teacher.Expertise,
		teacher.Introduction,
		teacher.YearsOfExperience,
		teacher.IsActive,
	).Scan(&teacher.ID, &teacher.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "teachers_teacher_id_key") {
			return apperrors.ErrTeacherIDAlreadyExists
		}
		return fmt.Errorf("error creating teacher: %w", err)
	}

	return nil
}

// GetByID retrieves a teacher with its account by primary key
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	query := squirrel.Select(teacherWithAccountColumns...).
		From("teachers t").
		Join("accounts a ON a.id = t.account_id").
		Where(squirrel.Eq{"t.id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	teacher, err := scanTeacherWithAccount(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("error querying teacher: %w", err)
	}

	return teacher, nil
}

// TeacherIDExists checks whether a teacher number is already registered
func (r *TeacherRepository) TeacherIDExists(ctx context.Context, teacherID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM teachers WHERE teacher_id = $1)", teacherID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking teacher number: %w", err)
	}
	return exists, nil
}

// List retrieves teachers with optional department filtering and pagination
func (r *TeacherRepository) List(ctx context.Context, department string, page, pageSize int) ([]*models.Teacher, int64, error) {
	base := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	countQuery := base.Select("COUNT(*)").
		From("teachers t").
		Join("accounts a ON a.id = t.account_id")
	listQuery := base.Select(teacherWithAccountColumns...).
		From("teachers t").
		Join("accounts a ON a.id = t.account_id")

	if department != "" {
		countQuery = countQuery.Where(squirrel.Eq{"t.department": department})
		listQuery = listQuery.Where(squirrel.Eq{"t.department": department})
	}

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting teachers: %w", err)
	}

	offset := (page - 1) * pageSize
	listQuery = listQuery.OrderBy("t.id").Limit(uint64(pageSize)).Offset(uint64(offset))

	sql, args, err = listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var teachers []*models.Teacher
	for rows.Next() {
		teacher, err := scanTeacherWithAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		teachers = append(teachers, teacher)
	}

	return teachers, total, nil
}

// Update applies a partial update to a teacher row
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	query := `
		UPDATE teachers
		SET title = $1, department = $2, expertise = $3, introduction = $4, years_of_experience = $5, is_active = $6
		WHERE id = $7`

	tag, err := r.db.Exec(ctx, query,
		teacher.Title,
		teacher.Department,
		teacher.Expertise,
		teacher.Introduction,
		teacher.YearsOfExperience,
		teacher.IsActive,
		teacher.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTeacherNotFound
	}

	return nil
}
