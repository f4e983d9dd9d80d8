package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
	"github.com/denizt/traincenter/internal/pkg/dberrors"
)

// StudentRepository handles database operations for students and their
// contact records
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

var studentWithAccountColumns = []string{
	"s.id", "s.account_id", "s.student_id", "s.department", "s.grade",
	"s.enrollment_date", "s.graduation_date", "s.status", "s.created_at",
	"a.id", "a.username", "a.email", "a.password", "a.first_name", "a.last_name",
	"a.phone", "a.role", "a.is_active", "a.created_at", "a.updated_at",
}

func scanStudentWithAccount(row pgx.Row) (*models.Student, error) {
	var s models.Student
	var a models.Account
	err := row.Scan(
		&s.ID,
		&s.AccountID,
		&s.StudentID,
		&s.Department,
		&s.Grade,
		&s.EnrollmentDate,
		&s.GraduationDate,
		&s.Status,
		&s.CreatedAt,
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
	s.Account = &a
	return &s, nil
}

// CreateTx inserts a student row within an existing transaction
func (r *StudentRepository) CreateTx(ctx context.Context, tx pgx.Tx, student *models.Student) error {
	query := `
		INSERT INTO students (account_id, student_id, department, grade, enrollment_date, graduation_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := tx.QueryRow(ctx, query,
		student.AccountID,
		student.StudentID,
		student.Department,
		student.Grade,
		student.EnrollmentDate,
		student.GraduationDate,
		student.Status,
	).Scan(&student.ID, &student.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_id_key") {
			return apperrors.ErrStudentIDAlreadyExists
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// CreateContactTx inserts the contact stub for a student within an existing
// transaction
func (r *StudentRepository) CreateContactTx(ctx context.Context, tx pgx.Tx, contact *models.StudentContact) error {
	query := `
		INSERT INTO student_contacts (student_id, emergency_contact, emergency_phone, address, parent_name, parent_phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := tx.QueryRow(ctx, query,
		contact.StudentID,
		contact.EmergencyContact,
		contact.EmergencyPhone,
		contact.Address,
		contact.ParentName,
		contact.ParentPhone,
	).Scan(&contact.ID)
	if err != nil {
		return fmt.Errorf("error creating student contact: %w", err)
	}
	return nil
}

// GetByID retrieves a student with its account by primary key
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := squirrel.Select(studentWithAccountColumns...).
		From("students s").
		Join("accounts a ON a.id = s.account_id").
		Where(squirrel.Eq{"s.id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	student, err := scanStudentWithAccount(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error querying student: %w", err)
	}

	return student, nil
}

// GetByStudentID retrieves a student by its business key
func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	query := squirrel.Select(studentWithAccountColumns...).
		From("students s").
		Join("accounts a ON a.id = s.account_id").
		Where(squirrel.Eq{"s.student_id": studentID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	student, err := scanStudentWithAccount(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error querying student: %w", err)
	}

	return student, nil
}

// GetByAccountID retrieves a student by its owning account
func (r *StudentRepository) GetByAccountID(ctx context.Context, accountID int64) (*models.Student, error) {
	query := squirrel.Select(studentWithAccountColumns...).
		From("students s").
		Join("accounts a ON a.id = s.account_id").
		Where(squirrel.Eq{"s.account_id": accountID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	student, err := scanStudentWithAccount(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error querying student: %w", err)
	}

	return student, nil
}

// StudentIDExists checks whether a student number is already registered
func (r *StudentRepository) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM students WHERE student_id = $1)", studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student number: %w", err)
	}
	return exists, nil
}

// List retrieves students with filtering and pagination. Search matches the
// student number and the account's first or last name.
func (r *StudentRepository) List(ctx context.Context, filter dto.StudentListFilter) ([]*models.Student, int64, error) {
	base := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	applyFilters := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			q = q.Where(squirrel.Or{
				squirrel.ILike{"s.student_id": pattern},
				squirrel.ILike{"a.first_name": pattern},
				squirrel.ILike{"a.last_name": pattern},
			})
		}
		if filter.Status != "" {
			q = q.Where(squirrel.Eq{"s.status": filter.Status})
		}
		if filter.Department != "" {
			q = q.Where(squirrel.Eq{"s.department": filter.Department})
		}
		return q
	}

	countQuery := applyFilters(base.Select("COUNT(*)").
		From("students s").
		Join("accounts a ON a.id = s.account_id"))

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	listQuery := applyFilters(base.Select(studentWithAccountColumns...).
		From("students s").
		Join("accounts a ON a.id = s.account_id")).
		OrderBy("s.id").
		Limit(uint64(filter.PageSize)).
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

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudentWithAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		students = append(students, student)
	}

	return students, total, nil
}

// ListAll retrieves every student with its account, ordered by student
// number. Used by the roster export.
func (r *StudentRepository) ListAll(ctx context.Context) ([]*models.Student, error) {
	query := squirrel.Select(studentWithAccountColumns...).
		From("students s").
		Join("accounts a ON a.id = s.account_id").
		OrderBy("s.student_id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudentWithAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		students = append(students, student)
	}

	return students, nil
}

// Update applies a partial update to a student row
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET department = $1, grade = $2, enrollment_date = $3, graduation_date = $4, status = $5
		WHERE id = $6`

	tag, err := r.db.Exec(ctx, query,
		student.Department,
		student.Grade,
		student.EnrollmentDate,
		student.GraduationDate,
		student.Status,
		student.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// GetContact retrieves the contact record of a student
func (r *StudentRepository) GetContact(ctx context.Context, studentID int64) (*models.StudentContact, error) {
	query := `
		SELECT id, student_id, emergency_contact, emergency_phone, address, parent_name, parent_phone
		FROM student_contacts
		WHERE student_id = $1`

	var c models.StudentContact
	err := r.db.QueryRow(ctx, query, studentID).Scan(
		&c.ID,
		&c.StudentID,
		&c.EmergencyContact,
		&c.EmergencyPhone,
		&c.Address,
		&c.ParentName,
		&c.ParentPhone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, fmt.Errorf("error querying student contact: %w", err)
	}

	return &c, nil
}

// UpdateContact replaces the contact fields of a student
func (r *StudentRepository) UpdateContact(ctx context.Context, contact *models.StudentContact) error {
	query := `
		UPDATE student_contacts
		SET emergency_contact = $1, emergency_phone = $2, address = $3, parent_name = $4, parent_phone = $5
		WHERE student_id = $6`

	tag, err := r.db.Exec(ctx, query,
		contact.EmergencyContact,
		contact.EmergencyPhone,
		contact.Address,
		contact.ParentName,
		contact.ParentPhone,
		contact.StudentID,
	)
	if err != nil {
		return fmt.Errorf("error updating student contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrContactNotFound
	}

	return nil
}

// CountByStatus returns the total student count and per-status counts
func (r *StudentRepository) CountByStatus(ctx context.Context) (int64, map[models.StudentStatus]int64, error) {
	rows, err := r.db.Query(ctx,
		"SELECT status, COUNT(*) FROM students GROUP BY status")
	if err != nil {
		return 0, nil, fmt.Errorf("error counting students: %w", err)
	}
	defer rows.Close()

	var total int64
	counts := make(map[models.StudentStatus]int64)
	for rows.Next() {
		var status models.StudentStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return 0, nil, fmt.Errorf("error scanning row: %w", err)
		}
		counts[status] = count
		total += count
	}

	return total, counts, nil
}
