package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
)

// AchievementRepository handles database operations for student achievements
type AchievementRepository struct {
	db *pgxpool.Pool
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// Create inserts a new achievement and sets its generated ID
func (r *AchievementRepository) Create(ctx context.Context, achievement *models.StudentAchievement) error {
	query := `
		INSERT INTO student_achievements (student_id, achievement_type, title, description, date_achieved, certificate_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		achievement.StudentID,
		achievement.AchievementType,
		achievement.Title,
		achievement.Description,
		achievement.DateAchieved,
		achievement.CertificateURL,
	).Scan(&achievement.ID, &achievement.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating achievement: %w", err)
	}

	return nil
}

// GetByID retrieves an achievement by ID
func (r *AchievementRepository) GetByID(ctx context.Context, id int64) (*models.StudentAchievement, error) {
	query := `
		SELECT id, student_id, achievement_type, title, description, date_achieved, certificate_url, created_at
		FROM student_achievements
		WHERE id = $1`

	var a models.StudentAchievement
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.StudentID,
		&a.AchievementType,
		&a.Title,
		&a.Description,
		&a.DateAchieved,
		&a.CertificateURL,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAchievementNotFound
		}
		return nil, fmt.Errorf("error querying achievement: %w", err)
	}

	return &a, nil
}

// ListByStudent retrieves all achievements of a student, newest first
func (r *AchievementRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentAchievement, error) {
	query := `
		SELECT id, student_id, achievement_type, title, description, date_achieved, certificate_url, created_at
		FROM student_achievements
		WHERE student_id = $1
		ORDER BY date_achieved DESC NULLS LAST, id DESC`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var achievements []*models.StudentAchievement
	for rows.Next() {
		var a models.StudentAchievement
		err := rows.Scan(
			&a.ID,
			&a.StudentID,
			&a.AchievementType,
			&a.Title,
			&a.Description,
			&a.DateAchieved,
			&a.CertificateURL,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		achievements = append(achievements, &a)
	}

	return achievements, nil
}

// Update replaces the editable fields of an achievement
func (r *AchievementRepository) Update(ctx context.Context, achievement *models.StudentAchievement) error {
	query := `
		UPDATE student_achievements
		SET achievement_type = $1, title = $2, description = $3, date_achieved = $4, certificate_url = $5
		WHERE id = $6`

	tag, err := r.db.Exec(ctx, query,
		achievement.AchievementType,
		achievement.Title,
		achievement.Description,
		achievement.DateAchieved,
		achievement.CertificateURL,
		achievement.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating achievement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAchievementNotFound
	}

	return nil
}

// Delete removes an achievement
func (r *AchievementRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM student_achievements WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting achievement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAchievementNotFound
	}
	return nil
}
