package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/db"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
)

// PhotoRepository handles database operations for student photos
type PhotoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new PhotoRepository
func NewPhotoRepository(db *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create inserts a new photo row and sets its generated ID
func (r *PhotoRepository) Create(ctx context.Context, photo *models.StudentPhoto) error {
	query := `
		INSERT INTO student_photos (student_id, photo_url, description, is_primary)
		VALUES ($1, $2, $3, $4)
		RETURNING id, uploaded_at`

	err := r.db.QueryRow(ctx, query,
		photo.StudentID,
		photo.PhotoURL,
		photo.Description,
		photo.IsPrimary,
	).Scan(&photo.ID, &photo.UploadedAt)
	if err != nil {
		return fmt.Errorf("error creating photo: %w", err)
	}

	return nil
}

// GetByID retrieves a photo by ID
func (r *PhotoRepository) GetByID(ctx context.Context, id int64) (*models.StudentPhoto, error) {
	query := `
		SELECT id, student_id, photo_url, description, is_primary, uploaded_at
		FROM student_photos
		WHERE id = $1`

	var p models.StudentPhoto
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.StudentID,
		&p.PhotoURL,
		&p.Description,
		&p.IsPrimary,
		&p.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPhotoNotFound
		}
		return nil, fmt.Errorf("error querying photo: %w", err)
	}

	return &p, nil
}

// ListByStudent retrieves all photos of a student, primary first
func (r *PhotoRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentPhoto, error) {
	query := `
		SELECT id, student_id, photo_url, description, is_primary, uploaded_at
		FROM student_photos
		WHERE student_id = $1
		ORDER BY is_primary DESC, uploaded_at DESC`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var photos []*models.StudentPhoto
	for rows.Next() {
		var p models.StudentPhoto
		err := rows.Scan(
			&p.ID,
			&p.StudentID,
			&p.PhotoURL,
			&p.Description,
			&p.IsPrimary,
			&p.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		photos = append(photos, &p)
	}

	return photos, nil
}

// UpdateDescription updates the caption of a photo
func (r *PhotoRepository) UpdateDescription(ctx context.Context, id int64, description string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE student_photos SET description = $1 WHERE id = $2", description, id)
	if err != nil {
		return fmt.Errorf("error updating photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPhotoNotFound
	}
	return nil
}

// SetPrimary makes the given photo the student's primary one. All other
// photos of the student are cleared first, inside one transaction, so at
// most a single primary photo can exist.
func (r *PhotoRepository) SetPrimary(ctx context.Context, studentID, photoID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			"UPDATE student_photos SET is_primary = FALSE WHERE student_id = $1", studentID)
		if err != nil {
			return fmt.Errorf("error clearing primary photo: %w", err)
		}

		tag, err := tx.Exec(ctx,
			"UPDATE student_photos SET is_primary = TRUE WHERE id = $1 AND student_id = $2", photoID, studentID)
		if err != nil {
			return fmt.Errorf("error setting primary photo: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrPhotoNotFound
		}

		return nil
	})
}

// Delete removes a photo row
func (r *PhotoRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM student_photos WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPhotoNotFound
	}
	return nil
}
