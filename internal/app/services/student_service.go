package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
	"github.com/denizt/traincenter/internal/pkg/filestorage"
	"github.com/denizt/traincenter/internal/pkg/helpers"
	"github.com/denizt/traincenter/internal/pkg/logger"
)

// IStudentRepository defines the student persistence operations the service
// depends on
type IStudentRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, student *models.Student) error
	CreateContactTx(ctx context.Context, tx pgx.Tx, contact *models.StudentContact) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	GetByAccountID(ctx context.Context, accountID int64) (*models.Student, error)
	StudentIDExists(ctx context.Context, studentID string) (bool, error)
	List(ctx context.Context, filter dto.StudentListFilter) ([]*models.Student, int64, error)
	ListAll(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	GetContact(ctx context.Context, studentID int64) (*models.StudentContact, error)
	UpdateContact(ctx context.Context, contact *models.StudentContact) error
	CountByStatus(ctx context.Context) (int64, map[models.StudentStatus]int64, error)
}

// IAchievementRepository defines achievement persistence operations
type IAchievementRepository interface {
	Create(ctx context.Context, achievement *models.StudentAchievement) error
	GetByID(ctx context.Context, id int64) (*models.StudentAchievement, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentAchievement, error)
	Update(ctx context.Context, achievement *models.StudentAchievement) error
	Delete(ctx context.Context, id int64) error
}

// IPhotoRepository defines photo persistence operations
type IPhotoRepository interface {
	Create(ctx context.Context, photo *models.StudentPhoto) error
	GetByID(ctx context.Context, id int64) (*models.StudentPhoto, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentPhoto, error)
	UpdateDescription(ctx context.Context, id int64, description string) error
	SetPrimary(ctx context.Context, studentID, photoID int64) error
	Delete(ctx context.Context, id int64) error
}

var allowedPhotoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// StudentService manages students and everything hanging off them
type StudentService struct {
	studentRepo     IStudentRepository
	accountRepo     IAccountRepository
	achievementRepo IAchievementRepository
	photoRepo       IPhotoRepository
	accountService  *AccountService
	storage         filestorage.FileStorage
	runTx           TxRunner
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo IStudentRepository,
	accountRepo IAccountRepository,
	achievementRepo IAchievementRepository,
	photoRepo IPhotoRepository,
	accountService *AccountService,
	storage filestorage.FileStorage,
	runTx TxRunner,
) *StudentService {
	return &StudentService{
		studentRepo:     studentRepo,
		accountRepo:     accountRepo,
		achievementRepo: achievementRepo,
		photoRepo:       photoRepo,
		accountService:  accountService,
		storage:         storage,
		runTx:           runTx,
	}
}

// CreateStudent creates a student with its account and contact stub in one
// transaction. When the request references an existing account, that
// account is adopted; otherwise a fresh one is provisioned from the inline
// identity fields. Either way the student, its account and an empty contact
// record come out of the same commit.
func (s *StudentService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	exists, err := s.studentRepo.StudentIDExists(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrStudentIDAlreadyExists
	}

	enrollmentDate, err := helpers.ParseDate(req.EnrollmentDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid enrollment date")
	}
	graduationDate, err := helpers.ParseDate(req.GraduationDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid graduation date")
	}

	var student *models.Student

	err = retryUsernameConflict(func() error {
		return s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			var account *models.Account

			if req.AccountID != nil {
				account, err = s.accountRepo.GetByID(ctx, *req.AccountID)
				if err != nil {
					return err
				}
				if _, err := s.studentRepo.GetByAccountID(ctx, account.ID); err == nil {
					return apperrors.NewConflictError("account already linked to a student")
				} else if err != apperrors.ErrStudentNotFound {
					return err
				}
			} else {
				account, err = s.accountService.ProvisionAccountTx(ctx, tx, ProvisionParams{
					Username:         req.Username,
					FallbackUsername: "student_" + req.StudentID,
					Email:            req.Email,
					FirstName:        req.FirstName,
					LastName:         req.LastName,
					Phone:            req.Phone,
					Role:             models.RoleStudent,
				})
				if err != nil {
					return err
				}
			}

			student = &models.Student{
				AccountID:      account.ID,
				StudentID:      req.StudentID,
				Department:     req.Department,
				Grade:          req.Grade,
				EnrollmentDate: enrollmentDate,
				GraduationDate: graduationDate,
				Status:         models.ParseStudentStatus(req.Status),
			}
			if err := s.studentRepo.CreateTx(ctx, tx, student); err != nil {
				return err
			}

			contact := &models.StudentContact{StudentID: student.ID}
			if err := s.studentRepo.CreateContactTx(ctx, tx, contact); err != nil {
				return err
			}

			student.Account = account
			student.Contact = contact
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("studentId", student.StudentID).
		Int64("accountId", student.AccountID).
		Msg("Student created")

	return student, nil
}

// GetStudent retrieves a student with its account and contact info
func (s *StudentService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	contact, err := s.studentRepo.GetContact(ctx, id)
	if err == nil {
		student.Contact = contact
	} else if err != apperrors.ErrContactNotFound {
		return nil, err
	}

	return student, nil
}

// ListStudents retrieves students with filtering and pagination
func (s *StudentService) ListStudents(ctx context.Context, filter dto.StudentListFilter) ([]*models.Student, *dto.PaginationInfo, error) {
	if filter.Page < 1 {
		filter.Page = helpers.DefaultPage
	}
	if filter.PageSize <= 0 || filter.PageSize > helpers.MaxPageSize {
		filter.PageSize = helpers.DefaultPageSize
	}

	students, total, err := s.studentRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	pagination := helpers.NewPaginationInfo(total, filter.Page, filter.PageSize)
	return students, &pagination, nil
}

// UpdateStudent applies a partial update to a student
func (s *StudentService) UpdateStudent(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Department != nil {
		student.Department = *req.Department
	}
	if req.Grade != nil {
		student.Grade = *req.Grade
	}
	if req.EnrollmentDate != nil {
		date, err := helpers.ParseDate(*req.EnrollmentDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid enrollment date")
		}
		student.EnrollmentDate = date
	}
	if req.GraduationDate != nil {
		date, err := helpers.ParseDate(*req.GraduationDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid graduation date")
		}
		student.GraduationDate = date
	}
	if req.Status != nil {
		student.Status = models.ParseStudentStatus(*req.Status)
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// DeleteStudent removes a student by deleting its owning account; the
// student row and all its children cascade away with it.
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) error {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.accountRepo.Delete(ctx, student.AccountID)
}

// GetContact retrieves the contact record of a student
func (s *StudentService) GetContact(ctx context.Context, studentID int64) (*models.StudentContact, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.studentRepo.GetContact(ctx, studentID)
}

// UpdateContact populates the contact stub created with the student
func (s *StudentService) UpdateContact(ctx context.Context, studentID int64, req dto.UpdateContactRequest) (*models.StudentContact, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	contact := &models.StudentContact{
		StudentID:        studentID,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		Address:          req.Address,
		ParentName:       req.ParentName,
		ParentPhone:      req.ParentPhone,
	}

	if err := s.studentRepo.UpdateContact(ctx, contact); err != nil {
		return nil, err
	}

	return s.studentRepo.GetContact(ctx, studentID)
}

// CreateAchievement records an achievement, optionally with an uploaded
// certificate file
func (s *StudentService) CreateAchievement(ctx context.Context, studentID int64, req dto.CreateAchievementRequest, certificate *multipart.FileHeader) (*models.StudentAchievement, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	dateAchieved, err := helpers.ParseDate(req.DateAchieved)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid achievement date")
	}

	achievement := &models.StudentAchievement{
		StudentID:       studentID,
		AchievementType: models.AchievementType(req.AchievementType),
		Title:           req.Title,
		Description:     req.Description,
		DateAchieved:    dateAchieved,
	}

	if certificate != nil {
		url, err := s.storage.SaveFileWithPath(certificate, "certificates")
		if err != nil {
			return nil, fmt.Errorf("failed to store certificate: %w", err)
		}
		achievement.CertificateURL = url
	}

	if err := s.achievementRepo.Create(ctx, achievement); err != nil {
		return nil, err
	}

	return achievement, nil
}

// ListAchievements retrieves all achievements of a student
func (s *StudentService) ListAchievements(ctx context.Context, studentID int64) ([]*models.StudentAchievement, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.achievementRepo.ListByStudent(ctx, studentID)
}

// UpdateAchievement applies a partial update to an achievement
func (s *StudentService) UpdateAchievement(ctx context.Context, studentID, achievementID int64, req dto.UpdateAchievementRequest) (*models.StudentAchievement, error) {
	achievement, err := s.achievementRepo.GetByID(ctx, achievementID)
	if err != nil {
		return nil, err
	}
	if achievement.StudentID != studentID {
		return nil, apperrors.ErrAchievementNotFound
	}

	if req.AchievementType != nil {
		achievement.AchievementType = models.AchievementType(*req.AchievementType)
	}
	if req.Title != nil {
		achievement.Title = *req.Title
	}
	if req.Description != nil {
		achievement.Description = *req.Description
	}
	if req.DateAchieved != nil {
		date, err := helpers.ParseDate(*req.DateAchieved)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid achievement date")
		}
		achievement.DateAchieved = date
	}

	if err := s.achievementRepo.Update(ctx, achievement); err != nil {
		return nil, err
	}

	return achievement, nil
}

// DeleteAchievement removes an achievement and its stored certificate
func (s *StudentService) DeleteAchievement(ctx context.Context, studentID, achievementID int64) error {
	achievement, err := s.achievementRepo.GetByID(ctx, achievementID)
	if err != nil {
		return err
	}
	if achievement.StudentID != studentID {
		return apperrors.ErrAchievementNotFound
	}

	if err := s.achievementRepo.Delete(ctx, achievementID); err != nil {
		return err
	}

	if achievement.CertificateURL != "" {
		if err := s.storage.DeleteFile(achievement.CertificateURL); err != nil {
			logger.Warn().Err(err).Str("url", achievement.CertificateURL).Msg("Failed to delete certificate file")
		}
	}

	return nil
}

// UploadPhoto stores a photo file and creates its database record. The
// first photo of a student automatically becomes the primary one.
func (s *StudentService) UploadPhoto(ctx context.Context, studentID int64, file *multipart.FileHeader, description string) (*models.StudentPhoto, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedPhotoExtensions[ext] {
		return nil, apperrors.ErrUnsupportedFileType
	}

	existing, err := s.photoRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SaveFileWithPath(file, "photos")
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	photo := &models.StudentPhoto{
		StudentID:   studentID,
		PhotoURL:    url,
		Description: description,
		IsPrimary:   len(existing) == 0,
	}

	if err := s.photoRepo.Create(ctx, photo); err != nil {
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			logger.Warn().Err(delErr).Str("url", url).Msg("Failed to clean up photo file")
		}
		return nil, err
	}

	return photo, nil
}

// BatchUploadPhotos stores several photos in one request. Failures are
// isolated per file; the tally reports which files failed and why.
func (s *StudentService) BatchUploadPhotos(ctx context.Context, studentID int64, files []*multipart.FileHeader) (*dto.BatchUploadResult, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	result := &dto.BatchUploadResult{Total: len(files)}

	for i, file := range files {
		if _, err := s.UploadPhoto(ctx, studentID, file, ""); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, dto.BatchUploadRowError{
				Index:    i,
				Filename: file.Filename,
				Error:    err.Error(),
			})
			continue
		}
		result.Success++
	}

	return result, nil
}

// ListPhotos retrieves all photos of a student
func (s *StudentService) ListPhotos(ctx context.Context, studentID int64) ([]*models.StudentPhoto, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.photoRepo.ListByStudent(ctx, studentID)
}

// UpdatePhoto patches photo metadata. Setting the primary flag clears the
// flag on every other photo of the student.
func (s *StudentService) UpdatePhoto(ctx context.Context, studentID, photoID int64, req dto.UpdatePhotoRequest) (*models.StudentPhoto, error) {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo.StudentID != studentID {
		return nil, apperrors.ErrPhotoNotFound
	}

	if req.Description != nil {
		if err := s.photoRepo.UpdateDescription(ctx, photoID, *req.Description); err != nil {
			return nil, err
		}
	}

	if req.IsPrimary != nil && *req.IsPrimary {
		if err := s.photoRepo.SetPrimary(ctx, studentID, photoID); err != nil {
			return nil, err
		}
	}

	return s.photoRepo.GetByID(ctx, photoID)
}

// DeletePhoto removes a photo record and its stored file
func (s *StudentService) DeletePhoto(ctx context.Context, studentID, photoID int64) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.StudentID != studentID {
		return apperrors.ErrPhotoNotFound
	}

	if err := s.photoRepo.Delete(ctx, photoID); err != nil {
		return err
	}

	if err := s.storage.DeleteFile(photo.PhotoURL); err != nil {
		logger.Warn().Err(err).Str("url", photo.PhotoURL).Msg("Failed to delete photo file")
	}

	return nil
}

// GetStats returns the student statistics summary
func (s *StudentService) GetStats(ctx context.Context) (*dto.StudentStatsResponse, error) {
	total, counts, err := s.studentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StudentStatsResponse{
		TotalStudents:     total,
		ActiveStudents:    counts[models.StudentStatusActive],
		GraduatedStudents: counts[models.StudentStatusGraduated],
	}, nil
}
