package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
	"github.com/denizt/traincenter/internal/pkg/helpers"
	"github.com/denizt/traincenter/internal/pkg/logger"
)

// ITeacherRepository defines the teacher persistence operations the service
// depends on
type ITeacherRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, teacher *models.Teacher) error
	GetByID(ctx context.Context, id int64) (*models.Teacher, error)
	TeacherIDExists(ctx context.Context, teacherID string) (bool, error)
	List(ctx context.Context, department string, page, pageSize int) ([]*models.Teacher, int64, error)
	Update(ctx context.Context, teacher *models.Teacher) error
}

// TeacherService manages teachers
type TeacherService struct {
	teacherRepo    ITeacherRepository
	accountRepo    IAccountRepository
	accountService *AccountService
	runTx          TxRunner
}

// NewTeacherService creates a new TeacherService
func NewTeacherService(teacherRepo ITeacherRepository, accountRepo IAccountRepository, accountService *AccountService, runTx TxRunner) *TeacherService {
	return &TeacherService{
		teacherRepo:    teacherRepo,
		accountRepo:    accountRepo,
		accountService: accountService,
		runTx:          runTx,
	}
}

// CreateTeacher creates a teacher with its account in one transaction,
// following the same adopt-or-provision rule as student creation.
func (s *TeacherService) CreateTeacher(ctx context.Context, req dto.CreateTeacherRequest) (*models.Teacher, error) {
	exists, err := s.teacherRepo.TeacherIDExists(ctx, req.TeacherID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrTeacherIDAlreadyExists
	}

	var teacher *models.Teacher

	err = retryUsernameConflict(func() error {
		return s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			var account *models.Account
			var err error

			if req.AccountID != nil {
				account, err = s.accountRepo.GetByID(ctx, *req.AccountID)
				if err != nil {
					return err
				}
			} else {
				account, err = s.accountService.ProvisionAccountTx(ctx, tx, ProvisionParams{
					Username:         req.Username,
					FallbackUsername: "teacher_" + req.TeacherID,
					Email:            req.Email,
					FirstName:        req.FirstName,
					LastName:         req.LastName,
					Phone:            req.Phone,
					Role:             models.RoleTeacher,
				})
				if err != nil {
					return err
				}
			}

			teacher = &models.Teacher{
				AccountID:         account.ID,
				TeacherID:         req.TeacherID,
				Title:             req.Title,
				Department:        req.Department,
				Expertise:         req.Expertise,
				Introduction:      req.Introduction,
				YearsOfExperience: req.YearsOfExperience,
				IsActive:          true,
			}
			if err := s.teacherRepo.CreateTx(ctx, tx, teacher); err != nil {
				return err
			}

			teacher.Account = account
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("teacherId", teacher.TeacherID).
		Int64("accountId", teacher.AccountID).
		Msg("Teacher created")

	return teacher, nil
}

// GetTeacher retrieves a teacher by ID
func (s *TeacherService) GetTeacher(ctx context.Context, id int64) (*models.Teacher, error) {
	return s.teacherRepo.GetByID(ctx, id)
}

// ListTeachers retrieves teachers with optional department filtering
func (s *TeacherService) ListTeachers(ctx context.Context, department string, page, pageSize int) ([]*models.Teacher, *dto.PaginationInfo, error) {
	teachers, total, err := s.teacherRepo.List(ctx, department, page, pageSize)
	if err != nil {
		return nil, nil, err
	}

	pagination := helpers.NewPaginationInfo(total, page, pageSize)
	return teachers, &pagination, nil
}

// UpdateTeacher applies a partial update to a teacher
func (s *TeacherService) UpdateTeacher(ctx context.Context, id int64, req dto.UpdateTeacherRequest) (*models.Teacher, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		teacher.Title = *req.Title
	}
	if req.Department != nil {
		teacher.Department = *req.Department
	}
	if req.Expertise != nil {
		teacher.Expertise = *req.Expertise
	}
	if req.Introduction != nil {
		teacher.Introduction = *req.Introduction
	}
	if req.YearsOfExperience != nil {
		teacher.YearsOfExperience = *req.YearsOfExperience
	}
	if req.IsActive != nil {
		teacher.IsActive = *req.IsActive
	}

	if err := s.teacherRepo.Update(ctx, teacher); err != nil {
		return nil, err
	}

	return teacher, nil
}

// DeleteTeacher removes a teacher by deleting its owning account
func (s *TeacherService) DeleteTeacher(ctx context.Context, id int64) error {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.accountRepo.Delete(ctx, teacher.AccountID)
}
