package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
	"github.com/denizt/traincenter/internal/pkg/helpers"
	"github.com/denizt/traincenter/internal/pkg/logger"
)

// ITrainingRepository defines enrollment, study hour, grade and progress
// persistence operations
type ITrainingRepository interface {
	CreateEnrollmentTx(ctx context.Context, tx pgx.Tx, enrollment *models.Enrollment) error
	CreateProgressTx(ctx context.Context, tx pgx.Tx, progress *models.TrainingProgress) error
	GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error)
	ListEnrollmentsByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error)
	ListEnrollmentsBySchedule(ctx context.Context, scheduleID int64) ([]*models.Enrollment, error)
	UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	CreateStudyHourTx(ctx context.Context, tx pgx.Tx, record *models.StudyHour) error
	SumStudyHoursTx(ctx context.Context, tx pgx.Tx, enrollmentID int64) (float64, *time.Time, error)
	ListStudyHours(ctx context.Context, enrollmentID int64) ([]*models.StudyHour, error)
	CreateGrade(ctx context.Context, grade *models.Grade) error
	ListGrades(ctx context.Context, enrollmentID int64) ([]*models.Grade, error)
	GetProgress(ctx context.Context, enrollmentID int64) (*models.TrainingProgress, error)
	GetProgressTx(ctx context.Context, tx pgx.Tx, enrollmentID int64) (*models.TrainingProgress, error)
	UpdateProgressTx(ctx context.Context, tx pgx.Tx, progress *models.TrainingProgress) error
}

// TrainingService manages enrollments, study hours, grades and progress
type TrainingService struct {
	trainingRepo ITrainingRepository
	courseRepo   ICourseRepository
	studentRepo  IStudentRepository
	runTx        TxRunner
}

// NewTrainingService creates a new TrainingService
func NewTrainingService(trainingRepo ITrainingRepository, courseRepo ICourseRepository, studentRepo IStudentRepository, runTx TxRunner) *TrainingService {
	return &TrainingService{
		trainingRepo: trainingRepo,
		courseRepo:   courseRepo,
		studentRepo:  studentRepo,
		runTx:        runTx,
	}
}

// Enroll registers a student into a course schedule. The enrollment, its
// progress record seeded from the course's total hours, and the schedule's
// student counter all commit together.
func (s *TrainingService) Enroll(ctx context.Context, req dto.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if _, err := s.studentRepo.GetByID(ctx, req.StudentID); err != nil {
		return nil, err
	}

	schedule, err := s.courseRepo.GetScheduleByID(ctx, req.ScheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.Status == models.ScheduleStatusCancelled {
		return nil, apperrors.NewBadRequestError("schedule is cancelled")
	}
	if schedule.CurrentStudents >= schedule.MaxStudents {
		return nil, apperrors.NewConflictError("schedule is full")
	}

	course, err := s.courseRepo.GetByID(ctx, schedule.CourseID)
	if err != nil {
		return nil, err
	}

	var enrollment *models.Enrollment

	err = s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		enrollment = &models.Enrollment{
			StudentID:  req.StudentID,
			ScheduleID: req.ScheduleID,
			Status:     models.EnrollmentStatusEnrolled,
		}
		if err := s.trainingRepo.CreateEnrollmentTx(ctx, tx, enrollment); err != nil {
			return err
		}

		progress := &models.TrainingProgress{
			EnrollmentID:       enrollment.ID,
			TotalHoursRequired: float64(course.TotalHours),
		}
		if err := s.trainingRepo.CreateProgressTx(ctx, tx, progress); err != nil {
			return err
		}
		enrollment.Progress = progress

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.courseRepo.AdjustCurrentStudents(ctx, req.ScheduleID, 1); err != nil {
		logger.Warn().Err(err).Int64("scheduleId", req.ScheduleID).Msg("Failed to bump schedule counter")
	}

	return enrollment, nil
}

// GetEnrollment retrieves an enrollment with its progress
func (s *TrainingService) GetEnrollment(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, err := s.trainingRepo.GetEnrollmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	progress, err := s.trainingRepo.GetProgress(ctx, id)
	if err == nil {
		enrollment.Progress = progress
	} else if err != apperrors.ErrProgressNotFound {
		return nil, err
	}

	return enrollment, nil
}

// ListEnrollmentsByStudent retrieves all enrollments of a student
func (s *TrainingService) ListEnrollmentsByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.trainingRepo.ListEnrollmentsByStudent(ctx, studentID)
}

// ListEnrollmentsBySchedule retrieves all enrollments of a schedule
func (s *TrainingService) ListEnrollmentsBySchedule(ctx context.Context, scheduleID int64) ([]*models.Enrollment, error) {
	if _, err := s.courseRepo.GetScheduleByID(ctx, scheduleID); err != nil {
		return nil, err
	}
	return s.trainingRepo.ListEnrollmentsBySchedule(ctx, scheduleID)
}

// UpdateEnrollment updates an enrollment's lifecycle fields. Dropping an
// enrollment releases its seat on the schedule.
func (s *TrainingService) UpdateEnrollment(ctx context.Context, id int64, req dto.UpdateEnrollmentRequest) (*models.Enrollment, error) {
	enrollment, err := s.trainingRepo.GetEnrollmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousStatus := enrollment.Status

	if req.Status != nil {
		enrollment.Status = models.EnrollmentStatus(*req.Status)
	}
	if req.FinalGrade != nil {
		enrollment.FinalGrade = req.FinalGrade
	}
	if req.CompletionDate != nil {
		date, err := helpers.ParseDate(*req.CompletionDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid completion date")
		}
		enrollment.CompletionDate = date
	}
	if enrollment.Status == models.EnrollmentStatusCompleted && enrollment.CompletionDate == nil {
		now := time.Now()
		enrollment.CompletionDate = &now
	}

	if err := s.trainingRepo.UpdateEnrollment(ctx, enrollment); err != nil {
		return nil, err
	}

	if previousStatus != models.EnrollmentStatusDropped && enrollment.Status == models.EnrollmentStatusDropped {
		if err := s.courseRepo.AdjustCurrentStudents(ctx, enrollment.ScheduleID, -1); err != nil {
			logger.Warn().Err(err).Int64("scheduleId", enrollment.ScheduleID).Msg("Failed to release schedule seat")
		}
	}

	return enrollment, nil
}

// RecordStudyHours appends a study-hour record and recomputes the derived
// progress inside the same transaction, so the completion percentage can
// never drift from the underlying records.
func (s *TrainingService) RecordStudyHours(ctx context.Context, enrollmentID, recordedBy int64, req dto.CreateStudyHourRequest) (*models.TrainingProgress, error) {
	if _, err := s.trainingRepo.GetEnrollmentByID(ctx, enrollmentID); err != nil {
		return nil, err
	}

	studyDate, err := time.Parse(helpers.DateFormat, req.StudyDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid study date")
	}

	attendance := models.AttendanceStatus(req.AttendanceStatus)
	if req.AttendanceStatus == "" {
		attendance = models.AttendancePresent
	}

	var progress *models.TrainingProgress

	err = s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		record := &models.StudyHour{
			EnrollmentID:     enrollmentID,
			StudyDate:        studyDate,
			HoursCompleted:   req.HoursCompleted,
			AttendanceStatus: attendance,
			Notes:            req.Notes,
			RecordedBy:       recordedBy,
		}
		if err := s.trainingRepo.CreateStudyHourTx(ctx, tx, record); err != nil {
			return err
		}

		progress, err = s.trainingRepo.GetProgressTx(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}

		total, lastDate, err := s.trainingRepo.SumStudyHoursTx(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}

		progress.Recompute(total, lastDate)
		return s.trainingRepo.UpdateProgressTx(ctx, tx, progress)
	})
	if err != nil {
		return nil, err
	}

	return progress, nil
}

// ListStudyHours retrieves the study-hour records of an enrollment
func (s *TrainingService) ListStudyHours(ctx context.Context, enrollmentID int64) ([]*models.StudyHour, error) {
	if _, err := s.trainingRepo.GetEnrollmentByID(ctx, enrollmentID); err != nil {
		return nil, err
	}
	return s.trainingRepo.ListStudyHours(ctx, enrollmentID)
}

// CreateGrade records a graded item against an enrollment
func (s *TrainingService) CreateGrade(ctx context.Context, enrollmentID, gradedBy int64, req dto.CreateGradeRequest) (*models.Grade, error) {
	if _, err := s.trainingRepo.GetEnrollmentByID(ctx, enrollmentID); err != nil {
		return nil, err
	}

	if req.Score > req.MaxScore {
		return nil, apperrors.NewBadRequestError("score cannot exceed max score")
	}

	weight := req.Weight
	if weight == 0 {
		weight = 1
	}

	grade := &models.Grade{
		EnrollmentID: enrollmentID,
		GradeType:    models.GradeType(req.GradeType),
		Score:        req.Score,
		MaxScore:     req.MaxScore,
		Weight:       weight,
		GradedBy:     gradedBy,
		Notes:        req.Notes,
	}

	if err := s.trainingRepo.CreateGrade(ctx, grade); err != nil {
		return nil, err
	}

	return grade, nil
}

// ListGrades retrieves all graded items of an enrollment
func (s *TrainingService) ListGrades(ctx context.Context, enrollmentID int64) ([]*models.Grade, error) {
	if _, err := s.trainingRepo.GetEnrollmentByID(ctx, enrollmentID); err != nil {
		return nil, err
	}
	return s.trainingRepo.ListGrades(ctx, enrollmentID)
}

// GetProgress retrieves the progress record of an enrollment
func (s *TrainingService) GetProgress(ctx context.Context, enrollmentID int64) (*models.TrainingProgress, error) {
	if _, err := s.trainingRepo.GetEnrollmentByID(ctx, enrollmentID); err != nil {
		return nil, err
	}
	return s.trainingRepo.GetProgress(ctx, enrollmentID)
}
