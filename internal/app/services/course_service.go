package services

import (
	"context"
	"time"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
	"github.com/denizt/traincenter/internal/pkg/helpers"
)

// ICourseRepository defines course and schedule persistence operations
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, category, difficulty string, page, pageSize int) ([]*models.Course, int64, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	CreateSchedule(ctx context.Context, schedule *models.CourseSchedule) error
	GetScheduleByID(ctx context.Context, id int64) (*models.CourseSchedule, error)
	ListSchedulesByCourse(ctx context.Context, courseID int64) ([]*models.CourseSchedule, error)
	UpdateScheduleStatus(ctx context.Context, id int64, status models.ScheduleStatus) error
	AdjustCurrentStudents(ctx context.Context, id int64, delta int) error
}

// CourseService manages courses and their schedules
type CourseService struct {
	courseRepo  ICourseRepository
	teacherRepo ITeacherRepository
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo ICourseRepository, teacherRepo ITeacherRepository) *CourseService {
	return &CourseService{
		courseRepo:  courseRepo,
		teacherRepo: teacherRepo,
	}
}

// CreateCourse creates a course
func (s *CourseService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	difficulty := models.DifficultyLevel(req.DifficultyLevel)
	if req.DifficultyLevel == "" {
		difficulty = models.DifficultyBeginner
	}

	course := &models.Course{
		CourseCode:      req.CourseCode,
		CourseName:      req.CourseName,
		Description:     req.Description,
		Category:        req.Category,
		TotalHours:      req.TotalHours,
		Credit:          req.Credit,
		DifficultyLevel: difficulty,
		IsActive:        true,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// GetCourse retrieves a course by ID
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// ListCourses retrieves courses with optional filtering
func (s *CourseService) ListCourses(ctx context.Context, category, difficulty string, page, pageSize int) ([]*models.Course, *dto.PaginationInfo, error) {
	courses, total, err := s.courseRepo.List(ctx, category, difficulty, page, pageSize)
	if err != nil {
		return nil, nil, err
	}

	pagination := helpers.NewPaginationInfo(total, page, pageSize)
	return courses, &pagination, nil
}

// UpdateCourse applies a partial update to a course
func (s *CourseService) UpdateCourse(ctx context.Context, id int64, req dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CourseName != nil {
		course.CourseName = *req.CourseName
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.TotalHours != nil {
		course.TotalHours = *req.TotalHours
	}
	if req.Credit != nil {
		course.Credit = req.Credit
	}
	if req.DifficultyLevel != nil {
		course.DifficultyLevel = models.DifficultyLevel(*req.DifficultyLevel)
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// DeleteCourse removes a course and its schedules
func (s *CourseService) DeleteCourse(ctx context.Context, id int64) error {
	return s.courseRepo.Delete(ctx, id)
}

// CreateSchedule schedules a session of a course with a teacher
func (s *CourseService) CreateSchedule(ctx context.Context, req dto.CreateScheduleRequest) (*models.CourseSchedule, error) {
	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		return nil, err
	}
	if _, err := s.teacherRepo.GetByID(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	scheduleDate, err := time.Parse(helpers.DateFormat, req.ScheduleDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid schedule date")
	}
	if req.EndTime <= req.StartTime {
		return nil, apperrors.NewBadRequestError("end time must be after start time")
	}

	maxStudents := req.MaxStudents
	if maxStudents == 0 {
		maxStudents = 30
	}

	schedule := &models.CourseSchedule{
		CourseID:     req.CourseID,
		TeacherID:    req.TeacherID,
		ScheduleDate: scheduleDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Classroom:    req.Classroom,
		MaxStudents:  maxStudents,
		Status:       models.ScheduleStatusScheduled,
	}

	if err := s.courseRepo.CreateSchedule(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// GetSchedule retrieves a schedule by ID
func (s *CourseService) GetSchedule(ctx context.Context, id int64) (*models.CourseSchedule, error) {
	return s.courseRepo.GetScheduleByID(ctx, id)
}

// ListSchedules retrieves all schedules of a course
func (s *CourseService) ListSchedules(ctx context.Context, courseID int64) ([]*models.CourseSchedule, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.courseRepo.ListSchedulesByCourse(ctx, courseID)
}

// UpdateScheduleStatus moves a schedule through its lifecycle
func (s *CourseService) UpdateScheduleStatus(ctx context.Context, id int64, status string) (*models.CourseSchedule, error) {
	if err := s.courseRepo.UpdateScheduleStatus(ctx, id, models.ScheduleStatus(status)); err != nil {
		return nil, err
	}
	return s.courseRepo.GetScheduleByID(ctx, id)
}
