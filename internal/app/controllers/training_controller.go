package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/app/services"
	"github.com/denizt/traincenter/internal/middleware"
)

// TrainingController handles enrollment, study hour, grade and progress
// endpoints
type TrainingController struct {
	trainingService *services.TrainingService
}

// NewTrainingController creates a new TrainingController
func NewTrainingController(trainingService *services.TrainingService) *TrainingController {
	return &TrainingController{trainingService: trainingService}
}

// Enroll registers a student into a course schedule
// @Summary Enroll a student
// @Description Creates the enrollment and seeds its progress record from the course's total hours
// @Tags training
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEnrollmentRequest true "Enrollment information"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment} "Enrolled"
// @Failure 404 {object} dto.ErrorResponse "Student or schedule not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled or schedule full"
// @Router /enrollments [post]
func (c *TrainingController) Enroll(ctx *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	enrollment, err := c.trainingService.Enroll(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: enrollment, Timestamp: time.Now()})
}

// GetEnrollment retrieves an enrollment with its progress
// @Summary Get enrollment details
// @Tags training
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment} "Enrollment retrieved"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [get]
func (c *TrainingController) GetEnrollment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.trainingService.GetEnrollment(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: enrollment, Timestamp: time.Now()})
}

// ListStudentEnrollments lists a student's enrollments
// @Summary List enrollments of a student
// @Tags training
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Enrollments retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/enrollments [get]
func (c *TrainingController) ListStudentEnrollments(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollments, err := c.trainingService.ListEnrollmentsByStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: enrollments, Timestamp: time.Now()})
}

// ListScheduleEnrollments lists a schedule's enrollments
// @Summary List enrollments of a schedule
// @Tags training
// @Produce json
// @Security BearerAuth
// @Param id path int true "Schedule ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Enrollments retrieved"
// @Failure 404 {object} dto.ErrorResponse "Schedule not found"
// @Router /schedules/{id}/enrollments [get]
func (c *TrainingController) ListScheduleEnrollments(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollments, err := c.trainingService.ListEnrollmentsBySchedule(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: enrollments, Timestamp: time.Now()})
}

// UpdateEnrollment updates an enrollment's lifecycle fields
// @Summary Update an enrollment
// @Tags training
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param request body dto.UpdateEnrollmentRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment} "Enrollment updated"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [put]
func (c *TrainingController) UpdateEnrollment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	enrollment, err := c.trainingService.UpdateEnrollment(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: enrollment, Timestamp: time.Now()})
}

// RecordStudyHours appends a study-hour record and returns the recomputed
// progress
// @Summary Record study hours
// @Description Appends a study-hour record; the enrollment's progress is recomputed in the same transaction
// @Tags training
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param request body dto.CreateStudyHourRequest true "Study hour record"
// @Success 201 {object} dto.APIResponse{data=models.TrainingProgress} "Hours recorded"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id}/study-hours [post]
func (c *TrainingController) RecordStudyHours(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	accountID, authed := middleware.AccountIDFromContext(ctx)
	if !authed {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var req dto.CreateStudyHourRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	progress, err := c.trainingService.RecordStudyHours(ctx, id, accountID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: progress, Timestamp: time.Now()})
}

// ListStudyHours lists the study-hour records of an enrollment
// @Summary List study hours
// @Tags training
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=[]models.StudyHour} "Records retrieved"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id}/study-hours [get]
func (c *TrainingController) ListStudyHours(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	records, err := c.trainingService.ListStudyHours(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: records, Timestamp: time.Now()})
}

// CreateGrade records a grade against an enrollment
// @Summary Record a grade
// @Tags training
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param request body dto.CreateGradeRequest true "Grade record"
// @Success 201 {object} dto.APIResponse{data=models.Grade} "Grade recorded"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id}/grades [post]
func (c *TrainingController) CreateGrade(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	accountID, authed := middleware.AccountIDFromContext(ctx)
	if !authed {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var req dto.CreateGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	grade, err := c.trainingService.CreateGrade(ctx, id, accountID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: grade, Timestamp: time.Now()})
}

// ListGrades lists the grades of an enrollment
// @Summary List grades
// @Tags training
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Grade} "Grades retrieved"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id}/grades [get]
func (c *TrainingController) ListGrades(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	grades, err := c.trainingService.ListGrades(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: grades, Timestamp: time.Now()})
}

// GetProgress retrieves the progress record of an enrollment
// @Summary Get training progress
// @Tags training
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=models.TrainingProgress} "Progress retrieved"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id}/progress [get]
func (c *TrainingController) GetProgress(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	progress, err := c.trainingService.GetProgress(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: progress, Timestamp: time.Now()})
}
