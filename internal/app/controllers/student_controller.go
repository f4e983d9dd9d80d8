package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/app/services"
	"github.com/denizt/traincenter/internal/middleware"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
	"github.com/denizt/traincenter/internal/pkg/helpers"
)

// StudentController handles student endpoints, including the bulk roster
// import and export
type StudentController struct {
	studentService *services.StudentService
	rosterService  *services.RosterService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, rosterService *services.RosterService) *StudentController {
	return &StudentController{
		studentService: studentService,
		rosterService:  rosterService,
	}
}

// CreateStudent creates a student with its account and contact stub
// @Summary Create a student
// @Description Creates a student together with its account (adopted or provisioned) and an empty contact record
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Student ID already exists"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	student, err := c.studentService.CreateStudent(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: student, Timestamp: time.Now()})
}

// GetStudent retrieves a student with account and contact info
// @Summary Get student details
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: student, Timestamp: time.Now()})
}

// ListStudents lists students with filtering and pagination
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Match student number or name"
// @Param status query string false "Filter by status" Enums(active, graduated, suspended, dropped)
// @Param department query string false "Filter by department"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Students retrieved"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	filter := dto.StudentListFilter{
		Search:     ctx.Query("search"),
		Status:     ctx.Query("status"),
		Department: ctx.Query("department"),
		Page:       page,
		PageSize:   pageSize,
	}

	students, pagination, err := c.studentService.ListStudents(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.PaginatedResponse{Data: students, Pagination: *pagination},
		Timestamp: time.Now(),
	})
}

// UpdateStudent applies a partial update to a student
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student updated"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: student, Timestamp: time.Now()})
}

// DeleteStudent removes a student and its account
// @Summary Delete a student
// @Description Removes the student together with its account, contact, achievements, photos and enrollments
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Student deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Student deleted"},
		Timestamp: time.Now(),
	})
}

// GetContact retrieves a student's contact info
// @Summary Get contact info
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.StudentContact} "Contact retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/contact [get]
func (c *StudentController) GetContact(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	contact, err := c.studentService.GetContact(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: contact, Timestamp: time.Now()})
}

// UpdateContact populates a student's contact info
// @Summary Update contact info
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateContactRequest true "Contact fields"
// @Success 200 {object} dto.APIResponse{data=models.StudentContact} "Contact updated"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/contact [put]
func (c *StudentController) UpdateContact(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	contact, err := c.studentService.UpdateContact(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: contact, Timestamp: time.Now()})
}

// GetStats returns the student statistics summary
// @Summary Student statistics
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentStatsResponse} "Statistics retrieved"
// @Router /students/stats [get]
func (c *StudentController) GetStats(ctx *gin.Context) {
	stats, err := c.studentService.GetStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: stats, Timestamp: time.Now()})
}

// ImportStudents bulk-creates students from an uploaded xlsx workbook
// @Summary Import students from a spreadsheet
// @Description Creates one student per data row. Row failures are reported in the tally; the request still succeeds.
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Workbook (.xlsx)"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResponse} "Import finished"
// @Failure 400 {object} dto.ErrorResponse "Unsupported file type or unreadable workbook"
// @Router /students/import [post]
func (c *StudentController) ImportStudents(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		middleware.HandleAPIError(ctx, apperrors.ErrUnsupportedFileType)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrUnreadableSheet)
		return
	}
	defer file.Close()

	result, err := c.rosterService.ImportStudents(ctx, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ImportResponse{
			Message: fmt.Sprintf("Import finished: %d succeeded, %d failed", result.Success, result.Failed),
			Results: *result,
		},
		Timestamp: time.Now(),
	})
}

// ExportStudents downloads the full roster as an xlsx workbook
// @Summary Export students to a spreadsheet
// @Description Renders every student into a workbook whose layout round-trips through the import endpoint
// @Tags students
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Workbook download"
// @Router /students/export [get]
func (c *StudentController) ExportStudents(ctx *gin.Context) {
	workbook, filename, err := c.rosterService.ExportStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer workbook.Close()

	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := workbook.Write(ctx.Writer); err != nil {
		middleware.HandleAPIError(ctx, err)
	}
}
