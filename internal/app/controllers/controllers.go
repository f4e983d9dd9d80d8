package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/app/services"
)

// Controllers holds all the controller instances
type Controllers struct {
	AuthController     *AuthController
	AccountController  *AccountController
	StudentController  *StudentController
	TeacherController  *TeacherController
	CourseController   *CourseController
	TrainingController *TrainingController
}

// NewControllers initializes all controllers
func NewControllers(svcs *services.Services) *Controllers {
	return &Controllers{
		AuthController:     NewAuthController(svcs.AuthService),
		AccountController:  NewAccountController(svcs.AccountService),
		StudentController:  NewStudentController(svcs.StudentService, svcs.RosterService),
		TeacherController:  NewTeacherController(svcs.TeacherService),
		CourseController:   NewCourseController(svcs.CourseService),
		TrainingController: NewTrainingController(svcs.TrainingService),
	}
}

// parseIDParam reads a positive int64 path parameter, writing a 400 response
// itself when the value is unusable
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID")
		errorDetail = errorDetail.WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
