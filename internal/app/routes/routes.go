package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/denizt/traincenter/internal/app/controllers"
	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrls *controllers.Controllers, authMiddleware *middleware.AuthMiddleware) {
	// Liveness check, outside the versioned API and any auth
	router.GET("/health", controllers.HealthCheck)

	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", ctrls.AuthController.Login)
		auth.POST("/refresh", ctrls.AuthController.Refresh)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/me", ctrls.AccountController.GetCurrentAccount)
	authenticated.POST("/auth/logout", ctrls.AuthController.Logout)
	authenticated.PUT("/auth/password", ctrls.AuthController.ChangePassword)

	adminOnly := authMiddleware.RoleRequired(string(models.RoleAdmin))
	staffOnly := authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleTeacher))

	// Account administration
	accounts := authenticated.Group("/accounts")
	accounts.Use(adminOnly)
	{
		accounts.POST("", ctrls.AccountController.CreateAccount)
		accounts.GET("", ctrls.AccountController.ListAccounts)
		accounts.GET("/:id", ctrls.AccountController.GetAccount)
		accounts.PUT("/:id", ctrls.AccountController.UpdateAccount)
		accounts.DELETE("/:id", ctrls.AccountController.DeleteAccount)
	}

	// Students
	students := authenticated.Group("/students")
	{
		students.GET("", ctrls.StudentController.ListStudents)
		students.GET("/stats", ctrls.StudentController.GetStats)
		students.GET("/:id", ctrls.StudentController.GetStudent)
		students.GET("/:id/contact", ctrls.StudentController.GetContact)
		students.GET("/:id/achievements", ctrls.StudentController.ListAchievements)
		students.GET("/:id/photos", ctrls.StudentController.ListPhotos)
		students.GET("/:id/enrollments", ctrls.TrainingController.ListStudentEnrollments)

		studentsStaff := students.Group("")
		studentsStaff.Use(staffOnly)
		{
			studentsStaff.POST("", ctrls.StudentController.CreateStudent)
			studentsStaff.POST("/import", ctrls.StudentController.ImportStudents)
			studentsStaff.GET("/export", ctrls.StudentController.ExportStudents)
			studentsStaff.PUT("/:id", ctrls.StudentController.UpdateStudent)
			studentsStaff.DELETE("/:id", ctrls.StudentController.DeleteStudent)
			studentsStaff.PUT("/:id/contact", ctrls.StudentController.UpdateContact)
			studentsStaff.POST("/:id/achievements", ctrls.StudentController.CreateAchievement)
			studentsStaff.PUT("/:id/achievements/:achievementId", ctrls.StudentController.UpdateAchievement)
			studentsStaff.DELETE("/:id/achievements/:achievementId", ctrls.StudentController.DeleteAchievement)
			studentsStaff.POST("/:id/photos", ctrls.StudentController.UploadPhoto)
			studentsStaff.POST("/:id/photos/batch", ctrls.StudentController.BatchUploadPhotos)
			studentsStaff.PUT("/:id/photos/:photoId", ctrls.StudentController.UpdatePhoto)
			studentsStaff.DELETE("/:id/photos/:photoId", ctrls.StudentController.DeletePhoto)
		}
	}

	// Teachers
	teachers := authenticated.Group("/teachers")
	{
		teachers.GET("", ctrls.TeacherController.ListTeachers)
		teachers.GET("/:id", ctrls.TeacherController.GetTeacher)

		teachersAdmin := teachers.Group("")
		teachersAdmin.Use(adminOnly)
		{
			teachersAdmin.POST("", ctrls.TeacherController.CreateTeacher)
			teachersAdmin.PUT("/:id", ctrls.TeacherController.UpdateTeacher)
			teachersAdmin.DELETE("/:id", ctrls.TeacherController.DeleteTeacher)
		}
	}

	// Courses and schedules
	courses := authenticated.Group("/courses")
	{
		courses.GET("", ctrls.CourseController.ListCourses)
		courses.GET("/:id", ctrls.CourseController.GetCourse)
		courses.GET("/:id/schedules", ctrls.CourseController.ListSchedules)

		coursesStaff := courses.Group("")
		coursesStaff.Use(staffOnly)
		{
			coursesStaff.POST("", ctrls.CourseController.CreateCourse)
			coursesStaff.PUT("/:id", ctrls.CourseController.UpdateCourse)
			coursesStaff.DELETE("/:id", ctrls.CourseController.DeleteCourse)
		}
	}

	schedules := authenticated.Group("/schedules")
	{
		schedules.GET("/:id", ctrls.CourseController.GetSchedule)
		schedules.GET("/:id/enrollments", ctrls.TrainingController.ListScheduleEnrollments)

		schedulesStaff := schedules.Group("")
		schedulesStaff.Use(staffOnly)
		{
			schedulesStaff.POST("", ctrls.CourseController.CreateSchedule)
			schedulesStaff.PUT("/:id", ctrls.CourseController.UpdateScheduleStatus)
		}
	}

	// Enrollments and training records
	enrollments := authenticated.Group("/enrollments")
	{
		enrollments.GET("/:id", ctrls.TrainingController.GetEnrollment)
		enrollments.GET("/:id/study-hours", ctrls.TrainingController.ListStudyHours)
		enrollments.GET("/:id/grades", ctrls.TrainingController.ListGrades)
		enrollments.GET("/:id/progress", ctrls.TrainingController.GetProgress)

		enrollmentsStaff := enrollments.Group("")
		enrollmentsStaff.Use(staffOnly)
		{
			enrollmentsStaff.POST("", ctrls.TrainingController.Enroll)
			enrollmentsStaff.PUT("/:id", ctrls.TrainingController.UpdateEnrollment)
			enrollmentsStaff.POST("/:id/study-hours", ctrls.TrainingController.RecordStudyHours)
			enrollmentsStaff.POST("/:id/grades", ctrls.TrainingController.CreateGrade)
		}
	}
}
