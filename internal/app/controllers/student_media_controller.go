package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/middleware"
)

// Achievement and photo endpoints live on StudentController; they are split
// out here to keep the main file readable.

// CreateAchievement records an achievement for a student
// @Summary Add an achievement
// @Description Records an achievement, optionally with an uploaded certificate file
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param achievementType formData string true "Achievement type" Enums(academic, sports, art, other)
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param dateAchieved formData string false "Date achieved (YYYY-MM-DD)"
// @Param certificate formData file false "Certificate file"
// @Success 201 {object} dto.APIResponse{data=models.StudentAchievement} "Achievement created"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/achievements [post]
func (c *StudentController) CreateAchievement(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateAchievementRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	// Certificate upload is optional
	certificate, err := ctx.FormFile("certificate")
	if err != nil {
		certificate = nil
	}

	achievement, err := c.studentService.CreateAchievement(ctx, id, req, certificate)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: achievement, Timestamp: time.Now()})
}

// ListAchievements lists a student's achievements
// @Summary List achievements
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.StudentAchievement} "Achievements retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/achievements [get]
func (c *StudentController) ListAchievements(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	achievements, err := c.studentService.ListAchievements(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: achievements, Timestamp: time.Now()})
}

// UpdateAchievement applies a partial update to an achievement
// @Summary Update an achievement
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param achievementId path int true "Achievement ID"
// @Param request body dto.UpdateAchievementRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.StudentAchievement} "Achievement updated"
// @Failure 404 {object} dto.ErrorResponse "Achievement not found"
// @Router /students/{id}/achievements/{achievementId} [put]
func (c *StudentController) UpdateAchievement(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	achievementID, ok := parseIDParam(ctx, "achievementId")
	if !ok {
		return
	}

	var req dto.UpdateAchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	achievement, err := c.studentService.UpdateAchievement(ctx, id, achievementID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: achievement, Timestamp: time.Now()})
}

// DeleteAchievement removes an achievement
// @Summary Delete an achievement
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param achievementId path int true "Achievement ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Achievement deleted"
// @Failure 404 {object} dto.ErrorResponse "Achievement not found"
// @Router /students/{id}/achievements/{achievementId} [delete]
func (c *StudentController) DeleteAchievement(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	achievementID, ok := parseIDParam(ctx, "achievementId")
	if !ok {
		return
	}

	if err := c.studentService.DeleteAchievement(ctx, id, achievementID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Achievement deleted"},
		Timestamp: time.Now(),
	})
}

// UploadPhoto stores a photo for a student
// @Summary Upload a photo
// @Description Stores a photo file. The first photo of a student becomes the primary one.
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param file formData file true "Photo file"
// @Param description formData string false "Caption"
// @Success 201 {object} dto.APIResponse{data=models.StudentPhoto} "Photo uploaded"
// @Failure 400 {object} dto.ErrorResponse "Unsupported file type"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/photos [post]
func (c *StudentController) UploadPhoto(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	photo, err := c.studentService.UploadPhoto(ctx, id, fileHeader, ctx.PostForm("description"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: photo, Timestamp: time.Now()})
}

// BatchUploadPhotos stores several photos in one request
// @Summary Batch upload photos
// @Description Stores several photos with per-file failure isolation
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param files formData file true "Photo files"
// @Success 200 {object} dto.APIResponse{data=dto.BatchUploadResult} "Upload finished"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/photos/batch [post]
func (c *StudentController) BatchUploadPhotos(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "No files uploaded").WithField("files")))
		return
	}

	result, err := c.studentService.BatchUploadPhotos(ctx, id, files)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result, Timestamp: time.Now()})
}

// ListPhotos lists a student's photos
// @Summary List photos
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.StudentPhoto} "Photos retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/photos [get]
func (c *StudentController) ListPhotos(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	photos, err := c.studentService.ListPhotos(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: photos, Timestamp: time.Now()})
}

// UpdatePhoto patches photo metadata
// @Summary Update a photo
// @Description Updates the caption or promotes the photo to primary
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param photoId path int true "Photo ID"
// @Param request body dto.UpdatePhotoRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.StudentPhoto} "Photo updated"
// @Failure 404 {object} dto.ErrorResponse "Photo not found"
// @Router /students/{id}/photos/{photoId} [put]
func (c *StudentController) UpdatePhoto(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	photoID, ok := parseIDParam(ctx, "photoId")
	if !ok {
		return
	}

	var req dto.UpdatePhotoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	photo, err := c.studentService.UpdatePhoto(ctx, id, photoID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: photo, Timestamp: time.Now()})
}

// DeletePhoto removes a photo
// @Summary Delete a photo
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param photoId path int true "Photo ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Photo deleted"
// @Failure 404 {object} dto.ErrorResponse "Photo not found"
// @Router /students/{id}/photos/{photoId} [delete]
func (c *StudentController) DeletePhoto(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	photoID, ok := parseIDParam(ctx, "photoId")
	if !ok {
		return
	}

	if err := c.studentService.DeletePhoto(ctx, id, photoID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Photo deleted"},
		Timestamp: time.Now(),
	})
}
