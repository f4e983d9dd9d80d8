package dto

// CreateEnrollmentRequest enrolls a student into a course schedule
type CreateEnrollmentRequest struct {
	StudentID  int64 `json:"studentId" binding:"required,gt=0"`
	ScheduleID int64 `json:"scheduleId" binding:"required,gt=0"`
}

// UpdateEnrollmentRequest updates an enrollment's lifecycle fields
type UpdateEnrollmentRequest struct {
	Status         *string  `json:"status" binding:"omitempty,oneof=enrolled completed dropped"`
	FinalGrade     *float64 `json:"finalGrade" binding:"omitempty,gte=0"`
	CompletionDate *string  `json:"completionDate" binding:"omitempty,datetime=2006-01-02"`
}

// CreateStudyHourRequest records study hours against an enrollment
type CreateStudyHourRequest struct {
	StudyDate        string  `json:"studyDate" binding:"required,datetime=2006-01-02"`
	HoursCompleted   float64 `json:"hoursCompleted" binding:"required,gt=0"`
	AttendanceStatus string  `json:"attendanceStatus" binding:"omitempty,oneof=present absent late excused"`
	Notes            string  `json:"notes"`
}

// CreateGradeRequest records a grade against an enrollment
type CreateGradeRequest struct {
	GradeType string  `json:"gradeType" binding:"required,oneof=homework quiz exam final"`
	Score     float64 `json:"score" binding:"gte=0"`
	MaxScore  float64 `json:"maxScore" binding:"required,gt=0"`
	Weight    float64 `json:"weight" binding:"omitempty,gt=0"`
	Notes     string  `json:"notes"`
}
