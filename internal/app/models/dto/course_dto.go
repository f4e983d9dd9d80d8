package dto

// CreateCourseRequest creates a course
type CreateCourseRequest struct {
	CourseCode      string   `json:"courseCode" binding:"required,max=50"`
	CourseName      string   `json:"courseName" binding:"required,max=200"`
	Description     string   `json:"description"`
	Category        string   `json:"category" binding:"max=100"`
	TotalHours      int      `json:"totalHours" binding:"required,gt=0"`
	Credit          *float64 `json:"credit" binding:"omitempty,gte=0"`
	DifficultyLevel string   `json:"difficultyLevel" binding:"omitempty,oneof=beginner intermediate advanced"`
}

// UpdateCourseRequest updates mutable course fields
type UpdateCourseRequest struct {
	CourseName      *string  `json:"courseName" binding:"omitempty,max=200"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category" binding:"omitempty,max=100"`
	TotalHours      *int     `json:"totalHours" binding:"omitempty,gt=0"`
	Credit          *float64 `json:"credit" binding:"omitempty,gte=0"`
	DifficultyLevel *string  `json:"difficultyLevel" binding:"omitempty,oneof=beginner intermediate advanced"`
	IsActive        *bool    `json:"isActive"`
}

// CreateScheduleRequest schedules a course session
type CreateScheduleRequest struct {
	CourseID     int64  `json:"courseId" binding:"required,gt=0"`
	TeacherID    int64  `json:"teacherId" binding:"required,gt=0"`
	ScheduleDate string `json:"scheduleDate" binding:"required,datetime=2006-01-02"`
	StartTime    string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime      string `json:"endTime" binding:"required,datetime=15:04"`
	Classroom    string `json:"classroom" binding:"max=100"`
	MaxStudents  int    `json:"maxStudents" binding:"omitempty,gt=0"`
}

// UpdateScheduleRequest updates mutable schedule fields
type UpdateScheduleRequest struct {
	ScheduleDate *string `json:"scheduleDate" binding:"omitempty,datetime=2006-01-02"`
	StartTime    *string `json:"startTime" binding:"omitempty,datetime=15:04"`
	EndTime      *string `json:"endTime" binding:"omitempty,datetime=15:04"`
	Classroom    *string `json:"classroom" binding:"omitempty,max=100"`
	MaxStudents  *int    `json:"maxStudents" binding:"omitempty,gt=0"`
	Status       *string `json:"status" binding:"omitempty,oneof=scheduled in_progress completed cancelled"`
}
