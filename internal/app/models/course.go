package models

import "time"

// Course defines the course model based on the 'courses' table
type Course struct {
	ID              int64           `json:"id" db:"id"`
	CourseCode      string          `json:"courseCode" db:"course_code" example:"GO101"` // Business key, globally unique
	CourseName      string          `json:"courseName" db:"course_name"`
	Description     string          `json:"description" db:"description"`
	Category        string          `json:"category" db:"category"`
	TotalHours      int             `json:"totalHours" db:"total_hours"`
	Credit          *float64        `json:"credit,omitempty" db:"credit"`
	DifficultyLevel DifficultyLevel `json:"difficultyLevel" db:"difficulty_level"`
	IsActive        bool            `json:"isActive" db:"is_active"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// CourseSchedule is a scheduled session of a course taught by a teacher
type CourseSchedule struct {
	ID              int64          `json:"id" db:"id"`
	CourseID        int64          `json:"courseId" db:"course_id"`
	TeacherID       int64          `json:"teacherId" db:"teacher_id"`
	ScheduleDate    time.Time      `json:"scheduleDate" db:"schedule_date"`
	StartTime       string         `json:"startTime" db:"start_time"` // HH:MM
	EndTime         string         `json:"endTime" db:"end_time"`
	Classroom       string         `json:"classroom" db:"classroom"`
	MaxStudents     int            `json:"maxStudents" db:"max_students"`
	CurrentStudents int            `json:"currentStudents" db:"current_students"`
	Status          ScheduleStatus `json:"status" db:"status"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`

	Course  *Course  `json:"course,omitempty"`
	Teacher *Teacher `json:"teacher,omitempty"`
}
