package models

import "time"

// Enrollment links a student to a course schedule. Unique per
// (student, course schedule) pair.
type Enrollment struct {
	ID             int64            `json:"id" db:"id"`
	StudentID      int64            `json:"studentId" db:"student_id"`
	ScheduleID     int64            `json:"scheduleId" db:"schedule_id"`
	EnrollmentDate time.Time        `json:"enrollmentDate" db:"enrollment_date"`
	Status         EnrollmentStatus `json:"status" db:"status"`
	FinalGrade     *float64         `json:"finalGrade,omitempty" db:"final_grade"`
	CompletionDate *time.Time       `json:"completionDate,omitempty" db:"completion_date"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`

	Student  *Student          `json:"student,omitempty"`
	Schedule *CourseSchedule   `json:"schedule,omitempty"`
	Progress *TrainingProgress `json:"progress,omitempty"`
}

// StudyHour records hours completed on a study date for an enrollment
type StudyHour struct {
	ID               int64            `json:"id" db:"id"`
	EnrollmentID     int64            `json:"enrollmentId" db:"enrollment_id"`
	StudyDate        time.Time        `json:"studyDate" db:"study_date"`
	HoursCompleted   float64          `json:"hoursCompleted" db:"hours_completed"`
	AttendanceStatus AttendanceStatus `json:"attendanceStatus" db:"attendance_status"`
	Notes            string           `json:"notes" db:"notes"`
	RecordedBy       int64            `json:"recordedBy" db:"recorded_by"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
}

// Grade is a graded item for an enrollment
type Grade struct {
	ID           int64     `json:"id" db:"id"`
	EnrollmentID int64     `json:"enrollmentId" db:"enrollment_id"`
	GradeType    GradeType `json:"gradeType" db:"grade_type"`
	Score        float64   `json:"score" db:"score"`
	MaxScore     float64   `json:"maxScore" db:"max_score"`
	Weight       float64   `json:"weight" db:"weight"`
	GradedBy     int64     `json:"gradedBy" db:"graded_by"`
	GradedAt     time.Time `json:"gradedAt" db:"graded_at"`
	Notes        string    `json:"notes" db:"notes"`
}

// TrainingProgress is the one-to-one derived progress record for an
// enrollment. Completion percentage is recomputed from accumulated study
// hours whenever hours change.
type TrainingProgress struct {
	ID                 int64      `json:"id" db:"id"`
	EnrollmentID       int64      `json:"enrollmentId" db:"enrollment_id"`
	TotalHoursRequired float64    `json:"totalHoursRequired" db:"total_hours_required"`
	HoursCompleted     float64    `json:"hoursCompleted" db:"hours_completed"`
	CompletionPercent  float64    `json:"completionPercentage" db:"completion_percentage"`
	LastStudyDate      *time.Time `json:"lastStudyDate,omitempty" db:"last_study_date"`
	UpdatedAt          time.Time  `json:"updatedAt" db:"updated_at"`
}

// Recompute updates the derived fields from the given totals.
func (p *TrainingProgress) Recompute(hoursCompleted float64, lastStudyDate *time.Time) {
	p.HoursCompleted = hoursCompleted
	p.LastStudyDate = lastStudyDate
	if p.TotalHoursRequired > 0 {
		p.CompletionPercent = hoursCompleted / p.TotalHoursRequired * 100
	} else {
		p.CompletionPercent = 0
	}
}
