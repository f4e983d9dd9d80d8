package models

// Role defines the account role tag
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// StudentStatus is the lifecycle status of a student
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusGraduated StudentStatus = "graduated"
	StudentStatusSuspended StudentStatus = "suspended"
	StudentStatusDropped   StudentStatus = "dropped"
)

// studentStatusLabels maps internal status codes to the localized display
// labels used in spreadsheet import/export.
var studentStatusLabels = map[StudentStatus]string{
	StudentStatusActive:    "在读",
	StudentStatusGraduated: "已毕业",
	StudentStatusSuspended: "休学",
	StudentStatusDropped:   "退学",
}

var studentStatusByLabel = func() map[string]StudentStatus {
	m := make(map[string]StudentStatus, len(studentStatusLabels)*2)
	for status, label := range studentStatusLabels {
		m[label] = status
		m[string(status)] = status
	}
	return m
}()

// Label returns the localized display label for a status.
func (s StudentStatus) Label() string {
	if label, ok := studentStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseStudentStatus maps a localized label or canonical code to a status.
// Unrecognized input maps to the active status; spreadsheet imports are
// deliberately lenient here rather than failing the row.
func ParseStudentStatus(s string) StudentStatus {
	if status, ok := studentStatusByLabel[s]; ok {
		return status
	}
	return StudentStatusActive
}

// AchievementType classifies student achievements
type AchievementType string

const (
	AchievementAcademic AchievementType = "academic"
	AchievementSports   AchievementType = "sports"
	AchievementArt      AchievementType = "art"
	AchievementOther    AchievementType = "other"
)

// DifficultyLevel classifies courses
type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// ScheduleStatus is the lifecycle status of a course schedule
type ScheduleStatus string

const (
	ScheduleStatusScheduled  ScheduleStatus = "scheduled"
	ScheduleStatusInProgress ScheduleStatus = "in_progress"
	ScheduleStatusCompleted  ScheduleStatus = "completed"
	ScheduleStatusCancelled  ScheduleStatus = "cancelled"
)

// EnrollmentStatus is the lifecycle status of an enrollment
type EnrollmentStatus string

const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
)

// AttendanceStatus classifies a study-hour record
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// GradeType classifies a grade record
type GradeType string

const (
	GradeHomework GradeType = "homework"
	GradeQuiz     GradeType = "quiz"
	GradeExam     GradeType = "exam"
	GradeFinal    GradeType = "final"
)
