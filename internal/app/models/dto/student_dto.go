package dto

// CreateStudentRequest creates a student together with its account. Either
// AccountID references an existing account, or the inline identity fields
// (FirstName at minimum) are used to provision a new one.
type CreateStudentRequest struct {
	StudentID      string `json:"studentId" binding:"required,max=50"`
	Department     string `json:"department" binding:"max=200"`
	Grade          string `json:"grade" binding:"max=100"`
	EnrollmentDate string `json:"enrollmentDate" binding:"omitempty,datetime=2006-01-02"`
	GraduationDate string `json:"graduationDate" binding:"omitempty,datetime=2006-01-02"`
	Status         string `json:"status"`

	AccountID *int64 `json:"accountId"`

	FirstName string `json:"firstName" binding:"required_without=AccountID"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
}

// UpdateStudentRequest updates mutable student fields
type UpdateStudentRequest struct {
	Department     *string `json:"department" binding:"omitempty,max=200"`
	Grade          *string `json:"grade" binding:"omitempty,max=100"`
	EnrollmentDate *string `json:"enrollmentDate" binding:"omitempty,datetime=2006-01-02"`
	GraduationDate *string `json:"graduationDate" binding:"omitempty,datetime=2006-01-02"`
	Status         *string `json:"status" binding:"omitempty,oneof=active graduated suspended dropped"`
}

// StudentListFilter carries the supported student list filters
type StudentListFilter struct {
	Search     string
	Status     string
	Department string
	Page       int
	PageSize   int
}

// UpdateContactRequest populates the contact stub created with the student
type UpdateContactRequest struct {
	EmergencyContact string `json:"emergencyContact" binding:"max=100"`
	EmergencyPhone   string `json:"emergencyPhone" binding:"max=20"`
	Address          string `json:"address"`
	ParentName       string `json:"parentName" binding:"max=100"`
	ParentPhone      string `json:"parentPhone" binding:"max=20"`
}

// CreateAchievementRequest records an achievement for a student
type CreateAchievementRequest struct {
	AchievementType string `json:"achievementType" form:"achievementType" binding:"required,oneof=academic sports art other"`
	Title           string `json:"title" form:"title" binding:"required,max=200"`
	Description     string `json:"description" form:"description"`
	DateAchieved    string `json:"dateAchieved" form:"dateAchieved" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateAchievementRequest partially updates an achievement
type UpdateAchievementRequest struct {
	AchievementType *string `json:"achievementType" binding:"omitempty,oneof=academic sports art other"`
	Title           *string `json:"title" binding:"omitempty,max=200"`
	Description     *string `json:"description"`
	DateAchieved    *string `json:"dateAchieved" binding:"omitempty,datetime=2006-01-02"`
}

// UpdatePhotoRequest patches photo metadata, notably the primary flag
type UpdatePhotoRequest struct {
	Description *string `json:"description" binding:"omitempty,max=200"`
	IsPrimary   *bool   `json:"isPrimary"`
}

// StudentStatsResponse is the student statistics summary
type StudentStatsResponse struct {
	TotalStudents     int64 `json:"total_students"`
	ActiveStudents    int64 `json:"active_students"`
	GraduatedStudents int64 `json:"graduated_students"`
}
