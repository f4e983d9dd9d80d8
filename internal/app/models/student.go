package models

import "time"

// Student defines the student model based on the 'students' table. Every
// student owns exactly one Account; deleting the student cascades to the
// account's dependent rows.
type Student struct {
	ID             int64         `json:"id" db:"id"`
	AccountID      int64         `json:"accountId" db:"account_id"`
	StudentID      string        `json:"studentId" db:"student_id" example:"S2023001"` // Business key, globally unique
	Department     string        `json:"department" db:"department"`
	Grade          string        `json:"grade" db:"grade"`
	EnrollmentDate *time.Time    `json:"enrollmentDate,omitempty" db:"enrollment_date"`
	GraduationDate *time.Time    `json:"graduationDate,omitempty" db:"graduation_date"`
	Status         StudentStatus `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Account      *Account             `json:"account,omitempty"`
	Contact      *StudentContact      `json:"contactInfo,omitempty"`
	Achievements []*StudentAchievement `json:"achievements,omitempty"`
	Photos       []*StudentPhoto      `json:"photos,omitempty"`
}

// StudentContact is the one-to-one contact record for a student. It is
// created as an empty stub alongside the student and populated later.
type StudentContact struct {
	ID               int64  `json:"id" db:"id"`
	StudentID        int64  `json:"studentId" db:"student_id"`
	EmergencyContact string `json:"emergencyContact" db:"emergency_contact"`
	EmergencyPhone   string `json:"emergencyPhone" db:"emergency_phone"`
	Address          string `json:"address" db:"address"`
	ParentName       string `json:"parentName" db:"parent_name"`
	ParentPhone      string `json:"parentPhone" db:"parent_phone"`
}

// StudentAchievement is a many-to-one child of Student
type StudentAchievement struct {
	ID              int64           `json:"id" db:"id"`
	StudentID       int64           `json:"studentId" db:"student_id"`
	AchievementType AchievementType `json:"achievementType" db:"achievement_type"`
	Title           string          `json:"title" db:"title"`
	Description     string          `json:"description" db:"description"`
	DateAchieved    *time.Time      `json:"dateAchieved,omitempty" db:"date_achieved"`
	CertificateURL  string          `json:"certificateUrl,omitempty" db:"certificate_url"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

// StudentPhoto is a many-to-one child of Student. At most one photo per
// student may have IsPrimary set.
type StudentPhoto struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	PhotoURL    string    `json:"photoUrl" db:"photo_url"`
	Description string    `json:"description" db:"description"`
	IsPrimary   bool      `json:"isPrimary" db:"is_primary"`
	UploadedAt  time.Time `json:"uploadedAt" db:"uploaded_at"`
}
