package models

import "time"

// Teacher defines the teacher model based on the 'teachers' table. Like
// students, every teacher owns exactly one Account.
type Teacher struct {
	ID                int64     `json:"id" db:"id"`
	AccountID         int64     `json:"accountId" db:"account_id"`
	TeacherID         string    `json:"teacherId" db:"teacher_id" example:"T2023001"` // Business key, globally unique
	Title             string    `json:"title" db:"title"`
	Department        string    `json:"department" db:"department"`
	Expertise         string    `json:"expertise" db:"expertise"`
	Introduction      string    `json:"introduction" db:"introduction"`
	YearsOfExperience int       `json:"yearsOfExperience" db:"years_of_experience"`
	IsActive          bool      `json:"isActive" db:"is_active"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`

	Account *Account `json:"account,omitempty"`
}
