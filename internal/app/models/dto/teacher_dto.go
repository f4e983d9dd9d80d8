package dto

// CreateTeacherRequest creates a teacher together with its account, with the
// same explicit-account-or-inline-identity choice as student creation.
type CreateTeacherRequest struct {
	TeacherID         string `json:"teacherId" binding:"required,max=50"`
	Title             string `json:"title" binding:"max=100"`
	Department        string `json:"department" binding:"max=200"`
	Expertise         string `json:"expertise"`
	Introduction      string `json:"introduction"`
	YearsOfExperience int    `json:"yearsOfExperience" binding:"min=0"`

	AccountID *int64 `json:"accountId"`

	FirstName string `json:"firstName" binding:"required_without=AccountID"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
}

// UpdateTeacherRequest updates mutable teacher fields
type UpdateTeacherRequest struct {
	Title             *string `json:"title" binding:"omitempty,max=100"`
	Department        *string `json:"department" binding:"omitempty,max=200"`
	Expertise         *string `json:"expertise"`
	Introduction      *string `json:"introduction"`
	YearsOfExperience *int    `json:"yearsOfExperience" binding:"omitempty,min=0"`
	IsActive          *bool   `json:"isActive"`
}
