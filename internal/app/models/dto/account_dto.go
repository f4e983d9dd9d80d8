package dto

// CreateAccountRequest creates an account directly (administrator path)
type CreateAccountRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Password  string `json:"password" binding:"required,min=8"`
	Email     string `json:"email" binding:"omitempty,email"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
	Role      string `json:"role" binding:"omitempty,oneof=admin teacher student"`
}

// UpdateAccountRequest updates mutable account fields
type UpdateAccountRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone" binding:"omitempty,max=20"`
	IsActive  *bool   `json:"isActive"`
}
