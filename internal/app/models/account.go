package models

import "time"

// Account defines the account model based on the 'accounts' table
type Account struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Username  string    `json:"username" db:"username" example:"student_S2023001"` // Unique login name
	Email     string    `json:"email" db:"email" example:"student_S2023001@example.com"`
	Password  string    `json:"-" db:"password"` // Hashed password (excluded from JSON)
	FirstName string    `json:"firstName" db:"first_name" example:"伟"`
	LastName  string    `json:"lastName" db:"last_name" example:"张"`
	Phone     string    `json:"phone" db:"phone" example:"13800138000"`
	Role      Role      `json:"role" db:"role" example:"student"`
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"` // Deactivation is a toggle, never a row removal
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// RefreshToken is a persisted opaque refresh token for an account
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	AccountID int64     `json:"accountId" db:"account_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
