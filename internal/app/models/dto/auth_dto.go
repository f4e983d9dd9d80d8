package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries an opaque refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ChangePasswordRequest updates the current account's password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// TokenResponse is returned by login and refresh
type TokenResponse struct {
	AccessToken      string      `json:"access"`
	RefreshToken     string      `json:"refresh"`
	ExpiresIn        int         `json:"expiresIn"`
	RefreshExpiresIn int         `json:"refreshExpiresIn"`
	Account          interface{} `json:"user,omitempty"`
}
