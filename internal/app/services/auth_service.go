package services

import (
	"context"
	"errors"
	"time"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
	"github.com/denizt/traincenter/internal/pkg/auth"
	"github.com/denizt/traincenter/internal/pkg/logger"
)

// ITokenRepository defines the refresh token persistence operations
type ITokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForAccount(ctx context.Context, accountID int64) error
}

// AuthService handles login, token refresh and password changes
type AuthService struct {
	accountRepo IAccountRepository
	tokenRepo   ITokenRepository
	jwtService  *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(accountRepo IAccountRepository, tokenRepo ITokenRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		jwtService:  jwtService,
	}
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	account, err := s.accountRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(account.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !account.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	return s.issueTokens(ctx, account)
}

// RefreshToken rotates a refresh token: the presented token is revoked and
// a fresh pair is issued.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if stored.Revoked {
		return nil, apperrors.ErrTokenInvalid
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}

	account, err := s.accountRepo.GetByID(ctx, stored.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, account)
}

// Logout revokes every live refresh token of the account
func (s *AuthService) Logout(ctx context.Context, accountID int64) error {
	return s.tokenRepo.RevokeAllForAccount(ctx, accountID)
}

// ChangePassword verifies the old password and replaces it. All refresh
// tokens of the account are revoked afterwards.
func (s *AuthService) ChangePassword(ctx context.Context, accountID int64, req dto.ChangePasswordRequest) error {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(account.Password, req.OldPassword) {
		return apperrors.ErrInvalidCredentials
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.accountRepo.UpdatePassword(ctx, accountID, passwordHash); err != nil {
		return err
	}

	if err := s.tokenRepo.RevokeAllForAccount(ctx, accountID); err != nil {
		logger.Warn().Err(err).Int64("accountId", accountID).Msg("Failed to revoke refresh tokens after password change")
	}

	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, account *models.Account) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(
		account.ID, account.Username, string(account.Role))
	if err != nil {
		return nil, err
	}

	stored := &models.RefreshToken{
		AccountID: account.ID,
		Token:     refreshToken,
		ExpiresAt: s.jwtService.GetRefreshTokenExpiry(),
	}
	if err := s.tokenRepo.Create(ctx, stored); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		Account:          account,
	}, nil
}
