package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
	"github.com/denizt/traincenter/internal/pkg/auth"
)

type fakeTokenRepo struct {
	byToken map[string]*models.RefreshToken
	revoked []string
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byToken: make(map[string]*models.RefreshToken)}
}

func (f *fakeTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	f.byToken[token.Token] = token
	return nil
}

func (f *fakeTokenRepo) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := f.byToken[token]
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}
	return stored, nil
}

func (f *fakeTokenRepo) Revoke(ctx context.Context, token string) error {
	stored, ok := f.byToken[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	stored.Revoked = true
	f.revoked = append(f.revoked, token)
	return nil
}

func (f *fakeTokenRepo) RevokeAllForAccount(ctx context.Context, accountID int64) error {
	for _, stored := range f.byToken {
		if stored.AccountID == accountID {
			stored.Revoked = true
			f.revoked = append(f.revoked, stored.Token)
		}
	}
	return nil
}

func newAuthServiceForTest() (*AuthService, *fakeAccountRepo, *fakeTokenRepo) {
	accountRepo := newFakeAccountRepo()
	tokenRepo := newFakeTokenRepo()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
	return NewAuthService(accountRepo, tokenRepo, jwtService), accountRepo, tokenRepo
}

func addAccountWithPassword(t *testing.T, repo *fakeAccountRepo, username, password string, active bool) *models.Account {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return repo.add(&models.Account{
		Username: username,
		Password: hash,
		Role:     models.RoleStudent,
		IsActive: active,
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials issue a token pair", func(t *testing.T) {
		svc, accountRepo, tokenRepo := newAuthServiceForTest()
		addAccountWithPassword(t, accountRepo, "zhang_wei", "secret123", true)

		tokens, err := svc.Login(context.Background(), dto.LoginRequest{
			Username: "zhang_wei",
			Password: "secret123",
		})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if tokens.AccessToken == "" || tokens.RefreshToken == "" {
			t.Error("expected both tokens issued")
		}
		if _, ok := tokenRepo.byToken[tokens.RefreshToken]; !ok {
			t.Error("refresh token was not persisted")
		}
	})

	t.Run("unknown user maps to invalid credentials", func(t *testing.T) {
		svc, _, _ := newAuthServiceForTest()

		_, err := svc.Login(context.Background(), dto.LoginRequest{
			Username: "nobody",
			Password: "whatever1",
		})
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, accountRepo, _ := newAuthServiceForTest()
		addAccountWithPassword(t, accountRepo, "zhang_wei", "secret123", true)

		_, err := svc.Login(context.Background(), dto.LoginRequest{
			Username: "zhang_wei",
			Password: "wrong-password",
		})
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("disabled account", func(t *testing.T) {
		svc, accountRepo, _ := newAuthServiceForTest()
		addAccountWithPassword(t, accountRepo, "zhang_wei", "secret123", false)

		_, err := svc.Login(context.Background(), dto.LoginRequest{
			Username: "zhang_wei",
			Password: "secret123",
		})
		if !errors.Is(err, apperrors.ErrAccountDisabled) {
			t.Fatalf("Login() error = %v, want ErrAccountDisabled", err)
		}
	})
}

func TestRefreshToken(t *testing.T) {
	t.Run("rotation revokes the presented token", func(t *testing.T) {
		svc, accountRepo, tokenRepo := newAuthServiceForTest()
		addAccountWithPassword(t, accountRepo, "zhang_wei", "secret123", true)

		tokens, err := svc.Login(context.Background(), dto.LoginRequest{
			Username: "zhang_wei",
			Password: "secret123",
		})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)
		if err != nil {
			t.Fatalf("RefreshToken() error = %v", err)
		}
		if refreshed.RefreshToken == tokens.RefreshToken {
			t.Error("expected a fresh refresh token")
		}
		if !tokenRepo.byToken[tokens.RefreshToken].Revoked {
			t.Error("presented token should be revoked")
		}

		// The revoked token must not work a second time
		if _, err := svc.RefreshToken(context.Background(), tokens.RefreshToken); !errors.Is(err, apperrors.ErrTokenInvalid) {
			t.Fatalf("reused token error = %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		svc, accountRepo, tokenRepo := newAuthServiceForTest()
		account := addAccountWithPassword(t, accountRepo, "zhang_wei", "secret123", true)

		tokenRepo.byToken["stale"] = &models.RefreshToken{
			AccountID: account.ID,
			Token:     "stale",
			ExpiresAt: time.Now().Add(-time.Hour),
		}

		_, err := svc.RefreshToken(context.Background(), "stale")
		if !errors.Is(err, apperrors.ErrTokenExpired) {
			t.Fatalf("RefreshToken() error = %v, want ErrTokenExpired", err)
		}
	})
}

func TestChangePassword(t *testing.T) {
	svc, accountRepo, tokenRepo := newAuthServiceForTest()
	account := addAccountWithPassword(t, accountRepo, "zhang_wei", "secret123", true)
	tokenRepo.byToken["live"] = &models.RefreshToken{
		AccountID: account.ID,
		Token:     "live",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	t.Run("wrong old password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), account.ID, dto.ChangePasswordRequest{
			OldPassword: "wrong",
			NewPassword: "newsecret1",
		})
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Fatalf("ChangePassword() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("success revokes live tokens", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), account.ID, dto.ChangePasswordRequest{
			OldPassword: "secret123",
			NewPassword: "newsecret1",
		})
		if err != nil {
			t.Fatalf("ChangePassword() error = %v", err)
		}

		if !auth.CheckPassword(account.Password, "newsecret1") {
			t.Error("new password does not verify")
		}
		if !tokenRepo.byToken["live"].Revoked {
			t.Error("live refresh tokens should be revoked after a password change")
		}
	})
}
