package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/services"
	"github.com/denizt/traincenter/internal/db"
	"github.com/denizt/traincenter/internal/middleware"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
)

// stubAccountRepo serves a single account by ID
type stubAccountRepo struct {
	account *models.Account
}

func (s *stubAccountRepo) Create(ctx context.Context, account *models.Account) error { return nil }

func (s *stubAccountRepo) CreateTx(ctx context.Context, tx pgx.Tx, account *models.Account) error {
	return nil
}

func (s *stubAccountRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	if s.account == nil || s.account.ID != id {
		return nil, apperrors.ErrAccountNotFound
	}
	return s.account, nil
}

func (s *stubAccountRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return nil, apperrors.ErrAccountNotFound
}

func (s *stubAccountRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func (s *stubAccountRepo) List(ctx context.Context, role *models.Role, page, pageSize int) ([]*models.Account, int64, error) {
	return nil, 0, nil
}

func (s *stubAccountRepo) Update(ctx context.Context, account *models.Account) error { return nil }

func (s *stubAccountRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return nil
}

func (s *stubAccountRepo) Delete(ctx context.Context, id int64) error { return nil }

// newProfileRouter mounts GetCurrentAccount behind a middleware that mimics
// what the JWT layer puts on the context. A nil accountID leaves the context
// without claims.
func newProfileRouter(repo services.IAccountRepository, accountID *int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	runTx := func(ctx context.Context, fn db.TransactionFn) error { return fn(ctx, nil) }
	ctrl := NewAccountController(services.NewAccountService(repo, runTx))

	router := gin.New()
	router.GET("/api/v1/auth/me", func(ctx *gin.Context) {
		if accountID != nil {
			ctx.Set(middleware.ContextAccountID, *accountID)
		}
		ctx.Next()
	}, ctrl.GetCurrentAccount)
	return router
}

func TestGetCurrentAccount(t *testing.T) {
	t.Run("returns the authenticated account", func(t *testing.T) {
		account := &models.Account{ID: 7, Username: "zhang_wei", Role: models.RoleStudent}
		id := account.ID
		router := newProfileRouter(&stubAccountRepo{account: account}, &id)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}

		var body struct {
			Data models.Account `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body.Data.ID != 7 || body.Data.Username != "zhang_wei" {
			t.Errorf("got account %d/%q, want 7/%q", body.Data.ID, body.Data.Username, "zhang_wei")
		}
	})

	t.Run("missing claims yield 401", func(t *testing.T) {
		router := newProfileRouter(&stubAccountRepo{}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("deleted account yields 404", func(t *testing.T) {
		id := int64(42)
		router := newProfileRouter(&stubAccountRepo{}, &id)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}
