package services

import (
	"context"
	"errors"
	"testing"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
)

func TestResolveUsername(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		base     string
		want     string
	}{
		{
			name: "free name is used as-is",
			base: "zhang_wei",
			want: "zhang_wei",
		},
		{
			name:     "taken name gets first suffix",
			existing: []string{"zhang_wei"},
			base:     "zhang_wei",
			want:     "zhang_wei_1",
		},
		{
			name:     "suffixes skip over taken candidates",
			existing: []string{"s1", "s1_1"},
			base:     "s1",
			want:     "s1_2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeAccountRepo()
			for _, username := range tt.existing {
				repo.add(&models.Account{Username: username, Role: models.RoleStudent})
			}

			svc := NewAccountService(repo, passthroughTx)
			got, err := svc.ResolveUsername(context.Background(), tt.base)
			if err != nil {
				t.Fatalf("ResolveUsername() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveUsername() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProvisionAccountTx(t *testing.T) {
	t.Run("synthesizes identity from fallback", func(t *testing.T) {
		repo := newFakeAccountRepo()
		svc := NewAccountService(repo, passthroughTx)

		account, err := svc.ProvisionAccountTx(context.Background(), nil, ProvisionParams{
			FallbackUsername: "student_S2023001",
			FirstName:        "伟",
			Role:             models.RoleStudent,
		})
		if err != nil {
			t.Fatalf("ProvisionAccountTx() error = %v", err)
		}

		if account.Username != "student_S2023001" {
			t.Errorf("username = %q, want %q", account.Username, "student_S2023001")
		}
		if account.Email != "student_S2023001@example.com" {
			t.Errorf("email = %q, want synthesized from username", account.Email)
		}
		if account.Password == "" {
			t.Error("expected a placeholder password hash")
		}
		if !account.IsActive {
			t.Error("provisioned account should be active")
		}
	})

	t.Run("prefers explicit username and email", func(t *testing.T) {
		repo := newFakeAccountRepo()
		svc := NewAccountService(repo, passthroughTx)

		account, err := svc.ProvisionAccountTx(context.Background(), nil, ProvisionParams{
			Username:         "custom_name",
			FallbackUsername: "student_S2023002",
			Email:            "me@school.cn",
			Role:             models.RoleStudent,
		})
		if err != nil {
			t.Fatalf("ProvisionAccountTx() error = %v", err)
		}

		if account.Username != "custom_name" {
			t.Errorf("username = %q, want %q", account.Username, "custom_name")
		}
		if account.Email != "me@school.cn" {
			t.Errorf("email = %q, want explicit value kept", account.Email)
		}
	})

	t.Run("deduplicates against existing accounts", func(t *testing.T) {
		repo := newFakeAccountRepo()
		repo.add(&models.Account{Username: "student_S1", Role: models.RoleStudent})
		svc := NewAccountService(repo, passthroughTx)

		account, err := svc.ProvisionAccountTx(context.Background(), nil, ProvisionParams{
			FallbackUsername: "student_S1",
			Role:             models.RoleStudent,
		})
		if err != nil {
			t.Fatalf("ProvisionAccountTx() error = %v", err)
		}

		if account.Username != "student_S1_1" {
			t.Errorf("username = %q, want deduplicated %q", account.Username, "student_S1_1")
		}
		if account.Email != "student_S1_1@example.com" {
			t.Errorf("email = %q, want it derived from the resolved name", account.Email)
		}
	})
}

func TestCreateAccount(t *testing.T) {
	t.Run("duplicate username is rejected", func(t *testing.T) {
		repo := newFakeAccountRepo()
		repo.add(&models.Account{Username: "admin", Role: models.RoleAdmin})
		svc := NewAccountService(repo, passthroughTx)

		_, err := svc.CreateAccount(context.Background(), dto.CreateAccountRequest{
			Username: "admin",
			Password: "secret123",
		})
		if !errors.Is(err, apperrors.ErrUsernameAlreadyExists) {
			t.Fatalf("CreateAccount() error = %v, want ErrUsernameAlreadyExists", err)
		}
	})

	t.Run("role defaults to student", func(t *testing.T) {
		repo := newFakeAccountRepo()
		svc := NewAccountService(repo, passthroughTx)

		account, err := svc.CreateAccount(context.Background(), dto.CreateAccountRequest{
			Username: "newuser",
			Password: "secret123",
		})
		if err != nil {
			t.Fatalf("CreateAccount() error = %v", err)
		}
		if account.Role != models.RoleStudent {
			t.Errorf("role = %q, want %q", account.Role, models.RoleStudent)
		}
		if account.Password == "secret123" {
			t.Error("password should be stored hashed")
		}
	})
}
