package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/repositories"
	"github.com/denizt/traincenter/internal/pkg/auth"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// CreateDefaultData creates the default admin account if it doesn't exist.
// The password should be changed after the first login.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	accountRepo := repositories.NewAccountRepository(dbPool)

	exists, err := accountRepo.UsernameExists(ctx, defaultAdminUsername)
	if err != nil {
		return err
	}
	if exists {
		lgr.Debug().Msg("Default admin account already present")
		return nil
	}

	hashed, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.Account{
		Username:  defaultAdminUsername,
		Email:     defaultAdminUsername + "@example.com",
		Password:  hashed,
		FirstName: "System",
		LastName:  "Admin",
		Role:      models.RoleAdmin,
		IsActive:  true,
	}
	if err := accountRepo.Create(ctx, admin); err != nil {
		return err
	}

	lgr.Info().Str("username", defaultAdminUsername).Msg("Default admin account created")
	return nil
}
