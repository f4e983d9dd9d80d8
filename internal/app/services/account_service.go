package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
	"github.com/denizt/traincenter/internal/pkg/auth"
	"github.com/denizt/traincenter/internal/pkg/helpers"
	"github.com/denizt/traincenter/internal/pkg/logger"
)

// IAccountRepository defines the account persistence operations the service
// depends on
type IAccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	CreateTx(ctx context.Context, tx pgx.Tx, account *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, role *models.Role, page, pageSize int) ([]*models.Account, int64, error)
	Update(ctx context.Context, account *models.Account) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// ProvisionParams describes the identity to provision an account for. When
// Username is empty the fallback derived from the owner's business key is
// used as the base name.
type ProvisionParams struct {
	Username         string
	FallbackUsername string
	Email            string
	FirstName        string
	LastName         string
	Phone            string
	Role             models.Role
}

// AccountService manages accounts and provisions new ones for students and
// teachers
type AccountService struct {
	accountRepo IAccountRepository
	runTx       TxRunner
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo IAccountRepository, runTx TxRunner) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		runTx:       runTx,
	}
}

// maxProvisionAttempts bounds the rerun loop when a concurrent insert claims
// a resolved username between the existence check and the commit.
const maxProvisionAttempts = 3

// retryUsernameConflict reruns create while it loses the race for a resolved
// username. A unique violation aborts the whole transaction, so each rerun
// starts a fresh one and resolves names again, now seeing the row that won
// the previous round.
func retryUsernameConflict(create func() error) error {
	var err error
	for attempt := 0; attempt < maxProvisionAttempts; attempt++ {
		err = create()
		if !errors.Is(err, apperrors.ErrUsernameAlreadyExists) {
			return err
		}
	}
	return err
}

// ResolveUsername picks a unique login name. The requested name is used
// as-is when free; otherwise numeric suffixes are appended until a free
// name is found (name, name_1, name_2, ...).
func (s *AccountService) ResolveUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		exists, err := s.accountRepo.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
}

// ProvisionAccountTx creates an account for a student or teacher record
// within the caller's transaction. Missing identity fields are synthesized:
// the username from the fallback base, the email from the resolved
// username, and the password from a random placeholder.
func (s *AccountService) ProvisionAccountTx(ctx context.Context, tx pgx.Tx, params ProvisionParams) (*models.Account, error) {
	base := params.Username
	if base == "" {
		base = params.FallbackUsername
	}

	username, err := s.ResolveUsername(ctx, base)
	if err != nil {
		return nil, err
	}

	email := params.Email
	if email == "" {
		email = username + "@example.com"
	}

	passwordHash, err := auth.GeneratePlaceholderPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder password: %w", err)
	}

	account := &models.Account{
		Username:  username,
		Email:     email,
		Password:  passwordHash,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Phone:     params.Phone,
		Role:      params.Role,
		IsActive:  true,
	}

	if err := s.accountRepo.CreateTx(ctx, tx, account); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("username", username).
		Str("role", string(params.Role)).
		Msg("Provisioned account")

	return account, nil
}

// CreateAccount creates an account directly with explicit credentials
func (s *AccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*models.Account, error) {
	exists, err := s.accountRepo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrUsernameAlreadyExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleStudent
	}

	account := &models.Account{
		Username:  req.Username,
		Email:     req.Email,
		Password:  passwordHash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      role,
		IsActive:  true,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID
func (s *AccountService) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// ListAccounts retrieves accounts with optional role filtering
func (s *AccountService) ListAccounts(ctx context.Context, role string, page, pageSize int) ([]*models.Account, *dto.PaginationInfo, error) {
	var roleFilter *models.Role
	if role != "" {
		r := models.Role(role)
		roleFilter = &r
	}

	accounts, total, err := s.accountRepo.List(ctx, roleFilter, page, pageSize)
	if err != nil {
		return nil, nil, err
	}

	pagination := helpers.NewPaginationInfo(total, page, pageSize)
	return accounts, &pagination, nil
}

// UpdateAccount applies a partial update to an account
func (s *AccountService) UpdateAccount(ctx context.Context, id int64, req dto.UpdateAccountRequest) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		account.Email = *req.Email
	}
	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		account.LastName = *req.LastName
	}
	if req.Phone != nil {
		account.Phone = *req.Phone
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// DeleteAccount removes an account and, through cascades, everything it
// owns
func (s *AccountService) DeleteAccount(ctx context.Context, id int64) error {
	return s.accountRepo.Delete(ctx, id)
}
