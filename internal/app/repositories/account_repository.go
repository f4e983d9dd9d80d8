package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
	"github.com/denizt/traincenter/internal/pkg/dberrors"
)

// AccountRepository handles database operations for accounts
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = "id, username, email, password, first_name, last_name, phone, role, is_active, created_at, updated_at"

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.Password,
		&a.FirstName,
		&a.LastName,
		&a.Phone,
		&a.Role,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new account and sets its generated ID
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (username, email, password, first_name, last_name, phone, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		account.Username,
		account.Email,
		account.Password,
		account.FirstName,
		account.LastName,
		account.Phone,
		account.Role,
		account.IsActive,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrUsernameAlreadyExists
		}
		return fmt.Errorf("error creating account: %w", err)
	}

	return nil
}

// CreateTx inserts a new account within an existing transaction
func (r *AccountRepository) CreateTx(ctx context.Context, tx pgx.Tx, account *models.Account) error {
	query := `
		INSERT INTO accounts (username, email, password, first_name, last_name, phone, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := tx.QueryRow(ctx, query,
		account.Username,
		account.Email,
		account.Password,
		account.FirstName,
		account.LastName,
		account.Phone,
		account.Role,
		account.IsActive,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrUsernameAlreadyExists
		}
		return fmt.Errorf("error creating account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM accounts WHERE id = $1", accountColumns)

	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("error querying account: %w", err)
	}

	return account, nil
}

// GetByUsername retrieves an account by its login name
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM accounts WHERE username = $1", accountColumns)

	account, err := scanAccount(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("error querying account: %w", err)
	}

	return account, nil
}

// UsernameExists checks whether a username is already taken
func (r *AccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM accounts WHERE username = $1)", username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return exists, nil
}

// List retrieves accounts with optional role filtering and pagination
func (r *AccountRepository) List(ctx context.Context, role *models.Role, page, pageSize int) ([]*models.Account, int64, error) {
	countQuery := squirrel.Select("COUNT(*)").
		From("accounts").
		PlaceholderFormat(squirrel.Dollar)
	listQuery := squirrel.Select(
		"id", "username", "email", "password", "first_name", "last_name",
		"phone", "role", "is_active", "created_at", "updated_at").
		From("accounts").
		PlaceholderFormat(squirrel.Dollar)

	if role != nil {
		countQuery = countQuery.Where(squirrel.Eq{"role": *role})
		listQuery = listQuery.Where(squirrel.Eq{"role": *role})
	}

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting accounts: %w", err)
	}

	offset := (page - 1) * pageSize
	listQuery = listQuery.OrderBy("id").Limit(uint64(pageSize)).Offset(uint64(offset))

	sql, args, err = listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		accounts = append(accounts, account)
	}

	return accounts, total, nil
}

// Update applies a partial update to an account
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET email = $1, first_name = $2, last_name = $3, phone = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6`

	tag, err := r.db.Exec(ctx, query,
		account.Email,
		account.FirstName,
		account.LastName,
		account.Phone,
		account.IsActive,
		account.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}

// UpdatePassword replaces the stored password hash
func (r *AccountRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE accounts SET password = $1, updated_at = NOW() WHERE id = $2", passwordHash, id)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// Delete removes an account. Dependent rows cascade at the database level.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}
