package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/fuel_credit_app/internal/apperrors"
	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_credit_app/internal/core/ports/repositories"
	"github.com/SscSPs/fuel_credit_app/internal/models"
	"github.com/SscSPs/fuel_credit_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const selectUserWithAccount = `
	SELECT u.user_id, u.email, u.password_hash, u.first_name, u.last_name,
	       u.is_verified, u.auth_provider, u.provider_user_id, u.created_at, u.updated_at,
	       a.account_id, a.balance, a.credit_limit, a.status, a.created_at, a.updated_at
	FROM users u
	LEFT JOIN fuel_accounts a ON a.user_id = u.user_id`

func scanUserWithAccount(row pgx.Row) (*domain.User, error) {
	var m models.UserWithAccount
	err := row.Scan(
		&m.UserID,
		&m.Email,
		&m.PasswordHash,
		&m.FirstName,
		&m.LastName,
		&m.IsVerified,
		&m.AuthProvider,
		&m.ProviderUserID,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.AccountID,
		&m.Balance,
		&m.CreditLimit,
		&m.Status,
		&m.AccountCreatedAt,
		&m.AccountUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user := mapping.ToDomainUserWithAccount(m)
	return &user, nil
}

func (r *PgxUserRepository) findOne(ctx context.Context, what string, where string, args ...any) (*domain.User, error) {
	user, err := scanUserWithAccount(r.Pool.QueryRow(ctx, selectUserWithAccount+" WHERE "+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by %s: %w", what, err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, "ID", "u.user_id::text = $1", userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", "u.email = $1", domain.NormalizeEmail(email))
}

func (r *PgxUserRepository) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	return r.findOne(ctx, "provider", "u.auth_provider = $1 AND u.provider_user_id = $2", string(provider), providerUserID)
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.Pool.Query(ctx, selectUserWithAccount+" ORDER BY u.created_at, u.user_id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUserWithAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (r *PgxUserRepository) CreateUserWithFuelAccount(ctx context.Context, user domain.User, account domain.FuelAccount) error {
	mu := mapping.ToModelUser(user)
	ma := mapping.ToModelFuelAccount(account)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO users (user_id, email, password_hash, first_name, last_name,
		                   is_verified, auth_provider, provider_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		mu.UserID, mu.Email, mu.PasswordHash, mu.FirstName, mu.LastName,
		mu.IsVerified, mu.AuthProvider, mu.ProviderUserID, mu.CreatedAt, mu.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO fuel_accounts (account_id, user_id, balance, credit_limit, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ma.AccountID, ma.UserID, ma.Balance, ma.CreditLimit, ma.Status, ma.CreatedAt, ma.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert fuel account: %w", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxUserRepository) LinkProvider(ctx context.Context, userID string, provider domain.AuthProvider, providerUserID string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE users
		SET auth_provider = $2, provider_user_id = $3, is_verified = TRUE, updated_at = NOW()
		WHERE user_id::text = $1`,
		userID, string(provider), providerUserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to link provider for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
