package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SscSPs/fuel_credit_app/internal/apperrors"
	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_credit_app/internal/core/ports/repositories"
	"github.com/SscSPs/fuel_credit_app/internal/models"
	"github.com/SscSPs/fuel_credit_app/internal/utils/mapping"
)

type userRepo struct {
	db *sql.DB
}

var _ portsrepo.UserRepositoryFacade = (*userRepo)(nil)

const selectUserWithAccount = `
	SELECT u.user_id, u.email, u.password_hash, u.first_name, u.last_name,
	       u.is_verified, u.auth_provider, u.provider_user_id, u.created_at, u.updated_at,
	       a.account_id, a.balance, a.credit_limit, a.status, a.created_at, a.updated_at
	FROM users u
	LEFT JOIN fuel_accounts a ON a.user_id = u.user_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserWithAccount(row rowScanner) (*domain.User, error) {
	var (
		m                          models.UserWithAccount
		createdAt, updatedAt       int64
		accCreatedAt, accUpdatedAt sql.NullInt64
	)
	err := row.Scan(
		&m.UserID,
		&m.Email,
		&m.PasswordHash,
		&m.FirstName,
		&m.LastName,
		&m.IsVerified,
		&m.AuthProvider,
		&m.ProviderUserID,
		&createdAt,
		&updatedAt,
		&m.AccountID,
		&m.Balance,
		&m.CreditLimit,
		&m.Status,
		&accCreatedAt,
		&accUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = fromMillis(createdAt)
	m.UpdatedAt = fromMillis(updatedAt)
	if accCreatedAt.Valid {
		t := fromMillis(accCreatedAt.Int64)
		m.AccountCreatedAt = &t
	}
	if accUpdatedAt.Valid {
		t := fromMillis(accUpdatedAt.Int64)
		m.AccountUpdatedAt = &t
	}
	user := mapping.ToDomainUserWithAccount(m)
	return &user, nil
}

func (r *userRepo) findOne(ctx context.Context, what string, where string, args ...any) (*domain.User, error) {
	user, err := scanUserWithAccount(r.db.QueryRowContext(ctx, selectUserWithAccount+" WHERE "+where, args...))
	if err != nil {
		if err = mapNotFound(err); err == apperrors.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find user by %s: %w", what, err)
	}
	return user, nil
}

func (r *userRepo) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, "ID", "u.user_id = ?", userID)
}

func (r *userRepo) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", "u.email = ?", domain.NormalizeEmail(email))
}

func (r *userRepo) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	return r.findOne(ctx, "provider", "u.auth_provider = ? AND u.provider_user_id = ?", string(provider), providerUserID)
}

func (r *userRepo) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, selectUserWithAccount+" ORDER BY u.created_at, u.user_id LIMIT ? OFFSET ?", limit, offset)
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

func (r *userRepo) CreateUserWithFuelAccount(ctx context.Context, user domain.User, account domain.FuelAccount) error {
	mu := mapping.ToModelUser(user)
	ma := mapping.ToModelFuelAccount(account)

	return withTx(ctx, r.db, func(q querier) error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO users (user_id, email, password_hash, first_name, last_name,
			                   is_verified, auth_provider, provider_user_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			mu.UserID, mu.Email, mu.PasswordHash, mu.FirstName, mu.LastName,
			mu.IsVerified, mu.AuthProvider, mu.ProviderUserID, toMillis(mu.CreatedAt), toMillis(mu.UpdatedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.ErrDuplicate
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}

		_, err = q.ExecContext(ctx, `
			INSERT INTO fuel_accounts (account_id, user_id, balance, credit_limit, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ma.AccountID, ma.UserID, ma.Balance.StringFixed(2), ma.CreditLimit.StringFixed(2), ma.Status,
			toMillis(ma.CreatedAt), toMillis(ma.UpdatedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.ErrDuplicate
			}
			return fmt.Errorf("failed to insert fuel account: %w", err)
		}
		return nil
	})
}

func (r *userRepo) LinkProvider(ctx context.Context, userID string, provider domain.AuthProvider, providerUserID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET auth_provider = ?, provider_user_id = ?, is_verified = 1, updated_at = ?
		WHERE user_id = ?`,
		string(provider), providerUserID, toMillis(time.Now()), userID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to link provider for user %s: %w", userID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
