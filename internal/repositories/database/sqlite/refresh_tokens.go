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
	"github.com/oklog/ulid/v2"
)

type refreshTokenRepo struct {
	db *sql.DB
}

var _ portsrepo.RefreshTokenRepository = (*refreshTokenRepo)(nil)

func (r *refreshTokenRepo) Create(ctx context.Context, token domain.RefreshToken) error {
	m := mapping.ToModelRefreshToken(token)
	if m.ID == "" {
		m.ID = ulid.Make().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.TokenHash, toMillis(m.ExpiresAt), toMillis(m.CreatedAt), toMillis(m.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepo) FindByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	var (
		m                               models.RefreshToken
		expiresAt, createdAt, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, created_at, updated_at
		FROM refresh_tokens
		WHERE token_hash = ?`, tokenHash,
	).Scan(&m.ID, &m.UserID, &m.TokenHash, &expiresAt, &createdAt, &updatedAt)
	if err != nil {
		if err = mapNotFound(err); err == apperrors.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	m.ExpiresAt = fromMillis(expiresAt)
	m.CreatedAt = fromMillis(createdAt)
	m.UpdatedAt = fromMillis(updatedAt)

	token := mapping.ToDomainRefreshToken(m)
	return &token, nil
}

func (r *refreshTokenRepo) Rotate(ctx context.Context, id string, oldHash string, newHash string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET token_hash = ?, expires_at = ?, updated_at = ?
		WHERE id = ? AND token_hash = ?`,
		newHash, toMillis(expiresAt), toMillis(time.Now()), id, oldHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to rotate refresh token %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rotate result: %w", err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *refreshTokenRepo) DeleteByHash(ctx context.Context, tokenHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token_hash = ?`, tokenHash)
	if err != nil {
		return 0, fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return res.RowsAffected()
}

func (r *refreshTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= ?`, toMillis(before))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	return res.RowsAffected()
}
