package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/fuel_credit_app/internal/apperrors"
	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_credit_app/internal/core/ports/repositories"
	"github.com/SscSPs/fuel_credit_app/internal/models"
	"github.com/SscSPs/fuel_credit_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type PgxRefreshTokenRepository struct {
	BaseRepository
}

func newPgxRefreshTokenRepository(db *pgxpool.Pool) *PgxRefreshTokenRepository {
	return &PgxRefreshTokenRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.RefreshTokenRepository = (*PgxRefreshTokenRepository)(nil)

func (r *PgxRefreshTokenRepository) Create(ctx context.Context, token domain.RefreshToken) error {
	m := mapping.ToModelRefreshToken(token)
	if m.ID == "" {
		m.ID = ulid.Make().String()
	}
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.UserID, m.TokenHash, m.ExpiresAt, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

func (r *PgxRefreshTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	var m models.RefreshToken
	err := r.Pool.QueryRow(ctx, `
		SELECT id, user_id::text, token_hash, expires_at, created_at, updated_at
		FROM refresh_tokens
		WHERE token_hash = $1`, tokenHash,
	).Scan(&m.ID, &m.UserID, &m.TokenHash, &m.ExpiresAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	token := mapping.ToDomainRefreshToken(m)
	return &token, nil
}

func (r *PgxRefreshTokenRepository) Rotate(ctx context.Context, id string, oldHash string, newHash string, expiresAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE refresh_tokens
		SET token_hash = $3, expires_at = $4, updated_at = NOW()
		WHERE id = $1 AND token_hash = $2`,
		id, oldHash, newHash, expiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to rotate refresh token %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRefreshTokenRepository) DeleteByHash(ctx context.Context, tokenHash string) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return 0, fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgxRefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
