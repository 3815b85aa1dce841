package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
)

// RefreshTokenRepository is the refresh token ledger.
type RefreshTokenRepository interface {
	// Create persists a new ledger row.
	Create(ctx context.Context, token domain.RefreshToken) error

	// FindByHash returns the row holding the given fingerprint, or apperrors.ErrNotFound.
	FindByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Rotate swaps the fingerprint and expiry of row id, but only while the
	// row still holds oldHash. It returns apperrors.ErrNotFound when another
	// caller rotated or deleted the row first.
	Rotate(ctx context.Context, id string, oldHash string, newHash string, expiresAt time.Time) error

	// DeleteByHash removes every row holding the fingerprint and reports how many went.
	DeleteByHash(ctx context.Context, tokenHash string) (int64, error)

	// DeleteExpired removes all rows that expired before the given instant.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
