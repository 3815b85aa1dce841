package domain

import "time"

// RefreshToken is a ledger row backing one issued refresh token.
// Only the fingerprint of the signed token is stored.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	AuditFields
}

// IsExpired reports whether the ledger row is past its own expiry.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
