package domain

import "strings"

// AuthProvider identifies how a user proves their identity.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// User represents a user of the application in the domain.
type User struct {
	UserID         string       `json:"id"`
	Email          string       `json:"email"`
	PasswordHash   *string      `json:"-"` // nil for external-identity accounts
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	IsVerified     bool         `json:"isVerified"`
	AuthProvider   AuthProvider `json:"authProvider"`
	ProviderUserID *string      `json:"-"`
	AuditFields
	FuelAccount *FuelAccount `json:"fuelAccount"`
}

// HasPassword reports whether the user can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// NormalizeEmail returns the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
