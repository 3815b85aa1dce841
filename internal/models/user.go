package models

// User is the users table row.
type User struct {
	UserID         string  `db:"user_id"`
	Email          string  `db:"email"`
	PasswordHash   *string `db:"password_hash"`
	FirstName      string  `db:"first_name"`
	LastName       string  `db:"last_name"`
	IsVerified     bool    `db:"is_verified"`
	AuthProvider   string  `db:"auth_provider"`
	ProviderUserID *string `db:"provider_user_id"`
	AuditFields
}
