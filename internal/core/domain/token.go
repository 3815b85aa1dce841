package domain

import "time"

// TokenKind distinguishes the two signing domains. A token of one kind
// never verifies as the other.
type TokenKind string

const (
	AccessTokenKind  TokenKind = "access"
	RefreshTokenKind TokenKind = "refresh"
)

// TokenPair is what a successful register, login or refresh hands back.
type TokenPair struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
}

// AuthResult bundles the public user snapshot with freshly issued tokens.
type AuthResult struct {
	User   *User
	Tokens TokenPair
}
