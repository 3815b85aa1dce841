package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims is the payload of both access and refresh tokens. Kind is
// checked on verification so the two never substitute for each other even
// if an operator reused a secret.
type SessionClaims struct {
	UserID string `json:"userId"`
	Kind   string `json:"typ"`
	jwt.RegisteredClaims
}

// GenerateJWT signs a token for userID with HS256. Each token carries a
// random jti so two tokens minted in the same second still differ.
func GenerateJWT(userID, kind, secret string, expiryDuration time.Duration, issuer string, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("refusing to sign with an empty secret")
	}
	claims := SessionClaims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a token string, validates its signature,
// standard claims and kind, and returns the claims.
func ParseAndValidateJWT(tokenString, kind, secretKey string) (*SessionClaims, error) {
	if secretKey == "" {
		return nil, errors.New("refusing to verify with an empty secret")
	}
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("token kind %q, want %q: %w", claims.Kind, kind, jwt.ErrTokenInvalidClaims)
	}
	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
