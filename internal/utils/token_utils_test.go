package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "access-secret-for-tests-0123456789"
	refreshSecret = "refresh-secret-for-tests-9876543210"
)

func TestGenerateAndParseJWT(t *testing.T) {
	tok, err := GenerateJWT("user-1", "access", accessSecret, time.Hour, "fuel-credit", time.Now())
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(tok, "access", accessSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateJWTIsUniquePerCall(t *testing.T) {
	now := time.Now()
	a, err := GenerateJWT("user-1", "access", accessSecret, time.Hour, "fuel-credit", now)
	require.NoError(t, err)
	b, err := GenerateJWT("user-1", "access", accessSecret, time.Hour, "fuel-credit", now)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := GenerateJWT("user-1", "refresh", refreshSecret, time.Hour, "fuel-credit", time.Now())
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(tok, "refresh", accessSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseRejectsWrongKindWithSameSecret(t *testing.T) {
	tok, err := GenerateJWT("user-1", "refresh", accessSecret, time.Hour, "fuel-credit", time.Now())
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(tok, "access", accessSecret)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	tok, err := GenerateJWT("user-1", "access", accessSecret, time.Minute, "fuel-credit", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(tok, "access", accessSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	claims := SessionClaims{UserID: "user-1", Kind: "access", RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(tok, "access", accessSecret)
	assert.Error(t, err)
}

func TestEmptySecretsRefused(t *testing.T) {
	_, err := GenerateJWT("user-1", "access", "", time.Hour, "fuel-credit", time.Now())
	assert.Error(t, err)

	_, err = ParseAndValidateJWT("whatever", "access", "")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))
	assert.False(t, BurnPasswordCheck("secret1"))
}

func TestHashRefreshTokenIsStable(t *testing.T) {
	assert.Equal(t, HashRefreshToken("abc"), HashRefreshToken("abc"))
	assert.NotEqual(t, HashRefreshToken("abc"), HashRefreshToken("abd"))
	assert.Len(t, HashRefreshToken("abc"), 64)
}
