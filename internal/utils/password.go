package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt work factor for stored credentials.
const PasswordHashCost = 12

// dummyHash is compared against when no user matched, so a miss costs
// the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("fuel-credit-dummy-password"), PasswordHashCost)

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	return string(hash), err
}

// CheckPasswordHash compares a plaintext password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BurnPasswordCheck performs a throwaway comparison and always reports false.
func BurnPasswordCheck(password string) bool {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return false
}
