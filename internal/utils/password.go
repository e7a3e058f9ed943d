package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is deliberately above bcrypt.DefaultCost; logins are rare
// in a single-operator deployment, so the extra work factor costs nothing.
const passwordHashCost = 12

// HashPassword produces a bcrypt hash suitable for the ADMIN_PASSWORD_HASH
// setting.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored bcrypt hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
