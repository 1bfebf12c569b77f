package credentials

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashVersionBcrypt is stored beside each hash so a future scheme can
// migrate rows in place.
const HashVersionBcrypt = "bcrypt"

// HashPassword hashes a plaintext password, returning the hash and
// the scheme that produced it.
func HashPassword(password string) (hash, version string, err error) {
	if len(password) < 8 {
		return "", "", errors.New("password too short")
	}

	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return string(b), HashVersionBcrypt, nil
}

// VerifyPassword compares a plaintext password against the stored hash.
func VerifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
