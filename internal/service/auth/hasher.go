package auth

import (
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Fixed on purpose: changing it only affects newly written hashes
const BcryptCost = 10

var errEmptyPassword = errors.New("password must not be empty")

var DefaultHasher PasswordHasher = BcryptHasher{}

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password.
	// Must be protected against timing attacks. Any failure is a mismatch.
	Compare(hashedPassword string, password string) bool
}

// Bcrypt password hasher
// Will be used as default one if user not provide it's own.
// Password is pre-hashed with sha256 so bcrypt never truncates it at 72 bytes.
type BcryptHasher struct{}

func (h BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errEmptyPassword
	}

	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(sum[:], BcryptCost)
	return string(hash), err
}

func (h BcryptHasher) Compare(hashedPassword string, password string) bool {
	sum := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), sum[:]) == nil
}
