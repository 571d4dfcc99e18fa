package services

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a password into its stored form and checks a candidate
// against a stored value.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(stored, candidate string) bool
}

// PlainPasswords stores passwords as given. It is the default, matching the
// existing data layout.
type PlainPasswords struct{}

func (PlainPasswords) Hash(password string) (string, error) {
	return password, nil
}

func (PlainPasswords) Compare(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// BcryptPasswords stores salted bcrypt hashes.
type BcryptPasswords struct {
	Cost int
}

func (b BcryptPasswords) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (BcryptPasswords) Compare(stored, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}

// NewPasswordHasher picks the hasher for the configured storage mode.
func NewPasswordHasher(hashing bool) PasswordHasher {
	if hashing {
		return BcryptPasswords{}
	}
	return PlainPasswords{}
}
