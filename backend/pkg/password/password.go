// Package password hashes and verifies user credentials with bcrypt.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinLength = 8
	// MaxLength bcrypt ignores bytes past 72
	MaxLength = 72
)

var (
	ErrTooShort = errors.New("a senha deve ter pelo menos 8 caracteres")
	ErrTooLong  = errors.New("a senha deve ter no máximo 72 caracteres")
)

// Validate checks length bounds of a new password
func Validate(plain string) error {
	if len(plain) < MinLength {
		return ErrTooShort
	}
	if len(plain) > MaxLength {
		return ErrTooLong
	}
	return nil
}

// Hash returns the bcrypt digest of plain
func Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plain matches digest
func Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
