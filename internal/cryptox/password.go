// Package cryptox holds the password hashing used for device accounts.
package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor of newly hashed passwords.
var PasswordCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password.
//
// Passwords longer than 72 bytes are rejected by bcrypt.
func HashPassword(password []byte) (string, error) {
	h, err := bcrypt.GenerateFromPassword(password, PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword reports whether password matches hash. A malformed hash is
// an error; a plain mismatch is not.
func CheckPassword(hash string, password []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check password: %w", err)
	}
}
