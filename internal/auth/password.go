package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
)

// HashPassword hashes a plaintext password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("password hashing failed: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password with a stored hash.
// A mismatch is reported as apperrors.ErrInvalidCredentials.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("password validation failed: %w", err)
	}
	return nil
}
