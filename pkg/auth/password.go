package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches the work factor used by the accounts this service
// inherited; raising it invalidates nothing but slows new registrations.
const BcryptCost = 10

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
