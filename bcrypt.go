package workhive

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a salted password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password against
// the stored hash. bcrypt does the salted, constant-time comparison; any
// mismatch or malformed hash comes back as an error, never a panic.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		// a malformed stored hash fails the same way as a wrong password
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// RandomPasswordHash is a placeholder credential for accounts provisioned
// without a password, e.g. admin-created accounts pending a reset
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}
