package blogpulse

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return err
	}
	return nil
}

// FederatedPasswordHash derives the placeholder hash stored for accounts
// created by federated login. The input mixes the verified email with the
// server secret so the value is stable across logins but not guessable
// without the secret. Nothing ever verifies against it directly.
func FederatedPasswordHash(email, signingSecret string) (string, error) {
	if email == "" || signingSecret == "" {
		return "", ErrNoEmptyString
	}
	return HashPassword(email + signingSecret)
}
