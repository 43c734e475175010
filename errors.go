package blogpulse

import (
	stderrors "errors"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeValidation        = "validation_failed"
	TextCodeEmailTaken        = "email_taken"
	TextCodeBadCredentials    = "invalid_credentials"
	TextCodeCredentialMissing = "credential_missing"
	TextCodeTokenMalformed    = "token_malformed"
	TextCodeTokenExpired      = "token_expired"
	TextCodeBadAssertion      = "untrusted_assertion"
	TextCodeMissingSecret     = "missing_signing_secret"
)

// ErrValidation is returned when a request payload fails validation.
var ErrValidation = errors.New("all fields are required", errors.CategoryValidation).
	WithTextCode(TextCodeValidation).
	WithCode(errors.CodeBadRequest)

// ErrEmailTaken is returned when a user with the email already exists.
var ErrEmailTaken = errors.New("email is already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials is the single, undifferentiated login failure. It is
// returned for an unknown email and a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrCredentialMissing is returned when a protected request carries no bearer
// token at all.
var ErrCredentialMissing = errors.New("access denied, please log in", errors.CategoryAuth).
	WithTextCode(TextCodeCredentialMissing).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures and undecodable tokens.
var ErrTokenMalformed = errors.New("invalid token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeForbidden)

// ErrTokenExpired is returned for a well-formed, well-signed token past its
// expiry.
var ErrTokenExpired = errors.New("token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeForbidden)

// ErrUntrustedAssertion is returned when a federated identity assertion fails
// signature, audience, issuer, or expiry checks.
var ErrUntrustedAssertion = errors.New("invalid identity assertion", errors.CategoryAuth).
	WithTextCode(TextCodeBadAssertion).
	WithCode(errors.CodeUnauthorized)

// ErrMissingSigningKey is fatal configuration: the service must not mint or
// accept tokens without a secret.
var ErrMissingSigningKey = errors.New("session signing key is not configured", errors.CategoryInternal).
	WithTextCode(TextCodeMissingSecret).
	WithCode(errors.CodeInternal)

// ErrNoEmptyString rejects empty hashing input.
var ErrNoEmptyString = errors.New("cannot hash an empty string", errors.CategoryValidation).
	WithTextCode(TextCodeValidation).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeTokenExpired
	}
	return false
}

// IsConflictError will check for duplicate-email conflicts
func IsConflictError(err error) bool {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.Category == errors.CategoryConflict
	}
	return false
}

// IsUniqueViolation reports whether err is the store's unique-constraint
// rejection. The repository wraps driver errors in rich errors whose Error()
// prints a generic message, so the driver text only appears after walking the
// source chain down to the cause.
func IsUniqueViolation(err error) bool {
	for err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			if richErr.Category == errors.CategoryConflict {
				return true
			}
			err = richErr.Source
			continue
		}

		msg := err.Error()
		if strings.Contains(msg, "duplicate key value violates unique constraint") ||
			strings.Contains(msg, "UNIQUE constraint failed") {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// wrapStoreError hides driver detail from callers while keeping the source
// for server-side logs.
func wrapStoreError(err error, msg string) error {
	return errors.Wrap(err, errors.CategoryInternal, msg).
		WithCode(errors.CodeInternal)
}
