package blogpulse

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the structured identity facts carried by a session
// token.
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	DisplayName() string
	IssuedAt() time.Time
	Expires() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. The shape is fixed:
// (de)serialization and signature verification happen in one parse, never as
// separate decode-then-check steps.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID             string `json:"uid,omitempty"`
	UserEmail       string `json:"email,omitempty"`
	UserDisplayName string `json:"name,omitempty"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Email returns the user's email
func (c *JWTClaims) Email() string {
	return c.UserEmail
}

// DisplayName returns the user's display name
func (c *JWTClaims) DisplayName() string {
	return c.UserDisplayName
}

// AuthorName is the attribution used for content created under these claims,
// display name first with the email as fallback.
func (c *JWTClaims) AuthorName() string {
	if c.UserDisplayName != "" {
		return c.UserDisplayName
	}
	return c.UserEmail
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
