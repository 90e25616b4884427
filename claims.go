package workhive

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenUse distinguishes the two token variants minted at login
type TokenUse = string

const (
	// TokenUseAccess short-lived, attached to every protected request
	TokenUseAccess TokenUse = "access"
	// TokenUseRefresh long-lived, only redeemable for a new access token
	TokenUseRefresh TokenUse = "refresh"
)

// AuthClaims is the identity payload a verified token yields. Claims are
// trusted verbatim for the token's lifetime; there is no per-request store
// re-check.
type AuthClaims interface {
	Subject() string
	AccountID() string
	Email() string
	Role() string
	Use() TokenUse
	HasRole(role string) bool
	IsAdmin() bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID          string      `json:"uid,omitempty"`
	AccountEmail string      `json:"email,omitempty"`
	AccountRole  AccountRole `json:"role,omitempty"`
	TokenUse     string      `json:"token_use,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// AccountID returns the account id, falling back to the subject claim
func (c *JWTClaims) AccountID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Email returns the email embedded at issuance
func (c *JWTClaims) Email() string {
	return c.AccountEmail
}

// Role returns the marketplace role
func (c *JWTClaims) Role() string {
	return string(c.AccountRole)
}

// Use returns the token variant, defaulting to access for legacy tokens
func (c *JWTClaims) Use() TokenUse {
	if c.TokenUse == "" {
		return TokenUseAccess
	}
	return c.TokenUse
}

// HasRole checks if the account holds a specific role
func (c *JWTClaims) HasRole(role string) bool {
	return string(c.AccountRole) == role
}

// IsAdmin checks for the admin role
func (c *JWTClaims) IsAdmin() bool {
	return c.AccountRole == RoleAdmin
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

// AccountUUID parses the account id claim
func (c *JWTClaims) AccountUUID() (uuid.UUID, error) {
	return uuid.Parse(c.AccountID())
}

// ensureTokenID backfills a unique jti so two tokens minted for the same
// identity in the same second still differ
func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
