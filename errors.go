package workhive

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeValidationFailed   = "validation_failed"
	TextCodeInvalidCredentials = "invalid_credentials"
	TextCodeAuthRequired       = "authentication_required"
	TextCodeTokenExpired       = "token_expired"
	TextCodeTokenMalformed     = "token_malformed"
	TextCodeTooManyAttempts    = "too_many_login_attempts"
	TextCodeEmptyPassword      = "empty_password"
	TextCodeEmailTaken         = "email_taken"
	TextCodeNotFound           = "not_found"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password so
// responses never reveal whether an account exists.
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrAuthenticationRequired is returned when no bearer credential was supplied
var ErrAuthenticationRequired = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeAuthRequired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned for a credential past its expiry
var ErrTokenExpired = errors.New("invalid or expired token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for a credential we could not verify
var ErrTokenMalformed = errors.New("invalid or expired token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTooManyLoginAttempts is returned when the cool-down window is active
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryAuth).
	WithTextCode(TextCodeTooManyAttempts).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrEmailAlreadyExists is returned when registering a taken email
var ErrEmailAlreadyExists = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrMismatchedHashAndPassword is the internal credential-check failure. It
// never leaves the login boundary; callers map it to ErrInvalidCredentials.
var ErrMismatchedHashAndPassword = errors.New("hashed password does not match", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the internal lookup miss, same mapping rule as above
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

// ErrUnableToMapClaims unable to get structured claims from a parsed token
var ErrUnableToMapClaims = errors.New("unable to map claims", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired") ||
		strings.Contains(err.Error(), "invalid or expired token")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
