package credentials

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrUnauthorized is the single outcome for both unknown emails and
// wrong passwords so callers cannot enumerate accounts through the
// error channel.
var ErrUnauthorized = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode("UNAUTHORIZED").
	WithCode(errors.CodeUnauthorized)

// ErrDuplicateUser is the registration conflict. Unlike login, this one
// may reveal that the email exists.
var ErrDuplicateUser = errors.New("email is already registered", errors.CategoryConflict).
	WithTextCode("DUPLICATE_USER").
	WithCode(errors.CodeBadRequest)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword covers failed password verification,
// including structurally bad hash records
var ErrMismatchedHashAndPassword = errors.New("password verification failed", errors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty plaintext passwords
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode("EMPTY_PASSWORD").
	WithCode(errors.CodeBadRequest)

// Token validation outcomes. Distinguishable for diagnostics, all of
// them collapse to 401 at the transport boundary.
var (
	ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
				WithTextCode("TOKEN_MALFORMED").
				WithCode(errors.CodeUnauthorized)

	ErrInvalidSignature = errors.New("token signature is invalid", errors.CategoryAuth).
				WithTextCode("TOKEN_BAD_SIGNATURE").
				WithCode(errors.CodeUnauthorized)

	ErrInvalidScope = errors.New("token issuer or audience mismatch", errors.CategoryAuth).
			WithTextCode("TOKEN_BAD_SCOPE").
			WithCode(errors.CodeUnauthorized)

	ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
			WithTextCode("TOKEN_EXPIRED").
			WithCode(errors.CodeUnauthorized)
)

// ErrUnableToDecodeSession unable to decode claims from a raw token
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithTextCode("SESSION_DECODE").
	WithCode(errors.CodeUnauthorized)

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = errors.New("unable to map claims", errors.CategoryAuth).
	WithTextCode("CLAIMS_MAP").
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
