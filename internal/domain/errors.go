package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrInvalidCredentials covers both "no such user" and "wrong password"
	// so login responses never reveal whether an account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenExpired marks a refresh token or validation code past its expiry instant.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidCode marks a validation code that does not match the stored
	// value, or one that was already consumed.
	ErrInvalidCode = errors.New("invalid code")

	// ErrRateLimited is the kind every RateLimitError unwraps to.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrDelivery marks an email transport failure. It is surfaced to the
	// caller, never retried inside the services.
	ErrDelivery = errors.New("delivery failed")
)

// Machine-readable codes identifying which rate-limit budget was hit.
const (
	CodeAuthRateLimit            = "AUTH_RATE_LIMIT_EXCEEDED"
	CodeUserCreationRateLimit    = "USER_CREATION_RATE_LIMIT_EXCEEDED"
	CodeEmailValidationRateLimit = "EMAIL_VALIDATION_RATE_LIMIT_EXCEEDED"
)

// RateLimitError is returned when an attempt budget is exhausted.
// Code identifies the budget; Unwrap ties it to ErrRateLimited so callers
// can discriminate with errors.Is without knowing the code.
type RateLimitError struct {
	Code string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded (%s)", e.Code)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }
