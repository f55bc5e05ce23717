package services

import "errors"

var (
	// ErrValidation marks bad client input (missing fields, malformed or
	// past dates, non-positive amounts). Maps to 400.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks ownership or state-machine violations. Maps to 403.
	ErrForbidden = errors.New("forbidden")

	// ErrUpstream marks payment-provider or database failures during
	// checkout. Maps to 500 with a generic message; details stay in logs.
	ErrUpstream = errors.New("upstream failure")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTOTPRequired       = errors.New("totp code required")
)
