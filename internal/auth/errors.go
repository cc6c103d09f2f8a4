package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrMissingFields is returned when a required field is absent.
	ErrMissingFields = errors.New("email, password, and name are required")

	// ErrTokenInvalid is returned when a JWT fails verification.
	ErrTokenInvalid = errors.New("invalid token")
)
