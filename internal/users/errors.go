package users

import "errors"

var (
	// ErrUserNotFound is returned when no account matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidEmail is returned when the email is empty or malformed.
	ErrInvalidEmail = errors.New("email is required")

	// ErrInvalidName is returned when the display name is missing.
	ErrInvalidName = errors.New("name is required")

	// ErrInvalidRole is returned for roles outside {user, admin}.
	ErrInvalidRole = errors.New("role must be user or admin")
)
