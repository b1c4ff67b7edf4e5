package domain

import "errors"

var (
	// ErrUserNotFound indicates that no user record backs the given identity.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail indicates that the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials indicates a wrong email or password. Handlers
	// surface it identically for both so callers cannot tell which failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInsufficientRating indicates the booking gate denied access.
	ErrInsufficientRating = errors.New("insufficient rating for booking")
)
