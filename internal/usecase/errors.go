package usecase

import "errors"

// Sentinel errors shared by every service. Services wrap these with call-site
// context via %w; the HTTP layer maps them to status codes.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
