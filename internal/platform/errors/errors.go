package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrNoActiveFast      = errors.New("no fast in progress")
	ErrFastAlreadyActive = errors.New("a fast is already in progress")
	ErrNoActiveProfile   = errors.New("no active profile")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
)
