package repository

import "errors"

// Common storage errors returned by all implementations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry indicates a unique-constraint violation.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// Resource-specific aliases kept for readable errors.Is checks.
var (
	ErrUserNotFound = ErrNotFound
	ErrRoomNotFound = ErrNotFound
	ErrQuizNotFound = ErrNotFound
)
