package repository

import "errors"

var (
	// ErrNotFound is returned when a requested blob doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a conditional write finds a different stored version
	ErrConflict = errors.New("conflict: blob was modified by another writer")

	// ErrInvalidInput is returned when a key or option is unusable
	ErrInvalidInput = errors.New("invalid input")
)
