package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist or has
	// been soft-deleted.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a save lost an optimistic version check
	// against a concurrent writer.
	ErrConflict = errors.New("concurrent modification")
)
