package store

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an insert violates a uniqueness
	// constraint, e.g. creating a second admin with the same email.
	ErrConflict = errors.New("already exists")
)
