package store

import "errors"

var (
	// ErrNotFound is returned when no task matches the given id.
	ErrNotFound = errors.New("task not found")

	// ErrNoDatabaseURL is returned by Open when the connection string is
	// empty. Callers treat this as fatal at startup.
	ErrNoDatabaseURL = errors.New("database URL is not set")
)
