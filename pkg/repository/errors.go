package repository

import "errors"

var (
	// ErrNotFound is returned by MustGet when no row matches.
	ErrNotFound = errors.New("entity not found")

	// ErrIdentityConflict is returned when a write targets a row whose key is
	// already tracked by a different instance in the session.
	ErrIdentityConflict = errors.New("another instance with the same key is already tracked")

	// ErrNoRowsAffected is returned by Update and Remove when the key matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
)
