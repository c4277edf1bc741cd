package catalog

import "errors"

var (
	// ErrNotFound is returned when an operation targets a record id that
	// does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when a record is added with an id that is
	// already taken.
	ErrDuplicateID = errors.New("duplicate record id")
)
