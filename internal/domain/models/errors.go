package models

import "errors"

// Error taxonomy shared by the inventory core. Every failure is wrapped around
// one of these so callers can branch with errors.Is.
var (
	// ErrValidation marks a bad, missing or out-of-range argument.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a name or keyword with no matching equipment.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate marks an id collision on insert.
	ErrDuplicate = errors.New("duplicate equipment")
	// ErrPersistence marks an unreadable, unwritable or corrupt data file.
	ErrPersistence = errors.New("persistence failure")
)
