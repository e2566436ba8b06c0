package models

import "errors"

var (
	// ErrInvalidState is returned when an operation is attempted from a
	// status the state machine does not allow.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrConflict is returned when a compare-and-swap save loses the race
	// against a concurrent writer.
	ErrConflict = errors.New("version conflict")

	// ErrNotFound is returned by lookup helpers when no record matches.
	ErrNotFound = errors.New("record not found")
)
