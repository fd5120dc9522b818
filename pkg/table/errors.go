package table

import "errors"

var (
	// ErrMissingColumn is returned when a required column is absent
	ErrMissingColumn = errors.New("missing column")
	// ErrType is returned when a value cannot be coerced to the expected type
	ErrType = errors.New("type error")
	// ErrIncomplete signals a cell left unwritten by a computation that must
	// write every cell. It indicates a bug, not bad input.
	ErrIncomplete = errors.New("broken algorithm")
)
