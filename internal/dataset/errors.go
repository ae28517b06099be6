package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("input file not found")
	ErrMalformedInput = errors.New("malformed input")
)

// RowError reports a value that does not satisfy the schema.
type RowError struct {
	Line   int
	Column string
	Value  string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: line %d: column %q: value %q: %s", ErrMalformedInput, e.Line, e.Column, e.Value, e.Reason)
}

func (e *RowError) Unwrap() error {
	return ErrMalformedInput
}

func malformed(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, a...))
}
