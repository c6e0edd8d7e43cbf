package persist

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrMalformedDocument is matched by every error about bad input.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrMissingField is returned for a required attribute that is absent.
	ErrMissingField = errors.New("missing field")
)

// FieldError describes one bad attribute. It matches ErrMalformedDocument
// as well as its underlying cause.
type FieldError struct {
	Element string
	Field   string
	Value   string
	Err     error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: element %s field %s = %q: %v", ErrMalformedDocument, e.Element, e.Field, e.Value, e.Err)
}

// Unwrap exposes both ErrMalformedDocument and the cause.
func (e *FieldError) Unwrap() []error {
	return []error{ErrMalformedDocument, e.Err}
}

func fieldError(n *Node, field, value string, err error) *FieldError {
	return &FieldError{Element: n.Name, Field: field, Value: value, Err: err}
}
