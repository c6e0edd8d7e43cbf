package textbuf

import (
	"errors"
	"fmt"
)

// InvariantError reports a broken internal invariant of a Buffer. Buffers
// panic with it: it always means a programming error, never bad input.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("textbuf: invariant violated in %s: %s", e.Op, e.Detail)
}

func invariant(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)})
}

// ErrStaleAction is returned when a recorded edit no longer matches the
// buffer it is replayed against.
var ErrStaleAction = errors.New("textbuf: recorded edit does not match buffer")
