package document

import "errors"

// Errors returned by map operations.
var (
	ErrUnknownThought = errors.New("thought is not in this map")
	ErrCannotBeParent = errors.New("thought cannot be a parent")
	ErrSelfLink       = errors.New("thought cannot link to itself")
	ErrDuplicateLink  = errors.New("link already exists")
	ErrNotAMap        = errors.New("root element is not a map")
)
