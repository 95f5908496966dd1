package book

import "errors"

var (
	// ErrNotFound is returned when a well-formed identifier matches no book
	ErrNotFound = errors.New("book not found")

	// ErrInvalidID is returned, without a store round trip, for identifiers the store cannot parse
	ErrInvalidID = errors.New("invalid book identifier")

	ErrMissingTitle   = errors.New("missing required field title")
	ErrMissingComment = errors.New("missing required field comment")
)

// IsNotFound reports whether err means "no such book" for either reason
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID)
}
