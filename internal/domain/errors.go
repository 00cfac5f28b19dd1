package domain

import (
	"errors"
	"fmt"

	m "github.com/mouse-blink/sigcov/internal/model"
)

var (
	// ErrMalformedMap is returned when a region map cannot be parsed.
	ErrMalformedMap = errors.New("malformed signal map")
	// ErrMalformedDump marks a hit-count dump block that cannot be parsed.
	ErrMalformedDump = errors.New("malformed coverage dump")
	// ErrPathMismatch is returned when a map is merged into the map of
	// another physical file.
	ErrPathMismatch = errors.New("signal map path mismatch")
)

// InvariantError is the panic value raised when traversal state breaks an
// internal invariant. Continuing would produce corrupt coverage data.
type InvariantError struct {
	Msg string
}

func (e InvariantError) Error() string {
	return "sigcov: internal invariant violated: " + e.Msg
}

func invariant(format string, args ...any) {
	panic(InvariantError{Msg: fmt.Sprintf(format, args...)})
}

// MapError is a malformed section of a region map. Source is the
// physical path named by the section header, empty when the header
// itself could not be read.
type MapError struct {
	Source m.Path
	Err    error
}

func (e *MapError) Error() string {
	return e.Err.Error()
}

func (e *MapError) Unwrap() error {
	return e.Err
}
