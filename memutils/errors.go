package memutils

import "github.com/cockroachdb/errors"

var (
	// ErrZeroSizeRequest is returned when an allocation of zero (or fewer) bytes is requested
	ErrZeroSizeRequest error = errors.New("zero-size request rejected")
	// ErrInvalidName is returned when a segment name is empty or is the reserved free-segment name
	ErrInvalidName error = errors.New("invalid segment name")
	// ErrDuplicateName is returned when an occupied segment already holds the requested name
	ErrDuplicateName error = errors.New("segment name already exists")
	// ErrInsufficientSpace is returned when no free segment satisfies a request under the chosen strategy
	ErrInsufficientSpace error = errors.New("not enough space available")
	// ErrUnknownSegment is returned when a handle or name does not map to a live occupied segment
	ErrUnknownSegment error = errors.New("no such segment")
	// ErrOutOfRange is returned when a byte range falls outside the address space
	ErrOutOfRange error = errors.New("range is outside the address space")
)
