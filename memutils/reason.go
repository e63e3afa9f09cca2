package memutils

import "github.com/cockroachdb/errors"

// Reason classifies the outcome of an address space operation. It is the typed form of the
// sentinel errors in this package, for callers that would rather switch than call errors.Is.
type Reason uint32

const (
	ReasonNone Reason = iota
	ReasonZeroSize
	ReasonInvalidName
	ReasonDuplicateName
	ReasonInsufficientSpace
	ReasonUnknownSegment
	// ReasonInternal covers any error that is not part of the allocation taxonomy
	ReasonInternal
)

var reasonMapping = map[Reason]string{
	ReasonNone:              "ReasonNone",
	ReasonZeroSize:          "ReasonZeroSize",
	ReasonInvalidName:       "ReasonInvalidName",
	ReasonDuplicateName:     "ReasonDuplicateName",
	ReasonInsufficientSpace: "ReasonInsufficientSpace",
	ReasonUnknownSegment:    "ReasonUnknownSegment",
	ReasonInternal:          "ReasonInternal",
}

func (r Reason) String() string {
	return reasonMapping[r]
}

// ReasonOf maps an error returned from this module to its Reason. A nil error is ReasonNone.
func ReasonOf(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrZeroSizeRequest):
		return ReasonZeroSize
	case errors.Is(err, ErrInvalidName):
		return ReasonInvalidName
	case errors.Is(err, ErrDuplicateName):
		return ReasonDuplicateName
	case errors.Is(err, ErrInsufficientSpace):
		return ReasonInsufficientSpace
	case errors.Is(err, ErrUnknownSegment):
		return ReasonUnknownSegment
	}

	return ReasonInternal
}
