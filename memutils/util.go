package memutils

import (
	cerrors "github.com/cockroachdb/errors"
)

const (
	// MaxSpaceSize is the largest address space that may be simulated: 16MiB
	MaxSpaceSize int = 1 << 24
)

type Number interface {
	~int | ~uint
}

// CheckRange verifies that [offset, offset+size) lies within [0, limit)
func CheckRange[T Number](offset, size, limit T, name string) error {
	if offset < 0 || size < 0 || offset > limit || size > limit-offset {
		return cerrors.Wrapf(ErrOutOfRange, "%s [%d, %d) exceeds %d", name, offset, offset+size, limit)
	}
	return nil
}

// ClampSpaceSize forces a requested address space size into [1, maxSize]. A maxSize of 0 or less,
// or one larger than MaxSpaceSize, is treated as MaxSpaceSize.
func ClampSpaceSize(requested, maxSize int) int {
	if maxSize <= 0 || maxSize > MaxSpaceSize {
		maxSize = MaxSpaceSize
	}

	if requested > maxSize {
		return maxSize
	} else if requested < 1 {
		// An empty space would leave the table without a segment
		return 1
	}

	return requested
}

// MarkerForID is the byte written across an occupied segment's backing bytes
func MarkerForID(ownerID int) byte {
	return byte(ownerID % 256)
}
