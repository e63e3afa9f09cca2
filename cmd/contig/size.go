package main

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/contig/memutils"
)

// parseSize reads a decimal byte count with an optional K or M suffix (either case). Sizes above
// memutils.MaxSpaceSize are rejected.
func parseSize(token string) (int, error) {
	if token == "" {
		return 0, errors.New("empty size")
	}

	digits := token
	multiplier := 1
	switch token[len(token)-1] {
	case 'K', 'k':
		multiplier = 1024
		digits = token[:len(token)-1]
	case 'M', 'm':
		multiplier = 1024 * 1024
		digits = token[:len(token)-1]
	}

	if digits == "" {
		return 0, errors.Newf("size %q has no digits", token)
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, errors.Newf("size %q is not a number", token)
		}
	}

	value, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "size %q", token)
	}

	if value > uint64(memutils.MaxSpaceSize/multiplier) {
		return 0, errors.Newf("size %q exceeds the maximum of %d bytes", token, memutils.MaxSpaceSize)
	}

	return int(value) * multiplier, nil
}
