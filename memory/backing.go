package memory

import (
	"github.com/vkngwrapper/contig/memutils"
)

// backingStore is the byte buffer underneath an address space. Every method assumes its range has
// already been checked against the table.
type backingStore struct {
	data []byte
}

func newBackingStore(size int) *backingStore {
	return &backingStore{data: make([]byte, size)}
}

func (s *backingStore) Len() int { return len(s.data) }

func (s *backingStore) Fill(offset, size int, value byte) {
	memutils.DebugCheckRange(offset, size, len(s.data), "fill")

	region := s.data[offset : offset+size]
	for i := range region {
		region[i] = value
	}
}

func (s *backingStore) Zero(offset, size int) {
	memutils.DebugCheckRange(offset, size, len(s.data), "zero")
	clear(s.data[offset : offset+size])
}

// Move copies size bytes from srcOffset to dstOffset; the ranges may overlap
func (s *backingStore) Move(dstOffset, srcOffset, size int) {
	memutils.DebugCheckRange(srcOffset, size, len(s.data), "move source")
	memutils.DebugCheckRange(dstOffset, size, len(s.data), "move destination")
	copy(s.data[dstOffset:dstOffset+size], s.data[srcOffset:srcOffset+size])
}

func (s *backingStore) Slice(offset, size int) []byte {
	return s.data[offset : offset+size]
}
