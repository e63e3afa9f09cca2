package memory

import (
	"github.com/pkg/errors"
	"github.com/vkngwrapper/contig/memutils"
	"github.com/vkngwrapper/contig/memutils/metadata"
)

// Validate performs internal consistency checks on the space: the segment table, the counters,
// and the backing bytes. When the space is functioning correctly, it should not be possible for
// this method to return an error.
func (s *AddressSpace) Validate() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	err := s.table.Validate()
	if err != nil {
		return errors.Wrap(err, "segment table")
	}

	if s.store.Len() != s.table.Size() {
		return errors.Errorf("the backing store holds %d bytes, but the table covers %d", s.store.Len(), s.table.Size())
	}

	if s.occupiedCount != s.table.AllocationCount() {
		return errors.Errorf("the occupied count is %d, but the table holds %d occupied segments", s.occupiedCount, s.table.AllocationCount())
	}

	marked := s.flags&CreateSkipSegmentMarks == 0
	return s.table.VisitAllRegions(func(seg metadata.Segment) error {
		var expected byte
		if !seg.IsFree() {
			if seg.OwnerID > s.lastOwnerID {
				return errors.Errorf("segment %q has owner id %d, but only %d ids have been issued", seg.OwnerName, seg.OwnerID, s.lastOwnerID)
			}
			if !marked {
				return nil
			}
			expected = memutils.MarkerForID(seg.OwnerID)
		}

		for i, b := range s.store.Slice(seg.Offset, seg.Size) {
			if b != expected {
				return errors.Errorf("byte %d holds 0x%02x, but segment %q expects 0x%02x", seg.Offset+i, b, seg.OwnerName, expected)
			}
		}
		return nil
	})
}
