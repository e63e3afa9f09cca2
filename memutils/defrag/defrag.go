package defrag

import "github.com/vkngwrapper/contig/memutils/metadata"

//go:generate mockgen -source defrag.go -destination ./mocks/mover.go -package mock_defrag

// Mover is the backing store that a compaction relocates bytes within
type Mover interface {
	// Move copies size bytes from srcOffset to dstOffset. The ranges may overlap.
	Move(dstOffset, srcOffset, size int)
	// Zero clears size bytes beginning at offset
	Zero(offset, size int)
}

// DefragmentationMove describes a single relocated segment
type DefragmentationMove struct {
	Segment   metadata.Segment
	SrcOffset int
	DstOffset int
}

// Size is the number of bytes relocated by this move
func (m DefragmentationMove) Size() int {
	return m.Segment.Size
}

// DefragmentationStats contains basic metrics for a compaction
type DefragmentationStats struct {
	// BytesMoved is the number of bytes that have been relocated
	BytesMoved int
	// AllocationsMoved is the number of occupied segments whose offset changed
	AllocationsMoved int
	// HolesRemoved is the number of free segments that existed before compaction
	HolesRemoved int
	// BytesZeroed is the number of bytes cleared at the end of the address space
	BytesZeroed int
}

func (s *DefragmentationStats) Add(stats DefragmentationStats) {
	s.BytesMoved += stats.BytesMoved
	s.AllocationsMoved += stats.AllocationsMoved
	s.HolesRemoved += stats.HolesRemoved
	s.BytesZeroed += stats.BytesZeroed
}
