package defrag

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/contig/memutils/metadata"
)

// Compactor slides every occupied segment toward offset 0, preserving their relative order,
// and gathers all free space into a single trailing hole.
type Compactor struct {
	// Mover relocates backing bytes. It may be nil, in which case only the table is rewritten.
	Mover Mover
	// OnMove, if set, is called once for every segment whose offset changed
	OnMove func(move DefragmentationMove)
}

// Compact rewrites table in place. Compacting an already-compact table changes nothing.
//
// The new layout is committed to table before any bytes are touched, so if the table rejects
// it, the Mover has not been called and the table is unchanged.
func (c *Compactor) Compact(table *metadata.SegmentTable) (DefragmentationStats, error) {
	var stats DefragmentationStats

	segments := table.Segments()
	compacted := make([]metadata.Segment, 0, table.AllocationCount()+1)
	var moves []DefragmentationMove
	cursor := 0
	trailingHandle := metadata.NoSegment

	for _, seg := range segments {
		if seg.IsFree() {
			stats.HolesRemoved++
			// A hole already sitting at the end of the compacted range keeps its handle
			if seg.Offset == cursor && seg.End() == table.Size() {
				trailingHandle = seg.Handle
			}
			continue
		}

		if seg.Offset != cursor {
			move := DefragmentationMove{
				Segment:   seg,
				SrcOffset: seg.Offset,
				DstOffset: cursor,
			}
			move.Segment.Offset = cursor
			moves = append(moves, move)

			seg.Offset = cursor
			stats.BytesMoved += seg.Size
			stats.AllocationsMoved++
		}

		compacted = append(compacted, seg)
		cursor += seg.Size
	}

	size := table.Size()
	if cursor < size {
		hole := metadata.Segment{
			Handle:    trailingHandle,
			Role:      metadata.RoleFree,
			Offset:    cursor,
			Size:      size - cursor,
			OwnerName: metadata.FreeName,
		}
		compacted = append(compacted, hole)
		stats.BytesZeroed = hole.Size
	}

	err := table.Rebuild(compacted)
	if err != nil {
		return DefragmentationStats{}, errors.Wrap(err, "compaction produced an invalid table")
	}

	// Moves always go toward lower offsets, so relocating in offset order never
	// clobbers a segment that has not moved yet
	for _, move := range moves {
		if c.Mover != nil {
			c.Mover.Move(move.DstOffset, move.SrcOffset, move.Size())
		}
		if c.OnMove != nil {
			c.OnMove(move)
		}
	}

	if stats.BytesZeroed > 0 && c.Mover != nil {
		c.Mover.Zero(cursor, stats.BytesZeroed)
	}

	return stats, nil
}
