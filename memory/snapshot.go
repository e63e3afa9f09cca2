package memory

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/contig/memutils"
	"github.com/vkngwrapper/contig/memutils/metadata"
)

// SegmentInfo is a reporting view of one segment, [Base, End)
type SegmentInfo struct {
	Handle metadata.SegmentHandle
	// ID is the owner id, or 0 for a hole
	ID     int
	Name   string
	Role   metadata.Role
	Base   int
	End    int
	Length int
}

// Snapshot returns every segment in offset order
func (s *AddressSpace) Snapshot() []SegmentInfo {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	infos := make([]SegmentInfo, 0, s.table.Len())
	_ = s.table.VisitAllRegions(func(seg metadata.Segment) error {
		infos = append(infos, SegmentInfo{
			Handle: seg.Handle,
			ID:     seg.OwnerID,
			Name:   seg.OwnerName,
			Role:   seg.Role,
			Base:   seg.Offset,
			End:    seg.End(),
			Length: seg.Size,
		})
		return nil
	})

	return infos
}

// Statistics sums this space's basic statistics into stats
func (s *AddressSpace) Statistics(stats *memutils.Statistics) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.table.AddStatistics(stats)
}

// DetailedStatistics sums this space's detailed statistics into stats
func (s *AddressSpace) DetailedStatistics(stats *memutils.DetailedStatistics) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.table.AddDetailedStatistics(stats)
}

// PrintDetailedMap writes a JSON object describing the space and every segment in it
func (s *AddressSpace) PrintDetailedMap(writer *jwriter.Writer) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	objState := writer.Object()
	defer objState.End()

	objState.Name("Flags").String(s.flags.String())
	objState.Name("OccupiedCount").Int(s.occupiedCount)
	objState.Name("LastOwnerID").Int(s.lastOwnerID)

	compactionObj := objState.Name("Compaction").Object()
	compactionObj.Name("BytesMoved").Int(s.compacted.BytesMoved)
	compactionObj.Name("AllocationsMoved").Int(s.compacted.AllocationsMoved)
	compactionObj.Name("HolesRemoved").Int(s.compacted.HolesRemoved)
	compactionObj.Name("BytesZeroed").Int(s.compacted.BytesZeroed)
	compactionObj.End()

	s.table.PrintDetailedMap(&objState)
}
