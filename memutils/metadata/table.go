package metadata

import (
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	pkgerrors "github.com/pkg/errors"
	"github.com/vkngwrapper/contig/memutils"
	"golang.org/x/exp/slices"
)

// initialSegmentCapacity sizes a freshly initialized table's segment list and name index. Both grow
// as needed; this only avoids regrowth for the first handful of allocations.
const initialSegmentCapacity = 8

// SegmentTable is the ordered list of segments covering an address space of Size() bytes.
//
// Between calls, the table always holds at least one segment, segments are sorted by offset,
// each segment ends exactly where the next begins, the last segment ends at Size(), and no two
// neighboring segments are both free.
//
// Segments are stored by value. A SegmentHandle is the only stable way to refer to a segment
// across mutations; indices are recomputed after every structural edit.
type SegmentTable struct {
	size        int
	segments    []Segment
	names       *swiss.Map[string, SegmentHandle]
	nextHandle  SegmentHandle
	allocCount  int
	sumFreeSize int
}

// NewSegmentTable creates a table covering size bytes with a single free segment.
func NewSegmentTable(size int) *SegmentTable {
	t := &SegmentTable{}
	t.Init(size)
	return t
}

// Init discards every segment and resets the table to a single free segment spanning [0, size).
// Handles issued before Init never resolve again.
func (t *SegmentTable) Init(size int) {
	t.size = size
	t.segments = make([]Segment, 0, initialSegmentCapacity)
	t.names = swiss.NewMap[string, SegmentHandle](initialSegmentCapacity)
	t.allocCount = 0
	t.sumFreeSize = size

	hole := Segment{
		Handle: t.allocateHandle(),
		Offset: 0,
		Size:   size,
	}
	hole.markFree()
	t.segments = append(t.segments, hole)
}

func (t *SegmentTable) allocateHandle() SegmentHandle {
	t.nextHandle++
	return t.nextHandle
}

// Size returns the number of bytes covered by the table
func (t *SegmentTable) Size() int { return t.size }

// Len returns the number of segments currently in the table
func (t *SegmentTable) Len() int { return len(t.segments) }

// AllocationCount returns the number of occupied segments
func (t *SegmentTable) AllocationCount() int { return t.allocCount }

// FreeRegionsCount returns the number of holes
func (t *SegmentTable) FreeRegionsCount() int { return len(t.segments) - t.allocCount }

// SumFreeSize returns the number of bytes held by holes
func (t *SegmentTable) SumFreeSize() int { return t.sumFreeSize }

// Segments returns a copy of every segment in offset order
func (t *SegmentTable) Segments() []Segment {
	return slices.Clone(t.segments)
}

// Segment retrieves the segment identified by handle
func (t *SegmentTable) Segment(handle SegmentHandle) (Segment, bool) {
	index := t.indexOf(handle)
	if index < 0 {
		return Segment{}, false
	}

	return t.segments[index], true
}

func (t *SegmentTable) indexOf(handle SegmentHandle) int {
	if handle == NoSegment {
		return -1
	}

	for i := range t.segments {
		if t.segments[i].Handle == handle {
			return i
		}
	}

	return -1
}

// FindByName retrieves the occupied segment holding the provided name. Empty names and FreeName
// never match.
func (t *SegmentTable) FindByName(name string) (Segment, bool) {
	if !ValidName(name) {
		return Segment{}, false
	}

	handle, ok := t.names.Get(name)
	if !ok {
		return Segment{}, false
	}

	return t.Segment(handle)
}

// insert places seg into the gap it belongs to, keeping offset order. A free segment is merged with
// its neighbors immediately. The index of seg (or of the segment that absorbed it) is returned.
func (t *SegmentTable) insert(seg Segment) (int, error) {
	if seg.Size <= 0 {
		return -1, errors.Newf("cannot insert a segment of size %d", seg.Size)
	}
	if err := memutils.CheckRange(seg.Offset, seg.Size, t.size, "segment"); err != nil {
		return -1, err
	}

	index, found := slices.BinarySearchFunc(t.segments, seg.Offset, func(s Segment, offset int) int {
		return s.Offset - offset
	})
	if found {
		return -1, errors.Newf("a segment already begins at offset %d", seg.Offset)
	}
	if index > 0 && t.segments[index-1].End() > seg.Offset {
		return -1, errors.Newf("segment at offset %d overlaps the segment at offset %d", seg.Offset, t.segments[index-1].Offset)
	}
	if index < len(t.segments) && seg.End() > t.segments[index].Offset {
		return -1, errors.Newf("segment at offset %d overlaps the segment at offset %d", seg.Offset, t.segments[index].Offset)
	}

	if seg.Handle == NoSegment {
		seg.Handle = t.allocateHandle()
	}
	t.segments = slices.Insert(t.segments, index, seg)

	if seg.IsFree() {
		index = t.merge(index)
	}

	return index, nil
}

// merge coalesces the free segment at index with a free left neighbor and then a free right
// neighbor. It returns the index of the surviving segment.
func (t *SegmentTable) merge(index int) int {
	if index < 0 || index >= len(t.segments) || !t.segments[index].IsFree() {
		return index
	}

	if index > 0 {
		prev := &t.segments[index-1]
		if prev.IsFree() && prev.End() == t.segments[index].Offset {
			prev.Size += t.segments[index].Size
			t.segments = slices.Delete(t.segments, index, index+1)
			index--
		}
	}

	if index+1 < len(t.segments) {
		current := &t.segments[index]
		next := t.segments[index+1]
		if next.IsFree() && current.End() == next.Offset {
			current.Size += next.Size
			t.segments = slices.Delete(t.segments, index+1, index+2)
		}
	}

	return index
}

// Alloc commits an AllocationRequest created by CreateAllocationRequest, converting the first
// request.Size bytes of the chosen hole into an occupied segment named name and owned by ownerID.
// Any remainder of the hole stays free. The request is rejected if the hole no longer exists, is
// no longer free, has moved, or has become too small.
func (t *SegmentTable) Alloc(request AllocationRequest, name string, ownerID int) (Segment, error) {
	if request.Size <= 0 {
		return Segment{}, errors.Wrapf(memutils.ErrZeroSizeRequest, "allocation request size %d", request.Size)
	}
	if !ValidName(name) {
		return Segment{}, errors.Wrapf(memutils.ErrInvalidName, "name %q", name)
	}
	if _, exists := t.names.Get(name); exists {
		return Segment{}, errors.Wrapf(memutils.ErrDuplicateName, "name %q", name)
	}
	if ownerID <= 0 {
		return Segment{}, errors.Newf("owner id must be positive, got %d", ownerID)
	}

	index := t.indexOf(request.Handle)
	if index < 0 {
		return Segment{}, errors.New("allocation request refers to a segment that no longer exists")
	}

	hole := t.segments[index]
	if !hole.IsFree() {
		return Segment{}, errors.New("allocation request refers to a segment that is no longer free")
	}
	if hole.Offset != request.Offset {
		return Segment{}, errors.Newf("allocation request expected offset %d, but the hole is at offset %d", request.Offset, hole.Offset)
	}
	if hole.Size < request.Size {
		return Segment{}, errors.Newf("allocation request needs %d bytes, but the hole only has %d", request.Size, hole.Size)
	}

	occupied := &t.segments[index]
	occupied.Size = request.Size
	occupied.markOccupied(name, ownerID)
	result := *occupied

	if hole.Size > request.Size {
		remainder := Segment{
			Handle: NoSegment,
			Offset: hole.Offset + request.Size,
			Size:   hole.Size - request.Size,
		}
		remainder.markFree()

		_, err := t.insert(remainder)
		if err != nil {
			// Put the hole back the way it was
			t.segments[index] = hole
			return Segment{}, err
		}
	}

	t.names.Put(name, result.Handle)
	t.allocCount++
	t.sumFreeSize -= request.Size

	return result, nil
}

// Free converts the occupied segment identified by handle back into a hole and coalesces it with
// neighboring holes. It returns the segment as it was before being freed. Unknown handles and
// segments that are already free are left alone, and false is returned.
func (t *SegmentTable) Free(handle SegmentHandle) (Segment, bool) {
	index := t.indexOf(handle)
	if index < 0 || t.segments[index].IsFree() {
		return Segment{}, false
	}

	released := t.segments[index]
	t.names.Delete(released.OwnerName)
	t.allocCount--
	t.sumFreeSize += released.Size

	t.segments[index].markFree()
	t.merge(index)

	return released, true
}

// Rebuild replaces the table's contents with segments, which must satisfy every table invariant.
// Segments whose handle is NoSegment are issued new handles. If segments are invalid, the table is
// left unchanged and an error is returned.
func (t *SegmentTable) Rebuild(segments []Segment) error {
	oldSegments := t.segments
	oldNames := t.names
	oldAllocCount := t.allocCount
	oldFreeSize := t.sumFreeSize

	t.segments = make([]Segment, 0, len(segments))
	t.names = swiss.NewMap[string, SegmentHandle](uint32(len(segments)))
	t.allocCount = 0
	t.sumFreeSize = 0

	for _, seg := range segments {
		if seg.Handle == NoSegment {
			seg.Handle = t.allocateHandle()
		}

		if seg.IsFree() {
			t.sumFreeSize += seg.Size
		} else {
			t.allocCount++
			t.names.Put(seg.OwnerName, seg.Handle)
		}

		t.segments = append(t.segments, seg)
	}

	err := t.Validate()
	if err != nil {
		t.segments = oldSegments
		t.names = oldNames
		t.allocCount = oldAllocCount
		t.sumFreeSize = oldFreeSize
		return errors.Wrap(err, "rebuilt segment table is invalid")
	}

	return nil
}

// VisitAllRegions will call the provided callback once for each segment, in offset order. Iteration
// stops at the first error returned from the callback.
func (t *SegmentTable) VisitAllRegions(handleSegment func(seg Segment) error) error {
	for _, seg := range t.segments {
		err := handleSegment(seg)
		if err != nil {
			return err
		}
	}

	return nil
}

// AddDetailedStatistics sums this table's statistics into the statistics currently present
// in the provided memutils.DetailedStatistics object.
func (t *SegmentTable) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.SpaceBytes += t.size

	for _, seg := range t.segments {
		if seg.IsFree() {
			stats.AddUnusedRange(seg.Size)
		} else {
			stats.AddAllocation(seg.Size)
		}
	}
}

// AddStatistics sums this table's statistics into the statistics currently present in the
// provided memutils.Statistics object.
func (t *SegmentTable) AddStatistics(stats *memutils.Statistics) {
	stats.SegmentCount += len(t.segments)
	stats.AllocationCount += t.allocCount
	stats.SpaceBytes += t.size
	stats.AllocationBytes += t.size - t.sumFreeSize
}

// Validate performs internal consistency checks on the table. When the table is functioning
// correctly, it should not be possible for this method to return an error.
func (t *SegmentTable) Validate() error {
	if len(t.segments) == 0 {
		return pkgerrors.New("the segment table is empty")
	}

	var offset, allocCount, freeSize int
	handles := make(map[SegmentHandle]struct{}, len(t.segments))
	ownerIDs := make(map[int]struct{}, t.allocCount)

	for index, seg := range t.segments {
		if seg.Handle == NoSegment {
			return pkgerrors.Errorf("segment at index %d has no handle", index)
		}
		if _, duplicate := handles[seg.Handle]; duplicate {
			return pkgerrors.Errorf("segment at index %d reuses handle %d", index, seg.Handle)
		}
		handles[seg.Handle] = struct{}{}

		if seg.Size <= 0 {
			return pkgerrors.Errorf("segment at index %d has non-positive size %d", index, seg.Size)
		}
		if seg.Offset != offset {
			return pkgerrors.Errorf("segment at index %d has offset %d, expected offset %d", index, seg.Offset, offset)
		}
		offset = seg.End()

		if seg.IsFree() {
			if index > 0 && t.segments[index-1].IsFree() {
				return pkgerrors.Errorf("free segments at offsets %d and %d were not merged", t.segments[index-1].Offset, seg.Offset)
			}
			if seg.OwnerID != 0 || seg.OwnerName != FreeName {
				return pkgerrors.Errorf("free segment at offset %d has owner %q (id %d)", seg.Offset, seg.OwnerName, seg.OwnerID)
			}

			freeSize += seg.Size
			continue
		}

		if seg.Role != RoleOccupied {
			return pkgerrors.Errorf("segment at offset %d has unknown role %d", seg.Offset, seg.Role)
		}
		if seg.OwnerID <= 0 {
			return pkgerrors.Errorf("occupied segment at offset %d has non-positive owner id %d", seg.Offset, seg.OwnerID)
		}
		if _, duplicate := ownerIDs[seg.OwnerID]; duplicate {
			return pkgerrors.Errorf("owner id %d is held by more than one segment", seg.OwnerID)
		}
		ownerIDs[seg.OwnerID] = struct{}{}

		if !ValidName(seg.OwnerName) {
			return pkgerrors.Errorf("occupied segment at offset %d has invalid name %q", seg.Offset, seg.OwnerName)
		}
		indexed, ok := t.names.Get(seg.OwnerName)
		if !ok || indexed != seg.Handle {
			return pkgerrors.Errorf("name %q is not indexed to the segment at offset %d", seg.OwnerName, seg.Offset)
		}

		allocCount++
	}

	if offset != t.size {
		return pkgerrors.Errorf("segments cover %d bytes, but the table has a size of %d", offset, t.size)
	}

	if allocCount != t.allocCount {
		return pkgerrors.Errorf("the allocation count of the table is %d, but the occupied segments only added up to %d", t.allocCount, allocCount)
	}

	if t.names.Count() != allocCount {
		return pkgerrors.Errorf("the name index holds %d names, but there are %d occupied segments", t.names.Count(), allocCount)
	}

	if freeSize != t.sumFreeSize {
		return pkgerrors.Errorf("the free size of the table is %d, but the free segments only added up to %d", t.sumFreeSize, freeSize)
	}

	return nil
}
