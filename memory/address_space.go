package memory

import (
	"io"

	"github.com/OneOfOne/xxhash"
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/contig/memory/internal/utils"
	"github.com/vkngwrapper/contig/memutils"
	"github.com/vkngwrapper/contig/memutils/defrag"
	"github.com/vkngwrapper/contig/memutils/metadata"
	"golang.org/x/exp/slog"
)

// AddressSpace simulates a contiguous region of memory that named processes are placed into. It owns
// its segment table, its backing bytes, and its counters; nothing is shared between instances.
//
// Unless CreateExternallySynchronized is passed to New, every method holds a single exclusive lock
// for its full duration.
type AddressSpace struct {
	logger  *slog.Logger
	mutex   utils.OptionalMutex
	flags   CreateFlags
	maxSize int

	table     *metadata.SegmentTable
	store     *backingStore
	compactor defrag.Compactor
	// compacted sums every compaction since the last Initialize
	compacted defrag.DefragmentationStats

	occupiedCount int
	lastOwnerID   int
}

// New creates an AddressSpace of size bytes, clamped to [1, options.MaxSize]
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(size int, options CreateOptions) *AddressSpace {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	space := &AddressSpace{
		logger:  logger,
		flags:   options.Flags,
		maxSize: options.maxSize(),
		mutex: utils.OptionalMutex{
			UseMutex: options.Flags&CreateExternallySynchronized == 0,
		},
		table: metadata.NewSegmentTable(1),
	}
	space.initialize(size)

	return space
}

// Initialize discards every segment and all backing bytes, then recreates the space as a single
// free segment of size bytes, clamped to [1, MaxSize]. Both counters are reset to zero. Handles
// issued before Initialize never resolve again.
func (s *AddressSpace) Initialize(size int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.initialize(size)
}

func (s *AddressSpace) initialize(size int) {
	clamped := memutils.ClampSpaceSize(size, s.maxSize)
	s.logger.Debug("AddressSpace::Initialize", slog.Int("Requested", size), slog.Int("Size", clamped))

	s.store = newBackingStore(clamped)
	s.table.Init(clamped)
	s.occupiedCount = 0
	s.lastOwnerID = 0
	s.compacted = defrag.DefragmentationStats{}
	s.compactor = defrag.Compactor{
		Mover: s.store,
		OnMove: func(move defrag.DefragmentationMove) {
			s.logger.Debug("    Moved segment",
				slog.String("Name", move.Segment.OwnerName),
				slog.Int("SrcOffset", move.SrcOffset),
				slog.Int("DstOffset", move.DstOffset),
				slog.Int("Size", move.Size()))
		},
	}

	memutils.DebugValidate(s.table)
}

// Size returns the number of bytes in the address space
func (s *AddressSpace) Size() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.table.Size()
}

// Flags returns the CreateFlags this space was created with
func (s *AddressSpace) Flags() CreateFlags {
	return s.flags
}

// OccupiedCount returns the number of live allocations
func (s *AddressSpace) OccupiedCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.occupiedCount
}

// LastOwnerID returns the owner id given to the most recent successful request, or 0 if there
// has not been one since the last Initialize
func (s *AddressSpace) LastOwnerID() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.lastOwnerID
}

// Request places a new allocation of size bytes named name, choosing a hole with the provided
// strategy. Failures are checked in order, and none of them modify the space:
//
// memutils.ErrZeroSizeRequest - size is 0 or less
//
// memutils.ErrInvalidName - name is empty or is metadata.FreeName
//
// memutils.ErrDuplicateName - an occupied segment already holds name
//
// memutils.ErrInsufficientSpace - no hole is large enough under strategy
func (s *AddressSpace) Request(name string, size int, strategy metadata.PlacementStrategy) (metadata.Segment, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.logger.Debug("AddressSpace::Request",
		slog.String("Name", name),
		slog.Int("Size", size),
		slog.String("Strategy", strategy.String()))

	if size <= 0 {
		return metadata.Segment{}, errors.Wrapf(memutils.ErrZeroSizeRequest, "request %q for %d bytes", name, size)
	}
	if !metadata.ValidName(name) {
		return metadata.Segment{}, errors.Wrapf(memutils.ErrInvalidName, "name %q", name)
	}
	if _, exists := s.table.FindByName(name); exists {
		return metadata.Segment{}, errors.Wrapf(memutils.ErrDuplicateName, "name %q", name)
	}

	success, request := s.table.CreateAllocationRequest(size, strategy)
	if !success {
		s.logger.Debug("    AddressSpace::Request FAILED", slog.Int("SumFreeSize", s.table.SumFreeSize()))
		return metadata.Segment{}, errors.Wrapf(memutils.ErrInsufficientSpace,
			"%d bytes requested by %q using %s, %d bytes free", size, name, strategy, s.table.SumFreeSize())
	}

	ownerID := s.lastOwnerID + 1
	seg, err := s.table.Alloc(request, name, ownerID)
	if err != nil {
		return metadata.Segment{}, err
	}

	s.lastOwnerID = ownerID
	s.occupiedCount++

	if s.flags&CreateSkipSegmentMarks == 0 {
		s.store.Fill(seg.Offset, seg.Size, memutils.MarkerForID(ownerID))
	}

	s.logger.Debug("    Allocated segment",
		slog.Int("OwnerID", ownerID),
		slog.Int("Offset", seg.Offset),
		slog.Bool("ExactFit", request.ExactFit()))

	memutils.DebugValidate(s.table)
	return seg, nil
}

// FindByName returns the handle of the occupied segment holding name
func (s *AddressSpace) FindByName(name string) (metadata.SegmentHandle, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	seg, ok := s.table.FindByName(name)
	if !ok {
		return metadata.NoSegment, false
	}

	return seg.Handle, true
}

// Segment retrieves the current state of the segment identified by handle
func (s *AddressSpace) Segment(handle metadata.SegmentHandle) (metadata.Segment, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.table.Segment(handle)
}

// Release zeroes the bytes of the occupied segment identified by handle and returns it to the
// free pool, coalescing with any neighboring holes. Handles that are unknown or already free are
// ignored, and false is returned.
func (s *AddressSpace) Release(handle metadata.SegmentHandle) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.logger.Debug("AddressSpace::Release", slog.Uint64("Handle", uint64(handle)))

	released, ok := s.table.Free(handle)
	if !ok {
		return false
	}

	s.store.Zero(released.Offset, released.Size)
	s.occupiedCount--

	memutils.DebugValidate(s.table)
	return true
}

// Compact moves every occupied segment toward offset 0 in its current order, moving the backing
// bytes along with it, and leaves all free space in one zeroed trailing hole. Handles, names, and
// owner ids are unaffected.
func (s *AddressSpace) Compact() (defrag.DefragmentationStats, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.logger.Debug("AddressSpace::Compact", slog.Int("SegmentCount", s.table.Len()))

	stats, err := s.compactor.Compact(s.table)
	if err != nil {
		s.logger.Error("compaction failed", slog.Any("error", err))
		return stats, err
	}
	s.compacted.Add(stats)

	s.logger.Debug("    Compacted",
		slog.Int("AllocationsMoved", stats.AllocationsMoved),
		slog.Int("BytesMoved", stats.BytesMoved),
		slog.Int("HolesRemoved", stats.HolesRemoved))

	memutils.DebugValidate(s.table)
	return stats, nil
}

// CompactionStats returns the sum of every compaction since the last Initialize
func (s *AddressSpace) CompactionStats() defrag.DefragmentationStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.compacted
}

// ReadBytes returns a copy of the backing bytes of the segment identified by handle
func (s *AddressSpace) ReadBytes(handle metadata.SegmentHandle) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	seg, ok := s.table.Segment(handle)
	if !ok {
		return nil, errors.Wrapf(memutils.ErrUnknownSegment, "handle %d", handle)
	}

	out := make([]byte, seg.Size)
	copy(out, s.store.Slice(seg.Offset, seg.Size))
	return out, nil
}

// Digest returns the xxhash64 of the backing bytes of the occupied segment identified by handle.
// Compaction moves bytes without changing them, so a segment's digest survives it.
func (s *AddressSpace) Digest(handle metadata.SegmentHandle) (uint64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	seg, ok := s.table.Segment(handle)
	if !ok || seg.IsFree() {
		return 0, errors.Wrapf(memutils.ErrUnknownSegment, "handle %d", handle)
	}

	h := xxhash.New64()
	_, err := h.Write(s.store.Slice(seg.Offset, seg.Size))
	if err != nil {
		return 0, err
	}

	return h.Sum64(), nil
}
