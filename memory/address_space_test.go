package memory_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/contig/memory"
	"github.com/vkngwrapper/contig/memutils"
	"github.com/vkngwrapper/contig/memutils/metadata"
)

type layout struct {
	Name   string
	Role   metadata.Role
	Base   int
	Length int
}

func describe(space *memory.AddressSpace) []layout {
	var out []layout
	for _, info := range space.Snapshot() {
		out = append(out, layout{Name: info.Name, Role: info.Role, Base: info.Base, Length: info.Length})
	}
	return out
}

func request(t *testing.T, space *memory.AddressSpace, name string, size int, strategy metadata.PlacementStrategy) metadata.Segment {
	t.Helper()

	seg, err := space.Request(name, size, strategy)
	require.NoError(t, err)
	require.NoError(t, space.Validate())
	return seg
}

func release(t *testing.T, space *memory.AddressSpace, name string) {
	t.Helper()

	handle, ok := space.FindByName(name)
	require.True(t, ok)
	require.True(t, space.Release(handle))
	require.NoError(t, space.Validate())
}

func TestRequestSplitsAndRejectsOversize(t *testing.T) {
	space := memory.New(100, memory.CreateOptions{})

	seg := request(t, space, "P1", 40, metadata.PlacementStrategyFirstFit)
	require.Equal(t, 0, seg.Offset)
	require.Equal(t, 40, seg.Size)
	require.Equal(t, 1, seg.OwnerID)

	require.Equal(t, []layout{
		{Name: "P1", Role: metadata.RoleOccupied, Base: 0, Length: 40},
		{Name: metadata.FreeName, Role: metadata.RoleFree, Base: 40, Length: 60},
	}, describe(space))

	_, err := space.Request("P2", 80, metadata.PlacementStrategyFirstFit)
	require.ErrorIs(t, err, memutils.ErrInsufficientSpace)
	require.Equal(t, memutils.ReasonInsufficientSpace, memutils.ReasonOf(err))
	require.Equal(t, 1, space.OccupiedCount())
	require.Equal(t, 1, space.LastOwnerID())

	release(t, space, "P1")
	require.Equal(t, []layout{
		{Name: metadata.FreeName, Role: metadata.RoleFree, Base: 0, Length: 100},
	}, describe(space))
	require.Zero(t, space.OccupiedCount())
}

func TestCompactAfterRelease(t *testing.T) {
	space := memory.New(100, memory.CreateOptions{})

	request(t, space, "P1", 30, metadata.PlacementStrategyFirstFit)
	request(t, space, "P2", 20, metadata.PlacementStrategyFirstFit)
	p3 := request(t, space, "P3", 10, metadata.PlacementStrategyFirstFit)
	release(t, space, "P2")

	require.Equal(t, []layout{
		{Name: "P1", Role: metadata.RoleOccupied, Base: 0, Length: 30},
		{Name: metadata.FreeName, Role: metadata.RoleFree, Base: 30, Length: 20},
		{Name: "P3", Role: metadata.RoleOccupied, Base: 50, Length: 10},
		{Name: metadata.FreeName, Role: metadata.RoleFree, Base: 60, Length: 40},
	}, describe(space))

	digest, err := space.Digest(p3.Handle)
	require.NoError(t, err)

	stats, err := space.Compact()
	require.NoError(t, err)
	require.NoError(t, space.Validate())
	require.Equal(t, 1, stats.AllocationsMoved)
	require.Equal(t, 10, stats.BytesMoved)

	require.Equal(t, []layout{
		{Name: "P1", Role: metadata.RoleOccupied, Base: 0, Length: 30},
		{Name: "P3", Role: metadata.RoleOccupied, Base: 30, Length: 10},
		{Name: metadata.FreeName, Role: metadata.RoleFree, Base: 40, Length: 60},
	}, describe(space))

	moved, err := space.Digest(p3.Handle)
	require.NoError(t, err)
	require.Equal(t, digest, moved)

	bytes, err := space.ReadBytes(p3.Handle)
	require.NoError(t, err)
	for _, b := range bytes {
		require.Equal(t, memutils.MarkerForID(3), b)
	}

	once := space.Snapshot()
	_, err = space.Compact()
	require.NoError(t, err)
	require.Equal(t, once, space.Snapshot())
}

func TestRequestFailureOrder(t *testing.T) {
	space := memory.New(10, memory.CreateOptions{})
	request(t, space, "taken", 10, metadata.PlacementStrategyFirstFit)

	testCases := map[string]struct {
		name   string
		size   int
		reason memutils.Reason
	}{
		"ZeroBeforeName":      {name: "", size: 0, reason: memutils.ReasonZeroSize},
		"NegativeSize":        {name: "x", size: -4, reason: memutils.ReasonZeroSize},
		"EmptyName":           {name: "", size: 100, reason: memutils.ReasonInvalidName},
		"SentinelName":        {name: metadata.FreeName, size: 1, reason: memutils.ReasonInvalidName},
		"DuplicateBeforeSize": {name: "taken", size: 100, reason: memutils.ReasonDuplicateName},
		"NoSpace":             {name: "new", size: 1, reason: memutils.ReasonInsufficientSpace},
	}

	for testName, testCase := range testCases {
		t.Run(testName, func(t *testing.T) {
			before := space.Snapshot()
			_, err := space.Request(testCase.name, testCase.size, metadata.PlacementStrategyFirstFit)
			require.Error(t, err)
			require.Equal(t, testCase.reason, memutils.ReasonOf(err))
			require.Equal(t, before, space.Snapshot())
			require.Equal(t, 1, space.LastOwnerID())
		})
	}
}

func TestDuplicateNameUntilReleased(t *testing.T) {
	space := memory.New(100, memory.CreateOptions{})
	request(t, space, "A", 10, metadata.PlacementStrategyFirstFit)

	_, err := space.Request("A", 5, metadata.PlacementStrategyBestFit)
	require.ErrorIs(t, err, memutils.ErrDuplicateName)

	release(t, space, "A")
	seg := request(t, space, "A", 5, metadata.PlacementStrategyBestFit)
	require.Equal(t, 2, seg.OwnerID)
}

func TestOwnerIDsNeverReused(t *testing.T) {
	space := memory.New(64, memory.CreateOptions{})

	var last int
	for i := 0; i < 20; i++ {
		seg := request(t, space, "churn", 8, metadata.PlacementStrategyWorstFit)
		require.Greater(t, seg.OwnerID, last)
		last = seg.OwnerID
		release(t, space, "churn")
	}
	require.Equal(t, 20, space.LastOwnerID())

	space.Initialize(64)
	seg := request(t, space, "fresh", 8, metadata.PlacementStrategyFirstFit)
	require.Equal(t, 1, seg.OwnerID)
}

func TestRoundTripRestoresHole(t *testing.T) {
	space := memory.New(100, memory.CreateOptions{})
	request(t, space, "L", 20, metadata.PlacementStrategyFirstFit)
	request(t, space, "gap", 30, metadata.PlacementStrategyFirstFit)
	request(t, space, "R", 10, metadata.PlacementStrategyFirstFit)
	release(t, space, "gap")

	before := describe(space)
	request(t, space, "k", 12, metadata.PlacementStrategyBestFit)
	release(t, space, "k")
	require.Equal(t, before, describe(space))
}

func TestReleaseIsIdempotent(t *testing.T) {
	space := memory.New(32, memory.CreateOptions{})
	seg := request(t, space, "A", 8, metadata.PlacementStrategyFirstFit)

	require.True(t, space.Release(seg.Handle))
	require.False(t, space.Release(seg.Handle))
	require.False(t, space.Release(metadata.NoSegment))
	require.Zero(t, space.OccupiedCount())
	require.NoError(t, space.Validate())
}

func TestReleaseZeroesBytes(t *testing.T) {
	space := memory.New(16, memory.CreateOptions{})
	seg := request(t, space, "A", 16, metadata.PlacementStrategyFirstFit)

	bytes, err := space.ReadBytes(seg.Handle)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, bytes)

	require.True(t, space.Release(seg.Handle))

	// The freed segment kept its handle as the surviving hole
	bytes, err = space.ReadBytes(seg.Handle)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 16), bytes)
}

func TestSkipSegmentMarks(t *testing.T) {
	space := memory.New(16, memory.CreateOptions{Flags: memory.CreateSkipSegmentMarks})
	seg := request(t, space, "A", 4, metadata.PlacementStrategyFirstFit)

	bytes, err := space.ReadBytes(seg.Handle)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 4), bytes)
	require.Equal(t, "CreateSkipSegmentMarks", space.Flags().String())
}

func TestInitializeClampsAndResets(t *testing.T) {
	space := memory.New(1<<30, memory.CreateOptions{})
	require.Equal(t, memutils.MaxSpaceSize, space.Size())

	seg := request(t, space, "A", 10, metadata.PlacementStrategyFirstFit)

	space.Initialize(0)
	require.Equal(t, 1, space.Size())
	require.Zero(t, space.OccupiedCount())
	require.Zero(t, space.LastOwnerID())

	_, ok := space.Segment(seg.Handle)
	require.False(t, ok)
	_, ok = space.FindByName("A")
	require.False(t, ok)

	limited := memory.New(500, memory.CreateOptions{MaxSize: 100})
	require.Equal(t, 100, limited.Size())
}

func TestUnknownStrategyFindsNothing(t *testing.T) {
	space := memory.New(100, memory.CreateOptions{})
	_, err := space.Request("A", 1, metadata.PlacementStrategyUnknown)
	require.ErrorIs(t, err, memutils.ErrInsufficientSpace)
}

func TestDigestRejectsHoles(t *testing.T) {
	space := memory.New(100, memory.CreateOptions{})
	hole := space.Snapshot()[0]

	_, err := space.Digest(hole.Handle)
	require.ErrorIs(t, err, memutils.ErrUnknownSegment)

	_, err = space.ReadBytes(metadata.NoSegment)
	require.ErrorIs(t, err, memutils.ErrUnknownSegment)
}

func TestStatistics(t *testing.T) {
	space := memory.New(100, memory.CreateOptions{})
	request(t, space, "A", 10, metadata.PlacementStrategyFirstFit)
	request(t, space, "B", 20, metadata.PlacementStrategyFirstFit)
	request(t, space, "C", 5, metadata.PlacementStrategyFirstFit)
	release(t, space, "B")

	var stats memutils.Statistics
	space.Statistics(&stats)
	require.Equal(t, memutils.Statistics{
		SegmentCount:    4,
		AllocationCount: 2,
		SpaceBytes:      100,
		AllocationBytes: 15,
	}, stats)

	var detailed memutils.DetailedStatistics
	detailed.Clear()
	space.DetailedStatistics(&detailed)
	require.Equal(t, 2, detailed.UnusedRangeCount)
	require.Equal(t, 85, detailed.UnusedBytes)
	require.Equal(t, 20, detailed.UnusedRangeSizeMin)
	require.Equal(t, 65, detailed.UnusedRangeSizeMax)
	require.InDelta(t, 1-65.0/85.0, detailed.ExternalFragmentation(), 1e-9)
}
