package memutils_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/contig/memutils"
)

func TestDetailedStatisticsAccumulate(t *testing.T) {
	var stats memutils.DetailedStatistics
	stats.Clear()
	stats.SpaceBytes = 100

	stats.AddAllocation(30)
	stats.AddUnusedRange(20)
	stats.AddAllocation(10)
	stats.AddUnusedRange(40)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			SegmentCount:    4,
			AllocationCount: 2,
			SpaceBytes:      100,
			AllocationBytes: 40,
		},
		UnusedRangeCount:   2,
		UnusedBytes:        60,
		AllocationSizeMin:  10,
		AllocationSizeMax:  30,
		UnusedRangeSizeMin: 20,
		UnusedRangeSizeMax: 40,
	}, stats)
	require.Equal(t, 60, stats.FreeBytes())
	require.InDelta(t, 1.0/3.0, stats.ExternalFragmentation(), 1e-9)
}

func TestDetailedStatisticsEmpty(t *testing.T) {
	var stats memutils.DetailedStatistics
	stats.Clear()

	require.Equal(t, math.MaxInt, stats.AllocationSizeMin)
	require.Equal(t, math.MaxInt, stats.UnusedRangeSizeMin)
	require.Equal(t, 0.0, stats.ExternalFragmentation())

	stats.AddUnusedRange(64)

	require.Equal(t, 1, stats.SegmentCount)
	require.Equal(t, 64, stats.UnusedRangeSizeMin)
	require.Equal(t, 64, stats.UnusedRangeSizeMax)
	require.Equal(t, 0.0, stats.ExternalFragmentation())
}
