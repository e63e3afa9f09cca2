package memutils

import "math"

// Statistics is a cheap summary of an address space: how much of it exists and how much of it
// is occupied
type Statistics struct {
	SegmentCount    int
	AllocationCount int
	SpaceBytes      int
	AllocationBytes int
}

func (s *Statistics) Clear() {
	s.SegmentCount = 0
	s.AllocationCount = 0
	s.SpaceBytes = 0
	s.AllocationBytes = 0
}

// FreeBytes is the number of bytes not held by any allocation
func (s *Statistics) FreeBytes() int {
	return s.SpaceBytes - s.AllocationBytes
}

type DetailedStatistics struct {
	Statistics
	UnusedRangeCount   int
	UnusedBytes        int
	AllocationSizeMin  int
	AllocationSizeMax  int
	UnusedRangeSizeMin int
	UnusedRangeSizeMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.UnusedRangeCount = 0
	s.UnusedBytes = 0
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
	s.UnusedRangeSizeMin = math.MaxInt
	s.UnusedRangeSizeMax = 0
}

func (s *DetailedStatistics) AddUnusedRange(size int) {
	s.SegmentCount++
	s.UnusedRangeCount++
	s.UnusedBytes += size

	if size < s.UnusedRangeSizeMin {
		s.UnusedRangeSizeMin = size
	}

	if size > s.UnusedRangeSizeMax {
		s.UnusedRangeSizeMax = size
	}
}

func (s *DetailedStatistics) AddAllocation(size int) {
	s.SegmentCount++
	s.AllocationCount++
	s.AllocationBytes += size

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}
}

// ExternalFragmentation reports how scattered the free space is, from 0 (all free bytes in a single
// hole, or no free bytes at all) approaching 1 (free bytes spread across many small holes).
func (s *DetailedStatistics) ExternalFragmentation() float64 {
	if s.UnusedBytes == 0 {
		return 0
	}

	return 1 - float64(s.UnusedRangeSizeMax)/float64(s.UnusedBytes)
}
