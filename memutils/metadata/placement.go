package metadata

// CreateAllocationRequest chooses a hole for an allocation of allocSize bytes using the provided
// strategy. It returns false if no hole is eligible: when allocSize is not positive, when the
// strategy is PlacementStrategyUnknown, or when every hole is too small. The returned
// AllocationRequest can be passed to Alloc to commit the allocation.
func (t *SegmentTable) CreateAllocationRequest(allocSize int, strategy PlacementStrategy) (bool, AllocationRequest) {
	var request AllocationRequest
	if allocSize <= 0 {
		return false, request
	}

	var index int
	switch strategy {
	case PlacementStrategyFirstFit:
		index = t.findFirstFit(allocSize)
	case PlacementStrategyBestFit:
		index = t.findBestFit(allocSize)
	case PlacementStrategyWorstFit:
		index = t.findWorstFit(allocSize)
	default:
		return false, request
	}

	if index < 0 {
		return false, request
	}

	hole := t.segments[index]
	request.Handle = hole.Handle
	request.Offset = hole.Offset
	request.Size = allocSize
	request.HoleSize = hole.Size
	request.Strategy = strategy

	return true, request
}

func (t *SegmentTable) findFirstFit(allocSize int) int {
	for i := range t.segments {
		if t.segments[i].IsFree() && t.segments[i].Size >= allocSize {
			return i
		}
	}

	return -1
}

func (t *SegmentTable) findBestFit(allocSize int) int {
	found := -1
	for i := range t.segments {
		seg := &t.segments[i]
		if !seg.IsFree() || seg.Size < allocSize {
			continue
		}

		// Strict comparison keeps the lowest offset among equal sizes
		if found < 0 || seg.Size < t.segments[found].Size {
			found = i
			if seg.Size == allocSize {
				break
			}
		}
	}

	return found
}

func (t *SegmentTable) findWorstFit(allocSize int) int {
	found := -1
	for i := range t.segments {
		seg := &t.segments[i]
		if !seg.IsFree() || seg.Size < allocSize {
			continue
		}

		if found < 0 || seg.Size > t.segments[found].Size {
			found = i
		}
	}

	return found
}
