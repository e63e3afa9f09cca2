package metadata

// AllocationRequest is a type returned from SegmentTable.CreateAllocationRequest which indicates which
// hole the table intends to carve a new allocation from. It is committed with SegmentTable.Alloc.
type AllocationRequest struct {
	// Handle identifies the hole chosen for the allocation
	Handle SegmentHandle
	// Offset is where the allocation will begin: the base of the hole
	Offset int
	// Size is the number of bytes requested
	Size int
	// HoleSize is the size of the hole at the time the request was created
	HoleSize int
	// Strategy is the placement strategy that chose the hole
	Strategy PlacementStrategy
}

// ExactFit returns true if committing this request will consume the whole hole
func (r AllocationRequest) ExactFit() bool {
	return r.Size == r.HoleSize
}
