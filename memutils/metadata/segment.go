package metadata

import "math"

// SegmentHandle is a numeric handle used to identify an individual segment within a SegmentTable.
// Handles are never reused by a table, so a handle held across an Init, a merge, or a rebuild
// simply stops resolving.
type SegmentHandle uint64

const (
	NoSegment SegmentHandle = math.MaxUint64
)

// FreeName is the owner name carried by every free segment. It can never be used to name an allocation.
const FreeName = "hole"

// Role indicates whether a segment is a hole or is held by an allocation
type Role uint32

const (
	RoleFree Role = iota
	RoleOccupied
)

var roleMapping = map[Role]string{
	RoleFree:     "RoleFree",
	RoleOccupied: "RoleOccupied",
}

func (r Role) String() string {
	return roleMapping[r]
}

// Segment describes one contiguous range of the address space, [Offset, Offset+Size)
type Segment struct {
	Handle    SegmentHandle
	Role      Role
	Offset    int
	Size      int
	OwnerID   int
	OwnerName string
}

// End is the first offset past this segment
func (s Segment) End() int { return s.Offset + s.Size }

// IsFree returns true if this segment is a hole
func (s Segment) IsFree() bool { return s.Role == RoleFree }

func (s *Segment) markFree() {
	s.Role = RoleFree
	s.OwnerID = 0
	s.OwnerName = FreeName
}

func (s *Segment) markOccupied(name string, ownerID int) {
	s.Role = RoleOccupied
	s.OwnerID = ownerID
	s.OwnerName = name
}

// ValidName returns true if name may be used to identify an occupied segment
func ValidName(name string) bool {
	return name != "" && name != FreeName
}
