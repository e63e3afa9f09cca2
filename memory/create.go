package memory

import (
	"github.com/vkngwrapper/contig/memutils"
	"github.com/vkngwrapper/core/v2/common"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific address space behaviors to activate or deactivate
type CreateFlags int32

var createFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	createFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return createFlagsMapping.FlagsToString(f)
}

const (
	// CreateExternallySynchronized ensures that the address space will not be synchronized internally.
	// The consumer must guarantee it is used from only one goroutine at a time or is synchronized by some
	// other mechanism.
	CreateExternallySynchronized CreateFlags = 1 << iota
	// CreateSkipSegmentMarks stops the address space from filling newly-occupied segments with their
	// owner's marker byte. Released and trailing free bytes are still zeroed.
	CreateSkipSegmentMarks
)

func init() {
	CreateExternallySynchronized.Register("CreateExternallySynchronized")
	CreateSkipSegmentMarks.Register("CreateSkipSegmentMarks")
}

// CreateOptions contains optional settings when creating an address space
type CreateOptions struct {
	// Flags indicates specific address space behaviors to activate or deactivate
	Flags CreateFlags
	// MaxSize caps the size passed to New and Initialize. Values of 0 or less, and values above
	// memutils.MaxSpaceSize, mean memutils.MaxSpaceSize.
	MaxSize int
	// Logger receives debug entries for every operation. If nil, nothing is logged.
	Logger *slog.Logger
}

func (o CreateOptions) maxSize() int {
	if o.MaxSize <= 0 || o.MaxSize > memutils.MaxSpaceSize {
		return memutils.MaxSpaceSize
	}
	return o.MaxSize
}
