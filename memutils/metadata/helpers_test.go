package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/contig/memutils/metadata"
)

type tableLayout struct {
	name string
	size int
	free bool
}

// buildTable allocates each layout entry first-fit, in order, then frees the entries marked free.
// Owner ids are assigned from 1 in layout order.
func buildTable(t *testing.T, size int, layout []tableLayout) *metadata.SegmentTable {
	t.Helper()

	table := metadata.NewSegmentTable(size)
	for i, entry := range layout {
		allocate(t, table, entry.name, entry.size, metadata.PlacementStrategyFirstFit, i+1)
	}

	for _, entry := range layout {
		if !entry.free {
			continue
		}

		seg, ok := table.FindByName(entry.name)
		require.True(t, ok)
		_, freed := table.Free(seg.Handle)
		require.True(t, freed)
	}

	require.NoError(t, table.Validate())
	return table
}

func allocate(t *testing.T, table *metadata.SegmentTable, name string, size int, strategy metadata.PlacementStrategy, ownerID int) metadata.Segment {
	t.Helper()

	success, request := table.CreateAllocationRequest(size, strategy)
	require.True(t, success)

	seg, err := table.Alloc(request, name, ownerID)
	require.NoError(t, err)
	require.NoError(t, table.Validate())
	return seg
}

type region struct {
	Offset int
	Size   int
	Name   string
}

func regions(table *metadata.SegmentTable) []region {
	var out []region
	_ = table.VisitAllRegions(func(seg metadata.Segment) error {
		out = append(out, region{Offset: seg.Offset, Size: seg.Size, Name: seg.OwnerName})
		return nil
	})
	return out
}
