package metadata

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// BlockJsonData populates a json object with summary information about this table
func (t *SegmentTable) BlockJsonData(json *jwriter.ObjectState) {
	json.Name("TotalBytes").Int(t.size)
	json.Name("UnusedBytes").Int(t.sumFreeSize)
	json.Name("Allocations").Int(t.allocCount)
	json.Name("UnusedRanges").Int(t.FreeRegionsCount())
}

// PrintDetailedMap populates a json object with summary information about this table followed by
// a "Segments" array describing every segment in offset order. json is shared with the caller so
// that fields written before and after this call stay comma-separated.
func (t *SegmentTable) PrintDetailedMap(json *jwriter.ObjectState) {
	t.BlockJsonData(json)

	arrayState := json.Name("Segments").Array()
	defer arrayState.End()

	_ = t.VisitAllRegions(func(seg Segment) error {
		obj := arrayState.Object()
		defer obj.End()

		obj.Name("Offset").Int(seg.Offset)
		obj.Name("Size").Int(seg.Size)
		obj.Name("Type").String(seg.Role.String())

		if !seg.IsFree() {
			obj.Name("Name").String(seg.OwnerName)
			obj.Name("OwnerID").Int(seg.OwnerID)
		}

		return nil
	})
}
