package metadata

import "unicode"

// PlacementStrategy selects which hole a new allocation is carved from
type PlacementStrategy uint32

const (
	// PlacementStrategyUnknown is the result of parsing an unrecognized strategy tag. No hole is ever
	// eligible under it.
	PlacementStrategyUnknown PlacementStrategy = iota
	// PlacementStrategyFirstFit chooses the lowest-offset hole that is large enough
	PlacementStrategyFirstFit
	// PlacementStrategyBestFit chooses the smallest hole that is large enough, preferring the lowest
	// offset among holes of equal size
	PlacementStrategyBestFit
	// PlacementStrategyWorstFit chooses the largest hole that is large enough, preferring the lowest
	// offset among holes of equal size
	PlacementStrategyWorstFit
)

var placementStrategyMapping = map[PlacementStrategy]string{
	PlacementStrategyUnknown:  "PlacementStrategyUnknown",
	PlacementStrategyFirstFit: "PlacementStrategyFirstFit",
	PlacementStrategyBestFit:  "PlacementStrategyBestFit",
	PlacementStrategyWorstFit: "PlacementStrategyWorstFit",
}

func (s PlacementStrategy) String() string {
	return placementStrategyMapping[s]
}

// ParseStrategy reads a strategy tag. Only the first character matters and it is case-insensitive:
// f is first-fit, b is best-fit, w is worst-fit. An empty tag is first-fit.
func ParseStrategy(tag string) PlacementStrategy {
	if tag == "" {
		return PlacementStrategyFirstFit
	}

	switch unicode.ToLower(rune(tag[0])) {
	case 'f':
		return PlacementStrategyFirstFit
	case 'b':
		return PlacementStrategyBestFit
	case 'w':
		return PlacementStrategyWorstFit
	}

	return PlacementStrategyUnknown
}
