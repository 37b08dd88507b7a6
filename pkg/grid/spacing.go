package grid

import "math"

// TargetPrimaryLines is the approximate number of primary grid lines visible
// across the tighter viewport axis.
const TargetPrimaryLines = 5

// Fixed subdivision ratios of the finer tiers relative to primary spacing.
const (
	SecondaryDivisions = 5
	TertiaryDivisions  = 20
)

// Spacing holds the spacing of each tier in world units.
type Spacing struct {
	Primary   float64
	Secondary float64
	Tertiary  float64
}

// Of returns the spacing for tier t.
func (s Spacing) Of(t Tier) float64 {
	switch t {
	case Tertiary:
		return s.Tertiary
	case Secondary:
		return s.Secondary
	default:
		return s.Primary
	}
}

// SelectSpacing picks a "nice" primary spacing (1, 2 or 5 times a power of
// ten) for a viewport of the given size, and derives the finer tiers from it.
// Width and height must be positive.
func SelectSpacing(width, height float64) Spacing {
	primary := NiceSpacing(math.Min(width, height) / TargetPrimaryLines)
	return Spacing{
		Primary:   primary,
		Secondary: primary / SecondaryDivisions,
		Tertiary:  primary / TertiaryDivisions,
	}
}

// NiceSpacing rounds ideal to the nearest value on the 1-2-5 ladder.
func NiceSpacing(ideal float64) float64 {
	magnitude := math.Pow(10, math.Floor(math.Log10(ideal)))
	normalized := ideal / magnitude

	var multiplier float64
	switch {
	case normalized > 7.5:
		multiplier = 10
	case normalized > 3.5:
		multiplier = 5
	case normalized > 1.5:
		multiplier = 2
	default:
		multiplier = 1
	}
	return magnitude * multiplier
}
