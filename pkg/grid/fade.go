package grid

import "math"

// Base opacities per tier before fading.
const (
	TertiaryBaseOpacity  = 0.03
	SecondaryBaseOpacity = 0.08
	PrimaryBaseOpacity   = 0.15
)

// Stroke weights per tier, applied on top of [StrokeScale].
const (
	TertiaryStrokeWeight  = 0.5
	SecondaryStrokeWeight = 0.7
	PrimaryStrokeWeight   = 1.0
)

// MinZoom is the smallest zoom the package computes with. Smaller, zero,
// negative or NaN zooms are clamped to it.
const MinZoom = 1e-6

// Fade holds the opacity multipliers of each tier, each in [0, 1].
type Fade struct {
	Tertiary  float64
	Secondary float64
	Primary   float64
}

// Of returns the multiplier for tier t.
func (f Fade) Of(t Tier) float64 {
	switch t {
	case Tertiary:
		return f.Tertiary
	case Secondary:
		return f.Secondary
	default:
		return f.Primary
	}
}

// ComputeFade returns per-tier opacity multipliers for zoom. The zoom is
// compressed with log10 so the fade feels linear while zooming. Fine tiers
// fade out as the view zooms out; the primary tier never fades.
func ComputeFade(zoom float64) Fade {
	z := math.Log10(clampZoom(zoom) + 0.1)
	return Fade{
		Tertiary:  clamp01((z + 1) * 2),
		Secondary: clamp01((z + 0.5) * 2),
		Primary:   1,
	}
}

// StrokeScale returns the zoom-dependent stroke multiplier, capped at 1 so
// lines thin out at high zoom without vanishing at low zoom.
func StrokeScale(zoom float64) float64 {
	return math.Min(1, 1/math.Sqrt(clampZoom(zoom)))
}

// BaseOpacity returns the unfaded opacity of tier t.
func BaseOpacity(t Tier) float64 {
	switch t {
	case Tertiary:
		return TertiaryBaseOpacity
	case Secondary:
		return SecondaryBaseOpacity
	default:
		return PrimaryBaseOpacity
	}
}

// StrokeWeight returns the stroke weight of tier t.
func StrokeWeight(t Tier) float64 {
	switch t {
	case Tertiary:
		return TertiaryStrokeWeight
	case Secondary:
		return SecondaryStrokeWeight
	default:
		return PrimaryStrokeWeight
	}
}

// TierConfigs derives the drawing parameters of all three tiers.
func TierConfigs(vp Viewport, zoom float64, color string) [3]TierConfig {
	spacing := SelectSpacing(vp.Width, vp.Height)
	fade := ComputeFade(zoom)
	scale := StrokeScale(zoom)

	var out [3]TierConfig
	for _, t := range Tiers {
		out[t] = TierConfig{
			Tier:        t,
			Spacing:     spacing.Of(t),
			Opacity:     BaseOpacity(t) * fade.Of(t),
			StrokeWidth: scale * StrokeWeight(t),
			Color:       color,
		}
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func clampZoom(zoom float64) float64 {
	if math.IsNaN(zoom) || zoom < MinZoom {
		return MinZoom
	}
	return zoom
}
