package grid

import (
	"math"
	"strconv"
)

// PaddingFactor scales the larger viewport dimension into the margin
// generated around the viewport, so panning does not reveal empty edges
// before the next render.
const PaddingFactor = 0.5

// MinVisibleOpacity is the opacity below which a tier is not generated.
const MinVisibleOpacity = 0.01

// Dot radii per tier at zoom 1. Radii are divided by zoom, so dots shrink on
// screen as the view magnifies.
const (
	TertiaryDotRadius  = 0.5
	SecondaryDotRadius = 0.75
	PrimaryDotRadius   = 1.0
)

// Padding returns the margin generated around vp.
func Padding(vp Viewport) float64 {
	return math.Max(vp.Width, vp.Height) * PaddingFactor
}

// MaxStepIndex is the largest grid step index, in absolute value, that a
// tier may enumerate. Beyond it float64 positions are no longer exact
// multiples of the spacing.
const MaxStepIndex = 1 << 53

// span is an inclusive range of grid step indices along one axis.
type span struct {
	first, last int
}

func (s span) count() int {
	if s.last < s.first {
		return 0
	}
	return s.last - s.first + 1
}

// axisSpan returns the step indices whose positions cover [lo, hi], extended
// outward to the nearest multiples of spacing. ok is false when an index
// falls outside ±[MaxStepIndex].
func axisSpan(lo, hi, spacing float64) (s span, ok bool) {
	first, last := math.Floor(lo/spacing), math.Ceil(hi/spacing)
	if !(math.Abs(first) <= MaxStepIndex && math.Abs(last) <= MaxStepIndex) {
		return span{}, false
	}
	return span{first: int(first), last: int(last)}, true
}

// bounds computes the padded X and Y step ranges for a tier.
func bounds(vp Viewport, spacing, padding float64) (xs, ys span, ok bool) {
	xs, okX := axisSpan(vp.X-padding, vp.X+vp.Width+padding, spacing)
	ys, okY := axisSpan(vp.Y-padding, vp.Y+vp.Height+padding, spacing)
	return xs, ys, okX && okY
}

// tierSpans returns the step ranges of a drawable tier. ok is false when the
// tier generates nothing.
func tierSpans(cfg TierConfig, vp Viewport, padding float64) (xs, ys span, ok bool) {
	if !drawable(cfg) {
		return span{}, span{}, false
	}
	return bounds(vp, cfg.Spacing, padding)
}

// GenerateLines emits one vertical line per X step and one horizontal line
// per Y step covering the padded viewport. Tiers below [MinVisibleOpacity]
// or with a non-positive or non-finite spacing produce no lines.
func GenerateLines(cfg TierConfig, vp Viewport, padding float64) []Line {
	xs, ys, ok := tierSpans(cfg, vp, padding)
	if !ok {
		return nil
	}
	startX, endX := float64(xs.first)*cfg.Spacing, float64(xs.last)*cfg.Spacing
	startY, endY := float64(ys.first)*cfg.Spacing, float64(ys.last)*cfg.Spacing

	prefix := cfg.Tier.String()
	lines := make([]Line, 0, xs.count()+ys.count())
	for i := xs.first; i <= xs.last; i++ {
		x := float64(i) * cfg.Spacing
		lines = append(lines, Line{
			Key:         prefix + "-v-" + strconv.Itoa(i),
			X1:          x,
			Y1:          startY,
			X2:          x,
			Y2:          endY,
			Stroke:      cfg.Color,
			StrokeWidth: cfg.StrokeWidth,
			Opacity:     cfg.Opacity,
		})
	}
	for j := ys.first; j <= ys.last; j++ {
		y := float64(j) * cfg.Spacing
		lines = append(lines, Line{
			Key:         prefix + "-h-" + strconv.Itoa(j),
			X1:          startX,
			Y1:          y,
			X2:          endX,
			Y2:          y,
			Stroke:      cfg.Color,
			StrokeWidth: cfg.StrokeWidth,
			Opacity:     cfg.Opacity,
		})
	}
	return lines
}

// GenerateDots emits a dot at every grid intersection covering the padded
// viewport. The same skip rules as [GenerateLines] apply.
func GenerateDots(cfg TierConfig, vp Viewport, padding, zoom float64) []Dot {
	xs, ys, ok := tierSpans(cfg, vp, padding)
	if !ok {
		return nil
	}
	r := DotRadius(cfg.Tier) / clampZoom(zoom)

	prefix := cfg.Tier.String()
	dots := make([]Dot, 0, xs.count()*ys.count())
	for i := xs.first; i <= xs.last; i++ {
		x := float64(i) * cfg.Spacing
		for j := ys.first; j <= ys.last; j++ {
			y := float64(j) * cfg.Spacing
			dots = append(dots, Dot{
				Key:     prefix + "-d-" + strconv.Itoa(i) + "-" + strconv.Itoa(j),
				CX:      x,
				CY:      y,
				R:       r,
				Fill:    cfg.Color,
				Opacity: cfg.Opacity,
			})
		}
	}
	return dots
}

// DotRadius returns the zoom-1 dot radius of tier t.
func DotRadius(t Tier) float64 {
	switch t {
	case Tertiary:
		return TertiaryDotRadius
	case Secondary:
		return SecondaryDotRadius
	default:
		return PrimaryDotRadius
	}
}

func drawable(cfg TierConfig) bool {
	if !cfg.Visible() {
		return false
	}
	return cfg.Spacing > 0 && !math.IsInf(cfg.Spacing, 0) && !math.IsNaN(cfg.Spacing)
}

// lineCount and dotCount report how many elements [GenerateLines] and
// [GenerateDots] would emit for cfg, saturating at math.MaxInt.
func lineCount(cfg TierConfig, vp Viewport, padding float64) int {
	xs, ys, ok := tierSpans(cfg, vp, padding)
	if !ok {
		return 0
	}
	return addSat(xs.count(), ys.count())
}

func dotCount(cfg TierConfig, vp Viewport, padding float64) int {
	xs, ys, ok := tierSpans(cfg, vp, padding)
	if !ok {
		return 0
	}
	return mulSat(xs.count(), ys.count())
}

func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func mulSat(a, b int) int {
	if a != 0 && b > math.MaxInt/a {
		return math.MaxInt
	}
	return a * b
}
