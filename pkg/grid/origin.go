package grid

import "math"

// Origin marker thresholds.
const (
	// AxisMinZoom is the zoom at which axis lines appear.
	AxisMinZoom = 0.5

	// AxisMaxOpacity caps the axis line opacity.
	AxisMaxOpacity = 0.3

	// AxisOpacityRamp is the opacity gained per unit of zoom above AxisMinZoom.
	AxisOpacityRamp = 0.6

	// AxisStrokeWidth is the axis stroke width before [StrokeScale].
	AxisStrokeWidth = 1.5

	// OriginDotMinZoom is the zoom above which the origin dot is drawn.
	OriginDotMinZoom = 1.0

	// OriginDotRadius is the origin dot radius at zoom 1.
	OriginDotRadius = 3.0

	// OriginDotOpacity is the fixed opacity of the origin dot.
	OriginDotOpacity = 0.8
)

// GenerateOrigin returns the axis lines and origin dot for the given zoom.
// Below [AxisMinZoom] it returns an empty Origin.
func GenerateOrigin(vp Viewport, padding, zoom float64, theme Theme) Origin {
	if math.IsNaN(zoom) || zoom < AxisMinZoom {
		return Origin{}
	}
	theme = theme.WithDefaults()

	opacity := math.Min(AxisMaxOpacity, (zoom-AxisMinZoom)*AxisOpacityRamp)
	stroke := AxisStrokeWidth * StrokeScale(zoom)
	p := vp.Padded(padding)

	o := Origin{
		Axes: []Line{
			{
				Key:         "origin-axis-x",
				X1:          p.X,
				Y1:          0,
				X2:          p.X + p.Width,
				Y2:          0,
				Stroke:      theme.AxisX,
				StrokeWidth: stroke,
				Opacity:     opacity,
			},
			{
				Key:         "origin-axis-y",
				X1:          0,
				Y1:          p.Y,
				X2:          0,
				Y2:          p.Y + p.Height,
				Stroke:      theme.AxisY,
				StrokeWidth: stroke,
				Opacity:     opacity,
			},
		},
	}

	if zoom > OriginDotMinZoom {
		o.Dot = &Dot{
			Key:     "origin-dot",
			R:       OriginDotRadius / zoom,
			Fill:    theme.Accent,
			Opacity: OriginDotOpacity,
		}
	}
	return o
}

// originCount is the number of elements [GenerateOrigin] returns for zoom.
func originCount(zoom float64) int {
	switch {
	case math.IsNaN(zoom) || zoom < AxisMinZoom:
		return 0
	case zoom > OriginDotMinZoom:
		return 3
	default:
		return 2
	}
}
