package grid

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/gridkit/pkg/errors"
)

// Viewport is the visible region in world coordinates.
type Viewport struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// ParseViewport parses an SVG viewBox-style string of four numbers
// ("x y width height"), separated by whitespace and/or commas.
func ParseViewport(s string) (Viewport, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) != 4 {
		return Viewport{}, errors.New(errors.ErrCodeInvalidViewport,
			"viewport must have 4 numbers, got %d in %q", len(fields), s)
	}

	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Viewport{}, errors.Wrap(errors.ErrCodeInvalidViewport, err, "viewport value %q", f)
		}
		v[i] = n
	}

	vp := Viewport{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	if err := vp.Validate(); err != nil {
		return Viewport{}, err
	}
	return vp, nil
}

// Validate checks that all values are finite, the size is positive and the
// viewport is close enough to the origin for grid positions to be exact.
func (v Viewport) Validate() error {
	for _, n := range []float64{v.X, v.Y, v.Width, v.Height} {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return errors.New(errors.ErrCodeInvalidViewport, "viewport values must be finite")
		}
	}
	if v.Width <= 0 || v.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidViewport,
			"viewport size must be positive, got %gx%g", v.Width, v.Height)
	}
	if !v.representable() {
		return errors.New(errors.ErrCodeInvalidViewport,
			"viewport at (%g, %g) is too far from the origin for its size %gx%g", v.X, v.Y, v.Width, v.Height)
	}
	return nil
}

// representable reports whether every grid position of the padded viewport,
// down to the finest tier, is an exact step index within ±[MaxStepIndex].
func (v Viewport) representable() bool {
	spacing := SelectSpacing(v.Width, v.Height).Tertiary
	p := v.Padded(Padding(v))
	for _, edge := range []float64{p.X, p.X + p.Width, p.Y, p.Y + p.Height} {
		if !(math.Abs(edge/spacing) <= MaxStepIndex) {
			return false
		}
	}
	return true
}

// String formats the viewport as a viewBox attribute value.
func (v Viewport) String() string {
	return formatFloat(v.X) + " " + formatFloat(v.Y) + " " + formatFloat(v.Width) + " " + formatFloat(v.Height)
}

// Center returns the world coordinates of the viewport centre.
func (v Viewport) Center() (float64, float64) {
	return v.X + v.Width/2, v.Y + v.Height/2
}

// Pan moves the viewport by (dx, dy) world units.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.X += dx
	v.Y += dy
	return v
}

// ZoomAround scales the viewport by 1/factor, keeping the world point
// (cx, cy) at the same relative screen position. factor > 1 zooms in.
func (v Viewport) ZoomAround(factor, cx, cy float64) Viewport {
	if factor <= 0 {
		return v
	}
	return Viewport{
		X:      cx - (cx-v.X)/factor,
		Y:      cy - (cy-v.Y)/factor,
		Width:  v.Width / factor,
		Height: v.Height / factor,
	}
}

// Padded returns the viewport grown by padding on every side.
func (v Viewport) Padded(padding float64) Viewport {
	return Viewport{
		X:      v.X - padding,
		Y:      v.Y - padding,
		Width:  v.Width + 2*padding,
		Height: v.Height + 2*padding,
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
