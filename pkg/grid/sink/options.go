package sink

import (
	"math"

	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/grid"
)

// Option configures SVG, PNG and PDF rendering.
type Option func(*renderer)

type renderer struct {
	width      float64
	height     float64
	background string
	class      string
}

// WithSize sets the output size in pixels. Zero values keep the default
// (viewport size times zoom).
func WithSize(width, height float64) Option {
	return func(r *renderer) { r.width, r.height = width, height }
}

// WithBackground fills the canvas with a colour before drawing the grid.
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

// WithClass sets the class attribute of the SVG root element.
func WithClass(class string) Option { return func(r *renderer) { r.class = class } }

func newRenderer(opts ...Option) renderer {
	r := renderer{class: "grid-overlay"}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// size returns the output size for o, in pixels.
func (r renderer) size(o grid.Overlay) (float64, float64) {
	w, h := r.width, r.height
	zoom := o.Input.Zoom
	if zoom <= 0 || math.IsNaN(zoom) {
		zoom = 1
	}
	if w <= 0 {
		w = o.Input.Viewport.Width * zoom
	}
	if h <= 0 {
		h = o.Input.Viewport.Height * zoom
	}
	return w, h
}

// pixelSize returns the integer raster size for o, scaled down to fit
// errors.MaxPixels on the longer side.
func (r renderer) pixelSize(o grid.Overlay) (int, int) {
	w, h := r.size(o)
	if longest := math.Max(w, h); longest > errors.MaxPixels {
		scale := errors.MaxPixels / longest
		w, h = w*scale, h*scale
	}
	return max(1, int(math.Round(w))), max(1, int(math.Round(h)))
}
