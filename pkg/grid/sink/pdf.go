package sink

import (
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/render"
)

// RenderPDF renders the overlay as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(o grid.Overlay, opts ...Option) ([]byte, error) {
	return render.ToPDF(RenderSVG(o, opts...))
}
