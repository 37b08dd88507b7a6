package sink

import (
	"bytes"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/grid"
)

// minLinePixels keeps hairlines from disappearing entirely when rasterised.
const minLinePixels = 0.5

// RenderPNG rasterises the overlay to PNG.
func RenderPNG(o grid.Overlay, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	pw, ph := r.pixelSize(o)

	vp := o.Input.Viewport
	sx := float64(pw) / vp.Width
	sy := float64(ph) / vp.Height
	c := canvas{dc: gg.NewContext(pw, ph), vp: vp, sx: sx, sy: sy}

	if r.background != "" {
		bg, err := parseColor(r.background)
		if err != nil {
			return nil, err
		}
		c.dc.SetColor(bg)
		c.dc.Clear()
	}

	for _, layer := range o.Tiers {
		if err := c.drawLines(layer.Lines); err != nil {
			return nil, err
		}
		if err := c.drawDots(layer.Dots); err != nil {
			return nil, err
		}
	}
	if err := c.drawLines(o.Origin.Axes); err != nil {
		return nil, err
	}
	if o.Origin.Dot != nil {
		if err := c.drawDots([]grid.Dot{*o.Origin.Dot}); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := c.dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode png")
	}
	return buf.Bytes(), nil
}

// canvas maps world coordinates onto a gg drawing context.
type canvas struct {
	dc     *gg.Context
	vp     grid.Viewport
	sx, sy float64
}

func (c canvas) px(x float64) float64 { return (x - c.vp.X) * c.sx }
func (c canvas) py(y float64) float64 { return (y - c.vp.Y) * c.sy }

func (c canvas) drawLines(lines []grid.Line) error {
	var (
		last  string
		color colorful.Color
	)
	for _, l := range lines {
		if l.Stroke != last {
			col, err := parseColor(l.Stroke)
			if err != nil {
				return err
			}
			color, last = col, l.Stroke
		}
		c.dc.SetRGBA(color.R, color.G, color.B, l.Opacity)
		c.dc.SetLineWidth(max(l.StrokeWidth*c.sx, minLinePixels))
		c.dc.DrawLine(c.px(l.X1), c.py(l.Y1), c.px(l.X2), c.py(l.Y2))
		c.dc.Stroke()
	}
	return nil
}

func (c canvas) drawDots(dots []grid.Dot) error {
	var (
		last  string
		color colorful.Color
	)
	for _, d := range dots {
		if d.Fill != last {
			col, err := parseColor(d.Fill)
			if err != nil {
				return err
			}
			color, last = col, d.Fill
		}
		c.dc.SetRGBA(color.R, color.G, color.B, d.Opacity)
		c.dc.DrawCircle(c.px(d.CX), c.py(d.CY), max(d.R*c.sx, minLinePixels))
		c.dc.Fill()
	}
	return nil
}

func parseColor(s string) (colorful.Color, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid colour %q", s)
	}
	return col, nil
}
