package sink

import (
	"bytes"
	"fmt"
	"html"
	"strconv"

	"github.com/matzehuels/gridkit/pkg/grid"
)

// RenderSVG renders the overlay as a standalone SVG document.
func RenderSVG(o grid.Overlay, opts ...Option) []byte {
	r := newRenderer(opts...)
	w, h := r.size(o)
	vp := o.Input.Viewport

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s" width="%s" height="%s" class="%s" data-zoom="%s" data-type="%s">`+"\n",
		vp.String(), num(w), num(h), attr(r.class), num(o.Input.Zoom), attr(string(o.Input.Type)))

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(vp.X), num(vp.Y), num(vp.Width), num(vp.Height), attr(r.background))
	}

	for _, layer := range o.Tiers {
		renderLayer(&buf, layer)
	}
	renderOrigin(&buf, o.Origin)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLayer(buf *bytes.Buffer, layer grid.TierLayer) {
	c := layer.Config
	fmt.Fprintf(buf, `  <g id="grid-%s" data-spacing="%s">`+"\n", c.Tier, num(c.Spacing))
	for _, l := range layer.Lines {
		writeLine(buf, l)
	}
	for _, d := range layer.Dots {
		writeDot(buf, d)
	}
	buf.WriteString("  </g>\n")
}

func renderOrigin(buf *bytes.Buffer, o grid.Origin) {
	if o.Len() == 0 {
		return
	}
	buf.WriteString(`  <g id="grid-origin">` + "\n")
	for _, l := range o.Axes {
		writeLine(buf, l)
	}
	if o.Dot != nil {
		writeDot(buf, *o.Dot)
	}
	buf.WriteString("  </g>\n")
}

func writeLine(buf *bytes.Buffer, l grid.Line) {
	fmt.Fprintf(buf, `    <line data-key="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" opacity="%s"/>`+"\n",
		attr(l.Key), num(l.X1), num(l.Y1), num(l.X2), num(l.Y2), attr(l.Stroke), num(l.StrokeWidth), num(l.Opacity))
}

func writeDot(buf *bytes.Buffer, d grid.Dot) {
	fmt.Fprintf(buf, `    <circle data-key="%s" cx="%s" cy="%s" r="%s" fill="%s" opacity="%s"/>`+"\n",
		attr(d.Key), num(d.CX), num(d.CY), num(d.R), attr(d.Fill), num(d.Opacity))
}

// attr escapes a string for use inside a double-quoted attribute.
func attr(s string) string {
	return html.EscapeString(s)
}

// num formats a coordinate compactly, dropping floating-point noise.
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
