package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/render"
)

func testOverlay(zoom float64, typ grid.GridType) grid.Overlay {
	return grid.Render(grid.Input{
		Viewport: grid.Viewport{X: -500, Y: -300, Width: 1000, Height: 600},
		Zoom:     zoom,
		Type:     typ,
	})
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testOverlay(1, grid.Lines)))

	for _, want := range []string{
		`viewBox="-500 -300 1000 600"`,
		`width="1000"`,
		`height="600"`,
		`class="grid-overlay"`,
		`<g id="grid-origin">`,
		`data-key="origin-axis-x"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %s", want)
		}
	}

	if got := strings.Count(svg, "<line "); got != 944 {
		t.Errorf("line elements = %d, want 944", got)
	}
	if strings.Contains(svg, "<rect") {
		t.Error("SVG has background rect without WithBackground")
	}
}

func TestRenderSVGGroupOrder(t *testing.T) {
	svg := string(RenderSVG(testOverlay(1, grid.Lines)))

	prev := -1
	for _, id := range []string{"grid-tertiary", "grid-secondary", "grid-primary", "grid-origin"} {
		idx := strings.Index(svg, `id="`+id+`"`)
		if idx < 0 {
			t.Fatalf("group %s missing", id)
		}
		if idx < prev {
			t.Errorf("group %s out of order", id)
		}
		prev = idx
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(testOverlay(1, grid.Lines),
		WithSize(500, 300),
		WithBackground("#ffffff"),
		WithClass("canvas-grid"),
	))

	for _, want := range []string{
		`width="500"`,
		`height="300"`,
		`class="canvas-grid"`,
		`<rect x="-500" y="-300" width="1000" height="600" fill="#ffffff"/>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %s", want)
		}
	}
}

func TestRenderSVGEscapesAttributes(t *testing.T) {
	o := grid.Render(grid.Input{
		Viewport: grid.Viewport{Width: 100, Height: 100},
		Zoom:     2,
		Theme:    grid.Theme{Grid: `#000"/><script>alert(1)</script><x a="`},
	})
	svg := string(RenderSVG(o, WithClass(`a" onload="x`), WithBackground(`#fff"><b`)))

	for _, bad := range []string{"<script>", `onload="x"`, `"><b`} {
		if strings.Contains(svg, bad) {
			t.Errorf("SVG contains unescaped %q", bad)
		}
	}
	if !strings.Contains(svg, `class="a&#34; onload=&#34;x"`) {
		t.Error("class attribute not escaped")
	}
	if !strings.Contains(svg, "&lt;script&gt;") {
		t.Error("stroke attribute not escaped")
	}
}

func TestRenderSVGDefaultSizeFollowsZoom(t *testing.T) {
	svg := string(RenderSVG(testOverlay(2, grid.Lines)))
	if !strings.Contains(svg, `width="2000"`) || !strings.Contains(svg, `height="1200"`) {
		t.Error("default size should be viewport size times zoom")
	}
}

func TestRenderSVGDots(t *testing.T) {
	svg := string(RenderSVG(testOverlay(1.5, grid.Dots)))
	if !strings.Contains(svg, "<circle ") {
		t.Fatal("dots overlay has no circles")
	}
	if !strings.Contains(svg, `data-key="origin-dot"`) {
		t.Error("origin dot missing at zoom 1.5")
	}
}

func TestRenderSVGNoOriginWhenZoomedOut(t *testing.T) {
	svg := string(RenderSVG(testOverlay(0.4, grid.Lines)))
	if strings.Contains(svg, "grid-origin") {
		t.Error("origin group should be omitted below zoom 0.5")
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(testOverlay(1, grid.Lines), WithSize(200, 120))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 120 {
		t.Errorf("bounds = %dx%d, want 200x120", b.Dx(), b.Dy())
	}
}

func TestRenderPNGBackground(t *testing.T) {
	data, err := RenderPNG(testOverlay(1, grid.Dots), WithSize(50, 30), WithBackground("#ffffff"))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if _, _, _, a := img.At(1, 1).RGBA(); a != 0xffff {
		t.Errorf("background alpha = %#x, want opaque", a)
	}
}

func TestRenderPNGInvalidColor(t *testing.T) {
	_, err := RenderPNG(testOverlay(1, grid.Lines), WithSize(10, 10), WithBackground("not-a-colour"))
	if !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("error = %v, want INVALID_COLOR", err)
	}

	o := grid.Render(grid.Input{
		Viewport: grid.Viewport{Width: 100, Height: 100},
		Zoom:     1,
		Theme:    grid.Theme{Grid: "bogus"},
	})
	if _, err := RenderPNG(o); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("theme colour error = %v, want INVALID_COLOR", err)
	}
}

func TestPixelSize(t *testing.T) {
	tests := []struct {
		name  string
		vp    grid.Viewport
		zoom  float64
		opts  []Option
		wantW int
		wantH int
	}{
		{"default", grid.Viewport{Width: 400, Height: 300}, 1, nil, 400, 300},
		{"zoomed", grid.Viewport{Width: 400, Height: 300}, 2, nil, 800, 600},
		{"explicit", grid.Viewport{Width: 400, Height: 300}, 2, []Option{WithSize(100, 50)}, 100, 50},
		{"capped", grid.Viewport{Width: 10000, Height: 5000}, 2, nil, errors.MaxPixels, errors.MaxPixels / 2},
		{"tiny", grid.Viewport{Width: 0.1, Height: 0.1}, 1, nil, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := grid.Overlay{Input: grid.Input{Viewport: tt.vp, Zoom: tt.zoom}}
			w, h := newRenderer(tt.opts...).pixelSize(o)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("pixelSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderPDF(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	pdf, err := RenderPDF(testOverlay(1, grid.Lines))
	if err != nil {
		t.Fatalf("RenderPDF() error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestRenderJSON(t *testing.T) {
	o := testOverlay(1, grid.Lines)
	data, err := RenderJSON(o)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.Elements != 944 {
		t.Errorf("Elements = %d, want 944", out.Elements)
	}
	if out.Viewport != o.Input.Viewport {
		t.Errorf("Viewport = %+v, want %+v", out.Viewport, o.Input.Viewport)
	}
	if len(out.Tiers) != 3 {
		t.Fatalf("Tiers = %d, want 3", len(out.Tiers))
	}
	for i, tier := range out.Tiers {
		if tier.Tier != grid.Tiers[i] {
			t.Errorf("Tiers[%d] = %s, want %s", i, tier.Tier, grid.Tiers[i])
		}
		if tier.Count != len(tier.Lines) {
			t.Errorf("Tiers[%d] count %d != %d lines", i, tier.Count, len(tier.Lines))
		}
	}
	if out.Origin.Count != 2 || len(out.Origin.Axes) != 2 {
		t.Errorf("Origin = %+v, want two axes", out.Origin)
	}
}

func TestRenderJSONSummaryOnly(t *testing.T) {
	data, err := RenderJSON(testOverlay(1.5, grid.Lines), WithSummaryOnly())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	for i, tier := range out.Tiers {
		if len(tier.Lines) != 0 || len(tier.Dots) != 0 {
			t.Errorf("Tiers[%d] has elements in summary mode", i)
		}
		if tier.Count == 0 {
			t.Errorf("Tiers[%d] count = 0", i)
		}
	}
	if out.Origin.Count != 3 || out.Origin.Dot != nil {
		t.Errorf("Origin = %+v, want count 3 without elements", out.Origin)
	}
}
