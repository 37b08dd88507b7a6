package cli

import (
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridkit/pkg/grid"
)

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestBrailleSetPixel(t *testing.T) {
	tests := []struct {
		mx, my int
		want   rune
	}{
		{0, 0, '⠁'},
		{1, 0, '⠈'},
		{0, 3, '⡀'},
		{1, 3, '⢀'},
	}
	for _, tt := range tests {
		b := newBrailleBuf(1, 1)
		b.setPixel(tt.mx, tt.my)
		if got := b.cell(0, 0); got != tt.want {
			t.Errorf("setPixel(%d, %d) = %q, want %q", tt.mx, tt.my, got, tt.want)
		}
	}

	b := newBrailleBuf(1, 1)
	b.setPixel(-1, 0)
	b.setPixel(2, 0)
	b.setPixel(0, 4)
	if got := b.lines()[0]; got != " " {
		t.Errorf("out-of-range pixels drew %q", got)
	}
}

func TestBrailleDrawLine(t *testing.T) {
	b := newBrailleBuf(4, 2)

	// Full-height vertical line at sub-pixel column 0, with far-away
	// endpoints that must be clamped.
	b.drawLine(0, -1000, 0, 1000)
	for y, line := range b.lines() {
		if got := []rune(line)[0]; got != '⡇' {
			t.Errorf("row %d cell 0 = %q, want full left column", y, got)
		}
	}

	b = newBrailleBuf(4, 1)
	b.drawLine(-50, 0, 50, 0)
	if got := b.lines()[0]; got != "⠉⠉⠉⠉" {
		t.Errorf("horizontal line = %q", got)
	}
}

func TestComposite(t *testing.T) {
	lower := canvasLayer{buf: newBrailleBuf(3, 1), style: lipgloss.NewStyle()}
	upper := canvasLayer{buf: newBrailleBuf(3, 1), style: lipgloss.NewStyle()}
	lower.buf.setPixel(0, 0)
	upper.buf.setPixel(1, 0)
	upper.buf.setPixel(2, 0)

	got := ansiSeq.ReplaceAllString(composite([]canvasLayer{lower, upper}, 3, 1), "")
	if got != "⠉⠁ " {
		t.Errorf("composite = %q, want %q", got, "⠉⠁ ")
	}
}

func TestRasterizeAxes(t *testing.T) {
	o := grid.Render(grid.Input{
		Viewport: grid.Viewport{X: -50, Y: -50, Width: 100, Height: 100},
		Zoom:     1,
	})
	out := ansiSeq.ReplaceAllString(rasterize(o, 50, 25, grid.DefaultTheme()), "")
	rows := strings.Split(out, "\n")
	if len(rows) != 25 {
		t.Fatalf("got %d rows, want 25", len(rows))
	}

	// The x axis (y = 0) maps to sub-pixel row 50, inside cell row 12.
	for x, r := range []rune(rows[12]) {
		if r == ' ' {
			t.Fatalf("x axis missing at column %d: %q", x, rows[12])
		}
	}
}

func TestPreviewModelResize(t *testing.T) {
	m := newPreviewModel(grid.Viewport{X: -500, Y: -300, Width: 1000, Height: 600}, 1, grid.Lines, grid.Theme{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 26})
	pm := updated.(previewModel)

	if pm.cols != 80 || pm.rows != 24 {
		t.Fatalf("canvas = %dx%d, want 80x24", pm.cols, pm.rows)
	}
	// 160x96 sub-pixels keep the 1000x600 aspect.
	if pm.vp != (grid.Viewport{X: -500, Y: -300, Width: 1000, Height: 600}) {
		t.Errorf("viewport = %+v", pm.vp)
	}
}

func TestPreviewModelKeys(t *testing.T) {
	start := grid.Viewport{X: -500, Y: -300, Width: 1000, Height: 600}
	m := newPreviewModel(start, 1, grid.Lines, grid.Theme{})
	m.resize(80, 24)

	press := func(m previewModel, msg tea.KeyMsg) (previewModel, tea.Cmd) {
		updated, cmd := m.Update(msg)
		return updated.(previewModel), cmd
	}
	runes := func(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

	m, _ = press(m, runes("+"))
	if m.zoom != 1.25 || m.vp.Width != 800 {
		t.Errorf("after zoom in: zoom=%g width=%g", m.zoom, m.vp.Width)
	}
	if cx, cy := m.vp.Center(); cx != 0 || cy != 0 {
		t.Errorf("zoom moved centre to (%g, %g)", cx, cy)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.vp.X != -400+80 {
		t.Errorf("after pan right: x=%g, want -320", m.vp.X)
	}

	m, _ = press(m, runes("d"))
	if m.gridType != grid.Dots {
		t.Errorf("toggle: type = %q, want dots", m.gridType)
	}

	m, _ = press(m, runes("r"))
	if m.zoom != 1 || m.vp != start {
		t.Errorf("reset: zoom=%g vp=%+v", m.zoom, m.vp)
	}

	if _, cmd := press(m, runes("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestPreviewZoomLimits(t *testing.T) {
	m := newPreviewModel(grid.Viewport{X: 0, Y: 0, Width: 100, Height: 100}, previewMaxZoom, grid.Lines, grid.Theme{})
	m.zoomBy(previewZoomStep)
	if m.zoom != previewMaxZoom {
		t.Errorf("zoom = %g, want capped at %g", m.zoom, float64(previewMaxZoom))
	}
}

func TestPreviewView(t *testing.T) {
	m := newPreviewModel(grid.Viewport{X: -500, Y: -300, Width: 1000, Height: 600}, 1.5, grid.Lines, grid.Theme{})
	if got := m.View(); got != "loading..." {
		t.Errorf("View before resize = %q", got)
	}

	m.resize(80, 24)
	view := ansiSeq.ReplaceAllString(m.View(), "")
	if !strings.Contains(view, "1.50x") {
		t.Errorf("status missing zoom:\n%s", view)
	}
	if !strings.ContainsFunc(view, func(r rune) bool { return r > 0x2800 && r <= 0x28FF }) {
		t.Error("view has no braille cells")
	}
}
