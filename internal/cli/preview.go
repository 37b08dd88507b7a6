package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/grid"
)

// Preview tuning.
const (
	previewZoomStep = 1.25
	previewPanStep  = 0.1 // fraction of the viewport per key press
	previewMinZoom  = 0.02
	previewMaxZoom  = 50

	// minTierPixels hides tiers whose spacing is too dense to read at
	// terminal resolution.
	minTierPixels = 3

	defaultPreviewViewport = "-500 -300 1000 600"
)

// =============================================================================
// Command
// =============================================================================

func (c *CLI) previewCommand() *cobra.Command {
	var (
		viewport string
		zoom     float64
		gridType string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Pan and zoom a grid overlay in the terminal",
		Long: `Open an interactive terminal preview of the grid overlay.

Keys: +/- zoom, arrows or hjkl pan, d toggle lines/dots, r reset, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			vp, err := grid.ParseViewport(viewport)
			if err != nil {
				return err
			}
			gt := grid.GridType(gridType)

			if name != "" {
				store, err := c.newPresetStore(ctx)
				if err != nil {
					return err
				}
				p, err := store.GetByName(ctx, name)
				store.Close()
				if err != nil {
					return err
				}
				vp, zoom, gt = p.Viewport, p.Zoom, p.GridType
			}
			if err := errors.ValidateZoom(zoom); err != nil {
				return err
			}

			m := newPreviewModel(vp, zoom, gt.Normalize(), c.Config.Theme)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&viewport, "viewport", defaultPreviewViewport, `initial world region "x y width height"`)
	cmd.Flags().Float64VarP(&zoom, "zoom", "z", 1, "initial zoom level")
	cmd.Flags().StringVarP(&gridType, "type", "t", string(grid.Lines), "grid type: lines, dots")
	cmd.Flags().StringVarP(&name, "preset", "p", "", "start from a saved preset")

	return cmd
}

// =============================================================================
// Key Bindings
// =============================================================================

type previewKeys struct {
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Toggle  key.Binding
	Reset   key.Binding
	Quit    key.Binding
}

func defaultPreviewKeys() previewKeys {
	return previewKeys{
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Toggle:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "lines/dots")),
		Reset:   key.NewBinding(key.WithKeys("r", "0"), key.WithHelp("r", "reset")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k previewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Up, k.Down, k.Left, k.Right, k.Toggle, k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k previewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// =============================================================================
// Model
// =============================================================================

// previewModel is the bubbletea model of the interactive preview.
type previewModel struct {
	vp       grid.Viewport
	zoom     float64
	gridType grid.GridType
	theme    grid.Theme

	startVP   grid.Viewport
	startZoom float64

	cols, rows int // canvas size in cells
	keys       previewKeys
	help       help.Model
}

func newPreviewModel(vp grid.Viewport, zoom float64, gt grid.GridType, theme grid.Theme) previewModel {
	return previewModel{
		vp:        vp,
		zoom:      zoom,
		gridType:  gt,
		theme:     theme.WithDefaults(),
		startVP:   vp,
		startZoom: zoom,
		keys:      defaultPreviewKeys(),
		help:      help.New(),
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.resize(msg.Width, msg.Height-2)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ZoomIn):
			m.zoomBy(previewZoomStep)
		case key.Matches(msg, m.keys.ZoomOut):
			m.zoomBy(1 / previewZoomStep)
		case key.Matches(msg, m.keys.Up):
			m.vp = m.vp.Pan(0, -m.vp.Height*previewPanStep)
		case key.Matches(msg, m.keys.Down):
			m.vp = m.vp.Pan(0, m.vp.Height*previewPanStep)
		case key.Matches(msg, m.keys.Left):
			m.vp = m.vp.Pan(-m.vp.Width*previewPanStep, 0)
		case key.Matches(msg, m.keys.Right):
			m.vp = m.vp.Pan(m.vp.Width*previewPanStep, 0)
		case key.Matches(msg, m.keys.Toggle):
			if m.gridType == grid.Dots {
				m.gridType = grid.Lines
			} else {
				m.gridType = grid.Dots
			}
		case key.Matches(msg, m.keys.Reset):
			m.vp, m.zoom = m.startVP, m.startZoom
			m.resize(m.cols, m.rows)
		}
	}
	return m, nil
}

// resize sets the canvas size and reshapes the viewport height to the
// canvas aspect ratio, keeping width and centre. Braille sub-pixels are
// roughly square, so the ratio is taken in sub-pixels.
func (m *previewModel) resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	m.cols, m.rows = cols, rows
	_, cy := m.vp.Center()
	h := m.vp.Width * float64(rows*4) / float64(cols*2)
	m.vp = grid.Viewport{X: m.vp.X, Y: cy - h/2, Width: m.vp.Width, Height: h}
}

// zoomBy scales zoom by f around the viewport centre, within the preview
// zoom range.
func (m *previewModel) zoomBy(f float64) {
	next := m.zoom * f
	if next < previewMinZoom || next > previewMaxZoom {
		return
	}
	cx, cy := m.vp.Center()
	m.vp = m.vp.ZoomAround(f, cx, cy)
	m.zoom = next
}

func (m previewModel) overlay() grid.Overlay {
	return grid.Render(grid.Input{
		Viewport: m.vp,
		Zoom:     m.zoom,
		Type:     m.gridType,
		Theme:    m.theme,
	})
}

func (m previewModel) View() string {
	if m.cols == 0 || m.rows == 0 {
		return "loading..."
	}
	o := m.overlay()

	var b strings.Builder
	b.WriteString(rasterize(o, m.cols, m.rows, m.theme))
	b.WriteString("\n")
	b.WriteString(m.status(o))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m previewModel) status(o grid.Overlay) string {
	primary := o.Layer(grid.Primary).Config.Spacing
	return StyleTitle.Render("gridkit") + "  " +
		StyleValue.Render(m.vp.String()) + "  " +
		StyleNumber.Render(fmt.Sprintf("%.2fx", m.zoom)) + "  " +
		StyleDim.Render(fmt.Sprintf("%s · primary %g · %d elements", m.gridType, primary, o.ElementCount()))
}

// =============================================================================
// Rasterizer
// =============================================================================

// canvasLayer is one colour plane of the preview.
type canvasLayer struct {
	buf   *brailleBuf
	style lipgloss.Style
}

// rasterize draws the overlay into cols x rows braille cells. Layers are
// composited in draw order: a cell takes the colour of the topmost layer
// touching it and the union of all dots.
func rasterize(o grid.Overlay, cols, rows int, theme grid.Theme) string {
	vp := o.Input.Viewport
	mw, mh := cols*2, rows*4
	sx, sy := float64(mw)/vp.Width, float64(mh)/vp.Height
	px := func(x float64) int { return int(math.Floor((x - vp.X) * sx)) }
	py := func(y float64) int { return int(math.Floor((y - vp.Y) * sy)) }

	tierStyles := [3]lipgloss.Style{
		lipgloss.NewStyle().Foreground(colorDim),
		lipgloss.NewStyle().Foreground(colorGray),
		lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Grid)).Bold(true),
	}

	var layers []canvasLayer
	for _, t := range grid.Tiers {
		layer := o.Layer(t)
		if layer.Config.Spacing*sx < minTierPixels {
			continue
		}
		l := canvasLayer{buf: newBrailleBuf(cols, rows), style: tierStyles[t]}
		for _, ln := range layer.Lines {
			l.buf.drawLine(px(ln.X1), py(ln.Y1), px(ln.X2), py(ln.Y2))
		}
		for _, d := range layer.Dots {
			l.buf.setPixel(px(d.CX), py(d.CY))
		}
		layers = append(layers, l)
	}

	for _, ax := range o.Origin.Axes {
		l := canvasLayer{buf: newBrailleBuf(cols, rows), style: lipgloss.NewStyle().Foreground(lipgloss.Color(ax.Stroke))}
		l.buf.drawLine(px(ax.X1), py(ax.Y1), px(ax.X2), py(ax.Y2))
		layers = append(layers, l)
	}
	if d := o.Origin.Dot; d != nil {
		l := canvasLayer{buf: newBrailleBuf(cols, rows), style: lipgloss.NewStyle().Foreground(lipgloss.Color(d.Fill)).Bold(true)}
		x, y := px(d.CX), py(d.CY)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				l.buf.setPixel(x+dx, y+dy)
			}
		}
		layers = append(layers, l)
	}

	return composite(layers, cols, rows)
}

// composite merges layers cell by cell, emitting one styled run per
// sequence of cells with the same top layer.
func composite(layers []canvasLayer, cols, rows int) string {
	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		runLayer := -1
		var run []rune
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runLayer < 0 {
				b.WriteString(string(run))
			} else {
				b.WriteString(layers[runLayer].style.Render(string(run)))
			}
			run = run[:0]
		}

		for x := 0; x < cols; x++ {
			var mask uint8
			top := -1
			for i, l := range layers {
				if m := l.buf.m[y][x]; m != 0 {
					mask |= m
					top = i
				}
			}
			if top != runLayer {
				flush()
				runLayer = top
			}
			if mask == 0 {
				run = append(run, ' ')
			} else {
				run = append(run, rune(0x2800+int(mask)))
			}
		}
		flush()
	}
	return b.String()
}
