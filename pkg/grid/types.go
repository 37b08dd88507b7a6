package grid

import "fmt"

// GridType selects how grid tiers are drawn.
type GridType string

// Supported grid types.
const (
	Lines GridType = "lines"
	Dots  GridType = "dots"
)

// Normalize returns t if it is a supported type and [Lines] otherwise.
// Unknown types never fail; they render as lines.
func (t GridType) Normalize() GridType {
	if t == Dots {
		return Dots
	}
	return Lines
}

// Valid reports whether t names a supported grid type.
func (t GridType) Valid() bool {
	return t == Lines || t == Dots
}

// Tier identifies one of the three grid density levels.
type Tier int

// Tiers in draw order: finest first so coarser tiers sit on top.
const (
	Tertiary Tier = iota
	Secondary
	Primary
)

// Tiers lists all tiers in draw order.
var Tiers = [...]Tier{Tertiary, Secondary, Primary}

func (t Tier) String() string {
	switch t {
	case Tertiary:
		return "tertiary"
	case Secondary:
		return "secondary"
	case Primary:
		return "primary"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes a tier name.
func (t *Tier) UnmarshalText(b []byte) error {
	for _, tier := range Tiers {
		if tier.String() == string(b) {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown tier: %q", b)
}

// TierConfig holds the derived drawing parameters of one tier.
type TierConfig struct {
	Tier        Tier    `json:"tier"`
	Spacing     float64 `json:"spacing"`
	Opacity     float64 `json:"opacity"`
	StrokeWidth float64 `json:"stroke_width"`
	Color       string  `json:"color"`
}

// Visible reports whether the tier is opaque enough to be drawn at all.
func (c TierConfig) Visible() bool {
	return c.Opacity >= MinVisibleOpacity
}

// Line is a single stroked segment in world coordinates.
type Line struct {
	Key         string  `json:"key"`
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	X2          float64 `json:"x2"`
	Y2          float64 `json:"y2"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
	Opacity     float64 `json:"opacity"`
}

// Dot is a single filled circle in world coordinates.
type Dot struct {
	Key     string  `json:"key"`
	CX      float64 `json:"cx"`
	CY      float64 `json:"cy"`
	R       float64 `json:"r"`
	Fill    string  `json:"fill"`
	Opacity float64 `json:"opacity"`
}

// TierLayer is the generated geometry of one tier. Exactly one of Lines or
// Dots is populated, depending on the grid type.
type TierLayer struct {
	Config TierConfig `json:"config"`
	Lines  []Line     `json:"lines,omitempty"`
	Dots   []Dot      `json:"dots,omitempty"`
}

// Len returns the number of elements in the layer.
func (l TierLayer) Len() int { return len(l.Lines) + len(l.Dots) }

// Origin holds the axis lines and the optional origin dot.
type Origin struct {
	Axes []Line `json:"axes,omitempty"`
	Dot  *Dot   `json:"dot,omitempty"`
}

// Len returns the number of origin elements.
func (o Origin) Len() int {
	n := len(o.Axes)
	if o.Dot != nil {
		n++
	}
	return n
}

// Theme controls the colours of the overlay.
type Theme struct {
	Grid   string `json:"grid" toml:"grid"`
	AxisX  string `json:"axis_x" toml:"axis_x"`
	AxisY  string `json:"axis_y" toml:"axis_y"`
	Accent string `json:"accent" toml:"accent"`
}

// DefaultTheme returns the built-in colour theme.
func DefaultTheme() Theme {
	return Theme{
		Grid:   "#94a3b8",
		AxisX:  "#ef4444",
		AxisY:  "#22c55e",
		Accent: "#3b82f6",
	}
}

// WithDefaults fills empty colours from [DefaultTheme].
func (t Theme) WithDefaults() Theme {
	d := DefaultTheme()
	if t.Grid == "" {
		t.Grid = d.Grid
	}
	if t.AxisX == "" {
		t.AxisX = d.AxisX
	}
	if t.AxisY == "" {
		t.AxisY = d.AxisY
	}
	if t.Accent == "" {
		t.Accent = d.Accent
	}
	return t
}

// Input is everything [Render] needs.
type Input struct {
	// GridSize is the caller's nominal grid size. It is carried through to
	// the overlay but spacing is always derived from the viewport.
	GridSize float64  `json:"grid_size,omitempty"`
	Viewport Viewport `json:"viewport"`
	Zoom     float64  `json:"zoom"`
	Type     GridType `json:"type"`
	Theme    Theme    `json:"theme"`
}

// Overlay is the complete, layered output of one render pass.
type Overlay struct {
	Input   Input        `json:"input"`
	Padding float64      `json:"padding"`
	Tiers   [3]TierLayer `json:"tiers"`
	Origin  Origin       `json:"origin"`
}

// ElementCount returns the number of drawable elements across all tiers and
// origin markers.
func (o Overlay) ElementCount() int {
	n := o.Origin.Len()
	for _, l := range o.Tiers {
		n += l.Len()
	}
	return n
}

// Layer returns the generated layer for t.
func (o Overlay) Layer(t Tier) TierLayer {
	return o.Tiers[t]
}
