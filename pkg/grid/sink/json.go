package sink

import (
	"encoding/json"

	"github.com/matzehuels/gridkit/pkg/grid"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	summary bool
}

// WithSummaryOnly omits the element lists and keeps tier configs and counts.
func WithSummaryOnly() JSONOption { return func(r *jsonRenderer) { r.summary = true } }

type jsonOutput struct {
	Viewport grid.Viewport `json:"viewport"`
	Zoom     float64       `json:"zoom"`
	Type     grid.GridType `json:"type"`
	GridSize float64       `json:"grid_size,omitempty"`
	Padding  float64       `json:"padding"`
	Elements int           `json:"elements"`
	Tiers    []jsonTier    `json:"tiers"`
	Origin   jsonOrigin    `json:"origin"`
}

type jsonOrigin struct {
	Count int         `json:"count"`
	Axes  []grid.Line `json:"axes,omitempty"`
	Dot   *grid.Dot   `json:"dot,omitempty"`
}

type jsonTier struct {
	grid.TierConfig
	Count int         `json:"count"`
	Lines []grid.Line `json:"lines,omitempty"`
	Dots  []grid.Dot  `json:"dots,omitempty"`
}

// RenderJSON exports the overlay as a pretty-printed JSON document. Tiers
// appear in draw order.
func RenderJSON(o grid.Overlay, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Viewport: o.Input.Viewport,
		Zoom:     o.Input.Zoom,
		Type:     o.Input.Type,
		GridSize: o.Input.GridSize,
		Padding:  o.Padding,
		Elements: o.ElementCount(),
		Tiers:    make([]jsonTier, 0, len(o.Tiers)),
	}

	for _, layer := range o.Tiers {
		t := jsonTier{TierConfig: layer.Config, Count: layer.Len()}
		if !r.summary {
			t.Lines, t.Dots = layer.Lines, layer.Dots
		}
		out.Tiers = append(out.Tiers, t)
	}

	out.Origin.Count = o.Origin.Len()
	if !r.summary {
		out.Origin.Axes, out.Origin.Dot = o.Origin.Axes, o.Origin.Dot
	}

	return json.MarshalIndent(out, "", "  ")
}
