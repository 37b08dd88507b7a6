// Package grid computes the adaptive grid overlay for a pan/zoom canvas.
//
// # Overview
//
// Given the visible world region (a [Viewport]) and a zoom factor, the package
// derives three grid tiers (tertiary, secondary, primary) whose spacing,
// opacity and stroke width are chosen so the grid keeps a consistent visual
// density at every zoom level. Fine tiers fade out as the view zooms out;
// the coarse tier is always present.
//
// The computation is split into small pure steps:
//
//  1. Spacing ([SelectSpacing]): pick a "nice" 1/2/5 × 10^n primary spacing
//     so roughly five primary lines cross the tighter viewport axis.
//  2. Fade ([ComputeFade], [StrokeScale]): per-tier opacity multipliers on a
//     log scale and a stroke width that thins out at high zoom.
//  3. Geometry ([GenerateLines], [GenerateDots]): enumerate grid positions
//     covering the viewport plus a padding margin.
//  4. Origin ([GenerateOrigin]): axis lines and an origin dot once the zoom
//     passes fixed thresholds.
//  5. Composition ([Render]): the three tiers in draw order plus origin
//     markers, as a single [Overlay].
//
// # Usage
//
//	vp, err := grid.ParseViewport("-500 -300 1000 600")
//	if err != nil {
//	    return err
//	}
//	o := grid.Render(grid.Input{Viewport: vp, Zoom: 1, Type: grid.Lines})
//	fmt.Println(o.ElementCount())
//
// Every call recomputes everything from its inputs; there is no hidden state,
// so identical inputs always produce identical overlays. Elements carry keys
// built from the tier and the integer grid step index ("primary-v-3",
// "tertiary-d--12-40"), which stay stable across pans for consumers that
// diff successive overlays.
//
// [Count] predicts the element counts of [Render] in constant time. Elongated
// viewports take their spacing from the short side but are covered along the
// long side, so callers serving untrusted input should bound the count before
// rendering.
//
// Output formats (SVG, PNG, PDF, JSON) live in the [sink] subpackage.
//
// [sink]: github.com/matzehuels/gridkit/pkg/grid/sink
package grid
