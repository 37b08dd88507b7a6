// Package render converts rendered SVG documents to other formats.
//
// Conversion shells out to rsvg-convert (from librsvg), which must be on
// PATH. Use [Available] to check before offering a converted format.
//
//	svg := sink.RenderSVG(overlay)
//	pdf, err := render.ToPDF(svg)
package render
