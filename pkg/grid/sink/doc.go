// Package sink renders grid overlays to output formats.
//
// # Formats
//
//   - SVG ([RenderSVG]): one group per tier in draw order, then the origin
//     markers. The viewBox is the overlay viewport, so world coordinates
//     are written as-is.
//   - PNG ([RenderPNG]): native rasterisation; world coordinates are mapped
//     onto the pixel canvas.
//   - PDF ([RenderPDF]): the SVG converted with rsvg-convert.
//   - JSON ([RenderJSON]): the overlay document, for clients that draw the
//     elements themselves.
//
// # Output Size
//
// By default the output is the viewport size multiplied by the zoom, which
// is the on-screen size of the region. [WithSize] overrides it. Rasterised
// output is capped at errors.MaxPixels on either side, keeping the aspect
// ratio.
//
//	o := grid.Render(grid.Input{Viewport: vp, Zoom: 2})
//	svg := sink.RenderSVG(o, sink.WithBackground("#ffffff"))
//	png, err := sink.RenderPNG(o, sink.WithSize(1024, 768))
package sink
