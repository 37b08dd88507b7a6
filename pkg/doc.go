// Package pkg provides the libraries behind gridkit, the adaptive grid
// overlay for pan/zoom canvases.
//
// # Overview
//
// gridkit derives a three-tier grid (tertiary, secondary, primary) from a
// viewport and zoom level so the grid keeps a consistent on-screen density.
// The pkg directory is organized into:
//
//  1. [grid] - The pure overlay algorithm (spacing, fade, geometry, origin)
//  2. [grid/sink] - Output formats (SVG, PNG, PDF, JSON)
//  3. [pipeline] - Validation, rendering and artifact caching (compute → render)
//  4. [cache] - Cache backends (file, Redis, null) and key derivation
//  5. [preset] - Named saved views (file, MongoDB)
//  6. [api] - The HTTP render service
//
// # Architecture
//
// The typical data flow:
//
//	viewport + zoom
//	       ↓
//	  [grid] package (tier configs, lines/dots, origin markers)
//	       ↓
//	  [grid/sink] package (SVG/PNG/PDF/JSON bytes)
//	       ↓
//	  [pipeline] package (cached by overlay hash and format)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/gridkit/pkg/grid"
//	    "github.com/matzehuels/gridkit/pkg/grid/sink"
//	)
//
//	o := grid.Render(grid.Input{
//	    Viewport: grid.Viewport{X: -500, Y: -300, Width: 1000, Height: 600},
//	    Zoom:     1.5,
//	    Type:     grid.Lines,
//	})
//	svg := sink.RenderSVG(o)
//
// # Supporting Packages
//
// [errors] - Coded errors and input validation shared by all packages.
//
// [config] - TOML configuration for the CLI and server.
//
// [observability] - Hook interfaces for metrics and tracing with no-op
// defaults.
//
// [render] - SVG to PDF conversion via rsvg-convert.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./pkg/...                             # All tests
//	GRIDKIT_TEST_REDIS=localhost:6379 go test ./pkg/cache/
//	GRIDKIT_TEST_MONGO=mongodb://localhost go test ./pkg/preset/
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/grid
// [grid/sink]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/grid/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/cache
// [preset]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/preset
// [api]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/api
// [errors]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/errors
// [config]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/observability
// [render]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/render
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/buildinfo
package pkg
