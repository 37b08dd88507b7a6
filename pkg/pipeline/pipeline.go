// Package pipeline provides the render pipeline shared by the CLI and the
// HTTP service.
//
// This package implements the complete validate → compute → render pipeline.
// By centralizing this logic, the CLI and the API apply the same defaults,
// the same validation and the same artifact cache.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Validate: Check user input and apply defaults ([Options.ValidateAndSetDefaults])
//  2. Compute: Build the grid overlay for the viewport and zoom ([grid.Render])
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Viewport: grid.Viewport{X: -500, Y: -300, Width: 1000, Height: 600},
//	    Zoom:     1.5,
//	    Formats:  []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridkit/pkg/cache"
	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/grid"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultZoom is used when Zoom is left at zero.
	DefaultZoom = 1.0

	// DefaultGridType is the default grid drawing mode.
	DefaultGridType = grid.Lines

	// DefaultMaxElements bounds the elements one render may generate.
	// Very elongated viewports take their spacing from the short side but
	// are covered along the long side, so the count grows with the aspect
	// ratio.
	DefaultMaxElements = 200_000
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ContentTypes maps output formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Overlay options
	GridSize float64       `json:"grid_size,omitempty"`
	Viewport grid.Viewport `json:"viewport"`
	Zoom     float64       `json:"zoom,omitempty"`
	GridType grid.GridType `json:"type,omitempty"`
	Theme    grid.Theme    `json:"theme,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Width      float64  `json:"width,omitempty"`
	Height     float64  `json:"height,omitempty"`
	Background string   `json:"background,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"`

	// Class is the SVG root class attribute. Summary drops element lists
	// from JSON output.
	Class   string `json:"class,omitempty"`
	Summary bool   `json:"summary,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// MaxElements caps the overlay size. Zero means DefaultMaxElements; a
	// negative value disables the check.
	MaxElements int `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Input is the normalised overlay input.
	Input grid.Input

	// Overlay is the computed grid overlay. It is nil when every artifact
	// came from the cache and no geometry was generated.
	Overlay *grid.Overlay

	// OverlayHash identifies the normalised overlay input. It is stable
	// across runs and suitable as an HTTP ETag.
	OverlayHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Elements    int
	TierCounts  [3]int // per tier, in draw order
	Origin      int
	ComputeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	RenderHit bool     // Whether all artifacts came from cache
	Hits      []string // Formats served from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateGridType resolves a requested grid type. Unknown types never fail:
// they fall back to lines and ok reports false so callers can warn.
func ValidateGridType(t grid.GridType) (resolved grid.GridType, ok bool) {
	if t == "" {
		return DefaultGridType, true
	}
	normalized := grid.GridType(strings.ToLower(string(t)))
	return normalized.Normalize(), normalized.Valid()
}

// ValidateViewport checks that a viewport has a finite, positive size.
func ValidateViewport(vp grid.Viewport) error {
	return vp.Validate()
}

// ValidateElementBudget rejects inputs that would generate more than limit
// elements. A non-positive limit disables the check.
func ValidateElementBudget(in grid.Input, limit int) error {
	if limit <= 0 {
		return nil
	}
	if n := grid.Count(in).Total(); n > limit {
		return errors.New(errors.ErrCodeInvalidViewport,
			"viewport %s at zoom %g would generate %d grid elements (limit %d); use a less elongated viewport",
			in.Viewport, in.Zoom, n, limit)
	}
	return nil
}

// ValidateTheme checks every non-empty theme colour.
func ValidateTheme(t grid.Theme) error {
	for _, c := range []string{t.Grid, t.AxisX, t.AxisY, t.Accent} {
		if err := errors.ValidateColor(c); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := o.ValidateForCompute(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForCompute validates overlay inputs and sets their defaults.
func (o *Options) ValidateForCompute() error {
	o.SetComputeDefaults()
	if err := errors.ValidateZoom(o.Zoom); err != nil {
		return err
	}
	if err := ValidateViewport(o.Viewport); err != nil {
		return err
	}
	if err := ValidateTheme(o.Theme); err != nil {
		return err
	}

	resolved, ok := ValidateGridType(o.GridType)
	if !ok && o.Logger != nil {
		o.Logger.Warn("unknown grid type, rendering lines", "type", o.GridType)
	}
	o.GridType = resolved
	return ValidateElementBudget(o.Input(), o.MaxElements)
}

// SetComputeDefaults sets default values for overlay computation.
func (o *Options) SetComputeDefaults() {
	if o.Zoom == 0 {
		o.Zoom = DefaultZoom
	}
	if o.MaxElements == 0 {
		o.MaxElements = DefaultMaxElements
	}
	if o.GridType == "" {
		o.GridType = DefaultGridType
	}
	o.Theme = o.Theme.WithDefaults()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	o.Formats = normalizeFormats(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateSize(o.Width, o.Height); err != nil {
		return err
	}
	return errors.ValidateColor(o.Background)
}

// normalizeFormats lower-cases formats and drops duplicates, keeping order.
func normalizeFormats(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// Input returns the grid input described by the options.
func (o *Options) Input() grid.Input {
	return grid.Input{
		GridSize: o.GridSize,
		Viewport: o.Viewport,
		Zoom:     o.Zoom,
		Type:     o.GridType,
		Theme:    o.Theme,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering. Class
// and Summary only enter the key of the format they affect.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:     format,
		Width:      o.Width,
		Height:     o.Height,
		Background: o.Background,
	}
	switch format {
	case FormatSVG:
		k.Class = o.Class
	case FormatJSON:
		k.Summary = o.Summary
	}
	return k
}
