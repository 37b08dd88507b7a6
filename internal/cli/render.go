package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/pipeline"
)

// defaultOutputBase names output files when --output is not given.
const defaultOutputBase = "grid"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	viewport   string  // viewBox-style "x y w h"
	zoom       float64 // 0 means the preset's zoom or 1
	gridType   string  // lines or dots
	gridSize   float64 // echoed into the overlay
	formats    string  // comma-separated
	output     string  // file path (single format) or base path (multiple)
	width      float64 // output width, 0 = viewport width × zoom
	height     float64
	background string
	preset     string
	class      string
	summary    bool
	noCache    bool
	refresh    bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a grid overlay to SVG, PNG, PDF or JSON",
		Long: `Render the adaptive grid overlay for a viewport and zoom level.

The viewport is given in world coordinates as "x y width height" (commas
also work). A saved preset can supply viewport, zoom and type; explicit
flags override it.`,
		Example: `  gridkit render --viewport "-500 -300 1000 600" --zoom 1.5
  gridkit render --preset overview --format svg,png -o out/overview
  gridkit render --viewport 0,0,800,600 --type dots --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			po, err := c.renderOptions(ctx, cmd, &opts)
			if err != nil {
				return err
			}
			return c.runRender(ctx, po, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.viewport, "viewport", "", `visible world region "x y width height"`)
	f.Float64VarP(&opts.zoom, "zoom", "z", 0, "zoom level (1 = 100%)")
	f.StringVarP(&opts.gridType, "type", "t", "", "grid type: lines (default), dots")
	f.Float64Var(&opts.gridSize, "grid-size", 0, "nominal grid size recorded in the output")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.Float64Var(&opts.width, "width", 0, "output width in pixels")
	f.Float64Var(&opts.height, "height", 0, "output height in pixels")
	f.StringVar(&opts.background, "background", "", "background colour, e.g. #ffffff")
	f.StringVarP(&opts.preset, "preset", "p", "", "render a saved preset")
	f.StringVar(&opts.class, "class", "", "class attribute of the SVG root element")
	f.BoolVar(&opts.summary, "summary", false, "JSON output: tier configs and counts only, no elements")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render and overwrite cached artifacts")

	return cmd
}

// renderOptions merges config defaults, the preset and flags into pipeline
// options, in that order of precedence.
func (c *CLI) renderOptions(ctx context.Context, cmd *cobra.Command, ro *renderOpts) (pipeline.Options, error) {
	opts := pipeline.Options{
		GridType:   c.Config.Render.Type,
		Theme:      c.Config.Theme,
		Background: c.Config.Render.Background,
	}

	if ro.preset != "" {
		store, err := c.newPresetStore(ctx)
		if err != nil {
			return opts, err
		}
		defer store.Close()

		p, err := store.GetByName(ctx, ro.preset)
		if err != nil {
			return opts, err
		}
		po := p.Options()
		opts.Viewport = po.Viewport
		opts.Zoom = po.Zoom
		opts.GridSize = po.GridSize
		if po.GridType != "" {
			opts.GridType = po.GridType
		}
	} else if ro.viewport == "" {
		return opts, errors.New(errors.ErrCodeInvalidViewport, "--viewport or --preset is required")
	}

	flags := cmd.Flags()
	if ro.viewport != "" {
		vp, err := grid.ParseViewport(ro.viewport)
		if err != nil {
			return opts, err
		}
		opts.Viewport = vp
	}
	if flags.Changed("zoom") {
		opts.Zoom = ro.zoom
	}
	if flags.Changed("type") {
		opts.GridType = grid.GridType(ro.gridType)
	}
	if flags.Changed("grid-size") {
		opts.GridSize = ro.gridSize
	}
	if ro.background != "" {
		opts.Background = ro.background
	}
	opts.Formats = parseFormats(ro.formats)
	opts.Width = ro.width
	opts.Height = ro.height
	opts.Refresh = ro.refresh
	opts.Class = ro.class
	opts.Summary = ro.summary
	opts.Logger = loggerFromContext(ctx)

	return opts, nil
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, ro *renderOpts) error {
	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spinner *Spinner
	if !c.verbose {
		spinner = newSpinnerWithContext(ctx, "Rendering overlay...")
		spinner.Start()
	}
	prog := newProgress(loggerFromContext(ctx))

	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("rendered %d artifact(s)", len(result.Artifacts)))

	paths := outputPaths(ro.output, opts.Formats)
	printSuccess("Rendered %s at zoom %s", StyleHighlight.Render(result.Input.Viewport.String()),
		StyleNumber.Render(fmt.Sprintf("%g", result.Input.Zoom)))
	for _, format := range opts.Formats {
		format = strings.ToLower(strings.TrimSpace(format))
		path := paths[format]
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	printStats(result.Stats.Elements, result.Stats.TierCounts, result.CacheInfo.RenderHit)
	return nil
}

// outputPaths maps each format to its output file. A single format writes
// to output as given; multiple formats use output (minus extension) as the
// base path.
func outputPaths(output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[strings.ToLower(strings.TrimSpace(formats[0]))] = output
		return paths
	}

	base := output
	if base == "" {
		base = defaultOutputBase
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		paths[f] = base + "." + f
	}
	return paths
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
