package pipeline

import (
	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/grid/sink"
)

// Compute builds the overlay for validated options.
func Compute(opts Options) grid.Overlay {
	return grid.Render(opts.Input())
}

// Render generates output artifacts in the requested formats.
func Render(o grid.Overlay, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(o, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders a single output format.
func RenderFormat(o grid.Overlay, format string, opts Options) ([]byte, error) {
	svgOpts := buildSinkOptions(opts)

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data = sink.RenderSVG(o, svgOpts...)
	case FormatPNG:
		data, err = sink.RenderPNG(o, svgOpts...)
	case FormatPDF:
		data, err = sink.RenderPDF(o, svgOpts...)
	case FormatJSON:
		data, err = sink.RenderJSON(o, buildJSONOptions(opts)...)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}

	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
	}
	return data, nil
}

// buildSinkOptions builds SVG/PNG/PDF rendering options.
func buildSinkOptions(opts Options) []sink.Option {
	var out []sink.Option
	if opts.Width > 0 || opts.Height > 0 {
		out = append(out, sink.WithSize(opts.Width, opts.Height))
	}
	if opts.Background != "" {
		out = append(out, sink.WithBackground(opts.Background))
	}
	if opts.Class != "" {
		out = append(out, sink.WithClass(opts.Class))
	}
	return out
}

func buildJSONOptions(opts Options) []sink.JSONOption {
	if opts.Summary {
		return []sink.JSONOption{sink.WithSummaryOnly()}
	}
	return nil
}
