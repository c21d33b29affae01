package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/hanzitree/pkg/tree"
	"github.com/matzehuels/hanzitree/pkg/tree/nodelink"
	"github.com/matzehuels/hanzitree/pkg/tree/sink"
	"github.com/matzehuels/hanzitree/pkg/tree/styles"
)

// Render generates output artifacts in the requested formats. opts must
// already be validated.
func Render(ctx context.Context, l tree.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, l, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, l tree.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, buildSVGOptions(opts)...), nil
	case FormatJSON:
		return sink.RenderJSON(l, sink.WithJSONStyle(opts.Style))
	case FormatPDF:
		return sink.RenderPDF(l, buildPDFOptions(opts)...)
	case FormatDOT:
		return []byte(nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed})), nil
	case FormatNodelink:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed}))
	default:
		return nil, ValidateFormat(format)
	}
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if s, ok := styles.Lookup(opts.Style); ok {
		svgOpts = append(svgOpts, sink.WithStyle(s))
	}
	if opts.ShowPinyin {
		svgOpts = append(svgOpts, sink.WithPinyin())
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	return svgOpts
}

func buildPDFOptions(opts Options) []sink.PDFOption {
	var pdfOpts []sink.PDFOption
	if opts.FontPath != "" {
		pdfOpts = append(pdfOpts, sink.WithPDFFont(opts.FontPath))
	}
	if opts.ShowPinyin {
		pdfOpts = append(pdfOpts, sink.WithPDFPinyin())
	}
	return pdfOpts
}

// RenderFromLayoutData renders a layout previously written as JSON.
func RenderFromLayoutData(ctx context.Context, data []byte, opts Options) (map[string][]byte, error) {
	l, err := sink.ReadJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return Render(ctx, l, opts)
}
