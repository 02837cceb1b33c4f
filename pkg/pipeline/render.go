package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/loopgrid/pkg/graph"
	"github.com/matzehuels/loopgrid/pkg/render/nodelink"
	"github.com/matzehuels/loopgrid/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, l, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders a single format.
func RenderFormat(ctx context.Context, l graph.Layout, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sinkOpts := buildSinkOptions(opts)
	var data []byte
	var err error

	switch format {
	case FormatJSON:
		data, err = sink.RenderJSON(l)
	case FormatSVG:
		data = sink.RenderSVG(l, sinkOpts...)
	case FormatText:
		data = sink.RenderText(l, sinkOpts...)
	case FormatPDF:
		data, err = sink.RenderPDF(l, sinkOpts...)
	case FormatDXF:
		data, err = sink.RenderDXF(l, sinkOpts...)
	case FormatXLSX:
		data, err = sink.RenderXLSX(l, sinkOpts...)
	case FormatDOT:
		data = []byte(nodelink.ToDOT(l, nodelink.Options{Detailed: opts.ShowLabels}))
	case FormatGraph:
		data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(l, nodelink.Options{Detailed: opts.ShowLabels}))
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

// buildSinkOptions builds grid renderer options.
func buildSinkOptions(opts Options) []sink.Option {
	sinkOpts := []sink.Option{
		sink.WithLabels(opts.ShowLabels),
	}
	if opts.Unit > 0 {
		sinkOpts = append(sinkOpts, sink.WithUnit(float64(opts.Unit)))
	}
	if opts.Containers {
		sinkOpts = append(sinkOpts, sink.WithContainers())
	}
	return sinkOpts
}
