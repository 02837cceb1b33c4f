// Package sink renders a composed [graph.Layout] into output formats.
//
// # Overview
//
// A "sink" turns the flat cell list produced by [graph.FromSystem] into a
// drawing. Grid units are scaled by a unit size; the layout itself carries
// no pixel coordinates. This package provides renderers for:
//
//   - SVG: vector drawing with plenum colouring and optional labels
//   - Text: ASCII grid for terminals and tests
//   - PDF: landscape A4 page scaled to fit
//   - DXF: CAD drawing with one layer per cell kind
//   - XLSX: component schedule and a coloured grid map
//   - JSON: the layout itself
//
// # Usage
//
//	svg := sink.RenderSVG(layout,
//	    sink.WithUnit(100),
//	    sink.WithLabels(true),
//	    sink.WithPalette(sink.DefaultPalette()),
//	)
//	pdf, err := sink.RenderPDF(layout)
//
// # Flow Lines
//
// Every visible leaf, connector and padding cell draws a line from its
// centre to the middle of each edge listed in its ports. Adjacent cells
// share edges, so the segments join into continuous pipe runs.
//
// # Plenums
//
// Leaves inside a plenum branch are filled with a colour from the
// [Palette]. Colours are assigned in the order plenums first appear in the
// cell list, which keeps them stable across renders of the same layout.
//
// [graph.Layout]: github.com/matzehuels/loopgrid/pkg/graph.Layout
// [graph.FromSystem]: github.com/matzehuels/loopgrid/pkg/graph.FromSystem
package sink
