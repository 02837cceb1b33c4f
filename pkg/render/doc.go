// Package render groups the renderers for composed loop layouts.
//
// # Overview
//
// Rendering happens after layout and works only on the serialized
// [graph.Layout], so a layout fetched from the cache or the store renders
// exactly like a fresh one.
//
//   - [sink]: grid drawings (SVG, ASCII text, PDF, DXF, XLSX, JSON)
//   - [nodelink]: the raw component graph through Graphviz (DOT, SVG)
//
// # Grid Drawings
//
//	svg := sink.RenderSVG(layout, sink.WithUnit(100))
//	txt := sink.RenderText(layout)
//	pdf, err := sink.RenderPDF(layout)
//
// # Node-Link Diagrams
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [graph.Layout]: github.com/matzehuels/loopgrid/pkg/graph.Layout
// [sink]: github.com/matzehuels/loopgrid/pkg/render/sink
// [nodelink]: github.com/matzehuels/loopgrid/pkg/render/nodelink
package render
