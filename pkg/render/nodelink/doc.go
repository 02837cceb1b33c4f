// Package nodelink renders a loop's component graph as a node-link diagram.
//
// # Overview
//
// The grid layout hides how components are actually connected: splitters
// and mixers become cells, and branch order is sorted. When a topology
// file does not lay out as expected, the raw graph is the first thing to
// look at. This package draws it with Graphviz, left to right in flow
// direction.
//
// # Usage
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: adds category and zone lines to node labels
//
// Splitters and mixers are drawn as diamonds, nodes as circles and every
// other component as a rounded box. Zones become clusters when Detailed
// is set.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
