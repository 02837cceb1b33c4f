// Package graph provides the serialization format for composed loop layouts.
//
// This package defines the canonical wire format for loopgrid's layout data,
// used for JSON files, API responses, caching, the layout store and every
// render sink.
//
// # Architecture
//
// The package sits at the serialization boundary between the layout engine
// and external formats:
//
//   - [Layout]: Serialization type (this package)
//   - pkg/layout.System: Internal cell tree (relative positions, containers)
//   - pkg/topology.Loop: The component graph the tree was built from
//
// Use [FromSystem] to flatten a composed system into a [Layout].
//
// # Core Types
//
//   - [Layout]: Flat list of cells with absolute grid coordinates
//   - [Cell]: One cell of the tree (leaf, padding, connector or container)
//   - [Node], [Edge]: The loop's components and connections, for diagrams
//
// # Layout Serialization
//
//	data, _ := graph.MarshalLayout(l)          // Layout → []byte
//	l, _ := graph.UnmarshalLayout(data)        // []byte → Layout
//	graph.WriteLayoutFile(l, "loop.json")      // Layout → File
//	l, _ = graph.ReadLayoutFile("loop.json")   // File → Layout
//
// Coordinates are integer grid units. Sinks multiply by a unit size to get
// pixels, millimetres or drawing units.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
