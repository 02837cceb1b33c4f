// Package pkg provides the core libraries for loopgrid HVAC loop layouts.
//
// # Overview
//
// Loopgrid turns an HVAC loop topology (a plant, air or refrigeration loop
// described as components and their connections) into a grid layout where
// branches become columns, components become cells and parallel branches
// line up row for row. The pkg directory is organized into these areas:
//
//  1. [topology] - The loop model: components, categories and connections
//  2. [grid] - The cell tree produced by the layout engine
//  3. [layout] - Composition of sides, branch groups and branches
//  4. [graph] - Serialization of composed layouts
//  5. [render] - Output sinks (SVG, text, PDF, DXF, XLSX) and Graphviz
//  6. [pipeline] - Orchestration (load → layout → render) with caching
//
// # Architecture
//
// The typical data flow through loopgrid:
//
//	Topology file (TOML/JSON)
//	         ↓
//	    [io] package (decode and validate into a topology.Loop)
//	         ↓
//	    [layout] package (compose the cell tree)
//	         ↓
//	    [graph] package (flatten to absolute grid coordinates)
//	         ↓
//	    [render] package (SVG/TXT/PDF/DXF/XLSX/JSON/DOT output)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/loopgrid/pkg/graph"
//	    pkgio "github.com/matzehuels/loopgrid/pkg/io"
//	    "github.com/matzehuels/loopgrid/pkg/layout"
//	    "github.com/matzehuels/loopgrid/pkg/render/sink"
//	)
//
//	// 1. Load the topology
//	loop, _ := pkgio.Load("chilled-water.toml")
//
//	// 2. Compose the layout
//	sys, _ := layout.Compose(loop)
//
//	// 3. Flatten it
//	l := graph.FromSystem(sys, loop)
//
//	// 4. Render to SVG
//	svg := sink.RenderSVG(l)
//
// # Infrastructure
//
// [cache] - Layout and artifact caching (file, Redis, null).
//
// [store] - Persistence of served layouts (memory, files, MongoDB).
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// [observability] - Hook interfaces for logging and metrics.
//
// [buildinfo] - Version information set at build time.
//
// [topology]: github.com/matzehuels/loopgrid/pkg/topology
// [grid]: github.com/matzehuels/loopgrid/pkg/grid
// [layout]: github.com/matzehuels/loopgrid/pkg/layout
// [graph]: github.com/matzehuels/loopgrid/pkg/graph
// [render]: github.com/matzehuels/loopgrid/pkg/render
// [pipeline]: github.com/matzehuels/loopgrid/pkg/pipeline
// [io]: github.com/matzehuels/loopgrid/pkg/io
// [cache]: github.com/matzehuels/loopgrid/pkg/cache
// [store]: github.com/matzehuels/loopgrid/pkg/store
// [errors]: github.com/matzehuels/loopgrid/pkg/errors
// [observability]: github.com/matzehuels/loopgrid/pkg/observability
// [buildinfo]: github.com/matzehuels/loopgrid/pkg/buildinfo
package pkg
