// Package io reads and writes loop topology files.
//
// # Overview
//
// A topology file describes one loop: its components, the directed
// connections between them, and the endpoints of the supply and demand
// sides. Two encodings are supported, chosen by file extension:
//
//   - .toml: the hand-editing format
//   - .json: the machine format used by the HTTP API
//
// # TOML Format
//
//	name = "Chilled Water Loop"
//	kind = "plant"
//
//	[supply]
//	inlet = "s-in"
//	outlets = ["s-out"]
//	splitter = "s-split"
//	mixer = "s-mix"
//
//	[demand]
//	inlets = ["d-in"]
//	outlet = "d-out"
//
//	[[components]]
//	id = "s-in"
//	category = "node"
//
//	[[components]]
//	id = "chiller-1"
//	name = "Chiller 1"
//	category = "water-to-water"
//
//	chains = [["s-in", "pump", "s-split"], ["s-split", "chiller-1", "s-mix"]]
//
// Connections may be listed one by one under [[connections]] with from/to
// keys, or as chains: each chain connects its refs pairwise in order.
//
// # Component Fields
//
// Required:
//   - id: Unique ref; no whitespace, quotes or slashes
//   - category: Shape category (see topology.Categories)
//
// Optional:
//   - name: Display name (defaults to id)
//   - zone: Thermal zone, used to order parallel branches
//   - removable: Whether the host may delete it (defaults to true except
//     for nodes)
//   - outdoor_air_node, relief_node: Outboard nodes of an outdoor-air mixer
//
// # Errors
//
// Decoding failures are INVALID_FORMAT errors, structural problems
// (duplicate ids, unknown refs, inconsistent sides) are INVALID_TOPOLOGY
// errors and missing files are FILE_NOT_FOUND errors.
package io
