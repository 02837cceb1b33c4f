// Package grid provides the cell tree produced by the layout engine.
//
// # Overview
//
// Every component on a loop diagram occupies an integer-sized rectangle on a
// grid. Cells form a strict ownership tree: leaves (components), padding
// (straight pipe that lengthens a branch) and connectors (elbows, risers,
// spacers) sit inside containers (branches, branch groups, outdoor-air
// subsystems, sides and the system root). A cell's position is relative to
// its parent's origin.
//
// # Invariants
//
// [Validate] checks the invariants every composed tree must satisfy:
//
//   - All positions and extents are non-negative
//   - Leaves, padding and connectors are at least 1x1
//   - A container's extent is the bounding box of its children, anchored at
//     the container's origin
//   - Sibling cells never overlap
//
// A container with no children is an empty branch marker. Its extent is
// (0,1) along a horizontal axis and (1,0) along a vertical one.
//
// # Reading the Tree
//
// Renderers read cells through accessors and use [Walk] or [Flatten] to get
// absolute coordinates. Only the layout engine calls the mutators.
package grid
