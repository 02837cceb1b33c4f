// Package layout turns a loop topology into a grid cell tree.
//
// # Overview
//
// A loop diagram is a constraint-propagating tree layout. Leaf sizes are
// fixed by the component's category; branch lengths, branch padding and
// container offsets are derived bottom-up and positions are pushed top-down.
//
//	System
//	├── supply Side:  inlet run ─ splitter ─ BranchGroup ─ mixer ─ outlet run
//	├── center strip
//	└── demand Side:  outlet run ─ mixer ─ BranchGroup ─ splitter ─ inlet run
//
// Supply flows left to right; demand flows right to left, so demand branches
// are stored reversed relative to traversal order.
//
// # Composition
//
// [Composer.Compose] builds the whole tree. It asks [Composer.ComposeSupply]
// and [Composer.ComposeDemand] for the two sides, which ask
// [Composer.ComposeGroup] for the parallel branches between a splitter and a
// mixer, which ask [Builder.Build] for each branch, which asks [Classify] for
// each leaf shape. An outdoor-air mixer on an air loop's supply inlet run is
// expanded by [Builder.ComposeOutdoorAir] into an outdoor-air subsystem cell.
//
// # Relayout
//
// [System.Relayout] re-derives padding and positions without rebuilding the
// tree. It is deterministic and idempotent. After a topology change the host
// composes a fresh System instead.
//
// # Errors
//
// An unknown component category aborts composition with an
// UNSUPPORTED_COMPONENT_KIND error. A splitter/mixer pair without a
// discoverable path is recovered with a 3-wide placeholder group and reported
// through [System.Diagnostics]. Empty branches are a normal state.
package layout
