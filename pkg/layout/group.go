package layout

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/loopgrid/pkg/errors"
	"github.com/matzehuels/loopgrid/pkg/grid"
	"github.com/matzehuels/loopgrid/pkg/topology"
)

// placeholderWidth is the width of the group substituted for a splitter
// whose branches cannot be discovered.
const placeholderWidth = 3

// BranchGroup is the set of parallel branches between a splitter and a
// mixer, aligned to a common width and stacked with a one-row gap.
type BranchGroup struct {
	cell        *grid.Cell
	branches    []*Branch
	splitter    topology.Ref
	mixer       topology.Ref
	dropZone    int
	placeholder bool
	minWidth    int
}

// Cell returns the group's container cell.
func (g *BranchGroup) Cell() *grid.Cell { return g.cell }

// Branches returns the branches in display order, top to bottom.
func (g *BranchGroup) Branches() []*Branch { return g.branches }

// Splitter returns the originating splitter.
func (g *BranchGroup) Splitter() topology.Ref { return g.splitter }

// Mixer returns the closing mixer. It is empty for dual-duct supply groups.
func (g *BranchGroup) Mixer() topology.Ref { return g.mixer }

// DropZoneIndex returns the index of the drop zone branch, if any.
func (g *BranchGroup) DropZoneIndex() (int, bool) { return g.dropZone, g.dropZone >= 0 }

// Placeholder reports whether the group stands in for undiscoverable branches.
func (g *BranchGroup) Placeholder() bool { return g.placeholder }

// Extent returns the group's current extent.
func (g *BranchGroup) Extent() grid.Extent { return g.cell.Size() }

// Baselines returns, for each branch, the group-relative row its flow line
// runs on. Renderers draw splitter and mixer fan-out to these rows.
func (g *BranchGroup) Baselines() []int {
	out := make([]int, len(g.branches))
	for i, b := range g.branches {
		out[i] = b.Cell().Pos().Row + b.Extent().Height - 1
	}
	return out
}

// Relayout aligns the branches and stacks them.
func (g *BranchGroup) Relayout() {
	alignTo(g.minWidth, g.branches...)

	cells := make([]*grid.Cell, len(g.branches))
	row := 0
	for i, b := range g.branches {
		b.Cell().SetPos(0, row)
		row += b.Extent().Height + 1
		cells[i] = b.Cell()
	}
	g.cell.SetChildren(cells...)
	g.cell.Fit()
}

func newGroup(splitter, mixer topology.Ref, branches []*Branch) *BranchGroup {
	g := &BranchGroup{
		cell:     grid.NewContainer(grid.KindBranchGroup),
		branches: branches,
		splitter: splitter,
		mixer:    mixer,
		dropZone: -1,
		minWidth: 1,
	}
	return g
}

func placeholderGroup(splitter, mixer topology.Ref, padStart bool) *BranchGroup {
	b := newBranch(grid.Horizontal, nil)
	b.padStart = padStart
	g := newGroup(splitter, mixer, []*Branch{b})
	g.placeholder = true
	g.minWidth = placeholderWidth
	g.Relayout()
	return g
}

// ComposeGroup discovers every branch between splitter and mixer, sorts them
// into display order, optionally appends a drop zone and stacks them.
// Demand branches are stored reversed. A splitter without outlets, or an
// outlet that never reaches the mixer, yields a placeholder group and a
// MALFORMED_TOPOLOGY diagnostic instead of an error.
func (c *Composer) ComposeGroup(splitter, mixer topology.Ref, role Role) (*BranchGroup, error) {
	return c.composeGroup(splitter, []topology.Ref{mixer}, mixer, role, c.opts.dropZones)
}

func (c *Composer) composeGroup(splitter topology.Ref, ends []topology.Ref, mixer topology.Ref, role Role, dropZone bool) (*BranchGroup, error) {
	demand := role == Demand

	paths, err := discoverBranches(c.loop, splitter, ends)
	if err != nil {
		c.malformed(err)
		return placeholderGroup(splitter, mixer, demand), nil
	}

	for _, p := range paths {
		if demand {
			slices.Reverse(p)
		}
	}
	sortBranches(c.loop, paths)

	branches := make([]*Branch, 0, len(paths)+1)
	for _, p := range paths {
		b, err := c.builder.Build(p, grid.Horizontal)
		if err != nil {
			return nil, err
		}
		b.padStart = demand
		branches = append(branches, b)
	}

	g := newGroup(splitter, mixer, branches)
	if dropZone {
		dz := newBranch(grid.Horizontal, nil)
		dz.dropZone = true
		dz.dropTarget = splitter
		dz.padStart = demand
		g.dropZone = len(g.branches)
		g.branches = append(g.branches, dz)
	}
	g.Relayout()
	return g, nil
}

// discoverBranches walks forward from each splitter outlet until one of ends
// is reached. A component with several outlets is a nested plenum: each of
// its outlets continues the walk with the path so far as prefix, so every
// sub-branch carries the originating outlet and the plenum splitter.
func discoverBranches(t Topology, splitter topology.Ref, ends []topology.Ref) ([][]topology.Ref, error) {
	outlets := t.Outlets(splitter)
	if len(outlets) == 0 {
		return nil, errs.New(errs.ErrCodeMalformedTopology, "splitter %s has no outlets", splitter)
	}
	var out [][]topology.Ref
	for _, o := range outlets {
		paths, err := walkBranch(t, o, ends, nil)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeMalformedTopology, err, "splitter %s outlet %s", splitter, o)
		}
		out = append(out, paths...)
	}
	return out, nil
}

func walkBranch(t Topology, start topology.Ref, ends []topology.Ref, prefix []topology.Ref) ([][]topology.Ref, error) {
	path := slices.Clone(prefix)
	cur := start
	for {
		if slices.Contains(ends, cur) {
			return [][]topology.Ref{path}, nil
		}
		if slices.Contains(path, cur) {
			return nil, errs.New(errs.ErrCodeMalformedTopology, "cycle through %s", cur)
		}
		path = append(path, cur)

		next := t.Outlets(cur)
		switch len(next) {
		case 0:
			return nil, errs.New(errs.ErrCodeMalformedTopology, "%s dead-ends before the mixer", cur)
		case 1:
			cur = next[0]
		default:
			var out [][]topology.Ref
			for _, n := range next {
				sub, err := walkBranch(t, n, ends, path)
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
			}
			return out, nil
		}
	}
}

// branchKey returns the sort key of a branch: its thermal zone if any
// component has one, else the second component's name, else the sole
// component's name.
func branchKey(t Topology, refs []topology.Ref) string {
	for _, r := range refs {
		if z, ok := t.ZoneName(r); ok {
			return z
		}
	}
	switch {
	case len(refs) > 1:
		return t.ComponentName(refs[1])
	case len(refs) == 1:
		return t.ComponentName(refs[0])
	}
	return ""
}

// sortBranches orders branches by key. Equal keys fall back to the ref
// sequence so the result does not depend on discovery order.
func sortBranches(t Topology, paths [][]topology.Ref) {
	type keyed struct {
		key  string
		tie  string
		refs []topology.Ref
	}
	ks := make([]keyed, len(paths))
	for i, p := range paths {
		ids := make([]string, len(p))
		for j, r := range p {
			ids[j] = string(r)
		}
		ks[i] = keyed{key: branchKey(t, p), tie: strings.Join(ids, "\x00"), refs: p}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}
		return strings.Compare(a.tie, b.tie)
	})
	for i := range ks {
		paths[i] = ks[i].refs
	}
}
