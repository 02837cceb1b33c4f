package layout

import (
	"slices"

	errs "github.com/matzehuels/loopgrid/pkg/errors"
	"github.com/matzehuels/loopgrid/pkg/grid"
	"github.com/matzehuels/loopgrid/pkg/topology"
)

// OABranch is one stream of an outdoor-air subsystem laid out vertically.
// When both streams pass through the same air-to-air heat exchanger, each
// stream is split at the exchanger into an upper and a lower run and the
// exchanger's joint cell is shared between the two streams.
type OABranch struct {
	upper *Branch
	joint *grid.Cell
	lower *Branch
}

// Runs returns the branch's vertical runs: the upper run, and the lower
// run when the stream has a joint.
func (b *OABranch) Runs() []*Branch {
	if b.lower == nil {
		return []*Branch{b.upper}
	}
	return []*Branch{b.upper, b.lower}
}

// Joint returns the shared heat-exchanger cell.
func (b *OABranch) Joint() (*grid.Cell, bool) { return b.joint, b.joint != nil }

// JointRow returns the branch-relative row of the heat exchanger.
func (b *OABranch) JointRow() (int, bool) {
	if b.joint == nil {
		return 0, false
	}
	return b.upper.Length(), true
}

// PaddingCount returns the padding across all runs.
func (b *OABranch) PaddingCount() int {
	n := 0
	for _, r := range b.Runs() {
		n += r.PaddingCount()
	}
	return n
}

// Length returns the number of rows the stream spans.
func (b *OABranch) Length() int {
	n := b.upper.Length()
	if b.joint != nil {
		n += b.joint.Size().Height + b.lower.Length()
	}
	return n
}

// Width returns the widest run.
func (b *OABranch) Width() int {
	w := 1
	for _, r := range b.Runs() {
		w = max(w, r.Extent().Width)
	}
	return w
}

// ComposeOutdoorAir lays out the outdoor-air stream oa (flow order, outside
// to mixer, drawn top to bottom) against the relief stream relief (flow
// order, mixer to outside, drawn bottom to top). A heat exchanger present in
// both streams lands on the same row of both; the stream that reaches it
// first is padded. Without a shared exchanger each stream degrades to one
// ordinary vertical branch.
func (b *Builder) ComposeOutdoorAir(oa, relief []topology.Ref) (supply, exhaust *OABranch, err error) {
	up := slices.Clone(relief)
	slices.Reverse(up)

	hx, si, ri := sharedExchanger(b.topo, oa, up)
	if hx == "" {
		s, err := b.Build(oa, grid.Vertical)
		if err != nil {
			return nil, nil, err
		}
		r, err := b.Build(up, grid.Vertical)
		if err != nil {
			return nil, nil, err
		}
		r.padStart = true
		Align(s, r)
		return &OABranch{upper: s}, &OABranch{upper: r}, nil
	}

	joint, err := b.leaf(hx, grid.Vertical)
	if err != nil {
		return nil, nil, err
	}

	runs := make([]*Branch, 4)
	for i, refs := range [][]topology.Ref{oa[:si], oa[si+1:], up[:ri], up[ri+1:]} {
		if runs[i], err = b.Build(refs, grid.Vertical); err != nil {
			return nil, nil, err
		}
	}
	su, sl, ru, rl := runs[0], runs[1], runs[2], runs[3]
	ru.padStart, rl.padStart = true, true
	Align(su, ru)
	Align(sl, rl)

	return &OABranch{upper: su, joint: joint, lower: sl}, &OABranch{upper: ru, joint: joint, lower: rl}, nil
}

// sharedExchanger returns the first air-to-air component of a that also
// appears in b, with its index in each.
func sharedExchanger(t Topology, a, b []topology.Ref) (topology.Ref, int, int) {
	for i, r := range a {
		if t.Category(r) != topology.CategoryAirToAir {
			continue
		}
		if j := slices.Index(b, r); j >= 0 {
			return r, i, j
		}
	}
	return "", -1, -1
}

// OASubsystem is an outdoor-air system inset: the relief stream on the
// left, the outdoor-air stream on the right, their outboard nodes on the
// top row and the outdoor-air mixer spanning the bottom row.
type OASubsystem struct {
	cell   *grid.Cell
	mixer  topology.Ref
	supply *OABranch
	relief *OABranch
}

// Cell returns the subsystem's container cell.
func (s *OASubsystem) Cell() *grid.Cell { return s.cell }

// Mixer returns the outdoor-air mixer.
func (s *OASubsystem) Mixer() topology.Ref { return s.mixer }

// Supply returns the outdoor-air stream.
func (s *OASubsystem) Supply() *OABranch { return s.supply }

// Relief returns the relief stream.
func (s *OASubsystem) Relief() *OABranch { return s.relief }

// outdoorAirSubsystem expands an outdoor-air mixer. It reports ok=false
// when the mixer does not name its outboard nodes, in which case the caller
// draws the mixer as an ordinary leaf. Streams whose path cannot be found
// are drawn empty and reported as malformed.
func (b *Builder) outdoorAirSubsystem(mixer topology.Ref) (*OASubsystem, bool, error) {
	oaNode, reliefNode, ok := b.topo.OutdoorAirEnds(mixer)
	if !ok {
		return nil, false, nil
	}

	oa := b.stream(oaNode, mixer)
	relief := b.stream(mixer, reliefNode)

	sup, rel, err := b.ComposeOutdoorAir(oa, relief)
	if err != nil {
		return nil, false, err
	}

	reliefCell, err := b.leaf(reliefNode, grid.Vertical)
	if err != nil {
		return nil, false, err
	}
	oaCell, err := b.leaf(oaNode, grid.Vertical)
	if err != nil {
		return nil, false, err
	}

	rw := rel.Width()
	width := rw + sup.Width()
	reliefCell.SetPos(0, 0)
	oaCell.SetPos(rw, 0)
	cells := []*grid.Cell{reliefCell, oaCell}

	place := func(br *OABranch, col int) {
		br.upper.Cell().SetPos(col, 1)
		cells = append(cells, br.upper.Cell())
		if br.joint != nil {
			br.lower.Cell().SetPos(col, 2+br.upper.Length())
			cells = append(cells, br.lower.Cell())
		}
	}
	place(rel, 0)
	place(sup, rw)

	if j, ok := sup.Joint(); ok {
		ref, _ := j.Component()
		stretched := grid.NewSizedLeaf(ref, j.Shape(), grid.Extent{Width: width, Height: j.Size().Height})
		stretched.SetDeletable(j.Deletable())
		stretched.SetPos(0, 1+sup.upper.Length())
		sup.joint, rel.joint = stretched, stretched
		cells = append(cells, stretched)
	}

	length := max(sup.Length(), rel.Length())
	mix, err := b.sizedLeaf(mixer, grid.Horizontal, grid.Extent{Width: width, Height: 1})
	if err != nil {
		return nil, false, err
	}
	mix.SetPos(0, 1+length)
	cells = append(cells, mix)

	cell := grid.NewContainer(grid.KindOASubsystem)
	cell.SetChildren(cells...)
	cell.Fit()

	return &OASubsystem{cell: cell, mixer: mixer, supply: sup, relief: rel}, true, nil
}

// stream returns the components strictly between from and to.
func (b *Builder) stream(from, to topology.Ref) []topology.Ref {
	refs, err := b.topo.OrderedComponentsBetween(from, to)
	if err != nil {
		b.malformed(errs.Wrap(errs.ErrCodeMalformedTopology, err, "outdoor-air stream %s -> %s", from, to))
		return nil
	}
	if len(refs) <= 2 {
		return nil
	}
	return refs[1 : len(refs)-1]
}
