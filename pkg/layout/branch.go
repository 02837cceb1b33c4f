package layout

import (
	"github.com/matzehuels/loopgrid/pkg/grid"
	"github.com/matzehuels/loopgrid/pkg/topology"
)

// Branch is a linear run of leaf cells plus padding along one axis.
type Branch struct {
	cell       *grid.Cell
	axis       grid.Axis
	items      []*grid.Cell
	padding    int
	padStart   bool // flow runs against display order; pad the leading end
	dropZone   bool
	dualOutlet bool
	dropTarget topology.Ref
	oa         *OASubsystem
}

func newBranch(axis grid.Axis, items []*grid.Cell) *Branch {
	b := &Branch{cell: grid.NewContainer(grid.KindBranch), axis: axis, items: items}
	b.Relayout()
	return b
}

// Cell returns the branch's container cell.
func (b *Branch) Cell() *grid.Cell { return b.cell }

// Axis returns the layout axis.
func (b *Branch) Axis() grid.Axis { return b.axis }

// Items returns the component cells in display order, without padding.
func (b *Branch) Items() []*grid.Cell { return b.items }

// IsEmpty reports whether the branch holds no components.
func (b *Branch) IsEmpty() bool { return len(b.items) == 0 }

// PaddingCount returns the number of padding cells.
func (b *Branch) PaddingCount() int { return b.padding }

// IsDropZone reports whether the branch is an insertion placeholder.
func (b *Branch) IsDropZone() bool { return b.dropZone }

// HasDualOutlet reports whether the branch feeds a dual-duct pair.
func (b *Branch) HasDualOutlet() bool { return b.dualOutlet }

// OutdoorAir returns the outdoor-air subsystem embedded in the branch.
func (b *Branch) OutdoorAir() (*OASubsystem, bool) { return b.oa, b.oa != nil }

// BaseLength is the branch length along its axis without padding.
func (b *Branch) BaseLength() int {
	n := 0
	for _, it := range b.items {
		n += it.Size().Along(b.axis)
	}
	return n
}

// Length is the branch length along its axis including padding.
func (b *Branch) Length() int { return b.BaseLength() + b.padding }

// Extent returns the branch's current extent.
func (b *Branch) Extent() grid.Extent { return b.cell.Size() }

// SetPadding sets the padding count and lays the branch out again.
// Negative counts are treated as zero.
func (b *Branch) SetPadding(n int) {
	b.padding = max(n, 0)
	b.Relayout()
}

// Relayout positions the branch's children. Horizontal branches bottom-align
// their leaves to a common flow row so taller cells extend upward; vertical
// branches left-align.
func (b *Branch) Relayout() {
	pads := make([]*grid.Cell, b.padding)
	for i := range pads {
		pads[i] = grid.NewPadding(paddingShape(b.axis))
		pads[i].SetHidden(b.dropZone)
	}

	var seq []*grid.Cell
	if b.padStart {
		seq = append(append(seq, pads...), b.items...)
	} else {
		seq = append(append(seq, b.items...), pads...)
	}

	across := 1
	for _, c := range b.items {
		across = max(across, c.Size().Across(b.axis))
	}

	at := 0
	for _, c := range seq {
		if b.axis == grid.Horizontal {
			c.SetPos(at, across-c.Size().Height)
			at += c.Size().Width
		} else {
			c.SetPos(0, at)
			at += c.Size().Height
		}
	}

	b.cell.SetChildren(seq...)
	if len(seq) == 0 {
		if b.axis == grid.Horizontal {
			b.cell.SetSize(grid.Extent{Width: 0, Height: 1})
		} else {
			b.cell.SetSize(grid.Extent{Width: 1, Height: 0})
		}
	} else {
		b.cell.Fit()
	}
	b.cell.SetBranchInfo(grid.BranchInfo{
		Axis:       b.axis,
		Padding:    b.padding,
		DropZone:   b.dropZone,
		DualOutlet: b.dualOutlet,
		DropTarget: b.dropTarget,
	})
}

// Builder converts ordered component sequences into branches.
type Builder struct {
	topo       Topology
	outdoorAir bool
	report     func(error)
}

// NewBuilder returns a Builder that classifies components from t.
func NewBuilder(t Topology) *Builder {
	return &Builder{topo: t}
}

// WithOutdoorAir returns a copy of the builder that expands outdoor-air
// mixers on horizontal branches into outdoor-air subsystem cells.
func (b *Builder) WithOutdoorAir() *Builder {
	c := *b
	c.outdoorAir = true
	return &c
}

// Build classifies each component and lays the leaves out along axis.
// An empty sequence yields an empty branch: extent (0,1) for horizontal,
// (1,0) for vertical, not a drop zone.
func (b *Builder) Build(refs []topology.Ref, axis grid.Axis) (*Branch, error) {
	items := make([]*grid.Cell, 0, len(refs))
	var oa *OASubsystem
	for _, ref := range refs {
		cat := b.topo.Category(ref)
		if b.outdoorAir && axis == grid.Horizontal && cat == topology.CategoryOutdoorAirMix {
			sub, ok, err := b.outdoorAirSubsystem(ref)
			if err != nil {
				return nil, err
			}
			if ok {
				if oa == nil {
					oa = sub
				}
				items = append(items, sub.Cell())
				continue
			}
		}
		leaf, err := b.leaf(ref, axis)
		if err != nil {
			return nil, err
		}
		items = append(items, leaf)
	}
	br := newBranch(axis, items)
	br.oa = oa
	return br, nil
}

func (b *Builder) leaf(ref topology.Ref, axis grid.Axis) (*grid.Cell, error) {
	shape, err := Classify(b.topo.Category(ref), axis)
	if err != nil {
		return nil, err
	}
	c := grid.NewLeaf(ref, shape)
	c.SetDeletable(b.topo.IsRemovable(ref))
	return c, nil
}

func (b *Builder) sizedLeaf(ref topology.Ref, axis grid.Axis, size grid.Extent) (*grid.Cell, error) {
	shape, err := Classify(b.topo.Category(ref), axis)
	if err != nil {
		return nil, err
	}
	c := grid.NewSizedLeaf(ref, shape, size)
	c.SetDeletable(b.topo.IsRemovable(ref))
	return c, nil
}

func (b *Builder) malformed(err error) {
	if b.report != nil {
		b.report(err)
	}
}
