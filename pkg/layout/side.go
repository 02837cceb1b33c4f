package layout

import (
	"slices"

	errs "github.com/matzehuels/loopgrid/pkg/errors"
	"github.com/matzehuels/loopgrid/pkg/grid"
	"github.com/matzehuels/loopgrid/pkg/topology"
)

// Role tells the two sides of a loop apart.
type Role int

const (
	Supply Role = iota
	Demand
)

func (r Role) String() string {
	if r == Demand {
		return "demand"
	}
	return "supply"
}

// Side is one half of a loop: its inlet run, optional branch group, outlet
// run, and the elbows, risers and nodes that bring the flow line back to
// the side's end nodes.
//
// Supply sides flow left to right with their end nodes on the bottom row;
// demand sides flow right to left with their end nodes on the top row, so
// the end nodes of both sides face the center strip.
type Side struct {
	role     Role
	cell     *grid.Cell
	inlet    *Branch
	outlet   *Branch
	group    *BranchGroup
	splitter *grid.Cell
	mixer    *grid.Cell
	inNodes  []*grid.Cell
	outNodes []*grid.Cell
	padding  int
}

// Role returns whether this is the supply or demand side.
func (s *Side) Role() Role { return s.role }

// Cell returns the side's container cell.
func (s *Side) Cell() *grid.Cell { return s.cell }

// Extent returns the side's current extent.
func (s *Side) Extent() grid.Extent { return s.cell.Size() }

// Inlet returns the inlet run. On a side without a splitter it is the
// side's only run.
func (s *Side) Inlet() *Branch { return s.inlet }

// Outlet returns the outlet run, if the side has one.
func (s *Side) Outlet() (*Branch, bool) { return s.outlet, s.outlet != nil }

// Group returns the branch group, if the side has a splitter.
func (s *Side) Group() (*BranchGroup, bool) { return s.group, s.group != nil }

// OutdoorAir returns the outdoor-air subsystem on the inlet run, if any.
func (s *Side) OutdoorAir() (*OASubsystem, bool) { return s.inlet.OutdoorAir() }

// Dual reports whether the side has a second end node.
func (s *Side) Dual() bool { return len(s.inNodes) == 2 || len(s.outNodes) == 2 }

// Padding returns the width added to balance the sibling side.
func (s *Side) Padding() int { return s.padding }

// SetPadding sets the balancing width and lays the side out again.
func (s *Side) SetPadding(n int) {
	s.padding = max(n, 0)
	s.Relayout()
}

// Relayout pads the runs and positions every child.
func (s *Side) Relayout() {
	s.padRuns()
	if s.group != nil {
		s.group.Relayout()
	}
	var cells []*grid.Cell
	if s.role == Supply {
		cells = s.placeSupply()
	} else {
		cells = s.placeDemand()
	}
	s.cell.SetChildren(cells...)
	s.cell.Fit()
}

// padRuns aligns the inlet and outlet runs against each other, then splits
// the side padding between them: the inlet takes the larger half.
func (s *Side) padRuns() {
	if s.outlet == nil {
		s.inlet.SetPadding(s.padding)
		return
	}
	Align(s.inlet, s.outlet)
	s.inlet.SetPadding(s.inlet.PaddingCount() + (s.padding+1)/2)
	s.outlet.SetPadding(s.outlet.PaddingCount() + s.padding/2)
}

type placer struct {
	cells []*grid.Cell
}

// at places c and returns the column right after it.
func (p *placer) at(c *grid.Cell, col, row int) int {
	c.SetPos(col, row)
	p.cells = append(p.cells, c)
	return col + c.Size().Width
}

// placeSupply lays the side out around flow row j. The branch group is
// centered on j and the end nodes sit one row below the group.
func (s *Side) placeSupply() []*grid.Cell {
	gh, half := 0, 0
	if s.group != nil {
		gh = s.group.Extent().Height
		half = gh / 2
	}
	j := max(0, gh-half-1, s.inlet.Extent().Height-1)
	if s.outlet != nil {
		j = max(j, s.outlet.Extent().Height-1)
	}
	nodeRow := j + half + 1

	var p placer
	p.at(s.inNodes[0], 0, nodeRow)
	if half > 0 {
		p.at(riser(half), 0, j+1)
	}
	p.at(elbow(grid.PortBottom|grid.PortRight), 0, j)

	i := p.at(s.inlet.Cell(), 1, j-s.inlet.Extent().Height+1)
	if s.inlet.IsEmpty() {
		i = p.at(spacer(1), i, j)
	}

	if s.group != nil {
		top := j - gh + half + 1
		i = p.at(s.splitter, i, top)
		i = p.at(s.group.Cell(), i, top)

		if s.mixer == nil {
			if len(s.outNodes) == 2 {
				first, last := j, j
				if base := s.group.Baselines(); len(base) > 0 {
					first, last = top+base[0], top+base[len(base)-1]
				}
				s.placeDualOutlets(&p, i, first, last, nodeRow)
				return p.cells
			}
		} else {
			i = p.at(s.mixer, i, top)
			if s.outlet.IsEmpty() {
				i = p.at(spacer(1), i, j)
			}
			i = p.at(s.outlet.Cell(), i, j-s.outlet.Extent().Height+1)
		}
	}

	p.at(elbow(grid.PortLeft|grid.PortBottom), i, j)
	if half > 0 {
		p.at(riser(half), i, j+1)
	}
	p.at(s.outNodes[0], i, nodeRow)
	return p.cells
}

// placeDualOutlets routes the first group branch over a two-wide spacer to
// the far outlet column and drops the last branch straight into the near
// outlet column. When both outlets hang off the same row (a placeholder
// group) a tee feeds the near column and carries on to the far one.
func (s *Side) placeDualOutlets(p *placer, i, first, last, nodeRow int) {
	if first == last {
		p.at(connector(ShapeDualTee, grid.PortLeft|grid.PortRight|grid.PortBottom, grid.Extent{Width: 2, Height: 1}), i, first)
	} else {
		p.at(spacer(2), i, first)
		p.at(elbow(grid.PortLeft|grid.PortBottom), i, last)
	}
	if h := nodeRow - last - 1; h > 0 {
		p.at(riser(h), i, last+1)
	}
	p.at(s.outNodes[1], i, nodeRow)

	p.at(elbow(grid.PortLeft|grid.PortBottom), i+2, first)
	if h := nodeRow - first - 1; h > 0 {
		p.at(riser(h), i+2, first+1)
	}
	p.at(s.outNodes[0], i+2, nodeRow)
}

// placeDemand lays the side out around flow row c with the end nodes on
// row 0 and the branch group centered on c.
func (s *Side) placeDemand() []*grid.Cell {
	gh, mid := 0, 0
	if s.group != nil {
		gh = s.group.Extent().Height
		mid = gh / 2
	}
	c := max(1, mid+1, s.inlet.Extent().Height-1)
	if s.outlet != nil {
		c = max(c, s.outlet.Extent().Height-1)
	}

	var p placer
	end := func(col int, node *grid.Cell, ports grid.Port) {
		p.at(node, col, 0)
		if c > 1 {
			p.at(riser(c-1), col, 1)
		}
		p.at(elbow(ports), col, c)
	}

	end(0, s.outNodes[0], grid.PortTop|grid.PortRight)
	i := 1
	if s.group != nil {
		top := c - mid
		if s.outlet.IsEmpty() {
			i = p.at(spacer(1), i, c)
		}
		i = p.at(s.outlet.Cell(), i, c-s.outlet.Extent().Height+1)
		i = p.at(s.mixer, i, top)
		i = p.at(s.group.Cell(), i, top)
		i = p.at(s.splitter, i, top)
	}
	i = p.at(s.inlet.Cell(), i, c-s.inlet.Extent().Height+1)
	if s.inlet.IsEmpty() {
		i = p.at(spacer(1), i, c)
	}

	if len(s.inNodes) == 2 {
		p.at(s.inNodes[1], i, 0)
		if c > 1 {
			p.at(riser(c-1), i, 1)
		}
		p.at(connector(ShapeDualTee, grid.PortLeft|grid.PortRight|grid.PortTop, grid.Extent{Width: 2, Height: 1}), i, c)
		i += 2
	}
	end(i, s.inNodes[0], grid.PortTop|grid.PortLeft)
	return p.cells
}

// ComposeSupply builds the supply side. Without a splitter the side is a
// single run from the inlet node to the outlet node. A splitter without a
// mixer feeds two outlet nodes (dual duct). On an air loop, outdoor-air
// mixers on the inlet run are expanded into outdoor-air subsystems.
func (c *Composer) ComposeSupply() (*Side, error) {
	sup := c.loop.SupplySide()
	if n := len(sup.Outlets); n == 0 || n > 2 {
		return nil, errs.New(errs.ErrCodeInvalidTopology, "supply side needs one or two outlet nodes, got %d", n)
	}
	s := &Side{role: Supply, cell: grid.NewContainer(grid.KindSide)}

	var err error
	if s.inNodes, err = c.nodes(sup.Inlet); err != nil {
		return nil, err
	}
	if s.outNodes, err = c.nodes(sup.Outlets...); err != nil {
		return nil, err
	}

	runs := c.builder
	if c.loop.LoopKind() == topology.KindAir {
		runs = c.air
	}

	switch {
	case sup.Splitter == "":
		if s.inlet, err = c.run(runs, sup.Inlet, sup.Outlets[0], Supply); err != nil {
			return nil, err
		}

	case sup.Mixer == "":
		if s.inlet, err = c.run(runs, sup.Inlet, sup.Splitter, Supply); err != nil {
			return nil, err
		}
		s.inlet.dualOutlet = true
		if s.group, err = c.composeGroup(sup.Splitter, sup.Outlets, "", Supply, false); err != nil {
			return nil, err
		}
		if s.splitter, err = c.spanLeaf(sup.Splitter, s.group); err != nil {
			return nil, err
		}
		s.orderDualOutlets(c.loop)

	default:
		if s.inlet, err = c.run(runs, sup.Inlet, sup.Splitter, Supply); err != nil {
			return nil, err
		}
		if s.group, err = c.ComposeGroup(sup.Splitter, sup.Mixer, Supply); err != nil {
			return nil, err
		}
		if s.outlet, err = c.run(c.builder, sup.Mixer, sup.Outlets[0], Supply); err != nil {
			return nil, err
		}
		if s.splitter, err = c.spanLeaf(sup.Splitter, s.group); err != nil {
			return nil, err
		}
		if s.mixer, err = c.spanLeaf(sup.Mixer, s.group); err != nil {
			return nil, err
		}
	}

	s.Relayout()
	return s, nil
}

// ComposeDemand builds the demand side. Without a splitter the side is a
// single series run. Two inlet nodes mark a dual-duct demand side; the
// second inlet joins through a tee.
func (c *Composer) ComposeDemand() (*Side, error) {
	dem := c.loop.DemandSide()
	if n := len(dem.Inlets); n == 0 || n > 2 {
		return nil, errs.New(errs.ErrCodeInvalidTopology, "demand side needs one or two inlet nodes, got %d", n)
	}
	s := &Side{role: Demand, cell: grid.NewContainer(grid.KindSide)}

	var err error
	if s.inNodes, err = c.nodes(dem.Inlets...); err != nil {
		return nil, err
	}
	if s.outNodes, err = c.nodes(dem.Outlet); err != nil {
		return nil, err
	}

	if dem.Splitter == "" {
		if s.inlet, err = c.run(c.builder, dem.Inlets[0], dem.Outlet, Demand); err != nil {
			return nil, err
		}
	} else {
		if s.inlet, err = c.run(c.builder, dem.Inlets[0], dem.Splitter, Demand); err != nil {
			return nil, err
		}
		if s.group, err = c.ComposeGroup(dem.Splitter, dem.Mixer, Demand); err != nil {
			return nil, err
		}
		if s.outlet, err = c.run(c.builder, dem.Mixer, dem.Outlet, Demand); err != nil {
			return nil, err
		}
		if s.splitter, err = c.spanLeaf(dem.Splitter, s.group); err != nil {
			return nil, err
		}
		if s.mixer, err = c.spanLeaf(dem.Mixer, s.group); err != nil {
			return nil, err
		}
	}
	s.inlet.dualOutlet = len(dem.Inlets) == 2

	s.Relayout()
	return s, nil
}

// run builds the horizontal run strictly between a and b. A missing path is
// reported as malformed and drawn as an empty run.
func (c *Composer) run(b *Builder, from, to topology.Ref, role Role) (*Branch, error) {
	var inner []topology.Ref
	refs, err := c.loop.OrderedComponentsBetween(from, to)
	switch {
	case err != nil:
		c.malformed(errs.Wrap(errs.ErrCodeMalformedTopology, err, "%s run %s -> %s", role, from, to))
	case len(refs) > 2:
		inner = slices.Clone(refs[1 : len(refs)-1])
	}
	if role == Demand {
		slices.Reverse(inner)
	}
	br, err := b.Build(inner, grid.Horizontal)
	if err != nil {
		return nil, err
	}
	br.padStart = role == Demand
	return br, nil
}

func (c *Composer) nodes(refs ...topology.Ref) ([]*grid.Cell, error) {
	out := make([]*grid.Cell, 0, len(refs))
	for _, ref := range refs {
		n, err := c.builder.leaf(ref, grid.Vertical)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// spanLeaf returns a splitter or mixer cell stretched across the group.
func (c *Composer) spanLeaf(ref topology.Ref, g *BranchGroup) (*grid.Cell, error) {
	return c.builder.sizedLeaf(ref, grid.Horizontal, grid.Extent{Width: 1, Height: g.Extent().Height})
}

// orderDualOutlets puts the outlet node reached by the top branch first.
func (s *Side) orderDualOutlets(t Topology) {
	if len(s.outNodes) != 2 || len(s.group.Branches()) == 0 {
		return
	}
	last, _ := s.splitter.Component()
	if items := s.group.Branches()[0].Items(); len(items) > 0 {
		if ref, ok := items[len(items)-1].Component(); ok {
			last = ref
		}
	}
	second, _ := s.outNodes[1].Component()
	if slices.Contains(t.Outlets(last), second) {
		s.outNodes[0], s.outNodes[1] = s.outNodes[1], s.outNodes[0]
	}
}
