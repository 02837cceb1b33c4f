package grid

import (
	"fmt"

	"github.com/matzehuels/loopgrid/pkg/topology"
)

// Axis is the direction a branch lays its cells out along.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Point is a grid coordinate.
type Point struct {
	Col int
	Row int
}

// Add returns p offset by q.
func (p Point) Add(q Point) Point { return Point{Col: p.Col + q.Col, Row: p.Row + q.Row} }

// Extent is a size in grid units.
type Extent struct {
	Width  int
	Height int
}

// Along returns the extent's length along axis a.
func (e Extent) Along(a Axis) int {
	if a == Vertical {
		return e.Height
	}
	return e.Width
}

// Across returns the extent's length across axis a.
func (e Extent) Across(a Axis) int {
	if a == Vertical {
		return e.Width
	}
	return e.Height
}

// Area returns Width*Height.
func (e Extent) Area() int { return e.Width * e.Height }

// Kind tags what a cell represents.
type Kind int

const (
	KindLeaf Kind = iota
	KindPadding
	KindConnector
	KindBranch
	KindBranchGroup
	KindOASubsystem
	KindSide
	KindSystem
)

var kindNames = [...]string{
	KindLeaf:        "leaf",
	KindPadding:     "padding",
	KindConnector:   "connector",
	KindBranch:      "branch",
	KindBranchGroup: "branch-group",
	KindOASubsystem: "oa-subsystem",
	KindSide:        "side",
	KindSystem:      "system",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsContainer reports whether cells of this kind own children.
func (k Kind) IsContainer() bool { return k >= KindBranch }

// Port is a bit set of cell edges that carry a flow line.
type Port uint8

const (
	PortLeft Port = 1 << iota
	PortRight
	PortTop
	PortBottom
)

// Has reports whether all of q's edges are set in p.
func (p Port) Has(q Port) bool { return p&q == q }

func (p Port) String() string {
	s := ""
	for _, e := range []struct {
		bit  Port
		name string
	}{{PortLeft, "L"}, {PortRight, "R"}, {PortTop, "T"}, {PortBottom, "B"}} {
		if p.Has(e.bit) {
			s += e.name
		}
	}
	if s == "" {
		return "-"
	}
	return s
}

// Shape is a leaf's unit footprint and connector-port pattern.
type Shape struct {
	Name  string
	Size  Extent
	Ports Port
}

// BranchInfo carries the branch attributes renderers care about.
type BranchInfo struct {
	Axis       Axis
	Padding    int
	DropZone   bool
	DualOutlet bool
	DropTarget topology.Ref // Splitter a drop zone inserts into
}

// Cell is a node in the layout tree.
//
// The zero value is not usable - use one of the constructors.
type Cell struct {
	kind      Kind
	pos       Point
	size      Extent
	shape     Shape
	ref       topology.Ref
	hidden    bool
	deletable bool
	children  []*Cell
	branch    *BranchInfo
}

// NewLeaf returns a leaf bound to ref with the shape's footprint.
func NewLeaf(ref topology.Ref, shape Shape) *Cell {
	return &Cell{kind: KindLeaf, ref: ref, shape: shape, size: shape.Size}
}

// NewSizedLeaf returns a leaf stretched to size, which must cover the
// shape's footprint. Splitters and mixers stretch across their branch group.
func NewSizedLeaf(ref topology.Ref, shape Shape, size Extent) *Cell {
	size.Width = max(size.Width, shape.Size.Width)
	size.Height = max(size.Height, shape.Size.Height)
	return &Cell{kind: KindLeaf, ref: ref, shape: shape, size: size}
}

// NewPadding returns a 1x1 padding cell.
func NewPadding(shape Shape) *Cell {
	return &Cell{kind: KindPadding, shape: shape, size: Extent{1, 1}}
}

// NewConnector returns a componentless connector of the given size.
func NewConnector(shape Shape, size Extent) *Cell {
	return &Cell{kind: KindConnector, shape: shape, size: size}
}

// NewContainer returns an empty container of kind k.
func NewContainer(k Kind) *Cell {
	return &Cell{kind: k}
}

func (c *Cell) Kind() Kind      { return c.kind }
func (c *Cell) Pos() Point      { return c.pos }
func (c *Cell) Size() Extent    { return c.size }
func (c *Cell) Shape() Shape    { return c.shape }
func (c *Cell) Hidden() bool    { return c.hidden }
func (c *Cell) Deletable() bool { return c.deletable }

// Component returns the bound component, if any.
func (c *Cell) Component() (topology.Ref, bool) { return c.ref, c.ref != "" }

// Children returns the owned children in layout order. Callers must not
// modify the returned slice.
func (c *Cell) Children() []*Cell { return c.children }

// Branch returns the branch attributes of a branch cell.
func (c *Cell) Branch() (BranchInfo, bool) {
	if c.branch == nil {
		return BranchInfo{}, false
	}
	return *c.branch, true
}

// SetPos places the cell relative to its parent.
func (c *Cell) SetPos(col, row int) { c.pos = Point{Col: col, Row: row} }

// SetSize sets a container's extent directly. Used for empty branches.
func (c *Cell) SetSize(e Extent) { c.size = e }

// SetChildren replaces the owned children.
func (c *Cell) SetChildren(children ...*Cell) { c.children = children }

// SetHidden marks the cell as reserving space without being drawn.
func (c *Cell) SetHidden(h bool) { c.hidden = h }

// SetDeletable marks the bound component as removable by the host.
func (c *Cell) SetDeletable(d bool) { c.deletable = d }

// SetBranchInfo records branch attributes on a branch cell.
func (c *Cell) SetBranchInfo(b BranchInfo) { c.branch = &b }

// Fit sets the container's extent to the bounding box of its children.
// A container without children keeps its current extent.
func (c *Cell) Fit() {
	if len(c.children) == 0 {
		return
	}
	c.size = Bounds(c.children)
}

// Bounds returns the extent of the bounding box of cells, measured from the
// origin.
func Bounds(cells []*Cell) Extent {
	var e Extent
	for _, ch := range cells {
		e.Width = max(e.Width, ch.pos.Col+ch.size.Width)
		e.Height = max(e.Height, ch.pos.Row+ch.size.Height)
	}
	return e
}
