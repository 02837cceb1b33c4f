package graph

import (
	"github.com/matzehuels/loopgrid/pkg/grid"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// FormatVersion is the layout wire format version written by [FromSystem].
const FormatVersion = 1

// Cell kinds as serialized. They mirror grid.Kind names.
var (
	KindLeaf        = grid.KindLeaf.String()
	KindPadding     = grid.KindPadding.String()
	KindConnector   = grid.KindConnector.String()
	KindBranch      = grid.KindBranch.String()
	KindBranchGroup = grid.KindBranchGroup.String()
	KindOASubsystem = grid.KindOASubsystem.String()
	KindSide        = grid.KindSide.String()
	KindSystem      = grid.KindSystem.String()
)

// Sides.
const (
	RoleSupply = "supply"
	RoleDemand = "demand"
)

// =============================================================================
// Cell - Positioned Grid Element
// =============================================================================

// Cell is one cell of a composed layout with absolute grid coordinates.
// Containers are kept so sinks can outline branches and groups; leaves carry
// the component they draw.
type Cell struct {
	Path   string `json:"path" bson:"path"` // Child indices from the root, "0/2/1"
	Depth  int    `json:"depth" bson:"depth"`
	Kind   string `json:"kind" bson:"kind"`
	Shape  string `json:"shape,omitempty" bson:"shape,omitempty"`
	Ports  string `json:"ports,omitempty" bson:"ports,omitempty"` // Edges carrying flow: L, R, T, B
	X      int    `json:"x" bson:"x"`
	Y      int    `json:"y" bson:"y"`
	Width  int    `json:"width" bson:"width"`
	Height int    `json:"height" bson:"height"`
	Hidden bool   `json:"hidden,omitempty" bson:"hidden,omitempty"`

	// Leaves only
	Component string `json:"component,omitempty" bson:"component,omitempty"`
	Label     string `json:"label,omitempty" bson:"label,omitempty"`
	Category  string `json:"category,omitempty" bson:"category,omitempty"`
	Zone      string `json:"zone,omitempty" bson:"zone,omitempty"`
	Deletable bool   `json:"deletable,omitempty" bson:"deletable,omitempty"`
	Role      string `json:"role,omitempty" bson:"role,omitempty"`
	Part      string `json:"part,omitempty" bson:"part,omitempty"`
	Branch    *int   `json:"branch,omitempty" bson:"branch,omitempty"` // Group branch index
	Plenum    string `json:"plenum,omitempty" bson:"plenum,omitempty"`

	// Branches only
	Padding    int    `json:"padding,omitempty" bson:"padding,omitempty"`
	DropZone   bool   `json:"drop_zone,omitempty" bson:"drop_zone,omitempty"`
	DropTarget string `json:"drop_target,omitempty" bson:"drop_target,omitempty"`
	DualOutlet bool   `json:"dual_outlet,omitempty" bson:"dual_outlet,omitempty"`
}

// IsLeaf returns true if the cell draws a component.
func (c *Cell) IsLeaf() bool { return c.Kind == KindLeaf }

// IsContainer returns true if the cell groups other cells.
func (c *Cell) IsContainer() bool {
	switch c.Kind {
	case KindLeaf, KindPadding, KindConnector:
		return false
	}
	return true
}

// HasPort reports whether flow crosses the cell edge named by p ("L", "R",
// "T" or "B").
func (c *Cell) HasPort(p byte) bool {
	for i := 0; i < len(c.Ports); i++ {
		if c.Ports[i] == p {
			return true
		}
	}
	return false
}

// DisplayLabel returns the label if set, otherwise the component ref.
func (c *Cell) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Component
}

// =============================================================================
// Node, Edge - Loop Components
// =============================================================================

// Node is a loop component as carried alongside the layout.
type Node struct {
	ID       string `json:"id" bson:"id"`
	Label    string `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Category string `json:"category" bson:"category"`
	Zone     string `json:"zone,omitempty" bson:"zone,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge represents a directed connection in flow direction.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}
