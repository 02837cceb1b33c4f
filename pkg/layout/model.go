package layout

import "github.com/matzehuels/loopgrid/pkg/topology"

// Topology is the component-level view of a loop the engine consumes.
type Topology interface {
	// OrderedComponentsBetween returns the unique path from a to b,
	// inclusive of both ends.
	OrderedComponentsBetween(a, b topology.Ref) ([]topology.Ref, error)
	// Outlets returns the components directly downstream of c.
	Outlets(c topology.Ref) []topology.Ref
	Category(c topology.Ref) topology.Category
	IsRemovable(c topology.Ref) bool
	ZoneName(c topology.Ref) (string, bool)
	ComponentName(c topology.Ref) string
	// OutdoorAirEnds returns the outboard nodes of an outdoor-air mixer.
	OutdoorAirEnds(mixer topology.Ref) (oa, relief topology.Ref, ok bool)
}

// Loop adds the side structure to Topology. *topology.Loop implements it.
type Loop interface {
	Topology
	LoopName() string
	LoopKind() topology.Kind
	SupplySide() topology.Supply
	DemandSide() topology.Demand
}

var _ Loop = (*topology.Loop)(nil)
