package layout

import (
	"github.com/matzehuels/loopgrid/pkg/grid"
	"github.com/matzehuels/loopgrid/pkg/topology"
)

// Part names where on a side a component sits.
type Part int

const (
	PartNode Part = iota
	PartInletRun
	PartOutletRun
	PartSplitter
	PartMixer
	PartBranch
	PartOutdoorAir
)

var partNames = [...]string{
	PartNode:       "node",
	PartInletRun:   "inlet",
	PartOutletRun:  "outlet",
	PartSplitter:   "splitter",
	PartMixer:      "mixer",
	PartBranch:     "branch",
	PartOutdoorAir: "outdoor-air",
}

func (p Part) String() string { return partNames[p] }

// Location is where a component was placed. Branch is the group branch
// index for PartBranch and -1 otherwise. Plenum is the first plenum on the
// component's branch, used to colour zones served by the same plenum.
type Location struct {
	Role   Role
	Part   Part
	Branch int
	Plenum topology.Ref
}

// Locate returns every location of ref. Plenums shared by several branches
// appear once per branch.
func (s *System) Locate(ref topology.Ref) []Location { return s.index[ref] }

// Index returns the component lookup table. Callers must not modify it.
func (s *System) Index() map[topology.Ref][]Location { return s.index }

func buildIndex(s *System, t Topology) map[topology.Ref][]Location {
	idx := make(map[topology.Ref][]Location)
	add := func(c *grid.Cell, loc Location) {
		if c == nil {
			return
		}
		grid.Walk(c, func(cell *grid.Cell, _ grid.Point, _ int, _ string) bool {
			if ref, ok := cell.Component(); ok {
				idx[ref] = append(idx[ref], loc)
			}
			return true
		})
	}
	run := func(b *Branch, role Role, part Part) {
		if b == nil {
			return
		}
		for _, it := range b.Items() {
			loc := Location{Role: role, Part: part, Branch: -1}
			if it.Kind() == grid.KindOASubsystem {
				loc.Part = PartOutdoorAir
			}
			add(it, loc)
		}
	}

	for _, side := range []*Side{s.supply, s.demand} {
		r := side.role
		for _, n := range append(append([]*grid.Cell(nil), side.inNodes...), side.outNodes...) {
			add(n, Location{Role: r, Part: PartNode, Branch: -1})
		}
		run(side.inlet, r, PartInletRun)
		run(side.outlet, r, PartOutletRun)
		add(side.splitter, Location{Role: r, Part: PartSplitter, Branch: -1})
		add(side.mixer, Location{Role: r, Part: PartMixer, Branch: -1})

		if side.group == nil {
			continue
		}
		for i, b := range side.group.Branches() {
			loc := Location{Role: r, Part: PartBranch, Branch: i, Plenum: plenumOf(t, b)}
			for _, it := range b.Items() {
				add(it, loc)
			}
		}
	}
	return idx
}

// plenumOf prefers the supply plenum over the return plenum.
func plenumOf(t Topology, b *Branch) topology.Ref {
	var ret topology.Ref
	for _, it := range b.Items() {
		ref, ok := it.Component()
		if !ok {
			continue
		}
		switch t.Category(ref) {
		case topology.CategoryPlenumSplitter:
			return ref
		case topology.CategoryPlenumMixer:
			if ret == "" {
				ret = ref
			}
		}
	}
	return ret
}
