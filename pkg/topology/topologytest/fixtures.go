// Package topologytest provides ready-made loops for tests.
package topologytest

import (
	"fmt"

	"github.com/matzehuels/loopgrid/pkg/topology"
)

// Builder assembles a loop and panics on the first error. Fixtures are
// static, so an error is a bug in the fixture.
type Builder struct {
	L *topology.Loop
}

// NewBuilder starts a loop.
func NewBuilder(name string, kind topology.Kind) *Builder {
	return &Builder{L: topology.New(name, kind)}
}

// Add adds components of one category.
func (b *Builder) Add(cat topology.Category, ids ...string) *Builder {
	for _, id := range ids {
		b.must(b.L.AddComponent(topology.Component{ID: topology.Ref(id), Name: id, Category: cat, Removable: cat != topology.CategoryNode}))
	}
	return b
}

// Zone adds a component associated with a thermal zone.
func (b *Builder) Zone(cat topology.Category, id, zone string) *Builder {
	b.must(b.L.AddComponent(topology.Component{ID: topology.Ref(id), Name: id, Category: cat, Zone: zone, Removable: true}))
	return b
}

// OutdoorAirMixer adds an outdoor-air mixer with its outboard nodes.
func (b *Builder) OutdoorAirMixer(id, oaNode, reliefNode string) *Builder {
	b.must(b.L.AddComponent(topology.Component{
		ID:             topology.Ref(id),
		Name:           id,
		Category:       topology.CategoryOutdoorAirMix,
		OutdoorAirNode: topology.Ref(oaNode),
		ReliefNode:     topology.Ref(reliefNode),
	}))
	return b
}

// Chain connects ids in order.
func (b *Builder) Chain(ids ...string) *Builder {
	refs := make([]topology.Ref, len(ids))
	for i, id := range ids {
		refs[i] = topology.Ref(id)
	}
	b.must(b.L.Chain(refs...))
	return b
}

// Supply sets the supply side endpoints.
func (b *Builder) Supply(inlet, splitter, mixer string, outlets ...string) *Builder {
	b.L.Supply = topology.Supply{Inlet: topology.Ref(inlet), Splitter: topology.Ref(splitter), Mixer: topology.Ref(mixer), Outlets: refs(outlets)}
	return b
}

// Demand sets the demand side endpoints.
func (b *Builder) Demand(outlet, splitter, mixer string, inlets ...string) *Builder {
	b.L.Demand = topology.Demand{Outlet: topology.Ref(outlet), Splitter: topology.Ref(splitter), Mixer: topology.Ref(mixer), Inlets: refs(inlets)}
	return b
}

// Loop validates and returns the loop.
func (b *Builder) Loop() *topology.Loop {
	b.must(b.L.Validate())
	return b.L
}

func (b *Builder) must(err error) {
	if err != nil {
		panic(fmt.Sprintf("topologytest: %v", err))
	}
}

func refs(ids []string) []topology.Ref {
	out := make([]topology.Ref, len(ids))
	for i, id := range ids {
		out[i] = topology.Ref(id)
	}
	return out
}

// Series is a plant loop without splitters:
//
//	supply: s-in -> pump -> boiler -> s-out
//	demand: d-in -> radiator -> d-out
func Series() *topology.Loop {
	return NewBuilder("Series Loop", topology.KindPlant).
		Add(topology.CategoryNode, "s-in", "s-out", "d-in", "d-out").
		Add(topology.CategoryStraight, "pump").
		Add(topology.CategoryWaterToWater, "boiler").
		Add(topology.CategoryWaterToAir, "radiator").
		Chain("s-in", "pump", "boiler", "s-out").
		Chain("d-in", "radiator", "d-out").
		Supply("s-in", "", "", "s-out").
		Demand("d-out", "", "", "d-in").
		Loop()
}

// ChilledWater is a plant loop with two chillers and a bypass on the
// supply side and three cooling coils on the demand side.
func ChilledWater() *topology.Loop {
	return NewBuilder("Chilled Water Loop", topology.KindPlant).
		Add(topology.CategoryNode, "s-in", "s-out", "d-in", "d-out").
		Add(topology.CategoryStraight, "pump", "bypass", "d-bypass", "d-pipe").
		Add(topology.CategoryWaterToWater, "chiller-1", "chiller-2").
		Add(topology.CategorySplitter, "s-split", "d-split").
		Add(topology.CategoryMixer, "s-mix", "d-mix").
		Zone(topology.CategoryWaterToAir, "coil-c", "Zone C").
		Zone(topology.CategoryWaterToAir, "coil-a", "Zone A").
		Zone(topology.CategoryWaterToAir, "coil-b", "Zone B").
		Chain("s-in", "pump", "s-split").
		Chain("s-split", "chiller-1", "s-mix").
		Chain("s-split", "chiller-2", "s-mix").
		Chain("s-split", "bypass", "s-mix").
		Chain("s-mix", "s-out").
		Chain("d-in", "d-split").
		Chain("d-split", "coil-c", "d-mix").
		Chain("d-split", "coil-a", "d-mix").
		Chain("d-split", "coil-b", "d-mix").
		Chain("d-split", "d-bypass", "d-mix").
		Chain("d-mix", "d-pipe", "d-out").
		Supply("s-in", "s-split", "s-mix", "s-out").
		Demand("d-out", "d-split", "d-mix", "d-in").
		Loop()
}

// VAV is an air loop with an outdoor-air system whose two streams share a
// heat-recovery wheel, and a demand side with two direct zones and a supply
// plenum serving two more.
//
//	supply: s-in -> oa-mixer -> cooling-coil -> fan -> s-out
//	outdoor air: oa-node -> oa-damper -> hx -> oa-mixer
//	relief:      oa-mixer -> hx -> relief-node
//	demand: d-in -> d-split -> {vav-1 -> zone-1, vav-2 -> zone-2,
//	        plenum -> {vav-3 -> zone-3, vav-4 -> zone-4} -> return} -> d-mix -> d-out
func VAV() *topology.Loop {
	return NewBuilder("VAV Air Loop", topology.KindAir).
		Add(topology.CategoryNode, "s-in", "s-out", "d-in", "d-out", "oa-node", "relief-node").
		Add(topology.CategoryStraight, "fan", "oa-damper").
		Add(topology.CategoryWaterToAir, "cooling-coil").
		Add(topology.CategoryAirToAir, "hx").
		OutdoorAirMixer("oa-mixer", "oa-node", "relief-node").
		Add(topology.CategorySplitter, "d-split").
		Add(topology.CategoryMixer, "d-mix").
		Add(topology.CategoryPlenumSplitter, "plenum").
		Add(topology.CategoryPlenumMixer, "return").
		Zone(topology.CategoryStraight, "vav-1", "Zone 1").
		Zone(topology.CategoryStraight, "zone-1", "Zone 1").
		Zone(topology.CategoryStraight, "vav-2", "Zone 2").
		Zone(topology.CategoryStraight, "zone-2", "Zone 2").
		Zone(topology.CategoryStraight, "vav-3", "Zone 3").
		Zone(topology.CategoryStraight, "zone-3", "Zone 3").
		Zone(topology.CategoryStraight, "vav-4", "Zone 4").
		Zone(topology.CategoryStraight, "zone-4", "Zone 4").
		Chain("s-in", "oa-mixer", "cooling-coil", "fan", "s-out").
		Chain("oa-node", "oa-damper", "hx", "oa-mixer").
		Chain("oa-mixer", "hx", "relief-node").
		Chain("d-in", "d-split").
		Chain("d-split", "vav-2", "zone-2", "d-mix").
		Chain("d-split", "vav-1", "zone-1", "d-mix").
		Chain("d-split", "plenum").
		Chain("plenum", "vav-4", "zone-4", "return").
		Chain("plenum", "vav-3", "zone-3", "return").
		Chain("return", "d-mix", "d-out").
		Supply("s-in", "", "", "s-out").
		Demand("d-out", "d-split", "d-mix", "d-in").
		Loop()
}

// DualDuct is an air loop whose supply splitter feeds a hot deck and a cold
// deck, and whose demand side has two inlet nodes joined at each terminal.
func DualDuct() *topology.Loop {
	return NewBuilder("Dual Duct Loop", topology.KindAir).
		Add(topology.CategoryNode, "s-in", "s-out-hot", "s-out-cold", "d-in-hot", "d-in-cold", "d-out").
		Add(topology.CategoryStraight, "fan").
		Add(topology.CategoryWaterToAir, "heating-coil", "cooling-coil").
		Add(topology.CategorySplitter, "s-split", "d-split-hot", "d-split-cold").
		Add(topology.CategoryMixer, "terminal-1", "terminal-2", "d-mix").
		Zone(topology.CategoryStraight, "zone-1", "Zone 1").
		Zone(topology.CategoryStraight, "zone-2", "Zone 2").
		Chain("s-in", "fan", "s-split").
		Chain("s-split", "heating-coil", "s-out-hot").
		Chain("s-split", "cooling-coil", "s-out-cold").
		Chain("d-in-hot", "d-split-hot").
		Chain("d-in-cold", "d-split-cold").
		Chain("d-split-hot", "terminal-1", "zone-1", "d-mix").
		Chain("d-split-hot", "terminal-2", "zone-2", "d-mix").
		Chain("d-split-cold", "terminal-1").
		Chain("d-split-cold", "terminal-2").
		Chain("d-mix", "d-out").
		Supply("s-in", "s-split", "", "s-out-hot", "s-out-cold").
		Demand("d-out", "d-split-hot", "d-mix", "d-in-hot", "d-in-cold").
		Loop()
}
