package io

import (
	errs "github.com/matzehuels/loopgrid/pkg/errors"
	"github.com/matzehuels/loopgrid/pkg/topology"
)

// Document is the file representation of a loop.
type Document struct {
	Name        string       `toml:"name" json:"name"`
	Kind        string       `toml:"kind" json:"kind"`
	Supply      SupplyDoc    `toml:"supply" json:"supply"`
	Demand      DemandDoc    `toml:"demand" json:"demand"`
	Components  []Component  `toml:"components" json:"components"`
	Connections []Connection `toml:"connections,omitempty" json:"connections,omitempty"`
	Chains      [][]string   `toml:"chains,omitempty" json:"chains,omitempty"`
}

// SupplyDoc holds the supply side endpoints.
type SupplyDoc struct {
	Inlet    string   `toml:"inlet" json:"inlet"`
	Outlets  []string `toml:"outlets" json:"outlets"`
	Splitter string   `toml:"splitter,omitempty" json:"splitter,omitempty"`
	Mixer    string   `toml:"mixer,omitempty" json:"mixer,omitempty"`
}

// DemandDoc holds the demand side endpoints.
type DemandDoc struct {
	Inlets   []string `toml:"inlets" json:"inlets"`
	Outlet   string   `toml:"outlet" json:"outlet"`
	Splitter string   `toml:"splitter,omitempty" json:"splitter,omitempty"`
	Mixer    string   `toml:"mixer,omitempty" json:"mixer,omitempty"`
}

// Component is one [[components]] entry.
type Component struct {
	ID             string `toml:"id" json:"id"`
	Name           string `toml:"name,omitempty" json:"name,omitempty"`
	Category       string `toml:"category" json:"category"`
	Zone           string `toml:"zone,omitempty" json:"zone,omitempty"`
	Removable      *bool  `toml:"removable,omitempty" json:"removable,omitempty"`
	OutdoorAirNode string `toml:"outdoor_air_node,omitempty" json:"outdoor_air_node,omitempty"`
	ReliefNode     string `toml:"relief_node,omitempty" json:"relief_node,omitempty"`
}

// Connection is one [[connections]] entry.
type Connection struct {
	From string `toml:"from" json:"from"`
	To   string `toml:"to" json:"to"`
}

// Loop builds and validates the loop the document describes.
func (d Document) Loop() (*topology.Loop, error) {
	kind := topology.Kind(d.Kind)
	if d.Kind == "" {
		kind = topology.KindPlant
	}
	l := topology.New(d.Name, kind)

	for i, c := range d.Components {
		if err := errs.ValidateComponentID(c.ID); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidTopology, err, "component %d", i)
		}
		name := c.Name
		if name == "" {
			name = c.ID
		}
		removable := topology.Category(c.Category) != topology.CategoryNode
		if c.Removable != nil {
			removable = *c.Removable
		}
		err := l.AddComponent(topology.Component{
			ID:             topology.Ref(c.ID),
			Name:           name,
			Category:       topology.Category(c.Category),
			Zone:           c.Zone,
			Removable:      removable,
			OutdoorAirNode: topology.Ref(c.OutdoorAirNode),
			ReliefNode:     topology.Ref(c.ReliefNode),
		})
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidTopology, err, "component %s", c.ID)
		}
	}

	for _, c := range d.Connections {
		if err := l.Connect(topology.Ref(c.From), topology.Ref(c.To)); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidTopology, err, "connection %s -> %s", c.From, c.To)
		}
	}
	for i, chain := range d.Chains {
		if err := l.Chain(refs(chain)...); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidTopology, err, "chain %d", i)
		}
	}

	l.Supply = topology.Supply{
		Inlet:    topology.Ref(d.Supply.Inlet),
		Outlets:  refs(d.Supply.Outlets),
		Splitter: topology.Ref(d.Supply.Splitter),
		Mixer:    topology.Ref(d.Supply.Mixer),
	}
	l.Demand = topology.Demand{
		Inlets:   refs(d.Demand.Inlets),
		Outlet:   topology.Ref(d.Demand.Outlet),
		Splitter: topology.Ref(d.Demand.Splitter),
		Mixer:    topology.Ref(d.Demand.Mixer),
	}
	if err := l.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidTopology, err, "loop %q", d.Name)
	}
	return l, nil
}

// FromLoop returns the document for l. Connections are written one by one;
// removable is only written where it differs from the category default.
func FromLoop(l *topology.Loop) Document {
	d := Document{
		Name: l.Name,
		Kind: string(l.Kind),
		Supply: SupplyDoc{
			Inlet:    string(l.Supply.Inlet),
			Outlets:  strs(l.Supply.Outlets),
			Splitter: string(l.Supply.Splitter),
			Mixer:    string(l.Supply.Mixer),
		},
		Demand: DemandDoc{
			Inlets:   strs(l.Demand.Inlets),
			Outlet:   string(l.Demand.Outlet),
			Splitter: string(l.Demand.Splitter),
			Mixer:    string(l.Demand.Mixer),
		},
	}
	for _, c := range l.Components() {
		comp := Component{
			ID:             string(c.ID),
			Category:       string(c.Category),
			Zone:           c.Zone,
			OutdoorAirNode: string(c.OutdoorAirNode),
			ReliefNode:     string(c.ReliefNode),
		}
		if c.Name != string(c.ID) {
			comp.Name = c.Name
		}
		if c.Removable != (c.Category != topology.CategoryNode) {
			r := c.Removable
			comp.Removable = &r
		}
		d.Components = append(d.Components, comp)
	}
	for _, e := range l.Connections() {
		d.Connections = append(d.Connections, Connection{From: string(e.From), To: string(e.To)})
	}
	return d
}

func refs(ids []string) []topology.Ref {
	if ids == nil {
		return nil
	}
	out := make([]topology.Ref, len(ids))
	for i, id := range ids {
		out[i] = topology.Ref(id)
	}
	return out
}

func strs(refs []topology.Ref) []string {
	if refs == nil {
		return nil
	}
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = string(r)
	}
	return out
}
