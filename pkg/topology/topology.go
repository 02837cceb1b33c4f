package topology

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidComponentID is returned by [Loop.AddComponent] when the
	// component ID is empty.
	ErrInvalidComponentID = errors.New("component ID must not be empty")

	// ErrDuplicateComponent is returned by [Loop.AddComponent] when a
	// component with the same ID already exists.
	ErrDuplicateComponent = errors.New("duplicate component ID")

	// ErrUnknownComponent is returned when a connection or side endpoint
	// references a component that doesn't exist.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrInvalidConnection is returned by [Loop.Connect] for self loops and
	// repeated edges.
	ErrInvalidConnection = errors.New("invalid connection")

	// ErrInvalidLoop is returned by [Loop.Validate] when the side
	// description is incomplete or inconsistent.
	ErrInvalidLoop = errors.New("invalid loop")

	// ErrNoPath is returned by [Loop.OrderedComponentsBetween] when b is not
	// reachable from a.
	ErrNoPath = errors.New("no path between components")

	// ErrAmbiguousPath is returned by [Loop.OrderedComponentsBetween] when
	// more than one path leads from a to b.
	ErrAmbiguousPath = errors.New("more than one path between components")
)

// Ref identifies a component within a loop.
type Ref string

// Component is a single piece of equipment, node or fitting on a loop.
type Component struct {
	ID        Ref
	Name      string   // Display name; falls back to ID when empty
	Category  Category // Shape category
	Zone      string   // Associated thermal zone, used for branch ordering
	Removable bool     // Whether the host may delete it

	// Outdoor-air mixers only: the outboard nodes of the outdoor-air and
	// relief streams. The streams themselves are ordinary connections
	// (OutdoorAirNode -> ... -> mixer and mixer -> ... -> ReliefNode).
	OutdoorAirNode Ref
	ReliefNode     Ref
}

// DisplayName returns Name, or the ID when no name is set.
func (c Component) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return string(c.ID)
}

// Supply describes the supply side's endpoints. Splitter and Mixer are empty
// on a series side. A splitter without a mixer feeds two outlet nodes (dual
// duct).
type Supply struct {
	Inlet    Ref
	Outlets  []Ref
	Splitter Ref
	Mixer    Ref
}

// Demand describes the demand side's endpoints. Two inlet nodes mark a dual
// duct demand side.
type Demand struct {
	Inlets   []Ref
	Outlet   Ref
	Splitter Ref
	Mixer    Ref
}

// Connection is a directed edge in flow direction.
type Connection struct {
	From Ref
	To   Ref
}

// Loop is a component graph with its side endpoints.
//
// The zero value is not usable - use New.
type Loop struct {
	Name   string
	Kind   Kind
	Supply Supply
	Demand Demand

	components map[Ref]*Component
	order      []Ref
	edges      []Connection
	outgoing   map[Ref][]Ref
	incoming   map[Ref][]Ref
}

// New creates an empty loop.
func New(name string, kind Kind) *Loop {
	return &Loop{
		Name:       name,
		Kind:       kind,
		components: make(map[Ref]*Component),
		outgoing:   make(map[Ref][]Ref),
		incoming:   make(map[Ref][]Ref),
	}
}

// AddComponent adds c to the loop. Components keep their insertion order.
func (l *Loop) AddComponent(c Component) error {
	if c.ID == "" {
		return ErrInvalidComponentID
	}
	if _, exists := l.components[c.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, c.ID)
	}
	comp := c
	l.components[c.ID] = &comp
	l.order = append(l.order, c.ID)
	return nil
}

// Connect adds a directed connection from -> to.
func (l *Loop) Connect(from, to Ref) error {
	if _, ok := l.components[from]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownComponent, from)
	}
	if _, ok := l.components[to]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownComponent, to)
	}
	if from == to {
		return fmt.Errorf("%w: %s connects to itself", ErrInvalidConnection, from)
	}
	if slices.Contains(l.outgoing[from], to) {
		return fmt.Errorf("%w: %s -> %s already exists", ErrInvalidConnection, from, to)
	}
	l.edges = append(l.edges, Connection{From: from, To: to})
	l.outgoing[from] = append(l.outgoing[from], to)
	l.incoming[to] = append(l.incoming[to], from)
	return nil
}

// Chain connects refs pairwise in order, stopping at the first error.
func (l *Loop) Chain(refs ...Ref) error {
	for i := 1; i < len(refs); i++ {
		if err := l.Connect(refs[i-1], refs[i]); err != nil {
			return err
		}
	}
	return nil
}

// Component returns the component with the given ref.
func (l *Loop) Component(ref Ref) (Component, bool) {
	c, ok := l.components[ref]
	if !ok {
		return Component{}, false
	}
	return *c, true
}

// Components returns all components in insertion order.
func (l *Loop) Components() []Component {
	out := make([]Component, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.components[id])
	}
	return out
}

// Connections returns all edges in insertion order.
func (l *Loop) Connections() []Connection {
	return slices.Clone(l.edges)
}

// Len returns the number of components.
func (l *Loop) Len() int { return len(l.components) }

// Outlets returns the components directly downstream of ref.
func (l *Loop) Outlets(ref Ref) []Ref { return slices.Clone(l.outgoing[ref]) }

// Inlets returns the components directly upstream of ref.
func (l *Loop) Inlets(ref Ref) []Ref { return slices.Clone(l.incoming[ref]) }

// Category returns the category of ref, or "" when ref is unknown.
func (l *Loop) Category(ref Ref) Category {
	if c, ok := l.components[ref]; ok {
		return c.Category
	}
	return ""
}

// IsRemovable reports whether the host may delete ref.
func (l *Loop) IsRemovable(ref Ref) bool {
	c, ok := l.components[ref]
	return ok && c.Removable
}

// ZoneName returns the thermal zone associated with ref, if any.
func (l *Loop) ZoneName(ref Ref) (string, bool) {
	c, ok := l.components[ref]
	if !ok || c.Zone == "" {
		return "", false
	}
	return c.Zone, true
}

// ComponentName returns the display name of ref.
func (l *Loop) ComponentName(ref Ref) string {
	if c, ok := l.components[ref]; ok {
		return c.DisplayName()
	}
	return string(ref)
}

// OutdoorAirEnds returns the outboard outdoor-air and relief nodes of an
// outdoor-air mixer.
func (l *Loop) OutdoorAirEnds(mixer Ref) (oa, relief Ref, ok bool) {
	c, found := l.components[mixer]
	if !found || c.Category != CategoryOutdoorAirMix || c.OutdoorAirNode == "" || c.ReliefNode == "" {
		return "", "", false
	}
	return c.OutdoorAirNode, c.ReliefNode, true
}

// LoopName returns the loop's display name.
func (l *Loop) LoopName() string { return l.Name }

// LoopKind returns the loop's medium.
func (l *Loop) LoopKind() Kind { return l.Kind }

// SupplySide returns the supply side endpoints.
func (l *Loop) SupplySide() Supply { return l.Supply }

// DemandSide returns the demand side endpoints.
func (l *Loop) DemandSide() Demand { return l.Demand }

// Validate checks that the side endpoints exist and are consistent.
// Path discovery problems are not reported here; the layout engine
// recovers from them with placeholder branch groups.
func (l *Loop) Validate() error {
	if !l.Kind.Valid() {
		return fmt.Errorf("%w: unknown loop kind %q", ErrInvalidLoop, l.Kind)
	}

	check := func(side, what string, ref Ref, required bool) error {
		if ref == "" {
			if required {
				return fmt.Errorf("%w: %s %s is required", ErrInvalidLoop, side, what)
			}
			return nil
		}
		if _, ok := l.components[ref]; !ok {
			return fmt.Errorf("%w: %s %s %q", ErrUnknownComponent, side, what, ref)
		}
		return nil
	}

	s, d := l.Supply, l.Demand
	if len(s.Outlets) == 0 || len(s.Outlets) > 2 {
		return fmt.Errorf("%w: supply side needs one or two outlet nodes, got %d", ErrInvalidLoop, len(s.Outlets))
	}
	if len(d.Inlets) == 0 || len(d.Inlets) > 2 {
		return fmt.Errorf("%w: demand side needs one or two inlet nodes, got %d", ErrInvalidLoop, len(d.Inlets))
	}
	if len(s.Outlets) == 2 && (s.Splitter == "" || s.Mixer != "") {
		return fmt.Errorf("%w: dual duct supply needs a splitter and no mixer", ErrInvalidLoop)
	}
	if len(s.Outlets) == 1 && (s.Splitter == "") != (s.Mixer == "") {
		return fmt.Errorf("%w: supply splitter and mixer must be set together", ErrInvalidLoop)
	}
	if (d.Splitter == "") != (d.Mixer == "") {
		return fmt.Errorf("%w: demand splitter and mixer must be set together", ErrInvalidLoop)
	}

	checks := []struct {
		side, what string
		ref        Ref
		required   bool
	}{
		{"supply", "inlet", s.Inlet, true},
		{"supply", "splitter", s.Splitter, false},
		{"supply", "mixer", s.Mixer, false},
		{"demand", "outlet", d.Outlet, true},
		{"demand", "splitter", d.Splitter, false},
		{"demand", "mixer", d.Mixer, false},
	}
	for _, ref := range s.Outlets {
		checks = append(checks, struct {
			side, what string
			ref        Ref
			required   bool
		}{"supply", "outlet", ref, true})
	}
	for _, ref := range d.Inlets {
		checks = append(checks, struct {
			side, what string
			ref        Ref
			required   bool
		}{"demand", "inlet", ref, true})
	}
	for _, c := range checks {
		if err := check(c.side, c.what, c.ref, c.required); err != nil {
			return err
		}
	}

	for _, id := range l.order {
		c := l.components[id]
		if c.Category != CategoryOutdoorAirMix {
			continue
		}
		if err := check("outdoor-air mixer "+string(id), "outdoor-air node", c.OutdoorAirNode, true); err != nil {
			return err
		}
		if err := check("outdoor-air mixer "+string(id), "relief node", c.ReliefNode, true); err != nil {
			return err
		}
	}
	return nil
}

// canonical is the stable, order-independent form used for hashing.
type canonical struct {
	Name        string       `json:"name"`
	Kind        Kind         `json:"kind"`
	Supply      Supply       `json:"supply"`
	Demand      Demand       `json:"demand"`
	Components  []Component  `json:"components"`
	Connections []Connection `json:"connections"`
}

// Canonical returns a deterministic JSON encoding of the loop, suitable as
// cache-key material. Components and connections are sorted so that two
// loops built in different orders encode identically.
func (l *Loop) Canonical() ([]byte, error) {
	comps := l.Components()
	slices.SortFunc(comps, func(a, b Component) int { return strings.Compare(string(a.ID), string(b.ID)) })
	edges := l.Connections()
	slices.SortFunc(edges, func(a, b Connection) int {
		if c := strings.Compare(string(a.From), string(b.From)); c != 0 {
			return c
		}
		return strings.Compare(string(a.To), string(b.To))
	})
	return json.Marshal(canonical{
		Name:        l.Name,
		Kind:        l.Kind,
		Supply:      l.Supply,
		Demand:      l.Demand,
		Components:  comps,
		Connections: edges,
	})
}

// Hash returns a stable content hash of the loop: the hex SHA-256 of
// [Loop.Canonical].
func (l *Loop) Hash() (string, error) {
	data, err := l.Canonical()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
