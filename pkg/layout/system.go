package layout

import (
	"slices"

	"github.com/matzehuels/loopgrid/pkg/grid"
	"github.com/matzehuels/loopgrid/pkg/topology"
)

// Option configures a Composer.
type Option func(*options)

type options struct {
	dropZones bool
}

// WithDropZones appends an empty "drop new branch here" branch to every
// splitter/mixer group.
func WithDropZones(on bool) Option {
	return func(o *options) { o.dropZones = on }
}

// Composer builds cell trees for one loop.
type Composer struct {
	loop    Loop
	opts    options
	builder *Builder
	air     *Builder
	diags   []error
}

// NewComposer returns a Composer for l.
func NewComposer(l Loop, opts ...Option) *Composer {
	c := &Composer{loop: l}
	for _, opt := range opts {
		opt(&c.opts)
	}
	c.builder = NewBuilder(l)
	c.builder.report = c.malformed
	c.air = c.builder.WithOutdoorAir()
	return c
}

// Compose builds and lays out the whole loop.
func Compose(l Loop, opts ...Option) (*System, error) {
	return NewComposer(l, opts...).Compose()
}

func (c *Composer) malformed(err error) {
	c.diags = append(c.diags, err)
}

// Compose builds the supply side, the demand side and the center strip,
// balances the sides' widths and lays the tree out.
func (c *Composer) Compose() (*System, error) {
	c.diags = nil

	supply, err := c.ComposeSupply()
	if err != nil {
		return nil, err
	}
	demand, err := c.ComposeDemand()
	if err != nil {
		return nil, err
	}

	s := &System{
		name:   c.loop.LoopName(),
		kind:   c.loop.LoopKind(),
		cell:   grid.NewContainer(grid.KindSystem),
		supply: supply,
		demand: demand,
		diags:  slices.Clone(c.diags),
	}
	s.Relayout()
	s.index = buildIndex(s, c.loop)
	return s, nil
}

// System is the root of a loop's cell tree.
type System struct {
	name   string
	kind   topology.Kind
	cell   *grid.Cell
	supply *Side
	demand *Side
	center *grid.Cell
	index  map[topology.Ref][]Location
	diags  []error
}

// Name returns the loop name.
func (s *System) Name() string { return s.name }

// Kind returns the loop's medium.
func (s *System) Kind() topology.Kind { return s.kind }

// Cell returns the root cell.
func (s *System) Cell() *grid.Cell { return s.cell }

// Extent returns the system's overall extent.
func (s *System) Extent() grid.Extent { return s.cell.Size() }

// Supply returns the supply side.
func (s *System) Supply() *Side { return s.supply }

// Demand returns the demand side.
func (s *System) Demand() *Side { return s.demand }

// Center returns the strip between the sides.
func (s *System) Center() *grid.Cell { return s.center }

// Diagnostics returns the MALFORMED_TOPOLOGY errors recovered while
// composing.
func (s *System) Diagnostics() []error { return s.diags }

// Relayout balances the two sides and stacks supply, center strip and
// demand. The narrower side is padded by the width difference.
func (s *System) Relayout() {
	s.supply.padding, s.demand.padding = 0, 0
	s.supply.Relayout()
	s.demand.Relayout()

	sw, dw := s.supply.Extent().Width, s.demand.Extent().Width
	switch {
	case sw > dw:
		s.demand.SetPadding(sw - dw)
	case dw > sw:
		s.supply.SetPadding(dw - sw)
	}

	width := max(sw, dw)
	sh := s.supply.Extent().Height
	s.center = connector(ShapeCenterStrip, 0, grid.Extent{Width: width, Height: 1})

	s.supply.Cell().SetPos(0, 0)
	s.center.SetPos(0, sh)
	s.demand.Cell().SetPos(0, sh+1)
	s.cell.SetChildren(s.supply.Cell(), s.center, s.demand.Cell())
	s.cell.Fit()
}
