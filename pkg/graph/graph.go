package graph

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/loopgrid/pkg/grid"
	"github.com/matzehuels/loopgrid/pkg/layout"
	"github.com/matzehuels/loopgrid/pkg/topology"
)

// Source is the loop a system was composed from.
type Source interface {
	layout.Topology
	Components() []topology.Component
	Connections() []topology.Connection
}

// =============================================================================
// System → Layout Conversion
// =============================================================================

// FromSystem flattens a composed system into its serialization format.
// Each leaf is annotated with its label, category and location; a component
// drawn on several branches (a shared plenum) gets the location of the
// branch it sits on.
func FromSystem(sys *layout.System, src Source) Layout {
	out := Layout{
		Version: FormatVersion,
		Name:    sys.Name(),
		Kind:    string(sys.Kind()),
		Width:   sys.Extent().Width,
		Height:  sys.Extent().Height,
	}

	branchOf := map[string]int{}
	grid.Walk(sys.Cell(), func(c *grid.Cell, abs grid.Point, depth int, path string) bool {
		cell := Cell{
			Path:   path,
			Depth:  depth,
			Kind:   c.Kind().String(),
			Shape:  c.Shape().Name,
			X:      abs.Col,
			Y:      abs.Row,
			Width:  c.Size().Width,
			Height: c.Size().Height,
			Hidden: c.Hidden(),
		}
		cell.Deletable = c.Deletable()
		if c.Kind() == grid.KindLeaf || c.Kind() == grid.KindConnector || c.Kind() == grid.KindPadding {
			cell.Ports = c.Shape().Ports.String()
		}
		if c.Kind() == grid.KindBranchGroup {
			for i := range c.Children() {
				branchOf[path+"/"+strconv.Itoa(i)] = i
			}
		}
		if info, ok := c.Branch(); ok {
			cell.Padding = info.Padding
			cell.DropZone = info.DropZone
			cell.DropTarget = string(info.DropTarget)
			cell.DualOutlet = info.DualOutlet
		}
		if ref, ok := c.Component(); ok {
			annotate(&cell, sys, src, ref, enclosingBranch(branchOf, path))
		}
		out.Cells = append(out.Cells, cell)
		return true
	})

	for _, comp := range src.Components() {
		out.Nodes = append(out.Nodes, Node{
			ID:       string(comp.ID),
			Label:    labelOf(comp),
			Category: string(comp.Category),
			Zone:     comp.Zone,
		})
	}
	slices.SortFunc(out.Nodes, func(a, b Node) int { return strings.Compare(a.ID, b.ID) })

	for _, e := range src.Connections() {
		out.Edges = append(out.Edges, Edge{From: string(e.From), To: string(e.To)})
	}
	slices.SortFunc(out.Edges, func(a, b Edge) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})

	for _, d := range sys.Diagnostics() {
		out.Diagnostics = append(out.Diagnostics, d.Error())
	}
	return out
}

// DiagnosticsError joins a layout's diagnostics into one error, or returns
// nil when there are none.
func (l *Layout) DiagnosticsError() error {
	errs := make([]error, len(l.Diagnostics))
	for i, d := range l.Diagnostics {
		errs[i] = errors.New(d)
	}
	return errors.Join(errs...)
}

func annotate(cell *Cell, sys *layout.System, src Source, ref topology.Ref, branch int) {
	cell.Component = string(ref)
	cell.Label = src.ComponentName(ref)
	cell.Category = string(src.Category(ref))
	if z, ok := src.ZoneName(ref); ok {
		cell.Zone = z
	}

	locs := sys.Locate(ref)
	if len(locs) == 0 {
		return
	}
	loc := locs[0]
	for _, l := range locs {
		if l.Part == layout.PartBranch && l.Branch == branch {
			loc = l
			break
		}
	}
	cell.Role = loc.Role.String()
	cell.Part = loc.Part.String()
	cell.Plenum = string(loc.Plenum)
	if loc.Part == layout.PartBranch {
		b := loc.Branch
		cell.Branch = &b
	}
}

// enclosingBranch returns the group branch index of the deepest branch
// containing path, or -1.
func enclosingBranch(branchOf map[string]int, path string) int {
	for p := path; p != ""; {
		if i, ok := branchOf[p]; ok {
			return i
		}
		cut := strings.LastIndexByte(p, '/')
		if cut < 0 {
			break
		}
		p = p[:cut]
	}
	return -1
}

func labelOf(c topology.Component) string {
	if c.Name == "" || c.Name == string(c.ID) {
		return ""
	}
	return c.Name
}
