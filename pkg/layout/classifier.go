package layout

import (
	errs "github.com/matzehuels/loopgrid/pkg/errors"
	"github.com/matzehuels/loopgrid/pkg/grid"
	"github.com/matzehuels/loopgrid/pkg/topology"
)

// Connector and padding shape names.
const (
	ShapePadding     = "padding"
	ShapeSpacer      = "spacer"
	ShapeElbow       = "elbow"        // ports name the two edges joined
	ShapeRiser       = "riser"        // vertical pipe run
	ShapeCenterStrip = "center-strip" // separator between supply and demand
	ShapeDualTee     = "dual-tee"     // second dual-duct end node branching off the first
)

// Classify returns the leaf shape for a component category laid out along
// axis. Unknown categories fail with an UNSUPPORTED_COMPONENT_KIND error.
func Classify(c topology.Category, axis grid.Axis) (grid.Shape, error) {
	flow := grid.PortLeft | grid.PortRight
	if axis == grid.Vertical {
		flow = grid.PortTop | grid.PortBottom
	}
	unit := grid.Extent{Width: 1, Height: 1}

	switch c {
	case topology.CategoryNode, topology.CategoryStraight,
		topology.CategoryWaterToAir, topology.CategoryWaterToWater:
		return grid.Shape{Name: string(c), Size: unit, Ports: flow}, nil
	case topology.CategoryAirToAir:
		return grid.Shape{Name: string(c), Size: grid.Extent{Width: 2, Height: 1}, Ports: flow}, nil
	case topology.CategorySplitter, topology.CategoryPlenumSplitter:
		return grid.Shape{Name: string(c), Size: unit, Ports: flow | grid.PortBottom}, nil
	case topology.CategoryMixer, topology.CategoryPlenumMixer:
		return grid.Shape{Name: string(c), Size: unit, Ports: flow | grid.PortBottom}, nil
	case topology.CategoryOutdoorAirMix:
		return grid.Shape{
			Name:  string(c),
			Size:  grid.Extent{Width: 2, Height: 1},
			Ports: grid.PortLeft | grid.PortRight | grid.PortTop,
		}, nil
	}
	return grid.Shape{}, errs.New(errs.ErrCodeUnsupportedKind, "no cell shape for component category %q", c)
}

func paddingShape(axis grid.Axis) grid.Shape {
	ports := grid.PortLeft | grid.PortRight
	if axis == grid.Vertical {
		ports = grid.PortTop | grid.PortBottom
	}
	return grid.Shape{Name: ShapePadding, Size: grid.Extent{Width: 1, Height: 1}, Ports: ports}
}

func connector(name string, ports grid.Port, size grid.Extent) *grid.Cell {
	return grid.NewConnector(grid.Shape{Name: name, Size: grid.Extent{Width: 1, Height: 1}, Ports: ports}, size)
}

func spacer(width int) *grid.Cell {
	return connector(ShapeSpacer, grid.PortLeft|grid.PortRight, grid.Extent{Width: width, Height: 1})
}

func elbow(ports grid.Port) *grid.Cell {
	return connector(ShapeElbow, ports, grid.Extent{Width: 1, Height: 1})
}

func riser(height int) *grid.Cell {
	return connector(ShapeRiser, grid.PortTop|grid.PortBottom, grid.Extent{Width: 1, Height: height})
}
