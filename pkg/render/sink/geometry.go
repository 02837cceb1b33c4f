package sink

import "github.com/matzehuels/loopgrid/pkg/graph"

// rect is a cell's box in output units, origin top-left.
type rect struct{ X, Y, W, H float64 }

func cellRect(c graph.Cell, unit float64) rect {
	return rect{
		X: float64(c.X) * unit,
		Y: float64(c.Y) * unit,
		W: float64(c.Width) * unit,
		H: float64(c.Height) * unit,
	}
}

func (r rect) center() (float64, float64) { return r.X + r.W/2, r.Y + r.H/2 }

// inset shrinks r by d on every side.
func (r rect) inset(d float64) rect {
	return rect{X: r.X + d, Y: r.Y + d, W: max(0, r.W-2*d), H: max(0, r.H-2*d)}
}

type segment struct{ X1, Y1, X2, Y2 float64 }

// flowLines returns the segments from the centre of c to each port edge.
func flowLines(c graph.Cell, unit float64) []segment {
	r := cellRect(c, unit)
	cx, cy := r.center()
	var out []segment
	if c.HasPort('L') {
		out = append(out, segment{cx, cy, r.X, cy})
	}
	if c.HasPort('R') {
		out = append(out, segment{cx, cy, r.X + r.W, cy})
	}
	if c.HasPort('T') {
		out = append(out, segment{cx, cy, cx, r.Y})
	}
	if c.HasPort('B') {
		out = append(out, segment{cx, cy, cx, r.Y + r.H})
	}
	return out
}

// drawable reports whether c takes part in drawing at all.
func drawable(c graph.Cell) bool {
	return !c.Hidden && c.Width > 0 && c.Height > 0
}

// carriesFlow reports whether c draws flow lines.
func carriesFlow(c graph.Cell) bool {
	return drawable(c) && !c.IsContainer() && c.Ports != ""
}

// dropZones returns the visible drop-zone branch cells.
func dropZones(l graph.Layout) []graph.Cell {
	var out []graph.Cell
	for _, c := range l.Cells {
		if c.DropZone && drawable(c) {
			out = append(out, c)
		}
	}
	return out
}
