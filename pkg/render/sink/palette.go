package sink

import (
	"strconv"

	"github.com/matzehuels/loopgrid/pkg/graph"
)

// Palette holds the fill colours for plenum members, as "#rrggbb".
type Palette struct {
	Plenums []string // Cycled when a loop has more plenums than colours
	Leaf    string   // Fill for leaves outside any plenum
	Line    string   // Stroke for outlines and flow lines
	Drop    string   // Fill for drop-zone branches
}

// DefaultPalette returns the built-in colours.
func DefaultPalette() Palette {
	return Palette{
		Plenums: []string{"#a5d6a7", "#90caf9", "#ffcc80", "#ce93d8", "#80deea", "#ef9a9a", "#fff59d", "#bcaaa4"},
		Leaf:    "#ffffff",
		Line:    "#37474f",
		Drop:    "#eceff1",
	}
}

// Assign maps every plenum ref in l to its fill colour.
func (p Palette) Assign(l graph.Layout) map[string]string {
	out := make(map[string]string)
	if len(p.Plenums) == 0 {
		return out
	}
	for _, c := range l.Cells {
		if c.Plenum == "" {
			continue
		}
		if _, ok := out[c.Plenum]; !ok {
			out[c.Plenum] = p.Plenums[len(out)%len(p.Plenums)]
		}
	}
	return out
}

// fill returns the fill colour for a leaf.
func (p Palette) fill(c graph.Cell, plenums map[string]string) string {
	if col, ok := plenums[c.Plenum]; ok {
		return col
	}
	return p.Leaf
}

// rgb parses a "#rrggbb" colour. Malformed colours come back black.
func rgb(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
