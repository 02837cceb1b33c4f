package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/loopgrid/pkg/topology"
)

// ErrInvariant is returned by [Validate] when a tree breaks a layout invariant.
var ErrInvariant = errors.New("layout invariant violated")

// Visitor is called for every cell during [Walk] with the cell's absolute
// position, its depth and its path (child indices from the root, joined by
// "/"). Returning false skips the cell's children.
type Visitor func(c *Cell, abs Point, depth int, path string) bool

// Walk visits root and its descendants in pre-order.
func Walk(root *Cell, fn Visitor) {
	if root == nil {
		return
	}
	walk(root, Point{}, 0, "0", fn)
}

func walk(c *Cell, origin Point, depth int, path string, fn Visitor) {
	abs := origin.Add(c.pos)
	if !fn(c, abs, depth, path) {
		return
	}
	for i, ch := range c.children {
		walk(ch, abs, depth+1, path+"/"+strconv.Itoa(i), fn)
	}
}

// Placement is a flattened cell with absolute coordinates.
type Placement struct {
	Path      string
	Depth     int
	Kind      Kind
	Shape     string
	Component topology.Ref
	Abs       Point
	Pos       Point
	Size      Extent
	Hidden    bool
}

// Flatten returns every cell in pre-order with absolute coordinates.
func Flatten(root *Cell) []Placement {
	var out []Placement
	Walk(root, func(c *Cell, abs Point, depth int, path string) bool {
		out = append(out, Placement{
			Path:      path,
			Depth:     depth,
			Kind:      c.kind,
			Shape:     c.shape.Name,
			Component: c.ref,
			Abs:       abs,
			Pos:       c.pos,
			Size:      c.size,
			Hidden:    c.hidden,
		})
		return true
	})
	return out
}

// Validate checks the containment and non-overlap invariants over the whole
// tree and reports every violation found.
func Validate(root *Cell) error {
	var problems []string
	Walk(root, func(c *Cell, _ Point, _ int, path string) bool {
		problems = append(problems, check(c, path)...)
		return true
	})
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvariant, strings.Join(problems, "; "))
}

func check(c *Cell, path string) []string {
	var out []string
	if c.pos.Col < 0 || c.pos.Row < 0 || c.size.Width < 0 || c.size.Height < 0 {
		out = append(out, fmt.Sprintf("%s: negative geometry %+v %+v", path, c.pos, c.size))
	}

	if !c.kind.IsContainer() {
		if c.size.Width < 1 || c.size.Height < 1 {
			out = append(out, fmt.Sprintf("%s: %s smaller than 1x1", path, c.kind))
		}
		return out
	}

	if len(c.children) == 0 {
		return out
	}
	if b := Bounds(c.children); b != c.size {
		out = append(out, fmt.Sprintf("%s: %s extent %+v, children span %+v", path, c.kind, c.size, b))
	}
	minCol, minRow := c.children[0].pos.Col, c.children[0].pos.Row
	for _, ch := range c.children[1:] {
		minCol = min(minCol, ch.pos.Col)
		minRow = min(minRow, ch.pos.Row)
	}
	if minCol != 0 || minRow != 0 {
		out = append(out, fmt.Sprintf("%s: %s children start at (%d,%d)", path, c.kind, minCol, minRow))
	}

	for i, a := range c.children {
		for j := i + 1; j < len(c.children); j++ {
			if overlaps(a, c.children[j]) {
				out = append(out, fmt.Sprintf("%s: children %d and %d overlap", path, i, j))
			}
		}
	}
	return out
}

func overlaps(a, b *Cell) bool {
	if a.size.Area() == 0 || b.size.Area() == 0 {
		return false
	}
	return a.pos.Col < b.pos.Col+b.size.Width && b.pos.Col < a.pos.Col+a.size.Width &&
		a.pos.Row < b.pos.Row+b.size.Height && b.pos.Row < a.pos.Row+a.size.Height
}
