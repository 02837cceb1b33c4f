package sink

import (
	"bytes"
	"strings"

	"github.com/matzehuels/loopgrid/pkg/graph"
)

// TextCols and TextRows are the characters per grid unit in the text
// rendering.
const (
	TextCols = 8
	TextRows = 3
)

// canvas is a character grid with line-joining writes.
type canvas [][]rune

func newCanvas(w, h int) canvas {
	c := make(canvas, h)
	for i := range c {
		c[i] = []rune(strings.Repeat(" ", w))
	}
	return c
}

func (c canvas) set(x, y int, r rune) {
	if y < 0 || y >= len(c) || x < 0 || x >= len(c[y]) {
		return
	}
	switch prev := c[y][x]; {
	case prev == '+':
		return
	case (prev == '-' && r == '|') || (prev == '|' && r == '-'):
		r = '+'
	}
	c[y][x] = r
}

func (c canvas) put(x, y int, r rune) {
	if y >= 0 && y < len(c) && x >= 0 && x < len(c[y]) {
		c[y][x] = r
	}
}

func (c canvas) hline(x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		c.set(x, y, '-')
	}
}

func (c canvas) vline(x, y1, y2 int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		c.set(x, y, '|')
	}
}

func (c canvas) text(x, y int, s string) {
	for i, r := range []rune(s) {
		c.put(x+i, y, r)
	}
}

func (c canvas) String() string {
	var buf bytes.Buffer
	for _, row := range c {
		buf.WriteString(strings.TrimRight(string(row), " "))
		buf.WriteByte('\n')
	}
	return buf.String()
}

// RenderText draws the layout as ASCII art, TextCols by TextRows characters
// per grid unit. Only the labels option applies.
func RenderText(l graph.Layout, opts ...Option) []byte {
	o := newOptions(opts...)
	cv := newCanvas(l.Width*TextCols, l.Height*TextRows)

	for _, c := range l.Cells {
		if !carriesFlow(c) {
			continue
		}
		x0, y0 := c.X*TextCols, c.Y*TextRows
		x1, y1 := x0+c.Width*TextCols-1, y0+c.Height*TextRows-1
		cx, cy := x0+c.Width*TextCols/2, y0+c.Height*TextRows/2
		if c.HasPort('L') {
			cv.hline(x0, cx, cy)
		}
		if c.HasPort('R') {
			cv.hline(cx, x1, cy)
		}
		if c.HasPort('T') {
			cv.vline(cx, y0, cy)
		}
		if c.HasPort('B') {
			cv.vline(cx, cy, y1)
		}
	}

	for _, c := range l.Cells {
		if !c.IsLeaf() || !drawable(c) {
			continue
		}
		x0, y0 := c.X*TextCols+1, c.Y*TextRows
		x1, y1 := (c.X+c.Width)*TextCols-2, (c.Y+c.Height)*TextRows-1
		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				cv.put(x, y, ' ')
			}
		}
		for x := x0; x <= x1; x++ {
			cv.put(x, y0, '-')
			cv.put(x, y1, '-')
		}
		for y := y0; y <= y1; y++ {
			cv.put(x0, y, '|')
			cv.put(x1, y, '|')
		}
		for _, p := range [][2]int{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
			cv.put(p[0], p[1], '+')
		}
		if o.labels {
			inner := x1 - x0 - 1
			label := truncate(c.DisplayLabel(), inner)
			if n := len([]rune(label)); n <= inner {
				cv.text(x0+1+(inner-n)/2, (y0+y1)/2, label)
			}
		}
	}
	return []byte(cv.String())
}
