package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/loopgrid/pkg/graph"
)

const svgCSS = `
    .flow { stroke-width: 3; stroke-linecap: square; }
    .leaf { stroke-width: 2; }
    .leaf.deletable:hover { stroke-width: 4; }
    .drop-zone { stroke-dasharray: 8 6; stroke-width: 1.5; }
    .container { fill: none; stroke-dasharray: 4 4; stroke-width: 1; opacity: 0.5; }
    .label { font-family: Helvetica, Arial, sans-serif; text-anchor: middle; dominant-baseline: central; }`

// leafInset is the gap between a leaf outline and its cell, as a fraction
// of the unit.
const leafInset = 0.12

// RenderSVG draws the layout as an SVG document.
func RenderSVG(l graph.Layout, opts ...Option) []byte {
	o := newOptions(opts...)
	plenums := o.palette.Assign(l)
	w, h := float64(l.Width)*o.unit, float64(l.Height)*o.unit

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgCSS)
	if l.Name != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(l.Name))
	}

	for _, c := range dropZones(l) {
		r := cellRect(c, o.unit)
		fmt.Fprintf(&buf, `  <rect class="drop-zone" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s"/>`+"\n",
			r.X, r.Y, r.W, r.H, o.palette.Drop, o.palette.Line)
	}
	if o.containers {
		renderContainers(&buf, l, o)
	}
	renderFlow(&buf, l, o)
	renderLeaves(&buf, l, o, plenums)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderContainers(buf *bytes.Buffer, l graph.Layout, o options) {
	for _, c := range l.Cells {
		if !c.IsContainer() || !drawable(c) || c.Kind == graph.KindSystem {
			continue
		}
		r := cellRect(c, o.unit)
		fmt.Fprintf(buf, `  <rect class="container %s" data-path="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" stroke="%s"/>`+"\n",
			c.Kind, c.Path, r.X, r.Y, r.W, r.H, o.palette.Line)
	}
}

func renderFlow(buf *bytes.Buffer, l graph.Layout, o options) {
	fmt.Fprintf(buf, `  <g class="flow" stroke="%s">`+"\n", o.palette.Line)
	for _, c := range l.Cells {
		if !carriesFlow(c) {
			continue
		}
		for _, s := range flowLines(c, o.unit) {
			fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", s.X1, s.Y1, s.X2, s.Y2)
		}
	}
	buf.WriteString("  </g>\n")
}

func renderLeaves(buf *bytes.Buffer, l graph.Layout, o options, plenums map[string]string) {
	for _, c := range l.Cells {
		if !c.IsLeaf() || !drawable(c) {
			continue
		}
		r := cellRect(c, o.unit).inset(o.unit * leafInset)
		class := "leaf " + c.Category
		if c.Deletable {
			class += " deletable"
		}
		fmt.Fprintf(buf, `  <rect id="cell-%s" class="%s" data-path="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s">`,
			escapeXML(c.Component), class, c.Path, r.X, r.Y, r.W, r.H, o.unit*0.08, o.palette.fill(c, plenums), o.palette.Line)
		fmt.Fprintf(buf, "<title>%s</title></rect>\n", escapeXML(c.DisplayLabel()))

		if !o.labels {
			continue
		}
		label := c.DisplayLabel()
		size := fontSizeFor(r.W, r.H, len([]rune(label)))
		label = truncate(label, int(r.W*fontWidthRatio/(size*fontCharWidth)))
		cx, cy := r.center()
		fmt.Fprintf(buf, `  <text class="label" x="%.1f" y="%.1f" font-size="%.1f">%s</text>`+"\n",
			cx, cy, size, escapeXML(label))
	}
}
