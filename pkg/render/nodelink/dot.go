package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/loopgrid/pkg/graph"
	"github.com/matzehuels/loopgrid/pkg/topology"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes category and zone in node labels and groups
	// zone members into clusters. When false, only the label is shown.
	Detailed bool
}

// ToDOT converts the component graph carried by a layout to Graphviz DOT.
// The output depends only on l.Nodes and l.Edges, which [graph.FromSystem]
// sorts, so it is deterministic.
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if l.Name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", l.Name)
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	var zones []string
	members := make(map[string][]graph.Node)
	for _, n := range l.Nodes {
		if opts.Detailed && n.Zone != "" {
			if _, ok := members[n.Zone]; !ok {
				zones = append(zones, n.Zone)
			}
			members[n.Zone] = append(members[n.Zone], n)
			continue
		}
		writeNode(&buf, n, opts, "  ")
	}
	for i, z := range zones {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n    label=%q;\n    style=dashed;\n", i, z)
		for _, n := range members[z] {
			writeNode(&buf, n, opts, "    ")
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n graph.Node, opts Options, indent string) {
	label := fmtLabel(n, opts.Detailed)
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID, strings.Join(fmtAttrs(n, label), ", "))
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.DisplayLabel()
	}
	parts := []string{n.DisplayLabel(), n.Category}
	if n.Zone != "" {
		parts = append(parts, "zone: "+n.Zone)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n graph.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch topology.Category(n.Category) {
	case topology.CategoryNode:
		attrs = append(attrs, "shape=circle", "fixedsize=false", "fillcolor=lightgrey")
	case topology.CategorySplitter, topology.CategoryMixer:
		attrs = append(attrs, "shape=diamond", "style=filled")
	case topology.CategoryPlenumSplitter, topology.CategoryPlenumMixer:
		attrs = append(attrs, "shape=diamond", "style=\"filled,dashed\"", "fillcolor=\"#e3f2fd\"")
	case topology.CategoryOutdoorAirMix:
		attrs = append(attrs, "shape=house", "style=filled", "fillcolor=\"#fff8e1\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg tag with one whose
// viewBox starts at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
