package nodelink_test

import (
	"fmt"

	"github.com/matzehuels/loopgrid/pkg/graph"
	"github.com/matzehuels/loopgrid/pkg/render/nodelink"
)

func ExampleToDOT() {
	l := graph.Layout{
		Nodes: []graph.Node{
			{ID: "boiler", Category: "water-to-water"},
			{ID: "pump", Category: "straight"},
		},
		Edges: []graph.Edge{{From: "pump", To: "boiler"}},
	}

	fmt.Print(nodelink.ToDOT(l, nodelink.Options{}))
	// Output:
	// digraph G {
	//   rankdir=LR;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
	//   ranksep=0.4;
	//   nodesep=0.25;
	//
	//   "boiler" [label="boiler"];
	//   "pump" [label="pump"];
	//
	//   "pump" -> "boiler";
	// }
}
