package sink

import "github.com/matzehuels/loopgrid/pkg/graph"

// RenderJSON returns the layout as indented JSON.
func RenderJSON(l graph.Layout) ([]byte, error) {
	return graph.MarshalLayout(l)
}
