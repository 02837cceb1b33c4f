package layout

import (
	"fmt"
	"testing"

	"github.com/matzehuels/loopgrid/pkg/grid"
	"github.com/matzehuels/loopgrid/pkg/topology"
	"github.com/matzehuels/loopgrid/pkg/topology/topologytest"
)

// straights returns a loop holding n straight components s0..s(n-1) and
// their refs. Only the component table is used.
func straights(n int) (*topology.Loop, []topology.Ref) {
	b := topologytest.NewBuilder("straights", topology.KindPlant)
	refs := make([]topology.Ref, n)
	for i := range n {
		id := fmt.Sprintf("s%d", i)
		b.Add(topology.CategoryStraight, id)
		refs[i] = topology.Ref(id)
	}
	return b.L, refs
}

func mustBuild(t *testing.T, b *Builder, refs []topology.Ref, axis grid.Axis) *Branch {
	t.Helper()
	br, err := b.Build(refs, axis)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return br
}

func mustCompose(t *testing.T, l Loop, opts ...Option) *System {
	t.Helper()
	sys, err := Compose(l, opts...)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if err := grid.Validate(sys.Cell()); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	return sys
}

func componentsOf(b *Branch) []topology.Ref {
	var out []topology.Ref
	for _, it := range b.Items() {
		if ref, ok := it.Component(); ok {
			out = append(out, ref)
		}
	}
	return out
}
