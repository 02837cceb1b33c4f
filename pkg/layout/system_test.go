package layout

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/loopgrid/pkg/errors"
	"github.com/matzehuels/loopgrid/pkg/grid"
	"github.com/matzehuels/loopgrid/pkg/topology"
	"github.com/matzehuels/loopgrid/pkg/topology/topologytest"
)

func fixtures() map[string]func() *topology.Loop {
	return map[string]func() *topology.Loop{
		"series":        topologytest.Series,
		"chilled water": topologytest.ChilledWater,
		"vav":           topologytest.VAV,
		"dual duct":     topologytest.DualDuct,
	}
}

func TestComposeFixtures(t *testing.T) {
	for name, loop := range fixtures() {
		for _, dz := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/dropzones=%v", name, dz), func(t *testing.T) {
				sys := mustCompose(t, loop(), WithDropZones(dz))

				sw, dw := sys.Supply().Extent().Width, sys.Demand().Extent().Width
				if sw != dw {
					t.Errorf("supply width %d != demand width %d", sw, dw)
				}
				if sys.Extent().Width != sw {
					t.Errorf("system width %d, side width %d", sys.Extent().Width, sw)
				}
				if sys.Supply().Padding() > 0 && sys.Demand().Padding() > 0 {
					t.Error("both sides padded")
				}
				if got := sys.Center().Size(); got.Height != 1 || got.Width != sw {
					t.Errorf("center strip = %+v", got)
				}
				want := sys.Supply().Extent().Height + 1 + sys.Demand().Extent().Height
				if sys.Extent().Height != want {
					t.Errorf("system height %d, want %d", sys.Extent().Height, want)
				}
				if len(sys.Diagnostics()) != 0 {
					t.Errorf("Diagnostics() = %v", sys.Diagnostics())
				}
			})
		}
	}
}

func TestComposeVAV(t *testing.T) {
	sys := mustCompose(t, topologytest.VAV())

	if got, want := sys.Extent(), (grid.Extent{Width: 10, Height: 14}); got != want {
		t.Errorf("Extent() = %+v, want %+v", got, want)
	}
	if got := sys.Supply().Padding(); got != 4 {
		t.Errorf("supply Padding() = %d, want 4", got)
	}
	if sys.Name() != "VAV Air Loop" || sys.Kind() != topology.KindAir {
		t.Errorf("Name(), Kind() = %q, %q", sys.Name(), sys.Kind())
	}
}

func TestComposeDualDuct(t *testing.T) {
	sys := mustCompose(t, topologytest.DualDuct())

	if !sys.Supply().Dual() || !sys.Demand().Dual() {
		t.Fatal("sides are not dual")
	}
	if got := sys.Supply().Padding(); got != 3 {
		t.Errorf("supply Padding() = %d, want 3", got)
	}
	if got, want := sys.Extent(), (grid.Extent{Width: 10, Height: 9}); got != want {
		t.Errorf("Extent() = %+v, want %+v", got, want)
	}
	if _, ok := sys.Supply().Outlet(); ok {
		t.Error("dual duct supply has an outlet run")
	}
	if !sys.Supply().Inlet().HasDualOutlet() {
		t.Error("supply inlet run not marked dual")
	}

	// The top branch carries the cold deck and reaches the far outlet column.
	var cold, hot grid.Placement
	for _, p := range grid.Flatten(sys.Cell()) {
		switch p.Component {
		case "s-out-cold":
			cold = p
		case "s-out-hot":
			hot = p
		}
	}
	if cold.Abs.Col <= hot.Abs.Col {
		t.Errorf("s-out-cold at col %d, s-out-hot at col %d", cold.Abs.Col, hot.Abs.Col)
	}
	if cold.Abs.Row != hot.Abs.Row {
		t.Errorf("outlet nodes on rows %d and %d", cold.Abs.Row, hot.Abs.Row)
	}
}

func TestComposeDeterministic(t *testing.T) {
	for name, loop := range fixtures() {
		t.Run(name, func(t *testing.T) {
			a := mustCompose(t, loop(), WithDropZones(true))
			b := mustCompose(t, loop(), WithDropZones(true))
			if diff := cmp.Diff(grid.Flatten(a.Cell()), grid.Flatten(b.Cell())); diff != "" {
				t.Errorf("compose not deterministic (-first +second):\n%s", diff)
			}

			before := grid.Flatten(a.Cell())
			a.Relayout()
			a.Relayout()
			if diff := cmp.Diff(before, grid.Flatten(a.Cell())); diff != "" {
				t.Errorf("relayout not idempotent (-before +after):\n%s", diff)
			}
		})
	}
}

func TestEndNodesFaceCenter(t *testing.T) {
	for name, loop := range fixtures() {
		t.Run(name, func(t *testing.T) {
			sys := mustCompose(t, loop())
			center := sys.Center().Pos().Row
			for _, p := range grid.Flatten(sys.Cell()) {
				locs := sys.Locate(p.Component)
				if len(locs) == 0 || locs[0].Part != PartNode {
					continue
				}
				switch locs[0].Role {
				case Supply:
					if p.Abs.Row != center-1 {
						t.Errorf("supply node %s on row %d, want %d", p.Component, p.Abs.Row, center-1)
					}
				case Demand:
					if p.Abs.Row != center+1 {
						t.Errorf("demand node %s on row %d, want %d", p.Component, p.Abs.Row, center+1)
					}
				}
			}
		})
	}
}

func TestLocate(t *testing.T) {
	sys := mustCompose(t, topologytest.VAV())

	tests := []struct {
		ref  topology.Ref
		want []Location
	}{
		{"s-in", []Location{{Role: Supply, Part: PartNode, Branch: -1}}},
		{"d-out", []Location{{Role: Demand, Part: PartNode, Branch: -1}}},
		{"cooling-coil", []Location{{Role: Supply, Part: PartInletRun, Branch: -1}}},
		{"hx", []Location{{Role: Supply, Part: PartOutdoorAir, Branch: -1}}},
		{"oa-mixer", []Location{{Role: Supply, Part: PartOutdoorAir, Branch: -1}}},
		{"d-split", []Location{{Role: Demand, Part: PartSplitter, Branch: -1}}},
		{"d-mix", []Location{{Role: Demand, Part: PartMixer, Branch: -1}}},
		{"zone-1", []Location{{Role: Demand, Part: PartBranch, Branch: 0}}},
		{"zone-3", []Location{{Role: Demand, Part: PartBranch, Branch: 2, Plenum: "plenum"}}},
		{"plenum", []Location{
			{Role: Demand, Part: PartBranch, Branch: 2, Plenum: "plenum"},
			{Role: Demand, Part: PartBranch, Branch: 3, Plenum: "plenum"},
		}},
		{"missing", nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.ref), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, sys.Locate(tt.ref)); diff != "" {
				t.Errorf("Locate(%s) mismatch (-want +got):\n%s", tt.ref, diff)
			}
		})
	}
}

func TestComposeDiagnostics(t *testing.T) {
	l := topologytest.NewBuilder("open demand", topology.KindPlant).
		Add(topology.CategoryNode, "s-in", "s-out", "d-in", "d-out").
		Add(topology.CategoryStraight, "pump", "coil").
		Chain("s-in", "pump", "s-out").
		Chain("d-in", "coil").
		Supply("s-in", "", "", "s-out").
		Demand("d-out", "", "", "d-in").
		Loop()

	sys := mustCompose(t, l)
	diags := sys.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("Diagnostics() = %v, want one", diags)
	}
	if !errs.Is(diags[0], errs.ErrCodeMalformedTopology) {
		t.Errorf("diagnostic code = %s, want %s", errs.GetCode(diags[0]), errs.ErrCodeMalformedTopology)
	}
	if !sys.Demand().Inlet().IsEmpty() {
		t.Error("unreachable demand run is not empty")
	}
}

func TestComposeDeletable(t *testing.T) {
	sys := mustCompose(t, topologytest.ChilledWater())
	grid.Walk(sys.Cell(), func(c *grid.Cell, _ grid.Point, _ int, _ string) bool {
		ref, ok := c.Component()
		if !ok {
			return true
		}
		wantDeletable := ref != "s-in" && ref != "s-out" && ref != "d-in" && ref != "d-out"
		if c.Deletable() != wantDeletable {
			t.Errorf("%s Deletable() = %v, want %v", ref, c.Deletable(), wantDeletable)
		}
		return true
	})
}

func TestComposeDualDuctPlaceholder(t *testing.T) {
	base := func() *topologytest.Builder {
		return topologytest.NewBuilder("broken dual duct", topology.KindAir).
			Add(topology.CategoryNode, "s-in", "s-out-hot", "s-out-cold", "d-in", "d-out").
			Add(topology.CategoryStraight, "fan", "dead").
			Add(topology.CategoryWaterToAir, "heating-coil").
			Add(topology.CategorySplitter, "s-split").
			Chain("s-in", "fan", "s-split").
			Chain("d-in", "d-out")
	}
	tests := []struct {
		name string
		loop func() *topology.Loop
	}{
		{
			name: "dead end deck",
			loop: func() *topology.Loop {
				return base().
					Chain("s-split", "heating-coil", "s-out-hot").
					Chain("s-split", "dead").
					Supply("s-in", "s-split", "", "s-out-hot", "s-out-cold").
					Demand("d-out", "", "", "d-in").
					Loop()
			},
		},
		{
			name: "splitter without outlets",
			loop: func() *topology.Loop {
				return base().
					Supply("s-in", "s-split", "", "s-out-hot", "s-out-cold").
					Demand("d-out", "", "", "d-in").
					Loop()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := mustCompose(t, tt.loop())

			g, ok := sys.Supply().Group()
			if !ok || !g.Placeholder() {
				t.Fatal("supply group is not a placeholder")
			}
			if len(sys.Diagnostics()) == 0 {
				t.Error("Diagnostics() is empty")
			}

			placed := make(map[topology.Ref]grid.Placement)
			for _, p := range grid.Flatten(sys.Cell()) {
				if p.Component != "" {
					placed[p.Component] = p
				}
			}
			for ref := range sys.Index() {
				if _, ok := placed[ref]; !ok {
					t.Errorf("%s is indexed but not in the grid", ref)
				}
			}

			hot, okHot := placed["s-out-hot"]
			cold, okCold := placed["s-out-cold"]
			if !okHot || !okCold {
				t.Fatalf("outlet nodes placed: hot %v, cold %v", okHot, okCold)
			}
			if hot.Abs.Row != cold.Abs.Row {
				t.Errorf("outlet nodes on rows %d and %d", hot.Abs.Row, cold.Abs.Row)
			}
			if hot.Abs.Col == cold.Abs.Col {
				t.Errorf("outlet nodes share col %d", hot.Abs.Col)
			}
		})
	}
}

func TestComposeEndNodeCount(t *testing.T) {
	tests := []struct {
		name    string
		outlets []topology.Ref
		inlets  []topology.Ref
	}{
		{name: "no supply outlets", inlets: []topology.Ref{"d-in"}},
		{name: "no demand inlets", outlets: []topology.Ref{"s-out"}},
		{name: "three supply outlets", outlets: []topology.Ref{"s-out", "s-out", "s-out"}, inlets: []topology.Ref{"d-in"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Left unvalidated so the composer sees the bad counts.
			l := topologytest.NewBuilder("bad ends", topology.KindPlant).
				Add(topology.CategoryNode, "s-in", "s-out", "d-in", "d-out").
				Chain("s-in", "s-out").
				Chain("d-in", "d-out").L
			l.Supply = topology.Supply{Inlet: "s-in", Outlets: tt.outlets}
			l.Demand = topology.Demand{Outlet: "d-out", Inlets: tt.inlets}

			sys, err := Compose(l)
			if err == nil {
				t.Fatalf("Compose() = %v, want error", sys)
			}
			if !errs.Is(err, errs.ErrCodeInvalidTopology) {
				t.Errorf("error code = %s, want %s", errs.GetCode(err), errs.ErrCodeInvalidTopology)
			}
		})
	}
}
