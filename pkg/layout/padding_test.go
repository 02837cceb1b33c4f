package layout

import (
	"testing"

	"github.com/matzehuels/loopgrid/pkg/grid"
)

func TestAlign(t *testing.T) {
	l, refs := straights(5)
	b := NewBuilder(l)

	branches := []*Branch{
		mustBuild(t, b, refs[:2], grid.Horizontal),
		mustBuild(t, b, refs[:5], grid.Horizontal),
		mustBuild(t, b, refs[:3], grid.Horizontal),
	}
	Align(branches...)

	wantPad := []int{3, 0, 2}
	for i, br := range branches {
		if br.PaddingCount() != wantPad[i] {
			t.Errorf("branch %d PaddingCount() = %d, want %d", i, br.PaddingCount(), wantPad[i])
		}
		if br.Length() != 5 || br.Extent().Width != 5 {
			t.Errorf("branch %d Length() = %d, Width = %d, want 5", i, br.Length(), br.Extent().Width)
		}
	}

	Align(branches...)
	for i, br := range branches {
		if br.PaddingCount() != wantPad[i] {
			t.Errorf("after second Align, branch %d PaddingCount() = %d, want %d", i, br.PaddingCount(), wantPad[i])
		}
	}
}

func TestAlignEqualLengths(t *testing.T) {
	l, refs := straights(2)
	b := NewBuilder(l)
	x, y := mustBuild(t, b, refs, grid.Horizontal), mustBuild(t, b, refs, grid.Horizontal)
	Align(x, y)
	if x.PaddingCount() != 0 || y.PaddingCount() != 0 {
		t.Errorf("PaddingCount() = %d, %d, want 0, 0", x.PaddingCount(), y.PaddingCount())
	}
}

func TestAlignDropZone(t *testing.T) {
	l, refs := straights(3)
	b := NewBuilder(l)
	full := mustBuild(t, b, refs, grid.Horizontal)
	dz := mustBuild(t, b, nil, grid.Horizontal)
	dz.dropZone = true

	Align(full, dz)
	if dz.Extent().Width != 3 {
		t.Fatalf("drop zone Width = %d, want 3", dz.Extent().Width)
	}
	for _, c := range dz.Cell().Children() {
		if !c.Hidden() {
			t.Errorf("drop zone padding at %+v is visible", c.Pos())
		}
	}
}
