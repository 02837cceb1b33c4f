package sink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/loopgrid/pkg/graph"
	"github.com/matzehuels/loopgrid/pkg/layout"
	"github.com/matzehuels/loopgrid/pkg/topology"
	"github.com/matzehuels/loopgrid/pkg/topology/topologytest"
)

func compose(t *testing.T, l *topology.Loop, opts ...layout.Option) graph.Layout {
	t.Helper()
	sys, err := layout.Compose(l, opts...)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	return graph.FromSystem(sys, l)
}

func TestPaletteAssign(t *testing.T) {
	l := compose(t, topologytest.VAV())

	p := DefaultPalette()
	got := p.Assign(l)
	if got["plenum"] != p.Plenums[0] {
		t.Errorf("Assign()[plenum] = %q, want %q", got["plenum"], p.Plenums[0])
	}

	empty := Palette{}.Assign(l)
	if len(empty) != 0 {
		t.Errorf("Assign() with no colours = %v, want empty", empty)
	}

	plain := compose(t, topologytest.Series())
	if got := p.Assign(plain); len(got) != 0 {
		t.Errorf("Assign() on loop without plenums = %v", got)
	}
}

func TestRGB(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b int
	}{
		{"#ffffff", 255, 255, 255},
		{"#37474f", 0x37, 0x47, 0x4f},
		{"ffffff", 0, 0, 0},
		{"#zzzzzz", 0, 0, 0},
		{"", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, g, b := rgb(tt.in)
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("rgb(%q) = %d,%d,%d, want %d,%d,%d", tt.in, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestFlowLines(t *testing.T) {
	tests := []struct {
		ports string
		want  []segment
	}{
		{"LR", []segment{{50, 150, 0, 150}, {50, 150, 100, 150}}},
		{"TB", []segment{{50, 150, 50, 100}, {50, 150, 50, 200}}},
		{"RB", []segment{{50, 150, 100, 150}, {50, 150, 50, 200}}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.ports, func(t *testing.T) {
			c := graph.Cell{Kind: graph.KindConnector, X: 0, Y: 1, Width: 1, Height: 1, Ports: tt.ports}
			got := flowLines(c, 100)
			if len(got) != len(tt.want) {
				t.Fatalf("flowLines() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"pump", 4, "pump"},
		{"boiler", 4, "bo.."},
		{"boiler", 1, "b.."},
		{"Kühler-1", 5, "Küh.."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	l := compose(t, topologytest.Series())

	svg := string(RenderSVG(l))
	if !strings.HasPrefix(svg, "<svg ") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("RenderSVG() is not an svg document:\n%s", svg)
	}
	if !strings.Contains(svg, `viewBox="0 0 400.0 500.0"`) {
		t.Errorf("RenderSVG() missing 4x5 viewBox at default unit")
	}
	if got, want := strings.Count(svg, `<rect id="cell-`), len(l.Leaves()); got != want {
		t.Errorf("leaf rects = %d, want %d", got, want)
	}
	if !strings.Contains(svg, ">pump</text>") {
		t.Error("RenderSVG() missing pump label")
	}
	if strings.Contains(svg, `<rect class="drop-zone"`) {
		t.Error("RenderSVG() drew drop zones for a layout without them")
	}

	unlabeled := string(RenderSVG(l, WithLabels(false), WithUnit(10)))
	if strings.Contains(unlabeled, "<text") {
		t.Error("WithLabels(false) still drew labels")
	}
	if !strings.Contains(unlabeled, `viewBox="0 0 40.0 50.0"`) {
		t.Error("WithUnit(10) did not scale the viewBox")
	}

	outlined := string(RenderSVG(l, WithContainers()))
	if !strings.Contains(outlined, `class="container side"`) {
		t.Error("WithContainers() did not outline sides")
	}
}

func TestRenderSVGDropZones(t *testing.T) {
	l := compose(t, topologytest.ChilledWater(), layout.WithDropZones(true))
	svg := string(RenderSVG(l))
	if got, want := strings.Count(svg, `<rect class="drop-zone"`), len(dropZones(l)); got != want || got == 0 {
		t.Errorf("drop-zone rects = %d, want %d (> 0)", got, want)
	}
}

func TestRenderSVGPlenumFill(t *testing.T) {
	l := compose(t, topologytest.VAV())
	p := Palette{Plenums: []string{"#123456"}, Leaf: "#ffffff", Line: "#000000", Drop: "#eeeeee"}
	svg := string(RenderSVG(l, WithPalette(p)))
	if !strings.Contains(svg, `fill="#123456"`) {
		t.Error("plenum members not filled with palette colour")
	}
}

func TestRenderText(t *testing.T) {
	l := compose(t, topologytest.Series())
	out := string(RenderText(l))

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != l.Height*TextRows {
		t.Errorf("lines = %d, want %d", len(lines), l.Height*TextRows)
	}
	for i, line := range lines {
		if n := len([]rune(line)); n > l.Width*TextCols {
			t.Errorf("line %d has %d columns, want <= %d", i, n, l.Width*TextCols)
		}
	}
	for _, want := range []string{"pump", "bo..", "+----+"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderText() missing %q:\n%s", want, out)
		}
	}

	bare := string(RenderText(l, WithLabels(false)))
	if strings.Contains(bare, "pump") {
		t.Error("WithLabels(false) still wrote labels")
	}
}

func TestCanvasJoins(t *testing.T) {
	cv := newCanvas(5, 3)
	cv.hline(0, 4, 1)
	cv.vline(2, 0, 2)
	want := "  |\n--+--\n  |\n"
	if got := cv.String(); got != want {
		t.Errorf("canvas = %q, want %q", got, want)
	}
}

func TestRenderPDF(t *testing.T) {
	l := compose(t, topologytest.VAV())
	data, err := RenderPDF(l)
	if err != nil {
		t.Fatalf("RenderPDF() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("RenderPDF() output does not start with a PDF header")
	}

	if _, err := RenderPDF(graph.Layout{}); err == nil {
		t.Error("RenderPDF() of an empty layout should fail")
	}
}

func TestRenderDXF(t *testing.T) {
	l := compose(t, topologytest.Series())
	data, err := RenderDXF(l, WithContainers())
	if err != nil {
		t.Fatalf("RenderDXF() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{"SECTION", "ENTITIES", LayerFlow, LayerComponents, LayerLabels, "pump"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDXF() missing %q", want)
		}
	}
}

func TestRenderXLSX(t *testing.T) {
	l := compose(t, topologytest.VAV())
	data, err := RenderXLSX(l)
	if err != nil {
		t.Fatalf("RenderXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != SheetComponents || sheets[1] != SheetGrid {
		t.Errorf("sheets = %v, want [%s %s]", sheets, SheetComponents, SheetGrid)
	}

	rows, err := f.GetRows(SheetComponents)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != len(l.Leaves())+1 {
		t.Errorf("component rows = %d, want %d", len(rows), len(l.Leaves())+1)
	}
	if rows[0][0] != "Component" {
		t.Errorf("header = %v", rows[0])
	}

	fan, _ := l.Find("fan")
	cell, _ := excelize.CoordinatesToCellName(fan.X+1, fan.Y+1)
	if v, _ := f.GetCellValue(SheetGrid, cell); v != "fan" {
		t.Errorf("grid %s = %q, want fan", cell, v)
	}
}

func TestRenderXLSXDiagnostics(t *testing.T) {
	l := compose(t, topologytest.Series())
	l.Diagnostics = []string{"MALFORMED_TOPOLOGY: dead end"}
	data, err := RenderXLSX(l)
	if err != nil {
		t.Fatalf("RenderXLSX() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue(SheetDiagnostics, "A1"); v != l.Diagnostics[0] {
		t.Errorf("diagnostic = %q, want %q", v, l.Diagnostics[0])
	}
}

func TestRenderJSON(t *testing.T) {
	l := compose(t, topologytest.Series())
	data, err := RenderJSON(l)
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	back, err := graph.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}
	if back.Width != l.Width || len(back.Cells) != len(l.Cells) {
		t.Errorf("round trip = %dx%d/%d cells, want %dx%d/%d", back.Width, back.Height, len(back.Cells), l.Width, l.Height, len(l.Cells))
	}
}
