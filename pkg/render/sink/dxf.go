package sink

import (
	"fmt"
	"os"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/matzehuels/loopgrid/pkg/graph"
)

// DXF layer names.
const (
	LayerFlow       = "FLOW"
	LayerComponents = "COMPONENTS"
	LayerLabels     = "LABELS"
	LayerDropZones  = "DROP_ZONES"
	LayerContainers = "CONTAINERS"
)

// RenderDXF draws the layout as a DXF drawing in unit-sized drawing units.
// The y axis points up, so row 0 sits at the top of the drawing.
func RenderDXF(l graph.Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	d := dxf.NewDrawing()

	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerContainers, color.Cyan},
		{LayerDropZones, color.Yellow},
		{LayerFlow, color.Blue},
		{LayerComponents, color.White},
		{LayerLabels, color.Green},
	}
	for _, ly := range layers {
		if _, err := d.AddLayer(ly.name, ly.color, dxf.DefaultLineType, false); err != nil {
			return nil, fmt.Errorf("add layer %s: %w", ly.name, err)
		}
	}

	height := float64(l.Height) * o.unit
	flip := func(y float64) float64 { return height - y }
	box := func(r rect) error {
		corners := [][2]float64{
			{r.X, flip(r.Y)}, {r.X + r.W, flip(r.Y)},
			{r.X + r.W, flip(r.Y + r.H)}, {r.X, flip(r.Y + r.H)},
		}
		for i := range corners {
			a, b := corners[i], corners[(i+1)%len(corners)]
			if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
				return err
			}
		}
		return nil
	}

	if o.containers {
		d.ChangeLayer(LayerContainers)
		for _, c := range l.Cells {
			if c.IsContainer() && drawable(c) && c.Kind != graph.KindSystem {
				if err := box(cellRect(c, o.unit)); err != nil {
					return nil, fmt.Errorf("draw container %s: %w", c.Path, err)
				}
			}
		}
	}

	d.ChangeLayer(LayerDropZones)
	for _, c := range dropZones(l) {
		if err := box(cellRect(c, o.unit)); err != nil {
			return nil, fmt.Errorf("draw drop zone %s: %w", c.Path, err)
		}
	}

	d.ChangeLayer(LayerFlow)
	for _, c := range l.Cells {
		if !carriesFlow(c) {
			continue
		}
		for _, s := range flowLines(c, o.unit) {
			if _, err := d.Line(s.X1, flip(s.Y1), 0, s.X2, flip(s.Y2), 0); err != nil {
				return nil, fmt.Errorf("draw flow %s: %w", c.Path, err)
			}
		}
	}

	d.ChangeLayer(LayerComponents)
	for _, c := range l.Cells {
		if c.IsLeaf() && drawable(c) {
			if err := box(cellRect(c, o.unit).inset(o.unit * leafInset)); err != nil {
				return nil, fmt.Errorf("draw component %s: %w", c.Component, err)
			}
		}
	}

	if o.labels {
		d.ChangeLayer(LayerLabels)
		textH := o.unit * 0.12
		for _, c := range l.Cells {
			if !c.IsLeaf() || !drawable(c) {
				continue
			}
			r := cellRect(c, o.unit).inset(o.unit * leafInset)
			if _, err := d.Text(c.DisplayLabel(), r.X+textH*0.5, flip(r.Y+r.H/2)-textH/2, 0, textH); err != nil {
				return nil, fmt.Errorf("draw label %s: %w", c.Component, err)
			}
		}
	}

	return saveDrawing(d)
}

// saveDrawing writes d through a temporary file, the only output the dxf
// package offers.
func saveDrawing(d *drawing.Drawing) ([]byte, error) {
	f, err := os.CreateTemp("", "loopgrid-*.dxf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	name := f.Name()
	f.Close()
	defer os.Remove(name)

	if err := d.SaveAs(name); err != nil {
		return nil, fmt.Errorf("save dxf: %w", err)
	}
	return os.ReadFile(name)
}
