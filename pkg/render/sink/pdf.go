package sink

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/loopgrid/pkg/graph"
)

// Page layout (A4 landscape, mm).
const (
	pdfMargin     = 12.0
	pdfHeader     = 10.0
	pdfFooter     = 8.0
	pdfLabelMinPt = 4.0
	pdfLabelMaxPt = 9.0
)

// RenderPDF draws the layout on a single landscape A4 page, scaled to fit.
// The unit option is ignored; the page size fixes the scale.
func RenderPDF(l graph.Layout, opts ...Option) ([]byte, error) {
	if l.Width <= 0 || l.Height <= 0 {
		return nil, fmt.Errorf("render pdf: empty layout")
	}
	o := newOptions(opts...)
	plenums := o.palette.Assign(l)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(l.Name, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	drawW := pageW - 2*pdfMargin
	drawH := pageH - 2*pdfMargin - pdfHeader - pdfFooter
	unit := min(drawW/float64(l.Width), drawH/float64(l.Height))
	offX := pdfMargin + (drawW-unit*float64(l.Width))/2
	offY := pdfMargin + pdfHeader

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(pdfMargin, pdfMargin)
	pdf.CellFormat(drawW, pdfHeader-2, tr(l.Name), "", 0, "L", false, 0, "")

	lr, lg, lb := rgb(o.palette.Line)
	pdf.SetDrawColor(lr, lg, lb)

	// Drop zones
	dr, dg, db := rgb(o.palette.Drop)
	pdf.SetFillColor(dr, dg, db)
	pdf.SetLineWidth(0.2)
	pdf.SetDashPattern([]float64{1.5, 1}, 0)
	for _, c := range dropZones(l) {
		r := cellRect(c, unit)
		pdf.Rect(offX+r.X, offY+r.Y, r.W, r.H, "FD")
	}
	pdf.SetDashPattern([]float64{}, 0)

	// Flow lines
	pdf.SetLineWidth(max(0.3, unit*0.03))
	for _, c := range l.Cells {
		if !carriesFlow(c) {
			continue
		}
		for _, s := range flowLines(c, unit) {
			pdf.Line(offX+s.X1, offY+s.Y1, offX+s.X2, offY+s.Y2)
		}
	}

	// Leaves
	pdf.SetLineWidth(max(0.2, unit*0.02))
	pdf.SetTextColor(0, 0, 0)
	for _, c := range l.Cells {
		if !c.IsLeaf() || !drawable(c) {
			continue
		}
		r := cellRect(c, unit).inset(unit * leafInset)
		fr, fg, fb := rgb(o.palette.fill(c, plenums))
		pdf.SetFillColor(fr, fg, fb)
		pdf.Rect(offX+r.X, offY+r.Y, r.W, r.H, "FD")

		if !o.labels {
			continue
		}
		pt := max(pdfLabelMinPt, min(pdfLabelMaxPt, r.H*1.2))
		pdf.SetFont("Helvetica", "", pt)
		raw := c.DisplayLabel()
		label := tr(raw)
		for n := len([]rune(raw)); n > minLabelChars && pdf.GetStringWidth(label) > r.W-1; n-- {
			label = tr(truncate(raw, n-1))
		}
		lw := pdf.GetStringWidth(label)
		cx, cy := r.center()
		pdf.Text(offX+cx-lw/2, offY+cy+pt*0.35/2, label)
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(pdfMargin, pageH-pdfMargin-pdfFooter+2)
	footer := fmt.Sprintf("%s loop, %d x %d grid units, %d components", l.Kind, l.Width, l.Height, len(l.Leaves()))
	pdf.CellFormat(drawW, pdfFooter-2, footer, "", 0, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
