package sink

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/loopgrid/pkg/graph"
)

// Workbook sheet names.
const (
	SheetComponents  = "Components"
	SheetGrid        = "Grid"
	SheetDiagnostics = "Diagnostics"
)

var componentHeader = []any{
	"Component", "Label", "Category", "Side", "Part", "Branch", "Zone", "Plenum",
	"Column", "Row", "Width", "Height", "Deletable",
}

// RenderXLSX writes a workbook with a component schedule, a grid map with
// one spreadsheet cell per grid unit, and the layout diagnostics if any.
func RenderXLSX(l graph.Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	plenums := o.palette.Assign(l)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetComponents); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeComponents(f, l); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetGrid); err != nil {
		return nil, fmt.Errorf("add grid sheet: %w", err)
	}
	if err := writeGrid(f, l, o, plenums); err != nil {
		return nil, err
	}
	if len(l.Diagnostics) > 0 {
		if _, err := f.NewSheet(SheetDiagnostics); err != nil {
			return nil, fmt.Errorf("add diagnostics sheet: %w", err)
		}
		for i, d := range l.Diagnostics {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetCellValue(SheetDiagnostics, cell, d); err != nil {
				return nil, fmt.Errorf("write diagnostic: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeComponents(f *excelize.File, l graph.Layout) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetSheetRow(SheetComponents, "A1", &componentHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(componentHeader), 1)
	if err := f.SetCellStyle(SheetComponents, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	row := 2
	for _, c := range l.Leaves() {
		branch := any("")
		if c.Branch != nil {
			branch = *c.Branch
		}
		values := []any{
			c.Component, c.DisplayLabel(), c.Category, c.Role, c.Part, branch, c.Zone, c.Plenum,
			c.X, c.Y, c.Width, c.Height, c.Deletable,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetComponents, cell, &values); err != nil {
			return fmt.Errorf("write component %s: %w", c.Component, err)
		}
		row++
	}
	return f.SetColWidth(SheetComponents, "A", "B", 24)
}

func writeGrid(f *excelize.File, l graph.Layout, o options, plenums map[string]string) error {
	styles := make(map[string]int)
	styleFor := func(fill string) (int, error) {
		if id, ok := styles[fill]; ok {
			return id, nil
		}
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(fill, "#")}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border: []excelize.Border{
				{Type: "left", Color: "999999", Style: 1},
				{Type: "right", Color: "999999", Style: 1},
				{Type: "top", Color: "999999", Style: 1},
				{Type: "bottom", Color: "999999", Style: 1},
			},
		})
		if err != nil {
			return 0, fmt.Errorf("create style: %w", err)
		}
		styles[fill] = id
		return id, nil
	}

	if l.Width > 0 {
		lastCol, _ := excelize.ColumnNumberToName(l.Width)
		if err := f.SetColWidth(SheetGrid, "A", lastCol, 14); err != nil {
			return fmt.Errorf("size grid columns: %w", err)
		}
	}

	for _, c := range dropZones(l) {
		if err := fillRange(f, c, styleFor, o.palette.Drop); err != nil {
			return err
		}
	}
	for _, c := range l.Cells {
		if !c.IsLeaf() || !drawable(c) {
			continue
		}
		if err := fillRange(f, c, styleFor, o.palette.fill(c, plenums)); err != nil {
			return err
		}
		top, _ := excelize.CoordinatesToCellName(c.X+1, c.Y+1)
		if c.Width > 1 || c.Height > 1 {
			bottom, _ := excelize.CoordinatesToCellName(c.X+c.Width, c.Y+c.Height)
			if err := f.MergeCell(SheetGrid, top, bottom); err != nil {
				return fmt.Errorf("merge %s: %w", c.Component, err)
			}
		}
		label := c.Component
		if o.labels {
			label = c.DisplayLabel()
		}
		if err := f.SetCellValue(SheetGrid, top, label); err != nil {
			return fmt.Errorf("write %s: %w", c.Component, err)
		}
	}
	return nil
}

func fillRange(f *excelize.File, c graph.Cell, styleFor func(string) (int, error), fill string) error {
	id, err := styleFor(fill)
	if err != nil {
		return err
	}
	top, _ := excelize.CoordinatesToCellName(c.X+1, c.Y+1)
	bottom, _ := excelize.CoordinatesToCellName(c.X+c.Width, c.Y+c.Height)
	if err := f.SetCellStyle(SheetGrid, top, bottom, id); err != nil {
		return fmt.Errorf("style %s: %w", c.Path, err)
	}
	return nil
}
