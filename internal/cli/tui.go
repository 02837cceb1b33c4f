package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/loopgrid/pkg/graph"
	"github.com/matzehuels/loopgrid/pkg/render/sink"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	defaultViewWidth  = 100
	defaultViewHeight = 40
	minTableRows      = 3
	minGridRows       = 6
	scrollStep        = 4
)

// =============================================================================
// LayoutViewModel - Interactive layout browser
// =============================================================================

// LayoutViewModel is the bubbletea model for browsing a layout: the text
// rendering on top, scrolled to follow the selected component, and a table
// of components below.
type LayoutViewModel struct {
	Layout graph.Layout
	Cursor int
	Offset int

	// ScrollX and ScrollY are the top-left character of the grid viewport.
	ScrollX int
	ScrollY int

	Width  int
	Height int

	grid   []string
	leaves []graph.Cell
}

// NewLayoutViewModel creates a view model for l.
func NewLayoutViewModel(l graph.Layout) LayoutViewModel {
	text := strings.TrimRight(string(sink.RenderText(l)), "\n")
	var leaves []graph.Cell
	for _, c := range l.Leaves() {
		if !c.Hidden && c.Component != "" {
			leaves = append(leaves, c)
		}
	}
	return LayoutViewModel{
		Layout: l,
		Width:  defaultViewWidth,
		Height: defaultViewHeight,
		grid:   strings.Split(text, "\n"),
		leaves: leaves,
	}
}

// Selected returns the component cell under the cursor.
func (m LayoutViewModel) Selected() (graph.Cell, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.leaves) {
		return graph.Cell{}, false
	}
	return m.leaves[m.Cursor], true
}

func (m LayoutViewModel) Init() tea.Cmd {
	return nil
}

func (m LayoutViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.follow()
			}
		case "down", "j":
			if m.Cursor < len(m.leaves)-1 {
				m.Cursor++
				m.follow()
			}
		case "left", "h":
			m.ScrollX = max(0, m.ScrollX-scrollStep)
		case "right", "l":
			m.ScrollX = min(m.maxScrollX(), m.ScrollX+scrollStep)
		case "pgup":
			m.ScrollY = max(0, m.ScrollY-m.gridRows())
		case "pgdown":
			m.ScrollY = min(m.maxScrollY(), m.ScrollY+m.gridRows())
		case "home":
			m.ScrollX, m.ScrollY = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.follow()
	}
	return m, nil
}

// tableRows is how many component rows fit under the grid.
func (m LayoutViewModel) tableRows() int {
	return max(minTableRows, m.Height/4)
}

// gridRows is how many lines of the text rendering fit on screen.
func (m LayoutViewModel) gridRows() int {
	// title, help, blank lines, table borders and header, details
	return max(minGridRows, m.Height-m.tableRows()-10)
}

func (m LayoutViewModel) maxScrollX() int {
	return max(0, m.Layout.Width*sink.TextCols-m.Width)
}

func (m LayoutViewModel) maxScrollY() int {
	return max(0, len(m.grid)-m.gridRows())
}

// follow keeps the selected row in the table window and the selected cell
// inside the grid viewport.
func (m *LayoutViewModel) follow() {
	rows := m.tableRows()
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+rows {
		m.Offset = m.Cursor - rows + 1
	}

	c, ok := m.Selected()
	if !ok {
		return
	}
	x0, x1 := c.X*sink.TextCols, (c.X+c.Width)*sink.TextCols
	y0, y1 := c.Y*sink.TextRows, (c.Y+c.Height)*sink.TextRows
	if x0 < m.ScrollX {
		m.ScrollX = x0
	} else if x1 > m.ScrollX+m.Width {
		m.ScrollX = min(m.maxScrollX(), x1-m.Width)
	}
	if y0 < m.ScrollY {
		m.ScrollY = y0
	} else if y1 > m.ScrollY+m.gridRows() {
		m.ScrollY = min(m.maxScrollY(), y1-m.gridRows())
	}
}

func (m LayoutViewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s  %dx%d", m.Layout.Name, m.Layout.Width, m.Layout.Height)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  ←/→ scroll  pgup/pgdn page  q quit"))
	b.WriteString("\n\n")

	end := min(len(m.grid), m.ScrollY+m.gridRows())
	for _, line := range m.grid[min(m.ScrollY, end):end] {
		b.WriteString(clipLine(line, m.ScrollX, m.Width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.leaves) == 0 {
		b.WriteString(listDimStyle.Render("  no components"))
		return b.String()
	}

	b.WriteString(m.renderTable())
	b.WriteString("\n")
	if c, ok := m.Selected(); ok {
		b.WriteString(listNormalStyle.Render(describeCell(c)))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.leaves))))

	return b.String()
}

func (m LayoutViewModel) renderTable() string {
	end := min(len(m.leaves), m.Offset+m.tableRows())

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.leaves[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		zone := zoneLabel(c)
		rows = append(rows, []string{
			cursor,
			c.Component,
			c.DisplayLabel(),
			c.Category,
			zone,
			fmt.Sprintf("%d,%d", c.X, c.Y),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Component", "Label", "Category", "Zone", "Cell").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.leaves) {
				return lipgloss.NewStyle()
			}
			if idx == m.Cursor {
				return listSelectedStyle
			}
			if !m.leaves[idx].Deletable {
				return listDimStyle
			}
			return listNormalStyle
		})

	return t.Render()
}

// zoneLabel returns the zone column text for c.
func zoneLabel(c graph.Cell) string {
	if c.Zone == "" {
		return "-"
	}
	return c.Zone
}

// describeCell summarizes the selected component on one line.
func describeCell(c graph.Cell) string {
	parts := []string{
		fmt.Sprintf("  %s", c.Component),
		fmt.Sprintf("at %d,%d", c.X, c.Y),
		fmt.Sprintf("%dx%d", c.Width, c.Height),
	}
	if c.Role != "" {
		parts = append(parts, "role "+c.Role)
	}
	if c.Plenum != "" {
		parts = append(parts, "plenum "+c.Plenum)
	}
	if c.Deletable {
		parts = append(parts, "removable")
	}
	return strings.Join(parts, "  ")
}

// clipLine returns the width runes of line starting at rune x.
func clipLine(line string, x, width int) string {
	r := []rune(line)
	if x >= len(r) {
		return ""
	}
	return string(r[x:min(len(r), x+width)])
}
