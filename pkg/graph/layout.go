package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Flat Loop Diagram
// =============================================================================

// Layout is the serialization format for a composed loop.
//
// Cells are listed in pre-order, so a container precedes its children and
// the first cell is the system root. Width and Height are the root extent in
// grid units. Nodes and Edges carry the component graph the layout was built
// from, sorted for deterministic output.
type Layout struct {
	Version     int      `json:"version" bson:"version"`
	Name        string   `json:"name" bson:"name"`
	Kind        string   `json:"kind" bson:"kind"`
	Width       int      `json:"width" bson:"width"`
	Height      int      `json:"height" bson:"height"`
	Cells       []Cell   `json:"cells" bson:"cells"`
	Nodes       []Node   `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges       []Edge   `json:"edges,omitempty" bson:"edges,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty" bson:"diagnostics,omitempty"`
}

// Leaves returns the component cells in pre-order.
func (l *Layout) Leaves() []Cell {
	var out []Cell
	for _, c := range l.Cells {
		if c.IsLeaf() {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first cell drawing component ref.
func (l *Layout) Find(ref string) (Cell, bool) {
	for _, c := range l.Cells {
		if c.Component == ref {
			return c, true
		}
	}
	return Cell{}, false
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that the layout has cells and a known version.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks the fields every sink relies on.
func (l *Layout) Validate() error {
	if l.Version == 0 {
		l.Version = FormatVersion
	}
	if l.Version > FormatVersion {
		return fmt.Errorf("layout version %d is newer than supported version %d", l.Version, FormatVersion)
	}
	if len(l.Cells) == 0 {
		return fmt.Errorf("layout must contain cells")
	}
	if l.Width < 0 || l.Height < 0 {
		return fmt.Errorf("layout extent %dx%d is negative", l.Width, l.Height)
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
