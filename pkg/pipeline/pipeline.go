// Package pipeline provides the load → layout → render pipeline for loopgrid.
//
// The CLI, the HTTP server and the file watcher all run loops through the
// same [Runner], so caching, logging and observability hooks behave the
// same at every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a topology file into a validated [topology.Loop]
//  2. Layout: Compose the grid layout and flatten it to a [graph.Layout]
//  3. Render: Generate output in the requested formats
//
// Layouts are cached by topology hash and layout options. Artifacts are
// cached by layout hash and render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	loop, err := runner.Load("ahu.toml")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, loop, pipeline.Options{Formats: []string{"svg", "pdf"}})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// [topology.Loop]: github.com/matzehuels/loopgrid/pkg/topology.Loop
// [graph.Layout]: github.com/matzehuels/loopgrid/pkg/graph.Layout
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/loopgrid/pkg/cache"
	errs "github.com/matzehuels/loopgrid/pkg/errors"
	"github.com/matzehuels/loopgrid/pkg/graph"
	"github.com/matzehuels/loopgrid/pkg/topology"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Watcher
// =============================================================================

// DefaultUnit is the default size of a grid unit in output pixels.
const DefaultUnit = 100

// Format constants for output formats.
const (
	FormatJSON  = "json"
	FormatSVG   = "svg"
	FormatText  = "txt"
	FormatPDF   = "pdf"
	FormatDXF   = "dxf"
	FormatXLSX  = "xlsx"
	FormatDOT   = "dot"
	FormatGraph = "graph" // Graphviz SVG of the component graph
)

// Formats lists every output format in a stable order.
var Formats = []string{FormatJSON, FormatSVG, FormatText, FormatPDF, FormatDXF, FormatXLSX, FormatDOT, FormatGraph}

var contentTypes = map[string]string{
	FormatJSON:  "application/json",
	FormatSVG:   "image/svg+xml",
	FormatText:  "text/plain; charset=utf-8",
	FormatPDF:   "application/pdf",
	FormatDXF:   "image/vnd.dxf",
	FormatXLSX:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatDOT:   "text/vnd.graphviz",
	FormatGraph: "image/svg+xml",
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Extension returns the file extension for a format, including the dot.
func Extension(format string) string {
	if format == FormatGraph {
		return ".graph.svg"
	}
	return "." + format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	DropZones bool `json:"drop_zones,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Unit       int      `json:"unit,omitempty"`
	ShowLabels bool     `json:"show_labels"`
	Containers bool     `json:"containers,omitempty"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`
}

// DefaultOptions returns options with labels on and SVG output.
func DefaultOptions() Options {
	return Options{
		Formats:    []string{FormatSVG},
		Unit:       DefaultUnit,
		ShowLabels: true,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// TopologyHash is the content hash of the loop.
	TopologyHash string

	// Layout is the composed, flattened layout.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Components  int
	Cells       int
	Diagnostics int
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if _, ok := contentTypes[format]; !ok {
		return errs.New(errs.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Unit == 0 {
		o.Unit = DefaultUnit
	}
	if o.Unit < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "unit must be positive, got %d", o.Unit)
	}
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{DropZones: o.DropZones}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Layout:     o.LayoutKeyOpts(),
		Format:     format,
		Unit:       o.Unit,
		ShowLabels: o.ShowLabels,
		Containers: o.Containers,
	}
}

// describe returns a short loop summary for log lines.
func describe(l *topology.Loop) string {
	return fmt.Sprintf("%s (%s, %d components)", l.Name, l.Kind, l.Len())
}
