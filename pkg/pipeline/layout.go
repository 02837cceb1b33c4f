package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/loopgrid/pkg/graph"
	"github.com/matzehuels/loopgrid/pkg/layout"
	"github.com/matzehuels/loopgrid/pkg/observability"
	"github.com/matzehuels/loopgrid/pkg/topology"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout composes l and flattens the result. Recovered topology
// problems do not fail the call; they are logged as warnings, reported to
// the layout hooks and kept in the layout's Diagnostics.
func GenerateLayout(ctx context.Context, l *topology.Loop, opts Options, logger *log.Logger) (graph.Layout, error) {
	if err := ctx.Err(); err != nil {
		return graph.Layout{}, err
	}
	hooks := observability.Layout()
	hooks.OnComposeStart(ctx, l.Name, l.Len())
	start := time.Now()

	sys, err := layout.NewComposer(l, layout.WithDropZones(opts.DropZones)).Compose()
	if err != nil {
		hooks.OnComposeComplete(ctx, l.Name, 0, 0, time.Since(start), err)
		return graph.Layout{}, fmt.Errorf("compose %s: %w", l.Name, err)
	}
	ext := sys.Extent()
	hooks.OnComposeComplete(ctx, l.Name, ext.Width, ext.Height, time.Since(start), nil)

	for _, d := range sys.Diagnostics() {
		hooks.OnDiagnostic(ctx, l.Name, d)
		if logger != nil {
			logger.Warn("malformed topology", "loop", l.Name, "err", d)
		}
	}

	return graph.FromSystem(sys, l), nil
}
