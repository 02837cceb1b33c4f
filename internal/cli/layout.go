package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/loopgrid/pkg/graph"
	"github.com/matzehuels/loopgrid/pkg/pipeline"
)

// layoutCommand creates the layout command for composing a topology.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "layout [topology.toml]",
		Short: "Compose a loop topology into a grid layout",
		Long: `Compose a loop topology into a grid layout.

The layout command reads a topology file (.toml or .json), composes the
supply and demand sides into aligned grid cells and writes a layout.json
file (same format as 'render -f json') that 'visualize' and 'view' accept.

Malformed parts of the topology are reported as warnings and left out;
an unsupported component kind is an error.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := c.resolveOptions(cmd, "", opts)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], resolved, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runLayout loads the topology, composes it and writes the layout.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	loop, err := runner.Load(input)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Composing %s...", loop.Name))
	spinner.Start()

	layout, cacheHit, err := runner.Layout(ctx, loop, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compose layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = layoutPath(input)
	}
	if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(layoutStats{width: layout.Width, height: layout.Height, components: len(layout.Leaves()), cached: cacheHit})
	printDiagnostics(layout.Diagnostics)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}

// layoutPath derives "<input>.layout.json" from a topology path.
func layoutPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}
