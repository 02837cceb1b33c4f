package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/loopgrid/internal/watch"
	"github.com/matzehuels/loopgrid/pkg/pipeline"
)

// watchCommand creates the watch command, which re-renders a topology
// every time the file is saved.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		formats  string
		output   string
		debounce time.Duration
	)
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "watch [topology.toml]",
		Short: "Re-render a topology whenever it changes",
		Long: `Re-render a topology whenever it changes.

Renders once at start, then again each time the file is written. Errors
in the topology are logged and the previous outputs are kept, so the
watcher keeps running while the file is being edited. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := c.resolveOptions(cmd, formats, opts)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("debounce") {
				debounce = c.Config.Watch.Debounce
			}
			return c.runWatch(cmd.Context(), args[0], resolved, output, debounce)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-rendering")
	addLayoutFlags(cmd, &opts)
	addRenderFlags(cmd, &formats, &opts)
	bindConfig(cmd, "debounce", "watch.debounce")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, opts pipeline.Options, output string, debounce time.Duration) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	w, err := watch.New(input, debounce, c.rerender(runner, opts, output), c.Logger)
	if err != nil {
		return err
	}
	printInfo("Watching %s", w.Path())
	return w.Run(ctx)
}

// rerender returns the watch handler that runs the pipeline and rewrites
// the outputs.
func (c *CLI) rerender(runner *pipeline.Runner, opts pipeline.Options, output string) watch.Handler {
	return func(ctx context.Context, path string) error {
		prog := newProgress(c.Logger)
		loop, err := runner.Load(path)
		if err != nil {
			return err
		}
		result, err := runner.Execute(ctx, loop, opts)
		if err != nil {
			return err
		}
		paths, err := writeArtifacts(result.Artifacts, opts.Formats, path, output)
		if err != nil {
			return err
		}
		printDiagnostics(result.Layout.Diagnostics)
		prog.done(fmt.Sprintf("Wrote %d file(s) for %s (%dx%d)", len(paths), loop.Name, result.Layout.Width, result.Layout.Height))
		return nil
	}
}
