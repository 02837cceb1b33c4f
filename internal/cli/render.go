package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/loopgrid/pkg/pipeline"
)

// renderCommand creates the render command, which composes a topology and
// renders it in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formats string
		output  string
		noCache bool
	)
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "render [topology.toml]",
		Short: "Compose and render a loop topology",
		Long: `Compose and render a loop topology.

This is a shortcut for 'layout' followed by 'visualize'. Formats:

  svg    grid drawing with flow lines and component boxes
  txt    the same drawing in ASCII
  pdf    landscape page, scaled to fit
  dxf    CAD drawing with one layer per element kind
  xlsx   component schedule plus a cell-per-unit grid sheet
  json   the layout itself
  dot    Graphviz source of the component graph
  graph  the component graph drawn by Graphviz (SVG)

With one format, -o names the file. With several, -o is the base path and
each file gets the format's extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := c.resolveOptions(cmd, formats, opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], resolved, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	addLayoutFlags(cmd, &opts)
	addRenderFlags(cmd, &formats, &opts)

	return cmd
}

// runRender runs the full pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	loop, err := runner.Load(input)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", loop.Name))
	spinner.Start()

	result, err := runner.Execute(ctx, loop, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", loop.Name)
	for _, p := range paths {
		printFile(p)
	}
	printStats(layoutStats{
		width:      result.Layout.Width,
		height:     result.Layout.Height,
		components: result.Stats.Components,
		cached:     result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	})
	printDiagnostics(result.Layout.Diagnostics)
	return nil
}

// writeArtifacts writes one file per format and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return paths, fmt.Errorf("no %s output produced", format)
		}
		path := artifactPath(format, len(formats), input, output)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactPath picks the output path of one format. A single format writes
// to output verbatim; otherwise output (or the input) is a base path that
// gets the format extension.
func artifactPath(format string, count int, input, output string) string {
	if count == 1 && output != "" {
		return output
	}
	return basePath(output, input) + pipeline.Extension(format)
}

// basePath derives the base output path from the output and input paths.
// Known extensions are stripped so "plant.svg" and "plant" name the same base.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, ".layout.json")
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	// ".graph.svg" before ".svg"
	exts := []string{pipeline.Extension(pipeline.FormatGraph)}
	for _, f := range pipeline.Formats {
		exts = append(exts, pipeline.Extension(f))
	}
	for _, ext := range exts {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
