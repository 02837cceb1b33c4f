package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/loopgrid/pkg/graph"
	"github.com/matzehuels/loopgrid/pkg/pipeline"
)

// viewCommand creates the view command, an interactive terminal browser.
func (c *CLI) viewCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "view [topology.toml | layout.json]",
		Short: "Browse a layout in the terminal",
		Long: `Browse a layout in the terminal.

Shows the text rendering of the grid together with a table of the placed
components. Selecting a component scrolls the grid to it. Accepts either a
topology, which is composed first, or a layout.json from 'layout'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := c.resolveOptions(cmd, "", opts)
			if err != nil {
				return err
			}
			return c.runView(cmd.Context(), args[0], resolved, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runView(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
	l, err := c.loadLayout(ctx, input, opts, noCache)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewLayoutViewModel(l), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("view: %w", err)
	}
	return nil
}

// loadLayout reads a layout file, or composes a topology file.
func (c *CLI) loadLayout(ctx context.Context, input string, opts pipeline.Options, noCache bool) (graph.Layout, error) {
	if strings.HasSuffix(input, ".layout.json") {
		return graph.ReadLayoutFile(input)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return graph.Layout{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	loop, err := runner.Load(input)
	if err != nil {
		return graph.Layout{}, err
	}
	l, _, err := runner.Layout(ctx, loop, opts)
	return l, err
}
