package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hanzitree/pkg/errors"
	"github.com/matzehuels/hanzitree/pkg/pipeline"
	"github.com/matzehuels/hanzitree/pkg/tree/sink"
)

// visualizeCommand renders a layout written by `layout` or `render -f json`.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		flags  renderFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "visualize <layout.json>",
		Short: "Render a saved layout",
		Long: `Render a saved layout.

The layout.json file (from 'layout' or 'render -f json') already holds
every card position, so this step only draws it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.cfg.Render())
			if err != nil {
				return err
			}
			opts.Logger = c.Logger
			input := args[0]
			fallback := strings.TrimSuffix(strings.TrimSuffix(input, filepath.Ext(input)), ".layout")
			return c.runVisualize(cmd.Context(), input, opts, outputPaths(output, fallback, opts.Formats))
		},
	}

	flags.register(cmd, pipeline.FormatSVG)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or base path for several formats")
	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, paths map[string]string) error {
	if err := errors.ValidatePath(input); err != nil {
		return err
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read layout: %w", err)
	}
	l, err := sink.ReadJSON(data)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner := c.newRunner(ctx)
	defer runner.Close()

	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	printSuccess("Rendered %s", filepath.Base(input))
	if err := writeArtifacts(artifacts, opts.Formats, paths); err != nil {
		return err
	}
	printStats(l.Len(), len(l.Tiers), cacheHit)
	return nil
}
