package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hanzitree/pkg/client"
	"github.com/matzehuels/hanzitree/pkg/pipeline"
	"github.com/matzehuels/hanzitree/pkg/tree"
	"github.com/matzehuels/hanzitree/pkg/tree/sink"
)

// browseCommand opens the interactive tree browser.
func (c *CLI) browseCommand() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the known-character tree in the terminal",
		Long: `Browse the known-character tree in the terminal.

Arrow keys move between cards and tiers; enter flips the selected card to
show its pinyin, definition and notes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				l   tree.Layout
				err error
			)
			if local {
				l, err = c.localLayout(ctx)
			} else {
				l, err = c.remoteLayout(ctx)
			}
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewTreeModel(l), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "read storage directly instead of asking the server")
	return cmd
}

func (c *CLI) localLayout(ctx context.Context) (tree.Layout, error) {
	data, err := c.openLocal(ctx)
	if err != nil {
		return tree.Layout{}, err
	}
	defer data.Close()

	runner := c.newRunner(ctx)
	defer runner.Close()

	cards, err := runner.Cards(ctx, data.repo, data.notes)
	if err != nil {
		return tree.Layout{}, err
	}
	return pipeline.Layout(tree.Cards(cards), c.cfg.Render()), nil
}

func (c *CLI) remoteLayout(ctx context.Context) (tree.Layout, error) {
	cl, err := c.newClient()
	if err != nil {
		return tree.Layout{}, err
	}
	data, _, err := cl.Tree(ctx, client.TreeOptions{Format: pipeline.FormatJSON})
	if err != nil {
		return tree.Layout{}, err
	}
	return sink.ReadJSON(data)
}
