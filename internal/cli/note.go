package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hanzitree/pkg/hanzi"
)

// noteCommand shows or edits the notes for a known character.
func (c *CLI) noteCommand() *cobra.Command {
	var (
		pinyin, definition string
		clear              bool
	)

	cmd := &cobra.Command{
		Use:   "note <id> [text]",
		Short: "Show or edit the notes for a known character",
		Long: `Show or edit the notes for a known character.

With only an id, print the current notes. Text replaces the notes;
--pinyin and --definition override what the card shows in the tree.
Fields not given keep their stored value.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := hanzi.ParseID(args[0])
			if err != nil {
				return err
			}
			cl, err := c.newClient()
			if err != nil {
				return err
			}

			if clear {
				if err := cl.DeleteNotes(ctx, id); err != nil {
					return err
				}
				printSuccess("Cleared notes for %d", id)
				return nil
			}

			setText := len(args) > 1
			setPinyin := cmd.Flags().Changed("pinyin")
			setDefinition := cmd.Flags().Changed("definition")

			e, _, err := cl.GetNotes(ctx, id)
			if err != nil {
				return err
			}
			if !setText && !setPinyin && !setDefinition {
				printNotes(e)
				return nil
			}

			if setText {
				e.Notes = strings.Join(args[1:], " ")
			}
			if setPinyin {
				e.Pinyin = pinyin
			}
			if setDefinition {
				e.Definition = definition
			}
			saved, err := cl.PutNotes(ctx, id, e)
			if err != nil {
				return err
			}
			printSuccess("Saved notes for %d", id)
			printNotes(saved)
			return nil
		},
	}

	cmd.Flags().StringVar(&pinyin, "pinyin", "", "pinyin shown on the card instead of the stored one")
	cmd.Flags().StringVar(&definition, "definition", "", "definition shown on the card instead of the stored one")
	cmd.Flags().BoolVar(&clear, "clear", false, "remove the notes")
	return cmd
}
