package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hanzitree/pkg/errors"
	"github.com/matzehuels/hanzitree/pkg/hanzi"
)

// knownCommand lists known characters.
func (c *CLI) knownCommand() *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:     "known",
		Aliases: []string{"ls", "list"},
		Short:   "List known characters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClient()
			if err != nil {
				return err
			}
			chars, err := cl.List(cmd.Context(), skip, limit)
			if err != nil {
				return err
			}
			printCharacters(chars)
			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "skip the first n characters")
	cmd.Flags().IntVar(&limit, "limit", -1, "show at most n characters (-1 for all)")
	return cmd
}

// addCommand marks a character as known.
func (c *CLI) addCommand() *cobra.Command {
	var w hanzi.Word

	cmd := &cobra.Command{
		Use:   "add <character>",
		Short: "Mark a character as known",
		Long: `Mark a character as known.

Pinyin and definition are taken from the flags, or filled in by the
server's dictionary lookup when the flags are empty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cl, err := c.newClient()
			if err != nil {
				return err
			}

			w.Character = strings.TrimSpace(args[0])
			if w.Pinyin == "" || w.Definition == "" {
				if hits, err := cl.Search(ctx, w.Character, 1); err == nil && len(hits) > 0 && hits[0].Character == w.Character {
					w = fillWord(w, hits[0].Word)
				}
			}

			added, err := cl.Add(ctx, w)
			if err != nil {
				return err
			}
			printSuccess("Learned %s", StyleHanzi.Render(added.Character))
			printWord(added.Word)
			return nil
		},
	}

	cmd.Flags().StringVar(&w.Pinyin, "pinyin", "", "pinyin reading")
	cmd.Flags().StringVar(&w.Definition, "definition", "", "English definition")
	cmd.Flags().StringVar(&w.Jyutping, "jyutping", "", "Cantonese reading")
	cmd.Flags().StringVar(&w.Example, "example", "", "example sentence")
	cmd.Flags().IntVar(&w.Familiarity, "familiarity", 0, "familiarity score")
	return cmd
}

// fillWord copies empty fields of w from the dictionary entry d.
func fillWord(w, d hanzi.Word) hanzi.Word {
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&w.Pinyin, d.Pinyin},
		{&w.Definition, d.Definition},
		{&w.Jyutping, d.Jyutping},
		{&w.Example, d.Example},
		{&w.StrokeOrder, d.StrokeOrder},
	} {
		if *f.dst == "" {
			*f.dst = f.src
		}
	}
	if w.Frequency == nil {
		w.Frequency = d.Frequency
	}
	return w
}

// removeCommand forgets a known character.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Forget a known character",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := hanzi.ParseID(args[0])
			if err != nil {
				return err
			}
			cl, err := c.newClient()
			if err != nil {
				return err
			}
			removed, err := cl.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			printSuccess("Removed %s", StyleHanzi.Render(removed.Character))
			return nil
		},
	}
}

// suggestCommand proposes a word to learn next.
func (c *CLI) suggestCommand() *cobra.Command {
	var add bool

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest a character to learn next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cl, err := c.newClient()
			if err != nil {
				return err
			}
			w, err := cl.Suggest(ctx)
			if errors.Is(err, errors.ErrCodeExhausted) {
				printSuccess("%s", errors.UserMessage(err))
				return nil
			}
			if err != nil {
				return err
			}
			printWord(w)

			if !add {
				printNextStep("Learn it", fmt.Sprintf("%s add %s", appName, w.Character))
				return nil
			}
			added, err := cl.Add(ctx, w)
			if err != nil {
				return err
			}
			printSuccess("Learned %s (id %d)", StyleHanzi.Render(added.Character), added.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&add, "add", false, "mark the suggestion as known right away")
	return cmd
}

// searchCommand looks words up in the dictionary.
func (c *CLI) searchCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the dictionary by character, pinyin or definition",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClient()
			if err != nil {
				return err
			}
			q := strings.Join(args, " ")
			results, err := cl.Search(cmd.Context(), q, limit)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				printInfo("No matches for %q", q)
				return nil
			}
			for _, r := range results {
				mark := "  "
				if r.Known {
					mark = styleIconSuccess.Render(iconSuccess) + " "
				}
				fmt.Fprint(stdout, mark)
				printWord(r.Word)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (default 20)")
	return cmd
}
