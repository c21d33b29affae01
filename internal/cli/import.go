package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hanzitree/pkg/dictionary"
	"github.com/matzehuels/hanzitree/pkg/errors"
	"github.com/matzehuels/hanzitree/pkg/store"
)

// importCommand bulk-adds words from a CSV or XLSX file into local storage.
func (c *CLI) importCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Mark every word in a CSV or XLSX file as known",
		Long: `Mark every word in a CSV or XLSX file as known, writing straight to the
configured storage.

The first row names the columns. Recognized headers include
Chinese/Character/Hanzi, Pinyin, English/Definition, Jyutping and Example.
Words that are already known are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp, err := dictionary.ReadFile(args[0])
			if err != nil {
				return err
			}
			for _, w := range imp.Warnings {
				printWarning("%s", w)
			}
			if dryRun {
				for _, w := range imp.Words {
					printWord(w)
				}
				printInfo("%d words would be imported", len(imp.Words))
				return nil
			}

			data, err := c.openLocal(cmd.Context())
			if err != nil {
				return err
			}
			defer data.Close()

			res, err := c.importWords(cmd.Context(), data.repo, imp)
			if err != nil {
				return err
			}
			printSuccess("Imported %d words", res.added)
			if res.skipped > 0 {
				printDetail("%d already known", res.skipped)
			}
			if res.invalid > 0 {
				printDetail("%d invalid", res.invalid)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the words without storing them")
	return cmd
}

type importResult struct {
	added, skipped, invalid int
}

func (c *CLI) importWords(ctx context.Context, repo store.Repository, imp dictionary.Import) (importResult, error) {
	var res importResult
	prog := newProgress(c.Logger)

	spinner := newSpinner(ctx, fmt.Sprintf("Importing %d words...", len(imp.Words)))
	spinner.Start()
	defer spinner.Stop()

	for _, w := range imp.Words {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		_, err := repo.Create(ctx, w)
		switch {
		case err == nil:
			res.added++
		case errors.Is(err, errors.ErrCodeAlreadyExists):
			res.skipped++
		case errors.Is(err, errors.ErrCodeInvalidCharacter):
			c.Logger.Debug("skipping invalid word", "character", w.Character, "err", err)
			res.invalid++
		default:
			return res, fmt.Errorf("add %q: %w", w.Character, err)
		}
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Imported %d words", res.added))
	return res, nil
}
