package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hanzitree/pkg/errors"
	"github.com/matzehuels/hanzitree/pkg/pipeline"
	"github.com/matzehuels/hanzitree/pkg/tree"
)

// layoutCommand lays out cards from a file without a server or storage.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  renderFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout <items.json>",
		Short: "Lay out cards from a JSON file",
		Long: `Lay out cards from a JSON file, without a server or storage.

The file is a JSON array. Each element is either a string (a character)
or an object:

  {"id": "7", "character": "好", "pinyin": "hǎo", "definition": "good",
   "notes": "...", "learned_at": "2024-05-01T10:00:00Z"}

Objects without a character become placeholder cards; their "content" is
drawn instead. Missing ids are filled with the element's position, or the
next free number when that id is taken.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.cfg.Render())
			if err != nil {
				return err
			}
			opts.Logger = c.Logger
			input := args[0]
			fallback := strings.TrimSuffix(input, filepath.Ext(input)) + ".layout"
			return c.runLayout(cmd.Context(), input, opts, outputPaths(output, fallback, opts.Formats))
		},
	}

	flags.register(cmd, pipeline.FormatJSON)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or base path for several formats (default: <input>.layout.<ext>)")
	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, paths map[string]string) error {
	items, err := readItems(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("read items", "path", input, "items", len(items))

	runner := c.newRunner(ctx)
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.ExecuteItems(ctx, items, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Laid out %d cards in %d tiers", result.Stats.CardCount, result.Stats.TierCount))

	printSuccess("Layout complete")
	if err := writeArtifacts(result.Artifacts, opts.Formats, paths); err != nil {
		return err
	}
	printStats(result.Stats.CardCount, result.Stats.TierCount, result.CacheInfo.LayoutHit)
	return nil
}

// itemInput is one element of a layout input file.
type itemInput struct {
	ID         string    `json:"id"`
	Character  string    `json:"character"`
	Pinyin     string    `json:"pinyin"`
	Definition string    `json:"definition"`
	Notes      string    `json:"notes"`
	LearnedAt  time.Time `json:"learned_at"`
	Content    string    `json:"content"`
}

// readItems parses a layout input file.
func readItems(path string) ([]tree.Item, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "items file not found: %s", path)
		}
		return nil, fmt.Errorf("read items: %w", err)
	}
	return parseItems(data)
}

func parseItems(data []byte) ([]tree.Item, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "items must be a JSON array")
	}

	inputs := make([]itemInput, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, r := range raw {
		in := &inputs[i]
		if r = bytes.TrimSpace(r); len(r) > 0 && r[0] == '"' {
			if err := json.Unmarshal(r, &in.Character); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "item %d", i)
			}
		} else if err := json.Unmarshal(r, in); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "item %d", i)
		}
		if in.ID == "" {
			continue
		}
		if seen[in.ID] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "item %d: duplicate id %q", i, in.ID)
		}
		seen[in.ID] = true
	}

	// Items without an id take their position, or the next free number.
	items := make([]tree.Item, 0, len(inputs))
	next := 1
	for i, in := range inputs {
		if in.ID == "" {
			next = max(next, i+1)
			for seen[strconv.Itoa(next)] {
				next++
			}
			in.ID = strconv.Itoa(next)
			seen[in.ID] = true
		}

		in.Character = strings.TrimSpace(in.Character)
		if in.Character == "" {
			items = append(items, tree.Opaque{ID: in.ID, Content: in.Content})
			continue
		}
		items = append(items, tree.Card{
			ID:         in.ID,
			Character:  in.Character,
			Pinyin:     in.Pinyin,
			Definition: in.Definition,
			Notes:      in.Notes,
			LearnedAt:  in.LearnedAt,
		})
	}
	return items, nil
}
