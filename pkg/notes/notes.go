// Package notes stores per-character annotations: free-text notes and
// display overrides for pinyin and definition.
//
// Entries are keyed by character ID and live outside the character
// repository, so editing a note never touches the stored record. The
// layout engine never reads this package either; the pipeline resolves
// entries into display cards with [Apply] before building a tree.
//
// Backends:
//   - [MemoryStore]: in-process, for tests and throwaway sessions
//   - [FileStore]: one JSON document on disk, for the CLI and single servers
//   - redis.Store: Redis-backed, for shared deployments
//
// Every backend persists a Set before returning.
package notes

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/hanzitree/pkg/hanzi"
	"github.com/matzehuels/hanzitree/pkg/tree"
)

// Entry is the annotation for one character.
type Entry struct {
	Notes      string    `json:"notes,omitempty"`
	Pinyin     string    `json:"pinyin,omitempty"`
	Definition string    `json:"definition,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsZero reports whether the entry carries no annotation.
func (e Entry) IsZero() bool {
	return strings.TrimSpace(e.Notes) == "" &&
		strings.TrimSpace(e.Pinyin) == "" &&
		strings.TrimSpace(e.Definition) == ""
}

// Store is the interface for notes backends.
type Store interface {
	// Get returns the entry for key. The bool is false when none exists.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Set stores e under key. UpdatedAt is filled in when zero.
	Set(ctx context.Context, key string, e Entry) error

	// Delete removes the entry for key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Stamp fills in UpdatedAt when unset.
func Stamp(e Entry) Entry {
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	return e
}

// Apply resolves the display card for c. Non-empty overrides in e win over
// the stored pinyin and definition.
func Apply(c hanzi.Character, e Entry) tree.Card {
	card := tree.Card{
		ID:         c.Key(),
		Character:  c.Character,
		Pinyin:     c.Pinyin,
		Definition: c.Definition,
		Notes:      strings.TrimSpace(e.Notes),
		LearnedAt:  c.CreatedAt,
	}
	if v := strings.TrimSpace(e.Pinyin); v != "" {
		card.Pinyin = v
	}
	if v := strings.TrimSpace(e.Definition); v != "" {
		card.Definition = v
	}
	return card
}

// Resolve loads the entry for each character and returns display cards in
// the same order.
func Resolve(ctx context.Context, s Store, chars []hanzi.Character) ([]tree.Card, error) {
	cards := make([]tree.Card, len(chars))
	for i, c := range chars {
		var e Entry
		if s != nil {
			var err error
			if e, _, err = s.Get(ctx, c.Key()); err != nil {
				return nil, err
			}
		}
		cards[i] = Apply(c, e)
	}
	return cards, nil
}
