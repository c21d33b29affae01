// Package store defines the character repository: the persistent set of
// known characters, ordered by when they were learned.
//
// Backends live in subpackages:
//
//   - memory: in-process maps, for tests and throwaway sessions
//   - sqlite: a single-file database (modernc.org/sqlite, no cgo)
//   - mongo: a MongoDB collection for shared deployments
//
// Every backend is safe for concurrent use and honors context
// cancellation. The shared behavior is pinned down by the storetest
// conformance suite.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/hanzitree/pkg/errors"
	"github.com/matzehuels/hanzitree/pkg/hanzi"
)

// DefaultLimit is the page size used when ListOptions.Limit is zero.
const DefaultLimit = 100

var (
	// ErrNotFound indicates a requested character is missing.
	ErrNotFound = errors.New(errors.ErrCodeNotFound, "Character not found")
	// ErrAlreadyExists indicates the character is already known.
	ErrAlreadyExists = errors.New(errors.ErrCodeAlreadyExists, "Word already known!")
)

// Repository stores known characters.
type Repository interface {
	// List returns characters ordered by creation time, then ID.
	List(ctx context.Context, opts ListOptions) ([]hanzi.Character, error)
	// Get returns the character with the given ID or ErrNotFound.
	Get(ctx context.Context, id int64) (hanzi.Character, error)
	// GetByCharacter returns the record for a headword or ErrNotFound.
	GetByCharacter(ctx context.Context, character string) (hanzi.Character, error)
	// Create stores w as a new known character. It returns
	// ErrAlreadyExists when the headword is already stored.
	Create(ctx context.Context, w hanzi.Word) (hanzi.Character, error)
	// Delete removes a character and returns the removed record, or
	// ErrNotFound.
	Delete(ctx context.Context, id int64) (hanzi.Character, error)
	// Count returns the number of stored characters.
	Count(ctx context.Context) (int, error)
	// Close releases the backend's resources.
	Close() error
}

// ListOptions selects a window of the ordered character list.
type ListOptions struct {
	Offset int // Records to skip; negative is treated as zero
	Limit  int // Zero means DefaultLimit; negative means no limit
}

// Window returns the [lo, hi) slice bounds of the selected records in a
// list of n.
func (o ListOptions) Window(n int) (lo, hi int) {
	lo = min(max(o.Offset, 0), n)
	switch {
	case o.Limit < 0:
		hi = n
	case o.Limit == 0:
		hi = min(lo+DefaultLimit, n)
	default:
		hi = min(lo+o.Limit, n)
	}
	return lo, hi
}

// All lists every record.
var All = ListOptions{Limit: -1}

// Prepare normalizes and validates a word before it is stored.
func Prepare(w hanzi.Word) (hanzi.Word, error) {
	w = w.Normalize()
	if err := w.Validate(); err != nil {
		return hanzi.Word{}, err
	}
	return w, nil
}

// Now returns the creation timestamp for a new record, truncated to the
// millisecond precision every backend can store.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// KnownSet returns the headwords of every stored character.
func KnownSet(ctx context.Context, r Repository) (map[string]bool, error) {
	chars, err := r.List(ctx, All)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(chars))
	for _, c := range chars {
		known[c.Character] = true
	}
	return known, nil
}
