// Package memory provides an in-process character repository.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/hanzitree/pkg/hanzi"
	"github.com/matzehuels/hanzitree/pkg/store"
)

// Store keeps characters in maps guarded by a RWMutex. The zero value is
// not usable; call New.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]hanzi.Character
	byChar map[string]int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		byID:   make(map[int64]hanzi.Character),
		byChar: make(map[string]int64),
	}
}

func (s *Store) List(ctx context.Context, opts store.ListOptions) ([]hanzi.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	all := make([]hanzi.Character, 0, len(s.byID))
	for _, c := range s.byID {
		all = append(all, c)
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b hanzi.Character) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	lo, hi := opts.Window(len(all))
	return all[lo:hi:hi], nil
}

func (s *Store) Get(ctx context.Context, id int64) (hanzi.Character, error) {
	if err := ctx.Err(); err != nil {
		return hanzi.Character{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return hanzi.Character{}, store.ErrNotFound
	}
	return c, nil
}

func (s *Store) GetByCharacter(ctx context.Context, character string) (hanzi.Character, error) {
	if err := ctx.Err(); err != nil {
		return hanzi.Character{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byChar[character]
	if !ok {
		return hanzi.Character{}, store.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *Store) Create(ctx context.Context, w hanzi.Word) (hanzi.Character, error) {
	if err := ctx.Err(); err != nil {
		return hanzi.Character{}, err
	}
	w, err := store.Prepare(w)
	if err != nil {
		return hanzi.Character{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byChar[w.Character]; dup {
		return hanzi.Character{}, store.ErrAlreadyExists
	}
	s.nextID++
	c := hanzi.Character{ID: s.nextID, Word: w, CreatedAt: store.Now()}
	s.byID[c.ID] = c
	s.byChar[c.Character] = c.ID
	return c, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (hanzi.Character, error) {
	if err := ctx.Err(); err != nil {
		return hanzi.Character{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return hanzi.Character{}, store.ErrNotFound
	}
	delete(s.byID, id)
	delete(s.byChar, c.Character)
	return c, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

var _ store.Repository = (*Store)(nil)
