// Package storetest is a conformance suite for store.Repository backends.
package storetest

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/hanzitree/pkg/errors"
	"github.com/matzehuels/hanzitree/pkg/hanzi"
	"github.com/matzehuels/hanzitree/pkg/store"
)

// Factory returns an empty repository. The suite closes it.
type Factory func(t *testing.T) store.Repository

// Run exercises every Repository operation against fresh repositories.
func Run(t *testing.T, newRepo Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, r store.Repository)
	}{
		{"CreateGet", testCreateGet},
		{"CreateDuplicate", testCreateDuplicate},
		{"CreateInvalid", testCreateInvalid},
		{"GetMissing", testGetMissing},
		{"ListOrder", testListOrder},
		{"ListWindow", testListWindow},
		{"Delete", testDelete},
		{"Count", testCount},
		{"ConcurrentCreate", testConcurrentCreate},
		{"CanceledContext", testCanceledContext},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRepo(t)
			t.Cleanup(func() { _ = r.Close() })
			tt.fn(t, r)
		})
	}
}

func mustCreate(t *testing.T, r store.Repository, w hanzi.Word) hanzi.Character {
	t.Helper()
	c, err := r.Create(context.Background(), w)
	if err != nil {
		t.Fatalf("Create(%q) error: %v", w.Character, err)
	}
	return c
}

func testCreateGet(t *testing.T, r store.Repository) {
	ctx := context.Background()
	freq := 12.5
	before := time.Now().Add(-time.Second)
	c := mustCreate(t, r, hanzi.Word{
		Character:  " 水 ",
		Pinyin:     "shuǐ",
		Jyutping:   "seoi2",
		Definition: "water",
		Frequency:  &freq,
	})

	if c.ID <= 0 {
		t.Errorf("ID = %d, want positive", c.ID)
	}
	if c.Character != "水" {
		t.Errorf("Character = %q, want trimmed 水", c.Character)
	}
	if c.CreatedAt.Before(before) {
		t.Errorf("CreatedAt = %v, want recent", c.CreatedAt)
	}
	if c.Familiarity != 0 {
		t.Errorf("Familiarity = %d, want 0", c.Familiarity)
	}

	got, err := r.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Character != "水" || got.Pinyin != "shuǐ" || got.Jyutping != "seoi2" || got.Definition != "water" {
		t.Errorf("Get() = %+v", got)
	}
	if got.Frequency == nil || *got.Frequency != freq {
		t.Errorf("Frequency = %v, want %v", got.Frequency, freq)
	}
	if !got.CreatedAt.Equal(c.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, c.CreatedAt)
	}

	byChar, err := r.GetByCharacter(ctx, "水")
	if err != nil {
		t.Fatalf("GetByCharacter() error: %v", err)
	}
	if byChar.ID != c.ID {
		t.Errorf("GetByCharacter().ID = %d, want %d", byChar.ID, c.ID)
	}
}

func testCreateDuplicate(t *testing.T, r store.Repository) {
	mustCreate(t, r, hanzi.Word{Character: "火"})
	_, err := r.Create(context.Background(), hanzi.Word{Character: "火", Pinyin: "huǒ"})
	if !stderrors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate Create() error = %v, want ErrAlreadyExists", err)
	}
	if n, _ := r.Count(context.Background()); n != 1 {
		t.Errorf("Count() = %d after duplicate, want 1", n)
	}
}

func testCreateInvalid(t *testing.T, r store.Repository) {
	_, err := r.Create(context.Background(), hanzi.Word{Character: "  "})
	if !errors.Is(err, errors.ErrCodeInvalidCharacter) {
		t.Errorf("Create(blank) error = %v, want INVALID_CHARACTER", err)
	}
}

func testGetMissing(t *testing.T, r store.Repository) {
	ctx := context.Background()
	if _, err := r.Get(ctx, 999); !stderrors.Is(err, store.ErrNotFound) {
		t.Errorf("Get(999) error = %v, want ErrNotFound", err)
	}
	if _, err := r.GetByCharacter(ctx, "无"); !stderrors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByCharacter(无) error = %v, want ErrNotFound", err)
	}
}

func testListOrder(t *testing.T, r store.Repository) {
	ctx := context.Background()
	words := []string{"一", "二", "三", "四", "五"}
	for _, w := range words {
		mustCreate(t, r, hanzi.Word{Character: w})
	}

	got, err := r.List(ctx, store.ListOptions{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != len(words) {
		t.Fatalf("len(List()) = %d, want %d", len(got), len(words))
	}
	for i, c := range got {
		if c.Character != words[i] {
			t.Errorf("List()[%d] = %s, want %s", i, c.Character, words[i])
		}
		if i > 0 && c.CreatedAt.Before(got[i-1].CreatedAt) {
			t.Errorf("List() not ordered by creation time at %d", i)
		}
	}
}

func testListWindow(t *testing.T, r store.Repository) {
	ctx := context.Background()
	for i := range 12 {
		mustCreate(t, r, hanzi.Word{Character: fmt.Sprintf("字%d", i)})
	}

	tests := []struct {
		opts  store.ListOptions
		want  int
		first string
	}{
		{store.ListOptions{Offset: 0, Limit: 5}, 5, "字0"},
		{store.ListOptions{Offset: 10, Limit: 5}, 2, "字10"},
		{store.ListOptions{Offset: 20}, 0, ""},
		{store.All, 12, "字0"},
	}
	for _, tt := range tests {
		got, err := r.List(ctx, tt.opts)
		if err != nil {
			t.Fatalf("List(%+v) error: %v", tt.opts, err)
		}
		if len(got) != tt.want {
			t.Errorf("len(List(%+v)) = %d, want %d", tt.opts, len(got), tt.want)
			continue
		}
		if tt.want > 0 && got[0].Character != tt.first {
			t.Errorf("List(%+v)[0] = %s, want %s", tt.opts, got[0].Character, tt.first)
		}
	}
}

func testDelete(t *testing.T, r store.Repository) {
	ctx := context.Background()
	c := mustCreate(t, r, hanzi.Word{Character: "山", Definition: "mountain"})

	deleted, err := r.Delete(ctx, c.ID)
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if deleted.ID != c.ID || deleted.Definition != "mountain" {
		t.Errorf("Delete() = %+v, want the removed record", deleted)
	}
	if _, err := r.Get(ctx, c.ID); !stderrors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if _, err := r.Delete(ctx, c.ID); !stderrors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}

	// The headword can be learned again after removal.
	again := mustCreate(t, r, hanzi.Word{Character: "山"})
	if again.ID == c.ID {
		t.Errorf("re-created record reused ID %d", c.ID)
	}
}

func testCount(t *testing.T, r store.Repository) {
	ctx := context.Background()
	if n, err := r.Count(ctx); err != nil || n != 0 {
		t.Fatalf("Count() = %d, %v, want 0", n, err)
	}
	mustCreate(t, r, hanzi.Word{Character: "日"})
	mustCreate(t, r, hanzi.Word{Character: "月"})
	if n, err := r.Count(ctx); err != nil || n != 2 {
		t.Errorf("Count() = %d, %v, want 2", n, err)
	}

	known, err := store.KnownSet(ctx, r)
	if err != nil {
		t.Fatalf("KnownSet() error: %v", err)
	}
	if !known["日"] || !known["月"] || len(known) != 2 {
		t.Errorf("KnownSet() = %v", known)
	}
}

func testConcurrentCreate(t *testing.T, r store.Repository) {
	ctx := context.Background()
	const workers = 8

	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Create(ctx, hanzi.Word{Character: fmt.Sprintf("并%d", i)}); err != nil {
				errs <- err
			}
			// Every worker also races on the same headword.
			if _, err := r.Create(ctx, hanzi.Word{Character: "同"}); err != nil && !stderrors.Is(err, store.ErrAlreadyExists) {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Create() error: %v", err)
	}

	if n, _ := r.Count(ctx); n != workers+1 {
		t.Errorf("Count() = %d, want %d", n, workers+1)
	}
}

func testCanceledContext(t *testing.T, r store.Repository) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Create(ctx, hanzi.Word{Character: "停"}); err == nil {
		t.Error("Create() with canceled context should fail")
	}
	if _, err := r.List(ctx, store.All); err == nil {
		t.Error("List() with canceled context should fail")
	}
}
