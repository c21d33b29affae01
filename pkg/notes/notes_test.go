package notes

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/hanzitree/pkg/hanzi"
)

func TestApply(t *testing.T) {
	learned := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := hanzi.Character{
		ID:        7,
		Word:      hanzi.Word{Character: "好", Pinyin: "hǎo", Definition: "good"},
		CreatedAt: learned,
	}

	tests := []struct {
		name  string
		entry Entry
		want  [3]string // pinyin, definition, notes
	}{
		{"no entry", Entry{}, [3]string{"hǎo", "good", ""}},
		{"notes only", Entry{Notes: " 女 + 子 "}, [3]string{"hǎo", "good", "女 + 子"}},
		{"overrides", Entry{Pinyin: "hào", Definition: "to like"}, [3]string{"hào", "to like", ""}},
		{"blank override ignored", Entry{Pinyin: "  "}, [3]string{"hǎo", "good", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := Apply(c, tt.entry)
			if card.ID != "7" || card.Character != "好" || !card.LearnedAt.Equal(learned) {
				t.Errorf("identity fields = %+v", card)
			}
			got := [3]string{card.Pinyin, card.Definition, card.Notes}
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntryIsZero(t *testing.T) {
	if !(Entry{UpdatedAt: time.Now()}).IsZero() {
		t.Error("timestamp-only entry should be zero")
	}
	if (Entry{Notes: "x"}).IsZero() {
		t.Error("entry with notes should not be zero")
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Set(ctx, "2", Entry{Notes: "water radical"}); err != nil {
		t.Fatal(err)
	}
	chars := []hanzi.Character{
		{ID: 1, Word: hanzi.Word{Character: "一"}},
		{ID: 2, Word: hanzi.Word{Character: "水"}},
	}

	cards, err := Resolve(ctx, s, chars)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(cards) != 2 || cards[0].Character != "一" || cards[1].Notes != "water radical" {
		t.Errorf("Resolve() = %+v", cards)
	}

	cards, err = Resolve(ctx, nil, chars)
	if err != nil || len(cards) != 2 {
		t.Errorf("Resolve(nil store) = %v, %v", cards, err)
	}
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "1"); err != nil || ok {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}
	if err := s.Set(ctx, "1", Entry{Notes: "one"}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	e, ok, err := s.Get(ctx, "1")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if e.Notes != "one" || e.UpdatedAt.IsZero() {
		t.Errorf("Get() = %+v", e)
	}

	if err := s.Set(ctx, "1", Entry{Notes: "uno"}); err != nil {
		t.Fatalf("Set(overwrite) error: %v", err)
	}
	if e, _, _ := s.Get(ctx, "1"); e.Notes != "uno" {
		t.Errorf("after overwrite Notes = %q", e.Notes)
	}

	if err := s.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "1"); ok {
		t.Error("entry still present after Delete")
	}
	if err := s.Delete(ctx, "1"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "notes.json"))
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	testStore(t, s)
}

func TestFileStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.json")
	stamp := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Entry{Notes: "sun", Pinyin: "rì", Definition: "day", UpdatedAt: stamp}
	if err := s.Set(ctx, "4", want); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	got, ok, err := reopened.Get(ctx, "4")
	if err != nil || !ok {
		t.Fatalf("Get() after reopen = %v, %v", ok, err)
	}
	if got.Notes != want.Notes || got.Pinyin != want.Pinyin || got.Definition != want.Definition || !got.UpdatedAt.Equal(stamp) {
		t.Errorf("Get() after reopen = %+v, want %+v", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the notes file", len(entries))
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore()
	if err := s.Set(ctx, "1", Entry{Notes: "x"}); err == nil {
		t.Error("Set() with canceled context should fail")
	}
}
