package tree

import (
	"fmt"
	"testing"
)

func testCards(n int) []Item {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = Card{ID: fmt.Sprintf("c%d", i), Character: string(rune('一' + i))}
	}
	return Cards(cards)
}

func TestBuild(t *testing.T) {
	l := Build(testCards(12), 1200)

	if l.Len() != 12 {
		t.Errorf("Len() = %d, want 12", l.Len())
	}
	if len(l.Tiers) != 2 || len(l.Positions) != 2 {
		t.Fatalf("tiers, positions = %d, %d, want 2, 2", len(l.Tiers), len(l.Positions))
	}
	if got := l.Tiers[1][0].Key(); got != "c0" {
		t.Errorf("Tiers[1][0] = %s, want c0", got)
	}
	if got := l.Tiers[0][0].Key(); got != "c8" {
		t.Errorf("Tiers[0][0] = %s, want c8", got)
	}
	if len(l.Connectors) != 4 {
		t.Errorf("len(Connectors) = %d, want 4", len(l.Connectors))
	}
}

func TestBuildOptions(t *testing.T) {
	s := Schedule{Capacities: []int{2}, Overflow: 3}
	cfg := DefaultConfig()
	cfg.MaxCardWidth = 80

	l := Build(testCards(7), 1200, WithSchedule(s), WithConfig(cfg))
	want := []int{2, 3, 2}
	got := TierLengths(l.Tiers)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("tier lengths = %v, want %v", got, want)
	}
	if l.CardSize != 80 {
		t.Errorf("CardSize = %v, want 80", l.CardSize)
	}
}

func TestBuildEmpty(t *testing.T) {
	l := Build(nil, 800)
	if l.Len() != 0 || len(l.Tiers) != 0 || len(l.Connectors) != 0 {
		t.Errorf("empty build = %+v, want no tiers", l)
	}
	if placed := l.Placed(); len(placed) != 0 {
		t.Errorf("Placed() = %v, want empty", placed)
	}
}

func TestBuildMixedItems(t *testing.T) {
	items := []Item{
		Card{ID: "a", Character: "爱"},
		Opaque{ID: "x", Content: "?"},
		Card{ID: "b", Character: "八"},
	}
	l := Build(items, 600)
	placed := l.Placed()
	if len(placed) != 3 {
		t.Fatalf("len(Placed()) = %d, want 3", len(placed))
	}
	if _, ok := AsCard(placed[1].Item); ok {
		t.Error("opaque item reported as card")
	}
	if c, ok := AsCard(placed[2].Item); !ok || c.Character != "八" {
		t.Errorf("AsCard(placed[2]) = %v, %v", c, ok)
	}
}

func TestPlaced(t *testing.T) {
	l := Build(testCards(12), 1200)
	for _, p := range l.Placed() {
		want := l.Positions[p.Tier][p.Index]
		if p.Point != want {
			t.Errorf("%s at %v, want %v", p.Item.Key(), p.Point, want)
		}
		if it, _ := l.At(p.Tier, p.Index); it.Key() != p.Item.Key() {
			t.Errorf("At(%d, %d) = %s, want %s", p.Tier, p.Index, it.Key(), p.Item.Key())
		}
	}
}

func TestAtOutOfRange(t *testing.T) {
	l := Build(testCards(3), 800)
	for _, ij := range [][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 3}} {
		if _, ok := l.At(ij[0], ij[1]); ok {
			t.Errorf("At(%d, %d) ok, want out of range", ij[0], ij[1])
		}
	}
}

func TestEndpoints(t *testing.T) {
	l := Build(testCards(12), 1200)
	for _, c := range l.Connectors {
		child, parent, ok := l.Endpoints(c)
		if !ok {
			t.Fatalf("Endpoints(%+v) not found", c)
		}
		if child.Key() == parent.Key() {
			t.Errorf("connector joins %s to itself", child.Key())
		}
	}
	child, parent, _ := l.Endpoints(l.Connectors[3])
	if child.Key() != "c11" || parent.Key() != "c6" {
		t.Errorf("Endpoints = %s -> %s, want c11 -> c6", child.Key(), parent.Key())
	}
}

func TestAsCardPointer(t *testing.T) {
	c := &Card{ID: "p"}
	if got, ok := AsCard(c); !ok || got.ID != "p" {
		t.Errorf("AsCard(*Card) = %v, %v", got, ok)
	}
	var nilCard *Card
	if _, ok := AsCard(nilCard); ok {
		t.Error("AsCard(nil *Card) ok, want false")
	}
}

func TestAsOpaquePointer(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
		ok   bool
	}{
		{"value", Opaque{ID: "v", Content: "a"}, "a", true},
		{"pointer", &Opaque{ID: "p", Content: "b"}, "b", true},
		{"nil pointer", (*Opaque)(nil), "", false},
		{"card", Card{ID: "c"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsOpaque(tt.item)
			if ok != tt.ok || got.Content != tt.want {
				t.Errorf("AsOpaque() = %v, %v, want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
