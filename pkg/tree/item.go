package tree

import "time"

// Item is a renderable entry in the tree. The set of implementations is
// closed: an item is either a [Card] or an [Opaque] node (or a pointer to
// one), decided when the item is constructed. Use [AsCard] and [AsOpaque]
// to inspect it.
type Item interface {
	// Key identifies the item within a layout.
	Key() string
	isItem()
}

// Card is a data card for one character. All strings are already resolved
// for display (notes and edited fields applied by the caller).
type Card struct {
	ID         string
	Character  string
	Pinyin     string
	Definition string
	Notes      string
	LearnedAt  time.Time
}

// Key returns the card ID.
func (c Card) Key() string { return c.ID }

func (Card) isItem() {}

// Opaque is a pre-rendered node. The layout places it like any other item
// and renderers emit Content as text.
type Opaque struct {
	ID      string
	Content string
}

// Key returns the node ID.
func (o Opaque) Key() string { return o.ID }

func (Opaque) isItem() {}

// AsCard reports whether it is a data card and returns it.
func AsCard(it Item) (Card, bool) {
	switch v := it.(type) {
	case Card:
		return v, true
	case *Card:
		if v != nil {
			return *v, true
		}
	}
	return Card{}, false
}

// AsOpaque reports whether it is an opaque node and returns it.
func AsOpaque(it Item) (Opaque, bool) {
	switch v := it.(type) {
	case Opaque:
		return v, true
	case *Opaque:
		if v != nil {
			return *v, true
		}
	}
	return Opaque{}, false
}

// Cards wraps a slice of cards as items, preserving order.
func Cards(cards []Card) []Item {
	items := make([]Item, len(cards))
	for i, c := range cards {
		items[i] = c
	}
	return items
}
