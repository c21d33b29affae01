package styles

import (
	"bytes"
	"slices"
	"strings"
)

// Style defines the visual appearance of a rendered card tree.
// Implementations control how cards, connectors and labels are drawn.
type Style interface {
	// RenderDefs writes SVG <defs> content (filters, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderCard writes the SVG for a single card shape.
	RenderCard(buf *bytes.Buffer, c Card)
	// RenderConnector writes the SVG for a child-to-parent connector.
	RenderConnector(buf *bytes.Buffer, c Connector)
	// RenderLabel writes the SVG for a card's text.
	RenderLabel(buf *bytes.Buffer, c Card)
}

// Card contains all data needed to render a single card.
type Card struct {
	ID         string  // Item key
	Character  string  // Main glyph (empty for opaque items)
	Pinyin     string  // Shown under the glyph when non-empty
	Definition string  // Used for the hover title
	Notes      string  // Used for the hover title
	Learned    string  // Formatted learn date, empty if unknown
	Content    string  // Raw text of an opaque item
	Opaque     bool    // Whether the card is a pre-rendered node
	X, Y, Size float64 // Top-left corner and side length
	CX, CY     float64 // Center coordinates
}

// Title returns the hover text for the card.
func (c Card) Title() string {
	if c.Opaque {
		return c.Content
	}
	parts := make([]string, 0, 4)
	for _, s := range []string{c.Character, c.Pinyin, c.Definition, c.Notes} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}

// Connector contains the data for one connector curve.
type Connector struct {
	FromID, ToID string // Child and parent keys
	Path         string // SVG path data
}

var registry = map[string]func() Style{
	"simple":   func() Style { return Simple{} },
	"flipcard": func() Style { return FlipCard{} },
}

// Lookup returns the style registered under name.
func Lookup(name string) (Style, bool) {
	f, ok := registry[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Names lists the registered style names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
