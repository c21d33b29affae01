package sink

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/hanzitree/pkg/tree"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style string
}

// WithJSONStyle records the style name (e.g., "simple", "flipcard") in the
// JSON output so the document can be re-rendered the same way.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

type jsonOutput struct {
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	CardSize   float64         `json:"card_size"`
	Gap        float64         `json:"gap"`
	VSpacing   float64         `json:"vspacing"`
	Style      string          `json:"style,omitempty"`
	Schedule   tree.Schedule   `json:"schedule"`
	Config     tree.Config     `json:"config"`
	Tiers      [][]string      `json:"tiers"`
	Cards      []jsonCard      `json:"cards"`
	Connectors []jsonConnector `json:"connectors"`
}

type jsonCard struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"` // "card" or "opaque"
	Tier       int     `json:"tier"`
	Index      int     `json:"index"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Character  string  `json:"character,omitempty"`
	Pinyin     string  `json:"pinyin,omitempty"`
	Definition string  `json:"definition,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	LearnedAt  string  `json:"learned_at,omitempty"`
	Content    string  `json:"content,omitempty"`
}

type jsonConnector struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
	Path   string `json:"path"`
	tree.Connector
}

const (
	kindCard   = "card"
	kindOpaque = "opaque"
)

// RenderJSON exports the layout as a pretty-printed JSON document: frame
// and card sizes, tier membership by item key, every card with its position
// and display fields, and every connector with its path.
//
// The document carries the schedule and sizing config so [ReadJSON] can
// restore the layout without recomputing it.
func RenderJSON(l tree.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:      l.Width,
		Height:     l.Height,
		CardSize:   l.CardSize,
		Gap:        l.Gap,
		VSpacing:   l.VSpacing,
		Style:      r.style,
		Schedule:   l.Schedule,
		Config:     l.Config,
		Tiers:      buildJSONTiers(l),
		Cards:      buildJSONCards(l),
		Connectors: buildJSONConnectors(l),
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONTiers(l tree.Layout) [][]string {
	tiers := make([][]string, len(l.Tiers))
	for i, t := range l.Tiers {
		ids := make([]string, len(t))
		for j, it := range t {
			ids[j] = it.Key()
		}
		tiers[i] = ids
	}
	return tiers
}

func buildJSONCards(l tree.Layout) []jsonCard {
	placed := l.Placed()
	cards := make([]jsonCard, 0, len(placed))
	for _, p := range placed {
		jc := jsonCard{
			ID:    p.Item.Key(),
			Kind:  kindOpaque,
			Tier:  p.Tier,
			Index: p.Index,
			X:     p.X,
			Y:     p.Y,
		}
		if c, ok := tree.AsCard(p.Item); ok {
			jc.Kind = kindCard
			jc.Character = c.Character
			jc.Pinyin = c.Pinyin
			jc.Definition = c.Definition
			jc.Notes = c.Notes
			if !c.LearnedAt.IsZero() {
				jc.LearnedAt = c.LearnedAt.UTC().Format(time.RFC3339)
			}
		} else if o, ok := tree.AsOpaque(p.Item); ok {
			jc.Content = o.Content
		}
		cards = append(cards, jc)
	}
	return cards
}

func buildJSONConnectors(l tree.Layout) []jsonConnector {
	conns := make([]jsonConnector, 0, len(l.Connectors))
	for _, c := range l.Connectors {
		child, parent, ok := l.Endpoints(c)
		if !ok {
			continue
		}
		conns = append(conns, jsonConnector{
			FromID:    child.Key(),
			ToID:      parent.Key(),
			Path:      c.Path(),
			Connector: c,
		})
	}
	return conns
}

// ReadJSON restores a layout written by [RenderJSON].
func ReadJSON(data []byte) (tree.Layout, error) {
	var in jsonOutput
	if err := json.Unmarshal(data, &in); err != nil {
		return tree.Layout{}, fmt.Errorf("decode layout: %w", err)
	}

	l := tree.Layout{
		Schedule: in.Schedule,
		Config:   in.Config,
		Geometry: tree.Geometry{
			CardSize:   in.CardSize,
			Gap:        in.Gap,
			VSpacing:   in.VSpacing,
			Width:      in.Width,
			Height:     in.Height,
			Connectors: make([]tree.Connector, 0, len(in.Connectors)),
		},
	}

	l.Tiers = make([][]tree.Item, len(in.Tiers))
	l.Positions = make([][]tree.Point, len(in.Tiers))
	for i, ids := range in.Tiers {
		l.Tiers[i] = make([]tree.Item, len(ids))
		l.Positions[i] = make([]tree.Point, len(ids))
	}

	for _, jc := range in.Cards {
		if jc.Tier < 0 || jc.Tier >= len(in.Tiers) || jc.Index < 0 || jc.Index >= len(in.Tiers[jc.Tier]) {
			return tree.Layout{}, fmt.Errorf("card %q: slot %d/%d out of range", jc.ID, jc.Tier, jc.Index)
		}
		if in.Tiers[jc.Tier][jc.Index] != jc.ID {
			return tree.Layout{}, fmt.Errorf("card %q: tier %d lists %q at index %d", jc.ID, jc.Tier, in.Tiers[jc.Tier][jc.Index], jc.Index)
		}
		it, err := jc.item()
		if err != nil {
			return tree.Layout{}, err
		}
		l.Tiers[jc.Tier][jc.Index] = it
		l.Positions[jc.Tier][jc.Index] = tree.Point{X: jc.X, Y: jc.Y}
	}

	for i, t := range l.Tiers {
		for j, it := range t {
			if it == nil {
				return tree.Layout{}, fmt.Errorf("tier %d: no card for %q", i, in.Tiers[i][j])
			}
		}
	}

	for _, c := range in.Connectors {
		l.Connectors = append(l.Connectors, c.Connector)
	}
	return l, nil
}

func (jc jsonCard) item() (tree.Item, error) {
	switch jc.Kind {
	case kindCard:
		c := tree.Card{
			ID:         jc.ID,
			Character:  jc.Character,
			Pinyin:     jc.Pinyin,
			Definition: jc.Definition,
			Notes:      jc.Notes,
		}
		if jc.LearnedAt != "" {
			t, err := time.Parse(time.RFC3339, jc.LearnedAt)
			if err != nil {
				return nil, fmt.Errorf("card %q: learned_at: %w", jc.ID, err)
			}
			c.LearnedAt = t
		}
		return c, nil
	case kindOpaque:
		return tree.Opaque{ID: jc.ID, Content: jc.Content}, nil
	default:
		return nil, fmt.Errorf("card %q: unknown kind %q", jc.ID, jc.Kind)
	}
}
