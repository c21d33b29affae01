package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/hanzitree/pkg/tree"
)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorDim).
	Width(10).
	Align(lipgloss.Center)

var (
	cardFlippedStyle = cardStyle.Foreground(colorGreen)
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// slot addresses a card by tier and index within the tier.
type slot struct{ tier, index int }

// TreeModel is the bubbletea model for browsing a card tree. Tiers are
// drawn top-down, widest first, so the tree grows upward on screen.
type TreeModel struct {
	Layout  tree.Layout
	Cursor  slot
	Flipped map[string]bool
	Width   int
}

// NewTreeModel creates a browser positioned on the first card of the
// bottom tier.
func NewTreeModel(l tree.Layout) TreeModel {
	return TreeModel{Layout: l, Flipped: make(map[string]bool), Width: 80}
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.Cursor.index > 0 {
				m.Cursor.index--
			}
		case "right", "l":
			if m.Cursor.index < len(m.tier(m.Cursor.tier))-1 {
				m.Cursor.index++
			}
		case "up", "k":
			m.Cursor = m.move(m.Cursor.tier + 1)
		case "down", "j":
			m.Cursor = m.move(m.Cursor.tier - 1)
		case "enter", " ":
			if it, ok := m.Layout.At(m.Cursor.tier, m.Cursor.index); ok {
				if key := it.Key(); m.Flipped[key] {
					delete(m.Flipped, key)
				} else {
					m.Flipped[key] = true
				}
			}
		case "f":
			flip := !m.anyFlipped()
			for _, p := range m.Layout.Placed() {
				if flip {
					m.Flipped[p.Item.Key()] = true
				} else {
					delete(m.Flipped, p.Item.Key())
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
	}
	return m, nil
}

func (m TreeModel) anyFlipped() bool {
	for _, v := range m.Flipped {
		if v {
			return true
		}
	}
	return false
}

func (m TreeModel) tier(i int) []tree.Item {
	if i < 0 || i >= len(m.Layout.Tiers) {
		return nil
	}
	return m.Layout.Tiers[i]
}

// move jumps to tier t, keeping the horizontal position proportional.
func (m TreeModel) move(t int) slot {
	from, to := m.tier(m.Cursor.tier), m.tier(t)
	if len(to) == 0 || len(from) == 0 {
		return m.Cursor
	}
	idx := m.Cursor.index * len(to) / len(from)
	return slot{tier: t, index: min(idx, len(to)-1)}
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Known characters"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ card  ↑/↓ tier  ⏎ flip  f flip all  q quit"))
	b.WriteString("\n\n")

	if m.Layout.Len() == 0 {
		b.WriteString(listDimStyle.Render("  Nothing learned yet."))
		b.WriteString("\n")
		return b.String()
	}

	for t := len(m.Layout.Tiers) - 1; t >= 0; t-- {
		cards := make([]string, len(m.Layout.Tiers[t]))
		for j, it := range m.Layout.Tiers[t] {
			cards[j] = m.renderCard(slot{t, j}, it)
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
		b.WriteString(lipgloss.PlaceHorizontal(max(m.Width, lipgloss.Width(row)), lipgloss.Center, row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  tier %d/%d · card %d/%d · %d cards",
		m.Cursor.tier+1, len(m.Layout.Tiers), m.Cursor.index+1, len(m.tier(m.Cursor.tier)), m.Layout.Len())))
	return b.String()
}

func (m TreeModel) renderCard(s slot, it tree.Item) string {
	style := cardStyle
	if m.Flipped[it.Key()] {
		style = cardFlippedStyle
	}
	if s == m.Cursor {
		style = style.BorderForeground(colorCyan).Bold(true)
	}

	c, ok := tree.AsCard(it)
	if !ok {
		label := it.Key()
		if o, isOpaque := tree.AsOpaque(it); isOpaque && o.Content != "" {
			label = o.Content
		}
		return style.Render(truncate(label, 8))
	}
	if m.Flipped[it.Key()] {
		return style.Render(truncate(c.Pinyin, 8))
	}
	return style.Render(c.Character)
}

// detail describes the selected card below the tree.
func (m TreeModel) detail() string {
	it, ok := m.Layout.At(m.Cursor.tier, m.Cursor.index)
	if !ok {
		return ""
	}
	c, ok := tree.AsCard(it)
	if !ok {
		return listDimStyle.Render("  " + it.Key())
	}

	var b strings.Builder
	b.WriteString("  " + StyleHanzi.Render(c.Character))
	if m.Flipped[it.Key()] {
		for _, s := range []string{c.Pinyin, c.Definition} {
			if s != "" {
				b.WriteString("  " + StyleValue.Render(s))
			}
		}
		if c.Notes != "" {
			b.WriteString("\n  " + StyleDim.Render(c.Notes))
		}
		if !c.LearnedAt.IsZero() {
			b.WriteString("\n  " + StyleDim.Render("learned "+c.LearnedAt.Local().Format("2006-01-02")))
		}
	} else {
		b.WriteString("  " + listDimStyle.Render("(press enter to flip)"))
	}
	return b.String()
}
