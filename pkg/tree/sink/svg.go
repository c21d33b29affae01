package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/hanzitree/pkg/tree"
	"github.com/matzehuels/hanzitree/pkg/tree/styles"
)

const cardInteractionCSS = `
    .card { transition: opacity 0.2s ease; }
    .connector { transition: stroke-width 0.2s ease; }
    .connector.highlight { stroke-width: 3; }
    .card-text.highlight { font-weight: bold; }`

const cardInteractionJS = `
    function highlight(id) {
      document.querySelectorAll('.connector').forEach(c => c.classList.toggle('highlight', c.dataset.from === id || c.dataset.to === id));
      document.querySelectorAll('.card-text').forEach(t => t.classList.toggle('highlight', t.dataset.card === id));
    }
    function clearHighlight() {
      document.querySelectorAll('.connector, .card-text').forEach(el => el.classList.remove('highlight'));
    }
    document.querySelectorAll('.card').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.id.replace('card-', '')));
      el.addEventListener('mouseleave', clearHighlight);
    });`

// DateFormat is the layout used for the learned date shown on cards.
const DateFormat = "2006-01-02"

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       styles.Style
	background  string
	pinyin      bool
	interactive bool
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}
func WithPinyin() SVGOption      { return func(r *svgRenderer) { r.pinyin = true } }
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// RenderSVG draws l as a standalone SVG document. Connectors are drawn
// first so cards sit on top of them.
func RenderSVG(l tree.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	cards := buildCards(l, r.pinyin)
	minX, width := horizontalExtent(l)
	height := l.Height

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX, width, height, width, height)

	r.style.RenderDefs(&buf)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			minX, width, height, styles.EscapeXML(r.background))
	}

	for _, c := range buildConnectors(l) {
		var cb bytes.Buffer
		r.style.RenderConnector(&cb, c)
		buf.Write(tagConnector(cb.Bytes(), c))
	}
	for _, c := range cards {
		r.style.RenderCard(&buf, c)
	}
	for _, c := range cards {
		r.style.RenderLabel(&buf, c)
	}

	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", cardInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", cardInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// horizontalExtent covers the viewport and every card, so a layout computed
// for a viewport narrower than its widest tier is not clipped.
func horizontalExtent(l tree.Layout) (minX, width float64) {
	lo, hi := 0.0, l.Width
	for _, row := range l.Positions {
		for _, p := range row {
			lo = math.Min(lo, p.X)
			hi = math.Max(hi, p.X+l.CardSize)
		}
	}
	return lo, hi - lo
}

// tagConnector adds data-from/data-to attributes to a rendered connector so
// the interaction script can find it.
func tagConnector(svg []byte, c styles.Connector) []byte {
	attrs := fmt.Sprintf(`<path data-from="%s" data-to="%s" `, styles.EscapeXML(c.FromID), styles.EscapeXML(c.ToID))
	return bytes.Replace(svg, []byte("<path "), []byte(attrs), 1)
}

func buildCards(l tree.Layout, withPinyin bool) []styles.Card {
	placed := l.Placed()
	cards := make([]styles.Card, 0, len(placed))
	for _, p := range placed {
		c := styles.Card{
			ID:   p.Item.Key(),
			X:    p.X,
			Y:    p.Y,
			Size: l.CardSize,
			CX:   p.X + l.CardSize/2,
			CY:   p.Y + l.CardSize/2,
		}
		if card, ok := tree.AsCard(p.Item); ok {
			fillCard(&c, card, withPinyin)
		} else {
			c.Opaque = true
			if o, ok := tree.AsOpaque(p.Item); ok {
				c.Content = o.Content
			}
		}
		cards = append(cards, c)
	}
	return cards
}

func fillCard(c *styles.Card, it tree.Card, withPinyin bool) {
	c.Character = it.Character
	c.Definition = it.Definition
	c.Notes = it.Notes
	if withPinyin {
		c.Pinyin = it.Pinyin
	}
	if !it.LearnedAt.IsZero() {
		c.Learned = it.LearnedAt.Format(DateFormat)
	}
}

func buildConnectors(l tree.Layout) []styles.Connector {
	out := make([]styles.Connector, 0, len(l.Connectors))
	for _, c := range l.Connectors {
		child, parent, ok := l.Endpoints(c)
		if !ok {
			continue
		}
		out = append(out, styles.Connector{
			FromID: child.Key(),
			ToID:   parent.Key(),
			Path:   c.Path(),
		})
	}
	return out
}
