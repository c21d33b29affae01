package styles

import (
	"bytes"
	"fmt"
)

const (
	flipBack      = "#6b7a8f"
	flipBackEdge  = "#5a6a7f"
	flipLabel     = "#b8b8b8"
	connectorBlue = "#142a63"
)

// FlipCard draws each card as a slate-blue back with a white front offset
// on top of it, joined by dark blue connectors.
type FlipCard struct{}

func (FlipCard) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <filter id="card-shadow" x="-10%" y="-10%" width="130%" height="130%">
      <feDropShadow dx="0" dy="2" stdDeviation="3" flood-color="#000000" flood-opacity="0.08"/>
    </filter>
  </defs>
`)
}

func (FlipCard) RenderCard(buf *bytes.Buffer, c Card) {
	offset := c.Size * 0.055
	side := c.Size - offset
	border := c.Size * 0.08
	rx := c.Size * 0.2

	fmt.Fprintf(buf, `  <g id="card-%s" class="card" filter="url(#card-shadow)">`, EscapeXML(c.ID))
	WriteTitle(buf, c.Title())
	buf.WriteString("\n")
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>`+"\n",
		c.X, c.Y, side, side, rx, flipBack, flipBackEdge, border)
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="white" stroke="%s" stroke-width="%.2f"/>`+"\n",
		c.X+offset, c.Y+offset, side, side, rx, flipBack, border)
	buf.WriteString("  </g>\n")
}

func (FlipCard) RenderConnector(buf *bytes.Buffer, c Connector) {
	fmt.Fprintf(buf, `  <path class="connector" d="%s" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n", c.Path, connectorBlue)
}

func (FlipCard) RenderLabel(buf *bytes.Buffer, c Card) {
	if c.Learned != "" && !c.Opaque {
		fmt.Fprintf(buf, `  <text class="card-date" x="%.2f" y="%.2f" text-anchor="end" font-family="sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
			c.X+c.Size, c.Y-4, PinyinFontSize(c), flipLabel, EscapeXML(c.Learned))
	}
	shifted := c
	shifted.CX += c.Size * 0.0275
	shifted.CY += c.Size * 0.0275
	renderLabel(buf, shifted, "#000000", flipBack)
}
