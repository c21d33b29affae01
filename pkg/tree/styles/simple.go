package styles

import (
	"bytes"
	"fmt"
)

// Simple draws flat rounded squares joined by thin grey curves.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer) {}

func (Simple) RenderCard(buf *bytes.Buffer, c Card) {
	fill := "white"
	if c.Opaque {
		fill = "#f3f3f3"
	}
	fmt.Fprintf(buf, `  <rect id="card-%s" class="card" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="%s" stroke="#333333" stroke-width="2">`,
		EscapeXML(c.ID), c.X, c.Y, c.Size, c.Size, c.Size*0.12, fill)
	WriteTitle(buf, c.Title())
	buf.WriteString("</rect>\n")
}

func (Simple) RenderConnector(buf *bytes.Buffer, c Connector) {
	fmt.Fprintf(buf, `  <path class="connector" d="%s" fill="none" stroke="#999999" stroke-width="1.5"/>`+"\n", c.Path)
}

func (Simple) RenderLabel(buf *bytes.Buffer, c Card) {
	renderLabel(buf, c, "#000000", "#666666")
}

func renderLabel(buf *bytes.Buffer, c Card, glyphColor, pinyinColor string) {
	if c.Opaque {
		fmt.Fprintf(buf, `  <text class="card-text" data-card="%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
			EscapeXML(c.ID), c.CX, c.CY, FontSize(c), glyphColor, EscapeXML(c.Content))
		return
	}

	cy := c.CY
	if c.Pinyin != "" {
		cy -= PinyinFontSize(c) * 0.6
	}
	fmt.Fprintf(buf, `  <text class="card-text" data-card="%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="'MF Yansong', serif" font-weight="600" font-size="%.1f" fill="%s">%s</text>`+"\n",
		EscapeXML(c.ID), c.CX, cy, FontSize(c), glyphColor, EscapeXML(c.Character))
	if c.Pinyin != "" {
		fmt.Fprintf(buf, `  <text class="card-pinyin" x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
			c.CX, c.Y+c.Size*0.85, PinyinFontSize(c), pinyinColor, EscapeXML(c.Pinyin))
	}
}
