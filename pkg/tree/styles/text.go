package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"unicode/utf8"
)

const (
	glyphRatio     = 0.45
	pinyinRatio    = 0.14
	contentRatio   = 0.16
	fontSizeMin    = 8.0
	fontSizeMax    = 56.0
	contentCharFit = 0.6
)

// FontSize returns the glyph font size for a card.
func FontSize(c Card) float64 {
	if c.Opaque {
		n := max(1, utf8.RuneCountInString(c.Content))
		byWidth := c.Size * 0.85 / (float64(n) * contentCharFit)
		return clamp(min(c.Size*contentRatio*2, byWidth))
	}
	return clamp(c.Size * glyphRatio)
}

// PinyinFontSize returns the font size for the pinyin line.
func PinyinFontSize(c Card) float64 { return clamp(c.Size * pinyinRatio) }

func clamp(v float64) float64 { return max(fontSizeMin, min(fontSizeMax, v)) }

// Truncate shortens s to at most n runes, marking the cut with "..".
func Truncate(s string, n int) string {
	if n < 3 {
		n = 3
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-2]) + ".."
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// WriteTitle writes an SVG <title> element for hover text.
func WriteTitle(buf *bytes.Buffer, title string) {
	if title == "" {
		return
	}
	fmt.Fprintf(buf, "<title>%s</title>", EscapeXML(title))
}
