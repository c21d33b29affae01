package sink

import (
	"bytes"
	"fmt"
	"math"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/hanzitree/pkg/tree"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	fontPath string
	pinyin   bool
	margin   float64
}

// WithPDFFont embeds a TrueType font with CJK coverage. Without it the PDF
// uses a core font, which cannot draw Chinese glyphs: cards then show their
// pinyin (tone marks removed) or their key.
func WithPDFFont(path string) PDFOption { return func(r *pdfRenderer) { r.fontPath = path } }

// WithPDFPinyin prints pinyin under each character.
func WithPDFPinyin() PDFOption { return func(r *pdfRenderer) { r.pinyin = true } }

// WithPDFMargin sets the page margin in points.
func WithPDFMargin(m float64) PDFOption { return func(r *pdfRenderer) { r.margin = m } }

const (
	pdfUnicodeFont = "cjk"
	pdfCoreFont    = "Helvetica"
)

// RenderPDF draws the layout on a single page sized to fit it, one layout
// pixel per point.
func RenderPDF(l tree.Layout, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{margin: 20}
	for _, opt := range opts {
		opt(&r)
	}

	minX, width := horizontalExtent(l)
	pageW := math.Max(width, 1) + 2*r.margin
	pageH := math.Max(l.Height, 1) + 2*r.margin

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	family := pdfCoreFont
	if r.fontPath != "" {
		pdf.AddUTF8Font(pdfUnicodeFont, "", r.fontPath)
		family = pdfUnicodeFont
	}
	pdf.AddPage()

	ox, oy := r.margin-minX, r.margin

	pdf.SetDrawColor(0x14, 0x2a, 0x63)
	pdf.SetLineWidth(1.5)
	for _, c := range l.Connectors {
		pdf.CurveBezierCubic(
			ox+c.From.X, oy+c.From.Y,
			ox+c.C1.X, oy+c.C1.Y,
			ox+c.C2.X, oy+c.C2.Y,
			ox+c.To.X, oy+c.To.Y,
			"D")
	}

	size := l.CardSize
	pdf.SetDrawColor(0x6b, 0x7a, 0x8f)
	pdf.SetLineWidth(math.Max(size*0.05, 1))
	pdf.SetFillColor(255, 255, 255)
	for _, p := range l.Placed() {
		x, y := ox+p.X, oy+p.Y
		pdf.RoundedRect(x, y, size, size, size*0.2, "1234", "FD")

		main, sub := r.labels(p.Item, family == pdfUnicodeFont)
		pdf.SetTextColor(0, 0, 0)
		fontSize := size * 0.45
		if family == pdfCoreFont {
			fontSize = size * 0.18
		}
		pdf.SetFont(family, "", fontSize)
		tw := pdf.GetStringWidth(main)
		pdf.Text(x+(size-tw)/2, y+size/2+fontSize*0.35, main)

		if sub != "" {
			pdf.SetTextColor(0x6b, 0x7a, 0x8f)
			pdf.SetFont(family, "", size*0.13)
			sw := pdf.GetStringWidth(sub)
			pdf.Text(x+(size-sw)/2, y+size*0.88, sub)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// labels returns the main and secondary text for an item.
func (r pdfRenderer) labels(it tree.Item, unicodeFont bool) (main, sub string) {
	c, ok := tree.AsCard(it)
	if !ok {
		if o, ok := tree.AsOpaque(it); ok && o.Content != "" {
			main = o.Content
		} else {
			main = it.Key()
		}
		if !unicodeFont {
			main = asciiFold(main)
		}
		return main, ""
	}

	if unicodeFont {
		main = c.Character
		if r.pinyin {
			sub = c.Pinyin
		}
		return main, sub
	}
	if c.Pinyin != "" {
		return asciiFold(c.Pinyin), ""
	}
	return asciiFold(c.ID), ""
}

// asciiFold strips diacritics and drops anything outside printable ASCII.
func asciiFold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII || !unicode.IsPrint(r)
	})))
	out, _, err := transform.String(t, s)
	if err != nil {
		return ""
	}
	return out
}
