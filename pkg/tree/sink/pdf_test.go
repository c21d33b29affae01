package sink

import (
	"bytes"
	"testing"

	"github.com/matzehuels/hanzitree/pkg/tree"
)

func TestRenderPDF(t *testing.T) {
	tests := []struct {
		name   string
		layout tree.Layout
	}{
		{"cards", sampleLayout(12)},
		{"empty", tree.Build(nil, 800)},
		{"zero viewport", tree.Build(tree.Cards(make([]tree.Card, 3)), 0)},
		{"opaque", tree.Build([]tree.Item{tree.Opaque{ID: "x", Content: "≈ü"}}, 300)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := RenderPDF(tt.layout, WithPDFPinyin())
			if err != nil {
				t.Fatalf("RenderPDF() error: %v", err)
			}
			if !bytes.HasPrefix(data, []byte("%PDF-")) {
				t.Errorf("output does not start with a PDF header: %q", data[:min(len(data), 8)])
			}
		})
	}
}

func TestRenderPDFMissingFont(t *testing.T) {
	_, err := RenderPDF(sampleLayout(2), WithPDFFont("/nonexistent/font.ttf"))
	if err == nil {
		t.Error("RenderPDF() with missing font should fail")
	}
}

func TestASCIIFold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"nǐ hǎo", "ni hao"},
		{"lǜ", "lu"},
		{"水", ""},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := asciiFold(tt.in); got != tt.want {
			t.Errorf("asciiFold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
