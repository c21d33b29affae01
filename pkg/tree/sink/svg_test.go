package sink

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/hanzitree/pkg/tree"
	"github.com/matzehuels/hanzitree/pkg/tree/styles"
)

func sampleLayout(n int) tree.Layout {
	cards := make([]tree.Card, n)
	for i := range cards {
		cards[i] = tree.Card{
			ID:         fmt.Sprint(i + 1),
			Character:  string(rune('一' + i)),
			Pinyin:     "yī",
			Definition: "one",
			LearnedAt:  time.Date(2024, 3, 1+i, 12, 0, 0, 0, time.UTC),
		}
	}
	return tree.Build(tree.Cards(cards), 1200)
}

func TestRenderSVGConnectors(t *testing.T) {
	tests := []struct {
		name  string
		style styles.Style
	}{
		{"simple", styles.Simple{}},
		{"flipcard", styles.FlipCard{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sampleLayout(20)
			svg := string(RenderSVG(l, WithStyle(tt.style)))

			if got := strings.Count(svg, "<path "); got != len(l.Connectors) {
				t.Errorf("path count = %d, want %d", got, len(l.Connectors))
			}
			if got := strings.Count(svg, `class="card"`); got != 20 {
				t.Errorf("card count = %d, want 20", got)
			}
			if !strings.HasPrefix(svg, "<svg ") || !strings.HasSuffix(svg, "</svg>\n") {
				t.Error("output is not a complete svg document")
			}
		})
	}
}

func TestRenderSVGConnectorData(t *testing.T) {
	l := sampleLayout(12)
	svg := string(RenderSVG(l, WithInteraction()))

	// Child "9" (first of the lower tier) hangs from card "1".
	if !strings.Contains(svg, `data-from="9" data-to="1"`) {
		t.Errorf("missing connector 9 -> 1")
	}
	if !strings.Contains(svg, "<script") {
		t.Error("interaction script missing")
	}
}

func TestRenderSVGPinyin(t *testing.T) {
	l := sampleLayout(3)
	if strings.Contains(string(RenderSVG(l)), "yī") {
		t.Error("pinyin rendered without WithPinyin")
	}
	if !strings.Contains(string(RenderSVG(l, WithPinyin())), ">yī</text>") {
		t.Error("pinyin missing with WithPinyin")
	}
}

func TestRenderSVGOpaque(t *testing.T) {
	l := tree.Build([]tree.Item{tree.Opaque{ID: "x", Content: "<b>hi</b>"}}, 400)
	svg := string(RenderSVG(l))
	if strings.Contains(svg, "<b>") {
		t.Error("opaque content not escaped")
	}
	if !strings.Contains(svg, "&lt;b&gt;hi&lt;/b&gt;") {
		t.Errorf("opaque content missing:\n%s", svg)
	}
}

func TestRenderSVGOpaquePointer(t *testing.T) {
	l := tree.Build([]tree.Item{&tree.Opaque{ID: "x", Content: "hi"}}, 400)
	if svg := string(RenderSVG(l)); !strings.Contains(svg, ">hi<") {
		t.Errorf("*Opaque content missing:\n%s", svg)
	}
}

func TestRenderSVGBackground(t *testing.T) {
	svg := string(RenderSVG(sampleLayout(1), WithBackground("#fafafa")))
	if !strings.Contains(svg, `fill="#fafafa"`) {
		t.Error("background missing")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(tree.Build(nil, 800)))
	if strings.Contains(svg, "<path") || strings.Contains(svg, "<rect") {
		t.Errorf("empty layout drew shapes:\n%s", svg)
	}
}

func TestHorizontalExtent(t *testing.T) {
	l := tree.Build(tree.Cards(make([]tree.Card, 4)), 0)
	minX, width := horizontalExtent(l)
	if minX >= 0 {
		t.Errorf("minX = %v, want negative for zero-width viewport", minX)
	}
	if width != 4*l.CardSize {
		t.Errorf("width = %v, want %v", width, 4*l.CardSize)
	}
}
