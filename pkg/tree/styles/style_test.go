package styles

import (
	"bytes"
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		if _, ok := Lookup(name); !ok {
			t.Errorf("Lookup(%q) not found", name)
		}
	}
	if _, ok := Lookup("handdrawn"); ok {
		t.Error("Lookup(handdrawn) should fail")
	}
	if got := strings.Join(Names(), ","); got != "flipcard,simple" {
		t.Errorf("Names() = %s, want flipcard,simple", got)
	}
}

func TestRenderCard(t *testing.T) {
	card := Card{ID: "7", Character: "水", Pinyin: "shuǐ", Definition: "water", X: 10, Y: 20, Size: 100, CX: 60, CY: 70}

	tests := []struct {
		name  string
		style Style
		want  []string
	}{
		{"simple", Simple{}, []string{`id="card-7"`, `<title>水 · shuǐ · water</title>`}},
		{"flipcard", FlipCard{}, []string{`id="card-7"`, flipBack, `fill="white"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.style.RenderCard(&buf, card)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}

func TestRenderLabel(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderLabel(&buf, Card{ID: "1", Character: "<&>", Size: 100})
	if !strings.Contains(buf.String(), "&lt;&amp;&gt;") {
		t.Errorf("label not escaped: %s", buf.String())
	}
	if strings.Contains(buf.String(), "card-pinyin") {
		t.Error("pinyin line rendered without pinyin")
	}

	buf.Reset()
	Simple{}.RenderLabel(&buf, Card{ID: "2", Opaque: true, Content: "?", Size: 100})
	if !strings.Contains(buf.String(), ">?</text>") {
		t.Errorf("opaque content missing: %s", buf.String())
	}
}

func TestFlipCardConnector(t *testing.T) {
	var buf bytes.Buffer
	FlipCard{}.RenderConnector(&buf, Connector{Path: "M0,0 C1,1 2,2 3,3"})
	if !strings.Contains(buf.String(), `stroke="#142a63"`) {
		t.Errorf("connector color missing: %s", buf.String())
	}
}

func TestFontSize(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want float64
	}{
		{"default card", Card{Size: 110}, 49.5},
		{"tiny card", Card{Size: 10}, fontSizeMin},
		{"huge card", Card{Size: 1000}, fontSizeMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FontSize(tt.card); got != tt.want {
				t.Errorf("FontSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"water", 10, "water"},
		{"a long definition", 8, "a long.."},
		{"一二三四五", 4, "一二.."},
		{"abcdef", 1, "a.."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
