package tree

import (
	"math"
	"reflect"
	"testing"
)

const tol = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < tol }

func TestComputeGeometryWideViewport(t *testing.T) {
	g := ComputeGeometry([]int{8}, 1200, DefaultConfig())

	if g.CardSize < 60 || g.CardSize > 110 {
		t.Errorf("CardSize = %v, want within [60, 110]", g.CardSize)
	}
	if total := 8*g.CardSize + 7*g.Gap; total > 1200 {
		t.Errorf("row width = %v, exceeds viewport 1200", total)
	}
	if g.CardSize != 110 || g.Gap != 40 {
		t.Errorf("CardSize, Gap = %v, %v, want 110, 40", g.CardSize, g.Gap)
	}
}

func TestComputeGeometryPositions(t *testing.T) {
	g := ComputeGeometry([]int{4, 8}, 1200, Config{})

	if !approx(g.VSpacing, 58) {
		t.Errorf("VSpacing = %v, want 58", g.VSpacing)
	}
	if !approx(g.Height, 336) {
		t.Errorf("Height = %v, want 336", g.Height)
	}

	tests := []struct {
		tier, index int
		want        Point
	}{
		{0, 0, Point{320, 168}},
		{0, 3, Point{770, 168}},
		{1, 0, Point{20, 0}},
		{1, 7, Point{1070, 0}},
	}
	for _, tt := range tests {
		got := g.Positions[tt.tier][tt.index]
		if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
			t.Errorf("Positions[%d][%d] = %v, want %v", tt.tier, tt.index, got, tt.want)
		}
	}
}

func TestComputeGeometryStacking(t *testing.T) {
	g := ComputeGeometry([]int{2, 4, 8, 8}, 900, DefaultConfig())
	step := g.CardSize + g.VSpacing
	for i, row := range g.Positions {
		want := g.Height - float64(i+1)*step
		for j, p := range row {
			if !approx(p.Y, want) {
				t.Errorf("Positions[%d][%d].Y = %v, want %v", i, j, p.Y, want)
			}
			if j > 0 && !approx(p.X-row[j-1].X, g.CardSize+g.Gap) {
				t.Errorf("Positions[%d] spacing = %v, want %v", i, p.X-row[j-1].X, g.CardSize+g.Gap)
			}
		}
		left := row[0].X
		right := row[len(row)-1].X + g.CardSize
		if !approx(left, g.Width-right) {
			t.Errorf("tier %d not centered: left margin %v, right margin %v", i, left, g.Width-right)
		}
	}
	top := g.Positions[len(g.Positions)-1][0].Y
	if !approx(top, 0) {
		t.Errorf("top tier Y = %v, want 0", top)
	}
	for i := 1; i < len(g.Positions); i++ {
		below := g.Positions[i-1][0].Y
		above := g.Positions[i][0].Y
		if above+g.CardSize > below {
			t.Errorf("tiers %d and %d overlap", i-1, i)
		}
	}
}

func TestComputeGeometryParentAssignment(t *testing.T) {
	g := ComputeGeometry([]int{8, 4}, 1200, DefaultConfig())
	want := []int{0, 0, 1, 1, 2, 2, 3, 3}

	if len(g.Connectors) != 8 {
		t.Fatalf("len(Connectors) = %d, want 8", len(g.Connectors))
	}
	for _, c := range g.Connectors {
		if c.Tier != 0 {
			t.Errorf("connector tier = %d, want 0", c.Tier)
		}
		if c.Parent != want[c.Child] {
			t.Errorf("child %d -> parent %d, want %d", c.Child, c.Parent, want[c.Child])
		}
	}
}

func TestComputeGeometryFanOut(t *testing.T) {
	g := ComputeGeometry([]int{4, 8}, 1200, DefaultConfig())
	want := []int{0, 2, 4, 6}
	for _, c := range g.Connectors {
		if c.Parent != want[c.Child] {
			t.Errorf("child %d -> parent %d, want %d", c.Child, c.Parent, want[c.Child])
		}
	}
}

func TestConnectorCounts(t *testing.T) {
	tests := []struct {
		name string
		lens []int
		want int
	}{
		{"single tier", []int{5}, 0},
		{"two tiers", []int{4, 8}, 4},
		{"default schedule of 30", []int{2, 4, 8, 8, 8}, 2 + 4 + 8 + 8},
		{"empty parent tier", []int{3, 0}, 0},
		{"empty child tier", []int{0, 3}, 0},
		{"no tiers", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ComputeGeometry(tt.lens, 1000, DefaultConfig())
			if len(g.Connectors) != tt.want {
				t.Errorf("len(Connectors) = %d, want %d", len(g.Connectors), tt.want)
			}
		})
	}
}

func TestConnectorAnchors(t *testing.T) {
	g := ComputeGeometry([]int{4, 8}, 1200, DefaultConfig())
	c := g.Connectors[0]

	child := g.Positions[0][0]
	parent := g.Positions[1][0]
	if !approx(c.From.X, child.X+g.CardSize/2) || !approx(c.From.Y, child.Y) {
		t.Errorf("From = %v, want child top-center", c.From)
	}
	if !approx(c.To.X, parent.X+g.CardSize/2) || !approx(c.To.Y, parent.Y+g.CardSize) {
		t.Errorf("To = %v, want parent bottom-center", c.To)
	}
	if !approx(c.C1.Y, c.From.Y-30) || !approx(c.C2.Y, c.To.Y+30) {
		t.Errorf("control points = %v, %v, want offset by 30", c.C1, c.C2)
	}
	if got, want := c.Path(), "M375,168 C225,138 225,140 75,110"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestComputeGeometryIdempotent(t *testing.T) {
	lens := []int{2, 18, 2, 4, 8, 8, 8}
	a := ComputeGeometry(lens, 1337.5, DefaultConfig())
	b := ComputeGeometry(lens, 1337.5, DefaultConfig())
	if !reflect.DeepEqual(a, b) {
		t.Error("ComputeGeometry is not deterministic for identical inputs")
	}
}

func TestComputeGeometryDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		width float64
	}{
		{"zero", 0},
		{"negative", -300},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ComputeGeometry([]int{3, 8}, tt.width, DefaultConfig())
			if g.CardSize != 60 {
				t.Errorf("CardSize = %v, want minimum 60", g.CardSize)
			}
			if g.Gap != 0 {
				t.Errorf("Gap = %v, want 0", g.Gap)
			}
			for _, row := range g.Positions {
				for _, p := range row {
					if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) {
						t.Fatalf("non-finite position %v", p)
					}
				}
			}
		})
	}
}

func TestZeroViewportTiers(t *testing.T) {
	g := ComputeGeometry([]int{3}, 0, DefaultConfig())
	want := []float64{-90, -30, 30}
	for j, p := range g.Positions[0] {
		if !approx(p.X, want[j]) {
			t.Errorf("X[%d] = %v, want %v", j, p.X, want[j])
		}
	}

	items := Cards([]Card{{ID: "1"}, {ID: "2"}, {ID: "3"}})
	l := Build(items, 0, WithSchedule(Schedule{Capacities: []int{1}, Overflow: 1}))
	if len(l.Tiers) != 3 {
		t.Fatalf("tiers = %d, want 3", len(l.Tiers))
	}
	for _, p := range l.Placed() {
		if !approx(p.X, -30) {
			t.Errorf("card %s at x = %v, want a single column at -30", p.Item.Key(), p.X)
		}
	}
}

func TestComputeGeometrySingleCard(t *testing.T) {
	g := ComputeGeometry([]int{1}, 1200, DefaultConfig())
	if g.CardSize != 110 {
		t.Errorf("CardSize = %v, want 110", g.CardSize)
	}
	if got := g.Positions[0][0].X; !approx(got, 545) {
		t.Errorf("X = %v, want 545", got)
	}
}

func TestComputeGeometryNarrowViewport(t *testing.T) {
	g := ComputeGeometry([]int{8}, 500, DefaultConfig())
	if g.CardSize != 60 || g.Gap != 12 {
		t.Errorf("CardSize, Gap = %v, %v, want bounds 60, 12", g.CardSize, g.Gap)
	}
}

func TestComputeGeometryEmpty(t *testing.T) {
	g := ComputeGeometry(nil, 800, DefaultConfig())
	if g.Positions == nil || g.Connectors == nil {
		t.Error("empty geometry should have non-nil slices")
	}
	if g.Height != 0 || g.CardSize != 0 {
		t.Errorf("Height, CardSize = %v, %v, want 0, 0", g.Height, g.CardSize)
	}
}

func TestParentIndex(t *testing.T) {
	tests := []struct {
		ci, children, parents int
		want                  int
		ok                    bool
	}{
		{0, 8, 4, 0, true},
		{7, 8, 4, 3, true},
		{5, 8, 3, 1, true},
		{7, 8, 3, 2, true},
		{0, 8, 0, 0, false},
		{8, 8, 4, 0, false},
		{-1, 8, 4, 0, false},
	}
	for _, tt := range tests {
		got, ok := ParentIndex(tt.ci, tt.children, tt.parents)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParentIndex(%d, %d, %d) = %d, %v, want %d, %v",
				tt.ci, tt.children, tt.parents, got, ok, tt.want, tt.ok)
		}
	}
}
