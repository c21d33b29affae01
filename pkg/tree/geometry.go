package tree

import (
	"math"
	"strconv"
	"strings"
)

// Config bounds card and spacing sizes. All values are in pixels except
// VSpacingRatio, which scales the card size.
type Config struct {
	MaxCardWidth  float64 `json:"max_card_width" toml:"max_card_width"`
	MinCardWidth  float64 `json:"min_card_width" toml:"min_card_width"`
	MaxGap        float64 `json:"max_gap" toml:"max_gap"`
	MinGap        float64 `json:"min_gap" toml:"min_gap"`
	VSpacingRatio float64 `json:"vspacing_ratio" toml:"vspacing_ratio"`
	VSpacingBase  float64 `json:"vspacing_base" toml:"vspacing_base"`
	ControlOffset float64 `json:"control_offset" toml:"control_offset"`
}

// DefaultConfig returns the sizing used by the card tree UI.
func DefaultConfig() Config {
	return Config{
		MaxCardWidth:  110,
		MinCardWidth:  60,
		MaxGap:        40,
		MinGap:        12,
		VSpacingRatio: 0.4,
		VSpacingBase:  14,
		ControlOffset: 30,
	}
}

// Point is a position in canvas coordinates, y growing downward. For a card
// it is the top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Connector is a cubic curve from a child card's top-center to its parent's
// bottom-center in the tier immediately above.
type Connector struct {
	Tier   int   `json:"tier"`   // tier of the child; the parent is in Tier+1
	Child  int   `json:"child"`  // index of the child within its tier
	Parent int   `json:"parent"` // index of the parent within Tier+1
	From   Point `json:"from"`
	To     Point `json:"to"`
	C1     Point `json:"c1"`
	C2     Point `json:"c2"`
}

// Path returns the connector as SVG path data.
func (c Connector) Path() string {
	var b strings.Builder
	b.WriteString("M")
	writePoint(&b, c.From)
	b.WriteString(" C")
	writePoint(&b, c.C1)
	b.WriteString(" ")
	writePoint(&b, c.C2)
	b.WriteString(" ")
	writePoint(&b, c.To)
	return b.String()
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}

// Geometry holds card size, spacing, positions and connectors for a set of
// tiers. Positions is indexed like the tiers it was computed from.
type Geometry struct {
	CardSize   float64     `json:"card_size"`
	Gap        float64     `json:"gap"`
	VSpacing   float64     `json:"vspacing"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Positions  [][]Point   `json:"positions"`
	Connectors []Connector `json:"connectors"`
}

// ComputeGeometry positions tiers of the given lengths in a viewport.
//
// Cards are square. Their size is chosen so the widest tier fits the
// viewport within cfg's bounds, tiers are centered horizontally, and tier 0
// sits lowest on the canvas while the last tier has y = 0. Each card in
// tier i is linked to the card at floor(ci*len(parents)/len(children)) in
// tier i+1.
//
// A zero Config means DefaultConfig. A non-positive or non-finite viewport
// is treated as zero wide: cards take the minimum size and the gap is zero.
// Tiers keep their lengths, so a tier of n cards spans n minimum-size cards
// centered on x = 0 and starts at a negative x. For a single column, bucket
// with a schedule of ones ({Capacities: [1], Overflow: 1}).
// The result is fully determined by the arguments.
func ComputeGeometry(tierLens []int, viewportWidth float64, cfg Config) Geometry {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	vw := viewportWidth
	if vw < 0 || math.IsNaN(vw) || math.IsInf(vw, 0) {
		vw = 0
	}

	g := Geometry{
		Width:      vw,
		Positions:  make([][]Point, len(tierLens)),
		Connectors: []Connector{},
	}

	widest := 0
	for _, n := range tierLens {
		widest = max(widest, n)
	}
	if widest == 0 {
		for i := range g.Positions {
			g.Positions[i] = []Point{}
		}
		return g
	}

	g.CardSize, g.Gap = cardMetrics(widest, vw, cfg)
	g.VSpacing = cfg.VSpacingRatio*g.CardSize + cfg.VSpacingBase

	step := g.CardSize + g.VSpacing
	g.Height = float64(len(tierLens)) * step
	for i, n := range tierLens {
		n = max(n, 0)
		rowWidth := float64(n)*g.CardSize + float64(max(n-1, 0))*g.Gap
		x0 := (vw - rowWidth) / 2
		y := g.Height - float64(i+1)*step

		row := make([]Point, n)
		for j := range row {
			row[j] = Point{X: x0 + float64(j)*(g.CardSize+g.Gap), Y: y}
		}
		g.Positions[i] = row
	}

	g.Connectors = connect(g.Positions, g.CardSize, cfg.ControlOffset)
	return g
}

// cardMetrics sizes cards so n of them fit in vw.
func cardMetrics(n int, vw float64, cfg Config) (card, gap float64) {
	if vw <= 0 {
		return cfg.MinCardWidth, 0
	}
	fn := float64(n)
	card = math.Floor((vw-(fn-1)*cfg.MinGap)/fn) - cfg.MinGap
	card = math.Min(cfg.MaxCardWidth, math.Max(cfg.MinCardWidth, card))
	if n <= 1 {
		return card, cfg.MinGap
	}
	gap = math.Floor((vw - fn*card) / (fn - 1))
	gap = math.Max(cfg.MinGap, math.Min(cfg.MaxGap, gap))
	return card, gap
}

// ParentIndex returns the parent slot for child ci when a tier of children
// cards hangs below a tier of parents cards. ok is false when there is no
// parent to connect to.
func ParentIndex(ci, children, parents int) (idx int, ok bool) {
	if children <= 0 || parents <= 0 || ci < 0 || ci >= children {
		return 0, false
	}
	idx = ci * parents / children
	return idx, idx < parents
}

func connect(pos [][]Point, card, offset float64) []Connector {
	conns := []Connector{}
	for i := 0; i+1 < len(pos); i++ {
		children, parents := pos[i], pos[i+1]
		for ci, child := range children {
			pi, ok := ParentIndex(ci, len(children), len(parents))
			if !ok {
				continue
			}
			parent := parents[pi]
			from := Point{X: child.X + card/2, Y: child.Y}
			to := Point{X: parent.X + card/2, Y: parent.Y + card}
			mx := (from.X + to.X) / 2
			conns = append(conns, Connector{
				Tier:   i,
				Child:  ci,
				Parent: pi,
				From:   from,
				To:     to,
				C1:     Point{X: mx, Y: from.Y - offset},
				C2:     Point{X: mx, Y: to.Y + offset},
			})
		}
	}
	return conns
}
