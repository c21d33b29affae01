package tree

// Layout is a computed card tree: the items bucketed into tiers plus the
// geometry for those tiers. Tiers[i][j] is drawn at Positions[i][j].
type Layout struct {
	Tiers    [][]Item
	Schedule Schedule
	Config   Config
	Geometry
}

// Option configures [Build].
type Option func(*builder)

type builder struct {
	schedule Schedule
	config   Config
}

// WithSchedule replaces the default capacity schedule.
func WithSchedule(s Schedule) Option { return func(b *builder) { b.schedule = s } }

// WithConfig replaces the default sizing bounds.
func WithConfig(c Config) Option { return func(b *builder) { b.config = c } }

// Build buckets items into tiers and computes their geometry for a viewport
// of the given width.
func Build(items []Item, viewportWidth float64, opts ...Option) Layout {
	b := builder{schedule: DefaultSchedule(), config: DefaultConfig()}
	for _, opt := range opts {
		opt(&b)
	}

	tiers := Bucket(items, b.schedule)
	return Layout{
		Tiers:    tiers,
		Schedule: b.schedule,
		Config:   b.config,
		Geometry: ComputeGeometry(TierLengths(tiers), viewportWidth, b.config),
	}
}

// Len returns the number of items in the layout.
func (l Layout) Len() int {
	n := 0
	for _, t := range l.Tiers {
		n += len(t)
	}
	return n
}

// Placed is an item together with where it is drawn.
type Placed struct {
	Item  Item
	Tier  int
	Index int
	Point
}

// Placed returns every item with its position, tier by tier starting at
// tier 0.
func (l Layout) Placed() []Placed {
	out := make([]Placed, 0, l.Len())
	for i, tier := range l.Tiers {
		for j, it := range tier {
			p := Placed{Item: it, Tier: i, Index: j}
			if i < len(l.Positions) && j < len(l.Positions[i]) {
				p.Point = l.Positions[i][j]
			}
			out = append(out, p)
		}
	}
	return out
}

// At returns the item at tier i, index j.
func (l Layout) At(i, j int) (Item, bool) {
	if i < 0 || i >= len(l.Tiers) || j < 0 || j >= len(l.Tiers[i]) {
		return nil, false
	}
	return l.Tiers[i][j], true
}

// Endpoints returns the child and parent items joined by c.
func (l Layout) Endpoints(c Connector) (child, parent Item, ok bool) {
	child, okC := l.At(c.Tier, c.Child)
	parent, okP := l.At(c.Tier+1, c.Parent)
	return child, parent, okC && okP
}
