package tree

import "slices"

// DefaultOverflow is the capacity of every tier past the end of the default
// schedule.
const DefaultOverflow = 18

var defaultCapacities = []int{8, 8, 8, 4, 2}

// Schedule lists how many items each successive tier holds, in consumption
// order. Tiers beyond len(Capacities) hold Overflow items.
type Schedule struct {
	Capacities []int `json:"capacities" toml:"capacities"`
	Overflow   int   `json:"overflow" toml:"overflow"`
}

// DefaultSchedule returns the 8, 8, 8, 4, 2 schedule with an overflow of 18.
func DefaultSchedule() Schedule {
	return Schedule{Capacities: slices.Clone(defaultCapacities), Overflow: DefaultOverflow}
}

// Capacity returns the size of the i-th chunk consumed from the input.
//
// Non-positive capacities are clamped to 1. A non-positive overflow reuses
// the last scheduled capacity, or DefaultOverflow for an empty schedule.
func (s Schedule) Capacity(i int) int {
	if i < len(s.Capacities) {
		return max(s.Capacities[i], 1)
	}
	if s.Overflow > 0 {
		return s.Overflow
	}
	if n := len(s.Capacities); n > 0 {
		return max(s.Capacities[n-1], 1)
	}
	return DefaultOverflow
}

// Bucket partitions items into tiers following s.
//
// Chunks are cut from the front of items, sized by s in order, and the list
// of chunks is reversed before it is returned: the first chunk consumed is
// the last tier. The final chunk may be shorter than its capacity; it is
// never padded. An empty input yields an empty, non-nil result.
//
// The returned tiers share the backing array of items.
func Bucket[T any](items []T, s Schedule) [][]T {
	tiers := make([][]T, 0, len(s.Capacities)+1)
	for start, i := 0, 0; start < len(items); i++ {
		end := min(start+s.Capacity(i), len(items))
		tiers = append(tiers, items[start:end:end])
		start = end
	}
	slices.Reverse(tiers)
	return tiers
}

// TierLengths returns len(tier) for every tier.
func TierLengths[T any](tiers [][]T) []int {
	lens := make([]int, len(tiers))
	for i, t := range tiers {
		lens[i] = len(t)
	}
	return lens
}
