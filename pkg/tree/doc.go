// Package tree arranges a flat list of cards into an upward-growing tree.
//
// The layout is a pure function of the item list and the viewport width.
// It runs in two steps:
//
//  1. [Bucket] splits the items into tiers following a capacity [Schedule]
//     (default 8, 8, 8, 4, 2, then 18 per tier) and reverses the result, so
//     the first chunk consumed becomes the last tier.
//  2. [ComputeGeometry] sizes square cards to fit the widest tier, centers
//     every tier horizontally, stacks the tiers from the bottom of the canvas
//     (tier 0 has the greatest y) and links each card to a parent in the tier
//     above with a cubic [Connector].
//
// [Build] runs both steps and returns a [Layout] ready for the renderers in
// the sink and nodelink subpackages.
//
// Nothing in this package performs I/O or keeps state between calls, so a
// layout can be computed from any goroutine.
package tree
