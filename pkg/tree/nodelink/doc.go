// Package nodelink renders a card tree as a traditional node-link diagram.
//
// [ToDOT] converts a computed layout to Graphviz DOT source, one node per
// card and one edge per connector, with each tier pinned to its own rank.
// [RenderSVG] renders DOT in-process:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// This package uses [github.com/goccy/go-graphviz] for rendering, so no
// external Graphviz installation is needed.
package nodelink
