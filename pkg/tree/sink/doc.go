// Package sink provides output format renderers for card tree layouts.
//
// A "sink" transforms a computed [tree.Layout] into a final output format:
//
//   - SVG: styled cards and connector curves, optionally interactive
//   - JSON: layout data export, readable back with [ReadJSON]
//   - PDF: single-page print output drawn with go-pdf/fpdf
//
// Basic usage:
//
//	l := tree.Build(items, 1200)
//	svg := sink.RenderSVG(l,
//	    sink.WithStyle(styles.FlipCard{}),
//	    sink.WithPinyin(),
//	)
//
// # SVG Options
//
//   - [WithStyle]: visual style ([styles.Simple] or [styles.FlipCard])
//   - [WithBackground]: fill the canvas with a color
//   - [WithPinyin]: print pinyin under each character
//   - [WithInteraction]: highlight a card's connectors on hover
//
// Renderers never modify the layout and are safe to call concurrently.
//
// [tree.Layout]: github.com/matzehuels/hanzitree/pkg/tree.Layout
// [styles.Simple]: github.com/matzehuels/hanzitree/pkg/tree/styles.Simple
// [styles.FlipCard]: github.com/matzehuels/hanzitree/pkg/tree/styles.FlipCard
package sink
