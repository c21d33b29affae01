// Package pkg provides the core libraries for hanzitree.
//
// # Overview
//
// Hanzitree tracks the Chinese characters a learner knows and draws them as
// a tree of flashcards: a narrow tier at the bottom, wider tiers above, each
// card joined to a parent in the tier below it. The pkg directory is
// organized into four areas:
//
//  1. [tree] - The layout engine (bucketing, geometry, connectors) and its renderers
//  2. [store], [notes], [dictionary] - Known characters, per-card notes, the word list
//  3. [pipeline], [cache] - Orchestration (load → layout → render) with caching
//  4. [api], [client] - The HTTP service and its typed client
//
// # Architecture
//
// The typical data flow:
//
//	store.Repository + notes.Store
//	         ↓
//	    [notes] package (merge overrides into tree.Card values)
//	         ↓
//	    [tree] package (bucket into tiers, size and place cards)
//	         ↓
//	    [tree/sink], [tree/nodelink] (SVG/JSON/PDF/DOT output)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/hanzitree/pkg/tree"
//	    "github.com/matzehuels/hanzitree/pkg/tree/sink"
//	)
//
//	cards := []tree.Card{{ID: "1", Character: "你"}, {ID: "2", Character: "好"}}
//	l := tree.Build(tree.Cards(cards), 1200)
//	svg := sink.RenderSVG(l)
//
// # Main Packages
//
// [tree] - Pure layout: [tree.Bucket] splits items into tiers by a capacity
// schedule, [tree.ComputeGeometry] sizes cards to the viewport and places
// them, and connectors link each card to its parent.
//
// [store] - The character repository with memory, sqlite and MongoDB
// backends sharing one contract test suite.
//
// [notes] - Per-character notes and display overrides (memory, JSON file,
// Redis).
//
// [dictionary] - The embedded HSK 1 word list, CSV/XLSX import, pinyin
// search and suggestions.
//
// [pipeline] - Options, validation and a cached Runner that turns stored
// characters into rendered artifacts.
//
// [api] - The chi-based HTTP API; [client] calls it with retries.
//
// [config] - TOML file plus HANZITREE_* environment settings.
//
// [errors] - Coded errors shared by the CLI, API and client.
package pkg
