package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/hanzitree/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds pinyin and definition to card labels.
	// When false, only the character is shown.
	Detailed bool
}

// ToDOT converts a layout to Graphviz DOT format. Edges point from child to
// parent, and the top tier is drawn first so the tree grows upward.
func ToDOT(l tree.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, color=\"#6b7a8f\", penwidth=3, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#142a63\", arrowhead=none];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for i, t := range l.Tiers {
		buf.WriteString("\n")
		ids := make([]string, len(t))
		for j, it := range t {
			ids[j] = strconv.Quote(it.Key())
			fmt.Fprintf(&buf, "  %q [%s];\n", it.Key(), strings.Join(fmtAttrs(it, opts.Detailed), ", "))
		}
		if len(ids) > 0 {
			fmt.Fprintf(&buf, "  { rank=same; %s; } // tier %d\n", strings.Join(ids, "; "), i)
		}
	}

	buf.WriteString("\n")
	for _, c := range l.Connectors {
		child, parent, ok := l.Endpoints(c)
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", child.Key(), parent.Key())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(it tree.Item, detailed bool) string {
	c, ok := tree.AsCard(it)
	if !ok {
		if o, ok := tree.AsOpaque(it); ok && o.Content != "" {
			return o.Content
		}
		return it.Key()
	}
	if !detailed {
		return c.Character
	}
	parts := []string{c.Character}
	for _, s := range []string{c.Pinyin, c.Definition} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(it tree.Item, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(it, detailed))}
	if _, ok := tree.AsCard(it); !ok {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
