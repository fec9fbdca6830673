package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/split"
)

// DOTOptions configures tree diagrams.
type DOTOptions struct {
	// Detailed adds rectangles and placeholder tokens to node labels.
	// When false, only the kind, id and divider or contents are shown.
	Detailed bool
}

// ToDOT converts a tree to Graphviz DOT format: one box per node, split nodes
// pointing at their children. The result can be rendered with [RenderSVG].
//
// Placeholders are drawn dashed and grey so empty slots stand out.
func ToDOT(tree *split.Tree, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	nodes := tree.Nodes()
	var rects map[split.NodeID]geom.Rect
	if opts.Detailed {
		ids := make([]split.NodeID, len(nodes))
		for i, n := range nodes {
			ids[i] = n.ID
		}
		rects = tree.RectanglesOf(ids...)
	}

	for _, n := range nodes {
		label := fmtLabel(n, rects, opts.Detailed)
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(fmtAttrs(n, label), ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		if n.Kind != split.KindNode {
			continue
		}
		first, second := n.Orientation.Sides()
		fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", n.ID, n.Left, strings.ToLower(first.String()))
		fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", n.ID, n.Right, strings.ToLower(second.String()))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n split.NodeInfo, rects map[split.NodeID]geom.Rect, detailed bool) string {
	parts := []string{fmt.Sprintf("%s %d", n.Kind, n.ID)}
	switch n.Kind {
	case split.KindNode:
		parts = append(parts, fmt.Sprintf("%s %.3g", n.Orientation, n.Divider))
	case split.KindLeaf:
		for _, c := range n.Slot.Contents {
			if c == n.Slot.Selected && n.Slot.IsStack() {
				parts = append(parts, "*"+string(c))
				continue
			}
			parts = append(parts, string(c))
		}
	}
	if !detailed {
		return strings.Join(parts, "\n")
	}
	if r, ok := rects[n.ID]; ok {
		parts = append(parts, fmt.Sprintf("%.4g,%.4g %.4gx%.4g", r.X, r.Y, r.Width, r.Height))
	}
	for _, tok := range n.Placeholders {
		parts = append(parts, "("+tok.String()+")")
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n split.NodeInfo, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Kind {
	case split.KindNode:
		attrs = append(attrs, "shape=ellipse", "fillcolor=\"#f0f0f0\"")
	case split.KindPlaceholder:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
