package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/split"
)

const blockInteractionCSS = `
    .block { fill: #ffffff; stroke: #333333; stroke-width: 2; transition: stroke-width 0.2s ease; }
    .block.placeholder { fill: #eeeeee; stroke-dasharray: 6 4; }
    .block.highlight, .block:hover { stroke-width: 4; }
    .block-text { font-family: sans-serif; fill: #222222; pointer-events: none; }`

// SVGOption configures [SVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	highlight     map[split.NodeID]bool
	hideTokens    bool
}

// WithSize scales the tree bounds onto a canvas of the given size. Without it
// the tree bounds are drawn as they are.
func WithSize(w, h float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = w, h }
}

// WithHighlight draws the given nodes with a thick outline.
func WithHighlight(ids ...split.NodeID) SVGOption {
	return func(r *svgRenderer) {
		for _, id := range ids {
			r.highlight[id] = true
		}
	}
}

// WithoutTokens leaves placeholders unlabelled.
func WithoutTokens() SVGOption { return func(r *svgRenderer) { r.hideTokens = true } }

// SVG draws every leaf and placeholder of tree as a labelled rectangle.
func SVG(tree *split.Tree, opts ...SVGOption) []byte {
	r := svgRenderer{highlight: make(map[split.NodeID]bool)}
	for _, opt := range opts {
		opt(&r)
	}

	bounds := tree.Bounds()
	w, h := bounds.Width, bounds.Height
	if r.width > 0 && r.height > 0 {
		w, h = r.width, r.height
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", blockInteractionCSS)

	canvas := geom.Rect{Width: w, Height: h}
	for _, b := range Blocks(tree) {
		b.Rect = b.Rect.Relative(bounds).Scale(canvas)
		r.renderBlock(&buf, b)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderBlock(buf *bytes.Buffer, b Block) {
	class := "block"
	if b.Placeholder() {
		class += " placeholder"
	}
	if r.highlight[b.ID] {
		class += " highlight"
	}
	fmt.Fprintf(buf, `  <rect id="node-%d" class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
		b.ID, class, b.Rect.X, b.Rect.Y, b.Rect.Width, b.Rect.Height)

	if b.Placeholder() && r.hideTokens {
		return
	}
	size := fontSize(b.Rect.Width, b.Rect.Height, len(b.Label))
	fmt.Fprintf(buf, `  <text class="block-text" data-node="%d" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		b.ID, b.Rect.CenterX(), b.Rect.CenterY(), size, escapeXML(truncateLabel(b.Label, b.Rect.Width, size)))
}

const (
	fontHeightRatio = 0.6
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 24.0
)

func fontSize(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

func truncateLabel(label string, width, size float64) string {
	maxChars := max(3, int(width*fontWidthRatio/(size*fontCharWidth)))
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
