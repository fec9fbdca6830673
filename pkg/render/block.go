package render

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/placeholder"
	"github.com/matzehuels/docktree/pkg/split"
)

// Block is one visible rectangle of a tree: a leaf or a placeholder.
type Block struct {
	ID       split.NodeID      `json:"id"`
	Kind     split.Kind        `json:"-"`
	Label    string            `json:"label"`
	Rect     geom.Rect         `json:"rect"`
	Contents []split.ContentID `json:"contents,omitempty"`
	Selected split.ContentID   `json:"selected,omitempty"`
	Tokens   []string          `json:"tokens,omitempty"`
}

// Placeholder reports whether the block is an empty slot.
func (b Block) Placeholder() bool { return b.Kind == split.KindPlaceholder }

// Blocks returns the leaves and placeholders of tree with their rectangles,
// in pre-order.
func Blocks(tree *split.Tree) []Block {
	nodes := lo.Filter(tree.Nodes(), func(n split.NodeInfo, _ int) bool { return n.Kind != split.KindNode })
	rects := tree.RectanglesOf(lo.Map(nodes, func(n split.NodeInfo, _ int) split.NodeID { return n.ID })...)

	blocks := make([]Block, 0, len(nodes))
	for _, n := range nodes {
		r, ok := rects[n.ID]
		if !ok {
			continue
		}
		b := Block{
			ID:       n.ID,
			Kind:     n.Kind,
			Rect:     r,
			Contents: n.Slot.Contents,
			Selected: n.Slot.Selected,
			Tokens:   lo.Map(n.Placeholders, func(t placeholder.Token, _ int) string { return string(t) }),
		}
		b.Label = label(b)
		blocks = append(blocks, b)
	}
	return blocks
}

func label(b Block) string {
	if b.Placeholder() {
		return "(" + strings.Join(b.Tokens, " ") + ")"
	}
	if len(b.Contents) > 1 {
		return string(b.Selected) + " +" + strconv.Itoa(len(b.Contents)-1)
	}
	return string(b.Selected)
}
