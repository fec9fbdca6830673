package layout

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/matzehuels/docktree/pkg/address"
	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/placeholder"
	"github.com/matzehuels/docktree/pkg/split"
)

// EntryKind tells what an entry restores.
type EntryKind string

const (
	// EntryLeaf restores one content of a leaf.
	EntryLeaf EntryKind = "leaf"
	// EntryPlaceholder restores an empty slot kept for its tokens.
	EntryPlaceholder EntryKind = "placeholder"
	// EntryNode restores tokens held by a split node.
	EntryNode EntryKind = "node"
)

// Entry is one persisted item of a layout. Each entry is decoded and placed on
// its own, so a broken entry never spoils the others.
type Entry struct {
	Kind     EntryKind       `json:"kind" bson:"kind"`
	Content  split.ContentID `json:"content,omitempty" bson:"content,omitempty"`
	Selected bool            `json:"selected,omitempty" bson:"selected,omitempty"`
	// Address is the binary encoding of the entry's address.Address.
	Address      []byte   `json:"address" bson:"address"`
	Placeholders []string `json:"placeholders,omitempty" bson:"placeholders,omitempty"`
}

// Tokens returns the entry's placeholders as tokens.
func (e Entry) Tokens() []placeholder.Token {
	return lo.Map(e.Placeholders, func(s string, _ int) placeholder.Token { return placeholder.Token(s) })
}

// Layout is a saved tree: one entry per content, placeholder and token-holding
// split node.
type Layout struct {
	ID          uuid.UUID `json:"id" bson:"-"`
	Name        string    `json:"name" bson:"name"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	Bounds      geom.Rect `json:"bounds" bson:"bounds"`
	Fingerprint string    `json:"fingerprint" bson:"fingerprint"`
	Entries     []Entry   `json:"entries" bson:"entries"`
}

// Contents returns the contents of all leaf entries in order.
func (l *Layout) Contents() []split.ContentID {
	return lo.FilterMap(l.Entries, func(e Entry, _ int) (split.ContentID, bool) {
		return e.Content, e.Kind == EntryLeaf
	})
}

// Capture records tree as a layout named name. Nodes are visited in
// pre-order, so every entry's parent region is described before it.
func Capture(tree *split.Tree, name string) (*Layout, error) {
	if err := errors.ValidateLayoutName(name); err != nil {
		return nil, err
	}
	l := &Layout{
		ID:          uuid.New(),
		Name:        name,
		CreatedAt:   time.Now().UTC(),
		Bounds:      tree.Bounds(),
		Fingerprint: fmt.Sprintf("%016x", tree.Fingerprint()),
	}

	for _, info := range tree.Nodes() {
		if info.Kind == split.KindNode && len(info.Placeholders) == 0 {
			continue
		}
		addr, err := address.FromRoot(tree, info.ID)
		if err != nil {
			// The node went away between Nodes and FromRoot.
			continue
		}
		data, err := addr.MarshalBinary()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode address of node %d", info.ID)
		}
		tokens := lo.Map(info.Placeholders, func(t placeholder.Token, _ int) string { return t.String() })

		switch info.Kind {
		case split.KindLeaf:
			for i, c := range info.Slot.Contents {
				e := Entry{Kind: EntryLeaf, Content: c, Selected: c == info.Slot.Selected, Address: data}
				if i == 0 {
					e.Placeholders = tokens
				}
				l.Entries = append(l.Entries, e)
			}
		case split.KindPlaceholder:
			l.Entries = append(l.Entries, Entry{Kind: EntryPlaceholder, Address: data, Placeholders: tokens})
		case split.KindNode:
			l.Entries = append(l.Entries, Entry{Kind: EntryNode, Address: data, Placeholders: tokens})
		}
	}
	return l, nil
}
