package split

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/placeholder"
)

// Shape is a tree as a plain recursive value. A shape with both children set
// is a split node; otherwise it is a leaf when its slot has content and a
// placeholder when it only has tokens.
//
// ID is optional. Shapes built by hand or by the grid builder leave it zero
// and get fresh ids; shapes taken from a live tree carry the ids along.
type Shape struct {
	ID           NodeID              `json:"id,omitempty" yaml:"id,omitempty"`
	Orientation  geom.Orientation    `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Divider      float64             `json:"divider,omitempty" yaml:"divider,omitempty"`
	Left         *Shape              `json:"left,omitempty" yaml:"left,omitempty"`
	Right        *Shape              `json:"right,omitempty" yaml:"right,omitempty"`
	Slot         Slot                `json:"slot,omitzero" yaml:"slot,omitempty"`
	Placeholders []placeholder.Token `json:"placeholders,omitempty" yaml:"placeholders,omitempty"`
}

// Kind returns the node kind the shape describes.
func (s *Shape) Kind() Kind {
	switch {
	case s.Left != nil || s.Right != nil:
		return KindNode
	case !s.Slot.IsEmpty():
		return KindLeaf
	default:
		return KindPlaceholder
	}
}

// Leaf returns the shape of a leaf holding contents, the first one selected.
func Leaf(contents ...ContentID) *Shape {
	s := &Shape{Slot: Slot{Contents: contents}}
	if len(contents) > 0 {
		s.Slot.Selected = contents[0]
	}
	return s
}

// Hole returns the shape of a placeholder.
func Hole(tokens ...placeholder.Token) *Shape {
	return &Shape{Placeholders: tokens}
}

// Horizontal returns a split shape with left and right children.
func Horizontal(divider float64, left, right *Shape) *Shape {
	return &Shape{Orientation: geom.Horizontal, Divider: divider, Left: left, Right: right}
}

// Vertical returns a split shape with top and bottom children.
func Vertical(divider float64, top, bottom *Shape) *Shape {
	return &Shape{Orientation: geom.Vertical, Divider: divider, Left: top, Right: bottom}
}

// NewFromShape builds a tree from shape. A nil shape gives an empty tree.
func NewFromShape(shape *Shape, opts ...Option) (*Tree, error) {
	t := New(opts...)
	if shape == nil {
		return t, nil
	}
	if err := t.Replace(shape); err != nil {
		return nil, err
	}
	return t, nil
}

// Replace swaps the whole content of the tree for shape. The shape is checked
// completely before anything changes. Explicit ids in the shape are kept;
// missing ids are drawn from the process-wide counter, which is moved past
// every explicit id.
func (t *Tree) Replace(shape *Shape) error {
	return t.edit("replace", func(b *batch) error {
		a := arena{
			nodes:    make(map[NodeID]*node),
			tokens:   make(map[placeholder.Token]NodeID),
			contents: make(map[ContentID]NodeID),
		}
		if shape != nil {
			if err := a.reserve(shape); err != nil {
				return err
			}
			root, err := a.build(shape, NoID)
			if err != nil {
				return err
			}
			a.root = root
		} else {
			a.root = NoID
		}
		t.nodes, t.tokens, t.contents = a.nodes, a.tokens, a.contents
		t.root = a.root
		b.add(EventReplaced, t.root)
		return nil
	})
}

type arena struct {
	root     NodeID
	nodes    map[NodeID]*node
	tokens   map[placeholder.Token]NodeID
	contents map[ContentID]NodeID
	explicit map[NodeID]bool
}

// reserve records explicit ids so fresh ids never collide with them.
func (a *arena) reserve(s *Shape) error {
	if a.explicit == nil {
		a.explicit = make(map[NodeID]bool)
	}
	if s.ID > 0 {
		if a.explicit[s.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "shape: duplicate node id %d", s.ID)
		}
		a.explicit[s.ID] = true
		reserveID(s.ID)
	}
	if s.Left != nil {
		if err := a.reserve(s.Left); err != nil {
			return err
		}
	}
	if s.Right != nil {
		return a.reserve(s.Right)
	}
	return nil
}

func (a *arena) build(s *Shape, parent NodeID) (NodeID, error) {
	id := s.ID
	if id <= 0 {
		id = newID()
	}
	n := &node{id: id, parent: parent, kind: s.Kind(), left: NoID, right: NoID, tokens: &placeholder.Set{}}
	a.nodes[id] = n
	for _, tok := range s.Placeholders {
		if tok == "" {
			return NoID, errors.New(errors.ErrCodeInvalidToken, "shape: empty token at node %d", id)
		}
		if owner, dup := a.tokens[tok]; dup {
			return NoID, errors.New(errors.ErrCodeInvalidInput, "shape: token %q at nodes %d and %d", tok, owner, id)
		}
		n.tokens.Add(tok)
		a.tokens[tok] = id
	}
	switch n.kind {
	case KindNode:
		if s.Left == nil || s.Right == nil {
			return NoID, errors.New(errors.ErrCodeInvalidTopology, "shape: split node %d needs two children", id)
		}
		if s.Orientation != geom.Horizontal && s.Orientation != geom.Vertical {
			return NoID, errors.New(errors.ErrCodeInvalidTopology, "shape: node %d has invalid orientation", id)
		}
		if err := errors.ValidateFraction("divider", s.Divider); err != nil {
			return NoID, err
		}
		if !s.Slot.IsEmpty() {
			return NoID, errors.New(errors.ErrCodeInvalidTopology, "shape: split node %d cannot hold content", id)
		}
		n.orientation, n.divider = s.Orientation, s.Divider
		var err error
		if n.left, err = a.build(s.Left, id); err != nil {
			return NoID, err
		}
		if n.right, err = a.build(s.Right, id); err != nil {
			return NoID, err
		}
	case KindLeaf:
		for _, c := range s.Slot.Contents {
			if c == "" {
				return NoID, errors.New(errors.ErrCodeInvalidInput, "shape: empty content id at node %d", id)
			}
			if owner, dup := a.contents[c]; dup {
				return NoID, errors.New(errors.ErrCodeInvalidInput, "shape: content %q at nodes %d and %d", c, owner, id)
			}
			a.contents[c] = id
		}
		n.slot = s.Slot.Clone()
		if n.slot.Selected == "" {
			n.slot.Selected = n.slot.Contents[0]
		} else if !n.slot.Has(n.slot.Selected) {
			return NoID, errors.New(errors.ErrCodeInvalidInput, "shape: selected %q is not in the slot of node %d", n.slot.Selected, id)
		}
	case KindPlaceholder:
		if n.tokens.IsEmpty() {
			return NoID, errors.New(errors.ErrCodeInvalidTopology, "shape: node %d has neither content nor placeholders", id)
		}
	}
	return id, nil
}

// Shape returns the current tree as a value, ids included. It returns nil for
// an empty tree.
func (t *Tree) Shape() *Shape {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.shape(t.root)
}

func (t *Tree) shape(id NodeID) *Shape {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	s := &Shape{ID: n.id, Placeholders: n.tokens.Tokens()}
	switch n.kind {
	case KindNode:
		s.Orientation, s.Divider = n.orientation, n.divider
		s.Left, s.Right = t.shape(n.left), t.shape(n.right)
	case KindLeaf:
		s.Slot = n.slot.Clone()
	}
	return s
}

// Fingerprint hashes the structure of the tree: kinds, orientations,
// dividers, contents, and tokens. Node ids are left out, so a tree rebuilt
// from the same shape has the same fingerprint.
func (t *Tree) Fingerprint() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d := xxhash.New()
	var buf [8]byte
	t.preorder(t.root, func(n *node) {
		buf[0] = byte(n.kind)
		_, _ = d.Write(buf[:1])
		switch n.kind {
		case KindNode:
			buf[0] = byte(n.orientation)
			_, _ = d.Write(buf[:1])
			binary.BigEndian.PutUint64(buf[:], math.Float64bits(n.divider))
			_, _ = d.Write(buf[:])
		case KindLeaf:
			for _, c := range n.slot.Contents {
				_, _ = d.WriteString(string(c))
				_, _ = d.Write([]byte{0})
			}
			_, _ = d.WriteString(string(n.slot.Selected))
			_, _ = d.Write([]byte{1})
		}
		for _, tok := range n.tokens.Tokens() {
			_, _ = d.WriteString(string(tok))
			_, _ = d.Write([]byte{2})
		}
	})
	return d.Sum64()
}
