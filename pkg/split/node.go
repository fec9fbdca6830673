package split

import (
	"fmt"
	"slices"

	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/placeholder"
)

// NodeID identifies a node. Fresh ids come from one counter shared by every
// tree in the process and are never reused, so an id taken from a retired
// node or from another tree will simply not resolve. Only shapes carrying
// explicit ids give two trees the same id.
type NodeID int64

// NoID marks an unknown or absent node. It is never used as a lookup key.
const NoID NodeID = -1

// Valid reports whether id could refer to a node.
func (id NodeID) Valid() bool { return id > 0 }

// ContentID is an opaque handle to content placed in the tree. The tree only
// compares content ids for equality.
type ContentID string

// Kind distinguishes the three node variants.
type Kind uint8

const (
	// KindLeaf holds a content slot.
	KindLeaf Kind = iota
	// KindNode splits its rectangle between two children.
	KindNode
	// KindPlaceholder is an empty slot kept alive by at least one token.
	KindPlaceholder
)

var kindNames = [...]string{"leaf", "node", "placeholder"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Slot is the content of a leaf: one or more contents sharing the same
// rectangle, one of them selected. More than one content makes a stack.
type Slot struct {
	Contents []ContentID `json:"contents,omitempty" yaml:"contents,omitempty"`
	Selected ContentID   `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// IsStack reports whether the slot holds more than one content.
func (s Slot) IsStack() bool { return len(s.Contents) > 1 }

// IsEmpty reports whether the slot holds no content.
func (s Slot) IsEmpty() bool { return len(s.Contents) == 0 }

// Has reports whether c is part of the slot.
func (s Slot) Has(c ContentID) bool { return slices.Contains(s.Contents, c) }

// Clone returns a copy that does not share the contents slice.
func (s Slot) Clone() Slot {
	return Slot{Contents: slices.Clone(s.Contents), Selected: s.Selected}
}

// NodeInfo is an immutable snapshot of one node.
type NodeInfo struct {
	ID     NodeID
	Kind   Kind
	Parent NodeID

	// Set for KindNode only.
	Orientation geom.Orientation
	Divider     float64
	Left, Right NodeID

	// Set for KindLeaf only.
	Slot Slot

	Placeholders []placeholder.Token
}

// Child returns the child on the given side of a split node, or NoID if the
// side does not match the node's orientation.
func (n NodeInfo) Child(side geom.Side) NodeID {
	if n.Kind != KindNode || side.Orientation() != n.Orientation {
		return NoID
	}
	if side.First() {
		return n.Left
	}
	return n.Right
}

// node is the arena record. Only the fields of its kind are meaningful.
type node struct {
	id     NodeID
	kind   Kind
	parent NodeID

	orientation geom.Orientation
	divider     float64
	left, right NodeID

	slot   Slot
	tokens *placeholder.Set
}

func (n *node) info() NodeInfo {
	in := NodeInfo{
		ID:           n.id,
		Kind:         n.kind,
		Parent:       n.parent,
		Left:         NoID,
		Right:        NoID,
		Placeholders: n.tokens.Tokens(),
	}
	switch n.kind {
	case KindNode:
		in.Orientation = n.orientation
		in.Divider = n.divider
		in.Left, in.Right = n.left, n.right
	case KindLeaf:
		in.Slot = n.slot.Clone()
	}
	return in
}

// sideOf returns the side child occupies within n.
func (n *node) sideOf(child NodeID) geom.Side {
	first, second := n.orientation.Sides()
	if n.left == child {
		return first
	}
	return second
}

// fraction returns the share of n's extent the child on side takes.
func (n *node) fraction(side geom.Side) float64 {
	if side.First() {
		return n.divider
	}
	return 1 - n.divider
}

func (n *node) sibling(child NodeID) NodeID {
	if n.left == child {
		return n.right
	}
	return n.left
}

func (n *node) replaceChild(old, repl NodeID) {
	if n.left == old {
		n.left = repl
	} else {
		n.right = repl
	}
}
