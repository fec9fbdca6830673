package split

import (
	"slices"
	"sync"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/observability"
	"github.com/matzehuels/docktree/pkg/placeholder"
)

var (
	// ErrUnknownNode is wrapped by every error caused by an id that does not
	// belong to a live node.
	ErrUnknownNode = errors.New(errors.ErrCodeNotFound, "unknown node")

	// ErrUnknownContent is wrapped by every error caused by content that is
	// not placed in the tree.
	ErrUnknownContent = errors.New(errors.ErrCodeNotFound, "unknown content")

	// ErrContentPlaced is returned when content that already lives in the tree
	// is placed a second time. Content occupies at most one slot.
	ErrContentPlaced = errors.New(errors.ErrCodeInvalidInput, "content already placed")
)

// Tree is a binary split tree over a rectangle. Nodes live in an arena keyed by
// [NodeID]; parent and child links are ids, never pointers.
//
// All methods are safe for concurrent use. Every edit takes the tree's lock for
// its whole duration and either completes or leaves the tree untouched.
// Listeners are called after the lock is released.
type Tree struct {
	mu       sync.RWMutex
	name     string
	bounds   geom.Rect
	root     NodeID
	nodes    map[NodeID]*node
	tokens   map[placeholder.Token]NodeID
	contents map[ContentID]NodeID
	strategy placeholder.Strategy
	hooks    observability.TreeHooks

	listeners []*listenerEntry

	txMu    sync.Mutex
	txDepth int
	pending []Event
}

// Option configures a Tree.
type Option func(*Tree)

// WithBounds sets the rectangle the root node covers. The default is [geom.Unit].
func WithBounds(r geom.Rect) Option {
	return func(t *Tree) { t.bounds = r }
}

// WithStrategy installs a placeholder strategy at construction.
func WithStrategy(s placeholder.Strategy) Option {
	return func(t *Tree) { t.strategy = s }
}

// WithHooks overrides the globally registered tree hooks for this tree.
func WithHooks(h observability.TreeHooks) Option {
	return func(t *Tree) { t.hooks = h }
}

// WithName names the tree. The name is passed to strategies implementing
// [placeholder.Installer].
func WithName(name string) Option {
	return func(t *Tree) { t.name = name }
}

// New returns an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{
		name:     "tree",
		bounds:   geom.Unit,
		root:     NoID,
		nodes:    make(map[NodeID]*node),
		tokens:   make(map[placeholder.Token]NodeID),
		contents: make(map[ContentID]NodeID),
	}
	for _, opt := range opts {
		opt(t)
	}
	if in, ok := t.strategy.(placeholder.Installer); ok {
		in.Install(t.name)
	}
	return t
}

func (t *Tree) hookSet() observability.TreeHooks {
	if t.hooks != nil {
		return t.hooks
	}
	return observability.Tree()
}

// Name returns the name given with [WithName].
func (t *Tree) Name() string { return t.name }

// Bounds returns the rectangle covered by the root.
func (t *Tree) Bounds() geom.Rect {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bounds
}

// SetBounds changes the rectangle covered by the root. All node rectangles
// follow since they are derived from it on demand.
func (t *Tree) SetBounds(r geom.Rect) error {
	if !r.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid bounds %+v", r)
	}
	t.mu.Lock()
	t.bounds = r
	t.mu.Unlock()
	return nil
}

// Root returns the id of the root node, or NoID for an empty tree.
func (t *Tree) Root() NodeID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// IsEmpty reports whether the tree has no nodes.
func (t *Tree) IsEmpty() bool { return t.Len() == 0 }

// Has reports whether id refers to a live node.
func (t *Tree) Has(id NodeID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.nodes[id]
	return ok
}

// Kind returns the kind of a live node.
func (t *Tree) Kind(id NodeID) (Kind, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	if !ok {
		return 0, false
	}
	return n.kind, true
}

// Info returns a snapshot of a live node.
func (t *Tree) Info(id NodeID) (NodeInfo, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	if !ok {
		return NodeInfo{}, false
	}
	return n.info(), true
}

// Parent returns the parent of id, NoID for the root.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	if !ok {
		return NoID, false
	}
	return n.parent, true
}

// Children returns both children of a split node.
func (t *Tree) Children(id NodeID) (left, right NodeID, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, found := t.nodes[id]
	if !found || n.kind != KindNode {
		return NoID, NoID, false
	}
	return n.left, n.right, true
}

// Nodes returns a snapshot of every node in pre-order (parent, left, right).
func (t *Tree) Nodes() []NodeInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]NodeInfo, 0, len(t.nodes))
	t.preorder(t.root, func(n *node) { out = append(out, n.info()) })
	return out
}

// Leaves returns the ids of all leaves from left to right, top to bottom.
// Placeholders are not included.
func (t *Tree) Leaves() []NodeID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []NodeID
	t.preorder(t.root, func(n *node) {
		if n.kind == KindLeaf {
			out = append(out, n.id)
		}
	})
	return out
}

// Walk calls fn for every node in pre-order until fn returns false. fn sees a
// snapshot taken before the walk started and may edit the tree.
func (t *Tree) Walk(fn func(NodeInfo) bool) {
	for _, n := range t.Nodes() {
		if !fn(n) {
			return
		}
	}
}

func (t *Tree) preorder(id NodeID, fn func(*node)) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	fn(n)
	if n.kind == KindNode {
		t.preorder(n.left, fn)
		t.preorder(n.right, fn)
	}
}

// Hop describes one split node on the way from the root to a node: the split
// node itself, and the side and share of it the path continues into.
type Hop struct {
	Node     NodeID
	Side     geom.Side
	Fraction float64
}

// Ancestry returns the hops from the root down to id. The root itself has an
// empty ancestry.
func (t *Tree) Ancestry(id NodeID) ([]Hop, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ancestry(id)
}

func (t *Tree) ancestry(id NodeID) ([]Hop, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, errors.Wrap(errors.ErrCodeNotFound, ErrUnknownNode, "node %d", id)
	}
	var hops []Hop
	for n.parent != NoID {
		p := t.nodes[n.parent]
		side := p.sideOf(n.id)
		hops = append(hops, Hop{Node: p.id, Side: side, Fraction: p.fraction(side)})
		n = p
	}
	slices.Reverse(hops)
	return hops, nil
}

// RectangleOf returns the current rectangle of a node. It is derived from the
// bounds and the dividers of all ancestors on every call.
func (t *Tree) RectangleOf(id NodeID) (geom.Rect, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rectangleOf(id)
}

func (t *Tree) rectangleOf(id NodeID) (geom.Rect, error) {
	hops, err := t.ancestry(id)
	if err != nil {
		return geom.Rect{}, err
	}
	r := t.bounds
	for _, h := range hops {
		p := t.nodes[h.Node]
		first, second := r.Split(p.orientation, p.divider)
		if h.Side.First() {
			r = first
		} else {
			r = second
		}
	}
	return r, nil
}

// RectanglesOf returns the rectangles of all ids that are live, computed under
// one lock. Unknown ids are left out of the result.
func (t *Tree) RectanglesOf(ids ...NodeID) map[NodeID]geom.Rect {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[NodeID]geom.Rect, len(ids))
	for _, id := range ids {
		if r, err := t.rectangleOf(id); err == nil {
			out[id] = r
		}
	}
	return out
}

// LeafOf returns the leaf holding content.
func (t *Tree) LeafOf(c ContentID) (NodeID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.contents[c]
	return id, ok
}

// Contents returns all placed contents in leaf order.
func (t *Tree) Contents() []ContentID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []ContentID
	t.preorder(t.root, func(n *node) {
		if n.kind == KindLeaf {
			out = append(out, n.slot.Contents...)
		}
	})
	return out
}

// Locate returns the node currently holding token.
func (t *Tree) Locate(tok placeholder.Token) (NodeID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.tokens[tok]
	return id, ok
}

// Follow walks down from start (the root when start is NoID) taking the child
// on each side in turn. It stops at the first leaf or placeholder, or at a
// split node whose orientation does not match the next side. It returns the
// node reached and how many sides were consumed.
func (t *Tree) Follow(start NodeID, sides []geom.Side) (NodeID, int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if start == NoID {
		start = t.root
	}
	n, ok := t.nodes[start]
	if !ok {
		return NoID, 0, errors.Wrap(errors.ErrCodeNotFound, ErrUnknownNode, "follow from %d", start)
	}
	consumed := 0
	for _, side := range sides {
		if n.kind != KindNode || side.Orientation() != n.orientation {
			break
		}
		if side.First() {
			n = t.nodes[n.left]
		} else {
			n = t.nodes[n.right]
		}
		consumed++
	}
	return n.id, consumed, nil
}

func (t *Tree) lookup(id NodeID, op string) (*node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, errors.Wrap(errors.ErrCodeInvalidTopology, ErrUnknownNode, "%s: node %d", op, id)
	}
	return n, nil
}
