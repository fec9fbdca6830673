package split

import (
	"math"

	"github.com/matzehuels/docktree/pkg/errors"
)

// Validate checks every structural invariant of the tree: parent and child
// links agree, every node is reachable from the root exactly once, dividers
// are within [0, 1], leaves hold content, placeholders hold tokens, and both
// indexes match the nodes. It returns the first violation found.
func (t *Tree) Validate() error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.root == NoID {
		if len(t.nodes) != 0 {
			return violation("empty tree has %d detached nodes", len(t.nodes))
		}
		if len(t.tokens) != 0 || len(t.contents) != 0 {
			return violation("empty tree has index entries")
		}
		return nil
	}
	root, ok := t.nodes[t.root]
	if !ok {
		return violation("root %d does not exist", t.root)
	}
	if root.parent != NoID {
		return violation("root %d has parent %d", root.id, root.parent)
	}

	seen := make(map[NodeID]bool, len(t.nodes))
	tokens, contents := 0, 0
	stack := []NodeID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, ok := t.nodes[id]
		if !ok {
			return violation("node %d is referenced but does not exist", id)
		}
		if seen[id] {
			return violation("node %d is reachable twice", id)
		}
		seen[id] = true
		if n.id != id || id <= 0 || id > lastID() {
			return violation("node %d has inconsistent id %d", id, n.id)
		}

		for _, tok := range n.tokens.Tokens() {
			tokens++
			if owner, ok := t.tokens[tok]; !ok || owner != id {
				return violation("token %q at node %d is indexed at %d", tok, id, owner)
			}
		}

		switch n.kind {
		case KindNode:
			if math.IsNaN(n.divider) || n.divider < 0 || n.divider > 1 {
				return violation("node %d has divider %v", id, n.divider)
			}
			for _, c := range []NodeID{n.left, n.right} {
				child, ok := t.nodes[c]
				if !ok {
					return violation("node %d has missing child %d", id, c)
				}
				if child.parent != id {
					return violation("child %d of node %d points to parent %d", c, id, child.parent)
				}
				stack = append(stack, c)
			}
			if !n.slot.IsEmpty() {
				return violation("split node %d holds content", id)
			}
		case KindLeaf:
			if n.slot.IsEmpty() {
				return violation("leaf %d holds no content", id)
			}
			if !n.slot.Has(n.slot.Selected) {
				return violation("leaf %d selects %q which it does not hold", id, n.slot.Selected)
			}
			for _, c := range n.slot.Contents {
				contents++
				if owner, ok := t.contents[c]; !ok || owner != id {
					return violation("content %q at leaf %d is indexed at %d", c, id, owner)
				}
			}
		case KindPlaceholder:
			if n.tokens.IsEmpty() {
				return violation("placeholder %d has no tokens", id)
			}
			if !n.slot.IsEmpty() {
				return violation("placeholder %d holds content", id)
			}
		default:
			return violation("node %d has unknown kind %v", id, n.kind)
		}
	}

	if len(seen) != len(t.nodes) {
		return violation("%d nodes are not reachable from the root", len(t.nodes)-len(seen))
	}
	if tokens != len(t.tokens) {
		return violation("token index has %d entries, nodes hold %d tokens", len(t.tokens), tokens)
	}
	if contents != len(t.contents) {
		return violation("content index has %d entries, leaves hold %d contents", len(t.contents), contents)
	}
	return nil
}

func violation(format string, args ...any) error {
	return errors.New(errors.ErrCodeInternal, "invariant violated: "+format, args...)
}
