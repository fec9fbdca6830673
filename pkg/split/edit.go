package split

import (
	"slices"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/placeholder"
)

// Removal reports what [Tree.Remove] and [Tree.RemoveContent] did.
type Removal struct {
	// Node is the leaf the content was taken from.
	Node NodeID
	// Contents lists the contents that left the tree.
	Contents []ContentID
	// Tokens lists the tokens the strategy attached for the removed contents.
	Tokens []placeholder.Token
	// Retained is set when the leaf stayed in the tree as a placeholder.
	Retained bool
	// Collapsed is set when the leaf and its parent were retired.
	Collapsed bool
	// Promoted is the sibling that took the parent's place, NoID otherwise.
	Promoted NodeID
}

// PlaceRoot puts the first leaf into an empty tree.
func (t *Tree) PlaceRoot(c ContentID) (NodeID, error) {
	id := NoID
	a := t.assign(c)
	err := t.edit("place-root", func(b *batch) error {
		if err := t.checkContent(c); err != nil {
			return err
		}
		if t.root != NoID {
			return errors.New(errors.ErrCodeInvalidTopology, "place root: tree already has root %d", t.root)
		}
		n := t.newNode(KindLeaf, NoID)
		n.slot = Slot{Contents: []ContentID{c}, Selected: c}
		t.contents[c] = n.id
		t.root = n.id
		id = n.id
		b.add(EventInserted, n.id).Content = c
		t.claim(b, a, c, n.id, NoID)
		return nil
	})
	return id, err
}

// Insert puts content next to a leaf or placeholder. The parent keeps its id
// and becomes the child opposite to side of a new split node; the new leaf
// takes side with the share size of the parent's former rectangle.
//
// When parent is a placeholder whose only token is the one the strategy gives
// c, the token stays on parent so that the requested split survives.
//
// Insert fails with INVALID_TOPOLOGY when parent is a split node or when size
// is outside [0, 1].
func (t *Tree) Insert(parent NodeID, side geom.Side, size float64, c ContentID) (NodeID, error) {
	return t.split("insert", parent, side, size, c, true)
}

// Split is like Insert but accepts any node as target, including split nodes.
// The whole subtree below target ends up on the side opposite to side.
func (t *Tree) Split(target NodeID, side geom.Side, size float64, c ContentID) (NodeID, error) {
	return t.split("split", target, side, size, c, false)
}

func (t *Tree) split(op string, target NodeID, side geom.Side, size float64, c ContentID, leafOnly bool) (NodeID, error) {
	id := NoID
	a := t.assign(c)
	err := t.edit(op, func(b *batch) error {
		if err := checkSplit(side, size); err != nil {
			return err
		}
		if err := t.checkContent(c); err != nil {
			return err
		}
		n, err := t.lookup(target, op)
		if err != nil {
			return err
		}
		if leafOnly && n.kind == KindNode {
			return errors.New(errors.ErrCodeInvalidTopology, "%s: node %d is not a leaf or placeholder", op, target)
		}
		leaf := t.wrap(n, side, size)
		leaf.kind = KindLeaf
		leaf.slot = Slot{Contents: []ContentID{c}, Selected: c}
		t.contents[c] = leaf.id
		id = leaf.id
		b.add(EventInserted, leaf.id).Content = c
		t.claim(b, a, c, leaf.id, n.id)
		return nil
	})
	return id, err
}

// Reserve creates a placeholder holding tokens next to target, the same way
// Split creates a leaf. With an empty tree and target NoID the placeholder
// becomes the root. Tokens living elsewhere are moved.
func (t *Tree) Reserve(target NodeID, side geom.Side, size float64, tokens ...placeholder.Token) (NodeID, error) {
	id := NoID
	err := t.edit("reserve", func(b *batch) error {
		if len(tokens) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "reserve: placeholder needs at least one token")
		}
		for _, tok := range tokens {
			if tok == "" {
				return errors.New(errors.ErrCodeInvalidToken, "reserve: empty token")
			}
		}
		var n *node
		if target == NoID && t.root == NoID {
			n = t.newNode(KindPlaceholder, NoID)
			t.root = n.id
		} else {
			if err := checkSplit(side, size); err != nil {
				return err
			}
			parent, err := t.lookup(target, "reserve")
			if err != nil {
				return err
			}
			n = t.wrap(parent, side, size)
			n.kind = KindPlaceholder
		}
		id = n.id
		b.add(EventInserted, n.id)
		var emptied []NodeID
		for _, tok := range tokens {
			if t.attach(b, n.id, tok, &emptied) {
				b.add(EventPlaceholderAdded, n.id).Token = tok
			}
		}
		t.settle(b, emptied)
		return nil
	})
	return id, err
}

// Stack adds content to the slot of a leaf. On a placeholder it behaves like Fill.
func (t *Tree) Stack(id NodeID, c ContentID) error {
	a := t.assign(c)
	return t.edit("stack", func(b *batch) error {
		if err := t.checkContent(c); err != nil {
			return err
		}
		n, err := t.lookup(id, "stack")
		if err != nil {
			return err
		}
		switch n.kind {
		case KindNode:
			return errors.New(errors.ErrCodeInvalidTopology, "stack: node %d is a split node", id)
		case KindPlaceholder:
			t.fill(b, n, c)
		default:
			n.slot.Contents = append(n.slot.Contents, c)
			t.contents[c] = n.id
			b.add(EventStacked, n.id).Content = c
		}
		t.claim(b, a, c, n.id, NoID)
		return nil
	})
}

// Fill turns a placeholder back into a leaf holding content. The placeholder's
// tokens stay with the node.
func (t *Tree) Fill(id NodeID, c ContentID) error {
	a := t.assign(c)
	return t.edit("fill", func(b *batch) error {
		if err := t.checkContent(c); err != nil {
			return err
		}
		n, err := t.lookup(id, "fill")
		if err != nil {
			return err
		}
		if n.kind != KindPlaceholder {
			return errors.New(errors.ErrCodeInvalidTopology, "fill: node %d is a %s, not a placeholder", id, n.kind)
		}
		t.fill(b, n, c)
		t.claim(b, a, c, n.id, NoID)
		return nil
	})
}

func (t *Tree) fill(b *batch, n *node, c ContentID) {
	n.kind = KindLeaf
	n.slot = Slot{Contents: []ContentID{c}, Selected: c}
	t.contents[c] = n.id
	b.add(EventFilled, n.id).Content = c
}

// Remove takes all content out of a leaf. The strategy is asked for a token
// per content first; the tokens join the leaf's placeholder set. If the set
// is then non-empty the leaf stays as a placeholder with the same id,
// otherwise the leaf and its parent are retired and the sibling takes the
// parent's place.
//
// Removing an unknown id or a placeholder does nothing. Removing a split
// node fails with INVALID_TOPOLOGY.
func (t *Tree) Remove(id NodeID) (Removal, error) {
	for {
		res, err := t.remove(id, t.assign(t.slotOf(id)...))
		if err != errStale {
			return res, err
		}
	}
}

func (t *Tree) remove(id NodeID, a assignment) (Removal, error) {
	var res Removal
	err := t.edit("remove", func(b *batch) error {
		n, ok := t.nodes[id]
		if !ok || n.kind == KindPlaceholder {
			res = Removal{Node: id, Promoted: NoID}
			return nil
		}
		if n.kind == KindNode {
			return errors.New(errors.ErrCodeInvalidTopology, "remove: node %d is a split node", id)
		}
		if !a.covers(n.slot.Contents) {
			return errStale
		}
		res = t.vacate(b, a, n)
		return nil
	})
	return res, err
}

// slotOf returns the contents of id as they are now.
func (t *Tree) slotOf(id NodeID) []ContentID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n, ok := t.nodes[id]; ok {
		return slices.Clone(n.slot.Contents)
	}
	return nil
}

// RemoveContent takes one content out of its stack. Removing the last content
// of a leaf behaves like [Tree.Remove].
func (t *Tree) RemoveContent(c ContentID) (Removal, error) {
	var res Removal
	a := t.assign(c)
	err := t.edit("remove", func(b *batch) error {
		id, ok := t.contents[c]
		if !ok {
			return errors.Wrap(errors.ErrCodeNotFound, ErrUnknownContent, "remove %q", c)
		}
		n := t.nodes[id]
		if !n.slot.IsStack() {
			res = t.vacate(b, a, n)
			return nil
		}
		i := slices.Index(n.slot.Contents, c)
		n.slot.Contents = slices.Delete(n.slot.Contents, i, i+1)
		if n.slot.Selected == c {
			n.slot.Selected = n.slot.Contents[max(i-1, 0)]
		}
		delete(t.contents, c)
		res = Removal{Node: n.id, Contents: []ContentID{c}, Promoted: NoID}
		b.add(EventRemoved, n.id).Content = c
		var emptied []NodeID
		if tok, ok := a.token(c); ok {
			res.Tokens = append(res.Tokens, tok)
			if t.attach(b, n.id, tok, &emptied) {
				b.add(EventPlaceholderAdded, n.id).Token = tok
			}
		}
		t.settle(b, emptied)
		return nil
	})
	return res, err
}

func (t *Tree) vacate(b *batch, a assignment, n *node) Removal {
	res := Removal{Node: n.id, Contents: n.slot.Contents, Promoted: NoID}
	var emptied []NodeID
	for _, c := range n.slot.Contents {
		delete(t.contents, c)
		b.add(EventRemoved, n.id).Content = c
		if tok, ok := a.token(c); ok {
			res.Tokens = append(res.Tokens, tok)
			if t.attach(b, n.id, tok, &emptied) {
				b.add(EventPlaceholderAdded, n.id).Token = tok
			}
		}
	}
	n.slot = Slot{}
	if !n.tokens.IsEmpty() {
		n.kind = KindPlaceholder
		res.Retained = true
	} else {
		res.Collapsed = true
		res.Promoted = t.collapse(b, n)
	}
	t.settle(b, emptied)
	return res
}

// Select makes c the visible content of its stack.
func (t *Tree) Select(c ContentID) error {
	return t.edit("select", func(b *batch) error {
		id, ok := t.contents[c]
		if !ok {
			return errors.Wrap(errors.ErrCodeNotFound, ErrUnknownContent, "select %q", c)
		}
		n := t.nodes[id]
		if n.slot.Selected == c {
			return nil
		}
		n.slot.Selected = c
		b.add(EventSelected, n.id).Content = c
		return nil
	})
}

// SetDivider moves the divider of a split node.
func (t *Tree) SetDivider(id NodeID, d float64) error {
	return t.edit("set-divider", func(b *batch) error {
		if err := errors.ValidateFraction("divider", d); err != nil {
			return err
		}
		n, err := t.lookup(id, "set-divider")
		if err != nil {
			return err
		}
		if n.kind != KindNode {
			return errors.New(errors.ErrCodeInvalidTopology, "set-divider: node %d is a %s", id, n.kind)
		}
		n.divider = d
		b.add(EventDividerMoved, n.id)
		return nil
	})
}

// =============================================================================
// Arena helpers. All of them expect the write lock to be held.
// =============================================================================

func (t *Tree) newNode(kind Kind, parent NodeID) *node {
	n := &node{
		id:     newID(),
		kind:   kind,
		parent: parent,
		left:   NoID,
		right:  NoID,
		tokens: &placeholder.Set{},
	}
	t.nodes[n.id] = n
	return n
}

// wrap replaces target by a new split node holding target and a fresh node on
// side. The fresh node is returned with its kind still unset.
func (t *Tree) wrap(target *node, side geom.Side, size float64) *node {
	sn := t.newNode(KindNode, target.parent)
	sn.orientation = side.Orientation()
	if side.First() {
		sn.divider = size
	} else {
		sn.divider = 1 - size
	}
	fresh := t.newNode(KindLeaf, sn.id)
	if side.First() {
		sn.left, sn.right = fresh.id, target.id
	} else {
		sn.left, sn.right = target.id, fresh.id
	}
	if target.parent == NoID {
		t.root = sn.id
	} else {
		t.nodes[target.parent].replaceChild(target.id, sn.id)
	}
	target.parent = sn.id
	return fresh
}

// collapse retires n together with its parent and moves the sibling into the
// parent's place. Tokens of both retired nodes move to the sibling. It returns
// the promoted sibling, or NoID when n was the root.
func (t *Tree) collapse(b *batch, n *node) NodeID {
	delete(t.nodes, n.id)
	b.collapses++
	if n.parent == NoID {
		for _, tok := range n.tokens.Tokens() {
			delete(t.tokens, tok)
		}
		t.root = NoID
		b.add(EventCollapsed, n.id)
		return NoID
	}
	p := t.nodes[n.parent]
	sib := t.nodes[p.sibling(n.id)]
	for _, tok := range append(p.tokens.Tokens(), n.tokens.Tokens()...) {
		sib.tokens.Add(tok)
		t.tokens[tok] = sib.id
	}
	sib.parent = p.parent
	if p.parent == NoID {
		t.root = sib.id
	} else {
		t.nodes[p.parent].replaceChild(p.id, sib.id)
	}
	delete(t.nodes, p.id)
	b.add(EventCollapsed, p.id)
	return sib.id
}

// settle collapses every id in ids that is still a placeholder without tokens.
func (t *Tree) settle(b *batch, ids []NodeID) {
	for _, id := range ids {
		n, ok := t.nodes[id]
		if ok && n.kind == KindPlaceholder && n.tokens.IsEmpty() {
			t.collapse(b, n)
		}
	}
}

// attach adds tok to the set of id, taking it away from its current owner.
// Owners left without tokens are appended to emptied. It reports whether the
// set of id changed.
func (t *Tree) attach(b *batch, id NodeID, tok placeholder.Token, emptied *[]NodeID) bool {
	if owner, ok := t.tokens[tok]; ok {
		if owner == id {
			return false
		}
		o := t.nodes[owner]
		o.tokens.Remove(tok)
		b.add(EventPlaceholderRemoved, owner).Token = tok
		if o.tokens.IsEmpty() {
			*emptied = append(*emptied, owner)
		}
	}
	t.nodes[id].tokens.Add(tok)
	t.tokens[tok] = id
	return true
}

// claim moves the token assigned to c onto the node c now lives in. The token
// stays where it is when it is the last one of keep, a placeholder the edit
// split next to.
func (t *Tree) claim(b *batch, a assignment, c ContentID, id, keep NodeID) {
	tok, ok := a.token(c)
	if !ok {
		return
	}
	if owner, ok := t.tokens[tok]; ok && owner == keep {
		if o := t.nodes[owner]; o.kind == KindPlaceholder && o.tokens.Len() == 1 {
			return
		}
	}
	var emptied []NodeID
	if t.attach(b, id, tok, &emptied) {
		b.add(EventPlaceholderAdded, id).Token = tok
	}
	t.settle(b, emptied)
}

func (t *Tree) checkContent(c ContentID) error {
	if c == "" {
		return errors.New(errors.ErrCodeInvalidInput, "content id cannot be empty")
	}
	if id, ok := t.contents[c]; ok {
		return errors.Wrap(errors.ErrCodeInvalidInput, ErrContentPlaced, "content %q lives in node %d", c, id)
	}
	return nil
}

func checkSplit(side geom.Side, size float64) error {
	if !side.Valid() {
		return errors.New(errors.ErrCodeInvalidTopology, "invalid side %v", side)
	}
	return errors.ValidateFraction("size", size)
}
