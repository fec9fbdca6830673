package layout

import (
	"slices"

	"github.com/samber/lo"

	"github.com/matzehuels/docktree/pkg/address"
	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/placeholder"
	"github.com/matzehuels/docktree/pkg/split"
)

// Restore builds a new tree from l alone.
//
// The recorded paths of all entries are merged into one shape, so a layout
// captured from a tree comes back with the same structure, dividers and node
// ids. Entries whose path contradicts an earlier one are placed afterwards
// like Apply does.
func Restore(l *Layout, opts Options) (*split.Tree, Report) {
	treeOpts := []split.Option{split.WithBounds(l.Bounds), split.WithName(l.Name)}
	if opts.Strategy != nil {
		treeOpts = append(treeOpts, split.WithStrategy(opts.Strategy))
	}
	if !l.Bounds.Valid() || l.Bounds.Empty() {
		treeOpts[0] = split.WithBounds(geom.Unit)
	}

	results := make([]Result, len(l.Entries))
	root := &draft{}
	var leftover []int
	for i, e := range l.Entries {
		results[i] = Result{Index: i, Kind: e.Kind, Content: e.Content, Node: split.NoID}
		var addr address.Address
		if err := addr.UnmarshalBinary(e.Address); err != nil {
			results[i].Outcome, results[i].Err = OutcomeInvalid, err
			continue
		}
		if err := root.insert(addr, e, i); err != nil {
			leftover = append(leftover, i)
		}
	}

	shape := root.shape(true)
	tree, err := split.NewFromShape(shape, treeOpts...)
	if err != nil {
		// Recorded ids clash with each other; the structure is still good.
		tree, err = split.NewFromShape(root.shape(false), treeOpts...)
	}
	if err != nil {
		// Entries contradict each other beyond repair; place them one by one.
		tree, _ = split.NewFromShape(nil, treeOpts...)
		leftover = leftover[:0]
		for i := range l.Entries {
			if results[i].Outcome != OutcomeInvalid {
				leftover = append(leftover, i)
			}
		}
	} else {
		root.visit(func(d *draft) {
			for _, i := range d.entries {
				results[i].Outcome = OutcomeRebuilt
			}
		})
		for i, res := range results {
			if res.Outcome != OutcomeRebuilt {
				continue
			}
			if e := l.Entries[i]; e.Kind == EntryLeaf {
				results[i].Node, _ = tree.LeafOf(e.Content)
			} else if toks := e.Tokens(); len(toks) > 0 {
				results[i].Node, _ = tree.Locate(toks[0])
			}
		}
	}

	_ = tree.Transaction(func() error {
		for _, i := range leftover {
			e := l.Entries[i]
			res := applyEntry(tree, e)
			res.Index, res.Kind, res.Content = i, e.Kind, e.Content
			results[i] = res
		}
		return nil
	})

	rep := Report{Results: results}
	logReport(opts.logger(), l, rep)
	return tree, rep
}

// draft is a node of the shape being rebuilt from paths.
type draft struct {
	id          split.NodeID
	split       bool
	orientation geom.Orientation
	divider     float64
	children    [2]*draft

	contents  []split.ContentID
	selected  split.ContentID
	tokens    []placeholder.Token
	holdsNode bool // tokens came from a split node entry
	entries   []int
}

// terminal reports whether the draft is a slot that paths cannot pass.
func (d *draft) terminal() bool {
	return len(d.contents) > 0 || (len(d.tokens) > 0 && !d.split && !d.holdsNode)
}

// insert records entry e at the end of addr. It fails without changing
// anything when the path contradicts what is already recorded.
func (d *draft) insert(addr address.Address, e Entry, index int) error {
	if !addr.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid steps")
	}
	if err := d.check(addr.Steps, e); err != nil {
		return err
	}

	cur := d
	for _, s := range addr.Steps {
		if !cur.split {
			cur.split = true
			cur.orientation = s.Direction.Orientation()
			cur.divider = s.Size
			if !s.Direction.First() {
				cur.divider = 1 - s.Size
			}
		}
		if cur.id == 0 && s.NodeID.Valid() {
			cur.id = s.NodeID
		}
		i := lo.Ternary(s.Direction.First(), 0, 1)
		if cur.children[i] == nil {
			cur.children[i] = &draft{}
		}
		cur = cur.children[i]
	}

	if cur.id == 0 && addr.LeafID.Valid() {
		cur.id = addr.LeafID
	}
	switch e.Kind {
	case EntryLeaf:
		cur.contents = append(cur.contents, e.Content)
		if e.Selected {
			cur.selected = e.Content
		}
	case EntryNode:
		cur.holdsNode = true
	}
	cur.tokens = append(cur.tokens, e.Tokens()...)
	cur.entries = append(cur.entries, index)
	return nil
}

// check walks the path without modifying anything.
func (d *draft) check(steps []address.Step, e Entry) error {
	cur := d
	for _, s := range steps {
		if cur == nil {
			break
		}
		if cur.terminal() {
			return errors.New(errors.ErrCodeInvalidTopology, "path runs through a slot")
		}
		if cur.split && cur.orientation != s.Direction.Orientation() {
			return errors.New(errors.ErrCodeInvalidTopology, "path turns %s at a %s split", s.Direction, cur.orientation)
		}
		cur = cur.children[lo.Ternary(s.Direction.First(), 0, 1)]
	}
	if cur == nil {
		return nil
	}
	switch e.Kind {
	case EntryNode:
		if cur.terminal() {
			return errors.New(errors.ErrCodeInvalidTopology, "node entry ends at a slot")
		}
	default:
		if cur.split || cur.holdsNode {
			return errors.New(errors.ErrCodeInvalidTopology, "path ends at a split")
		}
		if e.Kind == EntryPlaceholder && len(cur.contents) > 0 {
			return errors.New(errors.ErrCodeInvalidTopology, "placeholder entry ends at a leaf")
		}
	}
	return nil
}

// shape converts the draft. Split nodes that lost a child are dropped and
// the remaining child takes their place.
func (d *draft) shape(withIDs bool) *split.Shape {
	if d == nil {
		return nil
	}
	id := lo.Ternary(withIDs, d.id, 0)
	if d.split {
		left, right := d.children[0].shape(withIDs), d.children[1].shape(withIDs)
		switch {
		case left == nil && right == nil:
			if len(d.tokens) == 0 {
				return nil
			}
			return &split.Shape{ID: id, Placeholders: d.tokens}
		case left == nil:
			right.Placeholders = slices.Concat(right.Placeholders, d.tokens)
			return right
		case right == nil:
			left.Placeholders = slices.Concat(left.Placeholders, d.tokens)
			return left
		}
		return &split.Shape{ID: id, Orientation: d.orientation, Divider: d.divider, Left: left, Right: right, Placeholders: d.tokens}
	}
	if len(d.contents) == 0 && len(d.tokens) == 0 {
		return nil
	}
	s := &split.Shape{ID: id, Placeholders: d.tokens}
	if len(d.contents) > 0 {
		s.Slot = split.Slot{Contents: d.contents, Selected: d.selected}
	}
	return s
}

func (d *draft) visit(fn func(*draft)) {
	if d == nil {
		return
	}
	fn(d)
	d.children[0].visit(fn)
	d.children[1].visit(fn)
}
