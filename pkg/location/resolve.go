package location

import (
	"github.com/matzehuels/docktree/pkg/address"
	"github.com/matzehuels/docktree/pkg/split"
)

// Resolve walks the chain and returns the placement of the first location
// that resolves against tree. Paths are replayed, relative rectangles are
// scaled to the tree bounds, stack indices and screen locations defer to
// their successor.
func Resolve(tree *split.Tree, p *Property) address.Placement {
	for ; p != nil; p = p.Successor {
		if p.Location == nil {
			continue
		}
		r := &resolver{tree: tree, placement: unresolved}
		_ = p.Location.Accept(r)
		if r.placement.Placed() {
			return r.placement
		}
	}
	return unresolved
}

var unresolved = address.Placement{Rect: address.Unplaced, Tier: address.TierUnresolved, Anchor: split.NoID}

type resolver struct {
	tree      *split.Tree
	placement address.Placement
}

func (r *resolver) VisitSplitPath(l SplitPath) error {
	r.placement = l.Address.Replay(r.tree)
	return nil
}

func (r *resolver) VisitSplitRect(l SplitRect) error {
	if r.tree.IsEmpty() || !l.Rect.Valid() {
		return nil
	}
	r.placement = address.Placement{
		Rect:   l.Rect.Scale(r.tree.Bounds()),
		Tier:   address.TierStructural,
		Anchor: split.NoID,
	}
	return nil
}

func (r *resolver) VisitStackIndex(StackIndex) error { return nil }

func (r *resolver) VisitScreen(Screen) error { return nil }
