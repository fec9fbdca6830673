package address

import (
	"time"

	"github.com/samber/lo"

	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/observability"
	"github.com/matzehuels/docktree/pkg/split"
)

// Tier names the way a replay found its rectangle.
type Tier string

const (
	// TierIdentity means a node recorded in the address is still live.
	TierIdentity Tier = "identity"
	// TierStructural means the recorded directions were walked from the
	// tree bounds.
	TierStructural Tier = "structural"
	// TierUnresolved means no placement could be computed.
	TierUnresolved Tier = "unresolved"
)

// Unplaced is the rectangle reported for unresolved replays.
var Unplaced = geom.Rect{X: -1, Y: -1}

// Placement is the outcome of a replay.
type Placement struct {
	Rect geom.Rect `json:"rect"`
	Tier Tier      `json:"tier"`
	// Anchor is the live node the rectangle was computed from, or
	// split.NoID for structural and unresolved placements.
	Anchor split.NodeID `json:"anchor"`
}

// Placed reports whether the replay produced a rectangle.
func (p Placement) Placed() bool { return p.Tier != TierUnresolved }

// Replay computes the rectangle the address occupies in tree.
//
// If the leaf id names a live leaf or placeholder, its rectangle is returned.
// Otherwise the deepest step whose id names a live split node anchors the arithmetic at that node's rectangle and
// the remaining steps are applied from there. Without any live id the steps
// are applied to the tree bounds. Empty trees and invalid steps give an
// unresolved placement; Replay never fails.
func (a Address) Replay(tree *split.Tree) Placement {
	start := time.Now()
	p := a.replay(tree)
	observability.Replay().OnReplay(string(p.Tier), time.Since(start))
	return p
}

func (a Address) replay(tree *split.Tree) Placement {
	if tree.IsEmpty() || !a.Valid() {
		return Placement{Rect: Unplaced, Tier: TierUnresolved, Anchor: split.NoID}
	}

	ids := lo.FilterMap(a.Steps, func(s Step, _ int) (split.NodeID, bool) {
		return s.NodeID, s.NodeID.Valid()
	})
	if a.LeafID.Valid() {
		ids = append(ids, a.LeafID)
	}
	live := tree.RectanglesOf(ids...)

	if r, ok := live[a.LeafID]; ok && holdsSlot(tree, a.LeafID) {
		return Placement{Rect: r, Tier: TierIdentity, Anchor: a.LeafID}
	}
	for i := len(a.Steps) - 1; i >= 0; i-- {
		if r, ok := live[a.Steps[i].NodeID]; ok && splits(tree, a.Steps[i].NodeID) {
			return Placement{Rect: locate(r, a.Steps[i:]), Tier: TierIdentity, Anchor: a.Steps[i].NodeID}
		}
	}
	return Placement{Rect: locate(tree.Bounds(), a.Steps), Tier: TierStructural, Anchor: split.NoID}
}

// Resolve walks tree along the recorded directions and returns the deepest
// node reached and the steps that could not be followed. The walk starts at
// the leaf when its id names a live leaf or placeholder, at the deepest step
// naming a live split node, or at the root.
// An empty tree resolves to split.NoID with every step remaining.
func (a Address) Resolve(tree *split.Tree) (split.NodeID, []Step, error) {
	if tree.IsEmpty() {
		return split.NoID, a.Steps, nil
	}
	if a.LeafID.Valid() && holdsSlot(tree, a.LeafID) {
		return a.LeafID, nil, nil
	}

	from, start := split.NoID, 0
	for i := len(a.Steps) - 1; i >= 0; i-- {
		if id := a.Steps[i].NodeID; id.Valid() && splits(tree, id) {
			from, start = id, i
			break
		}
	}
	rest := a.Steps[start:]
	sides := lo.Map(rest, func(s Step, _ int) geom.Side { return s.Direction })
	reached, consumed, err := tree.Follow(from, sides)
	if err != nil {
		return split.NoID, nil, err
	}
	return reached, rest[consumed:], nil
}

// holdsSlot reports whether id is a live leaf or placeholder. A recorded leaf
// id naming a split node is treated as gone.
func holdsSlot(tree *split.Tree, id split.NodeID) bool {
	k, ok := tree.Kind(id)
	return ok && k != split.KindNode
}

func splits(tree *split.Tree, id split.NodeID) bool {
	k, ok := tree.Kind(id)
	return ok && k == split.KindNode
}
