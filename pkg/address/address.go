package address

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/split"
)

// Step is one level of an address: the side of a split node the path
// continues into, the share of the split node that side takes, and the id the
// split node had when the address was recorded.
type Step struct {
	Direction geom.Side    `json:"direction"`
	Size      float64      `json:"size"`
	NodeID    split.NodeID `json:"id"`
}

// Valid reports whether the step can be replayed.
func (s Step) Valid() bool {
	return s.Direction.Valid() && !math.IsNaN(s.Size) && s.Size >= 0 && s.Size <= 1
}

func (s Step) String() string {
	if s.NodeID == split.NoID {
		return fmt.Sprintf("%s:%g", s.Direction, s.Size)
	}
	return fmt.Sprintf("%s:%g@%d", s.Direction, s.Size, s.NodeID)
}

// Address is a route from the root of a tree to one node. Steps[0] is the
// step taken at the root. LeafID is the id of the node at the end of the
// route, or split.NoID when unknown.
//
// An Address holds no reference to a tree and can be replayed against any
// tree, including one rebuilt from scratch.
type Address struct {
	Steps  []Step       `json:"steps"`
	LeafID split.NodeID `json:"leaf"`
}

// New returns an address over steps with an unknown leaf id.
func New(steps ...Step) Address {
	return Address{Steps: steps, LeafID: split.NoID}
}

// FromRoot records the address of node id in tree.
func FromRoot(tree *split.Tree, id split.NodeID) (Address, error) {
	hops, err := tree.Ancestry(id)
	if err != nil {
		return Address{}, errors.Wrap(errors.ErrCodeNotFound, err, "address of node %d", id)
	}
	a := Address{Steps: make([]Step, 0, len(hops)), LeafID: id}
	for _, h := range hops {
		a.Steps = append(a.Steps, Step{Direction: h.Side, Size: h.Fraction, NodeID: h.Node})
	}
	return a, nil
}

// Add appends a step at the leaf end.
func (a *Address) Add(s Step) {
	a.Steps = append(a.Steps, s)
}

// Insert puts a step at index i, shifting later steps towards the leaf.
func (a *Address) Insert(i int, s Step) error {
	if i < 0 || i > len(a.Steps) {
		return errors.New(errors.ErrCodeInvalidInput, "step index %d out of range [0, %d]", i, len(a.Steps))
	}
	a.Steps = slices.Insert(a.Steps, i, s)
	return nil
}

// Len returns the number of steps.
func (a Address) Len() int { return len(a.Steps) }

// Last returns the step nearest to the leaf.
func (a Address) Last() (Step, bool) {
	if len(a.Steps) == 0 {
		return Step{}, false
	}
	return a.Steps[len(a.Steps)-1], true
}

// Valid reports whether every step can be replayed.
func (a Address) Valid() bool {
	for _, s := range a.Steps {
		if !s.Valid() {
			return false
		}
	}
	return true
}

// Equal reports whether both addresses have the same steps and leaf id.
func (a Address) Equal(o Address) bool {
	return a.LeafID == o.LeafID && slices.Equal(a.Steps, o.Steps)
}

// Clone returns a deep copy.
func (a Address) Clone() Address {
	return Address{Steps: slices.Clone(a.Steps), LeafID: a.LeafID}
}

func (a Address) String() string {
	parts := make([]string, len(a.Steps))
	for i, s := range a.Steps {
		parts[i] = s.String()
	}
	return fmt.Sprintf("[%s] leaf=%d", strings.Join(parts, " "), a.LeafID)
}

// Location applies the steps to bounds and returns the rectangle the route
// ends in. Node ids are ignored.
func (a Address) Location(bounds geom.Rect) geom.Rect {
	return locate(bounds, a.Steps)
}

func locate(r geom.Rect, steps []Step) geom.Rect {
	for _, s := range steps {
		r = r.Take(s.Direction, s.Size)
	}
	return r
}
