package address

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/split"
)

// threeLeaves returns a | (b / c), every split at 0.5.
func threeLeaves(t *testing.T) *split.Tree {
	t.Helper()
	tree, err := split.NewFromShape(split.Horizontal(0.5,
		split.Leaf("a"),
		split.Vertical(0.5, split.Leaf("b"), split.Leaf("c")),
	))
	require.NoError(t, err)
	return tree
}

func leafOf(t *testing.T, tree *split.Tree, c split.ContentID) split.NodeID {
	t.Helper()
	id, ok := tree.LeafOf(c)
	require.True(t, ok, "content %s not placed", c)
	return id
}

func TestFromRoot(t *testing.T) {
	requireT := require.New(t)

	tree := threeLeaves(t)
	c := leafOf(t, tree, "c")
	inner, ok := tree.Parent(c)
	requireT.True(ok)

	a, err := FromRoot(tree, c)
	requireT.NoError(err)
	requireT.Equal(c, a.LeafID)
	requireT.Equal([]Step{
		{Direction: geom.Right, Size: 0.5, NodeID: tree.Root()},
		{Direction: geom.Bottom, Size: 0.5, NodeID: inner},
	}, a.Steps)

	root, err := FromRoot(tree, tree.Root())
	requireT.NoError(err)
	requireT.Empty(root.Steps)

	_, err = FromRoot(tree, 99)
	requireT.True(errors.Is(err, errors.ErrCodeNotFound))
}

func TestFromRootRecordsSideFraction(t *testing.T) {
	requireT := require.New(t)

	tree := split.New()
	top, err := tree.PlaceRoot("top")
	requireT.NoError(err)
	bottom, err := tree.Insert(top, geom.Bottom, 0.25, "bottom")
	requireT.NoError(err)

	a, err := FromRoot(tree, bottom)
	requireT.NoError(err)
	requireT.Len(a.Steps, 1)
	requireT.Equal(geom.Bottom, a.Steps[0].Direction)
	requireT.InDelta(0.25, a.Steps[0].Size, 1e-12)

	a, err = FromRoot(tree, top)
	requireT.NoError(err)
	requireT.Equal(geom.Top, a.Steps[0].Direction)
	requireT.InDelta(0.75, a.Steps[0].Size, 1e-12)
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name  string
		steps []Step
		want  geom.Rect
	}{
		{"empty", nil, geom.Unit},
		{"left", []Step{{Direction: geom.Left, Size: 0.3}}, geom.Rect{Width: 0.3, Height: 1}},
		{"right", []Step{{Direction: geom.Right, Size: 0.3}}, geom.Rect{X: 0.7, Width: 0.3, Height: 1}},
		{"top", []Step{{Direction: geom.Top, Size: 0.4}}, geom.Rect{Width: 1, Height: 0.4}},
		{"bottom", []Step{{Direction: geom.Bottom, Size: 0.4}}, geom.Rect{Y: 0.6, Width: 1, Height: 0.4}},
		{
			"nested",
			[]Step{{Direction: geom.Right, Size: 0.5}, {Direction: geom.Bottom, Size: 0.5}},
			geom.Rect{X: 0.5, Y: 0.5, Width: 0.5, Height: 0.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.steps...).Location(geom.Unit)
			require.True(t, tt.want.ApproxEqual(got, geom.Eps), "want %+v, got %+v", tt.want, got)
		})
	}

	scaled := New(Step{Direction: geom.Right, Size: 0.5}).Location(geom.Rect{X: 100, Y: 10, Width: 200, Height: 50})
	require.Equal(t, geom.Rect{X: 200, Y: 10, Width: 100, Height: 50}, scaled)
}

func TestAddInsertLast(t *testing.T) {
	requireT := require.New(t)

	a := New()
	_, ok := a.Last()
	requireT.False(ok)

	a.Add(Step{Direction: geom.Left, Size: 0.5, NodeID: 1})
	a.Add(Step{Direction: geom.Top, Size: 0.5, NodeID: 3})
	requireT.NoError(a.Insert(1, Step{Direction: geom.Right, Size: 0.2, NodeID: 2}))
	requireT.Equal(3, a.Len())
	requireT.Equal([]split.NodeID{1, 2, 3}, []split.NodeID{a.Steps[0].NodeID, a.Steps[1].NodeID, a.Steps[2].NodeID})

	last, ok := a.Last()
	requireT.True(ok)
	requireT.Equal(geom.Top, last.Direction)

	err := a.Insert(5, Step{})
	requireT.True(errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestEqualClone(t *testing.T) {
	requireT := require.New(t)

	a := Address{Steps: []Step{{Direction: geom.Left, Size: 0.5, NodeID: 1}}, LeafID: 2}
	b := a.Clone()
	requireT.True(a.Equal(b))

	b.Steps[0].Size = 0.4
	requireT.False(a.Equal(b))
	requireT.InDelta(0.5, a.Steps[0].Size, 0)

	c := a.Clone()
	c.LeafID = 3
	requireT.False(a.Equal(c))
}

func TestString(t *testing.T) {
	a := Address{
		Steps:  []Step{{Direction: geom.Right, Size: 0.5, NodeID: 1}, {Direction: geom.Bottom, Size: 0.25, NodeID: split.NoID}},
		LeafID: 5,
	}
	require.Equal(t, "[RIGHT:0.5@1 BOTTOM:0.25] leaf=5", a.String())
}

func TestValid(t *testing.T) {
	requireT := require.New(t)

	requireT.True(New().Valid())
	requireT.True(New(Step{Direction: geom.Left, Size: 0}, Step{Direction: geom.Right, Size: 1}).Valid())
	requireT.False(New(Step{Direction: geom.Left, Size: 1.5}).Valid())
	requireT.False(New(Step{Direction: geom.Side(7), Size: 0.5}).Valid())
}
