package split

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/placeholder"
)

func TestNewFromShapeAssignsPreorderIDs(t *testing.T) {
	requireT := require.New(t)

	tree, err := NewFromShape(Vertical(0.5, Leaf("top"), Leaf("bottom")))
	requireT.NoError(err)
	root := tree.Root()
	requireT.True(root.Valid())
	top, _ := tree.LeafOf("top")
	bottom, _ := tree.LeafOf("bottom")
	requireT.Equal(root+1, top)
	requireT.Equal(root+2, bottom)

	other, err := NewFromShape(Vertical(0.5, Leaf("top"), Leaf("bottom")))
	requireT.NoError(err)
	requireT.Greater(other.Root(), bottom)
	requireT.False(other.Has(top))

	requireRect(t, geom.Rect{X: 0, Y: 0, Width: 1, Height: 0.5}, tree, top)
	requireRect(t, geom.Rect{X: 0, Y: 0.5, Width: 1, Height: 0.5}, tree, bottom)
}

func TestNewFromShapeKeepsExplicitIDs(t *testing.T) {
	requireT := require.New(t)

	s := Vertical(0.5, Leaf("top"), Leaf("bottom"))
	s.ID, s.Left.ID, s.Right.ID = 10, 11, 12
	tree, err := NewFromShape(s)
	requireT.NoError(err)
	requireT.Equal(NodeID(10), tree.Root())

	top, _ := tree.LeafOf("top")
	id, err := tree.Insert(top, geom.Left, 0.5, "x")
	requireT.NoError(err)
	requireT.Greater(id, NodeID(12))

	mixed := Horizontal(0.5, Leaf("a"), Leaf("b"))
	mixed.Left.ID = 5
	tree, err = NewFromShape(mixed)
	requireT.NoError(err)
	a, _ := tree.LeafOf("a")
	b, _ := tree.LeafOf("b")
	requireT.Equal(NodeID(5), a)
	requireT.Greater(tree.Root(), NodeID(12))
	requireT.Greater(b, tree.Root())
	requireT.NoError(tree.Validate())
}

func TestExplicitIDsMoveCounter(t *testing.T) {
	requireT := require.New(t)

	far := lastID() + 1000
	s := Horizontal(0.5, Leaf("a"), Leaf("b"))
	s.Left.ID = far
	tree, err := NewFromShape(s)
	requireT.NoError(err)
	b, _ := tree.LeafOf("b")
	requireT.Greater(b, far)

	fresh, err := New().PlaceRoot("c")
	requireT.NoError(err)
	requireT.Greater(fresh, b)
}

func TestNewFromShapeRejects(t *testing.T) {
	dupIDs := Horizontal(0.5, Leaf("a"), Leaf("b"))
	dupIDs.Left.ID, dupIDs.Right.ID = 4, 4

	badSelected := Leaf("a")
	badSelected.Slot.Selected = "zzz"

	tests := []struct {
		name     string
		shape    *Shape
		wantCode errors.Code
	}{
		{"one child", &Shape{Left: Leaf("a")}, errors.ErrCodeInvalidTopology},
		{"empty placeholder", &Shape{}, errors.ErrCodeInvalidTopology},
		{"divider out of range", Horizontal(1.5, Leaf("a"), Leaf("b")), errors.ErrCodeInvalidTopology},
		{"duplicate id", dupIDs, errors.ErrCodeInvalidInput},
		{"duplicate content", Horizontal(0.5, Leaf("a"), Leaf("a")), errors.ErrCodeInvalidInput},
		{"duplicate token", Horizontal(0.5, Hole("t"), Hole("t")), errors.ErrCodeInvalidInput},
		{"empty token", Hole(""), errors.ErrCodeInvalidToken},
		{"selected not in slot", badSelected, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFromShape(tt.shape)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestReplaceFailureKeepsTree(t *testing.T) {
	requireT := require.New(t)

	tree, top, _ := halves(t)
	before := tree.Fingerprint()

	err := tree.Replace(Horizontal(0.5, Leaf("a"), &Shape{}))
	requireT.Error(err)
	requireT.Equal(before, tree.Fingerprint())
	requireT.True(tree.Has(top))
	requireT.NoError(tree.Validate())

	requireT.NoError(tree.Replace(nil))
	requireT.True(tree.IsEmpty())
}

func TestShapeRoundTrip(t *testing.T) {
	requireT := require.New(t)

	tree, err := NewFromShape(Horizontal(0.3,
		&Shape{Slot: Slot{Contents: []ContentID{"a", "b"}, Selected: "b"}, Placeholders: []placeholder.Token{"pa"}},
		Vertical(0.6, Hole("t1", "t2"), Leaf("c")),
	))
	requireT.NoError(err)

	shape := tree.Shape()
	requireT.Equal(KindNode, shape.Kind())
	requireT.Equal(KindLeaf, shape.Left.Kind())
	requireT.Equal(KindPlaceholder, shape.Right.Left.Kind())

	clone, err := NewFromShape(shape)
	requireT.NoError(err)
	requireT.Equal(shape, clone.Shape())
	requireT.Equal(tree.Fingerprint(), clone.Fingerprint())
	requireT.NoError(clone.Validate())
}

func TestFingerprint(t *testing.T) {
	requireT := require.New(t)

	a, err := NewFromShape(Vertical(0.5, Leaf("top"), Leaf("bottom")))
	requireT.NoError(err)

	withIDs := Vertical(0.5, Leaf("top"), Leaf("bottom"))
	withIDs.ID, withIDs.Left.ID, withIDs.Right.ID = 20, 21, 22
	b, err := NewFromShape(withIDs)
	requireT.NoError(err)
	requireT.Equal(a.Fingerprint(), b.Fingerprint())

	requireT.NoError(b.SetDivider(b.Root(), 0.4))
	requireT.NotEqual(a.Fingerprint(), b.Fingerprint())

	c, err := NewFromShape(Horizontal(0.5, Leaf("top"), Leaf("bottom")))
	requireT.NoError(err)
	requireT.NotEqual(a.Fingerprint(), c.Fingerprint())
}
