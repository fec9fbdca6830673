package grid

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/placeholder"
	"github.com/matzehuels/docktree/pkg/split"
)

func tokenStrings(ts []placeholder.Token) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}

func requireLeafRect(t *testing.T, tree *split.Tree, c split.ContentID, want geom.Rect) {
	t.Helper()
	id, ok := tree.LeafOf(c)
	require.True(t, ok, "content %q not placed", c)
	got, err := tree.RectangleOf(id)
	require.NoError(t, err)
	require.True(t, want.ApproxEqual(got, 1e-9), "%q: want %+v, got %+v", c, want, got)
}

func TestTwoStackedHalves(t *testing.T) {
	requireT := require.New(t)

	g := New()
	g.Add(0, 0, 1, 0.5, "A")
	g.Add(0, 0.5, 1, 0.5, "B")
	tree, err := g.Tree()
	requireT.NoError(err)

	root, ok := tree.Info(tree.Root())
	requireT.True(ok)
	requireT.Equal(split.KindNode, root.Kind)
	requireT.Equal(geom.Vertical, root.Orientation)
	requireT.InDelta(0.5, root.Divider, 1e-12)
	requireT.Len(tree.Leaves(), 2)

	requireLeafRect(t, tree, "A", geom.Rect{X: 0, Y: 0, Width: 1, Height: 0.5})
	requireLeafRect(t, tree, "B", geom.Rect{X: 0, Y: 0.5, Width: 1, Height: 0.5})
}

func TestNestedCellIsUngriddable(t *testing.T) {
	requireT := require.New(t)

	g := New()
	g.Add(0, 0, 1, 1, "A")
	g.Add(0.3, 0.3, 0.4, 0.4, "B")
	_, err := g.Tree()
	requireT.Error(err)

	var ug *UngriddableError
	requireT.True(stderrors.As(err, &ug))
	requireT.Len(ug.Cells, 2)
	requireT.True(geom.Unit.ApproxEqual(ug.Region, 1e-9))
	requireT.True(errors.Is(err, errors.ErrCodeUngriddableLayout))
	requireT.Equal(errors.ErrCodeUngriddableLayout, ug.Code())
}

func TestUngriddable(t *testing.T) {
	tests := []struct {
		name  string
		cells []Cell
	}{
		{
			name: "gap",
			cells: []Cell{
				{X: 0, Y: 0, Width: 0.5, Height: 1, Contents: []split.ContentID{"a"}},
				{X: 0.5, Y: 0, Width: 0.4, Height: 0.5, Contents: []split.ContentID{"b"}},
				{X: 0.5, Y: 0.5, Width: 0.5, Height: 0.5, Contents: []split.ContentID{"c"}},
			},
		},
		{
			name: "partial overlap",
			cells: []Cell{
				{X: 0, Y: 0, Width: 0.6, Height: 1, Contents: []split.ContentID{"a"}},
				{X: 0.5, Y: 0, Width: 0.5, Height: 1, Contents: []split.ContentID{"b"}},
			},
		},
		{
			name: "pinwheel",
			cells: []Cell{
				{X: 0, Y: 0, Width: 2, Height: 1, Contents: []split.ContentID{"n"}},
				{X: 2, Y: 0, Width: 1, Height: 2, Contents: []split.ContentID{"e"}},
				{X: 1, Y: 2, Width: 2, Height: 1, Contents: []split.ContentID{"s"}},
				{X: 0, Y: 1, Width: 1, Height: 2, Contents: []split.ContentID{"w"}},
				{X: 1, Y: 1, Width: 1, Height: 1, Contents: []split.ContentID{"c"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.cells)
			require.Error(t, err)
			require.True(t, errors.Is(err, errors.ErrCodeUngriddableLayout), "got %v", err)
		})
	}
}

func TestBuildRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		cells []Cell
	}{
		{"empty", nil},
		{"zero width", []Cell{{Width: 0, Height: 1, Contents: []split.ContentID{"a"}}}},
		{"negative height", []Cell{{Width: 1, Height: -1, Contents: []split.ContentID{"a"}}}},
		{"no content", []Cell{{Width: 1, Height: 1}}},
		{"bad selection", []Cell{{Width: 1, Height: 1, Contents: []split.ContentID{"a"}, Selected: "b"}}},
		{"duplicate content", []Cell{
			{Width: 1, Height: 1, Contents: []split.ContentID{"a"}},
			{X: 1, Width: 1, Height: 1, Contents: []split.ContentID{"a"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.cells)
			require.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
		})
	}
}

func TestStackedCell(t *testing.T) {
	requireT := require.New(t)

	g := New()
	g.Add(0, 0, 1, 1, "a")
	g.Add(0, 0, 1, 1, "b", "a")
	g.Add(1, 0, 1, 1, "c")
	requireT.NoError(g.Select(0, 0, 1, 1, "b"))
	requireT.Equal(2, g.Len())

	tree, err := g.Tree()
	requireT.NoError(err)
	id, _ := tree.LeafOf("a")
	info, _ := tree.Info(id)
	requireT.Equal([]split.ContentID{"a", "b"}, info.Slot.Contents)
	requireT.Equal(split.ContentID("b"), info.Slot.Selected)

	requireT.Error(g.Select(0, 0, 1, 1, "c"))
	requireT.True(errors.Is(g.Select(5, 5, 1, 1, "a"), errors.ErrCodeNotFound))
}

func TestPlaceholderCell(t *testing.T) {
	requireT := require.New(t)

	g := New()
	g.Add(0, 0, 1, 1, "a")
	g.AddPlaceholders(1, 0, 1, 1, "dock.console", "dock.console", "dock.log")
	g.AddPlaceholders(0, 0, 1, 1, "dock.a")

	tree, err := g.Tree()
	requireT.NoError(err)

	at, ok := tree.Locate("dock.console")
	requireT.True(ok)
	kind, _ := tree.Kind(at)
	requireT.Equal(split.KindPlaceholder, kind)
	requireT.Equal([]string{"dock.console", "dock.log"}, tokenStrings(tree.Placeholders(at)))

	a, _ := tree.LeafOf("a")
	requireT.Equal([]string{"dock.a"}, tokenStrings(tree.Placeholders(a)))
	requireT.NoError(tree.Validate())
}

func TestNormalizesToBoundingBox(t *testing.T) {
	requireT := require.New(t)

	g := New()
	g.Add(100, 50, 300, 200, "left")
	g.Add(400, 50, 100, 200, "right")
	tree, err := g.Tree()
	requireT.NoError(err)

	requireLeafRect(t, tree, "left", geom.Rect{X: 0, Y: 0, Width: 0.75, Height: 1})
	requireLeafRect(t, tree, "right", geom.Rect{X: 0.75, Y: 0, Width: 0.25, Height: 1})
}

func TestPrefersBalancedCut(t *testing.T) {
	requireT := require.New(t)

	g := New()
	for i, c := range []split.ContentID{"a", "b", "c", "d"} {
		g.Add(float64(i), 0, 1, 1, c)
	}
	shape, err := g.Shape()
	requireT.NoError(err)
	requireT.Equal(geom.Horizontal, shape.Orientation)
	requireT.InDelta(0.5, shape.Divider, 1e-12)
	requireT.Equal(split.KindNode, shape.Left.Kind())
	requireT.Equal(split.KindNode, shape.Right.Kind())
}

func TestPrefersVerticalLineOnTie(t *testing.T) {
	requireT := require.New(t)

	g := New()
	g.Add(0, 0, 1, 1, "nw")
	g.Add(1, 0, 1, 1, "ne")
	g.Add(0, 1, 1, 1, "sw")
	g.Add(1, 1, 1, 1, "se")
	shape, err := g.Shape()
	requireT.NoError(err)

	requireT.Equal(geom.Horizontal, shape.Orientation)
	requireT.Equal(geom.Vertical, shape.Left.Orientation)
	requireT.Equal(split.ContentID("nw"), shape.Left.Left.Slot.Selected)
	requireT.Equal(split.ContentID("sw"), shape.Left.Right.Slot.Selected)
}

func TestPrefersLowestCoordinateOnTie(t *testing.T) {
	requireT := require.New(t)

	// three equal columns: cuts at 1/3 and 2/3 are equally unbalanced
	g := New()
	g.Add(0, 0, 1, 1, "a")
	g.Add(1, 0, 1, 1, "b")
	g.Add(2, 0, 1, 1, "c")
	shape, err := g.Shape()
	requireT.NoError(err)
	requireT.InDelta(1.0/3, shape.Divider, 1e-12)
	requireT.Equal(split.KindLeaf, shape.Left.Kind())
	requireT.InDelta(0.5, shape.Right.Divider, 1e-12)
}

func TestBuildIgnoresInsertionOrder(t *testing.T) {
	requireT := require.New(t)

	cells := []Cell{
		{X: 0, Y: 0, Width: 2, Height: 1, Contents: []split.ContentID{"top"}},
		{X: 0, Y: 1, Width: 1, Height: 1, Contents: []split.ContentID{"bl"}},
		{X: 1, Y: 1, Width: 1, Height: 2, Contents: []split.ContentID{"right"}},
		{X: 0, Y: 2, Width: 1, Height: 1, Contents: []split.ContentID{"bl2"}},
	}
	want, err := Build(cells)
	requireT.NoError(err)

	reversed := []Cell{cells[3], cells[2], cells[1], cells[0]}
	got, err := Build(reversed)
	requireT.NoError(err)
	requireT.Equal(want, got)
}

func TestFromCellsMergesEqualRectangles(t *testing.T) {
	requireT := require.New(t)

	g := FromCells([]Cell{
		{X: 0, Y: 0, Width: 1, Height: 1, Contents: []split.ContentID{"a"}},
		{X: 0, Y: 0, Width: 1, Height: 1, Contents: []split.ContentID{"b"}, Selected: "b", Placeholders: []placeholder.Token{"t"}},
	})
	cells := g.Cells()
	requireT.Len(cells, 1)
	requireT.Equal([]split.ContentID{"a", "b"}, cells[0].Contents)
	requireT.Equal(split.ContentID("b"), cells[0].Selected)
	requireT.Len(cells[0].Placeholders, 1)

	// Cells hands out copies
	cells[0].Contents[0] = "z"
	requireT.Equal(split.ContentID("a"), g.Cells()[0].Contents[0])
}
