package split

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/placeholder"
)

func TestAddPlaceholderMovesToken(t *testing.T) {
	requireT := require.New(t)

	tree, top, bottom := halves(t)
	requireT.NoError(tree.AddPlaceholder(top, "t"))
	requireT.NoError(tree.AddPlaceholder(top, "t"))
	requireT.Equal([]placeholder.Token{"t"}, tree.Placeholders(top))

	requireT.NoError(tree.AddPlaceholder(bottom, "t"))
	requireT.Empty(tree.Placeholders(top))
	at, _ := tree.Locate("t")
	requireT.Equal(bottom, at)
	requireT.NoError(tree.Validate())

	requireT.True(errors.Is(tree.AddPlaceholder(bottom, ""), errors.ErrCodeInvalidToken))
	requireT.ErrorIs(tree.AddPlaceholder(99, "x"), ErrUnknownNode)
}

func TestAddPlaceholderCollapsesEmptiedPlaceholder(t *testing.T) {
	requireT := require.New(t)

	tree, err := NewFromShape(Horizontal(0.5, Leaf("a"), Hole("t")))
	requireT.NoError(err)
	a, _ := tree.LeafOf("a")

	requireT.NoError(tree.AddPlaceholder(a, "t"))
	requireT.Equal(1, tree.Len())
	requireT.Equal(a, tree.Root())
	requireT.NoError(tree.Validate())
}

func TestRemovePlaceholder(t *testing.T) {
	requireT := require.New(t)

	tree, err := NewFromShape(Horizontal(0.5, Leaf("a"), Hole("t1", "t2")))
	requireT.NoError(err)

	requireT.True(tree.RemovePlaceholder("t1"))
	requireT.False(tree.RemovePlaceholder("t1"))
	requireT.Equal(3, tree.Len())

	requireT.True(tree.RemovePlaceholder("t2"))
	requireT.Equal(1, tree.Len())
	_, ok := tree.Locate("t2")
	requireT.False(ok)
	requireT.NoError(tree.Validate())
}

func TestPrune(t *testing.T) {
	requireT := require.New(t)

	reg := placeholder.NewRegistry()
	tree, err := NewFromShape(
		Horizontal(0.5, Leaf("a"), Vertical(0.5, Hole("t1"), Hole("t2"))),
		WithStrategy(reg),
	)
	requireT.NoError(err)
	t1, _ := tree.Locate("t1")

	requireT.Empty(tree.Prune())
	requireT.Equal(5, tree.Len())

	reg.Invalidate("t2")
	requireT.Equal([]placeholder.Token{"t2"}, tree.Prune())
	requireT.Equal(3, tree.Len())
	requireRect(t, tree.Bounds().Take(geom.Right, 0.5), tree, t1)
	requireT.NoError(tree.Validate())

	reg.Invalidate("t1")
	requireT.Equal([]placeholder.Token{"t1"}, tree.Prune())
	requireT.Equal(1, tree.Len())
	requireT.NoError(tree.Validate())
}

func TestPruneWithoutStrategy(t *testing.T) {
	tree, err := NewFromShape(Horizontal(0.5, Leaf("a"), Hole("t")))
	require.NoError(t, err)
	require.Nil(t, tree.Prune())
	require.Equal(t, 3, tree.Len())
}

func TestInstallStrategy(t *testing.T) {
	requireT := require.New(t)

	first := placeholder.NewRegistry()
	second := placeholder.NewRegistry()
	tree := New(WithName("left"), WithStrategy(first))
	requireT.Equal(1, first.Owners())

	tree.InstallStrategy(second)
	requireT.Equal(0, first.Owners())
	requireT.Equal(1, second.Owners())
	requireT.Equal(second, tree.Strategy())

	tree.UninstallStrategy()
	requireT.Equal(0, second.Owners())
	requireT.Nil(tree.Strategy())
}

func TestTokensInTreeOrder(t *testing.T) {
	tree, err := NewFromShape(Horizontal(0.5, Hole("b", "a"), Hole("c")))
	require.NoError(t, err)
	require.Equal(t, []placeholder.Token{"b", "a", "c"}, tree.Tokens())
}

func TestStrategyMayReadTree(t *testing.T) {
	requireT := require.New(t)

	tree := New()
	tree.InstallStrategy(placeholder.Funcs{
		For: func(c string) (placeholder.Token, bool) {
			if tree.Len() < 0 {
				return "", false
			}
			return placeholder.Token("dock." + c), true
		},
		Valid: func(tok placeholder.Token) bool {
			_, ok := tree.Locate(tok)
			return ok && tok != "dock.b"
		},
	})

	done := make(chan error, 1)
	go func() {
		a, err := tree.PlaceRoot("a")
		if err != nil {
			done <- err
			return
		}
		b, err := tree.Insert(a, geom.Right, 0.5, "b")
		if err != nil {
			done <- err
			return
		}
		if _, err := tree.Remove(b); err != nil {
			done <- err
			return
		}
		tree.Prune()
		done <- nil
	}()
	select {
	case err := <-done:
		requireT.NoError(err)
	case <-time.After(5 * time.Second):
		t.Fatal("edits blocked on a strategy reading the tree")
	}

	requireT.Equal(1, tree.Len())
	_, ok := tree.Locate("dock.b")
	requireT.False(ok)
	at, ok := tree.Locate("dock.a")
	requireT.True(ok)
	requireT.Equal(tree.Root(), at)
	requireT.NoError(tree.Validate())
}
