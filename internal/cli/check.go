package cli

import (
	"context"
	"math"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/render"
	"github.com/matzehuels/docktree/pkg/split"
)

// checkCommand creates the check command validating a stored layout.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "check <name>",
		Short:             "Verify that a stored layout restores cleanly",
		Long:              `Restore a stored layout and verify the tree: every entry placed, links consistent, and leaves and placeholders tiling the bounds without gaps.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.layoutNameCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runCheck(ctx context.Context, name string) error {
	tree, rep, err := c.restore(ctx, name)
	if err != nil {
		return err
	}
	if err := checkTree(tree); err != nil {
		printError("%s is inconsistent", name)
		return err
	}
	if failed := rep.Failed(); len(failed) > 0 {
		printReport(rep)
		return errors.Wrap(errors.ErrCodeInvalidTopology, rep.Err(), "%d of %d entries of %s not restored", len(failed), len(rep.Results), name)
	}
	printSuccess("%s is consistent: %d entries restored", name, rep.Placed())
	return nil
}

// checkTree validates the tree links and that leaves and placeholders cover
// the bounds exactly.
func checkTree(tree *split.Tree) error {
	if err := tree.Validate(); err != nil {
		return err
	}
	if tree.IsEmpty() {
		return nil
	}
	bounds := tree.Bounds()
	area := 0.0
	for _, b := range render.Blocks(tree) {
		if !b.Rect.Valid() || !bounds.Contains(b.Rect) {
			return errors.New(errors.ErrCodeInvalidTopology, "block %d at %s leaves the bounds", b.ID, formatRect(b.Rect))
		}
		area += b.Rect.Area()
	}
	if math.Abs(area-bounds.Area()) > geom.Eps*math.Max(1, bounds.Area()) {
		return errors.New(errors.ErrCodeInvalidTopology, "blocks cover %g of %g", area, bounds.Area())
	}
	return nil
}
