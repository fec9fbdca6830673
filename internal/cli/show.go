package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docktree/pkg/layout"
	"github.com/matzehuels/docktree/pkg/render"
)

// showCommand creates the show command printing a stored layout.
func (c *CLI) showCommand() *cobra.Command {
	var cols, rows int

	cmd := &cobra.Command{
		Use:               "show <name>",
		Short:             "Restore a stored layout and print it",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.layoutNameCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShow(cmd.Context(), args[0], cols, rows)
		},
	}

	cmd.Flags().IntVar(&cols, "cols", previewCols, "preview width in characters")
	cmd.Flags().IntVar(&rows, "rows", previewRows, "preview height in lines")

	return cmd
}

func (c *CLI) runShow(ctx context.Context, name string, cols, rows int) error {
	tree, rep, err := c.restore(ctx, name)
	if err != nil {
		return err
	}
	c.printTree(tree, false)
	printReport(rep)
	fmt.Fprintln(output)
	fmt.Fprint(output, render.Text(tree, cols, rows))
	return nil
}

// printReport prints the outcome counts of a restore.
func printReport(rep layout.Report) {
	outcomes := []layout.Outcome{
		layout.OutcomeRebuilt, layout.OutcomeIdentity, layout.OutcomeToken,
		layout.OutcomeStructural, layout.OutcomeSkipped, layout.OutcomeInvalid, layout.OutcomeUnplaced,
	}
	var parts []string
	for _, o := range outcomes {
		if n := rep.Count(o); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, o))
		}
	}
	if len(parts) == 0 {
		printInfo("Layout is empty")
		return
	}
	printDetail("%s", strings.Join(parts, " · "))
	for _, res := range rep.Failed() {
		printWarning("entry %d (%s %s): %v", res.Index, res.Kind, res.Content, res.Err)
	}
}
