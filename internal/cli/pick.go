package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docktree/pkg/address"
	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/render"
)

// pickCommand creates the pick command: an interactive block picker that
// prints the address of the chosen block.
func (c *CLI) pickCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "pick <name>",
		Short:             "Pick a block interactively and print its address",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.layoutNameCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPick(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (c *CLI) runPick(ctx context.Context, stdout io.Writer, name string) error {
	tree, _, err := c.restore(ctx, name)
	if err != nil {
		return err
	}
	blocks := render.Blocks(tree)
	if len(blocks) == 0 {
		return errors.New(errors.ErrCodeNotFound, "layout %s is empty", name)
	}

	final, err := tea.NewProgram(NewBlockListModel(name, blocks), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("picker: %w", err)
	}
	m, ok := final.(BlockListModel)
	if !ok || m.Selected == nil {
		printInfo("Nothing selected")
		return nil
	}

	addr, err := address.FromRoot(tree, m.Selected.ID)
	if err != nil {
		return err
	}
	if err := address.EncodeXML(stdout, addr, address.Current); err != nil {
		return err
	}
	fmt.Fprintln(stdout)
	return nil
}
