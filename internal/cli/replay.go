package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docktree/pkg/address"
	"github.com/matzehuels/docktree/pkg/split"
)

// replayCommand creates the replay command resolving a saved address.
func (c *CLI) replayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <name> <address-file>",
		Short: "Find where a saved address lands in a stored layout",
		Long: `Replay an address written by 'docktree address' against a stored layout.

The file may hold the XML or the binary encoding. The result tells which
rectangle the address occupies now and how it was found: by a node id that
is still live (identity), by walking the recorded directions (structural),
or not at all (unresolved).`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.layoutNameCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd.Context(), args[0], args[1])
		},
	}
}

func (c *CLI) runReplay(ctx context.Context, name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	addr, err := readAddress(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	tree, _, err := c.restore(ctx, name)
	if err != nil {
		return err
	}

	p := addr.Replay(tree)
	if !p.Placed() {
		printWarning("Address %s does not resolve in %s", addr, name)
		return nil
	}
	printSuccess("Replayed %d steps by %s", addr.Len(), StyleHighlight.Render(string(p.Tier)))
	printKeyValue("Rectangle", formatRect(p.Rect))
	if p.Anchor != split.NoID {
		printKeyValue("Anchor", fmt.Sprintf("%d", p.Anchor))
	}
	if node, rest, err := addr.Resolve(tree); err == nil && node != split.NoID {
		printKeyValue("Reaches", fmt.Sprintf("%d", node))
		if len(rest) > 0 {
			printKeyValue("Unfollowed", fmt.Sprintf("%d steps", len(rest)))
		}
	}
	return nil
}

// readAddress decodes XML when the data starts with markup and the binary
// encoding otherwise.
func readAddress(data []byte) (address.Address, error) {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("<")) {
		return address.DecodeXML(bytes.NewReader(data))
	}
	var a address.Address
	err := a.UnmarshalBinary(data)
	return a, err
}
