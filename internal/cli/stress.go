package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docktree/pkg/address"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/grid"
	"github.com/matzehuels/docktree/pkg/layout"
	"github.com/matzehuels/docktree/pkg/placeholder"
	"github.com/matzehuels/docktree/pkg/split"
)

type stressOpts struct {
	steps   int
	seed    uint64
	stack   int // contents per cell of the 2x2 grid
	pruneEv int // prune every n steps, 0 disables
}

// stressStats counts what the stress run did.
type stressStats struct {
	Steps      int
	Hidden     int
	ByToken    int
	ByAddress  int
	Selected   int
	Pruned     int
	FinalNodes int
}

// stressCommand creates the stress command: random show/hide cycles over a
// grid of stacks, validating the tree after every step.
func (c *CLI) stressCommand() *cobra.Command {
	opts := stressOpts{steps: 1000, seed: 1, stack: 3, pruneEv: 25}

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Hide and show contents at random, checking the tree after each step",
		Long: `Build a 2x2 grid of stacks and hide and show its contents at random.

Hidden contents leave placeholder tokens behind. Showing a content goes back
to its token when it is still in the tree, and replays the address recorded
when it was hidden otherwise. Every few steps some hidden contents lose their
tokens and the tree is pruned. After every step the tree is validated and its
blocks must tile the bounds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)
			stats, err := runStress(cmd.Context(), opts, c.Config.Bounds, logger)
			if err != nil {
				printError("Stress failed after %d steps (seed %d)", stats.Steps, opts.seed)
				return err
			}
			prog.done(fmt.Sprintf("Ran %d steps", stats.Steps))
			printSuccess("Tree stayed consistent")
			printDetail("%d hidden · %d shown by token · %d shown by address · %d selected · %d tokens pruned",
				stats.Hidden, stats.ByToken, stats.ByAddress, stats.Selected, stats.Pruned)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.steps, "steps", opts.steps, "number of random steps")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "random seed")
	cmd.Flags().IntVar(&opts.stack, "stack", opts.stack, "contents per grid cell")
	cmd.Flags().IntVar(&opts.pruneEv, "prune-every", opts.pruneEv, "prune invalidated tokens every n steps (0 disables)")

	return cmd
}

func runStress(ctx context.Context, opts stressOpts, bounds geom.Rect, logger *log.Logger) (stressStats, error) {
	var stats stressStats
	rnd := rand.New(rand.NewPCG(opts.seed, 0x5eed))
	reg := placeholder.NewRegistry()

	g := grid.New()
	var contents []split.ContentID
	for cell := range 4 {
		stack := make([]split.ContentID, max(opts.stack, 1))
		for i := range stack {
			c := split.ContentID(fmt.Sprintf("d%d%d", cell, i))
			reg.Register(string(c), placeholder.MustToken("dock", string(c)))
			stack[i] = c
		}
		g.Add(float64(cell%2), float64(cell/2), 1, 1, stack...)
		contents = append(contents, stack...)
	}
	tree, err := g.Tree(split.WithBounds(bounds), split.WithStrategy(reg), split.WithName("stress"))
	if err != nil {
		return stats, err
	}

	hidden := make(map[split.ContentID]address.Address)
	for stats.Steps = 0; stats.Steps < opts.steps; stats.Steps++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		c := contents[rnd.IntN(len(contents))]
		tok, _ := reg.PlaceholderFor(string(c))
		if _, isHidden := hidden[c]; !isHidden {
			switch rnd.IntN(3) {
			case 0:
				if err := split.EnsureNotHidden(c, tree); err != nil {
					return stats, fmt.Errorf("step %d: select %s: %w", stats.Steps, c, err)
				}
				stats.Selected++
			default:
				leaf, _ := tree.LeafOf(c)
				addr, err := address.FromRoot(tree, leaf)
				if err != nil {
					return stats, fmt.Errorf("step %d: address of %s: %w", stats.Steps, c, err)
				}
				if _, err := tree.RemoveContent(c); err != nil {
					return stats, fmt.Errorf("step %d: hide %s: %w", stats.Steps, c, err)
				}
				hidden[c] = addr
				stats.Hidden++
			}
		} else {
			if id, ok := tree.Locate(tok); ok && kindOf(tree, id) != split.KindNode {
				if err := tree.Stack(id, c); err != nil {
					return stats, fmt.Errorf("step %d: show %s at token: %w", stats.Steps, c, err)
				}
				stats.ByToken++
			} else {
				if _, err := layout.Drop(tree, hidden[c], c); err != nil {
					return stats, fmt.Errorf("step %d: show %s at %s: %w", stats.Steps, c, hidden[c], err)
				}
				reg.Revalidate(placeholder.Token("dock." + c))
				stats.ByAddress++
			}
			delete(hidden, c)
		}

		if opts.pruneEv > 0 && stats.Steps%opts.pruneEv == opts.pruneEv-1 {
			stats.Pruned += pruneSome(rnd, tree, reg, hidden)
		}

		if err := checkTree(tree); err != nil {
			return stats, fmt.Errorf("step %d: %w", stats.Steps, err)
		}
		if got, want := len(tree.Contents()), len(contents)-len(hidden); got != want {
			return stats, fmt.Errorf("step %d: %d contents in tree, want %d", stats.Steps, got, want)
		}
	}
	stats.FinalNodes = tree.Len()
	logger.Debug("stress finished", "steps", stats.Steps, "nodes", stats.FinalNodes, "hidden", len(hidden))
	return stats, nil
}

// pruneSome invalidates the tokens of about half the hidden contents and
// prunes the tree.
func pruneSome(rnd *rand.Rand, tree *split.Tree, reg *placeholder.Registry, hidden map[split.ContentID]address.Address) int {
	keys := make([]split.ContentID, 0, len(hidden))
	for c := range hidden {
		keys = append(keys, c)
	}
	slices.Sort(keys)
	for _, c := range keys {
		if rnd.IntN(2) == 0 {
			reg.Invalidate(placeholder.Token("dock." + c))
		}
	}
	return len(tree.Prune())
}

func kindOf(tree *split.Tree, id split.NodeID) split.Kind {
	k, _ := tree.Kind(id)
	return k
}
