package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docktree/pkg/cache"
	"github.com/matzehuels/docktree/pkg/grid"
	"github.com/matzehuels/docktree/pkg/layout"
	"github.com/matzehuels/docktree/pkg/render"
	"github.com/matzehuels/docktree/pkg/split"
)

type buildOpts struct {
	save    string
	preview bool
	noCache bool
}

// buildCommand creates the build command turning a grid description into a tree.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build <grid-file>",
		Short: "Build a split tree from a grid description",
		Long: `Build a split tree from a YAML or JSON grid description.

Each cell of the grid becomes a leaf (or a placeholder when it only lists
tokens). The built shape is cached by the hash of the file, so rebuilding an
unchanged grid skips the guillotine search.

With --save the tree is captured as a layout and written to the store.`,
		Example: `  docktree build ide.yaml
  docktree build ide.yaml --save main --preview`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.save, "save", "", "store the tree as a layout under this name")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "print an ASCII preview")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the shape cache")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, path string, opts buildOpts) error {
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	f, err := grid.Decode(bytes.NewReader(data), grid.FormatFromPath(path))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	store, closeStore, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	prog := newProgress(logger)
	shape, cached, err := c.buildShape(ctx, store, f, data, opts.noCache)
	if err != nil {
		return err
	}

	bounds := c.Config.Bounds
	if f.Bounds != nil {
		bounds = *f.Bounds
	}
	tree, err := split.NewFromShape(shape, split.WithBounds(bounds), split.WithName(f.Name))
	if err != nil {
		return err
	}
	if cached {
		prog.done("Loaded cached shape of " + f.Name)
	} else {
		prog.done(fmt.Sprintf("Built %s from %d cells", f.Name, len(f.Cells)))
	}

	c.printTree(tree, opts.preview)

	if opts.save == "" {
		return nil
	}
	l, err := layout.Capture(tree, opts.save)
	if err != nil {
		return err
	}
	if err := store.Save(ctx, l); err != nil {
		return err
	}
	printSuccess("Saved layout %s", StyleHighlight.Render(opts.save))
	printDetail("%d entries · id %s", len(l.Entries), l.ID)
	printNextStep("Inspect it with", appName+" show "+opts.save)
	return nil
}

// buildShape runs the grid builder, going through the shape cache unless
// noCache is set. Cache failures only cost the rebuild.
func (c *CLI) buildShape(ctx context.Context, store *layout.Store, f *grid.File, data []byte, noCache bool) (*split.Shape, bool, error) {
	logger := loggerFromContext(ctx)
	key := store.Keyer.ShapeKey(cache.Hash(data))

	if !noCache {
		if raw, hit, err := store.Cache.Get(ctx, key); err != nil {
			logger.Warn("shape cache unavailable", "err", err)
		} else if hit {
			var shape split.Shape
			if err := json.Unmarshal(raw, &shape); err == nil {
				return &shape, true, nil
			}
			logger.Debug("discarding unreadable cached shape", "key", key)
		}
	}

	shape, err := f.Grid().Shape()
	if err != nil {
		return nil, false, err
	}
	if !noCache {
		raw, err := json.Marshal(shape)
		if err == nil {
			err = store.Cache.Set(ctx, key, raw, store.TTL)
		}
		if err != nil {
			logger.Warn("could not cache shape", "err", err)
		}
	}
	return shape, false, nil
}

// printTree prints the block table and stats of tree, plus an ASCII preview
// when asked.
func (c *CLI) printTree(tree *split.Tree, preview bool) {
	blocks := render.Blocks(tree)
	title := tree.Name()
	if title == "" {
		title = "tree"
	}
	fmt.Fprintln(output, StyleTitle.Render(title))
	fmt.Fprintln(output, blockTable(blocks))
	printTreeStats(blocks, tree.Fingerprint())
	if preview {
		fmt.Fprintln(output)
		fmt.Fprint(output, render.Text(tree, previewCols, previewRows))
	}
}

const (
	previewCols = 60
	previewRows = 18
)
