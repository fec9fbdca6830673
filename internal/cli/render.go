package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/render"
	"github.com/matzehuels/docktree/pkg/split"
)

const (
	viewBlocks = "blocks" // the rectangles as they appear on screen
	viewTree   = "tree"   // the split tree as a Graphviz diagram

	defaultWidth  = 800 // default SVG viewport width
	defaultHeight = 450 // default SVG viewport height
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file; the extension picks the format
	view      string   // "blocks" or "tree"
	detailed  bool     // rectangles and tokens in tree diagrams
	width     float64  // viewport width in pixels
	height    float64  // viewport height in pixels
	highlight []string // nodes or contents drawn with a thick outline
}

// renderCommand creates the render command drawing a stored layout.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{view: viewBlocks, width: defaultWidth, height: defaultHeight}

	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Draw a stored layout as SVG, DOT or text",
		Long: `Draw a stored layout.

The blocks view draws every leaf and placeholder where it sits. The tree view
draws the split tree itself with Graphviz. The output extension selects the
format: .svg, .dot (tree view only) or .txt.`,
		Example: `  docktree render main -o main.svg
  docktree render main --view tree --detailed -o main.dot
  docktree render main --highlight editor -o main.svg`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.layoutNameCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == "" {
				opts.output = args[0] + ".svg"
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <name>.svg)")
	cmd.Flags().StringVar(&opts.view, "view", opts.view, "what to draw: blocks or tree")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show rectangles and tokens in the tree view")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "SVG width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "SVG height in pixels")
	cmd.Flags().StringSliceVar(&opts.highlight, "highlight", nil, "nodes or contents to highlight")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, name string, opts renderOpts) error {
	tree, _, err := c.restore(ctx, name)
	if err != nil {
		return err
	}
	data, err := renderTree(tree, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %s (%s view)", name, opts.view)
	printFile(opts.output)
	return nil
}

func renderTree(tree *split.Tree, opts renderOpts) ([]byte, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
	switch opts.view {
	case viewBlocks:
		switch ext {
		case "svg":
			ids := make([]split.NodeID, 0, len(opts.highlight))
			for _, h := range opts.highlight {
				id, err := nodeArg(tree, h)
				if err != nil {
					return nil, err
				}
				ids = append(ids, id)
			}
			return render.SVG(tree, render.WithSize(opts.width, opts.height), render.WithHighlight(ids...)), nil
		case "txt":
			return []byte(render.Text(tree, previewCols, previewRows)), nil
		}
	case viewTree:
		dot := render.ToDOT(tree, render.DOTOptions{Detailed: opts.detailed})
		switch ext {
		case "dot":
			return []byte(dot), nil
		case "svg":
			return render.RenderSVG(dot)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown view %q", opts.view)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "%s view cannot be written as %q", opts.view, ext)
}
