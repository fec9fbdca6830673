package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docktree/pkg/address"
	"github.com/matzehuels/docktree/pkg/errors"
)

const (
	formatXML    = "xml"
	formatBinary = "binary"
	formatText   = "text"
	formatJSON   = "json"
)

type addressOpts struct {
	format  string
	version string
	output  string
}

// addressCommand creates the address command printing the address of a node.
func (c *CLI) addressCommand() *cobra.Command {
	opts := addressOpts{format: formatXML}

	cmd := &cobra.Command{
		Use:   "address <name> <node-id|content>",
		Short: "Print the persistent address of a node",
		Long: `Print the address of a node of a stored layout: the directions and sizes
from the root down to the node, plus the node ids when the format records them.

Addresses written here can be replayed later with 'docktree replay', even after
the layout has changed.`,
		Example: `  docktree address main editor
  docktree address main 7 --format binary -o editor.addr
  docktree address main editor --format-version 1.0.7`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.layoutNameCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAddress(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: xml, binary, text, json")
	cmd.Flags().StringVar(&opts.version, "format-version", "", "write an older format version (e.g. 1.0.7)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func (c *CLI) runAddress(ctx context.Context, stdout io.Writer, name, node string, opts addressOpts) error {
	tree, _, err := c.restore(ctx, name)
	if err != nil {
		return err
	}
	id, err := nodeArg(tree, node)
	if err != nil {
		return err
	}
	addr, err := address.FromRoot(tree, id)
	if err != nil {
		return err
	}

	version := address.Current
	if opts.version != "" {
		if version, err = address.ParseVersion(opts.version); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	switch opts.format {
	case formatXML:
		if err = address.EncodeXML(&buf, addr, version); err == nil {
			buf.WriteByte('\n')
		}
	case formatBinary:
		if opts.output == "" {
			return errors.New(errors.ErrCodeInvalidInput, "binary addresses need --output")
		}
		err = address.WriteBinary(&buf, addr, version)
	case formatText:
		fmt.Fprintln(&buf, addr.String())
	case formatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(addr)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q", opts.format)
	}
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = buf.WriteTo(stdout)
		return err
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Wrote address of node %d (%d steps)", id, addr.Len())
	printFile(opts.output)
	return nil
}
