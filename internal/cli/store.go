package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docktree/pkg/cache"
	"github.com/matzehuels/docktree/pkg/config"
	"github.com/matzehuels/docktree/pkg/errors"
)

// storeCommand creates the layout store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the layout store",
	}

	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeDeleteCommand())
	cmd.AddCommand(c.storeClearCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

// storeListCommand creates the "store list" subcommand.
func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := c.layoutNames(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No layouts stored")
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

// storeDeleteCommand creates the "store delete" subcommand.
func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <name>...",
		Short:             "Delete stored layouts",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.layoutNameCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()
			for _, name := range args {
				if err := store.Delete(cmd.Context(), name); err != nil {
					return err
				}
				printSuccess("Deleted %s", name)
			}
			return nil
		},
	}
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored layout and cached shape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			backend, err := c.openCache(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			switch b := backend.(type) {
			case *cache.FileCache:
				if err := b.Clear(); err != nil {
					return err
				}
				printSuccess("Cleared layout store")
				printDetail("Directory: %s", b.Dir())
			case *cache.RedisCache:
				keys, err := b.Keys(ctx, c.scopePattern())
				if err != nil {
					return err
				}
				for _, k := range keys {
					if err := b.Delete(ctx, k); err != nil {
						return err
					}
				}
				printSuccess("Cleared %d keys", len(keys))
			case *cache.NullCache:
				printInfo("Store is disabled")
			default:
				return errors.New(errors.ErrCodeUnsupported, "the %s backend cannot be cleared from the CLI", c.Config.Store.Backend)
			}
			return nil
		},
	}
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where layouts are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.Config.Store
			var where string
			switch s.Backend {
			case config.BackendRedis:
				where = s.RedisURL
			case config.BackendMongo:
				where = s.MongoURI + " " + s.MongoDatabase + "." + s.MongoCollection
			case config.BackendNone:
				where = "(disabled)"
			default:
				where = s.Dir
				if where == "" {
					dir, err := config.StoreDir()
					if err != nil {
						return fmt.Errorf("get store dir: %w", err)
					}
					where = dir
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), where)
			return nil
		},
	}
}

// scopePattern matches every key of the configured scope.
func (c *CLI) scopePattern() string {
	if c.Config.Store.Scope == "" {
		return "*"
	}
	return c.Config.Store.Scope + ":*"
}

// layoutNames lists stored layouts on backends that can enumerate keys.
func (c *CLI) layoutNames(ctx context.Context) ([]string, error) {
	backend, err := c.openCache(ctx)
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	prefix := c.Config.Store.Keyer().LayoutKey("")
	var keys []string
	switch b := backend.(type) {
	case *cache.FileCache:
		keys, err = b.Keys()
	case *cache.RedisCache:
		keys, err = b.Keys(ctx, prefix+"*")
	case *cache.NullCache:
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "the %s backend cannot list layouts", c.Config.Store.Backend)
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, k := range keys {
		if name, ok := strings.CutPrefix(k, prefix); ok && name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}
