package cli

import (
	"context"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docktree/pkg/cache"
	"github.com/matzehuels/docktree/pkg/config"
	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/layout"
	"github.com/matzehuels/docktree/pkg/split"
)

// appName is the application name used for directories and display.
const appName = "docktree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the --config file. --verbose wins over the configured
// level.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			c.Logger.Debug("no config directory", "err", err)
			return nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.SetLogLevel(cfg.LogLevel())
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	c.Logger.Debug("loaded config", "path", path, "backend", cfg.Store.Backend)
	return nil
}

// openStore connects the configured layout store. The returned close
// function releases the backend.
func (c *CLI) openStore(ctx context.Context) (*layout.Store, func(), error) {
	backend, err := c.openCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	store := layout.NewStore(backend, c.Config.Store.Keyer(), c.Logger)
	store.TTL = c.Config.Store.TTL.Duration
	return store, func() { _ = backend.Close() }, nil
}

func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.Config.Store
	if cfg.Backend != config.BackendRedis && cfg.Backend != config.BackendMongo {
		return cfg.Open(ctx)
	}
	return withSpinner(ctx, "Connecting to "+cfg.Backend+"...", func() (cache.Cache, error) {
		return cfg.Open(ctx)
	})
}

// restore loads the layout stored under name and rebuilds its tree.
func (c *CLI) restore(ctx context.Context, name string) (*split.Tree, layout.Report, error) {
	store, closeStore, err := c.openStore(ctx)
	if err != nil {
		return nil, layout.Report{}, err
	}
	defer closeStore()

	l, err := store.Load(ctx, name)
	if err != nil {
		return nil, layout.Report{}, err
	}
	prog := newProgress(c.Logger)
	tree, rep := layout.Restore(l, layout.Options{Logger: c.Logger})
	prog.done("Restored " + strconv.Itoa(rep.Placed()) + " entries of " + name)
	for _, res := range rep.Failed() {
		c.Logger.Warn("entry not restored", "index", res.Index, "kind", res.Kind, "content", res.Content, "err", res.Err)
	}
	return tree, rep, nil
}

// nodeArg resolves a command argument naming either a node id or a content.
func nodeArg(tree *split.Tree, arg string) (split.NodeID, error) {
	if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if id := split.NodeID(n); tree.Has(id) {
			return id, nil
		}
	}
	if id, ok := tree.LeafOf(split.ContentID(arg)); ok {
		return id, nil
	}
	return split.NoID, errors.New(errors.ErrCodeNotFound, "no node or content %q", arg)
}

// layoutNameCompletion completes stored layout names for the file backend.
func (c *CLI) layoutNameCompletion(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names, err := c.layoutNames(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
