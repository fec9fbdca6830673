package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docktree/pkg/api"
	"github.com/matzehuels/docktree/pkg/observability"
	"github.com/matzehuels/docktree/pkg/observability/prom"
)

type serveOpts struct {
	addr    string
	metrics bool
}

// serveCommand creates the serve command exposing a stored layout over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve <name>",
		Short: "Serve a stored layout over HTTP",
		Long: `Restore a stored layout and answer queries about it over HTTP: node
rectangles, addresses, replays of saved addresses and placeholder lookups.

The listen address and the /metrics endpoint default to the [server] section
of the config file.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.layoutNameCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				opts.addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("metrics") {
				opts.metrics = c.Config.Server.Metrics
			}
			return c.runServe(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "expose Prometheus metrics at /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, name string, opts serveOpts) error {
	apiOpts := []api.Option{api.WithLogger(c.Logger)}
	if opts.metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		prom.New(reg).Install()
		defer observability.Reset()
		apiOpts = append(apiOpts, api.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	tree, _, err := c.restore(ctx, name)
	if err != nil {
		return err
	}

	printSuccess("Serving %s on %s", StyleHighlight.Render(name), opts.addr)
	printNextStep("Try", "curl http://localhost"+portOf(opts.addr)+"/tree")
	return api.New(tree, apiOpts...).ListenAndServe(ctx, opts.addr)
}

func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i:]
		}
	}
	return ""
}
