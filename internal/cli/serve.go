package cli

import (
	"github.com/spf13/cobra"

	"github.com/bouqlink/bouqlink/pkg/layout"
	"github.com/bouqlink/bouqlink/pkg/server"
)

// serveOpts holds options for the serve command.
type serveOpts struct {
	noCache bool
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the stateless HTTP API until interrupted.

The shortener endpoint is enabled when shortener.enabled is set, and
previews are cached in the configured cache backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	c.bind(cmd.Flags(), "addr", "server.addr", "", "listen address (default :8080)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the preview and short-link cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()

	policy, err := layout.ParsePolicy(c.Config.Layout.Policy)
	if err != nil {
		return err
	}
	store := c.openCache(ctx, opts.noCache)
	defer store.Close()

	srvOpts := server.Options{
		BaseURL: c.Config.BaseURL,
		Policy:  policy,
		Cache:   store,
		Logger:  c.Logger,
	}
	if c.Config.Shortener.Enabled {
		srvOpts.Shortener = c.newShortener(store)
	}

	printInfo("Serving on %s", StyleLink.Render(c.Config.Server.Addr))
	return server.New(srvOpts).ListenAndServe(ctx, c.Config.Server.Addr)
}
