package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bouqlink/bouqlink/pkg/errors"
)

// shortenOpts holds options for the shorten command.
type shortenOpts struct {
	noCache bool
	strict  bool
}

// shortenCommand creates the shorten command.
func (c *CLI) shortenCommand() *cobra.Command {
	opts := shortenOpts{}

	cmd := &cobra.Command{
		Use:   "shorten [url]",
		Short: "Shorten a share link",
		Long: `Shorten a share link with the configured service.

When the service fails the original link is printed unchanged, unless
--strict is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShorten(cmd, args, opts)
		},
	}

	c.bind(cmd.Flags(), "endpoint", "shortener.endpoint", "", "shortener service URL")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the short-link cache")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail instead of falling back to the long link")

	return cmd
}

func (c *CLI) runShorten(cmd *cobra.Command, args []string, opts shortenOpts) error {
	ctx := cmd.Context()
	long, err := c.readArgOrStdin(args)
	if err != nil {
		return err
	}
	if err := errors.ValidateURL(long); err != nil {
		return err
	}

	store := c.openCache(ctx, opts.noCache)
	defer store.Close()

	var short string
	err = spin(ctx, "Shortening...", func() error {
		var err error
		short, err = c.newShortener(store).ShortenErr(ctx, long)
		return err
	})
	if err != nil {
		if opts.strict {
			return err
		}
		loggerFromContext(ctx).Warn("shortening failed, using the long link", "err", errors.UserMessage(err))
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), short)
	return err
}
