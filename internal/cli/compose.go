package cli

import (
	stderrors "errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
	"github.com/bouqlink/bouqlink/pkg/errors"
	"github.com/bouqlink/bouqlink/pkg/flowers"
	pkgio "github.com/bouqlink/bouqlink/pkg/io"
	"github.com/bouqlink/bouqlink/pkg/layout"
	"github.com/bouqlink/bouqlink/pkg/share"
	"github.com/bouqlink/bouqlink/pkg/themes"
)

// composeOpts holds options for the compose command.
type composeOpts struct {
	theme       string
	letter      string
	sender      string
	flowers     []string
	shuffle     bool
	seed        uint64
	interactive bool
	json        bool
	noCache     bool
}

// composeCommand creates the compose command for building a bouquet.
func (c *CLI) composeCommand() *cobra.Command {
	opts := composeOpts{}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Build a bouquet and print its share link",
		Long: `Build a bouquet from flags or interactive prompts and print its share link.

Flowers are placed by the layout policy: "clustered" arranges them as a
hand-tied bunch, "random" scatters them. --shuffle starts from a random
arrangement of 5 to 8 flowers.`,
		Example: `  bouqlink compose --flower rose --flower tulip --letter "Happy birthday" --sender Sam
  bouqlink compose --shuffle --theme bauhaus --seed 7
  bouqlink compose -i --shorten`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompose(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.theme, "theme", "t", bouquet.DefaultThemeID, "theme id (see 'bouqlink themes')")
	cmd.Flags().StringVarP(&opts.letter, "letter", "l", "", "letter text")
	cmd.Flags().StringVarP(&opts.sender, "sender", "s", "", "sender signature")
	cmd.Flags().StringArrayVarP(&opts.flowers, "flower", "f", nil, "flower kind to add (repeatable, see 'bouqlink flowers')")
	cmd.Flags().BoolVar(&opts.shuffle, "shuffle", false, "start from a random arrangement")
	c.bind(cmd.Flags(), "policy", "layout.policy", "", "placement policy: "+strings.Join(layout.Policies(), ", "))
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "layout seed for reproducible placement (0 = random)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for theme, flowers and message")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the bouquet JSON instead of a link")
	c.bindBool(cmd.Flags(), "shorten", "shortener.enabled", "shorten the link")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not use the short-link cache")

	_ = cmd.RegisterFlagCompletionFunc("theme", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return themes.IDs(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("flower", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return flowers.IDs(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("policy", completePolicies)

	return cmd
}

func (c *CLI) runCompose(cmd *cobra.Command, opts composeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	policy, err := layout.ParsePolicy(c.Config.Layout.Policy)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPolicy, err, "invalid layout policy")
	}
	gen := layout.NewRandom()
	if opts.seed != 0 {
		gen = layout.New(opts.seed)
	}

	if opts.interactive {
		if err := c.prompt(cmd, &opts); err != nil {
			return err
		}
	}

	s := bouquet.New()
	if err := errors.ValidateThemeID(opts.theme); err != nil {
		return err
	}
	if _, ok := themes.Lookup(opts.theme); !ok {
		logger.Warn("unknown theme, viewers will show the default", "theme", opts.theme, "default", themes.DefaultID)
	}
	s.SetTheme(opts.theme)

	if opts.shuffle {
		s.Elements = gen.Shuffle(flowers.IDs())
	}
	for _, kind := range opts.flowers {
		if err := errors.ValidateKind(kind); err != nil {
			return err
		}
		if _, ok := flowers.Lookup(kind); !ok {
			logger.Warn("unknown flower, viewers will show the default", "kind", kind, "default", flowers.DefaultID)
		}
	}
	if _, err := gen.Fill(s, opts.flowers, policy); err != nil {
		if stderrors.Is(err, bouquet.ErrFull) {
			return errors.Wrap(errors.ErrCodeBouquetFull, err, "a bouquet holds at most %d flowers", bouquet.MaxElements)
		}
		return err
	}

	for field, text := range map[string]string{"letter": opts.letter, "sender": opts.sender} {
		if err := errors.ValidateText(field, text); err != nil {
			return err
		}
	}
	if n := len([]rune(opts.letter)); n > bouquet.MaxLetterLength {
		logger.Warn("letter truncated", "length", n, "max", bouquet.MaxLetterLength)
	}
	s.SetLetter(opts.letter)
	s.SetSender(opts.sender)

	if opts.json {
		return pkgio.WriteJSON(s, cmd.OutOrStdout())
	}

	link, err := share.Link(c.Config.BaseURL, s)
	if err != nil {
		return err
	}
	if c.Config.Shortener.Enabled {
		store := c.openCache(ctx, opts.noCache)
		defer store.Close()
		link = c.newShortener(store).Shorten(ctx, link)
	}

	logger.Info("bouquet composed", "flowers", s.Len(), "theme", s.ThemeID, "policy", policy)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), link)
	return err
}

// prompt fills opts from the interactive prompter. Values already given
// as flags become the defaults.
func (c *CLI) prompt(cmd *cobra.Command, opts *composeOpts) error {
	ctx := cmd.Context()
	p := c.prompter
	if p == nil {
		p = surveyPrompter{}
	}

	theme, err := p.Theme(ctx, opts.theme)
	if err != nil {
		return err
	}
	opts.theme = theme

	picked, err := p.Flowers(ctx, flowers.All())
	if err != nil {
		return err
	}
	opts.flowers = append(slices.Clone(opts.flowers), picked...)

	if opts.letter, err = p.Letter(ctx, opts.letter); err != nil {
		return err
	}
	if opts.sender, err = p.Sender(ctx, opts.sender); err != nil {
		return err
	}
	return nil
}
