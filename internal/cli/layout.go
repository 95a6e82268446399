package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
	"github.com/bouqlink/bouqlink/pkg/errors"
	"github.com/bouqlink/bouqlink/pkg/layout"
)

// layoutOpts holds options for the layout command.
type layoutOpts struct {
	count int
	seed  uint64
	json  bool
}

// layoutCommand creates the layout command for previewing placements.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print generated placements for a number of flowers",
		Example: `  bouqlink layout -n 8
  bouqlink layout -n 5 --policy random --seed 3 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", 8, "number of placements (indices 0..n-1)")
	c.bind(cmd.Flags(), "policy", "layout.policy", "", "placement policy")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 = random)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON")
	_ = cmd.RegisterFlagCompletionFunc("policy", completePolicies)

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, opts layoutOpts) error {
	if opts.count < 0 || opts.count > bouquet.MaxElements {
		return errors.New(errors.ErrCodeInvalidInput, "count must be between 0 and %d", bouquet.MaxElements)
	}
	policy, err := layout.ParsePolicy(c.Config.Layout.Policy)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPolicy, err, "invalid layout policy")
	}
	gen := layout.NewRandom()
	if opts.seed != 0 {
		gen = layout.New(opts.seed)
	}

	placements := make([]bouquet.Placement, opts.count)
	for i := range placements {
		placements[i] = gen.Place(policy, i)
	}

	w := cmd.OutOrStdout()
	if opts.json {
		return writeJSON(w, placements)
	}
	fmt.Fprintf(w, "%-5s %7s %7s %9s %6s\n", "index", "x", "y", "rotation", "scale")
	for i, p := range placements {
		fmt.Fprintf(w, "%-5d %7.1f %7.1f %9.1f %6.2f\n", i, p.X, p.Y, p.Rotation, p.Scale)
	}
	return nil
}

func completePolicies(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return layout.Policies(), cobra.ShellCompDirectiveNoFileComp
}
