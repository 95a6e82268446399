package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bouqlink/bouqlink/pkg/config"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Config.Write(cmd.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "keys",
		Short: "List every setting with its environment variable and value",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(config.Keys()))
			for _, key := range config.Keys() {
				v, _ := c.Config.Get(key)
				rows = append(rows, []string{key, config.EnvVar(key), v})
			}
			return printTable(cmd.OutOrStdout(), []string{"Key", "Environment", "Value"}, rows)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get KEY",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok := c.Config.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", config.ErrUnknownKey, args[0])
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		},
	})

	return cmd
}
