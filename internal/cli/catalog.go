package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/bouqlink/bouqlink/pkg/errors"
	"github.com/bouqlink/bouqlink/pkg/flowers"
	"github.com/bouqlink/bouqlink/pkg/themes"
)

// catalogOpts holds options shared by the themes and flowers commands.
type catalogOpts struct {
	json  bool
	group string
	pick  bool
}

// themesCommand creates the themes command.
func (c *CLI) themesCommand() *cobra.Command {
	opts := catalogOpts{}

	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List the built-in themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runThemes(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON")
	cmd.Flags().StringVar(&opts.group, "category", "", "only themes in this category")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose a theme interactively and print its id")

	return cmd
}

func (c *CLI) runThemes(cmd *cobra.Command, opts catalogOpts) error {
	list := themes.All()
	if opts.group != "" {
		list = themes.Builtin().InCategory(opts.group)
		if len(list) == 0 {
			return errors.New(errors.ErrCodeNotFound, "no themes in category %q", opts.group)
		}
	}

	w := cmd.OutOrStdout()
	switch {
	case opts.pick:
		id, err := pickTheme(list, themes.DefaultID)
		if err != nil || id == "" {
			return err
		}
		_, err = fmt.Fprintln(w, id)
		return err
	case opts.json:
		return writeJSON(w, list)
	}

	rows := make([][]string, len(list))
	for i, t := range list {
		rows[i] = []string{t.ID, t.Name, t.Category, swatch(t)}
	}
	return printTable(w, []string{"ID", "Name", "Category", "Colours"}, rows)
}

// flowersCommand creates the flowers command.
func (c *CLI) flowersCommand() *cobra.Command {
	opts := catalogOpts{}

	cmd := &cobra.Command{
		Use:   "flowers",
		Short: "List the built-in flower kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFlowers(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON")
	cmd.Flags().StringVar(&opts.group, "group", "", "only flowers in this group")

	return cmd
}

func (c *CLI) runFlowers(cmd *cobra.Command, opts catalogOpts) error {
	var list []flowers.Flower
	for _, f := range flowers.All() {
		if opts.group == "" || f.Group == opts.group {
			list = append(list, f)
		}
	}
	if len(list) == 0 {
		return errors.New(errors.ErrCodeNotFound, "no flowers in group %q", opts.group)
	}

	w := cmd.OutOrStdout()
	if opts.json {
		return writeJSON(w, list)
	}
	rows := make([][]string, len(list))
	for i, f := range list {
		petal := lipgloss.NewStyle().Foreground(lipgloss.Color(f.Petal)).Render("●")
		rows[i] = []string{f.ID, f.Name, f.Group, petal + " " + f.Shape}
	}
	return printTable(w, []string{"ID", "Name", "Group", "Shape"}, rows)
}

// printTable renders rows in the rounded table style used across the CLI.
func printTable(w io.Writer, headers []string, rows [][]string) error {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 0 {
				return StyleHighlight.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
