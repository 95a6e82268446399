package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bouqlink/bouqlink/pkg/errors"
	"github.com/bouqlink/bouqlink/pkg/render"
	"github.com/bouqlink/bouqlink/pkg/themes"
)

// renderOpts holds options for the render command.
type renderOpts struct {
	output string
	format string
	width  float64
	scale  float64
	theme  string
	noCard bool
}

// renderCommand creates the render command for writing preview images.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [payload|url]",
		Short: "Render a bouquet preview as SVG, PNG or PDF",
		Long: `Render a bouquet preview from a share link or payload (argument or stdin).

SVG is written directly. PNG and PDF are converted with rsvg-convert
(librsvg), which must be installed.`,
		Example: `  bouqlink render "$LINK" -o bouquet.svg
  bouqlink render "$LINK" -o bouquet.png --scale 2
  bouqlink render "$LINK" --format pdf --theme bauhaus`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default bouquet.<format>, - for stdout)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: "+strings.Join(render.Formats(), ", ")+" (default from --output extension, else svg)")
	cmd.Flags().Float64Var(&opts.width, "width", render.DefaultWidth, "image width")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "PNG scale factor")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "override the bouquet's theme")
	cmd.Flags().BoolVar(&opts.noCard, "no-card", false, "omit the letter card")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	s, _, err := c.loadBouquet(ctx, args)
	if err != nil {
		return err
	}

	format := resolveFormat(opts.format, opts.output)
	if !slices.Contains(render.Formats(), format) {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown render format %q", format)
	}

	svgOpts := []render.SVGOption{render.WithWidth(opts.width)}
	if opts.theme != "" {
		t, ok := themes.Lookup(opts.theme)
		if !ok {
			return errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q", opts.theme)
		}
		svgOpts = append(svgOpts, render.WithTheme(t))
	}
	if opts.noCard {
		svgOpts = append(svgOpts, render.WithoutCard())
	}

	prog := newProgress(logger)
	svg := render.SVG(s, svgOpts...)

	var data []byte
	if format == render.FormatSVG {
		data = svg
	} else {
		err = spin(ctx, fmt.Sprintf("Converting to %s...", format), func() error {
			var err error
			data, err = render.Convert(ctx, svg, format, opts.scale)
			return err
		})
		if err != nil {
			return err
		}
	}

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	out := opts.output
	if out == "" {
		out = "bouquet." + format
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	prog.done("Rendered " + filepath.Base(out))
	printSuccess("Rendered %d flowers", s.Len())
	printFile(out)
	return nil
}

// resolveFormat picks the explicit format, else the output extension,
// else SVG.
func resolveFormat(format, output string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return render.FormatSVG
}
