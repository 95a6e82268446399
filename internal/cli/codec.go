package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
	"github.com/bouqlink/bouqlink/pkg/codec"
	"github.com/bouqlink/bouqlink/pkg/errors"
	"github.com/bouqlink/bouqlink/pkg/flowers"
	pkgio "github.com/bouqlink/bouqlink/pkg/io"
	"github.com/bouqlink/bouqlink/pkg/observability"
	"github.com/bouqlink/bouqlink/pkg/share"
	"github.com/bouqlink/bouqlink/pkg/themes"
)

// encodeOpts holds options for the encode command.
type encodeOpts struct {
	file    string
	format  string
	link    bool
	noCache bool
}

// encodeCommand creates the encode command for turning bouquet JSON into a payload.
func (c *CLI) encodeCommand() *cobra.Command {
	opts := encodeOpts{}

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode bouquet JSON into a share payload",
		Long: `Encode bouquet JSON (read from --file or stdin) into a share payload.

The JSON uses the full field names: themeId, flowers, letter, sender.
--format selects a historical wire generation; the default is the latest.`,
		Example: `  bouqlink encode -f bouquet.json
  bouqlink decode "$LINK" | bouqlink encode --link
  bouqlink encode -f bouquet.json --format legacy-base64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEncode(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "bouquet JSON file (default stdin)")
	cmd.Flags().StringVar(&opts.format, "format", "", "wire generation: "+formatNames())
	cmd.Flags().BoolVar(&opts.link, "link", false, "print the full share link")
	c.bindBool(cmd.Flags(), "shorten", "shortener.enabled", "shorten the link (implies --link)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not use the short-link cache")

	return cmd
}

func (c *CLI) runEncode(cmd *cobra.Command, opts encodeOpts) error {
	format, err := codec.ParseFormat(opts.format)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "unknown format %q", opts.format)
	}
	data, err := c.readFileOrStdin(opts.file)
	if err != nil {
		return err
	}
	s, err := parseStateJSON(data)
	if err != nil {
		return err
	}

	payload, err := codec.EncodeFormat(s, format)
	observability.Share().OnEncode(cmd.Context(), format.String(), len(payload), err)
	if err != nil || payload == "" {
		loggerFromContext(cmd.Context()).Debug("encode failed", "err", err)
		return share.ErrNothingToShare
	}

	out := payload
	if opts.link || c.Config.Shortener.Enabled {
		out = c.shareLink(cmd, payload, opts.noCache)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

// shareLink builds the share URL for payload and shortens it when enabled.
func (c *CLI) shareLink(cmd *cobra.Command, payload string, noCache bool) string {
	link := share.URL(c.Config.BaseURL, payload)
	if !c.Config.Shortener.Enabled {
		return link
	}
	store := c.openCache(cmd.Context(), noCache)
	defer store.Close()
	return c.newShortener(store).Shorten(cmd.Context(), link)
}

// decodeCommand creates the decode command.
func (c *CLI) decodeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode [payload|url]",
		Short: "Decode a share link or payload into bouquet JSON",
		Long: `Decode a share link or bare payload (argument or stdin) into bouquet JSON.

Every wire generation is accepted, in the query string or the fragment.`,
		Example: `  bouqlink decode "https://bouq.link/?data=N4Ig..."
  bouqlink decode N4IgNiBcIPYHZgJ4AICGywFMAu3MCcQBfIA
  pbpaste | bouqlink decode -o bouquet.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.loadBouquet(cmd.Context(), args)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return pkgio.WriteJSON(s, cmd.OutOrStdout())
			}
			if err := pkgio.ExportJSON(s, output); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON to a file instead of stdout")

	return cmd
}

// inspectOpts holds options for the inspect command.
type inspectOpts struct {
	json bool
}

// inspectResult is the machine-readable inspect output.
type inspectResult struct {
	Format     string `json:"format"`
	Generation int    `json:"generation"`
	Payload    int    `json:"payloadLength"`
	State      any    `json:"state"`
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{}

	cmd := &cobra.Command{
		Use:   "inspect [payload|url]",
		Short: "Summarise a share link, including its wire generation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the summary as JSON")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, args []string, opts inspectOpts) error {
	raw, err := c.readArgOrStdin(args)
	if err != nil {
		return err
	}
	if err := errors.ValidatePayload(raw); err != nil {
		return err
	}
	payload := share.Payload(raw)
	s, format, err := codec.DecodeFormat(payload)
	observability.Share().OnDecode(cmd.Context(), format.String(), len(payload), err)
	if err != nil {
		loggerFromContext(cmd.Context()).Debug("decode failed", "err", err)
		return errors.Wrap(errors.ErrCodeInvalidPayload, err, "no bouquet found in input")
	}

	if opts.json {
		return writeJSON(cmd.OutOrStdout(), inspectResult{
			Format:     format.String(),
			Generation: format.Generation(),
			Payload:    len(payload),
			State:      s,
		})
	}

	th := themes.Resolve(s.ThemeID)
	printKeyValue("Format", fmt.Sprintf("%s (generation %d)", format, format.Generation()))
	printKeyValue("Payload", fmt.Sprintf("%d chars", len(payload)))
	printKeyValue("Theme", fmt.Sprintf("%s (%s)", th.Name, s.ThemeID))
	printKeyValue("Flowers", flowerSummary(s.Elements))
	if s.Letter != "" {
		printKeyValue("Letter", s.Letter)
	}
	if s.Sender != "" {
		printKeyValue("Sender", s.Sender)
	}
	printStats(s.Len(), th.ID, utf8.RuneCountInString(s.Letter))
	if format != codec.Latest {
		printNextStep("Re-encode in the latest format", "bouqlink decode LINK | bouqlink encode --link")
	}
	return nil
}

// flowerSummary lists element kinds with counts in first-seen order.
func flowerSummary(elems []bouquet.Element) string {
	if len(elems) == 0 {
		return "none"
	}
	var order []string
	counts := map[string]int{}
	for _, e := range elems {
		name := flowers.Resolve(e.Kind).Name
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}
	parts := make([]string, len(order))
	for i, name := range order {
		parts[i] = fmt.Sprintf("%d× %s", counts[name], name)
	}
	return strings.Join(parts, ", ")
}

func formatNames() string {
	names := make([]string, 0, len(codec.Formats()))
	for _, f := range codec.Formats() {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
