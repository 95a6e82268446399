package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
	"github.com/bouqlink/bouqlink/pkg/errors"
	pkgio "github.com/bouqlink/bouqlink/pkg/io"
	"github.com/bouqlink/bouqlink/pkg/observability"
	"github.com/bouqlink/bouqlink/pkg/share"
)

// maxInputBytes caps what is read from stdin or a file.
const maxInputBytes = 1 << 20

// readArgOrStdin returns args[0], or stdin when no argument or "-" is given.
func (c *CLI) readArgOrStdin(args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return strings.TrimSpace(args[0]), nil
	}
	data, err := io.ReadAll(io.LimitReader(c.stdin, maxInputBytes))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// readFileOrStdin returns the contents of path, or stdin for "" and "-".
func (c *CLI) readFileOrStdin(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(io.LimitReader(c.stdin, maxInputBytes))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxInputBytes))
}

// parseStateJSON decodes bouquet JSON in the full-field schema.
func parseStateJSON(data []byte) (*bouquet.State, error) {
	s, err := pkgio.ReadJSON(bytes.NewReader(data))
	if stderrors.Is(err, bouquet.ErrFull) {
		return nil, errors.Wrap(errors.ErrCodeBouquetFull, err, "a bouquet holds at most %d flowers", bouquet.MaxElements)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid bouquet JSON")
	}
	return s, nil
}

// loadBouquet decodes a payload or share link given as an argument or on
// stdin.
func (c *CLI) loadBouquet(ctx context.Context, args []string) (*bouquet.State, string, error) {
	raw, err := c.readArgOrStdin(args)
	if err != nil {
		return nil, "", err
	}
	if err := errors.ValidatePayload(raw); err != nil {
		return nil, "", err
	}
	s, format, err := share.Inspect(raw)
	observability.Share().OnDecode(ctx, format.String(), len(raw), err)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidPayload, err, "no bouquet found in input")
	}
	return s, raw, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
