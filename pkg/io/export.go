package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
)

// WriteJSON writes s to w as an indented document. Letters are written
// verbatim, without HTML escaping.
func WriteJSON(s *bouquet.State, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes s to a JSON file at path.
func ExportJSON(s *bouquet.State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(s, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
