package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
)

// ReadJSON decodes a bouquet document from r.
//
// It returns an error if the JSON is malformed, if two flowers share an
// id, or if the bouquet holds more than [bouquet.MaxElements] flowers.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*bouquet.State, error) {
	var s bouquet.State
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if s.ThemeID == "" {
		s.ThemeID = bouquet.DefaultThemeID
	}
	if s.Elements == nil {
		s.Elements = []bouquet.Element{}
	}
	if len(s.Elements) > bouquet.MaxElements {
		return nil, fmt.Errorf("%d flowers: %w", len(s.Elements), bouquet.ErrFull)
	}

	seen := make(map[string]bool, len(s.Elements))
	for i := range s.Elements {
		e := &s.Elements[i]
		if e.ID == "" {
			e.ID = bouquet.NewID()
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("flower %s: duplicate id", e.ID)
		}
		seen[e.ID] = true
	}
	return &s, nil
}

// ImportJSON reads the bouquet document at path.
func ImportJSON(path string) (*bouquet.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
