package codec

import (
	"encoding/json"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
)

// minified is the single-letter wire schema. Empty letter, sender and
// element list are omitted; decoding restores them as defaults.
type minified struct {
	ThemeID  string            `json:"t"`
	Letter   string            `json:"l,omitempty"`
	Sender   string            `json:"s,omitempty"`
	Elements []minifiedElement `json:"f,omitempty"`
}

type minifiedElement struct {
	ID       string  `json:"i"`
	Kind     string  `json:"f"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"r"`
	Scale    float64 `json:"s"`
}

var (
	fullKeys  = []string{"themeId", "flowers", "letter", "sender"}
	shortKeys = []string{"t", "l", "s", "f"}
)

func minify(s *bouquet.State) minified {
	m := minified{ThemeID: s.ThemeID, Letter: s.Letter, Sender: s.Sender}
	if len(s.Elements) > 0 {
		m.Elements = make([]minifiedElement, len(s.Elements))
	}
	for i, e := range s.Elements {
		m.Elements[i] = minifiedElement{
			ID:       e.ID,
			Kind:     e.Kind,
			X:        bouquet.Round1(e.X),
			Y:        bouquet.Round1(e.Y),
			Rotation: bouquet.Round1(e.Rotation),
			Scale:    bouquet.Round1(e.Scale),
		}
	}
	return m
}

func (m minified) expand() *bouquet.State {
	s := &bouquet.State{
		ThemeID:  m.ThemeID,
		Letter:   m.Letter,
		Sender:   m.Sender,
		Elements: make([]bouquet.Element, len(m.Elements)),
	}
	if s.ThemeID == "" {
		s.ThemeID = bouquet.DefaultThemeID
	}
	for i, e := range m.Elements {
		s.Elements[i] = bouquet.Element{
			ID:       e.ID,
			Kind:     e.Kind,
			X:        e.X,
			Y:        e.Y,
			Rotation: e.Rotation,
			Scale:    e.Scale,
		}
	}
	return s
}

// objectKeys parses text as a JSON object and returns its raw members.
func objectKeys(text string) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotObject
	}
	return m, nil
}

func hasAny(m map[string]json.RawMessage, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}
