package bouquet

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"
)

const (
	// DefaultThemeID is substituted whenever a theme identifier is missing.
	DefaultThemeID = "soft-swiss"

	// MaxElements is the largest number of elements an editor may add.
	MaxElements = 25

	// MaxLetterLength caps the letter, in runes.
	MaxLetterLength = 300

	// MaxSenderLength caps the sender signature, in runes.
	MaxSenderLength = 30
)

var (
	// ErrFull is returned by [State.Add] once the bouquet holds MaxElements.
	ErrFull = errors.New("bouquet is full")

	// ErrNonFinite is returned by [State.Validate] for NaN or infinite values.
	ErrNonFinite = errors.New("non-finite value")
)

// State is the complete shareable bouquet.
//
// The JSON names match the oldest full-field link format, so a State can be
// marshaled directly into that generation.
type State struct {
	ThemeID  string    `json:"themeId"`
	Elements []Element `json:"flowers"`
	Letter   string    `json:"letter"`
	Sender   string    `json:"sender"`
}

// Element is one decorative item placed on the canvas.
type Element struct {
	ID       string  `json:"id"`
	Kind     string  `json:"flowerId"`
	X        float64 `json:"x"`        // percent of canvas width, not clamped
	Y        float64 `json:"y"`        // percent of canvas height, not clamped
	Rotation float64 `json:"rotation"` // degrees, signed
	Scale    float64 `json:"scale"`
}

// Placement holds the position parameters computed for a new element.
type Placement struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Scale    float64 `json:"scale"`
}

// Place copies p onto the element.
func (e *Element) Place(p Placement) {
	e.X, e.Y, e.Rotation, e.Scale = p.X, p.Y, p.Rotation, p.Scale
}

// Placement returns the element's position parameters.
func (e Element) Placement() Placement {
	return Placement{X: e.X, Y: e.Y, Rotation: e.Rotation, Scale: e.Scale}
}

// New returns an empty bouquet using the default theme.
func New() *State {
	return &State{ThemeID: DefaultThemeID, Elements: []Element{}}
}

// Len returns the number of placed elements.
func (s *State) Len() int { return len(s.Elements) }

// Add appends a new element of the given kind at p and returns it.
// The element receives an id that does not collide with existing ones
// unless the id space is exhausted after a few attempts.
func (s *State) Add(kind string, p Placement) (Element, error) {
	if len(s.Elements) >= MaxElements {
		return Element{}, ErrFull
	}
	e := Element{ID: s.freshID(), Kind: kind}
	e.Place(p)
	s.Elements = append(s.Elements, e)
	return e, nil
}

func (s *State) freshID() string {
	id := NewID()
	for range 4 {
		if _, taken := s.index(id); !taken {
			break
		}
		id = NewID()
	}
	return id
}

// index returns the position of the last element with the given id.
func (s *State) index(id string) (int, bool) {
	for i := len(s.Elements) - 1; i >= 0; i-- {
		if s.Elements[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Lookup returns the last element with the given id.
func (s *State) Lookup(id string) (Element, bool) {
	i, ok := s.index(id)
	if !ok {
		return Element{}, false
	}
	return s.Elements[i], true
}

// Remove deletes the last element with the given id.
func (s *State) Remove(id string) bool {
	i, ok := s.index(id)
	if !ok {
		return false
	}
	s.Elements = slices.Delete(s.Elements, i, i+1)
	return true
}

// Move repositions the last element with the given id. Positions are not
// clamped, so an element may be dragged partly off canvas.
func (s *State) Move(id string, x, y float64) bool {
	i, ok := s.index(id)
	if !ok {
		return false
	}
	s.Elements[i].X, s.Elements[i].Y = x, y
	return true
}

// Clear removes every element.
func (s *State) Clear() { s.Elements = s.Elements[:0] }

// SetTheme selects a theme. Unknown ids are stored as given and resolved
// by the theme registry at render time.
func (s *State) SetTheme(id string) { s.ThemeID = id }

// SetLetter stores the letter, truncated to MaxLetterLength runes.
func (s *State) SetLetter(text string) { s.Letter = truncate(text, MaxLetterLength) }

// SetSender stores the signature, truncated to MaxSenderLength runes.
func (s *State) SetSender(name string) { s.Sender = truncate(name, MaxSenderLength) }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Validate reports elements carrying NaN or infinite numbers.
func (s *State) Validate() error {
	for i, e := range s.Elements {
		for _, v := range [...]float64{e.X, e.Y, e.Rotation, e.Scale} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("element %d (%s): %w", i, e.ID, ErrNonFinite)
			}
		}
	}
	return nil
}

// Round returns a copy with positions, rotation and scale rounded to one
// decimal place, the precision used on the wire.
func (s *State) Round() *State {
	out := *s
	out.Elements = make([]Element, len(s.Elements))
	for i, e := range s.Elements {
		e.X, e.Y = Round1(e.X), Round1(e.Y)
		e.Rotation, e.Scale = Round1(e.Rotation), Round1(e.Scale)
		out.Elements[i] = e
	}
	return &out
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	out := *s
	out.Elements = slices.Clone(s.Elements)
	if out.Elements == nil {
		out.Elements = []Element{}
	}
	return &out
}

// Round1 rounds v to one decimal place, halves toward positive infinity,
// matching the browser viewer's Math.round so both sides emit identical
// payloads.
func Round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// NewID returns a 4-character URL-safe token taken from the random bits
// of a version 4 UUID.
func NewID() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:3])
}
