package layout

import (
	"github.com/bouqlink/bouqlink/pkg/bouquet"
)

// Shuffle bounds, inclusive.
const (
	ShuffleMin = 5
	ShuffleMax = 8
)

// Shuffle builds a fresh clustered arrangement of ShuffleMin to ShuffleMax
// elements whose kinds are drawn at random from kinds. It returns an empty
// slice when kinds is empty.
func (g *Generator) Shuffle(kinds []string) []bouquet.Element {
	if len(kinds) == 0 {
		return []bouquet.Element{}
	}
	n := ShuffleMin + g.rng.IntN(ShuffleMax-ShuffleMin+1)
	s := &bouquet.State{Elements: make([]bouquet.Element, 0, n)}
	for i := range n {
		kind := kinds[g.rng.IntN(len(kinds))]
		if _, err := s.Add(kind, g.Clustered(i)); err != nil {
			break
		}
	}
	return s.Elements
}

// Fill appends one element per kind to s, each placed under policy p with
// the element count at insertion time as its index. It stops at the first
// error, which is [bouquet.ErrFull] once the bouquet is full, and returns
// the elements added so far.
func (g *Generator) Fill(s *bouquet.State, kinds []string, p Policy) ([]bouquet.Element, error) {
	added := make([]bouquet.Element, 0, len(kinds))
	for _, kind := range kinds {
		e, err := s.Add(kind, g.Place(p, s.Len()))
		if err != nil {
			return added, err
		}
		added = append(added, e)
	}
	return added, nil
}
