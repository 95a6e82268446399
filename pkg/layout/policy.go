package layout

import (
	"fmt"
	"strings"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
)

// Policy selects how new elements are placed.
type Policy int

const (
	// PolicyClustered arranges elements as a hand-tied bunch.
	PolicyClustered Policy = iota
	// PolicyRandom scatters elements independently.
	PolicyRandom
)

func (p Policy) String() string {
	switch p {
	case PolicyClustered:
		return "clustered"
	case PolicyRandom:
		return "random"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Policies lists the supported policy names.
func Policies() []string { return []string{PolicyClustered.String(), PolicyRandom.String()} }

// ParsePolicy parses a policy name. "auto" and "smart" are accepted for
// clustered, "manual" and "scatter" for random.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clustered", "cluster", "auto", "smart":
		return PolicyClustered, nil
	case "random", "manual", "scatter":
		return PolicyRandom, nil
	}
	return PolicyClustered, fmt.Errorf("unknown layout policy %q (want %s)", s, strings.Join(Policies(), " or "))
}

// Place returns a placement for the element at index under policy p.
func (g *Generator) Place(p Policy, index int) bouquet.Placement {
	if p == PolicyRandom {
		return g.Random()
	}
	return g.Clustered(index)
}
