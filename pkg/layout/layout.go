package layout

import (
	"math"
	"math/rand/v2"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
)

// Random placement bounds.
const (
	RandomMin      = 20.0
	RandomMax      = 80.0
	RandomTilt     = 20.0
	RandomScaleMin = 1.0
	RandomScaleMax = 1.5
)

// Clustered placement constants.
const (
	GoldenAngle     = 2.39996
	SpreadFactor    = 5.0
	MaxSpread       = 30.0
	VerticalSquash  = 0.8
	CenterX         = 50.0
	CenterY         = 55.0
	FanFactor       = 1.5
	Wobble          = 5.0
	ClusterScaleMin = 1.0
	ClusterScaleMax = 1.3
)

// Generator produces placements from an injected random source. It is not
// safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator seeded with seed. Equal seeds give equal
// sequences of placements.
func New(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0xdeadbeef))}
}

// NewRandom returns a Generator seeded from the runtime's random source.
func NewRandom() *Generator {
	return New(rand.Uint64())
}

// NewWithSource wraps an existing source.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Random returns a placement independent of any existing element.
func (g *Generator) Random() bouquet.Placement {
	return bouquet.Placement{
		X:        g.between(RandomMin, RandomMax),
		Y:        g.between(RandomMin, RandomMax),
		Rotation: g.between(-RandomTilt, RandomTilt),
		Scale:    g.between(RandomScaleMin, RandomScaleMax),
	}
}

// Clustered returns the placement for the element inserted at index, the
// element count at insertion time. Negative indices are treated as 0.
func (g *Generator) Clustered(index int) bouquet.Placement {
	x, y := Center(index)
	return bouquet.Placement{
		X:        x,
		Y:        y,
		Rotation: Fan(x) + g.between(-Wobble, Wobble),
		Scale:    g.between(ClusterScaleMin, ClusterScaleMax),
	}
}

// Center returns the deterministic position of the index-th clustered
// element.
func Center(index int) (x, y float64) {
	angle := float64(max(index, 0)) * GoldenAngle
	r := Spread(index)
	return CenterX + r*math.Cos(angle), CenterY + r*math.Sin(angle)*VerticalSquash
}

// Spread returns the radial distance of the index-th clustered element from
// the cluster centre.
func Spread(index int) float64 {
	return min(SpreadFactor*math.Sqrt(float64(max(index, 0))), MaxSpread)
}

// Fan returns the lean, in degrees, of a stem at horizontal position x.
func Fan(x float64) float64 {
	return (x - CenterX) * FanFactor
}

func (g *Generator) between(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
