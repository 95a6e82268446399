// Package flowers is the built-in registry of decorative element kinds.
//
// Kinds are opaque strings to the bouquet model; this package maps them to
// a display name and the few drawing hints the SVG renderer needs. Unknown
// kinds resolve to [DefaultID].
package flowers

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultID is the kind substituted for unknown ids.
const DefaultID = "rose"

// Shapes understood by the renderer.
const (
	ShapeBloom   = "bloom"
	ShapeStar    = "star"
	ShapeCup     = "cup"
	ShapeSpike   = "spike"
	ShapeCluster = "cluster"
	ShapeLeaf    = "leaf"
	ShapeGeo     = "geo"
)

var shapes = []string{ShapeBloom, ShapeStar, ShapeCup, ShapeSpike, ShapeCluster, ShapeLeaf, ShapeGeo}

//go:embed flowers.yaml
var catalogYAML []byte

// Flower describes one element kind.
type Flower struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Group  string `yaml:"group" json:"group"`
	Shape  string `yaml:"shape" json:"shape"`
	Petal  string `yaml:"petal" json:"petal"`
	Center string `yaml:"center" json:"center"`
	Stem   string `yaml:"stem" json:"stem"`
}

// Catalog is an ordered, indexed set of flower kinds.
type Catalog struct {
	flowers []Flower
	groups  []string
	index   map[string]int
}

type catalogFile struct {
	Groups  []string `yaml:"groups"`
	Flowers []Flower `yaml:"flowers"`
}

// Parse builds a catalog from a YAML document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse flowers: %w", err)
	}
	c := &Catalog{flowers: f.Flowers, groups: f.Groups, index: make(map[string]int, len(f.Flowers))}
	for i, fl := range f.Flowers {
		switch {
		case fl.ID == "":
			return nil, fmt.Errorf("flower %d: missing id", i)
		case !slices.Contains(shapes, fl.Shape):
			return nil, fmt.Errorf("flower %q: unknown shape %q", fl.ID, fl.Shape)
		case !slices.Contains(f.Groups, fl.Group):
			return nil, fmt.Errorf("flower %q: unknown group %q", fl.ID, fl.Group)
		}
		if _, dup := c.index[fl.ID]; dup {
			return nil, fmt.Errorf("flower %q: duplicate id", fl.ID)
		}
		c.index[fl.ID] = i
	}
	if _, ok := c.index[DefaultID]; !ok {
		return nil, fmt.Errorf("flowers: default kind %q not defined", DefaultID)
	}
	return c, nil
}

// Lookup returns the flower with the given id.
func (c *Catalog) Lookup(id string) (Flower, bool) {
	i, ok := c.index[id]
	if !ok {
		return Flower{}, false
	}
	return c.flowers[i], true
}

// Resolve returns the flower with the given id, or the default kind.
func (c *Catalog) Resolve(id string) Flower {
	if fl, ok := c.Lookup(id); ok {
		return fl
	}
	return c.flowers[c.index[DefaultID]]
}

// All returns every flower in catalog order.
func (c *Catalog) All() []Flower { return slices.Clone(c.flowers) }

// IDs returns every kind id in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.flowers))
	for i, fl := range c.flowers {
		ids[i] = fl.ID
	}
	return ids
}

// Groups returns the group names in display order.
func (c *Catalog) Groups() []string { return slices.Clone(c.groups) }

var builtin = sync.OnceValue(func() *Catalog {
	c, err := Parse(catalogYAML)
	if err != nil {
		panic(err)
	}
	return c
})

// Builtin returns the embedded catalog.
func Builtin() *Catalog { return builtin() }

// Lookup reports whether id names a built-in kind.
func Lookup(id string) (Flower, bool) { return builtin().Lookup(id) }

// Resolve returns the built-in kind for id, or the default kind.
func Resolve(id string) Flower { return builtin().Resolve(id) }

// All lists the built-in kinds.
func All() []Flower { return builtin().All() }

// IDs lists the built-in kind ids.
func IDs() []string { return builtin().IDs() }
