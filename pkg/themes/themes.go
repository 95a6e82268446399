package themes

import (
	_ "embed"
	"fmt"
	"slices"
	"strconv"
	"sync"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
)

// DefaultID is the theme substituted for absent or unknown ids.
const DefaultID = bouquet.DefaultThemeID

// ManifestVersion is the version stamped on registered manifests.
const ManifestVersion = "1.0.0"

//go:embed themes.yaml
var catalogYAML []byte

// Theme describes one visual style.
type Theme struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Category    string     `yaml:"category" json:"category"`
	Description string     `yaml:"description" json:"description,omitempty"`
	Colors      Colors     `yaml:"colors" json:"colors"`
	Typography  Typography `yaml:"typography" json:"typography"`
}

// Colors holds CSS colour values.
type Colors struct {
	Background string `yaml:"background" json:"background"`
	Text       string `yaml:"text" json:"text"`
	Accent     string `yaml:"accent" json:"accent"`
	Secondary  string `yaml:"secondary" json:"secondary"`
	Border     string `yaml:"border" json:"border"`
	Card       string `yaml:"card" json:"card"`
}

// Typography controls how the letter is set.
type Typography struct {
	Family    string `yaml:"family" json:"family"`
	Uppercase bool   `yaml:"uppercase" json:"uppercase,omitempty"`
	Italic    bool   `yaml:"italic" json:"italic,omitempty"`
}

// Manifest token names.
const (
	TokenBackground = "background"
	TokenText       = "text"
	TokenAccent     = "accent"
	TokenSecondary  = "secondary"
	TokenBorder     = "border"
	TokenCard       = "card"
	TokenFont       = "font"
	TokenUppercase  = "uppercase"
	TokenItalic     = "italic"
)

// Tokens returns the theme's colours and typography keyed by token name.
func (t Theme) Tokens() map[string]string {
	return map[string]string{
		TokenBackground: t.Colors.Background,
		TokenText:       t.Colors.Text,
		TokenAccent:     t.Colors.Accent,
		TokenSecondary:  t.Colors.Secondary,
		TokenBorder:     t.Colors.Border,
		TokenCard:       t.Colors.Card,
		TokenFont:       t.Typography.Family,
		TokenUppercase:  strconv.FormatBool(t.Typography.Uppercase),
		TokenItalic:     strconv.FormatBool(t.Typography.Italic),
	}
}

// Manifest returns the go-theme manifest for t.
func (t Theme) Manifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    t.ID,
		Version: ManifestVersion,
		Tokens:  t.Tokens(),
	}
}

// Style is a theme as selected through the manifest registry. Renderers
// draw with Tokens; Theme carries the catalog metadata.
type Style struct {
	Theme
	Tokens map[string]string
}

// StyleOf wraps t with its own tokens, for themes that are not registered.
func StyleOf(t Theme) Style { return Style{Theme: t, Tokens: t.Tokens()} }

// Token returns one token value, "" when unset.
func (s Style) Token(name string) string { return s.Tokens[name] }

// Uppercase reports whether letter and sender are set in capitals.
func (s Style) Uppercase() bool { return s.flag(TokenUppercase) }

// Italic reports whether letter and sender are set in italics.
func (s Style) Italic() bool { return s.flag(TokenItalic) }

func (s Style) flag(name string) bool {
	b, _ := strconv.ParseBool(s.Tokens[name])
	return b
}

// Catalog is an ordered, indexed set of themes backed by a go-theme
// registry and selector.
type Catalog struct {
	themes     []Theme
	categories []string
	index      map[string]int
	registry   *theme.MemoryRegistry
	selector   theme.Selector
}

type catalogFile struct {
	Categories []string `yaml:"categories"`
	Themes     []Theme  `yaml:"themes"`
}

// Parse builds a catalog from a YAML document. The document must define
// the default theme, and every theme must name a listed category.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse themes: %w", err)
	}

	c := &Catalog{
		themes:     f.Themes,
		categories: f.Categories,
		index:      make(map[string]int, len(f.Themes)),
	}
	for i, t := range f.Themes {
		if t.ID == "" {
			return nil, fmt.Errorf("theme %d: missing id", i)
		}
		if _, dup := c.index[t.ID]; dup {
			return nil, fmt.Errorf("theme %q: duplicate id", t.ID)
		}
		if !slices.Contains(f.Categories, t.Category) {
			return nil, fmt.Errorf("theme %q: unknown category %q", t.ID, t.Category)
		}
		c.index[t.ID] = i
	}
	if _, ok := c.index[DefaultID]; !ok {
		return nil, fmt.Errorf("themes: default theme %q not defined", DefaultID)
	}

	reg := theme.NewRegistry()
	for _, t := range f.Themes {
		if err := reg.Register(t.Manifest()); err != nil {
			return nil, fmt.Errorf("theme %q: %w", t.ID, err)
		}
	}
	c.registry = reg
	c.selector = theme.Selector{Registry: reg, DefaultTheme: DefaultID}
	return c, nil
}

// Lookup returns the theme with the given id.
func (c *Catalog) Lookup(id string) (Theme, bool) {
	i, ok := c.index[id]
	if !ok {
		return Theme{}, false
	}
	return c.themes[i], true
}

// Select resolves id through the selector. Absent and unknown ids select
// the default theme.
func (c *Catalog) Select(id string) Style {
	sel, err := c.selector.Select(id, "")
	if err != nil {
		// Parse guarantees the default is registered.
		return StyleOf(c.themes[c.index[DefaultID]])
	}
	i, ok := c.index[sel.Manifest.Name]
	if !ok {
		i = c.index[DefaultID]
	}
	return Style{Theme: c.themes[i], Tokens: sel.Tokens()}
}

// Resolve returns the theme with the given id, or the default theme.
func (c *Catalog) Resolve(id string) Theme { return c.Select(id).Theme }

// All returns every theme in catalog order.
func (c *Catalog) All() []Theme { return slices.Clone(c.themes) }

// IDs returns every theme id in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.themes))
	for i, t := range c.themes {
		ids[i] = t.ID
	}
	return ids
}

// Categories returns the category names in display order.
func (c *Catalog) Categories() []string { return slices.Clone(c.categories) }

// InCategory returns the themes of one category in catalog order.
func (c *Catalog) InCategory(category string) []Theme {
	var out []Theme
	for _, t := range c.themes {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Provider exposes the go-theme registry holding every manifest.
func (c *Catalog) Provider() theme.ThemeProvider { return c.registry }

// Selector exposes the go-theme selector, defaulting to [DefaultID].
func (c *Catalog) Selector() theme.ThemeSelector { return c.selector }

var builtin = sync.OnceValue(func() *Catalog {
	c, err := Parse(catalogYAML)
	if err != nil {
		panic(err)
	}
	return c
})

// Builtin returns the embedded catalog.
func Builtin() *Catalog { return builtin() }

// Lookup reports whether id names a built-in theme.
func Lookup(id string) (Theme, bool) { return builtin().Lookup(id) }

// Resolve returns the built-in theme for id, or the default theme.
func Resolve(id string) Theme { return builtin().Resolve(id) }

// Select returns the built-in style for id, or the default style.
func Select(id string) Style { return builtin().Select(id) }

// All lists the built-in themes.
func All() []Theme { return builtin().All() }

// IDs lists the built-in theme ids.
func IDs() []string { return builtin().IDs() }

// Categories lists the built-in categories.
func Categories() []string { return builtin().Categories() }
