package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
	"github.com/bouqlink/bouqlink/pkg/flowers"
	"github.com/bouqlink/bouqlink/pkg/themes"
)

// DefaultWidth is the document width in user units when no option is given.
const DefaultWidth = 800.0

// glyphWidth is the fraction of the canvas a scale 1 flower spans.
const glyphWidth = 0.18

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width    float64
	themes   *themes.Catalog
	flowers  *flowers.Catalog
	override *themes.Theme
	card     bool
}

func WithWidth(w float64) SVGOption            { return func(r *svgRenderer) { r.width = w } }
func WithThemes(c *themes.Catalog) SVGOption   { return func(r *svgRenderer) { r.themes = c } }
func WithFlowers(c *flowers.Catalog) SVGOption { return func(r *svgRenderer) { r.flowers = c } }
func WithoutCard() SVGOption                   { return func(r *svgRenderer) { r.card = false } }
func WithTheme(t themes.Theme) SVGOption       { return func(r *svgRenderer) { r.override = &t } }

func newSVGRenderer(opts ...SVGOption) *svgRenderer {
	r := &svgRenderer{width: DefaultWidth, card: true}
	for _, opt := range opts {
		opt(r)
	}
	if r.width <= 0 {
		r.width = DefaultWidth
	}
	if r.themes == nil {
		r.themes = themes.Builtin()
	}
	if r.flowers == nil {
		r.flowers = flowers.Builtin()
	}
	return r
}

// frame holds the computed document geometry.
type frame struct {
	width, height float64
	pad           float64
	canvas        float64 // side of the square canvas
	cardY, cardH  float64
}

func (r *svgRenderer) frame(s *bouquet.State) frame {
	f := frame{width: r.width, pad: r.width * 0.05}
	f.canvas = f.width - 2*f.pad
	f.height = f.pad + f.canvas + f.pad
	if r.card && hasMessage(s) {
		f.cardY = f.height
		f.cardH = f.width * 0.5
		f.height += f.cardH + f.pad
	}
	return f
}

func hasMessage(s *bouquet.State) bool {
	return strings.TrimSpace(s.Letter) != "" || strings.TrimSpace(s.Sender) != ""
}

// SVG renders s as a standalone SVG document. Elements are drawn in slice
// order, so later elements appear on top. Unknown themes and kinds fall back
// to the catalog defaults. A nil state renders an empty default bouquet.
func SVG(s *bouquet.State, opts ...SVGOption) []byte {
	if s == nil {
		s = bouquet.New()
	}
	r := newSVGRenderer(opts...)
	th := r.themes.Select(s.ThemeID)
	if r.override != nil {
		th = themes.StyleOf(*r.override)
	}
	f := r.frame(s)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-theme="%s">`+"\n",
		f.width, f.height, f.width, f.height, escapeXML(th.ID))
	if s.Sender != "" {
		fmt.Fprintf(&buf, "  <title>A bouquet from %s</title>\n", escapeXML(SanitizeText(s.Sender)))
	}
	fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="%s"/>`+"\n", f.width, f.height, escapeXML(th.Token(themes.TokenBackground)))

	r.renderCanvas(&buf, s, th, f)
	if f.cardH > 0 {
		renderCard(&buf, s, th, f)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderCanvas(buf *bytes.Buffer, s *bouquet.State, th themes.Style, f frame) {
	fmt.Fprintf(buf, `  <svg x="%.1f" y="%.1f" width="%.1f" height="%.1f" overflow="hidden">`+"\n", f.pad, f.pad, f.canvas, f.canvas)
	fmt.Fprintf(buf, `    <rect width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		f.canvas, f.canvas, f.pad/2, escapeXML(th.Token(themes.TokenCard)), escapeXML(th.Token(themes.TokenBorder)))

	unit := f.canvas * glyphWidth / glyphBoxWidth
	for _, e := range s.Elements {
		fl := r.flowers.Resolve(e.Kind)
		cx := e.X / 100 * f.canvas
		cy := e.Y / 100 * f.canvas
		fmt.Fprintf(buf, `    <g class="flower" data-id="%s" data-kind="%s" transform="translate(%.2f %.2f) rotate(%.2f) scale(%.4f) translate(%.0f %.0f)">`+"\n",
			escapeXML(e.ID), escapeXML(fl.ID), cx, cy, e.Rotation, unit*e.Scale, -glyphBoxWidth/2, -glyphBoxHeight/2)
		renderGlyph(buf, fl)
		buf.WriteString("    </g>\n")
	}
	buf.WriteString("  </svg>\n")
}

func renderCard(buf *bytes.Buffer, s *bouquet.State, th themes.Style, f frame) {
	fmt.Fprintf(buf, `  <rect class="card" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		f.pad, f.cardY, f.canvas, f.cardH, f.pad/2, escapeXML(th.Token(themes.TokenCard)), escapeXML(th.Token(themes.TokenBorder)))

	fontSize := f.width * 0.03
	lineHeight := fontSize * 1.4
	inset := f.pad
	textWidth := f.canvas - 2*inset
	perLine := int(textWidth / (fontSize * 0.55))
	maxLines := int((f.cardH - 2*inset - lineHeight) / lineHeight)

	letter := SanitizeText(s.Letter)
	sender := SanitizeText(s.Sender)
	if th.Uppercase() {
		letter, sender = strings.ToUpper(letter), strings.ToUpper(sender)
	}
	style := ""
	if th.Italic() {
		style = ` font-style="italic"`
	}
	x := f.pad + inset

	fmt.Fprintf(buf, `  <text class="letter" x="%.1f" y="%.1f" font-family="%s" font-size="%.1f" fill="%s"%s>`,
		x, f.cardY+inset+fontSize, escapeXML(th.Token(themes.TokenFont)), fontSize, escapeXML(th.Token(themes.TokenText)), style)
	for i, line := range wrap(letter, perLine, maxLines) {
		dy := 0.0
		if i > 0 {
			dy = lineHeight
		}
		fmt.Fprintf(buf, `<tspan x="%.1f" dy="%.1f">%s</tspan>`, x, dy, escapeXML(line))
	}
	buf.WriteString("</text>\n")

	if sender != "" {
		fmt.Fprintf(buf, `  <text class="sender" x="%.1f" y="%.1f" text-anchor="end" font-family="%s" font-size="%.1f" fill="%s"%s>— %s</text>`+"\n",
			f.pad+f.canvas-inset, f.cardY+f.cardH-inset, escapeXML(th.Token(themes.TokenFont)), fontSize, escapeXML(th.Token(themes.TokenAccent)), style, escapeXML(sender))
	}
}
