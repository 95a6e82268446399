package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/bouqlink/bouqlink/pkg/flowers"
)

// Glyphs are drawn in a local box with the head centred at (50, 45) and
// the stem running to the bottom edge.
const (
	glyphBoxWidth  = 100.0
	glyphBoxHeight = 160.0
	headX, headY   = 50.0, 45.0
)

func renderGlyph(buf *bytes.Buffer, fl flowers.Flower) {
	petal, center, stem := escapeXML(fl.Petal), escapeXML(fl.Center), escapeXML(fl.Stem)

	if fl.Shape != flowers.ShapeLeaf {
		fmt.Fprintf(buf, `      <path d="M50 70 Q46 115 50 158" fill="none" stroke="%s" stroke-width="4" stroke-linecap="round"/>`+"\n", stem)
		fmt.Fprintf(buf, `      <path d="M49 118 Q30 100 26 108 Q34 122 49 118 Z" fill="%s"/>`+"\n", stem)
	}

	switch fl.Shape {
	case flowers.ShapeBloom:
		petals(buf, 6, 14, 24, 20, petal)
		fmt.Fprintf(buf, `      <circle cx="%.0f" cy="%.0f" r="12" fill="%s"/>`+"\n", headX, headY, center)
	case flowers.ShapeStar:
		petals(buf, 12, 6, 24, 22, petal)
		fmt.Fprintf(buf, `      <circle cx="%.0f" cy="%.0f" r="15" fill="%s"/>`+"\n", headX, headY, center)
	case flowers.ShapeCup:
		fmt.Fprintf(buf, `      <path d="M28 22 Q26 72 50 74 Q74 72 72 22 L61 38 L50 18 L39 38 Z" fill="%s"/>`+"\n", petal)
		fmt.Fprintf(buf, `      <path d="M50 18 L44 60 Q50 70 56 60 Z" fill="%s" opacity="0.6"/>`+"\n", center)
	case flowers.ShapeSpike:
		for i := range 6 {
			y := 12 + float64(i)*10
			w := 7 + float64(i)
			fmt.Fprintf(buf, `      <ellipse cx="%.0f" cy="%.0f" rx="%.0f" ry="6" fill="%s"/>`+"\n", headX, y, w, petal)
		}
		fmt.Fprintf(buf, `      <line x1="50" y1="8" x2="50" y2="70" stroke="%s" stroke-width="2"/>`+"\n", center)
	case flowers.ShapeCluster:
		for i := range 6 {
			a := float64(i) * math.Pi / 3
			fmt.Fprintf(buf, `      <circle cx="%.1f" cy="%.1f" r="11" fill="%s"/>`+"\n", headX+17*math.Cos(a), headY+17*math.Sin(a), petal)
		}
		fmt.Fprintf(buf, `      <circle cx="%.0f" cy="%.0f" r="10" fill="%s"/>`+"\n", headX, headY, center)
	case flowers.ShapeLeaf:
		fmt.Fprintf(buf, `      <path d="M50 6 Q88 60 50 150 Q12 60 50 6 Z" fill="%s"/>`+"\n", petal)
		fmt.Fprintf(buf, `      <path d="M50 14 L50 158" stroke="%s" stroke-width="3" stroke-linecap="round"/>`+"\n", center)
	case flowers.ShapeGeo:
		fmt.Fprintf(buf, `      <polygon points="%s" fill="%s"/>`+"\n", polygon(6, 28, 0), petal)
		fmt.Fprintf(buf, `      <polygon points="%s" fill="%s"/>`+"\n", polygon(3, 16, -math.Pi/2), center)
	}
}

// petals draws n ellipses of radii rx, ry whose centres sit dist from the
// head, each rotated to point outward.
func petals(buf *bytes.Buffer, n int, rx, ry, dist float64, fill string) {
	for i := range n {
		deg := float64(i) * 360 / float64(n)
		fmt.Fprintf(buf, `      <ellipse cx="%.0f" cy="%.0f" rx="%.0f" ry="%.0f" fill="%s" transform="rotate(%.1f %.0f %.0f)"/>`+"\n",
			headX, headY-dist, rx, ry, fill, deg, headX, headY)
	}
}

func polygon(n int, radius, phase float64) string {
	var b bytes.Buffer
	for i := range n {
		a := phase + float64(i)*2*math.Pi/float64(n)
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", headX+radius*math.Cos(a), headY+radius*math.Sin(a))
	}
	return b.String()
}
