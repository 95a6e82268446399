// Package layout computes placements for decorative elements on the
// bouquet canvas.
//
// Two policies are supported. [Generator.Random] scatters an element
// uniformly over the middle of the canvas. [Generator.Clustered] places the
// element on a golden-angle spiral around a fixed point slightly below the
// canvas centre, which reads as a hand-tied bunch: the spread grows with the
// square root of the insertion index and is capped, and each stem leans
// away from the centre in proportion to its horizontal offset.
//
// All randomness comes from the [Generator]'s source. Build one with [New]
// and a fixed seed for reproducible output, or with [NewRandom] in
// production.
//
//	g := layout.New(42)
//	for i := range 8 {
//		p := g.Clustered(i)
//		fmt.Printf("%.1f %.1f\n", p.X, p.Y)
//	}
package layout
