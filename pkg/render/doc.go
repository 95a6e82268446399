// Package render draws bouquet previews.
//
// [SVG] produces a self-contained SVG document: the theme background, the
// canvas with every element drawn as a stylised flower in stacking order,
// and a letter card with the message and sender. Placement uses the same
// percentage coordinates as the editor, so a preview matches what the
// sender composed.
//
// Free text is untrusted input from a share link. Letter and sender are
// stripped of markup with a strict sanitising policy and XML-escaped before
// they reach the document.
//
// [ToPDF] and [ToPNG] convert the SVG with the external rsvg-convert tool
// (from librsvg).
//
//	svg := render.SVG(state, render.WithWidth(1200))
//	png, err := render.ToPNG(ctx, svg, 2.0)
package render
