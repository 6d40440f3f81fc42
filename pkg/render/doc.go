// Package render converts rendered genealogy diagrams between formats.
//
// The [nodelink] subpackage draws a compiled tree as a Graphviz diagram and
// produces SVG in-process. [FromSVG] turns that SVG into PNG or PDF with the
// external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(root, opts))
//	pdf, err := render.FromSVG(ctx, svg, render.FormatPDF)
package render
