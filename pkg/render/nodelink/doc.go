// Package nodelink renders compiled genealogy trees as node-link diagrams.
//
// # Overview
//
// [ToDOT] walks a [tree.Node] and emits Graphviz DOT source, one box per
// rendered occurrence of a person. Because the compiler duplicates shared
// descendants, each occurrence gets its own DOT node name (n0, n1, ...) and
// the diagram stays a tree.
//
// # Styling
//
// Flags from the source data are drawn so lineages stand out:
//
//   - messiahLine: gold fill
//   - levitical: light blue fill
//   - judge: double border
//   - cluster roots: dashed grey box
//
// Subtrees cut off by Options.MaxDepth end in a dashed node whose label counts
// the hidden descendants.
//
// # Rendering
//
// [RenderSVG] lays out the DOT in-process with [github.com/goccy/go-graphviz].
// For PDF or PNG, convert the SVG with the parent render package.
package nodelink
