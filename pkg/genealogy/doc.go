// Package genealogy loads the flat node and edge tables of a genealogy export.
//
// # Overview
//
// The export is two CSV tables: one row per person ("nodes") and one row per
// parent→child relation ("edges"). [Read] and [LoadFiles] turn them into a
// [Dataset]: a [Persons] table keyed by id and an [Adjacency] index mapping
// each person to its children in edge-table order.
//
// # Filtering
//
// Only rows whose id is numeric are people. The export also carries legend
// and annotation rows that share the node table; those are dropped silently,
// together with any edge that touches them on either end.
//
// # Booleans
//
// Boolean-like cells use three-way parsing (see [ParseTriState]): "true",
// "1" and "yes" are true, "false", "0" and "no" are false, and anything else,
// including an empty cell, is unknown. The flags messiahLine, levitical and
// judge only matter when true; initiallyVisible and hadCollapsedChildren keep
// the false/unknown distinction.
//
// # Graph Shape
//
// The relation is a directed graph. A person may have several recorded
// parents and a malformed export may even contain cycles. The loader keeps
// the graph as-is; [Dataset.MultiParent] and [Dataset.BackEdges] exist for
// diagnostics only.
//
// A Dataset is read-only after loading and safe for concurrent readers.
package genealogy
