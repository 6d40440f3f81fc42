// Package cluster assembles named cluster trees from a genealogy.
//
// A cluster is a curated subset of the genealogy, such as the judges or the
// kings of Judah, defined in a cluster index as an ordered list of root ids.
// [Assemble] compiles each root with [tree.Compile] and hangs the resulting
// forest under a synthetic root whose id, cluster:<slug>, can never collide
// with a numeric person id.
//
// Roots missing from the person table are skipped rather than failing the run,
// since a cluster legitimately narrows when the source data changes. Skipped
// ids are reported on the [Section] so the caller can log them.
//
// Descriptive metadata (title override, tooltip, blurb, scripture) comes from
// a separate blurb table keyed by slug. A slug without an entry is not an
// error.
//
// Both the index and the blurb table are JSON, or YAML when the file has a
// .yaml or .yml extension. Root ids may be written as strings or numbers.
package cluster
