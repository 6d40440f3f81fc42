// Package tree compiles a genealogy graph into nested, JSON-ready trees.
//
// # Overview
//
// [Compile] starts at a root person and walks the adjacency index depth
// first, producing a fresh [Node] for every person it reaches. Child order is
// the edge-table order of the source data.
//
// # Shared Descendants
//
// The relation is a DAG, not a tree: two parents may list the same child.
// The compiler renders a separate subtree at every occurrence instead of
// sharing one, so every rendered node has exactly one parent. Highly shared
// ancestors therefore appear more than once in the output.
//
// # Cycles
//
// A malformed export may claim a descendant is also an ancestor. The
// compiler tracks the ids on the active recursion path; an id that is already
// on the path is emitted as a leaf for that occurrence. This guarantees
// termination on any input.
//
// # Attribute Presence
//
// The JSON form of a [Node] follows fixed presence rules that consumers branch
// on: the flags messiahLine, levitical and judge appear only when true;
// initiallyVisible and hadCollapsedChildren appear whenever the source value
// was known, true or false; text fields appear only when non-empty; children
// appears only for nodes that have children.
package tree
