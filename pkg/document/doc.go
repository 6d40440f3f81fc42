// Package document composes compiled trees into the output document and
// handles its serialization.
//
// # Format
//
// The document has a fixed envelope consumed by the browser visualization:
//
//	{
//	  "generatedAt": "raw-latest",
//	  "master": {"type": "master", "slug": "master", "title": "...", "tree": {...}},
//	  "clusters": [
//	    {"type": "cluster", "slug": "judges", "title": "...", "scripture": [], "tree": {...}}
//	  ]
//	}
//
// Cluster order is the order of the cluster index. Serialization uses a
// two-space indent, leaves HTML characters unescaped and ends with a newline,
// so the same inputs always produce the same bytes.
//
// [ReadFile] loads a compiled document back for inspection, querying and
// rendering.
package document
