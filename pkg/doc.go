// Package pkg provides the core libraries for famtree.
//
// # Overview
//
// famtree compiles a genealogy, exported as a node table and an edge table,
// into one JSON document holding a master tree and a tree per named cluster.
// The pkg directory is organized by pipeline stage:
//
//  1. [genealogy] - Load the CSV tables into persons and an ordered adjacency
//  2. [tree] - Materialize a nested tree from a root, breaking cycles
//  3. [cluster] - Read the cluster index and blurbs and assemble cluster sections
//  4. [document] - The output envelope and its serialization
//  5. [pipeline] - Orchestration (load → compile → assemble → serialize) with caching
//
// Supporting packages:
//
//   - [cache]: content-addressed document cache (file, Redis or none)
//   - [config]: layered configuration (defaults, file, environment, flags)
//   - [errors]: coded errors shared by every stage
//   - [observability]: hooks for pipeline, cache and publish events
//   - [query]: JSONPath selection over a compiled document
//   - [publish]: MongoDB sink for compiled documents
//   - [render]: Graphviz diagrams of compiled trees
//
// # Architecture
//
//	nodes.csv + edges.csv         index.json + blurbs.json
//	         ↓                              ↓
//	   [genealogy] Dataset ──────→ [cluster] AssembleAll
//	         ↓                              ↓
//	   [tree] Compile(master)               │
//	         ↓                              ↓
//	   [document] New(label, title, master, clusters)
//	         ↓
//	   bible-tree.json ──→ [query] / [render] / [publish]
//
// # Quick Start
//
//	ds, err := genealogy.LoadFiles("nodes.csv", "edges.csv")
//	if err != nil {
//	    return err
//	}
//	if err := ds.Require("420"); err != nil {
//	    return err // UNKNOWN_ROOT
//	}
//	master, err := tree.Compile("420", ds.Persons, ds.Children)
//	if err != nil {
//	    return err
//	}
//	doc := document.New("", "", master, nil)
//	return doc.WriteFile("bible-tree.json")
//
// Or run the whole pipeline with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    NodesPath:    "nodes.csv",
//	    EdgesPath:    "edges.csv",
//	    ClustersPath: "index.json",
//	})
//
// [genealogy]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/genealogy
// [tree]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/tree
// [cluster]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/cluster
// [document]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/document
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/observability
// [query]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/query
// [publish]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/publish
// [render]: https://pkg.go.dev/github.com/matzehuels/famtree/pkg/render
package pkg
