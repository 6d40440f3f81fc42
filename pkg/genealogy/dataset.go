package genealogy

import (
	"slices"

	fterrors "github.com/matzehuels/famtree/pkg/errors"
)

// Adjacency maps a person id to the ids of its children in edge-table order.
// The order is the sibling display order and is never re-sorted.
type Adjacency map[string][]string

// Children returns the children of id, or nil for a leaf.
// The returned slice must not be modified.
func (a Adjacency) Children(id string) []string { return a[id] }

// Relation is a directed parent→child pair.
type Relation struct {
	Source string
	Target string
}

// Dataset is the loaded, filtered genealogy. It is read-only after [Read]
// returns.
type Dataset struct {
	Persons  Persons
	Children Adjacency
	Stats    LoadStats
}

// Require returns an UNKNOWN_ROOT error naming id when it is not a loaded
// person. The pipeline uses it for the master root, where absence is a
// configuration error.
func (d *Dataset) Require(id string) error {
	if d.Persons.Has(id) {
		return nil
	}
	return fterrors.New(fterrors.ErrCodeUnknownRoot, "expected root id %q to exist in the node table", id)
}

// Parents returns the inverse of the adjacency index: child id to parent ids.
// Parent order follows a scan of parents in ascending id order, then each
// parent's children in edge order.
func (d *Dataset) Parents() map[string][]string {
	parents := make(map[string][]string)
	for _, src := range d.Persons.IDs() {
		for _, dst := range d.Children[src] {
			parents[dst] = append(parents[dst], src)
		}
	}
	return parents
}

// MultiParent returns the ids of persons with more than one distinct recorded
// parent, in ascending id order. These are the shared descendants that the
// compiler renders more than once.
func (d *Dataset) MultiParent() []string {
	var ids []string
	for id, ps := range d.Parents() {
		if len(uniq(ps)) > 1 {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, compareIDs)
	return ids
}

// BackEdges returns relations that close a cycle in the adjacency index.
//
// It runs a depth-first search with white/gray/black coloring, starting from
// persons without parents and then from any person still unvisited, both in
// ascending id order, so the result is deterministic. The dataset is not
// changed.
func (d *Dataset) BackEdges() []Relation {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.Persons))
	var back []Relation

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range d.Children[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				back = append(back, Relation{Source: id, Target: child})
			}
		}
		color[id] = black
	}

	parents := d.Parents()
	ids := d.Persons.IDs()
	for _, id := range ids {
		if len(parents[id]) == 0 && color[id] == white {
			dfs(id)
		}
	}
	for _, id := range ids {
		if color[id] == white {
			dfs(id)
		}
	}
	return back
}

func uniq(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
