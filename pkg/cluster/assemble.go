package cluster

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/famtree/pkg/genealogy"
	"github.com/matzehuels/famtree/pkg/tree"
)

// SectionType is the type tag of every cluster section.
const SectionType = "cluster"

// IDPrefix namespaces synthetic cluster root ids.
const IDPrefix = "cluster:"

// Section is one compiled cluster in the output document.
type Section struct {
	Type      string   `json:"type"`
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Tooltip   string   `json:"tooltip,omitempty"`
	Blurb     string   `json:"blurb,omitempty"`
	Scripture []string `json:"scripture"`
	Tree      *Root    `json:"tree"`

	// Skipped lists declared roots that are not in the person table.
	Skipped []string `json:"-"`
}

// Root is the synthetic root of a cluster forest. Unlike [tree.Node] it
// always serializes its children, even when every declared root was skipped.
type Root struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Children []*tree.Node `json:"children"`
}

// Node returns the root as a plain tree node for traversal and rendering.
func (r *Root) Node() *tree.Node {
	return &tree.Node{ID: r.ID, Name: r.Name, Children: r.Children}
}

// Title resolves the display title of a cluster: the blurb title, then the
// index title, then the slug, then "Cluster".
func Title(spec Spec, blurb Blurb) string {
	for _, t := range []string{blurb.Title, spec.Title, spec.Slug} {
		if t != "" {
			return t
		}
	}
	return "Cluster"
}

// RootID returns the synthetic root id for slug.
func RootID(slug string) string {
	if slug == "" {
		slug = "cluster"
	}
	return IDPrefix + slug
}

// Assemble compiles every root of spec and wraps the forest under a
// synthetic root. Roots that are not loaded persons are recorded in
// Section.Skipped.
func Assemble(spec Spec, blurbs Blurbs, persons genealogy.Persons, adjacency genealogy.Adjacency) Section {
	blurb := blurbs.Lookup(spec.Slug)
	title := Title(spec, blurb)

	root := &Root{
		ID:       RootID(spec.Slug),
		Name:     title,
		Children: make([]*tree.Node, 0, len(spec.Roots)),
	}
	var skipped []string
	for _, id := range spec.Roots {
		n, err := tree.Compile(id, persons, adjacency)
		if err != nil {
			skipped = append(skipped, id)
			continue
		}
		root.Children = append(root.Children, n)
	}

	scripture := make([]string, 0, len(blurb.Scripture))
	scripture = append(scripture, blurb.Scripture...)

	return Section{
		Type:      SectionType,
		Slug:      spec.Slug,
		Title:     title,
		Tooltip:   blurb.Tooltip,
		Blurb:     blurb.Blurb,
		Scripture: scripture,
		Tree:      root,
		Skipped:   skipped,
	}
}

// AssembleAll assembles specs on at most workers goroutines and returns the
// sections in index order. Zero or negative workers means GOMAXPROCS.
// Cancelling ctx stops clusters that have not started yet.
func AssembleAll(ctx context.Context, specs []Spec, blurbs Blurbs, persons genealogy.Persons, adjacency genealogy.Adjacency, workers int) ([]Section, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	sections := make([]Section, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, spec := range specs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sections[i] = Assemble(spec, blurbs, persons, adjacency)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sections, nil
}
