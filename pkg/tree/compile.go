package tree

import (
	"slices"

	fterrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/genealogy"
)

// UnknownRootError is returned by [Compile] when the root id is not a loaded
// person.
type UnknownRootError struct {
	ID string
}

func (e *UnknownRootError) Error() string {
	return "unknown root id " + e.ID
}

// Unwrap exposes the error as code UNKNOWN_ROOT so that callers can test it
// with [fterrors.Is].
func (e *UnknownRootError) Unwrap() error {
	return fterrors.New(fterrors.ErrCodeUnknownRoot, "unknown root id %q", e.ID)
}

// Compile materializes the tree reachable from rootID.
//
// Every occurrence of a person gets a fresh subtree, so a shared descendant
// appears once under each of its parents. An id that is already on the
// recursion path is rendered as a leaf. Persons and adjacency are only read.
func Compile(rootID string, persons genealogy.Persons, adjacency genealogy.Adjacency) (*Node, error) {
	if !persons.Has(rootID) {
		return nil, &UnknownRootError{ID: rootID}
	}
	c := compiler{
		persons:   persons,
		adjacency: adjacency,
		onPath:    make(map[string]bool),
	}
	return c.build(rootID), nil
}

type compiler struct {
	persons   genealogy.Persons
	adjacency genealogy.Adjacency
	onPath    map[string]bool
}

func (c *compiler) build(id string) *Node {
	person, _ := c.persons.Get(id)
	node := FromPerson(person)
	if c.onPath[id] {
		return node
	}

	c.onPath[id] = true
	for _, childID := range c.adjacency.Children(id) {
		// Loaded adjacency only names known persons; a hand-built index may not.
		if !c.persons.Has(childID) {
			continue
		}
		node.Children = append(node.Children, c.build(childID))
	}
	delete(c.onPath, id)

	return node
}

// FromPerson returns a childless node carrying the present attributes of p.
func FromPerson(p *genealogy.Person) *Node {
	return &Node{
		ID:                   p.ID,
		Name:                 p.Name,
		MessiahLine:          p.MessiahLine,
		Levitical:            p.Levitical,
		Judge:                p.Judge,
		InitiallyVisible:     p.InitiallyVisible.Ptr(),
		HadCollapsedChildren: p.HadCollapsedChildren.Ptr(),
		TooltipRaw:           p.TooltipRaw,
		Tooltip:              p.Tooltip,
		Spouse:               p.Spouse,
		Refs:                 slices.Clone(p.Refs),
	}
}
