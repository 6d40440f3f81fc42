package tree

// Node is one rendered person in a compiled tree.
//
// Field order is the JSON key order of the output document. Optional fields
// use omitempty; the two tri-state booleans are pointers so that an explicit
// false survives serialization.
type Node struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	MessiahLine bool `json:"messiahLine,omitempty"`
	Levitical   bool `json:"levitical,omitempty"`
	Judge       bool `json:"judge,omitempty"`

	InitiallyVisible     *bool `json:"initiallyVisible,omitempty"`
	HadCollapsedChildren *bool `json:"hadCollapsedChildren,omitempty"`

	TooltipRaw string   `json:"tooltipRaw,omitempty"`
	Tooltip    string   `json:"tooltip,omitempty"`
	Spouse     string   `json:"spouse,omitempty"`
	Refs       []string `json:"refs,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Walk calls fn for n and every descendant in pre-order, passing the depth
// below n (n itself is depth 0). Returning false from fn skips that node's
// children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Depth returns the number of levels below n; a leaf has depth 0.
func (n *Node) Depth() int {
	deepest := 0
	n.Walk(func(_ *Node, d int) bool {
		deepest = max(deepest, d)
		return true
	})
	return deepest
}
