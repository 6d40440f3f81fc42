package tree

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fterrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/genealogy"
)

func load(t *testing.T, nodes, edges string) *genealogy.Dataset {
	t.Helper()
	ds, err := genealogy.Read(strings.NewReader(nodes), strings.NewReader(edges))
	require.NoError(t, err)
	return ds
}

func compileJSON(t *testing.T, ds *genealogy.Dataset, root string) string {
	t.Helper()
	n, err := Compile(root, ds.Persons, ds.Children)
	require.NoError(t, err)
	b, err := json.Marshal(n)
	require.NoError(t, err)
	return string(b)
}

func TestCompileSimpleChain(t *testing.T) {
	ds := load(t, "id,name\n1,\n2,\n", "sourceId,targetId\n1,2\n")
	assert.JSONEq(t, `{"id":"1","name":"1","children":[{"id":"2","name":"2"}]}`, compileJSON(t, ds, "1"))
}

func TestCompileBooleanFields(t *testing.T) {
	ds := load(t,
		"id,name,messiahLine,levitical,judge,initiallyVisible,hadCollapsedChildren\n"+
			"1,Deborah,false,,true,false,\n",
		"sourceId,targetId\n")

	got := compileJSON(t, ds, "1")
	assert.JSONEq(t, `{"id":"1","name":"Deborah","judge":true,"initiallyVisible":false}`, got)
	assert.NotContains(t, got, "messiahLine")
	assert.NotContains(t, got, "levitical")
	assert.NotContains(t, got, "hadCollapsedChildren")
}

func TestCompileEmptyTooltip(t *testing.T) {
	ds := load(t, "id,name,tooltipRaw,spouse,refs\n1,Enoch,,,\n2,Lamech,  \t ,  , ; \n", "sourceId,targetId\n")

	for _, id := range []string{"1", "2"} {
		got := compileJSON(t, ds, id)
		assert.NotContains(t, got, "tooltip")
		assert.NotContains(t, got, "spouse")
		assert.NotContains(t, got, "refs")
	}
}

func TestCompileAttributes(t *testing.T) {
	ds := load(t,
		"id,name,messiahLine,tooltipRaw,spouse,refs\n"+
			"7,Boaz,yes,\"Kinsman\n  redeemer\",Ruth,Ruth 4:13;Matt 1:5\n",
		"sourceId,targetId\n")

	n, err := Compile("7", ds.Persons, ds.Children)
	require.NoError(t, err)
	assert.True(t, n.MessiahLine)
	assert.Equal(t, "Kinsman\n  redeemer", n.TooltipRaw)
	assert.Equal(t, "Kinsman redeemer", n.Tooltip)
	assert.Equal(t, "Ruth", n.Spouse)
	assert.Equal(t, []string{"Ruth 4:13", "Matt 1:5"}, n.Refs)

	n.Refs[0] = "changed"
	p, _ := ds.Persons.Get("7")
	assert.Equal(t, "Ruth 4:13", p.Refs[0], "compiled nodes do not alias person data")
}

func TestCompileKeyOrder(t *testing.T) {
	ds := load(t,
		"id,name,messiahLine,levitical,judge,initiallyVisible,hadCollapsedChildren,tooltipRaw,spouse,refs\n"+
			"1,A,1,1,1,1,0,tip,S,R\n2,B,,,,,,,,\n",
		"sourceId,targetId\n1,2\n")

	got := compileJSON(t, ds, "1")
	want := `{"id":"1","name":"A","messiahLine":true,"levitical":true,"judge":true,` +
		`"initiallyVisible":true,"hadCollapsedChildren":false,"tooltipRaw":"tip","tooltip":"tip",` +
		`"spouse":"S","refs":["R"],"children":[{"id":"2","name":"B"}]}`
	assert.Equal(t, want, got)
}

func TestCompileLeafCompactness(t *testing.T) {
	ds := load(t, "id,name\n1,A\n2,B\n", "sourceId,targetId\n1,2\n")

	n, err := Compile("2", ds.Persons, ds.Children)
	require.NoError(t, err)
	assert.Nil(t, n.Children)
	assert.True(t, n.IsLeaf())
	assert.NotContains(t, compileJSON(t, ds, "2"), "children")
}

func TestCompilePreservesChildOrder(t *testing.T) {
	ds := load(t, "id\n1\n2\n3\n4\n5\n", "sourceId,targetId\n1,5\n1,3\n1,4\n1,2\n")

	n, err := Compile("1", ds.Persons, ds.Children)
	require.NoError(t, err)
	var ids []string
	for _, c := range n.Children {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"5", "3", "4", "2"}, ids)
}

func TestCompileDuplicatesSharedDescendants(t *testing.T) {
	// 1 is the ancestor of parents 2 and 3, who both list child 4.
	ds := load(t, "id,name\n1,G\n2,P1\n3,P2\n4,C\n5,D\n",
		"sourceId,targetId\n1,2\n1,3\n2,4\n3,4\n4,5\n")

	n, err := Compile("1", ds.Persons, ds.Children)
	require.NoError(t, err)
	require.Len(t, n.Children, 2)

	left := n.Children[0].Children
	right := n.Children[1].Children
	require.Len(t, left, 1)
	require.Len(t, right, 1)
	assert.Equal(t, left[0], right[0])
	assert.NotSame(t, left[0], right[0])
	assert.NotSame(t, left[0].Children[0], right[0].Children[0])
	assert.Equal(t, 7, n.Count())
}

func TestCompileCycleTerminates(t *testing.T) {
	ds := load(t, "id,name\n1,A\n2,B\n", "sourceId,targetId\n1,2\n2,1\n")

	got := compileJSON(t, ds, "1")
	assert.JSONEq(t, `{"id":"1","name":"A","children":[{"id":"2","name":"B","children":[{"id":"1","name":"A"}]}]}`, got)
}

func TestCompileSelfLoop(t *testing.T) {
	ds := load(t, "id,name,judge\n1,A,true\n", "sourceId,targetId\n1,1\n")

	got := compileJSON(t, ds, "1")
	assert.JSONEq(t, `{"id":"1","name":"A","judge":true,"children":[{"id":"1","name":"A","judge":true}]}`, got)
}

func TestCompileCycleBelowSharedNode(t *testing.T) {
	// 2 and 3 form a cycle reachable from two parents; each path truncates
	// independently.
	ds := load(t, "id\n1\n2\n3\n4\n", "sourceId,targetId\n1,2\n1,4\n4,2\n2,3\n3,2\n")

	n, err := Compile("1", ds.Persons, ds.Children)
	require.NoError(t, err)
	assert.Equal(t, 8, n.Count())
	assert.Equal(t, 4, n.Depth())
}

func TestCompileUnknownRoot(t *testing.T) {
	ds := load(t, "id\n1\n", "")

	_, err := Compile("999", ds.Persons, ds.Children)
	require.Error(t, err)

	var ure *UnknownRootError
	require.ErrorAs(t, err, &ure)
	assert.Equal(t, "999", ure.ID)
	assert.True(t, fterrors.Is(err, fterrors.ErrCodeUnknownRoot))
}

func TestCompileSkipsUnknownChildrenInHandBuiltIndex(t *testing.T) {
	ds := load(t, "id\n1\n2\n", "")
	adj := genealogy.Adjacency{"1": {"2", "404"}}

	n, err := Compile("1", ds.Persons, adj)
	require.NoError(t, err)
	require.Len(t, n.Children, 1)
	assert.Equal(t, "2", n.Children[0].ID)
}

func TestCompileDeterministic(t *testing.T) {
	nodes := "id,name,refs\n1,A,x;y\n2,B,\n3,C,z\n4,D,\n"
	edges := "sourceId,targetId\n1,3\n1,2\n2,4\n3,4\n4,1\n"

	first := compileJSON(t, load(t, nodes, edges), "1")
	for range 5 {
		assert.Equal(t, first, compileJSON(t, load(t, nodes, edges), "1"))
	}
}

func TestWalkCountDepth(t *testing.T) {
	ds := load(t, "id\n1\n2\n3\n4\n", "sourceId,targetId\n1,2\n2,3\n1,4\n")
	n, err := Compile("1", ds.Persons, ds.Children)
	require.NoError(t, err)

	var visited []string
	n.Walk(func(node *Node, depth int) bool {
		visited = append(visited, node.ID)
		return depth < 1
	})
	assert.Equal(t, []string{"1", "2", "4"}, visited)
	assert.Equal(t, 4, n.Count())
	assert.Equal(t, 2, n.Depth())
	assert.Equal(t, 0, n.Children[1].Depth())
}
