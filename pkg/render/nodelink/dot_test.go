package nodelink

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/famtree/pkg/genealogy"
	"github.com/matzehuels/famtree/pkg/tree"
)

func compile(t *testing.T, nodes, edges, root string) *tree.Node {
	t.Helper()
	ds, err := genealogy.Read(strings.NewReader(nodes), strings.NewReader(edges))
	require.NoError(t, err)
	n, err := tree.Compile(root, ds.Persons, ds.Children)
	require.NoError(t, err)
	return n
}

func TestToDOTShape(t *testing.T) {
	root := compile(t,
		"id,name,messiahLine,levitical,judge,tooltipRaw\n1,Jacob,true,,,Father of \"Israel\"\n2,Levi,,true,,\n3,Judah,true,,,\n4,Gideon,,,true,\n",
		"sourceId,targetId\n1,2\n1,3\n3,4\n", "1")

	dot := ToDOT(root, Options{})

	assert.True(t, strings.HasPrefix(dot, "digraph G {\n  rankdir=TB;\n"))
	assert.True(t, strings.HasSuffix(dot, "}\n"))
	assert.Contains(t, dot, `n0 [label="Jacob", tooltip="Father of \"Israel\"", fillcolor=gold];`)
	assert.Contains(t, dot, `n1 [label="Levi", fillcolor=lightblue];`)
	assert.Contains(t, dot, `n3 [label="Gideon", peripheries=2];`)
	assert.Contains(t, dot, "  n0 -> n1;\n  n0 -> n2;\n  n2 -> n3;\n")
}

func TestToDOTUniqueOccurrences(t *testing.T) {
	// Shared child 4 appears under both parents.
	root := compile(t, "id,name\n1,A\n2,B\n3,C\n4,D\n", "sourceId,targetId\n1,2\n1,3\n2,4\n3,4\n", "1")

	dot := ToDOT(root, Options{})
	assert.Equal(t, 2, strings.Count(dot, `[label="D"]`))
	assert.Contains(t, dot, "n1 -> n2;")
	assert.Contains(t, dot, "n3 -> n4;")
	assert.Equal(t, root.Count()-1, strings.Count(dot, "->"))
}

func TestToDOTMaxDepth(t *testing.T) {
	root := compile(t, "id,name\n1,A\n2,B\n3,C\n4,D\n", "sourceId,targetId\n1,2\n2,3\n3,4\n", "1")

	dot := ToDOT(root, Options{MaxDepth: 1})
	assert.Contains(t, dot, `label="B"`)
	assert.NotContains(t, dot, `label="C"`)
	assert.Contains(t, dot, `label="+2 more"`)
	assert.Contains(t, dot, "n1 -> n2;")
}

func TestToDOTDetailed(t *testing.T) {
	root := compile(t, "id,name,spouse,refs\n1,Boaz,Ruth,Ruth 4:13;Matt 1:5\n", "", "1")

	dot := ToDOT(root, Options{Detailed: true})
	assert.Contains(t, dot, `label="Boaz\nspouse: Ruth\nRuth 4:13; Matt 1:5"`)
}

func TestToDOTClusterRoot(t *testing.T) {
	root := &tree.Node{ID: "cluster:judges", Name: "Judges", Children: []*tree.Node{{ID: "1", Name: "Othniel", Judge: true}}}

	dot := ToDOT(root, Options{})
	assert.Contains(t, dot, `n0 [label="Judges", style="rounded,filled,dashed", fillcolor=lightgrey];`)
	assert.Contains(t, dot, `n1 [label="Othniel", peripheries=2];`)
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(nil, Options{})
	assert.NotContains(t, dot, "->")
	assert.True(t, strings.HasSuffix(dot, "}\n"))
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	assert.Contains(t, out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`)
	assert.Contains(t, out, "<g/>")

	plain := []byte("<svg><g/></svg>")
	assert.Equal(t, plain, normalizeViewBox(plain))
}
