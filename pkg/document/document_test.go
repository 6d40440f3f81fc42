package document

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/famtree/pkg/cluster"
	fterrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/genealogy"
	"github.com/matzehuels/famtree/pkg/tree"
)

func build(t *testing.T) *Document {
	t.Helper()
	nodes := "id,name,tooltipRaw\n420,Adam,<first> & only\n421,Seth,\n422,Cain,\n"
	edges := "sourceId,targetId\n420,421\n420,422\n"
	ds, err := genealogy.Read(strings.NewReader(nodes), strings.NewReader(edges))
	require.NoError(t, err)

	master, err := tree.Compile("420", ds.Persons, ds.Children)
	require.NoError(t, err)

	specs := []cluster.Spec{
		{Slug: "sons", Title: "Sons of Adam", Roots: cluster.RootIDs{"422", "421"}},
		{Slug: "empty", Roots: cluster.RootIDs{"9"}},
	}
	blurbs := cluster.Blurbs{"sons": {Tooltip: "Cain and Seth", Scripture: []string{"Gen 4:1"}}}
	var sections []cluster.Section
	for _, s := range specs {
		sections = append(sections, cluster.Assemble(s, blurbs, ds.Persons, ds.Children))
	}
	return New("", "", master, sections)
}

func TestNewDefaults(t *testing.T) {
	d := New("", "", &tree.Node{ID: "1", Name: "A"}, nil)
	assert.Equal(t, DefaultLabel, d.GeneratedAt)
	assert.Equal(t, "master", d.Master.Type)
	assert.Equal(t, "master", d.Master.Slug)
	assert.Equal(t, DefaultMasterTitle, d.Master.Title)
	assert.NotNil(t, d.Clusters)

	d = New("2024-01", "Custom", nil, nil)
	assert.Equal(t, "2024-01", d.GeneratedAt)
	assert.Equal(t, "Custom", d.Master.Title)
}

func TestMarshalFormat(t *testing.T) {
	data, err := build(t).Marshal()
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "{\n  \"generatedAt\": \"raw-latest\",\n  \"master\": {\n    \"type\": \"master\","))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `"tooltipRaw": "<first> & only"`, "HTML characters are not escaped")
	assert.Contains(t, out, `"scripture": []`)

	idx := strings.Index(out, `"slug": "sons"`)
	jdx := strings.Index(out, `"slug": "empty"`)
	assert.Positive(t, idx)
	assert.Greater(t, jdx, idx, "clusters keep index order")
}

func TestMarshalEmptyClusters(t *testing.T) {
	data, err := New("", "", &tree.Node{ID: "1", Name: "A"}, nil).Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"clusters": []`)
}

func TestMarshalDeterministic(t *testing.T) {
	a, err := build(t).Marshal()
	require.NoError(t, err)
	b, err := build(t).Marshal()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "bible-tree.json")
	d := build(t)
	require.NoError(t, d.WriteFile(path))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, d.Master, got.Master)
	require.Len(t, got.Clusters, 2)
	assert.Equal(t, "Sons of Adam", got.Clusters[0].Title)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, got.Write(&buf))
	assert.Equal(t, string(written), buf.String())
}

func TestTree(t *testing.T) {
	d := build(t)

	master, err := d.Tree("master")
	require.NoError(t, err)
	assert.Equal(t, "420", master.ID)

	master, err = d.Tree("")
	require.NoError(t, err)
	assert.Equal(t, "420", master.ID)

	sons, err := d.Tree("sons")
	require.NoError(t, err)
	assert.Equal(t, "cluster:sons", sons.ID)
	assert.Equal(t, 3, sons.Count())

	_, err = d.Tree("kings")
	assert.True(t, fterrors.Is(err, fterrors.ErrCodeNotFound))
}

func TestReadErrors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, fterrors.Is(err, fterrors.ErrCodeFileNotFound))

	_, err = Unmarshal([]byte("{not json"))
	assert.True(t, fterrors.Is(err, fterrors.ErrCodeInvalidFormat))
}
