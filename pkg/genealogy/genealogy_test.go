package genealogy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fterrors "github.com/matzehuels/famtree/pkg/errors"
)

func read(t *testing.T, nodes, edges string) *Dataset {
	t.Helper()
	ds, err := Read(strings.NewReader(nodes), strings.NewReader(edges))
	require.NoError(t, err)
	return ds
}

func TestParseTriState(t *testing.T) {
	tests := []struct {
		in   string
		want TriState
	}{
		{"true", True},
		{"TRUE", True},
		{" Yes ", True},
		{"1", True},
		{"false", False},
		{"False", False},
		{"no", False},
		{"0", False},
		{"", Unknown},
		{"   ", Unknown},
		{"maybe", Unknown},
		{"2", Unknown},
		{"y", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTriState(tt.in))
		})
	}
}

func TestTriStatePtr(t *testing.T) {
	assert.Nil(t, Unknown.Ptr())

	f := False.Ptr()
	require.NotNil(t, f)
	assert.False(t, *f)

	tr := True.Ptr()
	require.NotNil(t, tr)
	assert.True(t, *tr)

	assert.NotSame(t, True.Ptr(), True.Ptr())
	assert.True(t, False.Known())
	assert.False(t, Unknown.Known())
}

func TestIsPersonID(t *testing.T) {
	assert.True(t, IsPersonID("420"))
	assert.True(t, IsPersonID("0"))
	assert.False(t, IsPersonID(""))
	assert.False(t, IsPersonID("legend-1"))
	assert.False(t, IsPersonID("12a"))
	assert.False(t, IsPersonID(" 12"))
	assert.False(t, IsPersonID("-3"))
}

func TestSplitRefs(t *testing.T) {
	assert.Nil(t, SplitRefs(""))
	assert.Nil(t, SplitRefs("   "))
	assert.Nil(t, SplitRefs(" ; ;"))
	assert.Equal(t, []string{"Gen 5:3"}, SplitRefs("Gen 5:3"))
	assert.Equal(t, []string{"Gen 4:25", "Gen 5:3", "Luke 3:38"}, SplitRefs(" Gen 4:25;Gen 5:3 ;; Luke 3:38;"))
}

func TestReadFiltersNonNumericRows(t *testing.T) {
	nodes := "id,name\n420,Adam\n421,Seth\nlegend-1,Messianic line\n"
	edges := "sourceId,targetId\n" +
		"420,421\n" +
		"legend-1,420\n" +
		"420,legend-1\n" +
		"420,999\n"

	ds := read(t, nodes, edges)

	assert.Len(t, ds.Persons, 2)
	assert.True(t, ds.Persons.Has("420"))
	assert.False(t, ds.Persons.Has("legend-1"))
	assert.Equal(t, []string{"421"}, ds.Children.Children("420"))
	assert.Nil(t, ds.Children.Children("legend-1"))

	assert.Equal(t, LoadStats{
		RowsRead:         3,
		RowsFiltered:     1,
		Persons:          2,
		RelationsRead:    4,
		Relations:        1,
		RelationsDropped: 3,
	}, ds.Stats)
}

func TestReadPreservesEdgeOrder(t *testing.T) {
	nodes := "id,name\n1,Noah\n2,Shem\n3,Ham\n4,Japheth\n"
	edges := "sourceId,targetId\n1,4\n1,2\n1,3\n"

	ds := read(t, nodes, edges)
	assert.Equal(t, []string{"4", "2", "3"}, ds.Children.Children("1"))
	assert.Nil(t, ds.Children.Children("2"))
}

func TestReadPersonAttributes(t *testing.T) {
	nodes := "id,name,messiahLine,levitical,judge,initiallyVisible,hadCollapsedChildren,tooltipRaw,spouse,refs\n" +
		"10,Samuel,false,yes,true,0,,\"  First line\n   second  line \",,1 Sam 1:20; 1 Sam 7:15 ;\n" +
		"11,,1,,no,TRUE,false,   ,  Hannah  ,\n"

	ds := read(t, nodes, "sourceId,targetId\n")

	samuel, ok := ds.Persons.Get("10")
	require.True(t, ok)
	assert.Equal(t, "Samuel", samuel.Name)
	assert.False(t, samuel.MessiahLine)
	assert.True(t, samuel.Levitical)
	assert.True(t, samuel.Judge)
	assert.Equal(t, False, samuel.InitiallyVisible)
	assert.Equal(t, Unknown, samuel.HadCollapsedChildren)
	assert.Equal(t, "First line\n   second  line", samuel.TooltipRaw)
	assert.Equal(t, "First line second line", samuel.Tooltip)
	assert.Empty(t, samuel.Spouse)
	assert.Equal(t, []string{"1 Sam 1:20", "1 Sam 7:15"}, samuel.Refs)

	other, ok := ds.Persons.Get("11")
	require.True(t, ok)
	assert.Equal(t, "11", other.Name, "empty name falls back to the id")
	assert.True(t, other.MessiahLine)
	assert.False(t, other.Judge)
	assert.Equal(t, True, other.InitiallyVisible)
	assert.Equal(t, False, other.HadCollapsedChildren)
	assert.Empty(t, other.TooltipRaw)
	assert.Empty(t, other.Tooltip)
	assert.Equal(t, "Hannah", other.Spouse)
	assert.Nil(t, other.Refs)
}

func TestReadOptionalColumnsAndShortRows(t *testing.T) {
	nodes := "id,name,judge\n1,Ehud\n2,Othniel,true\n"
	ds := read(t, nodes, "targetId,sourceId\n2,1\n")

	ehud, _ := ds.Persons.Get("1")
	assert.False(t, ehud.Judge)
	assert.Equal(t, Unknown, ehud.InitiallyVisible)

	othniel, _ := ds.Persons.Get("2")
	assert.True(t, othniel.Judge)

	assert.Equal(t, []string{"2"}, ds.Children.Children("1"), "columns are addressed by header name")
}

func TestReadByteOrderMark(t *testing.T) {
	ds := read(t, "\ufeffid,name\n1,Adam\n", "\ufeffsourceId,targetId\n")
	assert.True(t, ds.Persons.Has("1"))
}

func TestReadDuplicateIDLastWins(t *testing.T) {
	ds := read(t, "id,name\n1,Abram\n1,Abraham\n", "sourceId,targetId\n")
	p, _ := ds.Persons.Get("1")
	assert.Equal(t, "Abraham", p.Name)
	assert.Equal(t, 1, ds.Stats.Persons)
	assert.Equal(t, 2, ds.Stats.RowsRead)
}

func TestReadEmptyTables(t *testing.T) {
	ds := read(t, "", "")
	assert.Empty(t, ds.Persons)
	assert.Empty(t, ds.Children)
}

func TestReadMissingColumn(t *testing.T) {
	_, err := Read(strings.NewReader("name\nAdam\n"), strings.NewReader("sourceId,targetId\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Read(strings.NewReader("id\n1\n"), strings.NewReader("sourceId\n1\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "targetId")
}

func TestRequire(t *testing.T) {
	ds := read(t, "id,name\n420,Adam\n", "sourceId,targetId\n")
	assert.NoError(t, ds.Require("420"))

	err := ds.Require("1")
	require.Error(t, err)
	assert.True(t, fterrors.Is(err, fterrors.ErrCodeUnknownRoot))
	assert.Contains(t, err.Error(), `"1"`)
}

func TestPersonsIDsNumericOrder(t *testing.T) {
	ds := read(t, "id\n100\n9\n20\n", "")
	assert.Equal(t, []string{"9", "20", "100"}, ds.Persons.IDs())
}

func TestMultiParent(t *testing.T) {
	nodes := "id\n1\n2\n3\n4\n"
	edges := "sourceId,targetId\n1,3\n2,3\n1,4\n1,4\n"

	ds := read(t, nodes, edges)
	assert.Equal(t, []string{"3"}, ds.MultiParent(), "a repeated edge is not a second parent")
	assert.Equal(t, []string{"1", "2"}, ds.Parents()["3"])
}

func TestBackEdges(t *testing.T) {
	nodes := "id\n1\n2\n3\n"
	edges := "sourceId,targetId\n1,2\n2,1\n3,1\n"

	ds := read(t, nodes, edges)
	assert.Equal(t, []Relation{{Source: "2", Target: "1"}}, ds.BackEdges())

	acyclic := read(t, nodes, "sourceId,targetId\n1,2\n1,3\n2,3\n")
	assert.Empty(t, acyclic.BackEdges())
}

func TestBackEdgesSelfLoopWithoutRoot(t *testing.T) {
	ds := read(t, "id\n5\n", "sourceId,targetId\n5,5\n")
	assert.Equal(t, []Relation{{Source: "5", Target: "5"}}, ds.BackEdges())
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	nodesPath := filepath.Join(dir, "nodes.csv")
	edgesPath := filepath.Join(dir, "edges.csv")
	require.NoError(t, os.WriteFile(nodesPath, []byte("id,name\n420,Adam\n421,Seth\n"), 0o644))
	require.NoError(t, os.WriteFile(edgesPath, []byte("sourceId,targetId\n420,421\n"), 0o644))

	ds, err := LoadFiles(nodesPath, edgesPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"421"}, ds.Children.Children("420"))

	_, err = LoadFiles(filepath.Join(dir, "missing.csv"), edgesPath)
	require.Error(t, err)
	assert.True(t, fterrors.Is(err, fterrors.ErrCodeFileNotFound))
}
