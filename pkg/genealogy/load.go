package genealogy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	fterrors "github.com/matzehuels/famtree/pkg/errors"
)

// Edge table column names.
const (
	ColSourceID = "sourceId"
	ColTargetID = "targetId"
)

// ErrMissingColumn is returned when a table header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// LoadStats counts what the loader kept and what it filtered.
type LoadStats struct {
	RowsRead         int // node rows in the table
	RowsFiltered     int // node rows dropped for a non-numeric id
	Persons          int // distinct persons kept
	RelationsRead    int // edge rows in the table
	Relations        int // edges kept in the adjacency index
	RelationsDropped int // edges dropped because an endpoint was filtered
}

// Read parses the node and edge tables into a Dataset.
//
// Both readers must contain CSV with a header row. The node table needs an
// "id" column and the edge table needs "sourceId" and "targetId"; all other
// columns are optional. An empty reader is an empty table.
//
// Rows with a non-numeric id are dropped, as are edges with a dropped or
// unknown endpoint. When an id repeats, the last row wins.
func Read(nodes, edges io.Reader) (*Dataset, error) {
	ds := &Dataset{
		Persons:  make(Persons),
		Children: make(Adjacency),
	}

	err := readTable(nodes, []string{ColID}, func(row record) {
		ds.Stats.RowsRead++
		id := row.get(ColID)
		if !IsPersonID(id) {
			ds.Stats.RowsFiltered++
			return
		}
		ds.Persons[id] = newPerson(row)
	})
	if err != nil {
		return nil, fmt.Errorf("nodes: %w", err)
	}
	ds.Stats.Persons = len(ds.Persons)

	err = readTable(edges, []string{ColSourceID, ColTargetID}, func(row record) {
		ds.Stats.RelationsRead++
		src, dst := row.get(ColSourceID), row.get(ColTargetID)
		if !ds.Persons.Has(src) || !ds.Persons.Has(dst) {
			ds.Stats.RelationsDropped++
			return
		}
		ds.Children[src] = append(ds.Children[src], dst)
		ds.Stats.Relations++
	})
	if err != nil {
		return nil, fmt.Errorf("edges: %w", err)
	}

	return ds, nil
}

// LoadFiles opens the node and edge CSV files and parses them with [Read].
// A missing file is reported with code FILE_NOT_FOUND.
func LoadFiles(nodesPath, edgesPath string) (*Dataset, error) {
	nf, err := openTable(nodesPath)
	if err != nil {
		return nil, err
	}
	defer nf.Close()

	ef, err := openTable(edgesPath)
	if err != nil {
		return nil, err
	}
	defer ef.Close()

	return Read(nf, ef)
}

func openTable(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fterrors.Wrap(fterrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// record is one CSV row addressed by header name.
type record struct {
	columns map[string]int
	cells   []string
}

// get returns the named cell, or "" when the column is absent or the row is
// shorter than the header.
func (r record) get(col string) string {
	i, ok := r.columns[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

const utf8BOM = "\ufeff"

// readTable streams the rows of a headed CSV table to fn.
func readTable(r io.Reader, required []string, fn func(record)) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fterrors.Wrap(fterrors.ErrCodeInvalidFormat, err, "read header")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	for {
		cells, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fterrors.Wrap(fterrors.ErrCodeInvalidFormat, err, "read row")
		}
		fn(record{columns: columns, cells: cells})
	}
}
