package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/famtree/pkg/cluster"
	fterrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/tree"
)

// Defaults for the document envelope.
const (
	DefaultLabel       = "raw-latest"
	DefaultMasterTitle = "Whole Bible Genealogy"
	MasterSlug         = "master"
)

// Document is the compiled artifact.
type Document struct {
	GeneratedAt string            `json:"generatedAt"`
	Master      Master            `json:"master"`
	Clusters    []cluster.Section `json:"clusters"`
}

// Master is the section holding the master tree.
type Master struct {
	Type  string     `json:"type"`
	Slug  string     `json:"slug"`
	Title string     `json:"title"`
	Tree  *tree.Node `json:"tree"`
}

// New assembles a document. An empty label or title takes its default.
func New(label, title string, master *tree.Node, clusters []cluster.Section) *Document {
	if label == "" {
		label = DefaultLabel
	}
	if title == "" {
		title = DefaultMasterTitle
	}
	if clusters == nil {
		clusters = []cluster.Section{}
	}
	return &Document{
		GeneratedAt: label,
		Master: Master{
			Type:  MasterSlug,
			Slug:  MasterSlug,
			Title: title,
			Tree:  master,
		},
		Clusters: clusters,
	}
}

// Cluster returns the section with the given slug.
func (d *Document) Cluster(slug string) (*cluster.Section, bool) {
	for i := range d.Clusters {
		if d.Clusters[i].Slug == slug {
			return &d.Clusters[i], true
		}
	}
	return nil, false
}

// Tree returns the tree for slug: the master tree for "master" or an empty
// slug, otherwise the synthetic root of the named cluster.
func (d *Document) Tree(slug string) (*tree.Node, error) {
	if slug == "" || slug == MasterSlug {
		if d.Master.Tree == nil {
			return nil, fterrors.New(fterrors.ErrCodeNotFound, "document has no master tree")
		}
		return d.Master.Tree, nil
	}
	s, ok := d.Cluster(slug)
	if !ok || s.Tree == nil {
		return nil, fterrors.New(fterrors.ErrCodeNotFound, "cluster %q not found", slug)
	}
	return s.Tree.Node(), nil
}

// Marshal returns the serialized document.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes the document to w.
func (d *Document) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes the document to path, creating parent directories.
func (d *Document) WriteFile(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	return WriteBytes(path, data)
}

// WriteBytes writes already serialized document bytes to path, creating
// parent directories.
func WriteBytes(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Read decodes a document from r. It does not close r.
func Read(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fterrors.Wrap(fterrors.ErrCodeInvalidFormat, err, "decode document")
	}
	return &d, nil
}

// Unmarshal decodes a document from data.
func Unmarshal(data []byte) (*Document, error) {
	return Read(bytes.NewReader(data))
}

// ReadFile reads the document at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fterrors.Wrap(fterrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
