package cluster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	fterrors "github.com/matzehuels/famtree/pkg/errors"
)

// Spec is one entry of the cluster index.
type Spec struct {
	Slug  string  `json:"slug" yaml:"slug"`
	Title string  `json:"title,omitempty" yaml:"title,omitempty"`
	Roots RootIDs `json:"roots" yaml:"roots"`
}

// RootIDs is an ordered list of root person ids. Entries may be encoded as
// strings or as numbers; both decode to the decimal string form.
type RootIDs []string

// UnmarshalJSON accepts a JSON array of strings and numbers.
func (r *RootIDs) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	ids := make(RootIDs, 0, len(raw))
	for i, v := range raw {
		switch v := v.(type) {
		case string:
			ids = append(ids, strings.TrimSpace(v))
		case json.Number:
			ids = append(ids, v.String())
		default:
			return fmt.Errorf("roots[%d]: want string or number, got %T", i, v)
		}
	}
	*r = ids
	return nil
}

// UnmarshalYAML accepts a YAML sequence of scalars.
func (r *RootIDs) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: roots must be a sequence", n.Line)
	}
	ids := make(RootIDs, 0, len(n.Content))
	for _, item := range n.Content {
		if item.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: root id must be a scalar", item.Line)
		}
		ids = append(ids, strings.TrimSpace(item.Value))
	}
	*r = ids
	return nil
}

// Blurb is the descriptive metadata for one cluster.
type Blurb struct {
	Title     string   `json:"title,omitempty" yaml:"title,omitempty"`
	Tooltip   string   `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	Blurb     string   `json:"blurb,omitempty" yaml:"blurb,omitempty"`
	Scripture []string `json:"scripture,omitempty" yaml:"scripture,omitempty"`
}

// Blurbs maps cluster slugs to their metadata.
type Blurbs map[string]Blurb

// Lookup returns the blurb for slug, or the zero Blurb.
func (b Blurbs) Lookup(slug string) Blurb {
	return b[slug]
}

// LoadIndex reads the cluster index at path.
func LoadIndex(path string) ([]Spec, error) {
	var specs []Spec
	if err := decodeFile(path, &specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// LoadBlurbs reads the blurb table at path. A missing file yields an empty
// table.
func LoadBlurbs(path string) (Blurbs, error) {
	blurbs := make(Blurbs)
	err := decodeFile(path, &blurbs)
	if fterrors.Is(err, fterrors.ErrCodeFileNotFound) {
		return Blurbs{}, nil
	}
	if err != nil {
		return nil, err
	}
	return blurbs, nil
}

// Decode parses an index or blurb document held in memory. The format is
// YAML when isYAML is set and JSON otherwise.
func Decode(data []byte, isYAML bool, v any) error {
	var err error
	if isYAML {
		err = yaml.Unmarshal(data, v)
	} else {
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fterrors.Wrap(fterrors.ErrCodeInvalidFormat, err, "decode")
	}
	return nil
}

// IsYAML reports whether path names a YAML file.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fterrors.Wrap(fterrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := Decode(data, IsYAML(path), v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
