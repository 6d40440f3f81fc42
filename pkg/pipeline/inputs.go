package pipeline

import (
	"errors"
	"fmt"
	"os"

	"github.com/matzehuels/famtree/pkg/cache"
	"github.com/matzehuels/famtree/pkg/cluster"
	fterrors "github.com/matzehuels/famtree/pkg/errors"
)

// Inputs holds the raw bytes of every input file.
type Inputs struct {
	Nodes    []byte
	Edges    []byte
	Clusters []byte
	Blurbs   []byte

	ClustersYAML bool
	BlurbsYAML   bool
}

// ReadInputs reads the input files named by opts. A missing blurbs file
// yields empty blurbs; any other missing file is FILE_NOT_FOUND.
func ReadInputs(opts Options) (*Inputs, error) {
	in := &Inputs{
		ClustersYAML: cluster.IsYAML(opts.ClustersPath),
		BlurbsYAML:   cluster.IsYAML(opts.BlurbsPath),
	}

	var err error
	if in.Nodes, err = readInput(opts.NodesPath); err != nil {
		return nil, err
	}
	if in.Edges, err = readInput(opts.EdgesPath); err != nil {
		return nil, err
	}
	if in.Clusters, err = readInput(opts.ClustersPath); err != nil {
		return nil, err
	}
	if opts.BlurbsPath != "" {
		in.Blurbs, err = readInput(opts.BlurbsPath)
		if fterrors.Is(err, fterrors.ErrCodeFileNotFound) {
			in.Blurbs, err = nil, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return in, nil
}

// Hash returns the content hash of all inputs, including their formats.
func (in *Inputs) Hash() string {
	formats := []byte{0, 0}
	if in.ClustersYAML {
		formats[0] = 1
	}
	if in.BlurbsYAML {
		formats[1] = 1
	}
	return cache.HashParts(in.Nodes, in.Edges, in.Clusters, in.Blurbs, formats)
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fterrors.Wrap(fterrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
