// Package pipeline drives the famtree compile pipeline.
//
// The pipeline is a pure function of its input files:
//
//  1. Load: parse the node and edge tables into a dataset
//  2. Compile: materialize the master tree from the master root
//  3. Assemble: compile every cluster and wrap it in its section
//  4. Serialize: encode the document
//
// A [Runner] adds content-addressed caching on top. The cache key covers the
// bytes of every input file and the options that change the output, so a
// cache hit returns exactly the bytes a fresh run would produce.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    NodesPath:    "nodes.csv",
//	    EdgesPath:    "edges.csv",
//	    ClustersPath: "index.json",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("bible-tree.json", result.Data, 0o644)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/famtree/pkg/cache"
	"github.com/matzehuels/famtree/pkg/document"
	fterrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/genealogy"
)

// DefaultMasterRoot is the master root id used when Options.MasterRoot is
// empty.
const DefaultMasterRoot = "420"

// DefaultCacheTTL is how long compiled documents stay cached.
const DefaultCacheTTL = 24 * time.Hour

// Options configures one pipeline run.
type Options struct {
	NodesPath    string
	EdgesPath    string
	ClustersPath string
	// BlurbsPath is optional; a missing file means no blurbs.
	BlurbsPath string

	MasterRoot  string
	MasterTitle string
	Label       string

	// Workers bounds concurrent cluster assembly; 0 means GOMAXPROCS.
	Workers int

	// Refresh skips the cache lookup but still stores the result.
	Refresh  bool
	CacheTTL time.Duration

	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	for _, p := range []struct{ name, path string }{
		{"nodes", o.NodesPath},
		{"edges", o.EdgesPath},
		{"clusters", o.ClustersPath},
	} {
		if p.path == "" {
			return fterrors.New(fterrors.ErrCodeInvalidConfig, "%s path is required", p.name)
		}
	}
	if o.MasterRoot == "" {
		o.MasterRoot = DefaultMasterRoot
	}
	if err := fterrors.ValidateRootID(o.MasterRoot); err != nil {
		return err
	}
	if o.MasterTitle == "" {
		o.MasterTitle = document.DefaultMasterTitle
	}
	if o.Label == "" {
		o.Label = document.DefaultLabel
	}
	if o.Workers < 0 {
		o.Workers = 0
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// KeyOpts returns the cache key options for the run.
func (o *Options) KeyOpts() cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		MasterRoot:  o.MasterRoot,
		MasterTitle: o.MasterTitle,
		Label:       o.Label,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the compiled document.
	Document *document.Document

	// Data is the serialized document, byte-identical across runs with the
	// same inputs.
	Data []byte

	// InputsHash is the content hash of the input files.
	InputsHash string

	// Stats contains counts and timings.
	Stats Stats

	// CacheHit reports whether Data came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics. A cache hit reports the
// counts of the build that produced the entry; its timings are zero.
type Stats struct {
	Load genealogy.LoadStats

	Clusters     int
	SkippedRoots int
	MasterNodes  int
	ClusterNodes int

	LoadTime     time.Duration
	CompileTime  time.Duration
	AssembleTime time.Duration
}

// countTrees fills the document-derived fields of s.
func (s *Stats) countTrees(d *document.Document) {
	s.Clusters = len(d.Clusters)
	s.MasterNodes = 0
	if d.Master.Tree != nil {
		s.MasterNodes = d.Master.Tree.Count()
	}
	s.ClusterNodes = 0
	for _, c := range d.Clusters {
		if c.Tree != nil {
			s.ClusterNodes += c.Tree.Node().Count()
		}
	}
}
