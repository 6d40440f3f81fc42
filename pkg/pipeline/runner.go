package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/famtree/pkg/cache"
	"github.com/matzehuels/famtree/pkg/cluster"
	"github.com/matzehuels/famtree/pkg/document"
	"github.com/matzehuels/famtree/pkg/genealogy"
	"github.com/matzehuels/famtree/pkg/observability"
	"github.com/matzehuels/famtree/pkg/tree"
)

// cacheKeyType labels document entries in cache hooks.
const cacheKeyType = "document"

// cacheEntry is the stored form of a result. It carries the counts a hit
// cannot recover from the document itself.
type cacheEntry struct {
	Load         genealogy.LoadStats `json:"load"`
	SkippedRoots int                 `json:"skippedRoots"`
	Data         []byte              `json:"data"`
}

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute reads the inputs and returns the compiled document, from the cache
// when the inputs and options are unchanged.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	in, err := ReadInputs(opts)
	if err != nil {
		return nil, err
	}
	hash := in.Hash()
	key := r.Keyer.DocumentKey(hash, opts.KeyOpts())

	if !opts.Refresh {
		if res := r.lookup(ctx, key); res != nil {
			res.InputsHash = hash
			return res, nil
		}
	}

	res, err := Build(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	res.InputsHash = hash
	r.store(ctx, key, res, opts.CacheTTL)
	return res, nil
}

// store writes res to the cache. Failures are logged, never returned.
func (r *Runner) store(ctx context.Context, key string, res *Result, ttl time.Duration) {
	entry, err := json.Marshal(cacheEntry{
		Load:         res.Stats.Load,
		SkippedRoots: res.Stats.SkippedRoots,
		Data:         res.Data,
	})
	if err != nil {
		r.Logger.Warn("cache encode failed", "error", err)
		return
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, entry, ttl)
	})
	if err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(entry))
}

// lookup returns a cached result, or nil on a miss or unusable entry.
func (r *Runner) lookup(ctx context.Context, key string) *Result {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return nil
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		r.Logger.Debug("cache miss", "key", key)
		return nil
	}

	var entry cacheEntry
	err = json.Unmarshal(data, &entry)
	var doc *document.Document
	if err == nil {
		doc, err = document.Unmarshal(entry.Data)
	}
	if err != nil {
		r.Logger.Warn("discarding unreadable cache entry", "key", key, "error", err)
		_ = r.Cache.Delete(ctx, key)
		return nil
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	r.Logger.Debug("cache hit", "key", key)

	res := &Result{Document: doc, Data: entry.Data, CacheHit: true}
	res.Stats.Load = entry.Load
	res.Stats.SkippedRoots = entry.SkippedRoots
	res.Stats.countTrees(doc)
	return res
}

// Build runs load, compile, assemble and serialize on already read inputs.
// It does not touch the cache.
func Build(ctx context.Context, in *Inputs, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	hooks := observability.Pipeline()
	res := &Result{}

	// Stage 1: Load
	hooks.OnLoadStart(ctx, opts.NodesPath, opts.EdgesPath)
	start := time.Now()
	ds, err := genealogy.Read(bytes.NewReader(in.Nodes), bytes.NewReader(in.Edges))
	if err == nil {
		err = ds.Require(opts.MasterRoot)
	}
	res.Stats.LoadTime = time.Since(start)
	if err != nil {
		hooks.OnLoadComplete(ctx, 0, 0, res.Stats.LoadTime, err)
		return nil, fmt.Errorf("load: %w", err)
	}
	res.Stats.Load = ds.Stats
	hooks.OnLoadComplete(ctx, ds.Stats.Persons, ds.Stats.Relations, res.Stats.LoadTime, nil)

	logger.Info("loaded dataset",
		"persons", ds.Stats.Persons,
		"filtered", ds.Stats.RowsFiltered,
		"relations", ds.Stats.Relations,
		"dropped", ds.Stats.RelationsDropped,
		"duration", res.Stats.LoadTime)

	// Stage 2: Compile the master tree
	hooks.OnCompileStart(ctx, opts.MasterRoot)
	start = time.Now()
	master, err := tree.Compile(opts.MasterRoot, ds.Persons, ds.Children)
	res.Stats.CompileTime = time.Since(start)
	if err != nil {
		hooks.OnCompileComplete(ctx, opts.MasterRoot, 0, res.Stats.CompileTime, err)
		return nil, fmt.Errorf("compile: %w", err)
	}
	hooks.OnCompileComplete(ctx, opts.MasterRoot, master.Count(), res.Stats.CompileTime, nil)

	logger.Info("compiled master tree",
		"root", opts.MasterRoot,
		"nodes", master.Count(),
		"depth", master.Depth(),
		"duration", res.Stats.CompileTime)

	// Stage 3: Assemble clusters
	var specs []cluster.Spec
	if err := cluster.Decode(in.Clusters, in.ClustersYAML, &specs); err != nil {
		return nil, fmt.Errorf("clusters %s: %w", opts.ClustersPath, err)
	}
	blurbs := cluster.Blurbs{}
	if len(in.Blurbs) > 0 {
		if err := cluster.Decode(in.Blurbs, in.BlurbsYAML, &blurbs); err != nil {
			return nil, fmt.Errorf("blurbs %s: %w", opts.BlurbsPath, err)
		}
	}

	hooks.OnAssembleStart(ctx, len(specs))
	start = time.Now()
	sections, err := cluster.AssembleAll(ctx, specs, blurbs, ds.Persons, ds.Children, opts.Workers)
	res.Stats.AssembleTime = time.Since(start)
	if err != nil {
		hooks.OnAssembleComplete(ctx, len(specs), 0, res.Stats.AssembleTime, err)
		return nil, fmt.Errorf("assemble: %w", err)
	}
	for _, s := range sections {
		for _, id := range s.Skipped {
			logger.Warn("cluster root not found, skipping", "cluster", s.Slug, "root", id)
			res.Stats.SkippedRoots++
		}
	}
	hooks.OnAssembleComplete(ctx, len(specs), res.Stats.SkippedRoots, res.Stats.AssembleTime, nil)

	logger.Info("assembled clusters",
		"clusters", len(sections),
		"skipped_roots", res.Stats.SkippedRoots,
		"duration", res.Stats.AssembleTime)

	// Stage 4: Serialize
	res.Document = document.New(opts.Label, opts.MasterTitle, master, sections)
	if res.Data, err = res.Document.Marshal(); err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}
	res.Stats.countTrees(res.Document)
	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
