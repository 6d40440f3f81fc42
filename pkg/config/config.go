// Package config loads famtree configuration.
//
// Values are layered with github.com/knadh/koanf: built-in defaults, then a
// config file (TOML or YAML), then FAMTREE_* environment variables, then
// command-line flags that were explicitly set. Later layers win.
//
// Environment variables map to keys by dropping the prefix and lowercasing;
// a double underscore separates nested keys:
//
//	FAMTREE_MASTER_ROOT=420      -> master_root
//	FAMTREE_CACHE__BACKEND=redis -> cache.backend
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	fterrors "github.com/matzehuels/famtree/pkg/errors"
)

// AppName names the config file, env prefix and cache directory.
const AppName = "famtree"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Default input and output paths, relative to the working directory.
const (
	DefaultNodes    = "data/bible-tree-data/raw-latest/nodes.csv"
	DefaultEdges    = "data/bible-tree-data/raw-latest/edges.csv"
	DefaultClusters = "data/bible-tree-data/clusters-latest/index.json"
	DefaultBlurbs   = "data/bible-tree-data/genealogy_cluster_blurbs.json"
	DefaultOutput   = "src/assets/data/bible-tree.json"
)

// DefaultMasterRoot is the id of Adam in the source export.
const DefaultMasterRoot = "420"

// Config is the resolved configuration.
type Config struct {
	Nodes    string `koanf:"nodes"`
	Edges    string `koanf:"edges"`
	Clusters string `koanf:"clusters"`
	Blurbs   string `koanf:"blurbs"`
	Output   string `koanf:"output"`

	MasterRoot   string `koanf:"master_root"`
	MasterTitle  string `koanf:"master_title"`
	DatasetLabel string `koanf:"dataset_label"`

	// Workers bounds concurrent cluster assembly; 0 means GOMAXPROCS.
	Workers int `koanf:"workers"`

	Cache   CacheConfig   `koanf:"cache"`
	Publish PublishConfig `koanf:"publish"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend   string        `koanf:"backend"`
	Dir       string        `koanf:"dir"`
	RedisAddr string        `koanf:"redis_addr"`
	TTL       time.Duration `koanf:"ttl"`
	Namespace string        `koanf:"namespace"`
}

// PublishConfig locates the MongoDB collection that receives documents.
type PublishConfig struct {
	MongoURI   string `koanf:"mongo_uri"`
	Database   string `koanf:"database"`
	Collection string `koanf:"collection"`
}

// Defaults returns the built-in configuration as a flat koanf map.
func Defaults() map[string]any {
	return map[string]any{
		"nodes":              DefaultNodes,
		"edges":              DefaultEdges,
		"clusters":           DefaultClusters,
		"blurbs":             DefaultBlurbs,
		"output":             DefaultOutput,
		"master_root":        DefaultMasterRoot,
		"master_title":       "Whole Bible Genealogy",
		"dataset_label":      "raw-latest",
		"workers":            0,
		"cache.backend":      CacheFile,
		"cache.dir":          DefaultCacheDir(),
		"cache.redis_addr":   "localhost:6379",
		"cache.ttl":          "24h",
		"cache.namespace":    "",
		"publish.mongo_uri":  "mongodb://localhost:27017",
		"publish.database":   AppName,
		"publish.collection": "documents",
	}
}

// DefaultCacheDir returns $XDG_CACHE_HOME/famtree, or ~/.cache/famtree.
// It falls back to a directory under os.TempDir when no home is known.
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".cache", AppName)
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	for _, p := range []struct{ name, path string }{
		{"nodes", c.Nodes},
		{"edges", c.Edges},
		{"clusters", c.Clusters},
		{"output", c.Output},
	} {
		if err := fterrors.ValidatePath(p.path); err != nil {
			return fterrors.Wrap(fterrors.ErrCodeInvalidConfig, err, "%s", p.name)
		}
	}
	if c.Blurbs != "" {
		if err := fterrors.ValidatePath(c.Blurbs); err != nil {
			return fterrors.Wrap(fterrors.ErrCodeInvalidConfig, err, "blurbs")
		}
	}
	if err := fterrors.ValidateRootID(c.MasterRoot); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fterrors.New(fterrors.ErrCodeInvalidConfig, "workers must not be negative: %d", c.Workers)
	}
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheNone}, c.Cache.Backend) {
		return fterrors.New(fterrors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheFile && c.Cache.Dir == "" {
		return fterrors.New(fterrors.ErrCodeInvalidConfig, "cache.dir is required for the file cache")
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return fterrors.New(fterrors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis cache")
	}
	if c.Cache.TTL < 0 {
		return fterrors.New(fterrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}
