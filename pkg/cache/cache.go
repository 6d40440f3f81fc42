// Package cache stores compiled documents keyed by the content of their
// inputs.
//
// A compile run hashes the node, edge, cluster and blurb files together with
// the options that affect output. When nothing changed the cached document is
// returned as-is and the load, compile and assemble stages are skipped.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, the CLI default
//   - [RedisCache]: shared cache for CI runners and teams
//   - [NullCache]: disables caching
//
// # Keys
//
// Keys come from a [Keyer] so that deployments can isolate namespaces with
// [NewScopedKeyer] without changing the pipeline.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by the cache and returns how many
	// were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// DocumentKey returns the key of a compiled document.
	DocumentKey(inputsHash string, opts DocumentKeyOpts) string
}

// DocumentKeyOpts are the compile options that change the output bytes.
type DocumentKeyOpts struct {
	MasterRoot  string `json:"master_root"`
	MasterTitle string `json:"master_title"`
	Label       string `json:"label"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey returns "document:<hash>" where the hash covers the inputs hash
// and every option.
func (DefaultKeyer) DocumentKey(inputsHash string, opts DocumentKeyOpts) string {
	return hashKey("document", inputsHash, opts)
}
