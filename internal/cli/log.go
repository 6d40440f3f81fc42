// Package cli implements the famtree command-line interface.
//
// The CLI compiles genealogy tables into a JSON document and provides tools
// to inspect, render, query and publish the result. It is built with cobra
// and logs through charmbracelet/log.
//
// # Commands
//
//   - compile: Run the pipeline and write the document
//   - inspect: Print dataset statistics for the input tables
//   - clusters: List the clusters of a compiled document
//   - render: Draw the master tree or one cluster with Graphviz
//   - query: Select values from the document with JSONPath
//   - publish: Upsert the document into MongoDB
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// registers observability hooks that log every pipeline, cache and publish
// event.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Compiled document (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Hooks
// =============================================================================

// logHooks logs observability events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLoadStart(_ context.Context, nodesPath, edgesPath string) {
	h.logger.Debug("load start", "nodes", nodesPath, "edges", edgesPath)
}

func (h *logHooks) OnLoadComplete(_ context.Context, persons, relations int, d time.Duration, err error) {
	h.logger.Debug("load done", "persons", persons, "relations", relations, "duration", d, "error", err)
}

func (h *logHooks) OnCompileStart(_ context.Context, rootID string) {
	h.logger.Debug("compile start", "root", rootID)
}

func (h *logHooks) OnCompileComplete(_ context.Context, rootID string, nodes int, d time.Duration, err error) {
	h.logger.Debug("compile done", "root", rootID, "nodes", nodes, "duration", d, "error", err)
}

func (h *logHooks) OnAssembleStart(_ context.Context, clusters int) {
	h.logger.Debug("assemble start", "clusters", clusters)
}

func (h *logHooks) OnAssembleComplete(_ context.Context, clusters, skipped int, d time.Duration, err error) {
	h.logger.Debug("assemble done", "clusters", clusters, "skipped", skipped, "duration", d, "error", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnPublish(_ context.Context, collection string, size int, d time.Duration, err error) {
	h.logger.Debug("publish", "collection", collection, "bytes", size, "duration", d, "error", err)
}
