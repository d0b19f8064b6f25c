// Package cache provides result caching for analysis runs.
//
// Analysis is deterministic over its input document, so cached
// artifacts are keyed by a hash of the document plus the parameters
// that shape the output. Backends cover the usual deployments: memory
// for tests and single-process runs, file for the CLI, redis for the
// API service, null to disable caching.
package cache

import (
	"context"
	"time"

	"github.com/drips-network/gardener-sub000/pkg/depgraph"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL. A zero TTL means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the artifacts an analysis run
// produces. Implementations must be deterministic.
type Keyer interface {
	// AnalysisKey keys a full analysis result by input-document hash
	// and the config that produced it.
	AnalysisKey(docHash string, opts AnalysisKeyOpts) string

	// GraphKey keys serialized node-link graph data.
	GraphKey(docHash string, opts AnalysisKeyOpts) string

	// RenderKey keys a rendered visualization of a graph.
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// AnalysisKeyOpts are the parameters that change analysis output for
// the same input document. Every field of the analysis configuration
// must appear here: a parameter left out would let runs with different
// settings collide on the same key.
type AnalysisKeyOpts struct {
	Metric        string           `json:"metric"`
	PageRankAlpha float64          `json:"pagerank_alpha"`
	KatzAlpha     float64          `json:"katz_alpha"`
	Weights       depgraph.Weights `json:"weights"`
	SortKeys      bool             `json:"sort_keys"`
}

// RenderKeyOpts are the parameters that change rendered output for
// the same graph.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Layout string `json:"layout"`
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// AnalysisKey generates a key for a full analysis result.
func (k *DefaultKeyer) AnalysisKey(docHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", docHash, opts)
}

// GraphKey generates a key for serialized graph data.
func (k *DefaultKeyer) GraphKey(docHash string, opts AnalysisKeyOpts) string {
	return hashKey("graph", docHash, opts)
}

// RenderKey generates a key for a rendered visualization.
func (k *DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, opts)
}
