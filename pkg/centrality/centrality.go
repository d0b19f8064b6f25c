// Package centrality computes importance scores over dependency
// graphs. The PageRank and Katz implementations follow the standard
// power-iteration formulations so scores line up with common graph
// tooling.
package centrality

import (
	"io"

	charmlog "github.com/charmbracelet/log"

	"github.com/drips-network/gardener-sub000/pkg/errors"
)

// WeightedEdge is one directed edge in the graph view.
type WeightedEdge struct {
	Source string
	Target string
	Weight float64
}

// Graph is the minimal view the calculators need.
type Graph interface {
	NodeIDs() []string
	WeightedEdges() []WeightedEdge
}

// Metric names the supported centrality metrics.
type Metric string

const (
	MetricPageRank Metric = "pagerank"
	MetricKatz     Metric = "katz"
)

// Valid reports whether the metric is one of the supported values.
func (m Metric) Valid() bool {
	return m == MetricPageRank || m == MetricKatz
}

const (
	defaultMaxIter = 1000
	defaultTol     = 1e-6
)

// Calculator runs the configured centrality metric with a built-in
// fallback chain. It never returns an error: any failure degrades to
// unweighted PageRank and, past that, to an empty score map.
type Calculator struct {
	// Metric selects the primary algorithm.
	Metric Metric
	// PageRankAlpha is the damping factor for PageRank.
	PageRankAlpha float64
	// KatzAlpha is the attenuation factor for Katz centrality.
	KatzAlpha float64

	Logger *charmlog.Logger
}

// NewCalculator returns a calculator with the standard parameters.
func NewCalculator(metric Metric, logger *charmlog.Logger) *Calculator {
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	return &Calculator{
		Metric:        metric,
		PageRankAlpha: 0.85,
		KatzAlpha:     0.15,
		Logger:        logger,
	}
}

// Calculate returns importance scores for every node. An empty or nil
// graph yields an empty map. When the configured metric fails (bad
// metric name aside), the calculator retries with unweighted PageRank
// before giving up and returning an empty map.
func (c *Calculator) Calculate(g Graph) map[string]float64 {
	if g == nil || len(g.NodeIDs()) == 0 {
		c.Logger.Warn("graph is empty, skipping importance calculation")
		return map[string]float64{}
	}

	var scores map[string]float64
	var err error
	switch c.Metric {
	case MetricKatz:
		scores, err = c.katzWithRetry(g)
	case MetricPageRank:
		scores, err = PageRank(g, c.PageRankAlpha, true)
	default:
		c.Logger.Error("invalid centrality metric", "metric", string(c.Metric))
		return map[string]float64{}
	}

	if err != nil {
		c.Logger.Warn("centrality calculation failed, falling back to unweighted pagerank",
			"metric", string(c.Metric), "err", err)
		scores, err = PageRank(g, c.PageRankAlpha, false)
		if err != nil {
			c.Logger.Error("fallback pagerank failed", "err", err)
			return map[string]float64{}
		}
	}
	return scores
}

// katzWithRetry runs weighted Katz, retrying without weights when the
// power iteration fails to converge. The retry stays within Katz;
// escalation to PageRank happens in Calculate.
func (c *Calculator) katzWithRetry(g Graph) (map[string]float64, error) {
	scores, err := Katz(g, c.KatzAlpha, true)
	if err == nil {
		return scores, nil
	}
	c.Logger.Warn("katz centrality failed to converge, retrying without weights",
		"alpha", c.KatzAlpha)
	return Katz(g, c.KatzAlpha, false)
}

func convergenceError(iterations int) error {
	return errors.New(errors.ErrCodeInternal,
		"power iteration failed to converge within %d iterations", iterations)
}
