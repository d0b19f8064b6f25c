// Package analysis orchestrates the dependency-analysis pipeline:
// package deduplication, graph construction, centrality scoring, and
// top-dependency ranking over a fully-materialized input document.
//
// The pipeline is pure. It never touches the filesystem or the
// network; callers feed it a Document and receive a Result. That
// keeps the same code path usable from the CLI, the HTTP API, and
// tests without fixtures on disk.
package analysis

import (
	"io"
	"sort"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/drips-network/gardener-sub000/pkg/centrality"
	"github.com/drips-network/gardener-sub000/pkg/depgraph"
	"github.com/drips-network/gardener-sub000/pkg/errors"
	"github.com/drips-network/gardener-sub000/pkg/pkgs"
	"github.com/drips-network/gardener-sub000/pkg/resolve"
)

// Analyzer runs the analysis pipeline. An Analyzer is single-use:
// create one per run. The phased methods (BuildGraph,
// CalculateImportance, TopDependencies) expose the intermediate
// stages; Run drives all of them and assembles the Result.
type Analyzer struct {
	cfg Config
	log *charmlog.Logger

	doc      *Document
	files    *resolve.FileSet
	registry *pkgs.Registry
	builder  *depgraph.Builder
	graph    *depgraph.Graph
	scores   map[string]float64
}

// New creates an analyzer. Zero-valued config fields are filled with
// defaults; a nil logger discards output.
func New(cfg Config, logger *charmlog.Logger) *Analyzer {
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	return &Analyzer{cfg: cfg.WithDefaults(), log: logger}
}

// Graph returns the graph built by BuildGraph, or nil.
func (a *Analyzer) Graph() *depgraph.Graph { return a.graph }

// Registry returns the deduplicated package registry, or nil before
// BuildGraph.
func (a *Analyzer) Registry() *pkgs.Registry { return a.registry }

// BuildGraph merges the document's manifests into a package registry,
// resolves version conflicts, and constructs the dependency graph.
func (a *Analyzer) BuildGraph(doc *Document) (*depgraph.Graph, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil input document")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	a.doc = doc
	a.files = doc.FileSet()

	a.registry = pkgs.Deduplicate(doc.ManifestPackages())
	pkgs.ResolveConflicts(a.registry, a.log)
	a.log.Info("packages discovered", "count", a.registry.Len())

	a.log.Info("building dependency graph")
	a.builder = depgraph.NewBuilder(a.cfg.Weights, a.log)
	a.graph = a.builder.Build(depgraph.Inputs{
		Files:          a.files,
		Packages:       a.registry,
		FileImports:    doc.FileImports,
		FileComponents: doc.FileComponents,
		LocalImports:   doc.LocalImports,
	})
	return a.graph, nil
}

// CalculateImportance scores every graph node with the configured
// centrality metric and writes the scores back onto the nodes, under
// both the metric name and the generic "importance" key. An empty
// graph yields an empty score map. Metric failures degrade inside the
// calculator; this method only fails on the build-order precondition.
func (a *Analyzer) CalculateImportance() (map[string]float64, error) {
	if a.graph == nil {
		return nil, errors.New(errors.ErrCodeGraphNotBuilt, "importance calculation requires a built graph")
	}

	a.scores = map[string]float64{}
	if a.graph.NumNodes() > 0 {
		a.log.Info("calculating importance scores", "metric", a.cfg.Metric)
		calc := centrality.NewCalculator(a.cfg.Metric, a.log)
		calc.PageRankAlpha = a.cfg.PageRankAlpha
		calc.KatzAlpha = a.cfg.KatzAlpha
		a.scores = calc.Calculate(a.graph)
	}

	metric := string(a.cfg.Metric)
	for node, score := range a.scores {
		a.graph.SetScore(node, metric, score)
		a.graph.SetScore(node, "importance", score)
	}
	return a.scores, nil
}

// TopDependency is one row of the ranked dependency report. The
// percentage is the distribution's share of the total accumulated
// score across all ranked dependencies.
type TopDependency struct {
	PackageName string  `json:"package_name"`
	Percentage  float64 `json:"percentage"`
	PackageURL  string  `json:"package_url"`
	Ecosystem   string  `json:"ecosystem"`
}

// TopDependencies ranks external distributions by accumulated
// importance, excluding the repository's own package identities, and
// normalizes scores into percentages.
func (a *Analyzer) TopDependencies() ([]TopDependency, error) {
	if a.graph == nil {
		return nil, errors.New(errors.ErrCodeGraphNotBuilt, "top dependencies require a built graph")
	}
	if a.scores == nil {
		return nil, errors.New(errors.ErrCodeGraphNotBuilt, "top dependencies require importance scores")
	}

	ranked := a.graph.TopDependencies(a.scores, a.selfPackageNames())

	var total float64
	for _, r := range ranked {
		total += r.Score
	}

	out := make([]TopDependency, 0, len(ranked))
	for _, r := range ranked {
		dep := TopDependency{PackageName: r.Package, Ecosystem: "unknown"}
		if total > 0 {
			dep.Percentage = r.Score / total * 100
		}
		if p, ok := a.registry.Get(r.Package); ok {
			dep.PackageURL = p.RepositoryURL
			if p.Ecosystem != "" {
				dep.Ecosystem = string(p.Ecosystem)
			}
		}
		out = append(out, dep)
	}
	return out, nil
}

// selfPackageNames collects the distribution names the repository
// publishes plus their import identifiers, so a repo never ranks
// itself among its dependencies.
func (a *Analyzer) selfPackageNames() map[string]struct{} {
	names := make(map[string]struct{}, len(a.doc.RootPackages))
	for _, dist := range a.doc.RootPackages {
		names[dist] = struct{}{}
		if p, ok := a.registry.Get(dist); ok {
			for _, imp := range p.ImportNames {
				names[imp] = struct{}{}
			}
		}
	}
	return names
}

// Details carries run metadata alongside the graph data.
type Details struct {
	TotalFiles        int      `json:"total_files"`
	TotalPackages     int      `json:"total_packages"`
	GraphNodes        int      `json:"graph_nodes"`
	GraphEdges        int      `json:"graph_edges"`
	LanguagesDetected []string `json:"languages_detected"`
}

// Result is the complete outcome of an analysis run.
type Result struct {
	RunID       string    `json:"run_id"`
	Repository  string    `json:"repository,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Metric      string    `json:"metric"`

	ExternalPackages map[string]*pkgs.Package `json:"external_packages"`
	DependencyGraph  *depgraph.NodeLinkData   `json:"dependency_graph"`
	TopDependencies  []TopDependency          `json:"top_dependencies"`
	VersionConflicts []pkgs.ConflictEntry     `json:"version_conflicts,omitempty"`
	Details          Details                  `json:"analyzer_details"`
}

// Run executes the full pipeline on a document and assembles the
// result: build, score, rank, serialize.
func (a *Analyzer) Run(doc *Document) (*Result, error) {
	if _, err := a.BuildGraph(doc); err != nil {
		return nil, err
	}
	if _, err := a.CalculateImportance(); err != nil {
		return nil, err
	}
	topDeps, err := a.TopDependencies()
	if err != nil {
		return nil, err
	}

	packages := make(map[string]*pkgs.Package, a.registry.Len())
	for _, name := range a.registry.Names() {
		p, _ := a.registry.Get(name)
		packages[name] = p
	}

	return &Result{
		RunID:            uuid.NewString(),
		Repository:       doc.Repository,
		GeneratedAt:      time.Now().UTC(),
		Metric:           string(a.cfg.Metric),
		ExternalPackages: packages,
		DependencyGraph:  a.graph.NodeLink(a.cfg.SortKeys),
		TopDependencies:  topDeps,
		VersionConflicts: pkgs.ConflictSummary(a.registry),
		Details: Details{
			TotalFiles:        a.files.Len(),
			TotalPackages:     a.registry.Len(),
			GraphNodes:        a.graph.NumNodes(),
			GraphEdges:        a.graph.NumEdges(),
			LanguagesDetected: a.languagesDetected(),
		},
	}, nil
}

func (a *Analyzer) languagesDetected() []string {
	seen := make(map[string]struct{})
	for _, path := range a.files.Paths() {
		f, _ := a.files.Get(path)
		seen[f.Lang.String()] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Analyze is the convenience entry point: one call, defaults applied,
// optional overrides scoped to this run.
func Analyze(doc *Document, cfg Config, overrides map[string]string, logger *charmlog.Logger) (*Result, error) {
	cfg = cfg.WithDefaults()
	if len(overrides) > 0 {
		restore, err := Override(&cfg, overrides, logger)
		if err != nil {
			return nil, err
		}
		defer restore()
	}
	return New(cfg, logger).Run(doc)
}
