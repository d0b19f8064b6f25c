package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/drips-network/gardener-sub000/pkg/analysis"
	"github.com/drips-network/gardener-sub000/pkg/cache"
	"github.com/drips-network/gardener-sub000/pkg/persistence"
)

// cacheTTL bounds how long locally cached analysis results are reused.
const cacheTTL = 24 * time.Hour

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	output     string   // output directory for result and graph files
	configPath string   // optional TOML configuration file
	overrides  []string // KEY=VALUE configuration overrides
	name       string   // identifier used for output file names
	top        int      // number of top dependencies to print
	noCache    bool     // bypass the local result cache
	noGraph    bool     // skip writing the standalone graph file
}

// newAnalyzeCmd creates the analyze command. It runs the full pipeline on
// a dependency document: package registry deduplication, graph
// construction, centrality scoring, and top-dependency ranking.
func newAnalyzeCmd() *cobra.Command {
	opts := analyzeOpts{output: ".", top: 10}

	cmd := &cobra.Command{
		Use:   "analyze [document]",
		Short: "Analyze a dependency document and rank external packages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML configuration file")
	cmd.Flags().StringArrayVar(&opts.overrides, "override", nil, "configuration override KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&opts.name, "name", "", "identifier for output files (default: input file name)")
	cmd.Flags().IntVar(&opts.top, "top", opts.top, "number of top dependencies to print")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the local result cache")
	cmd.Flags().BoolVar(&opts.noGraph, "no-graph", false, "skip writing the standalone graph file")

	return cmd
}

func runAnalyze(ctx context.Context, input string, opts *analyzeOpts) error {
	logger := loggerFromContext(ctx)

	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	doc, err := analysis.ParseDocument(raw)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded document: %d files, %d manifests", len(doc.Files), len(doc.Manifests))

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	overrides, err := analysis.ParseOverrides(opts.overrides)
	if err != nil {
		return err
	}

	res, cached, err := analyzeWithCache(ctx, raw, doc, cfg, overrides, opts.noCache, logger)
	if err != nil {
		return err
	}

	printInfo("Analyzed %s", displayName(doc, input))
	printStats(res.Details.GraphNodes, res.Details.GraphEdges, cached)
	if len(res.Details.LanguagesDetected) > 0 {
		printDetail("Languages: %s", strings.Join(res.Details.LanguagesDetected, ", "))
	}
	printTopDependencies(res.TopDependencies, opts.top)
	for _, conflict := range res.VersionConflicts {
		losing := make([]string, 0, len(conflict.Conflicts))
		for _, c := range conflict.Conflicts {
			losing = append(losing, fmt.Sprintf("%s (%s)", c.Version, c.Manifest))
		}
		printWarning("Version conflict: %s resolved to %s over %s",
			conflict.Package, conflict.ResolvedVersion, strings.Join(losing, ", "))
	}

	identifier := opts.name
	if identifier == "" {
		identifier = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	store, err := persistence.NewFileStore(opts.output, logger)
	if err != nil {
		return err
	}
	resultPath, err := store.SaveResult(res, identifier)
	if err != nil {
		return err
	}
	printFile(resultPath)
	if !opts.noGraph {
		graphPath, err := store.SaveGraph(res, identifier)
		if err != nil {
			return err
		}
		printFile(graphPath)
		printNextStep("Render the graph", fmt.Sprintf("%s render %s", appName, graphPath))
	}
	return nil
}

// analyzeWithCache runs the pipeline, serving repeated runs over an
// identical document and configuration from the local cache.
func analyzeWithCache(ctx context.Context, raw []byte, doc *analysis.Document, cfg analysis.Config, overrides map[string]string, noCache bool, logger *log.Logger) (*analysis.Result, bool, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, false, err
	}
	defer store.Close()

	// Resolve the effective configuration up front so the cache key
	// reflects overrides the same way the run will.
	effective := cfg.WithDefaults()
	if _, err := analysis.Override(&effective, overrides, nil); err != nil {
		return nil, false, err
	}
	key := cache.NewDefaultKeyer().AnalysisKey(cache.Hash(raw), cache.AnalysisKeyOpts{
		Metric:        string(effective.Metric),
		PageRankAlpha: effective.PageRankAlpha,
		KatzAlpha:     effective.KatzAlpha,
		Weights:       effective.Weights,
		SortKeys:      effective.SortKeys,
	})

	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		var res analysis.Result
		if err := json.Unmarshal(data, &res); err == nil {
			logger.Debug("Cache hit", "key", key)
			return &res, true, nil
		}
	}

	sp := newSpinnerWithContext(ctx, "Analyzing dependencies")
	sp.Start()
	prog := newProgress(logger)
	res, err := analysis.Analyze(doc, cfg, overrides, logger)
	if err != nil {
		sp.StopWithError("Analysis failed")
		return nil, false, err
	}
	sp.Stop()
	prog.done(fmt.Sprintf("Ranked %d external packages", len(res.ExternalPackages)))

	if data, err := json.Marshal(res); err == nil {
		if err := store.Set(ctx, key, data, cacheTTL); err != nil {
			logger.Debug("Cache write failed", "err", err)
		}
	}
	return res, false, nil
}

func loadConfig(path string) (analysis.Config, error) {
	if path == "" {
		return analysis.DefaultConfig(), nil
	}
	return analysis.LoadConfigFile(path)
}

// displayName prefers the document's repository identifier over the
// input path for user-facing output.
func displayName(doc *analysis.Document, input string) string {
	if doc.Repository != "" {
		return doc.Repository
	}
	return input
}
