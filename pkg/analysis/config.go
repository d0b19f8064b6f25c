package analysis

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	charmlog "github.com/charmbracelet/log"

	"github.com/drips-network/gardener-sub000/pkg/centrality"
	"github.com/drips-network/gardener-sub000/pkg/depgraph"
	"github.com/drips-network/gardener-sub000/pkg/errors"
)

// Config holds the tunable parameters for a single analysis run.
// Configuration is a plain value passed down explicitly; nothing in
// the pipeline reads mutable global state.
type Config struct {
	// Metric selects the centrality algorithm ("pagerank" or "katz").
	Metric centrality.Metric `toml:"metric"`

	// PageRankAlpha is the damping factor for PageRank.
	PageRankAlpha float64 `toml:"pagerank_alpha"`

	// KatzAlpha is the attenuation factor for Katz centrality.
	KatzAlpha float64 `toml:"katz_alpha"`

	// Weights are the edge weights used when building the graph.
	Weights depgraph.Weights `toml:"weights"`

	// SortKeys controls whether serialized graph output is emitted in
	// canonical sorted order. Analysis itself is deterministic either
	// way; sorting makes artifacts byte-comparable across runs.
	SortKeys bool `toml:"sort_keys"`
}

// DefaultConfig returns the standard configuration: PageRank with
// damping 0.85, Katz alpha 0.15, the default edge weights, and sorted
// serialization.
func DefaultConfig() Config {
	return Config{
		Metric:        centrality.MetricPageRank,
		PageRankAlpha: 0.85,
		KatzAlpha:     0.15,
		Weights:       depgraph.DefaultWeights(),
		SortKeys:      true,
	}
}

// WithDefaults fills zero-valued fields from DefaultConfig. SortKeys
// is left alone because false is a meaningful setting; start from
// DefaultConfig when you want the standard value.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.Metric == "" {
		c.Metric = def.Metric
	}
	if c.PageRankAlpha == 0 {
		c.PageRankAlpha = def.PageRankAlpha
	}
	if c.KatzAlpha == 0 {
		c.KatzAlpha = def.KatzAlpha
	}
	if c.Weights == (depgraph.Weights{}) {
		c.Weights = def.Weights
	}
	return c
}

// Validate checks the configuration for values the pipeline cannot
// work with.
func (c Config) Validate() error {
	if !c.Metric.Valid() {
		return errors.New(errors.ErrCodeInvalidMetric, "unknown centrality metric %q", c.Metric)
	}
	if c.PageRankAlpha <= 0 || c.PageRankAlpha >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "pagerank alpha must be in (0, 1), got %g", c.PageRankAlpha)
	}
	if c.KatzAlpha <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "katz alpha must be positive, got %g", c.KatzAlpha)
	}
	return nil
}

// LoadConfigFile reads a TOML configuration file and layers it over
// the defaults. Missing keys keep their default values.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading config file %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Override applies named parameter overrides to a configuration and
// returns a restore function that puts the previous values back. The
// restore function exists for test harnesses that share a Config
// across cases; production callers apply overrides once and ignore it.
//
// Recognized keys match the historical override names:
// CENTRALITY_METRIC, PAGERANK_ALPHA, KATZ_ALPHA, EDGE_W_IMPORTS_PACKAGE,
// EDGE_W_IMPORTS_LOCAL, EDGE_W_CONTAINS_COMPONENT, EDGE_W_USES_COMPONENT,
// SERIALIZE_SORT_KEYS. Unknown keys are logged and skipped.
func Override(cfg *Config, overrides map[string]string, logger *charmlog.Logger) (func(), error) {
	prev := *cfg
	restore := func() { *cfg = prev }

	for _, key := range sortedOverrideKeys(overrides) {
		value := overrides[key]
		if err := applyOverride(cfg, key, value, logger); err != nil {
			restore()
			return func() {}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		restore()
		return func() {}, err
	}
	return restore, nil
}

func applyOverride(cfg *Config, key, value string, logger *charmlog.Logger) error {
	switch strings.ToUpper(key) {
	case "CENTRALITY_METRIC":
		cfg.Metric = centrality.Metric(value)
	case "PAGERANK_ALPHA":
		return setFloat(&cfg.PageRankAlpha, key, value)
	case "KATZ_ALPHA":
		return setFloat(&cfg.KatzAlpha, key, value)
	case "EDGE_W_IMPORTS_PACKAGE":
		return setFloat(&cfg.Weights.ImportsPackage, key, value)
	case "EDGE_W_IMPORTS_LOCAL":
		return setFloat(&cfg.Weights.ImportsLocal, key, value)
	case "EDGE_W_CONTAINS_COMPONENT":
		return setFloat(&cfg.Weights.ContainsComponent, key, value)
	case "EDGE_W_USES_COMPONENT":
		return setFloat(&cfg.Weights.UsesComponent, key, value)
	case "SERIALIZE_SORT_KEYS":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "override %s: invalid boolean %q", key, value)
		}
		cfg.SortKeys = b
	default:
		if logger != nil {
			logger.Warn("ignoring unknown config override", "key", key)
		}
	}
	return nil
}

func setFloat(dst *float64, key, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "override %s: invalid number %q", key, value)
	}
	*dst = f
	return nil
}

func sortedOverrideKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseOverrides converts KEY=VALUE strings (the CLI's --override
// flag) into an override map.
func ParseOverrides(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid override %q, expected KEY=VALUE", pair)
		}
		out[k] = v
	}
	return out, nil
}
