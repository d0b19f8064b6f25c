package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/drips-network/gardener-sub000/pkg/centrality"
	"github.com/drips-network/gardener-sub000/pkg/errors"
)

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if cfg.Metric != centrality.MetricPageRank {
		t.Errorf("metric = %q, want pagerank", cfg.Metric)
	}
	if cfg.PageRankAlpha != 0.85 || cfg.KatzAlpha != 0.15 {
		t.Errorf("alphas = %g/%g, want 0.85/0.15", cfg.PageRankAlpha, cfg.KatzAlpha)
	}
	if cfg.Weights.ImportsPackage != 0.5 || cfg.Weights.UsesComponent != 1.0 {
		t.Errorf("unexpected default weights: %+v", cfg.Weights)
	}

	// Explicit settings survive.
	cfg = Config{Metric: centrality.MetricKatz, KatzAlpha: 0.3}.WithDefaults()
	if cfg.Metric != centrality.MetricKatz || cfg.KatzAlpha != 0.3 {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		code errors.Code
	}{
		{"valid", DefaultConfig(), ""},
		{"bad metric", func() Config { c := DefaultConfig(); c.Metric = "betweenness"; return c }(), errors.ErrCodeInvalidMetric},
		{"alpha too high", func() Config { c := DefaultConfig(); c.PageRankAlpha = 1.5; return c }(), errors.ErrCodeInvalidConfig},
		{"negative katz", func() Config { c := DefaultConfig(); c.KatzAlpha = -1; return c }(), errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOverrideScoped(t *testing.T) {
	cfg := DefaultConfig()
	restore, err := Override(&cfg, map[string]string{
		"CENTRALITY_METRIC": "katz",
		"KATZ_ALPHA":        "0.2",
		"EDGE_W_IMPORTS_LOCAL": "0.9",
	}, nil)
	if err != nil {
		t.Fatalf("Override: %v", err)
	}
	if cfg.Metric != centrality.MetricKatz || cfg.KatzAlpha != 0.2 || cfg.Weights.ImportsLocal != 0.9 {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	restore()
	if cfg.Metric != centrality.MetricPageRank || cfg.KatzAlpha != 0.15 || cfg.Weights.ImportsLocal != 0.7 {
		t.Errorf("restore did not revert: %+v", cfg)
	}
}

func TestOverrideRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := Override(&cfg, map[string]string{"PAGERANK_ALPHA": "not-a-number"}, nil); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad float: err = %v", err)
	}
	if cfg.PageRankAlpha != 0.85 {
		t.Errorf("failed override mutated config: %+v", cfg)
	}

	// An override that produces an invalid config is rejected whole.
	if _, err := Override(&cfg, map[string]string{"CENTRALITY_METRIC": "nonsense"}, nil); !errors.Is(err, errors.ErrCodeInvalidMetric) {
		t.Errorf("invalid metric: err = %v", err)
	}
	if cfg.Metric != centrality.MetricPageRank {
		t.Errorf("failed override mutated config: %+v", cfg)
	}
}

func TestParseOverrides(t *testing.T) {
	got, err := ParseOverrides([]string{"PAGERANK_ALPHA=0.9", "CENTRALITY_METRIC=katz"})
	if err != nil {
		t.Fatalf("ParseOverrides: %v", err)
	}
	if got["PAGERANK_ALPHA"] != "0.9" || got["CENTRALITY_METRIC"] != "katz" {
		t.Errorf("parsed = %v", got)
	}

	if _, err := ParseOverrides([]string{"MISSING_EQUALS"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing equals: err = %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gardener.toml")
	content := `
metric = "katz"
katz_alpha = 0.2

[weights]
imports_package = 0.6
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.Metric != centrality.MetricKatz || cfg.KatzAlpha != 0.2 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Weights.ImportsPackage != 0.6 {
		t.Errorf("weight = %g, want 0.6", cfg.Weights.ImportsPackage)
	}
	// Unset keys keep defaults.
	if cfg.PageRankAlpha != 0.85 || cfg.Weights.ImportsLocal != 0.7 {
		t.Errorf("defaults lost: %+v", cfg)
	}

	if _, err := LoadConfigFile(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing file: err = %v", err)
	}
}
