package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/drips-network/gardener-sub000/pkg/analysis"
)

func TestLoadConfigDefault(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error: %v", err)
	}
	want := analysis.DefaultConfig()
	if cfg.Metric != want.Metric || cfg.PageRankAlpha != want.PageRankAlpha {
		t.Errorf("loadConfig(\"\") = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gardener.toml")
	if err := os.WriteFile(path, []byte("metric = \"katz\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if string(cfg.Metric) != "katz" {
		t.Errorf("Metric = %q, want %q", cfg.Metric, "katz")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("loadConfig() should fail on missing file")
	}
}

func TestDisplayName(t *testing.T) {
	doc := &analysis.Document{Repository: "github.com/acme/widgets"}
	if got := displayName(doc, "input.json"); got != "github.com/acme/widgets" {
		t.Errorf("displayName() = %q, want repository", got)
	}
	if got := displayName(&analysis.Document{}, "input.json"); got != "input.json" {
		t.Errorf("displayName() = %q, want input path", got)
	}
}
