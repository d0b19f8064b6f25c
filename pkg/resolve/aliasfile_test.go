package resolve

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAliasFile(t *testing.T) {
	content := `base_url = "src"
extensions = [".vue"]

[[paths]]
pattern = "@/*"
targets = ["src/*"]

[[rules]]
pattern = "~lib/*"
targets = ["lib/*"]
priority = 10
description = "project lib alias"
`
	path := filepath.Join(t.TempDir(), "aliases.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAliasFile(path)
	if err != nil {
		t.Fatalf("LoadAliasFile() error: %v", err)
	}

	if cfg.BaseURL != "src" {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, "src")
	}
	if !containsString(cfg.Extensions, ".vue") {
		t.Errorf("Extensions = %v, should include .vue", cfg.Extensions)
	}
	// Default extensions survive the merge.
	if !containsString(cfg.Extensions, ".ts") {
		t.Errorf("Extensions = %v, should keep defaults", cfg.Extensions)
	}
	if len(cfg.Paths) != 1 || cfg.Paths[0].Pattern != "@/*" {
		t.Errorf("Paths = %+v, want the @/* entry", cfg.Paths)
	}
	if len(cfg.CustomRules) != 1 || cfg.CustomRules[0].Priority != 10 {
		t.Errorf("CustomRules = %+v, want the ~lib/* rule", cfg.CustomRules)
	}
}

func TestLoadAliasFileMissing(t *testing.T) {
	if _, err := LoadAliasFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadAliasFile() should fail on missing file")
	}
}
