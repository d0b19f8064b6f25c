package persistence

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drips-network/gardener-sub000/pkg/analysis"
	"github.com/drips-network/gardener-sub000/pkg/pkgs"
)

func testResult(t *testing.T) *analysis.Result {
	t.Helper()
	doc := &analysis.Document{
		Repository: "example/repo",
		Files:      []analysis.FileEntry{{Path: "main.py", Language: "python"}},
		Manifests: []analysis.ManifestEntry{{
			Path:     "requirements.txt",
			Packages: []*pkgs.Package{{Name: "requests", Ecosystem: pkgs.EcosystemPyPI}},
		}},
		FileImports: map[string][]string{"main.py": {"requests"}},
	}
	res, err := analysis.Analyze(doc, analysis.Config{}, nil, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return res
}

func TestSaveAndLoadResult(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, nil)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	res := testResult(t)
	path, err := store.SaveResult(res, "myrepo")
	if err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	if filepath.Base(path) != "myrepo_dependency_analysis.json" {
		t.Errorf("unexpected path %s", path)
	}

	loaded, err := LoadResult(path)
	if err != nil {
		t.Fatalf("LoadResult: %v", err)
	}
	if loaded.RunID != res.RunID {
		t.Errorf("run ID = %q, want %q", loaded.RunID, res.RunID)
	}
	if len(loaded.TopDependencies) != len(res.TopDependencies) {
		t.Errorf("top dependencies lost in round trip")
	}
}

func TestSaveGraphStandalone(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	path, err := store.SaveGraph(testResult(t), "myrepo")
	if err != nil {
		t.Fatalf("SaveGraph: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"directed": true`) {
		t.Errorf("graph file missing node-link structure: %s", data)
	}
}

func TestSaveRender(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	path, err := store.SaveRender([]byte("<svg/>"), "myrepo", "svg")
	if err != nil {
		t.Fatalf("SaveRender: %v", err)
	}
	if filepath.Base(path) != "myrepo_dependency_graph.svg" {
		t.Errorf("unexpected path %s", path)
	}
}

func TestOutputPathRespectsExplicitDirs(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	explicit := filepath.Join(dir, "nested", "repo")
	if err := os.MkdirAll(filepath.Dir(explicit), 0755); err != nil {
		t.Fatal(err)
	}
	path, err := store.SaveRender([]byte("x"), explicit, "dot")
	if err != nil {
		t.Fatalf("SaveRender: %v", err)
	}
	if path != explicit+"_dependency_graph.dot" {
		t.Errorf("path = %s", path)
	}
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.json")
	content := `{"repository": "r", "files": [{"path": "a.go", "language": "go"}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if doc.Repository != "r" || len(doc.Files) != 1 {
		t.Errorf("doc = %+v", doc)
	}

	if _, err := LoadDocument(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
