package analysis

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/drips-network/gardener-sub000/pkg/depgraph"
	"github.com/drips-network/gardener-sub000/pkg/errors"
	"github.com/drips-network/gardener-sub000/pkg/pkgs"
)

func testDocument() *Document {
	return &Document{
		Repository: "example/repo",
		Files: []FileEntry{
			{Path: "src/app.py", Language: "python"},
			{Path: "src/util.py", Language: "python"},
		},
		Manifests: []ManifestEntry{
			{
				Path: "requirements.txt",
				Packages: []*pkgs.Package{
					{Name: "requests", Version: "2.31.0", Ecosystem: pkgs.EcosystemPyPI, RepositoryURL: "https://github.com/psf/requests"},
					{Name: "example-repo", Version: "0.1.0", Ecosystem: pkgs.EcosystemPyPI, ImportNames: []string{"example_repo"}},
				},
			},
		},
		FileImports: map[string][]string{
			"src/app.py": {"requests", "example_repo"},
		},
		LocalImports: map[string][]string{
			"src/app.py": {"src/util.py"},
		},
		RootPackages: []string{"example-repo"},
	}
}

func TestRunEndToEnd(t *testing.T) {
	result, err := Analyze(testDocument(), Config{}, nil, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.RunID == "" {
		t.Error("expected a run ID")
	}
	if result.Metric != "pagerank" {
		t.Errorf("metric = %q, want pagerank", result.Metric)
	}
	if got := result.Details.TotalFiles; got != 2 {
		t.Errorf("total files = %d, want 2", got)
	}
	if got := result.Details.LanguagesDetected; len(got) != 1 || got[0] != "python" {
		t.Errorf("languages = %v, want [python]", got)
	}

	// Nodes: two files, two packages. Edges: app->requests,
	// app->example-repo, app->util.
	if result.Details.GraphNodes != 4 {
		t.Errorf("graph nodes = %d, want 4", result.Details.GraphNodes)
	}
	if result.Details.GraphEdges != 3 {
		t.Errorf("graph edges = %d, want 3", result.Details.GraphEdges)
	}

	// The repository's own package never ranks among its
	// dependencies, even though a file imports it.
	if len(result.TopDependencies) != 1 {
		t.Fatalf("top dependencies = %+v, want exactly requests", result.TopDependencies)
	}
	top := result.TopDependencies[0]
	if top.PackageName != "requests" {
		t.Errorf("top dependency = %q, want requests", top.PackageName)
	}
	if math.Abs(top.Percentage-100) > 1e-9 {
		t.Errorf("percentage = %g, want 100", top.Percentage)
	}
	if top.PackageURL != "https://github.com/psf/requests" {
		t.Errorf("package URL = %q", top.PackageURL)
	}
	if top.Ecosystem != "pypi" {
		t.Errorf("ecosystem = %q, want pypi", top.Ecosystem)
	}
}

func TestRunWritesScoresOntoNodes(t *testing.T) {
	a := New(Config{}, nil)
	if _, err := a.Run(testDocument()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	n, ok := a.Graph().Node("requests")
	if !ok {
		t.Fatal("requests node missing")
	}
	if n.Scores["pagerank"] <= 0 {
		t.Errorf("pagerank score = %g, want > 0", n.Scores["pagerank"])
	}
	if n.Scores["importance"] != n.Scores["pagerank"] {
		t.Errorf("importance %g != pagerank %g", n.Scores["importance"], n.Scores["pagerank"])
	}
}

func TestRunEmptyDocument(t *testing.T) {
	result, err := Analyze(&Document{Repository: "empty"}, Config{}, nil, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Details.GraphNodes != 0 {
		t.Errorf("graph nodes = %d, want 0", result.Details.GraphNodes)
	}
	if len(result.TopDependencies) != 0 {
		t.Errorf("top dependencies = %+v, want none", result.TopDependencies)
	}
}

func TestRunDeterministicSerialization(t *testing.T) {
	first, err := Analyze(testDocument(), Config{}, nil, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Analyze(testDocument(), Config{}, nil, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	a, _ := json.Marshal(first.DependencyGraph)
	b, _ := json.Marshal(second.DependencyGraph)
	if string(a) != string(b) {
		t.Error("graph serialization differs across identical runs")
	}
}

func TestPhaseOrderPreconditions(t *testing.T) {
	a := New(Config{}, nil)

	if _, err := a.CalculateImportance(); !errors.Is(err, errors.ErrCodeGraphNotBuilt) {
		t.Errorf("CalculateImportance before build: err = %v", err)
	}
	if _, err := a.TopDependencies(); !errors.Is(err, errors.ErrCodeGraphNotBuilt) {
		t.Errorf("TopDependencies before build: err = %v", err)
	}

	if _, err := a.BuildGraph(testDocument()); err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	if _, err := a.TopDependencies(); !errors.Is(err, errors.ErrCodeGraphNotBuilt) {
		t.Errorf("TopDependencies before scoring: err = %v", err)
	}
}

func TestDocumentValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
	}{
		{"duplicate file", Document{Files: []FileEntry{{Path: "a.py"}, {Path: "a.py"}}}},
		{"empty file path", Document{Files: []FileEntry{{Path: ""}}}},
		{"unknown import owner", Document{FileImports: map[string][]string{"ghost.py": {"x"}}}},
		{"unknown component owner", Document{FileComponents: map[string][]depgraph.ComponentRef{"ghost.py": {{Package: "x", Component: "Y"}}}}},
		{"unnamed package", Document{Manifests: []ManifestEntry{{Path: "m", Packages: []*pkgs.Package{{}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Validate() = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestParseDocument(t *testing.T) {
	data := []byte(`{
		"repository": "example/repo",
		"files": [{"path": "main.go", "language": "go"}],
		"file_imports": {"main.go": ["github.com/spf13/cobra"]}
	}`)
	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Repository != "example/repo" {
		t.Errorf("repository = %q", doc.Repository)
	}
	fs := doc.FileSet()
	if f, ok := fs.Get("main.go"); !ok || f.Lang.String() != "go" {
		t.Errorf("file set entry = %+v, ok = %v", f, ok)
	}

	if _, err := ParseDocument([]byte("{not json")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("malformed JSON: err = %v", err)
	}
}

func TestAnalyzeDoesNotMutateDocument(t *testing.T) {
	doc := testDocument()
	before := doc.Manifests[0].Packages[0].Version
	if _, err := Analyze(doc, Config{}, nil, nil); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if doc.Manifests[0].Packages[0].Version != before {
		t.Error("analysis mutated the caller's document")
	}
}
