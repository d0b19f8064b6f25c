package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/drips-network/gardener-sub000/pkg/depgraph"
)

func TestLoadGraphFromStandaloneFile(t *testing.T) {
	g := depgraph.NewGraph()
	g.AddNode(depgraph.Node{ID: "app.py", Type: depgraph.NodeFile})
	g.AddNode(depgraph.Node{ID: "requests", Type: depgraph.NodePackage, Ecosystem: "pypi", DistributionName: "requests"})
	g.AddEdge(depgraph.Edge{Source: "app.py", Target: "requests", Type: depgraph.EdgeImportsPackage, Weight: 1.0})

	data, err := json.Marshal(g.NodeLink(true))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := loadGraph(path)
	if err != nil {
		t.Fatalf("loadGraph() error: %v", err)
	}
	if got.NumNodes() != 2 || got.NumEdges() != 1 {
		t.Errorf("loadGraph() = (%d nodes, %d edges), want (2, 1)", got.NumNodes(), got.NumEdges())
	}
}

func TestLoadGraphRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadGraph(path); err == nil {
		t.Error("loadGraph() should fail on malformed input")
	}
}

func TestValidFormatsMap(t *testing.T) {
	for _, f := range []string{"svg", "png", "pdf", "dot"} {
		if !validFormats[f] {
			t.Errorf("format %q should be valid", f)
		}
	}
	for _, f := range []string{"jpg", "json", ""} {
		if validFormats[f] {
			t.Errorf("format %q should not be valid", f)
		}
	}
}
