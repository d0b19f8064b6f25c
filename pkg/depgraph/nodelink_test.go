package depgraph

import (
	"encoding/json"
	"testing"

	"github.com/drips-network/gardener-sub000/pkg/pkgs"
)

func TestNodeLinkCanonicalOrder(t *testing.T) {
	b := NewBuilder(DefaultWeights(), nil)
	g := b.Build(Inputs{
		Files:    fileSet("z.py", "a.py"),
		Packages: registry(&pkgs.Package{Name: "zlib-ng", Ecosystem: pkgs.EcosystemPyPI}, &pkgs.Package{Name: "attrs", Ecosystem: pkgs.EcosystemPyPI}),
		FileImports: map[string][]string{
			"z.py": {"attrs"},
			"a.py": {"zlib-ng"},
		},
		LocalImports: map[string][]string{"z.py": {"a.py"}},
	})

	data := g.NodeLink(true)
	if !data.Directed || data.Multigraph {
		t.Fatalf("header wrong: %+v", data)
	}

	wantNodes := []string{"a.py", "z.py", "attrs", "zlib-ng"}
	if len(data.Nodes) != len(wantNodes) {
		t.Fatalf("node count = %d, want %d", len(data.Nodes), len(wantNodes))
	}
	for i, id := range wantNodes {
		if data.Nodes[i]["id"] != id {
			t.Errorf("nodes[%d] = %v, want %s", i, data.Nodes[i]["id"], id)
		}
	}

	// Links sort by (type, source, target, ident): imports_local
	// before imports_package, then by source.
	wantLinks := [][2]string{
		{"z.py", "a.py"},
		{"a.py", "zlib-ng"},
		{"z.py", "attrs"},
	}
	for i, pair := range wantLinks {
		if data.Links[i]["source"] != pair[0] || data.Links[i]["target"] != pair[1] {
			t.Errorf("links[%d] = %v -> %v, want %v -> %v",
				i, data.Links[i]["source"], data.Links[i]["target"], pair[0], pair[1])
		}
	}
}

func TestNodeLinkScoresSerialized(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: "pkg", Type: NodePackage, Ecosystem: "npm", DistributionName: "pkg"})
	g.SetScore("pkg", "pagerank", 0.42)
	g.SetScore("pkg", "importance", 0.42)

	data := g.NodeLink(true)
	rec := data.Nodes[0]
	if rec["pagerank"] != 0.42 || rec["importance"] != 0.42 {
		t.Errorf("score attributes missing: %v", rec)
	}
}

func TestFromNodeLinkRoundTrip(t *testing.T) {
	b := NewBuilder(DefaultWeights(), nil)
	g := b.Build(Inputs{
		Files:    fileSet("src/app.py"),
		Packages: registry(&pkgs.Package{Name: "requests", Ecosystem: pkgs.EcosystemPyPI}),
		FileImports: map[string][]string{
			"src/app.py": {"requests"},
		},
	})
	g.SetScore("requests", "pagerank", 0.7)
	g.SetScore("requests", "importance", 0.7)

	// Marshal through encoding/json so import_names arrives as []any,
	// the shape FromNodeLink sees when loading a saved graph file.
	raw, err := json.Marshal(g.NodeLink(true))
	if err != nil {
		t.Fatal(err)
	}
	var data NodeLinkData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatal(err)
	}

	got, err := FromNodeLink(&data)
	if err != nil {
		t.Fatalf("FromNodeLink: %v", err)
	}
	if got.NumNodes() != g.NumNodes() || got.NumEdges() != g.NumEdges() {
		t.Fatalf("size = (%d, %d), want (%d, %d)", got.NumNodes(), got.NumEdges(), g.NumNodes(), g.NumEdges())
	}

	pkg, ok := got.Node("requests")
	if !ok {
		t.Fatal("requests node missing after round trip")
	}
	if pkg.Type != NodePackage || pkg.Ecosystem != string(pkgs.EcosystemPyPI) {
		t.Errorf("package node = %+v", pkg)
	}
	if pkg.Scores["importance"] != 0.7 {
		t.Errorf("importance = %v, want 0.7", pkg.Scores["importance"])
	}
	file, ok := got.Node("src/app.py")
	if !ok || file.Type != NodeFile {
		t.Fatalf("file node = %+v, ok=%v", file, ok)
	}

	edges := got.Edges()
	if len(edges) != 1 {
		t.Fatalf("edge count = %d, want 1", len(edges))
	}
	e := edges[0]
	if e.Source != "src/app.py" || e.Target != "requests" || e.Type != EdgeImportsPackage {
		t.Errorf("edge = %+v", e)
	}
	if e.Weight == 0 {
		t.Error("edge weight not restored")
	}
}

func TestFromNodeLinkRejectsUnknownEndpoint(t *testing.T) {
	data := &NodeLinkData{
		Directed: true,
		Nodes:    []map[string]any{{"id": "a.py", "type": "file"}},
		Links:    []map[string]any{{"source": "a.py", "target": "missing", "type": "imports_local"}},
	}
	if _, err := FromNodeLink(data); err == nil {
		t.Fatal("expected error for link to unknown node")
	}
}
