// Package depgraph builds the typed dependency graph over files,
// external packages, and package components, and serializes it in a
// canonical node-link form.
package depgraph

import (
	"github.com/drips-network/gardener-sub000/pkg/centrality"
	"github.com/drips-network/gardener-sub000/pkg/lang"
)

// NodeType classifies graph nodes.
type NodeType string

const (
	NodeFile      NodeType = "file"
	NodePackage   NodeType = "package"
	NodeComponent NodeType = "package_component"
)

// EdgeType classifies graph edges.
type EdgeType string

const (
	EdgeImportsPackage    EdgeType = "imports_package"
	EdgeImportsLocal      EdgeType = "imports_local"
	EdgeContainsComponent EdgeType = "contains_component"
	EdgeUsesComponent     EdgeType = "uses_component"
)

// Weights are the per-edge-type weights used when building the graph.
type Weights struct {
	ImportsPackage    float64 `json:"imports_package" toml:"imports_package"`
	ImportsLocal      float64 `json:"imports_local" toml:"imports_local"`
	ContainsComponent float64 `json:"contains_component" toml:"contains_component"`
	UsesComponent     float64 `json:"uses_component" toml:"uses_component"`
}

// DefaultWeights returns the standard edge weights.
func DefaultWeights() Weights {
	return Weights{
		ImportsPackage:    0.5,
		ImportsLocal:      0.7,
		ContainsComponent: 1.0,
		UsesComponent:     1.0,
	}
}

// Node is one graph node. Which fields are meaningful depends on Type:
// files carry Language, packages carry Ecosystem/DistributionName/
// ImportNames, components additionally carry Package and Component.
type Node struct {
	ID               string
	Type             NodeType
	Language         lang.Language
	Ecosystem        string
	DistributionName string
	ImportNames      []string
	Package          string
	Component        string

	// Scores holds centrality results keyed by metric name, plus the
	// generic "importance" key mirrored for rendering.
	Scores map[string]float64
}

// Edge is one directed edge.
type Edge struct {
	Source string
	Target string
	Type   EdgeType
	Weight float64

	// Ident is the literal import identifier that produced the edge.
	Ident string
	// AmbiguityResolution is set to "lexicographic" when the import
	// identifier had several candidate distributions.
	AmbiguityResolution string
}

type edgeKey struct{ src, dst string }

// Graph is a directed graph with at most one edge per (source, target)
// pair. Node and edge insertion order is preserved; re-adding an
// existing node or edge replaces its attributes in place.
type Graph struct {
	nodeOrder []string
	nodes     map[string]*Node
	edgeOrder []edgeKey
	edges     map[edgeKey]*Edge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[edgeKey]*Edge),
	}
}

// AddNode inserts or updates a node, preserving its original position.
func (g *Graph) AddNode(n Node) *Node {
	if existing, ok := g.nodes[n.ID]; ok {
		scores := existing.Scores
		*existing = n
		if n.Scores == nil {
			existing.Scores = scores
		}
		return existing
	}
	stored := n
	g.nodes[n.ID] = &stored
	g.nodeOrder = append(g.nodeOrder, n.ID)
	return &stored
}

// HasNode reports whether a node exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// AddEdge inserts or updates the edge between e.Source and e.Target.
func (g *Graph) AddEdge(e Edge) {
	key := edgeKey{e.Source, e.Target}
	if existing, ok := g.edges[key]; ok {
		*existing = e
		return
	}
	stored := e
	g.edges[key] = &stored
	g.edgeOrder = append(g.edgeOrder, key)
}

// Edge returns the edge from src to dst.
func (g *Graph) Edge(src, dst string) (*Edge, bool) {
	e, ok := g.edges[edgeKey{src, dst}]
	return e, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edgeOrder))
	for _, key := range g.edgeOrder {
		out = append(out, g.edges[key])
	}
	return out
}

// NodeIDs returns node ids in insertion order.
func (g *Graph) NodeIDs() []string {
	return append([]string(nil), g.nodeOrder...)
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.nodeOrder) }

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int { return len(g.edgeOrder) }

// SetScore records a centrality score on a node under the metric name.
func (g *Graph) SetScore(id, metric string, score float64) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	if n.Scores == nil {
		n.Scores = make(map[string]float64)
	}
	n.Scores[metric] = score
}

// ObjectNodes returns the ids of package and component nodes, the
// subset centrality scores are reported for, in insertion order.
func (g *Graph) ObjectNodes() []string {
	var out []string
	for _, id := range g.nodeOrder {
		if t := g.nodes[id].Type; t == NodePackage || t == NodeComponent {
			out = append(out, id)
		}
	}
	return out
}

// WeightedEdges implements the centrality graph view.
func (g *Graph) WeightedEdges() []centrality.WeightedEdge {
	out := make([]centrality.WeightedEdge, 0, len(g.edgeOrder))
	for _, key := range g.edgeOrder {
		e := g.edges[key]
		out = append(out, centrality.WeightedEdge{
			Source: e.Source,
			Target: e.Target,
			Weight: e.Weight,
		})
	}
	return out
}
