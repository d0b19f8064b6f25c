package depgraph

import (
	"sort"

	"github.com/drips-network/gardener-sub000/pkg/errors"
	"github.com/drips-network/gardener-sub000/pkg/lang"
)

// NodeLinkData is the node-link serialization of a graph, shaped for
// JSON output and downstream tooling.
type NodeLinkData struct {
	Directed   bool             `json:"directed"`
	Multigraph bool             `json:"multigraph"`
	Graph      map[string]any   `json:"graph"`
	Nodes      []map[string]any `json:"nodes"`
	Links      []map[string]any `json:"links"`
}

// NodeLink exports the graph in node-link form. With sortKeys set,
// nodes are ordered by (type, id) and links by (type, source, target,
// ident) so identical graphs always serialize identically; otherwise
// insertion order is kept.
func (g *Graph) NodeLink(sortKeys bool) *NodeLinkData {
	data := &NodeLinkData{
		Directed:   true,
		Multigraph: false,
		Graph:      map[string]any{},
		Nodes:      make([]map[string]any, 0, g.NumNodes()),
		Links:      make([]map[string]any, 0, g.NumEdges()),
	}

	for _, n := range g.Nodes() {
		data.Nodes = append(data.Nodes, nodeRecord(n))
	}
	for _, e := range g.Edges() {
		data.Links = append(data.Links, linkRecord(e))
	}

	if sortKeys {
		sort.SliceStable(data.Nodes, func(i, j int) bool {
			a, b := data.Nodes[i], data.Nodes[j]
			if a["type"] != b["type"] {
				return a["type"].(string) < b["type"].(string)
			}
			return a["id"].(string) < b["id"].(string)
		})
		sort.SliceStable(data.Links, func(i, j int) bool {
			return linkSortKey(data.Links[i]) < linkSortKey(data.Links[j])
		})
	}
	return data
}

func nodeRecord(n *Node) map[string]any {
	rec := map[string]any{
		"id":   n.ID,
		"type": string(n.Type),
	}
	switch n.Type {
	case NodeFile:
		rec["language"] = languageLabel(n.Language)
	case NodePackage:
		rec["ecosystem"] = n.Ecosystem
		rec["distribution_name"] = n.DistributionName
		rec["import_names"] = n.ImportNames
	case NodeComponent:
		rec["package"] = n.Package
		rec["distribution_name"] = n.DistributionName
		rec["ecosystem"] = n.Ecosystem
		rec["component"] = n.Component
	}
	for metric, score := range n.Scores {
		rec[metric] = score
	}
	return rec
}

func languageLabel(l lang.Language) string {
	if l == lang.Unknown {
		return "unknown"
	}
	return l.String()
}

func linkRecord(e *Edge) map[string]any {
	rec := map[string]any{
		"source": e.Source,
		"target": e.Target,
		"type":   string(e.Type),
		"weight": e.Weight,
	}
	if e.Ident != "" {
		rec["ident"] = e.Ident
	}
	if e.AmbiguityResolution != "" {
		rec["ambiguity_resolution"] = e.AmbiguityResolution
	}
	return rec
}

func linkSortKey(rec map[string]any) string {
	ident, _ := rec["ident"].(string)
	return rec["type"].(string) + "\x00" + rec["source"].(string) + "\x00" +
		rec["target"].(string) + "\x00" + ident
}

// FromNodeLink reconstructs a graph from node-link data, typically
// after a round trip through a saved analysis artifact. Score entries
// on node records are restored into the node's Scores map.
func FromNodeLink(data *NodeLinkData) (*Graph, error) {
	g := NewGraph()

	for _, rec := range data.Nodes {
		id, _ := rec["id"].(string)
		if id == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node record without id")
		}
		typ, _ := rec["type"].(string)

		n := Node{ID: id, Type: NodeType(typ)}
		switch n.Type {
		case NodeFile:
			language, _ := rec["language"].(string)
			n.Language = lang.Parse(language)
		case NodePackage:
			n.Ecosystem, _ = rec["ecosystem"].(string)
			n.DistributionName, _ = rec["distribution_name"].(string)
			n.ImportNames = stringSlice(rec["import_names"])
		case NodeComponent:
			n.Package, _ = rec["package"].(string)
			n.DistributionName, _ = rec["distribution_name"].(string)
			n.Ecosystem, _ = rec["ecosystem"].(string)
			n.Component, _ = rec["component"].(string)
		}
		g.AddNode(n)

		// Remaining numeric attributes are centrality scores.
		for key, value := range rec {
			if score, ok := value.(float64); ok {
				g.SetScore(id, key, score)
			}
		}
	}

	for _, rec := range data.Links {
		source, _ := rec["source"].(string)
		target, _ := rec["target"].(string)
		if !g.HasNode(source) || !g.HasNode(target) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "link %s -> %s references unknown node", source, target)
		}
		typ, _ := rec["type"].(string)
		weight, _ := rec["weight"].(float64)
		ident, _ := rec["ident"].(string)
		ambiguity, _ := rec["ambiguity_resolution"].(string)
		g.AddEdge(Edge{
			Source:              source,
			Target:              target,
			Type:                EdgeType(typ),
			Weight:              weight,
			Ident:               ident,
			AmbiguityResolution: ambiguity,
		})
	}
	return g, nil
}

// stringSlice converts a decoded JSON array into strings. Both the
// in-memory []string form and the post-JSON []any form occur.
func stringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return append([]string(nil), vals...)
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
