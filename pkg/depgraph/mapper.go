package depgraph

import (
	"sort"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"github.com/drips-network/gardener-sub000/pkg/pkgs"
)

// Ambiguity records an import identifier claimed by more than one
// distribution and the deterministic choice made for it.
type Ambiguity struct {
	Chosen     string   `json:"chosen"`
	Candidates []string `json:"candidates"`
}

// ImportMap maps import identifiers to distribution node ids. The
// static mapping comes from the package registry; the node mapping
// also accumulates nodes synthesized during graph building (stdlib
// packages, scoped-import heuristics).
type ImportMap struct {
	dist      map[string]string
	node      map[string]string
	Ambiguous map[string]Ambiguity
}

// BuildImportMap derives the import-to-distribution mapping from the
// registry. When an import identifier has several candidate
// distributions the lexicographically smallest wins; exactly one
// warning is logged per ambiguous identifier, in sorted order. The
// tie-break is a compatibility guarantee, not a preference.
func BuildImportMap(reg *pkgs.Registry, logger *charmlog.Logger) *ImportMap {
	m := &ImportMap{
		dist:      make(map[string]string),
		node:      make(map[string]string),
		Ambiguous: make(map[string]Ambiguity),
	}

	index := reg.ImportIndex()
	for imp, candidates := range index {
		m.dist[imp] = candidates[0]
		if len(candidates) > 1 {
			m.Ambiguous[imp] = Ambiguity{Chosen: candidates[0], Candidates: candidates}
		}
	}

	if logger != nil && len(m.Ambiguous) > 0 {
		names := make([]string, 0, len(m.Ambiguous))
		for imp := range m.Ambiguous {
			names = append(names, imp)
		}
		sort.Strings(names)
		for _, imp := range names {
			info := m.Ambiguous[imp]
			logger.Warn("ambiguous import, choosing lexicographically smallest distribution",
				"import", imp,
				"candidates", strings.Join(info.Candidates, ", "),
				"chosen", info.Chosen)
		}
	}
	return m
}

// Distribution returns the statically mapped distribution for an
// import identifier.
func (m *ImportMap) Distribution(imp string) (string, bool) {
	d, ok := m.dist[imp]
	return d, ok
}

// IsAmbiguous reports whether the identifier had multiple candidates.
func (m *ImportMap) IsAmbiguous(imp string) bool {
	_, ok := m.Ambiguous[imp]
	return ok
}

// BindNode records which graph node an import identifier points at.
func (m *ImportMap) BindNode(imp, nodeID string) {
	m.node[imp] = nodeID
}

// NodeFor returns the graph node for an import identifier, falling
// back to progressively shorter slash-separated prefixes for
// hierarchical ecosystems like Go module paths.
func (m *ImportMap) NodeFor(imp string) (string, bool) {
	if node, ok := m.node[imp]; ok {
		return node, true
	}
	prefix := imp
	for strings.Contains(prefix, "/") {
		prefix = prefix[:strings.LastIndex(prefix, "/")]
		if node, ok := m.node[prefix]; ok {
			return node, true
		}
	}
	return "", false
}
