// Package pkgs models the external packages a repository declares in
// its manifests: their identity, versions, the manifests they came
// from, and the import names they are known under in source code.
package pkgs

import "sort"

// Ecosystem names the packaging system a distribution belongs to.
type Ecosystem string

const (
	EcosystemPyPI     Ecosystem = "pypi"
	EcosystemNPM      Ecosystem = "npm"
	EcosystemGo       Ecosystem = "go"
	EcosystemCargo    Ecosystem = "cargo"
	EcosystemSolidity Ecosystem = "solidity"
)

// VersionConflict records one version requirement that lost (or has
// not yet been resolved) for a package declared in several manifests.
type VersionConflict struct {
	Manifest string `json:"manifest"`
	Version  string `json:"version"`
}

// Package is the canonical record for one external distribution.
type Package struct {
	Name      string    `json:"name"`
	Version   string    `json:"version,omitempty"`
	Ecosystem Ecosystem `json:"ecosystem,omitempty"`

	// ImportNames are the identifiers source files use to import this
	// distribution. Empty means "same as Name".
	ImportNames []string `json:"import_names,omitempty"`

	// FoundInManifests lists every manifest that declared the package,
	// in discovery order.
	FoundInManifests []string `json:"found_in_manifests,omitempty"`

	// VersionConflicts holds the competing requirements when manifests
	// disagree. After conflict resolution it keeps only the losers.
	VersionConflicts []VersionConflict `json:"version_conflicts,omitempty"`

	// DevOnly marks packages declared exclusively in development
	// dependency sections.
	DevOnly bool `json:"dev_only,omitempty"`

	// RepositoryURL is the package's source repository when the caller
	// resolved one. Analysis never fetches it.
	RepositoryURL string `json:"repository_url,omitempty"`
}

// EffectiveImportNames returns the import identifiers for the package,
// defaulting to the distribution name itself.
func (p *Package) EffectiveImportNames() []string {
	if len(p.ImportNames) > 0 {
		return p.ImportNames
	}
	return []string{p.Name}
}

// Registry holds the canonical package set keyed by distribution name,
// preserving insertion order for deterministic iteration.
type Registry struct {
	order    []string
	packages map[string]*Package
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{packages: make(map[string]*Package)}
}

// Get returns the package for a distribution name.
func (r *Registry) Get(name string) (*Package, bool) {
	p, ok := r.packages[name]
	return p, ok
}

// Put inserts or replaces a package record.
func (r *Registry) Put(p *Package) {
	if _, ok := r.packages[p.Name]; !ok {
		r.order = append(r.order, p.Name)
	}
	r.packages[p.Name] = p
}

// Names returns distribution names in insertion order.
func (r *Registry) Names() []string {
	return r.order
}

// SortedNames returns distribution names in lexicographic order.
func (r *Registry) SortedNames() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Len returns the number of packages.
func (r *Registry) Len() int {
	return len(r.order)
}

// ImportIndex builds a map from import identifier to the distribution
// names that provide it. Candidates are deduplicated (a package may
// declare the same import name more than once) and sorted so ambiguity
// handling downstream is deterministic.
func (r *Registry) ImportIndex() map[string][]string {
	index := make(map[string][]string)
	seen := make(map[string]map[string]struct{})
	for _, name := range r.order {
		for _, imp := range r.packages[name].EffectiveImportNames() {
			if _, ok := seen[imp][name]; ok {
				continue
			}
			if seen[imp] == nil {
				seen[imp] = make(map[string]struct{})
			}
			seen[imp][name] = struct{}{}
			index[imp] = append(index[imp], name)
		}
	}
	for imp := range index {
		sort.Strings(index[imp])
	}
	return index
}
