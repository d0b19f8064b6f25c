package depgraph

import (
	"io"
	"sort"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"github.com/drips-network/gardener-sub000/pkg/lang"
	"github.com/drips-network/gardener-sub000/pkg/pkgs"
	"github.com/drips-network/gardener-sub000/pkg/resolve"
)

// ComponentRef is one component usage extracted from a source file:
// the import identifier of the owning package plus the component
// string as written at the use site.
type ComponentRef struct {
	Package   string `json:"package"`
	Component string `json:"component"`
}

// Inputs carries everything the builder consumes: the repository
// snapshot, the deduplicated package registry, and the per-file
// extraction results.
type Inputs struct {
	Files    *resolve.FileSet
	Packages *pkgs.Registry

	// FileImports maps file paths to the package import identifiers
	// they reference.
	FileImports map[string][]string
	// FileComponents maps file paths to the package components they
	// use.
	FileComponents map[string][]ComponentRef
	// LocalImports maps file paths to the local files they import.
	LocalImports map[string][]string
}

// Builder assembles the dependency graph. A Builder is single-use:
// create one per Build call.
type Builder struct {
	weights Weights
	log     *charmlog.Logger

	graph   *Graph
	imports *ImportMap
	in      Inputs
}

// NewBuilder creates a builder with the given edge weights.
func NewBuilder(weights Weights, logger *charmlog.Logger) *Builder {
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	return &Builder{weights: weights, log: logger}
}

// Graph returns the graph built by the last Build call.
func (b *Builder) Graph() *Graph { return b.graph }

// ImportMap returns the import mapping from the last Build call.
func (b *Builder) ImportMap() *ImportMap { return b.imports }

// Build constructs the dependency graph: file nodes, package nodes,
// file-to-package edges, component nodes and edges, then local import
// edges. The order matters; file-package edges synthesize stdlib
// nodes that component handling relies on.
func (b *Builder) Build(in Inputs) *Graph {
	b.in = in
	b.graph = NewGraph()
	b.imports = BuildImportMap(in.Packages, b.log)

	b.addFileNodes()
	b.addPackageNodes()
	b.addFilePackageEdges()
	b.addComponentEdges()
	b.addLocalImportEdges()

	b.log.Info("dependency graph built",
		"nodes", b.graph.NumNodes(), "edges", b.graph.NumEdges())
	return b.graph
}

func (b *Builder) addFileNodes() {
	for _, relPath := range b.in.Files.Paths() {
		f, _ := b.in.Files.Get(relPath)
		language := f.Lang
		if language == lang.Unknown {
			language = lang.FromFilename(relPath)
		}
		b.graph.AddNode(Node{ID: relPath, Type: NodeFile, Language: language})
	}
}

func (b *Builder) addPackageNodes() {
	for _, dist := range b.in.Packages.Names() {
		p, _ := b.in.Packages.Get(dist)
		importNames := p.EffectiveImportNames()
		b.graph.AddNode(Node{
			ID:               dist,
			Type:             NodePackage,
			Ecosystem:        ecosystemLabel(p.Ecosystem),
			DistributionName: dist,
			ImportNames:      importNames,
		})
		for _, imp := range importNames {
			if resolved, ok := b.imports.Distribution(imp); ok {
				b.imports.BindNode(imp, resolved)
			} else {
				b.imports.BindNode(imp, dist)
			}
		}
	}
}

func ecosystemLabel(e pkgs.Ecosystem) string {
	if e == "" {
		return "unknown"
	}
	return string(e)
}

func (b *Builder) addFilePackageEdges() {
	for _, filePath := range sortedKeys(b.in.FileImports) {
		if !b.graph.HasNode(filePath) {
			continue
		}
		for _, packageName := range b.in.FileImports[filePath] {
			b.connectFileToPackage(filePath, packageName)
		}
	}
}

func (b *Builder) connectFileToPackage(filePath, packageName string) {
	target, ok := b.imports.NodeFor(packageName)
	if !ok {
		if p, declared := b.in.Packages.Get(packageName); declared {
			// Declared packages normally get bound in addPackageNodes;
			// reaching here means the mapping was incomplete.
			target = packageName
			b.log.Warn("package declared but missing from import mapping", "package", packageName)
			if !b.graph.HasNode(target) {
				b.addObjectNode(Node{
					ID:               target,
					Type:             NodePackage,
					Ecosystem:        ecosystemLabel(p.Ecosystem),
					DistributionName: target,
					ImportNames:      p.EffectiveImportNames(),
				})
			}
			b.imports.BindNode(packageName, target)
		} else if candidate, hit := b.scopedCoreHeuristic(filePath, packageName); hit {
			target = candidate
		} else {
			target = b.synthesizePackageNode(filePath, packageName)
		}
	}

	attrs := Edge{
		Source: filePath,
		Target: target,
		Type:   EdgeImportsPackage,
		Weight: b.weights.ImportsPackage,
		Ident:  packageName,
	}
	if b.imports.IsAmbiguous(packageName) {
		attrs.AmbiguityResolution = "lexicographic"
	}
	b.graph.AddEdge(attrs)
}

// scopedCoreHeuristic maps an undeclared scoped npm import like
// "@scope/foo" onto a declared "@scope/core" package, caching the
// binding for later imports.
func (b *Builder) scopedCoreHeuristic(filePath, packageName string) (string, bool) {
	node, _ := b.graph.Node(filePath)
	if node.Language != lang.JavaScript && node.Language != lang.TypeScript {
		return "", false
	}
	if !strings.HasPrefix(packageName, "@") || !strings.Contains(packageName, "/") {
		return "", false
	}
	scope, _, _ := strings.Cut(packageName, "/")
	candidate := scope + "/core"
	if _, ok := b.in.Packages.Get(candidate); !ok {
		return "", false
	}
	b.imports.BindNode(packageName, candidate)
	b.log.Debug("mapped scoped import via @scope/core heuristic",
		"import", packageName, "package", candidate)
	return candidate, true
}

// synthesizePackageNode creates a node for an import no manifest
// declares, classifying it as the importing language's stdlib when the
// name fits, otherwise as unknown. The "node:fs" specifier collapses
// onto a single "fs" node carrying both import names.
func (b *Builder) synthesizePackageNode(filePath, packageName string) string {
	node, _ := b.graph.Node(filePath)
	ecosystem := "unknown"
	if node.Language.StdlibImport(packageName) {
		ecosystem = node.Language.StdlibEcosystem()
	}

	nodeID := packageName
	importNames := []string{packageName}
	if packageName == "node:fs" {
		nodeID = "fs"
		importNames = []string{"fs", "node:fs"}
	}

	b.addObjectNode(Node{
		ID:               nodeID,
		Type:             NodePackage,
		Ecosystem:        ecosystem,
		DistributionName: nodeID,
		ImportNames:      importNames,
	})
	for _, imp := range importNames {
		b.imports.BindNode(imp, nodeID)
	}
	return nodeID
}

func (b *Builder) addObjectNode(n Node) {
	b.graph.AddNode(n)
}

func (b *Builder) addComponentEdges() {
	for _, filePath := range sortedKeys(b.in.FileComponents) {
		if !b.graph.HasNode(filePath) {
			continue
		}
		for _, ref := range b.in.FileComponents[filePath] {
			b.connectComponent(filePath, ref)
		}
	}
}

func (b *Builder) connectComponent(filePath string, ref ComponentRef) {
	dist, ecosystem, ok := b.distributionContext(ref.Package)
	if !ok {
		return
	}

	componentID, simpleName := normalizeComponentID(ref.Package, ref.Component)
	if componentID == "" {
		return
	}

	if !b.graph.HasNode(componentID) {
		b.addObjectNode(Node{
			ID:               componentID,
			Type:             NodeComponent,
			Package:          ref.Package,
			DistributionName: dist,
			Ecosystem:        ecosystem,
			Component:        simpleName,
		})
		containsSource := ref.Package
		if node, ok := b.imports.NodeFor(ref.Package); ok {
			containsSource = node
		}
		if b.graph.HasNode(containsSource) {
			b.graph.AddEdge(Edge{
				Source: containsSource,
				Target: componentID,
				Type:   EdgeContainsComponent,
				Weight: b.weights.ContainsComponent,
			})
		}
	}

	b.graph.AddEdge(Edge{
		Source: filePath,
		Target: componentID,
		Type:   EdgeUsesComponent,
		Weight: b.weights.UsesComponent,
		Ident:  ref.Component,
	})
}

// distributionContext resolves which distribution node and attributes
// apply for a component's package identifier.
func (b *Builder) distributionContext(pkgName string) (dist, ecosystem string, ok bool) {
	distNode, found := b.imports.NodeFor(pkgName)
	if !found {
		if _, declared := b.in.Packages.Get(pkgName); declared {
			distNode = pkgName
		} else {
			b.log.Debug("skipping unknown package for component", "package", pkgName)
			return "", "", false
		}
	}

	dist = distNode
	ecosystem = "unknown"
	if node, exists := b.graph.Node(distNode); exists {
		if node.DistributionName != "" {
			dist = node.DistributionName
		}
		if node.Ecosystem != "" {
			ecosystem = node.Ecosystem
		}
	}
	return dist, ecosystem, true
}

func (b *Builder) addLocalImportEdges() {
	added := 0
	for _, importingFile := range sortedKeys(b.in.LocalImports) {
		if !b.graph.HasNode(importingFile) {
			b.log.Warn("importing file missing from graph, skipping local imports", "file", importingFile)
			continue
		}
		for _, importedFile := range b.in.LocalImports[importingFile] {
			if !b.ensureFileNode(importedFile, importingFile) {
				continue
			}
			b.graph.AddEdge(Edge{
				Source: importingFile,
				Target: importedFile,
				Type:   EdgeImportsLocal,
				Weight: b.weights.ImportsLocal,
			})
			added++
		}
	}
	b.log.Debug("added local import edges", "count", added)
}

// ensureFileNode lazily creates nodes for files that resolution
// discovered after the initial scan (data files registered by the
// disk prober).
func (b *Builder) ensureFileNode(relPath, importingFile string) bool {
	if b.graph.HasNode(relPath) {
		return true
	}
	f, known := b.in.Files.Get(relPath)
	if !known {
		b.log.Warn("locally imported file not found in source files",
			"file", relPath, "imported_from", importingFile)
		return false
	}
	language := f.Lang
	if language == lang.Unknown {
		language = lang.FromFilename(relPath)
	}
	b.graph.AddNode(Node{ID: relPath, Type: NodeFile, Language: language})
	b.log.Info("added late file node for local import", "file", relPath)
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
