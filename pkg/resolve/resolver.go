// Package resolve turns language-specific import statements into
// repository-relative file paths. Each supported language has its own
// resolver implementing that ecosystem's lookup rules over a shared
// FileSet of known source files; none of them touch the network and
// only the JS/TS path may consult the disk, through an injected
// DiskProber.
package resolve

import (
	"io"

	charmlog "github.com/charmbracelet/log"
)

// ResolutionKind classifies a resolver outcome.
type ResolutionKind int

const (
	// KindUnresolved means the import could not be mapped to anything
	// local. Callers fall back to external-package mapping.
	KindUnresolved ResolutionKind = iota
	// KindFile means the import maps to a known local source file.
	KindFile
	// KindVirtualPackage means the import is a framework-provided
	// virtual module that should be attributed to an npm package
	// rather than a file, e.g. $app/stores -> @sveltejs/kit.
	KindVirtualPackage
)

// Resolution is the outcome of resolving one import statement.
type Resolution struct {
	Kind ResolutionKind
	// Path is the repository-relative file path when Kind is KindFile.
	Path string
	// Package is the distribution name when Kind is KindVirtualPackage.
	Package string
}

// IsResolved reports whether the import mapped to a file or a
// virtual package.
func (r Resolution) IsResolved() bool { return r.Kind != KindUnresolved }

func unresolved() Resolution              { return Resolution{Kind: KindUnresolved} }
func resolvedFile(p string) Resolution    { return Resolution{Kind: KindFile, Path: p} }
func virtualPackage(pkg string) Resolution { return Resolution{Kind: KindVirtualPackage, Package: pkg} }

// Resolver resolves imports for every supported language against a
// single repository snapshot.
type Resolver struct {
	files  *FileSet
	prober DiskProber
	log    *charmlog.Logger

	// GoModulePath is the module path from the repository's go.mod,
	// used to translate absolute Go import paths into relative ones.
	GoModulePath string

	// HardhatRemappings and Remappings translate Solidity import
	// prefixes to repository directories. Hardhat remappings are
	// consulted first; within each list, order is significant.
	HardhatRemappings []Remapping
	Remappings        []Remapping

	// SoliditySrcPath names the configured source root (e.g. "src" or
	// "contracts"); when set, parent-relative imports that escape it
	// are retried inside it.
	SoliditySrcPath string

	// Aliases handles JS/TS path aliases (tsconfig paths, bundler
	// rules, framework conventions). Nil disables alias resolution.
	Aliases *AliasResolver
}

// Remapping rewrites a Solidity import prefix to a repository path
// prefix, mirroring forge/hardhat remapping entries.
type Remapping struct {
	Prefix string
	Target string
}

// Options configures a Resolver.
type Options struct {
	Prober            DiskProber
	Logger            *charmlog.Logger
	GoModulePath      string
	HardhatRemappings []Remapping
	Remappings        []Remapping
	SoliditySrcPath   string
	Aliases           *AliasConfig
}

// New creates a Resolver over the given file set.
func New(files *FileSet, opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	r := &Resolver{
		files:             files,
		prober:            opts.Prober,
		log:               logger,
		GoModulePath:      opts.GoModulePath,
		HardhatRemappings: opts.HardhatRemappings,
		Remappings:        opts.Remappings,
		SoliditySrcPath:   opts.SoliditySrcPath,
	}
	if opts.Aliases != nil {
		r.Aliases = newAliasResolver(opts.Aliases, files, opts.Prober, logger)
	}
	return r
}

// Files returns the underlying file set. Resolution may grow it when
// the disk prober discovers data files next to their importers.
func (r *Resolver) Files() *FileSet { return r.files }
