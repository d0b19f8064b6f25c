package analysis

import (
	"encoding/json"

	"github.com/drips-network/gardener-sub000/pkg/depgraph"
	"github.com/drips-network/gardener-sub000/pkg/errors"
	"github.com/drips-network/gardener-sub000/pkg/lang"
	"github.com/drips-network/gardener-sub000/pkg/pkgs"
	"github.com/drips-network/gardener-sub000/pkg/resolve"
)

// Document is the fully-materialized input to an analysis run. It is
// what an extraction front end (AST walkers, manifest parsers) hands
// over: the source file inventory, the per-manifest package
// declarations, and the per-file import and component findings.
//
// The pipeline consumes the document as-is and performs no I/O, so a
// document round-trips through JSON for the CLI and the HTTP API.
type Document struct {
	// Repository identifies the analyzed repository. Used for output
	// naming and result metadata only.
	Repository string `json:"repository"`

	// Files is the repository source inventory in discovery order.
	Files []FileEntry `json:"files"`

	// Manifests lists package declarations per manifest file, in
	// discovery order. Duplicate declarations across manifests are
	// merged during analysis.
	Manifests []ManifestEntry `json:"manifests,omitempty"`

	// FileImports maps file paths to the package import identifiers
	// found in them.
	FileImports map[string][]string `json:"file_imports,omitempty"`

	// FileComponents maps file paths to the package components they
	// use.
	FileComponents map[string][]depgraph.ComponentRef `json:"file_components,omitempty"`

	// LocalImports maps file paths to the repository files they
	// import, already resolved to repository-relative paths.
	LocalImports map[string][]string `json:"local_imports,omitempty"`

	// RootPackages names the distributions the repository itself
	// publishes. They and their import names are excluded from the
	// top-dependency ranking.
	RootPackages []string `json:"root_packages,omitempty"`
}

// FileEntry is one source file in the input document.
type FileEntry struct {
	Path     string `json:"path"`
	Language string `json:"language"`
}

// ManifestEntry is one manifest file with the packages it declares.
type ManifestEntry struct {
	Path     string          `json:"path"`
	Packages []*pkgs.Package `json:"packages"`
}

// ParseDocument decodes and validates an input document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding input document")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks structural requirements on the document.
func (d *Document) Validate() error {
	seen := make(map[string]struct{}, len(d.Files))
	for i, f := range d.Files {
		if f.Path == "" {
			return errors.New(errors.ErrCodeInvalidInput, "file entry %d has no path", i)
		}
		if _, dup := seen[f.Path]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate file entry %q", f.Path)
		}
		seen[f.Path] = struct{}{}
	}
	for _, m := range d.Manifests {
		if m.Path == "" {
			return errors.New(errors.ErrCodeInvalidInput, "manifest entry has no path")
		}
		for _, p := range m.Packages {
			if p == nil || p.Name == "" {
				return errors.New(errors.ErrCodeInvalidInput, "manifest %s declares a package without a name", m.Path)
			}
		}
	}
	for _, owner := range []map[string][]string{d.FileImports, d.LocalImports} {
		for path := range owner {
			if _, ok := seen[path]; !ok {
				return errors.New(errors.ErrCodeInvalidInput, "import entry references unknown file %q", path)
			}
		}
	}
	for path := range d.FileComponents {
		if _, ok := seen[path]; !ok {
			return errors.New(errors.ErrCodeInvalidInput, "component entry references unknown file %q", path)
		}
	}
	return nil
}

// FileSet materializes the document's file inventory.
func (d *Document) FileSet() *resolve.FileSet {
	fs := resolve.NewFileSet()
	for _, f := range d.Files {
		language := lang.Parse(f.Language)
		if language == lang.Unknown {
			language = lang.FromFilename(f.Path)
		}
		fs.Add(resolve.SourceFile{RelPath: f.Path, Lang: language})
	}
	return fs
}

// ManifestPackages converts the document's manifest entries into the
// registry merge input, cloning packages so analysis never mutates the
// caller's document.
func (d *Document) ManifestPackages() []pkgs.ManifestPackages {
	out := make([]pkgs.ManifestPackages, 0, len(d.Manifests))
	for _, m := range d.Manifests {
		entry := pkgs.ManifestPackages{Manifest: m.Path}
		for _, p := range m.Packages {
			clone := *p
			clone.ImportNames = append([]string(nil), p.ImportNames...)
			clone.FoundInManifests = append([]string(nil), p.FoundInManifests...)
			clone.VersionConflicts = append([]pkgs.VersionConflict(nil), p.VersionConflicts...)
			entry.Packages = append(entry.Packages, clone)
		}
		out = append(out, entry)
	}
	return out
}
