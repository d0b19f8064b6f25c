package resolve

import (
	"path"
	"strings"

	"github.com/drips-network/gardener-sub000/pkg/lang"
)

// DefaultJSExtensions is the probe order for relative JS/TS imports
// when no alias configuration supplies one.
var DefaultJSExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}

// jsDataLikeExts are extensions the disk prober may legitimately
// discover and register even though the repository scan skipped them.
var jsDataLikeExts = []string{".json", ".cjs", ".mjs"}

// ResolveJS resolves a JavaScript or TypeScript import specifier.
// Non-relative specifiers go through the alias resolver and may come
// back as a virtual package; relative specifiers resolve against the
// importing file's directory, probing as-is, then with each source
// extension, then as a directory index.
func (r *Resolver) ResolveJS(importingFile, module string) Resolution {
	if r.Aliases != nil {
		if pkg := r.Aliases.PackageFor(module); pkg != "" {
			return virtualPackage(pkg)
		}
		if p := r.Aliases.Resolve(module); p != "" {
			return resolvedFile(p)
		}
	}

	if !strings.HasPrefix(module, ".") {
		return unresolved()
	}

	relBase := path.Join(path.Dir(importingFile), module)
	if strings.HasPrefix(relBase, "..") {
		return unresolved()
	}

	if res := r.jsTryAsIsOrDataLike(relBase); res.IsResolved() {
		return res
	}
	for _, ext := range r.jsExtensions(module) {
		if p := relBase + ext; r.files.Has(p) {
			return resolvedFile(p)
		}
	}
	if path.Ext(relBase) == "" {
		for _, ext := range r.jsExtensions(module) {
			if p := path.Join(relBase, "index"+ext); r.files.Has(p) {
				return resolvedFile(p)
			}
		}
	}
	return unresolved()
}

// jsTryAsIsOrDataLike checks the exact path against the known files,
// then against the disk. Data-like files found on disk (config and
// JSON modules the scan does not list) are registered so later graph
// stages see them.
func (r *Resolver) jsTryAsIsOrDataLike(relBase string) Resolution {
	if r.files.Has(relBase) {
		return resolvedFile(relBase)
	}
	if r.prober == nil || !r.prober(relBase) {
		return unresolved()
	}
	for _, ext := range jsDataLikeExts {
		if strings.HasSuffix(relBase, ext) {
			language := lang.JavaScript
			if ext == ".json" {
				language = lang.JSON
			}
			r.files.Add(SourceFile{RelPath: relBase, Lang: language})
			return resolvedFile(relBase)
		}
	}
	return unresolved()
}

func (r *Resolver) jsExtensions(module string) []string {
	if r.Aliases != nil {
		return r.Aliases.Config().ExtensionsFor(module)
	}
	return DefaultJSExtensions
}
