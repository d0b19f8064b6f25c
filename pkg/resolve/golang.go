package resolve

import (
	"path"
	"strings"
)

// ResolveGo resolves a Go import path to a local file. Relative
// specifiers resolve against the importing file's directory; absolute
// specifiers resolve only when prefixed by the repository's declared
// module path.
func (r *Resolver) ResolveGo(importingFile, importPath string) Resolution {
	var target string
	switch {
	case strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") || importPath == ".":
		target = path.Join(path.Dir(importingFile), importPath)
	case r.GoModulePath != "" && (importPath == r.GoModulePath || strings.HasPrefix(importPath, r.GoModulePath+"/")):
		target = path.Clean(strings.TrimPrefix(strings.TrimPrefix(importPath, r.GoModulePath), "/"))
		if target == "" {
			target = "."
		}
	default:
		return unresolved()
	}

	if p := target + ".go"; r.files.Has(p) {
		return resolvedFile(path.Clean(p))
	}
	if p := path.Join(target, path.Base(target)+".go"); target != "." && r.files.Has(p) {
		return resolvedFile(p)
	}

	// Fall back to scanning the package directory. A single .go file
	// is an unambiguous hit; several files mean the import names the
	// package as a whole and no one file can stand in for it.
	var matches []string
	for _, p := range r.files.InDir(target) {
		if strings.HasSuffix(p, ".go") {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 1:
		return resolvedFile(matches[0])
	case 0:
		return unresolved()
	default:
		r.log.Warn("ambiguous go import, multiple files in package directory",
			"import", importPath, "dir", target, "matches", len(matches))
		return unresolved()
	}
}
