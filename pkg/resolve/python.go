package resolve

import (
	"path"
	"strings"
)

// ResolvePython resolves a Python import to a local file. module is the
// dotted module path (may be empty for a bare relative import) and
// level is the number of leading dots on a relative import, zero for
// absolute imports.
//
// For each candidate base path both "<base>.py" and
// "<base>/__init__.py" are tried against the known files.
func (r *Resolver) ResolvePython(importingFile, module string, level int) Resolution {
	if module == "" && level == 0 {
		return unresolved()
	}

	var base string
	if level > 0 {
		dir, ok := pyRelativeBase(importingFile, level)
		if !ok {
			return unresolved()
		}
		if module == "" {
			// "from . import x" targets the package itself.
			if r.files.Has(path.Join(dir, "__init__.py")) {
				return resolvedFile(path.Join(dir, "__init__.py"))
			}
			return unresolved()
		}
		base = path.Join(dir, modulePathJoin(module))
	} else {
		base = modulePathJoin(module)
	}

	for _, candidate := range []string{base + ".py", path.Join(base, "__init__.py")} {
		if r.files.Has(candidate) {
			return resolvedFile(path.Clean(candidate))
		}
	}
	return unresolved()
}

// pyRelativeBase walks up from the importing file's directory for a
// relative import of the given level. Level 1 is the file's own
// package; each further level climbs one directory. Walking past the
// repository root fails.
func pyRelativeBase(importingFile string, level int) (string, bool) {
	dir := path.Dir(importingFile)
	for i := 1; i < level; i++ {
		if dir == "." {
			return "", false
		}
		dir = path.Dir(dir)
	}
	return dir, true
}

func modulePathJoin(module string) string {
	return strings.ReplaceAll(module, ".", "/")
}
