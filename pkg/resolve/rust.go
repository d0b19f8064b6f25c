package resolve

import (
	"path"
)

// rustCrateLocalRoots are the path roots that always refer to the
// current crate rather than an external one.
var rustCrateLocalRoots = map[string]struct{}{
	"crate": {},
	"self":  {},
	"super": {},
}

// RustUseIsLocal reports whether a use path refers to the current
// crate. inlineModules holds the names of top-level inline modules
// declared in the importing file; those count as local roots alongside
// crate/self/super.
func RustUseIsLocal(parts []string, inlineModules map[string]struct{}) bool {
	if len(parts) == 0 {
		return false
	}
	if _, ok := rustCrateLocalRoots[parts[0]]; ok {
		return true
	}
	_, ok := inlineModules[parts[0]]
	return ok
}

// ResolveRust resolves a Rust use path, given as its :: separated
// segments, to a local file. Wildcard imports keep their trailing "*"
// segment.
func (r *Resolver) ResolveRust(importingFile string, parts []string) Resolution {
	if len(parts) == 0 {
		return unresolved()
	}

	first := parts[0]
	var dir string
	var rest []string
	switch first {
	case "crate":
		dir = "src"
		rest = parts[1:]
	case "self":
		dir = path.Dir(importingFile)
		rest = parts[1:]
	case "super":
		dir = path.Dir(path.Dir(importingFile))
		rest = parts[1:]
	default:
		// Inline-module names and bare module paths both resolve
		// relative to the importing file's directory.
		dir = path.Dir(importingFile)
		rest = parts
	}

	if len(rest) == 0 {
		if first == "crate" {
			for _, p := range []string{"src/lib.rs", "src/main.rs"} {
				if r.files.Has(p) {
					return resolvedFile(p)
				}
			}
		}
		return unresolved()
	}

	if len(rest) == 1 && rest[0] == "*" {
		return r.rustWildcardRoot(importingFile, first, dir)
	}

	// Use paths frequently end in an item name rather than a module,
	// so probe progressively shorter segment prefixes, longest first.
	for length := len(rest); length >= 1; length-- {
		segs := rest[:length]
		if segs[length-1] == "*" {
			continue
		}
		file := path.Join(append([]string{dir}, segs[:length-1]...)...)
		file = path.Join(file, segs[length-1]+".rs")
		if r.files.Has(file) {
			return resolvedFile(file)
		}
		mod := path.Join(append([]string{dir}, segs...)...)
		mod = path.Join(mod, "mod.rs")
		if r.files.Has(mod) {
			return resolvedFile(mod)
		}
	}
	return unresolved()
}

// rustWildcardRoot handles "use root::*", which targets the root
// module's own file.
func (r *Resolver) rustWildcardRoot(importingFile, first, dir string) Resolution {
	switch first {
	case "crate":
		for _, p := range []string{"src/lib.rs", "src/main.rs"} {
			if r.files.Has(p) {
				return resolvedFile(p)
			}
		}
		return unresolved()
	case "self":
		return resolvedFile(path.Clean(importingFile))
	case "super":
		parent := path.Dir(importingFile)
		segment := path.Base(parent)
		current := path.Dir(parent)
		if p := path.Join(current, segment+".rs"); r.files.Has(p) {
			return resolvedFile(p)
		}
		if p := path.Join(current, segment, "mod.rs"); r.files.Has(p) {
			return resolvedFile(p)
		}
		return unresolved()
	default:
		return unresolved()
	}
}
