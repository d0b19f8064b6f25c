package resolve

import (
	"path"
	"strings"
)

// ResolveSolidity resolves a Solidity import path to a local file.
// Non-relative paths go through the remapping tables, hardhat-derived
// entries before manually authored ones. Relative paths join against
// the importing file's directory, with a retry inside the configured
// source root for imports that climb out of it.
func (r *Resolver) ResolveSolidity(importingFile, importPath string) Resolution {
	if !strings.HasPrefix(importPath, ".") {
		for _, table := range [][]Remapping{r.HardhatRemappings, r.Remappings} {
			for _, m := range table {
				if !strings.HasPrefix(importPath, m.Prefix) {
					continue
				}
				remainder := strings.TrimPrefix(importPath, m.Prefix)
				candidate := path.Clean(path.Join(m.Target, remainder))
				if r.files.Has(candidate) {
					return resolvedFile(candidate)
				}
			}
		}
		return unresolved()
	}

	target := path.Join(path.Dir(importingFile), importPath)
	if !strings.HasSuffix(target, ".sol") {
		return unresolved()
	}
	if r.files.Has(target) {
		return resolvedFile(path.Clean(target))
	}

	// Imports written as "../x.sol" from inside the source root often
	// mean a sibling under that root once build-tool path mangling is
	// unwound; retry with the source root substituted for the "../".
	if r.SoliditySrcPath != "" &&
		strings.HasPrefix(importPath, "../") &&
		strings.HasPrefix(importingFile, r.SoliditySrcPath+"/") {
		fallback := path.Clean(path.Join(r.SoliditySrcPath, strings.TrimPrefix(importPath, "../")))
		if r.files.Has(fallback) {
			return resolvedFile(fallback)
		}
	}
	return unresolved()
}
