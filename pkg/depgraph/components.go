package depgraph

import (
	"sort"
	"strings"
)

// normalizeComponentID converts a component string as written at the
// use site into the canonical component node id, returning also the
// simple name stored on the node. Returns "" when nothing remains
// after normalization.
//
// Normalization strips alias and symbol clauses, drops a trailing
// ".sol" on pathful identifiers, and prefixes the package name unless
// the identifier already carries it (dotted or Rust-style "::").
func normalizeComponentID(pkgName, component string) (id, simpleName string) {
	simpleName = component
	normalized := component

	if idx := strings.Index(normalized, " as "); idx >= 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	if idx := strings.Index(normalized, " {"); idx >= 0 && strings.HasSuffix(normalized, "}") {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	if strings.HasSuffix(normalized, ".sol") {
		normalized = strings.TrimSuffix(normalized, ".sol")
	}

	base := normalized
	if strings.HasPrefix(normalized, pkgName+".") {
		base = normalized[len(pkgName)+1:]
	}
	if base == "" {
		return "", simpleName
	}

	if strings.HasPrefix(normalized, pkgName+".") || strings.HasPrefix(normalized, pkgName+"::") {
		return normalized, simpleName
	}
	return pkgName + "." + base, simpleName
}

// FormatSymbols renders a symbol list as the " { A, B }" clause used
// in component strings: deduplicated, sorted, comma separated. Empty
// input yields "".
func FormatSymbols(symbols []string) string {
	seen := make(map[string]struct{})
	var unique []string
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		unique = append(unique, s)
	}
	if len(unique) == 0 {
		return ""
	}
	sort.Strings(unique)
	return " { " + strings.Join(unique, ", ") + " }"
}

// FormatSolidityComponent builds a Solidity component string.
//
// Local imports (leading dot) keep their path exactly as written.
// External imports are normalized under the package name: the package
// prefix and common vendor directory prefixes are stripped, and a
// trailing ".sol" is dropped unless the import is aliased without
// symbols. Symbol and alias clauses are appended afterwards.
func FormatSolidityComponent(importPath, packageName, alias string, symbols []string) string {
	symbolsClause := FormatSymbols(symbols)

	var base string
	if strings.HasPrefix(importPath, ".") {
		base = importPath
	} else {
		base = formatExternalSolidityBase(importPath, packageName, symbolsClause, alias)
	}

	out := base + symbolsClause
	if alias != "" {
		out += " as " + alias
	}
	return out
}

func formatExternalSolidityBase(importPath, packageName, symbolsClause, alias string) string {
	if packageName == "" {
		if strings.HasSuffix(importPath, ".sol") && (alias == "" || symbolsClause != "") {
			return strings.TrimSuffix(importPath, ".sol")
		}
		return importPath
	}

	normalized := normalizeSolidityImportPath(importPath, packageName)
	if strings.HasSuffix(normalized, ".sol") && (alias == "" || symbolsClause != "") {
		normalized = strings.TrimSuffix(normalized, ".sol")
	}
	return packageName + "." + normalized
}

// normalizeSolidityImportPath strips the package prefix and the first
// matching vendor directory prefix from an external import path.
func normalizeSolidityImportPath(path, packageName string) string {
	normalized := strings.TrimPrefix(path, packageName+"/")
	for _, prefix := range []string{"lib/" + packageName + "/", "src/" + packageName + "/", "src/", "lib/"} {
		if strings.HasPrefix(normalized, prefix) {
			normalized = normalized[len(prefix):]
			break
		}
	}
	return normalized
}
