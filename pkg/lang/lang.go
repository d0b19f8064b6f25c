// Package lang defines the closed set of source languages the analyzer
// understands and the filename-based detection used to tag source files.
//
// Language is a tagged union rather than a free-form string so that every
// per-language dispatch in the resolver and graph layers can be an
// exhaustive switch instead of chained string comparisons.
package lang

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// Language identifies a supported source language.
type Language int

const (
	// Unknown is the zero value for files the analyzer cannot classify.
	Unknown Language = iota
	Python
	JavaScript
	TypeScript
	Go
	Rust
	Solidity
	// JSON tags data files discovered during JS/TS extension probing.
	// They participate in the graph as plain file nodes.
	JSON
)

var names = map[Language]string{
	Unknown:    "unknown",
	Python:     "python",
	JavaScript: "javascript",
	TypeScript: "typescript",
	Go:         "go",
	Rust:       "rust",
	Solidity:   "solidity",
	JSON:       "json",
}

// String returns the lowercase language name used in node attributes.
func (l Language) String() string {
	if s, ok := names[l]; ok {
		return s
	}
	return "unknown"
}

// MarshalJSON encodes the language as its string name.
func (l Language) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a language from its string name.
// Unrecognized names decode to Unknown rather than failing.
func (l *Language) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = Parse(s)
	return nil
}

// Parse maps a language name to its Language value.
func Parse(s string) Language {
	for l, name := range names {
		if name == strings.ToLower(s) {
			return l
		}
	}
	return Unknown
}

// extensions maps file extensions to languages. The .mjs/.cjs module
// variants are JavaScript, and .svelte files are parsed with the
// JavaScript grammar upstream so they are tagged as JavaScript here.
var extensions = map[string]Language{
	".py":     Python,
	".js":     JavaScript,
	".jsx":    JavaScript,
	".mjs":    JavaScript,
	".cjs":    JavaScript,
	".svelte": JavaScript,
	".ts":     TypeScript,
	".tsx":    TypeScript,
	".go":     Go,
	".rs":     Rust,
	".sol":    Solidity,
	".json":   JSON,
}

// FromFilename infers the language of a file from its name.
// Returns Unknown when the extension is not recognized.
func FromFilename(path string) Language {
	ext := strings.ToLower(filepath.Ext(filepath.Base(path)))
	if l, ok := extensions[ext]; ok {
		return l
	}
	return Unknown
}

// StdlibEcosystem returns the ecosystem label used for standard-library
// package nodes of this language (e.g. "python_stdlib").
func (l Language) StdlibEcosystem() string {
	switch l {
	case Go:
		return "go_stdlib"
	case Python:
		return "python_stdlib"
	case Rust:
		return "rust_stdlib"
	case JavaScript:
		return "js_stdlib"
	case TypeScript:
		return "ts_stdlib"
	case Solidity:
		return "solidity_stdlib"
	default:
		return "unknown_stdlib"
	}
}

// rustStdCrates is the fixed set of crate names shipped with the Rust
// toolchain that never appear in a Cargo manifest.
var rustStdCrates = map[string]struct{}{
	"std": {}, "core": {}, "alloc": {}, "test": {},
}

// StdlibImport reports whether an unmapped import name should be
// classified into this language's stdlib bucket rather than "unknown".
//
// Go imports are stdlib when the first path segment carries no dot (no
// registry host). Rust recognizes the toolchain crates by name. Python,
// JavaScript and TypeScript treat every undeclared import as stdlib
// since their manifests enumerate all third-party packages.
func (l Language) StdlibImport(name string) bool {
	switch l {
	case Go:
		first, _, _ := strings.Cut(name, "/")
		return !strings.Contains(first, ".")
	case Rust:
		_, ok := rustStdCrates[name]
		return ok
	case Python, JavaScript, TypeScript:
		return true
	default:
		return false
	}
}
