package resolve

import "strings"

// FrameworkAlias describes one framework path convention, like the
// SvelteKit $lib prefix. An alias either maps to a directory in the
// repository or to a virtual package provided by the framework itself.
type FrameworkAlias struct {
	// Name identifies the convention, e.g. "sveltekit_lib".
	Name string
	// Prefix is matched against the start of the import specifier.
	Prefix string
	// BasePath is the repository directory the prefix maps to.
	// Ignored when Package is set.
	BasePath string
	// ExtraExtensions are tried in addition to the configured
	// extension list, but only for imports under this prefix.
	ExtraExtensions []string
	// Package is the distribution the prefix belongs to, when the
	// alias names a virtual module rather than repository files.
	Package     string
	Description string
}

// FrameworkAliases holds framework conventions in a fixed order so
// prefix matching is deterministic.
type FrameworkAliases struct {
	aliases []FrameworkAlias
}

// DefaultFrameworkAliases returns the built-in conventions.
func DefaultFrameworkAliases() *FrameworkAliases {
	return &FrameworkAliases{aliases: []FrameworkAlias{
		{
			Name:            "sveltekit_lib",
			Prefix:          "$lib/",
			BasePath:        "src/lib/",
			ExtraExtensions: []string{".svelte"},
			Description:     "SvelteKit $lib alias convention",
		},
		{
			Name:        "sveltekit_app",
			Prefix:      "$app/",
			Package:     "@sveltejs/kit",
			Description: "SvelteKit $app virtual module",
		},
		{
			Name:        "sveltekit_env",
			Prefix:      "$env/",
			Package:     "@sveltejs/kit",
			Description: "SvelteKit $env virtual module",
		},
	}}
}

// Add registers or replaces a convention by name.
func (f *FrameworkAliases) Add(alias FrameworkAlias) {
	for i, a := range f.aliases {
		if a.Name == alias.Name {
			f.aliases[i] = alias
			return
		}
	}
	f.aliases = append(f.aliases, alias)
}

// Remove deletes a convention by name.
func (f *FrameworkAliases) Remove(name string) {
	for i, a := range f.aliases {
		if a.Name == name {
			f.aliases = append(f.aliases[:i], f.aliases[i+1:]...)
			return
		}
	}
}

// configFor returns the first convention whose prefix matches.
func (f *FrameworkAliases) configFor(module string) *FrameworkAlias {
	for i := range f.aliases {
		if strings.HasPrefix(module, f.aliases[i].Prefix) {
			return &f.aliases[i]
		}
	}
	return nil
}

// PackageFor returns the virtual-package name for the import, or ""
// when the import is not a package-backed framework alias.
func (f *FrameworkAliases) PackageFor(module string) string {
	if c := f.configFor(module); c != nil {
		return c.Package
	}
	return ""
}

// ResolvePath maps a framework-aliased import to its conventional
// repository path. Returns "" when no convention matches.
func (f *FrameworkAliases) ResolvePath(module string) string {
	c := f.configFor(module)
	if c == nil {
		return ""
	}
	rest := strings.TrimPrefix(module, c.Prefix)
	base := strings.TrimSuffix(c.BasePath, "/")
	if rest == "" {
		return base
	}
	return base + "/" + rest
}

// ExtraExtensionsFor returns framework-specific extensions for the
// import, e.g. ".svelte" for $lib imports.
func (f *FrameworkAliases) ExtraExtensionsFor(module string) []string {
	if c := f.configFor(module); c != nil {
		return c.ExtraExtensions
	}
	return nil
}
