package resolve

import (
	"path"
	"sort"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// AliasRule is a single custom alias mapping. Targets are tried in
// order until one resolves; higher-priority rules are tried first.
type AliasRule struct {
	Pattern     string
	Targets     []string
	Priority    int
	Description string
}

// PathAlias is one tsconfig/jsconfig "paths" entry. Entries keep the
// order they were declared in so resolution never depends on map
// iteration order.
type PathAlias struct {
	Pattern string
	Targets []string
}

// AliasConfig combines the three alias sources for a project: custom
// rules, tsconfig/jsconfig path aliases and framework conventions.
type AliasConfig struct {
	// BaseURL is the compilerOptions.baseUrl value; when set it is
	// prepended to every tsconfig path-alias target before lookup.
	BaseURL string
	// Paths are the compilerOptions.paths entries, in declared order.
	Paths []PathAlias
	// CustomRules are user-supplied rules, kept sorted by descending
	// priority. Use AddCustomRule to preserve the ordering.
	CustomRules []AliasRule
	// Frameworks holds framework path conventions. Nil means no
	// framework handling.
	Frameworks *FrameworkAliases
	// Extensions are the file extensions probed during lookup, in
	// priority order. Empty uses DefaultAliasExtensions.
	Extensions []string
}

// DefaultAliasExtensions is the probe order for alias lookups. Unlike
// plain relative resolution it includes .json, since path aliases
// regularly point at data files.
var DefaultAliasExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".json"}

// NewAliasConfig returns a config with default extensions and the
// built-in framework conventions.
func NewAliasConfig() *AliasConfig {
	return &AliasConfig{
		Extensions: append([]string(nil), DefaultAliasExtensions...),
		Frameworks: DefaultFrameworkAliases(),
	}
}

// AddCustomRule appends a rule and re-sorts by descending priority.
// The sort is stable so equal-priority rules keep insertion order.
func (c *AliasConfig) AddCustomRule(rule AliasRule) {
	c.CustomRules = append(c.CustomRules, rule)
	sort.SliceStable(c.CustomRules, func(i, j int) bool {
		return c.CustomRules[i].Priority > c.CustomRules[j].Priority
	})
}

// AddPath appends a tsconfig-style path alias, replacing an existing
// entry with the same pattern.
func (c *AliasConfig) AddPath(pattern string, targets ...string) {
	for i := range c.Paths {
		if c.Paths[i].Pattern == pattern {
			c.Paths[i].Targets = targets
			return
		}
	}
	c.Paths = append(c.Paths, PathAlias{Pattern: pattern, Targets: targets})
}

// Merge folds another configuration into this one. BaseURL keeps the
// current value if already set; path patterns from other are added
// only when not already present; custom rules concatenate and re-sort;
// extensions union while preserving order.
func (c *AliasConfig) Merge(other *AliasConfig) {
	if other == nil {
		return
	}
	if c.BaseURL == "" {
		c.BaseURL = other.BaseURL
	}
	for _, p := range other.Paths {
		if !c.hasPath(p.Pattern) {
			c.Paths = append(c.Paths, p)
		}
	}
	c.CustomRules = append(c.CustomRules, other.CustomRules...)
	sort.SliceStable(c.CustomRules, func(i, j int) bool {
		return c.CustomRules[i].Priority > c.CustomRules[j].Priority
	})
	for _, ext := range other.Extensions {
		if !containsString(c.Extensions, ext) {
			c.Extensions = append(c.Extensions, ext)
		}
	}
}

func (c *AliasConfig) hasPath(pattern string) bool {
	for _, p := range c.Paths {
		if p.Pattern == pattern {
			return true
		}
	}
	return false
}

// ExtensionsFor returns the full probe list for an import, appending
// any framework extensions triggered by its prefix.
func (c *AliasConfig) ExtensionsFor(module string) []string {
	exts := c.Extensions
	if len(exts) == 0 {
		exts = DefaultAliasExtensions
	}
	out := append([]string(nil), exts...)
	if c.Frameworks != nil {
		for _, ext := range c.Frameworks.ExtraExtensionsFor(module) {
			if !containsString(out, ext) {
				out = append(out, ext)
			}
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// AliasResolver resolves non-relative JS/TS imports through the alias
// configuration. Relative imports are out of its scope; callers handle
// those directly.
type AliasResolver struct {
	config *AliasConfig
	files  *FileSet
	prober DiskProber
	log    *charmlog.Logger
}

func newAliasResolver(config *AliasConfig, files *FileSet, prober DiskProber, logger *charmlog.Logger) *AliasResolver {
	return &AliasResolver{config: config, files: files, prober: prober, log: logger}
}

// Config returns the resolver's configuration.
func (a *AliasResolver) Config() *AliasConfig { return a.config }

// PackageFor reports the virtual package an import belongs to, or "".
func (a *AliasResolver) PackageFor(module string) string {
	if a.config.Frameworks == nil {
		return ""
	}
	return a.config.Frameworks.PackageFor(module)
}

// Resolve maps a non-relative import to a repository-relative file
// path, trying custom rules, then tsconfig path aliases, then
// framework conventions. Returns "" when nothing matches or the import
// belongs to a virtual package.
func (a *AliasResolver) Resolve(module string) string {
	if strings.HasPrefix(module, ".") {
		return ""
	}
	if p := a.tryCustomRules(module); p != "" {
		return p
	}
	if p := a.tryPathAliases(module); p != "" {
		return p
	}
	return a.tryFrameworkAliases(module)
}

func (a *AliasResolver) tryCustomRules(module string) string {
	for _, rule := range a.config.CustomRules {
		if !matchAliasPattern(module, rule.Pattern) {
			continue
		}
		for _, target := range rule.Targets {
			candidate, ok := applyAliasPattern(module, rule.Pattern, target)
			if !ok {
				continue
			}
			if found := a.findWithExtensions(candidate, module); found != "" {
				return found
			}
		}
	}
	return ""
}

func (a *AliasResolver) tryPathAliases(module string) string {
	for _, alias := range a.config.Paths {
		if !matchAliasPattern(module, alias.Pattern) {
			continue
		}
		for _, target := range alias.Targets {
			candidate, ok := applyAliasPattern(module, alias.Pattern, target)
			if !ok {
				continue
			}
			if a.config.BaseURL != "" {
				candidate = path.Join(a.config.BaseURL, candidate)
			}
			if found := a.findWithExtensions(candidate, module); found != "" {
				return found
			}
		}
	}
	return ""
}

func (a *AliasResolver) tryFrameworkAliases(module string) string {
	if a.config.Frameworks == nil {
		return ""
	}
	// Package-backed aliases are external imports, not local files.
	if a.config.Frameworks.PackageFor(module) != "" {
		return ""
	}
	candidate := a.config.Frameworks.ResolvePath(module)
	if candidate == "" {
		return ""
	}
	return a.findWithExtensions(candidate, module)
}

// matchAliasPattern checks an import against an alias pattern. Three
// forms are supported: an exact string, "prefix/*" matching the prefix
// itself or anything nested under it, and "prefix*" matching any
// string starting with the prefix.
func matchAliasPattern(module, pattern string) bool {
	switch {
	case strings.HasSuffix(pattern, "/*"):
		prefix := strings.TrimSuffix(pattern, "/*")
		return module == prefix || strings.HasPrefix(module, prefix+"/")
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(module, strings.TrimSuffix(pattern, "*"))
	case strings.Contains(pattern, "*"):
		return false
	default:
		return module == pattern
	}
}

// applyAliasPattern captures the wildcard remainder of module relative
// to pattern and substitutes it into target, which supports the same
// three forms.
func applyAliasPattern(module, pattern, target string) (string, bool) {
	if !strings.Contains(pattern, "*") {
		return target, true
	}

	var wildcard string
	switch {
	case strings.HasSuffix(pattern, "/*"):
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(module, prefix+"/") {
			wildcard = module[len(prefix)+1:]
		}
	case strings.HasSuffix(pattern, "*"):
		wildcard = module[len(strings.TrimSuffix(pattern, "*")):]
	}

	switch {
	case strings.HasSuffix(target, "/*"):
		base := strings.TrimSuffix(target, "/*")
		if wildcard == "" {
			return base, base != ""
		}
		return path.Join(base, wildcard), true
	case strings.HasSuffix(target, "*"):
		base := strings.TrimSuffix(target, "*")
		res := base + wildcard
		return res, res != ""
	case strings.Contains(target, "*"):
		return "", false
	default:
		if wildcard == "" {
			return target, target != ""
		}
		return path.Join(target, wildcard), true
	}
}

// findWithExtensions probes a candidate path: exact (known file or on
// disk), then with each extension, then as a directory index when the
// candidate has no extension.
func (a *AliasResolver) findWithExtensions(candidate, module string) string {
	normalized := path.Clean(candidate)

	if a.files.Has(normalized) {
		return normalized
	}
	if a.prober != nil && a.prober(normalized) {
		return normalized
	}

	exts := a.config.ExtensionsFor(module)
	for _, ext := range exts {
		if p := normalized + ext; a.files.Has(p) {
			return p
		}
	}
	if path.Ext(normalized) == "" {
		for _, ext := range exts {
			if p := path.Join(normalized, "index"+ext); a.files.Has(p) {
				return p
			}
		}
	}
	return ""
}
