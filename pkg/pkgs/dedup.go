package pkgs

import (
	"io"

	charmlog "github.com/charmbracelet/log"
)

// ManifestPackages is one manifest's worth of parsed package
// declarations, as produced by the per-ecosystem manifest handlers.
type ManifestPackages struct {
	Manifest string
	Packages []Package
}

// Deduplicate merges package declarations from many manifests into a
// single registry. The first manifest to mention a package wins its
// metadata; later mentions append to FoundInManifests and, when their
// version disagrees, record a version conflict. Call ResolveConflicts
// afterwards to pick winners.
func Deduplicate(manifests []ManifestPackages) *Registry {
	reg := NewRegistry()
	for _, m := range manifests {
		for i := range m.Packages {
			incoming := m.Packages[i]
			existing, ok := reg.Get(incoming.Name)
			if !ok {
				p := incoming
				p.FoundInManifests = []string{m.Manifest}
				reg.Put(&p)
				continue
			}
			mergeDuplicate(existing, &incoming, m.Manifest)
		}
	}
	return reg
}

// mergeDuplicate folds a later declaration into the canonical record.
func mergeDuplicate(existing, incoming *Package, manifest string) {
	existing.FoundInManifests = append(existing.FoundInManifests, manifest)

	switch {
	case existing.Version != "" && incoming.Version != "" && existing.Version != incoming.Version:
		if len(existing.VersionConflicts) == 0 {
			first := "unknown"
			if len(existing.FoundInManifests) > 0 {
				first = existing.FoundInManifests[0]
			}
			existing.VersionConflicts = append(existing.VersionConflicts, VersionConflict{
				Manifest: first,
				Version:  existing.Version,
			})
		}
		conflict := VersionConflict{Manifest: manifest, Version: incoming.Version}
		if !hasConflict(existing.VersionConflicts, conflict) {
			existing.VersionConflicts = append(existing.VersionConflicts, conflict)
		}
	case existing.Version == "" && incoming.Version != "":
		existing.Version = incoming.Version
	}

	if len(existing.ImportNames) == 0 {
		existing.ImportNames = incoming.ImportNames
	}
	if existing.Ecosystem == "" {
		existing.Ecosystem = incoming.Ecosystem
	}
	// A package is dev-only only when every declaration says so.
	existing.DevOnly = existing.DevOnly && incoming.DevOnly
}

func hasConflict(list []VersionConflict, c VersionConflict) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}

// ResolveConflicts settles every recorded version conflict, writing
// the winning version onto each package and keeping only the losing
// requirements in VersionConflicts. One warning is logged per package
// that had a conflict.
func ResolveConflicts(reg *Registry, logger *charmlog.Logger) {
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	for _, name := range reg.Names() {
		p, _ := reg.Get(name)
		if len(p.VersionConflicts) == 0 {
			continue
		}

		var versions []string
		for _, c := range p.VersionConflicts {
			if c.Version != "" && !containsString(versions, c.Version) {
				versions = append(versions, c.Version)
			}
		}
		if len(versions) <= 1 {
			continue
		}

		resolved := versions[0]
		for _, v := range versions[1:] {
			resolved = ResolveVersionConflict(resolved, v)
		}
		p.Version = resolved

		var losers []VersionConflict
		for _, c := range p.VersionConflicts {
			if c.Version != resolved {
				losers = append(losers, c)
			}
		}
		p.VersionConflicts = losers

		logger.Warn("version conflict resolved",
			"package", name, "resolved", resolved, "conflicts", len(losers))
	}
}

// ConflictEntry summarizes one package's resolved conflict for
// reporting.
type ConflictEntry struct {
	Package          string            `json:"package"`
	ResolvedVersion  string            `json:"resolved_version"`
	Conflicts        []VersionConflict `json:"conflicts"`
	FoundInManifests []string          `json:"found_in_manifests"`
}

// ConflictSummary lists every package that still carries losing
// version requirements, in registry order.
func ConflictSummary(reg *Registry) []ConflictEntry {
	var summary []ConflictEntry
	for _, name := range reg.Names() {
		p, _ := reg.Get(name)
		if len(p.VersionConflicts) == 0 {
			continue
		}
		summary = append(summary, ConflictEntry{
			Package:          name,
			ResolvedVersion:  p.Version,
			Conflicts:        p.VersionConflicts,
			FoundInManifests: p.FoundInManifests,
		})
	}
	return summary
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
