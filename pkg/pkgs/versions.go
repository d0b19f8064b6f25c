package pkgs

import (
	"strconv"
	"strings"
)

// ResolveVersionConflict picks one of two version requirement strings
// for the same package. The order of precedence, checked in turn:
//
//  1. workspace: references always lose to anything else.
//  2. "latest" and "*" lose to any concrete requirement.
//  3. When both sides parse as semver, the component-wise greater
//     version wins.
//  4. A ranged requirement (^ ~ > <) loses to an exact one.
//  5. Otherwise the first argument wins.
//
// The function is total: any pair of strings yields an answer.
func ResolveVersionConflict(v1, v2 string) string {
	if strings.Contains(v1, "workspace:") {
		return v2
	}
	if strings.Contains(v2, "workspace:") {
		return v1
	}

	if v1 == "latest" || v1 == "*" {
		return v2
	}
	if v2 == "latest" || v2 == "*" {
		return v1
	}

	if p1, ok1 := parseSemver(v1); ok1 {
		if p2, ok2 := parseSemver(v2); ok2 {
			for i := 0; i < 3; i++ {
				if p1[i] > p2[i] {
					return v1
				}
				if p1[i] < p2[i] {
					return v2
				}
			}
		}
	}

	if strings.ContainsAny(v1, "^~><") {
		if !strings.ContainsAny(v2, "^~><") {
			return v2
		}
	} else if strings.ContainsAny(v2, "^~><") {
		return v1
	}

	return v1
}

// parseSemver extracts (major, minor, patch) from a version string
// that may carry range symbols. Requires at least three dot-separated
// numeric components; pre-release suffixes on the patch are dropped.
func parseSemver(version string) ([3]int, bool) {
	cleaned := strings.TrimLeft(version, "^~>=<")
	parts := strings.Split(cleaned, ".")
	if len(parts) < 3 {
		return [3]int{}, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return [3]int{}, false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return [3]int{}, false
	}
	patchPart, _, _ := strings.Cut(parts[2], "-")
	patch := 0
	if patchPart != "" {
		if patch, err = strconv.Atoi(patchPart); err != nil {
			return [3]int{}, false
		}
	}
	return [3]int{major, minor, patch}, true
}
