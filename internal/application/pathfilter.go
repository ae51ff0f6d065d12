package application

import (
	"strings"

	"github.com/gobwas/glob"
)

// exclusionState is the tri-state accumulator for the path filter. Rules are
// reduced left to right and the last matching rule wins, so a broad exclude can
// be overridden by a later, narrower negated rule.
type exclusionState int

const (
	stateUnset exclusionState = iota
	stateExclude
	stateInclude
)

// negationMarker prefixes a rule that re-admits matching paths.
const negationMarker = "!"

// IsExcluded reports whether path is out of scope for review under the given
// ordered rules. prefix is the path segment from the git toplevel to the
// configured repository path; it is stripped before matching so rules are
// written relative to the repository root.
//
// A rule matches when its glob matches the path directly, or as a one-level or
// any-depth directory prefix, or — for rules without glob metacharacters —
// when the path is exactly that bare segment or sits underneath it. A rule
// whose glob does not compile never matches. A path no rule matched is
// included by default.
func IsExcluded(path string, rules []string, prefix string) bool {
	if len(rules) == 0 {
		return false
	}

	normalized := strings.ReplaceAll(path, `\`, "/")
	if prefix != "" {
		normalized = strings.TrimPrefix(normalized, prefix)
	}

	state := stateUnset
	for _, rule := range rules {
		pattern, negated := strings.CutPrefix(rule, negationMarker)
		if !ruleMatches(pattern, normalized) {
			continue
		}
		if negated {
			state = stateInclude
		} else {
			state = stateExclude
		}
	}

	return state == stateExclude
}

// ruleMatches applies every supported match form for a single rule pattern.
func ruleMatches(pattern, path string) bool {
	if matchGlob(pattern, path) {
		return true
	}

	trimmed := strings.TrimRight(pattern, "/")
	if matchGlob(trimmed+"/*", path) || matchGlob(trimmed+"/**", path) {
		return true
	}

	// Bare folder names without glob metacharacters keep working as prefix
	// rules for backward compatibility.
	if !strings.ContainsAny(pattern, "*?[{") {
		if path == trimmed || strings.HasPrefix(path, trimmed+"/") {
			return true
		}
	}

	return false
}

// matchGlob compiles pattern without separator runes so "*" spans directory
// boundaries, mirroring fnmatch. An uncompilable pattern is a no-op, not an
// error: filter misconfiguration must never abort a pass.
func matchGlob(pattern, path string) bool {
	g, err := glob.Compile(pattern)
	if err != nil {
		return false
	}
	return g.Match(path)
}
