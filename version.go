package barkml

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a semantic-version literal: major.minor.patch with an
// optional prerelease and build metadata, e.g. "1.2.3-beta+build".
// No semver library appears anywhere in the example corpus, so parsing
// is hand-rolled against the grammar the original lexer used (a regex
// over semver::Version); this is one of the two places this
// implementation is intentionally stdlib-only (see DESIGN.md).
type Version struct {
	Major, Minor, Patch uint64
	Prerelease          string
	Build               string
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

// Compare returns -1, 0, or 1 comparing v to o per semver precedence,
// ignoring build metadata (which carries no precedence per semver).
func (v Version) Compare(o Version) int {
	if c := cmpUint(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmpUint(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := cmpUint(v.Patch, o.Patch); c != 0 {
		return c
	}
	// A prerelease has lower precedence than its release.
	switch {
	case v.Prerelease == "" && o.Prerelease == "":
		return 0
	case v.Prerelease == "":
		return 1
	case o.Prerelease == "":
		return -1
	default:
		return strings.Compare(v.Prerelease, o.Prerelease)
	}
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ParseVersion parses "major.minor.patch[-prerelease][+build]".
func ParseVersion(s string) (Version, error) {
	rest := s
	var build string
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		build = rest[i+1:]
		rest = rest[:i]
	}
	var prerelease string
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		prerelease = rest[i+1:]
		rest = rest[:i]
	}
	parts := strings.Split(rest, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid semantic version %q: expected major.minor.patch", s)
	}
	nums := make([]uint64, 3)
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return Version{}, fmt.Errorf("invalid semantic version %q: %w", s, err)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2], Prerelease: prerelease, Build: build}, nil
}

// VersionReq is a semantic-version requirement: a comma-separated list
// of comparator clauses, all of which must hold (e.g. ">=1.0, <2.0").
type VersionReq struct {
	Raw         string
	Comparators []Comparator
}

// Comparator is a single "<op><version>" clause of a requirement. Op is
// one of "", "=", ">", ">=", "<", "<=", "^", "~".
type Comparator struct {
	Op      string
	Version Version
}

func (r VersionReq) String() string { return r.Raw }

// Matches reports whether v satisfies every comparator in the
// requirement.
func (r VersionReq) Matches(v Version) bool {
	for _, c := range r.Comparators {
		if !c.matches(v) {
			return false
		}
	}
	return true
}

func (c Comparator) matches(v Version) bool {
	switch c.Op {
	case "", "=":
		return v.Compare(c.Version) == 0
	case ">":
		return v.Compare(c.Version) > 0
	case ">=":
		return v.Compare(c.Version) >= 0
	case "<":
		return v.Compare(c.Version) < 0
	case "<=":
		return v.Compare(c.Version) <= 0
	case "^":
		return caretMatches(c.Version, v)
	case "~":
		return tildeMatches(c.Version, v)
	default:
		return false
	}
}

// caretMatches implements Cargo-style caret requirements: allow changes
// that do not modify the left-most non-zero digit of major.minor.patch.
func caretMatches(base, v Version) bool {
	if v.Compare(base) < 0 {
		return false
	}
	switch {
	case base.Major != 0:
		return v.Major == base.Major
	case base.Minor != 0:
		return v.Major == 0 && v.Minor == base.Minor
	default:
		return v.Major == 0 && v.Minor == 0 && v.Patch == base.Patch
	}
}

// tildeMatches implements tilde requirements: allow patch-level changes.
func tildeMatches(base, v Version) bool {
	if v.Compare(base) < 0 {
		return false
	}
	return v.Major == base.Major && v.Minor == base.Minor
}

var reqOps = []string{">=", "<=", "^", "~", "=", ">", "<"}

// ParseVersionReq parses a comma-separated list of comparator clauses.
func ParseVersionReq(s string) (VersionReq, error) {
	raw := s
	clauses := strings.Split(s, ",")
	comparators := make([]Comparator, 0, len(clauses))
	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			return VersionReq{}, fmt.Errorf("invalid version requirement %q: empty clause", raw)
		}
		op := ""
		rest := clause
		for _, candidate := range reqOps {
			if strings.HasPrefix(clause, candidate) {
				op = candidate
				rest = strings.TrimSpace(clause[len(candidate):])
				break
			}
		}
		// "~=" is an alternate spelling of the tilde operator.
		if op == "~" && strings.HasPrefix(rest, "=") {
			rest = strings.TrimSpace(rest[1:])
		}
		ver, err := parsePartialVersion(rest)
		if err != nil {
			return VersionReq{}, fmt.Errorf("invalid version requirement %q: %w", raw, err)
		}
		comparators = append(comparators, Comparator{Op: op, Version: ver})
	}
	return VersionReq{Raw: raw, Comparators: comparators}, nil
}

// parsePartialVersion accepts "1", "1.2", or "1.2.3", defaulting missing
// components to zero, the way requirement clauses commonly abbreviate.
func parsePartialVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) == 0 || len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}
	nums := [3]uint64{}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}
