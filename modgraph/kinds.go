package modgraph

import (
	"fmt"
	"sort"
)

// ImportKind classifies how one module depends on another. A single edge can
// carry several kinds at once: an import can be both conditional and target a
// parent package.
type ImportKind string

const (
	// KindVanilla is a plain unconditional top-level import of a module that
	// is not an ancestor of the importing module.
	KindVanilla ImportKind = "vanilla"
	// KindParent marks an edge whose target is a strict ancestor package of
	// the source. Python imports ancestor packages before their children, so
	// these edges exist even without an explicit import statement.
	KindParent ImportKind = "parent"
	// KindConditional marks imports nested inside a module-level if or
	// try/except branch.
	KindConditional ImportKind = "conditional"
	// KindTypeCheck marks imports guarded by `if typing.TYPE_CHECKING`,
	// which never execute at runtime.
	KindTypeCheck ImportKind = "typecheck"
	// KindDeferred marks imports inside a function or method body, executed
	// only when the function runs.
	KindDeferred ImportKind = "deferred"
	// KindWildcard marks `from x import *` declarations.
	KindWildcard ImportKind = "wildcard"
	// KindExternal marks edges whose target is not part of the analyzed
	// package tree (stdlib, third-party, or unresolvable names). Such edges
	// are informational and can never participate in an analyzable cycle.
	KindExternal ImportKind = "external"
)

// Kinds returns every known import kind.
func Kinds() []ImportKind {
	return []ImportKind{
		KindVanilla,
		KindParent,
		KindConditional,
		KindTypeCheck,
		KindDeferred,
		KindWildcard,
		KindExternal,
	}
}

// ParseImportKind validates a user-supplied import kind name.
func ParseImportKind(name string) (ImportKind, error) {
	for _, kind := range Kinds() {
		if string(kind) == name {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown import kind %q (valid: vanilla, parent, conditional, typecheck, deferred, wildcard, external)", name)
}

// KindSet is a set of import kinds accumulated on a dependency edge.
type KindSet map[ImportKind]struct{}

// NewKindSet builds a set from the given kinds.
func NewKindSet(kinds ...ImportKind) KindSet {
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether the set contains the kind.
func (s KindSet) Has(kind ImportKind) bool {
	_, ok := s[kind]
	return ok
}

// Add inserts a kind into the set.
func (s KindSet) Add(kind ImportKind) {
	s[kind] = struct{}{}
}

// Union merges other into s. Unions are monotonic: kinds only accumulate.
func (s KindSet) Union(other KindSet) {
	for k := range other {
		s[k] = struct{}{}
	}
}

// Clone returns an independent copy of the set.
func (s KindSet) Clone() KindSet {
	out := make(KindSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Sorted returns the kinds in lexicographic order, for stable output.
func (s KindSet) Sorted() []ImportKind {
	out := make([]ImportKind, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Empty reports whether the set has no kinds.
func (s KindSet) Empty() bool {
	return len(s) == 0
}
