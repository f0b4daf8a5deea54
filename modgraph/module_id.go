package modgraph

import "strings"

// ModuleId is the canonical dotted identifier of a Python module within the
// analyzed package tree, e.g. "app.services.billing". The root package has a
// single segment. ModuleIds are totally ordered by their string form.
type ModuleId string

// Segments splits the identifier into its name segments.
func (m ModuleId) Segments() []string {
	if m == "" {
		return nil
	}
	return strings.Split(string(m), ".")
}

// Depth returns the number of ancestor packages above this module.
// The root package has depth 0.
func (m ModuleId) Depth() int {
	return len(m.Segments()) - 1
}

// Root returns the first segment of the identifier.
func (m ModuleId) Root() ModuleId {
	if idx := strings.IndexByte(string(m), '.'); idx >= 0 {
		return m[:idx]
	}
	return m
}

// Parent returns the containing package of this module and true, or "" and
// false if the module is the root package.
func (m ModuleId) Parent() (ModuleId, bool) {
	idx := strings.LastIndexByte(string(m), '.')
	if idx < 0 {
		return "", false
	}
	return m[:idx], true
}

// IsAncestorOf reports whether m is a strict ancestor package of other.
// A module is not its own ancestor.
func (m ModuleId) IsAncestorOf(other ModuleId) bool {
	return len(other) > len(m) && strings.HasPrefix(string(other), string(m)+".")
}

// Join appends a segment to the identifier.
func (m ModuleId) Join(segment string) ModuleId {
	if m == "" {
		return ModuleId(segment)
	}
	return ModuleId(string(m) + "." + segment)
}

func (m ModuleId) String() string {
	return string(m)
}
