package modgraph

import (
	"fmt"
	"strings"
)

// ResolvedImport is one import record turned into a concrete dependency
// edge candidate.
type ResolvedImport struct {
	Source ModuleId
	Target ModuleId
	Kinds  KindSet
}

// Resolver turns import records into concrete target modules and derives
// their import kinds. Resolution needs the complete module set of the scanned
// tree: a relative import's validity depends on knowing the full package
// hierarchy, so resolving must not start before scanning has finished.
type Resolver struct {
	root    ModuleId
	modules map[ModuleId]bool
}

// NewResolver creates a resolver for the package rooted at root, with modules
// naming every scanned module in the tree.
func NewResolver(root ModuleId, modules []ModuleId) *Resolver {
	known := make(map[ModuleId]bool, len(modules))
	for _, m := range modules {
		known[m] = true
	}
	return &Resolver{root: root, modules: known}
}

// Resolve computes the target module of one import record and classifies the
// resulting edge. A relative import that climbs past the package root yields
// a diagnostic instead; the record contributes no edge.
func (r *Resolver) Resolve(rec ImportRecord) (ResolvedImport, *Diagnostic) {
	target, err := r.resolveTarget(rec)
	if err != nil {
		return ResolvedImport{}, &Diagnostic{
			Kind:   DiagnosticUnresolvedRelativeImport,
			Module: rec.Owner,
			Cause:  err.Error(),
		}
	}

	// A from-import name may itself denote a submodule; only then does the
	// declaration point one level deeper than its module path.
	if rec.Name != "" {
		if deeper := target.Join(rec.Name); r.modules[deeper] {
			target = deeper
		}
	}

	return ResolvedImport{
		Source: rec.Owner,
		Target: target,
		Kinds:  r.deriveKinds(rec, target),
	}, nil
}

func (r *Resolver) resolveTarget(rec ImportRecord) (ModuleId, error) {
	if !strings.HasPrefix(rec.Module, ".") {
		// Absolute imports are accepted verbatim as candidate ModuleIds;
		// kind derivation marks candidates outside the tree as external.
		return ModuleId(rec.Module), nil
	}

	level := 0
	for level < len(rec.Module) && rec.Module[level] == '.' {
		level++
	}
	suffix := rec.Module[level:]

	// One dot resolves against the declaring module's containing package;
	// each further dot climbs one package higher. A package's own __init__
	// module is its own containing package.
	segments := rec.Owner.Segments()
	if rec.OwnerIsPackage {
		segments = append(segments, "")
	}
	if level >= len(segments) {
		return "", fmt.Errorf("relative import %q climbs past package root %q", rec.Module, r.root)
	}

	base := ModuleId(strings.Join(segments[:len(segments)-level], "."))
	if suffix == "" {
		return base, nil
	}
	return ModuleId(string(base) + "." + suffix), nil
}

func (r *Resolver) deriveKinds(rec ImportRecord, target ModuleId) KindSet {
	kinds := NewKindSet()

	switch rec.Context {
	case ContextConditional:
		kinds.Add(KindConditional)
	case ContextTypeCheckOnly:
		kinds.Add(KindTypeCheck)
	case ContextDeferred:
		kinds.Add(KindDeferred)
	case ContextTopLevel:
		if !target.IsAncestorOf(rec.Owner) {
			kinds.Add(KindVanilla)
		}
	}

	if target.IsAncestorOf(rec.Owner) {
		kinds.Add(KindParent)
	}
	if rec.Wildcard {
		kinds.Add(KindWildcard)
	}
	if !r.modules[target] {
		kinds.Add(KindExternal)
	}

	return kinds
}

// BuildGraph folds scanned modules and resolved imports into a dependency
// graph. Every scanned module appears as a node even when isolated. Each
// non-root module additionally gets a parent-kind edge to its containing
// package: Python imports ancestor packages before their children, so the
// reliance exists whether or not it is spelled out.
func BuildGraph(modules []ModuleId, imports []ResolvedImport) *DependencyGraph {
	g := NewDependencyGraph()

	for _, id := range modules {
		g.AddModule(id, true)
	}
	for _, id := range modules {
		if parent, ok := id.Parent(); ok && g.Knows(parent) {
			g.AddImport(id, parent, NewKindSet(KindParent))
		}
	}
	for _, imp := range imports {
		g.AddImport(imp.Source, imp.Target, imp.Kinds)
	}

	return g
}
