package modgraph

// Result is what one analysis run hands to its collaborators: the finished
// graph, every elementary cycle with its severity, the per-edge severity
// maxima, and the diagnostics accumulated along the way. Results for
// byte-identical source trees are identical in content.
type Result struct {
	// Package is the root module of the analyzed tree.
	Package ModuleId
	// Graph is the module dependency graph. Collaborators must not mutate it.
	Graph *DependencyGraph
	// Cycles lists every elementary cycle in canonical order.
	Cycles []Cycle
	// Diagnostics lists every per-file or per-record failure of the run.
	Diagnostics []Diagnostic

	severities map[Edge]Severity
}

// NewResult assembles a Result, computing cycles and per-edge severities for
// the given graph under the given policy.
func NewResult(pkg ModuleId, g *DependencyGraph, policy SeverityPolicy, diagnostics []Diagnostic) (*Result, error) {
	cycles, severities, err := AnalyzeCycles(g, policy)
	if err != nil {
		return nil, err
	}
	return &Result{
		Package:     pkg,
		Graph:       g,
		Cycles:      cycles,
		Diagnostics: diagnostics,
		severities:  severities,
	}, nil
}

// EdgeSeverity returns the reported severity of the edge: the maximum over
// all cycles traversing it, or SeverityNone for edges on no cycle.
func (r *Result) EdgeSeverity(source, target ModuleId) Severity {
	if sev, ok := r.severities[Edge{Source: source, Target: target}]; ok {
		return sev
	}
	return SeverityNone
}

// HasCycles reports whether the run found any cycle at all.
func (r *Result) HasCycles() bool {
	return len(r.Cycles) > 0
}
