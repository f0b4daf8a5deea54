package modgraph

import (
	"errors"
	"sort"

	graphlib "github.com/dominikbraun/graph"
)

// Edge identifies a directed dependency between two modules.
type Edge struct {
	Source ModuleId
	Target ModuleId
}

// DependencyGraph is the directed module graph of one analyzed package tree.
// Nodes are ModuleIds; each ordered pair of modules has at most one edge,
// carrying the union of every import kind observed for that pair. The graph
// is built once per run and treated as immutable afterwards.
type DependencyGraph struct {
	topology graphlib.Graph[string, string]
	kinds    map[Edge]KindSet
	known    map[ModuleId]bool
}

// NewDependencyGraph returns an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		topology: graphlib.New(graphlib.StringHash, graphlib.Directed()),
		kinds:    make(map[Edge]KindSet),
		known:    make(map[ModuleId]bool),
	}
}

// AddModule inserts a node. Modules with no edges still appear in the graph,
// so leaf modules are never silently dropped. Marking a module known means it
// was scanned from the package tree, as opposed to an external import target.
func (g *DependencyGraph) AddModule(id ModuleId, known bool) {
	if err := g.topology.AddVertex(string(id)); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
		// AddVertex only fails on duplicates for a plain directed graph.
		return
	}
	if known {
		g.known[id] = true
	}
}

// AddImport records a dependency edge, inserting both endpoints as nodes and
// unioning kinds with any prior edge for the same ordered pair. Self-edges
// are legal: a module importing itself is a one-node cycle.
func (g *DependencyGraph) AddImport(source, target ModuleId, kinds KindSet) {
	if kinds.Empty() {
		return
	}
	g.AddModule(source, false)
	g.AddModule(target, false)

	edge := Edge{Source: source, Target: target}
	if existing, ok := g.kinds[edge]; ok {
		existing.Union(kinds)
		return
	}
	g.kinds[edge] = kinds.Clone()

	// The kinds map is the source of truth for edges; the topology mirror
	// exists for component decomposition. Errors on mirrored self-edges are
	// ignored so the invariant above holds regardless of library behavior.
	_ = g.topology.AddEdge(string(source), string(target))
}

// Modules returns every node in ascending order.
func (g *DependencyGraph) Modules() []ModuleId {
	adjacency, err := g.topology.AdjacencyMap()
	if err != nil {
		return nil
	}
	out := make([]ModuleId, 0, len(adjacency))
	for name := range adjacency {
		out = append(out, ModuleId(name))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Knows reports whether the module was scanned from the analyzed tree.
func (g *DependencyGraph) Knows(id ModuleId) bool {
	return g.known[id]
}

// Edges returns every edge ordered by source, then target.
func (g *DependencyGraph) Edges() []Edge {
	out := make([]Edge, 0, len(g.kinds))
	for edge := range g.kinds {
		out = append(out, edge)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// Kinds returns the kind set of the edge between source and target, if any.
func (g *DependencyGraph) Kinds(source, target ModuleId) (KindSet, bool) {
	kinds, ok := g.kinds[Edge{Source: source, Target: target}]
	return kinds, ok
}

// HasEdge reports whether an edge exists for the ordered pair.
func (g *DependencyGraph) HasEdge(source, target ModuleId) bool {
	_, ok := g.kinds[Edge{Source: source, Target: target}]
	return ok
}

// Adjacency returns sorted outgoing neighbor lists for every node.
func (g *DependencyGraph) Adjacency() map[ModuleId][]ModuleId {
	out := make(map[ModuleId][]ModuleId)
	for _, id := range g.Modules() {
		out[id] = nil
	}
	for edge := range g.kinds {
		out[edge.Source] = append(out[edge.Source], edge.Target)
	}
	for _, neighbors := range out {
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
	}
	return out
}

// StronglyConnectedComponents decomposes the graph into its SCCs. Each
// component's members are sorted; components are ordered by their smallest
// member so runs over identical trees yield identical decompositions.
func (g *DependencyGraph) StronglyConnectedComponents() ([][]ModuleId, error) {
	sccs, err := graphlib.StronglyConnectedComponents(g.topology)
	if err != nil {
		return nil, err
	}
	out := make([][]ModuleId, 0, len(sccs))
	for _, scc := range sccs {
		component := make([]ModuleId, 0, len(scc))
		for _, name := range scc {
			component = append(component, ModuleId(name))
		}
		sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })
		out = append(out, component)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out, nil
}
