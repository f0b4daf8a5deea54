package modgraph

import (
	"sort"

	"golang.org/x/sync/errgroup"
)

// Cycle is one elementary cycle: an ordered node sequence in which each
// consecutive pair (and the closing pair) has an edge and no node repeats.
// The path is rotated so its smallest module comes first, giving every cycle
// one canonical spelling. A single-node path is a self-loop.
type Cycle struct {
	Path     []ModuleId
	Severity Severity
}

// edges returns the directed edges the cycle traverses.
func (c Cycle) edges() []Edge {
	out := make([]Edge, 0, len(c.Path))
	for i, node := range c.Path {
		next := c.Path[(i+1)%len(c.Path)]
		out = append(out, Edge{Source: node, Target: next})
	}
	return out
}

// Contains reports whether the cycle traverses the given edge.
func (c Cycle) Contains(edge Edge) bool {
	for _, e := range c.edges() {
		if e == edge {
			return true
		}
	}
	return false
}

// AnalyzeCycles enumerates every elementary cycle of the graph and assigns
// per-edge severities. The graph is first decomposed into strongly connected
// components; only nontrivial components (or single nodes with a self-edge)
// can contain cycles, and each component is searched independently and in
// parallel since no cycle crosses component boundaries.
//
// An edge belonging to several cycles reports the maximum severity over all
// of them; edges on no cycle report SeverityNone.
func AnalyzeCycles(g *DependencyGraph, policy SeverityPolicy) ([]Cycle, map[Edge]Severity, error) {
	severities := make(map[Edge]Severity, len(g.kinds))
	for _, edge := range g.Edges() {
		severities[edge] = SeverityNone
	}

	components, err := g.StronglyConnectedComponents()
	if err != nil {
		return nil, nil, err
	}

	adjacency := g.Adjacency()

	var group errgroup.Group
	paths := make([][][]ModuleId, len(components))
	for i, component := range components {
		if len(component) == 1 && !g.HasEdge(component[0], component[0]) {
			continue
		}
		i, component := i, component
		group.Go(func() error {
			paths[i] = elementaryCycles(component, adjacency)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	var cycles []Cycle
	for _, componentPaths := range paths {
		for _, path := range componentPaths {
			cycle := Cycle{Path: canonicalRotation(path)}
			cycle.Severity = policy.CycleSeverity(cycleKinds(g, cycle))
			cycles = append(cycles, cycle)

			for _, edge := range cycle.edges() {
				severities[edge] = severities[edge].Max(cycle.Severity)
			}
		}
	}

	sort.Slice(cycles, func(i, j int) bool { return lessPath(cycles[i].Path, cycles[j].Path) })
	return cycles, severities, nil
}

func cycleKinds(g *DependencyGraph, cycle Cycle) []KindSet {
	out := make([]KindSet, 0, len(cycle.Path))
	for _, edge := range cycle.edges() {
		if kinds, ok := g.Kinds(edge.Source, edge.Target); ok {
			out = append(out, kinds)
		}
	}
	return out
}

// canonicalRotation rotates the path so the smallest module leads.
func canonicalRotation(path []ModuleId) []ModuleId {
	start := 0
	for i, node := range path {
		if node < path[start] {
			start = i
		}
	}
	out := make([]ModuleId, 0, len(path))
	out = append(out, path[start:]...)
	out = append(out, path[:start]...)
	return out
}

func lessPath(a, b []ModuleId) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// elementaryCycles runs Johnson's circuit search over the subgraph induced by
// one strongly connected component. Self-loops are collected up front; the
// circuit search itself only considers longer cycles.
func elementaryCycles(component []ModuleId, adjacency map[ModuleId][]ModuleId) [][]ModuleId {
	inComponent := make(map[ModuleId]bool, len(component))
	for _, node := range component {
		inComponent[node] = true
	}

	var cycles [][]ModuleId
	for _, node := range component {
		for _, neighbor := range adjacency[node] {
			if neighbor == node {
				cycles = append(cycles, []ModuleId{node})
			}
		}
	}

	// Johnson's algorithm: for each start node in ascending order, search the
	// subgraph restricted to nodes >= start so every cycle is found exactly
	// once, anchored at its smallest node.
	for _, start := range component {
		search := &circuitSearch{
			start:       start,
			inComponent: inComponent,
			adjacency:   adjacency,
			blocked:     make(map[ModuleId]bool),
			blockList:   make(map[ModuleId][]ModuleId),
		}
		search.circuit(start)
		cycles = append(cycles, search.found...)
	}

	return cycles
}

type circuitSearch struct {
	start       ModuleId
	inComponent map[ModuleId]bool
	adjacency   map[ModuleId][]ModuleId
	blocked     map[ModuleId]bool
	blockList   map[ModuleId][]ModuleId
	stack       []ModuleId
	found       [][]ModuleId
}

func (s *circuitSearch) eligible(node ModuleId) bool {
	return s.inComponent[node] && node >= s.start
}

func (s *circuitSearch) circuit(node ModuleId) bool {
	foundCycle := false
	s.stack = append(s.stack, node)
	s.blocked[node] = true

	for _, neighbor := range s.adjacency[node] {
		if !s.eligible(neighbor) || neighbor == node {
			continue
		}
		if neighbor == s.start {
			if len(s.stack) > 1 {
				cycle := make([]ModuleId, len(s.stack))
				copy(cycle, s.stack)
				s.found = append(s.found, cycle)
			}
			foundCycle = true
		} else if !s.blocked[neighbor] {
			if s.circuit(neighbor) {
				foundCycle = true
			}
		}
	}

	if foundCycle {
		s.unblock(node)
	} else {
		for _, neighbor := range s.adjacency[node] {
			if !s.eligible(neighbor) || neighbor == node {
				continue
			}
			s.blockList[neighbor] = append(s.blockList[neighbor], node)
		}
	}

	s.stack = s.stack[:len(s.stack)-1]
	return foundCycle
}

func (s *circuitSearch) unblock(node ModuleId) {
	s.blocked[node] = false
	for _, blocked := range s.blockList[node] {
		if s.blocked[blocked] {
			s.unblock(blocked)
		}
	}
	s.blockList[node] = nil
}
