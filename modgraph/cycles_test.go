package modgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/byecycle/modgraph"
)

func vanillaEdge(g *modgraph.DependencyGraph, source, target modgraph.ModuleId) {
	g.AddImport(source, target, modgraph.NewKindSet(modgraph.KindVanilla))
}

func analyze(t *testing.T, g *modgraph.DependencyGraph) []modgraph.Cycle {
	t.Helper()
	cycles, _, err := modgraph.AnalyzeCycles(g, modgraph.DefaultSeverityPolicy())
	require.NoError(t, err)
	return cycles
}

func TestAnalyzeCycles_AcyclicGraph(t *testing.T) {
	g := modgraph.NewDependencyGraph()
	vanillaEdge(g, "app.a", "app.b")
	vanillaEdge(g, "app.b", "app.c")
	vanillaEdge(g, "app.a", "app.c")

	cycles, severities, err := modgraph.AnalyzeCycles(g, modgraph.DefaultSeverityPolicy())
	require.NoError(t, err)
	assert.Empty(t, cycles)
	for edge, sev := range severities {
		assert.Equal(t, modgraph.SeverityNone, sev, "edge %v", edge)
	}
}

func TestAnalyzeCycles_TwoNodeCycle(t *testing.T) {
	g := modgraph.NewDependencyGraph()
	vanillaEdge(g, "app.a", "app.b")
	vanillaEdge(g, "app.b", "app.a")

	cycles := analyze(t, g)
	require.Len(t, cycles, 1)
	assert.Equal(t, []modgraph.ModuleId{"app.a", "app.b"}, cycles[0].Path)
	assert.Equal(t, modgraph.SeverityBad, cycles[0].Severity)
}

func TestAnalyzeCycles_SelfLoop(t *testing.T) {
	g := modgraph.NewDependencyGraph()
	vanillaEdge(g, "app.a", "app.a")

	cycles := analyze(t, g)
	require.Len(t, cycles, 1)
	assert.Equal(t, []modgraph.ModuleId{"app.a"}, cycles[0].Path)
	assert.NotEqual(t, modgraph.SeverityNone, cycles[0].Severity)
}

func TestAnalyzeCycles_CanonicalRotation(t *testing.T) {
	g := modgraph.NewDependencyGraph()
	vanillaEdge(g, "app.c", "app.a")
	vanillaEdge(g, "app.a", "app.b")
	vanillaEdge(g, "app.b", "app.c")

	cycles := analyze(t, g)
	require.Len(t, cycles, 1)
	assert.Equal(t, []modgraph.ModuleId{"app.a", "app.b", "app.c"}, cycles[0].Path)
}

func TestAnalyzeCycles_OverlappingElementaryCycles(t *testing.T) {
	// Two elementary cycles share the a->b edge; the figure-eight around
	// them is not elementary and must not be reported.
	g := modgraph.NewDependencyGraph()
	vanillaEdge(g, "app.a", "app.b")
	vanillaEdge(g, "app.b", "app.a")
	vanillaEdge(g, "app.b", "app.c")
	vanillaEdge(g, "app.c", "app.a")

	cycles := analyze(t, g)
	require.Len(t, cycles, 2)
	assert.Equal(t, []modgraph.ModuleId{"app.a", "app.b"}, cycles[0].Path)
	assert.Equal(t, []modgraph.ModuleId{"app.a", "app.b", "app.c"}, cycles[1].Path)
}

func TestAnalyzeCycles_IndependentComponents(t *testing.T) {
	g := modgraph.NewDependencyGraph()
	vanillaEdge(g, "app.a", "app.b")
	vanillaEdge(g, "app.b", "app.a")
	vanillaEdge(g, "app.x", "app.y")
	vanillaEdge(g, "app.y", "app.x")
	vanillaEdge(g, "app.b", "app.x")

	cycles := analyze(t, g)
	require.Len(t, cycles, 2)
	assert.Equal(t, []modgraph.ModuleId{"app.a", "app.b"}, cycles[0].Path)
	assert.Equal(t, []modgraph.ModuleId{"app.x", "app.y"}, cycles[1].Path)
}

func TestAnalyzeCycles_EdgeSeverityIsMaxOverCycles(t *testing.T) {
	// a<->b is a vanilla cycle (bad); a->b also sits on a second cycle
	// through c whose return leg is typing-only (skip). The shared edge
	// reports the worse of the two.
	g := modgraph.NewDependencyGraph()
	vanillaEdge(g, "app.a", "app.b")
	vanillaEdge(g, "app.b", "app.a")
	vanillaEdge(g, "app.b", "app.c")
	g.AddImport("app.c", "app.a", modgraph.NewKindSet(modgraph.KindTypeCheck))

	_, severities, err := modgraph.AnalyzeCycles(g, modgraph.DefaultSeverityPolicy())
	require.NoError(t, err)

	assert.Equal(t, modgraph.SeverityBad, severities[modgraph.Edge{Source: "app.a", Target: "app.b"}])
	assert.Equal(t, modgraph.SeverityBad, severities[modgraph.Edge{Source: "app.b", Target: "app.a"}])
	assert.Equal(t, modgraph.SeveritySkip, severities[modgraph.Edge{Source: "app.b", Target: "app.c"}])
	assert.Equal(t, modgraph.SeveritySkip, severities[modgraph.Edge{Source: "app.c", Target: "app.a"}])
}

func TestAnalyzeCycles_Deterministic(t *testing.T) {
	build := func() *modgraph.DependencyGraph {
		g := modgraph.NewDependencyGraph()
		vanillaEdge(g, "app.a", "app.b")
		vanillaEdge(g, "app.b", "app.c")
		vanillaEdge(g, "app.c", "app.a")
		vanillaEdge(g, "app.b", "app.a")
		vanillaEdge(g, "app.d", "app.d")
		return g
	}

	first := analyze(t, build())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, analyze(t, build()))
	}
}

func TestCycle_Contains(t *testing.T) {
	cycle := modgraph.Cycle{Path: []modgraph.ModuleId{"app.a", "app.b", "app.c"}}

	assert.True(t, cycle.Contains(modgraph.Edge{Source: "app.a", Target: "app.b"}))
	assert.True(t, cycle.Contains(modgraph.Edge{Source: "app.c", Target: "app.a"}), "closing edge")
	assert.False(t, cycle.Contains(modgraph.Edge{Source: "app.b", Target: "app.a"}))
}
