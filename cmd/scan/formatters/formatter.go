package formatters

import (
	"fmt"

	"github.com/LegacyCodeHQ/byecycle/modgraph"
)

// RenderOptions contains optional parameters for formatting analysis results.
type RenderOptions struct {
	// Label is an optional title for the rendered graph.
	Label string
	// IncludeExternal renders edges to modules outside the analyzed tree.
	// They are hidden by default since they can never be part of a cycle.
	IncludeExternal bool
	// OnlyCycles drops every edge that participates in no cycle.
	OnlyCycles bool
}

// Formatter is the interface all result formatters implement. Formatters
// consume a finished analysis result and must not mutate it.
type Formatter interface {
	// Format renders the analysis result as a string.
	Format(result *modgraph.Result, opts RenderOptions) (string, error)
	// GenerateURL returns a shareable viewer URL for the rendered output,
	// or false if the format has no online viewer.
	GenerateURL(output string) (string, bool)
}

// NewFormatter creates a Formatter for the specified format type.
// Supported formats: "json", "dot", "mermaid"
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch format {
	case OutputFormatJSON:
		return &JSONFormatter{}, nil
	case OutputFormatDOT:
		return &DOTFormatter{}, nil
	case OutputFormatMermaid:
		return &MermaidFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (valid options: dot, json, mermaid)", format)
	}
}

// SeverityColor maps a cycle severity to the color its edges are drawn in.
// Edges on no cycle stay black.
func SeverityColor(sev modgraph.Severity) string {
	switch sev {
	case modgraph.SeverityGood:
		return "green"
	case modgraph.SeverityBad:
		return "red"
	case modgraph.SeverityComplicated:
		return "yellow"
	case modgraph.SeveritySkip:
		return "gray"
	default:
		return "black"
	}
}

// VisibleNodes returns the module nodes a formatter should render, in
// ascending order. External import targets only show up when requested.
func VisibleNodes(result *modgraph.Result, opts RenderOptions) []modgraph.ModuleId {
	var nodes []modgraph.ModuleId
	for _, id := range result.Graph.Modules() {
		if !opts.IncludeExternal && !result.Graph.Knows(id) {
			continue
		}
		nodes = append(nodes, id)
	}
	return nodes
}

// VisibleEdges returns the edges a formatter should render, ordered by
// source then target.
func VisibleEdges(result *modgraph.Result, opts RenderOptions) []modgraph.Edge {
	var edges []modgraph.Edge
	for _, edge := range result.Graph.Edges() {
		kinds, ok := result.Graph.Kinds(edge.Source, edge.Target)
		if !ok {
			continue
		}
		if !opts.IncludeExternal && kinds.Has(modgraph.KindExternal) {
			continue
		}
		if opts.OnlyCycles && result.EdgeSeverity(edge.Source, edge.Target) == modgraph.SeverityNone {
			continue
		}
		edges = append(edges, edge)
	}
	return edges
}
