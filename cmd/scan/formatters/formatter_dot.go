package formatters

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/LegacyCodeHQ/byecycle/modgraph"
)

// DOTFormatter formats dependency graphs as Graphviz DOT.
type DOTFormatter struct{}

// Format converts the analysis result to Graphviz DOT format. Edges are
// colored by the severity of the worst cycle traversing them.
func (f *DOTFormatter) Format(result *modgraph.Result, opts RenderOptions) (string, error) {
	var sb strings.Builder
	sb.WriteString("digraph imports {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")

	if opts.Label != "" {
		sb.WriteString(fmt.Sprintf("  label=%q;\n", opts.Label))
		sb.WriteString("  labelloc=t;\n")
		sb.WriteString("  labeljust=l;\n")
		sb.WriteString("  fontsize=10;\n")
		sb.WriteString("  fontname=Courier;\n")
	}
	sb.WriteString("\n")

	for _, id := range VisibleNodes(result, opts) {
		if !result.Graph.Knows(id) {
			sb.WriteString(fmt.Sprintf("  %q [style=dashed];\n", id.String()))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %q;\n", id.String()))
	}
	sb.WriteString("\n")

	for _, edge := range VisibleEdges(result, opts) {
		kinds, _ := result.Graph.Kinds(edge.Source, edge.Target)
		sev := result.EdgeSeverity(edge.Source, edge.Target)
		sb.WriteString(fmt.Sprintf("  %q -> %q [color=%s, label=%q];\n",
			edge.Source.String(), edge.Target.String(),
			SeverityColor(sev), strings.Join(kindStrings(kinds), ",")))
	}

	sb.WriteString("}")
	return sb.String(), nil
}

// GenerateURL creates a GraphvizOnline URL with the DOT graph embedded.
func (f *DOTFormatter) GenerateURL(output string) (string, bool) {
	encoded := url.PathEscape(output)
	return fmt.Sprintf("https://dreampuf.github.io/GraphvizOnline/?engine=dot#%s", encoded), true
}
