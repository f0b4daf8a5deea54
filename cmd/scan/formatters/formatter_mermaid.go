package formatters

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/LegacyCodeHQ/byecycle/modgraph"
)

// MermaidFormatter formats dependency graphs as Mermaid.js flowcharts.
type MermaidFormatter struct{}

// Format converts the analysis result to Mermaid.js flowchart format.
func (f *MermaidFormatter) Format(result *modgraph.Result, opts RenderOptions) (string, error) {
	var sb strings.Builder

	if opts.Label != "" {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", opts.Label))
		sb.WriteString("---\n")
	}

	sb.WriteString("flowchart LR\n")

	// Mermaid node IDs can't have dots, so modules get synthetic IDs with
	// the module name as the label.
	nodeIDs := make(map[modgraph.ModuleId]string)
	for i, id := range VisibleNodes(result, opts) {
		nodeID := fmt.Sprintf("n%d", i)
		nodeIDs[id] = nodeID
		label := strings.ReplaceAll(id.String(), "\"", "#quot;")
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", nodeID, label))
	}

	sb.WriteString("\n")

	edges := VisibleEdges(result, opts)
	// Edge styling in Mermaid is positional, so severities are grouped by
	// color and applied per link index after the edge list.
	colorLinks := make(map[string][]string)
	for i, edge := range edges {
		sourceID, ok := nodeIDs[edge.Source]
		if !ok {
			continue
		}
		targetID, ok := nodeIDs[edge.Target]
		if !ok {
			continue
		}
		kinds, _ := result.Graph.Kinds(edge.Source, edge.Target)
		sb.WriteString(fmt.Sprintf("    %s -->|%s| %s\n",
			sourceID, strings.Join(kindStrings(kinds), ","), targetID))

		sev := result.EdgeSeverity(edge.Source, edge.Target)
		if sev != modgraph.SeverityNone {
			color := SeverityColor(sev)
			colorLinks[color] = append(colorLinks[color], fmt.Sprintf("%d", i))
		}
	}

	for _, color := range []string{"red", "yellow", "green", "gray"} {
		links := colorLinks[color]
		if len(links) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("    linkStyle %s stroke:%s,stroke-width:2px\n",
			strings.Join(links, ","), color))
	}

	if len(result.Cycles) > 0 {
		sb.WriteString("\n")
		for i, cycle := range result.Cycles {
			names := make([]string, len(cycle.Path))
			for j, id := range cycle.Path {
				names[j] = id.String()
			}
			sb.WriteString(fmt.Sprintf("    %%%% C%d (%s): %s -> %s\n",
				i+1, cycle.Severity, strings.Join(names, " -> "), names[0]))
		}
	}

	return sb.String(), nil
}

// GenerateURL creates a mermaid.live URL with the diagram embedded.
func (f *MermaidFormatter) GenerateURL(output string) (string, bool) {
	payload := map[string]interface{}{
		"code": output,
		"mermaid": map[string]interface{}{
			"theme": "default",
		},
		"autoSync":      true,
		"updateDiagram": true,
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		// Fallback: just return the code URL-encoded
		return fmt.Sprintf("https://mermaid.live/edit#%s", url.PathEscape(output)), true
	}

	encoded := base64.URLEncoding.EncodeToString(jsonBytes)
	return fmt.Sprintf("https://mermaid.live/edit#base64:%s", encoded), true
}
