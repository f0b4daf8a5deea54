package formatters

import (
	"encoding/json"
	"fmt"

	"github.com/LegacyCodeHQ/byecycle/modgraph"
)

// jsonEdge is one entry of the serialized graph: the import kinds on the
// edge and the severity of the worst cycle traversing it, null when the
// edge is on no cycle.
type jsonEdge struct {
	Tags  []string           `json:"tags"`
	Cycle *modgraph.Severity `json:"cycle"`
}

// JSONFormatter renders the dependency graph as a nested JSON object keyed
// by source module, then target module.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(result *modgraph.Result, opts RenderOptions) (string, error) {
	graphDict := make(map[string]map[string]jsonEdge)
	for _, id := range VisibleNodes(result, opts) {
		graphDict[id.String()] = make(map[string]jsonEdge)
	}
	for _, edge := range VisibleEdges(result, opts) {
		kinds, _ := result.Graph.Kinds(edge.Source, edge.Target)
		entry := jsonEdge{Tags: kindStrings(kinds)}
		if sev := result.EdgeSeverity(edge.Source, edge.Target); sev != modgraph.SeverityNone {
			entry.Cycle = &sev
		}
		targets, ok := graphDict[edge.Source.String()]
		if !ok {
			targets = make(map[string]jsonEdge)
			graphDict[edge.Source.String()] = targets
		}
		targets[edge.Target.String()] = entry
	}

	out, err := json.MarshalIndent(graphDict, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error serializing graph: %w", err)
	}
	return string(out), nil
}

func (f *JSONFormatter) GenerateURL(output string) (string, bool) {
	return "", false
}

func kindStrings(kinds modgraph.KindSet) []string {
	sorted := kinds.Sorted()
	tags := make([]string, len(sorted))
	for i, kind := range sorted {
		tags[i] = string(kind)
	}
	return tags
}
