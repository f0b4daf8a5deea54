package watch

import (
	"fmt"

	"github.com/LegacyCodeHQ/byecycle/cmd/scan/formatters"
	"github.com/LegacyCodeHQ/byecycle/pyscan"
)

// buildDOTGraph runs a full analysis of the project rooted at root and
// renders it as DOT for the embedded viewer.
func buildDOTGraph(root string, opts *watchOptions) (string, error) {
	result, err := pyscan.AnalyzeProject(root)
	if err != nil {
		return "", fmt.Errorf("failed to analyze project: %w", err)
	}

	formatter := &formatters.DOTFormatter{}
	dot, err := formatter.Format(result, formatters.RenderOptions{
		Label:      result.Package.String(),
		OnlyCycles: opts.onlyCycles,
	})
	if err != nil {
		return "", fmt.Errorf("failed to format graph: %w", err)
	}
	return dot, nil
}
