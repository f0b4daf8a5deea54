package scan

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/byecycle/cmd/scan/formatters"
	"github.com/LegacyCodeHQ/byecycle/internal/config"
	"github.com/LegacyCodeHQ/byecycle/modgraph"
	"github.com/LegacyCodeHQ/byecycle/pyscan"
)

type scanOptions struct {
	format          string
	searchPath      []string
	configFile      string
	severityFlags   map[string]*string
	includeExternal bool
	onlyCycles      bool
	generateURL     bool
	copyToClipboard bool
	failOn          string
}

// Cmd represents the scan command.
var Cmd = NewCommand()

// NewCommand returns a new scan command instance.
func NewCommand() *cobra.Command {
	opts := &scanOptions{
		severityFlags: make(map[string]*string),
	}

	cmd := &cobra.Command{
		Use:   "scan PROJECT",
		Short: "Detect import cycles in a Python project.",
		Long: `Detect import cycles in a Python project.

PROJECT is either a path to a package directory or a package name to look up
on the search path. The import graph is printed to stdout; cycles are
classified by the severity of the import kinds they are built from.

Examples:
  byecycle scan ./src/mypackage               # scan a source tree
  byecycle scan mypackage -p ./src -p ./lib   # look up a package by name
  byecycle scan ./pkg -f dot -u               # generate visualization URL
  byecycle scan ./pkg --typecheck good        # reclassify typing-only cycles
  byecycle scan ./pkg --fail-on complicated   # non-zero exit on bad cycles`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatters.OutputFormatJSON.String(),
		fmt.Sprintf("Output format (%s, %s, %s)", formatters.OutputFormatDOT, formatters.OutputFormatJSON, formatters.OutputFormatMermaid))
	cmd.Flags().StringSliceVarP(&opts.searchPath, "search-path", "p", nil,
		"Directories to search when PROJECT is a package name (comma-separated)")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "Config file (default: none)")
	cmd.Flags().BoolVarP(&opts.includeExternal, "external", "e", false,
		"Include imports of modules outside the project tree")
	cmd.Flags().BoolVar(&opts.onlyCycles, "only-cycles", false, "Only show edges that are part of a cycle")
	cmd.Flags().BoolVarP(&opts.generateURL, "url", "u", false, "Generate visualization URL (supported formats: dot, mermaid)")
	cmd.Flags().BoolVarP(&opts.copyToClipboard, "clipboard", "b", false, "Automatically copy output to clipboard")
	cmd.Flags().StringVar(&opts.failOn, "fail-on", "", "Exit non-zero when a cycle of at least this severity exists")

	defaults := modgraph.DefaultSeverityPolicy()
	for _, kind := range modgraph.Kinds() {
		if kind == modgraph.KindExternal {
			// External targets have no outgoing edges, so they never sit
			// on a cycle and their severity is not overridable here.
			continue
		}
		name := string(kind)
		opts.severityFlags[name] = cmd.Flags().String(name, string(defaults[kind]),
			fmt.Sprintf("Severity of cycles with %s imports", kind))
	}

	return cmd
}

func runScan(cmd *cobra.Command, project string, opts *scanOptions) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}

	policy, err := buildPolicy(cmd, cfg, opts)
	if err != nil {
		return err
	}

	outputFormat := opts.format
	if !cmd.Flags().Changed("format") && cfg.Format != "" {
		outputFormat = cfg.Format
	}
	format := formatters.OutputFormat(outputFormat)
	formatter, err := formatters.NewFormatter(format)
	if err != nil {
		return err
	}

	searchPath := opts.searchPath
	if len(searchPath) == 0 {
		searchPath = cfg.SearchPath
	}

	result, err := pyscan.AnalyzeProject(project,
		pyscan.WithPolicy(policy),
		pyscan.WithSearchPath(searchPath),
	)
	if err != nil {
		return err
	}

	for _, diag := range result.Diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", diag)
	}

	renderOpts := formatters.RenderOptions{
		IncludeExternal: opts.includeExternal,
		OnlyCycles:      opts.onlyCycles,
	}
	if format == formatters.OutputFormatDOT || format == formatters.OutputFormatMermaid {
		renderOpts.Label = result.Package.String()
	}

	output, err := formatter.Format(result, renderOpts)
	if err != nil {
		return fmt.Errorf("failed to format graph: %w", err)
	}

	if opts.generateURL {
		if urlStr, ok := formatter.GenerateURL(output); ok {
			fmt.Fprintln(cmd.OutOrStdout(), urlStr)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: URL generation is not supported for %s format\n\n", format)
			fmt.Fprintln(cmd.OutOrStdout(), output)
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), output)
	}

	if opts.copyToClipboard {
		if err := clipboard.WriteAll(output); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "\n✅ Content copied to your clipboard.")
	}

	return checkFailThreshold(cmd, cfg, opts, result)
}

// buildPolicy layers severity overrides: defaults, then the config file,
// then any per-kind flags set on the command line.
func buildPolicy(cmd *cobra.Command, cfg *config.Config, opts *scanOptions) (modgraph.SeverityPolicy, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	overrides := make(modgraph.SeverityPolicy)
	for name, value := range opts.severityFlags {
		if !cmd.Flags().Changed(name) {
			continue
		}
		sev, err := modgraph.ParseSeverity(*value)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
		overrides[modgraph.ImportKind(name)] = sev
	}
	policy = policy.Override(overrides)

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// checkFailThreshold returns an error when a cycle at or above the
// configured severity exists, so CI runs can gate merges on it.
func checkFailThreshold(cmd *cobra.Command, cfg *config.Config, opts *scanOptions, result *modgraph.Result) error {
	sev, ok, err := cfg.FailOnSeverity()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("fail-on") {
		sev, err = modgraph.ParseSeverity(opts.failOn)
		if err != nil {
			return fmt.Errorf("--fail-on: %w", err)
		}
		ok = true
	}
	if !ok {
		return nil
	}
	for _, cycle := range result.Cycles {
		if cycle.Severity.Rank() >= sev.Rank() {
			return fmt.Errorf("found cycle of severity %q (threshold %q)", cycle.Severity, sev)
		}
	}
	return nil
}
