package pyscan

import (
	"fmt"

	"github.com/LegacyCodeHQ/byecycle/modgraph"
	"github.com/LegacyCodeHQ/byecycle/vcs"
)

// Options configure one analysis run.
type Options struct {
	// Policy maps import kinds to cycle severities. Defaults to
	// modgraph.DefaultSeverityPolicy.
	Policy modgraph.SeverityPolicy
	// SearchPath lists directories the project name is resolved against when
	// it is not itself a directory.
	SearchPath []string
	// Reader controls how source files are read. Defaults to the filesystem.
	Reader vcs.ContentReader
	// Concurrency bounds parallel file parsing. Defaults to the number of
	// CPUs.
	Concurrency int
}

// Option mutates Options.
type Option func(*Options)

// WithPolicy overrides the severity policy.
func WithPolicy(policy modgraph.SeverityPolicy) Option {
	return func(o *Options) { o.Policy = policy }
}

// WithSearchPath sets the directories used to resolve a package name.
func WithSearchPath(dirs []string) Option {
	return func(o *Options) { o.SearchPath = dirs }
}

// WithReader overrides how file content is read.
func WithReader(reader vcs.ContentReader) Option {
	return func(o *Options) { o.Reader = reader }
}

// WithConcurrency bounds parallel file parsing.
func WithConcurrency(n int) Option {
	return func(o *Options) { o.Concurrency = n }
}

// AnalyzeProject runs the whole pipeline for one package: scan the tree,
// resolve every import record, fold the edges into a graph, and classify its
// cycles. project is either a path to a package directory or a package name
// resolvable via the search path.
//
// The run is a single pass over an immutable snapshot of the tree. Only an
// unresolvable project root is fatal; every other failure is accumulated
// into the result's diagnostics.
func AnalyzeProject(project string, opts ...Option) (*modgraph.Result, error) {
	options := Options{Policy: modgraph.DefaultSeverityPolicy()}
	for _, opt := range opts {
		opt(&options)
	}
	if err := options.Policy.Validate(); err != nil {
		return nil, err
	}

	root, err := ResolveProjectRoot(project, options.SearchPath)
	if err != nil {
		return nil, err
	}

	scan, err := Scan(root, options.Reader, options.Concurrency)
	if err != nil {
		return nil, err
	}

	// Scanning must complete before resolution starts: a relative import is
	// only resolvable once the full module set is known.
	resolver := modgraph.NewResolver(scan.Root, scan.ModuleIds())

	diagnostics := scan.Diagnostics
	var resolved []modgraph.ResolvedImport
	for _, record := range scan.Records {
		imp, diag := resolver.Resolve(record)
		if diag != nil {
			diagnostics = append(diagnostics, *diag)
			continue
		}
		resolved = append(resolved, imp)
	}

	graph := modgraph.BuildGraph(scan.ModuleIds(), resolved)

	result, err := modgraph.NewResult(scan.Root, graph, options.Policy, diagnostics)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze cycles: %w", err)
	}
	return result, nil
}
