// Package pyscan walks a Python source tree, names its modules, and drives
// the import analysis from scanning through cycle classification.
package pyscan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/LegacyCodeHQ/byecycle/modgraph"
	"github.com/LegacyCodeHQ/byecycle/pyimports"
	"github.com/LegacyCodeHQ/byecycle/vcs"
)

// Module is one scanned source module.
type Module struct {
	Id modgraph.ModuleId
	// Path is the absolute file path of the module's source.
	Path string
	// Package is true for __init__.py modules.
	Package bool
}

// ScanResult is the outcome of walking one package tree: the module set, the
// raw import records of every parseable file, and per-file diagnostics.
type ScanResult struct {
	Root        modgraph.ModuleId
	Modules     []Module
	Records     []modgraph.ImportRecord
	Diagnostics []modgraph.Diagnostic
}

// ModuleIds returns the scanned module identifiers in ascending order.
func (s *ScanResult) ModuleIds() []modgraph.ModuleId {
	out := make([]modgraph.ModuleId, 0, len(s.Modules))
	for _, m := range s.Modules {
		out = append(out, m.Id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ResolveProjectRoot turns the project argument into the package root
// directory. An existing directory wins; otherwise the name is looked up in
// each search path entry in order. Failing both is fatal for the run.
func ResolveProjectRoot(project string, searchPath []string) (string, error) {
	if info, err := os.Stat(project); err == nil && info.IsDir() {
		return filepath.Abs(project)
	}

	for _, dir := range searchPath {
		candidate := filepath.Join(dir, project)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return filepath.Abs(candidate)
		}
	}

	return "", fmt.Errorf("%w: %q is not a directory and was not found on the search path", modgraph.ErrRootNotFound, project)
}

// Scan enumerates the source files of the package rooted at root and
// extracts their import records. Files are read and parsed concurrently;
// each file's result is independent, and merging is a simple union. Files
// with invalid syntax contribute a diagnostic instead of records.
func Scan(root string, reader vcs.ContentReader, concurrency int) (*ScanResult, error) {
	rootName := modgraph.ModuleId(filepath.Base(root))
	if rootName == "" || rootName == "." {
		return nil, fmt.Errorf("%w: cannot derive a package name from %q", modgraph.ErrRootNotFound, root)
	}

	files, err := collectSourceFiles(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", modgraph.ErrRootNotFound, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no python source files under %q", modgraph.ErrRootNotFound, root)
	}

	modules := make([]Module, len(files))
	for i, path := range files {
		id, isPackage := moduleName(rootName, root, path)
		modules[i] = Module{Id: id, Path: path, Package: isPackage}
	}

	if reader == nil {
		reader = vcs.FileReader
	}
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	perFileRecords := make([][]modgraph.ImportRecord, len(modules))
	perFileFailures := make([]*modgraph.Diagnostic, len(modules))

	var group errgroup.Group
	group.SetLimit(concurrency)
	for i, module := range modules {
		i, module := i, module
		group.Go(func() error {
			source, err := reader(module.Path)
			if err != nil {
				perFileFailures[i] = &modgraph.Diagnostic{
					Kind:   modgraph.DiagnosticParseFailure,
					Module: module.Id,
					Path:   module.Path,
					Cause:  err.Error(),
				}
				return nil
			}

			records, err := pyimports.ExtractImports(module.Id, module.Package, source)
			if err != nil {
				perFileFailures[i] = &modgraph.Diagnostic{
					Kind:   modgraph.DiagnosticParseFailure,
					Module: module.Id,
					Path:   module.Path,
					Cause:  err.Error(),
				}
				return nil
			}

			perFileRecords[i] = records
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &ScanResult{Root: rootName, Modules: modules}
	for i := range modules {
		if perFileFailures[i] != nil {
			result.Diagnostics = append(result.Diagnostics, *perFileFailures[i])
			continue
		}
		result.Records = append(result.Records, perFileRecords[i]...)
	}
	return result, nil
}

// collectSourceFiles walks the tree and returns every python file in sorted
// order. Non-source files are ignored without error, as are cache and hidden
// directories.
func collectSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "__pycache__" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".py" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// moduleName converts a file path into a dotted module identifier relative
// to the package root: pkg/sub/mod.py becomes pkg.sub.mod, and a package's
// __init__.py names the package itself.
func moduleName(rootName modgraph.ModuleId, root, path string) (modgraph.ModuleId, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = strings.TrimSuffix(rel, ".py")

	isPackage := false
	if filepath.Base(rel) == "__init__" {
		rel = filepath.Dir(rel)
		isPackage = true
	}
	if rel == "." || rel == "" {
		return rootName, isPackage
	}

	id := rootName
	for _, segment := range strings.Split(rel, string(filepath.Separator)) {
		id = id.Join(segment)
	}
	return id, isPackage
}
