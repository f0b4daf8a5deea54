package modgraph

import (
	"errors"
	"fmt"
)

// ErrRootNotFound reports that the requested package root does not exist or
// is not recognizable as a Python package. It is the only condition that
// aborts a whole run.
var ErrRootNotFound = errors.New("package root not found")

// DiagnosticKind names the non-fatal failure classes accumulated during a
// run.
type DiagnosticKind string

const (
	// DiagnosticParseFailure marks a file whose import syntax could not be
	// parsed. The module contributes no edges; the run continues.
	DiagnosticParseFailure DiagnosticKind = "parse-failure"
	// DiagnosticUnresolvedRelativeImport marks a relative import that climbs
	// above the package root. The one record is skipped; the run continues.
	DiagnosticUnresolvedRelativeImport DiagnosticKind = "unresolved-relative-import"
)

// Diagnostic is one recorded per-module failure. Nothing is silently
// dropped: every skipped record or file surfaces as a Diagnostic in the
// result.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	Module ModuleId       `json:"module"`
	Path   string         `json:"path,omitempty"`
	Cause  string         `json:"cause"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Module, d.Cause)
}
