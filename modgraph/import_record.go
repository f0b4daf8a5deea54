package modgraph

// LexicalContext describes where in its source file an import declaration
// appears. It is a purely syntactic fact, determined without executing code.
type LexicalContext string

const (
	// ContextTopLevel is a declaration directly at module scope. Imports in
	// class bodies count as top level: class bodies execute on module load.
	ContextTopLevel LexicalContext = "toplevel"
	// ContextConditional is a declaration inside a module-level if or
	// try/except branch, so it only maybe executes.
	ContextConditional LexicalContext = "conditional"
	// ContextTypeCheckOnly is a declaration guarded by `if TYPE_CHECKING`,
	// executed only during static type analysis.
	ContextTypeCheckOnly LexicalContext = "typecheck"
	// ContextDeferred is a declaration inside a function or method body,
	// executed only when the function is called.
	ContextDeferred LexicalContext = "deferred"
)

// ImportRecord is one parsed, unresolved import declaration. Records are
// produced by the import extractor, consumed once by the resolver, and never
// mutated.
type ImportRecord struct {
	// Owner is the module the declaration appears in.
	Owner ModuleId
	// OwnerIsPackage is true when the owning module is a package
	// (an __init__.py file). Relative imports in a package resolve against
	// the package itself rather than its parent.
	OwnerIsPackage bool
	// Module is the raw target expression. Absolute imports are a dotted
	// path ("app.core.db"); relative imports keep their leading dots
	// ("..models", or just "." for the containing package).
	Module string
	// Name is the imported name of a from-import ("from x import name").
	// It may or may not denote a submodule; the resolver decides. Empty for
	// plain imports and wildcard imports.
	Name string
	// Alias is the local binding introduced with "as". It never affects the
	// dependency graph and is retained for diagnostics only.
	Alias string
	// Context is the lexical context of the declaration.
	Context LexicalContext
	// Wildcard is true for `from x import *`.
	Wildcard bool
}
