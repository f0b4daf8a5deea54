// Package pyimports statically extracts import declarations from Python
// source files. Parsing is purely syntactic: no analyzed code is ever
// executed or evaluated, and only the two import statement forms
// ("import a.b [as x]" and "from mod import name [as x]") are recognized.
package pyimports

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/LegacyCodeHQ/byecycle/modgraph"
)

// ErrInvalidSyntax reports that a file could not be parsed as Python. The
// file contributes no import records; callers record the failure and move on.
var ErrInvalidSyntax = errors.New("invalid python syntax")

// ExtractImports parses one module's source text and returns its import
// records in declaration order. owner names the module the source belongs
// to; isPackage marks __init__ modules, whose relative imports resolve
// against the package itself.
func ExtractImports(owner modgraph.ModuleId, isPackage bool, source []byte) ([]modgraph.ImportRecord, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", owner, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w in %s", ErrInvalidSyntax, owner)
	}

	extractor := &extractor{owner: owner, isPackage: isPackage, source: source}
	extractor.walk(root)
	return extractor.records, nil
}

type extractor struct {
	owner     modgraph.ModuleId
	isPackage bool
	source    []byte
	records   []modgraph.ImportRecord
}

func (e *extractor) walk(node *sitter.Node) {
	switch node.Type() {
	case "import_statement":
		e.collectImport(node)
	case "import_from_statement", "future_import_statement":
		e.collectImportFrom(node)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child != nil {
			e.walk(child)
		}
	}
}

// collectImport handles "import a.b [as x], c" declarations: one record per
// listed module.
func (e *extractor) collectImport(node *sitter.Node) {
	ctx := lexicalContext(node, e.source)

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "dotted_name", "identifier":
			e.emit(modgraph.ImportRecord{
				Module:  text(child, e.source),
				Context: ctx,
			})
		case "aliased_import":
			module, alias := splitAliased(child, e.source)
			if module != "" {
				e.emit(modgraph.ImportRecord{
					Module:  module,
					Alias:   alias,
					Context: ctx,
				})
			}
		}
	}
}

// collectImportFrom handles "from mod import name [as x], ..." declarations:
// one record per imported name, so names that denote submodules can later
// resolve one level deeper. A wildcard import contributes a single record
// for the module path itself.
func (e *extractor) collectImportFrom(node *sitter.Node) {
	ctx := lexicalContext(node, e.source)

	var module string
	seenImportKeyword := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.Type() == "import" {
			seenImportKeyword = true
			continue
		}

		if !seenImportKeyword {
			switch child.Type() {
			case "relative_import", "dotted_name", "identifier":
				module = text(child, e.source)
			case "__future__":
				// In future_import_statement the module is a bare keyword
				// token rather than a dotted_name.
				module = "__future__"
			}
			continue
		}

		switch child.Type() {
		case "wildcard_import":
			e.emit(modgraph.ImportRecord{
				Module:   module,
				Context:  ctx,
				Wildcard: true,
			})
		case "dotted_name", "identifier":
			e.emit(modgraph.ImportRecord{
				Module:  module,
				Name:    text(child, e.source),
				Context: ctx,
			})
		case "aliased_import":
			name, alias := splitAliased(child, e.source)
			if name != "" {
				e.emit(modgraph.ImportRecord{
					Module:  module,
					Name:    name,
					Alias:   alias,
					Context: ctx,
				})
			}
		}
	}
}

func (e *extractor) emit(rec modgraph.ImportRecord) {
	if rec.Module == "" {
		return
	}
	rec.Owner = e.owner
	rec.OwnerIsPackage = e.isPackage
	e.records = append(e.records, rec)
}

// splitAliased returns the target and alias of an "x as y" clause.
func splitAliased(node *sitter.Node, source []byte) (target, alias string) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			if target == "" {
				target = text(child, source)
			} else {
				alias = text(child, source)
			}
		case "identifier":
			if target == "" {
				target = text(child, source)
			} else {
				alias = text(child, source)
			}
		}
	}
	return target, alias
}

// lexicalContext classifies where the declaration sits.
//
// A declaration guarded by a module-level if or try/except is conditional
// (type-checking guards get their own tag); one nested anywhere inside a
// function body is deferred. Everything else, class bodies included, counts
// as top level since it executes unconditionally on module load.
func lexicalContext(node *sitter.Node, source []byte) modgraph.LexicalContext {
	if guard := moduleLevelGuard(node); guard != nil {
		if guard.Type() == "if_statement" && isTypeCheckingGuard(guard, source) {
			return modgraph.ContextTypeCheckOnly
		}
		return modgraph.ContextConditional
	}

	for ancestor := node.Parent(); ancestor != nil; ancestor = ancestor.Parent() {
		if ancestor.Type() == "function_definition" {
			return modgraph.ContextDeferred
		}
	}
	return modgraph.ContextTopLevel
}

// moduleLevelGuard returns the if_statement or try_statement directly
// guarding the declaration at module scope, or nil. Guards nested deeper
// than module scope don't count; the enclosing scope decides the context.
func moduleLevelGuard(node *sitter.Node) *sitter.Node {
	block := node.Parent()
	if block == nil || block.Type() != "block" {
		return nil
	}

	stmt := block.Parent()
	for stmt != nil {
		switch stmt.Type() {
		case "elif_clause", "else_clause", "except_clause", "finally_clause":
			stmt = stmt.Parent()
		case "if_statement", "try_statement":
			if parent := stmt.Parent(); parent != nil && parent.Type() == "module" {
				return stmt
			}
			return nil
		default:
			return nil
		}
	}
	return nil
}

// isTypeCheckingGuard matches `if TYPE_CHECKING:` and
// `if typing.TYPE_CHECKING:` conditions.
func isTypeCheckingGuard(ifStmt *sitter.Node, source []byte) bool {
	condition := ifStmt.ChildByFieldName("condition")
	if condition == nil {
		return false
	}
	cond := text(condition, source)
	return cond == "TYPE_CHECKING" || strings.HasSuffix(cond, ".TYPE_CHECKING")
}

func text(node *sitter.Node, source []byte) string {
	return strings.TrimSpace(node.Content(source))
}
