package extract

import (
	"strings"

	"github.com/cppgraph/indexer/frontend"
	"github.com/cppgraph/indexer/models"
)

// AST walks one front-end node depth-first, pre-order, dispatching into
// Declaration/Statement/Expression sub-extractors. Children
// are visited in source order; childIndex is their 0-based ordinal.
// hasParent is false only for the TU's root node, which gets no PARENT_OF
// edge. The walk starts with no enclosing scope.
func AST(c *Context, n *frontend.Node, parentID uint64, childIndex int, hasParent bool) (uint64, error) {
	return astWalk(c, n, parentID, childIndex, hasParent, 0, false)
}

func astWalk(c *Context, n *frontend.Node, parentID uint64, childIndex int, hasParent bool, scopeID uint64, hasScope bool) (uint64, error) {
	id := c.Identity.InternAST(c.TU, n.Pointer)
	c.remember(n.Pointer, id)

	row := &models.ASTNode{
		NodeID:        id,
		NodeType:      n.Kind,
		SourceFile:    n.SourceFile,
		StartLine:     n.StartLine,
		StartColumn:   n.StartColumn,
		EndLine:       n.EndLine,
		EndColumn:     n.EndColumn,
		MemoryAddress: uint64(n.Pointer),
		RawText:       n.RawText,
	}
	// AppendDedup: a compilation database listing this TU twice, or a
	// re-parsed header, reproduces the same (tu, pointer) pair and thus the
	// same id on the second pass.
	if err := c.Batch.AppendDedup(row); err != nil {
		return 0, err
	}

	if hasParent {
		if err := c.Batch.AppendDedup(&models.ParentOf{FromID: parentID, ToID: id, ChildIndex: childIndex}); err != nil {
			return 0, err
		}
	}

	switch {
	case n.Kind == "TranslationUnitDecl":
		// The TU root; no secondary row, but it still anchors
		// Preprocessor rows emitted separately (extract.Preprocessor).
	case isDeclKind(n.Kind):
		if err := Declaration(c, n, id); err != nil {
			return 0, err
		}
	case isStmtKind(n.Kind):
		if err := Statement(c, n, id); err != nil {
			return 0, err
		}
	case isExprKind(n.Kind):
		if err := Expression(c, n, id); err != nil {
			return 0, err
		}
	}

	if expansion, ok := macroExpansionFor(c, n.Pointer); ok {
		if err := c.Batch.Append(&models.MacroExpansion{FromID: id, ToID: expansion}); err != nil {
			return 0, err
		}
	}

	// IN_SCOPE (I3): every node (including one that itself introduces
	// a new scope for its own children, e.g. a method nested in a class)
	// records the nearest enclosing NamespaceDecl/CXXRecordDecl/
	// FunctionDecl/block-scope statement it lives in. The TU root has no
	// enclosing scope at all.
	if hasScope {
		if err := c.Batch.Append(&models.InScope{FromID: id, ToID: scopeID, ScopeKind: scopeKindOf(c, scopeID)}); err != nil {
			return 0, err
		}
	}

	childScopeID, childHasScope := scopeID, hasScope
	if isScopeKind(n.Kind) {
		childScopeID, childHasScope = id, true
		c.scopeKinds[id] = n.Kind
	}

	for i, child := range n.Children {
		if _, err := astWalk(c, child, id, i, true, childScopeID, childHasScope); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// isScopeKind reports whether a node kind introduces a new scope per I3:
// namespaces, records, functions/methods, and compound (block) statements.
func isScopeKind(kind string) bool {
	switch kind {
	case "NamespaceDecl", "CXXRecordDecl", "FunctionDecl", "CXXMethodDecl", "CompoundStmt":
		return true
	default:
		return false
	}
}

func scopeKindOf(c *Context, scopeID uint64) string {
	switch c.scopeKinds[scopeID] {
	case "NamespaceDecl":
		return "namespace"
	case "CXXRecordDecl":
		return "class"
	case "FunctionDecl", "CXXMethodDecl":
		return "function"
	case "CompoundStmt":
		return "block"
	default:
		return "unknown"
	}
}

// macroExpansionFor looks up a MacroDefinition NodeId registered by
// Preprocessor for this enclosing node pointer, if any.
func macroExpansionFor(c *Context, enclosingPtr uintptr) (uint64, bool) {
	id, ok := c.expansions[enclosingPtr]
	return id, ok
}

func isDeclKind(kind string) bool { return strings.HasSuffix(kind, "Decl") }
func isStmtKind(kind string) bool { return strings.HasSuffix(kind, "Stmt") }
func isExprKind(kind string) bool {
	return strings.HasSuffix(kind, "Expr") || strings.HasSuffix(kind, "Operator") || strings.HasSuffix(kind, "Literal")
}
