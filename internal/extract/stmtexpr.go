package extract

import (
	"github.com/cppgraph/indexer/frontend"
	"github.com/cppgraph/indexer/models"
)

var controlFlowKinds = map[string]string{
	"IfStmt":      "conditional",
	"SwitchStmt":  "switch",
	"ForStmt":     "loop",
	"WhileStmt":   "loop",
	"DoStmt":      "loop",
	"ReturnStmt":  "jump",
	"BreakStmt":   "jump",
	"ContinueStmt": "jump",
	"GotoStmt":    "jump",
	"CXXTryStmt":  "exception",
	"CXXCatchStmt": "exception",
}

// Statement emits a Statement row for one statement node.
func Statement(c *Context, n *frontend.Node, id uint64) error {
	row := &models.Statement{
		NodeID:         id,
		StatementKind:  n.Kind,
		IsCompound:     n.Kind == "CompoundStmt",
		IsConstexpr:    frontendAttr[bool](n, "is_constexpr"),
		HasSideEffects: frontendAttr[bool](n, "has_side_effects"),
		ConditionText:  stringPtrOrNil(frontendAttr[string](n, "condition_text")),
	}
	if cft, ok := controlFlowKinds[n.Kind]; ok {
		row.ControlFlowType = &cft
	}
	return c.Batch.AppendDedup(row)
}

// Expression emits an Expression row, folding a constant into a
// ConstantExpression row plus a HAS_CONSTANT_VALUE edge when the front-end
// reports one.
func Expression(c *Context, n *frontend.Node, id uint64) error {
	row := &models.Expression{
		NodeID:           id,
		ExpressionKind:   defaultString(frontendAttr[string](n, "expression_kind"), n.Kind),
		ValueCategory:    frontendAttr[string](n, "value_category"),
		OperatorKind:     stringPtrOrNil(frontendAttr[string](n, "operator_kind")),
		LiteralValue:     stringPtrOrNil(frontendAttr[string](n, "literal_value")),
		ImplicitCastKind: stringPtrOrNil(frontendAttr[string](n, "implicit_cast_kind")),
		IsConstexpr:      frontendAttr[bool](n, "is_constexpr"),
		EvaluationResult: stringPtrOrNil(frontendAttr[string](n, "evaluation_result")),
	}
	if err := c.Batch.AppendDedup(row); err != nil {
		return err
	}

	if err := emitTypeEdge(c, n, "declared_type", "declared", id); err != nil {
		return err
	}
	if err := emitTypeEdge(c, n, "element_type", "element", id); err != nil {
		return err
	}

	if _, ok := n.Attrs["constant_value"]; ok {
		constRow := &models.ConstantExpression{
			NodeID:                c.Identity.Fresh(),
			ConstantValue:         frontendAttr[string](n, "constant_value"),
			ConstantType:          frontendAttr[string](n, "constant_type"),
			IsCompileTimeConstant: frontendAttr[bool](n, "is_compile_time_constant"),
		}
		if err := c.Batch.Append(constRow); err != nil {
			return err
		}
		return c.Batch.Append(&models.HasConstantValue{FromID: id, ToID: constRow.NodeID})
	}
	return nil
}
