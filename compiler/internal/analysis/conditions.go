package analysis

import (
	"github.com/xiaobogaga/javamm/compiler/internal/ast"
)

// conditionPass checks if and while conditions, and rejects an else branch written as an empty
// block. An if without else is fine.
type conditionPass struct{}

func (conditionPass) Name() string {
	return "conditions"
}

func (pass conditionPass) Run(ctx *Context) error {
	return ctx.walk(func(node interface{}, assignee string) error {
		switch n := node.(type) {
		case *ast.IfElseStmt:
			if err := pass.checkCondition(ctx, "if", n.Condition); err != nil {
				return err
			}
			if block, ok := n.Else.(*ast.BlockStmt); ok && len(block.Stmts) == 0 {
				ctx.addReport(block.Pos, "else block is empty")
			}
		case *ast.WhileStmt:
			return pass.checkCondition(ctx, "while", n.Condition)
		}
		return nil
	})
}

func (conditionPass) checkCondition(ctx *Context, stmt string, cond ast.Expr) error {
	tp, ok, err := ctx.typeOf(cond, "")
	if err != nil || !ok {
		return err
	}
	if !isBoolValue(cond, tp) {
		ctx.addReport(cond.Position(), "%s condition must be boolean, got %s", stmt, tp)
	}
	return nil
}
