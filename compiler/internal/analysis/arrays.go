package analysis

import (
	"github.com/xiaobogaga/javamm/compiler/internal/ast"
	"github.com/xiaobogaga/javamm/compiler/internal/symbol"
)

// arrayPass checks indexing, array literals, allocation sizes, length reads and element stores.
type arrayPass struct{}

func (arrayPass) Name() string {
	return "arrays"
}

func (pass arrayPass) Run(ctx *Context) error {
	return ctx.walk(func(node interface{}, assignee string) error {
		switch n := node.(type) {
		case *ast.ArrayIndex:
			return pass.checkIndex(ctx, n, assignee)
		case *ast.ArrayLiteral:
			return pass.checkLiteral(ctx, n, assignee)
		case *ast.NewIntArray:
			size, ok, err := ctx.typeOf(n.Size, assignee)
			if err != nil || !ok {
				return err
			}
			if !size.IsInt() {
				ctx.addReport(n.Pos, "array size must be int, got %s", size)
			}
		case *ast.ArrayLength:
			array, ok, err := ctx.typeOf(n.Array, assignee)
			if err != nil || !ok {
				return err
			}
			if !isArrayType(array) {
				ctx.addReport(n.Pos, "length can only be read from an array, got %s", array)
			}
		case *ast.ArrayAssignStmt:
			return pass.checkStore(ctx, n)
		}
		return nil
	})
}

func isArrayType(tp symbol.Type) bool {
	return tp.IsArray || tp.IsVararg()
}

func (arrayPass) checkIndex(ctx *Context, expr *ast.ArrayIndex, assignee string) error {
	array, arrayOk, err := ctx.typeOf(expr.Array, assignee)
	if err != nil {
		return err
	}
	index, indexOk, err := ctx.typeOf(expr.Index, assignee)
	if err != nil {
		return err
	}
	if !arrayOk || !indexOk {
		return nil
	}
	if !isArrayType(array) {
		ctx.addReport(expr.Pos, "cannot index a value of type %s", array)
	} else if !index.IsInt() {
		ctx.addReport(expr.Pos, "array index must be int, got %s", index)
	}
	return nil
}

// Every element of an array literal must have the element type of the array, which is int.
func (arrayPass) checkLiteral(ctx *Context, expr *ast.ArrayLiteral, assignee string) error {
	for _, elem := range expr.Elements {
		tp, ok, err := ctx.typeOf(elem, assignee)
		if err != nil {
			return err
		}
		if ok && !tp.IsInt() {
			ctx.addReport(elem.Position(), "array element must be int, got %s", tp)
		}
	}
	return nil
}

func (arrayPass) checkStore(ctx *Context, stmt *ast.ArrayAssignStmt) error {
	scope := ctx.scope("")
	array, ok := symbol.AssigneeType(scope, stmt.Target)
	if !ok {
		return nil
	}
	index, indexOk, err := ctx.typeOf(stmt.Index, "")
	if err != nil {
		return err
	}
	value, valueOk, err := ctx.typeOf(stmt.Value, "")
	if err != nil {
		return err
	}
	switch {
	case !isArrayType(array):
		ctx.addReport(stmt.Pos, "'%s' of type %s is not an array", stmt.Target, array)
	case indexOk && !index.IsInt():
		ctx.addReport(stmt.Pos, "array index must be int, got %s", index)
	case valueOk && !value.IsInt():
		ctx.addReport(stmt.Pos, "cannot store %s into int array '%s'", value, stmt.Target)
	}
	return nil
}
