package analysis

import (
	"github.com/xiaobogaga/javamm/compiler/internal/ast"
	"github.com/xiaobogaga/javamm/compiler/internal/symbol"
)

// typePass checks operand, assignment, return and argument types, together with the rules of the
// static context and of varargs.
type typePass struct{}

func (typePass) Name() string {
	return "types"
}

func (pass typePass) Run(ctx *Context) error {
	for _, method := range ctx.Program.Class.Methods {
		pass.checkMethodDecl(ctx, method)
	}
	return ctx.walk(func(node interface{}, assignee string) error {
		switch n := node.(type) {
		case *ast.BinaryExpr:
			return pass.checkArithmetic(ctx, n, assignee)
		case *ast.BoolOp:
			return pass.checkBoolOp(ctx, n, assignee)
		case *ast.NotOp:
			return pass.checkNotOp(ctx, n, assignee)
		case *ast.Identifier:
			if ctx.inStaticMethod() && ctx.Table.IsField(ctx.method.Name, n.Name) {
				ctx.addReport(n.Pos, "field '%s' cannot be used in static method %s", n.Name, ctx.method.Name)
			}
		case *ast.VarRef:
			if ctx.inStaticMethod() {
				ctx.addReport(n.Pos, "'this' cannot be used in static method %s", ctx.method.Name)
			}
		case *ast.AssignStmt:
			return pass.checkAssign(ctx, n)
		case *ast.ReturnStmt:
			return pass.checkReturn(ctx, n)
		case *ast.MethodCall:
			return pass.checkCallArgs(ctx, n, assignee)
		}
		return nil
	})
}

func (typePass) checkMethodDecl(ctx *Context, method *ast.MethodDecl) {
	for i, param := range method.Params {
		if param.Type != nil && param.Type.IsVararg && i != len(method.Params)-1 {
			ctx.addReport(param.Pos, "vararg parameter '%s' of method %s must be the last parameter", param.Name, method.Name)
			break
		}
	}
	if method.IsStatic && method.Name != "main" {
		ctx.addReport(method.Pos, "method %s cannot be static, only main can", method.Name)
	}
}

func (typePass) checkArithmetic(ctx *Context, expr *ast.BinaryExpr, assignee string) error {
	// Validates the operator.
	if _, _, err := ctx.typeOf(expr, assignee); err != nil {
		return err
	}
	left, leftOk, err := ctx.typeOf(expr.Left, assignee)
	if err != nil {
		return err
	}
	right, rightOk, err := ctx.typeOf(expr.Right, assignee)
	if err != nil {
		return err
	}
	if !leftOk || !rightOk {
		return nil
	}
	if isIntOperand(left) && isIntOperand(right) {
		return nil
	}
	ctx.addReport(expr.Pos, "operator %s cannot be applied to %s and %s", expr.Op, left, right)
	return nil
}

func isIntOperand(tp symbol.Type) bool {
	return tp.IsInt() || tp.IsIntArray()
}

func (typePass) checkBoolOp(ctx *Context, expr *ast.BoolOp, assignee string) error {
	if _, _, err := ctx.typeOf(expr, assignee); err != nil {
		return err
	}
	left, leftOk, err := ctx.typeOf(expr.Left, assignee)
	if err != nil {
		return err
	}
	right, rightOk, err := ctx.typeOf(expr.Right, assignee)
	if err != nil {
		return err
	}
	if !leftOk || !rightOk {
		return nil
	}
	if isBoolValue(expr.Left, left) && isBoolValue(expr.Right, right) {
		return nil
	}
	ctx.addReport(expr.Pos, "operator %s cannot be applied to %s and %s", expr.Op, left, right)
	return nil
}

func (typePass) checkNotOp(ctx *Context, expr *ast.NotOp, assignee string) error {
	operand, ok, err := ctx.typeOf(expr.Operand, assignee)
	if err != nil || !ok {
		return err
	}
	if !isBoolValue(expr.Operand, operand) {
		ctx.addReport(expr.Pos, "operator ! cannot be applied to %s", operand)
	}
	return nil
}

func (pass typePass) checkAssign(ctx *Context, stmt *ast.AssignStmt) error {
	scope := ctx.scope(stmt.Target)
	left, ok := symbol.AssigneeType(scope, stmt.Target)
	if !ok {
		return nil
	}
	if ctx.inStaticMethod() && ctx.Table.IsField(ctx.method.Name, stmt.Target) {
		ctx.addReport(stmt.Pos, "field '%s' cannot be assigned in static method %s", stmt.Target, ctx.method.Name)
		return nil
	}
	right, ok, err := ctx.typeOf(stmt.Value, stmt.Target)
	if err != nil || !ok {
		return err
	}
	if !isAssignable(ctx.Table, left, right, stmt.Value) {
		ctx.addReport(stmt.Pos, "cannot assign %s to '%s' of type %s", right, stmt.Target, left)
	}
	return nil
}

// isAssignable reports whether a value of type right, computed by expr, can be stored into a
// variable of type left. Besides equal types it accepts int and int[] in either direction, two
// imported types, anything when the superclass is imported, this class into its superclass, and
// relational comparisons into booleans.
func isAssignable(table *symbol.Table, left, right symbol.Type, expr ast.Expr) bool {
	if left == right {
		return true
	}
	if (left.IsInt() || left.IsIntArray()) && (right.IsInt() || right.IsIntArray()) {
		return true
	}
	if left.IsBool() && isRelational(expr) {
		return true
	}
	if table.IsImported(left.Name) && table.IsImported(right.Name) {
		return true
	}
	if table.SuperClass() != "" && table.IsImported(table.SuperClass()) {
		return true
	}
	if right == symbol.ThisType || right == (symbol.Type{Name: table.ClassName()}) {
		return !left.IsArray && (left.Name == table.ClassName() || (left.Name != "" && left.Name == table.SuperClass()))
	}
	return false
}

// Literal returns must match the declared type, identifier returns must name a variable of the
// declared type, array elements and call results are accepted as they are.
func (typePass) checkReturn(ctx *Context, stmt *ast.ReturnStmt) error {
	method := ctx.method
	want := symbol.VoidType
	if method.ReturnType != nil {
		want = symbol.TypeFromRef(method.ReturnType)
	}
	switch value := stmt.Value.(type) {
	case nil:
		if want != symbol.VoidType {
			ctx.addReport(stmt.Pos, "method %s must return a value of type %s", method.Name, want)
		}
	case *ast.IntegerLiteral:
		if !want.IsInt() {
			ctx.addReport(stmt.Pos, "method %s returns %s, got an int literal", method.Name, want)
		}
	case *ast.BoolLiteral:
		if !want.IsBool() {
			ctx.addReport(stmt.Pos, "method %s returns %s, got a boolean literal", method.Name, want)
		}
	case *ast.Identifier:
		if !isKnownName(ctx, value.Name) || (method.IsStatic && ctx.Table.IsField(method.Name, value.Name)) {
			return nil
		}
		if !returnsVarOfType(ctx, value.Name, want) {
			ctx.addReport(stmt.Pos, "method %s returns %s, '%s' has another type", method.Name, want, value.Name)
		}
	case *ast.ArrayIndex, *ast.MethodCall:
	default:
		got, ok, err := ctx.typeOf(value, "")
		if err != nil || !ok {
			return err
		}
		if !isAssignable(ctx.Table, want, got, value) {
			ctx.addReport(stmt.Pos, "method %s returns %s, got %s", method.Name, want, got)
		}
	}
	return nil
}

// Fields are only visible to instance methods. Any field, parameter or local with the name and the
// wanted type is accepted.
func returnsVarOfType(ctx *Context, name string, want symbol.Type) bool {
	method := ctx.method.Name
	if !ctx.method.IsStatic {
		if field, ok := ctx.Table.Field(name); ok && field.Type == want {
			return true
		}
	}
	if param, _, ok := ctx.Table.Parameter(method, name); ok && param.Type == want {
		return true
	}
	local, ok := ctx.Table.Local(method, name)
	return ok && local.Type == want
}

// checkCallArgs matches the arguments of a call to a method of this class against its parameters.
// A trailing vararg takes any number of ints or a single int array.
func (typePass) checkCallArgs(ctx *Context, call *ast.MethodCall, assignee string) error {
	if !ctx.Table.HasMethod(call.Name) {
		return nil
	}
	receiver, ok, err := ctx.typeOf(call.Receiver, assignee)
	if err != nil || !ok {
		return err
	}
	if receiver != symbol.ThisType && receiver != (symbol.Type{Name: ctx.Table.ClassName()}) {
		return nil
	}
	args := make([]symbol.Type, 0, len(call.Args))
	for _, arg := range call.Args {
		tp, ok, err := ctx.typeOf(arg, assignee)
		if err != nil || !ok {
			return err
		}
		args = append(args, tp)
	}
	params := ctx.Table.Parameters(call.Name)
	fixed := params
	hasVararg := len(params) > 0 && params[len(params)-1].Type.IsVararg()
	if hasVararg {
		fixed = params[:len(params)-1]
	}
	if len(args) < len(fixed) || (!hasVararg && len(args) > len(fixed)) {
		ctx.addReport(call.Pos, "method %s expects %d arguments, got %d", call.Name, len(params), len(args))
		return nil
	}
	for i, param := range fixed {
		if !isAssignable(ctx.Table, param.Type, args[i], call.Args[i]) {
			ctx.addReport(call.Pos, "argument %d of method %s must be %s, got %s", i+1, call.Name, param.Type, args[i])
			return nil
		}
	}
	if !hasVararg {
		return nil
	}
	rest := args[len(fixed):]
	if len(rest) == 1 && rest[0].IsIntArray() {
		return nil
	}
	for _, tp := range rest {
		if !tp.IsInt() {
			ctx.addReport(call.Pos, "vararg of method %s only takes int values, got %s", call.Name, tp)
			return nil
		}
	}
	return nil
}
