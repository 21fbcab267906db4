package symbol

import (
	"fmt"

	"github.com/xiaobogaga/javamm/compiler/internal/ast"
	"github.com/xiaobogaga/javamm/compiler/internal/report"
)

// Scope is where an expression is evaluated: the enclosing method, and for expressions on the right
// hand side of an assignment, the assigned name.
type Scope struct {
	Table    *Table
	Method   string
	Assignee string
}

// LookupError means a name used by an expression is not declared anywhere visible. It is not a
// fault, the undeclared pass turns it into a report and every other caller skips the expression.
type LookupError struct {
	Name string
	Pos  ast.Position
}

func (err *LookupError) Error() string {
	return fmt.Sprintf("cannot resolve %s at %d:%d", err.Name, err.Pos.Line, err.Pos.Column)
}

func IsLookupError(err error) bool {
	_, ok := err.(*LookupError)
	return ok
}

// TypeOf computes the static type of expr.
func TypeOf(expr ast.Expr, scope Scope) (Type, error) {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		return binaryExprType(e)
	case *ast.BoolOp:
		return boolOpType(e)
	case *ast.NotOp:
		return BoolType, nil
	case *ast.IntegerLiteral:
		return IntType, nil
	case *ast.BoolLiteral:
		return BoolType, nil
	case *ast.NewIntArray, *ast.ArrayLiteral:
		return IntArrayType, nil
	case *ast.NewObject:
		return Type{Name: e.Class}, nil
	case *ast.ArrayIndex, *ast.ArrayLength:
		return IntType, nil
	case *ast.VarRef:
		return ThisType, nil
	case *ast.Identifier:
		return identifierType(e, scope)
	case *ast.MethodCall:
		return callType(e, scope), nil
	case nil:
		return Type{}, report.Internalf("missing expression")
	default:
		return Type{}, report.Internalf("can't compute type for expression %T", expr)
	}
}

func binaryExprType(expr *ast.BinaryExpr) (Type, error) {
	switch expr.Op {
	case ast.AddOp, ast.SubOp, ast.MulOp, ast.DivOp, ast.LessOp, ast.GreaterOp:
		return IntType, nil
	default:
		return Type{}, report.Internalf("unknown operator '%s' at %d:%d", expr.Op, expr.Pos.Line, expr.Pos.Column)
	}
}

func boolOpType(expr *ast.BoolOp) (Type, error) {
	switch expr.Op {
	case ast.AndOp, ast.OrOp:
		return BoolType, nil
	default:
		return Type{}, report.Internalf("unknown operator '%s' at %d:%d", expr.Op, expr.Pos.Line, expr.Pos.Column)
	}
}

// Identifiers are searched in locals, parameters, fields and finally imports. An imported class
// is not modeled, so it resolves to void.
func identifierType(ident *ast.Identifier, scope Scope) (Type, error) {
	if sym, ok := scope.Table.LookUpVar(scope.Method, ident.Name); ok {
		return sym.Type, nil
	}
	for _, imp := range scope.Table.Imports() {
		if LastSegment(imp) == ident.Name {
			return VoidType, nil
		}
	}
	return Type{}, &LookupError{Name: ident.Name, Pos: ident.Pos}
}

// A call to a method of this class has its declared return type. Any other call takes the type of
// the variable it is assigned to, or void when its result is not assigned.
func callType(call *ast.MethodCall, scope Scope) Type {
	if ret, ok := scope.Table.ReturnType(call.Name); ok {
		return ret
	}
	if scope.Assignee == "" {
		return VoidType
	}
	if sym, ok := scope.Table.Local(scope.Method, scope.Assignee); ok {
		return sym.Type
	}
	if sym, ok := scope.Table.Field(scope.Assignee); ok {
		return sym.Type
	}
	return VoidType
}

// AssigneeType resolves the declared type of an assignment target, searching the method's locals,
// its parameters and the class fields.
func AssigneeType(scope Scope, name string) (Type, bool) {
	sym, ok := scope.Table.LookUpVar(scope.Method, name)
	return sym.Type, ok
}
