// Package asttest builds boundary trees by hand for tests.
package asttest

import (
	"strconv"

	"github.com/xiaobogaga/javamm/compiler/internal/ast"
)

func attrs(kv ...string) map[string]string {
	m := map[string]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

func Program(children ...*ast.Generic) *ast.Generic {
	return ast.NewNode(ast.ProgramKind, nil, children...)
}

func Import(name string) *ast.Generic {
	return ast.NewNode(ast.ImportDeclKind, attrs("name", name))
}

// Class builds a class declaration. An empty superClass means no extends clause.
func Class(name, superClass string, members ...*ast.Generic) *ast.Generic {
	a := attrs("name", name)
	if superClass != "" {
		a["superClass"] = superClass
	}
	return ast.NewNode(ast.ClassDeclKind, a, members...)
}

func Type(name string) *ast.Generic {
	return ast.NewNode(ast.TypeKind, attrs("name", name, "isArray", "false"))
}

func ArrayType(name string) *ast.Generic {
	return ast.NewNode(ast.TypeKind, attrs("name", name, "isArray", "true"))
}

// Var is a field when placed in a class, a local variable when placed in a method.
func Var(name string, tp *ast.Generic) *ast.Generic {
	return ast.NewNode(ast.VarDeclKind, attrs("name", name), tp)
}

func Param(name string, tp *ast.Generic) *ast.Generic {
	return ast.NewNode(ast.ParamKind, attrs("name", name), tp)
}

// Method builds a public instance method returning ret.
func Method(name string, ret *ast.Generic, children ...*ast.Generic) *ast.Generic {
	return ast.NewNode(ast.MethodDeclKind, attrs("name", name, "isPublic", "true", "isStatic", "false"), append([]*ast.Generic{ret}, children...)...)
}

func StaticMethod(name string, ret *ast.Generic, children ...*ast.Generic) *ast.Generic {
	return ast.NewNode(ast.MethodDeclKind, attrs("name", name, "isPublic", "true", "isStatic", "true"), append([]*ast.Generic{ret}, children...)...)
}

// Main builds public static void main(String[] args) without a Type child.
func Main(children ...*ast.Generic) *ast.Generic {
	return ast.NewNode(ast.MethodDeclKind, attrs("name", "main", "isPublic", "true", "isStatic", "true"), children...)
}

func Assign(id string, value *ast.Generic) *ast.Generic {
	return ast.NewNode(ast.AssignStmtKind, attrs("id", id), value)
}

func ArrayAssign(id string, index, value *ast.Generic) *ast.Generic {
	return ast.NewNode(ast.ArrayAssignStmtKind, attrs("id", id), index, value)
}

// Return builds a return statement, a bare one when value is nil.
func Return(value *ast.Generic) *ast.Generic {
	if value == nil {
		return ast.NewNode(ast.ReturnStmtKind, nil)
	}
	return ast.NewNode(ast.ReturnStmtKind, nil, value)
}

func ExprStmt(expr *ast.Generic) *ast.Generic {
	return ast.NewNode(ast.ExprStmtKind, nil, expr)
}

// If builds an if statement, without else when elseStmt is nil.
func If(cond, then, elseStmt *ast.Generic) *ast.Generic {
	if elseStmt == nil {
		return ast.NewNode(ast.IfElseStmtKind, nil, cond, then)
	}
	return ast.NewNode(ast.IfElseStmtKind, nil, cond, then, elseStmt)
}

func While(cond, body *ast.Generic) *ast.Generic {
	return ast.NewNode(ast.WhileStmtKind, nil, cond, body)
}

func Block(stmts ...*ast.Generic) *ast.Generic {
	return ast.NewNode(ast.BlockStmtKind, nil, stmts...)
}

func Binary(op string, left, right *ast.Generic) *ast.Generic {
	return ast.NewNode(ast.BinaryExprKind, attrs("op", op), left, right)
}

func BoolOp(op string, left, right *ast.Generic) *ast.Generic {
	return ast.NewNode(ast.BoolOpKind, attrs("op", op), left, right)
}

func Not(operand *ast.Generic) *ast.Generic {
	return ast.NewNode(ast.NotOpKind, nil, operand)
}

func Id(name string) *ast.Generic {
	return ast.NewNode(ast.IdentifierKind, attrs("id", name))
}

func This() *ast.Generic {
	return ast.NewNode(ast.VarRefExprKind, attrs("name", "this"))
}

func Int(v int) *ast.Generic {
	return ast.NewNode(ast.IntegerLiteralKind, attrs("value", strconv.Itoa(v)))
}

func Bool(v bool) *ast.Generic {
	return ast.NewNode(ast.BoolKind, attrs("value", strconv.FormatBool(v)))
}

func Index(array, index *ast.Generic) *ast.Generic {
	return ast.NewNode(ast.ArrayIndexKind, nil, array, index)
}

func ArrayLiteral(elements ...*ast.Generic) *ast.Generic {
	return ast.NewNode(ast.ArrRefExprKind, nil, elements...)
}

func NewIntArray(size *ast.Generic) *ast.Generic {
	return ast.NewNode(ast.NewIntArrKind, nil, size)
}

func New(class string) *ast.Generic {
	return ast.NewNode(ast.NewObjectKind, attrs("id", class))
}

func Call(name string, receiver *ast.Generic, args ...*ast.Generic) *ast.Generic {
	return ast.NewNode(ast.IdUseExprKind, attrs("name", name), append([]*ast.Generic{receiver}, args...)...)
}

func Length(array *ast.Generic) *ast.Generic {
	return ast.NewNode(ast.ArrayLengthKind, nil, array)
}
