package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaobogaga/javamm/compiler/internal/ast"
	"github.com/xiaobogaga/javamm/compiler/internal/report"
	"github.com/xiaobogaga/javamm/compiler/internal/symbol"
)

func TestTypeOf(t *testing.T) {
	_, table := buildTable(t, tableTree())
	scope := symbol.Scope{Table: table, Method: "add"}
	pos := ast.Position{Line: 3, Column: 5}

	testCases := []struct {
		expr     ast.Expr
		assignee string
		expected symbol.Type
	}{
		{&ast.BinaryExpr{Op: ast.AddOp, Left: &ast.IntegerLiteral{Value: "1"}, Right: &ast.IntegerLiteral{Value: "2"}}, "", symbol.IntType},
		{&ast.BinaryExpr{Op: ast.LessOp}, "", symbol.IntType},
		{&ast.BoolOp{Op: ast.AndOp}, "", symbol.BoolType},
		{&ast.NotOp{}, "", symbol.BoolType},
		{&ast.IntegerLiteral{Value: "5"}, "", symbol.IntType},
		{&ast.BoolLiteral{Value: true}, "", symbol.BoolType},
		{&ast.NewIntArray{Size: &ast.IntegerLiteral{Value: "1"}}, "", symbol.IntArrayType},
		{&ast.ArrayLiteral{}, "", symbol.IntArrayType},
		{&ast.NewObject{Class: "Simple"}, "", symbol.Type{Name: "Simple"}},
		{&ast.ArrayIndex{}, "", symbol.IntType},
		{&ast.ArrayLength{}, "", symbol.IntType},
		{&ast.VarRef{Name: "this"}, "", symbol.ThisType},
		{&ast.Identifier{Name: "a"}, "", symbol.IntType},
		{&ast.Identifier{Name: "r"}, "", symbol.IntArrayType},
		{&ast.Identifier{Name: "flag"}, "", symbol.BoolType},
		{&ast.Identifier{Name: "io"}, "", symbol.VoidType},
		{&ast.Identifier{Name: "Foo"}, "", symbol.VoidType},
		{&ast.MethodCall{Name: "rest", Receiver: &ast.VarRef{Name: "this"}}, "", symbol.IntType},
		{&ast.MethodCall{Name: "foo", Receiver: &ast.Identifier{Name: "io"}}, "", symbol.VoidType},
		{&ast.MethodCall{Name: "foo", Receiver: &ast.Identifier{Name: "io"}}, "r", symbol.IntArrayType},
		{&ast.MethodCall{Name: "foo", Receiver: &ast.Identifier{Name: "io"}}, "flag", symbol.BoolType},
		{&ast.MethodCall{Name: "foo", Receiver: &ast.Identifier{Name: "io"}}, "unknown", symbol.VoidType},
	}
	for i, testCase := range testCases {
		scope.Assignee = testCase.assignee
		tp, err := symbol.TypeOf(testCase.expr, scope)
		require.Nil(t, err, i)
		assert.Equal(t, testCase.expected, tp, i)
	}

	scope.Assignee = ""
	_, err := symbol.TypeOf(&ast.Identifier{Pos: pos, Name: "nope"}, scope)
	require.NotNil(t, err)
	assert.True(t, symbol.IsLookupError(err))
	lookupErr, ok := err.(*symbol.LookupError)
	require.True(t, ok)
	assert.Equal(t, pos, lookupErr.Pos)
	assert.False(t, report.IsFault(err, report.InternalFault))

	_, err = symbol.TypeOf(&ast.BinaryExpr{Pos: pos, Op: "%"}, scope)
	assert.True(t, report.IsFault(err, report.InternalFault))
	_, err = symbol.TypeOf(&ast.BoolOp{Pos: pos, Op: "^"}, scope)
	assert.True(t, report.IsFault(err, report.InternalFault))
}

func TestAssigneeType(t *testing.T) {
	_, table := buildTable(t, tableTree())
	scope := symbol.Scope{Table: table, Method: "add"}
	tp, ok := symbol.AssigneeType(scope, "r")
	require.True(t, ok)
	assert.Equal(t, symbol.IntArrayType, tp)
	tp, ok = symbol.AssigneeType(scope, "flag")
	require.True(t, ok)
	assert.Equal(t, symbol.BoolType, tp)
	_, ok = symbol.AssigneeType(scope, "missing")
	assert.False(t, ok)
}
