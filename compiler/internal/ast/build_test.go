package ast_test

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaobogaga/javamm/compiler/internal/ast"
	. "github.com/xiaobogaga/javamm/compiler/internal/ast/asttest"
	"github.com/xiaobogaga/javamm/compiler/internal/report"
)

func sampleTree() *ast.Generic {
	return Program(
		Import("io"),
		Import("[a, b, Foo]"),
		Class("Simple", "Foo",
			Var("x", Type("int")),
			Method("add", Type("int"),
				Param("a", Type("int")),
				Param("b", Type("int...")),
				Var("r", ArrayType("int")),
				Assign("x", Binary("+", Id("a"), Int(1))).At(4, 9),
				Return(Id("x")),
			),
			Main(
				ExprStmt(Call("println", Id("io"), Int(1))),
				If(Bool(true), Block(), While(Binary("<", Int(1), Int(2)), Block())),
			),
		),
	)
}

func TestBuild(t *testing.T) {
	program, err := ast.Build(sampleTree())
	require.Nil(t, err)
	require.Len(t, program.Imports, 2)
	assert.Equal(t, "io", program.Imports[0].ImportName())
	assert.Equal(t, "a.b.Foo", program.Imports[1].ImportName())

	class := program.Class
	assert.Equal(t, "Simple", class.Name)
	assert.Equal(t, "Foo", class.SuperClass)
	require.Len(t, class.Fields, 1)
	require.Len(t, class.Methods, 2)

	add := class.Methods[0]
	assert.Equal(t, "int", add.ReturnType.Name)
	assert.True(t, add.IsPublic)
	assert.False(t, add.IsStatic)
	require.Len(t, add.Params, 2)
	assert.True(t, add.Params[1].Type.IsVararg)
	assert.Equal(t, "int", add.Params[1].Type.Name)
	require.Len(t, add.Locals, 1)
	assert.True(t, add.Locals[0].Type.IsArray)
	require.Len(t, add.Body, 2)
	assign, ok := add.Body[0].(*ast.AssignStmt)
	require.True(t, ok)
	assert.Equal(t, ast.Position{Line: 4, Column: 9}, assign.Position())
	binary, ok := assign.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.AddOp, binary.Op)

	main := class.Methods[1]
	assert.Equal(t, "void", main.ReturnType.Name)
	assert.True(t, main.IsStatic)
	ifStmt, ok := main.Body[1].(*ast.IfElseStmt)
	require.True(t, ok)
	_, ok = ifStmt.Else.(*ast.WhileStmt)
	assert.True(t, ok)
}

func TestBuildErrors(t *testing.T) {
	testCases := []struct {
		name string
		tree *ast.Generic
	}{
		{"wrong root", Class("A", "")},
		{"no class", Program(Import("io"))},
		{"two classes", Program(Class("A", ""), Class("B", ""))},
		{"unknown statement", Program(Class("A", "", Main(ast.NewNode("Goto", nil))))},
		{"missing attribute", Program(Class("A", "", Main(Assign("x", ast.NewNode(ast.IdentifierKind, nil)))))},
		{"wrong children", Program(Class("A", "", Main(ast.NewNode(ast.AssignStmtKind, map[string]string{"id": "x"}))))},
		{"bad bool", Program(Class("A", "", Main(ExprStmt(ast.NewNode(ast.BoolKind, map[string]string{"value": "yes"})))))},
		{"var ref other than this", Program(Class("A", "", Main(ExprStmt(ast.NewNode(ast.VarRefExprKind, map[string]string{"name": "super"})))))},
		{"call receiver", Program(Class("A", "", Main(ExprStmt(Call("foo", Int(1))))))},
		{"empty import", Program(Import("a..b"), Class("A", ""))},
	}
	for _, testCase := range testCases {
		_, err := ast.Build(testCase.tree)
		assert.True(t, report.IsFault(err, report.SyntacticFault), testCase.name)
	}
	_, err := ast.Build(nil)
	assert.True(t, report.IsFault(err, report.SyntacticFault))
}

func TestBuildMissingTypeIsLeftNil(t *testing.T) {
	tree := Program(Class("A", "", ast.NewNode(ast.VarDeclKind, map[string]string{"name": "x"})))
	program, err := ast.Build(tree)
	require.Nil(t, err)
	assert.Nil(t, program.Class.Fields[0].Type)
}

func TestTreeRoundTrip(t *testing.T) {
	tree := sampleTree()
	data, err := ast.MarshalTree(tree)
	require.Nil(t, err)
	decoded, err := ast.ReadTree(bytes.NewReader(data))
	require.Nil(t, err)
	assert.Equal(t, tree, decoded)

	again, err := ast.MarshalTree(decoded)
	require.Nil(t, err)
	assert.Equal(t, data, again)
}

func TestReadJSONTree(t *testing.T) {
	text := `{"kind": "Program", "children": [
		{"kind": "ClassDecl", "attrs": {"name": "A"}, "line": 1, "col": 1}
	]}`
	root, err := ast.ReadTree(bytes.NewBufferString(text))
	require.Nil(t, err)
	program, err := ast.Build(root)
	require.Nil(t, err)
	assert.Equal(t, "A", program.Class.Name)
	assert.Equal(t, 1, program.Class.Pos.Line)
}

func TestInspect(t *testing.T) {
	program, err := ast.Build(sampleTree())
	require.Nil(t, err)
	calls := 0
	err = ast.Inspect(program.Class.Methods[1].Body, func(node interface{}, assignee string) error {
		if _, ok := node.(*ast.MethodCall); ok {
			calls++
		}
		assert.Empty(t, assignee)
		return nil
	})
	require.Nil(t, err)
	assert.Equal(t, 1, calls)

	var assignees []string
	err = ast.Inspect(program.Class.Methods[0].Body, func(node interface{}, assignee string) error {
		if _, ok := node.(ast.Expr); ok {
			assignees = append(assignees, assignee)
		}
		return nil
	})
	require.Nil(t, err)
	assert.Equal(t, []string{"x", "x", "x", ""}, assignees)
}

func TestInspectStopsOnError(t *testing.T) {
	program, err := ast.Build(sampleTree())
	require.Nil(t, err)
	visited := 0
	err = ast.Inspect(program.Class.Methods[0].Body, func(node interface{}, assignee string) error {
		visited++
		if _, ok := node.(*ast.BinaryExpr); ok {
			return errors.New("stop")
		}
		return nil
	})
	assert.EqualError(t, err, "stop")
	assert.Equal(t, 2, visited)
}
