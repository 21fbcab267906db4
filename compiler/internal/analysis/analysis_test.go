package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaobogaga/javamm/compiler/internal/ast"
	. "github.com/xiaobogaga/javamm/compiler/internal/ast/asttest"
	"github.com/xiaobogaga/javamm/compiler/internal/config"
	"github.com/xiaobogaga/javamm/compiler/internal/report"
	"github.com/xiaobogaga/javamm/compiler/internal/symbol"
)

func analyze(t *testing.T, cfg config.Analysis, tree *ast.Generic) []report.Report {
	program, err := ast.Build(tree)
	require.Nil(t, err)
	table, err := symbol.Build(program)
	require.Nil(t, err)
	reports, err := Analyze(program, table, cfg)
	require.Nil(t, err)
	for _, r := range reports {
		assert.Equal(t, report.SemanticStage, r.Stage)
	}
	return reports
}

func class(members ...*ast.Generic) *ast.Generic {
	return Program(Import("io"), Class("A", "", members...))
}

func TestAnalyze(t *testing.T) {
	testCases := []struct {
		name    string
		tree    *ast.Generic
		reports int
	}{
		{
			name: "arithmetic with a boolean operand",
			tree: class(Method("foo", Type("int"),
				Var("b", Type("boolean")), Var("x", Type("int")),
				Assign("x", Binary("+", Id("b"), Int(1))),
				Return(Id("x")),
			)),
			reports: 1,
		},
		{
			name: "arithmetic with an int array operand",
			tree: class(Method("foo", Type("int"),
				Var("r", ArrayType("int")), Var("x", Type("int")),
				Assign("x", Binary("*", Id("r"), Int(2))),
				Return(Id("x")),
			)),
		},
		{
			name:    "static method other than main",
			tree:    class(StaticMethod("foo", Type("int"), Return(Int(1))), Main()),
			reports: 1,
		},
		{
			name:    "duplicated field declared three times",
			tree:    class(Var("x", Type("int")), Var("x", Type("int")), Var("x", Type("int"))),
			reports: 1,
		},
		{
			name:    "duplicated method",
			tree:    class(Method("foo", Type("int"), Return(Int(1))), Method("foo", Type("int"), Return(Int(2)))),
			reports: 1,
		},
		{
			name: "duplicated parameter and local",
			tree: class(Method("foo", Type("int"),
				Param("a", Type("int")), Param("a", Type("int")),
				Var("l", Type("int")), Var("l", Type("int")),
				Return(Int(1)),
			)),
			reports: 2,
		},
		{
			name:    "duplicated import",
			tree:    Program(Import("io"), Import("io"), Class("A", "")),
			reports: 1,
		},
		{
			name: "vararg before another parameter",
			tree: class(Method("foo", Type("int"),
				Param("v", Type("int...")), Param("b", Type("int")),
				Return(Int(0)),
			)),
			reports: 1,
		},
		{
			name: "vararg as last parameter",
			tree: class(Method("foo", Type("int"),
				Param("b", Type("int")), Param("v", Type("int...")),
				Return(Int(0)),
			)),
		},
		{
			name: "int assigned to int array and back",
			tree: class(Method("foo", Type("int"),
				Var("r", ArrayType("int")), Var("x", Type("int")),
				Assign("r", Int(5)),
				Assign("x", Id("r")),
				Return(Id("x")),
			)),
		},
		{
			name: "undeclared identifier",
			tree: class(Method("foo", Type("int"),
				Var("x", Type("int")),
				Assign("x", Id("y")),
				Return(Id("x")),
			)),
			reports: 1,
		},
		{
			name: "assignment to undeclared variable",
			tree: class(Method("foo", Type("int"),
				Assign("x", Int(1)),
				Return(Int(1)),
			)),
			reports: 1,
		},
		{
			name: "call to an undeclared method",
			tree: class(Method("foo", Type("int"),
				Var("x", Type("int")),
				Assign("x", Call("bar", This())),
				Return(Id("x")),
			)),
			reports: 1,
		},
		{
			name: "call on an imported class",
			tree: class(Main(ExprStmt(Call("println", Id("io"), Int(1))))),
		},
		{
			name: "calls are trusted when the superclass is imported",
			tree: Program(Import("B"), Class("A", "B", Method("foo", Type("int"),
				Var("x", Type("int")),
				Assign("x", Call("bar", This())),
				Return(Id("x")),
			))),
		},
		{
			name: "and with an int operand",
			tree: class(Method("foo", Type("int"),
				Var("b", Type("boolean")), Var("x", Type("int")),
				Assign("b", BoolOp("&&", Id("x"), Id("b"))),
				Return(Id("x")),
			)),
			reports: 1,
		},
		{
			name: "or with an int literal operand",
			tree: class(Method("foo", Type("boolean"),
				Var("b", Type("boolean")),
				Assign("b", BoolOp("||", Id("b"), Int(3))),
				Return(Id("b")),
			)),
			reports: 1,
		},
		{
			name: "or with a comparison operand",
			tree: class(Method("foo", Type("boolean"),
				Var("b", Type("boolean")),
				Assign("b", BoolOp("||", Id("b"), Binary("<", Int(1), Int(3)))),
				Return(Id("b")),
			)),
		},
		{
			name: "assign between two imported types",
			tree: Program(Import("B"), Import("C"), Class("A", "", Method("foo", Type("int"),
				Var("b", Type("B")), Var("c", Type("C")),
				Assign("b", Id("c")),
				Return(Int(1)),
			))),
		},
		{
			name: "assign int to an imported type",
			tree: Program(Import("B"), Class("A", "", Method("foo", Type("int"),
				Var("b", Type("B")), Var("x", Type("int")),
				Assign("b", Id("x")),
				Return(Int(1)),
			))),
			reports: 1,
		},
		{
			name: "any assignment is accepted when the superclass is imported",
			tree: Program(Import("B"), Class("A", "B", Method("foo", Type("int"),
				Var("x", Type("int")), Var("y", Type("boolean")),
				Assign("x", Id("y")),
				Return(Int(1)),
			))),
		},
		{
			name: "assign boolean to int",
			tree: class(Method("foo", Type("int"),
				Var("x", Type("int")), Var("y", Type("boolean")),
				Assign("x", Id("y")),
				Return(Int(1)),
			)),
			reports: 1,
		},
		{
			name:    "superclass not imported",
			tree:    Program(Class("A", "B")),
			reports: 1,
		},
		{
			name:    "field type not imported",
			tree:    class(Var("b", Type("B"))),
			reports: 1,
		},
		{
			name:    "new on a class not imported",
			tree:    class(Main(Var("a", Type("A")), Assign("a", New("B")))),
			reports: 2,
		},
		{
			name: "field used in main",
			tree: class(Var("x", Type("int")), Main(
				Var("y", Type("int")),
				Assign("y", Id("x")),
			)),
			reports: 1,
		},
		{
			name: "field assigned in main",
			tree: class(Var("x", Type("int")), Main(
				Assign("x", Int(1)),
			)),
			reports: 1,
		},
		{
			name: "this in main",
			tree: class(Method("foo", Type("int"), Return(Int(1))), Main(
				ExprStmt(Call("foo", This())),
			)),
			reports: 1,
		},
		{
			name: "this assigned to its own class",
			tree: class(Method("foo", Type("int"),
				Var("a", Type("A")),
				Assign("a", This()),
				Return(Int(1)),
			)),
		},
		{
			name: "boolean assigned to int",
			tree: class(Method("foo", Type("int"),
				Var("x", Type("int")),
				Assign("x", Bool(true)),
				Return(Id("x")),
			)),
			reports: 1,
		},
		{
			name: "comparison assigned to boolean",
			tree: class(Method("foo", Type("boolean"),
				Var("b", Type("boolean")),
				Assign("b", Binary("<", Int(1), Int(2))),
				Return(Id("b")),
			)),
		},
		{
			name:    "int literal returned from boolean method",
			tree:    class(Method("foo", Type("boolean"), Return(Int(1)))),
			reports: 1,
		},
		{
			name: "variable of another type returned",
			tree: class(Method("foo", Type("int"),
				Var("b", Type("boolean")),
				Return(Id("b")),
			)),
			reports: 1,
		},
		{
			name:    "bare return from int method",
			tree:    class(Method("foo", Type("int"), Return(nil))),
			reports: 1,
		},
		{
			name: "argument of the wrong type",
			tree: class(
				Method("foo", Type("int"), Param("a", Type("int")), Return(Id("a"))),
				Method("bar", Type("int"), Return(Call("foo", This(), Bool(true)))),
			),
			reports: 1,
		},
		{
			name: "wrong argument count",
			tree: class(
				Method("foo", Type("int"), Param("a", Type("int")), Return(Id("a"))),
				Method("bar", Type("int"), Return(Call("foo", This()))),
			),
			reports: 1,
		},
		{
			name: "vararg takes ints or one int array",
			tree: class(
				Method("foo", Type("int"), Param("v", Type("int...")), Return(Int(0))),
				Method("bar", Type("int"),
					Var("r", ArrayType("int")), Var("x", Type("int")),
					Assign("x", Call("foo", This(), Int(1), Int(2), Int(3))),
					Assign("x", Call("foo", This(), Id("r"))),
					Assign("x", Call("foo", This())),
					Return(Id("x")),
				),
			),
		},
		{
			name: "vararg given a boolean",
			tree: class(
				Method("foo", Type("int"), Param("v", Type("int...")), Return(Int(0))),
				Method("bar", Type("int"), Return(Call("foo", This(), Int(1), Bool(false)))),
			),
			reports: 1,
		},
		{
			name: "indexing a boolean",
			tree: class(Method("foo", Type("int"),
				Var("b", Type("boolean")), Var("x", Type("int")),
				Assign("x", Index(Id("b"), Int(0))),
				Return(Id("x")),
			)),
			reports: 1,
		},
		{
			name: "boolean index",
			tree: class(Method("foo", Type("int"),
				Var("r", ArrayType("int")),
				Return(Index(Id("r"), Bool(true))),
			)),
			reports: 1,
		},
		{
			name: "array literal with a boolean element",
			tree: class(Method("foo", Type("int"),
				Var("r", ArrayType("int")),
				Assign("r", ArrayLiteral(Int(1), Bool(true))),
				Return(Int(0)),
			)),
			reports: 1,
		},
		{
			name: "store into an int",
			tree: class(Method("foo", Type("int"),
				Var("x", Type("int")),
				ArrayAssign("x", Int(0), Int(1)),
				Return(Id("x")),
			)),
			reports: 1,
		},
		{
			name: "length of an int",
			tree: class(Method("foo", Type("int"),
				Var("x", Type("int")),
				Return(Binary("+", Length(Id("x")), Int(0))),
			)),
			reports: 1,
		},
		{
			name: "valid array use",
			tree: class(Method("foo", Type("int"),
				Var("r", ArrayType("int")),
				Assign("r", NewIntArray(Int(3))),
				ArrayAssign("r", Int(0), Int(7)),
				Return(Binary("+", Index(Id("r"), Int(0)), Length(Id("r")))),
			)),
		},
		{
			name: "int condition",
			tree: class(Method("foo", Type("int"),
				If(Int(1), Block(), nil),
				Return(Int(0)),
			)),
			reports: 1,
		},
		{
			name: "comparison and boolean conditions",
			tree: class(Method("foo", Type("int"),
				Var("b", Type("boolean")),
				While(Binary("<", Int(1), Int(2)), Block()),
				If(BoolOp("&&", Id("b"), Binary(">", Int(2), Int(1))), Block(), Block(ExprStmt(Int(1)))),
				Return(Int(0)),
			)),
		},
		{
			name: "empty else block",
			tree: class(Method("foo", Type("int"),
				If(Bool(true), Block(), Block()),
				Return(Int(0)),
			)),
			reports: 1,
		},
		{
			name: "not of an int",
			tree: class(Method("foo", Type("int"),
				If(Not(Int(1)), Block(), nil),
				Return(Int(0)),
			)),
			reports: 1,
		},
	}
	for _, testCase := range testCases {
		reports := analyze(t, config.Analysis{}, testCase.tree)
		assert.Len(t, reports, testCase.reports, testCase.name)
	}
}

func TestReportPosition(t *testing.T) {
	tree := class(Method("foo", Type("int"),
		Var("x", Type("int")),
		Assign("x", Id("y").At(7, 12)),
		Return(Id("x")),
	))
	reports := analyze(t, config.Analysis{}, tree)
	require.Len(t, reports, 1)
	assert.Equal(t, 7, reports[0].Line)
	assert.Equal(t, 12, reports[0].Column)
	assert.Contains(t, reports[0].Message, "'y'")
}

func TestDisabledPass(t *testing.T) {
	tree := class(StaticMethod("foo", Type("int"), Return(Int(1))))
	assert.Len(t, analyze(t, config.Analysis{}, tree), 1)
	assert.Len(t, analyze(t, config.Analysis{Disabled: []string{"types"}}, tree), 0)
}

func TestPassNames(t *testing.T) {
	var names []string
	for _, pass := range Passes() {
		names = append(names, pass.Name())
	}
	assert.Equal(t, []string{"duplicates", "undeclared", "types", "arrays", "conditions"}, names)
}

func TestAnalyzeUnknownOperatorIsFault(t *testing.T) {
	tree := class(Method("foo", Type("int"),
		Return(Binary("%", Int(1), Int(2))),
	))
	program, err := ast.Build(tree)
	require.Nil(t, err)
	table, err := symbol.Build(program)
	require.Nil(t, err)
	_, err = Analyze(program, table, config.Analysis{})
	assert.True(t, report.IsFault(err, report.InternalFault))
}
