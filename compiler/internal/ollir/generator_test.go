package ollir

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

func lower(t *testing.T, cfg config.Ollir, tree *ast.Generic) (string, error) {
	program, err := ast.Build(tree)
	require.Nil(t, err)
	table, err := symbol.Build(program)
	require.Nil(t, err)
	return NewGenerator(table, cfg).Generate(program)
}

func addTree() *ast.Generic {
	return Program(Class("A", "",
		Method("add", Type("int"),
			Param("a", Type("int")), Param("b", Type("int")),
			Return(Binary("+", Id("a"), Id("b"))),
		),
	))
}

func TestGenerateAdd(t *testing.T) {
	code, err := lower(t, config.Ollir{}, addTree())
	require.Nil(t, err)
	expected := "A extends Object {\n" +
		"\n" +
		".method public add(a.i32, b.i32).i32 {\n" +
		"tmp0.i32 :=.i32 a.i32 +.i32 b.i32;\n" +
		"ret.i32 tmp0.i32;\n" +
		"}\n" +
		"\n" +
		".construct A().V {\n" +
		"invokespecial(this, \"<init>\").V;\n" +
		"}\n" +
		"}\n"
	assert.Equal(t, expected, code)
}

func TestGeneratePositionalActuals(t *testing.T) {
	code, err := lower(t, config.Ollir{PositionalActuals: true}, addTree())
	require.Nil(t, err)
	assert.Contains(t, code, "tmp0.i32 :=.i32 $1.a.i32 +.i32 $2.b.i32;\n")
}

func TestGenerateTempsSkipDeclaredNames(t *testing.T) {
	tree := Program(Class("A", "",
		Var("tmp1", Type("int")),
		Method("foo", Type("int"),
			Param("a", Type("int")),
			Var("tmp0", Type("int")),
			Var("x", Type("int")),
			Assign("tmp0", Int(5)),
			Assign("x", Binary("+", Id("tmp0"), Binary("*", Id("a"), Id("a")))),
			Return(Id("x")),
		),
	))
	code, err := lower(t, config.Ollir{}, tree)
	require.Nil(t, err)
	assert.Contains(t, code, "tmp0.i32 :=.i32 5.i32;\n")
	assert.Contains(t, code, "tmp2.i32 :=.i32 a.i32 *.i32 a.i32;\n")
	assert.Contains(t, code, "tmp0.i32 +.i32 tmp2.i32")
	assert.NotContains(t, code, "tmp0.i32 :=.i32 a.i32")
	assert.NotContains(t, code, "tmp1.i32 :=")
}

func TestGenerateIsDeterministic(t *testing.T) {
	program, err := ast.Build(fullTree())
	require.Nil(t, err)
	table, err := symbol.Build(program)
	require.Nil(t, err)
	g := NewGenerator(table, config.Ollir{})
	first, err := g.Generate(program)
	require.Nil(t, err)
	second, err := g.Generate(program)
	require.Nil(t, err)
	assert.Equal(t, first, second)
}

func fullTree() *ast.Generic {
	return Program(
		Import("io"),
		Class("Simple", "",
			Var("x", Type("int")),
			Var("ok", Type("boolean")),
			Method("get", Type("int"),
				Var("s", Type("Simple")),
				Var("v", Type("int")),
				Assign("s", New("Simple")),
				Assign("v", Call("get", Id("s"))),
				Assign("x", Binary("*", Id("x"), Int(2))),
				Assign("ok", Bool(false)),
				Return(Id("x")),
			),
			Main(
				Var("y", Type("int")),
				Assign("y", Int(3)),
				ExprStmt(Call("println", Id("io"), Id("y"))),
			),
		),
	)
}

func TestGenerateFull(t *testing.T) {
	code, err := lower(t, config.Ollir{}, fullTree())
	require.Nil(t, err)
	expected := "import io;\n" +
		"\n" +
		"Simple extends Object {\n" +
		"\n" +
		".field public x.i32;\n" +
		".field public ok.bool;\n" +
		"\n" +
		".method public get().i32 {\n" +
		"tmp0.Simple :=.Simple new(Simple).Simple;\n" +
		"invokespecial(tmp0.Simple, \"\").V;\n" +
		"s.Simple :=.Simple tmp0.Simple;\n" +
		"tmp1.i32 :=.i32 invokevirtual(s.Simple, \"get\").i32;\n" +
		"v.i32 :=.i32 tmp1.i32;\n" +
		"tmp2.i32 :=.i32 getfield(this.Simple, x.i32).i32;\n" +
		"tmp3.i32 :=.i32 tmp2.i32 *.i32 2.i32;\n" +
		"putfield(this.Simple, x.i32, tmp3.i32).V;\n" +
		"putfield(this.Simple, ok.bool, 0.bool).V;\n" +
		"tmp4.i32 :=.i32 getfield(this.Simple, x.i32).i32;\n" +
		"ret.i32 tmp4.i32;\n" +
		"}\n" +
		"\n" +
		".method public static main(args.array.String).V {\n" +
		"y.i32 :=.i32 3.i32;\n" +
		"invokestatic(io, \"println\", y.i32).V;\n" +
		"ret.V;\n" +
		"}\n" +
		"\n" +
		".construct Simple().V {\n" +
		"invokespecial(this, \"<init>\").V;\n" +
		"}\n" +
		"}\n"
	assert.Equal(t, expected, code)
}

func TestGenerateBareReturn(t *testing.T) {
	tree := Program(Class("A", "", Method("foo", Type("void"), Return(nil))))
	code, err := lower(t, config.Ollir{}, tree)
	require.Nil(t, err)
	assert.Contains(t, code, ".method public foo().V {\nret.V;\n}\n")
}

func TestGenerateUnsupported(t *testing.T) {
	testCases := []*ast.Generic{
		Return(Not(Bool(true))),
		Return(Index(Id("r"), Int(0))),
		Return(Length(Id("r"))),
		Assign("r", NewIntArray(Int(2))),
		Assign("r", ArrayLiteral(Int(1))),
		ArrayAssign("r", Int(0), Int(1)),
		If(Bool(true), Block(), nil),
		While(Bool(true), Block()),
	}
	for i, stmt := range testCases {
		tree := Program(Class("A", "", Method("foo", Type("int"), Var("r", ArrayType("int")), stmt)))
		_, err := lower(t, config.Ollir{}, tree)
		assert.True(t, report.IsFault(err, report.UnsupportedFault), i)
	}
}

func TestGenerateUnknownNameIsInternal(t *testing.T) {
	tree := Program(Class("A", "", Method("foo", Type("int"), Return(Binary("+", Id("nope"), Int(1))))))
	_, err := lower(t, config.Ollir{}, tree)
	assert.True(t, report.IsFault(err, report.InternalFault))
}

func TestOllirType(t *testing.T) {
	testCases := []struct {
		tp       symbol.Type
		expected string
	}{
		{symbol.IntType, ".i32"},
		{symbol.IntArrayType, ".array.i32"},
		{symbol.VarargType, ".array.i32"},
		{symbol.BoolType, ".bool"},
		{symbol.VoidType, ".V"},
		{symbol.ThisType, ".Simple"},
		{symbol.Type{Name: "Foo"}, ".Foo"},
		{symbol.Type{Name: "String", IsArray: true}, ".array.String"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, OllirType(testCase.tp, "Simple"))
	}
}
