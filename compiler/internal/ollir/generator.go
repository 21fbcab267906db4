// Package ollir lowers a validated java-- program into OLLIR, a three address text form with
// explicitly typed operands and temporaries.
package ollir

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/xiaobogaga/javamm/compiler/internal/ast"
	"github.com/xiaobogaga/javamm/compiler/internal/config"
	"github.com/xiaobogaga/javamm/compiler/internal/report"
	"github.com/xiaobogaga/javamm/compiler/internal/symbol"
)

var log = commonlog.GetLogger("javamm.ollir")

const (
	space   = " "
	assign  = ":="
	endStmt = ";\n"
	newLine = "\n"
	lCurly  = " {\n"
	rCurly  = "}\n"
)

// Generator holds the state of one lowering: the temporary counter, the method being lowered and
// the target of the assignment being lowered. A Generator must not be shared between goroutines.
type Generator struct {
	table     *symbol.Table
	cfg       config.Ollir
	tempCount int
	method    *ast.MethodDecl
	assignee  string
}

func NewGenerator(table *symbol.Table, cfg config.Ollir) *Generator {
	return &Generator{table: table, cfg: cfg}
}

// Reset clears the temporary counter, so lowering the same program again gives the same text.
func (g *Generator) Reset() {
	g.tempCount = 0
	g.method = nil
	g.assignee = ""
}

// Generate lowers program. The counter is reset first.
func (g *Generator) Generate(program *ast.Program) (string, error) {
	g.Reset()
	var code strings.Builder
	for _, decl := range program.Imports {
		code.WriteString("import " + decl.ImportName() + endStmt)
	}
	if len(program.Imports) > 0 {
		code.WriteString(newLine)
	}
	class, err := g.generateClass(program.Class)
	if err != nil {
		return "", err
	}
	code.WriteString(class)
	log.Debugf("lowered class %s using %d temporaries", program.Class.Name, g.tempCount)
	return code.String(), nil
}

// newTemp skips every counter value whose name is taken by a local, parameter or field visible in
// the method being lowered.
func (g *Generator) newTemp() string {
	for {
		temp := fmt.Sprintf("tmp%d", g.tempCount)
		g.tempCount++
		if _, taken := g.table.LookUpVar(g.method.Name, temp); !taken {
			return temp
		}
	}
}

// typeOf resolves expr in the method being lowered. The program has been validated, so an
// unresolvable name is an internal fault here.
func (g *Generator) typeOf(expr ast.Expr) (symbol.Type, error) {
	scope := symbol.Scope{Table: g.table, Method: g.method.Name, Assignee: g.assignee}
	tp, err := symbol.TypeOf(expr, scope)
	if symbol.IsLookupError(err) {
		return tp, report.Internalf("%s in method %s", err.Error(), g.method.Name)
	}
	return tp, err
}

// OllirType gives the type suffix of tp, including its leading dot.
func (g *Generator) OllirType(tp symbol.Type) string {
	return OllirType(tp, g.table.ClassName())
}

// OllirType gives the type suffix of tp. The self type is written as the class name.
func OllirType(tp symbol.Type, className string) string {
	if tp.IsVararg() {
		return ".array.i32"
	}
	elem := elementSuffix(tp.Name, className)
	if tp.IsArray {
		return ".array" + elem
	}
	return elem
}

func elementSuffix(name, className string) string {
	switch name {
	case symbol.IntTypeName:
		return ".i32"
	case symbol.BoolTypeName:
		return ".bool"
	case symbol.VoidTypeName:
		return ".V"
	case symbol.ThisTypeName:
		return "." + className
	default:
		return "." + name
	}
}
