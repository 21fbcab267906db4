// Package analysis holds the semantic checks of java--. Each check is an independent Pass over the
// typed tree, problems are collected as reports and never stop the other passes.
package analysis

import (
	"github.com/tliron/commonlog"

	"github.com/xiaobogaga/javamm/compiler/internal/ast"
	"github.com/xiaobogaga/javamm/compiler/internal/config"
	"github.com/xiaobogaga/javamm/compiler/internal/report"
	"github.com/xiaobogaga/javamm/compiler/internal/symbol"
)

var log = commonlog.GetLogger("javamm.analysis")

type Pass interface {
	Name() string
	// Run walks the program and adds reports to ctx. A returned error is a fault and aborts analysis.
	Run(ctx *Context) error
}

// Passes returns all passes in the order they run.
func Passes() []Pass {
	return []Pass{
		duplicatePass{},
		undeclaredPass{},
		typePass{},
		arrayPass{},
		conditionPass{},
	}
}

// Context is the state shared by one pass run: the program, its symbol table, the method being
// visited and the reports found so far.
type Context struct {
	Program *ast.Program
	Table   *symbol.Table
	method  *ast.MethodDecl
	reports []report.Report
}

func NewContext(program *ast.Program, table *symbol.Table) *Context {
	return &Context{Program: program, Table: table}
}

// Analyze runs every pass which is not disabled and merges their reports in pass order.
func Analyze(program *ast.Program, table *symbol.Table, cfg config.Analysis) ([]report.Report, error) {
	var reports []report.Report
	for _, pass := range Passes() {
		if cfg.IsDisabled(pass.Name()) {
			log.Infof("pass %s is disabled", pass.Name())
			continue
		}
		ctx := NewContext(program, table)
		err := pass.Run(ctx)
		if err != nil {
			log.Errorf("pass %s aborted: %s", pass.Name(), err.Error())
			return nil, err
		}
		log.Debugf("pass %s found %d problems", pass.Name(), len(ctx.reports))
		reports = append(reports, ctx.reports...)
	}
	return reports, nil
}

func (ctx *Context) addReport(pos ast.Position, format string, args ...interface{}) {
	ctx.reports = append(ctx.reports, report.NewSemantic(pos.Line, pos.Column, format, args...))
}

func (ctx *Context) scope(assignee string) symbol.Scope {
	scope := symbol.Scope{Table: ctx.Table, Assignee: assignee}
	if ctx.method != nil {
		scope.Method = ctx.method.Name
	}
	return scope
}

// typeOf resolves expr. ok is false when the expression uses an undeclared name, those are
// reported by the undeclared pass alone.
func (ctx *Context) typeOf(expr ast.Expr, assignee string) (tp symbol.Type, ok bool, err error) {
	tp, err = symbol.TypeOf(expr, ctx.scope(assignee))
	if symbol.IsLookupError(err) {
		return tp, false, nil
	}
	if err != nil {
		return tp, false, err
	}
	return tp, true, nil
}

func (ctx *Context) inStaticMethod() bool {
	return ctx.method != nil && ctx.method.IsStatic
}

// walk inspects every method body of the class with ctx.method set to the method being walked.
func (ctx *Context) walk(fn ast.Visitor) error {
	defer func() { ctx.method = nil }()
	for _, method := range ctx.Program.Class.Methods {
		ctx.method = method
		if err := ast.Inspect(method.Body, fn); err != nil {
			return err
		}
	}
	return nil
}

// isRelational is true for < and >. The resolver types them as int, but they are accepted
// wherever a boolean is expected.
func isRelational(expr ast.Expr) bool {
	bin, ok := expr.(*ast.BinaryExpr)
	return ok && (bin.Op == ast.LessOp || bin.Op == ast.GreaterOp)
}

func isBoolValue(expr ast.Expr, tp symbol.Type) bool {
	return tp.IsBool() || isRelational(expr)
}
