package internal

import (
	"strings"

	"github.com/tliron/commonlog"

	"github.com/xiaobogaga/javamm/compiler/internal/analysis"
	"github.com/xiaobogaga/javamm/compiler/internal/ast"
	"github.com/xiaobogaga/javamm/compiler/internal/config"
	"github.com/xiaobogaga/javamm/compiler/internal/ir"
	"github.com/xiaobogaga/javamm/compiler/internal/jasmin"
	"github.com/xiaobogaga/javamm/compiler/internal/ollir"
	"github.com/xiaobogaga/javamm/compiler/internal/report"
	"github.com/xiaobogaga/javamm/compiler/internal/symbol"
)

var log = commonlog.GetLogger("javamm.compiler")

// Result holds what one compilation produced. Ollir and Jasmin are empty unless the program had no
// reports.
type Result struct {
	Reports []report.Report
	Ollir   string
	Jasmin  string
}

func (result *Result) HasReports() bool {
	return len(result.Reports) > 0
}

// Compile runs the whole pipeline on a syntax tree. Semantic problems are returned as reports with
// a nil error. A fault aborts the pipeline and is returned as the error; a syntactic fault is also
// added to the reports.
func Compile(root ast.Node, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	result := &Result{}
	log.Info("compiler: start building typed tree")
	program, err := ast.Build(root)
	if err != nil {
		if report.IsFault(err, report.SyntacticFault) {
			var pos ast.Position
			if root != nil {
				pos = root.Position()
			}
			result.Reports = append(result.Reports, report.NewSyntactic(pos.Line, pos.Column, "malformed syntax tree", err))
		}
		return result, err
	}
	log.Info("compiler: start building symbol table")
	table, err := symbol.Build(program)
	if err != nil {
		return result, err
	}
	log.Info("compiler: start semantic analysis")
	result.Reports, err = analysis.Analyze(program, table, cfg.Analysis)
	if err != nil {
		return result, err
	}
	if result.HasReports() {
		log.Infof("compiler: found %d problems, no code generated", len(result.Reports))
		return result, nil
	}
	log.Info("compiler: start lowering to ollir")
	result.Ollir, err = ollir.NewGenerator(table, cfg.Ollir).Generate(program)
	if err != nil {
		return result, err
	}
	log.Info("compiler: start parsing ollir")
	unit, err := ir.Parse(strings.NewReader(result.Ollir))
	if err != nil {
		return result, err
	}
	log.Info("compiler: start generating jasmin")
	result.Jasmin, err = jasmin.Generate(unit, cfg.Jasmin)
	if err != nil {
		return result, err
	}
	return result, nil
}
