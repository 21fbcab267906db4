package analysis

import (
	"github.com/xiaobogaga/javamm/compiler/internal/ast"
)

// duplicatePass reports names declared more than once in the same list: imports, fields, methods,
// and the parameters and locals of each method. A list yields at most one report.
type duplicatePass struct{}

func (duplicatePass) Name() string {
	return "duplicates"
}

type declared struct {
	name string
	pos  ast.Position
}

func (duplicatePass) Run(ctx *Context) error {
	class := ctx.Program.Class
	var imports, fields, methods []declared
	for _, decl := range ctx.Program.Imports {
		imports = append(imports, declared{decl.ImportName(), decl.Pos})
	}
	checkDuplicates(ctx, "import", imports)
	for _, field := range class.Fields {
		fields = append(fields, declared{field.Name, field.Pos})
	}
	checkDuplicates(ctx, "field", fields)
	for _, method := range class.Methods {
		methods = append(methods, declared{method.Name, method.Pos})
	}
	checkDuplicates(ctx, "method", methods)
	for _, method := range class.Methods {
		var params, locals []declared
		for _, param := range method.Params {
			params = append(params, declared{param.Name, param.Pos})
		}
		checkDuplicates(ctx, "parameter of method "+method.Name, params)
		for _, local := range method.Locals {
			locals = append(locals, declared{local.Name, local.Pos})
		}
		checkDuplicates(ctx, "local variable of method "+method.Name, locals)
	}
	return nil
}

func checkDuplicates(ctx *Context, what string, decls []declared) {
	seen := map[string]bool{}
	for _, decl := range decls {
		if seen[decl.name] {
			ctx.addReport(decl.pos, "duplicated %s '%s'", what, decl.name)
			return
		}
		seen[decl.name] = true
	}
}
