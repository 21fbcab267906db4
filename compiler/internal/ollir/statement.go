package ollir

import (
	"strings"

	"github.com/xiaobogaga/javamm/compiler/internal/ast"
	"github.com/xiaobogaga/javamm/compiler/internal/report"
	"github.com/xiaobogaga/javamm/compiler/internal/symbol"
)

func (g *Generator) generateClass(class *ast.ClassDecl) (string, error) {
	var code strings.Builder
	code.WriteString(class.Name)
	if class.SuperClass == "" || class.SuperClass == "Object" {
		code.WriteString(" extends Object")
	} else {
		code.WriteString(" extends " + class.SuperClass)
	}
	code.WriteString(lCurly)
	code.WriteString(newLine)
	for _, field := range class.Fields {
		code.WriteString(".field public " + field.Name + g.OllirType(symbol.TypeFromRef(field.Type)) + endStmt)
	}
	if len(class.Fields) > 0 {
		code.WriteString(newLine)
	}
	for _, method := range class.Methods {
		text, err := g.generateMethod(method)
		if err != nil {
			return "", err
		}
		code.WriteString(text)
	}
	code.WriteString(g.generateConstructor())
	code.WriteString(rCurly)
	return code.String(), nil
}

// Every class gets exactly one constructor, calling the one of its superclass.
func (g *Generator) generateConstructor() string {
	return ".construct " + g.table.ClassName() + "().V" + lCurly +
		`invokespecial(this, "<init>").V` + endStmt +
		rCurly
}

// main always takes args.array.String. A method whose body has no return statement gets ret.V.
func (g *Generator) generateMethod(method *ast.MethodDecl) (string, error) {
	g.method = method
	defer func() { g.method = nil }()
	var code strings.Builder
	code.WriteString(".method ")
	if method.IsPublic {
		code.WriteString("public ")
	}
	if method.IsStatic {
		code.WriteString("static ")
	}
	code.WriteString(method.Name + "(")
	if method.Name == "main" {
		code.WriteString("args.array.String")
	} else {
		params := make([]string, 0, len(method.Params))
		for _, param := range method.Params {
			params = append(params, param.Name+g.OllirType(symbol.TypeFromRef(param.Type)))
		}
		code.WriteString(strings.Join(params, ", "))
	}
	code.WriteString(")" + g.OllirType(g.returnType()) + lCurly)
	hasReturn := false
	for _, stmt := range method.Body {
		if _, ok := stmt.(*ast.ReturnStmt); ok {
			hasReturn = true
		}
		text, err := g.generateStmt(stmt)
		if err != nil {
			return "", err
		}
		code.WriteString(text)
	}
	if !hasReturn {
		code.WriteString("ret.V" + endStmt)
	}
	code.WriteString(rCurly)
	code.WriteString(newLine)
	return code.String(), nil
}

func (g *Generator) returnType() symbol.Type {
	if g.method.ReturnType == nil {
		return symbol.VoidType
	}
	return symbol.TypeFromRef(g.method.ReturnType)
}

func (g *Generator) generateStmt(stmt ast.Stmt) (string, error) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		return g.generateAssign(s)
	case *ast.ReturnStmt:
		return g.generateReturn(s)
	case *ast.ExprStmt:
		result, err := g.generateExpr(s.Expr)
		return result.computation, err
	case *ast.BlockStmt:
		var code strings.Builder
		for _, inner := range s.Stmts {
			text, err := g.generateStmt(inner)
			if err != nil {
				return "", err
			}
			code.WriteString(text)
		}
		return code.String(), nil
	case *ast.IfElseStmt:
		return "", unsupported(s, "if statement")
	case *ast.WhileStmt:
		return "", unsupported(s, "while statement")
	case *ast.ArrayAssignStmt:
		return "", unsupported(s, "array element assignment")
	default:
		return "", report.Internalf("can't lower statement %T", stmt)
	}
}

// Assigning a field of an instance method becomes putfield, anything else is a typed move:
// c.i32 :=.i32 tmp0.i32;
func (g *Generator) generateAssign(stmt *ast.AssignStmt) (string, error) {
	g.assignee = stmt.Target
	defer func() { g.assignee = "" }()
	rhs, err := g.generateExpr(stmt.Value)
	if err != nil {
		return "", err
	}
	if rhs.code == "" {
		return "", report.Internalf("value assigned to %s has no result", stmt.Target)
	}
	sym, ok := g.table.LookUpVar(g.method.Name, stmt.Target)
	if !ok {
		return "", report.Internalf("assignment to unknown variable %s in method %s", stmt.Target, g.method.Name)
	}
	ollirType := g.OllirType(sym.Type)
	var code strings.Builder
	code.WriteString(rhs.computation)
	if !g.method.IsStatic && g.table.IsField(g.method.Name, stmt.Target) {
		code.WriteString("putfield(this." + g.table.ClassName() + ", " + stmt.Target + ollirType + ", " + rhs.code + ").V" + endStmt)
		return code.String(), nil
	}
	code.WriteString(stmt.Target + ollirType + space + assign + ollirType + space + rhs.code + endStmt)
	return code.String(), nil
}

// ret.i32 tmp0.i32;
func (g *Generator) generateReturn(stmt *ast.ReturnStmt) (string, error) {
	ollirType := g.OllirType(g.returnType())
	if stmt.Value == nil {
		return "ret" + ollirType + endStmt, nil
	}
	result, err := g.generateExpr(stmt.Value)
	if err != nil {
		return "", err
	}
	if result.code == "" {
		return "", report.Internalf("returned value of method %s has no result", g.method.Name)
	}
	return result.computation + "ret" + ollirType + space + result.code + endStmt, nil
}
