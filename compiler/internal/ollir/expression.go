package ollir

import (
	"strconv"
	"strings"

	"github.com/xiaobogaga/javamm/compiler/internal/ast"
	"github.com/xiaobogaga/javamm/compiler/internal/report"
	"github.com/xiaobogaga/javamm/compiler/internal/symbol"
)

// exprResult is a lowered expression: the instructions computing it and the operand holding its
// value. code is empty for a void call, which has no value.
type exprResult struct {
	code        string
	computation string
}

func (g *Generator) generateExpr(expr ast.Expr) (exprResult, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return exprResult{code: e.Value + ".i32"}, nil
	case *ast.BoolLiteral:
		if e.Value {
			return exprResult{code: "1.bool"}, nil
		}
		return exprResult{code: "0.bool"}, nil
	case *ast.BinaryExpr:
		return g.generateBinary(e, e.Left, e.Right, string(e.Op))
	case *ast.BoolOp:
		return g.generateBinary(e, e.Left, e.Right, string(e.Op))
	case *ast.Identifier:
		return g.generateIdentifier(e)
	case *ast.VarRef:
		return exprResult{code: "this." + g.table.ClassName()}, nil
	case *ast.MethodCall:
		return g.generateCall(e)
	case *ast.NewObject:
		return g.generateNewObject(e), nil
	case *ast.NotOp:
		return exprResult{}, unsupported(e, "negation")
	case *ast.ArrayIndex:
		return exprResult{}, unsupported(e, "array access")
	case *ast.ArrayLiteral:
		return exprResult{}, unsupported(e, "array literal")
	case *ast.NewIntArray:
		return exprResult{}, unsupported(e, "array allocation")
	case *ast.ArrayLength:
		return exprResult{}, unsupported(e, "array length")
	case nil:
		return exprResult{}, report.Internalf("missing expression")
	default:
		return exprResult{}, report.Internalf("can't lower expression %T", expr)
	}
}

func unsupported(node interface{ Position() ast.Position }, what string) error {
	pos := node.Position()
	return report.Unsupportedf("%s has no OLLIR form at %d:%d", what, pos.Line, pos.Column)
}

// Both operands are lowered first, then one temporary takes the result:
// tmp0.i32 :=.i32 a.i32 +.i32 b.i32;
func (g *Generator) generateBinary(expr, left, right ast.Expr, op string) (exprResult, error) {
	tp, err := g.typeOf(expr)
	if err != nil {
		return exprResult{}, err
	}
	ollirType := g.OllirType(tp)
	lhs, err := g.generateExpr(left)
	if err != nil {
		return exprResult{}, err
	}
	rhs, err := g.generateExpr(right)
	if err != nil {
		return exprResult{}, err
	}
	code := g.newTemp() + ollirType
	var computation strings.Builder
	computation.WriteString(lhs.computation)
	computation.WriteString(rhs.computation)
	computation.WriteString(code + space + assign + ollirType + space + lhs.code)
	computation.WriteString(space + op + ollirType + space + rhs.code + endStmt)
	return exprResult{code: code, computation: computation.String()}, nil
}

// A field read goes through getfield into a temporary. Parameters keep their bare name unless
// positional actuals are enabled, then they are written $<index>.<name>.
func (g *Generator) generateIdentifier(ident *ast.Identifier) (exprResult, error) {
	tp, err := g.typeOf(ident)
	if err != nil {
		return exprResult{}, err
	}
	ollirType := g.OllirType(tp)
	method := g.method.Name
	if !g.method.IsStatic && g.table.IsField(method, ident.Name) {
		code := g.newTemp() + ollirType
		computation := code + space + assign + ollirType + space +
			"getfield(this." + g.table.ClassName() + ", " + ident.Name + ollirType + ")" + ollirType + endStmt
		return exprResult{code: code, computation: computation}, nil
	}
	name := ident.Name
	if _, isLocal := g.table.Local(method, name); !isLocal && g.cfg.PositionalActuals {
		if _, idx, ok := g.table.Parameter(method, name); ok {
			name = "$" + strconv.Itoa(idx+1) + "." + name
		}
	}
	return exprResult{code: name + ollirType}, nil
}

// Calls on an imported class are static, calls on an object or on this are virtual. Arguments are
// lowered left to right before the call.
func (g *Generator) generateCall(call *ast.MethodCall) (exprResult, error) {
	tp, err := g.typeOf(call)
	if err != nil {
		return exprResult{}, err
	}
	ollirType := g.OllirType(tp)
	var computation strings.Builder
	var invocation string
	switch receiver := call.Receiver.(type) {
	case *ast.VarRef:
		invocation = "invokevirtual(this"
	case *ast.Identifier:
		if _, isVar := g.table.LookUpVar(g.method.Name, receiver.Name); !isVar && g.table.IsImported(receiver.Name) {
			invocation = "invokestatic(" + receiver.Name
			break
		}
		result, err := g.generateIdentifier(receiver)
		if err != nil {
			return exprResult{}, err
		}
		computation.WriteString(result.computation)
		invocation = "invokevirtual(" + result.code
	default:
		return exprResult{}, report.Internalf("invalid receiver %T of call %s", call.Receiver, call.Name)
	}
	codes := []string{invocation, `"` + call.Name + `"`}
	for _, arg := range call.Args {
		result, err := g.generateExpr(arg)
		if err != nil {
			return exprResult{}, err
		}
		if result.code == "" {
			return exprResult{}, report.Internalf("argument of call %s has no value", call.Name)
		}
		computation.WriteString(result.computation)
		codes = append(codes, result.code)
	}
	instruction := strings.Join(codes, ", ") + ")" + ollirType
	if tp == symbol.VoidType {
		computation.WriteString(instruction + endStmt)
		return exprResult{computation: computation.String()}, nil
	}
	code := g.newTemp() + ollirType
	computation.WriteString(code + space + assign + ollirType + space + instruction + endStmt)
	return exprResult{code: code, computation: computation.String()}, nil
}

// new C() is two instructions:
// tmp0.C :=.C new(C).C;
// invokespecial(tmp0.C, "").V;
func (g *Generator) generateNewObject(expr *ast.NewObject) exprResult {
	ollirType := "." + expr.Class
	code := g.newTemp() + ollirType
	var computation strings.Builder
	computation.WriteString(code + space + assign + ollirType + space + "new(" + expr.Class + ")" + ollirType + endStmt)
	computation.WriteString("invokespecial(" + code + `, "").V` + endStmt)
	return exprResult{code: code, computation: computation.String()}
}
