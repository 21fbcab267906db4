package ast

import (
	"strings"

	"github.com/xiaobogaga/javamm/compiler/internal/report"
)

// Build converts a boundary tree into the typed tree. Every structural problem is reported as a
// syntactic fault, the only exception being a declaration without its Type child: that one is left
// as a nil TypeRef and reported by the symbol table builder.
func Build(root Node) (*Program, error) {
	if root == nil {
		return nil, report.Syntacticf("missing syntax tree")
	}
	if root.Kind() != ProgramKind {
		return nil, makeBuildError(root, "expect %s at root, got %s", ProgramKind, root.Kind())
	}
	program := &Program{}
	for _, child := range root.Children() {
		switch child.Kind() {
		case ImportDeclKind:
			decl, err := buildImport(child)
			if err != nil {
				return nil, err
			}
			program.Imports = append(program.Imports, decl)
		case ClassDeclKind:
			if program.Class != nil {
				return nil, makeBuildError(child, "found more than one class declaration")
			}
			class, err := buildClass(child)
			if err != nil {
				return nil, err
			}
			program.Class = class
		default:
			return nil, makeBuildError(child, "unexpected %s at program level", child.Kind())
		}
	}
	if program.Class == nil {
		return nil, makeBuildError(root, "missing class declaration")
	}
	return program, nil
}

func makeBuildError(node Node, format string, args ...interface{}) error {
	pos := node.Position()
	args = append(args, pos.Line, pos.Column)
	return report.Syntacticf(format+" at %d:%d", args...)
}

func requireAttr(node Node, name string) (string, error) {
	v, ok := node.Attr(name)
	if !ok {
		return "", makeBuildError(node, "%s is missing attribute %s", node.Kind(), name)
	}
	return v, nil
}

func boolAttr(node Node, name string) bool {
	v, _ := node.Attr(name)
	return v == "true"
}

func requireChildren(node Node, n int) ([]Node, error) {
	children := node.Children()
	if len(children) != n {
		return nil, makeBuildError(node, "%s expects %d children, got %d", node.Kind(), n, len(children))
	}
	return children, nil
}

// Import names come either dotted (a.b.C) or as a printed list ([a, b, C]).
func buildImport(node Node) (*ImportDecl, error) {
	name, err := requireAttr(node, "name")
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	var segments []string
	if strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		for _, seg := range strings.Split(name[1:len(name)-1], ",") {
			segments = append(segments, strings.TrimSpace(seg))
		}
	} else {
		segments = strings.Split(name, ".")
	}
	for _, seg := range segments {
		if seg == "" {
			return nil, makeBuildError(node, "malformed import name %q", name)
		}
	}
	return &ImportDecl{Pos: node.Position(), Segments: segments}, nil
}

func buildClass(node Node) (*ClassDecl, error) {
	name, err := requireAttr(node, "name")
	if err != nil {
		return nil, err
	}
	superClass, _ := node.Attr("superClass")
	class := &ClassDecl{Pos: node.Position(), Name: name, SuperClass: superClass}
	for _, child := range node.Children() {
		switch child.Kind() {
		case VarDeclKind:
			field, err := buildVarDecl(child)
			if err != nil {
				return nil, err
			}
			class.Fields = append(class.Fields, field)
		case MethodDeclKind:
			method, err := buildMethod(child)
			if err != nil {
				return nil, err
			}
			class.Methods = append(class.Methods, method)
		default:
			return nil, makeBuildError(child, "unexpected %s in class %s", child.Kind(), name)
		}
	}
	return class, nil
}

// findType returns the Type child of a declaration, or nil when it is missing.
func findType(node Node) (*TypeRef, error) {
	for _, child := range node.Children() {
		if child.Kind() == TypeKind {
			return buildType(child)
		}
	}
	return nil, nil
}

func buildType(node Node) (*TypeRef, error) {
	name, err := requireAttr(node, "name")
	if err != nil {
		return nil, err
	}
	ref := &TypeRef{Pos: node.Position(), Name: name, IsArray: boolAttr(node, "isArray"), IsVararg: boolAttr(node, "isVararg")}
	if name == "int..." {
		ref.Name, ref.IsVararg = "int", true
	}
	return ref, nil
}

func buildVarDecl(node Node) (*VarDecl, error) {
	name, err := requireAttr(node, "name")
	if err != nil {
		return nil, err
	}
	tp, err := findType(node)
	if err != nil {
		return nil, err
	}
	return &VarDecl{Pos: node.Position(), Name: name, Type: tp}, nil
}

func buildParam(node Node) (*Param, error) {
	name, err := requireAttr(node, "name")
	if err != nil {
		return nil, err
	}
	tp, err := findType(node)
	if err != nil {
		return nil, err
	}
	return &Param{Pos: node.Position(), Name: name, Type: tp}, nil
}

// A method declaration lists its return Type first, then params, local variables and statements.
// main may omit the return type, it is always void.
func buildMethod(node Node) (*MethodDecl, error) {
	name, err := requireAttr(node, "name")
	if err != nil {
		return nil, err
	}
	method := &MethodDecl{
		Pos:      node.Position(),
		Name:     name,
		IsPublic: boolAttr(node, "isPublic"),
		IsStatic: boolAttr(node, "isStatic"),
	}
	for _, child := range node.Children() {
		switch child.Kind() {
		case TypeKind:
			if method.ReturnType != nil {
				return nil, makeBuildError(child, "method %s declares two return types", name)
			}
			method.ReturnType, err = buildType(child)
		case ParamKind:
			var param *Param
			param, err = buildParam(child)
			if param != nil {
				method.Params = append(method.Params, param)
			}
		case VarDeclKind:
			var local *VarDecl
			local, err = buildVarDecl(child)
			if local != nil {
				method.Locals = append(method.Locals, local)
			}
		default:
			var stmt Stmt
			stmt, err = buildStmt(child)
			if stmt != nil {
				method.Body = append(method.Body, stmt)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if method.ReturnType == nil && name == "main" {
		method.ReturnType = &TypeRef{Pos: node.Position(), Name: "void"}
	}
	return method, nil
}

func buildStmts(nodes []Node) ([]Stmt, error) {
	stmts := make([]Stmt, 0, len(nodes))
	for _, node := range nodes {
		stmt, err := buildStmt(node)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func buildStmt(node Node) (Stmt, error) {
	switch node.Kind() {
	case AssignStmtKind:
		return buildAssign(node)
	case ArrayAssignStmtKind:
		return buildArrayAssign(node)
	case ReturnStmtKind:
		return buildReturn(node)
	case ExprStmtKind:
		children, err := requireChildren(node, 1)
		if err != nil {
			return nil, err
		}
		expr, err := buildExpr(children[0])
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Pos: node.Position(), Expr: expr}, nil
	case IfElseStmtKind:
		return buildIfElse(node)
	case WhileStmtKind:
		return buildWhile(node)
	case BlockStmtKind:
		stmts, err := buildStmts(node.Children())
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Pos: node.Position(), Stmts: stmts}, nil
	default:
		return nil, makeBuildError(node, "unexpected statement kind %s", node.Kind())
	}
}

func buildAssign(node Node) (Stmt, error) {
	target, err := requireAttr(node, "id")
	if err != nil {
		return nil, err
	}
	children, err := requireChildren(node, 1)
	if err != nil {
		return nil, err
	}
	value, err := buildExpr(children[0])
	if err != nil {
		return nil, err
	}
	return &AssignStmt{Pos: node.Position(), Target: target, Value: value}, nil
}

func buildArrayAssign(node Node) (Stmt, error) {
	target, err := requireAttr(node, "id")
	if err != nil {
		return nil, err
	}
	children, err := requireChildren(node, 2)
	if err != nil {
		return nil, err
	}
	exprs, err := buildExprs(children)
	if err != nil {
		return nil, err
	}
	return &ArrayAssignStmt{Pos: node.Position(), Target: target, Index: exprs[0], Value: exprs[1]}, nil
}

func buildReturn(node Node) (Stmt, error) {
	children := node.Children()
	switch len(children) {
	case 0:
		return &ReturnStmt{Pos: node.Position()}, nil
	case 1:
		value, err := buildExpr(children[0])
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{Pos: node.Position(), Value: value}, nil
	default:
		return nil, makeBuildError(node, "return expects at most one child, got %d", len(children))
	}
}

func buildIfElse(node Node) (Stmt, error) {
	children := node.Children()
	if len(children) != 2 && len(children) != 3 {
		return nil, makeBuildError(node, "if expects 2 or 3 children, got %d", len(children))
	}
	cond, err := buildExpr(children[0])
	if err != nil {
		return nil, err
	}
	then, err := buildStmt(children[1])
	if err != nil {
		return nil, err
	}
	stmt := &IfElseStmt{Pos: node.Position(), Condition: cond, Then: then}
	if len(children) == 3 {
		stmt.Else, err = buildStmt(children[2])
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func buildWhile(node Node) (Stmt, error) {
	children, err := requireChildren(node, 2)
	if err != nil {
		return nil, err
	}
	cond, err := buildExpr(children[0])
	if err != nil {
		return nil, err
	}
	body, err := buildStmt(children[1])
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Pos: node.Position(), Condition: cond, Body: body}, nil
}

func buildExprs(nodes []Node) ([]Expr, error) {
	exprs := make([]Expr, 0, len(nodes))
	for _, node := range nodes {
		expr, err := buildExpr(node)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func buildExpr(node Node) (Expr, error) {
	pos := node.Position()
	switch node.Kind() {
	case BinaryExprKind, BoolOpKind:
		op, err := requireAttr(node, "op")
		if err != nil {
			return nil, err
		}
		children, err := requireChildren(node, 2)
		if err != nil {
			return nil, err
		}
		operands, err := buildExprs(children)
		if err != nil {
			return nil, err
		}
		if node.Kind() == BoolOpKind {
			return &BoolOp{Pos: pos, Op: Operator(op), Left: operands[0], Right: operands[1]}, nil
		}
		return &BinaryExpr{Pos: pos, Op: Operator(op), Left: operands[0], Right: operands[1]}, nil
	case NotOpKind:
		children, err := requireChildren(node, 1)
		if err != nil {
			return nil, err
		}
		operand, err := buildExpr(children[0])
		if err != nil {
			return nil, err
		}
		return &NotOp{Pos: pos, Operand: operand}, nil
	case IdentifierKind:
		id, err := requireAttr(node, "id")
		if err != nil {
			return nil, err
		}
		return &Identifier{Pos: pos, Name: id}, nil
	case VarRefExprKind:
		name, err := requireAttr(node, "name")
		if err != nil {
			return nil, err
		}
		if name != "this" {
			return nil, makeBuildError(node, "%s only supports this, got %s", VarRefExprKind, name)
		}
		return &VarRef{Pos: pos, Name: name}, nil
	case IntegerLiteralKind:
		value, err := requireAttr(node, "value")
		if err != nil {
			return nil, err
		}
		return &IntegerLiteral{Pos: pos, Value: value}, nil
	case BoolKind:
		value, err := requireAttr(node, "value")
		if err != nil {
			return nil, err
		}
		if value != "true" && value != "false" {
			return nil, makeBuildError(node, "malformed boolean literal %q", value)
		}
		return &BoolLiteral{Pos: pos, Value: value == "true"}, nil
	case ArrayIndexKind:
		children, err := requireChildren(node, 2)
		if err != nil {
			return nil, err
		}
		operands, err := buildExprs(children)
		if err != nil {
			return nil, err
		}
		return &ArrayIndex{Pos: pos, Array: operands[0], Index: operands[1]}, nil
	case ArrRefExprKind:
		elements, err := buildExprs(node.Children())
		if err != nil {
			return nil, err
		}
		return &ArrayLiteral{Pos: pos, Elements: elements}, nil
	case NewIntArrKind:
		children, err := requireChildren(node, 1)
		if err != nil {
			return nil, err
		}
		size, err := buildExpr(children[0])
		if err != nil {
			return nil, err
		}
		return &NewIntArray{Pos: pos, Size: size}, nil
	case NewObjectKind:
		class, err := requireAttr(node, "id")
		if err != nil {
			return nil, err
		}
		return &NewObject{Pos: pos, Class: class}, nil
	case IdUseExprKind:
		return buildCall(node)
	case ArrayLengthKind:
		children, err := requireChildren(node, 1)
		if err != nil {
			return nil, err
		}
		array, err := buildExpr(children[0])
		if err != nil {
			return nil, err
		}
		return &ArrayLength{Pos: pos, Array: array}, nil
	default:
		return nil, makeBuildError(node, "unexpected expression kind %s", node.Kind())
	}
}

// IdUseExpr: first child is the receiver, remaining children are the arguments.
func buildCall(node Node) (Expr, error) {
	name, err := requireAttr(node, "name")
	if err != nil {
		return nil, err
	}
	children := node.Children()
	if len(children) == 0 {
		return nil, makeBuildError(node, "call %s has no receiver", name)
	}
	receiver, err := buildExpr(children[0])
	if err != nil {
		return nil, err
	}
	switch receiver.(type) {
	case *Identifier, *VarRef:
	default:
		return nil, makeBuildError(children[0], "call %s has an unsupported receiver %s", name, children[0].Kind())
	}
	args, err := buildExprs(children[1:])
	if err != nil {
		return nil, err
	}
	return &MethodCall{Pos: node.Position(), Name: name, Receiver: receiver, Args: args}, nil
}
