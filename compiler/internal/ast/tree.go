package ast

import "strings"

// In this file, we defined the typed syntax tree of java--. Each java-- program is a list of imports
// followed by exactly one class. Statements and expressions are closed sets: every implementation
// lives in this file, so a type switch over them can cover all cases.

type Program struct {
	Imports []*ImportDecl
	Class   *ClassDecl
}

type ImportDecl struct {
	Pos      Position
	Segments []string
}

type ClassDecl struct {
	Pos        Position
	Name       string
	SuperClass string // Empty means the implicit root class.
	Fields     []*VarDecl
	Methods    []*MethodDecl
}

type VarDecl struct {
	Pos  Position
	Name string
	Type *TypeRef
}

type TypeRef struct {
	Pos      Position
	Name     string
	IsArray  bool
	IsVararg bool
}

type MethodDecl struct {
	Pos        Position
	Name       string
	IsPublic   bool
	IsStatic   bool
	ReturnType *TypeRef
	Params     []*Param
	Locals     []*VarDecl
	Body       []Stmt
}

type Param struct {
	Pos  Position
	Name string
	Type *TypeRef
}

type Stmt interface {
	Position() Position
	stmt()
}

type AssignStmt struct {
	Pos    Position
	Target string
	Value  Expr
}

// ArrayAssignStmt is target[index] = value.
type ArrayAssignStmt struct {
	Pos    Position
	Target string
	Index  Expr
	Value  Expr
}

type ReturnStmt struct {
	Pos   Position
	Value Expr // nil for a bare return.
}

type ExprStmt struct {
	Pos  Position
	Expr Expr
}

type IfElseStmt struct {
	Pos       Position
	Condition Expr
	Then      Stmt
	Else      Stmt // nil when there is no else branch.
}

type WhileStmt struct {
	Pos       Position
	Condition Expr
	Body      Stmt
}

type BlockStmt struct {
	Pos   Position
	Stmts []Stmt
}

func (s *AssignStmt) Position() Position      { return s.Pos }
func (s *ArrayAssignStmt) Position() Position { return s.Pos }
func (s *ReturnStmt) Position() Position      { return s.Pos }
func (s *ExprStmt) Position() Position        { return s.Pos }
func (s *IfElseStmt) Position() Position      { return s.Pos }
func (s *WhileStmt) Position() Position       { return s.Pos }
func (s *BlockStmt) Position() Position       { return s.Pos }

func (*AssignStmt) stmt()      {}
func (*ArrayAssignStmt) stmt() {}
func (*ReturnStmt) stmt()      {}
func (*ExprStmt) stmt()        {}
func (*IfElseStmt) stmt()      {}
func (*WhileStmt) stmt()       {}
func (*BlockStmt) stmt()       {}

type Expr interface {
	Position() Position
	expr()
}

// Operator is kept as written by the parser. The type resolver decides whether it is known.
type Operator string

const (
	AddOp     Operator = "+"
	SubOp     Operator = "-"
	MulOp     Operator = "*"
	DivOp     Operator = "/"
	LessOp    Operator = "<"
	GreaterOp Operator = ">"
	AndOp     Operator = "&&"
	OrOp      Operator = "||"
)

// BinaryExpr covers arithmetic and relational operators.
type BinaryExpr struct {
	Pos   Position
	Op    Operator
	Left  Expr
	Right Expr
}

// BoolOp covers && and ||.
type BoolOp struct {
	Pos   Position
	Op    Operator
	Left  Expr
	Right Expr
}

type NotOp struct {
	Pos     Position
	Operand Expr
}

type Identifier struct {
	Pos  Position
	Name string
}

// VarRef is the this keyword.
type VarRef struct {
	Pos  Position
	Name string
}

type IntegerLiteral struct {
	Pos   Position
	Value string
}

type BoolLiteral struct {
	Pos   Position
	Value bool
}

type ArrayIndex struct {
	Pos   Position
	Array Expr
	Index Expr
}

// ArrayLiteral is new int[]{...} (or [a, b, c]).
type ArrayLiteral struct {
	Pos      Position
	Elements []Expr
}

type NewIntArray struct {
	Pos  Position
	Size Expr
}

type NewObject struct {
	Pos   Position
	Class string
}

// MethodCall is receiver.name(args...). Receiver is an *Identifier or a *VarRef.
type MethodCall struct {
	Pos      Position
	Name     string
	Receiver Expr
	Args     []Expr
}

type ArrayLength struct {
	Pos   Position
	Array Expr
}

func (e *BinaryExpr) Position() Position     { return e.Pos }
func (e *BoolOp) Position() Position         { return e.Pos }
func (e *NotOp) Position() Position          { return e.Pos }
func (e *Identifier) Position() Position     { return e.Pos }
func (e *VarRef) Position() Position         { return e.Pos }
func (e *IntegerLiteral) Position() Position { return e.Pos }
func (e *BoolLiteral) Position() Position    { return e.Pos }
func (e *ArrayIndex) Position() Position     { return e.Pos }
func (e *ArrayLiteral) Position() Position   { return e.Pos }
func (e *NewIntArray) Position() Position    { return e.Pos }
func (e *NewObject) Position() Position      { return e.Pos }
func (e *MethodCall) Position() Position     { return e.Pos }
func (e *ArrayLength) Position() Position    { return e.Pos }

func (*BinaryExpr) expr()     {}
func (*BoolOp) expr()         {}
func (*NotOp) expr()          {}
func (*Identifier) expr()     {}
func (*VarRef) expr()         {}
func (*IntegerLiteral) expr() {}
func (*BoolLiteral) expr()    {}
func (*ArrayIndex) expr()     {}
func (*ArrayLiteral) expr()   {}
func (*NewIntArray) expr()    {}
func (*NewObject) expr()      {}
func (*MethodCall) expr()     {}
func (*ArrayLength) expr()    {}

// ImportName joins the import segments with dots.
func (decl *ImportDecl) ImportName() string {
	return strings.Join(decl.Segments, ".")
}

// Visitor is called by Inspect for a statement or expression before its children. assignee is the
// target of the enclosing assignment, empty elsewhere.
type Visitor func(node interface{}, assignee string) error

// Inspect walks stmts depth first. The first error returned by fn stops the walk.
func Inspect(stmts []Stmt, fn Visitor) error {
	for _, stmt := range stmts {
		if err := inspectStmt(stmt, fn); err != nil {
			return err
		}
	}
	return nil
}

func inspectStmt(stmt Stmt, fn Visitor) error {
	if stmt == nil {
		return nil
	}
	if err := fn(stmt, ""); err != nil {
		return err
	}
	switch s := stmt.(type) {
	case *AssignStmt:
		return InspectExpr(s.Value, s.Target, fn)
	case *ArrayAssignStmt:
		return inspectExprs("", fn, s.Index, s.Value)
	case *ReturnStmt:
		return InspectExpr(s.Value, "", fn)
	case *ExprStmt:
		return InspectExpr(s.Expr, "", fn)
	case *IfElseStmt:
		if err := InspectExpr(s.Condition, "", fn); err != nil {
			return err
		}
		if err := inspectStmt(s.Then, fn); err != nil {
			return err
		}
		return inspectStmt(s.Else, fn)
	case *WhileStmt:
		if err := InspectExpr(s.Condition, "", fn); err != nil {
			return err
		}
		return inspectStmt(s.Body, fn)
	case *BlockStmt:
		return Inspect(s.Stmts, fn)
	}
	return nil
}

func inspectExprs(assignee string, fn Visitor, exprs ...Expr) error {
	for _, expr := range exprs {
		if err := InspectExpr(expr, assignee, fn); err != nil {
			return err
		}
	}
	return nil
}

func InspectExpr(expr Expr, assignee string, fn Visitor) error {
	if expr == nil {
		return nil
	}
	if err := fn(expr, assignee); err != nil {
		return err
	}
	switch e := expr.(type) {
	case *BinaryExpr:
		return inspectExprs(assignee, fn, e.Left, e.Right)
	case *BoolOp:
		return inspectExprs(assignee, fn, e.Left, e.Right)
	case *NotOp:
		return InspectExpr(e.Operand, assignee, fn)
	case *ArrayIndex:
		return inspectExprs(assignee, fn, e.Array, e.Index)
	case *ArrayLiteral:
		return inspectExprs(assignee, fn, e.Elements...)
	case *NewIntArray:
		return InspectExpr(e.Size, assignee, fn)
	case *MethodCall:
		if err := InspectExpr(e.Receiver, assignee, fn); err != nil {
			return err
		}
		return inspectExprs(assignee, fn, e.Args...)
	case *ArrayLength:
		return InspectExpr(e.Array, assignee, fn)
	}
	return nil
}
