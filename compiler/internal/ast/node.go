package ast

// In this file, we defined the boundary form of the syntax tree. The parser lives outside of this
// repository, it hands us a tree of nodes which only carry a kind, ordered children, a string keyed
// attribute bag and a source position. Build converts it into the typed tree of tree.go.

type Position struct {
	Line   int
	Column int
}

type Node interface {
	Kind() string
	Children() []Node
	Attr(name string) (string, bool)
	Position() Position
}

// Node kinds accepted by Build.
const (
	ProgramKind         = "Program"
	ImportDeclKind      = "ImportDecl"
	ClassDeclKind       = "ClassDecl"
	VarDeclKind         = "VarDecl"
	MethodDeclKind      = "MethodDecl"
	ParamKind           = "Param"
	TypeKind            = "Type"
	AssignStmtKind      = "AssignStmt"
	ArrayAssignStmtKind = "ArrayAssignStmt"
	ReturnStmtKind      = "ReturnStmt"
	ExprStmtKind        = "ExprStmt"
	IfElseStmtKind      = "IfElseStmt"
	WhileStmtKind       = "WhileStmt"
	BlockStmtKind       = "BlockStmt"
	BinaryExprKind      = "BinaryExpr"
	BoolOpKind          = "BoolOp"
	NotOpKind           = "NotOp"
	IdentifierKind      = "Identifier"
	VarRefExprKind      = "VarRefExpr"
	IntegerLiteralKind  = "IntegerLiteral"
	BoolKind            = "Bool"
	ArrayIndexKind      = "ArrayIndex"
	ArrRefExprKind      = "ArrRefExpr"
	NewIntArrKind       = "NewIntArr"
	NewObjectKind       = "NewObject"
	IdUseExprKind       = "IdUseExpr"
	ArrayLengthKind     = "ArrayLength"
)

// Generic is the plain implementation of Node. It is also the serialized form of a tree.
type Generic struct {
	NodeKind string            `cbor:"kind" json:"kind"`
	Attrs    map[string]string `cbor:"attrs,omitempty" json:"attrs,omitempty"`
	Kids     []*Generic        `cbor:"children,omitempty" json:"children,omitempty"`
	Line     int               `cbor:"line,omitempty" json:"line,omitempty"`
	Col      int               `cbor:"col,omitempty" json:"col,omitempty"`
}

func NewNode(kind string, attrs map[string]string, children ...*Generic) *Generic {
	return &Generic{NodeKind: kind, Attrs: attrs, Kids: children}
}

// At sets the source position and returns the node, handy when building trees by hand.
func (n *Generic) At(line, col int) *Generic {
	n.Line, n.Col = line, col
	return n
}

func (n *Generic) Kind() string {
	return n.NodeKind
}

func (n *Generic) Children() []Node {
	ret := make([]Node, 0, len(n.Kids))
	for _, kid := range n.Kids {
		ret = append(ret, kid)
	}
	return ret
}

func (n *Generic) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

func (n *Generic) Position() Position {
	return Position{Line: n.Line, Column: n.Col}
}
