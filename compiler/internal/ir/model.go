// Package ir is the structural model of OLLIR text: a class unit made of fields and methods, each
// method a list of typed instructions. Parse builds it from the text produced by package ollir.
package ir

import "strings"

type ElementKind int

const (
	Int32 ElementKind = iota
	Boolean
	Void
	String
	ArrayRef
	ObjectRef
	// ClassRef is a class used as a receiver of a static call, like io in invokestatic(io, ...).
	ClassRef
	ThisRef
)

func (kind ElementKind) String() string {
	switch kind {
	case Int32:
		return "INT32"
	case Boolean:
		return "BOOLEAN"
	case Void:
		return "VOID"
	case String:
		return "STRING"
	case ArrayRef:
		return "ARRAYREF"
	case ObjectRef:
		return "OBJECTREF"
	case ClassRef:
		return "CLASS"
	case ThisRef:
		return "THIS"
	}
	return "UNKNOWN"
}

// Type is an OLLIR type. ClassName is set for object and this types, Elem for arrays.
type Type struct {
	Kind      ElementKind
	ClassName string
	Elem      *Type
}

func (tp *Type) String() string {
	switch tp.Kind {
	case ArrayRef:
		return "array." + tp.Elem.String()
	case ObjectRef, ThisRef, ClassRef:
		return tp.ClassName
	case Int32:
		return "i32"
	case Boolean:
		return "bool"
	case Void:
		return "V"
	case String:
		return "String"
	}
	return "?"
}

// IsReference is true for values held in a reference register.
func (tp *Type) IsReference() bool {
	switch tp.Kind {
	case ArrayRef, ObjectRef, String, ThisRef:
		return true
	}
	return false
}

type ClassUnit struct {
	Name       string
	SuperClass string // Empty for the implicit root class.
	Imports    []string
	Fields     []*Field
	Methods    []*Method
}

// QualifiedImport returns the import whose last segment is name, written with slashes.
func (unit *ClassUnit) QualifiedImport(name string) (string, bool) {
	for _, imp := range unit.Imports {
		if imp == name || imp[strings.LastIndex(imp, ".")+1:] == name {
			return strings.ReplaceAll(imp, ".", "/"), true
		}
	}
	return "", false
}

type Field struct {
	Name   string
	Access string // Empty for the default access.
	Type   *Type
}

type Method struct {
	Name          string
	IsPublic      bool
	IsStatic      bool
	IsConstructor bool
	ReturnType    *Type
	Params        []*Operand
	Instructions  []Instruction
	VarTable      map[string]Descriptor
}

// Descriptor is the register assigned to a variable.
type Descriptor struct {
	Register int
	Type     *Type
}

// Element is an instruction operand: an *Operand or a *Literal.
type Element interface {
	ElementType() *Type
	element()
}

// Operand is a named value. ParamIndex is the n of a $n. prefix, 0 when there is none.
type Operand struct {
	Name       string
	Type       *Type
	ParamIndex int
}

type Literal struct {
	Value string
	Type  *Type
}

func (operand *Operand) ElementType() *Type { return operand.Type }
func (literal *Literal) ElementType() *Type { return literal.Type }

func (*Operand) element() {}
func (*Literal) element() {}

type Instruction interface {
	instruction()
}

// AssignInstruction is dest :=.type rhs.
type AssignInstruction struct {
	Dest *Operand
	Type *Type
	Rhs  Instruction
}

// SingleOpInstruction is a bare element on the right hand side of an assignment, or in a return.
type SingleOpInstruction struct {
	Operand Element
}

type OperationType int

const (
	Add OperationType = iota
	Sub
	Mul
	Div
	Lth
	Gth
	And
	Or
)

var operationSymbols = map[string]OperationType{
	"+":  Add,
	"-":  Sub,
	"*":  Mul,
	"/":  Div,
	"<":  Lth,
	">":  Gth,
	"&&": And,
	"||": Or,
}

func (op OperationType) String() string {
	for symbol, tp := range operationSymbols {
		if tp == op {
			return symbol
		}
	}
	return "?"
}

type BinaryOpInstruction struct {
	Op    OperationType
	Type  *Type
	Left  Element
	Right Element
}

// ReturnInstruction has a nil Operand for ret.V.
type ReturnInstruction struct {
	Type    *Type
	Operand Element
}

type CallKind int

const (
	InvokeStatic CallKind = iota
	InvokeVirtual
	InvokeSpecial
	InvokeInterface
	New
	ArrayLength
	Ldc
)

var callKinds = map[string]CallKind{
	"invokestatic":    InvokeStatic,
	"invokevirtual":   InvokeVirtual,
	"invokespecial":   InvokeSpecial,
	"invokeinterface": InvokeInterface,
	"new":             New,
	"arraylength":     ArrayLength,
	"ldc":             Ldc,
}

func (kind CallKind) String() string {
	for name, tp := range callKinds {
		if tp == kind {
			return name
		}
	}
	return "?"
}

// CallInstruction covers every invocation form. MethodName is empty for new and for a
// constructor call written with "".
type CallInstruction struct {
	Kind       CallKind
	Caller     *Operand
	MethodName string
	Args       []Element
	ReturnType *Type
}

type PutFieldInstruction struct {
	Object *Operand
	Field  *Operand
	Value  Element
}

type GetFieldInstruction struct {
	Object *Operand
	Field  *Operand
	Type   *Type
}

func (*AssignInstruction) instruction()   {}
func (*SingleOpInstruction) instruction() {}
func (*BinaryOpInstruction) instruction() {}
func (*ReturnInstruction) instruction()   {}
func (*CallInstruction) instruction()     {}
func (*PutFieldInstruction) instruction() {}
func (*GetFieldInstruction) instruction() {}
