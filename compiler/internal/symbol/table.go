package symbol

import (
	"strings"

	"github.com/xiaobogaga/javamm/compiler/internal/ast"
	"github.com/xiaobogaga/javamm/compiler/internal/report"
)

const (
	IntTypeName    = "int"
	VarargTypeName = "int..."
	BoolTypeName   = "boolean"
	VoidTypeName   = "void"
	StringTypeName = "String"
	ThisTypeName   = "this"
)

// Type is a type name plus an array flag. Equality is structural, == can be used directly.
// A vararg parameter has the name int... and is never an array at the same time.
type Type struct {
	Name    string
	IsArray bool
}

var (
	IntType      = Type{Name: IntTypeName}
	IntArrayType = Type{Name: IntTypeName, IsArray: true}
	BoolType     = Type{Name: BoolTypeName}
	VoidType     = Type{Name: VoidTypeName}
	VarargType   = Type{Name: VarargTypeName}
	ThisType     = Type{Name: ThisTypeName}
)

func (t Type) String() string {
	if t.IsArray {
		return t.Name + "[]"
	}
	return t.Name
}

func (t Type) IsVararg() bool {
	return t.Name == VarargTypeName
}

func (t Type) IsInt() bool {
	return t == IntType
}

// IsIntArray is true for int[] and for the vararg type.
func (t Type) IsIntArray() bool {
	return t == IntArrayType || t.IsVararg()
}

func (t Type) IsBool() bool {
	return t == BoolType
}

type Symbol struct {
	Name string
	Type Type
}

type methodInfo struct {
	returnType Type
	params     []Symbol
	locals     []Symbol
	isStatic   bool
}

// Table is the per-class symbol index. It is built once and never mutated afterwards.
type Table struct {
	className  string
	superClass string
	imports    []string
	fields     []Symbol
	methods    []string
	methodInfo map[string]*methodInfo
}

// Build collects imports, fields, methods, params and locals of the program. Names are recorded
// verbatim: duplicates are a concern of the duplicate declaration pass, not of the table.
func Build(program *ast.Program) (*Table, error) {
	if program == nil || program.Class == nil {
		return nil, report.Internalf("symbol table needs a program with a class")
	}
	class := program.Class
	table := &Table{
		className:  class.Name,
		superClass: class.SuperClass,
		methodInfo: map[string]*methodInfo{},
	}
	for _, decl := range program.Imports {
		table.imports = append(table.imports, decl.ImportName())
	}
	for _, field := range class.Fields {
		sym, err := buildSymbol(field.Name, field.Type, "field")
		if err != nil {
			return nil, err
		}
		table.fields = append(table.fields, sym)
	}
	for _, method := range class.Methods {
		err := table.buildMethod(method)
		if err != nil {
			return nil, err
		}
	}
	return table, nil
}

func (table *Table) buildMethod(method *ast.MethodDecl) error {
	if method.ReturnType == nil {
		return report.Internalf("method %s.%s has no return type node", table.className, method.Name)
	}
	info := &methodInfo{returnType: TypeFromRef(method.ReturnType), isStatic: method.IsStatic}
	for _, param := range method.Params {
		sym, err := buildSymbol(param.Name, param.Type, "parameter")
		if err != nil {
			return err
		}
		info.params = append(info.params, sym)
	}
	for _, local := range method.Locals {
		sym, err := buildSymbol(local.Name, local.Type, "local variable")
		if err != nil {
			return err
		}
		info.locals = append(info.locals, sym)
	}
	table.methods = append(table.methods, method.Name)
	// A duplicated method keeps the first declaration, the duplicate pass reports the second one.
	if _, ok := table.methodInfo[method.Name]; !ok {
		table.methodInfo[method.Name] = info
	}
	return nil
}

func buildSymbol(name string, ref *ast.TypeRef, what string) (Symbol, error) {
	if ref == nil {
		return Symbol{}, report.Internalf("%s %s has no type node", what, name)
	}
	return Symbol{Name: name, Type: TypeFromRef(ref)}, nil
}

// TypeFromRef maps a declared type onto a Type.
func TypeFromRef(ref *ast.TypeRef) Type {
	if ref.IsVararg {
		return VarargType
	}
	return Type{Name: ref.Name, IsArray: ref.IsArray}
}

func (table *Table) ClassName() string {
	return table.className
}

func (table *Table) SuperClass() string {
	return table.superClass
}

func (table *Table) Imports() []string {
	return table.imports
}

func (table *Table) Fields() []Symbol {
	return table.fields
}

// Methods returns the method names in declaration order, duplicates included.
func (table *Table) Methods() []string {
	return table.methods
}

func (table *Table) HasMethod(name string) bool {
	_, ok := table.methodInfo[name]
	return ok
}

func (table *Table) ReturnType(method string) (Type, bool) {
	info, ok := table.methodInfo[method]
	if !ok {
		return Type{}, false
	}
	return info.returnType, true
}

func (table *Table) Parameters(method string) []Symbol {
	info, ok := table.methodInfo[method]
	if !ok {
		return nil
	}
	return info.params
}

func (table *Table) LocalVariables(method string) []Symbol {
	info, ok := table.methodInfo[method]
	if !ok {
		return nil
	}
	return info.locals
}

func (table *Table) IsStatic(method string) bool {
	info, ok := table.methodInfo[method]
	return ok && info.isStatic
}

func (table *Table) Field(name string) (Symbol, bool) {
	return lookUp(table.fields, name)
}

func (table *Table) Parameter(method, name string) (Symbol, int, bool) {
	for i, param := range table.Parameters(method) {
		if param.Name == name {
			return param, i, true
		}
	}
	return Symbol{}, -1, false
}

func (table *Table) Local(method, name string) (Symbol, bool) {
	return lookUp(table.LocalVariables(method), name)
}

// LookUpVar searches the method's locals, then its parameters, then the class fields.
func (table *Table) LookUpVar(method, name string) (Symbol, bool) {
	if sym, ok := table.Local(method, name); ok {
		return sym, true
	}
	if sym, _, ok := table.Parameter(method, name); ok {
		return sym, true
	}
	return table.Field(name)
}

// IsField reports whether name refers to a class field from inside method, i.e. it is a field and
// no local or parameter shadows it.
func (table *Table) IsField(method, name string) bool {
	if _, ok := table.Local(method, name); ok {
		return false
	}
	if _, _, ok := table.Parameter(method, name); ok {
		return false
	}
	_, ok := table.Field(name)
	return ok
}

// LookUpImport finds the import whose full name or last dotted segment equals name.
func (table *Table) LookUpImport(name string) (string, bool) {
	for _, imp := range table.imports {
		if imp == name || LastSegment(imp) == name {
			return imp, true
		}
	}
	return "", false
}

func (table *Table) IsImported(name string) bool {
	_, ok := table.LookUpImport(name)
	return ok
}

func LastSegment(importName string) string {
	return importName[strings.LastIndex(importName, ".")+1:]
}

func lookUp(symbols []Symbol, name string) (Symbol, bool) {
	for _, sym := range symbols {
		if sym.Name == name {
			return sym, true
		}
	}
	return Symbol{}, false
}
