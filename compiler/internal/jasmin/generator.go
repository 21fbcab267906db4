// Package jasmin emits Jasmin assembly text for a class unit parsed from OLLIR.
package jasmin

import (
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/xiaobogaga/javamm/compiler/internal/config"
	"github.com/xiaobogaga/javamm/compiler/internal/ir"
	"github.com/xiaobogaga/javamm/compiler/internal/report"
)

var log = commonlog.GetLogger("javamm.jasmin")

const (
	nl  = "\n"
	tab = "   "
)

// Generator emits one class unit. The method cursor is per generator, never shared.
type Generator struct {
	unit   *ir.ClassUnit
	limits config.Jasmin
	method *ir.Method
}

func NewGenerator(unit *ir.ClassUnit, limits config.Jasmin) *Generator {
	return &Generator{unit: unit, limits: limits}
}

// Generate emits the Jasmin text of unit.
func Generate(unit *ir.ClassUnit, limits config.Jasmin) (string, error) {
	return NewGenerator(unit, limits).Generate()
}

func (g *Generator) Generate() (string, error) {
	var code strings.Builder
	code.WriteString(".class public " + g.unit.Name + nl)
	superClass := g.superClass()
	code.WriteString(".super " + superClass + nl + nl)
	for _, field := range g.unit.Fields {
		code.WriteString(".field ")
		if field.Access != "" {
			code.WriteString(field.Access + " ")
		}
		desc, err := g.descriptor(field.Type)
		if err != nil {
			return "", err
		}
		code.WriteString(field.Name + " " + desc + nl + nl)
	}
	// The default constructor comes first, whatever the unit declares.
	code.WriteString(".method public <init>()V" + nl +
		tab + "aload_0" + nl +
		tab + "invokespecial " + superClass + "/<init>()V" + nl +
		tab + "return" + nl +
		".end method" + nl)
	for _, method := range g.unit.Methods {
		if method.IsConstructor {
			continue
		}
		text, err := g.generateMethod(method)
		if err != nil {
			return "", err
		}
		code.WriteString(text)
	}
	log.Debugf("emitted class %s with %d methods", g.unit.Name, len(g.unit.Methods))
	return code.String(), nil
}

func (g *Generator) superClass() string {
	if g.unit.SuperClass == "" || g.unit.SuperClass == "Object" {
		return "java/lang/Object"
	}
	return g.className(g.unit.SuperClass)
}

// className qualifies an imported class with its package path.
func (g *Generator) className(name string) string {
	if qualified, ok := g.unit.QualifiedImport(name); ok {
		return qualified
	}
	return name
}

func (g *Generator) generateMethod(method *ir.Method) (string, error) {
	g.method = method
	defer func() { g.method = nil }()
	var code strings.Builder
	code.WriteString(nl + ".method ")
	if method.IsPublic {
		code.WriteString("public ")
	}
	if method.IsStatic {
		code.WriteString("static ")
	}
	desc, err := g.methodDescriptor(paramTypes(method.Params), method.ReturnType)
	if err != nil {
		return "", err
	}
	code.WriteString(method.Name + desc + nl)
	code.WriteString(tab + ".limit stack " + strconv.Itoa(g.limits.StackLimit) + nl)
	code.WriteString(tab + ".limit locals " + strconv.Itoa(g.limits.LocalsLimit) + nl)
	for _, inst := range method.Instructions {
		lines, err := g.generateInstruction(inst, true)
		if err != nil {
			return "", err
		}
		for _, line := range lines {
			code.WriteString(tab + line + nl)
		}
	}
	code.WriteString(".end method" + nl)
	return code.String(), nil
}

// generateInstruction returns the lines of inst. standalone is false for the right hand side of
// an assignment, whose value is kept on the stack.
func (g *Generator) generateInstruction(inst ir.Instruction, standalone bool) ([]string, error) {
	switch inst := inst.(type) {
	case *ir.AssignInstruction:
		return g.generateAssign(inst)
	case *ir.SingleOpInstruction:
		return g.load(inst.Operand)
	case *ir.BinaryOpInstruction:
		return g.generateBinaryOp(inst)
	case *ir.ReturnInstruction:
		return g.generateReturn(inst)
	case *ir.CallInstruction:
		return g.generateCall(inst, standalone)
	case *ir.PutFieldInstruction:
		return g.generatePutField(inst)
	case *ir.GetFieldInstruction:
		return g.generateGetField(inst)
	default:
		return nil, report.Internalf("can't emit instruction %T", inst)
	}
}

func (g *Generator) generateAssign(assign *ir.AssignInstruction) ([]string, error) {
	lines, err := g.generateInstruction(assign.Rhs, false)
	if err != nil {
		return nil, err
	}
	store, err := g.store(assign.Dest)
	if err != nil {
		return nil, err
	}
	return append(lines, store), nil
}

func (g *Generator) generateBinaryOp(binaryOp *ir.BinaryOpInstruction) ([]string, error) {
	var op string
	switch binaryOp.Op {
	case ir.Add:
		op = "iadd"
	case ir.Sub:
		op = "isub"
	case ir.Mul:
		op = "imul"
	case ir.Div:
		op = "idiv"
	default:
		return nil, report.Unsupportedf("binary operator %s", binaryOp.Op)
	}
	left, err := g.load(binaryOp.Left)
	if err != nil {
		return nil, err
	}
	right, err := g.load(binaryOp.Right)
	if err != nil {
		return nil, err
	}
	lines := append(left, right...)
	return append(lines, op), nil
}

func (g *Generator) generateReturn(ret *ir.ReturnInstruction) ([]string, error) {
	if ret.Operand == nil {
		return []string{"return"}, nil
	}
	lines, err := g.load(ret.Operand)
	if err != nil {
		return nil, err
	}
	if ret.Operand.ElementType().IsReference() {
		return append(lines, "areturn"), nil
	}
	return append(lines, "ireturn"), nil
}

func (g *Generator) generateCall(call *ir.CallInstruction, standalone bool) ([]string, error) {
	var lines []string
	switch call.Kind {
	case ir.InvokeVirtual:
		receiver, err := g.load(call.Caller)
		if err != nil {
			return nil, err
		}
		args, err := g.loadArgs(call.Args)
		if err != nil {
			return nil, err
		}
		desc, err := g.methodDescriptor(argTypes(call.Args), call.ReturnType)
		if err != nil {
			return nil, err
		}
		lines = append(append(receiver, args...), "invokevirtual "+g.className(call.Caller.Type.ClassName)+"/"+call.MethodName+desc)
	case ir.InvokeSpecial:
		receiver, err := g.load(call.Caller)
		if err != nil {
			return nil, err
		}
		// The reference left by dup after new is discarded once the constructor ran.
		lines = append(receiver, "invokespecial "+g.className(call.Caller.Type.ClassName)+"/<init>()V", "pop")
		return lines, nil
	case ir.InvokeStatic:
		args, err := g.loadArgs(call.Args)
		if err != nil {
			return nil, err
		}
		desc, err := g.methodDescriptor(argTypes(call.Args), call.ReturnType)
		if err != nil {
			return nil, err
		}
		lines = append(args, "invokestatic "+g.className(call.Caller.Name)+"/"+call.MethodName+desc)
	case ir.New:
		return []string{"new " + g.className(call.Caller.Name), "dup"}, nil
	case ir.InvokeInterface, ir.ArrayLength, ir.Ldc:
		return nil, report.Unsupportedf("%s calls cannot be emitted", call.Kind)
	default:
		return nil, report.Internalf("unknown call kind %d", call.Kind)
	}
	if standalone && call.ReturnType.Kind != ir.Void {
		lines = append(lines, "pop")
	}
	return lines, nil
}

func (g *Generator) generatePutField(put *ir.PutFieldInstruction) ([]string, error) {
	object, err := g.load(put.Object)
	if err != nil {
		return nil, err
	}
	var value []string
	if literal, ok := put.Value.(*ir.Literal); ok {
		value = []string{pushLiteral(literal)}
	} else {
		value, err = g.load(put.Value)
		if err != nil {
			return nil, err
		}
	}
	desc, err := g.descriptor(put.Field.Type)
	if err != nil {
		return nil, err
	}
	lines := append(object, value...)
	return append(lines, "putfield "+g.unit.Name+"/"+put.Field.Name+" "+desc), nil
}

func (g *Generator) generateGetField(get *ir.GetFieldInstruction) ([]string, error) {
	object, err := g.load(get.Object)
	if err != nil {
		return nil, err
	}
	desc, err := g.descriptor(get.Field.Type)
	if err != nil {
		return nil, err
	}
	return append(object, "getfield "+g.unit.Name+"/"+get.Field.Name+" "+desc), nil
}

// pushLiteral uses bipush for values which fit a byte.
func pushLiteral(literal *ir.Literal) string {
	if v, err := strconv.Atoi(literal.Value); err == nil && v >= -128 && v <= 127 {
		return "bipush " + literal.Value
	}
	return "ldc " + literal.Value
}

func (g *Generator) loadArgs(args []ir.Element) ([]string, error) {
	var lines []string
	for _, arg := range args {
		load, err := g.load(arg)
		if err != nil {
			return nil, err
		}
		lines = append(lines, load...)
	}
	return lines, nil
}

// load pushes element. Literals always go through ldc.
func (g *Generator) load(element ir.Element) ([]string, error) {
	switch element := element.(type) {
	case *ir.Literal:
		return []string{"ldc " + element.Value}, nil
	case *ir.Operand:
		if element.Type.Kind == ir.ThisRef {
			return []string{"aload_0"}, nil
		}
		reg, err := g.register(element)
		if err != nil {
			return nil, err
		}
		if element.Type.IsReference() {
			return []string{withRegister("aload", reg)}, nil
		}
		return []string{withRegister("iload", reg)}, nil
	default:
		return nil, report.Internalf("can't load element %T", element)
	}
}

func (g *Generator) store(operand *ir.Operand) (string, error) {
	if operand.Type.Kind == ir.ThisRef {
		return "", report.Internalf("cannot assign to this")
	}
	reg, err := g.register(operand)
	if err != nil {
		return "", err
	}
	if operand.Type.IsReference() {
		return withRegister("astore", reg), nil
	}
	return withRegister("istore", reg), nil
}

func (g *Generator) register(operand *ir.Operand) (int, error) {
	reg, ok := g.method.Register(operand.Name)
	if !ok {
		return 0, report.Internalf("variable %s has no register in method %s", operand.Name, g.method.Name)
	}
	return reg, nil
}

// withRegister uses the short form of the mnemonic for registers 0 to 3.
func withRegister(mnemonic string, reg int) string {
	if reg <= 3 {
		return mnemonic + "_" + strconv.Itoa(reg)
	}
	return mnemonic + " " + strconv.Itoa(reg)
}

func paramTypes(params []*ir.Operand) []*ir.Type {
	types := make([]*ir.Type, 0, len(params))
	for _, param := range params {
		types = append(types, param.Type)
	}
	return types
}

func argTypes(args []ir.Element) []*ir.Type {
	types := make([]*ir.Type, 0, len(args))
	for _, arg := range args {
		types = append(types, arg.ElementType())
	}
	return types
}

// methodDescriptor writes (params)ret, like (I[I)Z.
func (g *Generator) methodDescriptor(types []*ir.Type, ret *ir.Type) (string, error) {
	var desc strings.Builder
	desc.WriteString("(")
	for _, tp := range types {
		d, err := g.descriptor(tp)
		if err != nil {
			return "", err
		}
		desc.WriteString(d)
	}
	d, err := g.descriptor(ret)
	if err != nil {
		return "", err
	}
	desc.WriteString(")" + d)
	return desc.String(), nil
}

// descriptor gives the JVM descriptor of tp.
func (g *Generator) descriptor(tp *ir.Type) (string, error) {
	switch tp.Kind {
	case ir.Int32:
		return "I", nil
	case ir.Boolean:
		return "Z", nil
	case ir.Void:
		return "V", nil
	case ir.String:
		return "Ljava/lang/String;", nil
	case ir.ArrayRef:
		elem, err := g.descriptor(tp.Elem)
		if err != nil {
			return "", err
		}
		return "[" + elem, nil
	case ir.ObjectRef, ir.ThisRef:
		return "L" + g.className(tp.ClassName) + ";", nil
	default:
		return "", report.Internalf("type %s has no descriptor", tp.Kind)
	}
}
