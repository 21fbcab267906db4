package analysis

import (
	"github.com/xiaobogaga/javamm/compiler/internal/ast"
	"github.com/xiaobogaga/javamm/compiler/internal/symbol"
)

// undeclaredPass reports names which resolve to nothing: identifiers, assignment targets, called
// methods, instantiated classes, declared class types and the superclass.
type undeclaredPass struct{}

func (undeclaredPass) Name() string {
	return "undeclared"
}

func (pass undeclaredPass) Run(ctx *Context) error {
	pass.checkDeclarations(ctx)
	return ctx.walk(func(node interface{}, assignee string) error {
		switch n := node.(type) {
		case *ast.Identifier:
			if !isKnownName(ctx, n.Name) {
				ctx.addReport(n.Pos, "undeclared identifier '%s' in method %s", n.Name, ctx.method.Name)
			}
		case *ast.AssignStmt:
			if _, ok := ctx.Table.LookUpVar(ctx.method.Name, n.Target); !ok {
				ctx.addReport(n.Pos, "assignment to undeclared variable '%s'", n.Target)
			}
		case *ast.ArrayAssignStmt:
			if _, ok := ctx.Table.LookUpVar(ctx.method.Name, n.Target); !ok {
				ctx.addReport(n.Pos, "assignment to undeclared array '%s'", n.Target)
			}
		case *ast.NewObject:
			if !isKnownClass(ctx.Table, n.Class) {
				ctx.addReport(n.Pos, "class %s has not been imported", n.Class)
			}
		case *ast.MethodCall:
			return pass.checkCall(ctx, n, assignee)
		}
		return nil
	})
}

func (undeclaredPass) checkDeclarations(ctx *Context) {
	class := ctx.Program.Class
	table := ctx.Table
	if class.SuperClass != "" && !table.IsImported(class.SuperClass) {
		ctx.addReport(class.Pos, "superclass %s of %s has not been imported", class.SuperClass, class.Name)
	}
	checkTypeRef := func(ref *ast.TypeRef, owner string) {
		if ref == nil || isBuiltinType(ref.Name) || isKnownClass(table, ref.Name) {
			return
		}
		ctx.addReport(ref.Pos, "type %s of %s has not been imported", ref.Name, owner)
	}
	for _, field := range class.Fields {
		checkTypeRef(field.Type, field.Name)
	}
	for _, method := range class.Methods {
		checkTypeRef(method.ReturnType, method.Name)
		for _, param := range method.Params {
			checkTypeRef(param.Type, param.Name)
		}
		for _, local := range method.Locals {
			checkTypeRef(local.Type, local.Name)
		}
	}
}

// A call to a method this class does not declare is trusted when the superclass is imported, the
// receiver is an imported class, or the receiver's type is an imported class.
func (undeclaredPass) checkCall(ctx *Context, call *ast.MethodCall, assignee string) error {
	table := ctx.Table
	if table.HasMethod(call.Name) || (table.SuperClass() != "" && table.IsImported(table.SuperClass())) {
		return nil
	}
	if ident, ok := call.Receiver.(*ast.Identifier); ok {
		if !isKnownName(ctx, ident.Name) {
			// Already reported as an undeclared identifier.
			return nil
		}
		if _, isVar := table.LookUpVar(ctx.method.Name, ident.Name); !isVar && table.IsImported(ident.Name) {
			return nil
		}
	}
	receiverType, ok, err := ctx.typeOf(call.Receiver, assignee)
	if err != nil {
		return err
	}
	if ok && receiverType != symbol.ThisType && !receiverType.IsArray && table.IsImported(receiverType.Name) {
		return nil
	}
	ctx.addReport(call.Pos, "method %s is not declared", call.Name)
	return nil
}

func isKnownName(ctx *Context, name string) bool {
	if _, ok := ctx.Table.LookUpVar(ctx.method.Name, name); ok {
		return true
	}
	return ctx.Table.IsImported(name) || (name != "" && name == ctx.Table.SuperClass())
}

func isKnownClass(table *symbol.Table, name string) bool {
	return name == table.ClassName() || table.IsImported(name)
}

func isBuiltinType(name string) bool {
	switch name {
	case symbol.IntTypeName, symbol.VarargTypeName, symbol.BoolTypeName, symbol.VoidTypeName, symbol.StringTypeName:
		return true
	}
	return false
}
