package ir

// BuildVarTable assigns a register to every variable of the method: this takes 0 in instance
// methods, parameters follow in order, then every other assigned name in order of first definition.
func (method *Method) BuildVarTable() {
	method.VarTable = map[string]Descriptor{}
	register := 0
	if !method.IsStatic {
		method.VarTable["this"] = Descriptor{Register: 0, Type: &Type{Kind: ThisRef}}
		register++
	}
	for _, param := range method.Params {
		if _, ok := method.VarTable[param.Name]; ok {
			continue
		}
		method.VarTable[param.Name] = Descriptor{Register: register, Type: param.Type}
		register++
	}
	for _, inst := range method.Instructions {
		assign, ok := inst.(*AssignInstruction)
		if !ok {
			continue
		}
		if _, ok = method.VarTable[assign.Dest.Name]; ok {
			continue
		}
		method.VarTable[assign.Dest.Name] = Descriptor{Register: register, Type: assign.Dest.Type}
		register++
	}
}

// Register returns the register of name.
func (method *Method) Register(name string) (int, bool) {
	descriptor, ok := method.VarTable[name]
	return descriptor.Register, ok
}
