package ir

import (
	"io"
	"strconv"

	"github.com/xiaobogaga/javamm/compiler/internal/report"
)

// Parser is a recursive descent parser over OLLIR tokens. The grammar it accepts is the one
// written by package ollir:
//
//	unit        := import* name ["extends" name] "{" member* "}"
//	member      := ".field" [access] name type ";"
//	             | ".method" ["public"] ["static"] name "(" params ")" type "{" instruction* "}"
//	             | ".construct" name "(" ")" type "{" instruction* "}"
//	instruction := "ret" type [element] ";"
//	             | "putfield" "(" operand "," operand "," element ")" type ";"
//	             | call type ";"
//	             | operand ":=" type rhs ";"
type Parser struct {
	currentTokenPos int
	currentTokens   []*Token
	unit            *ClassUnit
}

// Parse reads OLLIR text and returns its class unit, with the variable table of every method
// already built.
func Parse(rd io.Reader) (*ClassUnit, error) {
	tokenizer := &Tokenizer{}
	tokens, err := tokenizer.Tokenize(rd)
	if err != nil {
		return nil, err
	}
	parser := &Parser{currentTokens: tokens}
	unit, err := parser.parseClassUnit()
	if err != nil {
		return nil, err
	}
	for _, method := range unit.Methods {
		method.BuildVarTable()
	}
	return unit, nil
}

func (parser *Parser) parseClassUnit() (*ClassUnit, error) {
	parser.unit = &ClassUnit{}
	for parser.expectWord("import", true) {
		name, err := parser.parseDottedName()
		if err != nil {
			return nil, err
		}
		if _, ok := parser.expectToken(SemiColonTP, true); !ok {
			return nil, parser.makeError(true)
		}
		parser.unit.Imports = append(parser.unit.Imports, name)
	}
	name, ok := parser.expectToken(IdentifierTP, true)
	if !ok {
		return nil, parser.makeError(true)
	}
	parser.unit.Name = name.content
	if parser.expectWord("extends", true) {
		superClass, ok := parser.expectToken(IdentifierTP, true)
		if !ok {
			return nil, parser.makeError(true)
		}
		parser.unit.SuperClass = superClass.content
	}
	if _, ok = parser.expectToken(LeftBraceTP, true); !ok {
		return nil, parser.makeError(true)
	}
	for {
		if _, ok = parser.expectToken(RightBraceTP, true); ok {
			break
		}
		err := parser.parseMember()
		if err != nil {
			return nil, err
		}
	}
	if parser.hasRemainTokens() {
		return nil, parser.makeError(true)
	}
	return parser.unit, nil
}

func (parser *Parser) parseDottedName() (string, error) {
	token, ok := parser.expectToken(IdentifierTP, true)
	if !ok {
		return "", parser.makeError(true)
	}
	name := token.content
	for {
		if _, ok = parser.expectToken(DotTP, true); !ok {
			return name, nil
		}
		token, ok = parser.expectToken(IdentifierTP, true)
		if !ok {
			return "", parser.makeError(true)
		}
		name += "." + token.content
	}
}

func (parser *Parser) parseMember() error {
	if _, ok := parser.expectToken(DotTP, true); !ok {
		return parser.makeError(true)
	}
	directive, ok := parser.expectToken(IdentifierTP, true)
	if !ok {
		return parser.makeError(true)
	}
	switch directive.content {
	case "field":
		return parser.parseField()
	case "method":
		return parser.parseMethod(false)
	case "construct":
		return parser.parseMethod(true)
	default:
		return parser.makeError(false)
	}
}

// .field public x.i32;
func (parser *Parser) parseField() error {
	field := &Field{}
	for _, access := range []string{"public", "private", "protected"} {
		if parser.expectWord(access, true) {
			field.Access = access
			break
		}
	}
	name, ok := parser.expectToken(IdentifierTP, true)
	if !ok {
		return parser.makeError(true)
	}
	field.Name = name.content
	tp, err := parser.parseType()
	if err != nil {
		return err
	}
	field.Type = tp
	if _, ok = parser.expectToken(SemiColonTP, true); !ok {
		return parser.makeError(true)
	}
	parser.unit.Fields = append(parser.unit.Fields, field)
	return nil
}

func (parser *Parser) parseMethod(isConstructor bool) error {
	method := &Method{IsConstructor: isConstructor, IsPublic: isConstructor}
	for {
		if parser.expectWord("public", true) {
			method.IsPublic = true
			continue
		}
		if parser.expectWord("static", true) {
			method.IsStatic = true
			continue
		}
		break
	}
	name, ok := parser.expectToken(IdentifierTP, true)
	if !ok {
		return parser.makeError(true)
	}
	method.Name = name.content
	if _, ok = parser.expectToken(LeftParenTP, true); !ok {
		return parser.makeError(true)
	}
	for !parser.isToken(RightParenTP) {
		if len(method.Params) > 0 {
			if _, ok = parser.expectToken(CommaTP, true); !ok {
				return parser.makeError(true)
			}
		}
		param, err := parser.parseNamedOperand()
		if err != nil {
			return err
		}
		method.Params = append(method.Params, param)
	}
	parser.currentTokenPos++
	tp, err := parser.parseType()
	if err != nil {
		return err
	}
	method.ReturnType = tp
	if _, ok = parser.expectToken(LeftBraceTP, true); !ok {
		return parser.makeError(true)
	}
	for {
		if _, ok = parser.expectToken(RightBraceTP, true); ok {
			break
		}
		inst, err := parser.parseInstruction()
		if err != nil {
			return err
		}
		method.Instructions = append(method.Instructions, inst)
	}
	parser.unit.Methods = append(parser.unit.Methods, method)
	return nil
}

// parseType parses a type suffix such as .i32, .array.i32 or .Simple.
func (parser *Parser) parseType() (*Type, error) {
	if _, ok := parser.expectToken(DotTP, true); !ok {
		return nil, parser.makeError(true)
	}
	name, ok := parser.expectToken(IdentifierTP, true)
	if !ok {
		return nil, parser.makeError(true)
	}
	switch name.content {
	case "i32":
		return &Type{Kind: Int32}, nil
	case "bool":
		return &Type{Kind: Boolean}, nil
	case "V":
		return &Type{Kind: Void}, nil
	case "String":
		return &Type{Kind: String}, nil
	case "array":
		elem, err := parser.parseType()
		if err != nil {
			return nil, err
		}
		return &Type{Kind: ArrayRef, Elem: elem}, nil
	default:
		return &Type{Kind: ObjectRef, ClassName: name.content}, nil
	}
}

func (parser *Parser) parseInstruction() (Instruction, error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, err
	}
	if token.tp != IdentifierTP && token.tp != ActualTP {
		return nil, parser.makeError(true)
	}
	var inst Instruction
	if _, isCall := callKinds[token.content]; isCall && token.tp == IdentifierTP && parser.peekIs(1, LeftParenTP) {
		inst, err = parser.parseCall()
	} else {
		switch {
		case token.tp == IdentifierTP && token.content == "ret" && !parser.isAssignment():
			inst, err = parser.parseReturn()
		case token.tp == IdentifierTP && token.content == "putfield" && parser.peekIs(1, LeftParenTP):
			inst, err = parser.parsePutField()
		default:
			inst, err = parser.parseAssign()
		}
	}
	if err != nil {
		return nil, err
	}
	if _, ok := parser.expectToken(SemiColonTP, true); !ok {
		return nil, parser.makeError(true)
	}
	return inst, nil
}

// isAssignment reports whether the tokens at the cursor are a typed operand followed by :=, as
// in ret.i32 :=.i32 1.i32 where ret is a variable. The cursor does not move.
func (parser *Parser) isAssignment() bool {
	pos := parser.currentTokenPos
	defer func() { parser.currentTokenPos = pos }()
	parser.currentTokenPos++
	if _, err := parser.parseType(); err != nil {
		return false
	}
	return parser.isToken(AssignTP)
}

// ret.i32 tmp0.i32
func (parser *Parser) parseReturn() (Instruction, error) {
	parser.currentTokenPos++
	tp, err := parser.parseType()
	if err != nil {
		return nil, err
	}
	inst := &ReturnInstruction{Type: tp}
	if parser.isToken(SemiColonTP) {
		return inst, nil
	}
	inst.Operand, err = parser.parseElement()
	return inst, err
}

// putfield(this.Simple, x.i32, 1.i32).V
func (parser *Parser) parsePutField() (Instruction, error) {
	parser.currentTokenPos++
	if _, ok := parser.expectToken(LeftParenTP, true); !ok {
		return nil, parser.makeError(true)
	}
	object, err := parser.parseNamedOperand()
	if err != nil {
		return nil, err
	}
	if _, ok := parser.expectToken(CommaTP, true); !ok {
		return nil, parser.makeError(true)
	}
	field, err := parser.parseNamedOperand()
	if err != nil {
		return nil, err
	}
	if _, ok := parser.expectToken(CommaTP, true); !ok {
		return nil, parser.makeError(true)
	}
	value, err := parser.parseElement()
	if err != nil {
		return nil, err
	}
	if _, ok := parser.expectToken(RightParenTP, true); !ok {
		return nil, parser.makeError(true)
	}
	if _, err = parser.parseType(); err != nil {
		return nil, err
	}
	return &PutFieldInstruction{Object: object, Field: field, Value: value}, nil
}

// getfield(this.Simple, x.i32).i32
func (parser *Parser) parseGetField() (Instruction, error) {
	parser.currentTokenPos++
	if _, ok := parser.expectToken(LeftParenTP, true); !ok {
		return nil, parser.makeError(true)
	}
	object, err := parser.parseNamedOperand()
	if err != nil {
		return nil, err
	}
	if _, ok := parser.expectToken(CommaTP, true); !ok {
		return nil, parser.makeError(true)
	}
	field, err := parser.parseNamedOperand()
	if err != nil {
		return nil, err
	}
	if _, ok := parser.expectToken(RightParenTP, true); !ok {
		return nil, parser.makeError(true)
	}
	tp, err := parser.parseType()
	if err != nil {
		return nil, err
	}
	return &GetFieldInstruction{Object: object, Field: field, Type: tp}, nil
}

// invokevirtual(s.Simple, "foo", a.i32).i32, or new(Simple).Simple.
func (parser *Parser) parseCall() (Instruction, error) {
	kindToken, _ := parser.getCurrentToken()
	parser.currentTokenPos++
	call := &CallInstruction{Kind: callKinds[kindToken.content]}
	if _, ok := parser.expectToken(LeftParenTP, true); !ok {
		return nil, parser.makeError(true)
	}
	caller, err := parser.parseCaller(call.Kind)
	if err != nil {
		return nil, err
	}
	call.Caller = caller
	for {
		if _, ok := parser.expectToken(RightParenTP, true); ok {
			break
		}
		if _, ok := parser.expectToken(CommaTP, true); !ok {
			return nil, parser.makeError(true)
		}
		if name, ok := parser.expectToken(StringTP, true); ok && call.MethodName == "" && len(call.Args) == 0 {
			call.MethodName = name.content
			continue
		} else if ok {
			return nil, parser.makeError(false)
		}
		arg, err := parser.parseElement()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	call.ReturnType, err = parser.parseType()
	if err != nil {
		return nil, err
	}
	return call, nil
}

// parseCaller parses the first argument of a call. It is either a typed operand, possibly with a
// positional prefix, this, or a bare class name for static calls and allocations.
func (parser *Parser) parseCaller(kind CallKind) (*Operand, error) {
	if parser.isToken(ActualTP) {
		return parser.parseNamedOperand()
	}
	token, ok := parser.expectToken(IdentifierTP, false)
	if !ok {
		return nil, parser.makeError(true)
	}
	if parser.peekIs(1, DotTP) {
		element, err := parser.parseElement()
		if err != nil {
			return nil, err
		}
		operand, ok := element.(*Operand)
		if !ok {
			return nil, parser.makeError(false)
		}
		return operand, nil
	}
	parser.currentTokenPos++
	switch {
	case token.content == "this":
		return &Operand{Name: "this", Type: &Type{Kind: ThisRef, ClassName: parser.unit.Name}}, nil
	case kind == New:
		return &Operand{Name: token.content, Type: &Type{Kind: ObjectRef, ClassName: token.content}}, nil
	default:
		return &Operand{Name: token.content, Type: &Type{Kind: ClassRef, ClassName: token.content}}, nil
	}
}

// tmp0.i32 :=.i32 rhs
func (parser *Parser) parseAssign() (Instruction, error) {
	dest, err := parser.parseNamedOperand()
	if err != nil {
		return nil, err
	}
	if _, ok := parser.expectToken(AssignTP, true); !ok {
		return nil, parser.makeError(true)
	}
	tp, err := parser.parseType()
	if err != nil {
		return nil, err
	}
	rhs, err := parser.parseRhs()
	if err != nil {
		return nil, err
	}
	return &AssignInstruction{Dest: dest, Type: tp, Rhs: rhs}, nil
}

func (parser *Parser) parseRhs() (Instruction, error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, err
	}
	if token.tp == IdentifierTP && parser.peekIs(1, LeftParenTP) {
		if _, isCall := callKinds[token.content]; isCall {
			return parser.parseCall()
		}
		if token.content == "getfield" {
			return parser.parseGetField()
		}
	}
	left, err := parser.parseElement()
	if err != nil {
		return nil, err
	}
	op, ok := parser.expectToken(OperatorTP, true)
	if !ok {
		return &SingleOpInstruction{Operand: left}, nil
	}
	opType, ok := operationSymbols[op.content]
	if !ok {
		return nil, parser.makeError(false)
	}
	tp, err := parser.parseType()
	if err != nil {
		return nil, err
	}
	right, err := parser.parseElement()
	if err != nil {
		return nil, err
	}
	return &BinaryOpInstruction{Op: opType, Type: tp, Left: left, Right: right}, nil
}

// parseElement parses a literal like 1.i32 or an operand like a.i32, $1.a.i32 or this.Simple.
func (parser *Parser) parseElement() (Element, error) {
	if value, ok := parser.expectToken(IntegerTP, true); ok {
		tp, err := parser.parseType()
		if err != nil {
			return nil, err
		}
		return &Literal{Value: value.content, Type: tp}, nil
	}
	operand, err := parser.parseNamedOperand()
	if err != nil {
		return nil, err
	}
	return operand, nil
}

func (parser *Parser) parseNamedOperand() (*Operand, error) {
	operand := &Operand{}
	if actual, ok := parser.expectToken(ActualTP, true); ok {
		idx, err := strconv.Atoi(actual.content)
		if err != nil {
			return nil, parser.makeError(false)
		}
		operand.ParamIndex = idx
		if _, ok = parser.expectToken(DotTP, true); !ok {
			return nil, parser.makeError(true)
		}
	}
	name, ok := parser.expectToken(IdentifierTP, true)
	if !ok {
		return nil, parser.makeError(true)
	}
	operand.Name = name.content
	if operand.Name == "this" {
		operand.Type = &Type{Kind: ThisRef, ClassName: parser.unit.Name}
		if parser.isToken(DotTP) {
			tp, err := parser.parseType()
			if err != nil {
				return nil, err
			}
			operand.Type.ClassName = tp.ClassName
		}
		return operand, nil
	}
	tp, err := parser.parseType()
	if err != nil {
		return nil, err
	}
	operand.Type = tp
	return operand, nil
}

func (parser *Parser) hasRemainTokens() bool {
	return parser.currentTokenPos < len(parser.currentTokens)
}

func (parser *Parser) getCurrentToken() (*Token, error) {
	if !parser.hasRemainTokens() {
		return nil, parser.makeError(true)
	}
	return parser.currentTokens[parser.currentTokenPos], nil
}

func (parser *Parser) isToken(tp TokenType) bool {
	return parser.peekIs(0, tp)
}

func (parser *Parser) peekIs(offset int, tp TokenType) bool {
	pos := parser.currentTokenPos + offset
	return pos < len(parser.currentTokens) && parser.currentTokens[pos].tp == tp
}

func (parser *Parser) expectToken(expectedTokenTp TokenType, walk bool) (*Token, bool) {
	if !parser.isToken(expectedTokenTp) {
		return nil, false
	}
	token := parser.currentTokens[parser.currentTokenPos]
	if walk {
		parser.currentTokenPos++
	}
	return token, true
}

// expectWord matches an identifier token with the given content.
func (parser *Parser) expectWord(word string, walk bool) bool {
	if !parser.isToken(IdentifierTP) || parser.currentTokens[parser.currentTokenPos].content != word {
		return false
	}
	if walk {
		parser.currentTokenPos++
	}
	return true
}

func (parser *Parser) makeError(useCurrentPos bool) error {
	currentPos := parser.currentTokenPos
	if !useCurrentPos {
		currentPos--
	}
	if currentPos < 0 || currentPos >= len(parser.currentTokens) {
		return report.Internalf("ollir: unexpected end of text")
	}
	currentToken := parser.currentTokens[currentPos]
	return report.Internalf("ollir: syntax error near %s at line %d", currentToken.content, currentToken.line)
}
