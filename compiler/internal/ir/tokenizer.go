package ir

import (
	"bufio"
	"io"
	"unicode"

	"github.com/xiaobogaga/javamm/compiler/internal/report"
	"github.com/xiaobogaga/javamm/util"
)

// A simple tokenizer for OLLIR text.
//
// OLLIR text has those elements:
// * Symbol: {, }, (, ), ,, ;, ., :=.
// * Operator: +, -, *, /, <, >, &&, ||, !.
// * Constant: integer, string ("xxx").
// * Actual: $1, the positional prefix of a parameter.
// * Identifier: letters, digits, underscore, not starting with a digit. Directives and instruction
//   names like method, ret or invokestatic are identifiers too, the parser tells them apart.
// * Comment: //.

type TokenType int

const (
	LeftBraceTP  TokenType = iota // {
	RightBraceTP                  // }
	LeftParenTP                   // (
	RightParenTP                  // )
	CommaTP                       // ,
	SemiColonTP                   // ;
	DotTP                         // .
	AssignTP                      // :=
	OperatorTP                    // + - * / < > && || !
	IntegerTP                     // 1010
	StringTP                      // "xxx"
	ActualTP                      // $1
	IdentifierTP                  // varA
)

var simpleSymbolTokenTPMap = map[byte]TokenType{
	'{': LeftBraceTP,
	'}': RightBraceTP,
	'(': LeftParenTP,
	')': RightParenTP,
	',': CommaTP,
	';': SemiColonTP,
	'.': DotTP,
}

var operators = []string{":=", "&&", "||", "+", "-", "*", "/", "<", ">", "!"}

type Token struct {
	content string
	line    int
	pos     int
	tp      TokenType
}

type Tokenizer struct {
	currentPos  int
	currentLine int
	tokens      []*Token
}

// Tokenize splits the OLLIR text read from rd into tokens.
func (tokenizer *Tokenizer) Tokenize(rd io.Reader) ([]*Token, error) {
	bfReader := bufio.NewReader(rd)
	for {
		tokenizer.currentLine++
		tokenizer.currentPos = 0
		line, readErr := bfReader.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, readErr
		}
		err := tokenizer.parseLine(line)
		if err != nil {
			return nil, err
		}
		if readErr == io.EOF {
			return tokenizer.tokens, nil
		}
	}
}

func (tokenizer *Tokenizer) parseLine(line []byte) error {
	for {
		token, err := tokenizer.getNextToken(line)
		if err != nil {
			return err
		}
		if token == nil {
			return nil
		}
		tokenizer.tokens = append(tokenizer.tokens, token)
	}
}

// getNextToken returns the next token of line, or nil when the line is consumed.
func (tokenizer *Tokenizer) getNextToken(line []byte) (*Token, error) {
	tokenizer.trimSpace(line)
	if tokenizer.currentPos >= len(line) {
		return nil, nil
	}
	b := line[tokenizer.currentPos]
	if tp, ok := simpleSymbolTokenTPMap[b]; ok {
		return tokenizer.makeToken(line, tokenizer.currentPos+1, tp), nil
	}
	switch {
	case b == '/' && tokenizer.currentPos+1 < len(line) && line[tokenizer.currentPos+1] == '/':
		// Comment until the end of line.
		tokenizer.currentPos = len(line)
		return nil, nil
	case util.IsOperatorChar(b):
		return tokenizer.tokenOperator(line)
	case b == '"':
		return tokenizer.tokenString(line)
	case b == '$':
		return tokenizer.tokenActual(line)
	case util.IsNumber(b):
		return tokenizer.makeToken(line, tokenizer.scan(line, tokenizer.currentPos, util.IsNumber), IntegerTP), nil
	case util.IsLetterOrUnderscore(b):
		return tokenizer.makeToken(line, tokenizer.scan(line, tokenizer.currentPos, util.IsLetterOrUnderscoreOrNumber), IdentifierTP), nil
	default:
		return nil, tokenizer.makeError(line, "unexpected character %q", b)
	}
}

func (tokenizer *Tokenizer) trimSpace(line []byte) {
	for tokenizer.currentPos < len(line) && unicode.IsSpace(rune(line[tokenizer.currentPos])) {
		tokenizer.currentPos++
	}
}

// scan returns the end of the run of bytes starting at start which satisfy accept.
func (tokenizer *Tokenizer) scan(line []byte, start int, accept func(byte) bool) int {
	end := start
	for end < len(line) && accept(line[end]) {
		end++
	}
	return end
}

func (tokenizer *Tokenizer) makeToken(line []byte, end int, tp TokenType) *Token {
	token := &Token{
		content: string(line[tokenizer.currentPos:end]),
		line:    tokenizer.currentLine,
		pos:     tokenizer.currentPos,
		tp:      tp,
	}
	tokenizer.currentPos = end
	return token
}

func (tokenizer *Tokenizer) tokenOperator(line []byte) (*Token, error) {
	rest := string(line[tokenizer.currentPos:])
	for _, op := range operators {
		if len(rest) >= len(op) && rest[:len(op)] == op {
			tp := OperatorTP
			if op == ":=" {
				tp = AssignTP
			}
			return tokenizer.makeToken(line, tokenizer.currentPos+len(op), tp), nil
		}
	}
	return nil, tokenizer.makeError(line, "unknown operator")
}

// tokenString returns the content between the quotes.
func (tokenizer *Tokenizer) tokenString(line []byte) (*Token, error) {
	start := tokenizer.currentPos
	end := start + 1
	for end < len(line) && line[end] != '"' {
		end++
	}
	if end >= len(line) {
		return nil, tokenizer.makeError(line, "incorrect string format")
	}
	token := &Token{content: string(line[start+1 : end]), line: tokenizer.currentLine, pos: start, tp: StringTP}
	tokenizer.currentPos = end + 1
	return token, nil
}

// tokenActual returns the digits after $.
func (tokenizer *Tokenizer) tokenActual(line []byte) (*Token, error) {
	start := tokenizer.currentPos
	end := tokenizer.scan(line, start+1, util.IsNumber)
	if end == start+1 {
		return nil, tokenizer.makeError(line, "$ must be followed by a parameter index")
	}
	token := &Token{content: string(line[start+1 : end]), line: tokenizer.currentLine, pos: start, tp: ActualTP}
	tokenizer.currentPos = end
	return token, nil
}

func (tokenizer *Tokenizer) makeError(line []byte, format string, args ...interface{}) error {
	args = append(args, tokenizer.currentLine, tokenizer.currentPos, string(line))
	return report.Internalf("ollir tokenizer: "+format+" at line %d:%d, near %s", args...)
}
