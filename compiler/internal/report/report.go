package report

import (
	"fmt"

	"github.com/pkg/errors"
)

type Stage int

const (
	SyntacticStage Stage = iota
	SemanticStage
)

func (s Stage) String() string {
	switch s {
	case SyntacticStage:
		return "syntactic"
	case SemanticStage:
		return "semantic"
	}
	return "unknown"
}

// Report is a single diagnostic produced while compiling. Reports are collected,
// they never stop the pass which found them.
type Report struct {
	Stage   Stage
	Line    int
	Column  int
	Message string
	Cause   error
}

func (r Report) String() string {
	if r.Cause != nil {
		return fmt.Sprintf("%s error at %d:%d: %s (%v)", r.Stage, r.Line, r.Column, r.Message, r.Cause)
	}
	return fmt.Sprintf("%s error at %d:%d: %s", r.Stage, r.Line, r.Column, r.Message)
}

func NewSemantic(line, column int, format string, args ...interface{}) Report {
	return Report{Stage: SemanticStage, Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}

func NewSyntactic(line, column int, msg string, cause error) Report {
	return Report{Stage: SyntacticStage, Line: line, Column: column, Message: msg, Cause: cause}
}

type FaultKind int

const (
	// SyntacticFault means the input tree is absent or malformed.
	SyntacticFault FaultKind = iota
	// InternalFault means the tree does not match the documented grammar, or a
	// name that must exist by construction is missing.
	InternalFault
	// UnsupportedFault means the input uses a construct that cannot be lowered
	// or emitted.
	UnsupportedFault
)

func (k FaultKind) String() string {
	switch k {
	case SyntacticFault:
		return "syntactic fault"
	case InternalFault:
		return "internal fault"
	case UnsupportedFault:
		return "unsupported construct"
	}
	return "fault"
}

// Fault aborts the phase that raised it. It is never a semantic diagnostic.
type Fault struct {
	Kind FaultKind
	Msg  string
}

func (f *Fault) Error() string {
	return f.Kind.String() + ": " + f.Msg
}

func newFault(kind FaultKind, format string, args ...interface{}) error {
	return errors.WithStack(&Fault{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

func Syntacticf(format string, args ...interface{}) error {
	return newFault(SyntacticFault, format, args...)
}

func Internalf(format string, args ...interface{}) error {
	return newFault(InternalFault, format, args...)
}

func Unsupportedf(format string, args ...interface{}) error {
	return newFault(UnsupportedFault, format, args...)
}

// FaultKindOf returns the kind of the fault carried by err, if any.
func FaultKindOf(err error) (FaultKind, bool) {
	var fault *Fault
	if errors.As(err, &fault) {
		return fault.Kind, true
	}
	return 0, false
}

func IsFault(err error, kind FaultKind) bool {
	k, ok := FaultKindOf(err)
	return ok && k == kind
}
