// Package herrors defines the closed error taxonomy the engine raises
// at its boundaries: malformed positions, missing registry entries,
// interpretation gaps, type mismatches at the evaluator boundary, and
// textual-format parse failures.
package herrors

import "fmt"

// Kind tags the category of a failure, per spec §7.
type Kind string

const (
	KindPosition                           Kind = "Position"
	KindUnknownLifeline                    Kind = "UnknownLifeline"
	KindUnknownGroup                       Kind = "UnknownGroup"
	KindUnknownMessage                     Kind = "UnknownMessage"
	KindUnknownParameter                   Kind = "UnknownParameter"
	KindUnknownVariable                    Kind = "UnknownVariable"
	KindUnknownSymbol                      Kind = "UnknownSymbol"
	KindUninterpretedVariable              Kind = "UninterpretedVariable"
	KindUninterpretedParameter             Kind = "UninterpretedParameter"
	KindWronglyTypedExpression              Kind = "WronglyTypedExpression"
	KindWronglyTypedEvaluatorInput          Kind = "WronglyTypedEvaluatorInput"
	KindWronglyTypedEvaluatorOperation      Kind = "WronglyTypedEvaluatorOperation"
	KindUnknownOperatorInEvaluatorOperation Kind = "UnknownOperatorInEvaluatorOperation"
	KindSolverUnknownSatisfiability         Kind = "SolverUnknownSatisfiability"
	KindParsingSyntax                       Kind = "ParsingSyntax"
	KindParsingSetup                       Kind = "ParsingSetup"
	KindUnsatisfiableInitialization        Kind = "UnsatisfiableInitialization"
)

// Error is the concrete type behind every error this module raises.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no wrapped cause.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error that wraps cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err is an *Error of the given kind (helper for tests).
func Is(err error, kind Kind) bool {
	he, ok := err.(*Error)
	if !ok {
		return false
	}
	return he.Kind == kind
}
