package typing

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Every TypingError matches ErrTyping and every
// ShapeError matches ErrShape.
var (
	ErrTyping = errors.New("typing error")
	ErrShape  = errors.New("shape error")
)

// TypingError reports an arity or sort violation, or the use of an unbound
// rule instance.
type TypingError struct {
	Rule string // rule or schema name
	Msg  string
}

func (e *TypingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Msg)
}

// Is makes errors.Is(err, ErrTyping) succeed.
func (e *TypingError) Is(target error) bool {
	return target == ErrTyping
}

// ShapeError reports a token sequence that does not have the structure a
// rule requires, or hypotheses that disagree with each other.
type ShapeError struct {
	Rule string
	Msg  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Msg)
}

// Is makes errors.Is(err, ErrShape) succeed.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// Common error messages
const (
	MsgArity         = "expects %d args, got %d"
	MsgHypSort       = "hypothesis %d: expected sort %q, got %q"
	MsgUnbound       = "requires bound builtins"
	MsgExpectShape   = "expected token shape '%s'"
	MsgAntecedent    = "antecedent mismatch (token-level)"
	MsgSingleToken   = "hypothesis %d: expected a single token, got %d"
	MsgHypothesisNo  = "expects %d hypotheses, got %d"
	MsgNoInstantiate = "schema has no instantiation"
)

// Typingf builds a TypingError.
func Typingf(rule, format string, args ...any) *TypingError {
	return &TypingError{Rule: rule, Msg: fmt.Sprintf(format, args...)}
}

// Shapef builds a ShapeError.
func Shapef(rule, format string, args ...any) *ShapeError {
	return &ShapeError{Rule: rule, Msg: fmt.Sprintf(format, args...)}
}
