// Package typing holds rule signatures and the two recoverable error kinds
// raised when a rule or axiom schema is applied.
//
// Typing errors cover arity, sort and binding violations. Shape errors cover
// token sequences that do not have the structure a rule needs. Both always
// name the rule or schema involved.
package typing

import (
	"strings"

	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
)

// RuleSig declares the input sorts and the output sort of a rule.
// It is used for validation only, never for dispatch.
type RuleSig struct {
	In  []formula.Sort
	Out formula.Sort
}

// Sig builds a RuleSig.
func Sig(out formula.Sort, in ...formula.Sort) RuleSig {
	return RuleSig{In: in, Out: out}
}

// Arity returns the number of hypotheses the signature accepts.
func (s RuleSig) Arity() int {
	return len(s.In)
}

// String renders the signature as "(wff, wff) -> wff".
func (s RuleSig) String() string {
	in := make([]string, len(s.In))
	for i, so := range s.In {
		in[i] = string(so)
	}
	return "(" + strings.Join(in, ", ") + ") -> " + string(s.Out)
}

// RequireArity fails with a TypingError unless got == want.
func RequireArity(rule string, want, got int) error {
	if got != want {
		return Typingf(rule, MsgArity, want, got)
	}
	return nil
}

// RequireSort fails with a TypingError unless w has sort want.
// pos is the 1-based hypothesis position used in the message.
func RequireSort(rule string, pos int, w formula.Wff, want formula.Sort) error {
	if w.Sort != want {
		return Typingf(rule, MsgHypSort, pos, want, w.Sort)
	}
	return nil
}

// Check validates hyps against the signature: count first, then each sort
// in order. The first violation is returned.
func (s RuleSig) Check(rule string, hyps []formula.Wff) error {
	if len(hyps) != len(s.In) {
		return Typingf(rule, MsgHypothesisNo, len(s.In), len(hyps))
	}
	for i, want := range s.In {
		if err := RequireSort(rule, i+1, hyps[i], want); err != nil {
			return err
		}
	}
	return nil
}
