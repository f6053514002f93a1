package shape

import (
	"github.com/epistemic-frontier/metamath-prelude/pkg/builtins"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
)

// Form names the top-level shape of a token sequence.
type Form int

// Recognized forms.
const (
	FormUnknown Form = iota
	FormAtom
	FormImp
	FormNeg
	FormAnd
	FormOr
	FormIff
	FormForall
	FormExists
)

// String returns the pattern the form stands for.
func (f Form) String() string {
	switch f {
	case FormAtom:
		return "atom"
	case FormImp:
		return "( phi -> psi )"
	case FormNeg:
		return "-. phi"
	case FormAnd:
		return `( phi /\ psi )`
	case FormOr:
		return `( phi \/ psi )`
	case FormIff:
		return "( phi <-> psi )"
	case FormForall:
		return "A. x phi"
	case FormExists:
		return "E. x phi"
	default:
		return "unknown"
	}
}

// Classify returns the first form whose extractor accepts toks.
func Classify(b *builtins.Builtins, toks formula.Seq) Form {
	if len(toks) == 1 && !b.IsStructural(toks[0]) {
		return FormAtom
	}
	if _, ok := ParseImp(b, toks); ok {
		return FormImp
	}
	if _, ok := ParseAnd(b, toks); ok {
		return FormAnd
	}
	if _, ok := ParseOr(b, toks); ok {
		return FormOr
	}
	if _, ok := ParseIff(b, toks); ok {
		return FormIff
	}
	if _, ok := ParseNeg(b, toks); ok {
		return FormNeg
	}
	if _, ok := ParseForall2(b, toks); ok {
		return FormForall
	}
	if _, ok := ParseExists2(b, toks); ok {
		return FormExists
	}
	return FormUnknown
}
