// Package shape recognizes the structural forms of prelude formulas.
//
// Every extractor is all-or-nothing: it either consumes the entire input
// with the recognized pattern and its delimiters, or reports no match.
// Trailing tokens after an apparently complete match are a failure. Every
// operand in a returned shape is non-empty and owns its storage.
//
// Each extractor has a dual constructor in construct.go, and the two
// round-trip:
//
//	s, _ := ParseImp(b, Imp(b, phi, psi).Tokens) // s == ImpShape{phi.Tokens, psi.Tokens}
package shape

import (
	"github.com/epistemic-frontier/metamath-prelude/pkg/builtins"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/match"
	"github.com/epistemic-frontier/metamath-prelude/pkg/symbol"
)

// ImpShape is ( Phi -> Psi ).
type ImpShape struct {
	Phi formula.Seq
	Psi formula.Seq
}

// NegShape is -. Body.
type NegShape struct {
	Body formula.Seq
}

// AndShape is ( Left /\ Right ).
type AndShape struct {
	Left  formula.Seq
	Right formula.Seq
}

// OrShape is ( Left \/ Right ).
type OrShape struct {
	Left  formula.Seq
	Right formula.Seq
}

// IffShape is ( Left <-> Right ).
type IffShape struct {
	Left  formula.Seq
	Right formula.Seq
}

// Forall2Shape is A. Var Body.
type Forall2Shape struct {
	Var  symbol.ID
	Body formula.Seq
}

// Exists2Shape is E. Var Body.
type Exists2Shape struct {
	Var  symbol.ID
	Body formula.Seq
}

func splitBinary(b *builtins.Builtins, toks formula.Seq, op symbol.ID) (formula.Seq, formula.Seq, bool) {
	left, right, ok := match.SplitBinary(b, toks, op)
	if !ok {
		return nil, nil, false
	}
	return left.Clone(), right.Clone(), true
}

// ParseImp recognizes ( phi -> psi ).
func ParseImp(b *builtins.Builtins, toks formula.Seq) (ImpShape, bool) {
	phi, psi, ok := splitBinary(b, toks, b.Imp)
	if !ok {
		return ImpShape{}, false
	}
	return ImpShape{Phi: phi, Psi: psi}, true
}

// ParseAnd recognizes ( phi /\ psi ).
func ParseAnd(b *builtins.Builtins, toks formula.Seq) (AndShape, bool) {
	left, right, ok := splitBinary(b, toks, b.And)
	if !ok {
		return AndShape{}, false
	}
	return AndShape{Left: left, Right: right}, true
}

// ParseOr recognizes ( phi \/ psi ).
func ParseOr(b *builtins.Builtins, toks formula.Seq) (OrShape, bool) {
	left, right, ok := splitBinary(b, toks, b.Or)
	if !ok {
		return OrShape{}, false
	}
	return OrShape{Left: left, Right: right}, true
}

// ParseIff recognizes ( phi <-> psi ).
func ParseIff(b *builtins.Builtins, toks formula.Seq) (IffShape, bool) {
	left, right, ok := splitBinary(b, toks, b.Iff)
	if !ok {
		return IffShape{}, false
	}
	return IffShape{Left: left, Right: right}, true
}

// ParseNeg recognizes -. body, where body is one balanced fragment running
// to the end of input.
func ParseNeg(b *builtins.Builtins, toks formula.Seq) (NegShape, bool) {
	if len(toks) < 2 || toks[0] != b.Neg {
		return NegShape{}, false
	}
	body, ok := match.Whole(b, toks, 1)
	if !ok {
		return NegShape{}, false
	}
	return NegShape{Body: body.Clone()}, true
}

// ParseForall2 recognizes A. x body. The second token is taken verbatim as
// the bound variable; checking that it really is a variable is a typing
// concern for the caller.
func ParseForall2(b *builtins.Builtins, toks formula.Seq) (Forall2Shape, bool) {
	x, body, ok := binder(b, toks, b.Forall)
	if !ok {
		return Forall2Shape{}, false
	}
	return Forall2Shape{Var: x, Body: body}, true
}

// ParseExists2 recognizes E. x body.
func ParseExists2(b *builtins.Builtins, toks formula.Seq) (Exists2Shape, bool) {
	x, body, ok := binder(b, toks, b.Exists)
	if !ok {
		return Exists2Shape{}, false
	}
	return Exists2Shape{Var: x, Body: body}, true
}

func binder(b *builtins.Builtins, toks formula.Seq, q symbol.ID) (symbol.ID, formula.Seq, bool) {
	if len(toks) < 3 || toks[0] != q {
		return symbol.None, nil, false
	}
	body, ok := match.Whole(b, toks, 2)
	if !ok {
		return symbol.None, nil, false
	}
	return toks[1], body.Clone(), true
}
