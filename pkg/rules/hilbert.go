package rules

import (
	"github.com/epistemic-frontier/metamath-prelude/pkg/builtins"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/shape"
	"github.com/epistemic-frontier/metamath-prelude/pkg/typing"
)

// Hilbert is the default registry of the prelude's propositional rules.
var Hilbert = NewRegistry()

var (
	sigWff1 = typing.Sig(formula.SortWff, formula.SortWff)
	sigWff2 = typing.Sig(formula.SortWff, formula.SortWff, formula.SortWff)
	sigBind = typing.Sig(formula.SortWff, formula.SortSetvar, formula.SortWff)
)

// Shape patterns quoted in error messages.
const (
	patImp = "( phi -> psi )"
	patAnd = `( phi /\ psi )`
)

var hilbertDefs = []Def{
	{
		Label:   "wi",
		Kind:    KindAxiom,
		Sig:     sigWff2,
		Summary: "build ( phi -> psi )",
		Body: func(b *builtins.Builtins, _ string, h []formula.Wff) (formula.Wff, error) {
			return shape.Imp(b, h[0], h[1]), nil
		},
	},
	{
		Label:   "mp",
		Kind:    KindRule,
		Sig:     sigWff2,
		Summary: "modus ponens: from phi and ( phi -> psi ) infer psi",
		Body:    modusPonens,
	},
	{
		Label:   "wn",
		Kind:    KindAxiom,
		Sig:     sigWff1,
		Summary: "build -. phi",
		Body: func(b *builtins.Builtins, _ string, h []formula.Wff) (formula.Wff, error) {
			return shape.Not(b, h[0]), nil
		},
	},
	{
		Label:   "wa",
		Kind:    KindAxiom,
		Sig:     sigWff2,
		Summary: `build ( phi /\ psi )`,
		Body: func(b *builtins.Builtins, _ string, h []formula.Wff) (formula.Wff, error) {
			return shape.And(b, h[0], h[1]), nil
		},
	},
	{
		Label:   "wo",
		Kind:    KindAxiom,
		Sig:     sigWff2,
		Summary: `build ( phi \/ psi )`,
		Body: func(b *builtins.Builtins, _ string, h []formula.Wff) (formula.Wff, error) {
			return shape.Or(b, h[0], h[1]), nil
		},
	},
	{
		Label:   "wb",
		Kind:    KindAxiom,
		Sig:     sigWff2,
		Summary: "build ( phi <-> psi )",
		Body: func(b *builtins.Builtins, _ string, h []formula.Wff) (formula.Wff, error) {
			return shape.Iff(b, h[0], h[1]), nil
		},
	},
	{
		Label:   "wal",
		Kind:    KindAxiom,
		Sig:     sigBind,
		Summary: "build A. x phi",
		Body: func(b *builtins.Builtins, label string, h []formula.Wff) (formula.Wff, error) {
			if n := h[0].Len(); n != 1 {
				return formula.Wff{}, typing.Typingf(label, typing.MsgSingleToken, 1, n)
			}
			return shape.Forall2(b, h[0], h[1]), nil
		},
	},
	{
		Label:   "simpl",
		Kind:    KindRule,
		Sig:     sigWff1,
		Summary: `from ( phi /\ psi ) infer phi`,
		Body: func(b *builtins.Builtins, label string, h []formula.Wff) (formula.Wff, error) {
			sh, ok := shape.ParseAnd(b, h[0].Tokens)
			if !ok {
				return formula.Wff{}, typing.Shapef(label, typing.MsgExpectShape, patAnd)
			}
			return formula.New(formula.SortWff, sh.Left), nil
		},
	},
	{
		Label:   "simpr",
		Kind:    KindRule,
		Sig:     sigWff1,
		Summary: `from ( phi /\ psi ) infer psi`,
		Body: func(b *builtins.Builtins, label string, h []formula.Wff) (formula.Wff, error) {
			sh, ok := shape.ParseAnd(b, h[0].Tokens)
			if !ok {
				return formula.Wff{}, typing.Shapef(label, typing.MsgExpectShape, patAnd)
			}
			return formula.New(formula.SortWff, sh.Right), nil
		},
	},
}

func init() {
	Hilbert.MustRegister(hilbertDefs...)
}

// modusPonens checks the token shape of the major premise only. There is no
// unification: the minor premise must equal the antecedent token for token.
func modusPonens(b *builtins.Builtins, label string, h []formula.Wff) (formula.Wff, error) {
	minor, major := h[0], h[1]
	sh, ok := shape.ParseImp(b, major.Tokens)
	if !ok {
		return formula.Wff{}, typing.Shapef(label, typing.MsgExpectShape, patImp)
	}
	if !minor.Tokens.Equal(sh.Phi) {
		return formula.Wff{}, typing.Shapef(label, typing.MsgAntecedent)
	}
	return formula.New(formula.SortWff, sh.Psi), nil
}
