package shape

import (
	"github.com/epistemic-frontier/metamath-prelude/pkg/builtins"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/symbol"
)

func wff(parts ...formula.Seq) formula.Wff {
	return formula.Wff{Sort: formula.SortWff, Tokens: formula.Concat(parts...)}
}

func tok(id symbol.ID) formula.Seq {
	return formula.Seq{id}
}

// Atom builds an atomic wff from a single symbol.
func Atom(sym symbol.ID) formula.Wff {
	return wff(tok(sym))
}

// Imp builds ( phi -> psi ).
func Imp(b *builtins.Builtins, phi, psi formula.Wff) formula.Wff {
	return wff(tok(b.LP), phi.Tokens, tok(b.Imp), psi.Tokens, tok(b.RP))
}

// Not builds -. phi.
func Not(b *builtins.Builtins, phi formula.Wff) formula.Wff {
	return wff(tok(b.Neg), phi.Tokens)
}

// And builds ( phi /\ psi ).
func And(b *builtins.Builtins, phi, psi formula.Wff) formula.Wff {
	return wff(tok(b.LP), phi.Tokens, tok(b.And), psi.Tokens, tok(b.RP))
}

// Or builds ( phi \/ psi ).
func Or(b *builtins.Builtins, phi, psi formula.Wff) formula.Wff {
	return wff(tok(b.LP), phi.Tokens, tok(b.Or), psi.Tokens, tok(b.RP))
}

// Iff builds ( phi <-> psi ).
func Iff(b *builtins.Builtins, phi, psi formula.Wff) formula.Wff {
	return wff(tok(b.LP), phi.Tokens, tok(b.Iff), psi.Tokens, tok(b.RP))
}

// Forall2 builds A. x phi with an explicit variable formula.
func Forall2(b *builtins.Builtins, x, phi formula.Wff) formula.Wff {
	return wff(tok(b.Forall), x.Tokens, phi.Tokens)
}

// Exists2 builds E. x phi.
func Exists2(b *builtins.Builtins, x, phi formula.Wff) formula.Wff {
	return wff(tok(b.Exists), x.Tokens, phi.Tokens)
}

// Eq builds x = y.
func Eq(b *builtins.Builtins, x, y formula.Wff) formula.Wff {
	return wff(x.Tokens, tok(b.Eq), y.Tokens)
}

// Elem builds x e. y.
func Elem(b *builtins.Builtins, x, y formula.Wff) formula.Wff {
	return wff(x.Tokens, tok(b.Elem), y.Tokens)
}
