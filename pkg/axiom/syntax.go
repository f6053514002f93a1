package axiom

import (
	"github.com/epistemic-frontier/metamath-prelude/pkg/builtins"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/shape"
)

func unary(name string, f func(formula.Wff) formula.Wff) Schema {
	return Schema{Name: name, Arity: 1, Instantiate: func(args ...formula.Wff) formula.Wff {
		return f(args[0])
	}}
}

func binary(name string, f func(formula.Wff, formula.Wff) formula.Wff) Schema {
	return Schema{Name: name, Arity: 2, Instantiate: func(args ...formula.Wff) formula.Wff {
		return f(args[0], args[1])
	}}
}

// Syntax returns the syntax axioms of the prelude for b, in declaration order:
//
//	wn    wff -. ph
//	wimp  wff ( ph -> ps )
//	wa    wff ( ph /\ ps )
//	wo    wff ( ph \/ ps )
//	wb    wff ( ph <-> ps )
//	wal   wff A. x ph
//	wex   wff E. x ph
//	cv    class x
//	wceq  wff x = y
//	wel   wff x e. y
func Syntax(b *builtins.Builtins) Set {
	return Set{
		unary("wn", func(ph formula.Wff) formula.Wff { return shape.Not(b, ph) }),
		binary("wimp", func(ph, ps formula.Wff) formula.Wff { return shape.Imp(b, ph, ps) }),
		binary("wa", func(ph, ps formula.Wff) formula.Wff { return shape.And(b, ph, ps) }),
		binary("wo", func(ph, ps formula.Wff) formula.Wff { return shape.Or(b, ph, ps) }),
		binary("wb", func(ph, ps formula.Wff) formula.Wff { return shape.Iff(b, ph, ps) }),
		binary("wal", func(x, ph formula.Wff) formula.Wff { return shape.Forall2(b, x, ph) }),
		binary("wex", func(x, ph formula.Wff) formula.Wff { return shape.Exists2(b, x, ph) }),
		unary("cv", func(x formula.Wff) formula.Wff { return x.Retag(formula.SortClass) }),
		binary("wceq", func(x, y formula.Wff) formula.Wff { return shape.Eq(b, x, y) }),
		binary("wel", func(x, y formula.Wff) formula.Wff { return shape.Elem(b, x, y) }),
	}
}
