// Package authoring compiles author-level formula expressions into token
// sequences.
//
// Authors write expressions over formal variables and the constructor table
// (Imp, Not, And, ...). Compile resolves every variable to an interned Var
// symbol and every constructor to its builtin token layout.
package authoring

import (
	"github.com/epistemic-frontier/metamath-prelude/pkg/builtins"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/shape"
)

// Assoc is the associativity of an infix constructor.
type Assoc string

// Associativity values.
const (
	AssocNone  Assoc = "none"
	AssocLeft  Assoc = "left"
	AssocRight Assoc = "right"
)

// Precedence levels, loosest first.
const (
	PrecedenceBinder = 5
	PrecedenceIff    = 10
	PrecedenceImp    = 10
	PrecedenceOr     = 20
	PrecedenceAnd    = 30
	PrecedenceNot    = 40
	PrecedenceAtomic = 50
	precedenceVar    = 100
)

// Builder lays out the tokens of a constructor application.
type Builder func(b *builtins.Builtins, args []formula.Wff) formula.Wff

// Ctor is an author-visible constructor.
type Ctor struct {
	Ident      string // Go/script identifier, e.g. "Imp"
	Name       string // display symbol, e.g. "→"
	Arity      int
	In         []formula.Sort
	Out        formula.Sort
	Notes      string
	Precedence int
	Assoc      Assoc
	Binder     bool
	Aliases    []string
	Build      Builder
}

func bin(f func(*builtins.Builtins, formula.Wff, formula.Wff) formula.Wff) Builder {
	return func(b *builtins.Builtins, args []formula.Wff) formula.Wff {
		return f(b, args[0], args[1])
	}
}

var (
	wff2    = []formula.Sort{formula.SortWff, formula.SortWff}
	bound   = []formula.Sort{formula.SortSetvar, formula.SortWff}
	setvar2 = []formula.Sort{formula.SortSetvar, formula.SortSetvar}
)

// Ctors is the constructor table in declaration order.
var Ctors = []Ctor{
	{
		Ident: "Imp", Name: "→", Arity: 2, In: wff2, Out: formula.SortWff,
		Notes: "implication", Precedence: PrecedenceImp, Assoc: AssocRight,
		Aliases: []string{"->"}, Build: bin(shape.Imp),
	},
	{
		Ident: "Not", Name: "¬", Arity: 1, In: []formula.Sort{formula.SortWff}, Out: formula.SortWff,
		Notes: "negation", Precedence: PrecedenceNot,
		Aliases: []string{"-."},
		Build: func(b *builtins.Builtins, args []formula.Wff) formula.Wff {
			return shape.Not(b, args[0])
		},
	},
	{
		Ident: "And", Name: "∧", Arity: 2, In: wff2, Out: formula.SortWff,
		Notes: "conjunction", Precedence: PrecedenceAnd, Assoc: AssocLeft,
		Aliases: []string{`/\`}, Build: bin(shape.And),
	},
	{
		Ident: "Or", Name: "∨", Arity: 2, In: wff2, Out: formula.SortWff,
		Notes: "disjunction", Precedence: PrecedenceOr, Assoc: AssocLeft,
		Aliases: []string{`\/`}, Build: bin(shape.Or),
	},
	{
		Ident: "Iff", Name: "↔", Arity: 2, In: wff2, Out: formula.SortWff,
		Notes: "biconditional", Precedence: PrecedenceIff, Assoc: AssocNone,
		Aliases: []string{"<->"}, Build: bin(shape.Iff),
	},
	{
		Ident: "Forall", Name: "∀", Arity: 2, In: bound, Out: formula.SortWff,
		Notes: "universal quantification", Precedence: PrecedenceBinder, Binder: true,
		Aliases: []string{"A."}, Build: bin(shape.Forall2),
	},
	{
		Ident: "Exists", Name: "∃", Arity: 2, In: bound, Out: formula.SortWff,
		Notes: "existential quantification", Precedence: PrecedenceBinder, Binder: true,
		Aliases: []string{"E."}, Build: bin(shape.Exists2),
	},
	{
		Ident: "Eq", Name: "=", Arity: 2, In: setvar2, Out: formula.SortWff,
		Notes: "equality", Precedence: PrecedenceAtomic, Assoc: AssocNone,
		Build: bin(shape.Eq),
	},
	{
		Ident: "Elem", Name: "∈", Arity: 2, In: setvar2, Out: formula.SortWff,
		Notes: "membership", Precedence: PrecedenceAtomic, Assoc: AssocNone,
		Aliases: []string{"e."}, Build: bin(shape.Elem),
	},
}

var ctorIndex = func() map[string]*Ctor {
	idx := make(map[string]*Ctor)
	for i := range Ctors {
		c := &Ctors[i]
		idx[c.Ident] = c
		idx[c.Name] = c
		for _, a := range c.Aliases {
			idx[a] = c
		}
	}
	return idx
}()

// LookupCtor finds a constructor by identifier, display symbol or alias.
func LookupCtor(name string) (*Ctor, bool) {
	c, ok := ctorIndex[name]
	return c, ok
}

// Formal variable names in declaration order.
var (
	WffVars    = []string{"ph", "ps", "ch", "th", "ta", "et", "ze", "si", "rh", "mu", "la", "ka"}
	SetvarVars = []string{"x", "y", "z", "w", "v", "u"}
)

// Formal returns the formal variable with the given name and its standard
// sort.
func Formal(name string) (Var, bool) {
	for _, n := range WffVars {
		if n == name {
			return Var{Name: name, Sort: formula.SortWff}, true
		}
	}
	for _, n := range SetvarVars {
		if n == name {
			return Var{Name: name, Sort: formula.SortSetvar}, true
		}
	}
	return Var{}, false
}
