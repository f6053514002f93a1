package authoring

import (
	"strings"

	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
)

// Expr is an authoring expression: a Var or an App.
type Expr interface {
	String() string
	precedence() int
}

// Var is a formal variable. An empty Sort means wff.
type Var struct {
	Name string
	Sort formula.Sort
}

func (v Var) String() string { return v.Name }

func (v Var) precedence() int { return precedenceVar }

func (v Var) sort() formula.Sort {
	if v.Sort == "" {
		return formula.SortWff
	}
	return v.Sort
}

// App applies a constructor, named by identifier, symbol or alias.
type App struct {
	Ctor string
	Args []Expr
}

func (a App) precedence() int {
	if c, ok := LookupCtor(a.Ctor); ok {
		return c.Precedence
	}
	return precedenceVar
}

// String renders the expression in infix notation with the fewest
// parentheses the precedence table allows.
func (a App) String() string {
	c, ok := LookupCtor(a.Ctor)
	if !ok || len(a.Args) != c.Arity {
		args := make([]string, len(a.Args))
		for i, e := range a.Args {
			args[i] = e.String()
		}
		return a.Ctor + "(" + strings.Join(args, ", ") + ")"
	}

	switch {
	case c.Binder:
		return c.Name + a.Args[0].String() + " " + wrap(a.Args[1], a.Args[1].precedence() < PrecedenceNot)
	case c.Arity == 1:
		return c.Name + wrap(a.Args[0], a.Args[0].precedence() < c.Precedence)
	default:
		left, right := a.Args[0], a.Args[1]
		lp, rp := left.precedence(), right.precedence()
		parenL := lp < c.Precedence || (lp == c.Precedence && c.Assoc != AssocLeft)
		parenR := rp < c.Precedence || (rp == c.Precedence && c.Assoc != AssocRight)
		return wrap(left, parenL) + " " + c.Name + " " + wrap(right, parenR)
	}
}

func wrap(e Expr, paren bool) string {
	if paren {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// Apply builds an App.
func Apply(ctor string, args ...Expr) App {
	return App{Ctor: ctor, Args: args}
}

// Imp builds Imp(a, b).
func Imp(a, b Expr) App { return Apply("Imp", a, b) }

// Not builds Not(a).
func Not(a Expr) App { return Apply("Not", a) }

// And builds And(a, b).
func And(a, b Expr) App { return Apply("And", a, b) }

// Or builds Or(a, b).
func Or(a, b Expr) App { return Apply("Or", a, b) }

// Iff builds Iff(a, b).
func Iff(a, b Expr) App { return Apply("Iff", a, b) }

// Forall builds Forall(x, body).
func Forall(x, body Expr) App { return Apply("Forall", x, body) }

// Exists builds Exists(x, body).
func Exists(x, body Expr) App { return Apply("Exists", x, body) }

// Eq builds Eq(a, b).
func Eq(a, b Expr) App { return Apply("Eq", a, b) }

// Elem builds Elem(a, b).
func Elem(a, b Expr) App { return Apply("Elem", a, b) }
