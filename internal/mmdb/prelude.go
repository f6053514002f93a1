package mmdb

import (
	"fmt"

	"github.com/epistemic-frontier/metamath-prelude/internal/authoring"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
)

// Typecodes declared by the prelude.
const (
	TypeWff      = "wff"
	TypeSetvar   = "setvar"
	TypeClass    = "class"
	TypeProvable = "|-"
)

// Constant groups in declaration order.
var (
	PreLogicConsts = []string{"(", ")", "->", "-.", TypeWff, TypeProvable}
	LogicConsts    = []string{`/\`, `\/`, "<->", "A.", "E.", "=", "e.", TypeSetvar, TypeClass}
)

// SyntaxAxiom is a grammar axiom written as an authoring expression.
type SyntaxAxiom struct {
	Label    string
	Typecode string
	Expr     authoring.Expr
}

var (
	ph = authoring.Var{Name: "ph", Sort: formula.SortWff}
	ps = authoring.Var{Name: "ps", Sort: formula.SortWff}
	vx = authoring.Var{Name: "x", Sort: formula.SortSetvar}
	vy = authoring.Var{Name: "y", Sort: formula.SortSetvar}
)

// SyntaxAxioms lists the prelude grammar in declaration order.
var SyntaxAxioms = []SyntaxAxiom{
	{"wn", TypeWff, authoring.Not(ph)},
	{"wimp", TypeWff, authoring.Imp(ph, ps)},
	{"wa", TypeWff, authoring.And(ph, ps)},
	{"wo", TypeWff, authoring.Or(ph, ps)},
	{"wb", TypeWff, authoring.Iff(ph, ps)},
	{"wal", TypeWff, authoring.Forall(vx, ph)},
	{"wex", TypeWff, authoring.Exists(vx, ph)},
	{"cv", TypeClass, vx},
	{"wceq", TypeWff, authoring.Eq(vx, vy)},
	{"wel", TypeWff, authoring.Elem(vx, vy)},
}

// FloatLabel returns the $f label for a formal variable: "w<name>" for wff
// variables and "v<name>" for setvar variables.
func FloatLabel(sort formula.Sort, name string) string {
	if sort == formula.SortSetvar {
		return "v" + name
	}
	return "w" + name
}

// Prelude declares the prelude in db: constants, formal variables, their
// floating hypotheses and the syntax axioms. Syntax axiom bodies are compiled
// in env and resolved back to names through its interner. Nothing is
// exported; see ExportPrelude.
func Prelude(db *DB, env authoring.Env) error {
	if err := db.Const(PreLogicConsts...); err != nil {
		return err
	}
	if err := db.Const(LogicConsts...); err != nil {
		return err
	}
	if err := db.Var(authoring.WffVars...); err != nil {
		return err
	}
	if err := db.Var(authoring.SetvarVars...); err != nil {
		return err
	}

	for _, v := range authoring.WffVars {
		if err := db.Float(FloatLabel(formula.SortWff, v), TypeWff, v); err != nil {
			return err
		}
	}
	for _, v := range authoring.SetvarVars {
		if err := db.Float(FloatLabel(formula.SortSetvar, v), TypeSetvar, v); err != nil {
			return err
		}
	}

	for _, ax := range SyntaxAxioms {
		w, err := authoring.Compile(ax.Expr, env)
		if err != nil {
			return fmt.Errorf("syntax axiom %s: %w", ax.Label, err)
		}
		if err := db.AxiomWff(env.Interner, ax.Label, ax.Typecode, w); err != nil {
			return err
		}
	}
	return nil
}

// PreludeNames lists the names the prelude module exports, in declaration
// order: constants, variables, floats, then syntax axioms.
func PreludeNames() []string {
	vars := len(authoring.WffVars) + len(authoring.SetvarVars)
	names := make([]string, 0, len(PreLogicConsts)+len(LogicConsts)+2*vars+len(SyntaxAxioms))
	names = append(names, PreLogicConsts...)
	names = append(names, LogicConsts...)
	names = append(names, authoring.WffVars...)
	names = append(names, authoring.SetvarVars...)
	for _, v := range authoring.WffVars {
		names = append(names, FloatLabel(formula.SortWff, v))
	}
	for _, v := range authoring.SetvarVars {
		names = append(names, FloatLabel(formula.SortSetvar, v))
	}
	for _, ax := range SyntaxAxioms {
		names = append(names, ax.Label)
	}
	return names
}

// ExportPrelude adds every prelude name to the export list of db. Only the
// builtin prelude module publishes them; script modules that call prelude()
// export just what they name.
func ExportPrelude(db *DB) error {
	for _, n := range PreludeNames() {
		if err := db.Export(n); err != nil {
			return err
		}
	}
	return nil
}
