// Package script runs Starlark build scripts that author a Metamath module.
//
// Each script executes in its own mmdb.Session. The predeclared environment
// mirrors the database builder (c, v, f, a, export) and the authoring
// constructors (Imp, Not, And, ...), plus rule and schema application.
package script

import (
	"fmt"

	"github.com/epistemic-frontier/metamath-prelude/internal/authoring"
	"github.com/epistemic-frontier/metamath-prelude/internal/mmdb"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"go.starlark.net/starlark"
)

// Expr is an uncompiled authoring expression.
type Expr struct {
	expr authoring.Expr
}

var _ starlark.HasAttrs = (*Expr)(nil)

func (e *Expr) String() string        { return e.expr.String() }
func (e *Expr) Type() string          { return "expr" }
func (e *Expr) Freeze()               {}
func (e *Expr) Truth() starlark.Bool  { return starlark.True }
func (e *Expr) Hash() (uint32, error) { return starlark.String(e.expr.String()).Hash() }

func (e *Expr) Attr(name string) (starlark.Value, error) {
	switch name {
	case "ctor":
		if app, ok := e.expr.(authoring.App); ok {
			return starlark.String(app.Ctor), nil
		}
		return starlark.None, nil
	case "sort":
		if v, ok := e.expr.(authoring.Var); ok && v.Sort != "" {
			return starlark.String(v.Sort), nil
		}
		return starlark.String(formula.SortWff), nil
	}
	return nil, nil
}

func (e *Expr) AttrNames() []string { return []string{"ctor", "sort"} }

// Formula is a compiled formula bound to the session that produced it.
type Formula struct {
	w formula.Wff
	s *mmdb.Session
}

var _ starlark.HasAttrs = (*Formula)(nil)

func (f *Formula) String() string       { return f.s.Render(f.w) }
func (f *Formula) Type() string         { return "formula" }
func (f *Formula) Freeze()              {}
func (f *Formula) Truth() starlark.Bool { return starlark.True }

func (f *Formula) Hash() (uint32, error) {
	return starlark.String(string(f.w.Sort) + " " + f.String()).Hash()
}

func (f *Formula) Attr(name string) (starlark.Value, error) {
	switch name {
	case "sort":
		return starlark.String(f.w.Sort), nil
	case "symbols":
		names := formula.Names(f.s.Interner(), f.w.Tokens)
		vals := make([]starlark.Value, len(names))
		for i, n := range names {
			vals[i] = starlark.String(n)
		}
		return starlark.NewList(vals), nil
	case "len":
		return starlark.MakeInt(f.w.Len()), nil
	}
	return nil, nil
}

func (f *Formula) AttrNames() []string { return []string{"len", "sort", "symbols"} }

// Wff returns the underlying formula.
func (f *Formula) Wff() formula.Wff { return f.w }

// toWff accepts a Formula or an Expr; expressions are compiled in s.
func toWff(s *mmdb.Session, fn string, i int, v starlark.Value) (formula.Wff, error) {
	switch x := v.(type) {
	case *Formula:
		if x.s != s {
			return formula.Wff{}, fmt.Errorf("%s: argument %d belongs to another session", fn, i+1)
		}
		return x.w, nil
	case *Expr:
		w, err := s.Compile(x.expr)
		if err != nil {
			return formula.Wff{}, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		return w, nil
	case starlark.String:
		w, err := s.Parse(string(x), formula.SortWff)
		if err != nil {
			return formula.Wff{}, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		return w, nil
	}
	return formula.Wff{}, fmt.Errorf("%s: argument %d: want formula, expr or string, got %s", fn, i+1, v.Type())
}

func toExpr(fn string, i int, v starlark.Value) (authoring.Expr, error) {
	e, ok := v.(*Expr)
	if !ok {
		return nil, fmt.Errorf("%s: argument %d: want expr, got %s", fn, i+1, v.Type())
	}
	return e.expr, nil
}

func stringArgs(fn string, args starlark.Tuple) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		s, ok := starlark.AsString(a)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d: want string, got %s", fn, i+1, a.Type())
		}
		out[i] = s
	}
	return out, nil
}
