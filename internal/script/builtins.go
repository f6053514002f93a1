package script

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/epistemic-frontier/metamath-prelude/internal/authoring"
	"github.com/epistemic-frontier/metamath-prelude/internal/mmdb"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

type builtinFn = func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error)

// Predeclared returns the globals visible to a build script running in s.
func Predeclared(s *mmdb.Session, logger *slog.Logger) starlark.StringDict {
	g := starlark.StringDict{
		"module": starlarkstruct.FromStringDict(starlark.String("module"), starlark.StringDict{
			"origin":          starlark.String(s.Origin()),
			"builtins_origin": starlark.String(s.Builtins().Origin()),
		}),
	}

	for _, name := range authoring.WffVars {
		g[name] = &Expr{expr: authoring.Var{Name: name, Sort: formula.SortWff}}
	}
	for _, name := range authoring.SetvarVars {
		g[name] = &Expr{expr: authoring.Var{Name: name, Sort: formula.SortSetvar}}
	}
	for i := range authoring.Ctors {
		c := &authoring.Ctors[i]
		g[c.Ident] = starlark.NewBuiltin(c.Ident, ctorBuiltin(c))
	}

	b := &binder{s: s, logger: logger}
	for name, fn := range map[string]builtinFn{
		"c":       b.constant,
		"v":       b.variable,
		"f":       b.float,
		"a":       b.axiom,
		"export":  b.export,
		"prelude": b.prelude,
		"var":     b.newVar,
		"compile": b.compile,
		"parse":   b.parse,
		"rule":    b.rule,
		"schema":  b.schema,
		"theorem": b.theorem,
		"let":     b.let,
		"get":     b.get,
	} {
		g[name] = starlark.NewBuiltin(name, fn)
	}
	return g
}

func ctorBuiltin(c *authoring.Ctor) builtinFn {
	return func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: unexpected keyword arguments", fn.Name())
		}
		if len(args) != c.Arity {
			return nil, fmt.Errorf("%s: expects %d args, got %d", fn.Name(), c.Arity, len(args))
		}
		sub := make([]authoring.Expr, len(args))
		for i, a := range args {
			e, err := toExpr(fn.Name(), i, a)
			if err != nil {
				return nil, err
			}
			sub[i] = e
		}
		return &Expr{expr: authoring.Apply(c.Ident, sub...)}, nil
	}
}

type binder struct {
	s      *mmdb.Session
	logger *slog.Logger
}

func (b *binder) constant(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	names, err := stringArgs(fn.Name(), args)
	if err != nil {
		return nil, err
	}
	return starlark.None, b.s.DB().Const(names...)
}

func (b *binder) variable(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	names, err := stringArgs(fn.Name(), args)
	if err != nil {
		return nil, err
	}
	return starlark.None, b.s.DB().Var(names...)
}

func (b *binder) float(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var label, typecode, v string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "label", &label, "typecode", &typecode, "var", &v); err != nil {
		return nil, err
	}
	return starlark.None, b.s.DB().Float(label, typecode, v)
}

// axiom accepts an expr, a formula, a math string, or a list of symbols.
func (b *binder) axiom(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var label, typecode string
	var body starlark.Value
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "label", &label, "typecode", &typecode, "body", &body); err != nil {
		return nil, err
	}

	var syms []string
	switch x := body.(type) {
	case *starlark.List:
		for i := 0; i < x.Len(); i++ {
			s, ok := starlark.AsString(x.Index(i))
			if !ok {
				return nil, fmt.Errorf("%s: body[%d]: want string, got %s", fn.Name(), i, x.Index(i).Type())
			}
			syms = append(syms, s)
		}
	case starlark.String:
		syms = strings.Fields(string(x))
	default:
		w, err := toWff(b.s, fn.Name(), 2, body)
		if err != nil {
			return nil, err
		}
		syms, err = mmdb.Symbols(b.s.Interner(), w.Tokens)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
	}
	if err := b.s.DB().Axiom(label, typecode, syms); err != nil {
		return nil, err
	}
	b.logger.Debug("axiom", "label", label, "typecode", typecode, "body", strings.Join(syms, " "))
	return starlark.None, nil
}

func (b *binder) export(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	names, err := stringArgs(fn.Name(), args)
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		if err := b.s.DB().Export(n); err != nil {
			return nil, err
		}
	}
	return starlark.None, nil
}

func (b *binder) prelude(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.None, b.s.LoadPrelude()
}

func (b *binder) newVar(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	sort := string(formula.SortWff)
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "sort?", &sort); err != nil {
		return nil, err
	}
	so, ok := formula.ParseSort(sort)
	if !ok {
		return nil, fmt.Errorf("%s: unknown sort %q", fn.Name(), sort)
	}
	return &Expr{expr: authoring.Var{Name: name, Sort: so}}, nil
}

func (b *binder) compile(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &v); err != nil {
		return nil, err
	}
	e, err := toExpr(fn.Name(), 0, v)
	if err != nil {
		return nil, err
	}
	w, err := b.s.Compile(e)
	if err != nil {
		return nil, err
	}
	return &Formula{w: w, s: b.s}, nil
}

func (b *binder) parse(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	sort := string(formula.SortWff)
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "text", &text, "sort?", &sort); err != nil {
		return nil, err
	}
	so, ok := formula.ParseSort(sort)
	if !ok {
		return nil, fmt.Errorf("%s: unknown sort %q", fn.Name(), sort)
	}
	w, err := b.s.Parse(text, so)
	if err != nil {
		return nil, err
	}
	return &Formula{w: w, s: b.s}, nil
}

func (b *binder) hyps(fn string, args starlark.Tuple) ([]formula.Wff, error) {
	out := make([]formula.Wff, len(args))
	for i, a := range args {
		w, err := toWff(b.s, fn, i, a)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

// rule(label, *hyps) applies a bound rule.
func (b *binder) rule(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 || len(args) == 0 {
		return nil, fmt.Errorf("%s: want rule(label, *hyps)", fn.Name())
	}
	label, ok := starlark.AsString(args[0])
	if !ok {
		return nil, fmt.Errorf("%s: label must be a string, got %s", fn.Name(), args[0].Type())
	}
	hyps, err := b.hyps(fn.Name(), args[1:])
	if err != nil {
		return nil, err
	}
	w, err := b.s.Apply(label, hyps...)
	if err != nil {
		return nil, err
	}
	return &Formula{w: w, s: b.s}, nil
}

// schema(name, *args) instantiates a syntax axiom schema.
func (b *binder) schema(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 || len(args) == 0 {
		return nil, fmt.Errorf("%s: want schema(name, *args)", fn.Name())
	}
	name, ok := starlark.AsString(args[0])
	if !ok {
		return nil, fmt.Errorf("%s: name must be a string, got %s", fn.Name(), args[0].Type())
	}
	in, err := b.hyps(fn.Name(), args[1:])
	if err != nil {
		return nil, err
	}
	w, err := b.s.Instantiate(name, in...)
	if err != nil {
		return nil, err
	}
	return &Formula{w: w, s: b.s}, nil
}

func (b *binder) theorem(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var label string
	var body starlark.Value
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "label", &label, "body", &body); err != nil {
		return nil, err
	}
	w, err := toWff(b.s, fn.Name(), 1, body)
	if err != nil {
		return nil, err
	}
	if err := b.s.Theorem(label, w); err != nil {
		return nil, err
	}
	b.logger.Debug("theorem", "label", label, "body", b.s.Render(w))
	return &Formula{w: w, s: b.s}, nil
}

func (b *binder) let(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var body starlark.Value
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "body", &body); err != nil {
		return nil, err
	}
	w, err := toWff(b.s, fn.Name(), 1, body)
	if err != nil {
		return nil, err
	}
	if err := b.s.Let(name, w); err != nil {
		return nil, err
	}
	return &Formula{w: w, s: b.s}, nil
}

func (b *binder) get(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	w, err := b.s.Lookup(name)
	if err != nil {
		return nil, err
	}
	return &Formula{w: w, s: b.s}, nil
}
