package authoring

import (
	"errors"
	"fmt"

	"github.com/epistemic-frontier/metamath-prelude/pkg/builtins"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/symbol"
	"github.com/epistemic-frontier/metamath-prelude/pkg/typing"
)

// ErrUnknownCtor is returned when an App names no constructor.
var ErrUnknownCtor = errors.New("unknown constructor")

// Env is the compilation environment. Variables are interned as Var symbols
// under Origin.
type Env struct {
	Interner symbol.Interner
	Builtins *builtins.Builtins
	Origin   string
}

// Compile lowers expr to a sort-tagged token sequence.
func Compile(expr Expr, env Env) (formula.Wff, error) {
	switch e := expr.(type) {
	case Var:
		id, err := env.Interner.Intern(env.Origin, e.Name, symbol.Var, nil)
		if err != nil {
			return formula.Wff{}, fmt.Errorf("variable %q: %w", e.Name, err)
		}
		return formula.New(e.sort(), formula.Of(id)), nil

	case App:
		c, ok := LookupCtor(e.Ctor)
		if !ok {
			return formula.Wff{}, fmt.Errorf("%w: %s", ErrUnknownCtor, e.Ctor)
		}
		rule := "ctor " + c.Ident
		if err := typing.RequireArity(rule, c.Arity, len(e.Args)); err != nil {
			return formula.Wff{}, err
		}
		args := make([]formula.Wff, len(e.Args))
		for i, sub := range e.Args {
			w, err := Compile(sub, env)
			if err != nil {
				return formula.Wff{}, err
			}
			if err := typing.RequireSort(rule, i+1, w, c.In[i]); err != nil {
				return formula.Wff{}, err
			}
			args[i] = w
		}
		return c.Build(env.Builtins, args).Retag(c.Out), nil

	case nil:
		return formula.Wff{}, errors.New("compile: nil expression")
	default:
		return formula.Wff{}, fmt.Errorf("compile: unsupported expression %T", expr)
	}
}
