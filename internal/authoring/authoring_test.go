package authoring

import (
	"testing"

	"github.com/epistemic-frontier/metamath-prelude/internal/testutil"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/symbol"
	"github.com/epistemic-frontier/metamath-prelude/pkg/typing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ph = Var{Name: "ph"}
	ps = Var{Name: "ps"}
	ch = Var{Name: "ch"}
	x  = Var{Name: "x", Sort: formula.SortSetvar}
	y  = Var{Name: "y", Sort: formula.SortSetvar}
)

func newEnv(t *testing.T) (*testutil.Logic, Env) {
	t.Helper()
	l := testutil.NewLogic(t)
	return l, Env{Interner: l.In, Builtins: l.B, Origin: testutil.VarOrigin}
}

func TestLookupCtor(t *testing.T) {
	tests := []struct {
		name  string
		ident string
	}{
		{"Imp", "Imp"}, {"→", "Imp"}, {"->", "Imp"},
		{"¬", "Not"}, {"-.", "Not"},
		{`/\`, "And"}, {`\/`, "Or"}, {"<->", "Iff"},
		{"A.", "Forall"}, {"E.", "Exists"},
		{"=", "Eq"}, {"e.", "Elem"}, {"∈", "Elem"},
	}
	for _, tt := range tests {
		c, ok := LookupCtor(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.ident, c.Ident, tt.name)
	}
	_, ok := LookupCtor("Xor")
	assert.False(t, ok)

	for _, c := range Ctors {
		assert.Len(t, c.In, c.Arity, c.Ident)
		assert.NotNil(t, c.Build, c.Ident)
	}
}

func TestCompile(t *testing.T) {
	l, env := newEnv(t)

	tests := []struct {
		name     string
		expr     Expr
		wantSort formula.Sort
		want     string
	}{
		{"var", ph, formula.SortWff, "ph"},
		{"setvar", x, formula.SortSetvar, "x"},
		{"imp", Imp(ph, ps), formula.SortWff, "( ph -> ps )"},
		{"not", Not(ph), formula.SortWff, "-. ph"},
		{"and", And(ph, ps), formula.SortWff, `( ph /\ ps )`},
		{"or", Or(ph, ps), formula.SortWff, `( ph \/ ps )`},
		{"iff", Iff(ph, ps), formula.SortWff, "( ph <-> ps )"},
		{"forall", Forall(x, ph), formula.SortWff, "A. x ph"},
		{"exists", Exists(x, ph), formula.SortWff, "E. x ph"},
		{"eq", Eq(x, y), formula.SortWff, "x = y"},
		{"elem", Elem(x, y), formula.SortWff, "x e. y"},
		{"nested", Imp(Not(And(ph, ps)), Or(Not(ph), Not(ps))), formula.SortWff,
			`( -. ( ph /\ ps ) -> ( -. ph \/ -. ps ) )`},
		{"by alias", Apply("->", ph, Apply("A.", x, Apply("e.", x, y))), formula.SortWff,
			"( ph -> A. x x e. y )"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.expr, env)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSort, got.Sort)
			assert.Equal(t, tt.want, l.Text(got.Tokens))
		})
	}
}

func TestCompile_InternsVarsUnderOrigin(t *testing.T) {
	l, env := newEnv(t)
	got, err := Compile(Imp(ph, ph), env)
	require.NoError(t, err)

	phID := got.Tokens[1]
	assert.Equal(t, phID, got.Tokens[3], "same name, same id")
	sym, ok := l.In.Lookup(phID)
	require.True(t, ok)
	assert.Equal(t, testutil.VarOrigin, sym.Origin)
	assert.Equal(t, symbol.Var, sym.Kind)
}

func TestCompile_Errors(t *testing.T) {
	_, env := newEnv(t)

	tests := []struct {
		name     string
		expr     Expr
		sentinel error
		wantMsg  string
	}{
		{"unknown ctor", Apply("Xor", ph, ps), ErrUnknownCtor, "unknown constructor: Xor"},
		{"arity", Apply("Imp", ph), typing.ErrTyping, "ctor Imp: expects 2 args, got 1"},
		{"wff as binder", Forall(ph, ps), typing.ErrTyping,
			`ctor Forall: hypothesis 1: expected sort "setvar", got "wff"`},
		{"setvar as body", Not(x), typing.ErrTyping,
			`ctor Not: hypothesis 1: expected sort "wff", got "setvar"`},
		{"empty name", Not(Var{}), symbol.ErrEmptyName, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr, env)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			if tt.wantMsg != "" {
				assert.EqualError(t, err, tt.wantMsg)
			}
		})
	}

	_, err := Compile(nil, env)
	assert.Error(t, err)
}

func TestExprString(t *testing.T) {
	tests := []struct {
		expr Expr
		want string
	}{
		{Imp(ph, ps), "ph → ps"},
		{Imp(Imp(ph, ps), ch), "(ph → ps) → ch"},
		{Imp(ph, Imp(ps, ch)), "ph → ps → ch"},
		{And(And(ph, ps), ch), "ph ∧ ps ∧ ch"},
		{And(ph, And(ps, ch)), "ph ∧ (ps ∧ ch)"},
		{And(Or(ph, ps), ch), "(ph ∨ ps) ∧ ch"},
		{Or(And(ph, ps), ch), "ph ∧ ps ∨ ch"},
		{Iff(Iff(ph, ps), ch), "(ph ↔ ps) ↔ ch"},
		{Not(And(ph, ps)), "¬(ph ∧ ps)"},
		{Not(Not(ph)), "¬¬ph"},
		{Forall(x, Imp(ph, ps)), "∀x (ph → ps)"},
		{Imp(Forall(x, ph), ps), "(∀x ph) → ps"},
		{Eq(x, y), "x = y"},
		{Apply("Xor", ph, ps), "Xor(ph, ps)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.expr.String())
	}
}

func TestFormal(t *testing.T) {
	v, ok := Formal("ph")
	require.True(t, ok)
	assert.Equal(t, Var{Name: "ph", Sort: formula.SortWff}, v)

	v, ok = Formal("u")
	require.True(t, ok)
	assert.Equal(t, formula.SortSetvar, v.Sort)

	_, ok = Formal("q")
	assert.False(t, ok)
	assert.Len(t, WffVars, 12)
	assert.Len(t, SetvarVars, 6)
}
