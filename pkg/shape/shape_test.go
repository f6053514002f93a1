package shape

import (
	"testing"

	"github.com/epistemic-frontier/metamath-prelude/internal/testutil"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImp(t *testing.T) {
	l := testutil.NewLogic(t)

	tests := []struct {
		name   string
		input  string
		phi    string
		psi    string
		wantOK bool
	}{
		{"simple", "( ph -> ps )", "ph", "ps", true},
		{"nested antecedent", "( ( ph -> ps ) -> ch )", "( ph -> ps )", "ch", true},
		{"negated operands", "( -. ph -> -. ps )", "-. ph", "-. ps", true},
		{"conjunction is not imp", "( ph /\\ ps )", "", "", false},
		{"bare atom", "ph", "", "", false},
		{"trailing", "( ph -> ps ) ph", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseImp(l.B, l.Seq(t, tt.input))
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, ImpShape{}, got)
				return
			}
			assert.Equal(t, tt.phi, l.Text(got.Phi))
			assert.Equal(t, tt.psi, l.Text(got.Psi))
		})
	}
}

func TestParseNeg(t *testing.T) {
	l := testutil.NewLogic(t)

	tests := []struct {
		name   string
		input  string
		body   string
		wantOK bool
	}{
		{"atom", "-. ph", "ph", true},
		{"group", "-. ( ph -> ps )", "( ph -> ps )", true},
		{"double", "-. -. ph", "-. ph", true},
		{"binder body", "-. A. x ph", "A. x ph", true},
		{"alone", "-.", "", false},
		{"no neg", "ph ps", "", false},
		{"stray close", "-. ph )", "", false},
		{"unclosed", "-. ( ph", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNeg(l.B, l.Seq(t, tt.input))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.body, l.Text(got.Body))
			}
		})
	}
}

func TestParseBinaryConnectives(t *testing.T) {
	l := testutil.NewLogic(t)

	and, ok := ParseAnd(l.B, l.Seq(t, "( ( ph -> ps ) /\\ ch )"))
	require.True(t, ok)
	assert.Equal(t, "( ph -> ps )", l.Text(and.Left), "inner -> must not be taken for /\\")
	assert.Equal(t, "ch", l.Text(and.Right))

	or, ok := ParseOr(l.B, l.Seq(t, "( ph \\/ -. ph )"))
	require.True(t, ok)
	assert.Equal(t, "ph", l.Text(or.Left))
	assert.Equal(t, "-. ph", l.Text(or.Right))

	iff, ok := ParseIff(l.B, l.Seq(t, "( ph <-> ( ps /\\ ch ) )"))
	require.True(t, ok)
	assert.Equal(t, "( ps /\\ ch )", l.Text(iff.Right))

	_, ok = ParseAnd(l.B, l.Seq(t, "( ph -> ps )"))
	assert.False(t, ok)
}

func TestParseBinders(t *testing.T) {
	l := testutil.NewLogic(t)

	fa, ok := ParseForall2(l.B, l.Seq(t, "A. x ( x = y )"))
	require.True(t, ok)
	assert.Equal(t, l.ID(t, "x"), fa.Var)
	assert.Equal(t, "( x = y )", l.Text(fa.Body))

	ex, ok := ParseExists2(l.B, l.Seq(t, "E. y ph"))
	require.True(t, ok)
	assert.Equal(t, l.ID(t, "y"), ex.Var)
	assert.Equal(t, "ph", l.Text(ex.Body))

	for _, input := range []string{"A. x", "A.", "E. x ph", "A. x ph ) ", "A. x ( ph"} {
		_, ok := ParseForall2(l.B, l.Seq(t, input))
		assert.False(t, ok, "ParseForall2(%q)", input)
	}
}

func TestRoundTrip(t *testing.T) {
	l := testutil.NewLogic(t)
	operands := []string{"ph", "-. ps", "( ph -> ps )", "( ch /\\ ( th \\/ ta ) )", "A. x ph"}

	for _, a := range operands {
		for _, c := range operands {
			A, C := l.Wff(t, a), l.Wff(t, c)

			imp, ok := ParseImp(l.B, Imp(l.B, A, C).Tokens)
			require.True(t, ok)
			if diff := cmp.Diff(ImpShape{Phi: A.Tokens, Psi: C.Tokens}, imp); diff != "" {
				t.Errorf("ParseImp(Imp(%q, %q)) mismatch (-want +got):\n%s", a, c, diff)
			}

			and, ok := ParseAnd(l.B, And(l.B, A, C).Tokens)
			require.True(t, ok)
			if diff := cmp.Diff(AndShape{Left: A.Tokens, Right: C.Tokens}, and); diff != "" {
				t.Errorf("ParseAnd mismatch (-want +got):\n%s", diff)
			}

			or, ok := ParseOr(l.B, Or(l.B, A, C).Tokens)
			require.True(t, ok)
			assert.Equal(t, OrShape{Left: A.Tokens, Right: C.Tokens}, or)

			iff, ok := ParseIff(l.B, Iff(l.B, A, C).Tokens)
			require.True(t, ok)
			assert.Equal(t, IffShape{Left: A.Tokens, Right: C.Tokens}, iff)
		}

		neg, ok := ParseNeg(l.B, Not(l.B, l.Wff(t, a)).Tokens)
		require.True(t, ok)
		assert.Equal(t, NegShape{Body: l.Seq(t, a)}, neg)

		x := l.Wff(t, "x")
		fa, ok := ParseForall2(l.B, Forall2(l.B, x, l.Wff(t, a)).Tokens)
		require.True(t, ok)
		assert.Equal(t, Forall2Shape{Var: l.ID(t, "x"), Body: l.Seq(t, a)}, fa)

		ex, ok := ParseExists2(l.B, Exists2(l.B, x, l.Wff(t, a)).Tokens)
		require.True(t, ok)
		assert.Equal(t, Exists2Shape{Var: l.ID(t, "x"), Body: l.Seq(t, a)}, ex)
	}
}

func TestShapesOwnStorage(t *testing.T) {
	l := testutil.NewLogic(t)
	toks := l.Seq(t, "( ph -> ps )")

	got, ok := ParseImp(l.B, toks)
	require.True(t, ok)
	toks[1] = l.ID(t, "ch")

	assert.Equal(t, "ph", l.Text(got.Phi), "shape must not alias its input")
}

func TestConstructors(t *testing.T) {
	l := testutil.NewLogic(t)
	ph, ps, x, y := l.Wff(t, "ph"), l.Wff(t, "ps"), l.Wff(t, "x"), l.Wff(t, "y")

	tests := []struct {
		name string
		got  formula.Wff
		want string
	}{
		{"atom", Atom(l.ID(t, "ph")), "ph"},
		{"imp", Imp(l.B, ph, ps), "( ph -> ps )"},
		{"not", Not(l.B, ph), "-. ph"},
		{"and", And(l.B, ph, ps), "( ph /\\ ps )"},
		{"or", Or(l.B, ph, ps), "( ph \\/ ps )"},
		{"iff", Iff(l.B, ph, ps), "( ph <-> ps )"},
		{"forall", Forall2(l.B, x, ph), "A. x ph"},
		{"exists", Exists2(l.B, x, ph), "E. x ph"},
		{"eq", Eq(l.B, x, y), "x = y"},
		{"elem", Elem(l.B, x, y), "x e. y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, formula.SortWff, tt.got.Sort)
			assert.Equal(t, tt.want, l.Text(tt.got.Tokens))
		})
	}
}

func TestClassify(t *testing.T) {
	l := testutil.NewLogic(t)

	tests := []struct {
		input string
		want  Form
	}{
		{"ph", FormAtom},
		{"->", FormUnknown},
		{"( ph -> ps )", FormImp},
		{"-. ph", FormNeg},
		{"( ph /\\ ps )", FormAnd},
		{"( ph \\/ ps )", FormOr},
		{"( ph <-> ps )", FormIff},
		{"A. x ph", FormForall},
		{"E. x ph", FormExists},
		{"x = y", FormUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(l.B, l.Seq(t, tt.input)))
		})
	}
	assert.Equal(t, "( phi -> psi )", FormImp.String())
}
