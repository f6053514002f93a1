package match

import (
	"testing"

	"github.com/epistemic-frontier/metamath-prelude/internal/testutil"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClass(t *testing.T) {
	l := testutil.NewLogic(t)
	s := NewStream(l.B, l.Seq(t, "( ph -> ps )"))

	want := []Class{Open, Symbol, Symbol, Symbol, Close, EOF, EOF}
	for i, c := range want {
		assert.Equal(t, c, s.Class(i), "position %d", i)
	}
	assert.Equal(t, EOF, s.Class(-1))
	assert.Equal(t, "SYM", Symbol.String())
	assert.Equal(t, "unknown", Class(9).String())
}

func TestAtom(t *testing.T) {
	l := testutil.NewLogic(t)
	s := NewStream(l.B, l.Seq(t, "ph ( )"))

	frag, next, ok := s.Atom(0)
	require.True(t, ok)
	assert.Equal(t, "ph", l.Text(frag))
	assert.Equal(t, 1, next)

	for _, pos := range []int{1, 2, 3} {
		_, next, ok := s.Atom(pos)
		assert.False(t, ok, "Atom at %d", pos)
		assert.Equal(t, pos, next, "failure must not advance")
	}
}

func TestGroup(t *testing.T) {
	l := testutil.NewLogic(t)

	tests := []struct {
		name     string
		input    string
		wantFrag string
		wantNext int
		wantOK   bool
	}{
		{"simple", "( ph )", "( ph )", 3, true},
		{"empty", "( )", "( )", 2, true},
		{"nested", "( ( ph -> ps ) /\\ ch ) tail", "( ( ph -> ps ) /\\ ch )", 9, true},
		{"unclosed", "( ph", "", 0, false},
		{"unclosed inner", "( ( ph )", "", 0, false},
		{"not a group", "ph ( )", "", 0, false},
		{"close first", ") (", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStream(l.B, l.Seq(t, tt.input))
			frag, next, ok := s.Group(0)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantNext, next)
			if tt.wantOK {
				assert.Equal(t, tt.wantFrag, l.Text(frag))
			}
		})
	}
}

func TestBalanced(t *testing.T) {
	l := testutil.NewLogic(t)

	tests := []struct {
		name     string
		input    string
		start    int
		wantFrag string
		wantNext int
		wantOK   bool
	}{
		{"empty input", "", 0, "", 0, true},
		{"stops at close", "ph ps ) ch", 0, "ph ps", 2, true},
		{"consumes groups", "-. ( ph -> ps ) ch", 0, "-. ( ph -> ps ) ch", 7, true},
		{"at close", ") ph", 0, "", 0, true},
		{"from offset", "( ph ps )", 1, "ph ps", 3, true},
		{"unclosed group fails", "ph ( ps", 0, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStream(l.B, l.Seq(t, tt.input))
			frag, next, ok := s.Balanced(tt.start)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantFrag, l.Text(frag))
				assert.Equal(t, tt.wantNext, next)
			} else {
				assert.Equal(t, tt.start, next, "failure must not advance")
			}
		})
	}
}

func TestBalancedExcluding(t *testing.T) {
	l := testutil.NewLogic(t)
	op := l.B.Imp

	tests := []struct {
		name     string
		input    string
		wantFrag string
		wantNext int
	}{
		{"stops at op", "ph -> ps", "ph", 1},
		{"op first", "-> ps", "", 0},
		{"nested op invisible", "( ph -> ps ) -> ch", "( ph -> ps )", 5},
		{"no op", "ph ps", "ph ps", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStream(l.B, l.Seq(t, tt.input))
			frag, next, ok := s.BalancedExcluding(0, op)
			require.True(t, ok)
			assert.Equal(t, tt.wantFrag, l.Text(frag))
			assert.Equal(t, tt.wantNext, next)
		})
	}
}

func TestFragmentsDoNotAlias(t *testing.T) {
	l := testutil.NewLogic(t)
	toks := l.Seq(t, "ph ps ch")
	s := NewStream(l.B, toks)

	frag, _, ok := s.Atom(0)
	require.True(t, ok)
	_ = append(frag, l.B.Imp)

	assert.Equal(t, "ph ps ch", l.Text(toks), "append to a fragment must not write into the input")
}

func TestSplitBinary(t *testing.T) {
	l := testutil.NewLogic(t)

	tests := []struct {
		name      string
		input     string
		op        string
		wantLeft  string
		wantRight string
		wantOK    bool
	}{
		{"implication", "( ph -> ps )", "->", "ph", "ps", true},
		{"conjunction with nested imp", "( ( ph -> ps ) /\\ ch )", "/\\", "( ph -> ps )", "ch", true},
		{"nested op on right", "( ph -> ( ps -> ch ) )", "->", "ph", "( ps -> ch )", true},
		{"multi-token operands", "( -. ph -> A. x ps )", "->", "-. ph", "A. x ps", true},
		{"leftmost wins", "( ph -> ps -> ch )", "->", "ph", "ps -> ch", true},
		{"no outer group", "ph -> ps", "->", "", "", false},
		{"op only nested", "( ( ph -> ps ) )", "->", "", "", false},
		{"wrong op", "( ph /\\ ps )", "->", "", "", false},
		{"empty left", "( -> ps )", "->", "", "", false},
		{"empty right", "( ph -> )", "->", "", "", false},
		{"trailing tokens", "( ph -> ps ) ch", "->", "", "", false},
		{"two groups", "( ph -> ps ) ( ch )", "->", "", "", false},
		{"unclosed", "( ph -> ps", "->", "", "", false},
		{"unclosed right group", "( ph -> ( ps )", "->", "", "", false},
		{"empty", "", "->", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := l.ID(t, tt.op)
			left, right, ok := SplitBinary(l.B, l.Seq(t, tt.input), op)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantLeft, l.Text(left))
				assert.Equal(t, tt.wantRight, l.Text(right))
			} else {
				assert.Nil(t, left)
				assert.Nil(t, right)
			}
		})
	}
}

// Well-formed ( L op R ) splits back into exactly L and R.
func TestSplitBinary_Reconstruction(t *testing.T) {
	l := testutil.NewLogic(t)
	operands := []string{"ph", "-. ph", "( ph /\\ ps )", "A. x ( x = y )", "( ( ph -> ps ) -> ch )"}

	for _, opName := range []string{"->", "/\\", "\\/", "<->"} {
		op := l.ID(t, opName)
		for _, lhs := range operands {
			for _, rhs := range operands {
				L, R := l.Seq(t, lhs), l.Seq(t, rhs)
				toks := formula.Concat(formula.Of(l.B.LP), L, formula.Of(op), R, formula.Of(l.B.RP))

				left, right, ok := SplitBinary(l.B, toks, op)
				require.True(t, ok, "%s %s %s", lhs, opName, rhs)
				assert.True(t, left.Equal(L))
				assert.True(t, right.Equal(R))
			}
		}
	}
}

func TestWhole(t *testing.T) {
	l := testutil.NewLogic(t)

	frag, ok := Whole(l.B, l.Seq(t, "-. ( ph -> ps )"), 1)
	require.True(t, ok)
	assert.Equal(t, "( ph -> ps )", l.Text(frag))

	_, ok = Whole(l.B, l.Seq(t, "-."), 1)
	assert.False(t, ok, "empty remainder")

	_, ok = Whole(l.B, l.Seq(t, "-. ph )"), 1)
	assert.False(t, ok, "stray close")
}
