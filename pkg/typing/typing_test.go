package typing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleSigString(t *testing.T) {
	assert.Equal(t, "(wff, wff) -> wff", Sig(formula.SortWff, formula.SortWff, formula.SortWff).String())
	assert.Equal(t, "() -> class", Sig(formula.SortClass).String())
	assert.Equal(t, 2, Sig(formula.SortWff, formula.SortSetvar, formula.SortWff).Arity())
}

func TestRuleSigCheck(t *testing.T) {
	sig := Sig(formula.SortWff, formula.SortSetvar, formula.SortWff)
	x := formula.New(formula.SortSetvar, formula.Seq{1})
	ph := formula.New(formula.SortWff, formula.Seq{2})

	tests := []struct {
		name    string
		hyps    []formula.Wff
		wantErr string
	}{
		{"ok", []formula.Wff{x, ph}, ""},
		{"too few", []formula.Wff{x}, "wal: expects 2 hypotheses, got 1"},
		{"too many", []formula.Wff{x, ph, ph}, "wal: expects 2 hypotheses, got 3"},
		{"first sort", []formula.Wff{ph, ph}, `wal: hypothesis 1: expected sort "setvar", got "wff"`},
		{"second sort", []formula.Wff{x, x}, `wal: hypothesis 2: expected sort "wff", got "setvar"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sig.Check("wal", tt.hyps)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.EqualError(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrTyping)
			assert.NotErrorIs(t, err, ErrShape)
		})
	}
}

func TestRequireArity(t *testing.T) {
	assert.NoError(t, RequireArity("s", 2, 2))

	err := RequireArity("s", 2, 3)
	var te *TypingError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "s", te.Rule)
	assert.Equal(t, "expects 2 args, got 3", te.Msg)
}

func TestShapeErrorWrapping(t *testing.T) {
	err := fmt.Errorf("step 3: %w", Shapef("mp", MsgExpectShape, "( phi -> psi )"))

	assert.True(t, errors.Is(err, ErrShape))
	assert.False(t, errors.Is(err, ErrTyping))
	assert.EqualError(t, err, "step 3: mp: expected token shape '( phi -> psi )'")

	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "mp", se.Rule)
}
