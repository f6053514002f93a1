package builtins

import (
	"errors"
	"testing"

	"github.com/epistemic-frontier/metamath-prelude/pkg/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsure_SameOriginStable(t *testing.T) {
	in := symbol.NewMemInterner()

	b1, err := Ensure(in, "", nil)
	require.NoError(t, err)
	b2, err := Ensure(in, DefaultOrigin, nil)
	require.NoError(t, err)

	assert.Equal(t, *b1, *b2, "same origin should yield field-wise identical IDs")
	assert.Equal(t, DefaultOrigin, b1.Origin())
	assert.Equal(t, len(Names()), in.Len(), "second Ensure must not intern new symbols")
}

func TestEnsure_DifferentOriginsDisjoint(t *testing.T) {
	in := symbol.NewMemInterner()

	a := MustEnsure(in, "session-a")
	b := MustEnsure(in, "session-b")

	seen := make(map[symbol.ID]bool)
	for _, id := range a.IDs() {
		seen[id] = true
	}
	for _, id := range b.IDs() {
		assert.False(t, seen[id], "ID %d shared between origins", id)
	}
}

func TestEnsure_InternsConstNames(t *testing.T) {
	in := symbol.NewMemInterner()
	b := MustEnsure(in, "m")

	tests := []struct {
		id   symbol.ID
		name string
	}{
		{b.LP, "("},
		{b.RP, ")"},
		{b.Imp, "->"},
		{b.Neg, "-."},
		{b.And, `/\`},
		{b.Or, `\/`},
		{b.Iff, "<->"},
		{b.Forall, "A."},
		{b.Exists, "E."},
		{b.Eq, "="},
		{b.Elem, "e."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, ok := in.Lookup(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.name, sym.LocalName)
			assert.Equal(t, symbol.Const, sym.Kind)
			assert.Equal(t, "m", sym.Origin)

			name, ok := b.Lookup(tt.id)
			assert.True(t, ok)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestIsStructural(t *testing.T) {
	in := symbol.NewMemInterner()
	b := MustEnsure(in, "")
	ph, err := in.Intern("user", "ph", symbol.Var, nil)
	require.NoError(t, err)

	assert.True(t, b.IsStructural(b.Imp))
	assert.False(t, b.IsStructural(ph))
}

type failingInterner struct {
	symbol.Interner
	err error
}

func (f failingInterner) Intern(string, string, symbol.Kind, any) (symbol.ID, error) {
	return symbol.None, f.err
}

func TestEnsure_PropagatesInternerError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Ensure(failingInterner{err: boom}, "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() { MustEnsure(failingInterner{err: boom}, "") })
}

func TestByName(t *testing.T) {
	b := MustEnsure(symbol.NewMemInterner(), "")

	id, ok := b.ByName("->")
	assert.True(t, ok)
	assert.Equal(t, b.Imp, id)

	_, ok = b.ByName("ph")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"(", ")", "->", "-.", `/\`, "A.", "=", "e.", "<->", "E.", `\/`}, names)

	names[0] = "["
	assert.Equal(t, "(", Names()[0], "callers get a copy")
	assert.Len(t, Names(), 11)

	b := MustEnsure(symbol.NewMemInterner(), "")
	assert.Len(t, b.IDs(), 11)
	id, ok := b.ByName("(")
	require.True(t, ok)
	assert.Equal(t, b.LP, id)
}

func TestNote(t *testing.T) {
	note, ok := Note("->")
	require.True(t, ok)
	assert.Equal(t, "implication", note)

	_, ok = Note("ph")
	assert.False(t, ok)
}
