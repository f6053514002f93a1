package rules

import (
	"sync"
	"testing"

	"github.com/epistemic-frontier/metamath-prelude/internal/testutil"
	"github.com/epistemic-frontier/metamath-prelude/pkg/builtins"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/typing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityDef(label string) Def {
	return Def{
		Label: label,
		Kind:  KindRule,
		Sig:   typing.Sig(formula.SortWff, formula.SortWff),
		Body: func(_ *builtins.Builtins, _ string, h []formula.Wff) (formula.Wff, error) {
			return h[0], nil
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(identityDef("b")))
	require.NoError(t, reg.Register(identityDef("a")))

	err := reg.Register(identityDef("b"))
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	assert.ErrorIs(t, reg.Register(Def{Kind: KindRule}), ErrInvalidDef)
	assert.ErrorIs(t, reg.Register(Def{Label: "x", Kind: KindRule}), ErrInvalidDef)
	bad := identityDef("y")
	bad.Kind = "lemma"
	assert.ErrorIs(t, reg.Register(bad), ErrInvalidDef)

	assert.Equal(t, []string{"b", "a"}, reg.Labels(), "registration order is kept")
	assert.Equal(t, 2, reg.Len())

	d, ok := reg.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", d.Label)
	_, ok = reg.Get("zz")
	assert.False(t, ok)
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(identityDef("a"))
	assert.Panics(t, func() { reg.MustRegister(identityDef("a")) })
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = reg.Register(identityDef(string(rune('a' + i))))
			_ = reg.Labels()
			_, _ = reg.Get("a")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, reg.Len())
}

func TestBind(t *testing.T) {
	l := testutil.NewLogic(t)
	bundle := Bind(Hilbert, l.B)

	assert.True(t, bundle.Bound())
	assert.Same(t, l.B, bundle.Builtins())
	assert.Equal(t, Hilbert.Labels(), bundle.Labels())
	require.Len(t, bundle.Rules(), Hilbert.Len())

	for _, r := range bundle.Rules() {
		d, ok := Hilbert.Get(r.Label())
		require.True(t, ok)
		assert.Equal(t, d.Kind, r.Kind())
		assert.Equal(t, d.Sig, r.Sig())
	}

	_, err := bundle.Apply("nope", l.Wff(t, "ph"))
	assert.ErrorIs(t, err, ErrUnknownRule)
}

func TestBindDebug_Unbound(t *testing.T) {
	l := testutil.NewLogic(t)
	catalog := BindDebug(Hilbert)
	assert.False(t, catalog.Bound())
	assert.Nil(t, catalog.Builtins())

	for _, label := range catalog.Labels() {
		t.Run(label, func(t *testing.T) {
			r, ok := catalog.Get(label)
			require.True(t, ok)
			hyps := make([]formula.Wff, r.Sig().Arity())
			for i := range hyps {
				hyps[i] = l.Wff(t, "ph")
			}
			_, err := r.Apply(hyps...)
			require.Error(t, err)
			assert.ErrorIs(t, err, typing.ErrTyping)
			assert.Contains(t, err.Error(), "requires bound builtins")
			assert.Contains(t, err.Error(), label)
		})
	}
}

func TestInfos(t *testing.T) {
	infos := Hilbert.Infos()
	require.NotEmpty(t, infos)
	assert.Equal(t, Info{
		Label:   "mp",
		Kind:    KindRule,
		Sig:     "(wff, wff) -> wff",
		Arity:   2,
		Summary: "modus ponens: from phi and ( phi -> psi ) infer psi",
	}, infos[1])
}
