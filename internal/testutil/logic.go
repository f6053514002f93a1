package testutil

import (
	"strings"
	"testing"

	"github.com/epistemic-frontier/metamath-prelude/pkg/builtins"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/symbol"
)

// VarOrigin is the origin under which Logic interns non-builtin names.
const VarOrigin = "test"

// Logic bundles an interner and a builtin set for token-level tests.
type Logic struct {
	In *symbol.MemInterner
	B  *builtins.Builtins
}

// NewLogic creates a fresh interner with the default builtin set.
func NewLogic(t testing.TB) *Logic {
	t.Helper()
	in := symbol.NewMemInterner()
	b, err := builtins.Ensure(in, "", nil)
	if err != nil {
		t.Fatalf("ensure builtins: %v", err)
	}
	return &Logic{In: in, B: b}
}

// Seq converts a whitespace-separated math string to tokens. Builtin names
// resolve to builtin IDs; anything else is interned as a variable.
func (l *Logic) Seq(t testing.TB, text string) formula.Seq {
	t.Helper()
	fields := strings.Fields(text)
	out := make(formula.Seq, 0, len(fields))
	for _, name := range fields {
		if id, ok := l.B.ByName(name); ok {
			out = append(out, id)
			continue
		}
		id, err := l.In.Intern(VarOrigin, name, symbol.Var, nil)
		if err != nil {
			t.Fatalf("intern %q: %v", name, err)
		}
		out = append(out, id)
	}
	return out
}

// ID returns the token for a single name.
func (l *Logic) ID(t testing.TB, name string) symbol.ID {
	t.Helper()
	return l.Seq(t, name)[0]
}

// Wff builds a wff-sorted formula from a math string.
func (l *Logic) Wff(t testing.TB, text string) formula.Wff {
	t.Helper()
	return formula.New(formula.SortWff, l.Seq(t, text))
}

// Text renders tokens back to a math string.
func (l *Logic) Text(s formula.Seq) string {
	return formula.Render(l.In, s)
}
