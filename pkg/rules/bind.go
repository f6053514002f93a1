package rules

import (
	"fmt"

	"github.com/epistemic-frontier/metamath-prelude/pkg/builtins"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
)

// Bundle is a registry snapshot bound to one builtin set. It is immutable
// after construction and safe for concurrent use.
type Bundle struct {
	b      *builtins.Builtins
	labels []string
	rules  map[string]Rule
}

// Bind instantiates every definition of reg against b.
func Bind(reg *Registry, b *builtins.Builtins) *Bundle {
	defs := reg.Defs()
	bundle := &Bundle{
		b:      b,
		labels: make([]string, 0, len(defs)),
		rules:  make(map[string]Rule, len(defs)),
	}
	for _, d := range defs {
		bundle.labels = append(bundle.labels, d.Label)
		bundle.rules[d.Label] = d.New(b)
	}
	return bundle
}

// BindDebug returns an unbound catalog for listing and introspection.
// Every Apply on its rules fails with a TypingError.
func BindDebug(reg *Registry) *Bundle {
	return Bind(reg, nil)
}

// Bound reports whether the bundle carries a builtin set.
func (bu *Bundle) Bound() bool {
	return bu.b != nil
}

// Builtins returns the builtin set the bundle was bound to, or nil.
func (bu *Bundle) Builtins() *builtins.Builtins {
	return bu.b
}

// Get returns a rule by label.
func (bu *Bundle) Get(label string) (Rule, bool) {
	r, ok := bu.rules[label]
	return r, ok
}

// Labels returns rule labels in registration order.
func (bu *Bundle) Labels() []string {
	out := make([]string, len(bu.labels))
	copy(out, bu.labels)
	return out
}

// Rules returns rules in registration order.
func (bu *Bundle) Rules() []Rule {
	out := make([]Rule, len(bu.labels))
	for i, l := range bu.labels {
		out[i] = bu.rules[l]
	}
	return out
}

// Apply looks up label and applies it to hyps.
func (bu *Bundle) Apply(label string, hyps ...formula.Wff) (formula.Wff, error) {
	r, ok := bu.rules[label]
	if !ok {
		return formula.Wff{}, fmt.Errorf("%w: %s", ErrUnknownRule, label)
	}
	return r.Apply(hyps...)
}
