// Package rules defines Hilbert-style rule objects and the registry that
// binds them to a builtin token set.
//
// A rule definition is data: a label, a kind, a signature and a body. Binding
// a registry to a *builtins.Builtins yields a Bundle of callable rules that
// share that immutable token set.
package rules

import (
	"github.com/epistemic-frontier/metamath-prelude/pkg/builtins"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/typing"
)

// Kind distinguishes formula-building axioms from inference rules.
type Kind string

// Rule kinds.
const (
	KindAxiom Kind = "axiom"
	KindRule  Kind = "rule"
)

// Rule is a bound (or unbound) rule instance.
type Rule interface {
	// Label returns the unique rule label, e.g. "mp".
	Label() string

	// Kind returns KindAxiom or KindRule.
	Kind() Kind

	// Sig returns the declared signature.
	Sig() typing.RuleSig

	// Apply checks the hypotheses against the signature and runs the body.
	Apply(hyps ...formula.Wff) (formula.Wff, error)
}

// Body computes a rule's conclusion. It runs only after the signature check
// succeeded, so hyps has exactly Sig.Arity() elements of the declared sorts.
type Body func(b *builtins.Builtins, label string, hyps []formula.Wff) (formula.Wff, error)

// Def describes a rule for registration.
type Def struct {
	Label   string
	Kind    Kind
	Sig     typing.RuleSig
	Summary string
	Body    Body
}

// New binds the definition to b. A nil b produces an instance whose Apply
// always fails with a TypingError.
func (d Def) New(b *builtins.Builtins) Rule {
	return &instance{def: d, b: b}
}

type instance struct {
	def Def
	b   *builtins.Builtins
}

func (r *instance) Label() string       { return r.def.Label }
func (r *instance) Kind() Kind          { return r.def.Kind }
func (r *instance) Sig() typing.RuleSig { return r.def.Sig }

func (r *instance) Apply(hyps ...formula.Wff) (formula.Wff, error) {
	if r.b == nil {
		return formula.Wff{}, typing.Typingf(r.def.Label, typing.MsgUnbound)
	}
	if err := r.def.Sig.Check(r.def.Label, hyps); err != nil {
		return formula.Wff{}, err
	}
	return r.def.Body(r.b, r.def.Label, hyps)
}

// Info provides metadata about a rule for documentation/tooling.
type Info struct {
	Label   string `json:"label" yaml:"label"`
	Kind    Kind   `json:"kind" yaml:"kind"`
	Sig     string `json:"sig" yaml:"sig"`
	Arity   int    `json:"arity" yaml:"arity"`
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// InfoOf extracts metadata from a definition.
func InfoOf(d Def) Info {
	return Info{
		Label:   d.Label,
		Kind:    d.Kind,
		Sig:     d.Sig.String(),
		Arity:   d.Sig.Arity(),
		Summary: d.Summary,
	}
}
