// Package axiom provides arity-checked axiom schemas.
//
// A schema is a formula generator, not an inference rule: authoring code
// applies it to sub-formulas to write down an axiom statement.
package axiom

import (
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/typing"
)

// Schema is a named formula constructor with a fixed arity.
type Schema struct {
	Name        string
	Arity       int
	Instantiate func(args ...formula.Wff) formula.Wff
}

// Apply checks the argument count and delegates to Instantiate. The result
// is returned unchanged: its correctness is the schema author's concern.
// A schema without Instantiate fails with a TypingError.
func (s Schema) Apply(args ...formula.Wff) (formula.Wff, error) {
	name := "axiom schema " + quote(s.Name)
	if err := typing.RequireArity(name, s.Arity, len(args)); err != nil {
		return formula.Wff{}, err
	}
	if s.Instantiate == nil {
		return formula.Wff{}, typing.Typingf(name, typing.MsgNoInstantiate)
	}
	return s.Instantiate(args...), nil
}

func quote(name string) string {
	return "'" + name + "'"
}

// Set is an ordered collection of schemas addressed by name.
type Set []Schema

// Lookup returns the schema with the given name.
func (s Set) Lookup(name string) (Schema, bool) {
	for _, sc := range s {
		if sc.Name == name {
			return sc, true
		}
	}
	return Schema{}, false
}

// Names returns schema names in order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, sc := range s {
		names[i] = sc.Name
	}
	return names
}
