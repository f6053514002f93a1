// Package builtins resolves the structural tokens of the prelude logic.
//
// The builtin tokens are ordinary Const symbols in the interner, not magic
// values. They are resolved once per origin: two Ensure calls with the same
// origin yield identical IDs, two calls with different origins yield disjoint
// token sets that must never be mixed.
package builtins

import (
	"fmt"

	"github.com/epistemic-frontier/metamath-prelude/pkg/symbol"
)

// DefaultOrigin keeps builtin tokens global-stable. Overriding it creates a
// distinct builtin set on purpose.
const DefaultOrigin = "__prelude__"

// Builtins holds the IDs of the structural tokens for one origin.
type Builtins struct {
	origin string

	LP     symbol.ID // (
	RP     symbol.ID // )
	Imp    symbol.ID // ->
	Neg    symbol.ID // -.
	And    symbol.ID // /\
	Or     symbol.ID // \/
	Iff    symbol.ID // <->
	Forall symbol.ID // A.
	Exists symbol.ID // E.
	Eq     symbol.ID // =
	Elem   symbol.ID // e.
}

type token struct {
	name  string
	notes string
	field func(*Builtins) *symbol.ID
}

// tokens is the fixed set of builtin names, in resolution order.
var tokens = []token{
	{name: "(", notes: "open group", field: func(b *Builtins) *symbol.ID { return &b.LP }},
	{name: ")", notes: "close group", field: func(b *Builtins) *symbol.ID { return &b.RP }},
	{name: "->", notes: "implication", field: func(b *Builtins) *symbol.ID { return &b.Imp }},
	{name: "-.", notes: "negation", field: func(b *Builtins) *symbol.ID { return &b.Neg }},
	{name: `/\`, notes: "conjunction", field: func(b *Builtins) *symbol.ID { return &b.And }},
	{name: "A.", notes: "universal quantifier", field: func(b *Builtins) *symbol.ID { return &b.Forall }},
	{name: "=", notes: "equality", field: func(b *Builtins) *symbol.ID { return &b.Eq }},
	{name: "e.", notes: "membership", field: func(b *Builtins) *symbol.ID { return &b.Elem }},
	{name: "<->", notes: "biconditional", field: func(b *Builtins) *symbol.ID { return &b.Iff }},
	{name: "E.", notes: "existential quantifier", field: func(b *Builtins) *symbol.ID { return &b.Exists }},
	{name: `\/`, notes: "disjunction", field: func(b *Builtins) *symbol.ID { return &b.Or }},
}

// Ensure interns the builtin tokens under origin and returns them.
// An empty origin means DefaultOrigin. Interner errors are returned wrapped.
func Ensure(in symbol.Interner, origin string, ref any) (*Builtins, error) {
	if origin == "" {
		origin = DefaultOrigin
	}
	b := &Builtins{origin: origin}
	for _, tok := range tokens {
		id, err := in.Intern(origin, tok.name, symbol.Const, ref)
		if err != nil {
			return nil, fmt.Errorf("intern builtin %q: %w", tok.name, err)
		}
		*tok.field(b) = id
	}
	return b, nil
}

// MustEnsure is like Ensure but panics on error. Intended for tests and
// package-level setup with an interner known to accept the builtin names.
func MustEnsure(in symbol.Interner, origin string) *Builtins {
	b, err := Ensure(in, origin, nil)
	if err != nil {
		panic(err)
	}
	return b
}

// Origin returns the origin the tokens were resolved under.
func (b *Builtins) Origin() string {
	return b.origin
}

// IDs returns all builtin IDs in Names order.
func (b *Builtins) IDs() []symbol.ID {
	ids := make([]symbol.ID, len(tokens))
	for i, tok := range tokens {
		ids[i] = *tok.field(b)
	}
	return ids
}

// Lookup returns the builtin name of id, if id is one of b's tokens.
func (b *Builtins) Lookup(id symbol.ID) (string, bool) {
	for _, tok := range tokens {
		if *tok.field(b) == id {
			return tok.name, true
		}
	}
	return "", false
}

// IsStructural reports whether id is one of b's tokens.
func (b *Builtins) IsStructural(id symbol.ID) bool {
	_, ok := b.Lookup(id)
	return ok
}

// ByName returns the ID of the builtin with the given local name.
func (b *Builtins) ByName(name string) (symbol.ID, bool) {
	for _, tok := range tokens {
		if tok.name == name {
			return *tok.field(b), true
		}
	}
	return symbol.None, false
}

// Names returns the builtin local names in resolution order. The slice is
// a copy.
func Names() []string {
	names := make([]string, len(tokens))
	for i, tok := range tokens {
		names[i] = tok.name
	}
	return names
}

// Note returns a short description of the builtin with the given name.
func Note(name string) (string, bool) {
	for _, tok := range tokens {
		if tok.name == name {
			return tok.notes, true
		}
	}
	return "", false
}
