// Package symbol defines interned symbol identities.
//
// A symbol is named by the module that declared it (its origin), its local
// name and its kind. The interner assigns each distinct (origin, name, kind)
// triple a stable ID; all other packages treat IDs as opaque values and only
// ever compare them with ==.
package symbol

import "fmt"

// ID is an opaque symbol identity. The zero ID never names a symbol.
type ID int32

// None is the zero ID.
const None ID = 0

// Valid reports whether the ID can name a symbol.
func (id ID) Valid() bool {
	return id > None
}

// Kind disambiguates symbols that share an origin and local name.
type Kind int

// Symbol kinds.
const (
	Const Kind = iota + 1 // constant: punctuation, connectives, typecodes
	Var                   // variable: ph, ps, x, y
)

// String returns the Metamath-style name of the kind.
func (k Kind) String() string {
	switch k {
	case Const:
		return "Const"
	case Var:
		return "Var"
	default:
		return "unknown"
	}
}

// ParseKind converts a kind name back to a Kind.
// Returns false for unknown names.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "Const", "const", "c":
		return Const, true
	case "Var", "var", "v":
		return Var, true
	default:
		return 0, false
	}
}

// Symbol is the record the interner keeps for every ID.
type Symbol struct {
	ID        ID
	Origin    string // module that interned the symbol
	LocalName string
	Kind      Kind
	OriginRef any // opaque back-reference supplied by the declaring code
}

// String returns origin-qualified debugging output.
func (s Symbol) String() string {
	return fmt.Sprintf("%s:%s#%d(%s)", s.Origin, s.LocalName, s.ID, s.Kind)
}

// Table resolves IDs to their symbol records.
type Table interface {
	Lookup(id ID) (Symbol, bool)
}

// Interner assigns IDs to symbols.
//
// Intern must be idempotent per (origin, localName, kind): interning the same
// triple again returns the same ID. The ref argument is stored on first use
// only.
type Interner interface {
	Table
	Intern(origin, localName string, kind Kind, ref any) (ID, error)
}
