// Package mmdb accumulates a Metamath database for one module and writes it
// as .mm text.
//
// Statements are kept in declaration order. Math symbols are tracked by local
// name: a DB only records what a module declares, token identity lives in the
// interner.
package mmdb

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/symbol"
)

// Declaration errors.
var (
	ErrRedeclared     = errors.New("symbol already declared")
	ErrDuplicateLabel = errors.New("duplicate label")
	ErrUndeclared     = errors.New("undeclared symbol")
	ErrNotConstant    = errors.New("typecode is not a constant")
	ErrNotVariable    = errors.New("not a variable")
	ErrUnknownExport  = errors.New("unknown export")
	ErrEmpty          = errors.New("empty name")
	ErrInvalidName    = errors.New("invalid math symbol")
)

// StmtKind is the Metamath keyword of a statement.
type StmtKind string

// Statement kinds.
const (
	StmtConst   StmtKind = "c"
	StmtVar     StmtKind = "v"
	StmtFloat   StmtKind = "f"
	StmtAxiom   StmtKind = "a"
	StmtTheorem StmtKind = "p"
)

// Statement is one entry of the database.
type Statement struct {
	Kind     StmtKind `json:"kind" yaml:"kind"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Typecode string   `json:"typecode,omitempty" yaml:"typecode,omitempty"`
	Symbols  []string `json:"symbols" yaml:"symbols"`
	Proof    []string `json:"proof,omitempty" yaml:"proof,omitempty"`
}

// Math returns the statement body as a space-separated math string.
func (s Statement) Math() string {
	return joinSymbols(s.Symbols)
}

type symKind int

const (
	symConst symKind = iota + 1
	symVar
)

// DB is a Metamath database under construction.
type DB struct {
	origin  string
	stmts   []Statement
	symbols map[string]symKind
	labels  map[string]StmtKind
	floats  map[string]string // variable -> float label
	exports []string
	seen    map[string]bool
}

// New creates an empty database for the given module origin.
func New(origin string) *DB {
	return &DB{
		origin:  origin,
		symbols: make(map[string]symKind),
		labels:  make(map[string]StmtKind),
		floats:  make(map[string]string),
		seen:    make(map[string]bool),
	}
}

// Origin returns the module origin.
func (db *DB) Origin() string { return db.origin }

// Statements returns a copy of all statements in order.
func (db *DB) Statements() []Statement {
	return slices.Clone(db.stmts)
}

// Exports returns exported names in export order.
func (db *DB) Exports() []string {
	return slices.Clone(db.exports)
}

// Labels returns labeled statements of the given kinds, in order.
func (db *DB) Labels(kinds ...StmtKind) []string {
	var out []string
	for _, s := range db.stmts {
		if s.Label != "" && (len(kinds) == 0 || slices.Contains(kinds, s.Kind)) {
			out = append(out, s.Label)
		}
	}
	return out
}

// Statement returns the statement with the given label.
func (db *DB) Statement(label string) (Statement, bool) {
	for _, s := range db.stmts {
		if s.Label == label {
			return s, true
		}
	}
	return Statement{}, false
}

// IsConst reports whether name is a declared constant.
func (db *DB) IsConst(name string) bool { return db.symbols[name] == symConst }

// IsVar reports whether name is a declared variable.
func (db *DB) IsVar(name string) bool { return db.symbols[name] == symVar }

// FloatOf returns the float label typing variable v.
func (db *DB) FloatOf(v string) (string, bool) {
	l, ok := db.floats[v]
	return l, ok
}

// Const declares constants ($c).
func (db *DB) Const(names ...string) error {
	return db.declare(StmtConst, symConst, names)
}

// Var declares variables ($v).
func (db *DB) Var(names ...string) error {
	return db.declare(StmtVar, symVar, names)
}

func (db *DB) declare(kind StmtKind, sk symKind, names []string) error {
	for i, n := range names {
		if n == "" {
			return fmt.Errorf("$%s: %w", kind, ErrEmpty)
		}
		if strings.ContainsAny(n, " \t\r\n\f$") {
			return fmt.Errorf("$%s %q: %w", kind, n, ErrInvalidName)
		}
		if _, ok := db.symbols[n]; ok || slices.Contains(names[:i], n) {
			return fmt.Errorf("$%s %s: %w", kind, n, ErrRedeclared)
		}
	}
	for _, n := range names {
		db.symbols[n] = sk
	}
	db.stmts = append(db.stmts, Statement{Kind: kind, Symbols: slices.Clone(names)})
	return nil
}

// Float types a variable with a typecode ($f).
func (db *DB) Float(label, typecode, v string) error {
	if err := db.checkLabel(label); err != nil {
		return err
	}
	if !db.IsConst(typecode) {
		return fmt.Errorf("%s: %q: %w", label, typecode, ErrNotConstant)
	}
	if !db.IsVar(v) {
		return fmt.Errorf("%s: %q: %w", label, v, ErrNotVariable)
	}
	if prev, ok := db.floats[v]; ok {
		return fmt.Errorf("%s: variable %q already typed by %s: %w", label, v, prev, ErrRedeclared)
	}
	db.floats[v] = label
	db.add(Statement{Kind: StmtFloat, Label: label, Typecode: typecode, Symbols: []string{v}})
	return nil
}

// Axiom adds an axiomatic assertion ($a).
func (db *DB) Axiom(label, typecode string, symbols []string) error {
	if err := db.checkAssertion(label, typecode, symbols); err != nil {
		return err
	}
	db.add(Statement{Kind: StmtAxiom, Label: label, Typecode: typecode, Symbols: slices.Clone(symbols)})
	return nil
}

// Theorem adds a provable assertion ($p). An empty proof is written as "?".
func (db *DB) Theorem(label, typecode string, symbols, proof []string) error {
	if err := db.checkAssertion(label, typecode, symbols); err != nil {
		return err
	}
	for _, step := range proof {
		if step == "?" {
			continue
		}
		if _, ok := db.labels[step]; !ok {
			return fmt.Errorf("%s: proof step %q: %w", label, step, ErrUndeclared)
		}
	}
	db.add(Statement{
		Kind: StmtTheorem, Label: label, Typecode: typecode,
		Symbols: slices.Clone(symbols), Proof: slices.Clone(proof),
	})
	return nil
}

// AxiomWff adds a $a statement whose body is a compiled formula.
func (db *DB) AxiomWff(tab symbol.Table, label, typecode string, w formula.Wff) error {
	syms, err := Symbols(tab, w.Tokens)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	return db.Axiom(label, typecode, syms)
}

// Export marks a declared symbol or label as part of the module interface.
// Exporting a name twice is a no-op.
func (db *DB) Export(name string) error {
	_, isSym := db.symbols[name]
	_, isLabel := db.labels[name]
	if !isSym && !isLabel {
		return fmt.Errorf("%w: %s", ErrUnknownExport, name)
	}
	if !db.seen[name] {
		db.seen[name] = true
		db.exports = append(db.exports, name)
	}
	return nil
}

func (db *DB) checkLabel(label string) error {
	if label == "" {
		return fmt.Errorf("label: %w", ErrEmpty)
	}
	if _, ok := db.labels[label]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, label)
	}
	if _, ok := db.symbols[label]; ok {
		return fmt.Errorf("label %s clashes with a math symbol: %w", label, ErrDuplicateLabel)
	}
	return nil
}

func (db *DB) checkAssertion(label, typecode string, symbols []string) error {
	if err := db.checkLabel(label); err != nil {
		return err
	}
	if !db.IsConst(typecode) {
		return fmt.Errorf("%s: %q: %w", label, typecode, ErrNotConstant)
	}
	for _, s := range symbols {
		if _, ok := db.symbols[s]; !ok {
			return fmt.Errorf("%s: %q: %w", label, s, ErrUndeclared)
		}
		if db.IsVar(s) {
			if _, ok := db.floats[s]; !ok {
				return fmt.Errorf("%s: variable %q has no $f: %w", label, s, ErrUndeclared)
			}
		}
	}
	return nil
}

func (db *DB) add(s Statement) {
	db.labels[s.Label] = s.Kind
	db.stmts = append(db.stmts, s)
}

// Symbols resolves tokens to their local names. Unknown ids are an error.
func Symbols(tab symbol.Table, toks formula.Seq) ([]string, error) {
	out := make([]string, len(toks))
	for i, id := range toks {
		sym, ok := tab.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("token %d: %w", id, ErrUndeclared)
		}
		out[i] = sym.LocalName
	}
	return out, nil
}
