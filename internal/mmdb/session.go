package mmdb

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/epistemic-frontier/metamath-prelude/internal/authoring"
	"github.com/epistemic-frontier/metamath-prelude/pkg/axiom"
	"github.com/epistemic-frontier/metamath-prelude/pkg/builtins"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/rules"
	"github.com/epistemic-frontier/metamath-prelude/pkg/symbol"
)

// DefaultOrigin is the module origin used when none is configured.
const DefaultOrigin = "prelude"

// Session errors.
var (
	ErrEmptyFormula = errors.New("empty formula")
	ErrUnknownName  = errors.New("unknown name")
	ErrUnknownAxiom = errors.New("unknown axiom schema")
)

// Options configures a Session.
type Options struct {
	// Origin is the module origin for variables and the database.
	Origin string
	// BuiltinsOrigin overrides builtins.DefaultOrigin.
	BuiltinsOrigin string
	// Registry defaults to rules.Hilbert.
	Registry *rules.Registry
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Session is one authoring context. It owns its interner, builtin set, bound
// rule bundle and database; sessions share no mutable state.
type Session struct {
	in      *symbol.MemInterner
	origin  string
	b       *builtins.Builtins
	bundle  *rules.Bundle
	schemas axiom.Set
	db      *DB
	facts   map[string]formula.Wff
	order   []string
	logger  *slog.Logger
}

// NewSession creates a session with a fresh interner.
func NewSession(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	origin := opts.Origin
	if origin == "" {
		origin = DefaultOrigin
	}
	reg := opts.Registry
	if reg == nil {
		reg = rules.Hilbert
	}

	in := symbol.NewMemInterner()
	b, err := builtins.Ensure(in, opts.BuiltinsOrigin, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve builtins: %w", err)
	}

	logger.Debug("session created", "origin", origin, "builtins_origin", b.Origin(), "rules", reg.Len())
	return &Session{
		in:      in,
		origin:  origin,
		b:       b,
		bundle:  rules.Bind(reg, b),
		schemas: axiom.Syntax(b),
		db:      New(origin),
		facts:   make(map[string]formula.Wff),
		logger:  logger,
	}, nil
}

// Interner returns the session interner.
func (s *Session) Interner() *symbol.MemInterner { return s.in }

// Origin returns the module origin.
func (s *Session) Origin() string { return s.origin }

// Builtins returns the session builtin set.
func (s *Session) Builtins() *builtins.Builtins { return s.b }

// Rules returns the bound rule bundle.
func (s *Session) Rules() *rules.Bundle { return s.bundle }

// Schemas returns the syntax axiom schemas bound to the session builtins.
func (s *Session) Schemas() axiom.Set { return s.schemas }

// DB returns the session database.
func (s *Session) DB() *DB { return s.db }

// Env returns the authoring environment of the session.
func (s *Session) Env() authoring.Env {
	return authoring.Env{Interner: s.in, Builtins: s.b, Origin: s.origin}
}

// LoadPrelude writes the prelude declarations into the session database.
// The export list is left untouched.
func (s *Session) LoadPrelude() error {
	if err := Prelude(s.db, s.Env()); err != nil {
		return fmt.Errorf("failed to load prelude: %w", err)
	}
	s.logger.Debug("prelude loaded", "statements", len(s.db.stmts))
	return nil
}

// ExportPrelude publishes every prelude name from the session database.
// LoadPrelude must have run first.
func (s *Session) ExportPrelude() error {
	if err := ExportPrelude(s.db); err != nil {
		return fmt.Errorf("failed to export prelude: %w", err)
	}
	return nil
}

// Parse splits a math string on whitespace. Builtin names resolve to the
// session builtins; every other name is a variable under the session origin.
// Declared non-builtin constants such as typecodes are rejected.
func (s *Session) Parse(text string, sort formula.Sort) (formula.Wff, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return formula.Wff{}, ErrEmptyFormula
	}
	toks := make(formula.Seq, 0, len(fields))
	for _, name := range fields {
		if id, ok := s.b.ByName(name); ok {
			toks = append(toks, id)
			continue
		}
		if s.db.IsConst(name) {
			return formula.Wff{}, fmt.Errorf("%q: %w", name, ErrNotVariable)
		}
		id, err := s.in.Intern(s.origin, name, symbol.Var, nil)
		if err != nil {
			return formula.Wff{}, fmt.Errorf("%q: %w", name, err)
		}
		toks = append(toks, id)
	}
	return formula.New(sort, toks), nil
}

// Render renders a formula's tokens as a math string.
func (s *Session) Render(w formula.Wff) string {
	return formula.Render(s.in, w.Tokens)
}

// Compile lowers an authoring expression in the session environment.
func (s *Session) Compile(expr authoring.Expr) (formula.Wff, error) {
	return authoring.Compile(expr, s.Env())
}

// Apply applies a bound rule.
func (s *Session) Apply(label string, hyps ...formula.Wff) (formula.Wff, error) {
	w, err := s.bundle.Apply(label, hyps...)
	if err != nil {
		s.logger.Debug("rule failed", "rule", label, "error", err)
		return formula.Wff{}, err
	}
	s.logger.Debug("rule applied", "rule", label, "result", s.Render(w))
	return w, nil
}

// Instantiate applies a syntax axiom schema by name.
func (s *Session) Instantiate(name string, args ...formula.Wff) (formula.Wff, error) {
	sc, ok := s.schemas.Lookup(name)
	if !ok {
		return formula.Wff{}, fmt.Errorf("%w: %s", ErrUnknownAxiom, name)
	}
	return sc.Apply(args...)
}

// Let binds name to w in the session namespace, replacing any previous
// binding.
func (s *Session) Let(name string, w formula.Wff) error {
	if name == "" {
		return ErrEmpty
	}
	if _, ok := s.facts[name]; !ok {
		s.order = append(s.order, name)
	}
	s.facts[name] = w
	return nil
}

// Get returns a bound formula.
func (s *Session) Get(name string) (formula.Wff, bool) {
	w, ok := s.facts[name]
	return w, ok
}

// Names returns bound names in binding order.
func (s *Session) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Lookup resolves a name to a bound formula, failing with ErrUnknownName.
func (s *Session) Lookup(name string) (formula.Wff, error) {
	w, ok := s.facts[name]
	if !ok {
		return formula.Wff{}, fmt.Errorf("%w: %s", ErrUnknownName, name)
	}
	return w, nil
}

// Theorem records w as a provable statement with an incomplete proof and
// binds it under label.
func (s *Session) Theorem(label string, w formula.Wff) error {
	syms, err := Symbols(s.in, w.Tokens)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	if err := s.db.Theorem(label, TypeProvable, syms, nil); err != nil {
		return err
	}
	return s.Let(label, w)
}
