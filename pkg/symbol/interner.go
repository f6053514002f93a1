package symbol

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// Errors returned by MemInterner.
var (
	ErrEmptyName   = errors.New("symbol name is empty")
	ErrInvalidKind = errors.New("invalid symbol kind")
	ErrExhausted   = errors.New("symbol id space exhausted")
)

type internKey struct {
	origin string
	name   string
	kind   Kind
}

// MemInterner is an in-memory Interner safe for concurrent use.
// IDs are dense and start at 1.
type MemInterner struct {
	mu    sync.RWMutex
	ids   map[internKey]ID
	syms  []Symbol // syms[id-1]
	limit int
}

// NewMemInterner creates an empty interner.
func NewMemInterner() *MemInterner {
	return &MemInterner{
		ids:   make(map[internKey]ID),
		limit: math.MaxInt32,
	}
}

// Intern returns the ID for (origin, localName, kind), allocating one on first use.
func (m *MemInterner) Intern(origin, localName string, kind Kind, ref any) (ID, error) {
	if localName == "" {
		return None, ErrEmptyName
	}
	if kind != Const && kind != Var {
		return None, fmt.Errorf("%w: %d", ErrInvalidKind, int(kind))
	}
	key := internKey{origin: origin, name: localName, kind: kind}

	// Fast path: already interned
	m.mu.RLock()
	id, ok := m.ids[key]
	m.mu.RUnlock()
	if ok {
		return id, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another goroutine may have won the race
	if id, ok := m.ids[key]; ok {
		return id, nil
	}
	if len(m.syms) >= m.limit {
		return None, ErrExhausted
	}

	id = ID(len(m.syms) + 1)
	m.ids[key] = id
	m.syms = append(m.syms, Symbol{
		ID:        id,
		Origin:    origin,
		LocalName: localName,
		Kind:      kind,
		OriginRef: ref,
	})
	return id, nil
}

// Lookup returns the symbol record for id.
func (m *MemInterner) Lookup(id ID) (Symbol, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !id.Valid() || int(id) > len(m.syms) {
		return Symbol{}, false
	}
	return m.syms[id-1], true
}

// Len returns the number of interned symbols.
func (m *MemInterner) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.syms)
}

// Symbols returns a copy of all interned symbols in ID order.
func (m *MemInterner) Symbols() []Symbol {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Symbol, len(m.syms))
	copy(out, m.syms)
	return out
}

// ByOrigin returns the symbols interned under origin, in ID order.
func (m *MemInterner) ByOrigin(origin string) []Symbol {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Symbol
	for _, s := range m.syms {
		if s.Origin == origin {
			out = append(out, s)
		}
	}
	return out
}
