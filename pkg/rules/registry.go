package rules

import (
	"errors"
	"fmt"
	"sync"
)

// Registry errors.
var (
	ErrDuplicateLabel = errors.New("duplicate rule label")
	ErrInvalidDef     = errors.New("invalid rule definition")
	ErrUnknownRule    = errors.New("unknown rule")
)

// Registry stores rule definitions in registration order.
type Registry struct {
	mu    sync.RWMutex
	defs  []Def
	index map[string]int // label -> position in defs
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a definition. Labels are unique within a registry.
func (r *Registry) Register(d Def) error {
	if d.Label == "" || d.Body == nil {
		return fmt.Errorf("%w: label %q", ErrInvalidDef, d.Label)
	}
	if d.Kind != KindAxiom && d.Kind != KindRule {
		return fmt.Errorf("%w: %s: kind %q", ErrInvalidDef, d.Label, d.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[d.Label]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, d.Label)
	}
	r.index[d.Label] = len(r.defs)
	r.defs = append(r.defs, d)
	return nil
}

// MustRegister is Register for init-time tables.
func (r *Registry) MustRegister(defs ...Def) {
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
}

// Get returns a definition by label.
func (r *Registry) Get(label string) (Def, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[label]
	if !ok {
		return Def{}, false
	}
	return r.defs[i], true
}

// Defs returns all definitions in registration order.
func (r *Registry) Defs() []Def {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Def, len(r.defs))
	copy(out, r.defs)
	return out
}

// Labels returns all labels in registration order.
func (r *Registry) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	labels := make([]string, len(r.defs))
	for i, d := range r.defs {
		labels[i] = d.Label
	}
	return labels
}

// Infos returns metadata for every definition.
func (r *Registry) Infos() []Info {
	defs := r.Defs()
	infos := make([]Info, len(defs))
	for i, d := range defs {
		infos[i] = InfoOf(d)
	}
	return infos
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}
