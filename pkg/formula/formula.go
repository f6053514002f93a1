// Package formula defines sort-tagged token sequences.
//
// A Wff pairs a syntactic category (its Sort) with an ordered sequence of
// interned symbol IDs. Values are immutable: constructors copy their input
// and no method mutates the receiver.
package formula

import (
	"slices"
	"strconv"
	"strings"

	"github.com/epistemic-frontier/metamath-prelude/pkg/symbol"
)

// Sort is the syntactic category of a formula.
type Sort string

// Sorts used by the prelude.
const (
	SortWff    Sort = "wff"
	SortSetvar Sort = "setvar"
	SortClass  Sort = "class"
)

// ParseSort returns the Sort named s.
func ParseSort(s string) (Sort, bool) {
	switch so := Sort(s); so {
	case SortWff, SortSetvar, SortClass:
		return so, true
	default:
		return "", false
	}
}

// Seq is an ordered token sequence.
type Seq []symbol.ID

// Of builds a Seq from ids.
func Of(ids ...symbol.ID) Seq {
	return Seq(slices.Clone(ids))
}

// Concat joins sequences into a new Seq.
func Concat(parts ...Seq) Seq {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(Seq, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Equal reports element-wise identity equality.
func (s Seq) Equal(other Seq) bool {
	return slices.Equal(s, other)
}

// Clone returns a copy of s. A nil or empty Seq clones to an empty non-nil Seq.
func (s Seq) Clone() Seq {
	out := make(Seq, len(s))
	copy(out, s)
	return out
}

// Wff is a sort-tagged token sequence.
type Wff struct {
	Sort   Sort
	Tokens Seq
}

// New constructs a formula, copying tokens.
func New(sort Sort, tokens Seq) Wff {
	return Wff{Sort: sort, Tokens: tokens.Clone()}
}

// Equal reports whether both the sort and the tokens are equal.
func (w Wff) Equal(other Wff) bool {
	return w.Sort == other.Sort && w.Tokens.Equal(other.Tokens)
}

// Retag returns a copy of w with a different sort.
func (w Wff) Retag(sort Sort) Wff {
	return New(sort, w.Tokens)
}

// Len returns the number of tokens.
func (w Wff) Len() int {
	return len(w.Tokens)
}

// Names resolves every token to its local name. Unknown ids render as "?<id>".
func Names(tab symbol.Table, s Seq) []string {
	out := make([]string, len(s))
	for i, id := range s {
		if sym, ok := tab.Lookup(id); ok {
			out[i] = sym.LocalName
		} else {
			out[i] = "?" + strconv.Itoa(int(id))
		}
	}
	return out
}

// Render returns the space-separated token names of s.
func Render(tab symbol.Table, s Seq) string {
	return strings.Join(Names(tab, s), " ")
}

// Render returns "sort tokens..." in Metamath statement order.
func (w Wff) Render(tab symbol.Table) string {
	if len(w.Tokens) == 0 {
		return string(w.Sort)
	}
	return string(w.Sort) + " " + Render(tab, w.Tokens)
}
