// Package match implements balanced-group matching over token sequences.
//
// The engine knows only two structural tokens, the open and close group
// delimiters of a builtin set. Every other token, operators included, is an
// ordinary symbol here; operator recognition is layered on top by package
// shape.
//
// # Grammar
//
//	balanced  → { group | atom }          stops before ")" or end of input
//	group     → "(" balanced ")"
//	atom      → any token except "(" and ")"
//
// Each primitive takes a start position and returns the matched fragment, the
// position after it and true, or (nil, pos, false) without advancing. The
// grammar is unambiguous (parenthesis balance alone determines structure), so
// nothing ever backtracks. Matching never panics and never returns an error:
// "no match" is a value.
package match

import (
	"github.com/epistemic-frontier/metamath-prelude/pkg/builtins"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/symbol"
)

// Class is the structural classification of a stream position.
type Class int

// Position classes.
const (
	EOF Class = iota
	Open
	Close
	Symbol
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case EOF:
		return "EOF"
	case Open:
		return "OPEN"
	case Close:
		return "CLOSE"
	case Symbol:
		return "SYM"
	default:
		return "unknown"
	}
}

// Stream is a read-only view of a token sequence plus its group delimiters.
//
// Fragments returned by the primitives share storage with the input sequence
// and are capacity-limited, so appending to them never writes into the input.
// Callers must not modify them in place.
type Stream struct {
	toks formula.Seq
	lp   symbol.ID
	rp   symbol.ID
}

// NewStream creates a stream over toks using b's parentheses as delimiters.
func NewStream(b *builtins.Builtins, toks formula.Seq) *Stream {
	return &Stream{toks: toks, lp: b.LP, rp: b.RP}
}

// Len returns the number of tokens in the stream.
func (s *Stream) Len() int {
	return len(s.toks)
}

// Class classifies the token at pos. Out-of-range positions are EOF.
func (s *Stream) Class(pos int) Class {
	if pos < 0 || pos >= len(s.toks) {
		return EOF
	}
	switch s.toks[pos] {
	case s.lp:
		return Open
	case s.rp:
		return Close
	default:
		return Symbol
	}
}

// At returns the token at pos, or symbol.None past the end.
func (s *Stream) At(pos int) symbol.ID {
	if pos < 0 || pos >= len(s.toks) {
		return symbol.None
	}
	return s.toks[pos]
}

func (s *Stream) slice(from, to int) formula.Seq {
	return s.toks[from:to:to]
}

// Atom matches exactly one ordinary symbol.
func (s *Stream) Atom(pos int) (formula.Seq, int, bool) {
	if s.Class(pos) != Symbol {
		return nil, pos, false
	}
	return s.slice(pos, pos+1), pos + 1, true
}

// Group matches "(" balanced ")". The fragment includes both delimiters.
func (s *Stream) Group(pos int) (formula.Seq, int, bool) {
	if s.Class(pos) != Open {
		return nil, pos, false
	}
	_, j, ok := s.Balanced(pos + 1)
	if !ok {
		return nil, pos, false
	}
	if s.Class(j) != Close {
		return nil, pos, false
	}
	return s.slice(pos, j+1), j + 1, true
}

// Balanced matches groups and atoms until a close delimiter or end of input.
// It succeeds with an empty fragment when pos is already at either. It fails
// only when a nested group is left unclosed.
func (s *Stream) Balanced(pos int) (formula.Seq, int, bool) {
	return s.balanced(pos, symbol.None, false)
}

// BalancedExcluding is Balanced that also stops, without consuming, at the
// first occurrence of op at the current depth. Occurrences of op inside
// nested groups are consumed as part of the group and never stop the scan.
func (s *Stream) BalancedExcluding(pos int, op symbol.ID) (formula.Seq, int, bool) {
	return s.balanced(pos, op, true)
}

func (s *Stream) balanced(pos int, op symbol.ID, exclude bool) (formula.Seq, int, bool) {
	j := pos
	for {
		var ok bool
		switch s.Class(j) {
		case Close, EOF:
			return s.slice(pos, j), j, true
		case Open:
			_, j, ok = s.Group(j)
		default:
			if exclude && s.toks[j] == op {
				return s.slice(pos, j), j, true
			}
			_, j, ok = s.Atom(j)
		}
		if !ok {
			return nil, pos, false
		}
	}
}

// SplitBinary splits "( left op right )" at the leftmost op at depth one.
//
// The whole of toks must be a single outer group; both sides must be
// non-empty; the right side must be followed by the outer close delimiter and
// then end of input. Any other input is reported as no match.
func SplitBinary(b *builtins.Builtins, toks formula.Seq, op symbol.ID) (left, right formula.Seq, ok bool) {
	s := NewStream(b, toks)
	if s.Class(0) != Open {
		return nil, nil, false
	}

	left, j, ok := s.BalancedExcluding(1, op)
	if !ok || len(left) == 0 {
		return nil, nil, false
	}
	if s.Class(j) != Symbol || s.At(j) != op {
		return nil, nil, false
	}

	right, k, ok := s.Balanced(j + 1)
	if !ok || len(right) == 0 {
		return nil, nil, false
	}
	if s.Class(k) != Close || s.Class(k+1) != EOF {
		return nil, nil, false
	}
	return left, right, true
}

// Whole matches toks from start as exactly one non-empty balanced fragment
// running to end of input.
func Whole(b *builtins.Builtins, toks formula.Seq, start int) (formula.Seq, bool) {
	s := NewStream(b, toks)
	frag, j, ok := s.Balanced(start)
	if !ok || len(frag) == 0 || s.Class(j) != EOF {
		return nil, false
	}
	return frag, true
}
