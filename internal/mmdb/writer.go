package mmdb

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

func joinSymbols(syms []string) string {
	return strings.Join(syms, " ")
}

// WriteMM writes the database as Metamath source. Exports have no Metamath
// keyword and are written as a trailing comment.
func (db *DB) WriteMM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "$( module %s $)\n", db.origin)

	prev := StmtKind("")
	for _, s := range db.stmts {
		if prev != "" && blockOf(prev) != blockOf(s.Kind) {
			bw.WriteString("\n")
		}
		prev = s.Kind

		switch s.Kind {
		case StmtConst, StmtVar:
			fmt.Fprintf(bw, "$%s %s $.\n", s.Kind, s.Math())
		case StmtTheorem:
			proof := "?"
			if len(s.Proof) > 0 {
				proof = joinSymbols(s.Proof)
			}
			fmt.Fprintf(bw, "%s $p %s %s $= %s $.\n", s.Label, s.Typecode, s.Math(), proof)
		default:
			fmt.Fprintf(bw, "%s $%s %s %s $.\n", s.Label, s.Kind, s.Typecode, s.Math())
		}
	}

	if len(db.exports) > 0 {
		fmt.Fprintf(bw, "\n$( export %s $)\n", joinSymbols(db.exports))
	}
	return bw.Flush()
}

// blockOf groups statement kinds into visual sections.
func blockOf(k StmtKind) int {
	switch k {
	case StmtConst, StmtVar:
		return 0
	case StmtFloat:
		return 1
	default:
		return 2
	}
}

// String renders the database as Metamath source.
func (db *DB) String() string {
	var sb strings.Builder
	_ = db.WriteMM(&sb)
	return sb.String()
}
