package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/epistemic-frontier/metamath-prelude/pkg/rules"
)

var kindDescriptions = map[rules.Kind]string{
	rules.KindAxiom: "Syntax axioms build larger formulas from smaller ones. Scripts reach them through schema().",
	rules.KindRule:  "Inference rules derive a conclusion from hypotheses. Scripts reach them through rule().",
}

// generateRulesDocs generates the Hilbert rule reference.
func generateRulesDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	writeRulesDoc(w, rules.Hilbert)

	filename := filepath.Join(outDir, "index.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated index.md (%d rules)", rules.Hilbert.Len())
	return nil
}

func writeRulesDoc(w *MarkdownWriter, reg *rules.Registry) {
	w.Frontmatter("Hilbert Rules", "Axiom schemas and inference rules available to scripts")
	w.GeneratedMarker()

	w.Header(1, "Hilbert Rules")
	w.Paragraph("Every rule checks the shape and sort of its hypotheses before producing a result. A failed check names the rule and the expected shape.")

	for _, kind := range []rules.Kind{rules.KindAxiom, rules.KindRule} {
		var rows [][]string
		for _, info := range reg.Infos() {
			if info.Kind != kind {
				continue
			}
			rows = append(rows, []string{
				InlineCode(info.Label),
				InlineCode(info.Sig),
				strconv.Itoa(info.Arity),
				info.Summary,
			})
		}
		if len(rows) == 0 {
			continue
		}
		w.Header(2, capitalizeFirst(string(kind))+"s")
		w.Paragraph(kindDescriptions[kind])
		w.Table([]string{"Label", "Signature", "Arity", "Summary"}, rows)
	}

	w.Header(2, "Usage")
	w.CodeBlock("python", `prelude()

# modus ponens
theorem("a1i", rule("mp", parse("ph"), parse("( ph -> ( ps -> ph ) )")))

# syntax axiom applied to a bound formula
let("h", Or(ph, ps))
neg = schema("wn", get("h"))`)
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
