package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/epistemic-frontier/metamath-prelude/internal/authoring"
)

// generateGlobalsDocs generates the script globals reference.
func generateGlobalsDocs(outDir string) error {
	log.Printf("Generating globals docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	globalsPath := filepath.Clean(filepath.Join(outDir, "globals.md"))

	existingContent, err := os.ReadFile(globalsPath) //#nosec G304 -- path is constructed from trusted config
	if err != nil {
		return generateFullGlobalsDoc(globalsPath)
	}

	content := string(existingContent)
	if strings.Contains(content, generatedHeader) {
		return updateGlobalsDoc(globalsPath, content)
	}
	return appendGlobalsDoc(globalsPath, content)
}

// GlobalFunction is a builtin function predeclared in build scripts.
type GlobalFunction struct {
	Name        string
	Signature   string
	Description string
}

// getGlobalFunctions returns the builtin functions of build scripts.
func getGlobalFunctions() []GlobalFunction {
	return []GlobalFunction{
		{"prelude", "prelude()", "Declare the builtin prelude: constants, variables, floats and syntax axioms. Only names passed to export() are published."},
		{"c", "c(*symbols)", "Declare math constants."},
		{"v", "v(*symbols)", "Declare math variables."},
		{"f", "f(label, typecode, var)", "Add a floating hypothesis."},
		{"a", "a(label, typecode, body)", "Add an axiom. The body is a formula, an expression, a string or a list of symbols."},
		{"theorem", "theorem(label, body)", "Add a provable statement with an empty proof."},
		{"export", "export(*labels)", "Mark labels as part of the module interface."},
		{"var", "var(name, sort=\"wff\")", "Create a variable expression of the given sort."},
		{"compile", "compile(expr)", "Compile an expression into a formula."},
		{"parse", "parse(text, sort=\"wff\")", "Parse Metamath notation into a formula."},
		{"rule", "rule(label, *hyps)", "Apply an inference rule."},
		{"schema", "schema(name, *args)", "Apply a syntax axiom."},
		{"let", "let(name, body)", "Bind a formula to a name in the session."},
		{"get", "get(name)", "Look up a bound formula."},
	}
}

// generateGlobalsReferenceSection generates the reference section markdown.
func generateGlobalsReferenceSection() string {
	w := NewMarkdownWriter()

	w.Header(2, "Reference")
	w.GeneratedMarker()

	w.Header(3, "Functions")
	var rows [][]string
	for _, fn := range getGlobalFunctions() {
		rows = append(rows, []string{InlineCode(fn.Signature), fn.Description})
	}
	w.Table([]string{"Function", "Description"}, rows)

	w.Header(3, "Constructors")
	w.Paragraph("Constructors build expressions that compile() and the statement functions accept.")
	rows = nil
	for _, c := range authoring.Ctors {
		in := make([]string, len(c.In))
		for i, s := range c.In {
			in[i] = string(s)
		}
		rows = append(rows, []string{
			InlineCode(c.Ident),
			c.Name,
			strings.Join(in, ", "),
			string(c.Out),
		})
	}
	w.Table([]string{"Constructor", "Symbol", "Arguments", "Result"}, rows)

	w.Header(3, "Variables")
	w.BulletList([]string{
		"wff: " + InlineCode(strings.Join(authoring.WffVars, " ")),
		"setvar: " + InlineCode(strings.Join(authoring.SetvarVars, " ")),
	})

	w.Header(3, InlineCode("module"))
	w.Table([]string{"Property", "Type", "Description"}, [][]string{
		{InlineCode("module.origin"), "string", "Origin of the module being built"},
		{InlineCode("module.builtins_origin"), "string", "Origin of the builtin prelude"},
	})

	return w.String()
}

// generateFullGlobalsDoc generates a complete globals.md file.
func generateFullGlobalsDoc(filepath string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Script Globals", "Builtins available in Metamath Prelude build scripts")
	w.GeneratedMarker()

	w.Header(1, "Script Globals")
	w.Paragraph("Each .star file in the scripts directory builds one module. These names are predeclared in every script.")

	w.Text(generateGlobalsReferenceSection())

	return os.WriteFile(filepath, w.Bytes(), 0600)
}

// updateGlobalsDoc updates the generated section in an existing file.
func updateGlobalsDoc(filepath, content string) error {
	markerIdx := strings.Index(content, "## Reference")
	if markerIdx == -1 {
		return appendGlobalsDoc(filepath, content)
	}

	newContent := strings.TrimSpace(content[:markerIdx]) + "\n\n" + generateGlobalsReferenceSection()
	return os.WriteFile(filepath, []byte(newContent), 0600)
}

// appendGlobalsDoc appends the generated reference section to an existing file.
func appendGlobalsDoc(filepath, content string) error {
	newContent := strings.TrimSpace(content) + "\n\n" + generateGlobalsReferenceSection()
	return os.WriteFile(filepath, []byte(newContent), 0600)
}
