package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/epistemic-frontier/metamath-prelude/internal/cli"
	"github.com/epistemic-frontier/metamath-prelude/internal/cli/config"
	"github.com/epistemic-frontier/metamath-prelude/pkg/rules"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// seeAlso links commands to the generated references they work with.
var seeAlso = map[string][]string{
	"rules": {"[Hilbert rules](/rules/)"},
	"apply": {"[Hilbert rules](/rules/)"},
	"repl":  {"[Hilbert rules](/rules/)"},
	"build": {"[Script globals](/scripting/)"},
	"init":  {"[Script globals](/scripting/)"},
}

// generateCLIDocs writes an index page and one page per command, including
// nested subcommands such as "history show".
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := map[string]*MarkdownWriter{"index": cliIndex(root)}
	for _, cmd := range documented(root) {
		pages[pageName(cmd)] = commandPage(cmd)
	}

	for name, w := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name+".md"), w.Bytes(), 0600); err != nil {
			return fmt.Errorf("failed to write %s.md: %w", name, err)
		}
	}
	log.Printf("  Generated %d pages", len(pages))
	return nil
}

// documented returns every visible command below root, depth first.
func documented(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if !cmd.IsAvailableCommand() || cmd.Name() == "help" {
			continue
		}
		out = append(out, cmd)
		out = append(out, documented(cmd)...)
	}
	return out
}

// pageName is the command path without the binary name: "history-show".
func pageName(cmd *cobra.Command) string {
	parts := strings.Fields(cmd.CommandPath())
	return strings.Join(parts[1:], "-")
}

func pageLink(cmd *cobra.Command) string {
	path := strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" ")
	return fmt.Sprintf("[%s](/cli/%s)", InlineCode(path), pageName(cmd))
}

func cliIndex(root *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for Metamath Prelude")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/epistemic-frontier/metamath-prelude/cmd/prelude@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documented(root) {
		rows = append(rows, []string{pageLink(cmd), cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Configuration")
	w.Paragraph("Settings come from prelude.yaml, then " + config.EnvPrefix + " environment variables, then flags. Later sources win. Relative paths in prelude.yaml resolve against the directory holding it; path flags resolve against the working directory.")
	w.Table([]string{"Flag", "Key", "Environment", "Values", "Description"}, configRows(root))

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Error, including failed builds and rule applications"},
	})
	return w
}

// configRows describes the root flags that are backed by a config key.
func configRows(root *cobra.Command) [][]string {
	var rows [][]string
	root.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		key, ok := config.FlagKey(f.Name)
		if !ok || f.Hidden {
			return
		}
		rows = append(rows, []string{
			flagName(f),
			InlineCode(key),
			InlineCode(config.EnvVar(key)),
			flagValues(root, f),
			cleanDescription(f.Usage),
		})
	})
	return rows
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	title := strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" ")
	w.Frontmatter(title, cleanDescription(cmd.Short))
	w.GeneratedMarker()

	w.Header(1, title)
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	use := cmd.UseLine()
	if cmd.HasAvailableSubCommands() {
		use = cmd.CommandPath() + " <subcommand>"
	}
	w.CodeBlock("bash", use)

	if args := argumentRows(cmd); len(args) > 0 {
		w.Header(2, "Arguments")
		w.Paragraph("The first argument completes to:")
		w.Table([]string{"Value", "Description"}, args)
	}

	if cmd.HasAvailableSubCommands() {
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				rows = append(rows, []string{pageLink(sub), cleanDescription(sub.Short)})
			}
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		var rows [][]string
		cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
			if f.Hidden {
				return
			}
			rows = append(rows, []string{flagName(f), defaultValue(f), flagValues(cmd, f), cleanDescription(f.Usage)})
		})
		w.Table([]string{"Option", "Default", "Values", "Description"}, rows)
	}

	if cmd.HasAvailableInheritedFlags() {
		var names []string
		cmd.InheritedFlags().VisitAll(func(f *pflag.Flag) {
			if !f.Hidden {
				names = append(names, InlineCode("--"+f.Name))
			}
		})
		w.Paragraph("Global options: " + strings.Join(names, ", ") + ". See [Configuration](/cli/#configuration).")
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}

	var links []string
	if cmd.HasParent() && cmd.Parent() != cmd.Root() {
		links = append(links, pageLink(cmd.Parent()))
	}
	links = append(links, seeAlso[cmd.Name()]...)
	if len(links) > 0 {
		w.Header(2, "See Also")
		w.BulletList(links)
	}
	return w
}

// argumentRows lists the completions of a command's first positional
// argument. Rule labels carry their registry summary.
func argumentRows(cmd *cobra.Command) [][]string {
	values := slices.Clone(cmd.ValidArgs)
	if cmd.ValidArgsFunction != nil {
		got, _ := cmd.ValidArgsFunction(cmd, nil, "")
		values = append(values, got...)
	}

	var rows [][]string
	for _, v := range values {
		choice, desc, _ := strings.Cut(v, "\t")
		if def, ok := rules.Hilbert.Get(choice); ok {
			desc = fmt.Sprintf("%s %s: %s", def.Kind, def.Sig, def.Summary)
		}
		rows = append(rows, []string{InlineCode(choice), desc})
	}
	return rows
}

// flagValues lists the values offered by the flag's completion function.
func flagValues(cmd *cobra.Command, f *pflag.Flag) string {
	fn, ok := cmd.GetFlagCompletionFunc(f.Name)
	if !ok {
		return ""
	}
	got, _ := fn(cmd, nil, "")
	values := make([]string, len(got))
	for i, v := range got {
		choice, _, _ := strings.Cut(v, "\t")
		values[i] = InlineCode(choice)
	}
	return strings.Join(values, " ")
}

func flagName(f *pflag.Flag) string {
	name := InlineCode("--" + f.Name)
	if f.Shorthand != "" {
		name += ", " + InlineCode("-"+f.Shorthand)
	}
	return name
}

func defaultValue(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "[]", "false", "0":
		return ""
	}
	return InlineCode(f.DefValue)
}

// cleanExample strips the indentation shared by all non-blank lines.
func cleanExample(example string) string {
	lines := strings.Split(strings.Trim(example, "\n"), "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
