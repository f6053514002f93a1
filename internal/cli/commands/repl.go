package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/epistemic-frontier/metamath-prelude/internal/mmdb"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/rules"
	"github.com/spf13/cobra"
)

const (
	replPrompt = "prelude> "
	// lastName is bound to the most recent result.
	lastName = "it"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	var noPrelude bool
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive proof session",
		Long: `Start an interactive session for applying rules by hand.

Formulas are written as whitespace separated math strings and bound to
names with .let. Rules are applied to bound names with .apply and the
result can be recorded as a theorem with .theorem. Type .help inside the
session for every command.`,
		Example: `  prelude repl

  prelude> .let h1 ph
  prelude> .let h2 ( ph -> ps )
  prelude> .apply mp h1 h2 as h3
  prelude> .theorem th1 h3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, noPrelude)
		},
	}
	cmd.Flags().BoolVar(&noPrelude, "no-prelude", false, "Start with an empty database")
	return cmd
}

func runREPL(cmd *cobra.Command, noPrelude bool) error {
	cmdCtx := NewCommandContext(cmd, "")
	sess, err := cmdCtx.NewSession()
	if err != nil {
		return err
	}
	if !noPrelude {
		if err := sess.LoadPrelude(); err != nil {
			return err
		}
	}

	historyFile := cmdCtx.Cfg.HistoryFile
	if historyFile != "" {
		if dir := filepath.Dir(historyFile); dir != "." {
			_ = os.MkdirAll(dir, 0750)
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Prelude REPL (module: %s)\n", sess.Origin())
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	repl := newREPL(sess, cmd.OutOrStdout(), cmd.ErrOrStderr())
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if repl.Eval(line) {
			break
		}
	}
	return nil
}

// repl evaluates session commands. It is independent of the terminal so the
// command set can be driven from tests.
type repl struct {
	sess   *mmdb.Session
	out    io.Writer
	errOut io.Writer
}

func newREPL(sess *mmdb.Session, out, errOut io.Writer) *repl {
	return &repl{sess: sess, out: out, errOut: errOut}
}

// Eval runs one input line and reports whether the session should end.
func (r *repl) Eval(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ".") {
		r.report(r.let(lastName, line))
		return false
	}

	parts := strings.Fields(line)
	command, args := strings.ToLower(parts[0]), parts[1:]
	switch command {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(r.out)
	case ".let":
		if len(args) < 2 {
			r.usage(".let <name>[:sort] <math>")
			return false
		}
		r.report(r.let(args[0], strings.Join(args[1:], " ")))
	case ".apply":
		if len(args) < 1 {
			r.usage(".apply <rule> [name...] [as <name>]")
			return false
		}
		r.report(r.apply(args[0], args[1:], false))
	case ".schema":
		if len(args) < 1 {
			r.usage(".schema <axiom> [name...] [as <name>]")
			return false
		}
		r.report(r.apply(args[0], args[1:], true))
	case ".theorem":
		if len(args) != 2 {
			r.usage(".theorem <label> <name>")
			return false
		}
		r.report(r.theorem(args[0], args[1]))
	case ".show":
		r.show(args)
	case ".rules":
		for _, info := range rules.Hilbert.Infos() {
			_, _ = fmt.Fprintf(r.out, "  %-6s %-5s %s\n", info.Label, info.Kind, info.Sig)
		}
	case ".mm":
		_, _ = fmt.Fprint(r.out, r.sess.DB().String())
	case ".clear":
		_, _ = fmt.Fprint(r.out, "\033[H\033[2J")
	default:
		_, _ = fmt.Fprintf(r.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func (r *repl) report(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
	}
}

func (r *repl) usage(s string) {
	_, _ = fmt.Fprintf(r.errOut, "Usage: %s\n", s)
}

func (r *repl) print(name string, w formula.Wff) {
	_, _ = fmt.Fprintf(r.out, "%s : %s %s\n", name, w.Sort, r.sess.Render(w))
}

// let binds name to a parsed math string. "name:sort" sets the sort.
func (r *repl) let(name, text string) error {
	sort := formula.SortWff
	if n, s, ok := strings.Cut(name, ":"); ok {
		so, valid := formula.ParseSort(s)
		if !valid {
			return fmt.Errorf("unknown sort %q", s)
		}
		name, sort = n, so
	}
	w, err := r.sess.Parse(text, sort)
	if err != nil {
		return err
	}
	if err := r.sess.Let(name, w); err != nil {
		return err
	}
	r.print(name, w)
	return nil
}

// apply applies a rule or schema to bound names, binding the result to the
// name after "as", or to "it".
func (r *repl) apply(label string, args []string, schema bool) error {
	target := lastName
	if n := len(args); n >= 2 && args[n-2] == "as" {
		target, args = args[n-1], args[:n-2]
	}
	hyps := make([]formula.Wff, len(args))
	for i, a := range args {
		w, err := r.sess.Lookup(a)
		if err != nil {
			return err
		}
		hyps[i] = w
	}

	var (
		w   formula.Wff
		err error
	)
	if schema {
		w, err = r.sess.Instantiate(label, hyps...)
	} else {
		w, err = r.sess.Apply(label, hyps...)
	}
	if err != nil {
		return err
	}
	if err := r.sess.Let(target, w); err != nil {
		return err
	}
	r.print(target, w)
	return nil
}

func (r *repl) theorem(label, name string) error {
	w, err := r.sess.Lookup(name)
	if err != nil {
		return err
	}
	if err := r.sess.Theorem(label, w); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(r.out, "%s $p |- %s $= ? $.\n", label, r.sess.Render(w))
	return nil
}

func (r *repl) show(names []string) {
	if len(names) == 0 {
		names = r.sess.Names()
	}
	for _, n := range names {
		w, err := r.sess.Lookup(n)
		if err != nil {
			r.report(err)
			continue
		}
		r.print(n, w)
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .let <name>[:sort] <math>            Bind a formula (sort defaults to wff)
  .apply <rule> [name...] [as <name>]  Apply a rule to bound formulas
  .schema <axiom> [name...] [as <name>]
                                       Instantiate a syntax axiom schema
  .theorem <label> <name>              Record a bound formula as a theorem
  .show [name...]                      Show bound formulas
  .rules                               List rules
  .mm                                  Print the database
  .clear                               Clear the screen
  .quit / .exit                        Exit the REPL

Tips:
  - A line without a leading dot is bound to "it"
  - Math strings are split on whitespace: ( ph -> ps )
  - Tab completion works for commands and rule labels
`
	_, _ = fmt.Fprintln(w, help)
}

// newREPLCompleter creates a readline completer for commands and rule labels.
func newREPLCompleter() *readline.PrefixCompleter {
	var labels []readline.PrefixCompleterInterface
	for _, l := range rules.Hilbert.Labels() {
		labels = append(labels, readline.PcItem(l))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".let"),
		readline.PcItem(".apply", labels...),
		readline.PcItem(".schema"),
		readline.PcItem(".theorem"),
		readline.PcItem(".show"),
		readline.PcItem(".rules"),
		readline.PcItem(".mm"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
