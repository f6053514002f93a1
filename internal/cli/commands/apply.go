package commands

import (
	"fmt"

	"github.com/epistemic-frontier/metamath-prelude/internal/cli/output"
	"github.com/epistemic-frontier/metamath-prelude/internal/mmdb"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/epistemic-frontier/metamath-prelude/pkg/rules"
	"github.com/spf13/cobra"
)

// ApplyOptions holds options for the apply command.
type ApplyOptions struct {
	Schema bool     // Instantiate a syntax axiom schema instead of a rule
	Sorts  []string // Per-argument sort overrides
	Format string
}

// NewApplyCommand creates the apply command.
func NewApplyCommand() *cobra.Command {
	opts := &ApplyOptions{}
	cmd := &cobra.Command{
		Use:   "apply <label> [hypothesis...]",
		Short: "Apply a rule to math strings",
		Long: `Apply a registered rule to hypotheses written as math strings.

Math strings are split on whitespace. Builtin tokens such as "(" and "->"
resolve to the builtin set; every other token is a variable of the
configured origin. Hypothesis sorts follow the rule signature unless
--sort overrides them.`,
		Example: `  # Modus ponens
  prelude apply mp "ph" "( ph -> ps )"

  # Build a universal quantification
  prelude apply wal x ph

  # Instantiate a syntax axiom schema
  prelude apply --schema wceq x y`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return rules.Hilbert.Labels(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args[0], args[1:], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Schema, "schema", false, "Instantiate a syntax axiom schema")
	cmd.Flags().StringSliceVar(&opts.Sorts, "sort", nil, "Argument sorts in order (wff, setvar, class)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

// ApplyOutput is the structured result of the apply command.
type ApplyOutput struct {
	Label  string   `json:"label" yaml:"label"`
	Schema bool     `json:"schema,omitempty" yaml:"schema,omitempty"`
	Hyps   []string `json:"hyps" yaml:"hyps"`
	Sort   string   `json:"sort" yaml:"sort"`
	Result string   `json:"result" yaml:"result"`
}

func runApply(cmd *cobra.Command, label string, texts []string, opts *ApplyOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	sess, err := cmdCtx.NewSession()
	if err != nil {
		return err
	}

	var declared []formula.Sort
	if !opts.Schema {
		def, ok := rules.Hilbert.Get(label)
		if !ok {
			return fmt.Errorf("%w: %s", rules.ErrUnknownRule, label)
		}
		declared = def.Sig.In
	}
	sorts, err := argSorts(len(texts), declared, opts.Sorts)
	if err != nil {
		return err
	}
	hyps, err := parseArgs(sess, texts, sorts)
	if err != nil {
		return err
	}

	var w formula.Wff
	if opts.Schema {
		w, err = sess.Instantiate(label, hyps...)
	} else {
		w, err = sess.Apply(label, hyps...)
	}
	if err != nil {
		return err
	}

	out := ApplyOutput{
		Label:  label,
		Schema: opts.Schema,
		Hyps:   texts,
		Sort:   string(w.Sort),
		Result: sess.Render(w),
	}
	if out.Hyps == nil {
		out.Hyps = []string{}
	}
	if ok, err := r.Structured(out); ok {
		return err
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, label))
		r.Println("")
		for i, h := range texts {
			r.Println(output.FormatKeyValue(fmt.Sprintf("Hyp %d", i+1), "`"+string(sorts[i])+" "+h+"`"))
		}
		r.Println(output.FormatKeyValue("Result", "`"+out.Sort+" "+out.Result+"`"))
		return nil
	}

	styles := r.Styles()
	for i, h := range texts {
		r.Printf("  %s %s %s\n", styles.Muted.Render(fmt.Sprintf("%d.", i+1)), styles.Info.Render(string(sorts[i])), h)
	}
	r.Printf("  %s %s %s\n", styles.Success.Render("⊢"), styles.Info.Render(out.Sort), out.Result)
	return nil
}

// argSorts resolves the sort of each of n arguments: explicit overrides
// first, then the declared signature, then wff.
func argSorts(n int, declared []formula.Sort, overrides []string) ([]formula.Sort, error) {
	if len(overrides) > n {
		return nil, fmt.Errorf("%d sorts given for %d arguments", len(overrides), n)
	}
	sorts := make([]formula.Sort, n)
	for i := range sorts {
		switch {
		case i < len(overrides):
			so, ok := formula.ParseSort(overrides[i])
			if !ok {
				return nil, fmt.Errorf("unknown sort %q", overrides[i])
			}
			sorts[i] = so
		case i < len(declared):
			sorts[i] = declared[i]
		default:
			sorts[i] = formula.SortWff
		}
	}
	return sorts, nil
}

func parseArgs(sess *mmdb.Session, texts []string, sorts []formula.Sort) ([]formula.Wff, error) {
	out := make([]formula.Wff, len(texts))
	for i, text := range texts {
		w, err := sess.Parse(text, sorts[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = w
	}
	return out, nil
}
