package commands

import (
	"fmt"
	"strconv"

	"github.com/epistemic-frontier/metamath-prelude/internal/cli/output"
	"github.com/epistemic-frontier/metamath-prelude/pkg/rules"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Kind   string // Filter by kind: axiom, rule
	Format string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [label]",
		Short: "List the registered inference rules",
		Long: `List the rules of the Hilbert registry with their signatures.

Axioms build formulas from their arguments. Rules derive a conclusion
from hypotheses and check the shape of each hypothesis.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # List all rules
  prelude rules

  # Show one rule
  prelude rules mp

  # List inference rules only
  prelude rules --kind rule

  # Export the catalog as YAML
  prelude rules --format yaml`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return rules.Hilbert.Labels(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "", "Filter by kind: axiom, rule")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	_ = cmd.RegisterFlagCompletionFunc("kind", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(rules.KindAxiom), string(rules.KindRule)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// RulesOutput is the structured output for rules listing.
type RulesOutput struct {
	Rules []rules.Info `json:"rules" yaml:"rules"`
	Count struct {
		Axioms int `json:"axioms" yaml:"axioms"`
		Rules  int `json:"rules" yaml:"rules"`
		Total  int `json:"total" yaml:"total"`
	} `json:"count" yaml:"count"`
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	r := NewCommandContext(cmd, opts.Format).Renderer

	switch rules.Kind(opts.Kind) {
	case "", rules.KindAxiom, rules.KindRule:
	default:
		return fmt.Errorf("unknown rule kind %q (want axiom or rule)", opts.Kind)
	}

	var infos []rules.Info
	for _, info := range rules.Hilbert.Infos() {
		if opts.Kind != "" && string(info.Kind) != opts.Kind {
			continue
		}
		infos = append(infos, info)
	}

	out := RulesOutput{Rules: infos}
	for _, info := range infos {
		if info.Kind == rules.KindAxiom {
			out.Count.Axioms++
		} else {
			out.Count.Rules++
		}
	}
	out.Count.Total = len(infos)
	if out.Rules == nil {
		out.Rules = []rules.Info{}
	}

	if ok, err := r.Structured(out); ok {
		return err
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Hilbert Rules"))
	} else {
		r.Println(r.Styles().Header1.Render(fmt.Sprintf("Hilbert Rules (%d axioms, %d rules)", out.Count.Axioms, out.Count.Rules)))
	}
	r.Println("")

	for _, kind := range []rules.Kind{rules.KindAxiom, rules.KindRule} {
		var rows [][]string
		for _, info := range infos {
			if info.Kind == kind {
				rows = append(rows, []string{info.Label, info.Sig, strconv.Itoa(info.Arity), info.Summary})
			}
		}
		if len(rows) == 0 {
			continue
		}
		r.Header(2, kindHeading(kind))
		r.Table([]string{"Label", "Signature", "Arity", "Summary"}, rows)
		r.Println("")
	}

	if r.EffectiveMode() != output.ModeMarkdown {
		r.Muted("Use 'prelude rules <label>' for one rule")
	}
	return nil
}

func showRule(cmd *cobra.Command, label string, opts *RulesOptions) error {
	r := NewCommandContext(cmd, opts.Format).Renderer

	def, ok := rules.Hilbert.Get(label)
	if !ok {
		return fmt.Errorf("rule %q not found", label)
	}
	info := rules.InfoOf(def)

	if ok, err := r.Structured(info); ok {
		return err
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, info.Label))
		r.Println("")
		r.Println(output.FormatKeyValue("Kind", string(info.Kind)))
		r.Println(output.FormatKeyValue("Signature", "`"+info.Sig+"`"))
		r.Println(output.FormatKeyValue("Arity", strconv.Itoa(info.Arity)))
		if info.Summary != "" {
			r.Println("")
			r.Println(info.Summary)
		}
		return nil
	}

	styles := r.Styles()
	r.Println(styles.Header1.Render(info.Label))
	r.Printf("  %s: %s\n", styles.Bold.Render("Kind"), info.Kind)
	r.Printf("  %s: %s\n", styles.Bold.Render("Signature"), info.Sig)
	r.Printf("  %s: %d\n", styles.Bold.Render("Arity"), info.Arity)
	if info.Summary != "" {
		r.Println("")
		r.Println("  " + info.Summary)
	}
	return nil
}

// kindHeading returns the plural heading for a rule kind ("Axioms").
func kindHeading(k rules.Kind) string {
	return cases.Title(language.English).String(string(k)) + "s"
}
