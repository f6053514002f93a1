package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/epistemic-frontier/metamath-prelude/internal/cli/output"
	"github.com/epistemic-frontier/metamath-prelude/internal/state"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options shared by the history subcommands.
type HistoryOptions struct {
	Limit  int
	Format string
}

// NewHistoryCommand creates the history command and its subcommands.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded builds",
		Long: `Inspect the builds recorded in the state database.

Without a subcommand the most recent builds are listed.`,
		Example: `  # List recent builds
  prelude history

  # Show the modules of a build
  prelude history show <build-id>

  # Find every recorded statement with a label
  prelude history find ax-mp

  # Print a stored database
  prelude history mm <build-id> <module>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listBuilds(cmd, opts)
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of builds to list")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <build-id>",
			Short: "Show the modules of a build",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return showBuild(cmd, args[0], opts)
			},
		},
		&cobra.Command{
			Use:   "find <label>",
			Short: "Find recorded statements by label",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return findLabel(cmd, args[0], opts)
			},
		},
		&cobra.Command{
			Use:   "mm <build-id> <module>",
			Short: "Print a stored Metamath database",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return printStoredMM(cmd, args[0], args[1])
			},
		},
	)
	return cmd
}

func listBuilds(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer
	store, cleanup, err := cmdCtx.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	builds, err := store.ListBuilds(cmd.Context(), opts.Limit)
	if err != nil {
		return err
	}
	if builds == nil {
		builds = []*state.Build{}
	}
	if ok, err := r.Structured(builds); ok {
		return err
	}

	r.Header(1, "Builds")
	if len(builds) == 0 {
		r.Muted("No builds recorded. Run 'prelude build' first.")
		return nil
	}
	rows := make([][]string, len(builds))
	for i, b := range builds {
		rows[i] = []string{b.ID, string(b.Status), b.StartedAt.Local().Format(time.DateTime), buildDuration(b), b.Error}
	}
	r.Table([]string{"Build", "Status", "Started", "Duration", "Error"}, rows)
	return nil
}

func buildDuration(b *state.Build) string {
	if b.FinishedAt == nil {
		return ""
	}
	return b.FinishedAt.Sub(b.StartedAt).Round(time.Millisecond).String()
}

// BuildDetail is the structured output of history show.
type BuildDetail struct {
	state.Build `yaml:",inline"`
	Modules     []state.Module `json:"modules" yaml:"modules"`
}

func showBuild(cmd *cobra.Command, id string, opts *HistoryOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer
	store, cleanup, err := cmdCtx.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	b, err := store.GetBuild(cmd.Context(), id)
	if err != nil {
		return err
	}
	mods, err := store.ListModules(cmd.Context(), id)
	if err != nil {
		return err
	}
	if mods == nil {
		mods = []state.Module{}
	}
	if ok, err := r.Structured(BuildDetail{Build: *b, Modules: mods}); ok {
		return err
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Build "+b.ID))
		r.Println("")
		r.Println(output.FormatKeyValue("Status", string(b.Status)))
		r.Println(output.FormatKeyValue("Started", b.StartedAt.Format(time.RFC3339)))
		if b.Error != "" {
			r.Println(output.FormatKeyValue("Error", b.Error))
		}
		r.Println("")
	} else {
		r.Header(1, "Build "+b.ID)
		r.StatusLine("status", string(b.Status), b.Error)
	}

	rows := make([][]string, len(mods))
	for i, m := range mods {
		rows[i] = []string{m.Name, strconv.Itoa(m.Statements), strings.Join(m.Exports, " "), m.Path}
	}
	if len(rows) > 0 {
		r.Table([]string{"Module", "Statements", "Exports", "Script"}, rows)
	}
	return nil
}

func findLabel(cmd *cobra.Command, label string, opts *HistoryOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer
	store, cleanup, err := cmdCtx.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	found, err := store.FindLabel(cmd.Context(), label)
	if err != nil {
		return err
	}
	if found == nil {
		found = []state.StatementRow{}
	}
	if ok, err := r.Structured(found); ok {
		return err
	}
	if len(found) == 0 {
		return fmt.Errorf("label %q: %w", label, state.ErrNotFound)
	}

	rows := make([][]string, len(found))
	for i, st := range found {
		rows[i] = []string{st.BuildID, st.Module, "$" + st.Kind, st.Typecode + " " + st.Math}
	}
	r.Table([]string{"Build", "Module", "Kind", "Statement"}, rows)
	return nil
}

func printStoredMM(cmd *cobra.Command, id, module string) error {
	cmdCtx := NewCommandContext(cmd, "")
	store, cleanup, err := cmdCtx.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	mods, err := store.ListModules(cmd.Context(), id)
	if err != nil {
		return err
	}
	for _, m := range mods {
		if m.Name == module {
			_, err := fmt.Fprint(cmd.OutOrStdout(), m.MM)
			return err
		}
	}
	return fmt.Errorf("module %s of build %s: %w", module, id, state.ErrNotFound)
}
