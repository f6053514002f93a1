package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/epistemic-frontier/metamath-prelude/internal/cli/config"
	"github.com/epistemic-frontier/metamath-prelude/internal/cli/output"
	"github.com/epistemic-frontier/metamath-prelude/internal/engine"
	"github.com/epistemic-frontier/metamath-prelude/internal/script"
	"github.com/epistemic-frontier/metamath-prelude/internal/state"
	"github.com/spf13/cobra"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, markdown, json, yaml
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run a project health check",
		Long: `Check the project configuration, scripts and state database.

The doctor command evaluates every script without writing output and reports:
- Project summary (scripts, modules, statements, recorded builds)
- Health checks grouped by category
- Health score (0-100)
- Actionable recommendations`,
		Example: `  # Run health check
  prelude doctor

  # Output as JSON
  prelude doctor --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

// DoctorOutput is the structured output for the doctor command.
type DoctorOutput struct {
	Summary         ProjectSummary `json:"summary" yaml:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks" yaml:"health_checks"`
	Score           int            `json:"score" yaml:"score"`
	Recommendations []string       `json:"recommendations" yaml:"recommendations"`
	IssueCount      int            `json:"issue_count" yaml:"issue_count"`
}

// ProjectSummary contains project-level statistics.
type ProjectSummary struct {
	Scripts    int `json:"scripts" yaml:"scripts"`
	Modules    int `json:"modules" yaml:"modules"`
	Statements int `json:"statements" yaml:"statements"`
	Exports    int `json:"exports" yaml:"exports"`
	Builds     int `json:"builds" yaml:"builds"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id" yaml:"rule_id"`
	Name       string   `json:"name" yaml:"name"`
	Group      string   `json:"group" yaml:"group"`
	Status     string   `json:"status" yaml:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count" yaml:"issue_count"`
	Details    []string `json:"details,omitempty" yaml:"details,omitempty"`
}

// finding is one issue raised by a check.
type finding struct {
	ruleID  string
	message string
}

type checkDef struct {
	id, name, group string
	severity        string
}

var doctorChecks = []checkDef{
	{"CF01", "config-file", "configuration", "warn"},
	{"CF02", "scripts-dir", "configuration", "error"},
	{"SC01", "scripts-evaluate", "scripts", "error"},
	{"SC02", "module-exports", "scripts", "warn"},
	{"ST01", "state-database", "state", "error"},
	{"ST02", "latest-build", "state", "warn"},
	{"OU01", "output-dir", "output", "warn"},
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	ctx := commandContext(cmd)
	summary, findings := diagnose(ctx, cmdCtx)
	out := buildDoctorOutput(summary, findings)

	if ok, err := r.Structured(out); ok {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		return renderDoctorMarkdown(r, out)
	}
	return renderDoctorText(r, out)
}

// diagnose runs every check against the configured project.
func diagnose(ctx context.Context, cmdCtx *CommandContext) (ProjectSummary, []finding) {
	cfg := cmdCtx.Cfg
	var (
		summary  ProjectSummary
		findings []finding
	)
	add := func(id, format string, args ...any) {
		findings = append(findings, finding{ruleID: id, message: fmt.Sprintf(format, args...)})
	}

	if config.GetConfigFileUsed() == "" {
		add("CF01", "no prelude.yaml found, using defaults and PRELUDE_* variables")
	}

	if err := cfg.ValidateDirectories(); err != nil {
		add("CF02", "scripts directory does not exist: %s", cfg.ScriptsDir)
	} else {
		paths, err := script.Discover(cfg.ScriptsDir)
		if err != nil {
			add("SC01", "%v", err)
		}
		summary.Scripts = len(paths)

		res, err := dryRun(ctx, cmdCtx)
		if err != nil {
			add("SC01", "%v", err)
		}
		if res != nil {
			summary.Modules = len(res.Modules)
			for _, m := range res.Modules {
				summary.Statements += m.Statements
				summary.Exports += len(m.Exports)
				if len(m.Exports) == 0 && !res.Builtin {
					add("SC02", "module %s exports nothing", m.Name)
				}
			}
		}
	}

	findings = append(findings, checkState(ctx, cmdCtx, &summary)...)

	if _, err := os.Stat(cfg.OutDir); os.IsNotExist(err) {
		add("OU01", "output directory does not exist yet: %s", cfg.OutDir)
	}
	return summary, findings
}

// dryRun evaluates the scripts without writing or recording anything.
func dryRun(ctx context.Context, cmdCtx *CommandContext) (*engine.Result, error) {
	cfg := cmdCtx.Cfg
	eng, err := engine.New(engine.Config{
		ScriptsDir:     cfg.ScriptsDir,
		Origin:         cfg.Origin,
		BuiltinsOrigin: cfg.BuiltinsOrigin,
		Concurrency:    cfg.Concurrency,
		Logger:         cmdCtx.Logger,
	})
	if err != nil {
		return nil, err
	}
	return eng.Build(ctx)
}

func checkState(ctx context.Context, cmdCtx *CommandContext, summary *ProjectSummary) []finding {
	path := cmdCtx.Cfg.StatePath
	if path != ":memory:" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return []finding{{"ST02", "no builds recorded yet, run 'prelude build'"}}
		}
	}

	store, cleanup, err := cmdCtx.OpenStore(ctx)
	if err != nil {
		return []finding{{"ST01", err.Error()}}
	}
	defer cleanup()

	builds, err := store.ListBuilds(ctx, 0)
	if err != nil {
		return []finding{{"ST01", err.Error()}}
	}
	summary.Builds = len(builds)
	if len(builds) == 0 {
		return []finding{{"ST02", "no builds recorded yet, run 'prelude build'"}}
	}
	if latest := builds[0]; latest.Status == state.BuildFailed {
		return []finding{{"ST02", fmt.Sprintf("latest build %s failed: %s", latest.ID, latest.Error)}}
	}
	return nil
}

func buildDoctorOutput(summary ProjectSummary, findings []finding) *DoctorOutput {
	byRule := make(map[string][]finding)
	for _, f := range findings {
		byRule[f.ruleID] = append(byRule[f.ruleID], f)
	}

	checks := make([]HealthCheck, 0, len(doctorChecks))
	for _, def := range doctorChecks {
		found := byRule[def.id]
		status := "pass"
		if len(found) > 0 {
			status = def.severity
		}
		details := make([]string, 0, len(found))
		for _, f := range found {
			details = append(details, f.message)
		}
		checks = append(checks, HealthCheck{
			RuleID:     def.id,
			Name:       def.name,
			Group:      def.group,
			Status:     status,
			IssueCount: len(found),
			Details:    details,
		})
	}

	// Sort health checks by group then by rule ID
	sort.SliceStable(checks, func(i, j int) bool {
		if checks[i].Group != checks[j].Group {
			return checks[i].Group < checks[j].Group
		}
		return checks[i].RuleID < checks[j].RuleID
	})

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    checks,
		Score:           calculateHealthScore(checks),
		Recommendations: generateRecommendations(checks),
		IssueCount:      len(findings),
	}
}

// calculateHealthScore computes a health score from 0-100.
// Warnings cost 5 points per issue and errors count double.
func calculateHealthScore(checks []HealthCheck) int {
	score := 100
	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= check.IssueCount * 10
		case "warn":
			score -= check.IssueCount * 5
		}
	}
	return max(score, 0)
}

// generateRecommendations creates actionable recommendations based on findings.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	seen := make(map[string]bool)

	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}
		rec := getRecommendation(check.RuleID)
		if rec != "" && !seen[rec] {
			recommendations = append(recommendations, rec)
			seen[rec] = true
		}
	}

	// Limit to top 5 recommendations
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}
	return recommendations
}

// getRecommendation returns a recommendation for a specific check.
func getRecommendation(ruleID string) string {
	switch ruleID {
	case "CF01":
		return "Run 'prelude init' to create a prelude.yaml"
	case "CF02":
		return "Create the scripts directory or point --scripts-dir at an existing one"
	case "SC01":
		return "Fix the failing script, 'prelude apply' checks single rule applications"
	case "SC02":
		return "Call export() so downstream databases can reference the module"
	case "ST01":
		return "Remove or repair the state database"
	case "ST02":
		return "Run 'prelude build' to record a successful build"
	case "OU01":
		return "Run 'prelude build' to write the output databases"
	default:
		return ""
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("Metamath Prelude Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Project Summary"))
	r.Printf("   Scripts: %d | Modules: %d | Statements: %d\n", out.Summary.Scripts, out.Summary.Modules, out.Summary.Statements)
	r.Printf("   Exports: %d | Recorded builds: %d\n", out.Summary.Exports, out.Summary.Builds)
	r.Println("")

	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.Error.Render("✗")
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}
	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# Metamath Prelude Health Report")
	r.Println("")

	r.Println("## Project Summary")
	r.Println("")
	r.Println(output.FormatKeyValue("Scripts", fmt.Sprint(out.Summary.Scripts)))
	r.Println(output.FormatKeyValue("Modules", fmt.Sprint(out.Summary.Modules)))
	r.Println(output.FormatKeyValue("Statements", fmt.Sprint(out.Summary.Statements)))
	r.Println(output.FormatKeyValue("Exports", fmt.Sprint(out.Summary.Exports)))
	r.Println(output.FormatKeyValue("Recorded builds", fmt.Sprint(out.Summary.Builds)))
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		status := strings.ToUpper(check.Status)
		r.Printf("- **[%s]** %s: %s", status, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}
	return nil
}
