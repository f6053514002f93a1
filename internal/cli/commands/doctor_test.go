package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDoctorCmd(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewDoctorCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func checkByID(t *testing.T, out DoctorOutput, id string) HealthCheck {
	t.Helper()
	for _, c := range out.HealthChecks {
		if c.RuleID == id {
			return c
		}
	}
	t.Fatalf("no health check %s", id)
	return HealthCheck{}
}

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name   string
		checks []HealthCheck
		want   int
	}{
		{"no checks returns 100", nil, 100},
		{
			name: "all passing returns 100",
			checks: []HealthCheck{
				{RuleID: "CF01", Status: "pass"},
				{RuleID: "SC01", Status: "pass"},
			},
			want: 100,
		},
		{
			name:   "warnings reduce score",
			checks: []HealthCheck{{RuleID: "SC02", Status: "warn", IssueCount: 2}},
			want:   90,
		},
		{
			name:   "errors count double",
			checks: []HealthCheck{{RuleID: "SC01", Status: "error", IssueCount: 1}},
			want:   90,
		},
		{
			name:   "clamped at zero",
			checks: []HealthCheck{{RuleID: "SC02", Status: "warn", IssueCount: 50}},
			want:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateHealthScore(tt.checks))
		})
	}
}

func TestGetRecommendation(t *testing.T) {
	for _, def := range doctorChecks {
		assert.NotEmpty(t, getRecommendation(def.id), "expected recommendation for %s", def.id)
	}
	assert.Empty(t, getRecommendation("UNKNOWN"))
}

func TestGenerateRecommendations(t *testing.T) {
	checks := []HealthCheck{
		{RuleID: "ST02", Status: "warn", IssueCount: 1},
		{RuleID: "OU01", Status: "warn", IssueCount: 1},
		{RuleID: "SC01", Status: "pass"},
	}
	recs := generateRecommendations(checks)
	require.Len(t, recs, 2)
	assert.Contains(t, recs[0], "successful build")
	assert.Contains(t, recs[1], "output databases")

	var all []HealthCheck
	for _, def := range doctorChecks {
		all = append(all, HealthCheck{RuleID: def.id, Status: def.severity, IssueCount: 1})
	}
	assert.Len(t, generateRecommendations(all), 5)
}

func TestDoctor_HealthyProject(t *testing.T) {
	p := setupProject(t)
	p.script(t, "logic.star", logicScript)
	_, _, err := runBuildCmd(t)
	require.NoError(t, err)

	var out DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(runDoctorCmd(t, "-f", "json")), &out))

	assert.Equal(t, ProjectSummary{Scripts: 1, Modules: 1, Statements: out.Summary.Statements, Exports: 1, Builds: 1}, out.Summary)
	assert.Positive(t, out.Summary.Statements)
	assert.Equal(t, 1, out.IssueCount)
	assert.Equal(t, "warn", checkByID(t, out, "CF01").Status)
	for _, id := range []string{"CF02", "SC01", "SC02", "ST01", "ST02", "OU01"} {
		assert.Equal(t, "pass", checkByID(t, out, id).Status, id)
	}
	assert.Equal(t, 95, out.Score)
}

func TestDoctor_BrokenProject(t *testing.T) {
	p := setupProject(t)
	p.script(t, "broken.star", `prelude()
rule("mp", parse("ph"), parse("ps"))
`)

	var out DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(runDoctorCmd(t, "-f", "json")), &out))
	sc01 := checkByID(t, out, "SC01")
	assert.Equal(t, "error", sc01.Status)
	require.Len(t, sc01.Details, 1)
	assert.Contains(t, sc01.Details[0], "expected token shape")
	assert.Equal(t, "warn", checkByID(t, out, "ST02").Status)
	assert.Equal(t, "warn", checkByID(t, out, "OU01").Status)
	assert.NoFileExists(t, p.state)

	md := runDoctorCmd(t)
	assert.Contains(t, md, "# Metamath Prelude Health Report")
	assert.Contains(t, md, "- **[ERROR]** SC01: scripts-evaluate (1 issues)")
	assert.Contains(t, md, "## Recommendations")
}

func TestDoctor_MissingScriptsDir(t *testing.T) {
	p := setupProject(t)
	t.Setenv("PRELUDE_SCRIPTS_DIR", filepath.Join(p.scripts, "missing"))

	var out DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(runDoctorCmd(t, "-f", "json")), &out))
	assert.Equal(t, "error", checkByID(t, out, "CF02").Status)
	assert.Equal(t, "pass", checkByID(t, out, "SC01").Status)

	text := runDoctorCmd(t, "-f", "text")
	assert.Contains(t, text, "CF02: scripts-dir (1 issues)")
	assert.Contains(t, text, "Health Score: 75/100")
}
