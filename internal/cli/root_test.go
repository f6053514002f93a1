package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/epistemic-frontier/metamath-prelude/internal/cli/config"
	"github.com/epistemic-frontier/metamath-prelude/internal/cli/output"
	"github.com/epistemic-frontier/metamath-prelude/internal/cli/testutil"
	"github.com/epistemic-frontier/metamath-prelude/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"version", "rules", "apply", "build", "repl", "history", "init", "doctor", "completion"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	for _, flag := range []string{"config", "origin", "builtins-origin", "scripts-dir", "out-dir", "state", "history-file", "concurrency", "log-level", "log-format", "verbose", "output"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCmd_BuildFromConfigFile(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)

	out, errOut, err := execute(t, "build")
	require.NoError(t, err, errOut)
	testutil.AssertContains(t, out, "# Build")
	testutil.AssertContains(t, out, "| logic |")
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
	assert.FileExists(t, filepath.Join(dir, "build", "logic.mm"))
	assert.FileExists(t, filepath.Join(dir, ".prelude", "state.db"))

	out, _, err = execute(t, "history", "-o", "json")
	require.NoError(t, err)
	var builds []state.Build
	require.NoError(t, json.Unmarshal([]byte(out), &builds))
	require.Len(t, builds, 1)
	assert.Equal(t, state.BuildSuccess, builds[0].Status)
}

func TestRootCmd_FlagOverridesConfigFile(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)
	other := t.TempDir()

	_, errOut, err := execute(t, "build", "--out-dir", other, "--state", ":memory:")
	require.NoError(t, err, errOut)
	assert.FileExists(t, filepath.Join(other, "logic.mm"))
	assert.NoFileExists(t, filepath.Join(dir, "build", "logic.mm"))
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"output", []string{"--output", "bogus", "version"}, `unknown output format "bogus"`},
		{"origin", []string{"--origin", "1bad", "version"}, `origin "1bad"`},
		{"log level", []string{"--log-level", "loud", "version"}, "loud"},
		{"concurrency", []string{"--concurrency=-1", "version"}, "concurrency must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRootCmd_Completion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := execute(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "prelude")
		})
	}

	_, _, err := execute(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestGetConfig_Default(t *testing.T) {
	assert.Equal(t, config.Default(), GetConfig(context.Background()))

	cfg := config.Default()
	cfg.Origin = "custom"
	ctx := context.WithValue(context.Background(), configKey{}, cfg)
	assert.Same(t, cfg, GetConfig(ctx))
}

func TestGetRenderer(t *testing.T) {
	assert.NotNil(t, GetRenderer(context.Background()))

	tr := testutil.NewTestRendererMarkdown()
	ctx := context.WithValue(context.Background(), rendererKey{}, tr.Renderer)
	r := GetRenderer(ctx)
	require.Same(t, tr.Renderer, r)

	r.Header(1, "Builds")
	testutil.AssertOutputMode(t, tr, output.ModeMarkdown)
	testutil.AssertContains(t, tr.Output(), "# Builds")
}
