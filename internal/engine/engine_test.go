package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/epistemic-frontier/metamath-prelude/internal/mmdb"
	"github.com/epistemic-frontier/metamath-prelude/internal/state"
	"github.com/epistemic-frontier/metamath-prelude/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const axiomScript = `
prelude()
a("ax-1", "|-", Imp(ph, Imp(ps, ph)))
export("ax-1")
`

const brokenScript = `
prelude()
rule("mp", parse("ph"))
`

func newStore(t *testing.T) *state.Store {
	t.Helper()
	store := state.NewStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func writeScript(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600))
}

func newEngine(t *testing.T, scripts string, store *state.Store) (*Engine, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out")
	eng, err := New(Config{
		ScriptsDir: scripts,
		OutDir:     out,
		Store:      store,
		Logger:     testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	return eng, out
}

func TestNew_RequiresScriptsDir(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestBuild_BuiltinPrelude(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	eng, out := newEngine(t, filepath.Join(t.TempDir(), "missing"), store)

	res, err := eng.Build(ctx)
	require.NoError(t, err)
	assert.True(t, res.Builtin)
	assert.Equal(t, state.BuildSuccess, res.Status)
	require.Len(t, res.Modules, 1)

	m := res.Modules[0]
	assert.Equal(t, "prelude", m.Name)
	assert.Equal(t, filepath.Join(out, "prelude.mm"), m.Output)
	assert.Equal(t, mmdb.PreludeNames(), m.Exports)

	data, err := os.ReadFile(m.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "$( module prelude $)")
	assert.Contains(t, string(data), "wimp $a wff ( ph -> ps ) $.")

	b, err := store.GetBuild(ctx, res.BuildID)
	require.NoError(t, err)
	assert.Equal(t, state.BuildSuccess, b.Status)
	mods, err := store.ListModules(ctx, res.BuildID)
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, m.Statements, mods[0].Statements)
}

func TestBuild_Scripts(t *testing.T) {
	ctx := context.Background()
	scripts := t.TempDir()
	writeScript(t, scripts, "logic.star", axiomScript)
	writeScript(t, scripts, "notes.txt", "ignored")
	store := newStore(t)
	eng, out := newEngine(t, scripts, store)

	res, err := eng.Build(ctx)
	require.NoError(t, err)
	assert.False(t, res.Builtin)
	require.Len(t, res.Modules, 1)
	assert.Equal(t, "logic", res.Modules[0].Name)
	assert.Equal(t, []string{"ax-1"}, res.Modules[0].Exports)
	assert.FileExists(t, filepath.Join(out, "logic.mm"))

	rows, err := store.FindLabel(ctx, "ax-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "( ph -> ( ps -> ph ) )", rows[0].Math)
}

func TestBuild_FailedScript(t *testing.T) {
	ctx := context.Background()
	scripts := filepath.Join(t.TempDir(), "proofs")
	require.NoError(t, os.MkdirAll(scripts, 0o750))
	writeScript(t, scripts, "broken.star", brokenScript)
	store := newStore(t)
	eng, out := newEngine(t, scripts, store)

	res, err := eng.Build(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), filepath.Join(scripts, "broken.star")+": ")
	assert.NotContains(t, err.Error(), "scripts/")
	require.NotNil(t, res)
	assert.Equal(t, state.BuildFailed, res.Status)
	assert.Empty(t, res.Modules)
	assert.NoDirExists(t, out)

	b, err := store.GetBuild(ctx, res.BuildID)
	require.NoError(t, err)
	assert.Equal(t, state.BuildFailed, b.Status)
	assert.Contains(t, b.Error, "mp")
}

func TestBuild_WithoutStoreOrOutput(t *testing.T) {
	eng, err := New(Config{ScriptsDir: t.TempDir(), Origin: "core"})
	require.NoError(t, err)

	res, err := eng.Build(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.BuildID)
	require.Len(t, res.Modules, 1)
	assert.Equal(t, "core", res.Modules[0].Name)
	assert.Empty(t, res.Modules[0].Output)
}

func TestWatch_RebuildsOnChange(t *testing.T) {
	scripts := t.TempDir()
	eng, out := newEngine(t, scripts, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	built := make(chan *Result, 4)
	done := make(chan error, 1)
	go func() {
		done <- eng.Watch(ctx, func(res *Result, err error) {
			if err == nil {
				built <- res
			}
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
	writeScript(t, scripts, "logic.star", axiomScript)

	select {
	case res := <-built:
		require.Len(t, res.Modules, 1)
		assert.Equal(t, "logic", res.Modules[0].Name)
		assert.FileExists(t, filepath.Join(out, "logic.mm"))
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after script change")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_MissingDir(t *testing.T) {
	eng, _ := newEngine(t, filepath.Join(t.TempDir(), "missing"), nil)
	err := eng.Watch(context.Background(), func(*Result, error) {})
	require.Error(t, err)
}
