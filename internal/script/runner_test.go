package script

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/epistemic-frontier/metamath-prelude/internal/authoring"
	"github.com/epistemic-frontier/metamath-prelude/internal/mmdb"
	"github.com/epistemic-frontier/metamath-prelude/internal/testutil"
	"github.com/epistemic-frontier/metamath-prelude/pkg/formula"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

const propScript = `
prelude()

c("T.")
a("wtru", "wff", ["T."])
a("ax-1", "|-", Imp(ph, Imp(ps, ph)))
a("ax-mp-demo", "|-", "( ph -> ph )")

t = rule("mp", parse("ph"), parse("( ph -> ( ps -> ph ) )"))
theorem("th1", t)
theorem("th2", rule("simpl", And(ph, ps)))
let("h", Or(ph, ps))

shown = str(Imp(ph, And(ps, ch)))
sym = compile(Forall(x, Elem(x, y))).symbols
neg = schema("wn", get("h"))
info = module.origin

export("th1", "ax-1")
`

func newRunner(t *testing.T) *Runner {
	t.Helper()
	return NewRunner(Config{Logger: testutil.NewTestLogger(t)})
}

func TestRunSource(t *testing.T) {
	res, err := newRunner(t).RunSource(context.Background(), "prop.star", []byte(propScript))
	require.NoError(t, err)
	assert.Equal(t, "prop", res.Module)

	db := res.Session.DB()
	assert.Equal(t, "prop", db.Origin())

	tests := []struct {
		label string
		want  string
	}{
		{"wtru", "wff T."},
		{"ax-1", "|- ( ph -> ( ps -> ph ) )"},
		{"ax-mp-demo", "|- ( ph -> ph )"},
		{"th1", "|- ( ps -> ph )"},
		{"th2", "|- ph"},
	}
	for _, tt := range tests {
		st, ok := db.Statement(tt.label)
		require.True(t, ok, tt.label)
		assert.Equal(t, tt.want, st.Typecode+" "+st.Math(), tt.label)
	}
	assert.Equal(t, []string{"th1", "ax-1"}, db.Exports())

	assert.Equal(t, starlark.String("ph → ps ∧ ch"), res.Globals["shown"])
	assert.Equal(t, "-. ( ph \\/ ps )", res.Globals["neg"].(*Formula).String())
	assert.Equal(t, starlark.String("prop"), res.Globals["info"])
	assert.Equal(t, `["A.", "x", "x", "e.", "y"]`, res.Globals["sym"].String())

	h, ok := res.Session.Get("h")
	require.True(t, ok)
	assert.Equal(t, `( ph \/ ps )`, res.Session.Render(h))
}

func TestRunSource_PreludeExportsOnlyNamed(t *testing.T) {
	src := `
prelude()
a("ax-1", "|-", Imp(ph, Imp(ps, ph)))
export("ax-1")
`
	res, err := newRunner(t).RunSource(context.Background(), "logic.star", []byte(src))
	require.NoError(t, err)

	db := res.Session.DB()
	assert.Equal(t, []string{"ax-1"}, db.Exports())
	for _, name := range []string{"wimp", "wph", "->"} {
		_, declared := db.Statement(name)
		assert.True(t, declared || db.IsConst(name), "%s is declared but not exported", name)
	}
}

func TestRunSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		file    string
		wantMsg string
	}{
		{"shape error", `rule("mp", parse("ph"), parse("ps"))`, "bad.star", "mp: expected token shape '( phi -> psi )'"},
		{"antecedent", `rule("mp", parse("ch"), parse("( ph -> ps )"))`, "bad.star", "mp: antecedent mismatch"},
		{"unknown rule", `rule("ax-7", parse("ph"))`, "bad.star", "unknown rule: ax-7"},
		{"ctor arity", `Imp(ph)`, "bad.star", "Imp: expects 2 args, got 1"},
		{"ctor arg type", `Imp(ph, "ps")`, "bad.star", "want expr, got string"},
		{"schema arity", `schema("wimp", ph)`, "bad.star", "axiom schema 'wimp': expects 2 args, got 1"},
		{"undeclared", `a("ax", "wff", ["ph"])`, "bad.star", "typecode is not a constant"},
		{"double prelude", "prelude()\nprelude()", "bad.star", "symbol already declared"},
		{"syntax error", `a(`, "bad.star", "got end of file"},
		{"bad module name", `pass`, "1bad.star", "invalid module name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newRunner(t).RunSource(context.Background(), tt.file, []byte(tt.src))
			require.Error(t, err)
			var serr *ScriptError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.file, serr.File)
			assert.True(t, strings.HasPrefix(err.Error(), tt.file+": "), err.Error())
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestRunSource_ForeignFormula(t *testing.T) {
	// Formulas are session-bound; a value smuggled in from another session
	// is rejected instead of being read through the wrong interner.
	other, err := mmdb.NewSession(mmdb.Options{})
	require.NoError(t, err)
	ph, err := other.Parse("ph", formula.SortWff)
	require.NoError(t, err)

	sess, err := mmdb.NewSession(mmdb.Options{})
	require.NoError(t, err)
	_, err = toWff(sess, "rule", 0, &Formula{w: ph, s: other})
	assert.ErrorContains(t, err, "belongs to another session")
}

func TestRunSource_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := `
def spin():
    for i in range(1 << 40):
        pass

spin()
`
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := newRunner(t).RunSource(ctx, "spin.star", []byte(src))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b_second.star": "prelude()\nexport(\"wn\")\n",
		"a_first.star":  "c(\"T.\")\n",
		"notes.txt":     "ignored",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	r := NewRunner(Config{Concurrency: 2, Logger: testutil.NewTestLogger(t)})
	results, err := r.RunDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a_first", results[0].Module)
	assert.Equal(t, "b_second", results[1].Module)
	assert.Equal(t, filepath.Join(dir, "a_first.star"), results[0].Path)
	assert.NotSame(t, results[0].Session, results[1].Session)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c_bad.star"), []byte(`rule("mp")`), 0o644))
	_, err = r.RunDir(context.Background(), dir)
	assert.ErrorContains(t, err, "c_bad.star")

	none, err := r.RunDir(context.Background(), filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestExprAttrs(t *testing.T) {
	x := &Expr{expr: authoring.Var{Name: "x", Sort: formula.SortSetvar}}
	v, err := x.Attr("sort")
	require.NoError(t, err)
	assert.Equal(t, starlark.String("setvar"), v)
	v, err = x.Attr("ctor")
	require.NoError(t, err)
	assert.Equal(t, starlark.None, v)

	imp := &Expr{expr: authoring.Imp(authoring.Var{Name: "ph"}, authoring.Var{Name: "ps"})}
	v, err = imp.Attr("ctor")
	require.NoError(t, err)
	assert.Equal(t, starlark.String("Imp"), v)
	assert.Equal(t, "ph → ps", imp.String())
	assert.Equal(t, "expr", imp.Type())
}
