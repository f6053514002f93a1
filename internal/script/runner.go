package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/epistemic-frontier/metamath-prelude/internal/mmdb"
	"github.com/epistemic-frontier/metamath-prelude/pkg/rules"
	"go.starlark.net/starlark"
	"golang.org/x/sync/errgroup"
)

// Ext is the build script file extension.
const Ext = ".star"

// Config configures a Runner.
type Config struct {
	// BuiltinsOrigin overrides the builtin token origin of every session.
	BuiltinsOrigin string
	// Registry defaults to rules.Hilbert.
	Registry *rules.Registry
	// Concurrency bounds RunAll; zero means unbounded.
	Concurrency int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Runner executes build scripts, one session per script.
type Runner struct {
	cfg    Config
	logger *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Result is the outcome of one script.
type Result struct {
	// Module is derived from the file name ("prop" from "prop.star").
	Module   string
	Path     string
	Session  *mmdb.Session
	Globals  starlark.StringDict
	Duration time.Duration
}

// ScriptError reports a failed script.
type ScriptError struct {
	File      string
	Err       error
	Backtrace string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// RunFile executes the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) (*Result, error) {
	src, err := os.ReadFile(path) //nolint:gosec // G304: path is a script chosen by the user
	if err != nil {
		return nil, &ScriptError{File: path, Err: fmt.Errorf("failed to read file: %w", err)}
	}
	res, err := r.RunSource(ctx, path, src)
	if err != nil {
		return nil, err
	}
	res.Path = path
	return res, nil
}

// RunSource executes src as the script named filename.
func (r *Runner) RunSource(ctx context.Context, filename string, src []byte) (*Result, error) {
	module := strings.TrimSuffix(filepath.Base(filename), Ext)
	if err := validateModule(module); err != nil {
		return nil, &ScriptError{File: filename, Err: err}
	}

	logger := r.logger.With("module", module)
	sess, err := mmdb.NewSession(mmdb.Options{
		Origin:         module,
		BuiltinsOrigin: r.cfg.BuiltinsOrigin,
		Registry:       r.cfg.Registry,
		Logger:         logger,
	})
	if err != nil {
		return nil, &ScriptError{File: filename, Err: err}
	}

	thread := &starlark.Thread{
		Name: "build:" + module,
		Print: func(_ *starlark.Thread, msg string) {
			logger.Info(msg)
		},
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	start := time.Now()
	globals, err := starlark.ExecFile(thread, filename, src, Predeclared(sess, logger)) //nolint:staticcheck // SA1019: will migrate to ExecFileOptions later
	if err != nil {
		serr := &ScriptError{File: filename, Err: err}
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			serr.Backtrace = evalErr.Backtrace()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			serr.Err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		return nil, serr
	}

	elapsed := time.Since(start)
	logger.Debug("script done", "statements", len(sess.DB().Statements()), "duration", elapsed)
	return &Result{
		Module:   module,
		Path:     filename,
		Session:  sess,
		Globals:  globals,
		Duration: elapsed,
	}, nil
}

// Discover lists the build scripts in dir, sorted by name. A missing
// directory yields no scripts.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to access scripts directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scripts path is not a directory: %s", dir)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*"+Ext))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scripts directory: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// RunAll executes paths concurrently and returns results in input order.
// The first failure cancels the remaining scripts.
func (r *Runner) RunAll(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if r.cfg.Concurrency > 0 {
		g.SetLimit(r.cfg.Concurrency)
	}
	for i, p := range paths {
		g.Go(func() error {
			res, err := r.RunFile(gctx, p)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunDir discovers and runs every script in dir.
func (r *Runner) RunDir(ctx context.Context, dir string) ([]*Result, error) {
	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("discovered scripts", "dir", dir, "count", len(paths))
	return r.RunAll(ctx, paths)
}

// validateModule checks that a module name is an identifier.
func validateModule(name string) error {
	if name == "" {
		return fmt.Errorf("module name cannot be empty")
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return fmt.Errorf("invalid module name %q: want a letter or underscore followed by letters, digits or underscores", name)
		}
	}
	return nil
}
