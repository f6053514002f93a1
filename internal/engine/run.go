package engine

// run.go - Build orchestration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/epistemic-frontier/metamath-prelude/internal/mmdb"
	"github.com/epistemic-frontier/metamath-prelude/internal/script"
	"github.com/epistemic-frontier/metamath-prelude/internal/state"
)

// Module is one database produced by a build.
type Module struct {
	Name       string        `json:"name" yaml:"name"`
	Script     string        `json:"script,omitempty" yaml:"script,omitempty"`
	Output     string        `json:"output,omitempty" yaml:"output,omitempty"`
	Statements int           `json:"statements" yaml:"statements"`
	Exports    []string      `json:"exports" yaml:"exports"`
	Duration   time.Duration `json:"duration" yaml:"duration"`

	DB *mmdb.DB `json:"-" yaml:"-"`
}

// Result summarizes a build.
type Result struct {
	BuildID  string            `json:"build_id,omitempty" yaml:"build_id,omitempty"`
	Status   state.BuildStatus `json:"status" yaml:"status"`
	Builtin  bool              `json:"builtin,omitempty" yaml:"builtin,omitempty"`
	Modules  []Module          `json:"modules" yaml:"modules"`
	Duration time.Duration     `json:"duration" yaml:"duration"`
	Error    string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// Build runs every script in the scripts directory, or the built-in prelude
// when there are none, then writes and records the resulting modules.
// A failed build still returns its Result.
func (e *Engine) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{Status: state.BuildRunning, Modules: []Module{}}

	if e.store != nil {
		b, err := e.store.CreateBuild(ctx)
		if err != nil {
			return nil, err
		}
		res.BuildID = b.ID
		e.logger.Debug("created build", "build_id", b.ID)
	}

	err := e.build(ctx, res)
	res.Duration = time.Since(start)
	if err != nil {
		res.Status = state.BuildFailed
		res.Error = err.Error()
		e.logger.Info("build failed", "build_id", res.BuildID, "error", err)
	} else {
		res.Status = state.BuildSuccess
		e.logger.Info("build completed", "build_id", res.BuildID, "modules", len(res.Modules), "duration", res.Duration)
	}

	if e.store != nil {
		// The build context may already be canceled; the outcome is still recorded.
		if cerr := e.store.CompleteBuild(context.WithoutCancel(ctx), res.BuildID, res.Status, res.Error); cerr != nil && err == nil {
			err = cerr
		}
	}
	return res, err
}

func (e *Engine) build(ctx context.Context, res *Result) error {
	modules, builtin, err := e.produce(ctx)
	if err != nil {
		return err
	}
	res.Builtin = builtin

	for i := range modules {
		m := &modules[i]
		if err := e.write(m); err != nil {
			return err
		}
		if e.store != nil {
			row := state.Module{Name: m.Name, Path: m.Script, Duration: m.Duration}
			if err := e.store.RecordModule(ctx, res.BuildID, row, m.DB); err != nil {
				return err
			}
		}
		res.Modules = append(res.Modules, *m)
	}
	return nil
}

// produce runs the scripts, falling back to the built-in prelude.
func (e *Engine) produce(ctx context.Context) ([]Module, bool, error) {
	paths, err := script.Discover(e.cfg.ScriptsDir)
	if err != nil {
		return nil, false, err
	}

	if len(paths) == 0 {
		e.logger.Debug("no build scripts, building prelude", "dir", e.cfg.ScriptsDir, "origin", e.cfg.Origin)
		m, err := e.prelude()
		if err != nil {
			return nil, false, err
		}
		return []Module{m}, true, nil
	}

	results, err := e.runner.RunAll(ctx, paths)
	if err != nil {
		return nil, false, err
	}
	modules := make([]Module, len(results))
	for i, r := range results {
		modules[i] = moduleOf(r.Module, r.Path, r.Session.DB(), r.Duration)
	}
	return modules, false, nil
}

func (e *Engine) prelude() (Module, error) {
	start := time.Now()
	sess, err := mmdb.NewSession(mmdb.Options{
		Origin:         e.cfg.Origin,
		BuiltinsOrigin: e.cfg.BuiltinsOrigin,
		Registry:       e.cfg.Registry,
		Logger:         e.logger,
	})
	if err != nil {
		return Module{}, err
	}
	if err := sess.LoadPrelude(); err != nil {
		return Module{}, err
	}
	if err := sess.ExportPrelude(); err != nil {
		return Module{}, err
	}
	return moduleOf(e.cfg.Origin, "", sess.DB(), time.Since(start)), nil
}

func moduleOf(name, path string, db *mmdb.DB, d time.Duration) Module {
	exports := db.Exports()
	if exports == nil {
		exports = []string{}
	}
	return Module{
		Name:       name,
		Script:     path,
		Statements: len(db.Statements()),
		Exports:    exports,
		Duration:   d,
		DB:         db,
	}
}

// write stores m as <OutDir>/<name>.mm.
func (e *Engine) write(m *Module) error {
	if e.cfg.OutDir == "" {
		return nil
	}
	if err := os.MkdirAll(e.cfg.OutDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(e.cfg.OutDir, m.Name+MMExt)
	if err := os.WriteFile(path, []byte(m.DB.String()), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	m.Output = path
	e.logger.Debug("module written", "module", m.Name, "path", path)
	return nil
}
