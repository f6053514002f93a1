// Package engine builds proof databases: it runs the build scripts, writes
// one Metamath file per module and records each build in the state store.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/epistemic-frontier/metamath-prelude/internal/mmdb"
	"github.com/epistemic-frontier/metamath-prelude/internal/script"
	"github.com/epistemic-frontier/metamath-prelude/internal/state"
	"github.com/epistemic-frontier/metamath-prelude/pkg/rules"
)

// MMExt is the extension of written database files.
const MMExt = ".mm"

// Engine orchestrates builds.
type Engine struct {
	cfg    Config
	runner *script.Runner
	store  *state.Store
	logger *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// ScriptsDir is the directory holding *.star build scripts
	ScriptsDir string
	// OutDir receives one .mm file per module (empty disables writing)
	OutDir string
	// Origin names the built-in prelude module, built when ScriptsDir holds no scripts
	Origin string
	// BuiltinsOrigin overrides the builtin token origin of every session
	BuiltinsOrigin string
	// Registry defaults to rules.Hilbert
	Registry *rules.Registry
	// Concurrency bounds parallel script execution; zero means unbounded
	Concurrency int
	// Store records build history (optional)
	Store *state.Store
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates a new engine.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Origin == "" {
		cfg.Origin = mmdb.DefaultOrigin
	}
	if cfg.ScriptsDir == "" {
		return nil, fmt.Errorf("scripts directory is required")
	}

	logger.Debug("initializing engine", "scripts_dir", cfg.ScriptsDir, "out_dir", cfg.OutDir)

	return &Engine{
		cfg: cfg,
		runner: script.NewRunner(script.Config{
			BuiltinsOrigin: cfg.BuiltinsOrigin,
			Registry:       cfg.Registry,
			Concurrency:    cfg.Concurrency,
			Logger:         logger,
		}),
		store:  cfg.Store,
		logger: logger,
	}, nil
}

// ScriptsDir returns the watched scripts directory.
func (e *Engine) ScriptsDir() string { return e.cfg.ScriptsDir }

// OutDir returns the output directory.
func (e *Engine) OutDir() string { return e.cfg.OutDir }
