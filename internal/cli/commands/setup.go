package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/epistemic-frontier/metamath-prelude/internal/cli/config"
	"github.com/epistemic-frontier/metamath-prelude/internal/cli/output"
	"github.com/epistemic-frontier/metamath-prelude/internal/mmdb"
	"github.com/epistemic-frontier/metamath-prelude/internal/state"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
// A non-empty format overrides the configured output mode.
func NewCommandContext(cmd *cobra.Command, format string) *CommandContext {
	cfg := getConfig()
	mode := output.Mode(cfg.OutputFormat)
	if format != "" {
		mode = output.Mode(format)
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// NewSession creates an authoring session for the configured origins.
func (c *CommandContext) NewSession() (*mmdb.Session, error) {
	return mmdb.NewSession(mmdb.Options{
		Origin:         c.Cfg.Origin,
		BuiltinsOrigin: c.Cfg.BuiltinsOrigin,
		Logger:         c.Logger,
	})
}

// OpenStore opens and migrates the state database.
// Returns the store and a cleanup function that must be called (typically via defer).
func (c *CommandContext) OpenStore(ctx context.Context) (*state.Store, func(), error) {
	path := c.Cfg.StatePath
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	store := state.NewStore(c.Logger)
	if err := store.Open(path); err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	cfg := config.Default()
	cfg.Origin = getEnvOrDefault(config.EnvPrefix+"ORIGIN", cfg.Origin)
	cfg.BuiltinsOrigin = getEnvOrDefault(config.EnvPrefix+"BUILTINS_ORIGIN", cfg.BuiltinsOrigin)
	cfg.ScriptsDir = getEnvOrDefault(config.EnvPrefix+"SCRIPTS_DIR", cfg.ScriptsDir)
	cfg.OutDir = getEnvOrDefault(config.EnvPrefix+"OUT_DIR", cfg.OutDir)
	cfg.StatePath = getEnvOrDefault(config.EnvPrefix+"STATE_PATH", cfg.StatePath)
	cfg.HistoryFile = getEnvOrDefault(config.EnvPrefix+"HISTORY_FILE", cfg.HistoryFile)
	cfg.OutputFormat = getEnvOrDefault(config.EnvPrefix+"OUTPUT", cfg.OutputFormat)
	cfg.Verbose = os.Getenv(config.EnvPrefix+"VERBOSE") == "true"
	if n, err := strconv.Atoi(os.Getenv(config.EnvPrefix + "CONCURRENCY")); err == nil {
		cfg.Concurrency = n
	}
	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
